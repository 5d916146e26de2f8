package handlers

import "net/http"

// StatsSummary reports the program-wide total of diverted kilograms.
func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	total, err := a.Donations.TotalDivertedKg(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("load stats failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"total_diverted_kg": total})
}
