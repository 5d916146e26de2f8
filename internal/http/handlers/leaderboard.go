package handlers

import "net/http"

const leaderboardSize = 10

// Leaderboard returns the top donors by diverted weight and by money given.
func (a *App) Leaderboard(w http.ResponseWriter, r *http.Request) {
	topWaste, err := a.Users.TopByDivertedWeight(r.Context(), leaderboardSize)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load waste leaderboard failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load leaderboard")
		return
	}
	topMoney, err := a.Donations.TopMoneyDonors(r.Context(), leaderboardSize)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load money leaderboard failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load leaderboard")
		return
	}

	waste := make([]map[string]any, 0, len(topWaste))
	for _, u := range topWaste {
		waste = append(waste, map[string]any{
			"username":                u.Username,
			"total_waste_diverted_kg": u.TotalWasteDivertedKg,
		})
	}
	money := make([]map[string]any, 0, len(topMoney))
	for _, e := range topMoney {
		money = append(money, map[string]any{
			"username":      e.Username,
			"total_donated": e.TotalAmount,
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"top_waste_donators": waste,
		"top_money_donators": money,
	})
}
