package handlers

import (
	"math"
	"net/http"
	"sort"

	"greencycle/internal/infra/geoip"
	"greencycle/internal/middleware"
)

type centerDTO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Phone      string   `json:"phone,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// CentersList returns all collection centers. When the client IP resolves
// through the GeoIP database, centers are ordered nearest first.
func (a *App) CentersList(w http.ResponseWriter, r *http.Request) {
	centers, err := a.Centers.List(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("load centers failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load centers")
		return
	}

	items := make([]centerDTO, 0, len(centers))
	for _, c := range centers {
		items = append(items, centerDTO{
			ID:        c.ID,
			Name:      c.Name,
			Address:   c.Address,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Phone:     c.Phone,
		})
	}

	if loc := a.resolveLocation(r); loc != nil {
		for i := range items {
			d := haversineKm(loc.Latitude, loc.Longitude, items[i].Latitude, items[i].Longitude)
			items[i].DistanceKm = &d
		}
		sort.SliceStable(items, func(i, j int) bool {
			return *items[i].DistanceKm < *items[j].DistanceKm
		})
	}

	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) resolveLocation(r *http.Request) *geoip.Location {
	if a.GeoIP == nil {
		return nil
	}
	ip := middleware.ClientIP(r)
	if ip == "" {
		return nil
	}
	loc, err := a.GeoIP.Locate(ip)
	if err != nil {
		return nil
	}
	return loc
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
