package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"greencycle/internal/domain"
	"greencycle/internal/infra/geoip"
	"greencycle/internal/middleware"
	"greencycle/internal/service"
)

// ImageReader serves previously stored upload bytes by key.
type ImageReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

// App is the handler container with everything the routes need.
type App struct {
	Logger      zerolog.Logger
	Users       domain.UserRepository
	Donations   domain.DonationRepository
	Centers     domain.CenterRepository
	Submissions *service.SubmissionService
	Images      ImageReader
	GeoIP       geoip.LocationResolver
	JWTSecret   string
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{"code": errCode, "message": message})
}

// fieldError reports a validation failure flagged to a single form field.
func (a *App) fieldError(w http.ResponseWriter, ve *domain.ValidationError) {
	a.json(w, http.StatusBadRequest, map[string]any{
		"code":    "validation_error",
		"field":   ve.Field,
		"message": ve.Reason,
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
