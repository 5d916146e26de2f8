package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"greencycle/internal/http/handlers"
	"greencycle/internal/middleware"
)

// NewRouter assembles the chi router with the shared middleware stack.
func NewRouter(app *handlers.App, logger zerolog.Logger, corsOrigins []string) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(corsOrigins),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	// Public
	r.Post("/v1/auth/register", app.AuthRegister)
	r.Post("/v1/auth/login", app.AuthLogin)
	r.Get("/v1/stats", app.StatsSummary)
	r.Get("/v1/leaderboard", app.Leaderboard)
	r.Get("/v1/centers", app.CentersList)

	// Authenticated
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.JWTSecret))
		r.Get("/v1/me", app.Me)
		r.Get("/v1/me/donations", app.DonationsMine)
		r.Post("/v1/donations", app.DonationsCreate)
		r.Get("/v1/uploads/{key}", app.UploadsGet)
	})

	return r
}
