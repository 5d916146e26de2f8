package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"greencycle/internal/adapter/repo"
	"greencycle/internal/grading"
	"greencycle/internal/http/handlers"
	httpapi "greencycle/internal/http/httpapi"
	"greencycle/internal/infra"
	"greencycle/internal/infra/geoip"
	"greencycle/internal/service"
	"greencycle/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	if err := infra.RunMigrations(ctx, cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init upload store")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}

	grader := grading.NewClient(grading.Options{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		BaseURL:     cfg.GeminiBaseURL,
		Timeout:     cfg.GradingTimeout,
		MaxAttempts: cfg.GradingMaxAttempts,
		Logger:      logger,
	})

	users := repo.NewUserRepository(dbpool)
	donations := repo.NewDonationRepository(dbpool)
	centers := repo.NewCenterRepository(dbpool)

	app := &handlers.App{
		Logger:      logger,
		Users:       users,
		Donations:   donations,
		Centers:     centers,
		Submissions: service.NewSubmissionService(donations, centers, store, grader, logger),
		Images:      store,
		GeoIP:       resolver,
		JWTSecret:   cfg.JWTSecret,
	}

	router := httpapi.NewRouter(app, logger, cfg.CORSAllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
