package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/fantasyfrc/draft-system/clients"
	"github.com/fantasyfrc/draft-system/config"
	"github.com/fantasyfrc/draft-system/db"
	"github.com/fantasyfrc/draft-system/handlers"
	"github.com/fantasyfrc/draft-system/live"
	"github.com/fantasyfrc/draft-system/middleware"
	"github.com/fantasyfrc/draft-system/repositories"
	api "github.com/fantasyfrc/draft-system/routes"
	"github.com/fantasyfrc/draft-system/services"
	"github.com/fantasyfrc/draft-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("object storage not configured, room logo uploads disabled")
	}

	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	txRunner := repositories.NewTxRunner(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	roomRepo := repositories.NewPostgresDraftRoomRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	pickRepo := repositories.NewPostgresPickRepository(dbConn)
	rosterRepo := repositories.NewPostgresRosterRepository(dbConn)
	matchupRepo := repositories.NewPostgresMatchupRepository(dbConn)
	inviteRepo := repositories.NewPostgresInviteRepository(dbConn)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	frcClient := clients.NewFRCClient(cfg.FRCAPIBaseURL, cfg.FRCAPIKey)
	teamService := services.NewTeamService(teamRepo, frcClient, logger)
	rosterService := services.NewRosterService(rosterRepo, roomRepo)
	scheduleService := services.NewScheduleService(txRunner, roomRepo, participantRepo, matchupRepo, cfg.SeasonWeeks, logger)
	inviteService := services.NewInviteService(inviteRepo, roomRepo)
	draftService := services.NewDraftService(
		txRunner,
		roomRepo,
		participantRepo,
		pickRepo,
		teamRepo,
		inviteRepo,
		rosterService,
		scheduleService,
		wsHub,
		uploader,
		logger,
	)
	logger.Info("services initialized")

	if cfg.TeamSyncEnabled {
		go func() {
			ticker := time.NewTicker(cfg.TeamSync)
			defer ticker.Stop()
			logger.Info("team catalog sync scheduler started", slog.Duration("interval", cfg.TeamSync))

			if _, err := teamService.SyncCatalog(context.Background()); err != nil {
				logger.Error("initial team catalog sync failed", slog.Any("error", err))
			}
			for range ticker.C {
				if _, err := teamService.SyncCatalog(context.Background()); err != nil {
					logger.Error("periodic team catalog sync failed", slog.Any("error", err))
				}
			}
		}()
	} else {
		logger.Warn("FRC API not configured, team catalog sync disabled")
	}

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	draftHandler := handlers.NewDraftHandler(draftService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, draftService)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		userHandler,
		teamHandler,
		draftHandler,
		rosterHandler,
		scheduleHandler,
		inviteHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
	}
	logger.Info("application exited")
}
