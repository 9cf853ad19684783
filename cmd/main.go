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

	"github.com/50RISHU/E-Sport-Calc/config"
	"github.com/50RISHU/E-Sport-Calc/db"
	"github.com/50RISHU/E-Sport-Calc/handlers"
	"github.com/50RISHU/E-Sport-Calc/live"
	"github.com/50RISHU/E-Sport-Calc/repositories"
	api "github.com/50RISHU/E-Sport-Calc/routes"
	"github.com/50RISHU/E-Sport-Calc/storage"
	"github.com/50RISHU/E-Sport-Calc/store"
	"github.com/go-chi/chi/v5"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort), slog.String("driver", string(cfg.Driver)))

	adapter, cleanup, err := buildAdapter(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize persistence adapter", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewR2Uploader(context.Background(), storage.R2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized")
	} else {
		logger.Info("logo storage not configured, uploads disabled")
	}

	tournamentStore := store.New(adapter, logger)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 15*time.Second)
	if err := tournamentStore.Load(loadCtx); err != nil {
		// Stale-but-available: start with an empty collection and let the
		// client retry via the reload endpoint.
		logger.Warn("initial load failed, starting with empty collection", slog.Any("error", err))
	}
	cancelLoad()

	hub := live.NewHub(logger)
	go hub.Run()
	tournamentStore.Subscribe(hub.BroadcastSnapshot)
	logger.Info("live hub started")

	tournamentHandler := handlers.NewTournamentHandler(tournamentStore, logger)
	teamHandler := handlers.NewTeamHandler(tournamentStore, uploader, logger)
	matchHandler := handlers.NewMatchHandler(tournamentStore, logger)
	scoringHandler := handlers.NewScoringHandler(tournamentStore, logger)
	webSocketHandler := handlers.NewWebSocketHandler(hub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{JWTSecret: []byte(cfg.JWTSecretKey), OwnerID: cfg.OwnerID},
		tournamentHandler,
		teamHandler,
		matchHandler,
		scoringHandler,
		webSocketHandler,
	)

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

func buildAdapter(cfg *config.Config, logger *slog.Logger) (repositories.Adapter, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		adapter, err := repositories.NewPostgresAdapter(dbConn, cfg.OwnerID, logger, repositories.PostgresOptions{})
		if err != nil {
			_ = dbConn.Close()
			return nil, nil, err
		}
		logger.Info("postgres adapter initialized")
		cleanup := func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			}
		}
		return adapter, cleanup, nil

	default:
		adapter, err := repositories.NewLocalAdapter(cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("local adapter initialized", slog.String("path", cfg.SQLitePath))
		return adapter, func() {}, nil
	}
}
