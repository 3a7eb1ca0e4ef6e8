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
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/wrestling-league/config"
	"github.com/Dosada05/wrestling-league/db"
	"github.com/Dosada05/wrestling-league/handlers"
	"github.com/Dosada05/wrestling-league/live"
	"github.com/Dosada05/wrestling-league/repositories"
	api "github.com/Dosada05/wrestling-league/routes"
	"github.com/Dosada05/wrestling-league/services"
	"github.com/Dosada05/wrestling-league/storage"
)

const shutdownTimeout = 15 * time.Second

// @title Wrestling League Match Acts API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		slog.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(ctx, cfg.DB(), logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	var uploader storage.FileUploader
	if cfg.R2().Enabled() {
		uploader, err = storage.NewR2Uploader(ctx, cfg.R2())
		if err != nil {
			return fmt.Errorf("failed to initialize R2 uploader: %w", err)
		}
		logger.Info("R2 act archive initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		uploader = storage.NewMemoryUploader(cfg.R2PublicBaseURL)
		logger.Warn("R2 is not configured, signed acts are archived in memory only")
	}

	hub := live.NewHub(logger)

	actRepo := repositories.NewPostgresActRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)

	matchService := services.NewMatchService(matchRepo)
	actService := services.NewActService(
		actRepo,
		matchRepo,
		services.NewMatchReconciler(dbConn, matchRepo, logger),
		logger,
		services.WithArchiver(services.NewActArchiver(uploader, actRepo, logger)),
		services.WithNotifier(hub),
	)
	scheduler, err := services.NewReconcileScheduler(actService, cfg.ReconcileInterval, logger)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{JWTSecret: []byte(cfg.JWTSecretKey), AllowedOrigins: cfg.CORSAllowedOrigins},
		handlers.NewMatchHandler(matchService),
		handlers.NewActHandler(actService),
		handlers.NewWebSocketHandler(hub, matchService, cfg.CORSAllowedOrigins, logger),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return scheduler.Run(gctx) })
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("application exited")
	return nil
}
