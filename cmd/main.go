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
	"github.com/jrdcruz/pageant-system/config"
	"github.com/jrdcruz/pageant-system/db"
	"github.com/jrdcruz/pageant-system/handlers"
	"github.com/jrdcruz/pageant-system/live"
	"github.com/jrdcruz/pageant-system/middleware"
	"github.com/jrdcruz/pageant-system/repositories"
	api "github.com/jrdcruz/pageant-system/routes"
	"github.com/jrdcruz/pageant-system/services"
	"github.com/jrdcruz/pageant-system/storage"
	_ "github.com/lib/pq"
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

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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

	resultsHub := live.NewHub(logger)
	go resultsHub.Run()
	logger.Info("live results hub started")

	yearRepo := repositories.NewPostgresYearRepository(dbConn)
	categoryRepo := repositories.NewPostgresCategoryRepository(dbConn)
	candidateRepo := repositories.NewPostgresCandidateRepository(dbConn)
	scoreRepo := repositories.NewPostgresScoreRepository(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)

	authService := services.NewAuthService(userRepo)
	yearService := services.NewYearService(yearRepo)
	categoryService := services.NewCategoryService(categoryRepo, yearRepo)
	candidateService := services.NewCandidateService(candidateRepo, uploader, logger)
	userService := services.NewUserService(userRepo, cfg.AllowedEmailDomain)
	ballotService := services.NewBallotService(yearRepo, categoryRepo, candidateRepo, scoreRepo, uploader, resultsHub)
	logger.Info("services initialized")

	authMiddleware := middleware.NewAuth(cfg.JWTSecretKey)

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	yearHandler := handlers.NewYearHandler(yearService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	candidateHandler := handlers.NewCandidateHandler(candidateService)
	userHandler := handlers.NewUserHandler(userService)
	ballotHandler := handlers.NewBallotHandler(ballotService)
	webSocketHandler := handlers.NewWebSocketHandler(resultsHub)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authMiddleware,
		authHandler,
		yearHandler,
		categoryHandler,
		candidateHandler,
		userHandler,
		ballotHandler,
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
		logger.Info("server shutdown complete")
	}
}
