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
	"github.com/padelhq/club-manager/config"
	"github.com/padelhq/club-manager/db"
	"github.com/padelhq/club-manager/handlers"
	"github.com/padelhq/club-manager/live"
	"github.com/padelhq/club-manager/repositories"
	api "github.com/padelhq/club-manager/routes"
	"github.com/padelhq/club-manager/services"

	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	feedHub := live.NewHub(logger)
	go feedHub.Run()
	logger.Info("availability feed hub started")

	memberRepo := repositories.NewPostgresMemberRepository(dbConn)
	courtRepo := repositories.NewPostgresCourtRepository(dbConn)
	reservationRepo := repositories.NewPostgresReservationRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	txBeginner := repositories.NewTxBeginner(dbConn)
	logger.Info("repositories initialized")

	memberService := services.NewMemberService(memberRepo)
	matchmakingService := services.NewMatchmakingService(txBeginner, memberRepo, matchRepo, logger)
	reservationService := services.NewReservationService(txBeginner, courtRepo, reservationRepo, feedHub, logger)
	logger.Info("services initialized")

	memberHandler := handlers.NewMemberHandler(memberService)
	matchmakingHandler := handlers.NewMatchmakingHandler(matchmakingService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	feedHandler := handlers.NewFeedHandler(feedHub, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		[]byte(cfg.JWTSecretKey),
		memberHandler,
		matchmakingHandler,
		reservationHandler,
		feedHandler,
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
		logger.Info("server stopped gracefully")
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
	logger.Info("application exited")
}
