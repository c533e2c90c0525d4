package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/padelhq/club-manager/config"
	"github.com/padelhq/club-manager/db"
	"github.com/padelhq/club-manager/mcpserver"
	"github.com/padelhq/club-manager/repositories"
	"github.com/padelhq/club-manager/services"

	_ "github.com/lib/pq"
)

func main() {
	// Stdout carries the MCP protocol; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

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

	memberRepo := repositories.NewPostgresMemberRepository(dbConn)
	courtRepo := repositories.NewPostgresCourtRepository(dbConn)
	reservationRepo := repositories.NewPostgresReservationRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	txBeginner := repositories.NewTxBeginner(dbConn)

	memberService := services.NewMemberService(memberRepo)
	matchmakingService := services.NewMatchmakingService(txBeginner, memberRepo, matchRepo, logger)
	reservationService := services.NewReservationService(txBeginner, courtRepo, reservationRepo, nil, logger)

	server := mcpserver.New(memberService, matchmakingService, reservationService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting MCP server", slog.String("transport", cfg.MCPTransport))
	if err := mcpserver.Run(ctx, server, cfg.MCPTransport); err != nil {
		logger.Error("MCP server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("MCP server stopped")
}
