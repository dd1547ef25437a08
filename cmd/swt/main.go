package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/solwatch/swt/internal/alert"
	"github.com/solwatch/swt/internal/application/holders"
	"github.com/solwatch/swt/internal/application/ingest"
	"github.com/solwatch/swt/internal/application/subscription"
	"github.com/solwatch/swt/internal/application/tokens"
	"github.com/solwatch/swt/internal/infrastructure/chat"
	"github.com/solwatch/swt/internal/infrastructure/database"
	"github.com/solwatch/swt/internal/infrastructure/rpc"
	"github.com/solwatch/swt/internal/repositories/txrepo"
	"github.com/solwatch/swt/internal/repositories/walletrepo"
	"github.com/solwatch/swt/internal/server"
	"github.com/solwatch/swt/internal/server/websocket"
	"github.com/solwatch/swt/pkg/config"
	"github.com/solwatch/swt/pkg/logger"
)

func main() {
	logger := logger.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.ShutDown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	walletRepo := walletrepo.New(db, logger)
	txRepo := txrepo.New(db, logger)

	heliusClient := rpc.NewHeliusClient(cfg.Helius, logger)
	dexClient := rpc.NewDexScreenerClient(cfg.DexScreener, logger)

	tokenResolver := tokens.NewResolver(dexClient, logger)
	subscriptionMgr := subscription.NewManager(
		heliusClient,
		heliusClient.CallbackURL(),
		cfg.Tracker.PlaceholderAddress,
		logger,
	)
	holderAggregator := holders.NewAggregator(heliusClient, cfg.Tracker.HolderConcurrency, logger)
	formatter := alert.NewFormatter(cfg.Tracker.TxExplorerURL, cfg.Tracker.TokenExplorerURL)

	gateway, err := chat.NewTelegramGateway(
		cfg.Telegram,
		walletRepo,
		subscriptionMgr,
		heliusClient,
		holderAggregator,
		tokenResolver,
		formatter,
		logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to start telegram gateway")
	}

	hub := websocket.NewHub(logger)

	ingestSvc := ingest.NewIngestService(
		walletRepo,
		txRepo,
		tokenResolver,
		gateway,
		hub,
		formatter,
		logger,
	)

	srv := server.New(cfg, ingestSvc, walletRepo, txRepo, hub, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info().Msg("Shutdown signal received")
		cancel()
	}()

	// The webhook receiver and the command listener run independently; a
	// crash in one is logged and the process keeps serving the other.
	done := make(chan struct{}, 2)

	go func() {
		defer func() { done <- struct{}{} }()
		if err := srv.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("Webhook server stopped")
		}
	}()

	go func() {
		defer func() { done <- struct{}{} }()
		if err := gateway.Run(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("Telegram gateway stopped")
		}
	}()

	<-done
	<-done
	logger.Info().Msg("Shutdown complete")
}
