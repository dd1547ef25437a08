package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/solwatch/swt/internal/application/ingest"
	"github.com/solwatch/swt/internal/repositories/txrepo"
	"github.com/solwatch/swt/internal/repositories/walletrepo"
	"github.com/solwatch/swt/internal/server/middleware"
	"github.com/solwatch/swt/internal/server/websocket"
	"github.com/solwatch/swt/pkg/config"
)

type Handlers struct {
	IngestSvc  ingest.IIngestService
	WalletRepo walletrepo.IWalletRepository
	TxRepo     txrepo.ITransactionRepository
	Hub        *websocket.Hub
	Logger     zerolog.Logger
	Config     *config.Config
}

func New(
	ingestSvc ingest.IIngestService,
	walletRepo walletrepo.IWalletRepository,
	txRepo txrepo.ITransactionRepository,
	hub *websocket.Hub,
	logger zerolog.Logger,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		IngestSvc:  ingestSvc,
		WalletRepo: walletRepo,
		TxRepo:     txRepo,
		Hub:        hub,
		Logger:     logger,
		Config:     cfg,
	}
}

func (h *Handlers) SetupHandlers(router *gin.Engine) {
	webhookHandler := NewWebhookHandler(h.IngestSvc, h.Logger)
	trackerHandler := NewTrackerHandler(h.WalletRepo, h.TxRepo, h.Logger)
	wsHandler := NewWebSocketHandler(h.Hub, h.Config.WebSocket, h.Logger)
	healthHandler := NewHealthHandler()

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Inbound notification endpoint; the notifier authenticates by URL
	// secrecy, not API key.
	router.POST("/helius", webhookHandler.HandleHeliusWebhook)

	v1 := router.Group("/v1")
	v1.Use(middleware.APIKeyAuth(h.Config.Security.APIKey))
	{
		v1.GET("/wallets", trackerHandler.ListWallets)
		v1.GET("/transactions", trackerHandler.ListTransactions)

		// Live alert feed
		v1.GET("/stream", wsHandler.HandleConnection)
	}
}
