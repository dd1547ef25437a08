package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/solwatch/swt/internal/application/ingest"
	"github.com/solwatch/swt/internal/repositories/txrepo"
	"github.com/solwatch/swt/internal/repositories/walletrepo"
	"github.com/solwatch/swt/internal/server/handlers"
	"github.com/solwatch/swt/internal/server/middleware"
	"github.com/solwatch/swt/internal/server/websocket"
	"github.com/solwatch/swt/pkg/config"
)

type Server struct {
	IngestSvc  ingest.IIngestService
	WalletRepo walletrepo.IWalletRepository
	TxRepo     txrepo.ITransactionRepository
	Hub        *websocket.Hub
	Cfg        *config.Config
	Logger     zerolog.Logger
	Router     *gin.Engine
	httpServer *http.Server
}

func New(
	cfg *config.Config,
	ingestSvc ingest.IIngestService,
	walletRepo walletrepo.IWalletRepository,
	txRepo txrepo.ITransactionRepository,
	hub *websocket.Hub,
	logger zerolog.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	return &Server{
		Cfg:        cfg,
		IngestSvc:  ingestSvc,
		WalletRepo: walletRepo,
		TxRepo:     txRepo,
		Hub:        hub,
		Logger:     logger,
		Router:     router,
	}
}

func (s *Server) SetupRouter() {
	mw := middleware.NewMiddleware(s.Logger)
	mw.SetupMiddleware(s.Router)

	handler := handlers.New(
		s.IngestSvc,
		s.WalletRepo,
		s.TxRepo,
		s.Hub,
		s.Logger,
		s.Cfg,
	)
	handler.SetupHandlers(s.Router)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.SetupRouter()

	go s.Hub.Run()

	s.httpServer = &http.Server{
		Addr:         s.Cfg.Server.Host + ":" + s.Cfg.Server.Port,
		Handler:      s.Router,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	errCh := make(chan error, 1)
	s.Logger.Info().Msgf("Starting server on %s", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.Logger.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	s.Logger.Info().Msg("Server exited gracefully")
	return nil
}
