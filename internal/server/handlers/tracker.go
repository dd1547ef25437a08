package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/solwatch/swt/internal/repositories/txrepo"
	"github.com/solwatch/swt/internal/repositories/walletrepo"
)

// TrackerHandler serves the read-only operational API over the tracked
// state.
type TrackerHandler struct {
	walletRepo walletrepo.IWalletRepository
	txRepo     txrepo.ITransactionRepository
	logger     zerolog.Logger
}

func NewTrackerHandler(walletRepo walletrepo.IWalletRepository, txRepo txrepo.ITransactionRepository, logger zerolog.Logger) *TrackerHandler {
	return &TrackerHandler{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		logger:     logger,
	}
}

func (h *TrackerHandler) ListWallets(c *gin.Context) {
	wallets, err := h.walletRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list wallets")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list wallets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallets": wallets,
		"count":   len(wallets),
	})
}

func (h *TrackerHandler) ListTransactions(c *gin.Context) {
	wallet := c.Query("wallet")

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 500"})
			return
		}
		limit = parsed
	}

	records, err := h.txRepo.ListRecent(c.Request.Context(), wallet, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list transactions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": records,
		"count":        len(records),
	})
}
