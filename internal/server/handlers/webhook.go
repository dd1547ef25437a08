package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/solwatch/swt/internal/application/ingest"
	"github.com/solwatch/swt/internal/domain"
)

type WebhookHandler struct {
	ingestSvc ingest.IIngestService
	logger    zerolog.Logger
}

func NewWebhookHandler(ingestSvc ingest.IIngestService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		ingestSvc: ingestSvc,
		logger:    logger,
	}
}

// HandleHeliusWebhook accepts one enhanced transaction object or an array
// of them. The response is success once every item has been attempted;
// per-item failures stay internal. Only a non-JSON body is rejected.
func (h *WebhookHandler) HandleHeliusWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read webhook body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	transactions, err := decodePayload(body)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse webhook payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	h.logger.Debug().Int("transaction_count", len(transactions)).Msg("Received webhook batch")
	h.ingestSvc.HandleNotification(c.Request.Context(), transactions)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// decodePayload accepts either a JSON array of transactions or a single
// object, which the notifier may send for one-item deliveries.
func decodePayload(body []byte) ([]domain.EnhancedTransaction, error) {
	var transactions []domain.EnhancedTransaction
	if err := json.Unmarshal(body, &transactions); err == nil {
		return transactions, nil
	}

	var single domain.EnhancedTransaction
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, err
	}
	return []domain.EnhancedTransaction{single}, nil
}
