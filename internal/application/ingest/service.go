package ingest

import (
	"context"

	"github.com/solwatch/swt/internal/domain"
)

type IIngestService interface {
	// HandleNotification processes a batch of enhanced transactions from
	// the notifier. Items are independent: one item failing never blocks
	// its siblings, and the call itself never fails.
	HandleNotification(ctx context.Context, transactions []domain.EnhancedTransaction)
}
