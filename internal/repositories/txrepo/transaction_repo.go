package txrepo

import (
	"context"

	"github.com/solwatch/swt/internal/domain"
)

type ITransactionRepository interface {
	// Create inserts a processed swap. Returns false when a record with
	// the same signature already exists; concurrent duplicate delivery
	// losing the insert race is the expected, non-error outcome.
	Create(ctx context.Context, record *domain.TransactionRecord) (bool, error)

	// Exists reports whether a signature has already been processed.
	Exists(ctx context.Context, signature string) (bool, error)

	// ListRecent returns recent records, newest first, optionally
	// filtered to one wallet. walletAddress == "" means all wallets.
	ListRecent(ctx context.Context, walletAddress string, limit int) ([]*domain.TransactionRecord, error)
}
