package walletrepo

import (
	"context"

	"github.com/solwatch/swt/internal/domain"
)

type IWalletRepository interface {
	// Add inserts a wallet. Returns false when the address is already
	// tracked; the duplicate is an expected outcome, not an error.
	Add(ctx context.Context, wallet *domain.TrackedWallet) (bool, error)

	// Remove deletes a wallet and returns its legacy per-wallet webhook
	// ID when one was stored. Returns nil, nil when the address is not
	// tracked.
	Remove(ctx context.Context, address string) (*string, error)

	// GetByAddress returns nil, nil when the address is not tracked.
	GetByAddress(ctx context.Context, address string) (*domain.TrackedWallet, error)

	List(ctx context.Context) ([]*domain.TrackedWallet, error)

	// Rename returns false when the address is not tracked.
	Rename(ctx context.Context, address, newName string) (bool, error)
}
