package tokens

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/solwatch/swt/internal/domain"
	"github.com/solwatch/swt/pkg/solana"
)

// MetadataClient is the remote source of token metadata and prices.
type MetadataClient interface {
	GetTokenInfo(ctx context.Context, mint string) (*domain.TokenInfo, error)
	GetTokenPrice(ctx context.Context, mint string) (*float64, error)
}

// Resolver caches token metadata for the process lifetime. Decimals and
// symbol never change for a mint, so entries are never evicted. Prices are
// never cached. Concurrent first-time lookups for the same mint may both
// hit the remote API; the results converge, so no per-mint lock is held
// across the call.
type Resolver struct {
	client MetadataClient
	logger zerolog.Logger

	mu    sync.RWMutex
	cache map[string]*domain.TokenInfo
}

func NewResolver(client MetadataClient, logger zerolog.Logger) *Resolver {
	return &Resolver{
		client: client,
		logger: logger,
		cache:  make(map[string]*domain.TokenInfo),
	}
}

func (r *Resolver) Resolve(ctx context.Context, mint string) (*domain.TokenInfo, error) {
	r.mu.RLock()
	cached, ok := r.cache[mint]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	if mint == solana.SOLMint {
		info := &domain.TokenInfo{
			Address:  solana.SOLMint,
			Symbol:   "SOL",
			Name:     "Solana",
			Decimals: 9,
		}
		r.store(mint, info)
		return info, nil
	}

	info, err := r.client.GetTokenInfo(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token %s: %w", mint, err)
	}

	r.store(mint, info)
	r.logger.Debug().
		Str("mint", mint).
		Str("symbol", info.Symbol).
		Int("decimals", info.Decimals).
		Msg("Resolved token metadata")
	return info, nil
}

func (r *Resolver) PriceUSD(ctx context.Context, mint string) (*float64, error) {
	return r.client.GetTokenPrice(ctx, mint)
}

func (r *Resolver) store(mint string, info *domain.TokenInfo) {
	r.mu.Lock()
	r.cache[mint] = info
	r.mu.Unlock()
}
