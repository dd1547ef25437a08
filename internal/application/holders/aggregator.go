package holders

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/solwatch/swt/internal/domain"
	"github.com/solwatch/swt/internal/domain/interfaces"
	"github.com/solwatch/swt/pkg/solana"
)

// Aggregator fans balance lookups out across the tracked-wallet set and
// ranks holders of one mint. Lookups run concurrently up to a fixed
// ceiling to respect upstream rate limits.
type Aggregator struct {
	balances    interfaces.BalanceClient
	concurrency int64
	logger      zerolog.Logger
}

func NewAggregator(balances interfaces.BalanceClient, concurrency int, logger zerolog.Logger) *Aggregator {
	if concurrency <= 0 {
		concurrency = 10
	}
	return &Aggregator{
		balances:    balances,
		concurrency: int64(concurrency),
		logger:      logger,
	}
}

// FindHolders returns every tracked wallet holding mint, sorted by amount
// descending. A failed lookup excludes that wallet only; it never aborts
// the aggregate. The sort is stable, so ties keep completion order.
func (a *Aggregator) FindHolders(ctx context.Context, mint string, wallets []*domain.TrackedWallet) []domain.TokenBalance {
	sem := semaphore.NewWeighted(a.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var results []domain.TokenBalance

	for _, wallet := range wallets {
		if err := sem.Acquire(ctx, 1); err != nil {
			a.logger.Warn().Err(err).Msg("Holder aggregation cancelled")
			break
		}

		wg.Add(1)
		go func(w *domain.TrackedWallet) {
			defer wg.Done()
			defer sem.Release(1)

			balance, err := a.lookupBalance(ctx, w, mint)
			if err != nil {
				a.logger.Warn().
					Err(err).
					Str("address", solana.ShortenAddress(w.Address)).
					Msg("Balance lookup failed, excluding wallet")
				return
			}
			if balance == nil {
				return
			}

			mu.Lock()
			results = append(results, *balance)
			mu.Unlock()
		}(wallet)
	}

	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Amount > results[j].Amount
	})
	return results
}

// lookupBalance returns nil, nil when the wallet holds none of the mint.
func (a *Aggregator) lookupBalance(ctx context.Context, wallet *domain.TrackedWallet, mint string) (*domain.TokenBalance, error) {
	balances, err := a.balances.GetBalances(ctx, wallet.Address)
	if err != nil {
		return nil, err
	}

	for _, raw := range balances {
		if raw.Mint != mint || raw.Amount == 0 {
			continue
		}
		return &domain.TokenBalance{
			WalletAddress: wallet.Address,
			WalletName:    wallet.Name,
			Mint:          mint,
			Amount:        solana.TokenAmount(raw.Amount, raw.Decimals),
			Decimals:      raw.Decimals,
		}, nil
	}
	return nil, nil
}
