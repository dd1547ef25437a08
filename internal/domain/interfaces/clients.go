package interfaces

import (
	"context"

	"github.com/solwatch/swt/internal/domain"
)

// TokenSource resolves token metadata and spot prices.
type TokenSource interface {
	// Resolve returns symbol/name/decimals for a mint.
	Resolve(ctx context.Context, mint string) (*domain.TokenInfo, error)

	// PriceUSD returns the current USD price for a mint, or nil when no
	// price is available.
	PriceUSD(ctx context.Context, mint string) (*float64, error)
}

// BalanceClient fetches the full token balance list of one wallet.
type BalanceClient interface {
	GetBalances(ctx context.Context, address string) ([]domain.RawTokenBalance, error)
}

// WebhookClient manages remote notification subscriptions.
type WebhookClient interface {
	ListWebhooks(ctx context.Context) ([]domain.Webhook, error)
	CreateWebhook(ctx context.Context, addresses []string) (string, error)
	EditWebhook(ctx context.Context, webhookID string, addresses []string) error
	DeleteWebhook(ctx context.Context, webhookID string) error
}

// SubscriptionManager keeps the remote subscription in sync with the
// tracked-wallet set.
type SubscriptionManager interface {
	ReplaceTrackedSet(ctx context.Context, addresses []string) error
}

// ChatGateway delivers formatted text to the configured chat channel.
type ChatGateway interface {
	SendAlert(ctx context.Context, text string) error
}

// TradeBroadcaster fans a processed trade out to live listeners.
type TradeBroadcaster interface {
	BroadcastTrade(record domain.TransactionRecord)
}
