package subscription

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/solwatch/swt/internal/domain/interfaces"
)

// Manager keeps a single remote webhook registered for the union of all
// tracked addresses. The resolved webhook ID is cached for the process
// lifetime; after a restart it is rediscovered by matching the callback
// URL against the existing webhook list before the first mutation.
type Manager struct {
	client      interfaces.WebhookClient
	callbackURL string
	placeholder string
	logger      zerolog.Logger

	mu        sync.Mutex
	webhookID string
}

func NewManager(client interfaces.WebhookClient, callbackURL, placeholderAddress string, logger zerolog.Logger) *Manager {
	return &Manager{
		client:      client,
		callbackURL: callbackURL,
		placeholder: placeholderAddress,
		logger:      logger,
	}
}

// ReplaceTrackedSet pushes the full address list to the remote
// subscription, creating it on first use. An empty list is never sent
// verbatim; the placeholder address is substituted because the remote
// service rejects empty address lists.
func (m *Manager) ReplaceTrackedSet(ctx context.Context, addresses []string) error {
	if len(addresses) == 0 {
		addresses = []string{m.placeholder}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	webhookID, err := m.resolveWebhookID(ctx)
	if err != nil {
		return err
	}

	if webhookID == "" {
		created, err := m.client.CreateWebhook(ctx, addresses)
		if err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		m.webhookID = created
		m.logger.Info().
			Str("webhook_id", created).
			Int("address_count", len(addresses)).
			Msg("Created shared subscription")
		return nil
	}

	if err := m.client.EditWebhook(ctx, webhookID, addresses); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	m.logger.Info().
		Str("webhook_id", webhookID).
		Int("address_count", len(addresses)).
		Msg("Replaced subscription address set")
	return nil
}

// resolveWebhookID returns the cached webhook ID, discovering it from the
// remote list when the cache is cold. An empty return with nil error means
// no matching webhook exists yet.
func (m *Manager) resolveWebhookID(ctx context.Context) (string, error) {
	if m.webhookID != "" {
		return m.webhookID, nil
	}

	webhooks, err := m.client.ListWebhooks(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to discover subscription: %w", err)
	}

	for _, webhook := range webhooks {
		if strings.HasSuffix(webhook.WebhookURL, m.callbackURL) {
			m.webhookID = webhook.WebhookID
			m.logger.Info().
				Str("webhook_id", webhook.WebhookID).
				Msg("Discovered existing subscription")
			return m.webhookID, nil
		}
	}
	return "", nil
}
