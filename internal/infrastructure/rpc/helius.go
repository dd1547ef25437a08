package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/solwatch/swt/internal/domain"
	"github.com/solwatch/swt/pkg/config"
)

// HeliusClient talks to the Helius REST API: webhook registration and
// per-address balance lookups.
type HeliusClient struct {
	apiKey     string
	baseURL    string
	webhookURL string
	httpClient *http.Client
	logger     zerolog.Logger
}

type webhookPayload struct {
	WebhookURL       string   `json:"webhookURL"`
	TransactionTypes []string `json:"transactionTypes"`
	AccountAddresses []string `json:"accountAddresses"`
	WebhookType      string   `json:"webhookType"`
}

type balancesResponse struct {
	Tokens        []domain.RawTokenBalance `json:"tokens"`
	NativeBalance int64                    `json:"nativeBalance"`
}

func NewHeliusClient(cfg config.HeliusConfig, logger zerolog.Logger) *HeliusClient {
	return &HeliusClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		webhookURL: cfg.WebhookURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// CallbackURL returns the URL the notifier is asked to deliver to. The
// subscription manager matches existing webhooks against it at startup.
func (c *HeliusClient) CallbackURL() string {
	return c.webhookURL + "/helius"
}

func (c *HeliusClient) payload(addresses []string) webhookPayload {
	return webhookPayload{
		WebhookURL:       c.CallbackURL(),
		TransactionTypes: []string{domain.TransactionTypeSwap},
		AccountAddresses: addresses,
		WebhookType:      "enhanced",
	}
}

func (c *HeliusClient) ListWebhooks(ctx context.Context) ([]domain.Webhook, error) {
	url := fmt.Sprintf("%s/webhooks?api-key=%s", c.baseURL, c.apiKey)

	var webhooks []domain.Webhook
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &webhooks); err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	return webhooks, nil
}

func (c *HeliusClient) CreateWebhook(ctx context.Context, addresses []string) (string, error) {
	url := fmt.Sprintf("%s/webhooks?api-key=%s", c.baseURL, c.apiKey)

	var created domain.Webhook
	if err := c.doJSON(ctx, http.MethodPost, url, c.payload(addresses), &created); err != nil {
		return "", fmt.Errorf("failed to create webhook: %w", err)
	}

	c.logger.Info().
		Str("webhook_id", created.WebhookID).
		Int("address_count", len(addresses)).
		Msg("Created webhook")
	return created.WebhookID, nil
}

func (c *HeliusClient) EditWebhook(ctx context.Context, webhookID string, addresses []string) error {
	url := fmt.Sprintf("%s/webhooks/%s?api-key=%s", c.baseURL, webhookID, c.apiKey)

	if err := c.doJSON(ctx, http.MethodPut, url, c.payload(addresses), nil); err != nil {
		return fmt.Errorf("failed to update webhook %s: %w", webhookID, err)
	}

	c.logger.Info().
		Str("webhook_id", webhookID).
		Int("address_count", len(addresses)).
		Msg("Updated webhook address set")
	return nil
}

func (c *HeliusClient) DeleteWebhook(ctx context.Context, webhookID string) error {
	url := fmt.Sprintf("%s/webhooks/%s?api-key=%s", c.baseURL, webhookID, c.apiKey)

	if err := c.doJSON(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("failed to delete webhook %s: %w", webhookID, err)
	}

	c.logger.Info().Str("webhook_id", webhookID).Msg("Deleted webhook")
	return nil
}

// GetBalances fetches the full token balance list for one wallet. Amounts
// come back in raw integer units together with their decimals.
func (c *HeliusClient) GetBalances(ctx context.Context, address string) ([]domain.RawTokenBalance, error) {
	url := fmt.Sprintf("%s/addresses/%s/balances?api-key=%s", c.baseURL, address, c.apiKey)

	var resp balancesResponse
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch balances for %s: %w", address, err)
	}

	c.logger.Debug().
		Str("address", address).
		Int("token_count", len(resp.Tokens)).
		Msg("Fetched balances")
	return resp.Tokens, nil
}

func (c *HeliusClient) doJSON(ctx context.Context, method, url string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error().
			Str("method", method).
			Str("url", url).
			Int("status_code", resp.StatusCode).
			Str("response_body", string(respBody)).
			Msg("Helius API request failed")
		return fmt.Errorf("API request failed with status: %s", resp.Status)
	}

	if out == nil {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %v", err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %v", err)
	}
	return nil
}
