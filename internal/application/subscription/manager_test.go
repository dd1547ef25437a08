package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solwatch/swt/internal/domain"
)

const (
	callbackURL = "https://tracker.example.com/helius"
	placeholder = "11111111111111111111111111111111"
)

type fakeWebhookClient struct {
	webhooks []domain.Webhook
	listErr  error

	created      [][]string
	createID     string
	createErr    error
	edits        map[string][][]string
	editErr      error
	listCalls    int
	deletedIDs   []string
	deleteErrFor map[string]error
}

func (f *fakeWebhookClient) ListWebhooks(ctx context.Context) ([]domain.Webhook, error) {
	f.listCalls++
	return f.webhooks, f.listErr
}

func (f *fakeWebhookClient) CreateWebhook(ctx context.Context, addresses []string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, addresses)
	return f.createID, nil
}

func (f *fakeWebhookClient) EditWebhook(ctx context.Context, webhookID string, addresses []string) error {
	if f.editErr != nil {
		return f.editErr
	}
	if f.edits == nil {
		f.edits = make(map[string][][]string)
	}
	f.edits[webhookID] = append(f.edits[webhookID], addresses)
	return nil
}

func (f *fakeWebhookClient) DeleteWebhook(ctx context.Context, webhookID string) error {
	f.deletedIDs = append(f.deletedIDs, webhookID)
	return f.deleteErrFor[webhookID]
}

func TestReplaceTrackedSet_CreatesOnFirstUse(t *testing.T) {
	client := &fakeWebhookClient{createID: "wh-new"}
	mgr := NewManager(client, callbackURL, placeholder, zerolog.Nop())

	err := mgr.ReplaceTrackedSet(context.Background(), []string{"addr1", "addr2"})
	require.NoError(t, err)

	require.Len(t, client.created, 1)
	assert.Equal(t, []string{"addr1", "addr2"}, client.created[0])
	assert.Empty(t, client.edits)
}

func TestReplaceTrackedSet_EditsExistingAfterDiscovery(t *testing.T) {
	client := &fakeWebhookClient{webhooks: []domain.Webhook{
		{WebhookID: "wh-other", WebhookURL: "https://elsewhere.example.com/hook"},
		{WebhookID: "wh-mine", WebhookURL: callbackURL},
	}}
	mgr := NewManager(client, callbackURL, placeholder, zerolog.Nop())

	err := mgr.ReplaceTrackedSet(context.Background(), []string{"addr1"})
	require.NoError(t, err)

	assert.Empty(t, client.created)
	require.Len(t, client.edits["wh-mine"], 1)
	assert.Equal(t, []string{"addr1"}, client.edits["wh-mine"][0])
}

func TestReplaceTrackedSet_EmptyListSendsPlaceholder(t *testing.T) {
	client := &fakeWebhookClient{webhooks: []domain.Webhook{
		{WebhookID: "wh-mine", WebhookURL: callbackURL},
	}}
	mgr := NewManager(client, callbackURL, placeholder, zerolog.Nop())

	err := mgr.ReplaceTrackedSet(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, client.edits["wh-mine"], 1)
	assert.Equal(t, []string{placeholder}, client.edits["wh-mine"][0])
}

func TestReplaceTrackedSet_WebhookIDCachedAcrossCalls(t *testing.T) {
	client := &fakeWebhookClient{webhooks: []domain.Webhook{
		{WebhookID: "wh-mine", WebhookURL: callbackURL},
	}}
	mgr := NewManager(client, callbackURL, placeholder, zerolog.Nop())

	require.NoError(t, mgr.ReplaceTrackedSet(context.Background(), []string{"a"}))
	require.NoError(t, mgr.ReplaceTrackedSet(context.Background(), []string{"a", "b"}))

	assert.Equal(t, 1, client.listCalls, "discovery should run once")
	assert.Len(t, client.edits["wh-mine"], 2)
}

func TestReplaceTrackedSet_DiscoveryFailurePropagates(t *testing.T) {
	client := &fakeWebhookClient{listErr: errors.New("api down")}
	mgr := NewManager(client, callbackURL, placeholder, zerolog.Nop())

	err := mgr.ReplaceTrackedSet(context.Background(), []string{"addr1"})
	require.Error(t, err)
	assert.Empty(t, client.created)
	assert.Empty(t, client.edits)
}

func TestReplaceTrackedSet_CreateFailurePropagates(t *testing.T) {
	client := &fakeWebhookClient{createErr: errors.New("quota exceeded")}
	mgr := NewManager(client, callbackURL, placeholder, zerolog.Nop())

	err := mgr.ReplaceTrackedSet(context.Background(), []string{"addr1"})
	require.Error(t, err)

	// A failed create leaves the cache cold so the next call retries
	// discovery and creation.
	require.NoError(t, func() error {
		client.createErr = nil
		client.createID = "wh-retry"
		return mgr.ReplaceTrackedSet(context.Background(), []string{"addr1"})
	}())
	require.Len(t, client.created, 1)
}
