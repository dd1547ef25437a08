package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solwatch/swt/internal/alert"
	"github.com/solwatch/swt/internal/domain"
)

const (
	trackedAddress = "Tracked1111111111111111111111111111111111111"
	otherAddress   = "Other111111111111111111111111111111111111111"
	mintX          = "MintX111111111111111111111111111111111111111"
)

type fakeWalletRepo struct {
	wallets map[string]*domain.TrackedWallet
}

func (f *fakeWalletRepo) Add(ctx context.Context, wallet *domain.TrackedWallet) (bool, error) {
	return true, nil
}

func (f *fakeWalletRepo) Remove(ctx context.Context, address string) (*string, error) {
	return nil, nil
}

func (f *fakeWalletRepo) GetByAddress(ctx context.Context, address string) (*domain.TrackedWallet, error) {
	return f.wallets[address], nil
}

func (f *fakeWalletRepo) List(ctx context.Context) ([]*domain.TrackedWallet, error) {
	return nil, nil
}

func (f *fakeWalletRepo) Rename(ctx context.Context, address, newName string) (bool, error) {
	return true, nil
}

type fakeTxRepo struct {
	mu        sync.Mutex
	seen      map[string]bool
	created   []*domain.TransactionRecord
	loseRace  bool
	existsErr error
}

func (f *fakeTxRepo) Create(ctx context.Context, record *domain.TransactionRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loseRace || f.seen[record.Signature] {
		return false, nil
	}
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	f.seen[record.Signature] = true
	f.created = append(f.created, record)
	return true, nil
}

func (f *fakeTxRepo) Exists(ctx context.Context, signature string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[signature], f.existsErr
}

func (f *fakeTxRepo) ListRecent(ctx context.Context, walletAddress string, limit int) ([]*domain.TransactionRecord, error) {
	return nil, nil
}

type fakeTokenSource struct {
	info     *domain.TokenInfo
	infoErr  error
	price    *float64
	priceErr error
}

func (f *fakeTokenSource) Resolve(ctx context.Context, mint string) (*domain.TokenInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeTokenSource) PriceUSD(ctx context.Context, mint string) (*float64, error) {
	return f.price, f.priceErr
}

type fakeGateway struct {
	mu       sync.Mutex
	messages []string
	sendErr  error
}

func (f *fakeGateway) SendAlert(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.messages = append(f.messages, text)
	return nil
}

type fakeBroadcaster struct {
	records []domain.TransactionRecord
}

func (f *fakeBroadcaster) BroadcastTrade(record domain.TransactionRecord) {
	f.records = append(f.records, record)
}

type fixture struct {
	walletRepo  *fakeWalletRepo
	txRepo      *fakeTxRepo
	tokens      *fakeTokenSource
	gateway     *fakeGateway
	broadcaster *fakeBroadcaster
	svc         IIngestService
}

func newFixture() *fixture {
	walletRepo := &fakeWalletRepo{wallets: map[string]*domain.TrackedWallet{
		trackedAddress: {Address: trackedAddress, Name: "whale"},
	}}
	txRepo := &fakeTxRepo{}
	tokens := &fakeTokenSource{
		info: &domain.TokenInfo{Address: mintX, Symbol: "XTK", Name: "Token X", Decimals: 6},
	}
	gateway := &fakeGateway{}
	broadcaster := &fakeBroadcaster{}

	formatter := alert.NewFormatter("https://solscan.io/tx", "https://solscan.io/token")
	svc := NewIngestService(walletRepo, txRepo, tokens, gateway, broadcaster, formatter, zerolog.Nop())

	return &fixture{
		walletRepo:  walletRepo,
		txRepo:      txRepo,
		tokens:      tokens,
		gateway:     gateway,
		broadcaster: broadcaster,
		svc:         svc,
	}
}

func swapTransaction(signature string) domain.EnhancedTransaction {
	return domain.EnhancedTransaction{
		Type:      domain.TransactionTypeSwap,
		Signature: signature,
		FeePayer:  trackedAddress,
		TokenTransfers: []domain.TokenTransfer{{
			Mint:            mintX,
			FromUserAccount: otherAddress,
			ToUserAccount:   trackedAddress,
			TokenAmount:     5,
		}},
		NativeTransfers: []domain.NativeTransfer{{
			FromUserAccount: trackedAddress,
			ToUserAccount:   otherAddress,
			Amount:          100,
		}},
	}
}

func TestHandleNotification_PersistsAndAlerts(t *testing.T) {
	fx := newFixture()
	price := 0.5
	fx.tokens.price = &price

	fx.svc.HandleNotification(context.Background(), []domain.EnhancedTransaction{swapTransaction("sig1")})

	require.Len(t, fx.txRepo.created, 1)
	record := fx.txRepo.created[0]
	assert.Equal(t, domain.TradeBuy, record.Kind)
	assert.Equal(t, "XTK", record.TokenSymbol)
	assert.Equal(t, 5.0, record.Amount)
	require.NotNil(t, record.USDValue)
	assert.Equal(t, 2.5, *record.USDValue)

	require.Len(t, fx.gateway.messages, 1)
	assert.Contains(t, fx.gateway.messages[0], "BUY ALERT")
	assert.Contains(t, fx.gateway.messages[0], "whale")

	require.Len(t, fx.broadcaster.records, 1)
	assert.Equal(t, "sig1", fx.broadcaster.records[0].Signature)
}

func TestHandleNotification_ReplayProducesNothing(t *testing.T) {
	fx := newFixture()
	tx := swapTransaction("sig1")

	fx.svc.HandleNotification(context.Background(), []domain.EnhancedTransaction{tx})
	fx.svc.HandleNotification(context.Background(), []domain.EnhancedTransaction{tx})

	assert.Len(t, fx.txRepo.created, 1)
	assert.Len(t, fx.gateway.messages, 1)
	assert.Len(t, fx.broadcaster.records, 1)
}

func TestHandleNotification_MissingSignatureDropped(t *testing.T) {
	fx := newFixture()
	tx := swapTransaction("")

	fx.svc.HandleNotification(context.Background(), []domain.EnhancedTransaction{tx})

	assert.Empty(t, fx.txRepo.created)
	assert.Empty(t, fx.gateway.messages)
}

func TestHandleNotification_NonSwapIgnored(t *testing.T) {
	fx := newFixture()
	tx := swapTransaction("sig1")
	tx.Type = "TRANSFER"

	fx.svc.HandleNotification(context.Background(), []domain.EnhancedTransaction{tx})

	assert.Empty(t, fx.txRepo.created)
	assert.Empty(t, fx.gateway.messages)
}

func TestHandleNotification_UntrackedWalletIgnored(t *testing.T) {
	fx := newFixture()
	tx := swapTransaction("sig1")
	tx.FeePayer = otherAddress
	tx.TokenTransfers[0].ToUserAccount = otherAddress

	fx.svc.HandleNotification(context.Background(), []domain.EnhancedTransaction{tx})

	assert.Empty(t, fx.txRepo.created)
	assert.Empty(t, fx.gateway.messages)
}

func TestHandleNotification_AccountDataFallbackMatch(t *testing.T) {
	// Fee payer is a router program; the tracked wallet appears only in
	// the account list.
	fx := newFixture()
	tx := swapTransaction("sig1")
	tx.FeePayer = otherAddress
	tx.AccountData = []domain.AccountData{
		{Account: "Program11111111111111111111111111111111111"},
		{Account: trackedAddress},
	}

	fx.svc.HandleNotification(context.Background(), []domain.EnhancedTransaction{tx})

	require.Len(t, fx.txRepo.created, 1)
	assert.Equal(t, trackedAddress, fx.txRepo.created[0].WalletAddress)
}

func TestHandleNotification_MetadataFailureUsesDefaults(t *testing.T) {
	fx := newFixture()
	fx.tokens.info = nil
	fx.tokens.infoErr = errors.New("metadata api down")

	fx.svc.HandleNotification(context.Background(), []domain.EnhancedTransaction{swapTransaction("sig1")})

	require.Len(t, fx.txRepo.created, 1)
	record := fx.txRepo.created[0]
	assert.Equal(t, "UNKNOWN", record.TokenSymbol)
	assert.Nil(t, record.USDValue)
	require.Len(t, fx.gateway.messages, 1, "metadata failure must not block the alert")
}

func TestHandleNotification_PriceFailureOmitsValue(t *testing.T) {
	fx := newFixture()
	fx.tokens.priceErr = errors.New("price api down")

	fx.svc.HandleNotification(context.Background(), []domain.EnhancedTransaction{swapTransaction("sig1")})

	require.Len(t, fx.txRepo.created, 1)
	assert.Nil(t, fx.txRepo.created[0].USDValue)
	require.Len(t, fx.gateway.messages, 1)
	assert.False(t, strings.Contains(fx.gateway.messages[0], "*Value:*"))
}

func TestHandleNotification_InsertRaceLoserSkipsAlert(t *testing.T) {
	fx := newFixture()
	fx.txRepo.loseRace = true

	fx.svc.HandleNotification(context.Background(), []domain.EnhancedTransaction{swapTransaction("sig1")})

	assert.Empty(t, fx.gateway.messages)
	assert.Empty(t, fx.broadcaster.records)
}

func TestHandleNotification_AlertFailureStillPersists(t *testing.T) {
	fx := newFixture()
	fx.gateway.sendErr = errors.New("chat unreachable")

	fx.svc.HandleNotification(context.Background(), []domain.EnhancedTransaction{swapTransaction("sig1")})

	assert.Len(t, fx.txRepo.created, 1)
	assert.Len(t, fx.broadcaster.records, 1)
}

func TestHandleNotification_UnclassifiableSwapSkipped(t *testing.T) {
	fx := newFixture()
	tx := swapTransaction("sig1")
	tx.TokenTransfers = nil
	tx.NativeTransfers = nil

	fx.svc.HandleNotification(context.Background(), []domain.EnhancedTransaction{tx})

	assert.Empty(t, fx.txRepo.created)
	assert.Empty(t, fx.gateway.messages)
}
