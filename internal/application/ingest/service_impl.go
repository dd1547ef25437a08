package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/solwatch/swt/internal/alert"
	"github.com/solwatch/swt/internal/application/swap"
	"github.com/solwatch/swt/internal/domain"
	"github.com/solwatch/swt/internal/domain/interfaces"
	"github.com/solwatch/swt/internal/repositories/txrepo"
	"github.com/solwatch/swt/internal/repositories/walletrepo"
	"github.com/solwatch/swt/pkg/solana"
)

type ingestService struct {
	walletRepo  walletrepo.IWalletRepository
	txRepo      txrepo.ITransactionRepository
	tokens      interfaces.TokenSource
	gateway     interfaces.ChatGateway
	broadcaster interfaces.TradeBroadcaster
	formatter   *alert.Formatter
	logger      zerolog.Logger
}

func NewIngestService(
	walletRepo walletrepo.IWalletRepository,
	txRepo txrepo.ITransactionRepository,
	tokens interfaces.TokenSource,
	gateway interfaces.ChatGateway,
	broadcaster interfaces.TradeBroadcaster,
	formatter *alert.Formatter,
	logger zerolog.Logger,
) IIngestService {
	return &ingestService{
		walletRepo:  walletRepo,
		txRepo:      txRepo,
		tokens:      tokens,
		gateway:     gateway,
		broadcaster: broadcaster,
		formatter:   formatter,
		logger:      logger,
	}
}

func (s *ingestService) HandleNotification(ctx context.Context, transactions []domain.EnhancedTransaction) {
	for _, tx := range transactions {
		if err := s.processTransaction(ctx, &tx); err != nil {
			s.logger.Error().
				Err(err).
				Str("signature", tx.Signature).
				Msg("Failed to process transaction")
		}
	}
}

func (s *ingestService) processTransaction(ctx context.Context, tx *domain.EnhancedTransaction) error {
	if tx.Signature == "" {
		s.logger.Warn().Msg("Transaction missing signature, dropping")
		return nil
	}

	exists, err := s.txRepo.Exists(ctx, tx.Signature)
	if err != nil {
		return fmt.Errorf("dedup check failed: %w", err)
	}
	if exists {
		s.logger.Debug().Str("signature", tx.Signature).Msg("Transaction already processed")
		return nil
	}

	if tx.Type != domain.TransactionTypeSwap {
		s.logger.Debug().
			Str("signature", tx.Signature).
			Str("type", tx.Type).
			Msg("Ignoring non-swap transaction")
		return nil
	}

	wallet, actor, err := s.matchTrackedWallet(ctx, tx)
	if err != nil {
		return fmt.Errorf("wallet match failed: %w", err)
	}
	if wallet == nil {
		s.logger.Debug().Str("signature", tx.Signature).Msg("Transaction from untracked wallet")
		return nil
	}

	result := swap.Classify(actor, tx.TokenTransfers, tx.NativeTransfers)
	if result == nil {
		s.logger.Warn().
			Str("signature", tx.Signature).
			Str("wallet", solana.ShortenAddress(actor)).
			Msg("Could not classify swap")
		return nil
	}

	record := s.enrich(ctx, actor, tx, result)

	inserted, err := s.txRepo.Create(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to persist transaction: %w", err)
	}
	if !inserted {
		// Lost the race against a concurrent delivery of the same
		// signature; the winner already alerted.
		s.logger.Debug().Str("signature", tx.Signature).Msg("Duplicate insert, skipping alert")
		return nil
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTrade(*record)
	}

	message := s.formatter.TradeAlert(wallet.Name, record)
	if err := s.gateway.SendAlert(ctx, message); err != nil {
		// Delivery failure is logged, not retried.
		s.logger.Error().Err(err).Str("signature", tx.Signature).Msg("Failed to send alert")
		return nil
	}

	s.logger.Info().
		Str("wallet", wallet.Name).
		Str("kind", string(record.Kind)).
		Str("token", record.TokenSymbol).
		Float64("amount", record.Amount).
		Msg("Sent swap alert")
	return nil
}

// matchTrackedWallet identifies the acting tracked wallet: the fee payer
// when tracked, otherwise the first tracked address in the transaction's
// account list. Returns nil when no tracked wallet participates.
func (s *ingestService) matchTrackedWallet(ctx context.Context, tx *domain.EnhancedTransaction) (*domain.TrackedWallet, string, error) {
	wallet, err := s.walletRepo.GetByAddress(ctx, tx.FeePayer)
	if err != nil {
		return nil, "", err
	}
	if wallet != nil {
		return wallet, tx.FeePayer, nil
	}

	for _, account := range tx.AccountData {
		if account.Account == "" {
			continue
		}
		wallet, err = s.walletRepo.GetByAddress(ctx, account.Account)
		if err != nil {
			return nil, "", err
		}
		if wallet != nil {
			return wallet, account.Account, nil
		}
	}
	return nil, "", nil
}

// enrich attaches token metadata, scaled amount and USD value to the
// classified swap. Metadata failures fall back to UNKNOWN/9 and never
// block the alert.
func (s *ingestService) enrich(ctx context.Context, actor string, tx *domain.EnhancedTransaction, result *swap.Result) *domain.TransactionRecord {
	symbol := "UNKNOWN"
	decimals := 9
	if info, err := s.tokens.Resolve(ctx, result.TokenAddress); err != nil {
		s.logger.Warn().
			Err(err).
			Str("mint", result.TokenAddress).
			Msg("Token metadata lookup failed, using defaults")
	} else {
		symbol = info.Symbol
		decimals = info.Decimals
	}

	amount := result.Amount
	if result.RawAmount != nil {
		amount = solana.TokenAmount(*result.RawAmount, decimals)
	}

	var usdValue *float64
	if price, err := s.tokens.PriceUSD(ctx, result.TokenAddress); err != nil {
		s.logger.Warn().
			Err(err).
			Str("mint", result.TokenAddress).
			Msg("Price lookup failed, omitting USD value")
	} else if price != nil {
		value := amount * *price
		usdValue = &value
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"source":      tx.Source,
		"description": tx.Description,
		"slot":        tx.Slot,
		"fee_payer":   tx.FeePayer,
	})

	return &domain.TransactionRecord{
		WalletAddress: actor,
		Signature:     tx.Signature,
		Kind:          result.Kind,
		TokenAddress:  result.TokenAddress,
		TokenSymbol:   symbol,
		Amount:        amount,
		USDValue:      usdValue,
		Metadata:      metadata,
	}
}
