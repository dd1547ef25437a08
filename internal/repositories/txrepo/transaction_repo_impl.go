package txrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/sqlc-dev/pqtype"

	"github.com/solwatch/swt/internal/domain"
	"github.com/solwatch/swt/internal/infrastructure/database"
)

type transactionRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func New(db *database.DBManager, logger zerolog.Logger) ITransactionRepository {
	return &transactionRepository{
		db:     db.Db,
		logger: logger,
	}
}

func (r *transactionRepository) Create(ctx context.Context, record *domain.TransactionRecord) (bool, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	metadata := pqtype.NullRawMessage{RawMessage: record.Metadata, Valid: record.Metadata != nil}

	var usdValue sql.NullFloat64
	if record.USDValue != nil {
		usdValue = sql.NullFloat64{Float64: *record.USDValue, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions
		 (id, wallet_address, signature, kind, token_address, token_symbol, amount, usd_value, metadata, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		record.ID, record.WalletAddress, record.Signature, string(record.Kind),
		record.TokenAddress, record.TokenSymbol, record.Amount, usdValue,
		metadata, record.Timestamp,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return false, nil
		}
		r.logger.Error().Err(err).Str("signature", record.Signature).Msg("Failed to create transaction record")
		return false, fmt.Errorf("failed to create transaction record: %w", err)
	}
	return true, nil
}

func (r *transactionRepository) Exists(ctx context.Context, signature string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM transactions WHERE signature = $1)`,
		signature,
	).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("signature", signature).Msg("Failed to check transaction existence")
		return false, fmt.Errorf("failed to check transaction existence: %w", err)
	}
	return exists, nil
}

func (r *transactionRepository) ListRecent(ctx context.Context, walletAddress string, limit int) ([]*domain.TransactionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, wallet_address, signature, kind, token_address, token_symbol, amount, usd_value, metadata, timestamp
	          FROM transactions`
	args := []interface{}{}
	if walletAddress != "" {
		query += ` WHERE wallet_address = $1 ORDER BY timestamp DESC LIMIT $2`
		args = append(args, walletAddress, limit)
	} else {
		query += ` ORDER BY timestamp DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var records []*domain.TransactionRecord
	for rows.Next() {
		var record domain.TransactionRecord
		var kind string
		var usdValue sql.NullFloat64
		var metadata pqtype.NullRawMessage

		if err := rows.Scan(
			&record.ID, &record.WalletAddress, &record.Signature, &kind,
			&record.TokenAddress, &record.TokenSymbol, &record.Amount,
			&usdValue, &metadata, &record.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}

		record.Kind = domain.TradeKind(kind)
		if usdValue.Valid {
			record.USDValue = &usdValue.Float64
		}
		if metadata.Valid {
			record.Metadata = metadata.RawMessage
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}
	return records, nil
}
