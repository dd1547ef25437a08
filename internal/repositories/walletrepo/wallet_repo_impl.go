package walletrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/solwatch/swt/internal/domain"
	"github.com/solwatch/swt/internal/infrastructure/database"
)

type walletRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func New(db *database.DBManager, logger zerolog.Logger) IWalletRepository {
	return &walletRepository{
		db:     db.Db,
		logger: logger,
	}
}

func (r *walletRepository) Add(ctx context.Context, wallet *domain.TrackedWallet) (bool, error) {
	if wallet.ID == "" {
		wallet.ID = uuid.New().String()
	}
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wallets (id, address, name, webhook_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		wallet.ID, wallet.Address, wallet.Name, wallet.WebhookID, wallet.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return false, nil
		}
		r.logger.Error().Err(err).Str("address", wallet.Address).Msg("Failed to add wallet")
		return false, fmt.Errorf("failed to add wallet: %w", err)
	}
	return true, nil
}

func (r *walletRepository) Remove(ctx context.Context, address string) (*string, error) {
	var webhookID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM wallets WHERE address = $1 RETURNING webhook_id`,
		address,
	).Scan(&webhookID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address", address).Msg("Failed to remove wallet")
		return nil, fmt.Errorf("failed to remove wallet: %w", err)
	}

	if !webhookID.Valid {
		return nil, nil
	}
	return &webhookID.String, nil
}

func (r *walletRepository) GetByAddress(ctx context.Context, address string) (*domain.TrackedWallet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, address, name, webhook_id, created_at FROM wallets WHERE address = $1`,
		address,
	)

	wallet, err := scanWallet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address", address).Msg("Failed to get wallet")
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (r *walletRepository) List(ctx context.Context) ([]*domain.TrackedWallet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, address, name, webhook_id, created_at FROM wallets ORDER BY created_at DESC`,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to list wallets")
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*domain.TrackedWallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet row: %w", err)
		}
		wallets = append(wallets, wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet rows: %w", err)
	}
	return wallets, nil
}

func (r *walletRepository) Rename(ctx context.Context, address, newName string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE wallets SET name = $1 WHERE address = $2`,
		newName, address,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("address", address).Msg("Failed to rename wallet")
		return false, fmt.Errorf("failed to rename wallet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rename result: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWallet(row rowScanner) (*domain.TrackedWallet, error) {
	var wallet domain.TrackedWallet
	var webhookID sql.NullString

	if err := row.Scan(&wallet.ID, &wallet.Address, &wallet.Name, &webhookID, &wallet.CreatedAt); err != nil {
		return nil, err
	}
	if webhookID.Valid {
		wallet.WebhookID = &webhookID.String
	}
	return &wallet, nil
}
