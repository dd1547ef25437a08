package database

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS wallets (
    id UUID PRIMARY KEY,
    address TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    webhook_id TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transactions (
    id UUID PRIMARY KEY,
    wallet_address TEXT NOT NULL,
    signature TEXT UNIQUE NOT NULL,
    kind TEXT NOT NULL,
    token_address TEXT,
    token_symbol TEXT,
    amount DOUBLE PRECISION,
    usd_value DOUBLE PRECISION,
    metadata JSONB,
    timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_wallets_address ON wallets(address);
CREATE INDEX IF NOT EXISTS idx_transactions_wallet ON transactions(wallet_address);
CREATE INDEX IF NOT EXISTS idx_transactions_signature ON transactions(signature);
`

// EnsureSchema creates the wallets and transactions tables if they do not
// exist. The unique constraints on address and signature are the
// concurrency-control mechanism for duplicate adds and replayed
// notifications.
func (dm *DBManager) EnsureSchema(ctx context.Context) error {
	_, err := dm.Db.ExecContext(ctx, schema)
	return err
}
