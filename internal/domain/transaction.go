package domain

import (
	"encoding/json"
	"time"
)

type TradeKind string

const (
	TradeBuy  TradeKind = "buy"
	TradeSell TradeKind = "sell"
)

// TransactionRecord is one processed swap. Signature is the dedup key: at
// most one record ever exists per signature, enforced by the store.
type TransactionRecord struct {
	ID            string          `json:"id" db:"id"`
	WalletAddress string          `json:"wallet_address" db:"wallet_address"`
	Signature     string          `json:"signature" db:"signature"`
	Kind          TradeKind       `json:"kind" db:"kind"`
	TokenAddress  string          `json:"token_address" db:"token_address"`
	TokenSymbol   string          `json:"token_symbol" db:"token_symbol"`
	Amount        float64         `json:"amount" db:"amount"`
	USDValue      *float64        `json:"usd_value,omitempty" db:"usd_value"`
	Metadata      json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	Timestamp     time.Time       `json:"timestamp" db:"timestamp"`
}
