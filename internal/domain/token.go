package domain

// TokenInfo is resolved token metadata. Identity and decimals never change
// for a mint, so resolved values are cached for the process lifetime.
type TokenInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logo_uri,omitempty"`
}

// TokenBalance is one wallet's holding of a mint, produced by a balance
// lookup and ranked by the holder aggregator.
type TokenBalance struct {
	WalletAddress string  `json:"wallet_address"`
	WalletName    string  `json:"wallet_name"`
	Mint          string  `json:"mint"`
	Amount        float64 `json:"amount"`
	Decimals      int     `json:"decimals"`
}

// RawTokenBalance is a single entry of the balance collaborator's response,
// still in raw integer units.
type RawTokenBalance struct {
	Mint         string `json:"mint"`
	Amount       int64  `json:"amount"`
	Decimals     int    `json:"decimals"`
	TokenAccount string `json:"tokenAccount"`
}
