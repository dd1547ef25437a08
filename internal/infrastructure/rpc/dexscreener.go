package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/solwatch/swt/internal/domain"
	"github.com/solwatch/swt/pkg/config"
)

// DexScreenerClient resolves token metadata and USD prices from the
// DexScreener pairs API.
type DexScreenerClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

type dexPair struct {
	ChainID   string `json:"chainId"`
	BaseToken struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceUSD  string `json:"priceUsd"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Info struct {
		ImageURL string `json:"imageUrl"`
	} `json:"info"`
}

type dexTokensResponse struct {
	Pairs []dexPair `json:"pairs"`
}

func NewDexScreenerClient(cfg config.DexScreenerConfig, logger zerolog.Logger) *DexScreenerClient {
	return &DexScreenerClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// GetTokenInfo resolves metadata for a mint. Most SPL tokens use 6
// decimals and the pairs API does not report decimals, so 6 is assumed;
// callers treat metadata as best-effort.
func (c *DexScreenerClient) GetTokenInfo(ctx context.Context, mint string) (*domain.TokenInfo, error) {
	pairs, err := c.fetchPairs(ctx, mint)
	if err != nil {
		return nil, err
	}

	for _, pair := range pairs {
		if pair.BaseToken.Address == mint {
			return &domain.TokenInfo{
				Address:  mint,
				Symbol:   pair.BaseToken.Symbol,
				Name:     pair.BaseToken.Name,
				Decimals: 6,
				LogoURI:  pair.Info.ImageURL,
			}, nil
		}
	}

	// No pair lists this mint as base token; report it as unknown rather
	// than failing the caller.
	return &domain.TokenInfo{
		Address:  mint,
		Symbol:   "UNKNOWN",
		Name:     "Unknown Token",
		Decimals: 6,
	}, nil
}

// GetTokenPrice returns the USD price from the deepest-liquidity Solana
// pair, or nil when the mint has no priced pair.
func (c *DexScreenerClient) GetTokenPrice(ctx context.Context, mint string) (*float64, error) {
	pairs, err := c.fetchPairs(ctx, mint)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Liquidity.USD > pairs[j].Liquidity.USD
	})

	if pairs[0].PriceUSD == "" {
		return nil, nil
	}
	price, err := strconv.ParseFloat(pairs[0].PriceUSD, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q for %s: %v", pairs[0].PriceUSD, mint, err)
	}
	return &price, nil
}

// fetchPairs returns the mint's Solana pairs only.
func (c *DexScreenerClient) fetchPairs(ctx context.Context, mint string) ([]dexPair, error) {
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, mint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token data: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error().
			Str("url", url).
			Int("status_code", resp.StatusCode).
			Str("response_body", string(body)).
			Msg("DexScreener API request failed")
		return nil, fmt.Errorf("API request failed with status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	var parsed dexTokensResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %v", err)
	}

	solanaPairs := make([]dexPair, 0, len(parsed.Pairs))
	for _, pair := range parsed.Pairs {
		if pair.ChainID == "solana" {
			solanaPairs = append(solanaPairs, pair)
		}
	}
	return solanaPairs, nil
}
