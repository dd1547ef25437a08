package alert

import (
	"strings"
	"testing"

	"github.com/solwatch/swt/internal/domain"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"dots.and.dashes-here", "dots\\.and\\.dashes\\-here"},
		{"*bold* _under_", "\\*bold\\* \\_under\\_"},
		{"a(b)[c]{d}", "a\\(b\\)\\[c\\]\\{d\\}"},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTradeAlert(t *testing.T) {
	f := NewFormatter("https://solscan.io/tx", "https://solscan.io/token")
	value := 1234.5
	record := &domain.TransactionRecord{
		WalletAddress: "Wa11et111111111111111111111111111111111111",
		Signature:     "sig123",
		Kind:          domain.TradeBuy,
		TokenAddress:  "MintX1111111111111111111111111111111111111",
		TokenSymbol:   "XTK",
		Amount:        1500,
		USDValue:      &value,
	}

	msg := f.TradeAlert("my.wallet", record)

	if !strings.Contains(msg, "🟢 *BUY ALERT*") {
		t.Errorf("missing buy header:\n%s", msg)
	}
	if !strings.Contains(msg, "my\\.wallet") {
		t.Errorf("wallet name not escaped:\n%s", msg)
	}
	if !strings.Contains(msg, "*Value:*") {
		t.Errorf("missing value line:\n%s", msg)
	}
	if !strings.Contains(msg, "https://solscan.io/tx/sig123") {
		t.Errorf("missing transaction link:\n%s", msg)
	}
	if !strings.Contains(msg, "https://solscan.io/token/"+record.TokenAddress) {
		t.Errorf("missing token link:\n%s", msg)
	}

	record.Kind = domain.TradeSell
	record.USDValue = nil
	msg = f.TradeAlert("my.wallet", record)
	if !strings.Contains(msg, "🔴 *SELL ALERT*") {
		t.Errorf("missing sell header:\n%s", msg)
	}
	if strings.Contains(msg, "*Value:*") {
		t.Errorf("value line present without a price:\n%s", msg)
	}
}

func TestHolderReport(t *testing.T) {
	f := NewFormatter("https://solscan.io/tx", "https://solscan.io/token")
	mint := "MintX1111111111111111111111111111111111111"

	empty := f.HolderReport("XTK", mint, nil, nil)
	if !strings.Contains(empty, "No tracked wallets hold") {
		t.Errorf("unexpected empty report:\n%s", empty)
	}

	price := 2.0
	holders := []domain.TokenBalance{
		{WalletAddress: "Wa11etA11111111111111111111111111111111111", WalletName: "alpha", Mint: mint, Amount: 100},
		{WalletAddress: "Wa11etB11111111111111111111111111111111111", WalletName: "beta", Mint: mint, Amount: 50},
	}
	msg := f.HolderReport("XTK", mint, holders, &price)

	alphaIdx := strings.Index(msg, "alpha")
	betaIdx := strings.Index(msg, "beta")
	if alphaIdx < 0 || betaIdx < 0 || alphaIdx > betaIdx {
		t.Errorf("holders out of order:\n%s", msg)
	}
	if !strings.Contains(msg, "$200\\.00") {
		t.Errorf("missing USD valuation:\n%s", msg)
	}
	if !strings.Contains(msg, "https://solscan.io/token/"+mint) {
		t.Errorf("missing token link:\n%s", msg)
	}
}

func TestWalletList(t *testing.T) {
	f := NewFormatter("https://solscan.io/tx", "https://solscan.io/token")

	empty := f.WalletList(nil)
	if !strings.Contains(empty, "No wallets being tracked") {
		t.Errorf("unexpected empty list:\n%s", empty)
	}

	one := f.WalletList([]*domain.TrackedWallet{
		{Address: "Wa11etA11111111111111111111111111111111111", Name: "alpha"},
	})
	if !strings.Contains(one, "_Total: 1 wallet_") {
		t.Errorf("singular total wrong:\n%s", one)
	}

	two := f.WalletList([]*domain.TrackedWallet{
		{Address: "Wa11etA11111111111111111111111111111111111", Name: "alpha"},
		{Address: "Wa11etB11111111111111111111111111111111111", Name: "beta"},
	})
	if !strings.Contains(two, "_Total: 2 wallets_") {
		t.Errorf("plural total wrong:\n%s", two)
	}
}
