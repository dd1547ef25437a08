package solana

import "testing"

func TestTokenAmount(t *testing.T) {
	tests := []struct {
		name      string
		rawAmount int64
		decimals  int
		want      float64
	}{
		{"six decimals", 1_500_000, 6, 1.5},
		{"nine decimals", 2_000_000_000, 9, 2},
		{"zero decimals", 42, 0, 42},
		{"zero amount", 0, 6, 0},
		{"sub unit", 1, 6, 0.000001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenAmount(tt.rawAmount, tt.decimals); got != tt.want {
				t.Errorf("TokenAmount(%d, %d) = %v, want %v", tt.rawAmount, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"wrapped sol mint", SOLMint, true},
		{"system program", "11111111111111111111111111111111", true},
		{"too short", "abc", false},
		{"empty", "", false},
		{"bad base58 chars", "0OIl111111111111111111111111111111111111", false},
		{"too long", "1111111111111111111111111111111111111111111111111", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAddress(tt.address); got != tt.want {
				t.Errorf("IsValidAddress(%q) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}

func TestShortenAddress(t *testing.T) {
	if got := ShortenAddress(SOLMint); got != "So11...1112" {
		t.Errorf("ShortenAddress(SOLMint) = %q, want %q", got, "So11...1112")
	}
	if got := ShortenAddress("short"); got != "short" {
		t.Errorf("ShortenAddress(%q) = %q, want unchanged", "short", got)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{3_100_000_000, "3.10B"},
		{2_500_000, "2.50M"},
		{1234.5, "1,234.50"},
		{1, "1.00"},
		{0.000123, "0.000123"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.amount); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1_500_000, "$1.50M"},
		{1234.5, "$1,234.50"},
		{12.3, "$12.30"},
		{0.005, "$0.005000"},
	}

	for _, tt := range tests {
		if got := FormatUSD(tt.amount); got != tt.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
