package solana

import (
	"fmt"
	"math"

	"github.com/mr-tron/base58"
)

// SOLMint is the wrapped-SOL mint address the notifier reports for native
// currency legs of a swap.
const SOLMint = "So11111111111111111111111111111111111111112"

// LamportsPerSOL converts raw native amounts to SOL.
const LamportsPerSOL = 1_000_000_000

// TokenAmount converts a raw integer token amount to its human-readable
// value using the mint's decimals.
func TokenAmount(rawAmount int64, decimals int) float64 {
	return float64(rawAmount) / math.Pow(10, float64(decimals))
}

// IsValidAddress reports whether s looks like a Solana public key: a
// base58 string of 32-44 characters decoding to at most 32 bytes.
func IsValidAddress(s string) bool {
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(decoded) <= 32
}

// ShortenAddress renders an address as "abcd...wxyz" for display.
func ShortenAddress(address string) string {
	const chars = 4
	if len(address) <= chars*2+3 {
		return address
	}
	return address[:chars] + "..." + address[len(address)-chars:]
}

// FormatAmount renders a token amount with thousands separators, scaling
// large values to M/B suffixes and widening precision for dust amounts.
func FormatAmount(amount float64) string {
	switch {
	case amount >= 1_000_000_000:
		return commaFormat(amount/1_000_000_000, 2) + "B"
	case amount >= 1_000_000:
		return commaFormat(amount/1_000_000, 2) + "M"
	case amount >= 1:
		return commaFormat(amount, 2)
	default:
		return commaFormat(amount, 6)
	}
}

// FormatUSD renders a dollar value, scaling millions to an M suffix.
func FormatUSD(amount float64) string {
	switch {
	case amount >= 1_000_000:
		return "$" + commaFormat(amount/1_000_000, 2) + "M"
	case amount >= 0.01:
		return "$" + commaFormat(amount, 2)
	default:
		return "$" + commaFormat(amount, 6)
	}
}

func commaFormat(v float64, decimals int) string {
	s := fmt.Sprintf("%.*f", decimals, v)

	dot := len(s)
	for i, r := range s {
		if r == '.' {
			dot = i
			break
		}
	}

	intPart, frac := s[:dot], s[dot:]
	neg := false
	if len(intPart) > 0 && intPart[0] == '-' {
		neg = true
		intPart = intPart[1:]
	}

	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}

	result := string(out) + frac
	if neg {
		result = "-" + result
	}
	return result
}
