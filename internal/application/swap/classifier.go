package swap

import (
	"github.com/solwatch/swt/internal/domain"
	"github.com/solwatch/swt/pkg/solana"
)

// Result is a classified swap. Amount is in human units when the transfer
// reported them directly; RawAmount is set instead when only raw integer
// units were available and the caller must scale by the mint's decimals.
type Result struct {
	Kind         domain.TradeKind
	TokenAddress string
	Amount       float64
	RawAmount    *int64
}

type leg struct {
	mint   string
	amount float64
}

// Classify determines trade direction for one wallet from the transfers of
// a single transaction. It is a pure function: no state, no side effects.
// Rules apply in order and the first match wins, biasing toward the token
// side of the trade over the SOL side:
//
//  1. wallet received a non-SOL mint  -> buy of that mint
//  2. wallet sent a non-SOL mint      -> sell of that mint
//  3. only SOL moved as token legs: infer direction from net native flow
//
// Transactions moving more than one non-SOL mint resolve to the first
// transfer in payload order; this mirrors the upstream heuristic and is a
// known approximation.
//
// Returns nil when the transfers do not describe an interpretable swap.
func Classify(walletAddress string, tokenTransfers []domain.TokenTransfer, nativeTransfers []domain.NativeTransfer) *Result {
	var sent, received []leg

	for _, transfer := range tokenTransfers {
		switch {
		case transfer.FromUserAccount == walletAddress:
			sent = append(sent, leg{mint: transfer.Mint, amount: transfer.TokenAmount})
		case transfer.ToUserAccount == walletAddress:
			received = append(received, leg{mint: transfer.Mint, amount: transfer.TokenAmount})
		}
	}

	for _, l := range received {
		if l.mint != solana.SOLMint {
			return &Result{Kind: domain.TradeBuy, TokenAddress: l.mint, Amount: l.amount}
		}
	}

	for _, l := range sent {
		if l.mint != solana.SOLMint {
			return &Result{Kind: domain.TradeSell, TokenAddress: l.mint, Amount: l.amount}
		}
	}

	var solSent, solReceived int64
	for _, transfer := range nativeTransfers {
		switch {
		case transfer.FromUserAccount == walletAddress:
			solSent += transfer.Amount
		case transfer.ToUserAccount == walletAddress:
			solReceived += transfer.Amount
		}
	}

	if solReceived > solSent && len(sent) > 0 {
		return &Result{Kind: domain.TradeSell, TokenAddress: sent[0].mint, Amount: sent[0].amount}
	}
	if solSent > solReceived && len(received) > 0 {
		return &Result{Kind: domain.TradeBuy, TokenAddress: received[0].mint, Amount: received[0].amount}
	}

	return nil
}
