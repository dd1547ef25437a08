package alert

import (
	"fmt"
	"strings"

	"github.com/solwatch/swt/internal/domain"
	"github.com/solwatch/swt/pkg/solana"
)

// Formatter builds the MarkdownV2 messages sent to the chat channel.
type Formatter struct {
	txExplorerURL    string
	tokenExplorerURL string
}

func NewFormatter(txExplorerURL, tokenExplorerURL string) *Formatter {
	return &Formatter{
		txExplorerURL:    txExplorerURL,
		tokenExplorerURL: tokenExplorerURL,
	}
}

// TradeAlert renders a buy or sell alert for one processed swap.
func (f *Formatter) TradeAlert(walletName string, record *domain.TransactionRecord) string {
	header := "🟢 *BUY ALERT*"
	if record.Kind == domain.TradeSell {
		header = "🔴 *SELL ALERT*"
	}

	lines := []string{
		header,
		"",
		fmt.Sprintf("*Wallet:* %s", Escape(walletName)),
		fmt.Sprintf("*Address:* `%s`", solana.ShortenAddress(record.WalletAddress)),
		"",
		fmt.Sprintf("*Token:* $%s", Escape(record.TokenSymbol)),
		fmt.Sprintf("*Amount:* %s %s", Escape(solana.FormatAmount(record.Amount)), Escape(record.TokenSymbol)),
	}

	if record.USDValue != nil && *record.USDValue > 0 {
		lines = append(lines, fmt.Sprintf("*Value:* %s", Escape(solana.FormatUSD(*record.USDValue))))
	}

	lines = append(lines,
		"",
		fmt.Sprintf("[View Transaction](%s/%s)", f.txExplorerURL, record.Signature),
		fmt.Sprintf("[View Token](%s/%s)", f.tokenExplorerURL, record.TokenAddress),
	)

	return strings.Join(lines, "\n")
}

// HolderReport renders the ranked holder list for one mint.
func (f *Formatter) HolderReport(symbol, mint string, holders []domain.TokenBalance, priceUSD *float64) string {
	if len(holders) == 0 {
		return fmt.Sprintf("📋 *No tracked wallets hold $%s*", Escape(symbol))
	}

	lines := []string{
		fmt.Sprintf("📋 *Holders of $%s*", Escape(symbol)),
		"",
	}

	for i, holder := range holders {
		entry := fmt.Sprintf("%d\\. *%s* — %s",
			i+1,
			Escape(holder.WalletName),
			Escape(solana.FormatAmount(holder.Amount)),
		)
		if priceUSD != nil {
			entry += fmt.Sprintf(" \\(%s\\)", Escape(solana.FormatUSD(holder.Amount * *priceUSD)))
		}
		lines = append(lines, entry, fmt.Sprintf("   `%s`", solana.ShortenAddress(holder.WalletAddress)), "")
	}

	lines = append(lines, fmt.Sprintf("[View Token](%s/%s)", f.tokenExplorerURL, mint))
	return strings.Join(lines, "\n")
}

// WalletList renders the tracked-wallet list.
func (f *Formatter) WalletList(wallets []*domain.TrackedWallet) string {
	if len(wallets) == 0 {
		return "📋 *No wallets being tracked*\n\nUse `/add <address> <name>` to start tracking a wallet\\."
	}

	lines := []string{"📋 *Tracked Wallets*", ""}
	for i, wallet := range wallets {
		lines = append(lines,
			fmt.Sprintf("%d\\. *%s*", i+1, Escape(wallet.Name)),
			fmt.Sprintf("   `%s`", solana.ShortenAddress(wallet.Address)),
			"",
		)
	}

	plural := "s"
	if len(wallets) == 1 {
		plural = ""
	}
	lines = append(lines, fmt.Sprintf("_Total: %d wallet%s_", len(wallets), plural))
	return strings.Join(lines, "\n")
}

func (f *Formatter) WalletAdded(name, address string) string {
	return fmt.Sprintf(
		"✅ *Wallet Added*\n\n*Name:* %s\n*Address:* `%s`\n\nYou will receive alerts when this wallet makes token swaps\\.",
		Escape(name), solana.ShortenAddress(address),
	)
}

func (f *Formatter) WalletRemoved(name, address string) string {
	return fmt.Sprintf(
		"✅ *Wallet Removed*\n\n*Name:* %s\n*Address:* `%s`\n\nYou will no longer receive alerts for this wallet\\.",
		Escape(name), solana.ShortenAddress(address),
	)
}

func (f *Formatter) WalletRenamed(oldName, newName, address string) string {
	return fmt.Sprintf(
		"✅ *Wallet Renamed*\n\n*From:* %s\n*To:* %s\n*Address:* `%s`",
		Escape(oldName), Escape(newName), solana.ShortenAddress(address),
	)
}

func (f *Formatter) Error(message string) string {
	return "❌ *Error*\n\n" + Escape(message)
}

func (f *Formatter) Welcome() string {
	return "👋 *Welcome to Solana Wallet Tracker\\!*\n\n" +
		"I'll send you alerts when tracked wallets buy or sell tokens\\.\n\n" +
		"*Commands:*\n" +
		"• `/add <address> <name>` \\- Track a wallet\n" +
		"• `/remove <address>` \\- Stop tracking\n" +
		"• `/list` \\- Show tracked wallets\n" +
		"• `/rename <address> <new_name>` \\- Rename a wallet\n" +
		"• `/holders <mint>` \\- Rank tracked wallets by holding\n\n" +
		"_Get started by adding a wallet to track\\!_"
}

var markdownSpecials = []string{
	"_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!",
}

// Escape escapes MarkdownV2 special characters in user-supplied text.
func Escape(text string) string {
	for _, ch := range markdownSpecials {
		text = strings.ReplaceAll(text, ch, "\\"+ch)
	}
	return text
}
