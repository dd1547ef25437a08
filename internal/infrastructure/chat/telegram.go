package chat

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/solwatch/swt/internal/alert"
	"github.com/solwatch/swt/internal/application/holders"
	"github.com/solwatch/swt/internal/domain"
	"github.com/solwatch/swt/internal/domain/interfaces"
	"github.com/solwatch/swt/internal/repositories/walletrepo"
	"github.com/solwatch/swt/pkg/config"
	"github.com/solwatch/swt/pkg/solana"
)

// TelegramGateway is both sides of the chat integration: it delivers
// alerts to the configured channel and serves the wallet-management
// commands over long polling.
type TelegramGateway struct {
	bot          *tgbotapi.BotAPI
	chatID       int64
	walletRepo   walletrepo.IWalletRepository
	subscription interfaces.SubscriptionManager
	webhooks     interfaces.WebhookClient
	aggregator   *holders.Aggregator
	tokens       interfaces.TokenSource
	formatter    *alert.Formatter
	logger       zerolog.Logger
}

func NewTelegramGateway(
	cfg config.TelegramConfig,
	walletRepo walletrepo.IWalletRepository,
	subscription interfaces.SubscriptionManager,
	webhooks interfaces.WebhookClient,
	aggregator *holders.Aggregator,
	tokens interfaces.TokenSource,
	formatter *alert.Formatter,
	logger zerolog.Logger,
) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	return &TelegramGateway{
		bot:          bot,
		chatID:       cfg.ChatID,
		walletRepo:   walletRepo,
		subscription: subscription,
		webhooks:     webhooks,
		aggregator:   aggregator,
		tokens:       tokens,
		formatter:    formatter,
		logger:       logger,
	}, nil
}

// SendAlert delivers a formatted message to the configured channel.
func (g *TelegramGateway) SendAlert(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(g.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	_, err := g.bot.Send(msg)
	return err
}

// Run polls for commands until ctx is cancelled.
func (g *TelegramGateway) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := g.bot.GetUpdatesChan(updateConfig)

	g.logger.Info().Str("bot", g.bot.Self.UserName).Msg("Telegram bot started")

	for {
		select {
		case <-ctx.Done():
			g.bot.StopReceivingUpdates()
			g.logger.Info().Msg("Telegram bot stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			g.handleCommand(ctx, update.Message)
		}
	}
}

func (g *TelegramGateway) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	args := strings.Fields(message.CommandArguments())

	var reply string
	switch message.Command() {
	case "start":
		reply = g.formatter.Welcome()
	case "add":
		reply = g.handleAdd(ctx, args)
	case "remove":
		reply = g.handleRemove(ctx, args)
	case "list":
		reply = g.handleList(ctx)
	case "rename":
		reply = g.handleRename(ctx, args)
	case "holders":
		reply = g.handleHolders(ctx, args)
	default:
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, reply)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	if _, err := g.bot.Send(msg); err != nil {
		g.logger.Error().Err(err).Str("command", message.Command()).Msg("Failed to send command reply")
	}
}

func (g *TelegramGateway) handleAdd(ctx context.Context, args []string) string {
	if len(args) < 2 {
		return g.formatter.Error("Usage: /add <address> <name>")
	}

	address := args[0]
	name := strings.Join(args[1:], " ")

	if !solana.IsValidAddress(address) {
		return g.formatter.Error("Invalid Solana address format.")
	}

	existing, err := g.walletRepo.GetByAddress(ctx, address)
	if err != nil {
		g.logger.Error().Err(err).Str("address", address).Msg("Failed to check wallet")
		return g.formatter.Error("Failed to add wallet. Please try again.")
	}
	if existing != nil {
		return g.formatter.Error("Wallet is already being tracked as '" + existing.Name + "'.")
	}

	added, err := g.walletRepo.Add(ctx, &domain.TrackedWallet{Address: address, Name: name})
	if err != nil {
		g.logger.Error().Err(err).Str("address", address).Msg("Failed to add wallet")
		return g.formatter.Error("Failed to add wallet. Please try again.")
	}
	if !added {
		return g.formatter.Error("Wallet is already being tracked.")
	}

	if err := g.syncSubscription(ctx); err != nil {
		// Registration failure blocks the add; roll the row back so
		// tracked state and the remote subscription stay consistent.
		if _, removeErr := g.walletRepo.Remove(ctx, address); removeErr != nil {
			g.logger.Error().Err(removeErr).Str("address", address).Msg("Failed to roll back wallet add")
		}
		g.logger.Error().Err(err).Str("address", address).Msg("Failed to update subscription")
		return g.formatter.Error("Failed to register wallet with the notifier. Please try again later.")
	}

	g.logger.Info().Str("address", address).Str("name", name).Msg("Added wallet")
	return g.formatter.WalletAdded(name, address)
}

func (g *TelegramGateway) handleRemove(ctx context.Context, args []string) string {
	if len(args) < 1 {
		return g.formatter.Error("Usage: /remove <address>")
	}
	address := args[0]

	wallet, err := g.walletRepo.GetByAddress(ctx, address)
	if err != nil {
		g.logger.Error().Err(err).Str("address", address).Msg("Failed to look up wallet")
		return g.formatter.Error("Failed to remove wallet. Please try again.")
	}
	if wallet == nil {
		return g.formatter.Error("Wallet not found in tracked list.")
	}

	legacyWebhookID, err := g.walletRepo.Remove(ctx, address)
	if err != nil {
		g.logger.Error().Err(err).Str("address", address).Msg("Failed to remove wallet")
		return g.formatter.Error("Failed to remove wallet. Please try again.")
	}

	// Rows from the old one-webhook-per-wallet mode still carry their own
	// webhook; clean it up best-effort.
	if legacyWebhookID != nil {
		if err := g.webhooks.DeleteWebhook(ctx, *legacyWebhookID); err != nil {
			g.logger.Warn().Err(err).Str("webhook_id", *legacyWebhookID).Msg("Failed to delete legacy webhook")
		}
	}

	if err := g.syncSubscription(ctx); err != nil {
		g.logger.Error().Err(err).Str("address", address).Msg("Failed to update subscription after removal")
		return g.formatter.Error("Wallet removed, but the notifier update failed. Alerts may lag until the next change.")
	}

	g.logger.Info().Str("address", address).Str("name", wallet.Name).Msg("Removed wallet")
	return g.formatter.WalletRemoved(wallet.Name, address)
}

func (g *TelegramGateway) handleList(ctx context.Context) string {
	wallets, err := g.walletRepo.List(ctx)
	if err != nil {
		g.logger.Error().Err(err).Msg("Failed to list wallets")
		return g.formatter.Error("Failed to list wallets. Please try again.")
	}
	return g.formatter.WalletList(wallets)
}

func (g *TelegramGateway) handleRename(ctx context.Context, args []string) string {
	if len(args) < 2 {
		return g.formatter.Error("Usage: /rename <address> <new_name>")
	}

	address := args[0]
	newName := strings.Join(args[1:], " ")

	wallet, err := g.walletRepo.GetByAddress(ctx, address)
	if err != nil {
		g.logger.Error().Err(err).Str("address", address).Msg("Failed to look up wallet")
		return g.formatter.Error("Failed to rename wallet. Please try again.")
	}
	if wallet == nil {
		return g.formatter.Error("Wallet not found in tracked list.")
	}

	renamed, err := g.walletRepo.Rename(ctx, address, newName)
	if err != nil || !renamed {
		g.logger.Error().Err(err).Str("address", address).Msg("Failed to rename wallet")
		return g.formatter.Error("Failed to rename wallet.")
	}

	g.logger.Info().
		Str("address", address).
		Str("old_name", wallet.Name).
		Str("new_name", newName).
		Msg("Renamed wallet")
	return g.formatter.WalletRenamed(wallet.Name, newName, address)
}

func (g *TelegramGateway) handleHolders(ctx context.Context, args []string) string {
	if len(args) < 1 {
		return g.formatter.Error("Usage: /holders <mint>")
	}
	mint := args[0]

	if !solana.IsValidAddress(mint) {
		return g.formatter.Error("Invalid token mint address.")
	}

	wallets, err := g.walletRepo.List(ctx)
	if err != nil {
		g.logger.Error().Err(err).Msg("Failed to list wallets")
		return g.formatter.Error("Failed to query holders. Please try again.")
	}
	if len(wallets) == 0 {
		return g.formatter.Error("No wallets are being tracked.")
	}

	holderList := g.aggregator.FindHolders(ctx, mint, wallets)

	symbol := "UNKNOWN"
	if info, err := g.tokens.Resolve(ctx, mint); err == nil {
		symbol = info.Symbol
	}

	// One price for the mint, applied to every holder by the formatter.
	price, err := g.tokens.PriceUSD(ctx, mint)
	if err != nil {
		g.logger.Warn().Err(err).Str("mint", mint).Msg("Price lookup failed for holder report")
		price = nil
	}

	return g.formatter.HolderReport(symbol, mint, holderList, price)
}

// syncSubscription pushes the current full address list to the shared
// remote subscription.
func (g *TelegramGateway) syncSubscription(ctx context.Context) error {
	wallets, err := g.walletRepo.List(ctx)
	if err != nil {
		return err
	}

	addresses := make([]string, 0, len(wallets))
	for _, wallet := range wallets {
		addresses = append(addresses, wallet.Address)
	}
	return g.subscription.ReplaceTrackedSet(ctx, addresses)
}
