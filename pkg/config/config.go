package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Helius      HeliusConfig      `yaml:"helius"`
	DexScreener DexScreenerConfig `yaml:"dexscreener"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Tracker     TrackerConfig     `yaml:"tracker"`
	Security    SecurityConfig    `yaml:"security"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	User            string `yaml:"user"`
	DBName          string `yaml:"name"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"ssl_mode"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
}

type HeliusConfig struct {
	APIKey     string        `yaml:"api_key"`
	BaseURL    string        `yaml:"base_url"`
	WebhookURL string        `yaml:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

type DexScreenerConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type TrackerConfig struct {
	// HolderConcurrency bounds simultaneous balance lookups during
	// holder aggregation.
	HolderConcurrency int `yaml:"holder_concurrency"`
	// PlaceholderAddress is registered with the notifier when the tracked
	// set becomes empty; the webhook API rejects empty address lists.
	PlaceholderAddress string `yaml:"placeholder_address"`
	TxExplorerURL      string `yaml:"tx_explorer_url"`
	TokenExplorerURL   string `yaml:"token_explorer_url"`
}

type SecurityConfig struct {
	APIKey string `yaml:"api_key"`
}

type WebSocketConfig struct {
	ReadBufferSize  int  `yaml:"read_buffer_size"`
	WriteBufferSize int  `yaml:"write_buffer_size"`
	CheckOrigin     bool `yaml:"check_origin"`
}

func Load() (*Config, error) {
	// .env is optional outside local development.
	_ = godotenv.Load()

	var config Config
	configData, err := os.ReadFile("./config.yaml")
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(configData, &config); err != nil {
		return nil, err
	}

	config.applyEnv()
	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyEnv lets secrets come from the environment instead of config.yaml.
func (c *Config) applyEnv() {
	if v := os.Getenv("HELIUS_API_KEY"); v != "" {
		c.Helius.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("SWT_API_KEY"); v != "" {
		c.Security.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Helius.BaseURL == "" {
		c.Helius.BaseURL = "https://api.helius.xyz/v0"
	}
	if c.Helius.Timeout == 0 {
		c.Helius.Timeout = 30 * time.Second
	}
	if c.DexScreener.BaseURL == "" {
		c.DexScreener.BaseURL = "https://api.dexscreener.com"
	}
	if c.DexScreener.Timeout == 0 {
		c.DexScreener.Timeout = 30 * time.Second
	}
	if c.Tracker.HolderConcurrency == 0 {
		c.Tracker.HolderConcurrency = 10
	}
	if c.Tracker.PlaceholderAddress == "" {
		// System program address, never trades.
		c.Tracker.PlaceholderAddress = "11111111111111111111111111111111"
	}
	if c.Tracker.TxExplorerURL == "" {
		c.Tracker.TxExplorerURL = "https://solscan.io/tx"
	}
	if c.Tracker.TokenExplorerURL == "" {
		c.Tracker.TokenExplorerURL = "https://solscan.io/token"
	}
	if c.WebSocket.ReadBufferSize == 0 {
		c.WebSocket.ReadBufferSize = 1024
	}
	if c.WebSocket.WriteBufferSize == 0 {
		c.WebSocket.WriteBufferSize = 1024
	}
}

func (c *Config) validate() error {
	if c.Helius.APIKey == "" {
		return fmt.Errorf("helius api key is required")
	}
	if c.Helius.WebhookURL == "" {
		return fmt.Errorf("helius webhook url is required")
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required")
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram chat id is required")
	}
	return nil
}
