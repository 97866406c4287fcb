package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./newsheat.db" description:"SQLite database file path"`

	// Application configuration
	SourcesFile     string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file listing RSS/Atom source URLs"`
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount     int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for harvest processing"`
	HarvestInterval int    `long:"harvest-interval" env:"HARVEST_INTERVAL" default:"900" description:"Harvest interval in seconds"`
	CleanupInterval int    `long:"cleanup-interval" env:"CLEANUP_INTERVAL" default:"86400" description:"Retention cleanup interval in seconds"`
	RetentionCount  int    `long:"retention-count" env:"RETENTION_COUNT" default:"5000" description:"Number of newest stored items to keep"`
	MaxPerSource    int    `long:"max-per-source" env:"MAX_PER_SOURCE" default:"30" description:"Maximum items taken from a single source per fetch"`
	FeedLimit       int    `long:"feed-limit" env:"FEED_LIMIT" default:"50" description:"Default number of items in a feed response"`
	TranslateBatch  int    `long:"translate-batch" env:"TRANSLATE_BATCH" default:"10" description:"Maximum items translated per feed request"`
	APIAccessKey    string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Telegram digest
	TelegramToken  string `long:"telegram-token" env:"TELEGRAM_TOKEN" description:"Telegram bot token for digest delivery (optional)"`
	TelegramChatID string `long:"telegram-chat-id" env:"TELEGRAM_CHAT_ID" description:"Telegram chat or channel ID for digest delivery"`
	DigestInterval int    `long:"digest-interval" env:"DIGEST_INTERVAL" default:"21600" description:"Digest interval in seconds"`
	DigestSize     int    `long:"digest-size" env:"DIGEST_SIZE" default:"5" description:"Number of items per digest"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"NewsHeat/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Moscow)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:          raw.DBPath,
		SourcesFile:     raw.SourcesFile,
		Port:            raw.Port,
		WorkerCount:     raw.WorkerCount,
		HarvestInterval: raw.HarvestInterval,
		CleanupInterval: raw.CleanupInterval,
		RetentionCount:  raw.RetentionCount,
		MaxPerSource:    raw.MaxPerSource,
		FeedLimit:       raw.FeedLimit,
		TranslateBatch:  raw.TranslateBatch,
		APIAccessKey:    raw.APIAccessKey,
		TelegramToken:   raw.TelegramToken,
		TelegramChatID:  raw.TelegramChatID,
		DigestInterval:  raw.DigestInterval,
		DigestSize:      raw.DigestSize,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	return nil
}
