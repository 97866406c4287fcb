package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:          "./test.db",
		SourcesFile:     "./sources.yml",
		Port:            "8080",
		WorkerCount:     5,
		HarvestInterval: 900,
		CleanupInterval: 86400,
		RetentionCount:  5000,
		MaxPerSource:    30,
		FeedLimit:       50,
		TranslateBatch:  10,
		APIAccessKey:    "test-key",
		TelegramToken:   "bot-token",
		TelegramChatID:  "@channel",
		DigestInterval:  21600,
		DigestSize:      5,
		UserAgent:       "Test Agent",
		Timezone:        "UTC",
		Debug:           true,
		Version:         "test-version",
	}

	if cfg.DBPath != "./test.db" {
		t.Errorf("Expected DB path './test.db', got '%s'", cfg.DBPath)
	}
	if cfg.SourcesFile != "./sources.yml" {
		t.Errorf("Expected sources file './sources.yml', got '%s'", cfg.SourcesFile)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("Expected worker count 5, got %d", cfg.WorkerCount)
	}
	if cfg.HarvestInterval != 900 {
		t.Errorf("Expected harvest interval 900, got %d", cfg.HarvestInterval)
	}
	if cfg.RetentionCount != 5000 {
		t.Errorf("Expected retention count 5000, got %d", cfg.RetentionCount)
	}
	if cfg.TranslateBatch != 10 {
		t.Errorf("Expected translate batch 10, got %d", cfg.TranslateBatch)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
	if cfg.TelegramChatID != "@channel" {
		t.Errorf("Expected chat ID '@channel', got '%s'", cfg.TelegramChatID)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("UTC must be accepted: %v", err)
	}
	if err := applyTimezone(""); err != nil {
		t.Errorf("empty timezone must be a no-op: %v", err)
	}
	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("expected error for unknown timezone")
	}
}
