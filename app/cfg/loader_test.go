package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	// Test default version
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		InputFile:         "./events.json",
		OutputFile:        "./report.json",
		City:              "New York",
		State:             "NY",
		CategoryRulesFile: "./categories.yml",
		StoreBackend:      "sqlite",
		RedisAddr:         "localhost:6379",
		RedisTTLDays:      30,
		SQLitePath:        "./event_hashes.db",
		WorkerCount:       4,
		Debug:             true,
		Version:           "test-version",
	}

	if cfg.InputFile != "./events.json" {
		t.Errorf("Expected input file './events.json', got '%s'", cfg.InputFile)
	}
	if cfg.City != "New York" || cfg.State != "NY" {
		t.Errorf("Expected context 'New York'/'NY', got '%s'/'%s'", cfg.City, cfg.State)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("Expected store backend 'sqlite', got '%s'", cfg.StoreBackend)
	}
	if cfg.RedisTTLDays != 30 {
		t.Errorf("Expected redis TTL 30 days, got %d", cfg.RedisTTLDays)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("Expected worker count 4, got %d", cfg.WorkerCount)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}

func TestGet_PanicsWithoutLoad(t *testing.T) {
	saved := globalCfg
	globalCfg = nil
	defer func() {
		globalCfg = saved
		if r := recover(); r == nil {
			t.Error("Get should panic when configuration was never loaded")
		}
	}()

	Get()
}
