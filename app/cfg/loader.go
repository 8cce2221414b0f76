package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// IO configuration
	InputFile  string `long:"input" env:"INPUT_FILE" description:"Path to a JSON array of raw provider events (defaults to stdin)"`
	OutputFile string `long:"output" env:"OUTPUT_FILE" description:"Path for the pipeline report (defaults to stdout)"`

	// Ambient discovery context
	City  string `long:"city" env:"DISCOVERY_CITY" description:"City the providers were searching in"`
	State string `long:"state" env:"DISCOVERY_STATE" description:"State the providers were searching in"`

	// Normalization configuration
	CategoryRulesFile string `long:"category-rules" env:"CATEGORY_RULES_FILE" description:"YAML file overriding the category keyword table (optional)"`

	// Seen-hash store configuration
	StoreBackend string `long:"store" env:"HASH_STORE" default:"memory" choice:"memory" choice:"redis" choice:"sqlite" description:"Backend for the cross-batch seen-hash store"`
	RedisAddr    string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address for the redis store backend"`
	RedisTTLDays int    `long:"redis-ttl-days" env:"REDIS_TTL_DAYS" default:"30" description:"Days before a seen hash expires from Redis"`
	SQLitePath   string `long:"sqlite-path" env:"SQLITE_PATH" default:"./event_hashes.db" description:"Database file for the sqlite store backend"`

	// Application metadata
	WorkerCount int  `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of workers for batch normalization"`
	Debug       bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
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
		InputFile:         raw.InputFile,
		OutputFile:        raw.OutputFile,
		City:              raw.City,
		State:             raw.State,
		CategoryRulesFile: raw.CategoryRulesFile,
		StoreBackend:      raw.StoreBackend,
		RedisAddr:         raw.RedisAddr,
		RedisTTLDays:      raw.RedisTTLDays,
		SQLitePath:        raw.SQLitePath,
		WorkerCount:       raw.WorkerCount,
		Debug:             raw.Debug,
		Version:           GetVersion(),
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
