package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkarpov/event-canon/app/cfg"
	"github.com/mkarpov/event-canon/app/event"
	"github.com/mkarpov/event-canon/app/metrics"
	"github.com/mkarpov/event-canon/app/pipeline"
	"github.com/mkarpov/event-canon/app/store"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting event canonicalization run", "version", appCfg.Version,
		"city", appCfg.City, "state", appCfg.State, "store", appCfg.StoreBackend)

	if err := run(appCfg); err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func run(appCfg *cfg.Cfg) error {
	ctx := context.Background()

	normalizer, err := buildNormalizer(appCfg)
	if err != nil {
		return err
	}

	hashStore, err := buildHashStore(ctx, appCfg)
	if err != nil {
		return err
	}
	defer hashStore.Close()

	registry := prometheus.NewRegistry()

	p := pipeline.New(normalizer,
		pipeline.WithHashStore(hashStore),
		pipeline.WithMetrics(metrics.New(registry)),
		pipeline.WithWorkerCount(appCfg.WorkerCount))

	raw, err := readInput(appCfg.InputFile)
	if err != nil {
		return err
	}

	report, err := p.Run(ctx, raw)
	if err != nil {
		return fmt.Errorf("failed to process batch: %w", err)
	}

	return writeReport(appCfg.OutputFile, report)
}

func buildNormalizer(appCfg *cfg.Cfg) (*event.Normalizer, error) {
	discoveryCtx := event.Context{City: appCfg.City, State: appCfg.State}

	if appCfg.CategoryRulesFile == "" {
		return event.NewNormalizer(discoveryCtx), nil
	}

	rules, err := event.LoadCategoryRules(appCfg.CategoryRulesFile)
	if err != nil {
		return nil, err
	}
	slog.Debug("Category rules loaded", "file", appCfg.CategoryRulesFile, "rules", len(rules))

	return event.NewNormalizerWithRules(discoveryCtx, rules), nil
}

func buildHashStore(ctx context.Context, appCfg *cfg.Cfg) (store.HashStore, error) {
	switch appCfg.StoreBackend {
	case "redis":
		ttl := time.Duration(appCfg.RedisTTLDays) * 24 * time.Hour
		return store.NewRedisStore(ctx, appCfg.RedisAddr, ttl)
	case "sqlite":
		return store.NewSQLiteStore(appCfg.SQLitePath)
	default:
		return store.NewMemoryStore(), nil
	}
}

// readInput decodes the raw provider batch from the input file or stdin.
// The decoded value stays untyped: the pipeline tolerates anything,
// including payloads that are not a list at all.
func readInput(path string) (any, error) {
	var reader io.Reader = os.Stdin
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer file.Close()
		reader = file
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	return raw, nil
}

func writeReport(path string, report *pipeline.Report) error {
	var writer io.Writer = os.Stdout
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer file.Close()
		writer = file
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
