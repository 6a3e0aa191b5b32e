package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ndquangr/moneymind/internal/config"
	"github.com/ndquangr/moneymind/internal/engine"
	"github.com/ndquangr/moneymind/internal/oracle"
	"github.com/ndquangr/moneymind/internal/service"
	"github.com/ndquangr/moneymind/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	dbPath = config.ExpandPath(dbPath)

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initOracle builds the intent oracle from config, or nil when no provider
// is configured.
func initOracle() (service.Oracle, error) {
	return oracle.NewClient(oracle.Config{
		Provider:    viper.GetString("oracle.provider"),
		APIKey:      viper.GetString("oracle.api_key"),
		Model:       viper.GetString("oracle.model"),
		Temperature: viper.GetFloat64("oracle.temperature"),
		MaxTokens:   viper.GetInt("oracle.max_tokens"),
		Timeout:     viper.GetDuration("oracle.timeout"),
	})
}

// initEngine wires storage, oracle, and parsers into a ready engine. The
// caller owns closing the returned storage.
func initEngine(ctx context.Context) (*engine.Engine, service.Storage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	oracleClient, err := initOracle()
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to configure oracle: %w", err)
	}

	cfg := engine.DefaultConfig()
	if hc := viper.GetString("home_currency"); hc != "" {
		cfg.HomeCurrency = hc
	}
	if uid := viper.GetString("user_id"); uid != "" {
		cfg.UserID = uid
	}
	if t := viper.GetDuration("oracle.timeout"); t > 0 {
		cfg.OracleTimeout = t
	}

	return engine.New(store, oracleClient, cfg), store, nil
}

// parseReceivedAt parses the --received-at flag, defaulting to now.
func parseReceivedAt(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q (want RFC3339 or 2006-01-02)", value)
}
