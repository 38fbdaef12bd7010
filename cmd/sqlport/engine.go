package main

import (
	"fmt"
	"time"

	"sqlport/internal/ai"
	"sqlport/internal/analyzer"
	"sqlport/internal/cache"
	"sqlport/internal/config"
	"sqlport/internal/convert"
	"sqlport/internal/logging"
	"sqlport/internal/storage"
	"sqlport/internal/typemap"
)

// engine bundles the wired orchestrator with the resources that need
// closing when the command finishes.
type engine struct {
	cfg          *config.Config
	logger       *logging.Logger
	orchestrator *convert.Orchestrator
	cache        *cache.TwoTier
	db           *storage.DB
}

func (e *engine) Close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			e.logger.Warn("Failed to close cache database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(rootFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	format := logging.HumanFormat
	if cfg.Logging.Format == "json" {
		format = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: format,
		Level:  logging.ParseLevel(level),
	})
}

// openCache opens the durable tier under the project root. A missing or
// unopenable database degrades to the in-process tier only.
func openCache(cfg *config.Config, logger *logging.Logger) (*cache.TwoTier, *storage.DB) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	cacheRoot := cfg.Cache.Dir
	if cacheRoot == "" {
		cacheRoot = rootFlag
	}

	db, err := storage.Open(cacheRoot, logger)
	if err != nil {
		logger.Warn("Durable cache unavailable, using in-process tier only", map[string]interface{}{
			"error": err.Error(),
		})
		return cache.New(nil, logger), nil
	}
	return cache.New(storage.NewConvStore(db), logger), db
}

// newEngine wires config, logging, cache, analyzer, type mappings, and
// the AI client into a ready orchestrator.
func newEngine() (*engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	if cfg.AI.Endpoint == "" {
		return nil, fmt.Errorf("ai.endpoint is not configured; run 'sqlport init' and edit .sqlport/config.json")
	}
	apiKey := cfg.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable %s", cfg.AI.APIKeyEnv)
	}

	client, err := ai.NewClient(cfg.AI.Endpoint, apiKey, cfg.AI.Deployment)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	strategy, ok := analyzer.ParseStrategy(cfg.Analyzer.MaintainabilityStrategy)
	if !ok {
		strategy = analyzer.StrategyPenalty
	}

	mappings, err := typemap.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load type mappings: %w", err)
	}

	tiers, db := openCache(cfg, logger)

	var rc convert.ResultCache
	if tiers != nil {
		rc = tiers
	}

	orch := convert.New(convert.Options{
		Model:               cfg.AI.Model,
		PromptVersion:       cfg.AI.PromptVersion,
		CacheEnabled:        cfg.Cache.Enabled,
		NominalHitLatencyMs: int64(cfg.Cache.NominalHitLatencyMs),
		AITimeout:           time.Duration(cfg.AI.TimeoutMs) * time.Millisecond,
		Coalesce:            cfg.Conversion.Coalesce,
	}, client, rc, analyzer.New(strategy), mappings, logger)

	return &engine{
		cfg:          cfg,
		logger:       logger,
		orchestrator: orch,
		cache:        tiers,
		db:           db,
	}, nil
}
