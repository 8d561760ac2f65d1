package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
	"github.com/mwalkowski/travel-notes/internal/domain/identity"
	"github.com/mwalkowski/travel-notes/internal/infra/attractionrepo"
	"github.com/mwalkowski/travel-notes/internal/infra/config"
	"github.com/mwalkowski/travel-notes/internal/infra/flags"
	"github.com/mwalkowski/travel-notes/internal/infra/images/pexels"
	"github.com/mwalkowski/travel-notes/internal/infra/llm/chatgpt"
	"github.com/mwalkowski/travel-notes/internal/infra/noterepo"
	"github.com/mwalkowski/travel-notes/internal/infra/ownercache"
	"github.com/mwalkowski/travel-notes/internal/infra/suggestcache"
)

func provideAttractionsConfig(cfg *config.Config) attractions.Config {
	return attractions.Config{
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		MaxTokens:    cfg.LLM.MaxTokens,
		Count:        cfg.Suggestions.Count,
		ImageTimeout: cfg.Suggestions.ImageTimeout,
	}
}

func provideIdentityConfig(cfg *config.Config) identity.Config {
	return identity.Config{Secret: cfg.Auth.Secret}
}

func provideChatGPTClient(cfg *config.Config) *chatgpt.Client {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func providePexelsClient(cfg *config.Config, logger *slog.Logger) *pexels.Client {
	window := pexels.NewWindow(cfg.Pexels.MaxRequestsPerHour, cfg.Pexels.SearchWindow)
	return pexels.NewClient(cfg.Pexels.APIKey, cfg.Pexels.BaseURL, window, logger)
}

func provideFlagProvider() flags.Provider {
	return flags.NewEnvProvider()
}

// providePostgresPool connects to Postgres when a DSN is configured. A nil
// pool switches the repositories to their in-memory fallbacks, which keeps
// local development working without a database.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideNoteStore(pool *pgxpool.Pool) attractions.NoteStore {
	if pool == nil {
		return noterepo.NewMemoryRepository()
	}
	return noterepo.NewPostgresRepository(pool)
}

func provideAttractionStore(pool *pgxpool.Pool) attractions.AttractionStore {
	if pool == nil {
		return attractionrepo.NewMemoryRepository()
	}
	return attractionrepo.NewPostgresRepository(pool)
}

func provideSuggestionCache(cfg *config.Config, logger *slog.Logger) attractions.SuggestionCache {
	ttl := cfg.Suggestions.CacheTTL
	if cfg.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return suggestcache.NewMemoryStore(ttl)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return suggestcache.NewMemoryStore(ttl)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		} else {
			logger.Info("valkey suggestion cache enabled", "addr", cfg.Valkey.Addr)
			return suggestcache.NewValkeyStore(client, "suggestions", ttl)
		}
	}
	return suggestcache.NewMemoryStore(ttl)
}

func provideOwnershipCache(cfg *config.Config) attractions.OwnershipCache {
	return ownercache.NewMemory(cfg.Suggestions.OwnershipTTL)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
