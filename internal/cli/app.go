package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/cache"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/embed"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/fetch"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/pipeline"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/score"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/store"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/trust"
)

// app bundles the wired verification components shared by the serve, verify,
// batch and sources commands.
type app struct {
	cfg      *model.Config
	log      *zap.Logger
	store    store.Store
	verifier *pipeline.Verifier
	registry *trust.Registry
	agg      *trust.Aggregator
}

// loadConfig layers env/config-file values from viper over the defaults
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("embedding.provider"); v != "" {
		cfg.Embedding.Provider = v
	}
	if v := viper.GetString("embedding.model"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := viper.GetString("embedding.base_url"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := viper.GetString("store.dir"); v != "" {
		cfg.Store.Dir = v
	}
	if v := viper.GetString("trust.registry_path"); v != "" {
		cfg.Trust.RegistryPath = v
	}
	if v := viper.GetString("server.addr"); v != "" {
		cfg.Server.Addr = v
	}

	// API keys come from the environment only, never the config file.
	switch cfg.Embedding.Provider {
	case "openai":
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	case "ollama":
		if base := os.Getenv("OLLAMA_BASE_URL"); base != "" {
			cfg.Embedding.BaseURL = base
		}
	}
	return cfg
}

// newApp wires fetcher, engine, scorer and store from cfg
func newApp(cfg *model.Config) (*app, error) {
	log, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var contentCache, vectorCache cache.Cache
	if cfg.Cache.Enabled {
		contentCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cacheSubdir(cfg.Cache.Dir, "content"), cfg.Cache.DiskTTL)
		vectorCache = cache.NewLayeredCache(cfg.Embedding.CacheTTL, cacheSubdir(cfg.Cache.Dir, "vectors"), cfg.Cache.DiskTTL)
	}

	var fetchOpts []fetch.Option
	if contentCache != nil {
		fetchOpts = append(fetchOpts, fetch.WithContentCache(contentCache, cfg.Cache.MemoryTTL))
	}
	if cfg.RateLimit.RequestsPerSecond > 0 {
		fetchOpts = append(fetchOpts, fetch.WithLimiter(fetch.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)))
	}
	fetcher := fetch.NewFetcher(cfg.HTTP, fetchOpts...)

	var engineOpts []embed.Option
	if vectorCache != nil {
		engineOpts = append(engineOpts, embed.WithCache(vectorCache))
	}
	engineOpts = append(engineOpts, embed.WithLogger(log))
	engine := embed.NewEngine(cfg.Embedding, engineOpts...)

	var st store.Store
	if cfg.Store.Dir != "" {
		st, err = store.NewDiskStore(cfg.Store.Dir)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
	} else {
		st = store.NewMemoryStore()
	}

	var registry *trust.Registry
	if cfg.Trust.RegistryPath != "" {
		registry = trust.NewRegistry(cfg.Trust.RegistryPath)
	}

	return &app{
		cfg:      cfg,
		log:      log,
		store:    st,
		verifier: pipeline.NewVerifier(fetcher, engine, score.NewScorer(cfg.Thresholds), st, log),
		registry: registry,
		agg:      trust.NewAggregator(cfg.Trust),
	}, nil
}

func (a *app) close() {
	_ = a.log.Sync()
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// cacheSubdir keeps content and vector entries apart on disk. Empty dir
// disables the disk layer entirely.
func cacheSubdir(dir, name string) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, name)
}
