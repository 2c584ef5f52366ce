package embed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/cache"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/metrics"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

// DefaultDimension is the fixed output dimensionality of the sentence
// embedding model
const DefaultDimension = 384

// ErrUnavailable is returned once the engine has entered its permanent
// failed state, and by every call thereafter. Callers degrade gracefully
// instead of retrying.
var ErrUnavailable = errors.New("embedding engine unavailable")

type engineState int

const (
	stateUninitialized engineState = iota
	stateInitializing
	stateReady
	stateFailed
)

// Engine converts text into L2-normalized fixed-length vectors.
//
// The underlying provider is acquired lazily, at most once per process:
// the first Embed call triggers initialization and concurrent callers share
// the in-flight attempt. A failed initialization latches the engine
// unavailable for the process lifetime.
type Engine struct {
	cfg         model.EmbeddingConfig
	newProvider func(model.EmbeddingConfig) (Provider, error)
	cache       cache.Cache
	log         *zap.Logger

	mu       sync.Mutex
	state    engineState
	initDone chan struct{}
	provider Provider
}

// Option configures an Engine
type Option func(*Engine)

// WithCache attaches a vector cache
func WithCache(c cache.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithLogger attaches a structured logger
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithProviderFactory overrides provider construction (used by tests)
func WithProviderFactory(f func(model.EmbeddingConfig) (Provider, error)) Option {
	return func(e *Engine) { e.newProvider = f }
}

// NewEngine creates an engine. No provider work happens until the first
// Embed call.
func NewEngine(cfg model.EmbeddingConfig, opts ...Option) *Engine {
	e := &Engine{
		cfg:         cfg,
		newProvider: NewProvider,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dimension returns the configured vector dimensionality
func (e *Engine) Dimension() int {
	if e.cfg.Dimensions > 0 {
		return e.cfg.Dimensions
	}
	return DefaultDimension
}

// Available reports the engine state without triggering initialization
func (e *Engine) Available() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != stateFailed
}

// Embed returns the normalized embedding vector for text. Text beyond the
// configured character budget is truncated first.
func (e *Engine) Embed(ctx context.Context, text string) ([]float32, error) {
	text = Truncate(text, e.maxChars())
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("embed: empty text")
	}

	provider, err := e.ready(ctx)
	if err != nil {
		return nil, err
	}

	key := cache.VectorKey(provider.Name()+"/"+e.cfg.Model, text)
	if e.cache != nil {
		if data, found := e.cache.Get(key); found {
			if vec, err := cache.DecodeVector(data); err == nil {
				metrics.RecordEmbedding(provider.Name(), "cache_hit", 0)
				return vec, nil
			}
		}
	}

	start := time.Now()
	vec, err := provider.Embed(ctx, text)
	if err != nil {
		// Transient inference failures do not latch the engine; only a
		// failed initialization is permanent.
		metrics.RecordEmbedding(provider.Name(), "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("embed: %w", err)
	}
	metrics.RecordEmbedding(provider.Name(), "ok", time.Since(start).Seconds())

	Normalize(vec)

	if e.cache != nil {
		_ = e.cache.Set(key, cache.EncodeVector(vec), e.cfg.CacheTTL)
	}

	return vec, nil
}

// ready returns the initialized provider, performing single-flight
// initialization on first use
func (e *Engine) ready(ctx context.Context) (Provider, error) {
	e.mu.Lock()
	switch e.state {
	case stateReady:
		p := e.provider
		e.mu.Unlock()
		return p, nil

	case stateFailed:
		e.mu.Unlock()
		return nil, ErrUnavailable

	case stateUninitialized:
		e.state = stateInitializing
		e.initDone = make(chan struct{})
		go e.initialize()
	}

	done := e.initDone
	e.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == stateReady {
		return e.provider, nil
	}
	return nil, ErrUnavailable
}

// initialize runs exactly once per process
func (e *Engine) initialize() {
	timeout := e.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	provider, err := e.newProvider(e.cfg)
	ok := err == nil && provider.IsAvailable(ctx)

	e.mu.Lock()
	if ok {
		e.provider = provider
		e.state = stateReady
	} else {
		e.state = stateFailed
	}
	close(e.initDone)
	e.mu.Unlock()

	if ok {
		e.log.Info("embedding engine ready",
			zap.String("provider", provider.Name()),
			zap.Int("dimensions", provider.Dimension()))
	} else {
		if err == nil {
			err = fmt.Errorf("provider %s unreachable", e.cfg.Provider)
		}
		e.log.Warn("embedding engine unavailable for process lifetime", zap.Error(err))
	}
}

func (e *Engine) maxChars() int {
	if e.cfg.MaxChars > 0 {
		return e.cfg.MaxChars
	}
	return 512
}

// Truncate cuts text to at most max runes
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// Normalize scales vec in place to unit L2 norm so plain dot product equals
// cosine similarity
func Normalize(vec []float32) {
	var sum float64
	for _, f := range vec {
		sum += float64(f) * float64(f)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) * inv)
	}
}
