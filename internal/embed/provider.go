package embed

import (
	"context"
	"fmt"
	"strings"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

// Provider defines the interface for embedding providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Embed converts text into a fixed-length vector. Vectors are NOT
	// guaranteed normalized here; the engine normalizes.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the dimensionality of output vectors
	Dimension() int

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// NewProvider creates an embedding provider based on configuration
func NewProvider(cfg model.EmbeddingConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)

	case "ollama":
		return NewOllamaProvider(cfg)

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}
