package model

import "time"

// Config is the complete runtime configuration tree
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Thresholds ThresholdConfig  `yaml:"thresholds"`
	Trust      TrustConfig      `yaml:"trust"`
	Store      StoreConfig      `yaml:"store"`
	Cache      CacheConfig      `yaml:"cache"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Server     ServerConfig     `yaml:"server"`
}

// HTTPConfig controls outbound source fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty"`
	NoProxy       string        `yaml:"no_proxy,omitempty"`
}

// EmbeddingConfig controls the embedding engine and its provider
type EmbeddingConfig struct {
	Provider   string        `yaml:"provider"` // "openai" or "ollama"
	Model      string        `yaml:"model"`
	APIKey     string        `yaml:"api_key,omitempty"`
	BaseURL    string        `yaml:"base_url,omitempty"`
	Dimensions int           `yaml:"dimensions"`
	MaxChars   int           `yaml:"max_chars"` // Text beyond this is truncated before encoding
	Timeout    time.Duration `yaml:"timeout"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

// ThresholdConfig holds the similarity cutoffs applied highest first.
// These are policy, not law: the defaults mirror the shipped calibration.
type ThresholdConfig struct {
	Strong   float64 `yaml:"strong"`   // >= Strong   -> verified, low risk
	Moderate float64 `yaml:"moderate"` // >= Moderate -> verified, medium risk
	Weak     float64 `yaml:"weak"`     // >= Weak     -> unverified, high risk; below -> conflicting, very_high
}

// TrustConfig controls domain trust aggregation
type TrustConfig struct {
	RegistryPath  string `yaml:"registry_path"`  // Known-sources YAML, empty or missing file -> no registry seed
	BaselineScore int    `yaml:"baseline_score"` // Registry entries without an explicit trust score contribute this
	NeutralScore  int    `yaml:"neutral_score"`  // Shown when a domain has no computed scores at all
}

// StoreConfig controls verification record persistence
type StoreConfig struct {
	Dir string `yaml:"dir"` // Empty selects the in-memory store
}

// CacheConfig controls the fetched-content / embedding-vector cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir,omitempty"` // Empty disables the disk layer
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// RateLimitConfig bounds outbound request pressure per source domain
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ServerConfig controls the HTTP API server
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Forzeo/0.1 (+https://github.com/DomanicBlaze040604/forzeoprototype-sub000)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Embedding: EmbeddingConfig{
			Provider:   "openai",
			Model:      "text-embedding-3-small",
			Dimensions: 384,
			MaxChars:   512,
			Timeout:    30 * time.Second,
			CacheTTL:   time.Hour,
		},
		Thresholds: ThresholdConfig{
			Strong:   0.75,
			Moderate: 0.5,
			Weak:     0.25,
		},
		Trust: TrustConfig{
			BaselineScore: 50,
			NeutralScore:  50,
		},
		Store: StoreConfig{
			Dir: "",
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 10 * time.Minute, // Batch responses can be slow
		},
	}
}
