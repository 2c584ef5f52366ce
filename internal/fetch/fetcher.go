package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/cache"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/metrics"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

// Result is the outcome of one source content fetch.
//
// When the fetch fails, Content is empty and FallbackStatus/FallbackRisk
// carry the fetcher's own best-effort coarse classification, so the caller
// can persist a degraded record without guessing.
type Result struct {
	Content    string
	FinalURL   string
	StatusCode int

	FallbackStatus model.VerificationStatus
	FallbackRisk   model.HallucinationRisk
}

// Fetcher retrieves and extracts textual content from source URLs
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
	limiter    *Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithContentCache caches extracted text per URL
func WithContentCache(c cache.Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

// WithLimiter applies per-domain rate limiting to outbound requests
func WithLimiter(l *Limiter) Option {
	return func(f *Fetcher) { f.limiter = l }
}

// NewFetcher creates a fetcher from HTTP configuration
func NewFetcher(cfg model.HTTPConfig, opts ...Option) *Fetcher {
	transport := &http.Transport{
		Proxy: newProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
	}

	if cfg.RespectRobots {
		f.robots = NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the URL and returns its extracted visible text. On
// failure the returned Result is non-nil and carries the fallback
// classification alongside the error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	if f.cache != nil {
		if data, found := f.cache.Get(cache.ContentKey(rawURL)); found {
			metrics.RecordFetch("cache_hit")
			return &Result{
				Content:        string(data),
				FinalURL:       rawURL,
				FallbackStatus: model.StatusPending,
			}, nil
		}
	}

	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			metrics.RecordFetch("error")
			return pendingResult(), fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			metrics.RecordFetch("denied")
			return pendingResult(), fmt.Errorf("robots.txt disallows %s", rawURL)
		}
		if crawlDelay > 0 {
			select {
			case <-ctx.Done():
				return pendingResult(), ctx.Err()
			case <-time.After(crawlDelay):
			}
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return pendingResult(), fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		metrics.RecordFetch("error")
		return pendingResult(), fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		metrics.RecordFetch("error")
		return pendingResult(), fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordFetch("http_error")
		// The source answered but refused: that is weak evidence against
		// support, not absence of evidence.
		res := &Result{
			StatusCode:     resp.StatusCode,
			FallbackStatus: model.StatusUnverified,
			FallbackRisk:   model.RiskNone,
		}
		return res, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		metrics.RecordFetch("error")
		return pendingResult(), fmt.Errorf("read body: %w", err)
	}

	content := string(body)
	if isHTML(resp.Header.Get("Content-Type")) {
		if text, err := ExtractText(content); err == nil {
			content = text
		}
	} else {
		content = strings.TrimSpace(content)
	}

	if f.cache != nil && content != "" {
		_ = f.cache.Set(cache.ContentKey(rawURL), []byte(content), f.cacheTTL)
	}

	if content == "" {
		metrics.RecordFetch("empty")
	} else {
		metrics.RecordFetch("ok")
	}

	return &Result{
		Content:        content,
		FinalURL:       resp.Request.URL.String(),
		StatusCode:     resp.StatusCode,
		FallbackStatus: model.StatusPending,
		FallbackRisk:   model.RiskNone,
	}, nil
}

// pendingResult classifies "we never saw the source" failures: the record
// stays pending with no risk guessed
func pendingResult() *Result {
	return &Result{
		FallbackStatus: model.StatusPending,
		FallbackRisk:   model.RiskNone,
	}
}

func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml") || ct == ""
}
