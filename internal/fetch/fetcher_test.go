package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/cache"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	cfg := model.DefaultConfig().HTTP
	cfg.Timeout = 5 * time.Second
	cfg.RespectRobots = false
	return cfg
}

func TestFetcher_ExtractsVisibleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><script>var x = 1;</script><style>p{}</style></head>
			<body><h1>Title</h1><p>The sky is blue and vast.</p></body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig())
	res, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if !strings.Contains(res.Content, "The sky is blue and vast.") {
		t.Errorf("expected body text, got %q", res.Content)
	}
	if strings.Contains(res.Content, "var x") {
		t.Errorf("expected script content stripped, got %q", res.Content)
	}
}

func TestFetcher_HTTPErrorFallsBackUnverified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig())
	res, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 410 response")
	}
	if res == nil {
		t.Fatal("expected fallback result alongside error")
	}
	if res.FallbackStatus != model.StatusUnverified {
		t.Errorf("expected unverified fallback, got %s", res.FallbackStatus)
	}
	if res.FallbackRisk != model.RiskNone {
		t.Errorf("expected absent risk, got %s", res.FallbackRisk)
	}
}

func TestFetcher_UnreachableFallsBackPending(t *testing.T) {
	fetcher := NewFetcher(testHTTPConfig())

	res, err := fetcher.Fetch(context.Background(), "http://127.0.0.1:1/never")
	if err == nil {
		t.Fatal("expected connection error")
	}
	if res.FallbackStatus != model.StatusPending {
		t.Errorf("expected pending fallback, got %s", res.FallbackStatus)
	}
}

func TestFetcher_RespectsByteCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(strings.Repeat("a", 10_000)))
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 100

	fetcher := NewFetcher(cfg)
	res, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(res.Content) > 100 {
		t.Errorf("expected content capped at 100 bytes, got %d", len(res.Content))
	}
}

func TestFetcher_RobotsDisallow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>secret</body></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.RespectRobots = true

	fetcher := NewFetcher(cfg)
	res, err := fetcher.Fetch(context.Background(), server.URL+"/private/page")
	if err == nil {
		t.Fatal("expected robots denial")
	}
	if res.FallbackStatus != model.StatusPending {
		t.Errorf("expected pending fallback, got %s", res.FallbackStatus)
	}

	// Allowed paths still fetch.
	if _, err := fetcher.Fetch(context.Background(), server.URL+"/public"); err != nil {
		t.Errorf("expected allowed fetch, got %v", err)
	}
}

func TestFetcher_ContentCache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>cached body</body></html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(),
		WithContentCache(cache.NewMemoryCache(time.Hour, time.Hour), time.Hour))

	for i := 0; i < 3; i++ {
		res, err := fetcher.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if res.Content != "cached body" {
			t.Fatalf("fetch %d: got %q", i, res.Content)
		}
		// A cache hit carries the same coarse fallback classification as a
		// live fetch; downstream degraded paths rely on it being set.
		if res.FallbackStatus != model.StatusPending {
			t.Fatalf("fetch %d: fallback status = %q, want %q", i, res.FallbackStatus, model.StatusPending)
		}
	}

	if hits != 1 {
		t.Errorf("expected one origin hit, got %d", hits)
	}
}

func TestExtractText_PlainDocument(t *testing.T) {
	text, err := ExtractText("<p>one</p><p>two</p>")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "one two" {
		t.Errorf("expected %q, got %q", "one two", text)
	}
}
