package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/fetch"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/pipeline"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/score"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/store"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/trust"
)

type stubFetcher struct {
	content map[string]string
	err     error
}

func (f *stubFetcher) Fetch(ctx context.Context, rawURL string) (*fetch.Result, error) {
	if f.err != nil {
		return &fetch.Result{FallbackStatus: model.StatusPending}, f.err
	}
	return &fetch.Result{
		Content:        f.content[rawURL],
		FinalURL:       rawURL,
		StatusCode:     200,
		FallbackStatus: model.StatusPending,
	}, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 8)
	for i, r := range text {
		vec[(i+int(r))%8]++
	}
	var sum float64
	for _, f := range vec {
		sum += float64(f) * float64(f)
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

func newTestServer(fetcher pipeline.Fetcher, st store.Store) *Server {
	cfg := model.DefaultConfig()
	verifier := pipeline.NewVerifier(fetcher, stubEmbedder{}, score.NewScorer(cfg.Thresholds), st, nil)
	return NewServer(verifier, st, nil, trust.NewAggregator(cfg.Trust), cfg.Server, nil)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleVerify(t *testing.T) {
	st := store.NewMemoryStore()
	srv := newTestServer(&stubFetcher{content: map[string]string{
		"https://a.test/doc": "The sky is blue",
	}}, st)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/verify",
		`{"url": "https://a.test/doc", "claim": "The sky is blue"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", resp.Code, resp.Body.String())
	}

	var rec model.VerificationRecord
	if err := json.Unmarshal(resp.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Status != model.StatusVerified {
		t.Errorf("expected verified, got %s", rec.Status)
	}
	if rec.ID == "" {
		t.Error("expected assigned id")
	}
}

func TestHandleVerify_BadInput(t *testing.T) {
	srv := newTestServer(&stubFetcher{}, store.NewMemoryStore())

	cases := []string{
		`{}`,
		`{"url": "https://a.test/doc"}`,
		`{"url": "not-a-url", "claim": "x"}`,
		`not json`,
	}
	for _, body := range cases {
		resp := doJSON(t, srv, http.MethodPost, "/api/v1/verify", body)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, resp.Code)
		}
	}
}

func TestHandleVerifyBatch(t *testing.T) {
	srv := newTestServer(&stubFetcher{content: map[string]string{
		"https://a.test/1": "alpha",
		"https://a.test/2": "beta",
	}}, store.NewMemoryStore())

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/verify/batch",
		`{"items": [
			{"url": "https://a.test/1", "claim": "alpha"},
			{"url": "https://a.test/2", "claim": "beta"}
		]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", resp.Code, resp.Body.String())
	}

	var result pipeline.BatchResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.CompletedCount != 2 || result.RequestedCount != 2 {
		t.Errorf("expected 2/2, got %d/%d", result.CompletedCount, result.RequestedCount)
	}

	resp = doJSON(t, srv, http.MethodPost, "/api/v1/verify/batch", `{"items": []}`)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("empty batch: status = %d, want 400", resp.Code)
	}
}

func TestHandleVerifyBatchStream(t *testing.T) {
	srv := newTestServer(&stubFetcher{content: map[string]string{
		"https://a.test/1": "alpha",
		"https://a.test/2": "beta",
	}}, store.NewMemoryStore())

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/verify/batch/stream",
		`{"items": [
			{"url": "https://a.test/1", "claim": "alpha"},
			{"url": "https://a.test/2", "claim": "beta"}
		]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("content type = %q", ct)
	}

	body := resp.Body.String()
	if !strings.Contains(body, "event:progress") && !strings.Contains(body, "event: progress") {
		t.Errorf("expected progress events in stream: %s", body)
	}
	if !strings.Contains(body, "result") {
		t.Errorf("expected final result event: %s", body)
	}
	if !strings.Contains(body, "100") {
		t.Errorf("expected stream to reach 100 percent: %s", body)
	}
}

func TestHandleGetAndDeleteVerification(t *testing.T) {
	st := store.NewMemoryStore()
	srv := newTestServer(&stubFetcher{content: map[string]string{
		"https://a.test/doc": "text",
	}}, st)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/verify",
		`{"url": "https://a.test/doc", "claim": "text"}`)
	var created model.VerificationRecord
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp = doJSON(t, srv, http.MethodGet, "/api/v1/verifications/"+created.ID, "")
	if resp.Code != http.StatusOK {
		t.Errorf("get: status = %d", resp.Code)
	}

	resp = doJSON(t, srv, http.MethodDelete, "/api/v1/verifications/"+created.ID, "")
	if resp.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d", resp.Code)
	}

	resp = doJSON(t, srv, http.MethodGet, "/api/v1/verifications/"+created.ID, "")
	if resp.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", resp.Code)
	}

	resp = doJSON(t, srv, http.MethodDelete, "/api/v1/verifications/nonexistent", "")
	if resp.Code != http.StatusNotFound {
		t.Errorf("delete missing: status = %d, want 404", resp.Code)
	}
}

func TestHandleTrustProfiles(t *testing.T) {
	st := store.NewMemoryStore()
	srv := newTestServer(&stubFetcher{content: map[string]string{
		"https://nature.test/a": "alpha",
		"https://nature.test/b": "beta",
	}}, st)

	for _, body := range []string{
		`{"url": "https://nature.test/a", "claim": "alpha"}`,
		`{"url": "https://nature.test/b", "claim": "beta"}`,
	} {
		if resp := doJSON(t, srv, http.MethodPost, "/api/v1/verify", body); resp.Code != http.StatusOK {
			t.Fatalf("seed verify failed: %d", resp.Code)
		}
	}

	resp := doJSON(t, srv, http.MethodGet, "/api/v1/trust-profiles", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Profiles []model.DomainTrustProfile `json:"profiles"`
		Count    int                        `json:"count"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Count != 1 {
		t.Fatalf("expected one domain profile, got %d", payload.Count)
	}
	p := payload.Profiles[0]
	if p.Domain != "nature.test" {
		t.Errorf("domain = %q", p.Domain)
	}
	if p.CitationCount != 2 {
		t.Errorf("citation count = %d, want 2", p.CitationCount)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubFetcher{err: errors.New("down")}, store.NewMemoryStore())
	resp := doJSON(t, srv, http.MethodGet, "/healthz", "")
	if resp.Code != http.StatusOK {
		t.Errorf("healthz: status = %d", resp.Code)
	}
}
