package trust

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "known_sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRegistryLoad(t *testing.T) {
	path := writeRegistry(t, `sources:
  - domain: WWW.Nature.test
    avg_citations: 40
    verified: true
    trust_score: 90
    hallucination_risk: low
  - domain: blog.test
    verified: false
  - avg_citations: 5
    verified: true
`)

	sources, err := NewRegistry(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// The domain-less entry is dropped.
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Domain != "nature.test" {
		t.Errorf("domain not normalized: %q", sources[0].Domain)
	}
	if sources[0].TrustScore == nil || *sources[0].TrustScore != 90 {
		t.Errorf("trust score = %v", sources[0].TrustScore)
	}
	if sources[0].Risk != model.RiskLow {
		t.Errorf("risk = %q", sources[0].Risk)
	}
	if sources[1].TrustScore != nil {
		t.Error("absent trust score must stay nil")
	}
}

func TestRegistryLoad_MissingFileIsEmpty(t *testing.T) {
	sources, err := NewRegistry(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("expected empty registry, got %d", len(sources))
	}
}

func TestRegistryLoad_NoPathConfigured(t *testing.T) {
	sources, err := NewRegistry("").Load()
	if err != nil || sources != nil {
		t.Errorf("empty path: got %v, %v", sources, err)
	}
}

func TestRegistryLoad_MalformedYAML(t *testing.T) {
	path := writeRegistry(t, "sources: [unclosed")
	if _, err := NewRegistry(path).Load(); err == nil {
		t.Error("expected parse error")
	}
}
