package cache

import (
	"testing"
	"time"
)

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 0, 3.125}

	decoded, err := DecodeVector(EncodeVector(vec))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(decoded) != len(vec) {
		t.Fatalf("expected %d floats, got %d", len(vec), len(decoded))
	}
	for i := range vec {
		if decoded[i] != vec[i] {
			t.Errorf("index %d: expected %v, got %v", i, vec[i], decoded[i])
		}
	}
}

func TestDecodeVector_Malformed(t *testing.T) {
	if _, err := DecodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated payload")
	}
}

func TestVectorKey_DistinguishesModels(t *testing.T) {
	if VectorKey("model-a", "text") == VectorKey("model-b", "text") {
		t.Error("keys for different models must differ")
	}
	if VectorKey("model-a", "text") != VectorKey("model-a", "text") {
		t.Error("keys must be deterministic")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Hour, dir, time.Hour)

	key := ContentKey("https://example.com/doc")
	if err := layered.Set(key, []byte("body"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Drop the memory layer; the disk layer should repopulate it.
	if err := layered.memory.Clear(); err != nil {
		t.Fatalf("clear memory: %v", err)
	}

	val, found := layered.Get(key)
	if !found {
		t.Fatal("expected disk hit")
	}
	if string(val) != "body" {
		t.Errorf("expected body, got %q", val)
	}

	if _, found := layered.memory.Get(key); !found {
		t.Error("expected disk hit to be promoted to memory")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	disk := NewDiskCache(t.TempDir(), time.Hour)

	if err := disk.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, found := disk.Get("k"); found {
		t.Error("expected expired entry to miss")
	}
}
