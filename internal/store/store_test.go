package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

func record(id, url string, at time.Time) *model.VerificationRecord {
	return &model.VerificationRecord{
		ID:         id,
		SourceURL:  url,
		ClaimText:  "claim",
		Status:     model.StatusVerified,
		Risk:       model.RiskLow,
		VerifiedAt: at,
	}
}

// Both implementations satisfy the same contract; run the suite over each.
func stores(t *testing.T) map[string]Store {
	disk, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"disk":   disk,
	}
}

func TestStore_PutGetDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := record("id-1", "https://example.com/a", time.Now().UTC())

			if err := s.Put(ctx, rec); err != nil {
				t.Fatalf("put: %v", err)
			}

			got, err := s.Get(ctx, "id-1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.SourceURL != rec.SourceURL || got.Status != rec.Status {
				t.Errorf("round trip mismatch: %+v", got)
			}

			if err := s.Delete(ctx, "id-1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := s.Get(ctx, "id-1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}
			if err := s.Delete(ctx, "id-1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound on double delete, got %v", err)
			}
		})
	}
}

func TestStore_ListOrderedByCreation(t *testing.T) {
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			// Insert out of order.
			_ = s.Put(ctx, record("b", "https://example.com/2", base.Add(2*time.Minute)))
			_ = s.Put(ctx, record("a", "https://example.com/1", base))
			_ = s.Put(ctx, record("c", "https://example.com/3", base.Add(time.Minute)))

			recs, err := s.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(recs) != 3 {
				t.Fatalf("expected 3 records, got %d", len(recs))
			}
			want := []string{"a", "c", "b"}
			for i, id := range want {
				if recs[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, recs[i].ID)
				}
			}
		})
	}
}

func TestStore_ListByDomain(t *testing.T) {
	now := time.Now().UTC()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_ = s.Put(ctx, record("1", "https://www.Example.com/page", now))
			_ = s.Put(ctx, record("2", "https://example.com/other", now.Add(time.Second)))
			_ = s.Put(ctx, record("3", "https://other.test/x", now.Add(2*time.Second)))
			_ = s.Put(ctx, record("4", "::not a url::", now.Add(3*time.Second)))

			recs, err := s.ListByDomain(ctx, "example.com")
			if err != nil {
				t.Fatalf("list by domain: %v", err)
			}
			if len(recs) != 2 {
				t.Errorf("expected 2 example.com records, got %d", len(recs))
			}
		})
	}
}

func TestStore_PutOverwritesById(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := record("id", "https://example.com", time.Now().UTC())
			_ = s.Put(ctx, rec)

			rec.Status = model.StatusConflicting
			if err := s.Put(ctx, rec); err != nil {
				t.Fatalf("overwrite: %v", err)
			}

			got, _ := s.Get(ctx, "id")
			if got.Status != model.StatusConflicting {
				t.Errorf("expected overwrite, got %s", got.Status)
			}
			recs, _ := s.List(ctx)
			if len(recs) != 1 {
				t.Errorf("expected single record after overwrite, got %d", len(recs))
			}
		})
	}
}

func TestMemoryStore_CopiesOnRead(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Put(ctx, record("id", "https://example.com", time.Now().UTC()))

	got, _ := s.Get(ctx, "id")
	got.Status = model.StatusConflicting

	again, _ := s.Get(ctx, "id")
	if again.Status != model.StatusVerified {
		t.Error("mutating a returned record must not affect the store")
	}
}
