package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

// DiskStore persists one JSON file per record. Writes go through a temp
// file and rename so a record is never observable half-written.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a store rooted at dir, creating it if needed
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Put(ctx context.Context, rec *model.VerificationRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(rec.ID)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

func (s *DiskStore) Get(ctx context.Context, id string) (*model.VerificationRecord, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read record: %w", err)
	}

	var rec model.VerificationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	return &rec, nil
}

func (s *DiskStore) List(ctx context.Context) ([]*model.VerificationRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	out := make([]*model.VerificationRecord, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		rec, err := s.Get(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			// Skip torn or foreign files rather than failing the listing
			continue
		}
		out = append(out, rec)
	}
	sortRecords(out)
	return out, nil
}

func (s *DiskStore) ListByDomain(ctx context.Context, domain string) ([]*model.VerificationRecord, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterByDomain(all, domain), nil
}

func (s *DiskStore) Delete(ctx context.Context, id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

func (s *DiskStore) path(id string) string {
	// IDs are UUIDs assigned by the pipeline; Base guards against anything
	// path-like arriving through the delete API.
	return filepath.Join(s.dir, filepath.Base(id)+".json")
}
