package store

import (
	"context"
	"sort"
	"sync"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/trust"
)

// MemoryStore keeps records in process memory. Used for tests and ephemeral
// runs; disk-backed persistence lives in DiskStore.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*model.VerificationRecord
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*model.VerificationRecord),
	}
}

func (s *MemoryStore) Put(ctx context.Context, rec *model.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*model.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.VerificationRecord, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		out = append(out, &cp)
	}
	sortRecords(out)
	return out, nil
}

func (s *MemoryStore) ListByDomain(ctx context.Context, domain string) ([]*model.VerificationRecord, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterByDomain(all, domain), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// sortRecords orders by creation time, id as tie-break, for deterministic
// listing
func sortRecords(recs []*model.VerificationRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].VerifiedAt.Equal(recs[j].VerifiedAt) {
			return recs[i].VerifiedAt.Before(recs[j].VerifiedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}

func filterByDomain(recs []*model.VerificationRecord, domain string) []*model.VerificationRecord {
	want := trust.NormalizeDomain(domain)
	out := make([]*model.VerificationRecord, 0)
	for _, rec := range recs {
		d, err := trust.DomainOf(rec.SourceURL)
		if err != nil {
			continue
		}
		if d == want {
			out = append(out, rec)
		}
	}
	return out
}
