package store

import (
	"context"
	"sync"
	"time"

	"github.com/voxrelay/voxrelay/internal/models"
)

// MemoryStore is the default AudioStore: a mutex-guarded map living for the
// process lifetime. A reader racing the sweep simply sees ErrNotFound.
type MemoryStore struct {
	mu        sync.RWMutex
	records   map[string]*models.AudioRecord
	retention time.Duration
}

// Ensure MemoryStore implements AudioStore at compile time.
var _ AudioStore = (*MemoryStore)(nil)

func NewMemoryStore(retention time.Duration) *MemoryStore {
	return &MemoryStore{
		records:   make(map[string]*models.AudioRecord),
		retention: retention,
	}
}

func (s *MemoryStore) Put(ctx context.Context, record *models.AudioRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.AudioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return record, nil
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

func (s *MemoryStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-s.retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, record := range s.records {
		if record.GeneratedAt.Before(cutoff) {
			delete(s.records, id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
