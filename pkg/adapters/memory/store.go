package memory

import (
	"context"
	"sync"

	"github.com/aretw0/toyrobot/pkg/domain"
)

// Store implements ports.PositionStore in memory.
// Safe for concurrent use.
type Store struct {
	records []domain.Record
	nextID  int64
	mu      sync.RWMutex
}

// NewStore creates a new in-memory position log.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Append stamps the position with the next id and appends it.
func (s *Store) Append(ctx context.Context, pos domain.Position) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := domain.NewRecord(s.nextID, pos)
	s.nextID++
	s.records = append(s.records, rec)
	return rec, nil
}

// Latest returns the last appended record.
func (s *Store) Latest(ctx context.Context) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return domain.Record{}, domain.ErrNotPlaced
	}
	return s.records[len(s.records)-1], nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit < n {
		n = limit
	}
	if n < 0 {
		n = 0
	}
	out := make([]domain.Record, 0, n)
	for i := len(s.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
