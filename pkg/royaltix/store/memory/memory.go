// Package memory provides an in-memory implementation of royaltix.Store for
// testing and development.
package memory

import (
	"context"
	"sync"

	"github.com/royaltix/royaltix-ai/pkg/royaltix"
)

// Store is an in-memory implementation of the royaltix.Store interface
type Store struct {
	mu      sync.RWMutex
	records []*royaltix.ContentRecord
}

// New creates a new in-memory store
func New() *Store {
	return &Store{}
}

func (s *Store) Append(ctx context.Context, record *royaltix.ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.ContentID == record.ContentID {
			return nil
		}
	}
	s.records = append(s.records, record)
	return nil
}

func (s *Store) List(ctx context.Context) ([]*royaltix.ContentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*royaltix.ContentRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*royaltix.ContentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.records {
		if record.ContentID == id {
			return record, nil
		}
	}
	return nil, royaltix.ErrRecordNotFound
}

func (s *Store) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}
