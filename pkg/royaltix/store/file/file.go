// Package file provides a flat-file JSON implementation of royaltix.Store.
//
// The entire collection lives in a single JSON array. Every append is a full
// read-modify-write; writes are serialized by a mutex and the file is
// replaced atomically via a temp file and rename, so concurrent appends
// cannot lose each other.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/royaltix/royaltix-ai/pkg/royaltix"
)

// Store is a flat-file implementation of the royaltix.Store interface
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// Config options for the flat-file store
type Config struct {
	Path   string // Path of the JSON collection file
	Logger *slog.Logger
}

// New creates a new flat-file store, creating the parent directory if needed.
func New(config Config) (*Store, error) {
	if config.Path == "" {
		return nil, errors.New("store file path is required")
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, &royaltix.StoreError{Op: "init", Path: config.Path, Err: err}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		path:   config.Path,
		logger: logger,
	}, nil
}

// Append adds a record to the collection. Appending a record whose content
// id is already present is a no-op, which makes post-registration retries
// safe.
func (s *Store) Append(ctx context.Context, record *royaltix.ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	for _, existing := range records {
		if existing.ContentID == record.ContentID {
			return nil
		}
	}

	records = append(records, record)
	return s.save(records)
}

// List returns the full collection in append order. A missing file yields an
// empty collection; a malformed file is logged and also degrades to empty.
func (s *Store) List(ctx context.Context) ([]*royaltix.ContentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(), nil
}

// GetByID scans the collection for a record with the given content id.
func (s *Store) GetByID(ctx context.Context, id string) (*royaltix.ContentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.load() {
		if record.ContentID == id {
			return record, nil
		}
	}
	return nil, royaltix.ErrRecordNotFound
}

// Wipe deletes the backing file. Wiping a store that has no file is a no-op.
func (s *Store) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return &royaltix.StoreError{Op: "wipe", Path: s.path, Err: err}
	}
	return nil
}

// load reads the collection. Callers must hold the mutex.
func (s *Store) load() []*royaltix.ContentRecord {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		s.logger.Warn("failed to read collection file, treating as empty", "path", s.path, "err", err)
		return nil
	}

	var records []*royaltix.ContentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("malformed collection file, treating as empty", "path", s.path, "err", err)
		return nil
	}
	return records
}

// save rewrites the whole collection, replacing the file atomically.
// Callers must hold the mutex.
func (s *Store) save(records []*royaltix.ContentRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &royaltix.StoreError{Op: "append", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &royaltix.StoreError{Op: "append", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &royaltix.StoreError{Op: "append", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &royaltix.StoreError{Op: "append", Path: s.path, Err: err}
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &royaltix.StoreError{Op: "append", Path: s.path, Err: fmt.Errorf("replace collection file: %w", err)}
	}
	return nil
}
