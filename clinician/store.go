/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package clinician

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// RecordKey is the fixed key the session record lives under, regardless of
// the storage medium.
const RecordKey = "clinicalUser"

// Store persists at most one Record under RecordKey. Access is whole-record
// read/replace only; there is no partial mutation. Get returns nil for both
// "absent" and "malformed" since the guard only checks presence. The last
// Set always wins, overwriting any prior session.
type Store interface {
	Get() *Record
	Set(Record) error
	Clear() error
}

// MemoryStore keeps the record in process memory. Used by tests and as the
// default when no other medium is configured.
type MemoryStore struct {
	mu  sync.RWMutex
	rec *Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil {
		return nil
	}
	rec := *s.rec
	return &rec
}

func (s *MemoryStore) Set(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &rec
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	return nil
}

// FileStore keeps the record as a small JSON file, mirroring the single-key
// local storage the browser client used. Another process may replace the file
// between reads; eventual consistency at the next read is accepted.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get() *Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	return DecodeRecord(data)
}

func (s *FileStore) Set(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session record: %w", err)
	}
	return nil
}
