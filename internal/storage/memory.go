package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/types"
)

// MemoryStore is the in-memory Store used by tests and local development
// without a database file.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.TranscriptionRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]types.TranscriptionRecord)}
}

// Insert stores a new record.
func (m *MemoryStore) Insert(_ context.Context, rec types.TranscriptionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	return nil
}

// GetByID returns a single record or ErrNotFound.
func (m *MemoryStore) GetByID(_ context.Context, id string) (types.TranscriptionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return types.TranscriptionRecord{}, ErrNotFound
	}
	return rec, nil
}

// List returns records newest first, optionally filtered by source type.
func (m *MemoryStore) List(_ context.Context, sourceType string) ([]types.TranscriptionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []types.TranscriptionRecord
	for _, rec := range m.records {
		if sourceType == "" || rec.SourceType == sourceType {
			out = append(out, rec)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// Delete removes a record, reporting ErrNotFound if nothing matched.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// Search matches transcript text, newest first.
func (m *MemoryStore) Search(_ context.Context, term string) ([]types.TranscriptionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(term)
	var out []types.TranscriptionRecord
	for _, rec := range m.records {
		if strings.Contains(strings.ToLower(rec.Text), needle) {
			out = append(out, rec)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

func sortNewestFirst(records []types.TranscriptionRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
