package database

import (
	"context"
	"fmt"
	"sync"

	"f0oster/regwatch/document"
)

// MemoryStore is an in-process document store for tests and local runs.
type MemoryStore struct {
	mu       sync.RWMutex
	versions map[string][]document.Version // document id → versions, ascending
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{versions: make(map[string][]document.Version)}
}

// Add appends a version, assigning the next version number when it is zero.
// A second version on the same day for the same document is rejected.
func (m *MemoryStore) Add(v document.Version) error {
	v = document.Normalize(v)

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.versions[v.DocumentID]
	maxVersion := 0
	for _, e := range existing {
		if document.SameDay(e.OriginalDate, v.OriginalDate) {
			return fmt.Errorf("%w: %s at %s", ErrDuplicateVersion, v.DocumentID, v.OriginalDate.Format("2006-01-02"))
		}
		if e.Version > maxVersion {
			maxVersion = e.Version
		}
	}
	if v.Version == 0 {
		v.Version = maxVersion + 1
	}

	updated := append(append([]document.Version(nil), existing...), v)
	document.SortAscending(updated)
	m.versions[v.DocumentID] = updated
	return nil
}

// InsertVersion is Add with the store write signature shared with DBClient.
func (m *MemoryStore) InsertVersion(ctx context.Context, v document.Version) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.Add(v)
}

func (m *MemoryStore) ListVersions(ctx context.Context, documentID string) ([]document.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]document.Version(nil), m.versions[documentID]...), nil
}

func (m *MemoryStore) ListDocuments(ctx context.Context, filter document.Filter) ([]document.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	var out []document.Version
	for _, versions := range m.versions {
		for _, v := range versions {
			if filter.Matches(v) {
				out = append(out, v)
			}
		}
	}
	m.mu.RUnlock()

	document.SortDescending(out)
	return out, nil
}
