package versioning

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ChangeLog is the append-only change history. Records are keyed by their
// deterministic ID so re-detecting an unchanged history appends nothing.
type ChangeLog struct {
	mu      sync.RWMutex
	records []ChangeRecord
	ids     map[uuid.UUID]struct{}
}

func NewChangeLog() *ChangeLog {
	return &ChangeLog{ids: make(map[uuid.UUID]struct{})}
}

// Append adds the records not already present and returns those that were added.
func (l *ChangeLog) Append(records ...ChangeRecord) []ChangeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	var added []ChangeRecord
	for _, r := range records {
		if _, exists := l.ids[r.ID]; exists {
			continue
		}
		l.ids[r.ID] = struct{}{}
		l.records = append(l.records, r)
		added = append(added, r)
	}
	return added
}

func (l *ChangeLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Recent returns records ordered by the current version's publication date,
// newest first. A non-positive limit returns everything.
func (l *ChangeLog) Recent(limit int) []ChangeRecord {
	return l.Select(func(ChangeRecord) bool { return true }, limit)
}

// Select returns the matching records newest first, truncated to limit when positive.
func (l *ChangeLog) Select(match func(ChangeRecord) bool, limit int) []ChangeRecord {
	l.mu.RLock()
	out := make([]ChangeRecord, 0, len(l.records))
	for _, r := range l.records {
		if match(r) {
			out = append(out, r)
		}
	}
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CurrentVersion.OriginalDate.After(out[j].CurrentVersion.OriginalDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
