package versioning_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"f0oster/regwatch/database"
	"f0oster/regwatch/document"
	"f0oster/regwatch/logging"
	"f0oster/regwatch/notify"
	"f0oster/regwatch/versioning"
)

var epoch = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

var baseLines = []string{
	"# Scope",
	"This guidance applies to infusion pumps.",
	"Section 1 Definitions",
	"Section 2 Labelling",
	"Section 3 Testing",
	"Manufacturers shall maintain design records.",
	"Reports are due annually.",
	"Appendix A Forms",
	"Contact the agency with questions.",
	"Effective immediately.",
}

func baseContent() string {
	return strings.Join(baseLines, "\n")
}

// newVersion builds a deterministic version of docID published day days after epoch.
func newVersion(docID string, day, number int, mutate ...func(*document.Version)) document.Version {
	v := document.Version{
		DocumentID:    docID,
		SourceID:      "fda_guidance",
		Title:         "Guidance " + docID,
		Content:       baseContent(),
		Metadata:      document.Metadata{PageCount: 10, FileType: "pdf", Language: "en", Authority: "FDA"},
		Category:      "guidance",
		DeviceClasses: []string{"Class II"},
		Status:        document.StatusActive,
		OriginalDate:  epoch.AddDate(0, 0, day),
		Version:       number,
	}
	for _, m := range mutate {
		m(&v)
	}
	return v
}

func archived(v *document.Version) { v.Status = document.StatusArchived }

// rewritten replaces three of the ten base lines, a 60% line diff.
func rewritten(v *document.Version) {
	lines := append([]string(nil), baseLines...)
	lines[5] = "Manufacturers shall maintain electronic design records."
	lines[6] = "Reports are due quarterly."
	lines[8] = "Contact the regional office with questions."
	v.Content = strings.Join(lines, "\n")
}

func newService(store versioning.DocumentStore, sink notify.Sink) *versioning.Service {
	opts := versioning.DefaultOptions()
	opts.Now = func() time.Time { return epoch.AddDate(0, 1, 0) }
	return versioning.NewService(store, sink, logging.NewNop(), opts)
}

type notification struct {
	Subject  string
	Body     string
	Priority notify.Priority
}

type recordingSink struct {
	mu    sync.Mutex
	calls []notification
	err   error
}

func (s *recordingSink) Notify(_ context.Context, subject, body string, priority notify.Priority) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, notification{Subject: subject, Body: body, Priority: priority})
	return s.err
}

func (s *recordingSink) Calls() []notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification(nil), s.calls...)
}

type recordingRecordSink struct {
	mu      sync.Mutex
	batches [][]versioning.ChangeRecord
}

func (s *recordingRecordSink) SaveChangeRecords(_ context.Context, records []versioning.ChangeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, records)
	return nil
}

// failingStore wraps a MemoryStore and fails reads for selected sources or documents.
type failingStore struct {
	*database.MemoryStore
	failSources  map[string]bool
	failVersions map[string]bool
}

var errStoreUnavailable = errors.New("store unavailable")

func (f *failingStore) ListDocuments(ctx context.Context, filter document.Filter) ([]document.Version, error) {
	if f.failSources[filter.SourceID] {
		return nil, errStoreUnavailable
	}
	return f.MemoryStore.ListDocuments(ctx, filter)
}

func (f *failingStore) ListVersions(ctx context.Context, documentID string) ([]document.Version, error) {
	if f.failVersions[documentID] {
		return nil, errStoreUnavailable
	}
	return f.MemoryStore.ListVersions(ctx, documentID)
}

// scenarioStore holds one document archived between its two versions and one
// document whose two versions are identical.
func scenarioStore() (*database.MemoryStore, error) {
	store := database.NewMemoryStore()
	for _, v := range []document.Version{
		newVersion("doc-critical", 0, 0),
		newVersion("doc-critical", 5, 0, archived),
		newVersion("doc-minor", 0, 0),
		newVersion("doc-minor", 5, 0),
	} {
		if err := store.Add(v); err != nil {
			return nil, err
		}
	}
	return store, nil
}
