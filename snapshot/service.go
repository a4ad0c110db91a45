package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"f0oster/regwatch/database"
	"f0oster/regwatch/document"
	"f0oster/regwatch/logging"
)

// Writer appends a version to a document store.
type Writer interface {
	InsertVersion(ctx context.Context, v document.Version) error
}

// statusAliases maps the lifecycle labels used by sources onto document statuses.
var statusAliases = map[string]document.Status{
	"":           document.StatusActive,
	"active":     document.StatusActive,
	"current":    document.StatusActive,
	"final":      document.StatusActive,
	"draft":      document.StatusActive,
	"archived":   document.StatusArchived,
	"withdrawn":  document.StatusArchived,
	"retired":    document.StatusArchived,
	"superseded": document.StatusSuperseded,
	"replaced":   document.StatusSuperseded,
}

// Service validates captured document entries and appends them to a store.
type Service struct {
	log *logging.Logger
}

func NewService(log *logging.Logger) *Service {
	return &Service{log: log.With("component", "SnapshotService")}
}

// CreateSnapshot converts a Capture into a normalized document version.
// The document id and publication date are required.
func (s *Service) CreateSnapshot(c Capture) (*document.Version, error) {
	if strings.TrimSpace(c.DocumentID) == "" {
		return nil, fmt.Errorf("capture %q is missing a document id", c.Title)
	}

	published, err := parsePublished(c.Published)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", c.DocumentID, err)
	}

	status, err := extractStatus(c.Status)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", c.DocumentID, err)
	}

	v := document.Normalize(document.Version{
		DocumentID:    strings.TrimSpace(c.DocumentID),
		SourceID:      strings.TrimSpace(c.SourceID),
		Title:         c.Title,
		Content:       c.Content,
		Metadata:      c.Metadata,
		Category:      c.Category,
		DeviceClasses: c.DeviceClasses,
		Status:        status,
		OriginalDate:  published,
		Version:       c.Version,
	})
	return &v, nil
}

// Ingest appends every valid capture through w. Invalid captures and
// versions already stored for that day are counted and skipped; any other
// write error stops the batch.
func (s *Service) Ingest(ctx context.Context, w Writer, captures []Capture) (IngestResult, error) {
	var res IngestResult
	for _, c := range captures {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		v, err := s.CreateSnapshot(c)
		if err != nil {
			res.Invalid++
			s.log.Warn("skipping invalid capture", "error", err)
			continue
		}

		if err := w.InsertVersion(ctx, *v); err != nil {
			if errors.Is(err, database.ErrDuplicateVersion) {
				res.Duplicates++
				s.log.Debug("version already stored", "document_id", v.DocumentID, "date", v.OriginalDate)
				continue
			}
			return res, fmt.Errorf("insert %s: %w", v.DocumentID, err)
		}
		res.Inserted++
	}
	return res, nil
}

func parsePublished(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing publication date")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse publication date '%s': %w", raw, err)
	}
	return t, nil
}

// extractStatus maps a source label to a status. Unknown labels are rejected.
func extractStatus(raw string) (document.Status, error) {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", raw)
}
