package snapshot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f0oster/regwatch/database"
	"f0oster/regwatch/document"
	"f0oster/regwatch/logging"
	"f0oster/regwatch/snapshot"
)

func capture(id, published, status string) snapshot.Capture {
	return snapshot.Capture{
		DocumentID: id,
		SourceID:   "fda_guidance",
		Title:      "Guidance " + id,
		Content:    "# Scope\nApplies to infusion pumps.",
		Status:     status,
		Published:  published,
	}
}

func TestCreateSnapshot(t *testing.T) {
	svc := snapshot.NewService(logging.NewNop())

	v, err := svc.CreateSnapshot(capture(" doc-1 ", "2024-02-03", "Withdrawn"))
	require.NoError(t, err)

	assert.Equal(t, "doc-1", v.DocumentID)
	assert.Equal(t, document.StatusArchived, v.Status)
	assert.Equal(t, time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC), v.OriginalDate)
	assert.Equal(t, []string{}, v.DeviceClasses)
}

func TestCreateSnapshot_StatusAliases(t *testing.T) {
	svc := snapshot.NewService(logging.NewNop())

	tests := map[string]document.Status{
		"":           document.StatusActive,
		"Final":      document.StatusActive,
		"retired":    document.StatusArchived,
		"REPLACED":   document.StatusSuperseded,
		"superseded": document.StatusSuperseded,
	}
	for label, want := range tests {
		v, err := svc.CreateSnapshot(capture("doc-1", "2024-02-03T10:00:00+02:00", label))
		require.NoError(t, err, label)
		assert.Equal(t, want, v.Status, label)
		assert.Equal(t, time.Date(2024, time.February, 3, 8, 0, 0, 0, time.UTC), v.OriginalDate)
	}
}

func TestCreateSnapshot_Invalid(t *testing.T) {
	svc := snapshot.NewService(logging.NewNop())

	tests := []struct {
		name string
		c    snapshot.Capture
	}{
		{"missing id", capture("", "2024-02-03", "active")},
		{"missing date", capture("doc-1", "", "active")},
		{"bad date", capture("doc-1", "03/02/2024", "active")},
		{"unknown status", capture("doc-1", "2024-02-03", "pending review")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSnapshot(tt.c)
			assert.Error(t, err)
		})
	}
}

func TestIngest(t *testing.T) {
	svc := snapshot.NewService(logging.NewNop())
	store := database.NewMemoryStore()

	res, err := svc.Ingest(context.Background(), store, []snapshot.Capture{
		capture("doc-1", "2024-02-01", "active"),
		capture("doc-1", "2024-02-09", "archived"),
		capture("doc-1", "2024-02-09", "archived"),
		capture("doc-2", "not a date", "active"),
	})
	require.NoError(t, err)
	assert.Equal(t, snapshot.IngestResult{Inserted: 2, Duplicates: 1, Invalid: 1}, res)

	versions, err := store.ListVersions(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[1].Version)
	assert.Equal(t, document.StatusArchived, versions[1].Status)
}

type brokenWriter struct{}

func (brokenWriter) InsertVersion(context.Context, document.Version) error {
	return errors.New("connection reset")
}

func TestIngest_StopsOnWriteError(t *testing.T) {
	svc := snapshot.NewService(logging.NewNop())

	res, err := svc.Ingest(context.Background(), brokenWriter{}, []snapshot.Capture{
		capture("doc-1", "2024-02-01", "active"),
		capture("doc-2", "2024-02-01", "active"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert doc-1")
	assert.Zero(t, res.Inserted)
}

func TestIngest_Cancelled(t *testing.T) {
	svc := snapshot.NewService(logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Ingest(ctx, database.NewMemoryStore(), []snapshot.Capture{capture("doc-1", "2024-02-01", "active")})
	assert.ErrorIs(t, err, context.Canceled)
}
