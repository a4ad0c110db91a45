package database

import (
	"errors"
	"time"
)

// ErrDuplicateVersion is returned when a document already has a version for the given date.
var ErrDuplicateVersion = errors.New("document already has a version for this date")

// versionRow mirrors a document_versions row as scanned by pgx.
type versionRow struct {
	DocumentID    string
	SourceID      string
	Version       int32
	Title         string
	Content       string
	Metadata      []byte // JSON
	Category      string
	DeviceClasses []string
	Status        string
	OriginalDate  time.Time
}
