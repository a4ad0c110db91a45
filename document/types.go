package document

import (
	"time"
)

// Status is the lifecycle state a source reports for a document.
type Status string

const (
	StatusActive     Status = "active"
	StatusArchived   Status = "archived"
	StatusSuperseded Status = "superseded"
)

// Metadata holds the fixed set of descriptive fields captured with each version.
type Metadata struct {
	PageCount int    `json:"pageCount" yaml:"pageCount"`
	FileType  string `json:"fileType" yaml:"fileType"`
	Language  string `json:"language" yaml:"language"`
	Authority string `json:"authority" yaml:"authority"`
}

// Version is a single captured snapshot of a tracked regulatory document.
// Versions are never mutated in place; corrections append a new version.
type Version struct {
	// DocumentID is stable across every version of the same document
	DocumentID string `json:"documentId" yaml:"documentId"`

	// SourceID identifies the publishing source (e.g. "fda_guidance")
	SourceID string `json:"sourceId" yaml:"sourceId"`

	Title    string   `json:"title" yaml:"title"`
	Content  string   `json:"content" yaml:"content"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	Category string   `json:"category" yaml:"category"`

	DeviceClasses []string `json:"deviceClasses" yaml:"deviceClasses"`
	Status        Status   `json:"status" yaml:"status"`

	// OriginalDate is the date the source published this version
	OriginalDate time.Time `json:"originalDate" yaml:"originalDate"`

	// Version is a monotonic per-document counter
	Version int `json:"version" yaml:"version"`
}

// Filter narrows a document listing. Zero values mean "no constraint";
// Start and End are inclusive.
type Filter struct {
	SourceID string
	Start    *time.Time
	End      *time.Time
}
