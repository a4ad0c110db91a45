package snapshot

import (
	"f0oster/regwatch/document"
)

// Capture is a document entry as collected from a source listing, before it
// has been validated into a document.Version.
type Capture struct {
	// DocumentID is the source's stable identifier for the document
	DocumentID string `json:"documentId" yaml:"documentId"`

	SourceID string            `json:"sourceId" yaml:"sourceId"`
	Title    string            `json:"title" yaml:"title"`
	Content  string            `json:"content" yaml:"content"`
	Metadata document.Metadata `json:"metadata" yaml:"metadata"`
	Category string            `json:"category" yaml:"category"`

	DeviceClasses []string `json:"deviceClasses" yaml:"deviceClasses"`

	// Status is the source's lifecycle label; see statusAliases
	Status string `json:"status" yaml:"status"`

	// Published is the publication date, YYYY-MM-DD or RFC3339
	Published string `json:"published" yaml:"published"`

	// Version is optional; zero lets the store assign the next number
	Version int `json:"version,omitempty" yaml:"version,omitempty"`
}

// IngestResult counts what happened to each capture of a batch.
type IngestResult struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}
