package versioning

import (
	"time"

	"github.com/google/uuid"

	"f0oster/regwatch/classify"
	"f0oster/regwatch/diff"
	"f0oster/regwatch/document"
)

// MinorChangesSummary is the summary used when a version transition produced no notes.
const MinorChangesSummary = "Minor changes with no specific details."

// ChangeRecord is the immutable result of detecting a change between two
// consecutive versions of a document.
type ChangeRecord struct {
	ID            uuid.UUID           `json:"id"`
	DocumentID    string              `json:"documentId"`
	DocumentTitle string              `json:"documentTitle"`
	SourceID      string              `json:"sourceId"`
	ChangeType    classify.ChangeType `json:"changeType"`

	PreviousVersion document.Version `json:"previousVersion"`
	CurrentVersion  document.Version `json:"currentVersion"`

	ChangesSummary       []string        `json:"changesSummary"`
	ImpactAssessment     classify.Impact `json:"impactAssessment"`
	AffectedSections     []string        `json:"affectedSections"`
	AffectedStakeholders []string        `json:"affectedStakeholders"`
	Confidence           float64         `json:"confidence"`
	DetectedAt           time.Time       `json:"detectedAt"`

	// Comparison is the raw comparator output the record was built from
	Comparison diff.ComparisonResult `json:"comparison"`
}

// SyncResult is the outcome of one per-source detection pass.
type SyncResult struct {
	SourceID        string
	Documents       int
	FailedDocuments int
	Records         []ChangeRecord
	Duration        time.Duration
}

// CycleResult is the outcome of a full sync cycle across sources.
type CycleResult struct {
	Sources       []SyncResult
	FailedSources []string

	// Appended holds only the records that were new to the change history
	Appended []ChangeRecord
	Notified bool
}
