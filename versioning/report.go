package versioning

import (
	"context"
	"time"

	"f0oster/regwatch/document"
)

const recentActivityLimit = 10

type TimeRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Report summarises the tracked documents and detected changes of a source
// (or of every source when no source is given).
type Report struct {
	SourceID             string         `json:"sourceId,omitempty"`
	TotalDocuments       int            `json:"totalDocuments"`
	TimeRange            TimeRange      `json:"timeRange"`
	ChangesDetected      int            `json:"changesDetected"`
	HighImpactChanges    int            `json:"highImpactChanges"`
	Categorization       map[string]int `json:"categorization"`
	LanguageDistribution map[string]int `json:"languageDistribution"`
	RecentActivity       []ChangeRecord `json:"recentActivity"`
}

// GenerateReport never fails: if the store cannot be read the document side of
// the report is left empty and the change side is still filled in.
func (s *Service) GenerateReport(ctx context.Context, sourceID string) Report {
	report := Report{
		SourceID:             sourceID,
		Categorization:       map[string]int{},
		LanguageDistribution: map[string]int{},
	}

	docs, err := s.GetHistoricalData(ctx, document.Filter{SourceID: sourceID})
	if err != nil {
		s.log.Warn("report generated without document data", "source", sourceID, "error", err)
		docs = nil
	}

	report.TotalDocuments = len(docs)
	for _, d := range docs {
		date := d.OriginalDate
		if report.TimeRange.Start == nil || date.Before(*report.TimeRange.Start) {
			report.TimeRange.Start = &date
		}
		if report.TimeRange.End == nil || date.After(*report.TimeRange.End) {
			report.TimeRange.End = &date
		}
		report.Categorization[labelOr(d.Category, "uncategorized")]++
		report.LanguageDistribution[labelOr(d.Metadata.Language, "unknown")]++
	}

	records := s.history.Select(func(r ChangeRecord) bool {
		return sourceID == "" || r.SourceID == sourceID
	}, 0)
	report.ChangesDetected = len(records)
	for _, r := range records {
		if r.ImpactAssessment.IsHigh() {
			report.HighImpactChanges++
		}
	}
	if len(records) > recentActivityLimit {
		records = records[:recentActivityLimit]
	}
	report.RecentActivity = records

	return report
}

func labelOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
