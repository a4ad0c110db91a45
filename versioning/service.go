package versioning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"f0oster/regwatch/classify"
	"f0oster/regwatch/diff"
	"f0oster/regwatch/document"
	"f0oster/regwatch/logging"
	"f0oster/regwatch/metrics"
	"f0oster/regwatch/notify"
)

// ErrAllSourcesFailed is returned when no source in a sync cycle could be read.
var ErrAllSourcesFailed = errors.New("all sources failed")

// recordNamespace seeds the deterministic change record IDs.
var recordNamespace = uuid.MustParse("6f1c3a52-8d0e-4c1b-9a57-2f8e4d6b7c90")

// DocumentStore is the read side of the document repository.
type DocumentStore interface {
	ListVersions(ctx context.Context, documentID string) ([]document.Version, error)
	ListDocuments(ctx context.Context, filter document.Filter) ([]document.Version, error)
}

// RecordSink persists newly detected change records.
type RecordSink interface {
	SaveChangeRecords(ctx context.Context, records []ChangeRecord) error
}

type Options struct {
	Comparator   diff.Options
	Thresholds   classify.Thresholds
	Confidence   ConfidenceWeights
	Stakeholders *StakeholderRegistry

	// MaxConcurrency bounds concurrent document fetches within one source
	MaxConcurrency int

	// SourceRate limits version fetches per source (events/second); zero disables limiting
	SourceRate float64

	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Comparator:     diff.DefaultOptions(),
		Thresholds:     classify.DefaultThresholds(),
		Confidence:     DefaultConfidenceWeights(),
		Stakeholders:   NewStakeholderRegistry(),
		MaxConcurrency: 4,
		Now:            time.Now,
	}
}

// Service drives change detection across the version history of every
// tracked document and keeps the resulting change history.
type Service struct {
	store      DocumentStore
	notifier   notify.Sink
	recordSink RecordSink
	log        *logging.Logger
	classifier *classify.Classifier
	opts       Options
	history    *ChangeLog

	inflight   singleflight.Group
	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
}

func NewService(store DocumentStore, notifier notify.Sink, log *logging.Logger, opts Options) *Service {
	if opts.Stakeholders == nil {
		opts.Stakeholders = NewStakeholderRegistry()
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:      store,
		notifier:   notifier,
		log:        log.With("component", "VersioningService"),
		classifier: classify.NewClassifier(opts.Thresholds),
		opts:       opts,
		history:    NewChangeLog(),
		limiters:   make(map[string]*rate.Limiter),
	}
}

// SetRecordSink enables persistence of newly appended change records.
func (s *Service) SetRecordSink(sink RecordSink) {
	s.recordSink = sink
}

// DetectDocumentChanges compares each consecutive pair of a document's versions
// (ordered by publication date) and returns one record per transition.
func (s *Service) DetectDocumentChanges(versions []document.Version) []ChangeRecord {
	if len(versions) < 2 {
		return nil
	}

	ordered := make([]document.Version, len(versions))
	for i, v := range versions {
		ordered[i] = document.Normalize(v)
	}
	document.SortAscending(ordered)

	records := make([]ChangeRecord, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		records = append(records, s.buildRecord(ordered[i-1], ordered[i]))
	}
	return records
}

func (s *Service) buildRecord(prev, curr document.Version) ChangeRecord {
	cmp := diff.Compare(prev, curr, s.opts.Comparator)
	changeType, impact := s.classifier.Classify(prev, curr, cmp)
	summary := buildSummary(prev, curr, cmp)

	return ChangeRecord{
		ID:                   recordID(prev, curr),
		DocumentID:           curr.DocumentID,
		DocumentTitle:        curr.Title,
		SourceID:             curr.SourceID,
		ChangeType:           changeType,
		PreviousVersion:      prev,
		CurrentVersion:       curr,
		ChangesSummary:       summary,
		ImpactAssessment:     impact,
		AffectedSections:     affectedSections(summary, cmp.ModifiedSections),
		AffectedStakeholders: s.opts.Stakeholders.AffectedStakeholders(curr.SourceID, cmp),
		Confidence:           Confidence(cmp, s.opts.Confidence),
		DetectedAt:           s.opts.Now().UTC(),
		Comparison:           cmp,
	}
}

func recordID(prev, curr document.Version) uuid.UUID {
	key := fmt.Sprintf("%s|%d|%s|%d|%s",
		curr.DocumentID,
		prev.Version, prev.OriginalDate.UTC().Format(time.RFC3339Nano),
		curr.Version, curr.OriginalDate.UTC().Format(time.RFC3339Nano),
	)
	return uuid.NewSHA1(recordNamespace, []byte(key))
}

// SyncSource runs change detection for every document of a source. Concurrent
// calls for the same source share a single pass.
func (s *Service) SyncSource(ctx context.Context, sourceID string) (*SyncResult, error) {
	v, err, shared := s.inflight.Do(sourceID, func() (interface{}, error) {
		return s.syncSource(ctx, sourceID)
	})
	if shared {
		s.log.Debug("joined in-flight sync", "source", sourceID)
	}
	if err != nil {
		return nil, err
	}
	return v.(*SyncResult), nil
}

func (s *Service) syncSource(ctx context.Context, sourceID string) (*SyncResult, error) {
	start := time.Now()
	defer func() {
		metrics.SyncDuration.WithLabelValues(sourceID).Observe(time.Since(start).Seconds())
	}()

	docs, err := s.store.ListDocuments(ctx, document.Filter{SourceID: sourceID})
	if err != nil {
		return nil, fmt.Errorf("list documents for source %s: %w", sourceID, err)
	}
	ids := distinctDocumentIDs(docs)

	limiter := s.limiter(sourceID)
	results := make([][]ChangeRecord, len(ids))
	var failed int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			versions, err := s.store.ListVersions(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				atomic.AddInt32(&failed, 1)
				metrics.DocumentFailures.WithLabelValues(sourceID).Inc()
				s.log.Warn("skipping document, version fetch failed",
					"source", sourceID,
					"document_id", id,
					"error", err,
				)
				return nil
			}
			results[i] = s.DetectDocumentChanges(versions)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []ChangeRecord
	for _, r := range results {
		records = append(records, r...)
	}

	return &SyncResult{
		SourceID:        sourceID,
		Documents:       len(ids),
		FailedDocuments: int(failed),
		Records:         records,
		Duration:        time.Since(start),
	}, nil
}

// Sync runs one full cycle: detection for each source, then a single append to
// the history, persistence of new records, and at most one aggregated alert.
// A cancelled cycle appends nothing.
func (s *Service) Sync(ctx context.Context, sourceIDs []string) (*CycleResult, error) {
	result := &CycleResult{}
	var all []ChangeRecord

	for _, src := range sourceIDs {
		res, err := s.SyncSource(ctx, src)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				metrics.SyncCycles.WithLabelValues(src, "cancelled").Inc()
				s.log.Warn("sync cycle abandoned", "source", src, "error", ctxErr)
				return nil, ctxErr
			}
			metrics.SyncCycles.WithLabelValues(src, "failed").Inc()
			s.log.Error("source sync failed", "source", src, "error", err)
			result.FailedSources = append(result.FailedSources, src)
			continue
		}
		metrics.SyncCycles.WithLabelValues(src, "ok").Inc()
		s.log.Info("source synced",
			"source", src,
			"documents", res.Documents,
			"failed_documents", res.FailedDocuments,
			"records", len(res.Records),
			"duration", res.Duration,
		)
		result.Sources = append(result.Sources, *res)
		all = append(all, res.Records...)
	}

	if len(sourceIDs) > 0 && len(result.FailedSources) == len(sourceIDs) {
		return nil, fmt.Errorf("%w: %s", ErrAllSourcesFailed, strings.Join(result.FailedSources, ", "))
	}

	result.Appended = s.history.Append(all...)
	for _, r := range result.Appended {
		metrics.ChangesDetected.WithLabelValues(string(r.ChangeType), string(r.ImpactAssessment)).Inc()
	}

	if s.recordSink != nil && len(result.Appended) > 0 {
		if err := s.recordSink.SaveChangeRecords(ctx, result.Appended); err != nil {
			s.log.Error("failed to persist change records", "records", len(result.Appended), "error", err)
		}
	}

	result.Notified = s.notifyHighImpact(ctx, result.Appended)
	return result, nil
}

// notifyHighImpact sends one aggregated alert for the high and critical records.
// Failures are logged and swallowed.
func (s *Service) notifyHighImpact(ctx context.Context, records []ChangeRecord) bool {
	if s.notifier == nil {
		return false
	}
	var lines []string
	for _, r := range records {
		if r.ImpactAssessment.IsHigh() {
			lines = append(lines, fmt.Sprintf("%s: %s", r.DocumentID, strings.Join(r.ChangesSummary, "; ")))
		}
	}
	if len(lines) == 0 {
		return false
	}

	subject := fmt.Sprintf("%d critical regulatory changes detected", len(lines))
	if err := s.notifier.Notify(ctx, subject, strings.Join(lines, "\n"), notify.PriorityHigh); err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		s.log.Error("failed to send change notification", "changes", len(lines), "error", err)
		return false
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
	return true
}

// CheckNewDocuments returns the versions of a source published after since.
func (s *Service) CheckNewDocuments(ctx context.Context, sourceID string, since time.Time) ([]document.Version, error) {
	docs, err := s.store.ListDocuments(ctx, document.Filter{SourceID: sourceID, Start: &since})
	if err != nil {
		return nil, fmt.Errorf("check new documents for source %s: %w", sourceID, err)
	}
	out := make([]document.Version, 0, len(docs))
	for _, d := range docs {
		if d.OriginalDate.After(since) {
			out = append(out, d)
		}
	}
	document.SortDescending(out)
	return out, nil
}

// GetChangeHistory returns change records newest first; limit <= 0 means all.
func (s *Service) GetChangeHistory(limit int) []ChangeRecord {
	return s.history.Recent(limit)
}

// GetHistoricalData returns the stored versions matching filter, newest first.
func (s *Service) GetHistoricalData(ctx context.Context, filter document.Filter) ([]document.Version, error) {
	docs, err := s.store.ListDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list historical data: %w", err)
	}
	out := make([]document.Version, 0, len(docs))
	for _, d := range docs {
		if filter.Matches(d) {
			out = append(out, d)
		}
	}
	document.SortDescending(out)
	return out, nil
}

func (s *Service) limiter(sourceID string) *rate.Limiter {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()

	if l, ok := s.limiters[sourceID]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Inf, 0)
	if s.opts.SourceRate > 0 {
		burst := int(s.opts.SourceRate)
		if burst < 1 {
			burst = 1
		}
		l = rate.NewLimiter(rate.Limit(s.opts.SourceRate), burst)
	}
	s.limiters[sourceID] = l
	return l
}

func distinctDocumentIDs(docs []document.Version) []string {
	seen := make(map[string]bool, len(docs))
	var ids []string
	for _, d := range docs {
		if d.DocumentID == "" || seen[d.DocumentID] {
			continue
		}
		seen[d.DocumentID] = true
		ids = append(ids, d.DocumentID)
	}
	return ids
}
