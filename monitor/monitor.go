package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"f0oster/regwatch/document"
	"f0oster/regwatch/logging"
	"f0oster/regwatch/versioning"
)

var (
	ErrAlreadyRunning  = errors.New("monitor already running")
	ErrCycleInProgress = errors.New("sync cycle already in progress")
)

// Syncer is the part of the versioning service the monitor drives.
type Syncer interface {
	CheckNewDocuments(ctx context.Context, sourceID string, since time.Time) ([]document.Version, error)
	Sync(ctx context.Context, sourceIDs []string) (*versioning.CycleResult, error)
}

type Config struct {
	Sources  []string
	Interval time.Duration
	// Timeout bounds a single cycle; zero means no deadline
	Timeout time.Duration
}

// Monitor periodically checks every source for new documents and then runs
// change detection. Cycles never overlap.
type Monitor struct {
	syncer Syncer
	log    *logging.Logger
	cfg    Config
	now    func() time.Time

	running  atomic.Bool
	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	lastScan time.Time
}

func New(syncer Syncer, log *logging.Logger, cfg Config) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &Monitor{
		syncer: syncer,
		log:    log.With("component", "Monitor"),
		cfg:    cfg,
		now:    time.Now,
	}
}

// Start runs a cycle immediately and then once per interval until Stop is
// called or ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.loop(loopCtx, m.done)
	m.log.Info("monitor started", "interval", m.cfg.Interval, "sources", m.cfg.Sources)
	return nil
}

// Stop cancels the loop (abandoning any cycle in flight) and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	m.log.Info("monitor stopped")
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	if _, err := m.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		m.log.Warn("sync cycle failed", "error", err)
	}
}

// RunOnce runs a single cycle. It returns ErrCycleInProgress instead of
// starting a second cycle while one is running.
func (m *Monitor) RunOnce(ctx context.Context) (*versioning.CycleResult, error) {
	if !m.running.CompareAndSwap(false, true) {
		return nil, ErrCycleInProgress
	}
	defer m.running.Store(false)

	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	started := m.now()
	m.mu.Lock()
	since := m.lastScan
	m.mu.Unlock()

	for _, src := range m.cfg.Sources {
		fresh, err := m.syncer.CheckNewDocuments(ctx, src, since)
		if err != nil {
			m.log.Warn("new document check failed", "source", src, "error", err)
			continue
		}
		if len(fresh) > 0 {
			m.log.Info("new documents found", "source", src, "count", len(fresh))
		}
	}

	result, err := m.syncer.Sync(ctx, m.cfg.Sources)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.lastScan = started
	m.mu.Unlock()

	m.log.Info("sync cycle complete",
		"sources", len(result.Sources),
		"failed_sources", len(result.FailedSources),
		"new_records", len(result.Appended),
		"notified", result.Notified,
	)
	return result, nil
}
