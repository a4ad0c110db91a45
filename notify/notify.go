package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"f0oster/regwatch/logging"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Sink accepts alerts. Callers treat failures as non-fatal.
type Sink interface {
	Notify(ctx context.Context, subject, body string, priority Priority) error
}

// LogSink writes alerts to the structured log.
type LogSink struct {
	log *logging.Logger
}

func NewLogSink(log *logging.Logger) *LogSink {
	return &LogSink{log: log.With("sink", "LogSink")}
}

func (s *LogSink) Notify(ctx context.Context, subject, body string, priority Priority) error {
	s.log.Warn("regulatory alert",
		"subject", subject,
		"priority", string(priority),
		"lines", strings.Count(body, "\n")+1,
		"body", body,
	)
	return nil
}

// Multi delivers to every sink and reports the combined failure, if any.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, subject, body string, priority Priority) error {
	var errs []error
	for i, s := range m {
		if err := s.Notify(ctx, subject, body, priority); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
