package audit

import (
	"context"
	"log/slog"
	"time"
)

// Event records one resolution of a pending proposal.
type Event struct {
	Timestamp    time.Time
	ProposalID   string
	Kind         string
	Resolution   string // "confirmed" or "cancelled"
	Outcome      string // "ok" or "failed"
	ErrorMessage string
	Duration     time.Duration
}

type EventSink interface {
	Record(ctx context.Context, event Event) error
	Close() error
}

type NoOpSink struct{}

func NewNoOpSink() *NoOpSink {
	return &NoOpSink{}
}

func (s *NoOpSink) Record(ctx context.Context, event Event) error {
	return nil
}

func (s *NoOpSink) Close() error {
	return nil
}

// SlogSink writes audit events to the structured log.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Record(ctx context.Context, event Event) error {
	s.logger.Info("audit",
		"proposal_id", event.ProposalID,
		"kind", event.Kind,
		"resolution", event.Resolution,
		"outcome", event.Outcome,
		"error", event.ErrorMessage,
		"duration", event.Duration)
	return nil
}

func (s *SlogSink) Close() error {
	return nil
}
