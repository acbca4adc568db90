package predlog

import (
	"context"
	"fmt"
)

// FanoutSink copies every record to all of its members.
type FanoutSink struct {
	sinks []Sink
}

var _ Sink = &FanoutSink{}

func NewFanoutSink(sinks ...Sink) *FanoutSink {
	return &FanoutSink{sinks: sinks}
}

// Write attempts every member even when some fail, so one broken
// destination does not starve the others.
func (s *FanoutSink) Write(ctx context.Context, r Record) error {
	var firstErr error
	failed := 0
	for _, sink := range s.sinks {
		if err := sink.Write(ctx, r); err != nil {
			failed += 1
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		return fmt.Errorf("%d of %d sinks failed: %w", failed, len(s.sinks), firstErr)
	}
	return nil
}

func (s *FanoutSink) Close() error {
	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
