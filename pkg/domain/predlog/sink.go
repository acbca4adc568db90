package predlog

import "context"

// Sink is a destination for prediction records.
//
// The recorder writes from its single worker goroutine, so Sink
// implementations need not be safe for concurrent Write.
type Sink interface {
	// Write delivers one record.
	Write(ctx context.Context, r Record) error

	// Close releases the sink. No Write follows Close.
	Close() error
}
