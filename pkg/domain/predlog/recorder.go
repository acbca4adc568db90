package predlog

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

const DefaultBufferSize = 1024

// Recorder accepts prediction records without blocking the caller and
// writes them to a Sink from a single background worker.
//
// Queueing is best effort: when the buffer is full, records are dropped
// and counted rather than making a request wait. Sink failures are
// logged and counted, never propagated. Whatever happens to the log,
// the prediction it describes has already been served.
type Recorder struct {
	sink   Sink
	logger *log.Logger

	queue   chan Record
	closing chan struct{}
	done    chan struct{}

	closeOnce sync.Once

	enqueued uint64
	dropped  uint64
	faults   uint64
}

type RecorderOption func(*Recorder)

// WithBufferSize sets how many records may wait for the worker.
func WithBufferSize(n int) RecorderOption {
	return func(r *Recorder) {
		if 0 < n {
			r.queue = make(chan Record, n)
		}
	}
}

// NewRecorder starts a Recorder draining into sink.
//
// The Recorder owns the sink: Close closes it.
func NewRecorder(sink Sink, logger *log.Logger, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		sink:    sink,
		logger:  logger,
		queue:   make(chan Record, DefaultBufferSize),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	go r.run()

	return r
}

// Enqueue hands a record to the background worker and returns
// immediately.
//
// return: true when the record was queued, false when it was dropped
// because the buffer is full.
func (r *Recorder) Enqueue(rec Record) bool {
	select {
	case r.queue <- rec:
		atomic.AddUint64(&r.enqueued, 1)
		return true
	default:
		atomic.AddUint64(&r.dropped, 1)
		return false
	}
}

// QueueDepth is the number of records waiting for the worker.
func (r *Recorder) QueueDepth() int {
	return len(r.queue)
}

// RecorderStats is a snapshot of recorder counters.
type RecorderStats struct {
	Enqueued uint64
	Dropped  uint64

	// Faults counts records the sink failed to take.
	Faults uint64
}

func (r *Recorder) Stats() RecorderStats {
	return RecorderStats{
		Enqueued: atomic.LoadUint64(&r.enqueued),
		Dropped:  atomic.LoadUint64(&r.dropped),
		Faults:   atomic.LoadUint64(&r.faults),
	}
}

func (r *Recorder) run() {
	for {
		select {
		case rec := <-r.queue:
			r.write(rec)
		case <-r.closing:
			// flush what is already queued, then stop.
			for {
				select {
				case rec := <-r.queue:
					r.write(rec)
				default:
					close(r.done)
					return
				}
			}
		}
	}
}

func (r *Recorder) write(rec Record) {
	if err := r.sink.Write(context.Background(), rec); err != nil {
		atomic.AddUint64(&r.faults, 1)
		r.logger.Printf("prediction record lost (request %s): %s", rec.RequestID, err)
	}
}

// Close flushes queued records and closes the sink.
//
// Enqueue keeps being safe to call during and after Close, but records
// arriving once the flush has begun may be lost. The given context
// bounds how long Close waits for the flush; on expiry the sink is
// closed anyway and the context error returned.
func (r *Recorder) Close(ctx context.Context) error {
	r.closeOnce.Do(func() { close(r.closing) })

	select {
	case <-r.done:
		return r.sink.Close()
	case <-ctx.Done():
		r.sink.Close()
		return ctx.Err()
	}
}
