package monitor

import (
	"context"
	"sync"

	"github.com/inferlab/predictd/pkg/domain/predlog"
)

// DefaultWindowSize is how many recent predictions are kept per model.
const DefaultWindowSize = 45

// Profile is the reference distribution of one feature, taken from the
// data the model was trained on.
type Profile struct {
	Mean float64 `json:"mean" yaml:"mean"`
	Std  float64 `json:"std" yaml:"std"`
}

// IrisReference is the training distribution of the iris measurement
// features.
func IrisReference() map[string]Profile {
	return map[string]Profile{
		"sepal_length": {Mean: 5.843, Std: 0.828},
		"sepal_width":  {Mean: 3.057, Std: 0.436},
		"petal_length": {Mean: 3.758, Std: 1.765},
		"petal_width":  {Mean: 1.199, Std: 0.762},
	}
}

type observation struct {
	features map[string]float64
	label    string
}

// Window keeps a sliding window of recently served predictions per
// model and compares them against a reference profile.
//
// It implements predlog.Sink, so it is fed from the background log
// fan-out, off the request path. Observing is cheap; all statistics are
// computed at report time.
type Window struct {
	mu        sync.RWMutex
	size      int
	reference map[string]Profile
	perModel  map[string][]observation
}

type Option func(*Window)

// WithWindowSize keeps the last n predictions per model.
func WithWindowSize(n int) Option {
	return func(w *Window) {
		if 0 < n {
			w.size = n
		}
	}
}

// WithReference sets the training profile drift is measured against.
func WithReference(reference map[string]Profile) Option {
	return func(w *Window) {
		w.reference = reference
	}
}

// New builds a Window. Unless optioned otherwise it keeps
// DefaultWindowSize predictions per model and compares against
// IrisReference.
func New(opts ...Option) *Window {
	w := &Window{
		size:      DefaultWindowSize,
		reference: IrisReference(),
		perModel:  map[string][]observation{},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Observe appends one served prediction, forgetting the oldest one when
// the model's window is full.
func (w *Window) Observe(model string, features map[string]float64, label string) {
	copied := make(map[string]float64, len(features))
	for name, v := range features {
		copied[name] = v
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	window := append(w.perModel[model], observation{features: copied, label: label})
	if w.size < len(window) {
		window = window[len(window)-w.size:]
	}
	w.perModel[model] = window
}

// Total counts currently held observations across all models.
func (w *Window) Total() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	total := 0
	for _, window := range w.perModel {
		total += len(window)
	}
	return total
}

var _ predlog.Sink = &Window{}

// Write makes Window a predlog.Sink. It never fails.
func (w *Window) Write(ctx context.Context, r predlog.Record) error {
	w.Observe(r.Model, r.Features, r.Prediction)
	return nil
}

func (w *Window) Close() error {
	return nil
}
