package monitor

import (
	"math"
	"time"

	"github.com/inferlab/predictd/pkg/utils/rfctime"
)

// FeatureStat describes one feature over a model's window.
//
// Drift is the standardized mean difference against the reference
// profile: |window mean - reference mean| / reference std. It is absent
// for features without a usable reference.
type FeatureStat struct {
	Mean  float64  `json:"mean"`
	Std   float64  `json:"std"`
	Drift *float64 `json:"drift,omitempty"`
}

// ModelReport summarizes the window of one model.
type ModelReport struct {
	// Observations currently in the window.
	Observations int `json:"observations"`

	WindowSize int `json:"window_size"`

	Features map[string]FeatureStat `json:"features"`

	// Labels counts served predictions per label.
	Labels map[string]int `json:"labels"`
}

// Report is the monitoring snapshot over all models.
type Report struct {
	GeneratedAt rfctime.RFC3339        `json:"generated_at"`
	Models      map[string]ModelReport `json:"models"`
}

// Report computes the monitoring snapshot.
func (w *Window) Report() Report {
	w.mu.RLock()
	defer w.mu.RUnlock()

	models := make(map[string]ModelReport, len(w.perModel))
	for model, window := range w.perModel {
		models[model] = w.reportOn(window)
	}

	return Report{
		GeneratedAt: rfctime.RFC3339(time.Now()),
		Models:      models,
	}
}

func (w *Window) reportOn(window []observation) ModelReport {
	labels := map[string]int{}
	sums := map[string]float64{}
	counts := map[string]int{}

	for _, obs := range window {
		labels[obs.label] += 1
		for name, v := range obs.features {
			sums[name] += v
			counts[name] += 1
		}
	}

	features := make(map[string]FeatureStat, len(sums))
	for name, sum := range sums {
		n := float64(counts[name])
		mean := sum / n

		sqsum := 0.0
		for _, obs := range window {
			if v, ok := obs.features[name]; ok {
				sqsum += (v - mean) * (v - mean)
			}
		}
		stat := FeatureStat{Mean: mean, Std: math.Sqrt(sqsum / n)}

		if ref, ok := w.reference[name]; ok && 0 < ref.Std {
			drift := math.Abs(mean-ref.Mean) / ref.Std
			stat.Drift = &drift
		}

		features[name] = stat
	}

	return ModelReport{
		Observations: len(window),
		WindowSize:   w.size,
		Features:     features,
		Labels:       labels,
	}
}
