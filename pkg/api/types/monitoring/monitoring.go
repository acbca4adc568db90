package monitoring

import (
	"github.com/inferlab/predictd/pkg/domain/monitor"
	"github.com/inferlab/predictd/pkg/metrics"
	"github.com/inferlab/predictd/pkg/utils/rfctime"
)

type FeatureStat struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`

	// Drift is the standardized distance from the reference profile.
	// Absent when no reference covers the feature.
	Drift *float64 `json:"drift,omitempty"`
}

type Latency struct {
	EWMAms float64 `json:"ewma_ms"`
	OK     uint64  `json:"ok"`
	Error  uint64  `json:"error"`
	LastMs float64 `json:"last_ms"`
}

type ModelReport struct {
	Observations int                    `json:"observations"`
	WindowSize   int                    `json:"window_size"`
	Features     map[string]FeatureStat `json:"features"`
	Labels       map[string]int         `json:"labels"`
	Latency      *Latency               `json:"latency,omitempty"`
}

type Report struct {
	GeneratedAt rfctime.RFC3339        `json:"generated_at"`
	Models      map[string]ModelReport `json:"models"`
}

func ComposeReport(r monitor.Report, latencies map[string]metrics.ModelLatency) Report {
	models := make(map[string]ModelReport, len(r.Models))
	for name, m := range r.Models {
		models[name] = ComposeModelReport(name, m, latencies)
	}
	return Report{
		GeneratedAt: r.GeneratedAt,
		Models:      models,
	}
}

func ComposeModelReport(
	name string, r monitor.ModelReport, latencies map[string]metrics.ModelLatency,
) ModelReport {
	features := make(map[string]FeatureStat, len(r.Features))
	for f, s := range r.Features {
		features[f] = FeatureStat{Mean: s.Mean, Std: s.Std, Drift: s.Drift}
	}
	composed := ModelReport{
		Observations: r.Observations,
		WindowSize:   r.WindowSize,
		Features:     features,
		Labels:       r.Labels,
	}
	if l, ok := latencies[name]; ok {
		composed.Latency = &Latency{
			EWMAms: l.EWMAms,
			OK:     l.OK,
			Error:  l.Error,
			LastMs: l.LastMs,
		}
	}
	return composed
}
