package predlog

import (
	"github.com/inferlab/predictd/pkg/utils/cmp"
	"github.com/inferlab/predictd/pkg/utils/rfctime"
)

// Record of one served prediction.
type Record struct {
	// RequestID ties the record to the request log lines.
	RequestID string `json:"request_id"`

	Model string `json:"model"`

	// Features as named in the model's schema.
	Features map[string]float64 `json:"features"`

	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`

	// Cached is true when the result came out of the cache.
	Cached bool `json:"cached"`

	// LatencyMS is the serving latency in milliseconds, cache hits
	// included.
	LatencyMS float64 `json:"latency_ms"`

	At rfctime.RFC3339 `json:"at"`
}

func (r Record) Equal(o Record) bool {
	return r.RequestID == o.RequestID &&
		r.Model == o.Model &&
		cmp.MapEq(r.Features, o.Features) &&
		r.Prediction == o.Prediction &&
		r.Confidence == o.Confidence &&
		r.Cached == o.Cached &&
		r.LatencyMS == o.LatencyMS &&
		r.At.Equal(o.At)
}
