package predict

import (
	"github.com/inferlab/predictd/pkg/utils/cmp"
)

// Response for a single prediction call.
//
// For a fixed model and fixed input this is identical across calls,
// whether it was computed or served from cache.
type Response struct {
	// Model is the name the prediction was requested against.
	Model string `json:"model"`

	// Prediction is the class label the model chose.
	Prediction string `json:"prediction"`

	// Confidence in the chosen label, in [0, 1].
	Confidence float64 `json:"confidence"`
}

func (r Response) Equal(o Response) bool {
	return r.Model == o.Model &&
		r.Prediction == o.Prediction &&
		r.Confidence == o.Confidence
}

// HealthResponse for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (h HealthResponse) Equal(o HealthResponse) bool {
	return h.Status == o.Status
}

// ModelsResponse for GET /models.
type ModelsResponse struct {
	AvailableModels []string `json:"available_models"`
}

func (m ModelsResponse) Equal(o ModelsResponse) bool {
	return cmp.SliceContentEq(m.AvailableModels, o.AvailableModels)
}
