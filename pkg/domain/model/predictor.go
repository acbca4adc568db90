package model

// Result of a single inference call.
//
// For a fixed predictor and fixed input, Result is identical across calls.
type Result struct {
	// Label is the class the predictor chose.
	Label string

	// Confidence in the chosen label, in [0, 1].
	Confidence float64
}

// Predictor computes a class label for a single feature vector.
//
// Implementations are read-only after construction, so a single Predictor
// may serve concurrent calls without locking.
type Predictor interface {
	// Predict classifies one feature vector.
	//
	// The vector must follow the feature ordering the predictor was
	// trained with. Errors are faults of the predictor or its input
	// shape, not of the caller's request content.
	Predict(features []float64) (Result, error)

	// Name returns the name of the predictor implementation.
	Name() string
}
