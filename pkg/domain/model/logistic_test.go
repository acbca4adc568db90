package model_test

import (
	"math"
	"testing"

	"github.com/inferlab/predictd/pkg/domain/model"
)

func TestLogistic_Predict(t *testing.T) {
	t.Run("it chooses the class with the highest score", func(t *testing.T) {
		testee := &model.Logistic{
			Labels:    []string{"no", "yes"},
			Coef:      [][]float64{{0, 0}, {1, 0}},
			Intercept: []float64{0, 0},
		}

		actual, err := testee.Predict([]float64{2, 0})
		if err != nil {
			t.Fatal(err)
		}

		if actual.Label != "yes" {
			t.Errorf(`label should be "yes", but "%s"`, actual.Label)
		}

		// scores are (0, 2), so P(yes) = e^2 / (1 + e^2)
		expectedConfidence := math.Exp(2) / (1 + math.Exp(2))
		if math.Abs(actual.Confidence-expectedConfidence) > 1e-9 {
			t.Errorf(
				"confidence should be %f, but %f", expectedConfidence, actual.Confidence,
			)
		}
	})

	t.Run("it is deterministic for a fixed input", func(t *testing.T) {
		testee := &model.Logistic{
			Labels:    []string{"no", "yes"},
			Coef:      [][]float64{{0.5, -1.25}, {-0.75, 2.0}},
			Intercept: []float64{0.125, -0.5},
		}

		first, err := testee.Predict([]float64{1.5, 2.5})
		if err != nil {
			t.Fatal(err)
		}
		second, err := testee.Predict([]float64{1.5, 2.5})
		if err != nil {
			t.Fatal(err)
		}

		if first != second {
			t.Errorf("results differ: %+v != %+v", first, second)
		}
	})

	t.Run("it does not overflow on large scores", func(t *testing.T) {
		testee := &model.Logistic{
			Labels:    []string{"no", "yes"},
			Coef:      [][]float64{{1000}, {-1000}},
			Intercept: []float64{0, 0},
		}

		actual, err := testee.Predict([]float64{5})
		if err != nil {
			t.Fatal(err)
		}
		if actual.Label != "no" {
			t.Errorf(`label should be "no", but "%s"`, actual.Label)
		}
		if math.IsNaN(actual.Confidence) || math.IsInf(actual.Confidence, 0) {
			t.Errorf("confidence should be finite, but %f", actual.Confidence)
		}
	})

	t.Run("when the feature vector has a wrong arity, it errors", func(t *testing.T) {
		testee := &model.Logistic{
			Labels:    []string{"no", "yes"},
			Coef:      [][]float64{{0, 0}, {1, 0}},
			Intercept: []float64{0, 0},
		}

		if _, err := testee.Predict([]float64{1, 2, 3}); err == nil {
			t.Error("error should be returned, but not")
		}
	})

	t.Run("when parameters are inconsistent, it errors", func(t *testing.T) {
		testee := &model.Logistic{
			Labels:    []string{"no"},
			Coef:      [][]float64{{0, 0}, {1, 0}},
			Intercept: []float64{0, 0},
		}

		if _, err := testee.Predict([]float64{1, 2}); err == nil {
			t.Error("error should be returned, but not")
		}
	})
}
