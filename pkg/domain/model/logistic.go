package model

import (
	"fmt"
	"math"
)

// Logistic is a multinomial logistic regression classifier.
//
// Scores are computed as Coef x features + Intercept per class, and
// turned into probabilities with softmax. Fields are exported for the
// archive codec.
type Logistic struct {
	// Labels are class names. Labels[i] corresponds to Coef[i].
	Labels []string

	// Coef holds one weight row per class, one weight per feature.
	Coef [][]float64

	// Intercept holds one bias per class.
	Intercept []float64
}

var _ Predictor = &Logistic{}

func (l *Logistic) Name() string {
	return "logistic_regression"
}

func (l *Logistic) Predict(features []float64) (Result, error) {
	if len(l.Coef) == 0 || len(l.Coef) != len(l.Labels) || len(l.Coef) != len(l.Intercept) {
		return Result{}, fmt.Errorf(
			"%s: inconsistent parameters: %d classes, %d labels, %d intercepts",
			l.Name(), len(l.Coef), len(l.Labels), len(l.Intercept),
		)
	}

	scores := make([]float64, len(l.Coef))
	for class, row := range l.Coef {
		if len(row) != len(features) {
			return Result{}, fmt.Errorf(
				"%s: expects %d features, got %d", l.Name(), len(row), len(features),
			)
		}
		score := l.Intercept[class]
		for nth, weight := range row {
			score += weight * features[nth]
		}
		scores[class] = score
	}

	probs := softmax(scores)
	best := 0
	for class := range probs {
		if probs[class] > probs[best] {
			best = class
		}
	}

	return Result{Label: l.Labels[best], Confidence: probs[best]}, nil
}

// softmax, shifted by the max score so large scores do not overflow.
func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores {
		if max < s {
			max = s
		}
	}

	probs := make([]float64, len(scores))
	sum := 0.0
	for nth, s := range scores {
		probs[nth] = math.Exp(s - max)
		sum += probs[nth]
	}
	for nth := range probs {
		probs[nth] /= sum
	}
	return probs
}
