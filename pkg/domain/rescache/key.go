package rescache

import (
	"strconv"
	"strings"
)

// Key builds the canonical cache key of a prediction.
//
// The model name is part of the key, so two models never share an entry
// for the same feature values. Features are encoded in their given
// order; callers pass vectors in schema declaration order, which makes
// the encoding canonical.
func Key(modelName string, features []float64) string {
	parts := make([]string, 0, len(features)+1)
	parts = append(parts, modelName)
	for _, v := range features {
		parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return strings.Join(parts, ":")
}
