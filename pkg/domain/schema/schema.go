package schema

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/inferlab/predictd/pkg/utils/slices"
)

// Field declares a single numeric feature of a prediction request.
//
// Bounds are exclusive: a value v is acceptable when Gt < v < Lt.
// Nil bounds are not checked.
type Field struct {
	Name string   `json:"name" yaml:"name"`
	Gt   *float64 `json:"gt,omitempty" yaml:"gt,omitempty"`
	Lt   *float64 `json:"lt,omitempty" yaml:"lt,omitempty"`
}

func (f Field) Equal(o Field) bool {
	pEq := func(a, b *float64) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return *a == *b
	}
	return f.Name == o.Name && pEq(f.Gt, o.Gt) && pEq(f.Lt, o.Lt)
}

// Schema is the ordered field declaration of a model's input.
//
// Ordering matters: validated requests are flattened into a feature vector
// following declaration order, and that vector is what models consume and
// what cache keys are built from.
type Schema []Field

// Violation describes one way an input document failed validation.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v Violation) Equal(o Violation) bool {
	return v == o
}

func bound(v float64) *float64 {
	return &v
}

// Default is the iris measurement schema: four features, each in the
// open interval (0, 10).
func Default() Schema {
	return Schema{
		{Name: "sepal_length", Gt: bound(0), Lt: bound(10)},
		{Name: "sepal_width", Gt: bound(0), Lt: bound(10)},
		{Name: "petal_length", Gt: bound(0), Lt: bound(10)},
		{Name: "petal_width", Gt: bound(0), Lt: bound(10)},
	}
}

// Names lists declared field names in declaration order.
func (s Schema) Names() []string {
	return slices.Map(s, func(f Field) string { return f.Name })
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Validate checks a raw JSON document against the schema.
//
// All violations are collected and returned together, covering every
// declared field which is absent, non-numeric or out of range, and every
// field in the document the schema does not declare. Validation reads
// nothing but its arguments and writes nothing.
//
// return:
//
//   - []float64: feature values in declaration order. nil unless the
//     document is fully valid.
//   - []Violation: all detected violations. nil when the document is valid.
func (s Schema) Validate(raw []byte) ([]float64, []Violation) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, []Violation{
			{Field: "body", Reason: fmt.Sprintf("not a JSON object: %s", err)},
		}
	}

	violations := []Violation{}
	vector := make([]float64, 0, len(s))

	for _, f := range s {
		fragment, ok := doc[f.Name]
		if !ok {
			violations = append(violations, Violation{Field: f.Name, Reason: "required"})
			continue
		}

		var v float64
		if err := json.Unmarshal(fragment, &v); err != nil {
			violations = append(violations, Violation{Field: f.Name, Reason: "must be a number"})
			continue
		}

		if f.Gt != nil && v <= *f.Gt {
			violations = append(violations, Violation{
				Field:  f.Name,
				Reason: fmt.Sprintf("must be greater than %s", formatBound(*f.Gt)),
			})
			continue
		}
		if f.Lt != nil && v >= *f.Lt {
			violations = append(violations, Violation{
				Field:  f.Name,
				Reason: fmt.Sprintf("must be less than %s", formatBound(*f.Lt)),
			})
			continue
		}

		vector = append(vector, v)
	}

	declared := map[string]struct{}{}
	for _, f := range s {
		declared[f.Name] = struct{}{}
	}
	unknown := []string{}
	for name := range doc {
		if _, ok := declared[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	// map iteration order is unstable. keep reports deterministic.
	for _, name := range slices.Sorted(unknown, func(a, b string) bool { return a < b }) {
		violations = append(violations, Violation{Field: name, Reason: "unknown field"})
	}

	if len(violations) != 0 {
		return nil, violations
	}
	return vector, nil
}
