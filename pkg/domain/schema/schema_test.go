package schema_test

import (
	"testing"

	"github.com/inferlab/predictd/pkg/domain/schema"
	"github.com/inferlab/predictd/pkg/utils/cmp"
)

func TestSchema_Validate(t *testing.T) {
	for name, testcase := range map[string]struct {
		when string

		then       []float64
		violations []schema.Violation
	}{
		"when all fields are present and in range, it accepts the document": {
			when: `{"sepal_length": 5.1, "sepal_width": 3.5, "petal_length": 1.4, "petal_width": 0.2}`,
			then: []float64{5.1, 3.5, 1.4, 0.2},
		},
		"when fields are integral numbers, it accepts the document": {
			when: `{"sepal_length": 5, "sepal_width": 3, "petal_length": 1, "petal_width": 1}`,
			then: []float64{5, 3, 1, 1},
		},
		"when a field is missing, it reports the field as required": {
			when: `{"sepal_length": 5.1, "sepal_width": 3.5, "petal_length": 1.4}`,
			violations: []schema.Violation{
				{Field: "petal_width", Reason: "required"},
			},
		},
		"when a field is not numeric, it reports the field": {
			when: `{"sepal_length": "5.1", "sepal_width": 3.5, "petal_length": 1.4, "petal_width": 0.2}`,
			violations: []schema.Violation{
				{Field: "sepal_length", Reason: "must be a number"},
			},
		},
		"when a field is null, it reports the field": {
			when: `{"sepal_length": null, "sepal_width": 3.5, "petal_length": 1.4, "petal_width": 0.2}`,
			violations: []schema.Violation{
				{Field: "sepal_length", Reason: "must be a number"},
			},
		},
		"when a field sits on its exclusive lower bound, it reports the field": {
			when: `{"sepal_length": 0, "sepal_width": 3.5, "petal_length": 1.4, "petal_width": 0.2}`,
			violations: []schema.Violation{
				{Field: "sepal_length", Reason: "must be greater than 0"},
			},
		},
		"when a field sits on its exclusive upper bound, it reports the field": {
			when: `{"sepal_length": 5.1, "sepal_width": 10, "petal_length": 1.4, "petal_width": 0.2}`,
			violations: []schema.Violation{
				{Field: "sepal_width", Reason: "must be less than 10"},
			},
		},
		"when the document has undeclared fields, it reports them": {
			when: `{"sepal_length": 5.1, "sepal_width": 3.5, "petal_length": 1.4, "petal_width": 0.2, "color": "blue"}`,
			violations: []schema.Violation{
				{Field: "color", Reason: "unknown field"},
			},
		},
		"when several fields violate, it reports all of them together": {
			when: `{"sepal_length": -1, "sepal_width": 12, "petal_width": "wide", "wingspan": 2}`,
			violations: []schema.Violation{
				{Field: "sepal_length", Reason: "must be greater than 0"},
				{Field: "sepal_width", Reason: "must be less than 10"},
				{Field: "petal_length", Reason: "required"},
				{Field: "petal_width", Reason: "must be a number"},
				{Field: "wingspan", Reason: "unknown field"},
			},
		},
		"when the document is not JSON, it reports the body": {
			when: `sepal_length=5.1`,
			violations: []schema.Violation{
				{Field: "body", Reason: "not a JSON object: invalid character 's' looking for beginning of value"},
			},
		},
		"when the document is a JSON array, it reports the body": {
			when: `[5.1, 3.5, 1.4, 0.2]`,
			violations: []schema.Violation{
				{Field: "body", Reason: "not a JSON object: json: cannot unmarshal array into Go value of type map[string]json.RawMessage"},
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			testee := schema.Default()

			vector, violations := testee.Validate([]byte(testcase.when))

			if !cmp.SliceEq(vector, testcase.then) {
				t.Errorf(
					"unmatch: feature vector:\n- actual   : %+v\n- expected : %+v",
					vector, testcase.then,
				)
			}
			if !cmp.SliceEq(violations, testcase.violations) {
				t.Errorf(
					"unmatch: violations:\n- actual   : %+v\n- expected : %+v",
					violations, testcase.violations,
				)
			}
		})
	}

	t.Run("it never returns a vector together with violations", func(t *testing.T) {
		testee := schema.Default()
		vector, violations := testee.Validate([]byte(`{"sepal_length": -1}`))
		if vector != nil {
			t.Errorf("vector should be nil on violation, but got %+v", vector)
		}
		if len(violations) == 0 {
			t.Error("violations should be reported")
		}
	})
}

func TestSchema_Names(t *testing.T) {
	testee := schema.Schema{
		{Name: "alpha"}, {Name: "beta"}, {Name: "gamma"},
	}
	if !cmp.SliceEq(testee.Names(), []string{"alpha", "beta", "gamma"}) {
		t.Errorf("unmatch: names: %+v", testee.Names())
	}
}
