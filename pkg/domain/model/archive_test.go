package model_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inferlab/predictd/pkg/domain/model"
	"github.com/inferlab/predictd/pkg/utils/try"
)

func TestArchive(t *testing.T) {
	t.Run("a stored logistic model predicts as the original does", func(t *testing.T) {
		original := &model.Logistic{
			Labels:    []string{"no", "yes"},
			Coef:      [][]float64{{0.5, -1.25}, {-0.75, 2.0}},
			Intercept: []float64{0.125, -0.5},
		}
		path := filepath.Join(t.TempDir(), "logistic.model")

		if err := model.WriteFile(path, original); err != nil {
			t.Fatal(err)
		}
		restored := try.To(model.Load(path)).OrFatal(t)

		if restored.Name() != original.Name() {
			t.Errorf(
				"restored model is a %s, not a %s", restored.Name(), original.Name(),
			)
		}

		features := []float64{1.5, 2.5}
		expected := try.To(original.Predict(features)).OrFatal(t)
		actual := try.To(restored.Predict(features)).OrFatal(t)
		if actual != expected {
			t.Errorf("unmatch: prediction: %+v != %+v", actual, expected)
		}
	})

	t.Run("a stored forest predicts as the original does", func(t *testing.T) {
		original := &model.Forest{
			Labels: []string{"small", "large"},
			Trees:  []model.Tree{stump(5), stump(2), leaf(0)},
		}
		path := filepath.Join(t.TempDir(), "forest.model")

		if err := model.WriteFile(path, original); err != nil {
			t.Fatal(err)
		}
		restored := try.To(model.Load(path)).OrFatal(t)

		features := []float64{3}
		expected := try.To(original.Predict(features)).OrFatal(t)
		actual := try.To(restored.Predict(features)).OrFatal(t)
		if actual != expected {
			t.Errorf("unmatch: prediction: %+v != %+v", actual, expected)
		}
	})

	t.Run("when the file does not exist, Load errors", func(t *testing.T) {
		if _, err := model.Load(filepath.Join(t.TempDir(), "no-such.model")); err == nil {
			t.Error("error should be returned, but not")
		}
	})

	t.Run("when the file is not a model archive, Load errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.model")
		if err := os.WriteFile(path, []byte("this is not a model"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := model.Load(path); err == nil {
			t.Error("error should be returned, but not")
		}
	})
}
