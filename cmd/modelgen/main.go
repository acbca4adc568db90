package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/inferlab/predictd/pkg/domain/model"
)

// modelgen writes ready-to-serve model archives for the iris dataset,
// so a fresh predictd has something to load without a training
// pipeline at hand.

func demoLogistic() *model.Logistic {
	return &model.Logistic{
		Labels: []string{"setosa", "versicolor", "virginica"},
		Coef: [][]float64{
			{-0.42, 0.97, -2.52, -1.08},
			{0.53, -0.32, -0.21, -0.77},
			{-0.11, -0.65, 2.73, 1.85},
		},
		Intercept: []float64{9.85, 2.22, -12.07},
	}
}

// petalTree splits on petal length, then petal width. Those two
// features separate the iris classes almost on their own.
func petalTree(lengthThreshold float64, widthThreshold float64) model.Tree {
	return model.Tree{
		Nodes: []model.Node{
			{Feature: 2, Threshold: lengthThreshold, Left: 1, Right: 2},
			{Feature: -1, Label: 0},
			{Feature: 3, Threshold: widthThreshold, Left: 3, Right: 4},
			{Feature: -1, Label: 1},
			{Feature: -1, Label: 2},
		},
	}
}

func demoForest() *model.Forest {
	return &model.Forest{
		Labels: []string{"setosa", "versicolor", "virginica"},
		Trees: []model.Tree{
			petalTree(2.45, 1.75),
			petalTree(2.60, 1.65),
			petalTree(2.35, 1.55),
		},
	}
}

func main() {
	dest := flag.String("dest", ".", "directory to write model archives into")
	flag.Parse()

	for name, predictor := range map[string]model.Predictor{
		"logistic_model": demoLogistic(),
		"rf_model":       demoForest(),
	} {
		path := filepath.Join(*dest, name+".gob")
		if err := model.WriteFile(path, predictor); err != nil {
			log.Fatalf("can not write %s: %s", path, err)
		}
		log.Printf("wrote %s (%s)", path, predictor.Name())
	}
}
