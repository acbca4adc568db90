package model

import (
	"fmt"
)

// Node is one decision point of a Tree, stored in a flat array.
//
// Interior nodes test features[Feature] <= Threshold, descending to
// Left on true and Right on false. Leaves have Feature < 0 and carry
// the class index in Label.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Label     int
}

// Tree is a single decision tree over feature vectors.
type Tree struct {
	Nodes []Node
}

func (t Tree) classify(features []float64) (int, error) {
	if len(t.Nodes) == 0 {
		return 0, fmt.Errorf("empty tree")
	}

	at := 0
	// a well-formed tree is hopped through in at most len(Nodes) steps.
	for hop := 0; hop < len(t.Nodes); hop++ {
		node := t.Nodes[at]
		if node.Feature < 0 {
			return node.Label, nil
		}
		if len(features) <= node.Feature {
			return 0, fmt.Errorf(
				"tree tests feature #%d, got only %d features", node.Feature, len(features),
			)
		}

		if features[node.Feature] <= node.Threshold {
			at = node.Left
		} else {
			at = node.Right
		}
		if at < 0 || len(t.Nodes) <= at {
			return 0, fmt.Errorf("tree node #%d points outside the tree", at)
		}
	}
	return 0, fmt.Errorf("tree does not reach a leaf")
}

// Forest is a random forest classifier: each tree votes for a class,
// and the majority wins. Confidence is the winning vote share.
type Forest struct {
	// Labels are class names, indexed by the Label field of leaves.
	Labels []string

	Trees []Tree
}

var _ Predictor = &Forest{}

func (f *Forest) Name() string {
	return "random_forest"
}

func (f *Forest) Predict(features []float64) (Result, error) {
	if len(f.Trees) == 0 || len(f.Labels) == 0 {
		return Result{}, fmt.Errorf("%s: no trees or no labels", f.Name())
	}

	votes := make([]int, len(f.Labels))
	for _, tree := range f.Trees {
		class, err := tree.classify(features)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", f.Name(), err)
		}
		if class < 0 || len(f.Labels) <= class {
			return Result{}, fmt.Errorf("%s: leaf votes for unknown class #%d", f.Name(), class)
		}
		votes[class]++
	}

	best := 0
	for class := range votes {
		if votes[best] < votes[class] {
			best = class
		}
	}

	return Result{
		Label:      f.Labels[best],
		Confidence: float64(votes[best]) / float64(len(f.Trees)),
	}, nil
}
