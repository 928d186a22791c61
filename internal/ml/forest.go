package ml

import "fmt"

// TreeNode is one node of a fitted decision tree. A node with Feature < 0 is
// a leaf and carries the class distribution observed at fit time; inner nodes
// route on vec[Feature] <= Threshold.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Dist      []float64
}

// Tree is a flattened decision tree; node 0 is the root.
type Tree struct {
	Nodes []TreeNode
}

// Forest is a fitted random-forest ensemble. Read-only after Load.
type Forest struct {
	NumClasses int
	Trees      []Tree
}

// Predict walks every tree and averages the leaf class distributions.
// It returns the winning class index and the full probability distribution,
// which sums to 1. Ties break deterministically to the lowest class index.
func (f *Forest) Predict(vec []float64) (int, []float64) {
	probs := make([]float64, f.NumClasses)
	for _, t := range f.Trees {
		leaf := t.walk(vec)
		for i, p := range leaf {
			probs[i] += p
		}
	}

	var total float64
	for _, p := range probs {
		total += p
	}
	if total > 0 {
		for i := range probs {
			probs[i] /= total
		}
	}

	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return best, probs
}

func (t Tree) walk(vec []float64) []float64 {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.Feature < 0 {
			return node.Dist
		}
		if vec[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

func (f *Forest) validate(dim int) error {
	if f.NumClasses <= 0 {
		return fmt.Errorf("forest: no classes")
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest: no trees")
	}
	for ti, t := range f.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("forest: tree %d is empty", ti)
		}
		for ni, n := range t.Nodes {
			if n.Feature < 0 {
				if len(n.Dist) != f.NumClasses {
					return fmt.Errorf("forest: tree %d leaf %d has %d classes, want %d", ti, ni, len(n.Dist), f.NumClasses)
				}
				continue
			}
			if n.Feature >= dim {
				return fmt.Errorf("forest: tree %d node %d splits on feature %d, vector dimension is %d", ti, ni, n.Feature, dim)
			}
			if n.Left <= ni || n.Left >= len(t.Nodes) || n.Right <= ni || n.Right >= len(t.Nodes) {
				return fmt.Errorf("forest: tree %d node %d has out-of-range children", ti, ni)
			}
		}
	}
	return nil
}
