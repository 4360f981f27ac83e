package ml

import (
	"errors"
	"fmt"
)

// TreeNode is one node of a flattened binary tree. Children always sit after
// their parent in the node slice, so a walk from the root terminates.
type TreeNode struct {
	FeatureIdx   int       `json:"feature_idx"`
	Threshold    float64   `json:"threshold"`
	LeftChild    int       `json:"left_child"`
	RightChild   int       `json:"right_child"`
	IsLeaf       bool      `json:"is_leaf"`
	Value        float64   `json:"value,omitempty"`
	Distribution []float64 `json:"distribution,omitempty"`
}

type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

func (t Tree) leaf(features []float64) (TreeNode, error) {
	if len(t.Nodes) == 0 {
		return TreeNode{}, errors.New("empty tree")
	}
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return TreeNode{}, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(t.Nodes) {
			return TreeNode{}, errors.New("invalid tree state")
		}
	}
}

// validate checks the node layout against the model's input width. When
// classes is non-zero every leaf must carry a distribution of that length.
func (t Tree) validate(numFeatures, classes int) error {
	if len(t.Nodes) == 0 {
		return errors.New("empty tree")
	}
	for i, node := range t.Nodes {
		if node.IsLeaf {
			if classes == 0 {
				continue
			}
			if len(node.Distribution) != classes {
				return fmt.Errorf("node %d: distribution has %d entries, want %d", i, len(node.Distribution), classes)
			}
			total := 0.0
			for _, w := range node.Distribution {
				if w < 0 {
					return fmt.Errorf("node %d: negative class weight", i)
				}
				total += w
			}
			if total == 0 {
				return fmt.Errorf("node %d: empty distribution", i)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= numFeatures {
			return fmt.Errorf("node %d: feature index %d out of range [0,%d)", i, node.FeatureIdx, numFeatures)
		}
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d: child index %d out of range", i, child)
			}
		}
	}
	return nil
}

// DecisionTree is a single classification tree whose leaves hold per-class
// sample weights.
type DecisionTree struct {
	tree        Tree
	classes     []int
	numFeatures int
}

func NewDecisionTree(nodes []TreeNode, classes []int, numFeatures int) (*DecisionTree, error) {
	if err := validateClasses(classes); err != nil {
		return nil, err
	}
	if numFeatures <= 0 {
		return nil, errors.New("n_features must be positive")
	}
	tree := Tree{Nodes: nodes}
	if err := tree.validate(numFeatures, len(classes)); err != nil {
		return nil, err
	}
	return &DecisionTree{tree: tree, classes: append([]int(nil), classes...), numFeatures: numFeatures}, nil
}

func (dt *DecisionTree) Classes() []int { return dt.classes }

func (dt *DecisionTree) NumFeatures() int { return dt.numFeatures }

func (dt *DecisionTree) PredictProba(features []float64) ([]float64, error) {
	if len(features) != dt.numFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", dt.numFeatures, len(features))
	}
	node, err := dt.tree.leaf(features)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, w := range node.Distribution {
		total += w
	}
	probs := make([]float64, len(node.Distribution))
	for i, w := range node.Distribution {
		probs[i] = w / total
	}
	return probs, nil
}

func validateClasses(classes []int) error {
	if len(classes) < 2 {
		return fmt.Errorf("need at least 2 classes, got %d", len(classes))
	}
	seen := make(map[int]bool, len(classes))
	for _, c := range classes {
		if seen[c] {
			return fmt.Errorf("duplicate class label %d", c)
		}
		seen[c] = true
	}
	return nil
}
