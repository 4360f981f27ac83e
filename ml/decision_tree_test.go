package ml

import (
	"math"
	"testing"
)

func TestDecisionTreePredictProba(t *testing.T) {
	nodes := []TreeNode{
		{FeatureIdx: 0, Threshold: 0.5, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, Distribution: []float64{8, 2}},
		{IsLeaf: true, Distribution: []float64{1, 3}},
	}
	model, err := NewDecisionTree(nodes, []int{0, 1}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	label, probs, err := Predict(model, []float64{0.15, 0.15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected label 0, got %d", label)
	}
	if math.Abs(probs[0]-0.8) > 1e-9 || math.Abs(probs[1]-0.2) > 1e-9 {
		t.Fatalf("unexpected probabilities: %v", probs)
	}

	label, probs, err = Predict(model, []float64{0.9, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 1 || math.Abs(probs[1]-0.75) > 1e-9 {
		t.Fatalf("expected label 1 with p=0.75, got %d %v", label, probs)
	}
}

func TestDecisionTreeRejectsBadLayout(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []TreeNode
		classes []int
	}{
		{
			name:    "empty",
			nodes:   nil,
			classes: []int{0, 1},
		},
		{
			name: "child points backwards",
			nodes: []TreeNode{
				{FeatureIdx: 0, LeftChild: 0, RightChild: 1},
				{IsLeaf: true, Distribution: []float64{1, 1}},
			},
			classes: []int{0, 1},
		},
		{
			name: "feature out of range",
			nodes: []TreeNode{
				{FeatureIdx: 7, LeftChild: 1, RightChild: 2},
				{IsLeaf: true, Distribution: []float64{1, 1}},
				{IsLeaf: true, Distribution: []float64{1, 1}},
			},
			classes: []int{0, 1},
		},
		{
			name:    "distribution width",
			nodes:   []TreeNode{{IsLeaf: true, Distribution: []float64{1}}},
			classes: []int{0, 1},
		},
		{
			name:    "single class",
			nodes:   []TreeNode{{IsLeaf: true, Distribution: []float64{1}}},
			classes: []int{0},
		},
		{
			name:    "duplicate class",
			nodes:   []TreeNode{{IsLeaf: true, Distribution: []float64{1, 1}}},
			classes: []int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDecisionTree(tt.nodes, tt.classes, 2); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDecisionTreeFeatureCountMismatch(t *testing.T) {
	model, err := NewDecisionTree([]TreeNode{{IsLeaf: true, Distribution: []float64{1, 1}}}, []int{0, 1}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := model.PredictProba([]float64{1, 2}); err == nil {
		t.Fatal("expected error for short row")
	}
}
