package ml

import (
	"errors"
	"fmt"
	"math"
)

const (
	ObjectiveBinary     = "binary"
	ObjectiveMulticlass = "multiclass"
)

// BoostedEnsemble scores a row the way LightGBM does: leaf values are summed
// per class (tree i belongs to class i mod k) on top of the initial score, then
// squashed with a sigmoid for binary or a softmax for multiclass objectives.
type BoostedEnsemble struct {
	objective   string
	sigmoid     float64
	classes     []int
	initScore   []float64
	trees       []Tree
	numFeatures int
}

type EnsembleParams struct {
	Objective   string
	Sigmoid     float64
	Classes     []int
	InitScore   []float64
	Trees       []Tree
	NumFeatures int
}

func NewBoostedEnsemble(p EnsembleParams) (*BoostedEnsemble, error) {
	if err := validateClasses(p.Classes); err != nil {
		return nil, err
	}
	if p.NumFeatures <= 0 {
		return nil, errors.New("n_features must be positive")
	}
	if len(p.Trees) == 0 {
		return nil, errors.New("ensemble has no trees")
	}

	var outputs int
	switch p.Objective {
	case ObjectiveBinary:
		if len(p.Classes) != 2 {
			return nil, fmt.Errorf("binary objective needs 2 classes, got %d", len(p.Classes))
		}
		outputs = 1
	case ObjectiveMulticlass:
		outputs = len(p.Classes)
		if len(p.Trees)%outputs != 0 {
			return nil, fmt.Errorf("%d trees do not divide evenly across %d classes", len(p.Trees), outputs)
		}
	default:
		return nil, fmt.Errorf("unsupported objective %q", p.Objective)
	}

	initScore := make([]float64, outputs)
	if len(p.InitScore) > 0 {
		if len(p.InitScore) != outputs {
			return nil, fmt.Errorf("init_score has %d entries, want %d", len(p.InitScore), outputs)
		}
		copy(initScore, p.InitScore)
	}
	sigmoid := p.Sigmoid
	if sigmoid == 0 {
		sigmoid = 1
	}
	for i, tree := range p.Trees {
		if err := tree.validate(p.NumFeatures, 0); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}

	return &BoostedEnsemble{
		objective:   p.Objective,
		sigmoid:     sigmoid,
		classes:     append([]int(nil), p.Classes...),
		initScore:   initScore,
		trees:       p.Trees,
		numFeatures: p.NumFeatures,
	}, nil
}

func (e *BoostedEnsemble) Classes() []int { return e.classes }

func (e *BoostedEnsemble) NumFeatures() int { return e.numFeatures }

func (e *BoostedEnsemble) PredictProba(features []float64) ([]float64, error) {
	if len(features) != e.numFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", e.numFeatures, len(features))
	}
	raw := append([]float64(nil), e.initScore...)
	for i, tree := range e.trees {
		node, err := tree.leaf(features)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		raw[i%len(raw)] += node.Value
	}

	if e.objective == ObjectiveBinary {
		p := 1 / (1 + math.Exp(-e.sigmoid*raw[0]))
		return []float64{1 - p, p}, nil
	}
	return softmax(raw), nil
}

func softmax(raw []float64) []float64 {
	maxRaw := math.Inf(-1)
	for _, v := range raw {
		if v > maxRaw {
			maxRaw = v
		}
	}
	out := make([]float64, len(raw))
	sum := 0.0
	for i, v := range raw {
		out[i] = math.Exp(v - maxRaw)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
