package ml

import "fmt"

// Pipeline chains fitted preprocessing steps in front of a classifier. It is
// itself a Classifier, so callers never see the intermediate rows.
type Pipeline struct {
	steps       []Transformer
	classifier  Classifier
	numFeatures int
}

func NewPipeline(numFeatures int, classifier Classifier, steps ...Transformer) (*Pipeline, error) {
	if classifier == nil {
		return nil, fmt.Errorf("pipeline has no classifier")
	}
	if numFeatures != classifier.NumFeatures() {
		return nil, fmt.Errorf("pipeline declares %d features, classifier expects %d", numFeatures, classifier.NumFeatures())
	}
	return &Pipeline{steps: steps, classifier: classifier, numFeatures: numFeatures}, nil
}

func (p *Pipeline) Classes() []int { return p.classifier.Classes() }

func (p *Pipeline) NumFeatures() int { return p.numFeatures }

func (p *Pipeline) PredictProba(features []float64) ([]float64, error) {
	if len(features) != p.numFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", p.numFeatures, len(features))
	}
	row := features
	for i, step := range p.steps {
		next, err := step.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		row = next
	}
	return p.classifier.PredictProba(row)
}
