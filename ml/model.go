package ml

// Classifier is a trained model mapping one feature row to a probability
// distribution over Classes, in Classes order.
type Classifier interface {
	Classes() []int
	NumFeatures() int
	PredictProba(features []float64) ([]float64, error)
}

// Transformer is a fitted preprocessing step applied to a feature row before
// it reaches the classifier.
type Transformer interface {
	Transform(features []float64) ([]float64, error)
}

// Predict returns the label with the highest probability. Ties resolve to the
// class that comes first.
func Predict(c Classifier, features []float64) (int, []float64, error) {
	probs, err := c.PredictProba(features)
	if err != nil {
		return 0, nil, err
	}
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return c.Classes()[best], probs, nil
}
