package ml

import "math"

const probabilityDecimals = 4

type Prediction struct {
	Label         int       `json:"prediction"`
	Probabilities []float64 `json:"probabilities"`
}

// Predictor is the read-only facade the inference driver talks to.
type Predictor struct {
	classifier Classifier
}

func NewPredictor(classifier Classifier) *Predictor {
	return &Predictor{classifier: classifier}
}

func (p *Predictor) NumFeatures() int { return p.classifier.NumFeatures() }

// PredictAndProba returns the label and the class probabilities rounded to
// four decimals. Rounding is for display and does not renormalise.
func (p *Predictor) PredictAndProba(features []float64) (Prediction, error) {
	label, probs, err := Predict(p.classifier, features)
	if err != nil {
		return Prediction{}, err
	}
	rounded := make([]float64, len(probs))
	for i, v := range probs {
		rounded[i] = roundTo(v, probabilityDecimals)
	}
	return Prediction{Label: label, Probabilities: rounded}, nil
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
