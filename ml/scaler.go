package ml

import (
	"errors"
	"fmt"
)

// StandardScaler centres each column on its training mean and divides by its
// training scale. A zero scale leaves the centred value unscaled.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

func (s StandardScaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.Mean) || len(values) != len(s.Scale) {
		return nil, fmt.Errorf("standard scaler fitted on %d columns, got %d", len(s.Mean), len(values))
	}
	result := make([]float64, len(values))
	for i, v := range values {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		result[i] = (v - s.Mean[i]) / scale
	}
	return result, nil
}

// MinMaxScaler maps each column onto [0,1] using its training range.
type MinMaxScaler struct {
	Min []float64
	Max []float64
}

func (s MinMaxScaler) Transform(values []float64) ([]float64, error) {
	return NormalizeVector(values, s.Min, s.Max)
}

func NormalizeFeature(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	return (value - min) / (max - min)
}

func NormalizeVector(values []float64, mins []float64, maxs []float64) ([]float64, error) {
	if len(values) != len(mins) || len(values) != len(maxs) {
		return nil, errors.New("values/mins/maxs length mismatch")
	}
	result := make([]float64, len(values))
	for i := range values {
		result[i] = NormalizeFeature(values[i], mins[i], maxs[i])
	}
	return result, nil
}
