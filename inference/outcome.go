package inference

import (
	"fmt"
	"strings"

	"walletscore/ml"
)

type FailureKind string

const (
	FailureValidation FailureKind = "validation"
	FailurePrediction FailureKind = "prediction"
)

// ValidationError lists every required numeric feature that is absent or not
// a JSON number.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required numeric features: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "non-numeric values for features: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Outcome is the result of one invocation: exactly one of Prediction and
// Failure is set.
type Outcome struct {
	Prediction *ml.Prediction
	Failure    *Failure
}

func (o Outcome) Succeeded() bool { return o.Failure == nil }

func success(p ml.Prediction) Outcome {
	return Outcome{Prediction: &p}
}

func failure(kind FailureKind, err error) Outcome {
	return Outcome{Failure: &Failure{Kind: kind, Err: err}}
}

// Fail wraps an error raised before the driver runs (config, artifact load)
// as a prediction failure.
func Fail(err error) Outcome {
	return failure(FailurePrediction, err)
}
