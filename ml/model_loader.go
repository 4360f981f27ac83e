package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
)

const (
	ModelTypePipeline     = "pipeline"
	ModelTypeGBDT         = "gbdt"
	ModelTypeDecisionTree = "decision_tree"

	EncoderTypeOneHot  = "one_hot"
	EncoderTypeOrdinal = "ordinal"
)

// LoadError reports an artifact that could not be read, decoded, or that
// lacks what inference needs from it.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load artifact %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type classifierArtifact struct {
	ModelType   string     `json:"model_type"`
	NumFeatures int        `json:"n_features"`
	Classes     []int      `json:"classes"`
	Objective   string     `json:"objective"`
	Sigmoid     float64    `json:"sigmoid"`
	InitScore   []float64  `json:"init_score"`
	Trees       []Tree     `json:"trees"`
	Nodes       []TreeNode `json:"nodes"`
}

type stepArtifact struct {
	Kind  string    `json:"kind"`
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
	Min   []float64 `json:"min"`
	Max   []float64 `json:"max"`
}

type pipelineArtifact struct {
	ModelType   string              `json:"model_type"`
	NumFeatures int                 `json:"n_features"`
	Steps       []stepArtifact      `json:"steps"`
	Classifier  *classifierArtifact `json:"classifier"`
}

type encoderArtifact struct {
	EncoderType   string   `json:"encoder_type"`
	Categories    []string `json:"categories"`
	HandleUnknown string   `json:"handle_unknown"`
	UnknownValue  *float64 `json:"unknown_value"`
}

// LoadModel reads a classifier artifact and checks that it declares modelType.
func LoadModel(modelType, path string) (Classifier, error) {
	switch modelType {
	case ModelTypePipeline, ModelTypeGBDT, ModelTypeDecisionTree:
	default:
		return nil, &LoadError{Path: path, Err: fmt.Errorf("unsupported model type %q", modelType)}
	}
	var raw json.RawMessage
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	var header struct {
		ModelType string `json:"model_type"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if header.ModelType != modelType {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("artifact declares model_type %q, want %q", header.ModelType, modelType)}
	}
	pipeline, err := decodePipeline(raw)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return pipeline, nil
}

// LoadPipeline reads a pipeline artifact. A bare gbdt or decision_tree
// artifact is accepted and wrapped in a pipeline without steps.
func LoadPipeline(path string) (*Pipeline, error) {
	var raw json.RawMessage
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	pipeline, err := decodePipeline(raw)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return pipeline, nil
}

func decodePipeline(raw json.RawMessage) (*Pipeline, error) {
	var art pipelineArtifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, err
	}

	switch art.ModelType {
	case ModelTypeGBDT, ModelTypeDecisionTree:
		var bare classifierArtifact
		if err := json.Unmarshal(raw, &bare); err != nil {
			return nil, err
		}
		classifier, err := buildClassifier(bare)
		if err != nil {
			return nil, err
		}
		return NewPipeline(classifier.NumFeatures(), classifier)
	case ModelTypePipeline:
	case "":
		return nil, errors.New("missing model_type")
	default:
		return nil, fmt.Errorf("unsupported model_type %q", art.ModelType)
	}

	if art.Classifier == nil {
		return nil, errors.New("pipeline has no classifier")
	}
	if art.Classifier.NumFeatures == 0 {
		art.Classifier.NumFeatures = art.NumFeatures
	}
	classifier, err := buildClassifier(*art.Classifier)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	steps := make([]Transformer, 0, len(art.Steps))
	for i, s := range art.Steps {
		step, err := buildStep(s, art.NumFeatures)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	return NewPipeline(art.NumFeatures, classifier, steps...)
}

func buildClassifier(art classifierArtifact) (Classifier, error) {
	switch art.ModelType {
	case ModelTypeGBDT:
		return NewBoostedEnsemble(EnsembleParams{
			Objective:   art.Objective,
			Sigmoid:     art.Sigmoid,
			Classes:     art.Classes,
			InitScore:   art.InitScore,
			Trees:       art.Trees,
			NumFeatures: art.NumFeatures,
		})
	case ModelTypeDecisionTree:
		return NewDecisionTree(art.Nodes, art.Classes, art.NumFeatures)
	default:
		return nil, fmt.Errorf("unsupported classifier type %q", art.ModelType)
	}
}

func buildStep(s stepArtifact, width int) (Transformer, error) {
	switch s.Kind {
	case "standard_scaler":
		if len(s.Mean) != width || len(s.Scale) != width {
			return nil, fmt.Errorf("standard_scaler: mean/scale must have %d entries", width)
		}
		return StandardScaler{Mean: s.Mean, Scale: s.Scale}, nil
	case "minmax_scaler":
		if len(s.Min) != width || len(s.Max) != width {
			return nil, fmt.Errorf("minmax_scaler: min/max must have %d entries", width)
		}
		return MinMaxScaler{Min: s.Min, Max: s.Max}, nil
	default:
		return nil, fmt.Errorf("unsupported step %q", s.Kind)
	}
}

func LoadEncoder(path string) (Encoder, error) {
	var art encoderArtifact
	if err := readJSON(path, &art); err != nil {
		return nil, err
	}
	var (
		enc Encoder
		err error
	)
	switch art.EncoderType {
	case EncoderTypeOneHot:
		enc, err = NewOneHotEncoder(art.Categories, art.HandleUnknown)
	case EncoderTypeOrdinal:
		enc, err = NewOrdinalEncoder(art.Categories, art.HandleUnknown, art.UnknownValue)
	default:
		err = fmt.Errorf("unsupported encoder_type %q", art.EncoderType)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return enc, nil
}

// Artifacts holds the two trained objects one invocation needs. Both are
// read-only once loaded.
type Artifacts struct {
	Pipeline *Pipeline
	Encoder  Encoder
}

// LoadArtifacts loads the pipeline and the encoder, reporting both failures
// when both files are bad, and checks that the numeric record plus the
// encoder output matches the pipeline's input width.
func LoadArtifacts(modelPath, encoderPath string) (*Artifacts, error) {
	pipeline, pipelineErr := LoadPipeline(modelPath)
	encoder, encoderErr := LoadEncoder(encoderPath)
	if err := multierr.Combine(pipelineErr, encoderErr); err != nil {
		return nil, err
	}
	if want := NumericFeatureCount() + encoder.Width(); pipeline.NumFeatures() != want {
		return nil, &LoadError{
			Path: modelPath,
			Err: fmt.Errorf("pipeline expects %d features but %d numeric + %d encoded = %d",
				pipeline.NumFeatures(), NumericFeatureCount(), encoder.Width(), want),
		}
	}
	return &Artifacts{Pipeline: pipeline, Encoder: encoder}, nil
}

func readJSON(path string, v interface{}) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	return nil
}
