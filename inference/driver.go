package inference

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"walletscore/db"
	"walletscore/ml"
)

// Recorder receives every outcome for auditing. Recording errors are logged
// and never change the outcome.
type Recorder interface {
	Record(ctx context.Context, rec db.PredictionRecord) error
}

// Driver runs one inference request against artifacts loaded by the caller.
type Driver struct {
	predictor *ml.Predictor
	encoder   ml.Encoder
	log       *zap.Logger
	recorder  Recorder
}

type Option func(*Driver)

func WithRecorder(r Recorder) Option {
	return func(d *Driver) { d.recorder = r }
}

func NewDriver(predictor *ml.Predictor, encoder ml.Encoder, log *zap.Logger, opts ...Option) (*Driver, error) {
	if predictor == nil || encoder == nil {
		return nil, errors.New("driver needs a predictor and an encoder")
	}
	if want := ml.NumericFeatureCount() + encoder.Width(); predictor.NumFeatures() != want {
		return nil, fmt.Errorf("predictor expects %d features, encoder produces rows of %d", predictor.NumFeatures(), want)
	}
	if log == nil {
		log = zap.NewNop()
	}
	d := &Driver{predictor: predictor, encoder: encoder, log: log}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// NewDriverFromArtifacts wires a driver around loaded artifacts.
func NewDriverFromArtifacts(a *ml.Artifacts, log *zap.Logger, opts ...Option) (*Driver, error) {
	return NewDriver(ml.NewPredictor(a.Pipeline), a.Encoder, log, opts...)
}

// Run reads one JSON object from input and classifies it.
func (d *Driver) Run(ctx context.Context, input io.Reader) Outcome {
	start := time.Now()
	payload, err := io.ReadAll(input)
	if err != nil {
		return d.finish(ctx, "", failure(FailurePrediction, fmt.Errorf("read input: %w", err)), start)
	}
	sum := sha256.Sum256(payload)
	digest := hex.EncodeToString(sum[:])

	record, err := ParseRecord(bytes.NewReader(payload))
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return d.finish(ctx, digest, failure(FailureValidation, err), start)
		}
		return d.finish(ctx, digest, failure(FailurePrediction, err), start)
	}

	prediction, err := d.Predict(record)
	if err != nil {
		return d.finish(ctx, digest, failure(FailurePrediction, err), start)
	}
	return d.finish(ctx, digest, success(prediction), start)
}

// Predict encodes a validated record and runs the predictor on it.
func (d *Driver) Predict(record ml.WalletFeatures) (ml.Prediction, error) {
	if !d.encoder.Known(record.TokenType) {
		d.log.Warn("token type not seen in training", zap.String("token_type", record.TokenType))
	}
	row, err := ml.EncodeFeatures(record, d.encoder)
	if err != nil {
		return ml.Prediction{}, fmt.Errorf("encode %s: %w", ml.TokenTypeFeature, err)
	}
	prediction, err := d.predictor.PredictAndProba(row)
	if err != nil {
		return ml.Prediction{}, fmt.Errorf("predict: %w", err)
	}
	return prediction, nil
}

func (d *Driver) finish(ctx context.Context, digest string, out Outcome, start time.Time) Outcome {
	elapsed := zap.Duration("elapsed", time.Since(start))
	if out.Succeeded() {
		d.log.Info("prediction complete",
			zap.Int("label", out.Prediction.Label),
			zap.Float64s("probabilities", out.Prediction.Probabilities),
			elapsed)
	}
	if d.recorder == nil || digest == "" {
		return out
	}
	if err := d.recorder.Record(ctx, auditRecord(digest, out)); err != nil {
		d.log.Warn("audit record failed", zap.Error(err))
	}
	return out
}

func auditRecord(digest string, out Outcome) db.PredictionRecord {
	rec := db.PredictionRecord{InputDigest: digest, CreatedAt: time.Now().UTC()}
	if out.Succeeded() {
		label := out.Prediction.Label
		rec.Status = db.StatusSuccess
		rec.Label = &label
		rec.Probabilities = out.Prediction.Probabilities
		return rec
	}
	rec.Status = db.StatusFailure
	rec.FailureKind = string(out.Failure.Kind)
	rec.Message = out.Failure.Err.Error()
	return rec
}
