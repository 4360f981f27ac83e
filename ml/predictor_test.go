package ml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletscore/ml"
	"walletscore/ml/mltest"
)

func loadFixture(t *testing.T) *ml.Artifacts {
	t.Helper()
	modelPath, encoderPath := mltest.WriteArtifacts(t, mltest.OneHotEncoder)
	artifacts, err := ml.LoadArtifacts(modelPath, encoderPath)
	require.NoError(t, err)
	return artifacts
}

func zeroRecord() ml.WalletFeatures {
	numeric := make(map[string]float64, ml.NumericFeatureCount())
	for _, name := range ml.FeatureNames() {
		numeric[name] = 0
	}
	return ml.WalletFeatures{Numeric: numeric}
}

func TestPredictAndProbaRoundsToFourDecimals(t *testing.T) {
	artifacts := loadFixture(t)
	predictor := ml.NewPredictor(artifacts.Pipeline)

	row, err := ml.EncodeFeatures(zeroRecord(), artifacts.Encoder)
	require.NoError(t, err)
	require.Len(t, row, predictor.NumFeatures())

	prediction, err := predictor.PredictAndProba(row)
	require.NoError(t, err)
	assert.Equal(t, 0, prediction.Label)
	assert.InDeltaSlice(t, mltest.ZeroRecordProbs, prediction.Probabilities, 1e-12)
}

func TestPredictAndProbaTokenTypeAndNumericColumns(t *testing.T) {
	artifacts := loadFixture(t)
	predictor := ml.NewPredictor(artifacts.Pipeline)

	record := zeroRecord()
	record.TokenType = "Tether USD"
	row, err := ml.EncodeFeatures(record, artifacts.Encoder)
	require.NoError(t, err)
	prediction, err := predictor.PredictAndProba(row)
	require.NoError(t, err)
	assert.InDeltaSlice(t, mltest.TetherZeroProbs, prediction.Probabilities, 1e-12)

	record = zeroRecord()
	record.Numeric["avg_min_between_sent_tnx"] = 100
	row, err = ml.EncodeFeatures(record, artifacts.Encoder)
	require.NoError(t, err)
	prediction, err = predictor.PredictAndProba(row)
	require.NoError(t, err)
	assert.Equal(t, 1, prediction.Label)
	assert.InDeltaSlice(t, mltest.HighSentIntervalProb, prediction.Probabilities, 1e-12)
}

func TestFeatureVectorOrder(t *testing.T) {
	names := ml.FeatureNames()
	require.Len(t, names, 35)
	assert.Equal(t, "avg_min_between_sent_tnx", names[0])
	assert.Equal(t, "erc20_uniq_rec_token_name", names[len(names)-1])

	record := zeroRecord()
	for i, name := range names {
		record.Numeric[name] = float64(i)
	}
	vector := ml.FeatureVector(record)
	for i := range vector {
		assert.Equal(t, float64(i), vector[i])
	}

	names[0] = "mutated"
	assert.Equal(t, "avg_min_between_sent_tnx", ml.FeatureNames()[0])
}
