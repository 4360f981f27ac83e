// Package mltest writes small, hand-checkable artifacts for tests.
//
// The binary model reads 35 numeric columns plus a 3-wide one-hot token type
// (categories "", "Tether USD", "Maker") and sums two trees:
//
//	avg_min_between_sent_tnx <= 10 ? -2 : +2
//	token type == ""          ?  +1 :  0
//
// so an all-zero record with no token type scores sigmoid(-1).
package mltest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const BinaryModel = `{
  "model_type": "pipeline",
  "n_features": 38,
  "steps": [],
  "classifier": {
    "model_type": "gbdt",
    "objective": "binary",
    "classes": [0, 1],
    "trees": [
      {"nodes": [
        {"feature_idx": 0, "threshold": 10, "left_child": 1, "right_child": 2},
        {"is_leaf": true, "value": -2},
        {"is_leaf": true, "value": 2}
      ]},
      {"nodes": [
        {"feature_idx": 35, "threshold": 0.5, "left_child": 1, "right_child": 2},
        {"is_leaf": true, "value": 0},
        {"is_leaf": true, "value": 1}
      ]}
    ]
  }
}`

const OneHotEncoder = `{
  "encoder_type": "one_hot",
  "categories": ["", "Tether USD", "Maker"],
  "handle_unknown": "ignore"
}`

const StrictOneHotEncoder = `{
  "encoder_type": "one_hot",
  "categories": ["", "Tether USD", "Maker"],
  "handle_unknown": "error"
}`

// Expected rounded outputs of BinaryModel.
var (
	ZeroRecordProbs      = []float64{0.7311, 0.2689} // raw -1
	TetherZeroProbs      = []float64{0.8808, 0.1192} // raw -2
	HighSentIntervalProb = []float64{0.0474, 0.9526} // raw 3
)

// WriteFile writes content into dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// WriteArtifacts writes BinaryModel and the given encoder into a temp dir.
func WriteArtifacts(t testing.TB, encoder string) (modelPath, encoderPath string) {
	t.Helper()
	dir := t.TempDir()
	return WriteFile(t, dir, "lightgbm_predictor.json", BinaryModel),
		WriteFile(t, dir, "encoder.json", encoder)
}
