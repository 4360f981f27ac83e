package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, DefaultModelPath, cfg.Artifacts.ModelPath)
	assert.Equal(t, DefaultEncoderPath, cfg.Artifacts.EncoderPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Audit.DBPath)
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), DefaultModelPath), cfg.Artifacts.ModelPath)
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	path := writeConfig(t, `
artifacts:
  model_path: models/lightgbm_predictor.json
  encoder_path: /opt/walletscore/encoder.json
log:
  level: debug
  format: json
audit:
  db_path: data/predictions.db
`)
	dir := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "models/lightgbm_predictor.json"), cfg.Artifacts.ModelPath)
	assert.Equal(t, "/opt/walletscore/encoder.json", cfg.Artifacts.EncoderPath)
	assert.Equal(t, filepath.Join(dir, "data/predictions.db"), cfg.Audit.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 50, cfg.Log.MaxSizeMB)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "artifacts: [unterminated"},
		{"bad level", "log:\n  level: shouting\n"},
		{"empty model path", "artifacts:\n  model_path: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
