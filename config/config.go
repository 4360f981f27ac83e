package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"walletscore/logger"
)

const (
	FileName = "config.yaml"

	DefaultModelPath   = "lightgbm_predictor.json"
	DefaultEncoderPath = "encoder.json"
)

type Config struct {
	Artifacts struct {
		ModelPath   string `yaml:"model_path"`
		EncoderPath string `yaml:"encoder_path"`
	} `yaml:"artifacts"`
	Log   logger.Config `yaml:"log"`
	Audit struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"audit"`
}

func Default() *Config {
	cfg := &Config{Log: logger.DefaultConfig()}
	cfg.Artifacts.ModelPath = DefaultModelPath
	cfg.Artifacts.EncoderPath = DefaultEncoderPath
	return cfg
}

// Locate returns config.yaml in the working directory, falling back to the
// parent directory so the binary also finds it when run from cmd/.
func Locate() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	parent := filepath.Join("..", FileName)
	if _, err := os.Stat(parent); err == nil {
		return parent
	}
	return FileName
}

// Load reads path over the defaults. A missing file yields the defaults.
// Relative paths inside the file resolve against the file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	base := filepath.Dir(path)
	cfg.Artifacts.ModelPath = resolve(base, cfg.Artifacts.ModelPath)
	cfg.Artifacts.EncoderPath = resolve(base, cfg.Artifacts.EncoderPath)
	cfg.Audit.DBPath = resolve(base, cfg.Audit.DBPath)
	cfg.Log.File = resolve(base, cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Artifacts.ModelPath == "" {
		return errors.New("artifacts.model_path is empty")
	}
	if c.Artifacts.EncoderPath == "" {
		return errors.New("artifacts.encoder_path is empty")
	}
	return c.Log.Validate()
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
