// Command walletscore classifies one Ethereum wallet feature record read as
// JSON from stdin and writes the prediction, or a failure object, to stdout.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"walletscore/config"
	"walletscore/db"
	"walletscore/inference"
	"walletscore/logger"
	"walletscore/ml"
)

func main() {
	os.Exit(run(context.Background(), config.Locate(), os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, configPath string, stdin io.Reader, stdout, stderr io.Writer) int {
	// 1. Load config; the logger depends on it, so failures here are reported
	// on a logger built from defaults.
	cfg, cfgErr := config.Load(configPath)
	logCfg := logger.DefaultConfig()
	if cfgErr == nil {
		logCfg = cfg.Log
	}
	log, cleanup, err := logger.New(logCfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return emit(stdout, zap.NewNop(), inference.Fail(err))
	}
	defer cleanup()
	if cfgErr != nil {
		return emit(stdout, log, inference.Fail(fmt.Errorf("load config: %w", cfgErr)))
	}

	// 2. Load artifacts
	artifacts, err := ml.LoadArtifacts(cfg.Artifacts.ModelPath, cfg.Artifacts.EncoderPath)
	if err != nil {
		return emit(stdout, log, inference.Fail(err))
	}
	log.Debug("artifacts loaded",
		zap.String("model_path", cfg.Artifacts.ModelPath),
		zap.String("encoder_path", cfg.Artifacts.EncoderPath),
		zap.Int("features", artifacts.Pipeline.NumFeatures()),
		zap.Ints("classes", artifacts.Pipeline.Classes()))

	// 3. Optional audit log
	var opts []inference.Option
	if cfg.Audit.DBPath != "" {
		predictionLog, err := db.OpenPredictionLog(cfg.Audit.DBPath)
		if err != nil {
			log.Warn("audit log disabled", zap.Error(err))
		} else {
			defer func() {
				if err := predictionLog.Close(); err != nil {
					log.Warn("close audit log", zap.Error(err))
				}
			}()
			opts = append(opts, inference.WithRecorder(predictionLog))
		}
	}

	// 4. Predict
	driver, err := inference.NewDriverFromArtifacts(artifacts, log, opts...)
	if err != nil {
		return emit(stdout, log, inference.Fail(err))
	}
	return emit(stdout, log, driver.Run(ctx, stdin))
}

// emit writes the outcome to stdout and returns the exit status. Failures are
// logged with their full cause chain on the diagnostic stream.
func emit(stdout io.Writer, log *zap.Logger, out inference.Outcome) int {
	if !out.Succeeded() {
		fields := []zap.Field{zap.String("kind", string(out.Failure.Kind)), zap.Error(out.Failure.Err)}
		if causes := multierr.Errors(out.Failure.Err); len(causes) > 1 {
			fields = append(fields, zap.Errors("causes", causes))
		}
		log.Error("prediction failed", fields...)
	}
	if err := inference.WriteOutcome(stdout, out); err != nil {
		log.Error("write result", zap.Error(err))
		return 1
	}
	return inference.ExitCode(out)
}
