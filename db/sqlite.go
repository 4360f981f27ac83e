package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// PredictionRecord is one invocation's outcome as kept in the audit log.
type PredictionRecord struct {
	InputDigest   string
	Status        string
	Label         *int
	Probabilities []float64
	FailureKind   string
	Message       string
	CreatedAt     time.Time
}

// PredictionLog appends prediction outcomes to a SQLite file.
type PredictionLog struct {
	db *sql.DB
}

// OpenPredictionLog opens (creating if needed) the audit database at path.
func OpenPredictionLog(path string) (*PredictionLog, error) {
	if path == "" {
		return nil, errors.New("audit database path is empty")
	}
	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	if err := createPredictionTables(database); err != nil {
		return nil, multierr.Append(err, database.Close())
	}
	return &PredictionLog{db: database}, nil
}

func createPredictionTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			input_digest TEXT NOT NULL,
			status TEXT NOT NULL,
			predicted_label INTEGER,
			probabilities TEXT,
			failure_kind TEXT,
			message TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_digest ON predictions(input_digest)`,
	}
	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("create audit tables: %w", err)
		}
	}
	return nil
}

func (l *PredictionLog) Record(ctx context.Context, rec PredictionRecord) error {
	if rec.InputDigest == "" {
		return errors.New("input digest required")
	}
	if rec.Status != StatusSuccess && rec.Status != StatusFailure {
		return fmt.Errorf("unknown status %q", rec.Status)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var label sql.NullInt64
	if rec.Label != nil {
		label = sql.NullInt64{Int64: int64(*rec.Label), Valid: true}
	}
	var probs sql.NullString
	if rec.Probabilities != nil {
		payload, err := json.Marshal(rec.Probabilities)
		if err != nil {
			return err
		}
		probs = sql.NullString{String: string(payload), Valid: true}
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO predictions (
			input_digest, status, predicted_label, probabilities, failure_kind, message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.InputDigest, rec.Status, label, probs, rec.FailureKind, rec.Message, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (l *PredictionLog) Recent(ctx context.Context, limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT input_digest, status, predicted_label, probabilities, failure_kind, message, created_at
		FROM predictions
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PredictionRecord
	for rows.Next() {
		var (
			rec   PredictionRecord
			label sql.NullInt64
			probs sql.NullString
			kind  sql.NullString
			msg   sql.NullString
		)
		if err := rows.Scan(&rec.InputDigest, &rec.Status, &label, &probs, &kind, &msg, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if label.Valid {
			v := int(label.Int64)
			rec.Label = &v
		}
		if probs.Valid {
			if err := json.Unmarshal([]byte(probs.String), &rec.Probabilities); err != nil {
				return nil, fmt.Errorf("decode probabilities: %w", err)
			}
		}
		rec.FailureKind = kind.String
		rec.Message = msg.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (l *PredictionLog) Close() error {
	return l.db.Close()
}
