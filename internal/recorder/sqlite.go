package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists prediction records to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets /predictions read while requests write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			window_size  INTEGER,
			input_steps  INTEGER,
			prediction   REAL,
			last_close   REAL,
			baseline_sma REAL,
			latency_ms   REAL,
			error        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ts ON predictions(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPrediction(rec *PredictionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO predictions
		(id, timestamp, window_size, input_steps, prediction, last_close, baseline_sma, latency_ms, error)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.ID, ts.UnixMilli(), rec.Window, rec.InputSteps,
		rec.Prediction, rec.LastClose, rec.BaselineSMA, rec.LatencyMs, rec.Error,
	)
	return err
}

// Recent returns up to limit records, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]PredictionRecord, error) {
	rows, err := r.db.Query(`SELECT id, timestamp, window_size, input_steps, prediction,
		last_close, baseline_sma, latency_ms, error
		FROM predictions ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var out []PredictionRecord
	for rows.Next() {
		var (
			rec PredictionRecord
			ts  int64
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Window, &rec.InputSteps, &rec.Prediction,
			&rec.LastClose, &rec.BaselineSMA, &rec.LatencyMs, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
