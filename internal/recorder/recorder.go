package recorder

import "time"

// PredictionRecord is one GET /predict attempt, successful or not.
type PredictionRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Window      int       `json:"window"`
	InputSteps  int       `json:"input_steps"`
	Prediction  float64   `json:"prediction"`
	LastClose   float64   `json:"last_close"`
	BaselineSMA float64   `json:"baseline_sma"`
	LatencyMs   float64   `json:"latency_ms"`
	Error       string    `json:"error,omitempty"`
}

// Recorder persists prediction history for later analysis.
type Recorder interface {
	RecordPrediction(rec *PredictionRecord) error
	Recent(limit int) ([]PredictionRecord, error)
	Close() error
}
