package recorder

// NoopRecorder is used when SQLite is not configured or failed to open.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPrediction(_ *PredictionRecord) error { return nil }
func (n *NoopRecorder) Recent(_ int) ([]PredictionRecord, error)  { return nil, nil }
func (n *NoopRecorder) Close() error                              { return nil }
