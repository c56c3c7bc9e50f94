// Package predictor runs the load, shape and infer pipeline for one request.
package predictor

import (
	"fmt"
	"math"
	"strconv"

	"StockPredictor/internal/inference"
	"StockPredictor/internal/loader"
	"StockPredictor/internal/tensor"
)

// Result is the outcome of one prediction.
type Result struct {
	Prediction float64
	History    []float64    // full loaded window, oldest first
	Input      tensor.Input // what the model actually saw
}

// Predictor holds the process-wide, read-only state shared by requests.
type Predictor struct {
	CSVPath string
	Window  int
	Runner  inference.Runner
}

// New creates a Predictor.
func New(csvPath string, window int, runner inference.Runner) *Predictor {
	return &Predictor{CSVPath: csvPath, Window: window, Runner: runner}
}

// Predict reads the file, builds the model input and runs inference. Any
// failure aborts the whole pipeline.
func (p *Predictor) Predict() (*Result, error) {
	history, err := loader.LoadCloses(p.CSVPath, p.Window)
	if err != nil {
		return nil, err
	}

	in, err := tensor.Build(history)
	if err != nil {
		return nil, fmt.Errorf("build input: %w", err)
	}

	if p.Runner == nil {
		return nil, &inference.InferenceError{Op: "run", Err: inference.ErrNotInitialized}
	}
	out, err := p.Runner.Run(in)
	if err != nil {
		return nil, err
	}
	pred := widen(out)
	if math.IsNaN(pred) || math.IsInf(pred, 0) {
		return nil, &inference.InferenceError{Op: "run", Err: fmt.Errorf("non-finite prediction %v", pred)}
	}

	return &Result{
		Prediction: pred,
		History:    history,
		Input:      in,
	}, nil
}

// widen converts a model output to float64 through its shortest float32
// decimal form, so 187.43f encodes as 187.43 rather than 187.42999267578125.
func widen(v float32) float64 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return float64(v)
	}
	f, err := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'g', -1, 32), 64)
	if err != nil {
		return float64(v)
	}
	return f
}
