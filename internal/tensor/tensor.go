// Package tensor shapes a price window into the model's input layout.
package tensor

import (
	"errors"
	"slices"
)

// MaxSteps is the number of time steps the exported LSTM was trained on.
const MaxSteps = 10

// Input is a (batch, steps, features) float32 buffer ready for inference.
type Input struct {
	Shape []int64
	Data  []float32
}

// Steps returns the time-step dimension of the input.
func (in Input) Steps() int {
	if len(in.Shape) < 2 {
		return 0
	}
	return int(in.Shape[1])
}

// Build converts window into a (1, N, 1) input. Windows longer than
// MaxSteps keep only the newest MaxSteps values, oldest first.
func Build(window []float64) (Input, error) {
	if len(window) == 0 {
		return Input{}, errors.New("tensor: empty window")
	}

	vals := window
	if len(window) > MaxSteps {
		// newest first, then back to chronological order
		vals = make([]float64, 0, MaxSteps)
		for i := 0; i < MaxSteps; i++ {
			vals = append(vals, window[len(window)-1-i])
		}
		slices.Reverse(vals)
	}

	data := make([]float32, len(vals))
	for i, v := range vals {
		data[i] = float32(v)
	}
	return Input{
		Shape: []int64{1, int64(len(data)), 1},
		Data:  data,
	}, nil
}
