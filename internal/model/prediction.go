package model

// Prediction is the JSON body returned by GET /predict.
type Prediction struct {
	Prediction float64   `json:"prediction"`
	History    []float64 `json:"history"`
}
