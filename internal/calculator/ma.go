package calculator

import "errors"

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateSMA32 is CalculateSMA over a model input buffer.
func CalculateSMA32(values []float32) (float64, error) {
	prices := make([]float64, len(values))
	for i, v := range values {
		prices[i] = float64(v)
	}
	return CalculateSMA(prices, len(prices))
}
