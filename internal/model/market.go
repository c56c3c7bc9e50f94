package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// CloseColumn is the 0-based CSV column holding the close price.
const CloseColumn = 4
