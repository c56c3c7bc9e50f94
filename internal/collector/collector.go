// Package collector keeps the price CSV up to date from a market data source.
package collector

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Collector refreshes one symbol's CSV from a Fetcher.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	CSVPath string
	Days    int
	Log     *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol, csvPath string, days int, log *zap.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, CSVPath: csvPath, Days: days, Log: log}
}

// Refresh fetches the latest daily bars and rewrites the CSV. It returns the
// number of rows written.
func (c *Collector) Refresh(ctx context.Context) (int, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, c.Symbol, c.Days)
	if err != nil {
		return 0, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("no data for %s", c.Symbol)
	}
	if err := WriteCSV(c.CSVPath, bars); err != nil {
		return 0, fmt.Errorf("write %s: %w", c.CSVPath, err)
	}
	c.Log.Info("price data refreshed",
		zap.String("source", c.Fetcher.Name()),
		zap.String("symbol", c.Symbol),
		zap.Int("rows", len(bars)),
		zap.String("path", c.CSVPath),
	)
	return len(bars), nil
}
