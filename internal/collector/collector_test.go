package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"StockPredictor/internal/loader"
	"StockPredictor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockFetcher returns controllable fixed data.
type mockFetcher struct {
	bars []model.OHLCV
	err  error
}

func (m *mockFetcher) Name() string { return "mock" }

func (m *mockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.OHLCV, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.bars) > days {
		return m.bars[len(m.bars)-days:], nil
	}
	return m.bars, nil
}

func mockBars(count int) []model.OHLCV {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, count)
	for i := range bars {
		p := float64(100 + i)
		bars[i] = model.OHLCV{
			Time:     start.AddDate(0, 0, i),
			Open:     p - 0.5,
			High:     p + 1,
			Low:      p - 1,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		}
	}
	return bars
}

func TestWriteCSV_ReadableByLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "AAPL.csv")
	require.NoError(t, WriteCSV(path, mockBars(15)))

	closes, err := loader.LoadCloses(path, 15)
	require.NoError(t, err)
	assert.Equal(t, 100.0, closes[0])
	assert.Equal(t, 114.0, closes[14])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date,Open,High,Low,Close,Adj Close,Volume\n2024-03-01,"))
}

func TestWriteCSV_ReplacesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prices.csv")
	require.NoError(t, WriteCSV(path, mockBars(5)))
	require.NoError(t, WriteCSV(path, mockBars(3)))

	closes, err := loader.LoadCloses(path, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 101, 102}, closes)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteCSV_Empty(t *testing.T) {
	assert.Error(t, WriteCSV(filepath.Join(t.TempDir(), "x.csv"), nil))
}

func TestCollector_Refresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	c := NewCollector(&mockFetcher{bars: mockBars(80)}, "AAPL", path, 60, zap.NewNop())

	n, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60, n)

	closes, err := loader.LoadCloses(path, 60)
	require.NoError(t, err)
	assert.Equal(t, 179.0, closes[59])
}

func TestCollector_RefreshErrorKeepsOldFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, WriteCSV(path, mockBars(5)))

	c := NewCollector(&mockFetcher{err: errors.New("offline")}, "AAPL", path, 60, zap.NewNop())
	_, err := c.Refresh(context.Background())
	assert.ErrorContains(t, err, "offline")

	c = NewCollector(&mockFetcher{}, "AAPL", path, 60, zap.NewNop())
	_, err = c.Refresh(context.Background())
	assert.ErrorContains(t, err, "no data")

	closes, err := loader.LoadCloses(path, 5)
	require.NoError(t, err)
	assert.Len(t, closes, 5)
}

const chartJSON = `{"chart":{"result":[{"timestamp":[1709856000,1709596800,1709683200],
"indicators":{"quote":[{"open":[3,1,null],"high":[3.5,1.5,null],"low":[2.5,0.5,null],"close":[3.2,1.2,null],"volume":[300,100,null]}],
"adjclose":[{"adjclose":[3.1,1.1,null]}]}}],"error":null}}`

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL + "/chart/"

	bars, err := f.FetchDailyBars(context.Background(), "^GSPC", 60)
	require.NoError(t, err)

	assert.Equal(t, "/chart/^GSPC", gotPath)
	assert.Equal(t, "interval=1d&range=3mo", gotQuery)
	require.Len(t, bars, 2, "null bar skipped")
	assert.Equal(t, 1.2, bars[0].Close, "sorted chronologically")
	assert.Equal(t, 1.1, bars[0].AdjClose)
	assert.Equal(t, 3.2, bars[1].Close)
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL + "/"

	_, err := f.FetchDailyBars(context.Background(), "NOPE", 30)
	assert.ErrorContains(t, err, "symbol may be delisted")
}

func TestYahooFetcher_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL + "/"

	_, err := f.FetchDailyBars(context.Background(), "AAPL", 30)
	assert.ErrorContains(t, err, "status 429")
}
