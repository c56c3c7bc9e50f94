// Package loader reads close prices from a CSV file.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"StockPredictor/internal/model"
)

// LoadCloses reads the CSV at path, skips the header line and returns the
// last window values of the close column, oldest first.
func LoadCloses(path string, window int) ([]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &DataAccessError{Path: path, Err: err}
	}
	defer f.Close()

	closes, err := readCloses(path, f)
	if err != nil {
		return nil, err
	}
	if len(closes) < window {
		return nil, &InsufficientDataError{Have: len(closes), Need: window}
	}

	out := make([]float64, window)
	copy(out, closes[len(closes)-window:])
	return out, nil
}

func readCloses(path string, r io.Reader) ([]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	// header
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, csvError(path, err)
	}

	var closes []float64
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(path, err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) <= model.CloseColumn {
			return nil, &ParseError{Line: line}
		}
		cell := strings.TrimSpace(rec[model.CloseColumn])
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, &ParseError{Line: line, Cell: cell, Err: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ParseError{Line: line, Cell: cell, Err: errNonFinite}
		}
		closes = append(closes, v)
	}
	return closes, nil
}

// csvError maps malformed CSV to ParseError and any other read failure,
// such as a directory path, to DataAccessError.
func csvError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &DataAccessError{Path: path, Err: err}
}
