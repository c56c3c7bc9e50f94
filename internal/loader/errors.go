package loader

import (
	"errors"
	"fmt"
)

var errNonFinite = errors.New("value is not finite")

// DataAccessError reports that the price file could not be opened or read.
type DataAccessError struct {
	Path string
	Err  error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("cannot open CSV: %s", e.Path)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// InsufficientDataError reports fewer data rows than the requested window.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough data rows: have %d, need %d", e.Have, e.Need)
}

// ParseError reports a row whose close cell is missing or not a number.
type ParseError struct {
	Line int
	Cell string
	Err  error
}

func (e *ParseError) Error() string {
	switch {
	case e.Err != nil && e.Cell != "":
		return fmt.Sprintf("parse CSV line %d: invalid close %q: %v", e.Line, e.Cell, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("parse CSV line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse CSV line %d: missing close column", e.Line)
}

func (e *ParseError) Unwrap() error { return e.Err }
