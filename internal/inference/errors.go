package inference

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when Run is called on a session that was
// never opened or has been closed.
var ErrNotInitialized = errors.New("model session not initialized")

// InferenceError reports a failed forward pass.
type InferenceError struct {
	Op  string
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference %s: %v", e.Op, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
