package lib

import (
	"errors"
	"fmt"
)

// Downstream errors
var (
	ErrDownstreamStatus = errors.New("unexpected status from products service")
	ErrInvalidJSON      = errors.New("products service returned invalid JSON")
)

// Watcher errors
var (
	ErrStreamClosed = errors.New("change stream closed")
)

// OperationError tags a failure with the human readable context of the
// operation that produced it, e.g. "Error fetching products".
type OperationError struct {
	Context string
	Err     error
}

func NewOperationError(context string, err error) *OperationError {
	return &OperationError{Context: context, Err: err}
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Context
	}
	return fmt.Sprintf("%s: %s", e.Context, e.Err.Error())
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
