package kdann

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kdann/kdtree"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidEpsilon is returned when the error tolerance is negative.
	ErrInvalidEpsilon = errors.New("epsilon must be non-negative")
)

// ErrDimensionMismatch indicates a query/index dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// translateError normalizes errors from the kdtree core into the root
// package's error vocabulary.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, kdtree.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}
	if errors.Is(err, kdtree.ErrInvalidEpsilon) {
		return fmt.Errorf("%w: %w", ErrInvalidEpsilon, err)
	}

	var dm *kdtree.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	return err
}
