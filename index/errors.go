package index

import "errors"

var (
	// ErrInvalidDimension indicates a non-positive vector dimension.
	ErrInvalidDimension = errors.New("vector dimension must be positive")

	// ErrDimensionMismatch indicates a vector whose dimension differs from the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidK indicates a non-positive result count was requested.
	ErrInvalidK = errors.New("k must be positive")
)
