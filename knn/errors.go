package knn

import (
	"errors"
	"fmt"

	"github.com/viant/sqlite-vec0/vector"
)

// ErrDimensionMismatch matches a query vector whose length differs from the
// target column dimension.
var ErrDimensionMismatch = vector.ErrDimensionMismatch

// DimensionMismatchError carries the expected and actual dimensions.
type DimensionMismatchError = vector.DimensionMismatchError

var (
	ErrInvalidK             = errors.New("knn: k must be a positive integer")
	ErrUnknownColumn        = errors.New("knn: unknown column")
	ErrNotVectorColumn      = errors.New("knn: not a vector column")
	ErrColumnNotFilterable  = errors.New("knn: column cannot be filtered during the scan")
	ErrPartitionRestriction = errors.New("knn: every partition key must be constrained")
)

// UnknownColumnError names a pre-filter or target column missing from the
// table.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("knn: unknown column %q", e.Column)
}

// Is reports whether target is ErrUnknownColumn.
func (e *UnknownColumnError) Is(target error) bool { return target == ErrUnknownColumn }
