package vector

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
)

// ErrDimensionMismatch matches every *DimensionMismatchError.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// DimensionMismatchError reports a vector whose length differs from the
// declared column dimension.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }

// Vector is a typed view over one vector's elements. Exactly one of the
// element slices is populated, matching Type. Vectors returned by a store are
// views into chunk memory and must not be modified.
type Vector struct {
	Type    Type
	Float32 []float32
	Int8    []int8
	// Bits holds packed elements, least significant bit first.
	Bits []byte
	// Dims is the element count; it is needed for Bit vectors whose packed
	// length does not carry it.
	Dims int
}

// NewFloat32 wraps float32 elements.
func NewFloat32(values []float32) Vector {
	return Vector{Type: Float32, Float32: values, Dims: len(values)}
}

// NewInt8 wraps int8 elements.
func NewInt8(values []int8) Vector {
	return Vector{Type: Int8, Int8: values, Dims: len(values)}
}

// NewBit wraps packed bits holding dims elements.
func NewBit(packed []byte, dims int) Vector {
	return Vector{Type: Bit, Bits: packed, Dims: dims}
}

// Dimension returns the number of elements.
func (v Vector) Dimension() int { return v.Dims }

// Clone returns a deep copy that does not alias chunk memory.
func (v Vector) Clone() Vector {
	out := Vector{Type: v.Type, Dims: v.Dims}
	switch v.Type {
	case Float32:
		out.Float32 = append([]float32(nil), v.Float32...)
	case Int8:
		out.Int8 = append([]int8(nil), v.Int8...)
	case Bit:
		out.Bits = append([]byte(nil), v.Bits...)
	}
	return out
}

// Bit returns element i of a bit vector.
func (v Vector) Bit(i int) bool {
	return v.Bits[i/8]&(1<<(uint(i)%8)) != 0
}

// Equal reports whether v and o have the same type, dimension and elements.
func (v Vector) Equal(o Vector) bool {
	if v.Type != o.Type || v.Dims != o.Dims {
		return false
	}
	switch v.Type {
	case Int8:
		return slices.Equal(v.Int8, o.Int8)
	case Bit:
		return bytes.Equal(v.Bits, o.Bits)
	default:
		return slices.Equal(v.Float32, o.Float32)
	}
}
