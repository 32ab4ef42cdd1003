package vector

import (
	"fmt"
	"strings"
)

// Type is the element type of a vector column.
type Type uint8

const (
	// Float32 stores 4-byte IEEE 754 elements.
	Float32 Type = iota
	// Int8 stores signed 1-byte elements.
	Int8
	// Bit stores one bit per element, packed eight to a byte.
	Bit
)

func (t Type) String() string {
	switch t {
	case Float32:
		return "float32"
	case Int8:
		return "int8"
	case Bit:
		return "bit"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// ParseType resolves a column type word. The second result is false when the
// word does not name a vector element type.
func ParseType(word string) (Type, bool) {
	switch strings.ToLower(word) {
	case "float", "float32", "f32":
		return Float32, true
	case "int8", "i8":
		return Int8, true
	case "bit":
		return Bit, true
	}
	return 0, false
}

// ByteSize returns the storage width of one vector of the given dimension.
func (t Type) ByteSize(dims int) int {
	switch t {
	case Int8:
		return dims
	case Bit:
		return (dims + 7) / 8
	default:
		return dims * 4
	}
}

// Metric is a distance function between two vectors.
type Metric uint8

const (
	// L2 is the Euclidean distance.
	L2 Metric = iota
	// Cosine is 1 minus the cosine similarity.
	Cosine
	// L1 is the sum of absolute differences.
	L1
	// Hamming counts differing bits; it is the only metric for bit vectors.
	Hamming
)

func (m Metric) String() string {
	switch m {
	case L2:
		return "l2"
	case Cosine:
		return "cosine"
	case L1:
		return "l1"
	case Hamming:
		return "hamming"
	default:
		return fmt.Sprintf("Metric(%d)", uint8(m))
	}
}

// ParseMetric matches a user supplied distance_metric value, ignoring case.
// Hamming is not selectable; it is implied by the bit element type.
func ParseMetric(value string) (Metric, bool) {
	switch {
	case strings.EqualFold(value, "l2"):
		return L2, true
	case strings.EqualFold(value, "cosine"):
		return Cosine, true
	case strings.EqualFold(value, "l1"):
		return L1, true
	}
	return 0, false
}

// DefaultMetric returns the metric used when a column declares none.
func DefaultMetric(t Type) Metric {
	if t == Bit {
		return Hamming
	}
	return L2
}
