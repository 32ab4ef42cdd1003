package vector

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Parse converts a host value into a vector of the given type and dimension.
// Accepted forms are JSON array text ("[1, 2, 3]"), a BLOB in the Encode
// layout, and Go slices ([]float32, []float64, []int8) or a Vector. A dims
// of zero accepts any dimension.
func Parse(value any, t Type, dims int) (Vector, error) {
	var (
		v   Vector
		err error
	)
	switch val := value.(type) {
	case nil:
		return Vector{}, fmt.Errorf("vector: value is NULL")
	case Vector:
		if val.Type != t {
			return Vector{}, fmt.Errorf("vector: expected %v vector, got %v", t, val.Type)
		}
		v = val
	case string:
		v, err = parseLiteral(val, t)
	case []byte:
		v, err = Decode(val, t, dims)
	case []float32:
		v, err = fromFloats(toFloat64s(val), t)
	case []float64:
		v, err = fromFloats(val, t)
	case []int8:
		if t != Int8 {
			return Vector{}, fmt.Errorf("vector: expected %v vector, got int8 elements", t)
		}
		v = NewInt8(val)
	default:
		return Vector{}, fmt.Errorf("vector: unsupported value type %T", value)
	}
	if err != nil {
		return Vector{}, err
	}
	if dims > 0 && v.Dims != dims {
		return Vector{}, &DimensionMismatchError{Expected: dims, Actual: v.Dims}
	}
	return v, nil
}

func parseLiteral(raw string, t Type) (Vector, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Vector{}, fmt.Errorf("vector: literal is empty")
	}
	if !strings.HasPrefix(s, "[") {
		return Vector{}, fmt.Errorf("vector: literal must be a JSON array like [1, 2, 3], got %q", raw)
	}
	var floats []float64
	if err := json.Unmarshal([]byte(s), &floats); err != nil {
		return Vector{}, fmt.Errorf("vector: invalid literal %q: %w", raw, err)
	}
	return fromFloats(floats, t)
}

func fromFloats(values []float64, t Type) (Vector, error) {
	switch t {
	case Int8:
		out := make([]int8, len(values))
		for i, f := range values {
			if f != math.Trunc(f) || f < math.MinInt8 || f > math.MaxInt8 {
				return Vector{}, fmt.Errorf("vector: element %d (%v) is not an int8", i, f)
			}
			out[i] = int8(f)
		}
		return NewInt8(out), nil
	case Bit:
		packed := make([]byte, Bit.ByteSize(len(values)))
		for i, f := range values {
			switch f {
			case 0:
			case 1:
				packed[i/8] |= 1 << (uint(i) % 8)
			default:
				return Vector{}, fmt.Errorf("vector: element %d (%v) is not a bit", i, f)
			}
		}
		return NewBit(packed, len(values)), nil
	default:
		out := make([]float32, len(values))
		for i, f := range values {
			out[i] = float32(f)
		}
		return NewFloat32(out), nil
	}
}

func toFloat64s(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, f := range values {
		out[i] = float64(f)
	}
	return out
}

// JSON renders v as a JSON array; bit vectors render as 0/1 elements.
func JSON(v Vector) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < v.Dims; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		switch v.Type {
		case Int8:
			fmt.Fprintf(&sb, "%d", v.Int8[i])
		case Bit:
			if v.Bit(i) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		default:
			fmt.Fprintf(&sb, "%g", v.Float32[i])
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
