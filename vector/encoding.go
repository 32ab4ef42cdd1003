package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeEmbedding encodes a slice of float32 values into a BLOB representation
// suitable for storage in SQLite. The encoding is a little-endian sequence of
// IEEE 754 float32 values without a length prefix; the length is derived from
// the BLOB size on decode.
func EncodeEmbedding(vec []float32) ([]byte, error) {
	if len(vec) == 0 {
		return nil, nil
	}
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b, nil
}

// DecodeEmbedding decodes a BLOB produced by EncodeEmbedding back into a
// slice of float32 values.
func DecodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vector: invalid embedding blob length %d (not multiple of 4)", len(b))
	}
	n := len(b) / 4
	vec := make([]float32, n)
	for i := 0; i < n; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}

// Encode returns the BLOB form of v: little-endian float32 elements, raw
// int8 bytes, or packed bits.
func Encode(v Vector) []byte {
	switch v.Type {
	case Int8:
		out := make([]byte, len(v.Int8))
		for i, e := range v.Int8 {
			out[i] = byte(e)
		}
		return out
	case Bit:
		return append([]byte(nil), v.Bits...)
	default:
		b, _ := EncodeEmbedding(v.Float32)
		return b
	}
}

// Decode interprets a BLOB as a vector of the given type. dims is only
// consulted for bit vectors; pass 0 to derive it from the BLOB length.
func Decode(b []byte, t Type, dims int) (Vector, error) {
	switch t {
	case Int8:
		out := make([]int8, len(b))
		for i, e := range b {
			out[i] = int8(e)
		}
		return NewInt8(out), nil
	case Bit:
		if dims == 0 {
			dims = len(b) * 8
		}
		if len(b) != t.ByteSize(dims) {
			return Vector{}, &DimensionMismatchError{Expected: dims, Actual: len(b) * 8}
		}
		return NewBit(append([]byte(nil), b...), dims), nil
	default:
		f, err := DecodeEmbedding(b)
		if err != nil {
			return Vector{}, err
		}
		return NewFloat32(f), nil
	}
}
