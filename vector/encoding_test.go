package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEmbedding_RoundTrip(t *testing.T) {
	orig := []float32{0.0, 1.5, -2.25, 3.75}

	b, err := EncodeEmbedding(orig)
	if err != nil {
		t.Fatalf("EncodeEmbedding failed: %v", err)
	}

	decoded, err := DecodeEmbedding(b)
	if err != nil {
		t.Fatalf("DecodeEmbedding failed: %v", err)
	}
	if len(decoded) != len(orig) {
		t.Fatalf("decoded length = %d, want %d", len(decoded), len(orig))
	}
	for i := range orig {
		if got, want := decoded[i], orig[i]; got != want {
			t.Fatalf("decoded[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestDecodeEmbedding_InvalidLength(t *testing.T) {
	if _, err := DecodeEmbedding([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for 3-byte blob")
	}
}

func TestParse(t *testing.T) {
	blob, err := EncodeEmbedding([]float32{1, 2, 3, 4})
	require.NoError(t, err)

	testCases := []struct {
		description string
		value       any
		typ         Type
		dims        int
		expect      string
		expectErr   error
	}{
		{description: "json float32", value: "[1, 2, 3, 4]", typ: Float32, dims: 4, expect: "[1,2,3,4]"},
		{description: "json whitespace", value: "  [ 0.5 ,1,\n2 , 3 ]  ", typ: Float32, dims: 4, expect: "[0.5,1,2,3]"},
		{description: "blob float32", value: blob, typ: Float32, dims: 4, expect: "[1,2,3,4]"},
		{description: "json int8", value: "[-128, 0, 127]", typ: Int8, dims: 3, expect: "[-128,0,127]"},
		{description: "blob int8", value: []byte{0xff, 0x01}, typ: Int8, dims: 2, expect: "[-1,1]"},
		{description: "json bit", value: "[1,0,0,0,0,0,0,1]", typ: Bit, dims: 8, expect: "[1,0,0,0,0,0,0,1]"},
		{description: "blob bit", value: []byte{0x81}, typ: Bit, dims: 8, expect: "[1,0,0,0,0,0,0,1]"},
		{description: "go slice", value: []float64{1, 2}, typ: Float32, dims: 2, expect: "[1,2]"},
		{description: "dimension mismatch", value: "[1, 2, 3]", typ: Float32, dims: 4, expectErr: ErrDimensionMismatch},
		{description: "bit blob mismatch", value: []byte{1, 2}, typ: Bit, dims: 8, expectErr: ErrDimensionMismatch},
	}
	for _, testCase := range testCases {
		actual, err := Parse(testCase.value, testCase.typ, testCase.dims)
		if testCase.expectErr != nil {
			assert.ErrorIs(t, err, testCase.expectErr, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, JSON(actual), testCase.description)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, value := range []any{nil, "", "1,2,3", "[1, 2", "[300]", "[0.5]", 42} {
		_, err := Parse(value, Int8, 1)
		assert.Error(t, err, "%v", value)
	}
	_, err := Parse("[2]", Bit, 1)
	assert.Error(t, err)
}

func TestEncode_RoundTrip(t *testing.T) {
	for _, v := range []Vector{
		NewFloat32([]float32{1, -1.5}),
		NewInt8([]int8{-3, 7}),
		NewBit([]byte{0x0f, 0xf0}, 16),
	} {
		decoded, err := Decode(Encode(v), v.Type, v.Dims)
		require.NoError(t, err)
		assert.Equal(t, JSON(v), JSON(decoded))
	}
}
