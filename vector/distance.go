package vector

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/viant/vec/search"
)

// CosineSimilarity computes the cosine similarity between two vectors. It
// returns an error if the vectors have different lengths or if either vector
// has zero magnitude.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector: cosine similarity dimension mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("vector: cosine similarity on empty vectors")
	}
	ma := search.Float32s(a).Magnitude()
	mb := search.Float32s(b).Magnitude()
	if ma == 0 || mb == 0 {
		return 0, fmt.Errorf("vector: cosine similarity with zero-magnitude vector")
	}
	return 1 - float64(search.Float32s(a).CosineDistance(b)), nil
}

// L2Distance computes the Euclidean (L2) distance between two vectors. It
// returns an error if the vectors have different lengths.
func L2Distance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector: L2 distance dimension mismatch: %d vs %d", len(a), len(b))
	}
	return float64(search.Float32s(a).EuclideanDistance(b)), nil
}

// Distance scores a against b under m. Both vectors must share type and
// dimension. A zero-magnitude operand has cosine distance 1.
func Distance(m Metric, a, b Vector) (float64, error) {
	if a.Type != b.Type {
		return 0, fmt.Errorf("vector: cannot compare %v with %v", a.Type, b.Type)
	}
	if a.Dims != b.Dims {
		return 0, &DimensionMismatchError{Expected: a.Dims, Actual: b.Dims}
	}
	switch a.Type {
	case Float32:
		return float32Distance(m, a.Float32, b.Float32)
	case Int8:
		return int8Distance(m, a.Int8, b.Int8)
	case Bit:
		if m != Hamming {
			return 0, fmt.Errorf("vector: bit vectors only support hamming distance, got %v", m)
		}
		return float64(hamming(a.Bits, b.Bits)), nil
	}
	return 0, fmt.Errorf("vector: unsupported type %v", a.Type)
}

func float32Distance(m Metric, a, b []float32) (float64, error) {
	switch m {
	case L2:
		return float64(search.Float32s(a).EuclideanDistance(b)), nil
	case Cosine:
		ma := search.Float32s(a).Magnitude()
		mb := search.Float32s(b).Magnitude()
		if ma == 0 || mb == 0 {
			return 1, nil
		}
		return float64(search.Float32s(a).CosineDistance(b)), nil
	case L1:
		var sum float64
		for i := range a {
			sum += math.Abs(float64(a[i]) - float64(b[i]))
		}
		return sum, nil
	}
	return 0, fmt.Errorf("vector: metric %v is not defined for float32 vectors", m)
}

func int8Distance(m Metric, a, b []int8) (float64, error) {
	switch m {
	case L2:
		var sum float64
		for i := range a {
			d := float64(a[i]) - float64(b[i])
			sum += d * d
		}
		return math.Sqrt(sum), nil
	case Cosine:
		var dot, na2, nb2 float64
		for i := range a {
			va, vb := float64(a[i]), float64(b[i])
			dot += va * vb
			na2 += va * va
			nb2 += vb * vb
		}
		if na2 == 0 || nb2 == 0 {
			return 1, nil
		}
		return 1 - dot/(math.Sqrt(na2)*math.Sqrt(nb2)), nil
	case L1:
		var sum float64
		for i := range a {
			sum += math.Abs(float64(a[i]) - float64(b[i]))
		}
		return sum, nil
	}
	return 0, fmt.Errorf("vector: metric %v is not defined for int8 vectors", m)
}

func hamming(a, b []byte) int {
	n := 0
	for i := range a {
		n += bits.OnesCount8(a[i] ^ b[i])
	}
	return n
}
