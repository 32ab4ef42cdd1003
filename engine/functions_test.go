package engine

import (
	"math"
	"testing"

	"github.com/viant/sqlite-vec0/vector"
)

func TestRegisterVectorFunctionsAndUse(t *testing.T) {
	// Register globally before first connection so functions are available.
	if err := RegisterVectorFunctions(nil); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	if err := RegisterVectorFunctions(db); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}

	aBlob, err := vector.EncodeEmbedding([]float32{1, 0})
	if err != nil {
		t.Fatalf("EncodeEmbedding a failed: %v", err)
	}
	bBlob, err := vector.EncodeEmbedding([]float32{0, 1})
	if err != nil {
		t.Fatalf("EncodeEmbedding b failed: %v", err)
	}

	// vec_distance_cosine orthogonal -> 1
	var dist float64
	if err := db.QueryRow(`SELECT vec_distance_cosine(?, ?)`, aBlob, bBlob).Scan(&dist); err != nil {
		t.Fatalf("vec_distance_cosine(a,b) query failed: %v", err)
	}
	if math.Abs(dist-1) > 1e-6 {
		t.Fatalf("vec_distance_cosine(a,b) = %v, want 1", dist)
	}

	// vec_distance_cosine identical -> 0, mixing BLOB and JSON text
	if err := db.QueryRow(`SELECT vec_distance_cosine(?, '[1, 0]')`, aBlob).Scan(&dist); err != nil {
		t.Fatalf("vec_distance_cosine(a,a) query failed: %v", err)
	}
	if math.Abs(dist) > 1e-6 {
		t.Fatalf("vec_distance_cosine(a,a) = %v, want 0", dist)
	}

	testCases := []struct {
		description string
		query       string
		expect      float64
	}{
		{description: "l2", query: `SELECT vec_distance_l2('[0, 0]', '[3, 4]')`, expect: 5},
		{description: "l1", query: `SELECT vec_distance_l1('[0, 0]', '[3, -4]')`, expect: 7},
		{description: "hamming", query: `SELECT vec_distance_hamming(X'0F', X'FF')`, expect: 4},
		{description: "length", query: `SELECT vec_length('[1, 2, 3]')`, expect: 3},
		{description: "blob length", query: `SELECT vec_length(X'0000803F00000040')`, expect: 2},
	}
	for _, testCase := range testCases {
		var got float64
		if err := db.QueryRow(testCase.query).Scan(&got); err != nil {
			t.Fatalf("%s: query failed: %v", testCase.description, err)
		}
		if math.Abs(got-testCase.expect) > 1e-6 {
			t.Fatalf("%s: got %v, want %v", testCase.description, got, testCase.expect)
		}
	}

	var text string
	if err := db.QueryRow(`SELECT vec_to_json(?)`, bBlob).Scan(&text); err != nil {
		t.Fatalf("vec_to_json query failed: %v", err)
	}
	if text != "[0,1]" {
		t.Fatalf("vec_to_json = %q, want [0,1]", text)
	}

	var null *float64
	if err := db.QueryRow(`SELECT vec_distance_l2(NULL, '[1]')`).Scan(&null); err != nil {
		t.Fatalf("vec_distance_l2(NULL) query failed: %v", err)
	}
	if null != nil {
		t.Fatalf("vec_distance_l2(NULL) = %v, want NULL", *null)
	}

	if err := db.QueryRow(`SELECT vec_distance_l2('[1, 2]', '[1, 2, 3]')`).Scan(&dist); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}
