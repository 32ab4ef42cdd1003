package engine

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/viant/sqlite-vec0/vector"
	sqlite "modernc.org/sqlite"
)

var registerOnce sync.Once

// RegisterVectorFunctions registers the vec_* scalar functions with the
// driver so they are available on new connections opened after this call.
// Note: existing open connections will not see new functions.
//
// Vectors are passed as JSON text ('[1, 2, 3]') or as BLOBs. BLOBs are
// read as little-endian float32 elements, except by vec_distance_hamming
// which reads packed bits.
func RegisterVectorFunctions(_ *sql.DB) error {
	var err error
	registerOnce.Do(func() {
		functions := []struct {
			name  string
			nArgs int32
			impl  func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error)
		}{
			{"vec_distance_l2", 2, distanceFunc(vector.L2)},
			{"vec_distance_cosine", 2, distanceFunc(vector.Cosine)},
			{"vec_distance_l1", 2, distanceFunc(vector.L1)},
			{"vec_distance_hamming", 2, distanceFunc(vector.Hamming)},
			{"vec_length", 1, vecLengthImpl},
			{"vec_to_json", 1, vecToJSONImpl},
		}
		for _, fn := range functions {
			if err = sqlite.RegisterDeterministicScalarFunction(fn.name, fn.nArgs, fn.impl); err != nil {
				err = fmt.Errorf("vec: register %s: %w", fn.name, err)
				return
			}
		}
	})
	return err
}

func asVector(arg driver.Value, t vector.Type) (vector.Vector, bool, error) {
	switch v := arg.(type) {
	case nil:
		return vector.Vector{}, false, nil
	case []byte, string:
		ret, err := vector.Parse(v, t, 0)
		if err != nil {
			return vector.Vector{}, false, err
		}
		return ret, true, nil
	default:
		return vector.Vector{}, false, fmt.Errorf("vec: unsupported argument type %T for vector; want BLOB or TEXT", arg)
	}
}

func distanceFunc(metric vector.Metric) func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	elementType := vector.Float32
	if metric == vector.Hamming {
		elementType = vector.Bit
	}
	name := "vec_distance_" + metric.String()
	return func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
		}
		a, ok, err := asVector(args[0], elementType)
		if err != nil || !ok {
			return nil, err
		}
		b, ok, err := asVector(args[1], elementType)
		if err != nil || !ok {
			return nil, err
		}
		d, err := vector.Distance(metric, a, b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return d, nil
	}
}

func vecLengthImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("vec_length: expected 1 argument, got %d", len(args))
	}
	v, ok, err := asVector(args[0], vector.Float32)
	if err != nil || !ok {
		return nil, err
	}
	return int64(v.Dims), nil
}

func vecToJSONImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("vec_to_json: expected 1 argument, got %d", len(args))
	}
	v, ok, err := asVector(args[0], vector.Float32)
	if err != nil || !ok {
		return nil, err
	}
	return vector.JSON(v), nil
}
