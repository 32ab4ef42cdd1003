package store

import (
	"fmt"
	"math"
	"strconv"

	"github.com/viant/sqlite-vec0/schema"
	"github.com/viant/sqlite-vec0/vector"
)

// Coerce converts a host value into the canonical Go type of a scalar
// column: int64 for integer, float64 for float, bool for boolean, string
// for text and []byte for blob. NULL stays nil.
func Coerce(col schema.Column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch col.Type {
	case schema.Integer:
		return asInt64(col, value)
	case schema.Float:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, invalid(col, value)
			}
			return f, nil
		}
	case schema.Boolean:
		if v, ok := value.(bool); ok {
			return v, nil
		}
		i, err := asInt64(col, value)
		if err != nil || (i != 0 && i != 1) {
			return nil, invalid(col, value)
		}
		return i == 1, nil
	case schema.Text:
		switch v := value.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		}
	case schema.Blob:
		switch v := value.(type) {
		case []byte:
			return append([]byte(nil), v...), nil
		case string:
			return []byte(v), nil
		}
	}
	return nil, invalid(col, value)
}

func asInt64(col schema.Column, value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v < 1<<63 {
			return int64(v), nil
		}
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i, nil
		}
	}
	return 0, invalid(col, value)
}

func invalid(col schema.Column, value any) error {
	return fmt.Errorf("%w: column %q expects %v, got %T", ErrInvalidValue, col.Name, col.Type, value)
}

// prepare validates one row and converts it to canonical values. Vector
// columns become vector.Vector.
func prepare(table *schema.Table, values []any) ([]any, error) {
	if len(values) != table.Len() {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidValue, table.Len(), len(values))
	}
	ret := make([]any, len(values))
	for i, value := range values {
		col := table.Column(i)
		if col.Kind == schema.VectorKind {
			if value == nil {
				return nil, fmt.Errorf("%w: vector column %q cannot be NULL", ErrInvalidValue, col.Name)
			}
			v, err := vector.Parse(value, col.Vector, col.Dimension)
			if err != nil {
				return nil, fmt.Errorf("store: column %q: %w", col.Name, err)
			}
			ret[i] = v
			continue
		}
		v, err := Coerce(col, value)
		if err != nil {
			return nil, err
		}
		if v == nil && (col.Kind == schema.PrimaryKeyKind || col.Kind == schema.PartitionKeyKind) {
			return nil, fmt.Errorf("%w: %s column %q cannot be NULL", ErrInvalidValue, col.Kind, col.Name)
		}
		ret[i] = v
	}
	return ret, nil
}
