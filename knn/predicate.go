package knn

import (
	"fmt"
	"strings"

	"github.com/viant/sqlite-vec0/schema"
	"github.com/viant/sqlite-vec0/store"
	"github.com/viant/sqlite-vec0/vector"
)

// Op is a comparison operator of a pre-filter predicate.
type Op uint8

const (
	EQ Op = iota
	NE
	LT
	LE
	GT
	GE
)

func (o Op) String() string {
	switch o {
	case EQ:
		return "="
	case NE:
		return "!="
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Predicate compares a table column with a constant.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %v %v", p.Column, p.Op, p.Value)
}

type filter struct {
	col   int
	op    Op
	value any
	// vector marks an exact match on a vector column; value then holds a
	// vector.Vector or nil.
	vector bool
}

func (f filter) match(v any) bool {
	c, ok := compare(v, f.value)
	if !ok {
		return false
	}
	switch f.op {
	case EQ:
		return c == 0
	case NE:
		return c != 0
	case LT:
		return c < 0
	case LE:
		return c <= 0
	case GT:
		return c > 0
	case GE:
		return c >= 0
	}
	return false
}

// compile resolves predicates against the table. EQ predicates on
// partition keys also become the chunk restriction.
func compile(table *schema.Table, predicates []Predicate) ([]filter, map[int]any, error) {
	var (
		filters     []filter
		restriction map[int]any
	)
	for _, p := range predicates {
		idx, ok := table.Lookup(p.Column)
		if !ok {
			return nil, nil, &UnknownColumnError{Column: p.Column}
		}
		col := table.Column(idx)
		if col.Kind == schema.VectorKind {
			f, err := vectorFilter(idx, col, p)
			if err != nil {
				return nil, nil, err
			}
			filters = append(filters, f)
			continue
		}
		if !col.Filterable() {
			return nil, nil, fmt.Errorf("%w: %q is a %v column", ErrColumnNotFilterable, col.Name, col.Kind)
		}
		value, err := store.Coerce(col, p.Value)
		if err != nil {
			f, numeric := asFloat(p.Value)
			if !numeric || col.Type != schema.Integer {
				return nil, nil, fmt.Errorf("knn: predicate %v: %w", p, err)
			}
			value = f
		}
		filters = append(filters, filter{col: idx, op: p.Op, value: value})
		if col.Kind == schema.PartitionKeyKind && p.Op == EQ && value != nil {
			if restriction == nil {
				restriction = map[int]any{}
			}
			if _, ok := restriction[idx]; !ok {
				restriction[idx] = value
			}
		}
	}
	return filters, restriction, nil
}

// vectorFilter compiles = and != on a stored vector. The value is parsed
// with the column's type and dimension.
func vectorFilter(idx int, col schema.Column, p Predicate) (filter, error) {
	if p.Op != EQ && p.Op != NE {
		return filter{}, fmt.Errorf("%w: %q supports only = and !=", ErrColumnNotFilterable, col.Name)
	}
	ret := filter{col: idx, op: p.Op, vector: true}
	if p.Value == nil {
		return ret, nil
	}
	v, err := vector.Parse(p.Value, col.Vector, col.Dimension)
	if err != nil {
		return filter{}, fmt.Errorf("knn: predicate %v: %w", p, err)
	}
	ret.value = v
	return ret, nil
}

func (f filter) matchVector(v vector.Vector) bool {
	q, ok := f.value.(vector.Vector)
	if !ok {
		return false
	}
	if f.op == EQ {
		return q.Equal(v)
	}
	return !q.Equal(v)
}

// compare orders two canonical values. The second result is false when the
// values are not comparable, including when either is NULL.
func compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		default:
			return 1, true
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmpOrdered(x, y), true
		}
	}
	x, ok := asFloat(a)
	if !ok {
		return 0, false
	}
	y, ok := asFloat(b)
	if !ok {
		return 0, false
	}
	return cmpOrdered(x, y), true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func cmpOrdered[T int64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
