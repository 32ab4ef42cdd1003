package schema

import (
	"fmt"

	"github.com/viant/sqlite-vec0/vector"
)

// ValueType is the type of a scalar (non-vector) column.
type ValueType uint8

const (
	Integer ValueType = iota
	Text
	Float
	Boolean
	Blob
)

func (t ValueType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Text:
		return "text"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case Blob:
		return "blob"
	default:
		return fmt.Sprintf("ValueType(%d)", uint8(t))
	}
}

// SQLType returns the declared type used in the host table declaration.
func (t ValueType) SQLType() string {
	switch t {
	case Integer, Boolean:
		return "INTEGER"
	case Float:
		return "REAL"
	case Blob:
		return "BLOB"
	default:
		return "TEXT"
	}
}

// Clause is one parsed definition clause. The set of implementations is
// closed: VectorColumn, PrimaryKey, PartitionKey, Metadata, Auxiliary and
// TableOption.
type Clause interface {
	clause()
}

// VectorColumn declares `name type[dimension] [distance_metric=value]`.
type VectorColumn struct {
	Name      string
	Type      vector.Type
	Dimension int
	Metric    vector.Metric
}

// PrimaryKey declares `name type primary key`.
type PrimaryKey struct {
	Name string
	Type ValueType
}

// PartitionKey declares `name type partition key`.
type PartitionKey struct {
	Name string
	Type ValueType
}

// Metadata declares a pre-filterable column `name type`.
type Metadata struct {
	Name string
	Type ValueType
}

// Auxiliary declares a payload column `+name type`.
type Auxiliary struct {
	Name string
	Type ValueType
}

// TableOption is a `key=value` clause.
type TableOption struct {
	Key   string
	Value string
}

func (VectorColumn) clause() {}
func (PrimaryKey) clause()   {}
func (PartitionKey) clause() {}
func (Metadata) clause()     {}
func (Auxiliary) clause()    {}
func (TableOption) clause()  {}
