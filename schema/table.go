package schema

import (
	"strconv"

	"github.com/viant/sqlite-vec0/vector"
)

// Table options.
const (
	OptionChunkSize     = "chunk_size"
	OptionPartitionScan = "partition_scan"
)

// MaxChunkSize bounds the chunk_size option.
const MaxChunkSize = 65536

// Partition scan policies.
const (
	PartitionScanAll    = "all"
	PartitionScanStrict = "strict"
)

// ColumnKind tells how a column is stored and whether it can be filtered
// during a knn scan.
type ColumnKind uint8

const (
	VectorKind ColumnKind = iota
	PrimaryKeyKind
	PartitionKeyKind
	MetadataKind
	AuxiliaryKind
)

func (k ColumnKind) String() string {
	switch k {
	case VectorKind:
		return "vector"
	case PrimaryKeyKind:
		return "primary key"
	case PartitionKeyKind:
		return "partition key"
	case MetadataKind:
		return "metadata"
	case AuxiliaryKind:
		return "auxiliary"
	}
	return "unknown"
}

// Column is one declared column. Vector columns use Vector, Dimension and
// Metric; all other kinds use Type.
type Column struct {
	Name      string
	Kind      ColumnKind
	Type      ValueType
	Vector    vector.Type
	Dimension int
	Metric    vector.Metric
}

// Filterable reports whether predicates on the column can be evaluated
// inside the scan.
func (c Column) Filterable() bool {
	switch c.Kind {
	case PrimaryKeyKind, PartitionKeyKind, MetadataKind:
		return true
	}
	return false
}

// SQLType returns the declared type for the host table declaration.
func (c Column) SQLType() string {
	if c.Kind == VectorKind {
		return "BLOB"
	}
	return c.Type.SQLType()
}

// Options holds table options. Zero values mean "not set".
type Options struct {
	ChunkSize     int
	PartitionScan string
}

// Table is a validated, immutable table schema. Column indexes follow
// declaration order with table options removed.
type Table struct {
	columns []Column
	byName  map[string]int
	options Options
}

// Parse splits, parses and validates a definition body.
func Parse(body string) (*Table, error) {
	texts, err := Split(body)
	if err != nil {
		return nil, err
	}
	clauses := make([]Clause, 0, len(texts))
	for _, text := range texts {
		c, err := ParseClause(text)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	return build(texts, clauses)
}

// Build validates parsed clauses and assembles a Table.
func Build(clauses ...Clause) (*Table, error) {
	return build(nil, clauses)
}

// Len returns the number of declared columns.
func (t *Table) Len() int { return len(t.columns) }

// Column returns the i-th declared column.
func (t *Table) Column(i int) Column { return t.columns[i] }

// Columns returns a copy of the declared columns.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// Lookup resolves a column name, ignoring case.
func (t *Table) Lookup(name string) (int, bool) {
	i, ok := t.byName[fold(name)]
	return i, ok
}

// Indexes returns the positions of all columns of the given kind.
func (t *Table) Indexes(kind ColumnKind) []int {
	var ret []int
	for i, c := range t.columns {
		if c.Kind == kind {
			ret = append(ret, i)
		}
	}
	return ret
}

// PrimaryKey returns the position of the primary key column.
func (t *Table) PrimaryKey() (int, bool) {
	if idx := t.Indexes(PrimaryKeyKind); len(idx) > 0 {
		return idx[0], true
	}
	return -1, false
}

// Options returns the table options.
func (t *Table) Options() Options { return t.options }

func reservedName(name string) bool {
	switch fold(name) {
	case "rowid", "distance", "k":
		return true
	}
	return false
}

func build(texts []string, clauses []Clause) (*Table, error) {
	textOf := func(i int) string {
		if i < len(texts) {
			return texts[i]
		}
		return ""
	}
	ret := &Table{byName: map[string]int{}}
	seenOptions := map[string]bool{}
	primaryKeys := 0
	addColumn := func(i int, c Column) error {
		key := fold(c.Name)
		if reservedName(c.Name) {
			return clauseErr(textOf(i), ErrReservedColumnName, "%q", c.Name)
		}
		if _, ok := ret.byName[key]; ok {
			return clauseErr(textOf(i), ErrDuplicateColumnName, "%q", c.Name)
		}
		ret.byName[key] = len(ret.columns)
		ret.columns = append(ret.columns, c)
		return nil
	}
	for i, clause := range clauses {
		var err error
		switch c := clause.(type) {
		case VectorColumn:
			err = addColumn(i, Column{Name: c.Name, Kind: VectorKind, Vector: c.Type, Dimension: c.Dimension, Metric: c.Metric})
		case PrimaryKey:
			if primaryKeys++; primaryKeys > 1 {
				return nil, clauseErr(textOf(i), ErrMultiplePrimaryKey, "")
			}
			err = addColumn(i, Column{Name: c.Name, Kind: PrimaryKeyKind, Type: c.Type})
		case PartitionKey:
			err = addColumn(i, Column{Name: c.Name, Kind: PartitionKeyKind, Type: c.Type})
		case Metadata:
			err = addColumn(i, Column{Name: c.Name, Kind: MetadataKind, Type: c.Type})
		case Auxiliary:
			err = addColumn(i, Column{Name: c.Name, Kind: AuxiliaryKind, Type: c.Type})
		case TableOption:
			key := fold(c.Key)
			if seenOptions[key] {
				return nil, clauseErr(textOf(i), ErrDuplicateOption, "%q", c.Key)
			}
			seenOptions[key] = true
			err = ret.options.set(textOf(i), key, c.Value)
		default:
			err = clauseErr(textOf(i), ErrUnrecognizedClause, "%T", clause)
		}
		if err != nil {
			return nil, err
		}
	}
	if len(ret.Indexes(VectorKind)) == 0 {
		return nil, clauseErr("", ErrNoVectorColumn, "at least one vector column is required")
	}
	return ret, nil
}

func (o *Options) set(text, key, value string) error {
	switch key {
	case OptionChunkSize:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 || n > MaxChunkSize {
			return clauseErr(text, ErrInvalidOptionValue, "chunk_size must be an integer in 1..%d, got %q", MaxChunkSize, value)
		}
		o.ChunkSize = n
	case OptionPartitionScan:
		switch fold(value) {
		case PartitionScanAll, PartitionScanStrict:
			o.PartitionScan = fold(value)
		default:
			return clauseErr(text, ErrInvalidOptionValue, "partition_scan must be all or strict, got %q", value)
		}
	default:
		return clauseErr(text, ErrUnknownOption, "%q", key)
	}
	return nil
}
