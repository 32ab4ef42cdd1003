package store

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/viant/sqlite-vec0/schema"
	"github.com/viant/sqlite-vec0/vector"
)

// Location addresses a row inside the store.
type Location struct {
	Chunk *Chunk
	Slot  int
}

// Stats summarizes storage usage.
type Stats struct {
	Rows       int
	Chunks     int
	Deleted    int
	Partitions int
	ChunkSize  int
}

type partition struct {
	key    string
	values []any
	chunks []*Chunk
}

func (p *partition) open() *Chunk {
	if n := len(p.chunks); n > 0 && !p.chunks[n-1].Full() {
		return p.chunks[n-1]
	}
	return nil
}

// Store keeps the rows of one table in chunks grouped by partition key
// values. It performs no locking; callers serialize writers against
// readers.
type Store struct {
	table         *schema.Table
	config        Config
	primaryKey    int
	partitionCols []int
	auxCols       []int

	chunks     []*Chunk
	partitions map[string]*partition
	order      []*partition
	locations  map[int64]Location
	keys       map[any]int64
	aux        map[int64][]any
	maxRowid   int64
	deleted    int
}

// New creates an empty store. Table options override config.
func New(table *schema.Table, config Config) (*Store, error) {
	cfg := config.WithOptions(table.Options())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pk, ok := table.PrimaryKey()
	if !ok {
		pk = -1
	}
	return &Store{
		table:         table,
		config:        cfg,
		primaryKey:    pk,
		partitionCols: table.Indexes(schema.PartitionKeyKind),
		auxCols:       table.Indexes(schema.AuxiliaryKind),
		partitions:    map[string]*partition{},
		locations:     map[int64]Location{},
		keys:          map[any]int64{},
		aux:           map[int64][]any{},
	}, nil
}

// Schema returns the table schema.
func (s *Store) Schema() *schema.Table { return s.table }

// Config returns the effective configuration.
func (s *Store) Config() Config { return s.config }

// Len returns the number of live rows.
func (s *Store) Len() int { return len(s.locations) }

// PartitionColumns returns the positions of the partition key columns.
func (s *Store) PartitionColumns() []int { return s.partitionCols }

// Insert adds a row under the next rowid and returns it.
func (s *Store) Insert(values []any) (int64, error) {
	if s.maxRowid == math.MaxInt64 {
		return 0, fmt.Errorf("store: rowid space exhausted")
	}
	rowid := s.maxRowid + 1
	if err := s.InsertWithRowid(rowid, values); err != nil {
		return 0, err
	}
	return rowid, nil
}

// InsertWithRowid adds a row under the given rowid. The row is validated
// in full before the store changes.
func (s *Store) InsertWithRowid(rowid int64, values []any) error {
	if _, ok := s.locations[rowid]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateRowid, rowid)
	}
	row, err := prepare(s.table, values)
	if err != nil {
		return err
	}
	if s.primaryKey >= 0 {
		if _, ok := s.keys[row[s.primaryKey]]; ok {
			return fmt.Errorf("%w: %v", ErrDuplicatePrimaryKey, row[s.primaryKey])
		}
	}
	s.place(rowid, row)
	return nil
}

// Delete invalidates the slot holding rowid.
func (s *Store) Delete(rowid int64) error {
	loc, ok := s.locations[rowid]
	if !ok {
		return fmt.Errorf("%w: %d", ErrRowNotFound, rowid)
	}
	s.remove(rowid, loc)
	return nil
}

// Update replaces the row stored under rowid and optionally moves it to
// newRowid. A row whose partition is unchanged is rewritten in its slot;
// otherwise it is relocated.
func (s *Store) Update(rowid, newRowid int64, values []any) error {
	loc, ok := s.locations[rowid]
	if !ok {
		return fmt.Errorf("%w: %d", ErrRowNotFound, rowid)
	}
	row, err := prepare(s.table, values)
	if err != nil {
		return err
	}
	if newRowid != rowid {
		if _, taken := s.locations[newRowid]; taken {
			return fmt.Errorf("%w: %d", ErrDuplicateRowid, newRowid)
		}
	}
	if s.primaryKey >= 0 {
		if owner, ok := s.keys[row[s.primaryKey]]; ok && owner != rowid {
			return fmt.Errorf("%w: %v", ErrDuplicatePrimaryKey, row[s.primaryKey])
		}
	}
	if newRowid == rowid && partitionKey(s.partitionValues(row)) == loc.Chunk.partition.key {
		if s.primaryKey >= 0 {
			delete(s.keys, loc.Chunk.Value(s.primaryKey, loc.Slot))
			s.keys[row[s.primaryKey]] = rowid
		}
		loc.Chunk.write(loc.Slot, rowid, row)
		s.aux[rowid] = s.auxValues(row)
		return nil
	}
	s.remove(rowid, loc)
	s.place(newRowid, row)
	return nil
}

// Lookup returns the location of rowid.
func (s *Store) Lookup(rowid int64) (Location, bool) {
	loc, ok := s.locations[rowid]
	return loc, ok
}

// RowidByKey resolves a primary key value to its rowid.
func (s *Store) RowidByKey(key any) (int64, bool) {
	if s.primaryKey < 0 {
		return 0, false
	}
	key, err := Coerce(s.table.Column(s.primaryKey), key)
	if err != nil || key == nil {
		return 0, false
	}
	rowid, ok := s.keys[key]
	return rowid, ok
}

// Value returns column col of the row at loc. Vector values are read-only
// views into chunk memory.
func (s *Store) Value(loc Location, col int) any {
	c := s.table.Column(col)
	switch {
	case c.Kind == schema.VectorKind:
		return loc.Chunk.Vector(col, loc.Slot)
	case c.Filterable():
		return loc.Chunk.Value(col, loc.Slot)
	}
	values := s.aux[loc.Chunk.Rowid(loc.Slot)]
	for i, idx := range s.auxCols {
		if idx == col {
			return values[i]
		}
	}
	return nil
}

// Row returns a copy of every column of rowid.
func (s *Store) Row(rowid int64) ([]any, error) {
	loc, ok := s.locations[rowid]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrRowNotFound, rowid)
	}
	ret := make([]any, s.table.Len())
	for i := range ret {
		value := s.Value(loc, i)
		if v, ok := value.(vector.Vector); ok {
			value = v.Clone()
		}
		ret[i] = value
	}
	return ret, nil
}

// Chunks returns every chunk in creation order.
func (s *Store) Chunks() []*Chunk { return s.chunks }

// ActiveChunks returns, in creation order, the chunks whose partition
// matches restriction. Keys are partition column positions; values must be
// canonical (see Coerce). An empty restriction selects every chunk.
func (s *Store) ActiveChunks(restriction map[int]any) []*Chunk {
	if len(restriction) == 0 {
		return s.chunks
	}
	var ret []*Chunk
	for _, p := range s.order {
		if s.matches(p, restriction) {
			ret = append(ret, p.chunks...)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].id < ret[j].id })
	return ret
}

// Stats reports storage usage.
func (s *Store) Stats() Stats {
	return Stats{
		Rows:       len(s.locations),
		Chunks:     len(s.chunks),
		Deleted:    s.deleted,
		Partitions: len(s.partitions),
		ChunkSize:  s.config.ChunkSize,
	}
}

func (s *Store) matches(p *partition, restriction map[int]any) bool {
	for i, col := range s.partitionCols {
		if want, ok := restriction[col]; ok && p.values[i] != want {
			return false
		}
	}
	return true
}

func (s *Store) place(rowid int64, row []any) {
	values := s.partitionValues(row)
	key := partitionKey(values)
	p, ok := s.partitions[key]
	if !ok {
		p = &partition{key: key, values: values}
		s.partitions[key] = p
		s.order = append(s.order, p)
	}
	c := p.open()
	if c == nil {
		c = newChunk(len(s.chunks), s.table, p, s.config.ChunkSize)
		s.chunks = append(s.chunks, c)
		p.chunks = append(p.chunks, c)
	}
	slot := c.append(rowid, row)
	s.locations[rowid] = Location{Chunk: c, Slot: slot}
	if s.primaryKey >= 0 {
		s.keys[row[s.primaryKey]] = rowid
	}
	if len(s.auxCols) > 0 {
		s.aux[rowid] = s.auxValues(row)
	}
	if rowid > s.maxRowid {
		s.maxRowid = rowid
	}
}

func (s *Store) remove(rowid int64, loc Location) {
	if s.primaryKey >= 0 {
		delete(s.keys, loc.Chunk.Value(s.primaryKey, loc.Slot))
	}
	loc.Chunk.clear(loc.Slot)
	delete(s.locations, rowid)
	delete(s.aux, rowid)
	s.deleted++
}

func (s *Store) partitionValues(row []any) []any {
	ret := make([]any, len(s.partitionCols))
	for i, col := range s.partitionCols {
		ret[i] = row[col]
	}
	return ret
}

func (s *Store) auxValues(row []any) []any {
	ret := make([]any, len(s.auxCols))
	for i, col := range s.auxCols {
		ret[i] = row[col]
	}
	return ret
}

func partitionKey(values []any) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%T:%v", v, v)
	}
	return strings.Join(parts, "\x00")
}
