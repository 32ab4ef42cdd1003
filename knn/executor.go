package knn

import (
	"container/heap"
	"fmt"
	"sort"
	"time"

	"github.com/viant/sqlite-vec0/schema"
	"github.com/viant/sqlite-vec0/store"
	"github.com/viant/sqlite-vec0/vector"
)

// MaxK bounds the number of neighbors a query may request.
const MaxK = 4096

// Request describes a nearest-neighbor query.
type Request struct {
	// Column names the vector column to search.
	Column string
	// Query is a vector literal, BLOB, Go slice or vector.Vector.
	Query any
	K     int
	// Predicates are evaluated during the scan.
	Predicates []Predicate
}

// Option configures an Executor.
type Option func(e *Executor)

// WithMetrics records query counters.
func WithMetrics(m *Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// Executor evaluates queries against a store. It reads the store only;
// callers keep writers out while a query runs.
type Executor struct {
	store   *store.Store
	metrics *Metrics
}

// New creates an executor over s.
func New(s *store.Store, opts ...Option) *Executor {
	ret := &Executor{store: s}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Pushdown reports whether a predicate on column with op is evaluated
// inside the scan. Predicates it rejects are left to the host engine and
// applied after the scan has picked its rows.
func (e *Executor) Pushdown(column string, op Op) bool {
	idx, ok := e.store.Schema().Lookup(column)
	if !ok {
		return false
	}
	if op > GE {
		return false
	}
	col := e.store.Schema().Column(idx)
	if col.Kind == schema.VectorKind {
		return op == EQ || op == NE
	}
	return col.Filterable()
}

// Query returns at most K rows ordered by ascending distance to the query
// vector, ties broken by ascending rowid. Rows failing any predicate are
// skipped before their distance is computed.
func (e *Executor) Query(req Request) (*Cursor, error) {
	cursor, err := e.query(req)
	if err != nil {
		e.metrics.failed()
		return nil, err
	}
	return cursor, nil
}

func (e *Executor) query(req Request) (*Cursor, error) {
	started := time.Now()
	table := e.store.Schema()
	if req.K <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidK, req.K)
	}
	if req.K > MaxK {
		return nil, fmt.Errorf("%w, got %d which exceeds %d", ErrInvalidK, req.K, MaxK)
	}
	colIdx, ok := table.Lookup(req.Column)
	if !ok {
		return nil, &UnknownColumnError{Column: req.Column}
	}
	col := table.Column(colIdx)
	if col.Kind != schema.VectorKind {
		return nil, fmt.Errorf("%w: %q", ErrNotVectorColumn, col.Name)
	}
	q, err := vector.Parse(req.Query, col.Vector, col.Dimension)
	if err != nil {
		return nil, fmt.Errorf("knn: query vector for %q: %w", col.Name, err)
	}
	filters, restriction, err := compile(table, req.Predicates)
	if err != nil {
		return nil, err
	}
	if err := e.checkRestriction(restriction); err != nil {
		return nil, err
	}

	var (
		h           = make(neighbors, 0, req.K)
		scanned     int
		prefiltered int
		scanErr     error
	)
	for _, chunk := range e.store.ActiveChunks(restriction) {
		chunk.ForEach(func(slot int, rowid int64) bool {
			scanned++
			if !matches(chunk, slot, filters) {
				prefiltered++
				return true
			}
			d, err := vector.Distance(col.Metric, q, chunk.Vector(colIdx, slot))
			if err != nil {
				scanErr = err
				return false
			}
			candidate := Row{Rowid: rowid, Distance: d, Location: store.Location{Chunk: chunk, Slot: slot}}
			if h.Len() < req.K {
				heap.Push(&h, candidate)
			} else if worse(h[0], candidate) {
				h[0] = candidate
				heap.Fix(&h, 0)
			}
			return true
		})
		if scanErr != nil {
			return nil, fmt.Errorf("knn: %w", scanErr)
		}
	}
	rows := make([]Row, h.Len())
	for i := len(rows) - 1; i >= 0; i-- {
		rows[i] = heap.Pop(&h).(Row)
	}
	e.metrics.observe(started, scanned, prefiltered, len(rows))
	return newCursor(rows, true, scanned, prefiltered), nil
}

// Scan returns every row matching predicates in storage order.
func (e *Executor) Scan(predicates []Predicate) (*Cursor, error) {
	filters, restriction, err := compile(e.store.Schema(), predicates)
	if err != nil {
		return nil, err
	}
	var (
		rows        []Row
		scanned     int
		prefiltered int
	)
	for _, chunk := range e.store.ActiveChunks(restriction) {
		chunk.ForEach(func(slot int, rowid int64) bool {
			scanned++
			if !matches(chunk, slot, filters) {
				prefiltered++
				return true
			}
			rows = append(rows, Row{Rowid: rowid, Location: store.Location{Chunk: chunk, Slot: slot}})
			return true
		})
	}
	return newCursor(rows, false, scanned, prefiltered), nil
}

// Lookup returns the row stored under rowid if it matches predicates.
func (e *Executor) Lookup(rowid int64, predicates []Predicate) (*Cursor, error) {
	filters, _, err := compile(e.store.Schema(), predicates)
	if err != nil {
		return nil, err
	}
	loc, ok := e.store.Lookup(rowid)
	if !ok || !matches(loc.Chunk, loc.Slot, filters) {
		return newCursor(nil, false, 0, 0), nil
	}
	return newCursor([]Row{{Rowid: rowid, Location: loc}}, false, 1, 0), nil
}

// checkRestriction enforces the strict partition scan policy: every
// partition key needs an equality predicate.
func (e *Executor) checkRestriction(restriction map[int]any) error {
	if e.store.Config().PartitionScan != schema.PartitionScanStrict {
		return nil
	}
	var missing []string
	for _, col := range e.store.PartitionColumns() {
		if _, ok := restriction[col]; !ok {
			missing = append(missing, e.store.Schema().Column(col).Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing %v", ErrPartitionRestriction, missing)
	}
	return nil
}

func matches(chunk *store.Chunk, slot int, filters []filter) bool {
	for _, f := range filters {
		if f.vector {
			if !f.matchVector(chunk.Vector(f.col, slot)) {
				return false
			}
			continue
		}
		if !f.match(chunk.Value(f.col, slot)) {
			return false
		}
	}
	return true
}
