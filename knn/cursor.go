package knn

import "github.com/viant/sqlite-vec0/store"

// Row is one query result.
type Row struct {
	Rowid int64
	// Distance is set for knn queries only.
	Distance float64
	Location store.Location
}

// Cursor yields rows one at a time. The host advances it with Next and
// releases it with Close.
type Cursor struct {
	rows        []Row
	pos         int
	ranked      bool
	scanned     int
	prefiltered int
}

func newCursor(rows []Row, ranked bool, scanned, prefiltered int) *Cursor {
	return &Cursor{rows: rows, pos: -1, ranked: ranked, scanned: scanned, prefiltered: prefiltered}
}

// Next advances to the next row and reports whether one exists.
func (c *Cursor) Next() bool {
	if c.pos < len(c.rows) {
		c.pos++
	}
	return c.pos < len(c.rows)
}

// Row returns the current row. It is only valid after Next returned true.
func (c *Cursor) Row() Row { return c.rows[c.pos] }

// Ranked reports whether rows carry distances.
func (c *Cursor) Ranked() bool { return c.ranked }

// Len returns the number of rows the cursor holds.
func (c *Cursor) Len() int { return len(c.rows) }

// Scanned returns how many valid rows the scan visited.
func (c *Cursor) Scanned() int { return c.scanned }

// Prefiltered returns how many visited rows failed a predicate.
func (c *Cursor) Prefiltered() int { return c.prefiltered }

// Close releases the result set.
func (c *Cursor) Close() error {
	c.rows = nil
	c.pos = 0
	return nil
}
