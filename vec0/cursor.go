package vec0

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/sqlite-vec0/knn"
	"github.com/viant/sqlite-vec0/vector"
	"modernc.org/sqlite/vtab"
)

// Cursor iterates the rows chosen by Filter.
type Cursor struct {
	table *Table
	rows  *knn.Cursor
	eof   bool
	k     int64
}

// Filter runs the plan chosen by BestIndex.
func (c *Cursor) Filter(idxNum int, idxStr string, vals []vtab.Value) error {
	c.reset()
	p, err := decodePlan(idxNum, idxStr)
	if err != nil {
		return err
	}
	if len(vals) < len(p.args) {
		return fmt.Errorf("vec0: expected %d plan arguments, got %d", len(p.args), len(vals))
	}
	def := c.table.schema
	var (
		req      knn.Request
		rowid    int64
		hasK     bool
		hasLimit bool
		limit    int64
	)
	for i, arg := range p.args {
		v := vals[i]
		switch arg.kind {
		case argMatch:
			req.Column = def.Column(arg.col).Name
			req.Query = v
		case argK:
			n, err := asInt(v)
			if err != nil {
				return fmt.Errorf("vec0: k: %w", err)
			}
			req.K, hasK = int(n), true
		case argLimit:
			if n, err := asInt(v); err == nil {
				limit, hasLimit = n, true
			}
		case argRowid:
			n, err := asInt(v)
			if err != nil {
				// A non-integer rowid never matches.
				c.eof = true
				return nil
			}
			rowid = n
		case argFilter:
			req.Predicates = append(req.Predicates, knn.Predicate{Column: def.Column(arg.col).Name, Op: arg.op, Value: v})
		}
	}
	if !hasK && hasLimit {
		req.K = int(limit)
	}

	e := c.table.entry
	e.mu.RLock()
	defer e.mu.RUnlock()
	exec := c.table.executor()
	switch p.kind {
	case planKNN:
		c.rows, err = exec.Query(req)
		if err != nil {
			c.table.logger.LogSearch(context.Background(), req.K, 0, 0, err)
			return err
		}
		c.k = int64(req.K)
		c.table.logger.LogSearch(context.Background(), req.K, c.rows.Len(), c.rows.Scanned(), nil)
	case planLookup:
		c.rows, err = exec.Lookup(rowid, req.Predicates)
	case planScan:
		c.rows, err = exec.Scan(req.Predicates)
	default:
		return fmt.Errorf("vec0: unsupported query plan %d", p.kind)
	}
	if err != nil {
		return err
	}
	c.eof = !c.rows.Next()
	return nil
}

// Next advances the cursor.
func (c *Cursor) Next() error {
	if c.rows == nil || c.eof {
		return nil
	}
	c.eof = !c.rows.Next()
	return nil
}

// Eof reports end-of-rows.
func (c *Cursor) Eof() bool { return c.eof || c.rows == nil }

// Column returns a declared column, the distance or the k of the query.
func (c *Cursor) Column(col int) (vtab.Value, error) {
	if c.Eof() {
		return nil, fmt.Errorf("vec0: Column out of range")
	}
	row := c.rows.Row()
	def := c.table.schema
	switch {
	case col >= 0 && col < def.Len():
		e := c.table.entry
		e.mu.RLock()
		defer e.mu.RUnlock()
		return hostValue(e.store.Value(row.Location, col)), nil
	case col == def.Len():
		if !c.rows.Ranked() {
			return nil, nil
		}
		return row.Distance, nil
	case col == def.Len()+1:
		if !c.rows.Ranked() {
			return nil, nil
		}
		return c.k, nil
	}
	return nil, fmt.Errorf("vec0: unsupported column %d", col)
}

// Rowid returns the current rowid.
func (c *Cursor) Rowid() (int64, error) {
	if c.Eof() {
		return 0, fmt.Errorf("vec0: Rowid out of range")
	}
	return c.rows.Row().Rowid, nil
}

// Close releases the result set.
func (c *Cursor) Close() error {
	c.reset()
	return nil
}

func (c *Cursor) reset() {
	if c.rows != nil {
		_ = c.rows.Close()
	}
	c.rows = nil
	c.eof = false
	c.k = 0
}

// hostValue converts a stored value to a type the driver returns.
func hostValue(v any) vtab.Value {
	switch val := v.(type) {
	case vector.Vector:
		return vector.Encode(val)
	case bool:
		if val {
			return int64(1)
		}
		return int64(0)
	}
	return v
}

func asInt(v vtab.Value) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case float64:
		if val != float64(int64(val)) {
			return 0, fmt.Errorf("expected an integer, got %v", val)
		}
		return int64(val), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(val)), 10, 64)
	case nil:
		return 0, fmt.Errorf("expected an integer, got NULL")
	}
	return 0, fmt.Errorf("unsupported integer type %T", v)
}
