package vec0

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/sqlite-vec0/knn"
	"github.com/viant/sqlite-vec0/schema"
	"modernc.org/sqlite/vtab"
)

// Table is one connection's handle on a vec0 table.
type Table struct {
	module  *Module
	entry   *entry
	schema  *schema.Table
	logger  *Logger
	metrics *knn.Metrics
}

func (t *Table) executor() *knn.Executor {
	return knn.New(t.entry.store, knn.WithMetrics(t.metrics))
}

// BestIndex pushes MATCH, k and pre-filter comparisons down to the
// executor.
func (t *Table) BestIndex(info *vtab.IndexInfo) error {
	bestIndex(t.schema, t.executor(), info)
	return nil
}

// Open allocates a new cursor.
func (t *Table) Open() (vtab.Cursor, error) { return &Cursor{table: t}, nil }

// Disconnect releases this connection's reference. The store stays
// registered for the connections the pool opens later.
func (t *Table) Disconnect() error {
	t.module.release(t.entry, false)
	return nil
}

// Destroy drops the store.
func (t *Table) Destroy() error {
	t.module.release(t.entry, true)
	t.logger.Debug("table dropped")
	return nil
}

// Rename moves the store under the new table name.
func (t *Table) Rename(newName string) error {
	m := t.module
	m.mu.Lock()
	defer m.mu.Unlock()
	db, _, _ := strings.Cut(t.entry.name, ".")
	name := qualify(db, newName)
	if other, ok := m.tables[name]; ok && other != t.entry && other.refs > 0 {
		return fmt.Errorf("%w: %s", ErrTableInUse, name)
	}
	if current, ok := m.tables[t.entry.name]; ok && current == t.entry {
		delete(m.tables, t.entry.name)
	}
	t.entry.name = name
	m.tables[name] = t.entry
	t.logger = m.logger.WithTable(name)
	return nil
}

// Insert adds a row. The driver passes the requested rowid (NULL for an
// automatic one) ahead of the declared column values.
func (t *Table) Insert(cols []vtab.Value, rowid *int64) error {
	requested, values, err := t.split(cols)
	if err != nil {
		return err
	}
	e := t.entry
	e.mu.Lock()
	defer e.mu.Unlock()
	var id int64
	if requested != nil {
		id = *requested
		err = e.store.InsertWithRowid(id, values)
	} else {
		id, err = e.store.Insert(values)
	}
	t.logger.LogWrite(context.Background(), "insert", id, err)
	if err != nil {
		return err
	}
	e.record(undo{kind: undoInsert, rowid: id})
	*rowid = id
	return nil
}

// Update rewrites the row stored under oldRowid.
func (t *Table) Update(oldRowid int64, cols []vtab.Value, newRowid *int64) error {
	requested, values, err := t.split(cols)
	if err != nil {
		return err
	}
	id := oldRowid
	if requested != nil {
		id = *requested
	}
	e := t.entry
	e.mu.Lock()
	defer e.mu.Unlock()
	previous, err := e.store.Row(oldRowid)
	if err == nil {
		err = e.store.Update(oldRowid, id, values)
	}
	t.logger.LogWrite(context.Background(), "update", oldRowid, err)
	if err != nil {
		return err
	}
	e.record(undo{kind: undoUpdate, rowid: oldRowid, newRowid: id, row: previous})
	*newRowid = id
	return nil
}

// Delete removes the row stored under oldRowid.
func (t *Table) Delete(oldRowid int64) error {
	e := t.entry
	e.mu.Lock()
	defer e.mu.Unlock()
	previous, err := e.store.Row(oldRowid)
	if err == nil {
		err = e.store.Delete(oldRowid)
	}
	t.logger.LogWrite(context.Background(), "delete", oldRowid, err)
	if err != nil {
		return err
	}
	e.record(undo{kind: undoDelete, rowid: oldRowid, row: previous})
	return nil
}

// Begin starts recording writes so that Rollback can revert them.
func (t *Table) Begin() error {
	t.entry.begin()
	return nil
}

// Sync has nothing to flush.
func (t *Table) Sync() error { return nil }

// Commit discards the recorded writes.
func (t *Table) Commit() error {
	t.entry.commit()
	return nil
}

// Rollback reverts the writes recorded since Begin.
func (t *Table) Rollback() error { return t.entry.rollback() }

// split separates the requested rowid from the declared column values and
// drops the trailing hidden columns.
func (t *Table) split(cols []vtab.Value) (*int64, []any, error) {
	n := t.schema.Len()
	if len(cols) < n+1 {
		return nil, nil, fmt.Errorf("vec0: expected %d values, got %d", n+1, len(cols))
	}
	var requested *int64
	if cols[0] != nil {
		id, ok := cols[0].(int64)
		if !ok {
			return nil, nil, fmt.Errorf("vec0: rowid must be an integer, got %T", cols[0])
		}
		requested = &id
	}
	values := make([]any, n)
	for i := range values {
		values[i] = cols[i+1]
	}
	return requested, values, nil
}
