package vec0

import (
	"fmt"
	"sync"

	"github.com/viant/sqlite-vec0/store"
)

type undoKind uint8

const (
	undoInsert undoKind = iota
	undoDelete
	undoUpdate
)

// undo reverts one write: an insert is deleted, a delete re-inserted and
// an update restored under its previous rowid.
type undo struct {
	kind     undoKind
	rowid    int64
	newRowid int64
	row      []any
}

// entry is the state of one table shared by all of its connections.
type entry struct {
	name string
	refs int

	mu      sync.RWMutex
	store   *store.Store
	journal []undo
	active  bool
}

func (e *entry) begin() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.journal = e.journal[:0]
	e.active = true
}

func (e *entry) commit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.journal = nil
	e.active = false
}

// rollback replays the journal backwards.
func (e *entry) rollback() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		e.journal = nil
		e.active = false
	}()
	for i := len(e.journal) - 1; i >= 0; i-- {
		u := e.journal[i]
		var err error
		switch u.kind {
		case undoInsert:
			err = e.store.Delete(u.rowid)
		case undoDelete:
			err = e.store.InsertWithRowid(u.rowid, u.row)
		case undoUpdate:
			err = e.store.Update(u.newRowid, u.rowid, u.row)
		}
		if err != nil {
			return fmt.Errorf("vec0: rollback of %s: %w", e.name, err)
		}
	}
	return nil
}

// record appends u when a transaction is open. Callers hold e.mu.
func (e *entry) record(u undo) {
	if e.active {
		e.journal = append(e.journal, u)
	}
}
