package vecadmin

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/viant/sqlite-vec0/vec0"
	"modernc.org/sqlite/vtab"
)

// ModuleName is the name of the admin module.
const ModuleName = "vec0_admin"

// Module reports storage statistics of vec0 tables via a virtual table.
// Usage:
//
//	CREATE VIRTUAL TABLE vec_admin USING vec0_admin(op);
//	SELECT op FROM vec_admin WHERE op MATCH 'products'; -- or 'main.products'
//
// Returns one row per statistic: rows:<n>, chunks:<n>, deleted:<n>,
// partitions:<n> and chunk_size:<n>.
type Module struct{}

type Table struct{}

type Cursor struct {
	rows []string
	pos  int
}

func Register(db *sql.DB) error {
	if err := vtab.RegisterModule(db, ModuleName, &Module{}); err != nil {
		if !strings.Contains(err.Error(), "already registered") {
			return err
		}
	}
	return nil
}

func (m *Module) Create(ctx vtab.Context, args []string) (vtab.Table, error) {
	return connect(ctx, args)
}

func (m *Module) Connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	return connect(ctx, args)
}

func connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("vec0_admin: need at least 3 args")
	}
	if err := ctx.EnableConstraintSupport(); err != nil {
		return nil, fmt.Errorf("vec0_admin: EnableConstraintSupport failed: %w", err)
	}
	// Single TEXT column `op` reporting results.
	if err := ctx.Declare(fmt.Sprintf("CREATE TABLE %s(op TEXT)", args[2])); err != nil {
		return nil, err
	}
	return &Table{}, nil
}

func (t *Table) BestIndex(info *vtab.IndexInfo) error {
	for i := range info.Constraints {
		c := &info.Constraints[i]
		if !c.Usable {
			continue
		}
		if c.Column == 0 && c.Op == vtab.OpMATCH {
			c.ArgIndex = 0
			c.Omit = true
			info.IdxNum = 1
			info.EstimatedCost = 1
			return nil
		}
	}
	info.EstimatedCost = 1e6
	return nil
}

func (t *Table) Open() (vtab.Cursor, error) { return &Cursor{}, nil }
func (t *Table) Disconnect() error          { return nil }
func (t *Table) Destroy() error             { return nil }

func (c *Cursor) Filter(idxNum int, idxStr string, vals []vtab.Value) error {
	c.rows = nil
	c.pos = 0
	if idxNum != 1 || len(vals) == 0 || vals[0] == nil {
		return nil
	}
	name, ok := vals[0].(string)
	if !ok {
		return fmt.Errorf("vec0_admin: MATCH expects a table name as TEXT")
	}
	rows, err := stats(name)
	if err != nil {
		return err
	}
	c.rows = rows
	return nil
}

func (c *Cursor) Next() error {
	if c.pos < len(c.rows) {
		c.pos++
	}
	return nil
}
func (c *Cursor) Eof() bool { return c.pos >= len(c.rows) }
func (c *Cursor) Column(col int) (vtab.Value, error) {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil, fmt.Errorf("vec0_admin: Column out of range")
	}
	if col == 0 {
		return c.rows[c.pos], nil
	}
	return nil, nil
}
func (c *Cursor) Rowid() (int64, error) { return int64(c.pos + 1), nil }
func (c *Cursor) Close() error          { c.rows = nil; c.pos = 0; return nil }

// stats renders the storage statistics of the named vec0 table.
func stats(name string) ([]string, error) {
	s, ok := vec0.Lookup(strings.TrimSpace(name))
	if !ok {
		return nil, fmt.Errorf("vec0_admin: no such vec0 table: %s", name)
	}
	st := s.Stats()
	return []string{
		fmt.Sprintf("rows:%d", st.Rows),
		fmt.Sprintf("chunks:%d", st.Chunks),
		fmt.Sprintf("deleted:%d", st.Deleted),
		fmt.Sprintf("partitions:%d", st.Partitions),
		fmt.Sprintf("chunk_size:%d", st.ChunkSize),
	}, nil
}
