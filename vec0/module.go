package vec0

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/sqlite-vec0/knn"
	"github.com/viant/sqlite-vec0/schema"
	"github.com/viant/sqlite-vec0/store"
	"modernc.org/sqlite/vtab"
)

// ModuleName is the name used in CREATE VIRTUAL TABLE ... USING vec0(...).
const ModuleName = "vec0"

// Option configures the module.
type Option func(m *Module) error

// WithConfig sets the store defaults applied to tables created afterwards.
// Table options still take precedence.
func WithConfig(config store.Config) Option {
	return func(m *Module) error {
		if err := config.Validate(); err != nil {
			return err
		}
		m.config = config
		return nil
	}
}

// WithLogger routes module logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Module) error {
		if logger == nil {
			m.logger = NoopLogger()
			return nil
		}
		m.logger = &Logger{Logger: logger}
		return nil
	}
}

// WithMetrics registers knn query metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(m *Module) error {
		metrics, err := knn.NewMetrics(reg)
		if err != nil {
			return err
		}
		m.metrics = metrics
		return nil
	}
}

// ErrTableInUse reports a CREATE whose table name is held by an open
// connection of another database in this process.
var ErrTableInUse = errors.New("vec0: table name is in use by another open database")

// Module implements vtab.Module for vec0 tables. The driver keeps one
// module per name for the whole process, so a single Module serves every
// connection and owns the stores of all tables.
type Module struct {
	mu      sync.RWMutex
	config  store.Config
	logger  *Logger
	metrics *knn.Metrics
	tables  map[string]*entry
}

var module = &Module{
	config: store.DefaultConfig(),
	logger: NoopLogger(),
	tables: map[string]*entry{},
}

// Register installs the vec0 module for connections opened after the call
// and applies opts. Repeated calls only update the options.
func Register(db *sql.DB, opts ...Option) error {
	if err := module.configure(opts...); err != nil {
		return err
	}
	if err := vtab.RegisterModule(db, ModuleName, module); err != nil {
		if !strings.Contains(err.Error(), "already registered") {
			return err
		}
	}
	return nil
}

// Lookup returns the store behind a table name such as "main.items" or
// "items". It is meant for tooling such as the admin table.
func Lookup(name string) (*store.Store, bool) {
	return module.lookup(name)
}

func (m *Module) configure(opts ...Option) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return err
		}
	}
	return nil
}

// Create parses the definition, declares the host columns and registers a
// fresh store. A failing definition leaves nothing behind. Stores are keyed
// by schema and table name only: the driver does not tell a module which
// database file a connection belongs to, so a name still connected in
// another open database is refused rather than shared.
func (m *Module) Create(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.open(ctx, args, true)
}

// Connect attaches to an existing table. The store is shared with other
// connections of the same process; a table created by another process
// starts empty.
func (m *Module) Connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.open(ctx, args, false)
}

func (m *Module) open(ctx vtab.Context, args []string, create bool) (vtab.Table, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("vec0: expected at least 3 args, got %d", len(args))
	}
	def, err := schema.Parse(strings.Join(args[3:], ","))
	if err != nil {
		return nil, err
	}
	if err := ctx.EnableConstraintSupport(); err != nil {
		return nil, fmt.Errorf("vec0: EnableConstraintSupport failed: %w", err)
	}
	if err := ctx.Declare(declaration(args[2], def)); err != nil {
		return nil, err
	}
	name := qualify(args[1], args[2])

	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.tables[name]
	if create && ok && e.refs > 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableInUse, name)
	}
	if create || !ok {
		s, err := store.New(def, m.config)
		if err != nil {
			return nil, err
		}
		e = &entry{name: name, store: s}
		m.tables[name] = e
	}
	e.refs++
	logger := m.logger.WithTable(name)
	if create {
		logger.Debug("table created", "columns", def.Len(), "chunk_size", e.store.Config().ChunkSize)
	} else {
		logger.Debug("table connected", "refs", e.refs)
	}
	return &Table{
		module:  m,
		entry:   e,
		schema:  def,
		logger:  logger,
		metrics: m.metrics,
	}, nil
}

func (m *Module) lookup(name string) (*store.Store, bool) {
	if !strings.Contains(name, ".") {
		name = qualify("main", name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.tables[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return e.store, true
}

// release drops one connection's reference. The store outlives its last
// connection, since the pool may reopen one at any time; only a drop
// removes it.
func (m *Module) release(e *entry, drop bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.refs > 0 {
		e.refs--
	}
	if current, ok := m.tables[e.name]; ok && current == e && drop {
		delete(m.tables, e.name)
	}
}

// declaration renders the host table declaration: the declared columns
// followed by the hidden distance and k columns.
func declaration(table string, def *schema.Table) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(quoteIdent(table))
	sb.WriteString("(")
	for i, col := range def.Columns() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quoteIdent(col.Name))
		sb.WriteString(" ")
		sb.WriteString(col.SQLType())
	}
	sb.WriteString(`, "distance" REAL HIDDEN, "k" INTEGER HIDDEN)`)
	return sb.String()
}

func qualify(db, table string) string {
	return strings.ToLower(db + "." + table)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
