// Package engine implements the executor (C9): a closed switch over
// AST variants, each arm calling exactly one catalog or table method
// and wrapping the outcome in a uniform result envelope.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gianfrancodemarco/dumbdb/internal/ast"
	"github.com/gianfrancodemarco/dumbdb/internal/catalog"
	"github.com/gianfrancodemarco/dumbdb/internal/parser"
	"github.com/gianfrancodemarco/dumbdb/internal/table"
)

// Status is the outcome of a single statement.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the uniform envelope every statement produces: status, the
// result rows (for SELECT/SHOW), elapsed time, and a human-readable
// message (spec.md §4.9, §6).
type Result struct {
	Status  Status
	Rows    []map[string]string
	Elapsed time.Duration
	Message string
}

// Engine owns a catalog and dispatches parsed statements to it. It
// performs no schema validation beyond what the catalog enforces, and
// never reorders or optimizes (spec.md §4.9).
type Engine struct {
	catalog *catalog.Catalog
	log     *slog.Logger

	defaultColumns       []string
	autoCompactThreshold int
	writesSinceCompact   map[string]int
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithDefaultColumns sets the column list used when a CREATE TABLE
// statement carries no declared columns. The grammar always supplies at
// least one column, so statements run through Execute never use it.
func WithDefaultColumns(columns []string) Option {
	return func(e *Engine) { e.defaultColumns = columns }
}

// WithAutoCompactThreshold enables automatic compaction of a table
// once it has accumulated at least n writes (inserts, updates, or
// deletes) since the last compaction. A non-positive n disables it.
func WithAutoCompactThreshold(n int) Option {
	return func(e *Engine) { e.autoCompactThreshold = n }
}

// New returns an Engine rooted at root with no database selected.
func New(root string, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		catalog:            catalog.New(root, log),
		log:                log,
		defaultColumns:     []string{"id"},
		writesSinceCompact: make(map[string]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute parses and runs a single statement.
func (e *Engine) Execute(statement string) Result {
	start := time.Now()

	query, err := parser.Parse(statement)
	if err != nil {
		return Result{Status: StatusError, Elapsed: time.Since(start), Message: err.Error()}
	}

	result := e.dispatch(query)
	result.Elapsed = time.Since(start)
	return result
}

func (e *Engine) dispatch(query ast.Query) Result {
	switch q := query.(type) {
	case ast.CreateDatabaseQuery:
		return e.ack(e.catalog.CreateDatabase(q.Database), "database %s created", q.Database)

	case ast.ShowDatabasesQuery:
		names, err := e.catalog.ShowDatabases()
		return e.rows(names, err)

	case ast.DropDatabaseQuery:
		return e.ack(e.catalog.DropDatabase(q.Database), "database %s dropped", q.Database)

	case ast.UseDatabaseQuery:
		return e.ack(e.catalog.UseDatabase(q.Database), "database %s selected", q.Database)

	case ast.CreateTableQuery:
		columns := q.Columns
		if len(columns) == 0 {
			columns = e.defaultColumns
		}
		return e.ack(e.catalog.CreateTable(q.Table, columns), "table %s created", q.Table)

	case ast.ShowTablesQuery:
		names, err := e.catalog.ShowTables()
		return e.rows(names, err)

	case ast.DropTableQuery:
		return e.ack(e.catalog.DropTable(q.Table), "table %s dropped", q.Table)

	case ast.SelectQuery:
		return e.selectRows(q)

	case ast.InsertQuery:
		t, err := e.catalog.Table(q.Table)
		if err != nil {
			return errorResult(err)
		}
		if err := t.Insert(q.Row()); err != nil {
			return errorResult(err)
		}
		if err := e.maybeAutoCompact(q.Table, t, 1); err != nil {
			return errorResult(err)
		}
		return Result{Status: StatusSuccess, Message: fmt.Sprintf("1 row inserted into %s", q.Table)}

	case ast.UpdateQuery:
		t, err := e.catalog.Table(q.Table)
		if err != nil {
			return errorResult(err)
		}
		n, err := t.Update(q.Set(), q.Where)
		if err != nil {
			return errorResult(err)
		}
		if err := e.maybeAutoCompact(q.Table, t, n); err != nil {
			return errorResult(err)
		}
		return Result{Status: StatusSuccess, Message: fmt.Sprintf("%d row(s) updated in %s", n, q.Table)}

	case ast.DeleteQuery:
		t, err := e.catalog.Table(q.Table)
		if err != nil {
			return errorResult(err)
		}
		n, err := t.Delete(q.Where)
		if err != nil {
			return errorResult(err)
		}
		if err := e.maybeAutoCompact(q.Table, t, n); err != nil {
			return errorResult(err)
		}
		return Result{Status: StatusSuccess, Message: fmt.Sprintf("%d row(s) deleted from %s", n, q.Table)}

	default:
		return errorResult(fmt.Errorf("engine: unsupported statement %T", query))
	}
}

func (e *Engine) selectRows(q ast.SelectQuery) Result {
	t, err := e.catalog.Table(q.Table)
	if err != nil {
		return errorResult(err)
	}
	rows, err := t.Query(q.Where)
	if err != nil {
		return errorResult(err)
	}
	if q.Columns != nil {
		rows = project(rows, q.Columns)
	}
	return Result{Status: StatusSuccess, Rows: rows, Message: fmt.Sprintf("%d row(s) returned", len(rows))}
}

// project narrows each row to the requested columns, in the scan/index
// paths' already-established row order.
func project(rows []map[string]string, columns []string) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		projected := make(map[string]string, len(columns))
		for _, col := range columns {
			projected[col] = row[col]
		}
		out[i] = projected
	}
	return out
}

// maybeAutoCompact accounts n new writes against a table and compacts
// it once the configured threshold is reached, resetting the counter.
// It is a no-op when no threshold was configured.
func (e *Engine) maybeAutoCompact(name string, t *table.Table, writes int) error {
	if e.autoCompactThreshold <= 0 || writes <= 0 {
		return nil
	}
	e.writesSinceCompact[name] += writes
	if e.writesSinceCompact[name] < e.autoCompactThreshold {
		return nil
	}
	if err := t.Compact(); err != nil {
		return err
	}
	e.writesSinceCompact[name] = 0
	e.log.Info("table auto-compacted", "table", name)
	return nil
}

func (e *Engine) ack(err error, format string, args ...any) Result {
	if err != nil {
		return errorResult(err)
	}
	return Result{Status: StatusSuccess, Message: fmt.Sprintf(format, args...)}
}

func (e *Engine) rows(names []string, err error) Result {
	if err != nil {
		return errorResult(err)
	}
	rows := make([]map[string]string, len(names))
	for i, name := range names {
		rows[i] = map[string]string{"name": name}
	}
	return Result{Status: StatusSuccess, Rows: rows, Message: fmt.Sprintf("%d row(s) returned", len(rows))}
}

func errorResult(err error) Result {
	return Result{Status: StatusError, Message: err.Error()}
}
