// Package catalog implements the database/table directory (C5): the
// active-database selector and the per-table index cache, with the
// precondition guards spec.md §9 calls for in place of the source's
// decorators.
package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gianfrancodemarco/dumbdb/internal/record"
	"github.com/gianfrancodemarco/dumbdb/internal/table"
)

const tablesDir = "tables"

var (
	ErrNoDatabaseSelected = errors.New("catalog: no database selected")
	ErrDatabaseExists     = errors.New("catalog: database already exists")
	ErrDatabaseNotExists  = errors.New("catalog: database does not exist")
	ErrTableExists        = errors.New("catalog: table already exists")
	ErrTableNotExists     = errors.New("catalog: table does not exist")
)

// Catalog owns the root directory, the selected database, and the
// in-memory table->index cache for that database. Only one database
// is open at a time, matching the single-process, single-selector
// model of spec.md §4.5.
type Catalog struct {
	root    string
	current string
	tables  map[string]*table.Table
	log     *slog.Logger
}

// New returns a Catalog rooted at root, with no database selected.
func New(root string, log *slog.Logger) *Catalog {
	return &Catalog{root: root, tables: make(map[string]*table.Table), log: log}
}

func (c *Catalog) databaseDir(name string) string {
	return filepath.Join(c.root, name)
}

func (c *Catalog) tablesDir(name string) string {
	return filepath.Join(c.databaseDir(name), tablesDir)
}

// requireDatabaseSelected guards every table-level operation.
func (c *Catalog) requireDatabaseSelected() error {
	if c.current == "" {
		return ErrNoDatabaseSelected
	}
	return nil
}

func (c *Catalog) requireTableExists(name string) error {
	if _, ok := c.tables[name]; !ok {
		return fmt.Errorf("%w: %s", ErrTableNotExists, name)
	}
	return nil
}

func (c *Catalog) requireTableNotExists(name string) error {
	if _, ok := c.tables[name]; ok {
		return fmt.Errorf("%w: %s", ErrTableExists, name)
	}
	return nil
}

// CreateDatabase makes a new database directory with its tables/
// subdirectory. It fails if the database already exists.
func (c *Catalog) CreateDatabase(name string) error {
	dir := c.tablesDir(name)
	if _, err := os.Stat(c.databaseDir(name)); err == nil {
		return fmt.Errorf("%w: %s", ErrDatabaseExists, name)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("catalog: create database %s: %w", name, err)
	}
	c.log.Info("database created", "database", name)
	return nil
}

// ShowDatabases lists every database directory under the root, sorted
// by name for reproducible output.
func (c *Catalog) ShowDatabases() ([]string, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: show databases: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// DropDatabase removes a database directory recursively. It fails if
// the database does not exist. Dropping the currently selected
// database clears the selection.
func (c *Catalog) DropDatabase(name string) error {
	if _, err := os.Stat(c.databaseDir(name)); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrDatabaseNotExists, name)
	}
	if err := os.RemoveAll(c.databaseDir(name)); err != nil {
		return fmt.Errorf("catalog: drop database %s: %w", name, err)
	}
	if c.current == name {
		c.current = ""
		c.tables = make(map[string]*table.Table)
	}
	c.log.Info("database dropped", "database", name)
	return nil
}

// UseDatabase selects name as the current database and rebuilds every
// table's index from its log file (spec.md §4.5, §7 "SUPPLEMENTED
// FEATURES": index caching across use-database).
func (c *Catalog) UseDatabase(name string) error {
	dir := c.databaseDir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrDatabaseNotExists, name)
	}

	entries, err := os.ReadDir(c.tablesDir(name))
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("catalog: use database %s: %w", name, err)
		}
		entries = nil
	}

	tables := make(map[string]*table.Table, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		tableName := tableNameFromFile(entry.Name())
		if tableName == "" {
			continue
		}
		columns, err := peekColumns(c.tablesDir(name), tableName)
		if err != nil {
			return fmt.Errorf("catalog: use database %s: %w", name, err)
		}
		t, err := table.Open(c.tablesDir(name), tableName, columns, c.log)
		if err != nil {
			return fmt.Errorf("catalog: use database %s: %w", name, err)
		}
		tables[tableName] = t
	}

	c.current = name
	c.tables = tables
	c.log.Info("database selected", "database", name, "tables", len(tables))
	return nil
}

// ShowTables lists the tables of the current database, sorted by name.
func (c *Catalog) ShowTables() ([]string, error) {
	if err := c.requireDatabaseSelected(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateTable creates a table in the current database.
func (c *Catalog) CreateTable(name string, columns []string) error {
	if err := c.requireDatabaseSelected(); err != nil {
		return err
	}
	if err := c.requireTableNotExists(name); err != nil {
		return err
	}
	t, err := table.Create(c.tablesDir(c.current), name, columns, c.log)
	if err != nil {
		return err
	}
	c.tables[name] = t
	return nil
}

// DropTable removes a table's log file and its cache entry.
func (c *Catalog) DropTable(name string) error {
	if err := c.requireDatabaseSelected(); err != nil {
		return err
	}
	if err := c.requireTableExists(name); err != nil {
		return err
	}
	if err := c.tables[name].Drop(); err != nil {
		return err
	}
	delete(c.tables, name)
	return nil
}

// Table returns the named table of the current database, after
// running the database-selected and table-exists preconditions.
func (c *Catalog) Table(name string) (*table.Table, error) {
	if err := c.requireDatabaseSelected(); err != nil {
		return nil, err
	}
	if err := c.requireTableExists(name); err != nil {
		return nil, err
	}
	return c.tables[name], nil
}

// peekColumns reads a table's header line and returns its
// user-declared columns, stripping the trailing __deleted__ column,
// so UseDatabase can reopen a table without the caller restating its
// schema.
func peekColumns(dir, name string) ([]string, error) {
	path := filepath.Join(dir, name+".csv")
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read header of %s: %w", name, err)
	}
	defer file.Close()

	line, err := bufio.NewReader(file).ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("catalog: read header of %s: %w", name, err)
	}

	reader := csv.NewReader(strings.NewReader(strings.TrimRight(line, "\r\n")))
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: parse header of %s: %w", name, err)
	}

	columns := make([]string, 0, len(headers))
	for _, h := range headers {
		if h == record.DeletedColumn {
			continue
		}
		columns = append(columns, h)
	}
	return columns, nil
}

func tableNameFromFile(filename string) string {
	const suffix = ".csv"
	if len(filename) <= len(suffix) || filename[len(filename)-len(suffix):] != suffix {
		return ""
	}
	return filename[:len(filename)-len(suffix)]
}
