// Package table implements a single table (C4): the pair of log file
// and hash index, with CRUD and compaction built on top of them.
package table

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gianfrancodemarco/dumbdb/internal/ast"
	"github.com/gianfrancodemarco/dumbdb/internal/hashindex"
	"github.com/gianfrancodemarco/dumbdb/internal/logfile"
	"github.com/gianfrancodemarco/dumbdb/internal/record"
)

const idColumn = "id"

// ErrForbiddenMutation is returned when an update's set-clause targets
// the id column.
var ErrForbiddenMutation = errors.New("table: update may not modify id")

// ErrMissingID is returned when an inserted row has no id cell.
var ErrMissingID = errors.New("table: row missing id")

// Table pairs a log file with its in-memory hash index.
type Table struct {
	Name    string
	Columns []string // user-declared columns, never includes __deleted__
	path    string
	index   *hashindex.Index
	log     *slog.Logger
}

// headers returns the full header row including the trailing
// __deleted__ column.
func (t *Table) headers() []string {
	return record.Headers(t.Columns)
}

// Create writes a new log file containing only the header line.
func Create(dir, name string, columns []string, log *slog.Logger) (*Table, error) {
	if len(columns) == 0 {
		columns = []string{idColumn}
	}
	path := logPath(dir, name)
	headers := record.Headers(columns)

	encoded, err := record.EncodeHeader(headers)
	if err != nil {
		return nil, fmt.Errorf("table: create %s: %w", name, err)
	}
	if err := logfile.Create(path, encoded); err != nil {
		return nil, fmt.Errorf("table: create %s: %w", name, err)
	}

	log.Info("table created", "table", name, "columns", columns)
	return &Table{Name: name, Columns: columns, path: path, index: hashindex.New(), log: log}, nil
}

// Open rebuilds a table's index from its existing log file.
func Open(dir, name string, columns []string, log *slog.Logger) (*Table, error) {
	path := logPath(dir, name)
	idx, err := hashindex.BuildFromLog(path, record.Headers(columns))
	if err != nil {
		return nil, fmt.Errorf("table: open %s: %w", name, err)
	}
	log.Info("table index rebuilt", "table", name, "keys", idx.Size())
	return &Table{Name: name, Columns: columns, path: path, index: idx, log: log}, nil
}

// Drop unlinks the log file. The in-memory index is discarded by the
// caller along with the Table value itself.
func (t *Table) Drop() error {
	if err := os.Remove(t.path); err != nil {
		return fmt.Errorf("table: drop %s: %w", t.Name, err)
	}
	t.log.Info("table dropped", "table", t.Name)
	return nil
}

// Insert appends a new record with a False tombstone and sets the
// index entry for its id.
func (t *Table) Insert(row map[string]string) error {
	id, ok := row[idColumn]
	if !ok || id == "" {
		return ErrMissingID
	}

	line, err := record.Encode(t.headers(), row, false)
	if err != nil {
		return fmt.Errorf("table: insert into %s: %w", t.Name, err)
	}
	start, end, err := logfile.Append(t.path, line)
	if err != nil {
		return fmt.Errorf("table: insert into %s: %w", t.Name, err)
	}
	t.index.Set(id, hashindex.Offsets{Start: start, End: end})
	return nil
}

// Query runs the indexed path when where is exactly "id = <literal>"
// at the top level, otherwise the scan path. It returns the surviving
// rows with the __deleted__ column dropped.
func (t *Table) Query(where ast.WhereCondition) ([]map[string]string, error) {
	if key, ok := indexedKey(where); ok {
		return t.queryIndexed(key, where)
	}
	return t.queryScan(where)
}

// queryIndexed looks the key up in the index; a miss is an empty
// result, never an error (spec.md §4.3). The predicate is re-applied
// even though it is trivially true on this path, keeping the code
// uniform with the scan path.
func (t *Table) queryIndexed(key string, where ast.WhereCondition) ([]map[string]string, error) {
	offsets, err := t.index.Get(key)
	if err != nil {
		if errors.Is(err, hashindex.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("table: query %s: %w", t.Name, err)
	}

	raw, err := logfile.ReadAt(t.path, offsets.Start, offsets.End)
	if err != nil {
		return nil, fmt.Errorf("table: query %s: %w", t.Name, err)
	}
	row, err := record.Decode(t.headers(), raw)
	if err != nil {
		return nil, fmt.Errorf("table: query %s: corrupt indexed record: %w", t.Name, err)
	}

	ok, err := evaluate(where, row, true)
	if err != nil {
		return nil, fmt.Errorf("table: query %s: %w", t.Name, err)
	}
	if !ok {
		return nil, nil
	}
	return []map[string]string{dropDeleted(row)}, nil
}

// queryScan materializes the whole table into a last-write-wins map
// keyed by id, drops tombstoned rows, then applies where.
func (t *Table) queryScan(where ast.WhereCondition) ([]map[string]string, error) {
	live, order, err := t.materialize()
	if err != nil {
		return nil, fmt.Errorf("table: query %s: %w", t.Name, err)
	}

	rows := make([]map[string]string, 0, len(order))
	for _, id := range order {
		row, ok := live[id]
		if !ok {
			continue
		}
		matched, err := evaluate(where, row, false)
		if err != nil {
			return nil, fmt.Errorf("table: query %s: %w", t.Name, err)
		}
		if matched {
			rows = append(rows, dropDeleted(row))
		}
	}
	return rows, nil
}

// materialize replays the log into a last-write-wins row map keyed by
// id, and the insertion order of keys as first observed, for
// reproducible iteration order. Ids whose last record is a tombstone
// are removed from the map but stay in the order slice, so callers
// skip order entries that have no row in the map.
func (t *Table) materialize() (map[string]map[string]string, []string, error) {
	live := make(map[string]map[string]string)
	var order []string

	err := logfile.Scan(t.path, func(entry logfile.Entry) error {
		row, err := record.Decode(t.headers(), entry.Line)
		if err != nil {
			return err
		}
		id := row[idColumn]
		if _, seen := live[id]; !seen {
			order = append(order, id)
		}
		live[id] = row
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for id, row := range live {
		if record.IsDeleted(row) {
			delete(live, id)
		}
	}
	return live, order, nil
}

// Update appends a new, non-tombstoned record per matching row with
// cells merged from the original row and the set-clause, and updates
// the index. It rejects a set-clause touching id.
func (t *Table) Update(set map[string]string, where ast.WhereCondition) (int, error) {
	if _, ok := set[idColumn]; ok {
		return 0, ErrForbiddenMutation
	}

	matches, err := t.Query(where)
	if err != nil {
		return 0, fmt.Errorf("table: update %s: %w", t.Name, err)
	}

	for _, row := range matches {
		merged := make(map[string]string, len(row)+len(set))
		for k, v := range row {
			merged[k] = v
		}
		for k, v := range set {
			merged[k] = v
		}

		line, err := record.Encode(t.headers(), merged, false)
		if err != nil {
			return 0, fmt.Errorf("table: update %s: %w", t.Name, err)
		}
		start, end, err := logfile.Append(t.path, line)
		if err != nil {
			return 0, fmt.Errorf("table: update %s: %w", t.Name, err)
		}
		t.index.Set(merged[idColumn], hashindex.Offsets{Start: start, End: end})
	}
	return len(matches), nil
}

// Delete appends a tombstoned copy of each matching row and removes
// its index entry.
func (t *Table) Delete(where ast.WhereCondition) (int, error) {
	matches, err := t.Query(where)
	if err != nil {
		return 0, fmt.Errorf("table: delete from %s: %w", t.Name, err)
	}

	for _, row := range matches {
		line, err := record.Encode(t.headers(), row, true)
		if err != nil {
			return 0, fmt.Errorf("table: delete from %s: %w", t.Name, err)
		}
		if _, _, err := logfile.Append(t.path, line); err != nil {
			return 0, fmt.Errorf("table: delete from %s: %w", t.Name, err)
		}
		t.index.Delete(row[idColumn])
	}
	return len(matches), nil
}

// Compact rewrites the log to contain only the header plus the last
// non-tombstoned record per id, then rebuilds the index from the new
// file. Compacting an already-compact file is a no-op byte-for-byte.
func (t *Table) Compact() error {
	live, order, err := t.materialize()
	if err != nil {
		return fmt.Errorf("table: compact %s: %w", t.Name, err)
	}

	tmp := t.path + ".compact"
	headers := t.headers()
	encodedHeader, err := record.EncodeHeader(headers)
	if err != nil {
		return fmt.Errorf("table: compact %s: %w", t.Name, err)
	}
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("table: compact %s: %w", t.Name, err)
	}
	if err := logfile.Create(tmp, encodedHeader); err != nil {
		return fmt.Errorf("table: compact %s: %w", t.Name, err)
	}

	newIndex := hashindex.New()
	for _, id := range order {
		row, ok := live[id]
		if !ok {
			continue
		}
		line, err := record.Encode(headers, row, false)
		if err != nil {
			return fmt.Errorf("table: compact %s: %w", t.Name, err)
		}
		start, end, err := logfile.Append(tmp, line)
		if err != nil {
			return fmt.Errorf("table: compact %s: %w", t.Name, err)
		}
		newIndex.Set(id, hashindex.Offsets{Start: start, End: end})
	}

	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("table: compact %s: %w", t.Name, err)
	}
	t.index = newIndex
	t.log.Info("table compacted", "table", t.Name, "rows", newIndex.Size())
	return nil
}

// fileBytes returns the raw log file contents, for tests that assert
// compaction is byte-for-byte idempotent.
func (t *Table) fileBytes() ([]byte, error) {
	return os.ReadFile(t.path)
}

// eachLine yields every raw data line (header excluded) in the log,
// for tests that count surviving lines after compaction.
func (t *Table) eachLine(fn func([]byte) error) error {
	return logfile.Scan(t.path, func(entry logfile.Entry) error {
		return fn(entry.Line)
	})
}

func dropDeleted(row map[string]string) map[string]string {
	out := make(map[string]string, len(row)-1)
	for k, v := range row {
		if k == record.DeletedColumn {
			continue
		}
		out[k] = v
	}
	return out
}

// indexedKey reports whether where is exactly "id = <literal>" at the
// top level, returning the literal with surrounding single-quotes
// stripped.
func indexedKey(where ast.WhereCondition) (string, bool) {
	eq, ok := where.(ast.EqualsCondition)
	if !ok || eq.Column != idColumn {
		return "", false
	}
	return stripQuotes(eq.Value), true
}

func logPath(dir, name string) string {
	return filepath.Join(dir, name+".csv")
}
