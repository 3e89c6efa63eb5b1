package table

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gianfrancodemarco/dumbdb/internal/ast"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func eq(col, val string) ast.WhereCondition {
	return ast.EqualsCondition{Column: col, Value: val}
}

func newTestTable(t *testing.T, columns []string) *Table {
	t.Helper()
	tbl, err := Create(t.TempDir(), "users", columns, testLogger())
	require.NoError(t, err)
	return tbl
}

func TestTable_InsertAndQueryByID(t *testing.T) {
	tbl := newTestTable(t, []string{"id", "name", "age"})

	require.NoError(t, tbl.Insert(map[string]string{"id": "1", "name": "John", "age": "20"}))

	rows, err := tbl.Query(eq("id", "1"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]string{"id": "1", "name": "John", "age": "20"}, rows[0])
}

func TestTable_QueryMissingIDIsEmpty(t *testing.T) {
	tbl := newTestTable(t, []string{"id"})
	rows, err := tbl.Query(eq("id", "9"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// S1 — insert/update/delete round-trip.
func TestTable_UpdateOverwritesCellsKeepingOthers(t *testing.T) {
	tbl := newTestTable(t, []string{"id", "name", "age"})
	require.NoError(t, tbl.Insert(map[string]string{"id": "1", "name": "John", "age": "20"}))

	n, err := tbl.Update(map[string]string{"age": "21"}, eq("id", "1"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := tbl.Query(eq("id", "1"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]string{"id": "1", "name": "John", "age": "21"}, rows[0])
}

func TestTable_UpdateRejectsIDMutation(t *testing.T) {
	tbl := newTestTable(t, []string{"id", "name"})
	require.NoError(t, tbl.Insert(map[string]string{"id": "1", "name": "John"}))

	_, err := tbl.Update(map[string]string{"id": "2"}, eq("id", "1"))
	assert.ErrorIs(t, err, ErrForbiddenMutation)
}

// S2 — tombstone hides prior value.
func TestTable_DeleteHidesRow(t *testing.T) {
	tbl := newTestTable(t, []string{"id", "name"})
	require.NoError(t, tbl.Insert(map[string]string{"id": "1", "name": "A"}))

	n, err := tbl.Delete(eq("id", "1"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := tbl.Query(eq("id", "1"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// S3 — reinsert after delete.
func TestTable_ReinsertAfterDelete(t *testing.T) {
	tbl := newTestTable(t, []string{"id", "name", "age"})
	require.NoError(t, tbl.Insert(map[string]string{"id": "1", "name": "A", "age": "10"}))
	_, err := tbl.Delete(eq("id", "1"))
	require.NoError(t, err)

	require.NoError(t, tbl.Insert(map[string]string{"id": "1", "name": "A", "age": "22"}))

	rows, err := tbl.Query(eq("id", "1"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "22", rows[0]["age"])
}

// S5 — conjunction WHERE.
func TestTable_ConjunctionWhereOnScanPath(t *testing.T) {
	tbl := newTestTable(t, []string{"id", "name", "age"})
	require.NoError(t, tbl.Insert(map[string]string{"id": "1", "name": "John", "age": "20"}))
	require.NoError(t, tbl.Insert(map[string]string{"id": "2", "name": "John", "age": "21"}))
	require.NoError(t, tbl.Insert(map[string]string{"id": "3", "name": "Jane", "age": "20"}))

	where := ast.AndCondition{Left: eq("name", "'John'"), Right: eq("age", "20")}
	rows, err := tbl.Query(where)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["id"])
}

func TestTable_ScanPathLastWriteWinsAndDropsTombstones(t *testing.T) {
	tbl := newTestTable(t, []string{"id", "name"})
	require.NoError(t, tbl.Insert(map[string]string{"id": "1", "name": "A"}))
	require.NoError(t, tbl.Insert(map[string]string{"id": "2", "name": "B"}))
	_, err := tbl.Update(map[string]string{"name": "A2"}, eq("id", "1"))
	require.NoError(t, err)
	_, err = tbl.Delete(eq("id", "2"))
	require.NoError(t, err)

	rows, err := tbl.Query(nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]string{"id": "1", "name": "A2"}, rows[0])
}

// S4 — compaction preserves semantics.
func TestTable_CompactPreservesQueryableRows(t *testing.T) {
	tbl := newTestTable(t, []string{"id", "name"})
	require.NoError(t, tbl.Insert(map[string]string{"id": "1", "name": "A"}))
	require.NoError(t, tbl.Insert(map[string]string{"id": "2", "name": "B"}))
	require.NoError(t, tbl.Insert(map[string]string{"id": "3", "name": "C"}))
	_, err := tbl.Update(map[string]string{"name": "A2"}, eq("id", "1"))
	require.NoError(t, err)
	_, err = tbl.Delete(eq("id", "2"))
	require.NoError(t, err)

	before, err := tbl.Query(nil)
	require.NoError(t, err)

	require.NoError(t, tbl.Compact())

	after, err := tbl.Query(nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, before, after)

	// eachLine skips the header, so the file holds lineCount+1 lines.
	var lineCount int
	require.NoError(t, tbl.eachLine(func([]byte) error { lineCount++; return nil }))
	assert.Equal(t, len(after)+1, lineCount+1)
}

func TestTable_CompactIsIdempotent(t *testing.T) {
	tbl := newTestTable(t, []string{"id", "name"})
	require.NoError(t, tbl.Insert(map[string]string{"id": "1", "name": "A"}))
	require.NoError(t, tbl.Insert(map[string]string{"id": "2", "name": "B"}))
	_, err := tbl.Delete(eq("id", "2"))
	require.NoError(t, err)

	require.NoError(t, tbl.Compact())
	firstPass, err := tbl.fileBytes()
	require.NoError(t, err)

	require.NoError(t, tbl.Compact())
	secondPass, err := tbl.fileBytes()
	require.NoError(t, err)

	assert.Equal(t, firstPass, secondPass)
}

// S6 — index rebuild on open.
func TestOpen_RebuildsIndexMatchingOriginal(t *testing.T) {
	dir := t.TempDir()
	columns := []string{"id", "name"}

	tbl, err := Create(dir, "users", columns, testLogger())
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(map[string]string{"id": "1", "name": "A"}))
	require.NoError(t, tbl.Insert(map[string]string{"id": "2", "name": "B"}))
	require.NoError(t, tbl.Insert(map[string]string{"id": "3", "name": "C"}))

	before, err := tbl.Query(eq("id", "2"))
	require.NoError(t, err)

	reopened, err := Open(dir, "users", columns, testLogger())
	require.NoError(t, err)

	after, err := reopened.Query(eq("id", "2"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTable_Drop(t *testing.T) {
	tbl := newTestTable(t, []string{"id"})
	require.NoError(t, tbl.Drop())
	assert.NoFileExists(t, filepath.Join(filepath.Dir(tbl.path), "users.csv"))
}
