package logfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_WritesHeaderWithTerminator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	require.NoError(t, Create(path, []byte("id,name,__deleted__")))

	var got []Entry
	require.NoError(t, Scan(path, func(e Entry) error {
		got = append(got, e)
		return nil
	}))
	assert.Empty(t, got)
}

func TestCreate_FailsIfFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	require.NoError(t, Create(path, []byte("id,__deleted__")))
	err := Create(path, []byte("id,__deleted__"))
	assert.Error(t, err)
}

func TestAppend_ReturnsExactByteRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	require.NoError(t, Create(path, []byte("id,name,__deleted__")))

	start, end, err := Append(path, []byte("1,John,False"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("id,name,__deleted__\n")), start)
	assert.Equal(t, start+int64(len("1,John,False\n")), end)

	raw, err := ReadAt(path, start, end)
	require.NoError(t, err)
	assert.Equal(t, "1,John,False\n", string(raw))
}

func TestAppend_OffsetsAdvanceAcrossMultipleRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	require.NoError(t, Create(path, []byte("id,__deleted__")))

	s1, e1, err := Append(path, []byte("1,False"))
	require.NoError(t, err)
	s2, e2, err := Append(path, []byte("2,False"))
	require.NoError(t, err)

	assert.Equal(t, e1, s2)

	raw1, err := ReadAt(path, s1, e1)
	require.NoError(t, err)
	assert.Equal(t, "1,False\n", string(raw1))

	raw2, err := ReadAt(path, s2, e2)
	require.NoError(t, err)
	assert.Equal(t, "2,False\n", string(raw2))
}

func TestScan_YieldsDataLinesInOrderWithOffsets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	require.NoError(t, Create(path, []byte("id,__deleted__")))

	s1, e1, err := Append(path, []byte("1,False"))
	require.NoError(t, err)
	s2, e2, err := Append(path, []byte("2,True"))
	require.NoError(t, err)

	var entries []Entry
	require.NoError(t, Scan(path, func(e Entry) error {
		entries = append(entries, e)
		return nil
	}))

	require.Len(t, entries, 2)
	assert.Equal(t, s1, entries[0].Start)
	assert.Equal(t, e1, entries[0].End)
	assert.Equal(t, "1,False\n", string(entries[0].Line))
	assert.Equal(t, s2, entries[1].Start)
	assert.Equal(t, e2, entries[1].End)
	assert.Equal(t, "2,True\n", string(entries[1].Line))
}

func TestScan_MissingFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	var called bool
	err := Scan(path, func(Entry) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestScan_HeaderOnlyFileYieldsNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	require.NoError(t, Create(path, []byte("id,__deleted__")))

	var called bool
	require.NoError(t, Scan(path, func(Entry) error {
		called = true
		return nil
	}))
	assert.False(t, called)
}
