package applog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreatesLogFileUnderDir(t *testing.T) {
	dir := t.TempDir()

	log, err := New(dir)
	require.NoError(t, err)
	require.NotNil(t, log)

	assert.FileExists(t, filepath.Join(dir, "engine.log"))
}

func TestNew_DebugRecordsLandInFileOnly(t *testing.T) {
	dir := t.TempDir()

	log, err := New(dir)
	require.NoError(t, err)

	log.Debug("rebuilt index", "table", "users", "keys", 3)

	contents, err := os.ReadFile(filepath.Join(dir, "engine.log"))
	require.NoError(t, err)
	assert.Contains(t, string(contents), "rebuilt index")
	assert.Contains(t, string(contents), "table=users")
}

func TestNew_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	_, err := New(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)
}
