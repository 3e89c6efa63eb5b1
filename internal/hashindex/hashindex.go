// Package hashindex implements the in-memory hash index (C3): a
// mapping from primary-key string to the byte range of its last
// non-tombstoned record in the owning table's log file.
package hashindex

import (
	"fmt"

	"github.com/gianfrancodemarco/dumbdb/internal/logfile"
	"github.com/gianfrancodemarco/dumbdb/internal/record"
)

// Offsets identifies one record's byte range in a log file.
type Offsets struct {
	Start, End int64
}

// ErrNotFound is returned by Get for a key with no current entry. It is
// internal to the storage core — the table layer translates it into an
// empty result set rather than propagating it (spec.md §4.3, §7).
var ErrNotFound = fmt.Errorf("hashindex: key not found")

// Index maps primary keys to their offset range in one table's log.
type Index struct {
	entries map[string]Offsets
}

// New returns an empty index.
func New() *Index {
	return &Index{entries: make(map[string]Offsets)}
}

// Set records the offset range for key, replacing any prior entry.
func (idx *Index) Set(key string, offsets Offsets) {
	idx.entries[key] = offsets
}

// Get returns the offset range for key, or ErrNotFound.
func (idx *Index) Get(key string) (Offsets, error) {
	offsets, ok := idx.entries[key]
	if !ok {
		return Offsets{}, ErrNotFound
	}
	return offsets, nil
}

// Delete removes key from the index. Deleting an absent key is
// tolerated silently — the engine may tombstone a key that was never
// indexed (e.g. a delete of a row it never saw via this index).
func (idx *Index) Delete(key string) {
	delete(idx.entries, key)
}

// Size returns the number of indexed keys.
func (idx *Index) Size() int {
	return len(idx.entries)
}

// BuildFromLog replays a table's log file in order and returns the
// index that results: for each record, a tombstone removes its key
// (absent keys tolerated), otherwise the key is set to the record's
// offsets. The last occurrence for any key wins, because later
// records are scanned after earlier ones.
func BuildFromLog(path string, headers []string) (*Index, error) {
	idx := New()

	err := logfile.Scan(path, func(entry logfile.Entry) error {
		row, err := record.Decode(headers, entry.Line)
		if err != nil {
			return fmt.Errorf("hashindex: build from %s: %w", path, err)
		}

		key := row["id"]
		if record.IsDeleted(row) {
			idx.Delete(key)
			return nil
		}
		idx.Set(key, Offsets{Start: entry.Start, End: entry.End})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return idx, nil
}
