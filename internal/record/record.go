// Package record implements the on-log record codec (C1): encoding and
// decoding a single CSV-dialect log line, including the trailing
// tombstone column.
package record

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// DeletedColumn is the implicit trailing column every table header carries.
const DeletedColumn = "__deleted__"

// ErrArity is returned by Decode when a line's field count does not match
// the header arity. The reader of the table should treat this as corruption.
var ErrArity = fmt.Errorf("record: field count does not match header arity")

// Headers appends the implicit tombstone column to a table's declared
// column names.
func Headers(columns []string) []string {
	headers := make([]string, 0, len(columns)+1)
	headers = append(headers, columns...)
	headers = append(headers, DeletedColumn)
	return headers
}

// EncodeHeader encodes a table's header line (no tombstone flag, no
// trailing LF — callers append the line terminator themselves so that
// offset arithmetic is computed from the exact bytes written).
func EncodeHeader(headers []string) ([]byte, error) {
	return encodeLine(headers)
}

// Encode builds one data line: the cells in header order (tombstone
// excluded) followed by the literal tombstone flag. cells missing a
// header key encode as the empty string.
func Encode(headers []string, cells map[string]string, deleted bool) ([]byte, error) {
	fields := make([]string, 0, len(headers))
	for _, h := range headers {
		if h == DeletedColumn {
			continue
		}
		fields = append(fields, cells[h])
	}
	fields = append(fields, tombstoneLiteral(deleted))
	return encodeLine(fields)
}

// Decode splits one data line honoring CSV quoting rules and zips the
// resulting fields against headers. It ignores a trailing newline.
func Decode(headers []string, line []byte) (map[string]string, error) {
	line = bytes.TrimRight(line, "\r\n")

	reader := csv.NewReader(bytes.NewReader(line))
	reader.FieldsPerRecord = -1

	fields, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("record: decode: %w", err)
	}

	if len(fields) != len(headers) {
		return nil, fmt.Errorf("%w: want %d fields, got %d", ErrArity, len(headers), len(fields))
	}

	row := make(map[string]string, len(headers))
	for i, h := range headers {
		row[h] = fields[i]
	}
	return row, nil
}

// IsDeleted reports whether a decoded row carries the tombstone flag.
func IsDeleted(row map[string]string) bool {
	return row[DeletedColumn] == tombstoneLiteral(true)
}

func tombstoneLiteral(deleted bool) string {
	if deleted {
		return "True"
	}
	return "False"
}

func encodeLine(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(fields); err != nil {
		return nil, fmt.Errorf("record: encode: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("record: encode: %w", err)
	}
	// encoding/csv terminates every record with "\r\n"; the log format
	// requires a bare LF terminator so that byte offsets line up exactly
	// with what the hash index expects.
	out := bytes.TrimRight(buf.Bytes(), "\r\n")
	return out, nil
}
