package table

import (
	"fmt"

	"github.com/gianfrancodemarco/dumbdb/internal/ast"
)

// evaluate runs a WHERE predicate against a decoded row. indexed
// distinguishes the two paths' treatment of a missing column: under
// the scan path a missing column makes the condition false; under the
// indexed path the row was fully decoded from the log, so a missing
// column means corruption and evaluate returns an error instead
// (spec.md §4.10).
//
// A nil condition (no WHERE clause) always matches.
func evaluate(where ast.WhereCondition, row map[string]string, indexed bool) (bool, error) {
	if where == nil {
		return true, nil
	}

	switch cond := where.(type) {
	case ast.EqualsCondition:
		value, ok := row[cond.Column]
		if !ok {
			if indexed {
				return false, fmt.Errorf("table: missing column %q in indexed record", cond.Column)
			}
			return false, nil
		}
		return value == stripQuotes(cond.Value), nil

	case ast.AndCondition:
		left, err := evaluate(cond.Left, row, indexed)
		if err != nil {
			return false, err
		}
		if !left {
			return false, nil
		}
		return evaluate(cond.Right, row, indexed)

	default:
		return false, fmt.Errorf("table: unsupported condition %T", where)
	}
}

// stripQuotes removes one level of surrounding single-quotes from a
// literal's textual value, with no numeric coercion: age='20' and
// age=20 compare equal only because both tokenize to the identical
// textual value "20".
func stripQuotes(value string) string {
	if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
		return value[1 : len(value)-1]
	}
	return value
}
