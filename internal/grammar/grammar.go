// Package grammar implements the three primitive parser combinators
// (C7): Literal, Or, and Multiple, operating on a token stream and a
// cursor position.
package grammar

import "github.com/gianfrancodemarco/dumbdb/internal/token"

// Rule attempts to match starting at pos. On success it returns the
// matched value, the position just past the match, and true. On
// failure it returns (nil, pos, false).
type Rule func(tokens []token.Token, pos int) (value any, next int, ok bool)

// Literal matches a single token of the given kind, yielding its
// literal text.
func Literal(kind token.Kind) Rule {
	return func(tokens []token.Token, pos int) (any, int, bool) {
		if pos >= len(tokens) {
			return nil, pos, false
		}
		tok := tokens[pos]
		if tok.Kind != kind {
			return nil, pos, false
		}
		return tok.Literal, pos + 1, true
	}
}

// Or tries each rule in order and returns the first match.
func Or(rules ...Rule) Rule {
	return func(tokens []token.Token, pos int) (any, int, bool) {
		for _, rule := range rules {
			if value, next, ok := rule(tokens, pos); ok {
				return value, next, ok
			}
		}
		return nil, pos, false
	}
}

// Multiple applies rule one or more times, consuming an optional comma
// between successive applications. It fails — returns ok=false — on
// zero matches; the CREATE TABLE column list relies on this to reject
// an empty column list.
func Multiple(rule Rule) Rule {
	comma := Literal(token.COMMA)
	return func(tokens []token.Token, pos int) (any, int, bool) {
		var results []any
		current := pos
		for {
			value, next, ok := rule(tokens, current)
			if !ok {
				break
			}
			results = append(results, value)
			current = next

			if _, next, ok := comma(tokens, current); ok {
				current = next
			}
		}
		if len(results) == 0 {
			return nil, pos, false
		}
		return results, current, true
	}
}
