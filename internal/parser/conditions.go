package parser

import (
	"github.com/gianfrancodemarco/dumbdb/internal/ast"
	"github.com/gianfrancodemarco/dumbdb/internal/grammar"
	"github.com/gianfrancodemarco/dumbdb/internal/token"
)

// whereCondition tries a conjunction first and falls back to a simple
// condition. This order is required: parsing a simple condition first
// would consume just "<ident> = <literal>" and leave a trailing
// "AND ..." unconsumed instead of recognizing the whole conjunction.
func whereCondition(tokens []token.Token, pos int) (ast.WhereCondition, int, bool) {
	if cond, next, ok := conjunction(tokens, pos); ok {
		return cond, next, true
	}
	return simpleCondition(tokens, pos)
}

// simpleCondition is "<ident> = <literal>".
func simpleCondition(tokens []token.Token, pos int) (ast.WhereCondition, int, bool) {
	col, next, ok := grammar.Literal(token.IDENTIFIER)(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.EQ)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	val, next, ok := grammar.Literal(token.LITERAL)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return ast.EqualsCondition{Column: col.(string), Value: val.(string)}, next, true
}

// conjunction is "<simple> AND (<conjunction> | <simple>)", right
// associative: the right-hand side is re-tried through whereCondition
// so a three-or-more term chain nests as Equals AND (Equals AND Equals).
func conjunction(tokens []token.Token, pos int) (ast.WhereCondition, int, bool) {
	left, next, ok := simpleCondition(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.AND)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	right, next, ok := whereCondition(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return ast.AndCondition{Left: left, Right: right}, next, true
}

// optionalWhere consumes "[ WHERE <cond> ]" and returns (nil, pos, true)
// when no WHERE clause is present — absence is not a parse failure.
func optionalWhere(tokens []token.Token, pos int) (ast.WhereCondition, int, bool) {
	_, next, ok := grammar.Literal(token.WHERE)(tokens, pos)
	if !ok {
		return nil, pos, true
	}
	cond, next, ok := whereCondition(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return cond, next, true
}
