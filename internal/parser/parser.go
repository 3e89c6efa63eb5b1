// Package parser turns a token stream into a typed ast.Query by
// selecting one statement grammar from the leading token(s) and running
// it (C8).
package parser

import (
	"github.com/gianfrancodemarco/dumbdb/internal/ast"
	"github.com/gianfrancodemarco/dumbdb/internal/lexer"
	"github.com/gianfrancodemarco/dumbdb/internal/token"
)

type parseFunc func(tokens []token.Token, pos int) (ast.Query, int, bool)

// dispatch resolves a statement's parser from its first token, and for
// CREATE/DROP/SHOW — which share a first token across two statements —
// from its second token as well.
var dispatch = map[token.Kind]parseFunc{
	token.USE:    parseUse,
	token.SELECT: parseSelect,
	token.INSERT: parseInsert,
	token.UPDATE: parseUpdate,
	token.DELETE: parseDelete,
}

var secondTokenDispatch = map[token.Kind]map[token.Kind]parseFunc{
	token.CREATE: {
		token.DATABASE: parseCreateDatabase,
		token.TABLE:    parseCreateTable,
	},
	token.DROP: {
		token.DATABASE: parseDropDatabase,
		token.TABLE:    parseDropTable,
	},
	token.SHOW: {
		token.DATABASES: parseShowDatabases,
		token.TABLES:    parseShowTables,
	},
}

// Parse tokenizes and parses a single statement, returning its typed
// AST node. The input must contain exactly one statement terminated by
// a semicolon, followed only by EOF.
func Parse(input string) (ast.Query, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses a pre-tokenized statement, dispatching on the
// first (and, where needed, second) token before running the matching
// statement grammar.
func ParseTokens(tokens []token.Token) (ast.Query, error) {
	if len(tokens) == 0 || tokens[0].Kind == token.EOF {
		return nil, unexpectedToken(tokens, 0)
	}

	parse, ok := resolve(tokens)
	if !ok {
		return nil, unexpectedToken(tokens, 0)
	}

	query, next, ok := parse(tokens, 0)
	if !ok {
		return nil, unexpectedToken(tokens, next)
	}
	if next >= len(tokens) || tokens[next].Kind != token.EOF {
		return nil, unexpectedToken(tokens, next)
	}
	return query, nil
}

func resolve(tokens []token.Token) (parseFunc, bool) {
	first := tokens[0].Kind
	if byFirst, ok := dispatch[first]; ok {
		return byFirst, true
	}
	if bySecond, ok := secondTokenDispatch[first]; ok {
		if len(tokens) < 2 {
			return nil, false
		}
		if parse, ok := bySecond[tokens[1].Kind]; ok {
			return parse, true
		}
	}
	return nil, false
}
