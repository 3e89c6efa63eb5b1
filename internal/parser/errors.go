package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gianfrancodemarco/dumbdb/internal/token"
)

// grammars names the grammar of every statement parser, used to build
// the "expected continuations" error text.
var grammars = map[string]string{
	"CREATE DATABASE": "CREATE DATABASE <ident>;",
	"SHOW DATABASES":  "SHOW DATABASES;",
	"DROP DATABASE":   "DROP DATABASE <ident>;",
	"USE":             "USE <ident>;",
	"CREATE TABLE":    "CREATE TABLE <ident> (<ident>, ...);",
	"SHOW TABLES":     "SHOW TABLES;",
	"DROP TABLE":      "DROP TABLE <ident>;",
	"SELECT":          "SELECT (* | <ident>, ...) FROM <ident> [WHERE <cond>];",
	"INSERT":          "INSERT INTO <ident> (<ident>, ...) VALUES (<ident>, ... | <literal>, ...);",
	"UPDATE":          "UPDATE <ident> SET <ident> = <literal>, ... [WHERE <cond>];",
	"DELETE":          "DELETE FROM <ident> [WHERE <cond>];",
}

// grammarKeyDispatch and grammarKeySecondDispatch mirror dispatch and
// secondTokenDispatch in parser.go, but name a grammars key instead of
// a parseFunc, so unexpectedToken can report only the statements still
// reachable from the tokens actually seen, instead of all of them.
var grammarKeyDispatch = map[token.Kind]string{
	token.USE:    "USE",
	token.SELECT: "SELECT",
	token.INSERT: "INSERT",
	token.UPDATE: "UPDATE",
	token.DELETE: "DELETE",
}

var grammarKeySecondDispatch = map[token.Kind]map[token.Kind]string{
	token.CREATE: {
		token.DATABASE: "CREATE DATABASE",
		token.TABLE:    "CREATE TABLE",
	},
	token.DROP: {
		token.DATABASE: "DROP DATABASE",
		token.TABLE:    "DROP TABLE",
	},
	token.SHOW: {
		token.DATABASES: "SHOW DATABASES",
		token.TABLES:    "SHOW TABLES",
	},
}

// reachableGrammarKeys narrows grammars down to whichever statement(s)
// the tokens' first (and, where needed, second) token could still
// belong to. An unrecognized first token rules nothing out, since no
// statement was ever selected.
func reachableGrammarKeys(tokens []token.Token) []string {
	if len(tokens) == 0 || tokens[0].Kind == token.EOF {
		return allGrammarKeys()
	}

	first := tokens[0].Kind
	if key, ok := grammarKeyDispatch[first]; ok {
		return []string{key}
	}

	bySecond, ok := grammarKeySecondDispatch[first]
	if !ok {
		return allGrammarKeys()
	}
	if len(tokens) < 2 {
		return secondDispatchKeys(bySecond)
	}
	if key, ok := bySecond[tokens[1].Kind]; ok {
		return []string{key}
	}
	return secondDispatchKeys(bySecond)
}

func secondDispatchKeys(bySecond map[token.Kind]string) []string {
	keys := make([]string, 0, len(bySecond))
	for _, key := range bySecond {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func allGrammarKeys() []string {
	keys := make([]string, 0, len(grammars))
	for key := range grammars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// unexpectedToken reports a syntax error at tokens[pos], naming the
// offending position and enumerating the grammars still reachable
// from the start of the statement.
func unexpectedToken(tokens []token.Token, pos int) error {
	var got string
	var offset int
	if pos < len(tokens) {
		got = tokens[pos].Literal
		offset = tokens[pos].Offset
		if got == "" {
			got = tokens[pos].Kind.String()
		}
	} else {
		got = "EOF"
		if len(tokens) > 0 {
			offset = tokens[len(tokens)-1].Offset
		}
	}

	var help []string
	for _, key := range reachableGrammarKeys(tokens) {
		help = append(help, grammars[key])
	}

	return fmt.Errorf("parser: unexpected token %q at position %d (offset %d); expected one of: %s",
		got, pos, offset, strings.Join(help, " | "))
}
