package parser

import (
	"github.com/gianfrancodemarco/dumbdb/internal/ast"
	"github.com/gianfrancodemarco/dumbdb/internal/grammar"
	"github.com/gianfrancodemarco/dumbdb/internal/token"
)

var (
	ident   = grammar.Literal(token.IDENTIFIER)
	literal = grammar.Literal(token.LITERAL)
)

// parseCreateDatabase is "CREATE DATABASE <ident> ;".
func parseCreateDatabase(tokens []token.Token, pos int) (ast.Query, int, bool) {
	_, next, ok := grammar.Literal(token.CREATE)(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.DATABASE)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	name, next, ok := ident(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.SEMICOLON)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return ast.CreateDatabaseQuery{Database: name.(string)}, next, true
}

// parseShowDatabases is "SHOW DATABASES ;".
func parseShowDatabases(tokens []token.Token, pos int) (ast.Query, int, bool) {
	_, next, ok := grammar.Literal(token.SHOW)(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.DATABASES)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.SEMICOLON)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return ast.ShowDatabasesQuery{}, next, true
}

// parseDropDatabase is "DROP DATABASE <ident> ;".
func parseDropDatabase(tokens []token.Token, pos int) (ast.Query, int, bool) {
	_, next, ok := grammar.Literal(token.DROP)(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.DATABASE)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	name, next, ok := ident(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.SEMICOLON)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return ast.DropDatabaseQuery{Database: name.(string)}, next, true
}

// parseUse is "USE <ident> ;".
func parseUse(tokens []token.Token, pos int) (ast.Query, int, bool) {
	_, next, ok := grammar.Literal(token.USE)(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	name, next, ok := ident(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.SEMICOLON)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return ast.UseDatabaseQuery{Database: name.(string)}, next, true
}

// parseCreateTable is "CREATE TABLE <ident> ( <ident>+ ) ;".
func parseCreateTable(tokens []token.Token, pos int) (ast.Query, int, bool) {
	_, next, ok := grammar.Literal(token.CREATE)(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.TABLE)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	name, next, ok := ident(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.LPAREN)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	cols, next, ok := grammar.Multiple(ident)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.RPAREN)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.SEMICOLON)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return ast.CreateTableQuery{Table: name.(string), Columns: toStrings(cols)}, next, true
}

// parseShowTables is "SHOW TABLES ;".
func parseShowTables(tokens []token.Token, pos int) (ast.Query, int, bool) {
	_, next, ok := grammar.Literal(token.SHOW)(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.TABLES)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.SEMICOLON)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return ast.ShowTablesQuery{}, next, true
}

// parseDropTable is "DROP TABLE <ident> ;".
func parseDropTable(tokens []token.Token, pos int) (ast.Query, int, bool) {
	_, next, ok := grammar.Literal(token.DROP)(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.TABLE)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	name, next, ok := ident(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.SEMICOLON)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return ast.DropTableQuery{Table: name.(string)}, next, true
}

// parseSelect is "SELECT ( * | <ident>+ ) FROM <ident> [ WHERE <cond> ] ;".
func parseSelect(tokens []token.Token, pos int) (ast.Query, int, bool) {
	_, next, ok := grammar.Literal(token.SELECT)(tokens, pos)
	if !ok {
		return nil, pos, false
	}

	var columns []string
	if _, afterStar, ok := grammar.Literal(token.STAR)(tokens, next); ok {
		next = afterStar
	} else {
		cols, afterCols, ok := grammar.Multiple(ident)(tokens, next)
		if !ok {
			return nil, pos, false
		}
		columns = toStrings(cols)
		next = afterCols
	}

	_, next, ok = grammar.Literal(token.FROM)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	table, next, ok := ident(tokens, next)
	if !ok {
		return nil, pos, false
	}

	where, next, ok := optionalWhere(tokens, next)
	if !ok {
		return nil, pos, false
	}

	_, next, ok = grammar.Literal(token.SEMICOLON)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return ast.SelectQuery{Columns: columns, Table: table.(string), Where: where}, next, true
}

// parseInsert is "INSERT INTO <ident> ( <ident>+ ) VALUES ( <ident>+ | <literal>+ ) ;".
// The VALUES list is a whole-list choice: all identifiers or all
// literals, never a mix, matching the original parser's
// Or(Multiple(IDENTIFIER), Multiple(LITERAL)) grammar.
func parseInsert(tokens []token.Token, pos int) (ast.Query, int, bool) {
	_, next, ok := grammar.Literal(token.INSERT)(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.INTO)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	table, next, ok := ident(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.LPAREN)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	cols, next, ok := grammar.Multiple(ident)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.RPAREN)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.VALUES)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.LPAREN)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	vals, next, ok := grammar.Or(grammar.Multiple(ident), grammar.Multiple(literal))(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.RPAREN)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.SEMICOLON)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return ast.InsertQuery{Table: table.(string), Columns: toStrings(cols), Values: toStrings(vals)}, next, true
}

// setAssignment is "<ident> = <literal>", the SET clause term.
func setAssignment(tokens []token.Token, pos int) (any, int, bool) {
	col, next, ok := ident(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.EQ)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	val, next, ok := literal(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return [2]string{col.(string), val.(string)}, next, true
}

// parseUpdate is "UPDATE <ident> SET (<ident> = <literal>)+ [ WHERE <cond> ] ;".
func parseUpdate(tokens []token.Token, pos int) (ast.Query, int, bool) {
	_, next, ok := grammar.Literal(token.UPDATE)(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	table, next, ok := ident(tokens, next)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.SET)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	assignments, next, ok := grammar.Multiple(setAssignment)(tokens, next)
	if !ok {
		return nil, pos, false
	}

	where, next, ok := optionalWhere(tokens, next)
	if !ok {
		return nil, pos, false
	}

	_, next, ok = grammar.Literal(token.SEMICOLON)(tokens, next)
	if !ok {
		return nil, pos, false
	}

	cols := make([]string, len(assignments.([]any)))
	vals := make([]string, len(assignments.([]any)))
	for i, a := range assignments.([]any) {
		pair := a.([2]string)
		cols[i] = pair[0]
		vals[i] = pair[1]
	}
	return ast.UpdateQuery{Table: table.(string), Columns: cols, Values: vals, Where: where}, next, true
}

// parseDelete is "DELETE FROM <ident> [ WHERE <cond> ] ;".
func parseDelete(tokens []token.Token, pos int) (ast.Query, int, bool) {
	_, next, ok := grammar.Literal(token.DELETE)(tokens, pos)
	if !ok {
		return nil, pos, false
	}
	_, next, ok = grammar.Literal(token.FROM)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	table, next, ok := ident(tokens, next)
	if !ok {
		return nil, pos, false
	}

	where, next, ok := optionalWhere(tokens, next)
	if !ok {
		return nil, pos, false
	}

	_, next, ok = grammar.Literal(token.SEMICOLON)(tokens, next)
	if !ok {
		return nil, pos, false
	}
	return ast.DeleteQuery{Table: table.(string), Where: where}, next, true
}

func toStrings(value any) []string {
	items := value.([]any)
	out := make([]string, len(items))
	for i, v := range items {
		out[i] = v.(string)
	}
	return out
}
