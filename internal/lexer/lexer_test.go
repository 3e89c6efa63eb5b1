package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gianfrancodemarco/dumbdb/internal/token"
)

func TestTokenize_KeywordsAreCaseInsensitiveAndNormalized(t *testing.T) {
	tokens, err := Tokenize("select * from users;")
	require.NoError(t, err)

	require.Len(t, tokens, 6)
	assert.Equal(t, token.SELECT, tokens[0].Kind)
	assert.Equal(t, "SELECT", tokens[0].Literal)
	assert.Equal(t, token.STAR, tokens[1].Kind)
	assert.Equal(t, token.FROM, tokens[2].Kind)
	assert.Equal(t, "FROM", tokens[2].Literal)
	assert.Equal(t, token.IDENTIFIER, tokens[3].Kind)
	assert.Equal(t, "users", tokens[3].Literal)
	assert.Equal(t, token.SEMICOLON, tokens[4].Kind)
	assert.Equal(t, token.EOF, tokens[5].Kind)
}

func TestTokenize_IdentifiersPreserveCase(t *testing.T) {
	tokens, err := Tokenize("UsErS")
	require.NoError(t, err)
	assert.Equal(t, token.IDENTIFIER, tokens[0].Kind)
	assert.Equal(t, "UsErS", tokens[0].Literal)
}

func TestTokenize_QuotedLiteralsPreserveQuotes(t *testing.T) {
	tokens, err := Tokenize(`'John' "Jane"`)
	require.NoError(t, err)
	assert.Equal(t, token.LITERAL, tokens[0].Kind)
	assert.Equal(t, `'John'`, tokens[0].Literal)
	assert.Equal(t, token.LITERAL, tokens[1].Kind)
	assert.Equal(t, `"Jane"`, tokens[1].Literal)
}

func TestTokenize_SignedDecimalNumbers(t *testing.T) {
	tokens, err := Tokenize("-20.5")
	require.NoError(t, err)
	assert.Equal(t, token.LITERAL, tokens[0].Kind)
	assert.Equal(t, "-20.5", tokens[0].Literal)
}

func TestTokenize_Punctuation(t *testing.T) {
	tokens, err := Tokenize("*,()=;")
	require.NoError(t, err)

	kinds := []token.Kind{token.STAR, token.COMMA, token.LPAREN, token.RPAREN, token.EQ, token.SEMICOLON, token.EOF}
	require.Len(t, tokens, len(kinds))
	for i, kind := range kinds {
		assert.Equal(t, kind, tokens[i].Kind)
	}
}

func TestTokenize_IllegalCharacterReportsOffset(t *testing.T) {
	_, err := Tokenize("SELECT # FROM t;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 7")
}

func TestTokenize_UnterminatedStringFails(t *testing.T) {
	_, err := Tokenize("'unterminated")
	assert.Error(t, err)
}

func TestTokenize_KeywordPrefixDoesNotSwallowIdentifier(t *testing.T) {
	tokens, err := Tokenize("SELECTOR")
	require.NoError(t, err)
	assert.Equal(t, token.IDENTIFIER, tokens[0].Kind)
	assert.Equal(t, "SELECTOR", tokens[0].Literal)
}
