package lexer_test

import (
	"testing"

	"github.com/kaubo-lang/kaubo/lang/lexer"
	"github.com/kaubo-lang/kaubo/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []lexer.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanAllBasics(t *testing.T) {
	toks, err := lexer.ScanAll([]byte(`var x: int = 42;`), nil)
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.VAR, token.IDENT, token.COLON, token.IDENT, token.ASSIGN, token.INT, token.SEMI, token.EOF,
	}, kinds(toks))
	assert.Equal(t, int64(42), toks[5].IntVal)
}

func TestScanAllDropsTrivia(t *testing.T) {
	toks, err := lexer.ScanAll([]byte("// a comment\n/* block */ pub"), nil)
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.PUB, token.EOF}, kinds(toks))
}

func TestSpanCoversSourceExcludingTrivia(t *testing.T) {
	src := "x + y"
	toks, err := lexer.ScanAll([]byte(src), nil)
	require.NoError(t, err)
	require.Len(t, toks, 4) // x + y EOF

	for _, tk := range toks[:3] {
		if tk.Text == "" {
			continue
		}
		start, end := tk.Span.Start.Offset, tk.Span.End.Offset
		assert.Equal(t, tk.Text, src[start:end])
	}
}

func TestUnterminatedStringErrors(t *testing.T) {
	_, err := lexer.ScanAll([]byte(`"abc`), nil)
	require.Error(t, err)
	var lexErr *lexer.Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, lexer.UnterminatedString, lexErr.Kind)
}

func TestStringEscapes(t *testing.T) {
	toks, err := lexer.ScanAll([]byte(`"a\nb"`), nil)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "a\nb", toks[0].StringVal)
}
