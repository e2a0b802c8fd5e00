package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenKinds(t *testing.T, src string) []Kind {
	t.Helper()
	toks, err := newLexer(src).tokenize()
	require.NoError(t, err)
	kinds := make([]Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	return kinds
}

func TestLexerIdentifiersAndPath(t *testing.T) {
	kinds := tokenKinds(t, "user.name")
	assert.Equal(t, []Kind{Ident, Dot, Ident, EOF}, kinds)
}

func TestLexerKeywords(t *testing.T) {
	kinds := tokenKinds(t, "true false null")
	assert.Equal(t, []Kind{True, False, Null, EOF}, kinds)
}

func TestLexerIntegerNumber(t *testing.T) {
	toks, err := newLexer("42").tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, Number, toks[0].Kind)
	assert.True(t, toks[0].IsInt)
	assert.Equal(t, float64(42), toks[0].Num)
}

func TestLexerFloatNumber(t *testing.T) {
	toks, err := newLexer("3.25").tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.False(t, toks[0].IsInt)
	assert.Equal(t, 3.25, toks[0].Num)
}

func TestLexerExponentNumber(t *testing.T) {
	toks, err := newLexer("1e3").tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.False(t, toks[0].IsInt)
	assert.Equal(t, float64(1000), toks[0].Num)
}

func TestLexerStringEscapes(t *testing.T) {
	toks, err := newLexer(`"a\nb\tc"`).tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, String, toks[0].Kind)
	assert.Equal(t, "a\nb\tc", toks[0].Str)
}

func TestLexerUnterminatedString(t *testing.T) {
	_, err := newLexer(`"abc`).tokenize()
	assert.Error(t, err)
}

func TestLexerTemplateLiteralOnly(t *testing.T) {
	toks, err := newLexer("`hello world`").tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	require.Len(t, toks[0].Segments, 1)
	assert.False(t, toks[0].Segments[0].isExpr)
	assert.Equal(t, "hello world", toks[0].Segments[0].text)
}

func TestLexerTemplateWithSplice(t *testing.T) {
	toks, err := newLexer("`hello ${world}!`").tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	segs := toks[0].Segments
	require.Len(t, segs, 3)
	assert.Equal(t, "hello ", segs[0].text)
	assert.True(t, segs[1].isExpr)
	assert.Equal(t, "world", segs[1].text)
	assert.Equal(t, "!", segs[2].text)
}

func TestLexerTemplateSpliceWithFunctionCall(t *testing.T) {
	toks, err := newLexer("`v=${foo(a, b)}`").tokenize()
	require.NoError(t, err)
	segs := toks[0].Segments
	require.Len(t, segs, 2)
	assert.True(t, segs[1].isExpr)
	assert.Equal(t, "foo(a, b)", segs[1].text)
}

func TestLexerTemplateSpliceWithObjectLiteral(t *testing.T) {
	toks, err := newLexer("`${ {a: 1} }`").tokenize()
	require.NoError(t, err)
	segs := toks[0].Segments
	require.Len(t, segs, 1)
	assert.True(t, segs[0].isExpr)
	assert.Equal(t, " {a: 1} ", segs[0].text)
}

func TestLexerTemplateEscapes(t *testing.T) {
	toks, err := newLexer("`a \\` b \\${c}`").tokenize()
	require.NoError(t, err)
	segs := toks[0].Segments
	require.Len(t, segs, 1)
	assert.Equal(t, "a ` b ${c}", segs[0].text)
}

func TestLexerUnterminatedTemplate(t *testing.T) {
	_, err := newLexer("`abc").tokenize()
	assert.Error(t, err)
}

func TestLexerUnterminatedSplice(t *testing.T) {
	_, err := newLexer("`abc ${ 1 + 2`").tokenize()
	assert.Error(t, err)
}

func TestLexerOperators(t *testing.T) {
	kinds := tokenKinds(t, "+ - * / % == != < <= > >= && || !")
	assert.Equal(t, []Kind{
		Plus, Minus, Star, Slash, Percent,
		Eq, Neq, Lt, Le, Gt, Ge, AndAnd, OrOr, Bang, EOF,
	}, kinds)
}

func TestLexerArrowToken(t *testing.T) {
	kinds := tokenKinds(t, "(x) => x")
	assert.Equal(t, []Kind{LParen, Ident, RParen, Arrow, Ident, EOF}, kinds)
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	_, err := newLexer("a & b").tokenize()
	assert.Error(t, err)
}
