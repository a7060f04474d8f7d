package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scan returns every token the lexer produces for src, EOF excluded.
func scan(src string) []Token {
	lx := NewLexer([]byte(src), "Scan.java")
	var out []Token
	for {
		tok := lx.NextToken()
		if tok.Kind == TokenEOF {
			return out
		}
		out = append(out, tok)
	}
}

// significant drops whitespace from scan's output.
func significant(src string) []Token {
	var out []Token
	for _, tok := range scan(src) {
		if tok.Kind != TokenWhitespace {
			out = append(out, tok)
		}
	}
	return out
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerStartsAtLineOne(t *testing.T) {
	pos := NewLexer([]byte("class Foo {}"), "Foo.java").Position()
	assert.Equal(t, Position{File: "Foo.java", Offset: 0, Line: 1, Column: 1}, pos)
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"class", TokenClass},
		{"instanceof", TokenInstanceof},
		{"strictfp", TokenStrictfp},
		{"goto", TokenGoto},
		{"true", TokenTrue},
		{"null", TokenNull},
		{"var", TokenVar},
		{"record", TokenRecord},
		{"permits", TokenPermits},
		{"transitive", TokenTransitive},
		{"non-sealed", TokenNonSealed},
		{"Classy", TokenIdent},
		{"_tmp", TokenIdent},
		{"$proxy", TokenIdent},
		{"größe", TokenIdent},
		{"π", TokenIdent},
		{"x1_y2", TokenIdent},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := scan(tt.input)
			require.Len(t, toks, 1)
			assert.Equal(t, tt.kind, toks[0].Kind)
			assert.Equal(t, tt.input, toks[0].Literal)
		})
	}
}

func TestLexerNonSealedNeedsWordBoundary(t *testing.T) {
	assert.Equal(t,
		[]TokenKind{TokenIdent, TokenMinus, TokenSealed},
		kinds(significant("non - sealed")))
	assert.Equal(t,
		[]TokenKind{TokenIdent, TokenMinus, TokenIdent},
		kinds(significant("non-sealedX")))
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"0", TokenIntLiteral},
		{"1_000_000", TokenIntLiteral},
		{"42L", TokenIntLiteral},
		{"0x7fff_ffff", TokenIntLiteral},
		{"0b1010", TokenIntLiteral},
		{"3.14", TokenFloatLiteral},
		{".5", TokenFloatLiteral},
		{"1.", TokenFloatLiteral},
		{"1e10", TokenFloatLiteral},
		{"6.02E+23", TokenFloatLiteral},
		{"2f", TokenFloatLiteral},
		{"1.5D", TokenFloatLiteral},
		{"0x1.8p1", TokenFloatLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := scan(tt.input)
			require.Len(t, toks, 1)
			assert.Equal(t, tt.kind, toks[0].Kind)
			assert.Equal(t, tt.input, toks[0].Literal)
		})
	}
}

func TestLexerDotAfterInteger(t *testing.T) {
	assert.Equal(t,
		[]TokenKind{TokenIntLiteral, TokenDot, TokenIdent},
		kinds(significant("1.toString")))
	assert.Equal(t,
		[]TokenKind{TokenIntLiteral, TokenEllipsis},
		kinds(significant("1...")))
}

func TestLexerOperatorsPreferLongestMatch(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenKind
	}{
		{">>>=", []TokenKind{TokenUShrAssign}},
		{">>>", []TokenKind{TokenUShr}},
		{">>=", []TokenKind{TokenShrAssign}},
		{"->", []TokenKind{TokenArrow}},
		{"::", []TokenKind{TokenColonColon}},
		{"a++ + ++b", []TokenKind{TokenIdent, TokenIncrement, TokenPlus, TokenIncrement, TokenIdent}},
		{"x-->0", []TokenKind{TokenIdent, TokenDecrement, TokenGT, TokenIntLiteral}},
		{"@interface", []TokenKind{TokenAt, TokenInterface}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(significant(tt.input)))
		})
	}
}

func TestLexerQuoted(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		kind         TokenKind
		literal      string
		unterminated bool
	}{
		{"string", `"hi \"there\""`, TokenStringLiteral, `"hi \"there\""`, false},
		{"char", `'\''`, TokenCharLiteral, `'\''`, false},
		{"empty char", `''`, TokenCharLiteral, `''`, false},
		{"open string", "\"abc\nx", TokenStringLiteral, `"abc`, true},
		{"open char", "'a", TokenCharLiteral, "'a", true},
		{"text block", "\"\"\"\n  hi\n  \"\"\"", TokenTextBlock, "\"\"\"\n  hi\n  \"\"\"", false},
		{"open text block", "\"\"\"\n  hi", TokenTextBlock, "\"\"\"\n  hi", true},
		{"template", `"a\{b}c"`, TokenStringTemplate, `"a\{b}c"`, false},
		{"nested template", `"\{m("}")}"`, TokenStringTemplate, `"\{m("}")}"`, false},
		{"text block template", "\"\"\"\n\\{x}\"\"\"", TokenTextBlockTemplate, "\"\"\"\n\\{x}\"\"\"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := scan(tt.input)[0]
			assert.Equal(t, tt.kind, tok.Kind)
			assert.Equal(t, tt.literal, tok.Literal)
			assert.Equal(t, tt.unterminated, tok.Unterminated())
		})
	}
}

func TestLexerComments(t *testing.T) {
	toks := significant("a // line\n/* block */ /** doc */ b /* open")
	require.Len(t, toks, 6)
	assert.Equal(t,
		[]TokenKind{TokenIdent, TokenLineComment, TokenComment, TokenComment, TokenIdent, TokenComment},
		kinds(toks))
	assert.Equal(t, "// line", toks[1].Literal)
	assert.Equal(t, "/** doc */", toks[3].Literal)
	assert.False(t, toks[2].Unterminated())
	assert.True(t, toks[5].Unterminated())
}

func TestLexerPositions(t *testing.T) {
	toks := significant("class A {\r\n  int x;\n}")
	require.Len(t, toks, 7)

	assert.Equal(t, Position{File: "Scan.java", Offset: 0, Line: 1, Column: 1}, toks[0].Span.Start)
	assert.Equal(t, 5, toks[0].End())

	intTok := toks[3]
	assert.Equal(t, "int", intTok.Literal)
	assert.Equal(t, 2, intTok.Span.Start.Line)
	assert.Equal(t, 3, intTok.Span.Start.Column)
	assert.Equal(t, 13, intTok.Start())

	brace := toks[6]
	assert.Equal(t, 3, brace.Span.Start.Line)
	assert.Equal(t, 1, brace.Span.Start.Column)
}

func TestLexerLineEnds(t *testing.T) {
	lx := NewLexer([]byte("a\r\nb\rc\nd"), "")
	for lx.NextToken().Kind != TokenEOF {
	}
	assert.Equal(t, []int{2, 4, 6}, lx.LineEnds(), "CRLF is recorded at its LF")
	assert.Equal(t, 4, lx.Position().Line)
}

func TestLexerUnknownCharacter(t *testing.T) {
	toks := significant("a # b")
	assert.Equal(t, []TokenKind{TokenIdent, TokenError, TokenIdent}, kinds(toks))
	assert.Equal(t, "#", toks[1].Literal)
}

func TestLexerEOFIsSticky(t *testing.T) {
	lx := NewLexer([]byte("x"), "")
	lx.NextToken()
	first := lx.NextToken()
	second := lx.NextToken()
	assert.Equal(t, TokenEOF, first.Kind)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, first.Start())
}
