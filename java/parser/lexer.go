package parser

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

// Lexer turns Java source into tokens, including whitespace and comments.
// It records the offset of every line separator it crosses so that later
// stages can map offsets to lines without rescanning.
type Lexer struct {
	input    []byte
	file     string
	pos      int
	line     int
	column   int
	lineEnds []int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// LineEnds returns the offsets of the line separators seen so far. A CRLF
// pair is recorded at the offset of its LF.
func (l *Lexer) LineEnds() []int {
	return l.lineEnds
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return utf8.RuneError, 0
	}
	if c := l.input[l.pos]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRune(l.input[l.pos:])
}

// advance consumes one rune and keeps line and column current.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	ch := l.input[l.pos]
	if ch >= utf8.RuneSelf {
		_, size := utf8.DecodeRune(l.input[l.pos:])
		l.pos += size
		l.column++
		return
	}
	l.pos++
	switch {
	case ch == '\n', ch == '\r' && l.peek() != '\n':
		l.lineEnds = append(l.lineEnds, l.pos-1)
		l.line++
		l.column = 1
	default:
		l.column++
	}
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func isLineBreak(ch byte) bool {
	return ch == '\n' || ch == '\r'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\f' || isLineBreak(ch)
}

func (l *Lexer) NextToken() Token {
	start := l.Position()
	if l.atEnd() {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case isSpace(ch):
		for !l.atEnd() && isSpace(l.peek()) {
			l.advance()
		}
		return l.token(TokenWhitespace, start)
	case ch == '/' && l.peekN(1) == '/':
		for !l.atEnd() && !isLineBreak(l.peek()) {
			l.advance()
		}
		return l.token(TokenLineComment, start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case ch == '\'':
		return l.scanQuoted(start, '\'', TokenCharLiteral)
	case ch == '"':
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(start)
		}
		return l.scanQuoted(start, '"', TokenStringLiteral)
	case isDigit(ch), ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber(start)
	}

	if r, _ := l.peekRune(); isJavaLetter(r) {
		return l.scanIdentOrKeyword(start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for {
		if l.atEnd() {
			tok := l.token(TokenComment, start)
			tok.Flags |= FlagUnterminated
			return tok
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			return l.token(TokenComment, start)
		}
		l.advance()
	}
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for {
		r, _ := l.peekRune()
		if l.atEnd() || !isJavaLetterOrDigit(r) {
			break
		}
		l.advance()
	}
	if string(l.input[start.Offset:l.pos]) == "non" && bytes.HasPrefix(l.input[l.pos:], []byte("-sealed")) {
		rest := l.input[l.pos+len("-sealed"):]
		if r, _ := utf8.DecodeRune(rest); len(rest) == 0 || !isJavaLetterOrDigit(r) {
			l.advanceN(len("-sealed"))
			return l.token(TokenNonSealed, start)
		}
	}
	tok := l.token(TokenIdent, start)
	tok.Kind = LookupKeyword(tok.Literal)
	return tok
}

func (l *Lexer) scanDigits(accept func(byte) bool) {
	for accept(l.peek()) || l.peek() == '_' {
		l.advance()
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	kind := TokenIntLiteral
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.advanceN(2)
		l.scanDigits(isHexDigit)
		if l.peek() == '.' {
			kind = TokenFloatLiteral
			l.advance()
			l.scanDigits(isHexDigit)
		}
		if l.peek() == 'p' || l.peek() == 'P' {
			kind = TokenFloatLiteral
			l.scanExponent()
		}
	} else if l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		l.advanceN(2)
		l.scanDigits(func(c byte) bool { return c == '0' || c == '1' })
	} else {
		l.scanDigits(isDigit)
		if l.peek() == '.' && fractionFollows(l.peekN(1)) {
			kind = TokenFloatLiteral
			l.advance()
			l.scanDigits(isDigit)
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			kind = TokenFloatLiteral
			l.scanExponent()
		}
	}

	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		kind = TokenFloatLiteral
		l.advance()
	case 'l', 'L':
		if kind == TokenIntLiteral {
			l.advance()
		}
	}
	return l.token(kind, start)
}

func (l *Lexer) scanExponent() {
	l.advance()
	if l.peek() == '+' || l.peek() == '-' {
		l.advance()
	}
	l.scanDigits(isDigit)
}

// scanQuoted scans a char or string literal. Both end at their quote, or
// unterminated at the end of the line. A string holding \{ is a template.
func (l *Lexer) scanQuoted(start Position, quote byte, kind TokenKind) Token {
	l.advance()
	for {
		ch := l.peek()
		if l.atEnd() || isLineBreak(ch) {
			tok := l.token(kind, start)
			tok.Flags |= FlagUnterminated
			return tok
		}
		if ch == quote {
			l.advance()
			return l.token(kind, start)
		}
		if ch == '\\' {
			l.advance()
			if quote == '"' && l.peek() == '{' {
				kind = TokenStringTemplate
				l.advance()
				l.skipEmbeddedExpression()
				continue
			}
			if isLineBreak(l.peek()) {
				continue
			}
		}
		l.advance()
	}
}

func (l *Lexer) scanTextBlock(start Position) Token {
	kind := TokenTextBlock
	l.advanceN(3)
	for {
		if l.atEnd() {
			tok := l.token(kind, start)
			tok.Flags |= FlagUnterminated
			return tok
		}
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			return l.token(kind, start)
		}
		if l.peek() == '\\' {
			l.advance()
			if l.peek() == '{' {
				kind = TokenTextBlockTemplate
				l.advance()
				l.skipEmbeddedExpression()
				continue
			}
		}
		l.advance()
	}
}

// skipEmbeddedExpression consumes a template embedded expression up to and
// including its closing brace, tracking nested braces and literals.
func (l *Lexer) skipEmbeddedExpression() {
	depth := 1
	for !l.atEnd() {
		switch ch := l.peek(); {
		case ch == '{':
			depth++
			l.advance()
		case ch == '}':
			l.advance()
			if depth--; depth == 0 {
				return
			}
		case ch == '"' && l.peekN(1) == '"' && l.peekN(2) == '"':
			l.scanTextBlock(l.Position())
		case ch == '"' || ch == '\'':
			l.scanQuoted(l.Position(), ch, TokenStringLiteral)
		case ch == '/' && (l.peekN(1) == '/' || l.peekN(1) == '*'):
			l.NextToken()
		default:
			l.advance()
		}
	}
}

// operators is ordered so that every operator precedes its prefixes.
var operators = []struct {
	text string
	kind TokenKind
}{
	{">>>=", TokenUShrAssign},
	{"<<=", TokenShlAssign}, {">>=", TokenShrAssign}, {">>>", TokenUShr}, {"...", TokenEllipsis},
	{"::", TokenColonColon}, {"->", TokenArrow}, {"==", TokenEQ}, {"!=", TokenNE},
	{"<=", TokenLE}, {">=", TokenGE}, {"&&", TokenAnd}, {"||", TokenOr},
	{"++", TokenIncrement}, {"--", TokenDecrement}, {"<<", TokenShl}, {">>", TokenShr},
	{"+=", TokenPlusAssign}, {"-=", TokenMinusAssign}, {"*=", TokenStarAssign}, {"/=", TokenSlashAssign},
	{"%=", TokenPercentAssign}, {"&=", TokenAndAssign}, {"|=", TokenOrAssign}, {"^=", TokenXorAssign},
	{"(", TokenLParen}, {")", TokenRParen}, {"{", TokenLBrace}, {"}", TokenRBrace},
	{"[", TokenLBracket}, {"]", TokenRBracket}, {";", TokenSemicolon}, {",", TokenComma},
	{".", TokenDot}, {"@", TokenAt}, {"=", TokenAssign}, {"<", TokenLT}, {">", TokenGT},
	{"!", TokenNot}, {"~", TokenBitNot}, {"?", TokenQuestion}, {":", TokenColon},
	{"&", TokenBitAnd}, {"|", TokenBitOr}, {"^", TokenBitXor}, {"+", TokenPlus},
	{"-", TokenMinus}, {"*", TokenStar}, {"/", TokenSlash}, {"%", TokenPercent},
}

func (l *Lexer) scanOperator(start Position) Token {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if bytes.HasPrefix(rest, []byte(op.text)) {
			l.advanceN(len(op.text))
			return l.token(op.kind, start)
		}
	}
	l.advance()
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// fractionFollows reports whether a '.' after integer digits belongs to the
// number, as in 1.5, 1.e3, 1.f or a bare 1.
func fractionFollows(next byte) bool {
	switch next {
	case 'e', 'E', 'f', 'F', 'd', 'D':
		return true
	case '.':
		return false
	}
	return !isJavaStart(next)
}

func isJavaStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isJavaLetter(r rune) bool {
	if r < utf8.RuneSelf {
		return isJavaStart(byte(r))
	}
	return unicode.IsLetter(r) || unicode.Is(unicode.Sc, r) || unicode.Is(unicode.Pc, r)
}

func isJavaLetterOrDigit(r rune) bool {
	if r < utf8.RuneSelf {
		return isJavaStart(byte(r)) || isDigit(byte(r))
	}
	return isJavaLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}
