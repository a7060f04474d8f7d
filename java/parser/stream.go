package parser

import "sort"

// TokenStream is the parser's view of the lexer output: significant tokens
// with bounded lookahead and rewind, comments kept aside, and the line
// table built while lexing.
type TokenStream struct {
	tokens   []Token
	comments []Token
	lexical  []Token
	lineEnds []int
	pos      int
	eof      Token
}

// NewTokenStream drains the lexer. Tokens that the lexer flagged or could
// not classify are also kept in Lexical so the parser can report them.
func NewTokenStream(lx *Lexer) *TokenStream {
	s := &TokenStream{}
	for {
		tok := lx.NextToken()
		switch tok.Kind {
		case TokenEOF:
			s.eof = tok
			s.lineEnds = lx.LineEnds()
			return s
		case TokenWhitespace:
			continue
		case TokenComment, TokenLineComment:
			s.comments = append(s.comments, tok)
			if tok.Unterminated() {
				s.lexical = append(s.lexical, tok)
			}
			continue
		case TokenError:
			s.lexical = append(s.lexical, tok)
			continue
		}
		if tok.Unterminated() {
			s.lexical = append(s.lexical, tok)
		}
		s.tokens = append(s.tokens, tok)
	}
}

// Peek returns the k-th token ahead without consuming it; Peek(0) is the
// current token. Past the end it returns EOF.
func (s *TokenStream) Peek(k int) Token {
	if i := s.pos + k; i >= 0 && i < len(s.tokens) {
		return s.tokens[i]
	}
	return s.eof
}

// Advance consumes and returns the current token.
func (s *TokenStream) Advance() Token {
	tok := s.Peek(0)
	if s.pos < len(s.tokens) {
		s.pos++
	}
	return tok
}

// Previous returns the last consumed token, or ok == false at the start.
func (s *TokenStream) Previous() (Token, bool) {
	if s.pos == 0 {
		return Token{}, false
	}
	return s.tokens[s.pos-1], true
}

func (s *TokenStream) PositionOf(tok Token) Span {
	return tok.Span
}

func (s *TokenStream) Mark() int {
	return s.pos
}

func (s *TokenStream) Reset(mark int) {
	s.pos = mark
}

// Index is the number of tokens consumed so far.
func (s *TokenStream) Index() int {
	return s.pos
}

// Remaining is the number of significant tokens not yet consumed.
func (s *TokenStream) Remaining() int {
	return len(s.tokens) - s.pos
}

// Seek positions the stream on the first token starting at or after offset.
func (s *TokenStream) Seek(offset int) {
	s.pos = sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Span.Start.Offset >= offset
	})
}

// replace substitutes the current token, used to split >> and >>> when
// they close nested type arguments.
func (s *TokenStream) replace(tok Token) {
	if s.pos < len(s.tokens) {
		s.tokens[s.pos] = tok
	}
}

func (s *TokenStream) Tokens() []Token   { return s.tokens }
func (s *TokenStream) Comments() []Token { return s.comments }
func (s *TokenStream) EOF() Token        { return s.eof }

// Lexical returns the unterminated and unrecognised tokens in source order.
func (s *TokenStream) Lexical() []Token { return s.lexical }

// LineOf returns the 1-based line containing offset.
func (s *TokenStream) LineOf(offset int) int {
	return sort.SearchInts(s.lineEnds, offset) + 1
}

// LineStart returns the offset of the first byte of line.
func (s *TokenStream) LineStart(line int) int {
	if line <= 1 || len(s.lineEnds) == 0 {
		return 0
	}
	if line-2 >= len(s.lineEnds) {
		return s.lineEnds[len(s.lineEnds)-1] + 1
	}
	return s.lineEnds[line-2] + 1
}

// LineEnd returns the offset of the separator ending line, or the end of
// input for the last line.
func (s *TokenStream) LineEnd(line int) int {
	if line-1 < len(s.lineEnds) && line >= 1 {
		return s.lineEnds[line-1]
	}
	return s.eof.Span.End.Offset
}

// CommentBefore returns the closest comment that ends at or before offset
// with no significant token in between.
func (s *TokenStream) CommentBefore(offset int, after int) (Token, bool) {
	i := sort.Search(len(s.comments), func(i int) bool {
		return s.comments[i].Span.End.Offset > offset
	})
	if i == 0 {
		return Token{}, false
	}
	c := s.comments[i-1]
	if c.Span.Start.Offset < after {
		return Token{}, false
	}
	return c, true
}
