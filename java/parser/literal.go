package parser

import (
	"strings"
	"unicode/utf8"
)

type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralTextBlock
	LiteralChar
	LiteralInt
	LiteralFloat
	LiteralBoolean
	LiteralNull
)

var literalKindNames = [...]string{"String", "TextBlock", "Char", "Int", "Float", "Boolean", "Null"}

func (k LiteralKind) String() string {
	if int(k) < len(literalKindNames) {
		return literalKindNames[k]
	}
	return "Unknown"
}

// Mergeable is implemented by the two literal payloads, *Literal and
// *Concatenation.
type Mergeable interface {
	Value() string
	SourceStart() int
	SourceEnd() int
	LineNumber() int
}

// Literal is a constant from the source. A literal produced by ExtendWith
// is an aggregate: it keeps the token literals it was built from, in order,
// and its value is the concatenation of their decoded contents.
type Literal struct {
	Kind  LiteralKind
	Raw   string
	Start int
	End   int
	Line  int

	pieces []*Literal
	value  *string
}

func NewLiteral(tok Token, line int) *Literal {
	lit := &Literal{
		Raw:   tok.Literal,
		Start: tok.Span.Start.Offset,
		End:   tok.Span.End.Offset,
		Line:  line,
	}
	switch tok.Kind {
	case TokenStringLiteral, TokenStringTemplate:
		lit.Kind = LiteralString
	case TokenTextBlock, TokenTextBlockTemplate:
		lit.Kind = LiteralTextBlock
	case TokenCharLiteral:
		lit.Kind = LiteralChar
	case TokenIntLiteral:
		lit.Kind = LiteralInt
	case TokenFloatLiteral:
		lit.Kind = LiteralFloat
	case TokenTrue, TokenFalse:
		lit.Kind = LiteralBoolean
	default:
		lit.Kind = LiteralNull
	}
	return lit
}

func (l *Literal) SourceStart() int { return l.Start }
func (l *Literal) SourceEnd() int   { return l.End }
func (l *Literal) LineNumber() int  { return l.Line }

// IsCharacterData reports whether l holds string, text block or char data.
func (l *Literal) IsCharacterData() bool {
	return l.Kind == LiteralString || l.Kind == LiteralTextBlock || l.Kind == LiteralChar
}

// IsAggregate reports whether l was produced by ExtendWith.
func (l *Literal) IsAggregate() bool {
	return l.pieces != nil
}

// Pieces returns the token literals an aggregate was built from, or l
// itself for a token literal.
func (l *Literal) Pieces() []*Literal {
	if l.pieces == nil {
		return []*Literal{l}
	}
	return l.pieces
}

// ExtendWith is the aggregating merge. The result spans both operands,
// takes the line of l, and holds the flattened pieces of both, so that
// a.ExtendWith(b).ExtendWith(c) and a.ExtendWith(b.ExtendWith(c)) have the
// same value and span. It returns nil when either side is not character
// data.
func (l *Literal) ExtendWith(other *Literal) *Literal {
	if other == nil || !l.IsCharacterData() || !other.IsCharacterData() {
		return nil
	}
	pieces := make([]*Literal, 0, len(l.Pieces())+len(other.Pieces()))
	pieces = append(pieces, l.Pieces()...)
	pieces = append(pieces, other.Pieces()...)
	return &Literal{
		Kind:   LiteralString,
		Start:  l.Start,
		End:    other.End,
		Line:   l.Line,
		pieces: pieces,
	}
}

// ExtendsWith is the concatenating merge: a two-element concatenation of l
// and other. A concatenation operand stays nested, so
// a.ExtendsWith(b.ExtendsWith(c)) has two elements, not three.
func (l *Literal) ExtendsWith(other Mergeable) *Concatenation {
	return &Concatenation{
		Elements: []Mergeable{l, other},
		Start:    l.Start,
		End:      other.SourceEnd(),
		Line:     l.Line,
	}
}

// Value returns the decoded constant. It is computed on first use.
func (l *Literal) Value() string {
	if l.value != nil {
		return *l.value
	}
	var v string
	switch {
	case l.pieces != nil:
		var b strings.Builder
		for _, p := range l.pieces {
			b.WriteString(p.Value())
		}
		v = b.String()
	case l.Kind == LiteralString:
		v = decodeEscapes(unquote(l.Raw, `"`))
	case l.Kind == LiteralChar:
		v = decodeEscapes(unquote(l.Raw, `'`))
	case l.Kind == LiteralTextBlock:
		v = decodeTextBlock(l.Raw)
	case l.Kind == LiteralInt || l.Kind == LiteralFloat:
		v = strings.ReplaceAll(l.Raw, "_", "")
	default:
		v = l.Raw
	}
	l.value = &v
	return v
}

// Concatenation is the result of the concatenating merge. Elements are
// held in source order; a nested concatenation stays one element.
type Concatenation struct {
	Elements []Mergeable
	Start    int
	End      int
	Line     int

	value *string
}

func (c *Concatenation) SourceStart() int { return c.Start }
func (c *Concatenation) SourceEnd() int   { return c.End }
func (c *Concatenation) LineNumber() int  { return c.Line }

// ExtendsWith appends other as a single element.
func (c *Concatenation) ExtendsWith(other Mergeable) *Concatenation {
	elems := make([]Mergeable, len(c.Elements), len(c.Elements)+1)
	copy(elems, c.Elements)
	return &Concatenation{
		Elements: append(elems, other),
		Start:    c.Start,
		End:      other.SourceEnd(),
		Line:     c.Line,
	}
}

func (c *Concatenation) Value() string {
	if c.value != nil {
		return *c.value
	}
	var b strings.Builder
	for _, e := range c.Elements {
		b.WriteString(e.Value())
	}
	v := b.String()
	c.value = &v
	return v
}

func unquote(raw, quote string) string {
	return strings.TrimSuffix(strings.TrimPrefix(raw, quote), quote)
}

// decodeEscapes interprets Java escape sequences, including unicode
// escapes with repeated u and octal escapes up to \377.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'b':
			b.WriteByte('\b')
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'f':
			b.WriteByte('\f')
		case 'r':
			b.WriteByte('\r')
		case 's':
			b.WriteByte(' ')
		case '"', '\'', '\\':
			b.WriteByte(e)
		case '\n':
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case 'u':
			for i+1 < len(s) && s[i+1] == 'u' {
				i++
			}
			if i+4 < len(s) {
				if r, ok := hexRune(s[i+1 : i+5]); ok {
					b.WriteRune(r)
					i += 4
					continue
				}
			}
			b.WriteString(`\u`)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			limit := 2
			if e > '3' {
				limit = 1
			}
			v := rune(e - '0')
			for n := 0; n < limit && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '7'; n++ {
				i++
				v = v*8 + rune(s[i]-'0')
			}
			b.WriteRune(v)
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String()
}

func hexRune(s string) (rune, bool) {
	var r rune
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			r = r*16 + rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r*16 + rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r*16 + rune(c-'A'+10)
		default:
			return 0, false
		}
	}
	if !utf8.ValidRune(r) {
		return utf8.RuneError, true
	}
	return r, true
}

// decodeTextBlock strips the delimiters and incidental indentation, removes
// trailing spaces, then interprets escapes.
func decodeTextBlock(raw string) string {
	body := strings.TrimPrefix(raw, `"""`)
	if nl := strings.IndexAny(body, "\r\n"); nl >= 0 {
		body = body[nl:]
		body = strings.TrimPrefix(body, "\r")
		body = strings.TrimPrefix(body, "\n")
	} else {
		return ""
	}
	body = strings.TrimSuffix(body, `"""`)
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")

	lines := strings.Split(body, "\n")
	last := len(lines) - 1
	indent := -1
	for i, line := range lines {
		blank := strings.TrimLeft(line, " \t\f") == ""
		if blank && i != last {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t\f"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent < 0 {
		indent = 0
	}
	for i, line := range lines {
		if strings.TrimLeft(line, " \t\f") == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimRight(line[indent:], " \t\f")
	}
	return decodeEscapes(strings.Join(lines, "\n"))
}
