package javadoc

import (
	"strings"
	"unicode"

	"github.com/dhamidi/javaparse/java/parser"
)

// reader walks a comment rune by rune.
type reader struct {
	input []rune
	pos   int
	// body is where the text after the opening delimiter starts.
	body int
}

// Parse reads a documentation comment. The /** and */ delimiters and the
// leading asterisks of each line are optional.
func Parse(comment string) *Doc {
	r := &reader{input: []rune(comment)}
	r.skipCommentStart()
	r.body = r.pos
	doc := &Doc{Description: r.content()}
	doc.Tags = r.blockTags()
	return doc
}

// ForNode parses the documentation comment attached to a declaration in
// src, or returns nil when it has none.
func ForNode(src []byte, n *parser.Node) *Doc {
	if n == nil || n.Javadoc == nil {
		return nil
	}
	start, end := n.Javadoc.Start.Offset, n.Javadoc.End.Offset
	if start < 0 || end > len(src) || start >= end {
		return nil
	}
	return Parse(string(src[start:end]))
}

func (r *reader) skipCommentStart() {
	r.skipWhitespace()
	if r.match("/**") {
		r.advance(3)
	}
	r.skipLinePrefix()
}

// skipLinePrefix skips the indentation and the asterisk that start a
// comment line.
func (r *reader) skipLinePrefix() {
	r.skipBlanks()
	if r.peek() == '*' && r.peekAt(1) != '/' {
		r.advance(1)
		if r.peek() == ' ' {
			r.advance(1)
		}
	}
}

func (r *reader) atEnd() bool {
	return r.pos >= len(r.input) || r.match("*/")
}

// content reads rich text up to the next block tag or the end of the
// comment.
func (r *reader) content() []Node {
	var nodes []Node
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, Text{Content: text.String()})
			text.Reset()
		}
	}

	for !r.atEnd() && !r.atBlockTag() {
		ch := r.peek()
		switch {
		case ch == '\n' || ch == '\r':
			text.WriteByte('\n')
			r.advance(1)
			if ch == '\r' && r.peek() == '\n' {
				r.advance(1)
			}
			r.skipLinePrefix()
		case ch == '{' && r.peekAt(1) == '@':
			flush()
			nodes = append(nodes, r.inlineTag())
		case ch == '<' && (unicode.IsLetter(r.peekAt(1)) || r.peekAt(1) == '/'):
			flush()
			nodes = append(nodes, r.element())
		case ch == '&':
			flush()
			nodes = append(nodes, r.entity())
		default:
			text.WriteRune(ch)
			r.advance(1)
		}
	}
	flush()
	return nodes
}

// atBlockTag reports whether an @ starts the current line's content.
func (r *reader) atBlockTag() bool {
	if r.peek() != '@' {
		return false
	}
	for i := r.pos - 1; i >= r.body; i-- {
		switch r.input[i] {
		case ' ', '\t', '*':
		case '\n', '\r':
			return true
		default:
			return false
		}
	}
	return true
}

func (r *reader) inlineTag() Node {
	r.advance(2)
	name := r.readName()
	r.skipBlanks()

	var n Node
	switch name {
	case "code", "literal":
		n = Code{Content: r.balanced(), Literal: name == "literal"}
	case "link", "linkplain":
		ref := r.readReference()
		r.skipBlanks()
		n = Link{Reference: ref, Label: collapse(r.balanced()), Plain: name == "linkplain"}
	default:
		n = InlineTag{Name: name, Content: r.balanced()}
	}
	if r.peek() == '}' {
		r.advance(1)
	}
	return n
}

func (r *reader) element() Node {
	r.advance(1)
	end := false
	if r.peek() == '/' {
		end = true
		r.advance(1)
	}
	start := r.pos
	for unicode.IsLetter(r.peek()) || unicode.IsDigit(r.peek()) {
		r.advance(1)
	}
	name := strings.ToLower(string(r.input[start:r.pos]))
	for !r.atEnd() && r.peek() != '>' {
		r.advance(1)
	}
	if r.peek() == '>' {
		r.advance(1)
	}
	return Element{Name: name, End: end}
}

func (r *reader) entity() Node {
	r.advance(1)
	start := r.pos
	if r.peek() == '#' {
		r.advance(1)
	}
	for unicode.IsLetter(r.peek()) || unicode.IsDigit(r.peek()) {
		r.advance(1)
	}
	name := string(r.input[start:r.pos])
	if r.peek() != ';' || name == "" {
		return Text{Content: "&" + name}
	}
	r.advance(1)
	return Entity{Name: name}
}

func (r *reader) blockTags() []*Tag {
	var tags []*Tag
	for !r.atEnd() {
		if r.peek() != '@' {
			r.advance(1)
			continue
		}
		r.advance(1)
		name := r.readName()
		if name == "" {
			continue
		}
		r.skipBlanks()

		tag := &Tag{Name: name}
		switch name {
		case "param":
			if r.peek() == '<' {
				r.advance(1)
				tag.Arg = "<" + r.readName() + ">"
				if r.peek() == '>' {
					r.advance(1)
				}
			} else {
				tag.Arg = r.readName()
			}
		case "throws", "exception":
			tag.Arg = r.readReference()
		}
		tag.Body = r.content()
		tags = append(tags, tag)
	}
	return tags
}

func (r *reader) peek() rune {
	return r.peekAt(0)
}

func (r *reader) peekAt(offset int) rune {
	i := r.pos + offset
	if i < 0 || i >= len(r.input) {
		return 0
	}
	return r.input[i]
}

func (r *reader) advance(n int) {
	r.pos = min(r.pos+n, len(r.input))
}

func (r *reader) match(s string) bool {
	i := r.pos
	for _, ch := range s {
		if i >= len(r.input) || r.input[i] != ch {
			return false
		}
		i++
	}
	return true
}

func (r *reader) skipWhitespace() {
	for unicode.IsSpace(r.peek()) {
		r.advance(1)
	}
}

func (r *reader) skipBlanks() {
	for r.peek() == ' ' || r.peek() == '\t' {
		r.advance(1)
	}
}

func (r *reader) readName() string {
	start := r.pos
	for ch := r.peek(); unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '$'; ch = r.peek() {
		r.advance(1)
	}
	return string(r.input[start:r.pos])
}

// readReference reads a program element reference such as
// java.util.Map#put(Object, Object). Spaces inside the parameter list
// belong to the reference.
func (r *reader) readReference() string {
	start := r.pos
	parens := 0
	for !r.atEnd() {
		ch := r.peek()
		if ch == '(' {
			parens++
		} else if ch == ')' {
			parens--
		} else if parens <= 0 && (unicode.IsSpace(ch) || ch == '}') {
			break
		}
		r.advance(1)
	}
	return string(r.input[start:r.pos])
}

// balanced reads up to the brace closing the current inline tag, keeping
// nested braces. Line prefixes inside are dropped.
func (r *reader) balanced() string {
	var b strings.Builder
	depth := 0
	for !r.atEnd() {
		ch := r.peek()
		switch {
		case ch == '}' && depth == 0:
			return b.String()
		case ch == '{':
			depth++
		case ch == '}':
			depth--
		case ch == '\n':
			b.WriteRune(ch)
			r.advance(1)
			r.skipLinePrefix()
			continue
		}
		b.WriteRune(ch)
		r.advance(1)
	}
	return b.String()
}
