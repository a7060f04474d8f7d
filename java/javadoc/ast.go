// Package javadoc reads documentation comments into a small tree and
// renders them as Markdown or plain text.
package javadoc

import "strings"

// Node is implemented by the pieces of a comment's rich text.
type Node interface {
	node()
}

// Doc is a parsed documentation comment: a description followed by block
// tags.
type Doc struct {
	Description []Node
	Tags        []*Tag
}

// Text is plain text with the comment's line prefixes removed.
type Text struct {
	Content string
}

func (Text) node() {}

// Code is a {@code ...} or {@literal ...} inline tag.
type Code struct {
	Content string
	Literal bool
}

func (Code) node() {}

// Link is a {@link ...} or {@linkplain ...} inline tag.
type Link struct {
	Reference string // java.util.List#add(Object)
	Label     string
	Plain     bool
}

func (Link) node() {}

// InlineTag is any other inline tag, such as {@value} or {@summary}.
type InlineTag struct {
	Name    string
	Content string
}

func (InlineTag) node() {}

// Element is an HTML start or end tag. Attributes are not kept.
type Element struct {
	Name string
	End  bool
}

func (Element) node() {}

// Entity is an HTML character reference without its & and ;.
type Entity struct {
	Name string
}

func (Entity) node() {}

// Tag is a block tag. Arg holds the first word for tags that name
// something: the parameter of @param, with <T> for type parameters, and
// the exception of @throws.
type Tag struct {
	Name string
	Arg  string
	Body []Node
}

// TagsNamed returns the block tags called name, in order.
func (d *Doc) TagsNamed(name string) []*Tag {
	if d == nil {
		return nil
	}
	var out []*Tag
	for _, t := range d.Tags {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}

// Param returns the @param tag for name, or nil.
func (d *Doc) Param(name string) *Tag {
	for _, t := range d.TagsNamed("param") {
		if t.Arg == name {
			return t
		}
	}
	return nil
}

func (d *Doc) Deprecated() bool {
	return len(d.TagsNamed("deprecated")) > 0
}

// Summary returns the first sentence of the description as plain text. An
// explicit {@summary} tag takes precedence.
func (d *Doc) Summary() string {
	if d == nil {
		return ""
	}
	for _, n := range d.Description {
		if t, ok := n.(InlineTag); ok && t.Name == "summary" {
			return collapse(t.Content)
		}
	}
	text := PlainText(d)
	for i := 0; i < len(text); i++ {
		if text[i] == '.' && (i+1 == len(text) || text[i+1] == ' ') {
			return text[:i+1]
		}
	}
	return text
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
