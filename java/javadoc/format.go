package javadoc

import (
	"html"
	"strings"
)

// PlainText renders the description without markup, on one line.
func PlainText(d *Doc) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	for _, n := range d.Description {
		switch n := n.(type) {
		case Text:
			b.WriteString(n.Content)
		case Code:
			b.WriteString(n.Content)
		case Link:
			b.WriteString(linkText(n))
		case InlineTag:
			b.WriteString(inlineTagText(n))
		case Element:
			if breaksLine(n.Name) {
				b.WriteByte(' ')
			}
		case Entity:
			b.WriteString(decodeEntity(n.Name))
		}
	}
	return collapse(b.String())
}

// Markdown renders the comment for display in an editor: the description
// with HTML turned into Markdown, then a section per kind of block tag.
func Markdown(d *Doc) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(markdownBlock(d.Description))

	params := d.TagsNamed("param")
	if len(params) > 0 {
		b.WriteString("\n\n**Parameters:**\n")
		for _, t := range params {
			b.WriteString("\n- `" + t.Arg + "` " + markdownInline(t.Body))
		}
	}
	for _, t := range d.TagsNamed("return") {
		b.WriteString("\n\n**Returns:** " + markdownInline(t.Body))
	}
	throws := append(d.TagsNamed("throws"), d.TagsNamed("exception")...)
	if len(throws) > 0 {
		b.WriteString("\n\n**Throws:**\n")
		for _, t := range throws {
			b.WriteString("\n- `" + t.Arg + "` " + markdownInline(t.Body))
		}
	}
	for _, t := range d.Tags {
		switch t.Name {
		case "param", "return", "throws", "exception":
		case "deprecated":
			b.WriteString("\n\n**Deprecated.** " + markdownInline(t.Body))
		case "since":
			b.WriteString("\n\n**Since:** " + markdownInline(t.Body))
		case "see":
			b.WriteString("\n\n**See:** " + markdownInline(t.Body))
		default:
			b.WriteString("\n\n**@" + t.Name + "** " + markdownInline(t.Body))
		}
	}
	return tidy(b.String())
}

// markdownBlock renders rich text that may hold paragraphs, lists and
// preformatted blocks.
func markdownBlock(nodes []Node) string {
	var b strings.Builder
	pre := false
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			if pre {
				b.WriteString(n.Content)
			} else {
				b.WriteString(collapseKeepEdges(n.Content))
			}
		case Code:
			switch {
			case pre || n.Literal:
				b.WriteString(n.Content)
			default:
				b.WriteString("`" + n.Content + "`")
			}
		case Element:
			if n.Name == "pre" {
				pre = !n.End
			}
			b.WriteString(markdownElement(n, pre))
		default:
			b.WriteString(markdownNode(n))
		}
	}
	return b.String()
}

// markdownInline renders rich text on a single line.
func markdownInline(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			b.WriteString(n.Content)
		case Code:
			if n.Literal {
				b.WriteString(n.Content)
			} else {
				b.WriteString("`" + n.Content + "`")
			}
		case Element:
			if breaksLine(n.Name) {
				b.WriteByte(' ')
			} else {
				b.WriteString(markdownElement(n, false))
			}
		default:
			b.WriteString(markdownNode(n))
		}
	}
	return collapse(b.String())
}

func markdownNode(n Node) string {
	switch n := n.(type) {
	case Link:
		if n.Plain {
			return linkText(n)
		}
		return "`" + linkText(n) + "`"
	case InlineTag:
		return inlineTagText(n)
	case Entity:
		return decodeEntity(n.Name)
	}
	return ""
}

func markdownElement(e Element, inPre bool) string {
	switch e.Name {
	case "p":
		return "\n\n"
	case "br":
		return "\n"
	case "pre":
		if e.End {
			return "\n```\n\n"
		}
		return "\n\n```\n"
	case "code", "tt":
		if inPre {
			return ""
		}
		return "`"
	case "b", "strong":
		return "**"
	case "i", "em":
		return "*"
	case "li":
		if e.End {
			return ""
		}
		return "\n- "
	case "ul", "ol":
		return "\n\n"
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if e.End {
			return "\n\n"
		}
		return "\n\n### "
	}
	return ""
}

func breaksLine(name string) bool {
	switch name {
	case "p", "br", "li", "ul", "ol", "pre", "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

// linkText shows a reference the way it reads in prose: the label if
// there is one, else the reference with its member separator as a dot.
func linkText(l Link) string {
	if l.Label != "" {
		return l.Label
	}
	ref := strings.TrimPrefix(l.Reference, "#")
	return strings.Replace(ref, "#", ".", 1)
}

func inlineTagText(t InlineTag) string {
	content := strings.TrimSpace(t.Content)
	switch t.Name {
	case "return":
		return "Returns " + content + "."
	case "inheritDoc", "docRoot":
		return ""
	}
	return content
}

func decodeEntity(name string) string {
	if name == "nbsp" {
		return " "
	}
	return html.UnescapeString("&" + name + ";")
}

// collapseKeepEdges collapses runs of whitespace to one space and keeps a
// single space at either end if there was whitespace there.
func collapseKeepEdges(s string) string {
	if strings.TrimSpace(s) == "" {
		if s == "" {
			return ""
		}
		return " "
	}
	out := collapse(s)
	if s[0] == ' ' || s[0] == '\t' || s[0] == '\n' {
		out = " " + out
	}
	if last := s[len(s)-1]; last == ' ' || last == '\t' || last == '\n' {
		out += " "
	}
	return out
}

// tidy trims the lines outside code fences, squeezes blank lines and
// drops blank lines at the edges of a fence.
func tidy(s string) string {
	var out []string
	fence := false
	for _, line := range strings.Split(s, "\n") {
		switch {
		case strings.TrimSpace(line) == "```":
			if fence {
				for len(out) > 0 && out[len(out)-1] == "" {
					out = out[:len(out)-1]
				}
			}
			fence = !fence
			out = append(out, "```")
			continue
		case fence:
			line = strings.TrimRight(line, " \t")
			if line == "" && out[len(out)-1] == "```" {
				continue
			}
		default:
			line = strings.TrimSpace(line)
			if line == "" && (len(out) == 0 || out[len(out)-1] == "") {
				continue
			}
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
