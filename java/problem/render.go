package problem

import (
	"fmt"
	"io"
	"strings"
)

const separator = "----------"

// Render writes problems in the stable text format:
//
//	----------
//	1. ERROR in X.java (at line 3)
//	<source line>
//	<caret line>
//	<message>
//	----------
//
// The caret line copies tabs from the source line so the carets stay under
// the problem range.
func Render(w io.Writer, problems []*Problem, source []byte) error {
	if len(problems) == 0 {
		return nil
	}
	for i, p := range problems {
		line, col := sourceLine(source, p.Start)
		width := p.End - p.Start
		if width < 1 {
			width = 1
		}
		if col+width > len(line) {
			width = len(line) - col
			if width < 1 {
				width = 1
			}
		}
		_, err := fmt.Fprintf(w, "%s\n%d. %s in %s (at line %d)\n%s\n%s%s\n%s\n",
			separator, i+1, p.Severity, p.Unit, p.Line,
			line, indentFor(line, col), strings.Repeat("^", width), p.Message())
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, separator)
	return err
}

// RenderString is Render into a string.
func RenderString(problems []*Problem, source []byte) string {
	var b strings.Builder
	_ = Render(&b, problems, source)
	return b.String()
}

// sourceLine returns the line holding offset, without its separator, and
// the column of offset within it.
func sourceLine(source []byte, offset int) (string, int) {
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		offset = 0
	}
	start := offset
	for start > 0 && source[start-1] != '\n' && source[start-1] != '\r' {
		start--
	}
	end := offset
	for end < len(source) && source[end] != '\n' && source[end] != '\r' {
		end++
	}
	return string(source[start:end]), offset - start
}

func indentFor(line string, col int) string {
	var b strings.Builder
	for i := 0; i < col && i < len(line); i++ {
		if line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	for i := len(line); i < col; i++ {
		b.WriteByte(' ')
	}
	return b.String()
}
