// Package assist runs completion and selection parses and interprets their
// sentinels: what was replaced, which names are visible at the caret, and
// which words could complete it.
package assist

import (
	"errors"
	"fmt"

	"github.com/dhamidi/javaparse/format"
	"github.com/dhamidi/javaparse/java/parser"
	"github.com/dhamidi/javaparse/java/problem"
)

var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrEmptySelection   = errors.New("selection end before start")
)

// Result describes one completion or selection parse. When no sentinel
// was produced Node is nil and Sentinel is empty; the unit and problems
// are filled in regardless.
type Result struct {
	// Sentinel is the rendering of the sentinel node, as in
	// <CompleteOnName:foo>.
	Sentinel string
	// Unit is the rendering of the whole unit with the sentinel inline.
	Unit string
	// Identifier is the word being completed or the selected text.
	Identifier string
	// ReplacedSource is the text a chosen proposal replaces, taken from
	// [ReplacedStart, ReplacedEnd) of the original buffer.
	ReplacedSource string
	ReplacedStart  int
	ReplacedEnd    int

	Node     *parser.Node
	Root     *parser.Node
	Problems []*problem.Problem

	// Offset is the caret of a completion or the start of a selection.
	Offset int
	// Keywords lists the words a keyword completion offers.
	Keywords []string
}

// Found reports whether the parse produced a sentinel.
func (r *Result) Found() bool {
	return r.Node != nil
}

// Complete parses src as if the user had typed up to caret and asks for
// completions there.
func Complete(src []byte, caret int, opts ...parser.Option) (*Result, error) {
	if caret < 0 || caret > len(src) {
		return nil, fmt.Errorf("%w: caret %d, source length %d", ErrOffsetOutOfRange, caret, len(src))
	}
	p := parser.ParseCompletion(src, caret, opts...)
	return newResult(p, caret), nil
}

// Select parses src and looks for the construct spanning [start, end],
// end inclusive.
func Select(src []byte, start, end int, opts ...parser.Option) (*Result, error) {
	if start < 0 || end >= len(src) {
		return nil, fmt.Errorf("%w: selection [%d, %d], source length %d", ErrOffsetOutOfRange, start, end, len(src))
	}
	if end < start {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrEmptySelection, start, end)
	}
	p := parser.ParseSelection(src, start, end, opts...)
	r := newResult(p, start)
	if r.Found() {
		// The node's own span may be wider than the selection, as for a
		// call selected on its method name.
		r.ReplacedStart, r.ReplacedEnd = start, end+1
	}
	return r, nil
}

// SelectWord selects the identifier under offset, the way an editor picks
// the word under the cursor.
func SelectWord(src []byte, offset int, opts ...parser.Option) (*Result, error) {
	start, end, ok := WordAt(src, offset)
	if !ok {
		if offset < 0 || offset > len(src) {
			return nil, fmt.Errorf("%w: offset %d, source length %d", ErrOffsetOutOfRange, offset, len(src))
		}
		return &Result{Offset: offset}, nil
	}
	return Select(src, start, end, opts...)
}

// WordAt returns the inclusive bounds of the Java identifier touching
// offset.
func WordAt(src []byte, offset int) (start, end int, ok bool) {
	if offset < 0 || offset > len(src) {
		return 0, 0, false
	}
	start = offset
	for start > 0 && isWordByte(src[start-1]) {
		start--
	}
	end = offset
	for end < len(src) && isWordByte(src[end]) {
		end++
	}
	if start == end {
		return 0, 0, false
	}
	return start, end - 1, true
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b >= 0x80
}

func newResult(p *parser.Parser, offset int) *Result {
	root := p.Finish()
	r := &Result{
		Root:     root,
		Problems: p.Problems(),
		Offset:   offset,
		Unit:     format.Render(root),
	}
	node := p.AssistNode()
	if node == nil || node.Assist == nil {
		return r
	}
	r.Node = node
	r.Sentinel = format.Render(node)
	r.Identifier = node.Assist.Identifier
	r.ReplacedSource = node.Assist.Source
	r.ReplacedStart = node.Assist.Replaced.Start.Offset
	r.ReplacedEnd = node.Assist.Replaced.End.Offset
	r.Keywords = node.Assist.Keywords
	return r
}
