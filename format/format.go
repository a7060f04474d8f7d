package format

import (
	"encoding"

	"github.com/dhamidi/javaparse/java/parser"
	"github.com/dhamidi/javaparse/java/problem"
)

// Unit is a parsed compilation unit together with what the encoders need
// to describe it.
type Unit struct {
	Name     string
	Source   []byte
	Root     *parser.Node
	Problems []*problem.Problem
}

// NewUnit captures the result of a finished parse.
func NewUnit(name string, p *parser.Parser, root *parser.Node) *Unit {
	return &Unit{
		Name:     name,
		Source:   p.Source(),
		Root:     root,
		Problems: p.Problems(),
	}
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(unit *Unit) error
}
