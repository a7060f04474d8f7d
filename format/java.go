package format

import (
	"io"
	"strings"

	"github.com/dhamidi/javaparse/java/problem"
)

// JavaEncoder writes the canonical rendering of a unit, followed by its
// problems in the diagnostic text format when there are any.
type JavaEncoder struct {
	w       io.Writer
	unit    *Unit
	printer *JavaPrinter
}

func NewJavaEncoder(w io.Writer) *JavaEncoder {
	return &JavaEncoder{w: w, printer: NewJavaPrinter()}
}

func (e *JavaEncoder) Encode(unit *Unit) error {
	e.unit = unit
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JavaEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if out := e.printer.Print(e.unit.Root); out != "" {
		sb.WriteString(out)
		sb.WriteString("\n")
	}
	if len(e.unit.Problems) > 0 {
		if err := problem.Render(&sb, e.unit.Problems, e.unit.Source); err != nil {
			return nil, err
		}
	}
	return []byte(sb.String()), nil
}

// TreeEncoder writes the node tree of a unit, one node per line.
type TreeEncoder struct {
	w         io.Writer
	unit      *Unit
	positions bool
}

func NewTreeEncoder(w io.Writer, positions bool) *TreeEncoder {
	return &TreeEncoder{w: w, positions: positions}
}

func (e *TreeEncoder) Encode(unit *Unit) error {
	e.unit = unit
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	if e.unit.Root == nil {
		return nil, nil
	}
	if e.positions {
		return []byte(e.unit.Root.StringWithPositions()), nil
	}
	return []byte(e.unit.Root.String()), nil
}
