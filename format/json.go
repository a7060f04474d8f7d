package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/javaparse/java/parser"
)

type JSONEncoder struct {
	w    io.Writer
	unit *Unit
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(unit *Unit) error {
	e.unit = unit
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildUnitData(), "", "  ")
}

type jsonUnit struct {
	Name     string        `json:"name"`
	Complete bool          `json:"complete"`
	Errors   int           `json:"errors"`
	Problems []jsonProblem `json:"problems,omitempty"`
	Tree     *parser.Node  `json:"tree"`
}

type jsonProblem struct {
	ID       int      `json:"id"`
	Severity string   `json:"severity"`
	Line     int      `json:"line"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Message  string   `json:"message"`
	Args     []string `json:"args,omitempty"`
}

func (e *JSONEncoder) buildUnitData() jsonUnit {
	u := e.unit
	data := jsonUnit{
		Name: u.Name,
		Tree: u.Root,
	}
	for _, p := range u.Problems {
		if p.IsError() {
			data.Errors++
		}
		data.Problems = append(data.Problems, jsonProblem{
			ID:       int(p.ID),
			Severity: p.Severity.String(),
			Line:     p.Line,
			Start:    p.Start,
			End:      p.End,
			Message:  p.Message(),
			Args:     p.Args,
		})
	}
	data.Complete = data.Errors == 0
	return data
}
