package parser

import "encoding/json"

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Token    string      `json:"token,omitempty"`
	Constant *jsonConst  `json:"constant,omitempty"`
	Assist   *jsonAssist `json:"assist,omitempty"`
	Unparsed bool        `json:"unparsed,omitempty"`
	Error    *jsonError  `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonConst struct {
	Value    string `json:"value"`
	Elements int    `json:"elements,omitempty"`
}

type jsonAssist struct {
	Identifier string   `json:"identifier"`
	Replaced   jsonSpan `json:"replaced"`
	Source     string   `json:"source"`
	Keywords   []string `json:"keywords,omitempty"`
}

type jsonError struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func spanJSON(s Span) jsonSpan {
	return jsonSpan{
		Start: jsonPosition{Offset: s.Start.Offset, Line: s.Start.Line, Column: s.Start.Column},
		End:   jsonPosition{Offset: s.End.Offset, Line: s.End.Line, Column: s.End.Column},
	}
}

func (n *Node) toJSON() *jsonNode {
	jn := &jsonNode{
		Kind:     n.Kind.String(),
		Unparsed: n.Unparsed,
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		s := spanJSON(n.Span)
		jn.Span = &s
	}

	if n.Token != nil {
		jn.Token = n.Token.Literal
	}

	switch c := n.Constant.(type) {
	case *Literal:
		jn.Constant = &jsonConst{Value: c.Value()}
		if c.IsAggregate() {
			jn.Constant.Elements = len(c.Pieces())
		}
	case *Concatenation:
		jn.Constant = &jsonConst{Value: c.Value(), Elements: len(c.Elements)}
	}

	if a := n.Assist; a != nil {
		jn.Assist = &jsonAssist{
			Identifier: a.Identifier,
			Replaced:   spanJSON(a.Replaced),
			Source:     a.Source,
			Keywords:   a.Keywords,
		}
	}

	if n.Error != nil {
		jn.Error = &jsonError{
			Message: n.Error.Message,
		}
		for _, exp := range n.Error.Expected {
			jn.Error.Expected = append(jn.Error.Expected, exp.String())
		}
		if n.Error.Got != nil {
			jn.Error.Got = n.Error.Got.Literal
		}
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON()
		}
	}

	return jn
}
