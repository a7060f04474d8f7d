package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/javaparse/java/parser"
)

// LineEncoder writes a tab separated outline of the declarations in a
// unit: one line per type, field, method and constructor, nested types
// included. Empty columns are written as "-".
type LineEncoder struct {
	w       io.Writer
	unit    *Unit
	printer *JavaPrinter
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w, printer: NewJavaPrinter()}
}

func (e *LineEncoder) Encode(unit *Unit) error {
	e.unit = unit
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.unit.Root == nil {
		return nil, nil
	}
	for _, n := range e.unit.Root.Children {
		switch {
		case n.Kind == parser.KindPackageDecl:
			fmt.Fprintf(&sb, "package\t%s\n", e.printer.name(n.Children[len(n.Children)-1]))
		case n.Kind == parser.KindModuleDecl:
			e.writeModule(&sb, n)
		case n.Kind.IsTypeDecl():
			e.writeType(&sb, n, "")
		default:
			e.writeMember(&sb, n, "")
		}
	}
	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeModule(sb *strings.Builder, n *parser.Node) {
	name := n.FirstChildOfKind(parser.KindQualifiedName)
	fmt.Fprintf(sb, "module\t%s\n", e.printer.name(name))
	for _, c := range n.Children {
		if keyword, ok := directiveKeywords[c.Kind]; ok {
			fmt.Fprintf(sb, "%s\t%s\n", keyword, strings.TrimSuffix(strings.TrimPrefix(e.printer.directive(c), keyword+" "), ";"))
		}
	}
}

func (e *LineEncoder) writeType(sb *strings.Builder, n *parser.Node, outer string) {
	name := qualify(outer, declaredName(n))
	fmt.Fprintf(sb, "%s\t%s\t%s\n", typeKeywords[n.Kind], name, modifierList(n.FirstChildOfKind(parser.KindModifiers)))
	body := n.FirstChildOfKind(parser.KindClassBody)
	if body == nil {
		return
	}
	for _, m := range body.Children {
		e.writeMember(sb, m, name)
	}
}

func (e *LineEncoder) writeMember(sb *strings.Builder, n *parser.Node, outer string) {
	mods := modifierList(n.FirstChildOfKind(parser.KindModifiers))
	switch {
	case n.Kind.IsTypeDecl():
		e.writeType(sb, n, outer)
	case n.Kind == parser.KindEnumConstant:
		fmt.Fprintf(sb, "constant\t%s\t%s\n", qualify(outer, declaredName(n)), outer)
	case n.Kind == parser.KindFieldDecl:
		typ := "-"
		for _, c := range n.Children {
			switch {
			case c.Kind == parser.KindType || c.Kind == parser.KindArrayType:
				typ = e.printer.typ(c)
			case c.IsDeclarator():
				fmt.Fprintf(sb, "field\t%s\t%s\t%s\n", qualify(outer, tokenText(c)), typ, mods)
			}
		}
	case n.Kind == parser.KindMethodDecl:
		returns := "-"
		if t := n.FirstChildOfKind(parser.KindType); t != nil {
			returns = e.printer.typ(t)
		} else if t := n.FirstChildOfKind(parser.KindArrayType); t != nil {
			returns = e.printer.typ(t)
		}
		fmt.Fprintf(sb, "method\t%s\t%s\t%s\t%s\n",
			qualify(outer, declaredName(n)), returns, e.parameterTypes(n), mods)
	case n.Kind == parser.KindConstructorDecl || n.Kind == parser.KindCompactConstructorDecl:
		fmt.Fprintf(sb, "constructor\t%s\t%s\t%s\n", qualify(outer, declaredName(n)), e.parameterTypes(n), mods)
	}
}

func (e *LineEncoder) parameterTypes(n *parser.Node) string {
	params := n.FirstChildOfKind(parser.KindParameters)
	if params == nil || len(params.Children) == 0 {
		return "-"
	}
	var parts []string
	for _, p := range params.ChildrenOfKind(parser.KindParameter) {
		typ := ""
		for _, c := range p.Children {
			switch {
			case c.Kind == parser.KindType || c.Kind == parser.KindArrayType:
				typ = e.printer.typ(c)
			case isToken(c, parser.TokenEllipsis):
				typ += "..."
			case c.Kind == parser.KindDimension:
				typ += "[]"
			}
		}
		parts = append(parts, typ)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

// declaredName returns the first identifier child of a declaration.
func declaredName(n *parser.Node) string {
	for _, c := range n.Children {
		if c.Kind == parser.KindIdentifier {
			return tokenText(c)
		}
	}
	return "-"
}

func modifierList(n *parser.Node) string {
	if n == nil {
		return "-"
	}
	var mods []string
	for _, c := range n.Children {
		if c.Kind == parser.KindIdentifier {
			mods = append(mods, tokenText(c))
		}
	}
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, ",")
}

func qualify(outer, name string) string {
	if outer == "" {
		return name
	}
	return outer + "." + name
}
