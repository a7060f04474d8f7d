package format

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dhamidi/javaparse/java/parser"
)

func (p *JavaPrinter) expr(n *parser.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind.IsSentinel() {
		return p.sentinel(n)
	}
	switch n.Kind {
	case parser.KindError:
		return missing
	case parser.KindIdentifier:
		return tokenText(n)
	case parser.KindLiteral:
		return p.literal(n)
	case parser.KindThis:
		return "this"
	case parser.KindSuper:
		return "super"
	case parser.KindQualifiedName:
		return p.name(n)
	case parser.KindFieldAccess:
		var b strings.Builder
		b.WriteString(p.expr(child(n, 0)) + ".")
		for _, c := range n.Children[1:] {
			if c.Kind == parser.KindTypeArguments {
				b.WriteString(p.typeArguments(c))
				continue
			}
			b.WriteString(p.expr(c))
		}
		return b.String()
	case parser.KindCallExpr:
		return p.expr(child(n, 0)) + p.arguments(child(n, 1))
	case parser.KindArrayAccess:
		return p.expr(child(n, 0)) + "[" + p.expr(child(n, 1)) + "]"
	case parser.KindAssignExpr, parser.KindBinaryExpr:
		return p.expr(child(n, 0)) + " " + tokenText(child(n, 1)) + " " + p.expr(child(n, 2))
	case parser.KindTernaryExpr:
		return p.expr(child(n, 0)) + " ? " + p.expr(child(n, 1)) + " : " + p.expr(child(n, 2))
	case parser.KindUnaryExpr:
		return tokenText(child(n, 0)) + p.expr(child(n, 1))
	case parser.KindPostfixExpr:
		return p.expr(child(n, 0)) + tokenText(child(n, 1))
	case parser.KindCastExpr:
		types := child(n, 0)
		var target string
		if types != nil {
			target = p.join(types.Children, " & ", p.typ)
		}
		return "(" + target + ") " + p.expr(child(n, 1))
	case parser.KindInstanceofExpr:
		return p.expr(child(n, 0)) + " instanceof " + p.expr(child(n, 1))
	case parser.KindParenExpr:
		return "(" + p.expr(child(n, 0)) + ")"
	case parser.KindClassLiteral:
		return p.expr(child(n, 0)) + ".class"
	case parser.KindMethodRef:
		var b strings.Builder
		b.WriteString(p.expr(child(n, 0)) + "::")
		for _, c := range n.Children[1:] {
			if c.Kind == parser.KindTypeArguments {
				b.WriteString(p.typeArguments(c))
				continue
			}
			b.WriteString(tokenText(c))
		}
		return b.String()
	case parser.KindNewExpr:
		return p.newExpr(n)
	case parser.KindNewArrayExpr:
		return p.newArrayExpr(n)
	case parser.KindArrayInit:
		return p.arrayInit(n)
	case parser.KindLambdaExpr:
		return p.lambda(n)
	case parser.KindSwitchExpr:
		return p.switchBlock(n)
	case parser.KindTemplateExpr:
		return p.expr(child(n, 0)) + "." + p.expr(child(n, 1))
	case parser.KindType, parser.KindArrayType, parser.KindWildcard:
		return p.typ(n)
	case parser.KindPatternVariable:
		return p.patternVariable(n)
	case parser.KindRecordPattern:
		return p.typ(child(n, 0)) + "(" + p.join(n.Children[1:], ", ", p.expr) + ")"
	case parser.KindMatchAllPattern, parser.KindUnnamedVariable:
		return "_"
	case parser.KindAnnotation:
		return p.annotation(n)
	case parser.KindParameters:
		return p.arguments(n)
	case parser.KindParameter, parser.KindReceiverParameter:
		return p.parameter(n)
	case parser.KindLocalVarDecl:
		return p.variables(n)
	case parser.KindCatchClause:
		return p.catchHead(n)
	}
	return tokenText(n)
}

// arguments renders the argument list of a call or creation.
func (p *JavaPrinter) arguments(n *parser.Node) string {
	if n == nil {
		return "()"
	}
	return "(" + p.join(n.Children, ", ", p.expr) + ")"
}

func (p *JavaPrinter) arrayInit(n *parser.Node) string {
	if len(n.Children) == 0 {
		return "{}"
	}
	return "{" + p.join(n.Children, ", ", p.expr) + "}"
}

func (p *JavaPrinter) patternVariable(n *parser.Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		switch {
		case c.Kind == parser.KindModifiers:
			b.WriteString(p.modifiers(c))
		case c.IsDeclarator():
			b.WriteString(" " + p.expr(c))
		default:
			b.WriteString(p.typ(c))
		}
	}
	return b.String()
}

// newExpr renders [outer.]new [<T>]Type(args) [body].
func (p *JavaPrinter) newExpr(n *parser.Node) string {
	var b strings.Builder
	for i, c := range n.Children {
		switch c.Kind {
		case parser.KindTypeArguments:
			if i == 0 {
				b.WriteString("new ")
			}
			b.WriteString(p.typeArguments(c))
		case parser.KindType:
			if b.Len() == 0 {
				b.WriteString("new ")
			}
			b.WriteString(p.typ(c))
		case parser.KindParameters:
			b.WriteString(p.arguments(c))
		case parser.KindClassBody:
			b.WriteString(" " + p.classBody(c))
		default:
			b.WriteString(p.expr(c) + ".new ")
		}
	}
	return b.String()
}

func (p *JavaPrinter) newArrayExpr(n *parser.Node) string {
	var b strings.Builder
	b.WriteString("new ")
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindDimension:
			for _, d := range c.Children {
				if d.Kind == parser.KindAnnotation {
					b.WriteString(" " + p.annotation(d) + " ")
				}
			}
			b.WriteString("[")
			if last := child(c, len(c.Children)-1); last != nil && last.Kind != parser.KindAnnotation {
				b.WriteString(p.expr(last))
			}
			b.WriteString("]")
		case parser.KindArrayInit:
			b.WriteString(" " + p.arrayInit(c))
		default:
			b.WriteString(p.typ(c))
		}
	}
	return b.String()
}

// lambda renders a lambda. A single untyped parameter is written without
// parentheses.
func (p *JavaPrinter) lambda(n *parser.Node) string {
	params := child(n, 0)
	var head string
	switch {
	case params == nil:
		head = "()"
	case len(params.Children) == 1 && params.Children[0].Kind != parser.KindParameter:
		head = p.expr(params.Children[0])
	default:
		head = p.parameters(params)
	}
	body := child(n, 1)
	if body != nil && body.Kind == parser.KindBlock {
		return head + " -> " + p.block(body)
	}
	return head + " -> " + p.expr(body)
}

// literal renders a literal as written. A folded literal renders its
// merged form: an aggregate as one quoted string, a concatenation as its
// elements joined by +.
func (p *JavaPrinter) literal(n *parser.Node) string {
	if n.Token != nil {
		return strings.ReplaceAll(n.Token.Literal, "\n", literalBreak)
	}
	if n.Constant == nil {
		return missing
	}
	return constant(n.Constant)
}

func constant(m parser.Mergeable) string {
	switch c := m.(type) {
	case *parser.Literal:
		if c.IsAggregate() {
			return quoteJava(c.Value())
		}
		return strings.ReplaceAll(c.Raw, "\n", literalBreak)
	case *parser.Concatenation:
		parts := make([]string, len(c.Elements))
		for i, e := range c.Elements {
			parts[i] = constant(e)
		}
		return strings.Join(parts, " + ")
	}
	return quoteJava(m.Value())
}

// quoteJava writes s as a Java string literal.
func quoteJava(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// sentinel renders an assist node as <Kind:content>. Name-like
// completions show the replaced source; the others show the partial
// construct they wrap. A selection shows the construct it replaced.
func (p *JavaPrinter) sentinel(n *parser.Node) string {
	return "<" + n.Kind.String() + ":" + p.sentinelContent(n) + ">"
}

func (p *JavaPrinter) sentinelContent(n *parser.Node) string {
	assist := n.Assist
	if assist == nil {
		assist = &parser.Assist{}
	}
	if n.Kind.IsSelection() {
		if n.Assist == nil {
			return ""
		}
		original := *n
		original.Kind = assist.Selected
		original.Assist = nil
		return p.expr(&original)
	}

	switch n.Kind {
	case parser.KindCompleteOnMemberAccess:
		return p.expr(child(n, 0)) + "." + assist.Identifier
	case parser.KindCompleteOnMessageSend:
		return p.invocation(n.Children)
	case parser.KindCompleteOnAllocationExpression:
		return "new " + p.typ(child(n, 0)) + p.arguments(child(n, 1))
	case parser.KindCompleteOnLocalName:
		return p.typ(child(n, 0)) + " " + assist.Identifier
	case parser.KindCompleteOnArgumentName:
		return p.parameterParts(n.Children) + " " + assist.Identifier
	}
	return assist.Source
}
