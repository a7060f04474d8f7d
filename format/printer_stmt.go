package format

import (
	"strings"

	"github.com/dhamidi/javaparse/java/parser"
)

func (p *JavaPrinter) block(n *parser.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind != parser.KindBlock {
		return p.stmt(n)
	}
	if n.Unparsed {
		return "{ /* unparsed */ }"
	}
	return p.braced(p.statements(n.Children))
}

func (p *JavaPrinter) statements(nodes []*parser.Node) []string {
	lines := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := p.stmt(n); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

// body renders the sub-statement of a control statement: a block on the
// same line, anything else indented on the next.
func (p *JavaPrinter) body(n *parser.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == parser.KindBlock {
		return " " + p.block(n)
	}
	return "\n" + p.indent(p.stmt(n))
}

func (p *JavaPrinter) stmt(n *parser.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind.IsSentinel() {
		return p.sentinel(n) + ";"
	}
	switch n.Kind {
	case parser.KindError:
		return ""
	case parser.KindBlock:
		return p.block(n)
	case parser.KindEmptyStmt:
		return ";"
	case parser.KindExprStmt:
		return p.expr(child(n, 0)) + ";"
	case parser.KindLocalVarDecl:
		return p.variables(n) + ";"
	case parser.KindLocalClassDecl:
		return p.member(child(n, 0))
	case parser.KindIfStmt:
		return p.ifStmt(n)
	case parser.KindForStmt:
		return p.forStmt(n)
	case parser.KindEnhancedForStmt:
		out := "for (" + p.resource(child(n, 0))
		if len(n.Children) < 3 {
			return out + ")"
		}
		return out + " : " + p.expr(child(n, 1)) + ")" + p.body(child(n, 2))
	case parser.KindWhileStmt:
		return "while (" + p.expr(child(n, 0)) + ")" + p.body(child(n, 1))
	case parser.KindDoStmt:
		out := "do" + p.body(child(n, 0))
		if child(n, 0) != nil && child(n, 0).Kind == parser.KindBlock {
			out += " "
		} else {
			out += "\n"
		}
		return out + "while (" + p.expr(child(n, 1)) + ");"
	case parser.KindSwitchStmt:
		return p.switchBlock(n)
	case parser.KindReturnStmt:
		if len(n.Children) == 0 {
			return "return;"
		}
		return "return " + p.expr(child(n, 0)) + ";"
	case parser.KindBreakStmt, parser.KindContinueStmt:
		keyword := "break"
		if n.Kind == parser.KindContinueStmt {
			keyword = "continue"
		}
		if len(n.Children) == 0 {
			return keyword + ";"
		}
		return keyword + " " + tokenText(child(n, 0)) + ";"
	case parser.KindThrowStmt:
		return "throw " + p.expr(child(n, 0)) + ";"
	case parser.KindTryStmt:
		return p.tryStmt(n)
	case parser.KindSynchronizedStmt:
		return "synchronized (" + p.expr(child(n, 0)) + ") " + p.block(child(n, 1))
	case parser.KindAssertStmt:
		out := "assert " + p.expr(child(n, 0))
		if len(n.Children) > 1 {
			out += " : " + p.expr(child(n, 1))
		}
		return out + ";"
	case parser.KindYieldStmt:
		return "yield " + p.expr(child(n, 0)) + ";"
	case parser.KindLabeledStmt:
		return tokenText(child(n, 0)) + ": " + p.stmt(child(n, 1))
	case parser.KindExplicitConstructorInvocation:
		return p.invocation(n.Children) + ";"
	}
	if n.Kind.IsTypeDecl() || isMemberKind(n.Kind) {
		return p.member(n)
	}
	return p.expr(n) + ";"
}

func (p *JavaPrinter) ifStmt(n *parser.Node) string {
	then := child(n, 1)
	out := "if (" + p.expr(child(n, 0)) + ")" + p.body(then)
	alt := child(n, 2)
	if alt == nil {
		return out
	}
	if then != nil && then.Kind == parser.KindBlock {
		out += " else"
	} else {
		out += "\nelse"
	}
	if alt.Kind == parser.KindIfStmt {
		return out + " " + p.ifStmt(alt)
	}
	return out + p.body(alt)
}

func (p *JavaPrinter) forStmt(n *parser.Node) string {
	var init, cond, update string
	var body *parser.Node
	seenUpdate := false
	for _, c := range n.Children {
		switch {
		case c.Kind == parser.KindForInit:
			init = p.join(c.Children, ", ", p.resource)
		case c.Kind == parser.KindForUpdate:
			update = p.join(c.Children, ", ", p.expr)
			seenUpdate = true
		case seenUpdate:
			body = c
		default:
			cond = p.expr(c)
		}
	}
	out := "for (" + init + ";"
	if cond != "" {
		out += " " + cond
	}
	out += ";"
	if update != "" {
		out += " " + update
	}
	return out + ")" + p.body(body)
}

// resource renders a local variable declaration without its semicolon,
// or an expression, as found in for headers and try resources.
func (p *JavaPrinter) resource(n *parser.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == parser.KindLocalVarDecl {
		return p.variables(n)
	}
	return p.expr(n)
}

func (p *JavaPrinter) tryStmt(n *parser.Node) string {
	var resources []string
	var b strings.Builder
	b.WriteString("try")
	opened := false
	for _, c := range n.Children {
		switch {
		case c.Kind == parser.KindBlock && !opened:
			if len(resources) > 0 {
				b.WriteString(" (" + strings.Join(resources, "; ") + ")")
			}
			b.WriteString(" " + p.block(c))
			opened = true
		case !opened:
			resources = append(resources, p.resource(c))
		case c.Kind == parser.KindFinallyClause:
			b.WriteString(" finally " + p.block(child(c, 0)))
		default:
			b.WriteString(" catch (" + p.catchHead(c) + ") " + p.block(c.FirstChildOfKind(parser.KindBlock)))
		}
	}
	return b.String()
}

// catchHead renders the parameter of a catch clause. A clause selected
// on its parameter name renders the parameter as the sentinel.
func (p *JavaPrinter) catchHead(n *parser.Node) string {
	if n.Kind.IsSelection() {
		return p.sentinel(n)
	}
	var b strings.Builder
	for _, c := range n.Children {
		switch {
		case c.Kind == parser.KindModifiers:
			b.WriteString(p.modifiers(c))
		case c.Kind == parser.KindType && c.Token == nil && len(c.Children) > 0 && isTypeKind(c.Children[0].Kind):
			b.WriteString(p.join(c.Children, " | ", p.typ))
		case c.IsDeclarator():
			b.WriteString(" " + p.expr(c))
		case c.Kind == parser.KindBlock:
		default:
			b.WriteString(p.typ(c))
		}
	}
	return b.String()
}

func isTypeKind(kind parser.NodeKind) bool {
	return kind == parser.KindType || kind == parser.KindArrayType || kind == parser.KindError
}

// switchBlock renders a switch statement or expression.
func (p *JavaPrinter) switchBlock(n *parser.Node) string {
	var cases []string
	for _, c := range n.Children[min(1, len(n.Children)):] {
		cases = append(cases, p.switchCase(c))
	}
	return "switch (" + p.expr(child(n, 0)) + ") " + p.braced(cases)
}

func (p *JavaPrinter) switchCase(n *parser.Node) string {
	var labels []string
	var stmts []*parser.Node
	for _, c := range n.Children {
		if c.Kind == parser.KindSwitchLabel {
			labels = append(labels, p.switchLabel(c))
			continue
		}
		stmts = append(stmts, c)
	}
	if n.IsArrowCase() {
		out := strings.Join(labels, " ")
		for _, s := range stmts {
			out += " " + p.block(s)
		}
		return out
	}
	out := strings.Join(labels, "\n")
	if lines := p.statements(stmts); len(lines) > 0 {
		out += "\n" + p.indent(strings.Join(lines, "\n"))
	}
	return out
}

func (p *JavaPrinter) switchLabel(n *parser.Node) string {
	var items []string
	arrow, withDefault := false, false
	guard := ""
	for _, c := range n.Children {
		switch {
		case isToken(c, parser.TokenArrow):
			arrow = true
		case isToken(c, parser.TokenDefault):
			withDefault = true
		case c.Kind == parser.KindGuard:
			guard = " when " + p.expr(child(c, 0))
		default:
			items = append(items, p.expr(c))
		}
	}
	out := "default"
	if len(items) > 0 {
		if withDefault {
			items = append(items, "default")
		}
		out = "case " + strings.Join(items, ", ") + guard
	}
	if arrow {
		return out + " ->"
	}
	return out + ":"
}

// invocation renders this(...), super(...) and their qualified and
// parameterized forms from the parts of an explicit constructor call.
func (p *JavaPrinter) invocation(parts []*parser.Node) string {
	var b strings.Builder
	for _, c := range parts {
		switch c.Kind {
		case parser.KindParameters:
			b.WriteString(p.arguments(c))
		case parser.KindTypeArguments:
			if b.Len() > 0 {
				b.WriteString(".")
			}
			b.WriteString(p.typeArguments(c))
		default:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), ">") {
				b.WriteString(".")
			}
			b.WriteString(p.expr(c))
		}
	}
	return b.String()
}
