package format

import (
	"io"
	"strings"

	"github.com/dhamidi/javaparse/java/parser"
)

// missing stands in for a construct the parser had to assume.
const missing = "$missing$"

// literalBreak holds the place of a line break inside a literal while
// the output is assembled, so indentation never reaches into text blocks.
const literalBreak = "\x00"

// JavaPrinter renders a syntax tree as canonical Java source: one member
// or statement per line, two-space indentation, and assist sentinels
// inline as <Kind:content>. The output depends only on the tree, so two
// trees render identically exactly when they have the same shape.
type JavaPrinter struct {
	indentStr string
}

func NewJavaPrinter() *JavaPrinter {
	return &JavaPrinter{indentStr: "  "}
}

// Render renders node with the default printer.
func Render(node *parser.Node) string {
	return NewJavaPrinter().Print(node)
}

// Print renders node. Units, declarations and statements come out one
// per line; an expression comes out as a single expression.
func (p *JavaPrinter) Print(node *parser.Node) string {
	if node == nil {
		return ""
	}
	var out string
	switch {
	case node.Kind == parser.KindCompilationUnit:
		out = p.compilationUnit(node)
	case node.Kind.IsSentinel():
		out = p.sentinel(node)
	case node.Kind.IsTypeDecl(), isMemberKind(node.Kind):
		out = p.member(node)
	case isStatementKind(node.Kind):
		out = p.stmt(node)
	default:
		out = p.expr(node)
	}
	return strings.ReplaceAll(out, literalBreak, "\n")
}

// Fprint writes the rendering of node followed by a newline.
func (p *JavaPrinter) Fprint(w io.Writer, node *parser.Node) error {
	_, err := io.WriteString(w, p.Print(node)+"\n")
	return err
}

func (p *JavaPrinter) compilationUnit(node *parser.Node) string {
	var lines []string
	for _, child := range node.Children {
		var s string
		switch child.Kind {
		case parser.KindPackageDecl:
			s = p.packageDecl(child)
		case parser.KindImportDecl, parser.KindModuleImportDecl:
			s = p.importDecl(child)
		case parser.KindModuleDecl:
			s = p.moduleDecl(child)
		default:
			s = p.member(child)
		}
		if s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

// indent shifts every line of s one level right.
func (p *JavaPrinter) indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = p.indentStr + line
		}
	}
	return strings.Join(lines, "\n")
}

// braced wraps lines in braces, one per line, or renders {} when empty.
func (p *JavaPrinter) braced(lines []string) string {
	if len(lines) == 0 {
		return "{}"
	}
	return "{\n" + p.indent(strings.Join(lines, "\n")) + "\n}"
}

func (p *JavaPrinter) join(nodes []*parser.Node, sep string, render func(*parser.Node) string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, render(n))
	}
	return strings.Join(parts, sep)
}

func tokenText(n *parser.Node) string {
	if n == nil || n.Token == nil {
		return ""
	}
	return n.Token.Literal
}

func isToken(n *parser.Node, kind parser.TokenKind) bool {
	return n != nil && n.Token != nil && n.Token.Kind == kind
}

func child(n *parser.Node, i int) *parser.Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

func isMemberKind(kind parser.NodeKind) bool {
	switch kind {
	case parser.KindFieldDecl, parser.KindMethodDecl, parser.KindConstructorDecl,
		parser.KindCompactConstructorDecl, parser.KindInitializer, parser.KindEnumConstant,
		parser.KindModuleDecl, parser.KindPackageDecl, parser.KindImportDecl,
		parser.KindModuleImportDecl:
		return true
	}
	return false
}

func isStatementKind(kind parser.NodeKind) bool {
	switch kind {
	case parser.KindBlock, parser.KindEmptyStmt, parser.KindExprStmt, parser.KindIfStmt,
		parser.KindForStmt, parser.KindEnhancedForStmt, parser.KindWhileStmt, parser.KindDoStmt,
		parser.KindSwitchStmt, parser.KindReturnStmt, parser.KindBreakStmt,
		parser.KindContinueStmt, parser.KindThrowStmt, parser.KindTryStmt, parser.KindSynchronizedStmt,
		parser.KindAssertStmt, parser.KindYieldStmt, parser.KindLocalVarDecl, parser.KindLocalClassDecl,
		parser.KindLabeledStmt, parser.KindExplicitConstructorInvocation:
		return true
	}
	return false
}
