package format

import (
	"strings"

	"github.com/dhamidi/javaparse/java/parser"
)

func (p *JavaPrinter) packageDecl(n *parser.Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		if c.Kind == parser.KindAnnotation {
			b.WriteString(p.annotation(c) + " ")
			continue
		}
		b.WriteString("package " + p.name(c) + ";")
	}
	return b.String()
}

func (p *JavaPrinter) importDecl(n *parser.Node) string {
	if n.Kind == parser.KindModuleImportDecl {
		return "import module " + p.name(child(n, 0)) + ";"
	}
	var b strings.Builder
	b.WriteString("import ")
	for _, c := range n.Children {
		switch {
		case isToken(c, parser.TokenStatic):
			b.WriteString("static ")
		case isToken(c, parser.TokenStar):
			b.WriteString(".*")
		default:
			b.WriteString(p.name(c))
		}
	}
	b.WriteString(";")
	return b.String()
}

// name renders a dotted name, or the sentinel standing in for it.
func (p *JavaPrinter) name(n *parser.Node) string {
	switch {
	case n == nil:
		return ""
	case n.Kind == parser.KindQualifiedName:
		return p.join(n.Children, ".", tokenText)
	case n.Kind.IsSentinel():
		return p.sentinel(n)
	case n.Kind == parser.KindError:
		return missing
	}
	return p.expr(n)
}

// modifiers renders n followed by a space, or nothing when n is empty.
func (p *JavaPrinter) modifiers(n *parser.Node) string {
	if n == nil || len(n.Children) == 0 {
		return ""
	}
	return p.join(n.Children, " ", func(c *parser.Node) string {
		if c.Kind == parser.KindAnnotation {
			return p.annotation(c)
		}
		return tokenText(c)
	}) + " "
}

func (p *JavaPrinter) annotation(n *parser.Node) string {
	out := "@" + p.name(child(n, 0))
	if len(n.Children) < 2 {
		return out
	}
	return out + "(" + p.join(n.Children[1:], ", ", p.annotationValue) + ")"
}

func (p *JavaPrinter) annotationValue(n *parser.Node) string {
	switch n.Kind {
	case parser.KindAnnotation:
		return p.annotation(n)
	case parser.KindAnnotationElement:
		return tokenText(child(n, 0)) + " = " + p.annotationValue(child(n, 1))
	case parser.KindArrayInit:
		return "{" + p.join(n.Children, ", ", p.annotationValue) + "}"
	}
	return p.expr(n)
}

// member renders a type declaration or class body member.
func (p *JavaPrinter) member(n *parser.Node) string {
	switch {
	case n.Kind.IsSentinel():
		return p.sentinel(n)
	case n.Kind == parser.KindLocalClassDecl:
		return p.member(child(n, 0))
	case n.Kind.IsTypeDecl():
		return p.typeDecl(n)
	}
	switch n.Kind {
	case parser.KindError:
		return ""
	case parser.KindEmptyStmt:
		return ";"
	case parser.KindFieldDecl:
		return p.variables(n) + ";"
	case parser.KindMethodDecl:
		return p.methodDecl(n)
	case parser.KindConstructorDecl, parser.KindCompactConstructorDecl:
		return p.constructorDecl(n)
	case parser.KindInitializer:
		var b strings.Builder
		for _, c := range n.Children {
			if c.Kind == parser.KindModifiers {
				b.WriteString(p.modifiers(c))
				continue
			}
			b.WriteString(p.block(c))
		}
		return b.String()
	case parser.KindEnumConstant:
		return p.enumConstant(n)
	case parser.KindModuleDecl:
		return p.moduleDecl(n)
	case parser.KindPackageDecl:
		return p.packageDecl(n)
	case parser.KindImportDecl, parser.KindModuleImportDecl:
		return p.importDecl(n)
	}
	return p.stmt(n)
}

var typeKeywords = map[parser.NodeKind]string{
	parser.KindClassDecl:      "class",
	parser.KindInterfaceDecl:  "interface",
	parser.KindEnumDecl:       "enum",
	parser.KindRecordDecl:     "record",
	parser.KindAnnotationDecl: "@interface",
}

func (p *JavaPrinter) typeDecl(n *parser.Node) string {
	var b strings.Builder
	keyword := typeKeywords[n.Kind]
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindModifiers:
			b.WriteString(p.modifiers(c))
			b.WriteString(keyword)
		case parser.KindTypeParameters:
			b.WriteString(p.typeParameters(c))
		case parser.KindParameters:
			b.WriteString(p.parameters(c))
		case parser.KindExtendsClause:
			b.WriteString(" extends " + p.join(c.Children, ", ", p.typ))
		case parser.KindImplementsClause:
			b.WriteString(" implements " + p.join(c.Children, ", ", p.typ))
		case parser.KindPermitsClause:
			b.WriteString(" permits " + p.join(c.Children, ", ", p.typ))
		case parser.KindClassBody:
			b.WriteString(" " + p.classBody(c))
		default:
			b.WriteString(" " + p.expr(c))
		}
	}
	return b.String()
}

// classBody renders members one per line. Enum constants come first,
// separated by commas and closed by a semicolon when members follow.
func (p *JavaPrinter) classBody(n *parser.Node) string {
	var constants, members []string
	for _, c := range n.Children {
		if c.Kind == parser.KindEnumConstant {
			constants = append(constants, p.enumConstant(c))
			continue
		}
		if s := p.member(c); s != "" {
			members = append(members, s)
		}
	}
	for i := range constants {
		switch {
		case i < len(constants)-1:
			constants[i] += ","
		case len(members) > 0:
			constants[i] += ";"
		}
	}
	return p.braced(append(constants, members...))
}

func (p *JavaPrinter) enumConstant(n *parser.Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindAnnotation:
			b.WriteString(p.annotation(c) + " ")
		case parser.KindParameters:
			b.WriteString(p.arguments(c))
		case parser.KindClassBody:
			b.WriteString(" " + p.classBody(c))
		default:
			b.WriteString(p.expr(c))
		}
	}
	return b.String()
}

func (p *JavaPrinter) methodDecl(n *parser.Node) string {
	var b strings.Builder
	afterParams, terminated := false, false
	for _, c := range n.Children {
		switch {
		case c.Kind == parser.KindModifiers:
			b.WriteString(p.modifiers(c))
		case c.Kind == parser.KindTypeParameters:
			b.WriteString(p.typeParameters(c) + " ")
		case c.Kind == parser.KindParameters:
			b.WriteString(p.parameters(c))
			afterParams = true
		case !afterParams && (c.Kind == parser.KindIdentifier || c.Kind == parser.KindSelectOnMethodName):
			b.WriteString(" " + p.expr(c))
		case !afterParams:
			b.WriteString(p.typ(c))
		case c.Kind == parser.KindDimension:
			b.WriteString("[]")
		case c.Kind == parser.KindThrowsList:
			b.WriteString(p.throws(c))
		case c.Kind == parser.KindBlock:
			b.WriteString(" " + p.block(c))
			terminated = true
		default:
			b.WriteString(" default " + p.annotationValue(c) + ";")
			terminated = true
		}
	}
	if !terminated {
		b.WriteString(";")
	}
	return b.String()
}

func (p *JavaPrinter) constructorDecl(n *parser.Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindModifiers:
			b.WriteString(p.modifiers(c))
		case parser.KindTypeParameters:
			b.WriteString(p.typeParameters(c) + " ")
		case parser.KindParameters:
			b.WriteString(p.parameters(c))
		case parser.KindThrowsList:
			b.WriteString(p.throws(c))
		case parser.KindBlock:
			b.WriteString(" " + p.block(c))
		default:
			b.WriteString(p.expr(c))
		}
	}
	return b.String()
}

func (p *JavaPrinter) throws(n *parser.Node) string {
	return " throws " + p.join(n.Children, ", ", p.typ)
}

// variables renders the modifiers, type and declarators of a field or
// local variable declaration, without the semicolon.
func (p *JavaPrinter) variables(n *parser.Node) string {
	var b strings.Builder
	declarators := 0
	for _, c := range n.Children {
		switch {
		case c.Kind == parser.KindModifiers:
			b.WriteString(p.modifiers(c))
		case c.IsDeclarator():
			if declarators > 0 {
				b.WriteString(",")
			}
			b.WriteString(" " + p.expr(c))
			declarators++
		case c.Kind == parser.KindDimension:
			b.WriteString("[]")
		case declarators == 0:
			b.WriteString(p.typ(c))
		case c.Kind == parser.KindArrayInit:
			b.WriteString(" = " + p.arrayInit(c))
		default:
			b.WriteString(" = " + p.expr(c))
		}
	}
	return b.String()
}

// parameters renders a formal parameter list.
func (p *JavaPrinter) parameters(n *parser.Node) string {
	return "(" + p.join(n.Children, ", ", p.parameter) + ")"
}

func (p *JavaPrinter) parameter(n *parser.Node) string {
	switch n.Kind {
	case parser.KindParameter:
		return p.parameterParts(n.Children)
	case parser.KindReceiverParameter:
		var b strings.Builder
		for _, c := range n.Children {
			switch c.Kind {
			case parser.KindAnnotation:
				b.WriteString(p.annotation(c) + " ")
			case parser.KindIdentifier:
				b.WriteString(tokenText(c) + ".")
			default:
				b.WriteString(p.typ(c) + " ")
			}
		}
		b.WriteString("this")
		return b.String()
	}
	return p.expr(n)
}

// parameterParts renders modifiers, type, varargs marker, name and
// dimensions as they appear in a formal parameter.
func (p *JavaPrinter) parameterParts(children []*parser.Node) string {
	var b strings.Builder
	for _, c := range children {
		switch {
		case c.Kind == parser.KindModifiers:
			b.WriteString(p.modifiers(c))
		case isToken(c, parser.TokenEllipsis):
			b.WriteString("...")
		case c.IsDeclarator():
			b.WriteString(" " + p.expr(c))
		case c.Kind == parser.KindDimension:
			b.WriteString("[]")
		default:
			b.WriteString(p.typ(c))
		}
	}
	return b.String()
}

func (p *JavaPrinter) typeParameters(n *parser.Node) string {
	return "<" + p.join(n.Children, ", ", func(tp *parser.Node) string {
		var b strings.Builder
		bounds := 0
		for _, c := range tp.Children {
			switch c.Kind {
			case parser.KindAnnotation:
				b.WriteString(p.annotation(c) + " ")
			case parser.KindIdentifier:
				b.WriteString(tokenText(c))
			default:
				if bounds == 0 {
					b.WriteString(" extends ")
				} else {
					b.WriteString(" & ")
				}
				b.WriteString(p.typ(c))
				bounds++
			}
		}
		return b.String()
	}) + ">"
}

// typ renders a type, including the sentinels that replace a type name.
func (p *JavaPrinter) typ(n *parser.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case parser.KindType:
		if n.Token != nil {
			return n.Token.Literal
		}
		var b strings.Builder
		named := false
		for _, c := range n.Children {
			switch c.Kind {
			case parser.KindAnnotation:
				b.WriteString(p.annotation(c) + " ")
			case parser.KindTypeArguments:
				b.WriteString(p.typeArguments(c))
			default:
				if named {
					b.WriteString(".")
				}
				b.WriteString(p.name(c))
				named = true
			}
		}
		return b.String()
	case parser.KindArrayType:
		var annotations []string
		inner := ""
		for _, c := range n.Children {
			if c.Kind == parser.KindAnnotation {
				annotations = append(annotations, p.annotation(c))
				continue
			}
			inner = p.typ(c)
		}
		if len(annotations) > 0 {
			return inner + " " + strings.Join(annotations, " ") + " []"
		}
		return inner + "[]"
	case parser.KindWildcard:
		var b strings.Builder
		for _, c := range n.Children {
			if c.Kind == parser.KindAnnotation {
				b.WriteString(p.annotation(c) + " ")
			}
		}
		b.WriteString("?")
		for _, c := range n.Children {
			switch {
			case c.Kind == parser.KindAnnotation:
			case c.Kind == parser.KindIdentifier:
				b.WriteString(" " + tokenText(c) + " ")
			default:
				b.WriteString(p.typ(c))
			}
		}
		return b.String()
	case parser.KindError:
		return missing
	}
	return p.name(n)
}

func (p *JavaPrinter) typeArguments(n *parser.Node) string {
	return "<" + p.join(n.Children, ", ", p.typ) + ">"
}

func (p *JavaPrinter) moduleDecl(n *parser.Node) string {
	var b strings.Builder
	var directives []string
	for _, c := range n.Children {
		switch {
		case c.Kind == parser.KindAnnotation:
			b.WriteString(p.annotation(c) + " ")
		case isToken(c, parser.TokenOpen):
			b.WriteString("open ")
		case c.Kind == parser.KindQualifiedName || c.Kind == parser.KindCompleteOnModuleName || c.Kind == parser.KindSelectOnModuleName:
			b.WriteString("module " + p.name(c))
		default:
			if s := p.directive(c); s != "" {
				directives = append(directives, s)
			}
		}
	}
	if name := n.FirstChildOfKind(parser.KindCompleteOnModuleName); name == nil {
		b.WriteString(" " + p.braced(directives))
	}
	return b.String()
}

var directiveKeywords = map[parser.NodeKind]string{
	parser.KindRequiresDirective: "requires",
	parser.KindExportsDirective:  "exports",
	parser.KindOpensDirective:    "opens",
	parser.KindUsesDirective:     "uses",
	parser.KindProvidesDirective: "provides",
}

// directive renders one module directive. Requires modifiers are held in
// canonical order by the parser, so they print as they are stored.
func (p *JavaPrinter) directive(n *parser.Node) string {
	keyword, ok := directiveKeywords[n.Kind]
	if !ok {
		if n.Kind.IsSentinel() {
			return p.sentinel(n)
		}
		return ""
	}
	var b strings.Builder
	b.WriteString(keyword)
	switch n.Kind {
	case parser.KindRequiresDirective:
		for _, c := range n.Children {
			b.WriteString(" " + p.name(c))
		}
	default:
		joiner := " to "
		if n.Kind == parser.KindProvidesDirective {
			joiner = " with "
		}
		for i, c := range n.Children {
			switch {
			case c.Kind == parser.KindCompleteOnKeyword:
				b.WriteString(" " + p.sentinel(c))
			case i == 0:
				b.WriteString(" " + p.name(c))
			case i == 1:
				b.WriteString(joiner + p.name(c))
			default:
				b.WriteString(", " + p.name(c))
			}
		}
	}
	b.WriteString(";")
	return b.String()
}
