package assist

import (
	"github.com/dhamidi/javaparse/format"
	"github.com/dhamidi/javaparse/java/parser"
)

type NameKind int

const (
	NameLocal NameKind = iota
	NameParameter
	NamePatternVariable
	NameField
	NameMethod
	NameType
	NameTypeParameter
)

var nameKindStrings = [...]string{
	NameLocal:           "local",
	NamePatternVariable: "pattern",
	NameParameter:       "parameter",
	NameField:           "field",
	NameMethod:          "method",
	NameType:            "type",
	NameTypeParameter:   "type parameter",
}

func (k NameKind) String() string {
	if int(k) < len(nameKindStrings) {
		return nameKindStrings[k]
	}
	return "unknown"
}

// IsType reports whether k names a type rather than a value or method.
func (k NameKind) IsType() bool {
	return k == NameType || k == NameTypeParameter
}

// Name is a declaration visible at some offset.
type Name struct {
	Name string
	Kind NameKind
	// Type is the declared type as written, or "" when there is none, as
	// for types and implicitly typed lambda parameters.
	Type string
	// Decl is the declaring construct: a local variable or field
	// declaration, a parameter, a pattern, a method or a type.
	Decl *parser.Node
	// Span is the span of the declared name.
	Span parser.Span
}

// VisibleNames lists the declarations in scope at offset, innermost
// first. A name shadowed by an inner declaration of the same kind family
// is listed once.
//
// Pattern variables follow the flow rules for conditions: a variable
// bound by `x instanceof T v` is in scope where the condition is known to
// be true, and after an if statement whose condition is false on the only
// path that completes normally, as in
//
//	if (!(o instanceof String s)) return;
//	s.length();
func VisibleNames(root *parser.Node, offset int) []Name {
	if root == nil {
		return nil
	}
	path := pathTo(root, offset)
	c := &collector{seen: map[nameKey]bool{}}

	// The innermost node holds offset between its children.
	inner := path[len(path)-1]
	before := 0
	for _, child := range inner.Children {
		if child.Span.End.Offset < offset {
			before++
		}
	}
	c.scope(inner, before, nil)

	for i := len(path) - 1; i > 0; i-- {
		c.scope(path[i-1], indexOf(path[i-1], path[i]), path[i])
	}
	c.unit(root)
	return c.names
}

// Lookup returns the innermost visible declaration called name, preferring
// values and methods over types.
func Lookup(root *parser.Node, offset int, name string) (Name, bool) {
	var typ *Name
	for _, n := range VisibleNames(root, offset) {
		if n.Name != name {
			continue
		}
		if !n.Kind.IsType() {
			return n, true
		}
		if typ == nil {
			found := n
			typ = &found
		}
	}
	if typ != nil {
		return *typ, true
	}
	return Name{}, false
}

type nameKey struct {
	name string
	typ  bool
}

type collector struct {
	names []Name
	seen  map[nameKey]bool
}

func (c *collector) add(id *parser.Node, kind NameKind, typ *parser.Node, decl *parser.Node) {
	if id == nil || id.Token == nil {
		return
	}
	name := id.Token.Literal
	if name == "" || name == "_" {
		return
	}
	key := nameKey{name, kind.IsType()}
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.names = append(c.names, Name{Name: name, Kind: kind, Type: renderType(typ), Decl: decl, Span: id.Span})
}

// pathTo returns the chain of nodes from root down to the innermost node
// whose span holds offset. Where two siblings touch at offset the later
// one is taken.
func pathTo(root *parser.Node, offset int) []*parser.Node {
	path := []*parser.Node{root}
	n := root
	for {
		var next *parser.Node
		for _, child := range n.Children {
			if child.Span.Start.Offset <= offset && offset <= child.Span.End.Offset {
				next = child
			}
		}
		if next == nil {
			return path
		}
		path = append(path, next)
		n = next
	}
}

// kindOf sees through selection sentinels to the construct they replaced.
func kindOf(n *parser.Node) parser.NodeKind {
	if n.Kind.IsSelection() && n.Assist != nil {
		return n.Assist.Selected
	}
	return n.Kind
}

func indexOf(parent, child *parser.Node) int {
	for i, c := range parent.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// scope adds the names that parent brings into scope at its at-th child.
// child is that child, or nil when the position falls between children.
func (c *collector) scope(parent *parser.Node, at int, child *parser.Node) {
	switch kindOf(parent) {
	case parser.KindBlock:
		c.precedingStatements(parent.Children[:at])
	case parser.KindSwitchCase:
		c.switchCase(parent, at, child)
	case parser.KindSwitchLabel:
		if child != nil && child.Kind == parser.KindGuard {
			c.labelPatterns(parent)
		}
	case parser.KindLocalVarDecl:
		c.declarators(parent, at, NameLocal)
	case parser.KindFieldDecl:
		c.declarators(parent, at, NameField)
	case parser.KindIfStmt:
		switch at {
		case 1:
			c.bindings(child0(parent), true)
		case 2:
			c.bindings(child0(parent), false)
		}
	case parser.KindWhileStmt:
		if at == 1 {
			c.bindings(child0(parent), true)
		}
	case parser.KindForStmt:
		c.forStmt(parent, at)
	case parser.KindEnhancedForStmt:
		if at >= 2 {
			c.declarators(child0(parent), -1, NameLocal)
		}
	case parser.KindTryStmt:
		// Resources are in scope in later resources and the try block.
		if block := parent.FirstChildOfKind(parser.KindBlock); block != nil && at > indexOf(parent, block) {
			break
		}
		for _, r := range parent.Children[:at] {
			if kindOf(r) == parser.KindLocalVarDecl {
				c.declarators(r, -1, NameLocal)
			}
		}
	case parser.KindCatchClause:
		if child != nil && child.Kind == parser.KindBlock {
			c.declarators(parent, -1, NameParameter)
		}
	case parser.KindBinaryExpr:
		if at == 2 {
			switch operator(parent) {
			case "&&":
				c.bindings(child0(parent), true)
			case "||":
				c.bindings(child0(parent), false)
			}
		}
	case parser.KindTernaryExpr:
		switch at {
		case 1:
			c.bindings(child0(parent), true)
		case 2:
			c.bindings(child0(parent), false)
		}
	case parser.KindLambdaExpr:
		if at > 0 {
			c.parameters(child0(parent))
		}
	case parser.KindMethodDecl, parser.KindConstructorDecl:
		if params := parent.FirstChildOfKind(parser.KindParameters); params != nil && indexOf(parent, params) < at {
			c.parameters(params)
		}
		c.typeParameters(parent.FirstChildOfKind(parser.KindTypeParameters))
	case parser.KindClassBody:
		c.members(parent)
	case parser.KindClassDecl, parser.KindInterfaceDecl, parser.KindEnumDecl,
		parser.KindRecordDecl, parser.KindAnnotationDecl:
		c.typeDecl(parent)
	}
}

func child0(n *parser.Node) *parser.Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

func operator(n *parser.Node) string {
	if len(n.Children) < 2 || n.Children[1].Token == nil {
		return ""
	}
	return n.Children[1].Token.Literal
}

// precedingStatements adds what the statements before the one on the
// path declare, nearest first.
func (c *collector) precedingStatements(stmts []*parser.Node) {
	for i := len(stmts) - 1; i >= 0; i-- {
		stmt := stmts[i]
		switch kindOf(stmt) {
		case parser.KindLocalVarDecl:
			c.declarators(stmt, -1, NameLocal)
		case parser.KindLocalClassDecl:
			if decl := child0(stmt); decl != nil {
				c.add(declaredName(decl), NameType, nil, decl)
			}
		case parser.KindIfStmt:
			c.introducedAfterIf(stmt)
		case parser.KindLabeledStmt:
			if len(stmt.Children) > 1 && kindOf(stmt.Children[1]) == parser.KindIfStmt {
				c.introducedAfterIf(stmt.Children[1])
			}
		}
	}
}

// introducedAfterIf adds the pattern variables an if statement leaves in
// scope for the statements that follow it: those bound when the
// condition is false if the then branch cannot complete normally, and
// those bound when it is true if only the else branch is abrupt.
func (c *collector) introducedAfterIf(stmt *parser.Node) {
	cond := child0(stmt)
	var then, alt *parser.Node
	if len(stmt.Children) > 1 {
		then = stmt.Children[1]
	}
	if len(stmt.Children) > 2 {
		alt = stmt.Children[2]
	}
	thenAbrupt, altAbrupt := completesAbruptly(then), alt != nil && completesAbruptly(alt)
	switch {
	case thenAbrupt && !altAbrupt:
		c.bindings(cond, false)
	case altAbrupt && !thenAbrupt:
		c.bindings(cond, true)
	}
}

// completesAbruptly reports whether stmt always ends in a jump.
func completesAbruptly(stmt *parser.Node) bool {
	if stmt == nil {
		return false
	}
	switch kindOf(stmt) {
	case parser.KindReturnStmt, parser.KindThrowStmt, parser.KindBreakStmt,
		parser.KindContinueStmt, parser.KindYieldStmt:
		return true
	case parser.KindBlock:
		if len(stmt.Children) == 0 {
			return false
		}
		return completesAbruptly(stmt.Children[len(stmt.Children)-1])
	case parser.KindIfStmt:
		return len(stmt.Children) > 2 && completesAbruptly(stmt.Children[1]) && completesAbruptly(stmt.Children[2])
	case parser.KindSynchronizedStmt:
		return len(stmt.Children) > 1 && completesAbruptly(stmt.Children[1])
	}
	return false
}

// bindings adds the pattern variables cond binds when it evaluates to
// want.
func (c *collector) bindings(cond *parser.Node, want bool) {
	for _, pv := range patternBindings(cond, want) {
		c.patternVariable(pv)
	}
}

func patternBindings(cond *parser.Node, want bool) []*parser.Node {
	if cond == nil {
		return nil
	}
	switch kindOf(cond) {
	case parser.KindParenExpr:
		return patternBindings(child0(cond), want)
	case parser.KindUnaryExpr:
		if len(cond.Children) == 2 && cond.Children[0].Token != nil && cond.Children[0].Token.Literal == "!" {
			return patternBindings(cond.Children[1], !want)
		}
	case parser.KindBinaryExpr:
		if len(cond.Children) < 3 {
			return nil
		}
		switch op := operator(cond); {
		case op == "&&" && want, op == "||" && !want:
			return append(patternBindings(cond.Children[0], want), patternBindings(cond.Children[2], want)...)
		}
	case parser.KindInstanceofExpr:
		if want && len(cond.Children) > 1 {
			return patternVariables(cond.Children[1])
		}
	}
	return nil
}

// patternVariables collects the variables a type or record pattern
// declares.
func patternVariables(pattern *parser.Node) []*parser.Node {
	var out []*parser.Node
	pattern.Walk(func(n *parser.Node) bool {
		switch kindOf(n) {
		case parser.KindPatternVariable:
			out = append(out, n)
			return false
		case parser.KindLambdaExpr, parser.KindClassBody:
			return false
		}
		return true
	})
	return out
}

func (c *collector) patternVariable(pv *parser.Node) {
	var typ, id *parser.Node
	for _, ch := range pv.Children {
		switch {
		case ch.Kind == parser.KindModifiers:
		case ch.IsDeclarator():
			id = ch
		case typ == nil:
			typ = ch
		}
	}
	c.add(id, NamePatternVariable, typ, pv)
}

func (c *collector) switchCase(kase *parser.Node, at int, child *parser.Node) {
	if child != nil && child.Kind == parser.KindSwitchLabel {
		return
	}
	for _, label := range kase.ChildrenOfKind(parser.KindSwitchLabel) {
		c.labelPatterns(label)
	}
	if !kase.IsArrowCase() {
		var stmts []*parser.Node
		for _, s := range kase.Children[:at] {
			if s.Kind != parser.KindSwitchLabel {
				stmts = append(stmts, s)
			}
		}
		c.precedingStatements(stmts)
	}
}

func (c *collector) labelPatterns(label *parser.Node) {
	for _, item := range label.Children {
		if item.Kind == parser.KindGuard {
			continue
		}
		for _, pv := range patternVariables(item) {
			c.patternVariable(pv)
		}
	}
}

func (c *collector) forStmt(stmt *parser.Node, at int) {
	init := stmt.FirstChildOfKind(parser.KindForInit)
	if init == nil || indexOf(stmt, init) >= at {
		return
	}
	update := stmt.FirstChildOfKind(parser.KindForUpdate)
	if update != nil && indexOf(stmt, update) <= at {
		// In the update or the body the condition holds.
		for i := indexOf(stmt, init) + 1; i < len(stmt.Children); i++ {
			if stmt.Children[i] == update {
				break
			}
			c.bindings(stmt.Children[i], true)
		}
	}
	for _, d := range init.Children {
		if kindOf(d) == parser.KindLocalVarDecl {
			c.declarators(d, -1, NameLocal)
		}
	}
}

// declarators adds the variables decl declares before index limit, or
// all of them when limit is negative. The type is the declaration's
// first type child.
func (c *collector) declarators(decl *parser.Node, limit int, kind NameKind) {
	if decl == nil {
		return
	}
	var typ *parser.Node
	children := decl.Children
	if limit >= 0 {
		children = children[:limit]
	}
	var ids []*parser.Node
	for _, ch := range children {
		switch {
		case ch.IsDeclarator():
			ids = append(ids, ch)
		case typ == nil && (ch.Kind == parser.KindType || ch.Kind == parser.KindArrayType):
			typ = ch
		}
	}
	for i := len(ids) - 1; i >= 0; i-- {
		c.add(ids[i], kind, typ, decl)
	}
}

func (c *collector) parameters(params *parser.Node) {
	if params == nil {
		return
	}
	for _, p := range params.Children {
		switch kindOf(p) {
		case parser.KindParameter:
			c.declarators(p, -1, NameParameter)
		case parser.KindIdentifier:
			c.add(p, NameParameter, nil, p)
		}
	}
}

func (c *collector) typeParameters(params *parser.Node) {
	if params == nil {
		return
	}
	for _, tp := range params.ChildrenOfKind(parser.KindTypeParameter) {
		c.add(tp.FirstChildOfKind(parser.KindIdentifier), NameTypeParameter, nil, tp)
	}
}

// members adds the fields, methods, enum constants and member types of a
// class body. Members are in scope throughout the body.
func (c *collector) members(body *parser.Node) {
	for _, m := range body.Children {
		switch k := kindOf(m); {
		case k == parser.KindFieldDecl:
			c.declarators(m, -1, NameField)
		case k == parser.KindEnumConstant:
			c.add(declaredName(m), NameField, nil, m)
		case k == parser.KindMethodDecl:
			c.add(declaredName(m), NameMethod, methodReturnType(m), m)
		case k.IsTypeDecl():
			c.add(declaredName(m), NameType, nil, m)
		}
	}
}

// typeDecl adds what a type declaration scopes over its body: its record
// components, its type parameters and its own name.
func (c *collector) typeDecl(decl *parser.Node) {
	if kindOf(decl) == parser.KindRecordDecl {
		if comps := decl.FirstChildOfKind(parser.KindParameters); comps != nil {
			for _, p := range comps.Children {
				c.declarators(p, -1, NameField)
			}
		}
	}
	c.typeParameters(decl.FirstChildOfKind(parser.KindTypeParameters))
	c.add(declaredName(decl), NameType, nil, decl)
}

func (c *collector) unit(root *parser.Node) {
	for _, n := range root.Children {
		if kindOf(n).IsTypeDecl() {
			c.add(declaredName(n), NameType, nil, n)
		}
	}
}

// declaredName returns the name identifier of a declaration.
func declaredName(decl *parser.Node) *parser.Node {
	for _, ch := range decl.Children {
		switch {
		case ch.Kind == parser.KindIdentifier && ch.Token != nil:
			return ch
		case ch.Kind.IsSelection() && ch.Assist != nil && ch.Assist.Selected == parser.KindIdentifier:
			return ch
		}
	}
	return nil
}

func methodReturnType(m *parser.Node) *parser.Node {
	for _, ch := range m.Children {
		switch {
		case ch.Kind == parser.KindParameters:
			return nil
		case ch.Kind == parser.KindType || ch.Kind == parser.KindArrayType:
			return ch
		}
	}
	return nil
}

// Declaration resolves the selection in r to the declaration it names.
// A selected declaration is its own declaration. References are resolved
// by simple name against the visible names; member accesses on a
// receiver, qualified names and imports are not resolved and yield nil.
func Declaration(r *Result) *Name {
	if r == nil || r.Node == nil || !r.Node.Kind.IsSelection() {
		return nil
	}
	node := r.Node
	switch node.Kind {
	case parser.KindSelectOnName:
		return lookup(r.Root, r.Offset, node.Assist.Identifier, false)
	case parser.KindSelectOnType:
		return lookup(r.Root, r.Offset, node.Assist.Identifier, true)
	case parser.KindSelectOnMessageSend:
		target := child0(node)
		if target == nil || target.Kind != parser.KindIdentifier || target.Token == nil {
			return nil
		}
		return lookup(r.Root, r.Offset, target.Token.Literal, false)
	case parser.KindSelectOnFieldName:
		return selfDeclared(r.Root, node, NameField)
	case parser.KindSelectOnMethodName:
		return selfDeclared(r.Root, node, NameMethod)
	case parser.KindSelectOnTypeName:
		return selfDeclared(r.Root, node, NameType)
	case parser.KindSelectionOnLocalName:
		if node.Assist.Selected == parser.KindPatternVariable {
			return declaredBy(node, NamePatternVariable)
		}
		return declaredBy(node, NameLocal)
	case parser.KindSelectOnArgumentName:
		if node.Assist.Selected == parser.KindIdentifier {
			return selfDeclared(r.Root, node, NameParameter)
		}
		return declaredBy(node, NameParameter)
	}
	return nil
}

func lookup(root *parser.Node, offset int, name string, wantType bool) *Name {
	for _, n := range VisibleNames(root, offset) {
		if n.Name == name && n.Kind.IsType() == wantType {
			return &n
		}
	}
	if n, ok := Lookup(root, offset, name); ok {
		return &n
	}
	return nil
}

// selfDeclared describes an identifier sentinel that is the name of the
// declaration enclosing it.
func selfDeclared(root, id *parser.Node, kind NameKind) *Name {
	if id.Token == nil {
		return nil
	}
	decl := id
	if path := root.Path(id); len(path) > 1 {
		decl = path[len(path)-2]
	}
	n := &Name{Name: id.Token.Literal, Kind: kind, Decl: decl, Span: id.Span}
	switch kind {
	case NameField:
		n.Type = renderType(declaredType(decl))
	case NameMethod:
		n.Type = renderType(methodReturnType(decl))
	}
	return n
}

// declaredBy describes a declaration sentinel whose selected name is its
// declarator.
func declaredBy(decl *parser.Node, kind NameKind) *Name {
	for _, ch := range decl.Children {
		if ch.IsDeclarator() && ch.Token != nil && ch.Span == decl.Assist.Replaced {
			return &Name{
				Name: ch.Token.Literal,
				Kind: kind,
				Type: renderType(declaredType(decl)),
				Decl: decl,
				Span: ch.Span,
			}
		}
	}
	return nil
}

func declaredType(decl *parser.Node) *parser.Node {
	for _, ch := range decl.Children {
		if ch.Kind == parser.KindType || ch.Kind == parser.KindArrayType {
			return ch
		}
	}
	return nil
}

func renderType(typ *parser.Node) string {
	if typ == nil {
		return ""
	}
	return format.Render(typ)
}
