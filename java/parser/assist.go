package parser

// nameRole selects the sentinels a qualified name turns into when the
// cursor of a completion or selection parse lands on it.
type nameRole struct {
	complete          NodeKind
	completeQualified NodeKind
	selectSimple      NodeKind
	selectQualified   NodeKind
}

var (
	noRole      = nameRole{}
	typeRole    = nameRole{KindCompleteOnType, KindCompleteOnQualifiedType, KindSelectOnType, KindSelectOnQualifiedType}
	importRole  = nameRole{KindCompleteOnImport, KindCompleteOnImport, KindSelectOnImport, KindSelectOnImport}
	packageRole = nameRole{KindCompleteOnPackage, KindCompleteOnPackage, KindSelectOnPackage, KindSelectOnPackage}
	moduleRole  = nameRole{KindCompleteOnModuleName, KindCompleteOnModuleName, KindSelectOnModuleName, KindSelectOnModuleName}
	moduleRef   = nameRole{KindCompleteOnModuleReference, KindCompleteOnModuleReference, KindSelectOnModuleReference, KindSelectOnModuleReference}
	packageRef  = nameRole{KindCompleteOnPackageReference, KindCompleteOnPackageReference, KindSelectOnPackageReference, KindSelectOnPackageReference}
	usesRole    = nameRole{KindCompleteOnUsesType, KindCompleteOnUsesType, KindSelectOnType, KindSelectOnQualifiedType}
	serviceRole = nameRole{KindCompleteOnProvidesInterface, KindCompleteOnProvidesInterface, KindSelectOnType, KindSelectOnQualifiedType}
	implRole    = nameRole{KindCompleteOnProvidesImplementation, KindCompleteOnProvidesImplementation, KindSelectOnType, KindSelectOnQualifiedType}
)

func (r nameRole) completion(qualified bool) NodeKind {
	if qualified {
		return r.completeQualified
	}
	return r.complete
}

func (r nameRole) selection(qualified bool) NodeKind {
	if qualified {
		return r.selectQualified
	}
	return r.selectSimple
}

func (p *Parser) completing() bool {
	return p.mode == modeCompletion && p.assist == nil && p.quiet == 0
}

// completesAt reports whether tok, just consumed, is the identifier the
// user is typing.
func (p *Parser) completesAt(tok Token) bool {
	return p.completing() && tok.End() == p.caret && p.check(TokenEOF)
}

// completionSlot reports whether the parser stands at the caret in a
// position that has no text yet.
func (p *Parser) completionSlot() bool {
	return p.completing() && p.check(TokenEOF)
}

// completionPrefix returns the word under the caret without consuming it.
// ok is false when the caret is not at the current token; a nil prefix
// with ok set means the caret is in a fresh slot.
func (p *Parser) completionPrefix() (prefix *Token, ok bool) {
	if !p.completing() {
		return nil, false
	}
	if p.check(TokenEOF) {
		return nil, true
	}
	tok := p.peek()
	if isWordKind(tok.Kind) && tok.End() == p.caret && p.peekN(1).Kind == TokenEOF {
		return &tok, true
	}
	return nil, false
}

// isWordKind reports whether kind is spelled like an identifier.
func isWordKind(kind TokenKind) bool {
	return isIdentifierKind(kind) || kind >= TokenTrue && kind <= TokenWhile
}

// complete builds a completion sentinel. The replaced range runs from
// replacedFrom to the caret; prefix is the identifier typed so far.
func (p *Parser) complete(kind NodeKind, start, replacedFrom Position, prefix *Token, children ...*Node) *Node {
	caret := p.s.EOF().Span.Start
	n := &Node{Kind: kind, Span: Span{Start: start, End: caret}}
	for _, c := range children {
		n.AddChild(c)
	}
	a := &Assist{Replaced: Span{Start: replacedFrom, End: caret}}
	if prefix != nil {
		a.Identifier = prefix.Literal
	}
	if replacedFrom.Offset <= caret.Offset && caret.Offset <= len(p.input) {
		a.Source = string(p.input[replacedFrom.Offset:caret.Offset])
	}
	n.Assist = a
	p.assist = n
	return n
}

// coverAssist widens the nodes enclosing a completion sentinel to contain
// it. The sentinel runs to the caret, which may lie past the last token its
// enclosing nodes consumed.
func (p *Parser) coverAssist(root *Node) {
	if root == nil || p.assist == nil || !p.assist.Kind.IsCompletion() {
		return
	}
	path := root.Path(p.assist)
	if len(path) < 2 {
		return
	}
	span := p.assist.Span
	for _, n := range path[:len(path)-1] {
		if n.Span.Start.Offset > span.Start.Offset {
			n.Span.Start = span.Start
		}
		if n.Span.End.Offset < span.End.Offset {
			n.Span.End = span.End
		}
	}
}

// completeKeyword consumes prefix and builds a keyword completion
// offering words.
func (p *Parser) completeKeyword(prefix *Token, words ...string) *Node {
	from := p.s.EOF().Span.Start
	if prefix != nil {
		from = prefix.Span.Start
		p.advance()
	}
	n := p.complete(KindCompleteOnKeyword, from, from, prefix)
	n.Assist.Keywords = words
	return n
}

func (p *Parser) selecting() bool {
	return p.mode == modeSelection && p.assist == nil && p.quiet == 0
}

// selects reports whether the selection covers exactly first through last.
func (p *Parser) selects(first, last Token) bool {
	return p.selecting() && first.Start() == p.selStart && last.End() == p.selEnd
}

// markSelected turns n into a selection sentinel of the given kind.
func (p *Parser) markSelected(n *Node, kind NodeKind) *Node {
	start, end := p.selStart, p.selEnd
	if end > len(p.input) {
		end = len(p.input)
	}
	n.Assist = &Assist{
		Identifier: string(p.input[start:end]),
		Replaced:   n.Span,
		Source:     string(p.input[start:end]),
		Selected:   n.Kind,
	}
	n.Kind = kind
	p.assist = n
	return n
}

// selectIdentifier swaps an identifier leaf for a selection sentinel when
// its token is the selection.
func (p *Parser) selectIdentifier(n *Node, kind NodeKind) {
	if n != nil && n.Token != nil && p.selects(*n.Token, *n.Token) {
		p.markSelected(n, kind)
	}
}

// selectDeclarator swaps a declaring node for a selection sentinel when
// the declared name is the selection. The replaced range is the name.
func (p *Parser) selectDeclarator(decl *Node, name *Token, kind NodeKind) {
	if name != nil && p.selects(*name, *name) {
		p.markSelected(decl, kind).Assist.Replaced = name.Span
	}
}

// isNameChain reports whether n is a simple or dotted name made of
// identifiers only.
func isNameChain(n *Node) bool {
	switch n.Kind {
	case KindIdentifier:
		return true
	case KindFieldAccess:
		return len(n.Children) == 2 && isNameChain(n.Children[0]) && n.Children[1].Kind == KindIdentifier
	}
	return false
}

// nameParts flattens a name chain into its identifier leaves.
func nameParts(n *Node) []*Node {
	if n.Kind == KindIdentifier {
		return []*Node{n}
	}
	return append(nameParts(n.Children[0]), n.Children[1])
}
