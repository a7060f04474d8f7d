package parser

import "github.com/dhamidi/javaparse/java/problem"

var directiveKeywords = []string{"requires", "exports", "opens", "uses", "provides"}

func (p *Parser) isModularCompilationUnit() bool {
	if p.check(TokenEOF) {
		return false
	}
	return p.speculate(func() bool {
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		p.accept(TokenOpen)
		return p.check(TokenModule)
	})
}

func (p *Parser) isModuleInfo() bool {
	return p.unitName() == "module-info.java"
}

func (p *Parser) parseModuleDecl() *Node {
	node := p.startNode(KindModuleDecl)
	p.requireFeatureAt(FeatureModules, p.peek())

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	if tok := p.accept(TokenOpen); tok != nil {
		node.AddChild(ident(*tok))
	}

	p.expect(TokenModule)
	node.AddChild(p.parseName(moduleRole))
	if p.assist != nil && p.assist.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	open := p.peek()
	if p.expect(TokenLBrace) == nil {
		return p.finishNode(node)
	}
	mark := p.pushContext(ContextModuleBody, open)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if prefix, ok := p.completionPrefix(); ok {
			if prefix == nil || !isDirectiveStart(prefix.Kind) {
				node.AddChild(p.completeKeyword(prefix, directiveKeywords...))
				break
			}
		}
		if !isDirectiveStart(p.peek().Kind) && p.skipJunk(isDirectiveStart) {
			continue
		}
		node.AddChild(p.parseModuleDirective())
		if p.assist != nil && p.assist.Kind.IsCompletion() {
			break
		}
		if !progress() {
			break
		}
	}
	p.expect(TokenRBrace)
	p.closeContext(mark)

	return p.finishNode(node)
}

// parseModuleDirective parses one directive. Annotations are not allowed
// on directives, before or after the keyword; they are parsed, reported
// and dropped.
func (p *Parser) parseModuleDirective() *Node {
	start := p.peek()
	var annotations []*Node
	collect := func() {
		for p.check(TokenAt) {
			annotations = append(annotations, p.parseAnnotation())
		}
	}
	collect()

	var node *Node
	switch p.peek().Kind {
	case TokenRequires:
		node = p.parseRequiresDirective(collect)
	case TokenExports:
		node = p.parsePackageDirective(KindExportsDirective, TokenExports, collect)
	case TokenOpens:
		node = p.parsePackageDirective(KindOpensDirective, TokenOpens, collect)
	case TokenUses:
		node = p.parseUsesDirective(collect)
	case TokenProvides:
		node = p.parseProvidesDirective(collect)
	default:
		node = p.finishNode(&Node{Kind: KindError, Span: Span{Start: start.Span.Start}})
		switch {
		case len(annotations) > 0:
			p.report(problem.ParsingErrorMisplacedConstruct, problem.Error, node.Span.Start.Offset, node.Span.End.Offset)
		case !p.skipJunk(isDirectiveStart) && !p.check(TokenEOF) && !p.check(TokenRBrace):
			tok := p.advance()
			p.syntaxError(problem.ParsingErrorDeleteToken, tok.Start(), tok.End(), tok.Text())
		}
		return node
	}

	if len(annotations) > 0 {
		node.Span.Start = start.Span.Start
		p.report(problem.ParsingErrorMisplacedConstruct, problem.Error, node.Span.Start.Offset, node.Span.End.Offset)
		for _, a := range annotations {
			p.report(problem.ParsingErrorMisplacedConstruct, problem.Error, a.Span.Start.Offset, a.Span.End.Offset)
		}
	}
	return node
}

// parseRequiresDirective keeps the modifiers in canonical order,
// transitive before static, whatever order they were written in.
func (p *Parser) parseRequiresDirective(annotations func()) *Node {
	node := p.startNode(KindRequiresDirective)
	p.expect(TokenRequires)

	var transitive, static *Token
	for {
		annotations()
		tok := p.peek()
		isModifier := tok.Kind == TokenStatic ||
			tok.Kind == TokenTransitive && p.peekN(1).Kind != TokenSemicolon && p.peekN(1).Kind != TokenDot
		if !isModifier {
			break
		}
		p.advance()
		slot := &transitive
		if tok.Kind == TokenStatic {
			slot = &static
		}
		if *slot != nil {
			p.syntaxError(problem.ParsingErrorDeleteToken, tok.Start(), tok.End(), tok.Text())
			continue
		}
		*slot = &tok
	}

	if transitive != nil {
		node.AddChild(ident(*transitive))
	}
	if static != nil {
		node.AddChild(ident(*static))
	}
	if p.completionSlot() && transitive == nil && static == nil {
		slot := p.complete(KindCompleteOnModuleReference, p.peek().Span.Start, p.peek().Span.Start, nil)
		slot.Assist.Keywords = []string{"transitive", "static"}
		node.AddChild(slot)
		return p.finishNode(node)
	}
	node.AddChild(p.parseName(moduleRef))
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parsePackageDirective(kind NodeKind, keyword TokenKind, annotations func()) *Node {
	node := p.startNode(kind)
	p.expect(keyword)
	annotations()

	node.AddChild(p.parseName(packageRef))
	if p.assist != nil && p.assist.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	if prefix, ok := p.completionPrefix(); ok && (prefix == nil || prefix.Kind != TokenTo) {
		node.AddChild(p.completeKeyword(prefix, "to"))
		return p.finishNode(node)
	}

	if p.accept(TokenTo) != nil {
		p.parseNameList(node, moduleRef)
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseUsesDirective(annotations func()) *Node {
	node := p.startNode(KindUsesDirective)
	p.expect(TokenUses)
	annotations()
	node.AddChild(p.parseName(usesRole))
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseProvidesDirective(annotations func()) *Node {
	node := p.startNode(KindProvidesDirective)
	p.expect(TokenProvides)
	annotations()
	node.AddChild(p.parseName(serviceRole))
	if p.assist != nil && p.assist.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	if prefix, ok := p.completionPrefix(); ok && (prefix == nil || prefix.Kind != TokenWith) {
		node.AddChild(p.completeKeyword(prefix, "with"))
		return p.finishNode(node)
	}

	p.expect(TokenWith)
	p.parseNameList(node, implRole)

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseNameList(node *Node, role nameRole) {
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseName(role))
		if p.assist != nil && p.assist.Kind.IsCompletion() {
			return
		}
		if p.accept(TokenComma) == nil {
			return
		}
		if !progress() {
			return
		}
	}
}
