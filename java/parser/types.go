package parser

// parseName parses a dotted name. With a role, a name under the caret
// becomes the role's completion or selection sentinel.
func (p *Parser) parseName(role nameRole) *Node {
	node := p.startNode(KindQualifiedName)
	start := p.peek()

	if role.complete != 0 {
		if prefix, ok := p.completionPrefix(); ok && (prefix == nil || isIdentifierKind(prefix.Kind)) {
			if prefix != nil {
				p.advance()
			}
			return p.complete(role.completion(false), start.Span.Start, start.Span.Start, prefix)
		}
	}

	tok := p.expectIdentifier()
	if tok == nil {
		return p.finishNode(&Node{Kind: KindError, Span: Span{Start: start.Span.Start}})
	}
	node.AddChild(ident(*tok))

	for p.check(TokenDot) {
		next := p.peekN(1)
		if isIdentifierKind(next.Kind) {
			p.advance()
			tok := p.advance()
			if role.complete != 0 && p.completesAt(tok) {
				return p.complete(role.completion(true), start.Span.Start, start.Span.Start, &tok, node.Children...)
			}
			node.AddChild(ident(tok))
			continue
		}
		if next.Kind == TokenEOF && role.complete != 0 && p.completing() {
			p.advance()
			return p.complete(role.completion(true), start.Span.Start, start.Span.Start, nil, node.Children...)
		}
		break
	}

	p.finishNode(node)
	if role.selectSimple != 0 && p.selecting() {
		p.selectNamePrefix(node, start, role)
	}
	return node
}

// selectNamePrefix turns a name into a selection sentinel when the
// selection is one of its segments, or runs from its start to a segment.
// Selecting an inner segment keeps the name up to that segment, so `acme`
// in org.acme.geometry selects org.acme.
func (p *Parser) selectNamePrefix(node *Node, start Token, role nameRole) {
	for i, part := range node.Children {
		tok := *part.Token
		if !p.selects(tok, tok) && !p.selects(start, tok) {
			continue
		}
		if i < len(node.Children)-1 {
			node.Children = node.Children[:i+1]
			node.Span.End = tok.Span.End
		}
		p.markSelected(node, role.selection(i > 0))
		return
	}
}

func (p *Parser) parseQualifiedName() *Node {
	return p.parseName(noRole)
}

func isPrimitive(kind TokenKind) bool {
	switch kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		return true
	}
	return false
}

// parseType parses a possibly annotated, parameterized or array type.
// Completion and selection sentinels replace the type's name.
func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	switch kind := p.peek().Kind; {
	case isPrimitive(kind) || kind == TokenVoid:
		node.AddChild(ident(p.advance()))
	case kind == TokenVar && p.peekN(1).Kind != TokenDot:
		node.AddChild(ident(p.advance()))
	case isIdentifierKind(kind) || kind == TokenEOF && p.completing():
		name := p.parseName(typeRole)
		node.AddChild(name)
		if name.Kind.IsCompletion() {
			return p.finishNode(node)
		}
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}
		// Outer<T>.Inner<U>
		for p.check(TokenDot) && isIdentifierKind(p.peekN(1).Kind) {
			p.advance()
			node.AddChild(p.parseName(typeRole))
			if p.check(TokenLT) {
				node.AddChild(p.parseTypeArguments())
			}
		}
	default:
		p.repair(TokenIdent)
		return p.finishNode(&Node{Kind: KindError, Span: Span{Start: p.peek().Span.Start}})
	}

	for p.check(TokenAt) || p.check(TokenLBracket) {
		if p.check(TokenAt) && !p.speculate(func() bool {
			for p.check(TokenAt) {
				p.parseAnnotation()
			}
			return p.check(TokenLBracket)
		}) {
			break
		}
		wrapper := p.startNodeAt(KindArrayType, node)
		for p.check(TokenAt) {
			wrapper.AddChild(p.parseAnnotation())
		}
		if p.peekN(1).Kind != TokenRBracket {
			break
		}
		p.advance()
		p.advance()
		wrapper.AddChild(p.finishNode(node))
		node = p.finishNode(wrapper)
	}

	return p.finishNode(node)
}

// parseDims parses the bracket pairs that may follow a declared name,
// as in int x[][], into Dimension children of node.
func (p *Parser) parseDims(node *Node) {
	for p.check(TokenLBracket) {
		dim := p.startNode(KindDimension)
		p.advance()
		p.expect(TokenRBracket)
		node.AddChild(p.finishNode(dim))
	}
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.expect(TokenLT)

	if p.check(TokenGT) {
		p.advance()
		return p.finishNode(node)
	}

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseTypeArgument())
		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}

	if !p.expectGT() {
		p.repair(TokenGT)
	}
	return p.finishNode(node)
}

// expectGT consumes one '>' and splits '>>', '>>>' and the shift
// assignments so nested type arguments close one level at a time.
func (p *Parser) expectGT() bool {
	switch p.peek().Kind {
	case TokenGT:
		p.advance()
	case TokenShr:
		p.splitGT(TokenGT)
	case TokenUShr:
		p.splitGT(TokenShr)
	case TokenGE:
		p.splitGT(TokenAssign)
	case TokenShrAssign:
		p.splitGT(TokenGE)
	case TokenUShrAssign:
		p.splitGT(TokenShrAssign)
	default:
		return false
	}
	return true
}

// splitGT consumes the leading '>' of the current token and leaves the
// remainder in its place.
func (p *Parser) splitGT(remainder TokenKind) {
	tok := p.peek()
	start := tok.Span.Start
	start.Offset++
	start.Column++
	p.s.replace(Token{
		Kind:    remainder,
		Literal: tok.Literal[1:],
		Span:    Span{Start: start, End: tok.Span.End},
	})
}

func (p *Parser) parseTypeArgument() *Node {
	if p.check(TokenQuestion) || p.check(TokenAt) && p.speculate(func() bool {
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		return p.check(TokenQuestion)
	}) {
		return p.parseWildcard()
	}
	return p.parseType()
}

func (p *Parser) parseWildcard() *Node {
	node := p.startNode(KindWildcard)
	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}
	p.expect(TokenQuestion)

	if p.check(TokenExtends) || p.check(TokenSuper) {
		node.AddChild(ident(p.advance()))
		node.AddChild(p.parseType())
	}

	return p.finishNode(node)
}

func (p *Parser) parseTypeParameters() *Node {
	node := p.startNode(KindTypeParameters)
	p.expect(TokenLT)

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseTypeParameter())
		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}

	if !p.expectGT() {
		p.repair(TokenGT)
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeParameter() *Node {
	node := p.startNode(KindTypeParameter)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(ident(*tok))
	}

	if p.accept(TokenExtends) != nil {
		for {
			node.AddChild(p.parseType())
			if p.accept(TokenBitAnd) == nil {
				break
			}
		}
	}

	return p.finishNode(node)
}

// skipTypeArguments skips a balanced <...> group while speculating.
func (p *Parser) skipTypeArguments() {
	if !p.check(TokenLT) {
		return
	}
	depth := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		case TokenSemicolon, TokenLBrace, TokenRBrace:
			return
		}
		p.advance()
		if depth <= 0 {
			return
		}
	}
}

func isModifier(kind TokenKind) bool {
	switch kind {
	case TokenPublic, TokenProtected, TokenPrivate,
		TokenAbstract, TokenStatic, TokenFinal,
		TokenStrictfp, TokenNative, TokenSynchronized,
		TokenTransient, TokenVolatile, TokenDefault,
		TokenSealed, TokenNonSealed:
		return true
	}
	return false
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)

	for {
		kind := p.peek().Kind
		switch {
		case kind == TokenAt:
			if p.peekN(1).Kind == TokenInterface {
				return p.finishNode(node)
			}
			node.AddChild(p.parseAnnotation())
		case kind == TokenSealed || kind == TokenNonSealed:
			if kind == TokenSealed && !p.sealedIsModifier() {
				return p.finishNode(node)
			}
			tok := p.advance()
			p.requireFeatureAt(FeatureSealedTypes, tok)
			node.AddChild(ident(tok))
		case kind == TokenDefault && p.peekN(1).Kind == TokenColon:
			return p.finishNode(node)
		case isModifier(kind):
			node.AddChild(ident(p.advance()))
		default:
			return p.finishNode(node)
		}
	}
}

// sealedIsModifier tells the modifier apart from a type or variable
// named sealed.
func (p *Parser) sealedIsModifier() bool {
	next := p.peekN(1).Kind
	return isModifier(next) || next == TokenClass || next == TokenInterface ||
		next == TokenAt || next == TokenSealed || next == TokenRecord && isIdentifierKind(p.peekN(2).Kind)
}

func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect(TokenAt)
	node.AddChild(p.parseName(typeRole))
	if node.Children[0].Kind.IsCompletion() {
		return p.finishNode(node)
	}

	if p.accept(TokenLParen) != nil {
		if !p.check(TokenRParen) {
			if isIdentifierKind(p.peek().Kind) && p.peekN(1).Kind == TokenAssign {
				for {
					progress := p.mustProgress()
					node.AddChild(p.parseAnnotationElement())
					if p.accept(TokenComma) == nil || !progress() {
						break
					}
				}
			} else {
				node.AddChild(p.parseAnnotationValue())
			}
		}
		p.expect(TokenRParen)
	}

	return p.finishNode(node)
}

func (p *Parser) parseAnnotationElement() *Node {
	node := p.startNode(KindAnnotationElement)
	if tok := p.expectIdentifier(); tok != nil {
		name := ident(*tok)
		p.selectIdentifier(name, KindSelectOnName)
		node.AddChild(name)
	}
	p.expect(TokenAssign)
	node.AddChild(p.parseAnnotationValue())
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationValue() *Node {
	if p.check(TokenAt) {
		return p.parseAnnotation()
	}
	if p.check(TokenLBrace) {
		node := p.startNode(KindArrayInit)
		p.advance()
		for !p.check(TokenRBrace) && !p.check(TokenEOF) {
			node.AddChild(p.parseAnnotationValue())
			if p.accept(TokenComma) == nil {
				break
			}
		}
		p.expect(TokenRBrace)
		return p.finishNode(node)
	}
	return p.parseTernaryExpr()
}
