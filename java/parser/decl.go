package parser

import (
	"strings"

	"github.com/dhamidi/javaparse/java/problem"
)

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)
	node.Span.Start = Position{File: p.file, Offset: 0, Line: 1, Column: 1}
	p.root = node
	mark := p.pushContext(ContextCompilationUnit, p.peek())
	defer p.closeContext(mark)

	if p.isModuleInfo() {
		if prefix, ok := p.completionPrefix(); ok && prefix != nil && prefix.Kind == TokenIdent {
			node.AddChild(p.completeKeyword(prefix, "import", "open", "module"))
			return p.finishNode(node)
		}
	}

	if p.check(TokenPackage) || p.isAnnotatedPackage() {
		node.AddChild(p.parsePackageDecl())
	}

	for p.check(TokenImport) {
		node.AddChild(p.parseImportDecl())
		if p.assist != nil && p.assist.Kind.IsCompletion() {
			return p.finishNode(node)
		}
	}

	switch {
	case p.isModularCompilationUnit():
		node.AddChild(p.parseModuleDecl())
	case p.isCompactCompilationUnit():
		for !p.check(TokenEOF) {
			progress := p.mustProgress()
			node.AddChild(p.parseClassMember(ContextClassBody))
			progress()
		}
	default:
		for !p.check(TokenEOF) {
			progress := p.mustProgress()
			if p.accept(TokenSemicolon) != nil {
				continue
			}
			if prefix, ok := p.completionPrefix(); ok && prefix != nil && prefix.Kind == TokenIdent {
				node.AddChild(p.completeKeyword(prefix,
					"abstract", "class", "enum", "final", "import", "interface", "package", "public", "record"))
				break
			}
			node.AddChild(p.parseTypeDecl())
			progress()
		}
	}

	if !p.check(TokenEOF) {
		tok := p.peek()
		p.syntaxError(problem.ParsingErrorDeleteTokens, tok.Start(), p.s.EOF().Start())
	}
	node.Span.End = p.s.EOF().Span.Start
	return node
}

func (p *Parser) isCompactCompilationUnit() bool {
	if p.check(TokenEOF) {
		return false
	}
	return p.speculate(func() bool {
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		for isModifier(p.peek().Kind) {
			p.advance()
		}
		switch p.peek().Kind {
		case TokenClass, TokenInterface, TokenEnum, TokenSemicolon:
			return false
		case TokenRecord:
			return !isIdentifierKind(p.peekN(1).Kind)
		case TokenAt:
			return p.peekN(1).Kind != TokenInterface
		case TokenEOF:
			return false
		}
		// Stray junk at top level is still parsed as type declarations.
		return isIdentifierKind(p.peek().Kind) || isPrimitive(p.peek().Kind) ||
			p.check(TokenVoid) || p.check(TokenLT)
	})
}

func (p *Parser) isAnnotatedPackage() bool {
	if !p.check(TokenAt) {
		return false
	}
	return p.speculate(func() bool {
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		return p.check(TokenPackage)
	})
}

func (p *Parser) parsePackageDecl() *Node {
	node := p.startNode(KindPackageDecl)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	p.expect(TokenPackage)
	node.AddChild(p.parseName(packageRole))
	if !node.Children[len(node.Children)-1].Kind.IsCompletion() {
		p.expect(TokenSemicolon)
	}

	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)

	if p.check(TokenModule) && isIdentifierKind(p.peekN(1).Kind) {
		node.Kind = KindModuleImportDecl
		p.advance()
		node.AddChild(p.parseName(moduleRef))
		p.expect(TokenSemicolon)
		return p.finishNode(node)
	}

	if tok := p.accept(TokenStatic); tok != nil {
		node.AddChild(ident(*tok))
	}

	name := p.parseName(importRole)
	node.AddChild(name)
	if name.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	if p.check(TokenDot) && p.peekN(1).Kind == TokenStar {
		p.advance()
		node.AddChild(ident(p.advance()))
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// javadocFor returns the span of a /** comment directly preceding tok.
func (p *Parser) javadocFor(tok Token) *Span {
	after := 0
	if prev, ok := p.s.Previous(); ok {
		after = prev.End()
	}
	c, ok := p.s.CommentBefore(tok.Start(), after)
	if !ok || c.Kind != TokenComment || !strings.HasPrefix(c.Literal, "/**") || c.Literal == "/**/" {
		return nil
	}
	span := c.Span
	return &span
}

func (p *Parser) parseTypeDecl() *Node {
	javadoc := p.javadocFor(p.peek())
	modifiers := p.parseModifiers()
	if decl := p.parseTypeDeclRest(modifiers); decl != nil {
		decl.Javadoc = javadoc
		return decl
	}

	node := p.startNodeAt(KindError, modifiers)
	if !p.skipJunk(isTypeDeclStart) && !p.check(TokenEOF) {
		tok := p.advance()
		p.syntaxError(problem.ParsingErrorDeleteToken, tok.Start(), tok.End(), tok.Text())
	}
	node.AddChild(modifiers)
	return p.finishNode(node)
}

func isTypeDeclStart(kind TokenKind) bool {
	switch kind {
	case TokenEOF, TokenAt, TokenSemicolon, TokenClass, TokenInterface, TokenEnum, TokenRecord:
		return true
	}
	return isModifier(kind)
}

// parseTypeDeclRest parses a class-like declaration after its modifiers,
// or returns nil when none starts here.
func (p *Parser) parseTypeDeclRest(modifiers *Node) *Node {
	switch p.peek().Kind {
	case TokenClass:
		return p.parseClassDecl(modifiers)
	case TokenInterface:
		return p.parseInterfaceDecl(modifiers)
	case TokenEnum:
		return p.parseEnumDecl(modifiers)
	case TokenRecord:
		if isIdentifierKind(p.peekN(1).Kind) {
			return p.parseRecordDecl(modifiers)
		}
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return p.parseAnnotationDecl(modifiers)
		}
	}
	return nil
}

// parseTypeName parses the declared name of a type.
func (p *Parser) parseTypeName(node *Node) {
	if tok := p.expectIdentifier(); tok != nil {
		name := ident(*tok)
		p.selectIdentifier(name, KindSelectOnTypeName)
		node.AddChild(name)
	}
}

// headerKeyword completes a clause keyword typed in a type header.
func (p *Parser) headerKeyword(node *Node, words ...string) bool {
	prefix, ok := p.completionPrefix()
	if !ok || prefix == nil || prefix.Kind != TokenIdent {
		return false
	}
	node.AddChild(p.completeKeyword(prefix, words...))
	return true
}

// parseClause parses a keyword followed by a comma separated type list.
func (p *Parser) parseClause(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
		if p.assist != nil && p.assist.Kind.IsCompletion() {
			break
		}
		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseClassDecl(modifiers *Node) *Node {
	node := p.startNodeAt(KindClassDecl, modifiers)
	node.AddChild(modifiers)

	p.expect(TokenClass)
	p.parseTypeName(node)

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
	if p.headerKeyword(node, "extends", "implements", "permits") {
		return p.finishNode(node)
	}
	if p.check(TokenExtends) {
		node.AddChild(p.parseClause(KindExtendsClause))
	}
	if p.check(TokenImplements) {
		node.AddChild(p.parseClause(KindImplementsClause))
	}
	if p.check(TokenPermits) {
		p.requireFeatureAt(FeatureSealedTypes, p.peek())
		node.AddChild(p.parseClause(KindPermitsClause))
	}
	if p.assist != nil && p.assist.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	node.AddChild(p.parseClassBody(ContextClassBody))
	return p.finishNode(node)
}

func (p *Parser) parseInterfaceDecl(modifiers *Node) *Node {
	node := p.startNodeAt(KindInterfaceDecl, modifiers)
	node.AddChild(modifiers)

	p.expect(TokenInterface)
	p.parseTypeName(node)

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
	if p.headerKeyword(node, "extends", "permits") {
		return p.finishNode(node)
	}
	if p.check(TokenExtends) {
		node.AddChild(p.parseClause(KindExtendsClause))
	}
	if p.check(TokenPermits) {
		p.requireFeatureAt(FeatureSealedTypes, p.peek())
		node.AddChild(p.parseClause(KindPermitsClause))
	}
	if p.assist != nil && p.assist.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	node.AddChild(p.parseClassBody(ContextClassBody))
	return p.finishNode(node)
}

func (p *Parser) parseEnumDecl(modifiers *Node) *Node {
	node := p.startNodeAt(KindEnumDecl, modifiers)
	node.AddChild(modifiers)

	p.expect(TokenEnum)
	p.parseTypeName(node)

	if p.headerKeyword(node, "implements") {
		return p.finishNode(node)
	}
	if p.check(TokenImplements) {
		node.AddChild(p.parseClause(KindImplementsClause))
	}
	if p.assist != nil && p.assist.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	node.AddChild(p.parseClassBody(ContextEnumBody))
	return p.finishNode(node)
}

func (p *Parser) parseEnumConstant() *Node {
	node := p.startNode(KindEnumConstant)
	node.Javadoc = p.javadocFor(p.peek())

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	if tok := p.expectIdentifier(); tok != nil {
		name := ident(*tok)
		p.selectIdentifier(name, KindSelectOnFieldName)
		node.AddChild(name)
	}

	if p.check(TokenLParen) {
		args, _ := p.parseArguments()
		node.AddChild(args)
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody(ContextClassBody))
	}

	return p.finishNode(node)
}

func (p *Parser) parseRecordDecl(modifiers *Node) *Node {
	node := p.startNodeAt(KindRecordDecl, modifiers)
	node.AddChild(modifiers)

	p.requireFeatureAt(FeatureRecords, p.peek())
	p.expect(TokenRecord)
	p.parseTypeName(node)

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}

	node.AddChild(p.parseParameters())
	if p.assist != nil && p.assist.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	if p.headerKeyword(node, "implements") {
		return p.finishNode(node)
	}
	if p.check(TokenImplements) {
		node.AddChild(p.parseClause(KindImplementsClause))
	}
	if p.assist != nil && p.assist.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	node.AddChild(p.parseClassBody(ContextClassBody))
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationDecl(modifiers *Node) *Node {
	node := p.startNodeAt(KindAnnotationDecl, modifiers)
	node.AddChild(modifiers)

	p.expect(TokenAt)
	p.expect(TokenInterface)
	p.parseTypeName(node)

	node.AddChild(p.parseClassBody(ContextClassBody))
	return p.finishNode(node)
}

// parseClassBody parses { members }. In an enum body the constants come
// first, up to the first semicolon.
func (p *Parser) parseClassBody(ctx ContextKind) *Node {
	node := p.startNode(KindClassBody)
	open := p.peek()
	if p.expect(TokenLBrace) == nil {
		return p.finishNode(node)
	}
	mark := p.pushContext(ctx, open)
	defer p.closeContext(mark)

	if ctx == ContextEnumBody {
		for p.check(TokenAt) || p.isIdentifierLike() {
			progress := p.mustProgress()
			node.AddChild(p.parseEnumConstant())
			if p.assist != nil && p.assist.Kind.IsCompletion() {
				return p.finishNode(node)
			}
			if p.accept(TokenComma) == nil || !progress() {
				break
			}
		}
		if !p.check(TokenRBrace) {
			p.expect(TokenSemicolon)
		}
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if !isMemberStart(p.peek().Kind) && p.skipJunk(isMemberStart) {
			continue
		}
		node.AddChild(p.parseClassMember(ctx))
		if p.assist != nil && p.assist.Kind.IsCompletion() {
			return p.finishNode(node)
		}
		progress()
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseClassMember(ctx ContextKind) *Node {
	javadoc := p.javadocFor(p.peek())
	member := p.parseMember(ctx)
	if member != nil && member.Kind != KindEmptyStmt {
		member.Javadoc = javadoc
	}
	return member
}

func (p *Parser) parseMember(ctx ContextKind) *Node {
	if p.check(TokenLBrace) {
		node := p.startNode(KindInitializer)
		node.AddChild(p.parseBody(ContextBlock, false))
		return p.finishNode(node)
	}

	if p.check(TokenSemicolon) {
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	}

	modifiers := p.parseModifiers()

	if p.check(TokenLBrace) && len(modifiers.Children) > 0 {
		node := p.startNodeAt(KindInitializer, modifiers)
		node.AddChild(modifiers)
		node.AddChild(p.parseBody(ContextBlock, false))
		return p.finishNode(node)
	}

	if decl := p.parseTypeDeclRest(modifiers); decl != nil {
		return decl
	}

	if p.check(TokenLT) {
		typeParams := p.parseTypeParameters()
		if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
			return p.parseConstructor(modifiers, typeParams)
		}
		return p.parseMethod(modifiers, typeParams, p.parseType())
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseConstructor(modifiers, nil)
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLBrace {
		return p.parseCompactConstructor(modifiers)
	}

	typ := p.parseType()
	if typ.Kind == KindError || p.assist != nil && p.assist.Kind.IsCompletion() {
		node := p.startNodeAt(KindFieldDecl, modifiers)
		node.AddChild(modifiers)
		node.AddChild(typ)
		if typ.Kind == KindError && !p.check(TokenRBrace) && !p.check(TokenEOF) {
			p.skipJunk(isMemberStart)
		}
		return p.finishNode(node)
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseMethod(modifiers, nil, typ)
	}
	return p.parseField(modifiers, typ)
}

func (p *Parser) parseConstructor(modifiers *Node, typeParams *Node) *Node {
	node := p.startNodeAt(KindConstructorDecl, modifiers)
	node.AddChild(modifiers)
	node.AddChild(typeParams)

	if tok := p.expectIdentifier(); tok != nil {
		name := ident(*tok)
		p.selectIdentifier(name, KindSelectOnMethodName)
		node.AddChild(name)
	}

	node.AddChild(p.parseParameters())
	if p.assist != nil && p.assist.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	node.AddChild(p.parseBody(ContextConstructorBody, true))
	return p.finishNode(node)
}

// parseCompactConstructor parses a record's canonical constructor written
// without a parameter list: public Point { ... }
func (p *Parser) parseCompactConstructor(modifiers *Node) *Node {
	node := p.startNodeAt(KindCompactConstructorDecl, modifiers)
	node.AddChild(modifiers)

	if tok := p.expectIdentifier(); tok != nil {
		name := ident(*tok)
		p.selectIdentifier(name, KindSelectOnMethodName)
		node.AddChild(name)
	}

	node.AddChild(p.parseBody(ContextConstructorBody, false))
	return p.finishNode(node)
}

func (p *Parser) parseMethod(modifiers, typeParams, returnType *Node) *Node {
	node := p.startNodeAt(KindMethodDecl, modifiers)
	node.AddChild(modifiers)
	node.AddChild(typeParams)
	node.AddChild(returnType)

	if tok := p.expectIdentifier(); tok != nil {
		name := ident(*tok)
		p.selectIdentifier(name, KindSelectOnMethodName)
		node.AddChild(name)
	}

	node.AddChild(p.parseParameters())
	if p.assist != nil && p.assist.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	p.parseDims(node)

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	switch {
	case p.check(TokenLBrace):
		node.AddChild(p.parseBody(ContextMethodBody, false))
	case p.accept(TokenDefault) != nil:
		node.AddChild(p.parseAnnotationValue())
		p.expect(TokenSemicolon)
	default:
		p.expect(TokenSemicolon)
	}

	return p.finishNode(node)
}

func (p *Parser) parseField(modifiers, typ *Node) *Node {
	node := p.startNodeAt(KindFieldDecl, modifiers)
	node.AddChild(modifiers)
	node.AddChild(typ)

	for {
		progress := p.mustProgress()
		if tok := p.expectIdentifier(); tok != nil {
			name := declarator(*tok)
			p.selectIdentifier(name, KindSelectOnFieldName)
			node.AddChild(name)
		}

		p.parseDims(node)

		if p.accept(TokenAssign) != nil {
			node.AddChild(p.parseVarInitializer())
		}
		if p.assist != nil && p.assist.Kind.IsCompletion() {
			return p.finishNode(node)
		}

		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseVarInitializer() *Node {
	if p.check(TokenLBrace) {
		return p.parseArrayInitializer()
	}
	return p.parseExpression()
}

func (p *Parser) parseArrayInitializer() *Node {
	node := p.startNode(KindArrayInit)
	open := p.peek()
	p.expect(TokenLBrace)
	mark := p.pushContext(ContextArrayInitializer, open)
	defer p.closeContext(mark)

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseVarInitializer())
		if p.assist != nil && p.assist.Kind.IsCompletion() {
			return p.finishNode(node)
		}
		if p.accept(TokenComma) == nil {
			break
		}
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)

	if !p.check(TokenRParen) {
		if p.isReceiverParameter() {
			node.AddChild(p.parseReceiverParameter())
			p.accept(TokenComma)
		}
		for !p.check(TokenRParen) && !p.check(TokenEOF) || p.completionSlot() {
			progress := p.mustProgress()
			node.AddChild(p.parseParameter())
			if p.assist != nil && p.assist.Kind.IsCompletion() {
				return p.finishNode(node)
			}
			if p.accept(TokenComma) == nil || !progress() {
				break
			}
		}
	}

	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) isReceiverParameter() bool {
	return p.speculate(func() bool {
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		if !p.isIdentifierLike() && !isPrimitive(p.peek().Kind) {
			return false
		}
		p.parseType()
		if p.check(TokenThis) {
			return true
		}
		for p.isIdentifierLike() && p.peekN(1).Kind == TokenDot {
			p.advance()
			p.advance()
		}
		return p.check(TokenThis)
	})
}

func (p *Parser) parseReceiverParameter() *Node {
	node := p.startNode(KindReceiverParameter)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	node.AddChild(p.parseType())

	for p.isIdentifierLike() {
		node.AddChild(ident(p.advance()))
		p.expect(TokenDot)
	}

	p.expect(TokenThis)
	return p.finishNode(node)
}

func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())

	typ := p.parseType()
	node.AddChild(typ)
	if p.assist != nil && p.assist.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	if tok := p.accept(TokenEllipsis); tok != nil {
		node.AddChild(ident(*tok))
	}

	if prefix, ok := p.completionPrefix(); ok && (prefix == nil || isIdentifierKind(prefix.Kind)) {
		if prefix != nil {
			p.advance()
		}
		from := p.s.EOF().Span.Start
		if prefix != nil {
			from = prefix.Span.Start
		}
		return p.complete(KindCompleteOnArgumentName, node.Span.Start, from, prefix, node.Children...)
	}

	name := p.parseVariableDeclaratorId()
	node.AddChild(name)

	p.parseDims(node)

	p.finishNode(node)
	if name != nil && name.Token != nil {
		p.selectDeclarator(node, name.Token, KindSelectOnArgumentName)
	}
	return node
}

func (p *Parser) parseThrowsList() *Node {
	node := p.startNode(KindThrowsList)
	p.expect(TokenThrows)

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}

	return p.finishNode(node)
}
