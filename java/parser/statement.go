package parser

import "github.com/dhamidi/javaparse/java/problem"

// parseBody parses the body of a method, constructor or initializer. In
// diet mode the body is skipped and kept as an Unparsed block.
func (p *Parser) parseBody(ctx ContextKind, constructor bool) *Node {
	if p.diet && p.quiet == 0 && p.mode == modeNone && p.check(TokenLBrace) {
		return p.skipBody(ctx)
	}
	return p.parseBlockIn(ctx, constructor)
}

func (p *Parser) parseBlock() *Node {
	return p.parseBlockIn(ContextBlock, false)
}

// parseBlockIn parses { statements } as a recovery context of kind ctx.
// While unwinding to an enclosing type body the closing brace is not
// expected: the block was reported unterminated already.
func (p *Parser) parseBlockIn(ctx ContextKind, constructor bool) *Node {
	node := p.startNode(KindBlock)
	open := p.peek()
	if p.expect(TokenLBrace) == nil {
		return p.finishNode(node)
	}
	mark := p.pushContext(ctx, open)
	defer p.closeContext(mark)

	if constructor && p.isExplicitConstructorInvocation() {
		node.AddChild(p.parseExplicitConstructorInvocation())
	}

	p.parseBlockStatements(node, func() bool { return p.check(TokenRBrace) })

	if !p.unwinding() {
		p.expect(TokenRBrace)
	}
	return p.finishNode(node)
}

// parseBlockStatements parses statements into node until done reports
// true. A member header inside a method body ends the statements: the
// body is missing its closing brace and the member belongs to the type.
func (p *Parser) parseBlockStatements(node *Node, done func() bool) {
	for (!done() && !p.check(TokenEOF) || p.completionSlot()) && !p.unwinding() {
		if p.looksLikeMemberHeader() && p.resync() {
			return
		}
		progress := p.mustProgress()
		node.AddChild(p.parseBlockStatement())
		progress()
	}
}

func (p *Parser) parseBlockStatement() *Node {
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return p.parseLocalClassDecl()
	case TokenRecord:
		if isIdentifierKind(p.peekN(1).Kind) && p.peekN(2).Kind != TokenAssign {
			return p.parseLocalClassDecl()
		}
	case TokenAbstract, TokenStatic, TokenStrictfp:
		return p.parseLocalClassDecl()
	case TokenFinal, TokenAt:
		if p.isLocalClassDecl() {
			return p.parseLocalClassDecl()
		}
	}
	return p.parseStatement()
}

// parseSubStatement parses the body of a control-flow statement. A braced
// body is a Statement context for recovery.
func (p *Parser) parseSubStatement() *Node {
	if p.check(TokenLBrace) {
		return p.parseBlockIn(ContextStatement, false)
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() *Node {
	switch p.peek().Kind {
	case TokenLBrace:
		return p.parseBlock()
	case TokenSemicolon:
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	case TokenIf:
		return p.parseIfStmt()
	case TokenFor:
		return p.parseForStmt()
	case TokenWhile:
		return p.parseWhileStmt()
	case TokenDo:
		return p.parseDoStmt()
	case TokenSwitch:
		if p.isSwitchStatement() {
			return p.parseSwitchStmt()
		}
	case TokenReturn:
		return p.parseReturnStmt()
	case TokenBreak:
		return p.parseJumpStmt(KindBreakStmt)
	case TokenContinue:
		return p.parseJumpStmt(KindContinueStmt)
	case TokenThrow:
		return p.parseThrowStmt()
	case TokenTry:
		return p.parseTryStmt()
	case TokenSynchronized:
		return p.parseSynchronizedStmt()
	case TokenAssert:
		return p.parseAssertStmt()
	case TokenYield:
		if p.isYieldStatement() {
			return p.parseYieldStmt()
		}
	}
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenColon {
		return p.parseLabeledStmt()
	}
	if !canStartStatement(p.peek().Kind) {
		node := p.startNode(KindError)
		tok := p.advance()
		p.syntaxError(problem.ParsingErrorDeleteToken, tok.Start(), tok.End(), tok.Text())
		return p.finishNode(node)
	}
	return p.parseLocalVarOrExprStmt()
}

// canStartStatement reports whether kind may begin a statement. Anything
// else at a statement boundary is a stray token.
func canStartStatement(kind TokenKind) bool {
	switch kind {
	case TokenRParen, TokenRBracket, TokenRBrace, TokenComma, TokenColon, TokenDot,
		TokenElse, TokenCatch, TokenFinally, TokenCase, TokenDefault, TokenArrow,
		TokenColonColon, TokenEllipsis, TokenInstanceof, TokenExtends, TokenImplements,
		TokenThrows, TokenQuestion, TokenAssign, TokenEQ, TokenNE, TokenLE, TokenGE,
		TokenGT, TokenAnd, TokenOr, TokenBitAnd, TokenBitOr, TokenBitXor,
		TokenShl, TokenShr, TokenUShr, TokenStar, TokenSlash, TokenPercent,
		TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign,
		TokenPercentAssign, TokenAndAssign, TokenOrAssign, TokenXorAssign,
		TokenShlAssign, TokenShrAssign, TokenUShrAssign, TokenError,
		TokenPackage, TokenImport, TokenGoto, TokenConst:
		return false
	}
	return true
}

func (p *Parser) isYieldStatement() bool {
	switch p.peekN(1).Kind {
	case TokenAssign, TokenDot, TokenLBracket, TokenIncrement, TokenDecrement,
		TokenSemicolon, TokenColon, TokenPlusAssign, TokenMinusAssign,
		TokenStarAssign, TokenSlashAssign:
		return false
	}
	return true
}

func (p *Parser) isSwitchStatement() bool {
	return p.speculate(func() bool {
		p.advance()
		if p.accept(TokenLParen) == nil {
			return true
		}
		depth := 1
		for depth > 0 && !p.check(TokenEOF) {
			switch p.advance().Kind {
			case TokenLParen:
				depth++
			case TokenRParen:
				depth--
			}
		}
		p.skipBraces()
		return !p.check(TokenDot) && !p.check(TokenSemicolon) && !isBinaryOperator(p.peek().Kind)
	})
}

// skipBraces skips a balanced { ... } group.
func (p *Parser) skipBraces() {
	if !p.check(TokenLBrace) {
		return
	}
	depth := 0
	for !p.check(TokenEOF) {
		switch p.advance().Kind {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth--
		}
		if depth == 0 {
			return
		}
	}
}

func (p *Parser) parseLocalVarOrExprStmt() *Node {
	if p.isLocalVarDecl() {
		node := p.parseLocalVarDecl()
		if !node.Kind.IsCompletion() {
			p.expect(TokenSemicolon)
			p.finishNode(node)
		}
		return node
	}
	return p.parseExprStmt()
}

// isLocalVarDecl decides between a declaration and an expression
// statement. In a completion parse a type followed by the caret is taken
// as a declaration whose name is being typed.
func (p *Parser) isLocalVarDecl() bool {
	return p.speculate(func() bool {
		for p.check(TokenAt) || p.check(TokenFinal) {
			if p.accept(TokenFinal) == nil {
				p.parseAnnotation()
			}
		}
		kind := p.peek().Kind
		if !isPrimitive(kind) && !isIdentifierKind(kind) {
			return false
		}
		if isPrimitive(kind) {
			return true
		}
		typ := p.parseType()
		if typ.Kind == KindError {
			return false
		}
		if p.mode == modeCompletion && p.check(TokenEOF) {
			last, _ := p.s.Previous()
			return last.End() < p.caret
		}
		return p.isIdentifierLike()
	})
}

func (p *Parser) isLocalClassDecl() bool {
	return p.speculate(func() bool {
		p.parseModifiers()
		switch p.peek().Kind {
		case TokenClass, TokenInterface, TokenEnum:
			return true
		case TokenRecord:
			return isIdentifierKind(p.peekN(1).Kind)
		}
		return false
	})
}

// parseLocalVarDecl parses modifiers, a type and declarators, without the
// terminating semicolon.
func (p *Parser) parseLocalVarDecl() *Node {
	node := p.startNode(KindLocalVarDecl)
	node.AddChild(p.parseModifiers())

	if p.check(TokenVar) && isIdentifierKind(p.peekN(1).Kind) {
		p.requireFeatureAt(FeatureVar, p.peek())
	}
	typ := p.parseType()
	node.AddChild(typ)
	if typ.Kind == KindError || p.assist != nil && p.assist.Kind.IsCompletion() {
		return p.finishNode(node)
	}

	for {
		progress := p.mustProgress()
		if prefix, ok := p.completionPrefix(); ok && (prefix == nil || isIdentifierKind(prefix.Kind)) {
			from := p.s.EOF().Span.Start
			if prefix != nil {
				from = prefix.Span.Start
				p.advance()
			}
			return p.complete(KindCompleteOnLocalName, node.Span.Start, from, prefix, typ)
		}

		name := p.parseVariableDeclaratorId()
		if name == nil {
			p.repair(TokenIdent)
			break
		}
		node.AddChild(name)
		if name.Token != nil {
			p.selectDeclarator(node, name.Token, KindSelectionOnLocalName)
		}

		p.parseDims(node)

		if p.accept(TokenAssign) != nil {
			node.AddChild(p.parseVarInitializer())
		}

		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parseExprStmt() *Node {
	node := p.startNode(KindExprStmt)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseLocalClassDecl() *Node {
	node := p.startNode(KindLocalClassDecl)
	modifiers := p.parseModifiers()
	if decl := p.parseTypeDeclRest(modifiers); decl != nil {
		node.AddChild(decl)
	} else {
		node.AddChild(modifiers)
		p.repair(TokenClass)
	}
	return p.finishNode(node)
}

func (p *Parser) parseCondition() *Node {
	p.expect(TokenLParen)
	expr := p.parseExpression()
	p.expect(TokenRParen)
	return expr
}

func (p *Parser) parseIfStmt() *Node {
	node := p.startNode(KindIfStmt)
	p.expect(TokenIf)
	node.AddChild(p.parseCondition())
	node.AddChild(p.parseSubStatement())

	if !p.unwinding() && p.accept(TokenElse) != nil {
		node.AddChild(p.parseSubStatement())
	}

	return p.finishNode(node)
}

func (p *Parser) parseForStmt() *Node {
	node := p.startNode(KindForStmt)
	p.expect(TokenFor)
	p.expect(TokenLParen)

	if p.isEnhancedFor() {
		node.Kind = KindEnhancedForStmt
		decl := p.parseLocalVarDecl()
		if decl.Kind.IsCompletion() {
			node.AddChild(decl)
			return p.finishNode(node)
		}
		node.AddChild(decl)
		p.expect(TokenColon)
		node.AddChild(p.parseExpression())
		p.expect(TokenRParen)
		node.AddChild(p.parseSubStatement())
		return p.finishNode(node)
	}

	init := p.startNode(KindForInit)
	if !p.check(TokenSemicolon) {
		if p.isLocalVarDecl() {
			init.AddChild(p.parseLocalVarDecl())
		} else {
			p.parseExpressionList(init)
		}
	}
	node.AddChild(p.finishNode(init))
	p.expect(TokenSemicolon)

	if !p.check(TokenSemicolon) {
		node.AddChild(p.parseExpression())
	}
	p.expect(TokenSemicolon)

	update := p.startNode(KindForUpdate)
	if !p.check(TokenRParen) {
		p.parseExpressionList(update)
	}
	node.AddChild(p.finishNode(update))
	p.expect(TokenRParen)

	node.AddChild(p.parseSubStatement())
	return p.finishNode(node)
}

func (p *Parser) parseExpressionList(node *Node) {
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseExpression())
		if p.accept(TokenComma) == nil || !progress() {
			return
		}
	}
}

func (p *Parser) isEnhancedFor() bool {
	return p.speculate(func() bool {
		p.parseModifiers()
		if !p.isIdentifierLike() && !isPrimitive(p.peek().Kind) {
			return false
		}
		if p.parseType().Kind == KindError {
			return false
		}
		if !p.isIdentifierLike() {
			return false
		}
		p.advance()
		return p.check(TokenColon)
	})
}

func (p *Parser) parseWhileStmt() *Node {
	node := p.startNode(KindWhileStmt)
	p.expect(TokenWhile)
	node.AddChild(p.parseCondition())
	node.AddChild(p.parseSubStatement())
	return p.finishNode(node)
}

func (p *Parser) parseDoStmt() *Node {
	node := p.startNode(KindDoStmt)
	p.expect(TokenDo)
	node.AddChild(p.parseSubStatement())
	if p.unwinding() {
		return p.finishNode(node)
	}
	p.expect(TokenWhile)
	node.AddChild(p.parseCondition())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseSwitchStmt() *Node {
	node := p.startNode(KindSwitchStmt)
	p.expect(TokenSwitch)
	node.AddChild(p.parseCondition())
	p.parseSwitchBlock(node)
	return p.finishNode(node)
}

// parseSwitchBlock parses the cases of a switch statement or expression
// into node.
func (p *Parser) parseSwitchBlock(node *Node) {
	open := p.peek()
	if p.expect(TokenLBrace) == nil {
		return
	}
	mark := p.pushContext(ContextSwitchBlock, open)
	defer p.closeContext(mark)

	arrows := false
	for !p.check(TokenRBrace) && !p.check(TokenEOF) && !p.unwinding() {
		progress := p.mustProgress()
		if !p.check(TokenCase) && !p.check(TokenDefault) {
			tok := p.advance()
			p.syntaxError(problem.ParsingErrorDeleteToken, tok.Start(), tok.End(), tok.Text())
			continue
		}
		c := p.parseSwitchCase()
		if c.isArrowCase && !arrows && node.Kind == KindSwitchStmt {
			arrows = true
			p.requireFeature(FeatureSwitchExpressions, c.Span.Start.Offset, c.Span.End.Offset)
		}
		node.AddChild(c)
		progress()
	}

	if !p.unwinding() {
		p.expect(TokenRBrace)
	}
}

func (p *Parser) parseSwitchCase() *Node {
	node := p.startNode(KindSwitchCase)

	for p.check(TokenCase) || p.check(TokenDefault) {
		label := p.parseSwitchLabel()
		node.AddChild(label)
		if label.isArrowCase {
			node.isArrowCase = true
			break
		}
	}

	if node.isArrowCase {
		switch p.peek().Kind {
		case TokenLBrace:
			node.AddChild(p.parseBlockIn(ContextStatement, false))
		case TokenThrow:
			node.AddChild(p.parseThrowStmt())
		default:
			node.AddChild(p.parseExprStmt())
		}
		return p.finishNode(node)
	}

	p.parseBlockStatements(node, func() bool {
		return p.check(TokenCase) || p.check(TokenDefault) || p.check(TokenRBrace)
	})
	return p.finishNode(node)
}

func (p *Parser) parseSwitchLabel() *Node {
	node := p.startNode(KindSwitchLabel)

	if p.accept(TokenCase) != nil {
		for {
			progress := p.mustProgress()
			if p.looksLikePattern() {
				p.requireFeatureAt(FeaturePatternSwitch, p.peek())
				node.AddChild(p.parsePattern())
			} else {
				node.AddChild(p.parseTernaryExpr())
			}
			if p.accept(TokenComma) == nil {
				break
			}
			// case null, default
			if tok := p.accept(TokenDefault); tok != nil {
				node.AddChild(ident(*tok))
				break
			}
			if !progress() {
				break
			}
		}
		if p.check(TokenWhen) {
			node.AddChild(p.parseGuard())
		}
	} else {
		p.expect(TokenDefault)
	}

	if tok := p.accept(TokenArrow); tok != nil {
		node.AddChild(ident(*tok))
		node.isArrowCase = true
	} else {
		p.expect(TokenColon)
	}

	return p.finishNode(node)
}

func (p *Parser) looksLikePattern() bool {
	if p.looksLikeMatchAllPattern() {
		return true
	}
	return p.speculate(func() bool {
		p.parseModifiers()
		if !p.isIdentifierLike() && !isPrimitive(p.peek().Kind) {
			return false
		}
		if p.parseType().Kind == KindError {
			return false
		}
		return p.isIdentifierLike() || p.check(TokenLParen)
	})
}

// parsePattern parses a type pattern, a record pattern or the match-all
// pattern _.
func (p *Parser) parsePattern() *Node {
	if p.looksLikeMatchAllPattern() {
		p.requireFeatureAt(FeatureUnnamedVariables, p.peek())
		node := p.startNode(KindMatchAllPattern)
		p.advance()
		return p.finishNode(node)
	}

	start := p.peek()
	modifiers := p.parseModifiers()
	typ := p.parseType()

	if p.check(TokenLParen) {
		p.requireFeatureAt(FeatureRecordPatterns, start)
		node := p.startNodeAt(KindRecordPattern, typ)
		node.AddChild(typ)
		p.advance()
		if !p.check(TokenRParen) {
			for {
				progress := p.mustProgress()
				node.AddChild(p.parsePattern())
				if p.accept(TokenComma) == nil || !progress() {
					break
				}
			}
		}
		p.expect(TokenRParen)
		return p.finishNode(node)
	}

	node := p.startNodeAt(KindPatternVariable, modifiers)
	if len(modifiers.Children) > 0 {
		node.AddChild(modifiers)
	}
	node.AddChild(typ)
	if typ.Kind.IsCompletion() {
		return p.finishNode(node)
	}
	return p.parsePatternVariableName(node, typ)
}

// parsePatternVariableName finishes a pattern variable after its type.
func (p *Parser) parsePatternVariableName(node, typ *Node) *Node {
	if prefix, ok := p.completionPrefix(); ok && (prefix == nil || isIdentifierKind(prefix.Kind)) {
		from := p.s.EOF().Span.Start
		if prefix != nil {
			from = prefix.Span.Start
			p.advance()
		}
		return p.complete(KindCompleteOnLocalName, node.Span.Start, from, prefix, typ)
	}
	name := p.parseVariableDeclaratorId()
	if name == nil {
		p.repair(TokenIdent)
		return p.finishNode(node)
	}
	node.AddChild(name)
	p.finishNode(node)
	if name.Token != nil {
		p.selectDeclarator(node, name.Token, KindSelectionOnLocalName)
	}
	return node
}

func (p *Parser) parseGuard() *Node {
	node := p.startNode(KindGuard)
	p.expect(TokenWhen)
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

func (p *Parser) looksLikeMatchAllPattern() bool {
	if !p.isUnnamedVariable() {
		return false
	}
	next := p.peekN(1).Kind
	return next == TokenColon || next == TokenArrow || next == TokenComma || next == TokenRParen
}

func (p *Parser) isUnnamedVariable() bool {
	return p.check(TokenIdent) && p.peek().Literal == "_"
}

func (p *Parser) parseVariableDeclaratorId() *Node {
	if p.isUnnamedVariable() {
		p.requireFeatureAt(FeatureUnnamedVariables, p.peek())
		node := p.startNode(KindUnnamedVariable)
		node.declarator = true
		p.advance()
		return p.finishNode(node)
	}
	if p.isIdentifierLike() {
		return declarator(p.advance())
	}
	return nil
}

func (p *Parser) parseReturnStmt() *Node {
	node := p.startNode(KindReturnStmt)
	p.expect(TokenReturn)

	if !p.check(TokenSemicolon) && !p.check(TokenRBrace) || p.completionSlot() {
		node.AddChild(p.parseExpression())
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseJumpStmt(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()

	if p.isIdentifierLike() {
		node.AddChild(ident(p.advance()))
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseThrowStmt() *Node {
	node := p.startNode(KindThrowStmt)
	p.expect(TokenThrow)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseTryStmt() *Node {
	node := p.startNode(KindTryStmt)
	p.expect(TokenTry)

	if p.accept(TokenLParen) != nil {
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			node.AddChild(p.parseResource())
			p.accept(TokenSemicolon)
			if !progress() {
				break
			}
		}
		p.expect(TokenRParen)
	}

	node.AddChild(p.parseBlockIn(ContextStatement, false))

	for !p.unwinding() && p.check(TokenCatch) {
		node.AddChild(p.parseCatchClause())
	}

	if !p.unwinding() && p.check(TokenFinally) {
		node.AddChild(p.parseFinallyClause())
	}

	return p.finishNode(node)
}

func (p *Parser) parseResource() *Node {
	if p.isLocalVarDecl() {
		return p.parseLocalVarDecl()
	}
	return p.parseExpression()
}

func (p *Parser) parseCatchClause() *Node {
	node := p.startNode(KindCatchClause)
	p.expect(TokenCatch)
	p.expect(TokenLParen)

	node.AddChild(p.parseModifiers())

	union := p.startNode(KindType)
	union.AddChild(p.parseType())
	for p.accept(TokenBitOr) != nil {
		union.AddChild(p.parseType())
	}
	node.AddChild(p.finishNode(union))

	if name := p.parseVariableDeclaratorId(); name != nil {
		node.AddChild(name)
		if name.Token != nil {
			p.selectDeclarator(node, name.Token, KindSelectOnArgumentName)
		}
	}

	p.expect(TokenRParen)
	node.AddChild(p.parseBlockIn(ContextStatement, false))

	return p.finishNode(node)
}

func (p *Parser) parseFinallyClause() *Node {
	node := p.startNode(KindFinallyClause)
	p.expect(TokenFinally)
	node.AddChild(p.parseBlockIn(ContextStatement, false))
	return p.finishNode(node)
}

func (p *Parser) parseSynchronizedStmt() *Node {
	node := p.startNode(KindSynchronizedStmt)
	p.expect(TokenSynchronized)
	node.AddChild(p.parseCondition())
	node.AddChild(p.parseBlockIn(ContextStatement, false))
	return p.finishNode(node)
}

func (p *Parser) parseAssertStmt() *Node {
	node := p.startNode(KindAssertStmt)
	p.expect(TokenAssert)
	node.AddChild(p.parseExpression())

	if p.accept(TokenColon) != nil {
		node.AddChild(p.parseExpression())
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseYieldStmt() *Node {
	node := p.startNode(KindYieldStmt)
	p.requireFeatureAt(FeatureYield, p.peek())
	p.expect(TokenYield)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseLabeledStmt() *Node {
	node := p.startNode(KindLabeledStmt)
	node.AddChild(ident(p.advance()))
	p.expect(TokenColon)
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

// isExplicitConstructorInvocation looks for this(...), super(...) or a
// qualified super(...) at the start of a constructor body.
func (p *Parser) isExplicitConstructorInvocation() bool {
	return p.speculate(func() bool {
		p.skipTypeArguments()
		if p.check(TokenThis) || p.check(TokenSuper) {
			return p.peekN(1).Kind == TokenLParen
		}
		if !p.isIdentifierLike() {
			return false
		}
		for p.isIdentifierLike() && p.peekN(1).Kind == TokenDot {
			p.advance()
			p.advance()
		}
		p.skipTypeArguments()
		return p.check(TokenSuper) && p.peekN(1).Kind == TokenLParen
	})
}

func (p *Parser) parseExplicitConstructorInvocation() *Node {
	node := p.startNode(KindExplicitConstructorInvocation)

	if p.isIdentifierLike() {
		qualifier := ident(p.advance())
		p.expect(TokenDot)
		for p.isIdentifierLike() && p.peekN(1).Kind == TokenDot {
			access := p.startNodeAt(KindFieldAccess, qualifier)
			access.AddChild(qualifier)
			access.AddChild(ident(p.advance()))
			qualifier = p.finishNode(access)
			p.advance()
		}
		node.AddChild(qualifier)
	}

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeArguments())
	}

	switch tok := p.peek(); tok.Kind {
	case TokenThis:
		node.AddChild(leaf(KindThis, p.advance()))
	case TokenSuper:
		node.AddChild(leaf(KindSuper, p.advance()))
	}

	args, slot := p.parseArguments()
	node.AddChild(args)
	if slot {
		return p.complete(KindCompleteOnMessageSend, node.Span.Start, p.s.EOF().Span.Start, nil, node.Children...)
	}
	p.expect(TokenSemicolon)

	return p.finishNode(node)
}
