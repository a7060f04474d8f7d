package parser

import "github.com/dhamidi/javaparse/java/problem"

// allocRole completes the type of an instance creation; its selection is
// reported on the whole creation expression instead.
var allocRole = nameRole{complete: KindCompleteOnType, completeQualified: KindCompleteOnQualifiedType}

func (p *Parser) parseExpression() *Node {
	if p.isLambda() {
		return p.parseLambdaExpr()
	}

	left := p.parseTernaryExpr()
	if !isAssignOp(p.peek().Kind) {
		return left
	}

	node := p.startNodeAt(KindAssignExpr, left)
	node.AddChild(left)
	node.AddChild(ident(p.advance()))
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

func isAssignOp(kind TokenKind) bool {
	switch kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign,
		TokenStarAssign, TokenSlashAssign, TokenPercentAssign,
		TokenAndAssign, TokenOrAssign, TokenXorAssign,
		TokenShlAssign, TokenShrAssign, TokenUShrAssign:
		return true
	}
	return false
}

func (p *Parser) isLambda() bool {
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenArrow {
		return true
	}
	if !p.check(TokenLParen) {
		return false
	}
	return p.speculate(func() bool {
		p.advance()
		depth := 1
		for depth > 0 && !p.check(TokenEOF) {
			switch p.advance().Kind {
			case TokenLParen:
				depth++
			case TokenRParen:
				depth--
			}
		}
		return depth == 0 && p.check(TokenArrow)
	})
}

func (p *Parser) parseLambdaExpr() *Node {
	node := p.startNode(KindLambdaExpr)

	if p.isIdentifierLike() {
		params := p.startNode(KindParameters)
		name := ident(p.advance())
		p.selectIdentifier(name, KindSelectOnArgumentName)
		params.AddChild(name)
		node.AddChild(p.finishNode(params))
	} else {
		node.AddChild(p.parseLambdaParameters())
	}

	p.expect(TokenArrow)

	if p.check(TokenLBrace) {
		node.AddChild(p.parseBlock())
	} else {
		node.AddChild(p.parseExpression())
	}

	return p.finishNode(node)
}

func (p *Parser) parseLambdaParameters() *Node {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)

	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.isLambdaTypedParam() {
			node.AddChild(p.parseParameter())
		} else if name := p.parseVariableDeclaratorId(); name != nil {
			p.selectIdentifier(name, KindSelectOnArgumentName)
			node.AddChild(name)
		} else {
			p.repair(TokenIdent)
		}
		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}

	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) isLambdaTypedParam() bool {
	switch kind := p.peek().Kind; {
	case kind == TokenFinal || kind == TokenAt || kind == TokenVar || isPrimitive(kind):
		return true
	case isIdentifierKind(kind):
		switch p.peekN(1).Kind {
		case TokenLT, TokenDot, TokenLBracket, TokenEllipsis:
			return true
		}
		return isIdentifierKind(p.peekN(1).Kind)
	}
	return false
}

func (p *Parser) parseTernaryExpr() *Node {
	cond := p.parseBinaryExpr(1)
	if !p.check(TokenQuestion) {
		return cond
	}

	node := p.startNodeAt(KindTernaryExpr, cond)
	node.AddChild(cond)
	p.advance()
	node.AddChild(p.parseExpression())
	p.expect(TokenColon)
	if p.isLambda() {
		node.AddChild(p.parseLambdaExpr())
	} else {
		node.AddChild(p.parseTernaryExpr())
	}
	return p.finishNode(node)
}

// binaryPrecedence ranks the infix operators, loosest first. Zero means
// kind is not an infix operator.
func binaryPrecedence(kind TokenKind) int {
	switch kind {
	case TokenOr:
		return 1
	case TokenAnd:
		return 2
	case TokenBitOr:
		return 3
	case TokenBitXor:
		return 4
	case TokenBitAnd:
		return 5
	case TokenEQ, TokenNE:
		return 6
	case TokenLT, TokenGT, TokenLE, TokenGE, TokenInstanceof:
		return 7
	case TokenShl, TokenShr, TokenUShr:
		return 8
	case TokenPlus, TokenMinus:
		return 9
	case TokenStar, TokenSlash, TokenPercent:
		return 10
	}
	return 0
}

func isBinaryOperator(kind TokenKind) bool {
	return binaryPrecedence(kind) > 0
}

// parseBinaryExpr parses a left-associative chain of infix operators
// binding at least as tight as minPrec.
func (p *Parser) parseBinaryExpr(minPrec int) *Node {
	left := p.parseUnaryExpr()

	for {
		op := p.peek()
		prec := binaryPrecedence(op.Kind)
		if prec == 0 || prec < minPrec {
			return left
		}
		if op.Kind == TokenInstanceof {
			left = p.parseInstanceof(left)
			continue
		}

		p.advance()
		right := p.parseBinaryExpr(prec + 1)
		if op.Kind == TokenPlus {
			if folded := p.foldLiterals(left, right); folded != nil {
				left = folded
				continue
			}
		}

		node := p.startNodeAt(KindBinaryExpr, left)
		node.AddChild(left)
		node.AddChild(ident(op))
		node.AddChild(right)
		left = p.finishNode(node)
	}
}

// foldLiterals merges "a" + "b" into a single literal node. With folding
// enabled the operands are aggregated; otherwise they are kept as a
// concatenation. It returns nil when the operands are not a string on the
// left and character data on the right.
func (p *Parser) foldLiterals(left, right *Node) *Node {
	if left.Kind != KindLiteral || right.Kind != KindLiteral {
		return nil
	}
	r, ok := right.Constant.(*Literal)
	if !ok || !r.IsCharacterData() {
		return nil
	}

	var merged Mergeable
	switch l := left.Constant.(type) {
	case *Literal:
		if l.Kind != LiteralString && l.Kind != LiteralTextBlock {
			return nil
		}
		if p.opts.FoldLiterals {
			agg := l.ExtendWith(r)
			if agg == nil {
				return nil
			}
			merged = agg
		} else {
			merged = l.ExtendsWith(r)
		}
	case *Concatenation:
		merged = l.ExtendsWith(r)
	default:
		return nil
	}

	return &Node{
		Kind:     KindLiteral,
		Span:     Span{Start: left.Span.Start, End: right.Span.End},
		Constant: merged,
	}
}

func (p *Parser) parseInstanceof(left *Node) *Node {
	node := p.startNodeAt(KindInstanceofExpr, left)
	node.AddChild(left)
	p.expect(TokenInstanceof)

	start := p.peek()
	if p.looksLikePattern() {
		pattern := p.parsePattern()
		if pattern.Kind == KindPatternVariable {
			p.requireFeature(FeaturePatternInstanceof, start.Start(), pattern.Span.End.Offset)
		}
		node.AddChild(pattern)
		return p.finishNode(node)
	}

	typ := p.parseType()
	if !typ.Kind.IsCompletion() && p.completionSlot() {
		pattern := p.startNodeAt(KindPatternVariable, typ)
		pattern.AddChild(typ)
		node.AddChild(p.parsePatternVariableName(pattern, typ))
		return p.finishNode(node)
	}
	node.AddChild(typ)
	return p.finishNode(node)
}

func (p *Parser) parseUnaryExpr() *Node {
	switch p.peek().Kind {
	case TokenIncrement, TokenDecrement, TokenPlus, TokenMinus, TokenNot, TokenBitNot:
		node := p.startNode(KindUnaryExpr)
		node.AddChild(ident(p.advance()))
		node.AddChild(p.parseUnaryExpr())
		return p.finishNode(node)
	case TokenLParen:
		if p.isCast() {
			return p.parseCastExpr()
		}
	}

	return p.parsePostfixSuffix(p.parsePrimaryExpr())
}

// isCast tells (Type) operand apart from a parenthesized expression.
func (p *Parser) isCast() bool {
	return p.speculate(func() bool {
		p.advance()
		for p.check(TokenAt) {
			p.parseAnnotation()
		}

		kind := p.peek().Kind
		if isPrimitive(kind) {
			p.parseType()
			return p.accept(TokenRParen) != nil
		}
		if !isIdentifierKind(kind) {
			return false
		}

		if p.parseType().Kind == KindError {
			return false
		}
		for p.accept(TokenBitAnd) != nil {
			p.parseType()
		}
		if p.accept(TokenRParen) == nil {
			return false
		}

		switch next := p.peek().Kind; next {
		case TokenThis, TokenSuper, TokenNew, TokenSwitch,
			TokenLParen, TokenNot, TokenBitNot,
			TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral,
			TokenStringLiteral, TokenTextBlock, TokenTrue, TokenFalse, TokenNull:
			return true
		default:
			return isIdentifierKind(next) || isPrimitive(next)
		}
	})
}

func (p *Parser) parseCastExpr() *Node {
	node := p.startNode(KindCastExpr)
	p.expect(TokenLParen)

	typ := p.startNode(KindType)
	typ.AddChild(p.parseType())
	for p.accept(TokenBitAnd) != nil {
		typ.AddChild(p.parseType())
	}
	node.AddChild(p.finishNode(typ))

	p.expect(TokenRParen)
	if p.isLambda() {
		node.AddChild(p.parseLambdaExpr())
	} else {
		node.AddChild(p.parseUnaryExpr())
	}
	return p.finishNode(node)
}

func (p *Parser) parsePostfixSuffix(expr *Node) *Node {
	for {
		if expr.Kind.IsCompletion() {
			return expr
		}
		progress := p.mustProgress()
		switch p.peek().Kind {
		case TokenIncrement, TokenDecrement:
			node := p.startNodeAt(KindPostfixExpr, expr)
			node.AddChild(expr)
			node.AddChild(ident(p.advance()))
			expr = p.finishNode(node)
		case TokenDot:
			expr = p.parseDotSuffix(expr)
		case TokenLBracket:
			if p.peekN(1).Kind == TokenRBracket {
				if typ := p.parseTypeExprSuffix(expr); typ != nil {
					expr = typ
					break
				}
			}
			p.advance()
			node := p.startNodeAt(KindArrayAccess, expr)
			node.AddChild(expr)
			node.AddChild(p.parseExpression())
			p.expect(TokenRBracket)
			expr = p.finishNode(node)
		case TokenColonColon:
			expr = p.parseMethodRef(expr)
		case TokenLT:
			if !isNameChain(expr) || !p.isGenericTypeExpr() {
				return expr
			}
			typ := p.startNodeAt(KindType, expr)
			typ.AddChild(expr)
			typ.AddChild(p.parseTypeArguments())
			expr = p.finishNode(typ)
			if suffix := p.parseTypeExprSuffix(expr); suffix != nil {
				expr = suffix
			}
		default:
			return expr
		}
		if !progress() {
			return expr
		}
	}
}

// parseDotSuffix parses what follows a '.' after expr: a member, a call,
// a class literal, a qualified this or super, an inner creation or a
// template.
func (p *Parser) parseDotSuffix(expr *Node) *Node {
	p.expect(TokenDot)

	if prefix, ok := p.completionPrefix(); ok {
		return p.completeMember(expr, prefix)
	}

	switch tok := p.peek(); {
	case tok.Kind == TokenNew:
		return p.parseInnerNewExpr(expr)
	case tok.Kind == TokenStringTemplate || tok.Kind == TokenTextBlockTemplate ||
		tok.Kind == TokenStringLiteral || tok.Kind == TokenTextBlock:
		p.requireFeatureAt(FeatureStringTemplates, tok)
		node := p.startNodeAt(KindTemplateExpr, expr)
		node.AddChild(expr)
		p.advance()
		lit := leaf(KindLiteral, tok)
		lit.Constant = NewLiteral(tok, p.line(tok.Start()))
		node.AddChild(lit)
		return p.finishNode(node)
	case tok.Kind == TokenClass:
		node := p.startNodeAt(KindClassLiteral, expr)
		node.AddChild(expr)
		p.advance()
		return p.finishNode(node)
	case tok.Kind == TokenThis:
		node := p.startNodeAt(KindFieldAccess, expr)
		node.AddChild(expr)
		node.AddChild(leaf(KindThis, p.advance()))
		return p.finishNode(node)
	case tok.Kind == TokenSuper:
		node := p.startNodeAt(KindFieldAccess, expr)
		node.AddChild(expr)
		node.AddChild(leaf(KindSuper, p.advance()))
		return p.finishNode(node)
	case tok.Kind == TokenLT:
		node := p.startNodeAt(KindFieldAccess, expr)
		node.AddChild(expr)
		node.AddChild(p.parseTypeArguments())
		name := p.expectIdentifier()
		if name == nil {
			return p.finishNode(node)
		}
		node.AddChild(ident(*name))
		p.finishNode(node)
		if p.check(TokenLParen) {
			return p.parseCall(node, *name)
		}
		return node
	case isIdentifierKind(tok.Kind):
		chain := isNameChain(expr)
		node := p.startNodeAt(KindFieldAccess, expr)
		node.AddChild(expr)
		node.AddChild(ident(p.advance()))
		p.finishNode(node)
		if p.check(TokenLParen) {
			return p.parseCall(node, tok)
		}
		if p.selects(tok, tok) || p.selectsSpan(node.Span) {
			kind := KindSelectOnFieldReference
			if chain {
				kind = KindSelectOnQualifiedName
			}
			p.markSelected(node, kind)
		}
		return node
	}

	p.repair(TokenIdent)
	return expr
}

// completeMember builds the sentinel for a member being typed after
// expr. A dotted name is completed as a whole; any other receiver keeps
// its expression and only the member is replaced.
func (p *Parser) completeMember(expr *Node, prefix *Token) *Node {
	from := p.s.EOF().Span.Start
	if prefix != nil {
		from = prefix.Span.Start
		p.advance()
	}
	if isNameChain(expr) {
		return p.complete(KindCompleteOnQualifiedName, expr.Span.Start, expr.Span.Start, prefix, nameParts(expr)...)
	}
	return p.complete(KindCompleteOnMemberAccess, expr.Span.Start, from, prefix, expr)
}

// selectsSpan reports whether the selection covers exactly span.
func (p *Parser) selectsSpan(span Span) bool {
	return p.selecting() && span.Start.Offset == p.selStart && span.End.Offset == p.selEnd
}

// parseCall parses the arguments of a call to target, whose method name
// is name.
func (p *Parser) parseCall(target *Node, name Token) *Node {
	node := p.startNodeAt(KindCallExpr, target)
	node.AddChild(target)
	args, slot := p.parseArguments()
	node.AddChild(args)
	if slot {
		return p.complete(KindCompleteOnMessageSend, node.Span.Start, p.s.EOF().Span.Start, nil, target, args)
	}
	p.finishNode(node)
	if p.selects(name, name) {
		p.markSelected(node, KindSelectOnMessageSend)
	}
	return node
}

// parseArguments parses a parenthesized argument list. slot reports that
// the list ended at the caret where a new argument would start.
func (p *Parser) parseArguments() (args *Node, slot bool) {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)

	if p.completionSlot() {
		return p.finishNode(node), true
	}

	if !p.check(TokenRParen) {
		for {
			progress := p.mustProgress()
			node.AddChild(p.parseExpression())
			if p.accept(TokenComma) == nil || !progress() {
				break
			}
			if p.completionSlot() {
				return p.finishNode(node), true
			}
		}
	}

	p.expect(TokenRParen)
	return p.finishNode(node), false
}

func (p *Parser) parseMethodRef(target *Node) *Node {
	node := p.startNodeAt(KindMethodRef, target)
	node.AddChild(target)
	p.expect(TokenColonColon)

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeArguments())
	}

	if p.check(TokenNew) {
		node.AddChild(ident(p.advance()))
	} else if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(ident(*tok))
	}

	return p.finishNode(node)
}

// isGenericTypeExpr reports whether a '<' after a name starts the type
// arguments of a method reference or class literal target, as in
// List<String>::size, rather than a comparison.
func (p *Parser) isGenericTypeExpr() bool {
	return p.speculate(func() bool {
		p.skipTypeArguments()
		if p.check(TokenColonColon) {
			return true
		}
		if p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
			return true
		}
		return p.check(TokenDot) && p.peekN(1).Kind == TokenClass
	})
}

// parseTypeExprSuffix finishes a type used as an expression: array
// dimensions followed by .class or ::. It returns nil, consuming nothing,
// when base is not followed by either.
func (p *Parser) parseTypeExprSuffix(base *Node) *Node {
	mark := p.s.Mark()
	typ := base
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
		wrapper := p.startNodeAt(KindArrayType, typ)
		wrapper.AddChild(typ)
		typ = p.finishNode(wrapper)
	}

	switch {
	case p.check(TokenDot) && p.peekN(1).Kind == TokenClass:
		p.advance()
		p.advance()
		node := p.startNodeAt(KindClassLiteral, typ)
		node.AddChild(typ)
		return p.finishNode(node)
	case p.check(TokenColonColon):
		return p.parseMethodRef(typ)
	}

	p.s.Reset(mark)
	return nil
}

func (p *Parser) parsePrimaryExpr() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenTextBlock:
		p.requireFeatureAt(FeatureTextBlocks, tok)
		fallthrough
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral,
		TokenStringLiteral, TokenTrue, TokenFalse, TokenNull:
		p.advance()
		lit := leaf(KindLiteral, tok)
		lit.Constant = NewLiteral(tok, p.line(tok.Start()))
		return lit

	case TokenThis:
		return leaf(KindThis, p.advance())

	case TokenSuper:
		return leaf(KindSuper, p.advance())

	case TokenNew:
		return p.parseNewExpr()

	case TokenLParen:
		return p.parseParenExpr()

	case TokenSwitch:
		return p.parseSwitchExpr()

	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid:
		return p.parsePrimitiveTypeExpr()
	}

	if p.isIdentifierLike() {
		p.advance()
		if p.completesAt(tok) {
			return p.complete(KindCompleteOnName, tok.Span.Start, tok.Span.Start, &tok)
		}
		name := ident(tok)
		if p.check(TokenLParen) {
			return p.parseCall(name, tok)
		}
		p.selectIdentifier(name, KindSelectOnName)
		return name
	}

	if p.completionSlot() {
		caret := p.s.EOF().Span.Start
		return p.complete(KindCompleteOnName, caret, caret, nil)
	}
	return p.missingExpression()
}

// missingExpression reports an absent operand without consuming anything;
// the caller's next expectation deals with whatever token is present.
func (p *Parser) missingExpression() *Node {
	node := p.startNode(KindError)
	got := p.peek()
	node.Error = &Error{Message: "Expression expected", Got: &got}
	if !p.unwinding() {
		if last := p.lastToken(); last != nil {
			p.syntaxError(problem.ParsingErrorInsertTokenAfter, last.Start(), last.End(), last.Text(), "Expression")
		} else {
			tok := p.peek()
			p.syntaxError(problem.ParsingError, tok.Start(), tok.End(), tok.Text(), "Expression")
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseParenExpr() *Node {
	node := p.startNode(KindParenExpr)
	p.expect(TokenLParen)
	node.AddChild(p.parseExpression())
	if node.Children[0].Kind.IsCompletion() {
		return p.finishNode(node)
	}
	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseSwitchExpr() *Node {
	node := p.startNode(KindSwitchExpr)
	p.requireFeatureAt(FeatureSwitchExpressions, p.peek())
	p.expect(TokenSwitch)
	node.AddChild(p.parseCondition())
	p.parseSwitchBlock(node)
	return p.finishNode(node)
}

func (p *Parser) parseNewExpr() *Node {
	node := p.startNode(KindNewExpr)
	p.expect(TokenNew)

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeArguments())
	}

	typ := p.startNode(KindType)
	for p.check(TokenAt) {
		typ.AddChild(p.parseAnnotation())
	}

	if isPrimitive(p.peek().Kind) {
		node.Kind = KindNewArrayExpr
		typ.AddChild(ident(p.advance()))
		node.AddChild(p.finishNode(typ))
		return p.parseArrayCreationRest(node)
	}

	first := p.peek()
	name := p.parseName(allocRole)
	typ.AddChild(name)
	if name.Kind.IsCompletion() {
		node.AddChild(p.finishNode(typ))
		return p.finishNode(node)
	}
	if p.check(TokenLT) {
		typ.AddChild(p.parseTypeArguments())
	}
	node.AddChild(p.finishNode(typ))

	if p.check(TokenAt) || p.check(TokenLBracket) {
		node.Kind = KindNewArrayExpr
		return p.parseArrayCreationRest(node)
	}

	args, slot := p.parseArguments()
	node.AddChild(args)
	if slot {
		return p.complete(KindCompleteOnAllocationExpression, node.Span.Start, p.s.EOF().Span.Start, nil, typ, args)
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody(ContextClassBody))
	}
	p.finishNode(node)

	if name.Kind == KindQualifiedName && len(name.Children) > 0 {
		last := name.Children[len(name.Children)-1].Token
		if p.selects(*last, *last) || p.selects(first, *last) {
			p.markSelected(node, KindSelectOnAllocationExpression)
		}
	}
	return node
}

// parseArrayCreationRest parses the dimensions and optional initializer of
// an array creation whose element type is already in node.
func (p *Parser) parseArrayCreationRest(node *Node) *Node {
	for p.check(TokenAt) || p.check(TokenLBracket) {
		progress := p.mustProgress()
		dim := p.startNode(KindDimension)
		for p.check(TokenAt) {
			dim.AddChild(p.parseAnnotation())
		}
		if p.accept(TokenLBracket) == nil {
			break
		}
		if !p.check(TokenRBracket) {
			dim.AddChild(p.parseExpression())
		}
		p.expect(TokenRBracket)
		node.AddChild(p.finishNode(dim))
		if !progress() {
			break
		}
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseArrayInitializer())
	}

	return p.finishNode(node)
}

// parseInnerNewExpr parses outer.new Inner(...).
func (p *Parser) parseInnerNewExpr(outer *Node) *Node {
	node := p.startNodeAt(KindNewExpr, outer)
	node.AddChild(outer)
	p.expect(TokenNew)

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeArguments())
	}

	typ := p.startNode(KindType)
	for p.check(TokenAt) {
		typ.AddChild(p.parseAnnotation())
	}
	if tok := p.expectIdentifier(); tok != nil {
		typ.AddChild(ident(*tok))
	}
	if p.check(TokenLT) {
		typ.AddChild(p.parseTypeArguments())
	}
	node.AddChild(p.finishNode(typ))

	args, slot := p.parseArguments()
	node.AddChild(args)
	if slot {
		return p.complete(KindCompleteOnAllocationExpression, node.Span.Start, p.s.EOF().Span.Start, nil, typ, args)
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody(ContextClassBody))
	}

	return p.finishNode(node)
}

// parsePrimitiveTypeExpr parses int.class, int[].class and int[]::new.
func (p *Parser) parsePrimitiveTypeExpr() *Node {
	typ := leaf(KindType, p.advance())
	if expr := p.parseTypeExprSuffix(typ); expr != nil {
		return expr
	}

	node := p.startNodeAt(KindClassLiteral, typ)
	node.AddChild(typ)
	p.expect(TokenDot)
	p.expect(TokenClass)
	return p.finishNode(node)
}
