package parser

import (
	"fmt"

	"github.com/dhamidi/javaparse/java/problem"
)

// skipBody consumes a brace-balanced body without parsing it. The result
// is an Unparsed block covering the body's source range.
func (p *Parser) skipBody(ctx ContextKind) *Node {
	node := p.startNode(KindBlock)
	node.Unparsed = true
	open := p.advance()

	depth := 1
	for depth > 0 && !p.check(TokenEOF) {
		switch p.advance().Kind {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth--
		}
	}
	if depth > 0 {
		p.syntaxError(problem.ParsingErrorInsertToComplete, open.Start(), open.End(), "}", ctx.String())
	}

	return p.finishNode(node)
}

// bodyContext returns how the body of decl is parsed.
func bodyContext(decl *Node) (ctx ContextKind, constructor bool) {
	switch decl.Kind {
	case KindMethodDecl:
		return ContextMethodBody, false
	case KindConstructorDecl:
		return ContextConstructorBody, true
	case KindCompactConstructorDecl:
		return ContextConstructorBody, false
	}
	return ContextBlock, false
}

// ParseBodies parses, in place, every body of unit that a diet parse
// skipped. Problems found are appended to Problems.
func (p *Parser) ParseBodies(unit *Node) {
	if unit == nil || p.s == nil {
		return
	}
	unit.Walk(func(n *Node) bool {
		for i, child := range n.Children {
			if child.Kind == KindBlock && child.Unparsed {
				n.Children[i] = p.parseSkipped(n, child)
			}
		}
		return true
	})
}

// ParseMethodBody parses the skipped body of a single method,
// constructor or initializer and returns it. A body that was parsed
// already is returned as is; nil means decl has no body.
func (p *Parser) ParseMethodBody(decl *Node) *Node {
	if decl == nil {
		return nil
	}
	body := decl.FirstChildOfKind(KindBlock)
	if body == nil || !body.Unparsed || p.s == nil {
		return body
	}
	parsed := p.parseSkipped(decl, body)
	decl.ReplaceChild(body, parsed)
	return parsed
}

// parseSkipped reparses the tokens of body as if the parser had just
// entered the type body declaring decl.
func (p *Parser) parseSkipped(decl, body *Node) (result *Node) {
	savedDiet, savedContexts, savedUnwind := p.diet, p.contexts, p.unwindTo
	defer func() {
		p.diet, p.contexts, p.unwindTo = savedDiet, savedContexts, savedUnwind
		if r := recover(); r != nil {
			p.report(problem.InternalError, problem.Error, body.Span.Start.Offset, body.Span.End.Offset, fmt.Sprint(r))
			result = body
		}
	}()

	p.diet = false
	p.unwindTo = -1
	p.s.Seek(body.Span.Start.Offset)
	p.contexts = []Context{
		{Kind: ContextCompilationUnit},
		{Kind: ContextClassBody, Open: p.peek()},
	}

	ctx, constructor := bodyContext(decl)
	return p.parseBlockIn(ctx, constructor)
}
