package parser

import "github.com/dhamidi/javaparse/java/problem"

// ContextKind names a syntactic region the parser is inside of. The names
// appear in "insert ... to complete X" diagnostics.
type ContextKind int

const (
	ContextCompilationUnit ContextKind = iota
	ContextClassBody
	ContextEnumBody
	ContextMethodBody
	ContextConstructorBody
	ContextBlock
	ContextStatement
	ContextSwitchBlock
	ContextModuleBody
	ContextArrayInitializer
)

var contextNames = [...]string{
	"CompilationUnit",
	"ClassBody",
	"EnumBody",
	"MethodBody",
	"ConstructorBody",
	"Block",
	"Statement",
	"SwitchBlock",
	"ModuleBody",
	"ArrayInitializer",
}

func (k ContextKind) String() string {
	if int(k) < len(contextNames) {
		return contextNames[k]
	}
	return "Unknown"
}

// isTypeBody reports whether members may be declared directly in k.
func (k ContextKind) isTypeBody() bool {
	return k == ContextClassBody || k == ContextEnumBody
}

// Context is one entry of the recovery stack. Open is the token that
// started it, usually its opening brace.
type Context struct {
	Kind ContextKind
	Open Token
}

type recoveryAction int

const (
	actionInsert recoveryAction = iota
	actionDelete
	actionResync
	actionSkip
)

// plan is the outcome of planning a repair: what to report, where, and how
// the parser state changes.
type plan struct {
	action recoveryAction
	id     problem.ID
	args   []string
	start  int
	end    int
	// keep is the context depth to unwind to for actionResync.
	keep int
	// skip is the number of tokens to discard for actionSkip.
	skip int
}

// planRecovery decides how to continue when want was expected at the head
// of lookahead. last is the most recently consumed token, if any. want is
// TokenEOF when no particular token is expected and the parser is resyncing
// to a member boundary. It reads nothing but its arguments.
func planRecovery(stack []Context, lookahead []Token, last *Token, want TokenKind) plan {
	cur := lookahead[0]
	if want == TokenEOF {
		return planResync(stack, cur)
	}
	if len(lookahead) > 1 && lookahead[1].Kind == want &&
		cur.Kind != TokenRBrace && cur.Kind != TokenEOF {
		return plan{
			action: actionDelete,
			id:     problem.ParsingErrorDeleteToken,
			args:   []string{cur.Text()},
			start:  cur.Start(),
			end:    cur.End(),
		}
	}
	if cur.Kind == TokenEOF && len(stack) > 0 {
		inner := stack[len(stack)-1]
		anchor := cur
		if last != nil {
			anchor = *last
		}
		if want == TokenRBrace {
			anchor = inner.Open
		}
		return plan{
			action: actionInsert,
			id:     problem.ParsingErrorInsertToComplete,
			args:   []string{want.String(), inner.Kind.String()},
			start:  anchor.Start(),
			end:    anchor.End(),
		}
	}
	if last == nil {
		return plan{
			action: actionInsert,
			id:     problem.ParsingError,
			args:   []string{cur.Text(), want.String()},
			start:  cur.Start(),
			end:    cur.End(),
		}
	}
	return plan{
		action: actionInsert,
		id:     problem.ParsingErrorInsertTokenAfter,
		args:   []string{last.Text(), want.String()},
		start:  last.Start(),
		end:    last.End(),
	}
}

// planResync unwinds to the innermost type body so a member header found
// inside a statement context is parsed as a member. The diagnostic is
// anchored at the opening token of the innermost unclosed context.
func planResync(stack []Context, cur Token) plan {
	keep := -1
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Kind.isTypeBody() {
			keep = i + 1
			break
		}
	}
	if keep < 0 || keep == len(stack) {
		return plan{
			action: actionDelete,
			id:     problem.ParsingErrorDeleteToken,
			args:   []string{cur.Text()},
			start:  cur.Start(),
			end:    cur.End(),
		}
	}
	inner := stack[len(stack)-1]
	return plan{
		action: actionResync,
		id:     problem.ParsingErrorInsertToComplete,
		args:   []string{"}", inner.Kind.String()},
		start:  inner.Open.Start(),
		end:    inner.Open.End(),
		keep:   keep,
	}
}

// planSkip discards tokens in a type or module body until stop accepts
// one. A terminating semicolon is discarded with the run.
func planSkip(tokens []Token, stop func(TokenKind) bool) plan {
	n := 0
	for n < len(tokens) && !stop(tokens[n].Kind) {
		n++
		if tokens[n-1].Kind == TokenSemicolon {
			break
		}
	}
	if n == 0 {
		return plan{action: actionSkip}
	}
	first, last := tokens[0], tokens[n-1]
	if n == 1 {
		return plan{
			action: actionSkip,
			id:     problem.ParsingErrorDeleteToken,
			args:   []string{first.Text()},
			start:  first.Start(),
			end:    first.End(),
			skip:   1,
		}
	}
	return plan{
		action: actionSkip,
		id:     problem.ParsingErrorMisplacedConstruct,
		start:  first.Start(),
		end:    last.End(),
		skip:   n,
	}
}

func (p *Parser) pushContext(kind ContextKind, open Token) int {
	p.contexts = append(p.contexts, Context{Kind: kind, Open: open})
	return len(p.contexts) - 1
}

// closeContext pops the stack down to mark. Once the stack is no deeper
// than the resync target, unwinding is over.
func (p *Parser) closeContext(mark int) {
	if mark < len(p.contexts) {
		p.contexts = p.contexts[:mark]
	}
	if p.unwindTo >= 0 && len(p.contexts) <= p.unwindTo {
		p.unwindTo = -1
	}
}

// unwinding reports whether the parser is abandoning statement contexts to
// reach an enclosing type body.
func (p *Parser) unwinding() bool {
	return p.unwindTo >= 0 && len(p.contexts) > p.unwindTo
}

// Contexts returns a copy of the current recovery stack.
func (p *Parser) Contexts() []Context {
	return append([]Context(nil), p.contexts...)
}

func (p *Parser) lookahead() []Token {
	return []Token{p.peek(), p.peekN(1)}
}

func (p *Parser) lastToken() *Token {
	if tok, ok := p.s.Previous(); ok {
		return &tok
	}
	return nil
}

// repair handles a missing token. Deletion consumes the stray token and
// the expected one; insertion pretends the token was present.
func (p *Parser) repair(want TokenKind) *Token {
	if p.unwinding() {
		return nil
	}
	pl := planRecovery(p.contexts, p.lookahead(), p.lastToken(), want)
	p.syntaxError(pl.id, pl.start, pl.end, pl.args...)
	if pl.action == actionDelete {
		p.advance()
		tok := p.advance()
		return &tok
	}
	return nil
}

// resync starts unwinding to the enclosing type body when a member header
// shows up where a statement was expected. It reports whether it did.
func (p *Parser) resync() bool {
	if p.quiet > 0 || p.unwinding() {
		return p.unwinding()
	}
	pl := planRecovery(p.contexts, p.lookahead(), p.lastToken(), TokenEOF)
	if pl.action != actionResync {
		return false
	}
	p.syntaxError(pl.id, pl.start, pl.end, pl.args...)
	p.unwindTo = pl.keep
	return true
}

// skipJunk discards tokens that cannot start a member or directive.
func (p *Parser) skipJunk(stop func(TokenKind) bool) bool {
	tokens := p.s.Tokens()[p.s.Index():]
	pl := planSkip(tokens, stop)
	if pl.skip == 0 {
		return false
	}
	p.syntaxError(pl.id, pl.start, pl.end, pl.args...)
	for i := 0; i < pl.skip; i++ {
		p.advance()
	}
	return true
}

// looksLikeMemberHeader reports whether the upcoming tokens can only start
// a member declaration, not a statement.
func (p *Parser) looksLikeMemberHeader() bool {
	if len(p.contexts) < 2 {
		return false
	}
	switch p.peek().Kind {
	case TokenPublic, TokenPrivate, TokenProtected, TokenStatic, TokenAbstract,
		TokenNative, TokenTransient, TokenVolatile, TokenStrictfp, TokenVoid:
		return true
	}
	if !p.isIdentifierLike() && !isPrimitive(p.peek().Kind) {
		return false
	}
	return p.speculate(func() bool {
		p.parseType()
		if !p.isIdentifierLike() {
			return false
		}
		p.advance()
		return p.check(TokenLParen)
	})
}

func isMemberStart(kind TokenKind) bool {
	switch kind {
	case TokenRBrace, TokenEOF, TokenAt, TokenLBrace, TokenLT, TokenSemicolon,
		TokenPublic, TokenPrivate, TokenProtected, TokenStatic, TokenFinal,
		TokenAbstract, TokenNative, TokenSynchronized, TokenTransient,
		TokenVolatile, TokenStrictfp, TokenDefault, TokenSealed, TokenNonSealed,
		TokenClass, TokenInterface, TokenEnum, TokenRecord, TokenVoid:
		return true
	}
	return isPrimitive(kind) || isIdentifierKind(kind)
}

func isDirectiveStart(kind TokenKind) bool {
	switch kind {
	case TokenRBrace, TokenEOF, TokenAt, TokenRequires, TokenExports,
		TokenOpens, TokenUses, TokenProvides:
		return true
	}
	return false
}
