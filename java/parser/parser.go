package parser

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dhamidi/javaparse/java/problem"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

func WithPositions() Option {
	return func(p *Parser) {
		p.includePositions = true
	}
}

// WithOptions sets the compiler options. Without it DefaultOptions apply.
func WithOptions(opts Options) Option {
	return func(p *Parser) {
		p.opts = opts
	}
}

// WithDiet skips method, constructor and initializer bodies. They are kept
// as Unparsed blocks and can be parsed later with ParseBodies.
func WithDiet() Option {
	return func(p *Parser) {
		p.diet = true
	}
}

// WithReporter forwards every problem to r as it is detected, in addition
// to collecting it.
func WithReporter(r problem.Reporter) Option {
	return func(p *Parser) {
		p.reporter = r
	}
}

type parseFunc func(*Parser) *Node

type assistMode int

const (
	modeNone assistMode = iota
	modeCompletion
	modeSelection
)

// Parser holds the state of one parse of one unit. It is not safe for
// concurrent use.
type Parser struct {
	file             string
	opts             Options
	includeComments  bool
	includePositions bool
	diet             bool
	reader           io.Reader
	input            []byte
	s                *TokenStream
	entry            parseFunc
	root             *Node
	incomplete       bool

	problems  problem.Collector
	reporter  problem.Reporter
	lastError errorKey

	contexts []Context
	unwindTo int
	quiet    int

	mode     assistMode
	caret    int
	selStart int
	selEnd   int
	assist   *Node
}

func newParser(r io.Reader, entry parseFunc, opts []Option) *Parser {
	p := &Parser{
		opts:      DefaultOptions(),
		reader:    r,
		entry:     entry,
		unwindTo:  -1,
		lastError: noError,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseCompilationUnit, opts)
}

func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseStandaloneExpression, opts)
}

// ParseCompletion prepares a completion parse: the source is cut at caret
// and the construct being typed there becomes a CompleteOn sentinel.
func ParseCompletion(src []byte, caret int, opts ...Option) *Parser {
	p := ParseCompilationUnit(bytes.NewReader(src), opts...)
	p.mode = modeCompletion
	p.caret = caret
	return p
}

// ParseSelection prepares a selection parse over [start, end], end
// inclusive. The construct whose tokens span exactly that range becomes a
// SelectOn sentinel.
func ParseSelection(src []byte, start, end int, opts ...Option) *Parser {
	p := ParseCompilationUnit(bytes.NewReader(src), opts...)
	p.mode = modeSelection
	p.selStart = start
	p.selEnd = end + 1
	return p
}

func (p *Parser) IncludesPositions() bool {
	return p.includePositions
}

func (p *Parser) Comments() []Token {
	if p.s == nil || !p.includeComments {
		return nil
	}
	return p.s.Comments()
}

// Problems returns the diagnostics of the last parse ordered by source
// position. Problems starting at the same offset keep detection order, so
// a misplaced directive precedes its misplaced annotation. A reporter set
// with WithReporter sees them as they are detected.
func (p *Parser) Problems() []*problem.Problem {
	problems := slices.Clone(p.problems.Problems())
	slices.SortStableFunc(problems, func(a, b *problem.Problem) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return problems
}

// Source returns the text that was parsed. For a completion parse this is
// the source cut at the caret.
func (p *Parser) Source() []byte {
	return p.input
}

// Stream exposes the token stream of the last parse.
func (p *Parser) Stream() *TokenStream {
	return p.s
}

// Options returns the compiler options in effect.
func (p *Parser) Options() Options {
	return p.opts
}

// AssistNode returns the sentinel produced by a completion or selection
// parse, or nil when the cursor did not hit a recognised construct.
func (p *Parser) AssistNode() *Node {
	return p.assist
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	p.input = data
	return nil
}

// IsComplete reports whether the input parses without running out of
// tokens. For example, "1 + " is incomplete while "1 + 2" is complete.
func (p *Parser) IsComplete() bool {
	if err := p.readAll(); err != nil || len(bytes.TrimSpace(p.input)) == 0 {
		return false
	}
	trial := newParser(bytes.NewReader(p.input), p.entry, nil)
	trial.opts = p.opts
	trial.file = p.file
	trial.run()
	return !trial.incomplete
}

// Finish parses the input and returns the root node. Malformed input still
// yields a best-effort tree; what went wrong is available from Problems.
// It returns nil only when the input cannot be read.
func (p *Parser) Finish() *Node {
	if err := p.readAll(); err != nil {
		p.report(problem.InternalError, problem.Error, 0, 0, err.Error())
		return nil
	}
	if p.mode == modeCompletion {
		if p.caret < 0 || p.caret > len(p.input) || caretInsideToken(p.input, p.caret) {
			p.mode = modeNone
		} else {
			p.input = p.input[:p.caret]
		}
	}
	return p.run()
}

func (p *Parser) run() (result *Node) {
	p.s = NewTokenStream(NewLexer(p.input, p.file))
	p.problems = problem.Collector{}
	p.contexts = nil
	p.unwindTo = -1
	p.lastError = noError
	p.incomplete = false
	p.assist = nil
	p.root = nil

	defer func() {
		if r := recover(); r != nil {
			p.report(problem.InternalError, problem.Error, 0, 0, fmt.Sprint(r))
			result = p.root
		}
	}()

	p.reportLexical()
	root := p.entry(p)
	p.coverAssist(root)
	return root
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.s = nil
	p.root = nil
	p.incomplete = false
	p.problems = problem.Collector{}
	p.assist = nil
}

// caretInsideToken reports whether offset falls inside a comment or a
// string, char or text block literal, where completion does not apply.
func caretInsideToken(src []byte, offset int) bool {
	lx := NewLexer(src, "")
	for {
		tok := lx.NextToken()
		if tok.Kind == TokenEOF || tok.Start() >= offset {
			return false
		}
		switch tok.Kind {
		case TokenLineComment:
			if offset <= tok.End() {
				return true
			}
		case TokenComment, TokenStringLiteral, TokenCharLiteral, TokenTextBlock,
			TokenStringTemplate, TokenTextBlockTemplate:
			if offset < tok.End() || tok.Unterminated() && offset == tok.End() {
				return true
			}
		}
	}
}

func (p *Parser) reportLexical() {
	for _, tok := range p.s.Lexical() {
		switch {
		case tok.Kind == TokenError:
			p.report(problem.InvalidCharacter, problem.Error, tok.Start(), tok.End(), tok.Literal)
		case tok.Kind == TokenComment:
			p.report(problem.UnterminatedComment, problem.Error, tok.Start(), tok.End())
		case tok.Kind == TokenCharLiteral:
			p.report(problem.InvalidCharacterConstant, problem.Error, tok.Start(), tok.End())
		case tok.Kind == TokenTextBlock || tok.Kind == TokenTextBlockTemplate:
			p.report(problem.UnterminatedTextBlock, problem.Error, tok.Start(), tok.End())
		default:
			p.report(problem.UnterminatedString, problem.Error, tok.Start(), tok.End())
		}
	}
}

func (p *Parser) peek() Token {
	return p.s.Peek(0)
}

func (p *Parser) peekN(n int) Token {
	return p.s.Peek(n)
}

func (p *Parser) advance() Token {
	return p.s.Advance()
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// accept consumes the current token if it has the given kind.
func (p *Parser) accept(kind TokenKind) *Token {
	if tok := p.peek(); tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

// expect consumes a token of the given kind, repairing the input when it
// is missing. It returns nil when the token was virtually inserted.
func (p *Parser) expect(kind TokenKind) *Token {
	if tok := p.accept(kind); tok != nil {
		return tok
	}
	return p.repair(kind)
}

func (p *Parser) expectIdentifier() *Token {
	if p.isIdentifierLike() {
		tok := p.advance()
		return &tok
	}
	return p.repair(TokenIdent)
}

func (p *Parser) isIdentifierLike() bool {
	return isIdentifierKind(p.peek().Kind)
}

func isIdentifierKind(kind TokenKind) bool {
	return kind == TokenIdent || kind.IsRestricted()
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made. A stuck loop discards the
// current token.
func (p *Parser) mustProgress() func() bool {
	saved := p.s.Index()
	return func() bool {
		if p.s.Index() != saved {
			return true
		}
		if !p.check(TokenEOF) && !p.unwinding() {
			tok := p.peek()
			p.syntaxError(problem.ParsingErrorDeleteToken, tok.Start(), tok.End(), tok.Text())
			p.advance()
		}
		return false
	}
}

// speculate runs fn without reporting anything and rewinds the stream.
func (p *Parser) speculate(fn func() bool) bool {
	mark := p.s.Mark()
	p.quiet++
	defer func() {
		p.quiet--
		p.s.Reset(mark)
	}()
	return fn()
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

// startNodeAt starts a node whose source begins with first, for
// constructs recognised after their first part was parsed.
func (p *Parser) startNodeAt(kind NodeKind, first *Node) *Node {
	if first == nil {
		return p.startNode(kind)
	}
	return &Node{Kind: kind, Span: Span{Start: first.Span.Start}}
}

func (p *Parser) finishNode(n *Node) *Node {
	if prev, ok := p.s.Previous(); ok {
		n.Span.End = prev.Span.End
	}
	if n.Span.End.Offset < n.Span.Start.Offset {
		n.Span.End = n.Span.Start
	}
	return n
}

func leaf(kind NodeKind, tok Token) *Node {
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

func ident(tok Token) *Node {
	return leaf(KindIdentifier, tok)
}

func declarator(tok Token) *Node {
	n := ident(tok)
	n.declarator = true
	return n
}

// report records a problem unless the parser is speculating.
func (p *Parser) report(id problem.ID, severity problem.Severity, start, end int, args ...string) {
	if p.quiet > 0 {
		return
	}
	line := 1
	if p.s != nil {
		line = p.s.LineOf(start)
	}
	pr := problem.New(id, severity, p.unitName(), start, end, line, args...)
	p.problems.Report(pr)
	if p.reporter != nil {
		p.reporter.Report(pr)
	}
}

// errorKey identifies the token a syntax error was detected at and the
// offset it is reported at.
type errorKey struct {
	index int
	start int
}

var noError = errorKey{index: -1, start: -1}

// syntaxError reports at most one syntax error per token position. In a
// completion parse nothing is reported at the cut: the missing text is the
// user's to type.
func (p *Parser) syntaxError(id problem.ID, start, end int, args ...string) {
	if p.quiet > 0 {
		return
	}
	if p.check(TokenEOF) {
		p.incomplete = true
		if p.mode == modeCompletion {
			return
		}
	}
	key := errorKey{index: p.s.Index(), start: start}
	if key == p.lastError {
		return
	}
	p.lastError = key
	p.report(id, problem.Error, start, end, args...)
}

func (p *Parser) unitName() string {
	if p.file == "" {
		return "Unit"
	}
	if i := strings.LastIndexAny(p.file, `/\`); i >= 0 {
		return p.file[i+1:]
	}
	return p.file
}

// requireFeature reports a use of f the configured source level does not
// allow. The construct is parsed regardless.
func (p *Parser) requireFeature(f Feature, start, end int) {
	verdict, level := p.opts.check(f)
	switch verdict {
	case featureTooOld:
		p.report(problem.FeatureNotSupported, problem.Error, start, end, f.String(), level.String())
	case featurePreviewDisabled:
		p.report(problem.PreviewFeatureDisabled, problem.Error, start, end, f.String())
	case featurePreviewUsed:
		p.report(problem.PreviewFeatureUsed, problem.Warning, start, end)
	}
}

func (p *Parser) requireFeatureAt(f Feature, tok Token) {
	p.requireFeature(f, tok.Start(), tok.End())
}

func (p *Parser) line(offset int) int {
	return p.s.LineOf(offset)
}

func (p *Parser) parseStandaloneExpression() *Node {
	p.pushContext(ContextStatement, p.peek())
	expr := p.parseExpression()
	p.root = expr
	if !p.check(TokenEOF) {
		tok := p.peek()
		p.syntaxError(problem.ParsingErrorDeleteTokens, tok.Start(), p.s.EOF().Start())
	}
	return expr
}
