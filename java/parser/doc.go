// Package parser is an error-tolerant parser for Java source code.
//
// # Overview
//
// A parse reads the whole unit, tokenizes it and builds a syntax tree of
// Nodes. Malformed input never stops a parse: the parser repairs what it
// can, records a problem for every repair and returns the best tree it
// could build.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│ TokenStream │
//	│  (bytes)    │     │  (tokens)   │     │ (lookahead) │
//	└─────────────┘     └─────────────┘     └──────┬──────┘
//	                                               │
//	                    ┌─────────────┐     ┌──────▼──────┐
//	                    │  Recovery   │◀───▶│   Grammar   │
//	                    │  contexts   │     │   (Nodes)   │
//	                    └─────────────┘     └──────┬──────┘
//	                                               │
//	                                        ┌──────▼──────┐
//	                                        │  Problems   │
//	                                        └─────────────┘
//
// # Entry Points
//
//	// ParseCompilationUnit parses an ordinary or modular compilation unit.
//	func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser
//
//	// ParseExpression parses a standalone expression.
//	func ParseExpression(r io.Reader, opts ...Option) *Parser
//
//	// ParseCompletion parses src cut at caret and marks the construct
//	// being typed there with a CompleteOn node.
//	func ParseCompletion(src []byte, caret int, opts ...Option) *Parser
//
//	// ParseSelection parses src and marks the construct spanning exactly
//	// [start, end] with a SelectOn node.
//	func ParseSelection(src []byte, start, end int, opts ...Option) *Parser
//
// Each returns a Parser; Finish runs the parse and returns the root.
// Problems, AssistNode and Comments report on the last run.
//
// # Diet Parsing
//
// WithDiet skips method, constructor and initializer bodies by brace
// matching. A skipped body is a Block with Unparsed set; ParseBodies and
// ParseMethodBody parse skipped bodies later, on the same Parser.
//
// # Error Recovery
//
// The parser keeps a stack of open contexts (class body, method body,
// block, switch block and so on). When a token is missing it either
// deletes a stray token, when the expected one follows it, or pretends the
// missing token was there. When a member declaration appears inside an
// unterminated body, the statement contexts are abandoned and the member
// is parsed as part of the enclosing type. Junk inside type and module
// bodies is skipped up to the next member or directive.
//
// At most one syntax error is reported per token. Problems carry the
// messages of the Eclipse compiler, for example
//
//	Syntax error, insert "}" to complete ClassBody
//
// # Literals
//
// Literal nodes carry a Constant. Chains of string literals joined by +
// are folded into one literal when Options.FoldLiterals is set, and into
// a Concatenation otherwise.
//
// # Language Levels
//
// Options selects the source level. Constructs newer than the level are
// parsed anyway and reported; preview features need EnablePreview.
//
// # Thread Safety
//
// A Parser instance is not safe for concurrent use. Create separate
// instances for concurrent parsing of different files.
//
// # Example Usage
//
//	p := parser.ParseCompilationUnit(strings.NewReader(src), parser.WithFile("Main.java"))
//	unit := p.Finish()
//	for _, pr := range p.Problems() {
//		fmt.Println(pr)
//	}
//
//	c := parser.ParseCompletion([]byte("class A { void f() { new X("), 27)
//	c.Finish()
//	fmt.Println(c.AssistNode().Kind) // CompleteOnAllocationExpression
package parser
