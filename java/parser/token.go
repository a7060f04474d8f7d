package parser

// Position is a point in the source. Offset is a byte offset; Line and
// Column are 1-based.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

// Span is the half-open range [Start, End).
type Span struct {
	Start Position
	End   Position
}

// Contains reports whether offset lies in [Start, End).
func (s Span) Contains(offset int) bool {
	return s.Start.Offset <= offset && offset < s.End.Offset
}

// Encloses reports whether o lies entirely within s.
func (s Span) Encloses(o Span) bool {
	return s.Start.Offset <= o.Start.Offset && o.End.Offset <= s.End.Offset
}

// Len is the width of the span in bytes.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock
	TokenStringTemplate
	TokenTextBlockTemplate
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenAbstract
	TokenAssert
	TokenBoolean
	TokenBreak
	TokenByte
	TokenCase
	TokenCatch
	TokenChar
	TokenClass
	TokenConst
	TokenContinue
	TokenDefault
	TokenDo
	TokenDouble
	TokenElse
	TokenEnum
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFloat
	TokenFor
	TokenGoto
	TokenIf
	TokenImplements
	TokenImport
	TokenInstanceof
	TokenInt
	TokenInterface
	TokenLong
	TokenNative
	TokenNew
	TokenPackage
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReturn
	TokenShort
	TokenStatic
	TokenStrictfp
	TokenSuper
	TokenSwitch
	TokenSynchronized
	TokenThis
	TokenThrow
	TokenThrows
	TokenTransient
	TokenTry
	TokenVoid
	TokenVolatile
	TokenWhile

	// Contextual keywords
	TokenVar
	TokenYield
	TokenRecord
	TokenSealed
	TokenNonSealed
	TokenPermits
	TokenWhen
	TokenModule
	TokenOpen
	TokenRequires
	TokenExports
	TokenOpens
	TokenUses
	TokenProvides
	TokenTo
	TokenWith
	TokenTransitive

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt
	TokenColonColon

	TokenAssign
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenUShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenIncrement
	TokenDecrement
	TokenQuestion
	TokenColon
	TokenArrow
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenUShrAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:               "EOF",
	TokenError:             "Error",
	TokenWhitespace:        "Whitespace",
	TokenComment:           "Comment",
	TokenLineComment:       "LineComment",
	TokenIdent:             "Identifier",
	TokenIntLiteral:        "IntLiteral",
	TokenFloatLiteral:      "FloatLiteral",
	TokenCharLiteral:       "CharLiteral",
	TokenStringLiteral:     "StringLiteral",
	TokenTextBlock:         "TextBlock",
	TokenStringTemplate:    "StringTemplate",
	TokenTextBlockTemplate: "TextBlockTemplate",
	TokenTrue:              "true",
	TokenFalse:             "false",
	TokenNull:              "null",
	TokenAbstract:          "abstract",
	TokenAssert:            "assert",
	TokenBoolean:           "boolean",
	TokenBreak:             "break",
	TokenByte:              "byte",
	TokenCase:              "case",
	TokenCatch:             "catch",
	TokenChar:              "char",
	TokenClass:             "class",
	TokenConst:             "const",
	TokenContinue:          "continue",
	TokenDefault:           "default",
	TokenDo:                "do",
	TokenDouble:            "double",
	TokenElse:              "else",
	TokenEnum:              "enum",
	TokenExtends:           "extends",
	TokenFinal:             "final",
	TokenFinally:           "finally",
	TokenFloat:             "float",
	TokenFor:               "for",
	TokenGoto:              "goto",
	TokenIf:                "if",
	TokenImplements:        "implements",
	TokenImport:            "import",
	TokenInstanceof:        "instanceof",
	TokenInt:               "int",
	TokenInterface:         "interface",
	TokenLong:              "long",
	TokenNative:            "native",
	TokenNew:               "new",
	TokenPackage:           "package",
	TokenPrivate:           "private",
	TokenProtected:         "protected",
	TokenPublic:            "public",
	TokenReturn:            "return",
	TokenShort:             "short",
	TokenStatic:            "static",
	TokenStrictfp:          "strictfp",
	TokenSuper:             "super",
	TokenSwitch:            "switch",
	TokenSynchronized:      "synchronized",
	TokenThis:              "this",
	TokenThrow:             "throw",
	TokenThrows:            "throws",
	TokenTransient:         "transient",
	TokenTry:               "try",
	TokenVoid:              "void",
	TokenVolatile:          "volatile",
	TokenWhile:             "while",
	TokenVar:               "var",
	TokenYield:             "yield",
	TokenRecord:            "record",
	TokenSealed:            "sealed",
	TokenNonSealed:         "non-sealed",
	TokenPermits:           "permits",
	TokenWhen:              "when",
	TokenModule:            "module",
	TokenOpen:              "open",
	TokenRequires:          "requires",
	TokenExports:           "exports",
	TokenOpens:             "opens",
	TokenUses:              "uses",
	TokenProvides:          "provides",
	TokenTo:                "to",
	TokenWith:              "with",
	TokenTransitive:        "transitive",
	TokenLParen:            "(",
	TokenRParen:            ")",
	TokenLBrace:            "{",
	TokenRBrace:            "}",
	TokenLBracket:          "[",
	TokenRBracket:          "]",
	TokenSemicolon:         ";",
	TokenComma:             ",",
	TokenDot:               ".",
	TokenEllipsis:          "...",
	TokenAt:                "@",
	TokenColonColon:        "::",
	TokenAssign:            "=",
	TokenEQ:                "==",
	TokenNE:                "!=",
	TokenLT:                "<",
	TokenLE:                "<=",
	TokenGT:                ">",
	TokenGE:                ">=",
	TokenAnd:               "&&",
	TokenOr:                "||",
	TokenNot:               "!",
	TokenBitAnd:            "&",
	TokenBitOr:             "|",
	TokenBitXor:            "^",
	TokenBitNot:            "~",
	TokenShl:               "<<",
	TokenShr:               ">>",
	TokenUShr:              ">>>",
	TokenPlus:              "+",
	TokenMinus:             "-",
	TokenStar:              "*",
	TokenSlash:             "/",
	TokenPercent:           "%",
	TokenIncrement:         "++",
	TokenDecrement:         "--",
	TokenQuestion:          "?",
	TokenColon:             ":",
	TokenArrow:             "->",
	TokenPlusAssign:        "+=",
	TokenMinusAssign:       "-=",
	TokenStarAssign:        "*=",
	TokenSlashAssign:       "/=",
	TokenPercentAssign:     "%=",
	TokenAndAssign:         "&=",
	TokenOrAssign:          "|=",
	TokenXorAssign:         "^=",
	TokenShlAssign:         "<<=",
	TokenShrAssign:         ">>=",
	TokenUShrAssign:        ">>>=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// TokenFlags carry lexical anomalies detected while scanning a token.
type TokenFlags uint8

const (
	// FlagUnterminated marks string, char, text block and comment tokens
	// that reach the end of the line or input without their delimiter.
	FlagUnterminated TokenFlags = 1 << iota
)

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
	Flags   TokenFlags
}

func (t Token) Start() int { return t.Span.Start.Offset }
func (t Token) End() int   { return t.Span.End.Offset }

// Unterminated reports whether the lexer ran out of input inside the token.
func (t Token) Unterminated() bool { return t.Flags&FlagUnterminated != 0 }

// Text is the token's source text, or its canonical spelling for tokens
// that carry no literal (EOF).
func (t Token) Text() string {
	if t.Literal != "" {
		return t.Literal
	}
	return t.Kind.String()
}

// IsRestricted reports whether k is a contextual keyword that remains
// usable as an identifier outside the construct that reserves it.
func (k TokenKind) IsRestricted() bool {
	return k >= TokenVar && k <= TokenTransitive
}

// IsModuleKeyword reports whether k is only reserved inside module-info.
func (k TokenKind) IsModuleKeyword() bool {
	return k >= TokenModule && k <= TokenTransitive
}

var keywords = map[string]TokenKind{
	"abstract":     TokenAbstract,
	"assert":       TokenAssert,
	"boolean":      TokenBoolean,
	"break":        TokenBreak,
	"byte":         TokenByte,
	"case":         TokenCase,
	"catch":        TokenCatch,
	"char":         TokenChar,
	"class":        TokenClass,
	"const":        TokenConst,
	"continue":     TokenContinue,
	"default":      TokenDefault,
	"do":           TokenDo,
	"double":       TokenDouble,
	"else":         TokenElse,
	"enum":         TokenEnum,
	"extends":      TokenExtends,
	"final":        TokenFinal,
	"finally":      TokenFinally,
	"float":        TokenFloat,
	"for":          TokenFor,
	"goto":         TokenGoto,
	"if":           TokenIf,
	"implements":   TokenImplements,
	"import":       TokenImport,
	"instanceof":   TokenInstanceof,
	"int":          TokenInt,
	"interface":    TokenInterface,
	"long":         TokenLong,
	"native":       TokenNative,
	"new":          TokenNew,
	"package":      TokenPackage,
	"private":      TokenPrivate,
	"protected":    TokenProtected,
	"public":       TokenPublic,
	"return":       TokenReturn,
	"short":        TokenShort,
	"static":       TokenStatic,
	"strictfp":     TokenStrictfp,
	"super":        TokenSuper,
	"switch":       TokenSwitch,
	"synchronized": TokenSynchronized,
	"this":         TokenThis,
	"throw":        TokenThrow,
	"throws":       TokenThrows,
	"transient":    TokenTransient,
	"try":          TokenTry,
	"void":         TokenVoid,
	"volatile":     TokenVolatile,
	"while":        TokenWhile,
	"true":         TokenTrue,
	"false":        TokenFalse,
	"null":         TokenNull,
	"var":          TokenVar,
	"yield":        TokenYield,
	"record":       TokenRecord,
	"sealed":       TokenSealed,
	"permits":      TokenPermits,
	"when":         TokenWhen,
	"module":       TokenModule,
	"open":         TokenOpen,
	"requires":     TokenRequires,
	"exports":      TokenExports,
	"opens":        TokenOpens,
	"uses":         TokenUses,
	"provides":     TokenProvides,
	"to":           TokenTo,
	"with":         TokenWith,
	"transitive":   TokenTransitive,
}

// LookupKeyword maps an identifier to its keyword kind, or TokenIdent.
// Contextual keywords always map to their own kind; the parser accepts
// them wherever an identifier is allowed.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
