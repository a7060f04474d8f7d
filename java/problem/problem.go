// Package problem holds the diagnostics produced while parsing: problem
// records, the message catalogue, reporters and the text rendering.
package problem

import (
	"fmt"
	"strconv"
	"strings"
)

type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	}
	return "UNKNOWN"
}

// ID identifies a message template in the catalogue.
type ID int

const (
	ParsingError ID = iota + 1
	ParsingErrorDeleteToken
	ParsingErrorDeleteTokens
	ParsingErrorInsertTokenAfter
	ParsingErrorInsertToComplete
	ParsingErrorMisplacedConstruct
	ParsingErrorInvalidToken
	UnterminatedString
	UnterminatedComment
	UnterminatedTextBlock
	InvalidCharacterConstant
	InvalidCharacter
	FeatureNotSupported
	PreviewFeatureDisabled
	PreviewFeatureUsed
	InternalError
)

var catalogue = map[ID]string{
	ParsingError:                   `Syntax error on token "{0}", {1} expected`,
	ParsingErrorDeleteToken:        `Syntax error on token "{0}", delete this token`,
	ParsingErrorDeleteTokens:       `Syntax error on tokens, delete these tokens`,
	ParsingErrorInsertTokenAfter:   `Syntax error on token "{0}", {1} expected after this token`,
	ParsingErrorInsertToComplete:   `Syntax error, insert "{0}" to complete {1}`,
	ParsingErrorMisplacedConstruct: `Syntax error on token(s), misplaced construct(s)`,
	ParsingErrorInvalidToken:       `Syntax error on token "{0}", invalid {1}`,
	UnterminatedString:             `String literal is not properly closed by a double-quote`,
	UnterminatedComment:            `Unexpected end of comment`,
	UnterminatedTextBlock:          `Text block is not properly closed with the delimiter`,
	InvalidCharacterConstant:       `Invalid character constant`,
	InvalidCharacter:               `Invalid character "{0}" in input`,
	FeatureNotSupported:            `The Java feature '{0}' is only available with source level {1} and above`,
	PreviewFeatureDisabled:         `{0} is a preview feature and disabled by default. Use --enable-preview to enable`,
	PreviewFeatureUsed:             `You are using a preview language feature that may or may not be supported in a future release`,
	InternalError:                  `Internal parser error: {0}`,
}

// Template returns the raw message template for id.
func (id ID) Template() string {
	return catalogue[id]
}

// Format substitutes {N} placeholders in the template for id.
func Format(id ID, args ...string) string {
	tmpl, ok := catalogue[id]
	if !ok {
		return fmt.Sprintf("unknown problem %d", int(id))
	}
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '{' {
			if j := strings.IndexByte(tmpl[i:], '}'); j > 1 {
				if n, err := strconv.Atoi(tmpl[i+1 : i+j]); err == nil {
					if n < len(args) {
						b.WriteString(args[n])
					}
					i += j
					continue
				}
			}
		}
		b.WriteByte(tmpl[i])
	}
	return b.String()
}

// Problem is one diagnostic. Start and End are byte offsets into the unit's
// source with End exclusive; a zero-width problem marks an insertion point.
type Problem struct {
	ID       ID
	Severity Severity
	Unit     string
	Start    int
	End      int
	Line     int
	Args     []string
	message  string
}

// New builds a problem and renders its message once.
func New(id ID, severity Severity, unit string, start, end, line int, args ...string) *Problem {
	return &Problem{
		ID:       id,
		Severity: severity,
		Unit:     unit,
		Start:    start,
		End:      end,
		Line:     line,
		Args:     args,
		message:  Format(id, args...),
	}
}

func (p *Problem) Message() string {
	if p.message == "" {
		return Format(p.ID, p.Args...)
	}
	return p.message
}

func (p *Problem) IsError() bool {
	return p.Severity == Error
}

func (p *Problem) String() string {
	return fmt.Sprintf("%s in %s (at line %d): %s", p.Severity, p.Unit, p.Line, p.Message())
}
