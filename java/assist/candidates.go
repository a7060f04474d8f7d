package assist

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/javaparse/java/parser"
)

type CandidateKind int

const (
	CandidateVariable CandidateKind = iota
	CandidateField
	CandidateMethod
	CandidateType
	CandidateKeyword
	CandidateName
)

var candidateKindStrings = [...]string{
	CandidateVariable: "variable",
	CandidateField:    "field",
	CandidateMethod:   "method",
	CandidateType:     "type",
	CandidateKeyword:  "keyword",
	CandidateName:     "name",
}

func (k CandidateKind) String() string {
	if int(k) < len(candidateKindStrings) {
		return candidateKindStrings[k]
	}
	return "unknown"
}

// Candidate is one proposal for the text at a completion sentinel. A
// chosen candidate replaces [Result.ReplacedStart, Result.ReplacedEnd).
type Candidate struct {
	Label  string
	Kind   CandidateKind
	Detail string
}

var (
	expressionKeywords = []string{"this", "super", "new", "null", "true", "false"}
	primitiveTypes     = []string{"boolean", "byte", "char", "short", "int", "long", "float", "double"}
)

// Candidates proposes completions for r from the declarations visible at
// the caret and the words the grammar allows there. Proposals match the
// typed prefix case-insensitively; names come before keywords.
//
// There is no type resolution, so members of a receiver, qualified names
// and imports get no proposals.
func Candidates(r *Result) []Candidate {
	if r == nil || r.Node == nil || !r.Node.Kind.IsCompletion() {
		return nil
	}
	l := &candidateList{prefix: strings.ToLower(r.Identifier), seen: map[string]bool{}}
	switch r.Node.Kind {
	case parser.KindCompleteOnName, parser.KindCompleteOnMessageSend, parser.KindCompleteOnAllocationExpression:
		for _, n := range VisibleNames(r.Root, r.Offset) {
			l.addName(n)
		}
		l.addKeywords(expressionKeywords)
	case parser.KindCompleteOnType:
		for _, n := range VisibleNames(r.Root, r.Offset) {
			if n.Kind.IsType() {
				l.addName(n)
			}
		}
		l.addKeywords(primitiveTypes)
	case parser.KindCompleteOnLocalName, parser.KindCompleteOnArgumentName:
		taken := map[string]bool{}
		for _, n := range VisibleNames(r.Root, r.Offset) {
			if !n.Kind.IsType() {
				taken[n.Name] = true
			}
		}
		typ := declaredType(r.Node)
		for _, name := range SuggestNames(renderType(typ)) {
			if !taken[name] {
				l.add(Candidate{Label: name, Kind: CandidateName, Detail: renderType(typ)})
			}
		}
	case parser.KindCompleteOnKeyword:
		l.addKeywords(r.Keywords)
	}
	return l.items
}

type candidateList struct {
	prefix string
	seen   map[string]bool
	items  []Candidate
}

func (l *candidateList) add(c Candidate) {
	if l.seen[c.Label] || !strings.HasPrefix(strings.ToLower(c.Label), l.prefix) {
		return
	}
	l.seen[c.Label] = true
	l.items = append(l.items, c)
}

func (l *candidateList) addName(n Name) {
	c := Candidate{Label: n.Name, Detail: n.Type}
	switch n.Kind {
	case NameField:
		c.Kind = CandidateField
	case NameMethod:
		c.Kind = CandidateMethod
	case NameType, NameTypeParameter:
		c.Kind = CandidateType
		c.Detail = n.Kind.String()
	default:
		c.Kind = CandidateVariable
	}
	l.add(c)
}

func (l *candidateList) addKeywords(words []string) {
	for _, w := range words {
		l.add(Candidate{Label: w, Kind: CandidateKeyword})
	}
}

// SuggestNames proposes variable names for a value of the written type:
// the camel-case suffixes of its simple name, longest first, as in
// stringBuilder and builder for java.lang.StringBuilder. Array types get
// plural names. Primitive types suggest their initial.
func SuggestNames(typ string) []string {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return nil
	}
	array := false
	for strings.HasSuffix(typ, "[]") || strings.HasSuffix(typ, "...") {
		array = true
		typ = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(typ, "[]"), "..."))
	}
	if i := strings.IndexByte(typ, '<'); i >= 0 {
		typ = typ[:i]
	}
	if i := strings.LastIndexByte(typ, '.'); i >= 0 {
		typ = typ[i+1:]
	}
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return nil
	}

	var words []string
	if slices.Contains(primitiveTypes, typ) {
		words = []string{typ[:1]}
	} else {
		for _, start := range wordStarts(typ) {
			words = append(words, lowerFirst(typ[start:]))
		}
	}

	var out []string
	for _, w := range words {
		if array {
			w += "s"
		}
		if isReserved(w) {
			w += "1"
		}
		if !slices.Contains(out, w) {
			out = append(out, w)
		}
	}
	return out
}

// wordStarts returns the byte offsets where the camel-case words of name
// begin. A run of capitals is one word, so URLConnection splits into URL
// and Connection.
func wordStarts(name string) []int {
	starts := []int{0}
	runes := []rune(name)
	offset := 0
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !prevUpper || nextLower {
				starts = append(starts, offset)
			}
		}
		offset += utf8.RuneLen(r)
	}
	return starts
}

// lowerFirst lowers the leading word of s, keeping an all-caps word whole:
// URLConnection becomes urlConnection.
func lowerFirst(s string) string {
	runes := []rune(s)
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		i++
	}
	switch {
	case i == 0:
		return s
	case i > 1 && i < len(runes):
		i--
	}
	for j := 0; j < i; j++ {
		runes[j] = unicode.ToLower(runes[j])
	}
	return string(runes)
}

func isReserved(word string) bool {
	kind := parser.LookupKeyword(word)
	return kind != parser.TokenIdent && !kind.IsRestricted()
}
