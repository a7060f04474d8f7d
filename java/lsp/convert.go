package lsp

import (
	"bytes"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/javaparse/java/assist"
	"github.com/dhamidi/javaparse/java/problem"
)

const diagnosticSource = "jparse"

// PositionToOffset converts an LSP position, whose character counts
// UTF-16 code units, to a byte offset in content. Positions past the end
// of a line clamp to the line end.
func PositionToOffset(content []byte, pos protocol.Position) int {
	offset := 0
	for line := uint32(0); line < pos.Line; line++ {
		i := bytes.IndexByte(content[offset:], '\n')
		if i < 0 {
			return len(content)
		}
		offset += i + 1
	}
	units := uint32(0)
	for offset < len(content) && units < pos.Character {
		r, size := utf8.DecodeRune(content[offset:])
		if r == '\n' {
			break
		}
		units += utf16Len(r)
		offset += size
	}
	return offset
}

// OffsetToPosition converts a byte offset in content to an LSP position.
func OffsetToPosition(content []byte, offset int) protocol.Position {
	offset = max(0, min(offset, len(content)))
	var pos protocol.Position
	for i := 0; i < offset; {
		r, size := utf8.DecodeRune(content[i:])
		if r == '\n' {
			pos.Line++
			pos.Character = 0
		} else {
			pos.Character += utf16Len(r)
		}
		i += size
	}
	return pos
}

func utf16Len(r rune) uint32 {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

func toRange(content []byte, start, end int) protocol.Range {
	return protocol.Range{
		Start: OffsetToPosition(content, start),
		End:   OffsetToPosition(content, end),
	}
}

// toDiagnostics converts problems to LSP diagnostics. A zero-width
// problem marks an insertion point and is widened to the character before
// it so editors can show it.
func toDiagnostics(content []byte, problems []*problem.Problem) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(problems))
	source := diagnosticSource
	for _, p := range problems {
		start, end := p.Start, p.End
		if end <= start && start > 0 {
			start--
			end = start + 1
		}
		severity := toSeverity(p.Severity)
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toRange(content, start, end),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: protocol.Integer(p.ID)},
			Source:   &source,
			Message:  p.Message(),
		})
	}
	return diagnostics
}

func toSeverity(s problem.Severity) protocol.DiagnosticSeverity {
	switch s {
	case problem.Error:
		return protocol.DiagnosticSeverityError
	case problem.Warning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func toCompletionKind(kind assist.CandidateKind) protocol.CompletionItemKind {
	switch kind {
	case assist.CandidateField:
		return protocol.CompletionItemKindField
	case assist.CandidateMethod:
		return protocol.CompletionItemKindMethod
	case assist.CandidateType:
		return protocol.CompletionItemKindClass
	case assist.CandidateKeyword:
		return protocol.CompletionItemKindKeyword
	case assist.CandidateVariable, assist.CandidateName:
		return protocol.CompletionItemKindVariable
	default:
		return protocol.CompletionItemKindText
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
