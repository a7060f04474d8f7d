// Package lsp serves parse diagnostics, completion and hover over the
// Language Server Protocol.
package lsp

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/javaparse/internal/config"
	"github.com/dhamidi/javaparse/java/assist"
	"github.com/dhamidi/javaparse/java/javadoc"
	"github.com/dhamidi/javaparse/java/parser"
	"github.com/dhamidi/javaparse/java/scanner"
)

var log = commonlog.GetLogger("jparse.lsp")

type Server struct {
	cfg     *config.Config
	version string
	handler protocol.Handler
	server  *server.Server
	docs    *Store
	scanner *scanner.Scanner

	mu      sync.Mutex
	rootDir string
	notify  glsp.NotifyFunc
	watcher *Watcher
}

func NewServer(cfg *config.Config, version string) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg:     cfg,
		version: version,
		docs:    NewStore(cfg.ParserOptions),
		rootDir: ".",
	}

	var scanOpts []parser.Option
	if opts, err := cfg.Options(); err == nil {
		scanOpts = append(scanOpts, parser.WithOptions(opts))
	}
	s.scanner = scanner.New(
		scanner.WithWorkers(cfg.Scan.Workers),
		scanner.WithArchives(false),
		scanner.WithTrees(),
		scanner.WithParserOptions(scanOpts...),
	)

	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.textDocumentDidOpen,
		TextDocumentDidChange:  s.textDocumentDidChange,
		TextDocumentDidClose:   s.textDocumentDidClose,
		TextDocumentDidSave:    s.textDocumentDidSave,
		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
	}
	s.server = server.NewServer(&s.handler, cfg.LSP.Name, false)
	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

// Documents exposes the server's document store.
func (s *Server) Documents() *Store {
	return s.docs
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	} else if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	}
	s.mu.Lock()
	s.rootDir = rootDir
	s.mu.Unlock()
	log.Infof("initialize: root %s", rootDir)

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: s.cfg.LSP.TriggerCharacters,
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    s.cfg.LSP.Name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.mu.Lock()
	s.notify = ctx.Notify
	root := s.rootDir
	s.mu.Unlock()

	if s.cfg.LSP.ScanWorkspace {
		go s.ScanWorkspace(context.Background())
	}
	if s.cfg.LSP.WatchInterval > 0 {
		w := NewWatcher(root, s.cfg.LSP.WatchInterval, s.fileChanged, s.fileRemoved)
		s.mu.Lock()
		s.watcher = w
		s.mu.Unlock()
		w.Start()
	}
	return nil
}

// ScanWorkspace parses every unit under the root and publishes the
// problems of units the editor does not have open.
func (s *Server) ScanWorkspace(ctx context.Context) error {
	s.mu.Lock()
	root := s.rootDir
	s.mu.Unlock()

	result, err := s.scanner.Scan(ctx, root)
	if err != nil {
		log.Errorf("workspace scan: %s", err.Error())
		return err
	}
	for _, msg := range result.Errors {
		log.Warningf("workspace scan: %s", msg)
	}
	for _, f := range result.Files {
		doc := &Document{
			URI:      pathToURI(f.Path),
			Path:     f.Path,
			Content:  f.Source,
			Root:     f.Root,
			Problems: f.Problems,
		}
		if s.docs.Put(doc) && len(doc.Problems) > 0 {
			s.publish(doc)
		}
	}
	log.Infof("workspace scan: %d units, %s, %d errors in %s",
		len(result.Files), humanize.Bytes(uint64(result.Bytes())), result.ErrorCount(), result.Duration())
	return nil
}

func (s *Server) fileChanged(path string) {
	uri := pathToURI(path)
	if doc := s.docs.Get(uri); doc != nil && doc.Open {
		return
	}
	content, err := os.ReadFile(path)
	if err != nil {
		log.Warningf("read %s: %s", path, err.Error())
		return
	}
	doc, err := s.docs.Update(uri, 0, content, false)
	if err != nil {
		log.Errorf("parse %s: %s", path, err.Error())
		return
	}
	s.publish(doc)
}

func (s *Server) fileRemoved(path string) {
	uri := pathToURI(path)
	if doc := s.docs.Get(uri); doc != nil && doc.Open {
		return
	}
	s.docs.Remove(uri)
	s.clear(uri)
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	if w != nil {
		w.Stop()
	}
	s.scanner.Close()
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// publish sends the document's problems to the client.
func (s *Server) publish(doc *Document) {
	params := protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: toDiagnostics(doc.Content, doc.Problems),
	}
	if doc.Open {
		version := protocol.UInteger(doc.Version)
		params.Version = &version
	}
	s.send(params)
}

func (s *Server) clear(uri string) {
	s.send(protocol.PublishDiagnosticsParams{URI: uri, Diagnostics: []protocol.Diagnostic{}})
}

func (s *Server) send(params protocol.PublishDiagnosticsParams) {
	s.mu.Lock()
	notify := s.notify
	s.mu.Unlock()
	if notify == nil {
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.rememberNotify(ctx)
	doc, err := s.docs.Update(params.TextDocument.URI, params.TextDocument.Version, []byte(params.TextDocument.Text), true)
	if err != nil {
		return err
	}
	s.publish(doc)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.rememberNotify(ctx)
	uri := params.TextDocument.URI
	var content []byte
	if doc := s.docs.Get(uri); doc != nil {
		content = doc.Content
	}
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = []byte(c.Text)
		case protocol.TextDocumentContentChangeEvent:
			content = applyChange(content, c)
		}
	}
	doc, err := s.docs.Update(uri, params.TextDocument.Version, content, true)
	if err != nil {
		return err
	}
	s.publish(doc)
	return nil
}

// applyChange splices an incremental edit into content.
func applyChange(content []byte, c protocol.TextDocumentContentChangeEvent) []byte {
	if c.Range == nil {
		return []byte(c.Text)
	}
	start := PositionToOffset(content, c.Range.Start)
	end := max(start, PositionToOffset(content, c.Range.End))
	out := make([]byte, 0, len(content)-(end-start)+len(c.Text))
	out = append(out, content[:start]...)
	out = append(out, c.Text...)
	return append(out, content[end:]...)
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.docs.Close(uri)

	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.docs.Remove(uri)
		s.clear(uri)
		return nil
	} else if err != nil {
		return nil
	}
	// The editor may have dropped unsaved changes.
	if doc, err := s.docs.Update(uri, 0, content, false); err == nil {
		s.publish(doc)
	}
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.rememberNotify(ctx)
	uri := params.TextDocument.URI
	var version int32
	if doc := s.docs.Get(uri); doc != nil {
		version = doc.Version
	}

	var content []byte
	if params.Text != nil {
		content = []byte(*params.Text)
	} else {
		path, err := uriToPath(uri)
		if err != nil {
			return nil
		}
		if content, err = os.ReadFile(path); err != nil {
			return nil
		}
	}
	doc, err := s.docs.Update(uri, version, content, true)
	if err != nil {
		return err
	}
	s.publish(doc)
	return nil
}

func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := params.TextDocument.URI
	doc := s.docs.Get(uri)
	if doc == nil {
		return nil, nil
	}
	opts, err := s.docs.Options(uri)
	if err != nil {
		return nil, err
	}

	offset := PositionToOffset(doc.Content, params.Position)
	r, err := assist.Complete(doc.Content, offset, opts...)
	if err != nil {
		log.Debugf("completion at %d: %s", offset, err.Error())
		return nil, nil
	}
	candidates := assist.Candidates(r)
	if len(candidates) == 0 {
		return nil, nil
	}

	replaced := toRange(doc.Content, r.ReplacedStart, r.ReplacedEnd)
	items := make([]protocol.CompletionItem, 0, len(candidates))
	for _, c := range candidates {
		kind := toCompletionKind(c.Kind)
		item := protocol.CompletionItem{
			Label:    c.Label,
			Kind:     &kind,
			TextEdit: protocol.TextEdit{Range: replaced, NewText: c.Label},
		}
		if c.Detail != "" {
			detail := c.Detail
			item.Detail = &detail
		}
		items = append(items, item)
	}
	return protocol.CompletionList{Items: items}, nil
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	doc := s.docs.Get(uri)
	if doc == nil {
		return nil, nil
	}
	opts, err := s.docs.Options(uri)
	if err != nil {
		return nil, err
	}

	offset := PositionToOffset(doc.Content, params.Position)
	r, err := assist.SelectWord(doc.Content, offset, opts...)
	if err != nil || !r.Found() {
		return nil, nil
	}
	text := s.describe(doc.Content, r)
	if text == "" {
		return nil, nil
	}
	rng := toRange(doc.Content, r.ReplacedStart, r.ReplacedEnd)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: text},
		Range:    &rng,
	}, nil
}

// describe renders a hover for the selection in r: the declaration's
// signature and its documentation. Types not declared in the unit are
// looked up among the scanned workspace units.
func (s *Server) describe(src []byte, r *assist.Result) string {
	if name := assist.Declaration(r); name != nil {
		return hoverText(signature(src, name), javadoc.ForNode(src, name.Decl))
	}
	switch r.Node.Kind {
	case parser.KindSelectOnType, parser.KindSelectOnQualifiedType:
		f := s.scanner.FindType(r.Identifier)
		if f == nil || f.Root == nil {
			return ""
		}
		simple := r.Identifier[strings.LastIndexByte(r.Identifier, '.')+1:]
		for _, decl := range f.Root.Children {
			if !decl.Kind.IsTypeDecl() {
				continue
			}
			if id := decl.FirstChildOfKind(parser.KindIdentifier); id != nil && id.TokenLiteral() == simple {
				qualified := simple
				if f.Package != "" {
					qualified = f.Package + "." + simple
				}
				return hoverText("(type) "+typeKeyword(decl.Kind)+" "+qualified, javadoc.ForNode(f.Source, decl))
			}
		}
	}
	return ""
}

func hoverText(sig string, doc *javadoc.Doc) string {
	text := "```java\n" + sig + "\n```"
	if md := javadoc.Markdown(doc); md != "" {
		text += "\n\n" + md
	}
	return text
}

// signature renders a declaration the way it reads in source, prefixed
// with its kind.
func signature(src []byte, n *assist.Name) string {
	var sig string
	switch n.Kind {
	case assist.NameType:
		sig = typeKeyword(n.Decl.Kind) + " " + n.Name
	case assist.NameTypeParameter:
		sig = "<" + n.Name + ">"
	case assist.NameMethod:
		params := "()"
		if p := n.Decl.FirstChildOfKind(parser.KindParameters); p != nil && p.Span.End.Offset <= len(src) {
			params = strings.Join(strings.Fields(string(src[p.Span.Start.Offset:p.Span.End.Offset])), " ")
		}
		sig = strings.TrimSpace(n.Type + " " + n.Name + params)
	default:
		sig = strings.TrimSpace(n.Type + " " + n.Name)
	}
	return "(" + n.Kind.String() + ") " + sig
}

func typeKeyword(k parser.NodeKind) string {
	switch k {
	case parser.KindInterfaceDecl:
		return "interface"
	case parser.KindEnumDecl:
		return "enum"
	case parser.KindRecordDecl:
		return "record"
	case parser.KindAnnotationDecl:
		return "@interface"
	default:
		return "class"
	}
}

func (s *Server) rememberNotify(ctx *glsp.Context) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notify == nil {
		s.notify = ctx.Notify
	}
}
