package lsp

import (
	"bytes"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dhamidi/javaparse/java/parser"
	"github.com/dhamidi/javaparse/java/problem"
)

// Document is one parsed version of a unit. Documents are replaced, not
// modified, so a *Document may be read without holding the store's lock.
type Document struct {
	URI      string
	Path     string
	Version  int32
	Content  []byte
	Root     *parser.Node
	Problems []*problem.Problem
	// Open reports whether the editor owns the text. Closed documents
	// come from the workspace scan or the watcher.
	Open bool
}

// OptionsFunc returns the parser options for the unit named file.
type OptionsFunc func(file string) ([]parser.Option, error)

// Store holds the latest parse of every known document.
type Store struct {
	mu      sync.RWMutex
	docs    map[string]*Document
	options OptionsFunc
}

func NewStore(options OptionsFunc) *Store {
	if options == nil {
		options = func(file string) ([]parser.Option, error) {
			return []parser.Option{parser.WithFile(file)}, nil
		}
	}
	return &Store{
		docs:    make(map[string]*Document),
		options: options,
	}
}

// Update parses content and stores it as the document's new version.
func (s *Store) Update(uri string, version int32, content []byte, open bool) (*Document, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, err
	}
	doc, err := s.parse(uri, path, content)
	if err != nil {
		return nil, err
	}
	doc.Version = version
	doc.Open = open

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = doc
	return doc, nil
}

// Options returns the parser options used for the document at uri.
func (s *Store) Options(uri string) ([]parser.Option, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, err
	}
	return s.options(filepath.Base(path))
}

func (s *Store) parse(uri, path string, content []byte) (*Document, error) {
	opts, err := s.options(filepath.Base(path))
	if err != nil {
		return nil, err
	}
	p := parser.ParseCompilationUnit(bytes.NewReader(content), opts...)
	root := p.Finish()
	return &Document{
		URI:      uri,
		Path:     path,
		Content:  content,
		Root:     root,
		Problems: p.Problems(),
	}, nil
}

// Put stores an already parsed document unless the editor has the unit
// open.
func (s *Store) Put(doc *Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.docs[doc.URI]; ok && old.Open {
		return false
	}
	s.docs[doc.URI] = doc
	return true
}

func (s *Store) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// Close hands a document back to the workspace: it stays known but no
// longer counts as open.
func (s *Store) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[uri]; ok {
		closed := *doc
		closed.Open = false
		s.docs[uri] = &closed
	}
}

func (s *Store) Remove(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// URIs lists the known documents in order.
func (s *Store) URIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}
