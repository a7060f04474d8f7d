// Package scanner parses many compilation units at once: source trees,
// single files and zip or jar source archives. Scans run on a fixed pool
// of workers and can be submitted to a background queue or run inline.
package scanner

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/javaparse/java/parser"
	"github.com/dhamidi/javaparse/java/problem"
)

var log = commonlog.GetLogger("jparse.scan")

var ErrNoInput = errors.New("no paths to scan")

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Request names the files, directories and archives of one scan.
type Request struct {
	ID        string
	Paths     []string
	CreatedAt time.Time
}

// File is the outcome of parsing one compilation unit.
type File struct {
	// Path is the file on disk, or the entry name inside Archive.
	Path    string
	Archive string
	Size    int
	Package string
	// Types lists the top-level type declarations in source order.
	Types    []string
	Module   bool
	Problems []*problem.Problem
	Errors   int
	Duration time.Duration
	// Root and Source are kept only when the scanner was built
	// WithTrees.
	Root   *parser.Node
	Source []byte
}

// Name is the path shown to users: archive entries read as
// archive!entry.
func (f *File) Name() string {
	if f.Archive != "" {
		return f.Archive + "!" + f.Path
	}
	return f.Path
}

type Result struct {
	ID        string
	Status    Status
	Request   Request
	Files     []*File
	Error     string
	Errors    []string
	StartedAt time.Time
	EndedAt   time.Time
	Progress  int
	Total     int
}

func (r *Result) ProgressPercent() int {
	if r.Total == 0 {
		return 0
	}
	return (r.Progress * 100) / r.Total
}

// Bytes is the total size of the parsed sources.
func (r *Result) Bytes() int {
	n := 0
	for _, f := range r.Files {
		n += f.Size
	}
	return n
}

// Problems counts every problem reported across the scan.
func (r *Result) Problems() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Problems)
	}
	return n
}

// ErrorCount counts the problems with error severity.
func (r *Result) ErrorCount() int {
	n := 0
	for _, f := range r.Files {
		n += f.Errors
	}
	return n
}

// Failed returns the files with at least one error, in scan order.
func (r *Result) Failed() []*File {
	var out []*File
	for _, f := range r.Files {
		if f.Errors > 0 {
			out = append(out, f)
		}
	}
	return out
}

func (r *Result) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

type Option func(*Scanner)

// WithWorkers sets how many units are parsed at once.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithArchives controls whether .zip and .jar files are opened.
func WithArchives(enabled bool) Option {
	return func(s *Scanner) {
		s.archives = enabled
	}
}

// WithParserOptions adds options to every parse. The unit name is set
// per file.
func WithParserOptions(opts ...parser.Option) Option {
	return func(s *Scanner) {
		s.parserOptions = append(s.parserOptions, opts...)
	}
}

// WithTrees keeps each unit's syntax tree and source in its File.
func WithTrees() Option {
	return func(s *Scanner) {
		s.keepTrees = true
	}
}

type Scanner struct {
	mu       sync.RWMutex
	scans    map[string]*Result
	requests chan Request
	nextID   int
	done     chan struct{}

	workers       int
	archives      bool
	keepTrees     bool
	parserOptions []parser.Option
}

// New starts a scanner whose queue is drained by one background
// goroutine. Close stops it.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		scans:    make(map[string]*Result),
		requests: make(chan Request, 100),
		done:     make(chan struct{}),
		workers:  4,
		archives: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

func (s *Scanner) run() {
	defer close(s.done)
	for req := range s.requests {
		s.process(context.Background(), req)
	}
}

// Close stops accepting requests and waits for queued scans to finish.
func (s *Scanner) Close() {
	close(s.requests)
	<-s.done
}

// Submit queues a scan and returns its ID.
func (s *Scanner) Submit(req Request) string {
	s.mu.Lock()
	s.nextID++
	req.ID = strconv.Itoa(s.nextID)
	req.CreatedAt = time.Now()
	s.scans[req.ID] = &Result{
		ID:      req.ID,
		Status:  StatusPending,
		Request: req,
	}
	s.mu.Unlock()

	s.requests <- req
	return req.ID
}

// Scan runs a scan inline and returns once every unit is parsed or ctx is
// done.
func (s *Scanner) Scan(ctx context.Context, paths ...string) (*Result, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}
	s.mu.Lock()
	s.nextID++
	req := Request{ID: strconv.Itoa(s.nextID), Paths: paths, CreatedAt: time.Now()}
	s.scans[req.ID] = &Result{ID: req.ID, Status: StatusPending, Request: req}
	s.mu.Unlock()

	s.process(ctx, req)
	result, _ := s.Get(req.ID)
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("scan %s: %w", req.ID, err)
	}
	return result, nil
}

// Get returns a snapshot of the scan with the given ID.
func (s *Scanner) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.scans[id]
	if !ok {
		return nil, false
	}
	snapshot := *result
	return &snapshot, true
}

// List returns snapshots of every scan, oldest first.
func (s *Scanner) List() []*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*Result, 0, len(s.scans))
	for _, r := range s.scans {
		snapshot := *r
		results = append(results, &snapshot)
	}
	sort.Slice(results, func(i, j int) bool {
		a, _ := strconv.Atoi(results[i].ID)
		b, _ := strconv.Atoi(results[j].ID)
		return a < b
	})
	return results
}

// AllFiles returns the files of every completed scan sorted by name.
func (s *Scanner) AllFiles() []*File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []*File
	for _, scan := range s.scans {
		if scan.Status == StatusCompleted {
			all = append(all, scan.Files...)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name() < all[j].Name()
	})
	return all
}

// FindType returns the file declaring the top-level type with the given
// qualified or simple name.
func (s *Scanner) FindType(name string) *File {
	for _, f := range s.AllFiles() {
		for _, t := range f.Types {
			if t == name || f.Package != "" && f.Package+"."+t == name {
				return f
			}
		}
	}
	return nil
}

// unit is one compilation unit waiting to be parsed.
type unit struct {
	index   int
	path    string
	archive string
	read    func() ([]byte, error)
}

func (s *Scanner) process(ctx context.Context, req Request) {
	s.mu.Lock()
	result := s.scans[req.ID]
	result.Status = StatusInProgress
	result.StartedAt = time.Now()
	s.mu.Unlock()

	units, closers, errs := s.collect(req.Paths)
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	s.mu.Lock()
	result.Total = len(units)
	s.mu.Unlock()

	files, parseErrs := s.parseAll(ctx, req.ID, units)
	errs = append(errs, parseErrs...)

	s.mu.Lock()
	defer s.mu.Unlock()
	result.EndedAt = time.Now()
	result.Files = files
	result.Errors = errs
	if ctx.Err() != nil || len(errs) > 0 && len(files) == 0 {
		result.Status = StatusFailed
		if len(errs) > 0 {
			result.Error = errs[0]
		} else {
			result.Error = ctx.Err().Error()
		}
	} else {
		result.Status = StatusCompleted
	}
	log.Infof("scan %s: %d units, %d errors, %s", req.ID, len(files), len(errs), result.Duration())
}

// collect expands the request paths into units. Archives stay open until
// the returned closers are closed.
func (s *Scanner) collect(paths []string) ([]unit, []io.Closer, []string) {
	var units []unit
	var closers []io.Closer
	var errs []string

	add := func(path, archive string, read func() ([]byte, error)) {
		units = append(units, unit{index: len(units), path: path, archive: archive, read: read})
	}
	addFile := func(path string) {
		add(path, "", func() ([]byte, error) { return os.ReadFile(path) })
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, fmt.Sprintf("stat %s: %v", path, err))
			continue
		}
		switch {
		case info.IsDir():
			err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					errs = append(errs, fmt.Sprintf("walk %s: %v", p, err))
					return nil
				}
				if d.IsDir() {
					if p != path && strings.HasPrefix(d.Name(), ".") {
						return filepath.SkipDir
					}
					return nil
				}
				switch {
				case isJavaFile(p):
					addFile(p)
				case s.archives && isArchive(p):
					c, archiveErrs := s.collectArchive(p, add)
					if c != nil {
						closers = append(closers, c)
					}
					errs = append(errs, archiveErrs...)
				}
				return nil
			})
			if err != nil {
				errs = append(errs, fmt.Sprintf("walk %s: %v", path, err))
			}
		case isArchive(path) && s.archives:
			c, archiveErrs := s.collectArchive(path, add)
			if c != nil {
				closers = append(closers, c)
			}
			errs = append(errs, archiveErrs...)
		default:
			addFile(path)
		}
	}
	return units, closers, errs
}

// collectArchive adds the .java entries of a zip or jar, descending into
// jars nested in it.
func (s *Scanner) collectArchive(path string, add func(string, string, func() ([]byte, error))) (io.Closer, []string) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, []string{fmt.Sprintf("open archive %s: %v", path, err)}
	}

	var errs []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch {
		case isJavaFile(f.Name):
			add(f.Name, path, readEntry(f))
		case isArchive(f.Name):
			nested, err := openNested(f)
			if err != nil {
				errs = append(errs, fmt.Sprintf("open %s in %s: %v", f.Name, path, err))
				continue
			}
			log.Debugf("descending into %s!%s", path, f.Name)
			for _, nf := range nested.File {
				if !nf.FileInfo().IsDir() && isJavaFile(nf.Name) {
					add(nf.Name, path+"!"+f.Name, readEntry(nf))
				}
			}
		}
	}
	return r, errs
}

func openNested(f *zip.File) (*zip.Reader, error) {
	data, err := readEntry(f)()
	if err != nil {
		return nil, err
	}
	return zip.NewReader(bytes.NewReader(data), int64(len(data)))
}

func readEntry(f *zip.File) func() ([]byte, error) {
	return func() ([]byte, error) {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
}

// parseAll parses units on the worker pool. Files come back in unit
// order; units that could not be read are reported as errors instead.
func (s *Scanner) parseAll(ctx context.Context, id string, units []unit) ([]*File, []string) {
	workers := min(s.workers, len(units))
	files := make([]*File, len(units))
	readErrs := make([]error, len(units))

	ch := make(chan unit, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range ch {
				if ctx.Err() != nil {
					continue
				}
				files[u.index], readErrs[u.index] = s.parseUnit(u)
				s.mu.Lock()
				s.scans[id].Progress++
				s.mu.Unlock()
			}
		}()
	}

send:
	for _, u := range units {
		select {
		case ch <- u:
		case <-ctx.Done():
			break send
		}
	}
	close(ch)
	wg.Wait()

	var out []*File
	var errs []string
	for i, f := range files {
		if err := readErrs[i]; err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if f != nil {
			out = append(out, f)
		}
	}
	return out, errs
}

func (s *Scanner) parseUnit(u unit) (*File, error) {
	data, err := u.read()
	if err != nil {
		name := u.path
		if u.archive != "" {
			name = u.archive + "!" + u.path
		}
		log.Warningf("read %s: %v", name, err)
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	started := time.Now()
	opts := append(append([]parser.Option(nil), s.parserOptions...), parser.WithFile(filepath.Base(u.path)))
	p := parser.ParseCompilationUnit(bytes.NewReader(data), opts...)
	root := p.Finish()

	f := &File{
		Path:     u.path,
		Archive:  u.archive,
		Size:     len(data),
		Module:   filepath.Base(u.path) == "module-info.java",
		Problems: p.Problems(),
		Duration: time.Since(started),
	}
	for _, pr := range f.Problems {
		if pr.IsError() {
			f.Errors++
		}
	}
	f.Package, f.Types = outline(root, data)
	if s.keepTrees {
		f.Root = root
		f.Source = data
	}
	return f, nil
}

// outline reads the package name and the top-level type names of a unit.
func outline(root *parser.Node, src []byte) (string, []string) {
	if root == nil {
		return "", nil
	}
	var pkg string
	var types []string
	for _, ch := range root.Children {
		switch {
		case ch.Kind == parser.KindPackageDecl && len(ch.Children) > 0:
			name := ch.Children[len(ch.Children)-1]
			if name.Span.Start.Offset <= name.Span.End.Offset && name.Span.End.Offset <= len(src) {
				pkg = strings.Join(strings.Fields(string(src[name.Span.Start.Offset:name.Span.End.Offset])), "")
			}
		case ch.Kind.IsTypeDecl():
			if id := ch.FirstChildOfKind(parser.KindIdentifier); id != nil && id.Token != nil {
				types = append(types, id.Token.Literal)
			}
		}
	}
	return pkg, types
}

func isJavaFile(name string) bool {
	return filepath.Ext(name) == ".java"
}

func isArchive(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zip", ".jar", ".srczip":
		return true
	}
	return false
}
