package scanner_test

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javaparse/java/scanner"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func zipBytes(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func names(files []*scanner.File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name()
	}
	return out
}

func TestScan_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "a", "A.java"), "package a;\nclass A {}\ninterface I {}\n")
	writeFile(t, filepath.Join(dir, "src", "b", "B.java"), "package b.c;\nclass B { int x = ; }\n")
	writeFile(t, filepath.Join(dir, "src", "module-info.java"), "module m { requires java.base; }\n")
	writeFile(t, filepath.Join(dir, "src", "notes.txt"), "not java")
	writeFile(t, filepath.Join(dir, ".git", "Hidden.java"), "class Hidden {}")

	s := scanner.New(scanner.WithWorkers(2))
	defer s.Close()

	result, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, scanner.StatusCompleted, result.Status)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Progress)
	assert.Equal(t, 100, result.ProgressPercent())
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{
		filepath.Join(dir, "src", "a", "A.java"),
		filepath.Join(dir, "src", "b", "B.java"),
		filepath.Join(dir, "src", "module-info.java"),
	}, names(result.Files))

	a, b, mod := result.Files[0], result.Files[1], result.Files[2]
	assert.Equal(t, "a", a.Package)
	assert.Equal(t, []string{"A", "I"}, a.Types)
	assert.Zero(t, a.Errors)
	assert.Nil(t, a.Root)

	assert.Equal(t, "b.c", b.Package)
	assert.Positive(t, b.Errors)
	assert.Equal(t, []*scanner.File{b}, result.Failed())

	assert.True(t, mod.Module)
	assert.Empty(t, mod.Types)

	assert.Equal(t, len("package a;\nclass A {}\ninterface I {}\n"), a.Size)
	assert.Equal(t, a.Size+b.Size+mod.Size, result.Bytes())
	assert.Equal(t, b.Errors, result.ErrorCount())
	assert.GreaterOrEqual(t, result.Problems(), result.ErrorCount())
}

func TestScan_Archive(t *testing.T) {
	dir := t.TempDir()
	nested := zipBytes(t, map[string][]byte{
		"lib/Inner.java":  []byte("package lib;\npublic class Inner {}\n"),
		"lib/Inner.class": {0xCA, 0xFE},
	})
	archive := filepath.Join(dir, "src.zip")
	require.NoError(t, os.WriteFile(archive, zipBytes(t, map[string][]byte{
		"java/lang/Object.java": []byte("package java.lang;\npublic class Object {}\n"),
		"META-INF/MANIFEST.MF":  []byte("Manifest-Version: 1.0\n"),
		"deps/lib.jar":          nested,
	}), 0o644))

	s := scanner.New(scanner.WithTrees())
	defer s.Close()

	result, err := s.Scan(context.Background(), archive)
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	byName := map[string]*scanner.File{}
	for _, f := range result.Files {
		byName[f.Name()] = f
	}
	object := byName[archive+"!java/lang/Object.java"]
	require.NotNil(t, object)
	assert.Equal(t, "java.lang", object.Package)
	assert.NotNil(t, object.Root)
	assert.Equal(t, "package java.lang;\npublic class Object {}\n", string(object.Source))

	inner := byName[archive+"!deps/lib.jar!lib/Inner.java"]
	require.NotNil(t, inner)
	assert.Equal(t, []string{"Inner"}, inner.Types)
}

func TestScan_ArchivesDisabled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.java"), "class A {}")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src.zip"), zipBytes(t, map[string][]byte{
		"B.java": []byte("class B {}"),
	}), 0o644))

	s := scanner.New(scanner.WithArchives(false))
	defer s.Close()

	result, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "A.java")}, names(result.Files))
}

func TestScan_Errors(t *testing.T) {
	s := scanner.New()
	defer s.Close()

	_, err := s.Scan(context.Background())
	require.ErrorIs(t, err, scanner.ErrNoInput)

	missing := filepath.Join(t.TempDir(), "Missing.java")
	result, err := s.Scan(context.Background(), missing)
	require.NoError(t, err)
	assert.Equal(t, scanner.StatusFailed, result.Status)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Error, "Missing.java")
}

func TestScan_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.java"), "class A {}")

	s := scanner.New()
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Scan(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, scanner.StatusFailed, result.Status)
}

func TestSubmit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "p", "Point.java"), "package p;\nrecord Point(int x, int y) {}\n")

	s := scanner.New()
	first := s.Submit(scanner.Request{Paths: []string{dir}})
	second := s.Submit(scanner.Request{Paths: []string{filepath.Join(dir, "p", "Point.java")}})
	s.Close()

	assert.Equal(t, "1", first)
	assert.Equal(t, "2", second)

	result, ok := s.Get(first)
	require.True(t, ok)
	assert.Equal(t, scanner.StatusCompleted, result.Status)
	assert.Equal(t, first, result.Request.ID)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, []string{first, second}, []string{list[0].ID, list[1].ID})

	_, ok = s.Get("99")
	assert.False(t, ok)

	all := s.AllFiles()
	assert.Len(t, all, 2)
	found := s.FindType("p.Point")
	require.NotNil(t, found)
	assert.Equal(t, "p", found.Package)
	assert.NotNil(t, s.FindType("Point"))
	assert.Nil(t, s.FindType("q.Point"))
}
