package assist_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javaparse/java/assist"
	"github.com/dhamidi/javaparse/java/parser"
)

// caret marks the offset of interest in test sources.
const caret = "@@"

func marked(t *testing.T, src string) ([]byte, int) {
	t.Helper()
	i := strings.Index(src, caret)
	require.GreaterOrEqual(t, i, 0, "no caret in %q", src)
	return []byte(src[:i] + src[i+len(caret):]), i
}

func parse(t *testing.T, src []byte) *parser.Node {
	t.Helper()
	p := parser.ParseCompilationUnit(bytes.NewReader(src))
	root := p.Finish()
	require.NotNil(t, root)
	return root
}

func namesAt(t *testing.T, src string) []string {
	t.Helper()
	clean, offset := marked(t, src)
	var out []string
	for _, n := range assist.VisibleNames(parse(t, clean), offset) {
		out = append(out, n.Name)
	}
	return out
}

func labels(cs []assist.Candidate) []string {
	var out []string
	for _, c := range cs {
		out = append(out, c.Label)
	}
	return out
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		sentinel   string
		identifier string
		replaced   string
	}{
		{"simple name", "class A { void f() { coun@@", "<CompleteOnName:coun>", "coun", "coun"},
		{"text after the caret is ignored", "class A { void f() { coun@@t = 1; } }", "<CompleteOnName:coun>", "coun", "coun"},
		{"argument slot", "class A { void f() { run(1, @@", "<CompleteOnMessageSend:run(1)>", "", ""},
		{"qualified name", "class A { void f() { a.b.c@@", "<CompleteOnQualifiedName:a.b.c>", "c", "a.b.c"},
		{"supertype", "class A extends Ba@@", "<CompleteOnType:Ba>", "Ba", "Ba"},
		{"import", "import java.ut@@", "<CompleteOnImport:java.ut>", "ut", "java.ut"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, at := marked(t, tt.src)
			r, err := assist.Complete(src, at)
			require.NoError(t, err)
			require.True(t, r.Found(), "no sentinel in\n%s", r.Unit)

			assert.Equal(t, tt.sentinel, r.Sentinel)
			assert.Equal(t, tt.identifier, r.Identifier)
			assert.Equal(t, tt.replaced, r.ReplacedSource)
			assert.Equal(t, at, r.ReplacedEnd)
			assert.Equal(t, string(src[r.ReplacedStart:r.ReplacedEnd]), r.ReplacedSource)
			assert.Contains(t, r.Unit, tt.sentinel)
			assert.Equal(t, at, r.Offset)
		})
	}
}

func TestComplete_EmptyIdentifierReplacesNothing(t *testing.T) {
	src, at := marked(t, "class A { void f() { new X(@@")
	r, err := assist.Complete(src, at)
	require.NoError(t, err)
	require.True(t, r.Found())

	assert.Equal(t, "", r.Identifier)
	assert.Equal(t, "", r.ReplacedSource)
	assert.Equal(t, at, r.ReplacedStart)
	assert.Equal(t, at, r.ReplacedEnd)
}

func TestComplete_OutOfRange(t *testing.T) {
	src := []byte("class A {}")
	for _, at := range []int{-1, len(src) + 1} {
		_, err := assist.Complete(src, at)
		assert.ErrorIs(t, err, assist.ErrOffsetOutOfRange)
	}
}

func TestComplete_KeywordsAreReported(t *testing.T) {
	src, at := marked(t, "class A ext@@")
	r, err := assist.Complete(src, at)
	require.NoError(t, err)
	require.True(t, r.Found())
	assert.Contains(t, r.Keywords, "extends")
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		text     string
		sentinel string
	}{
		{"name use", "class A { void f(int n) { g(n); } }", "n);", "<SelectOnName:n>"},
		{"message send", "class A { void f() { compute(); } }", "compute", "<SelectOnMessageSend:compute()>"},
		{"field name", "class A { int count; }", "count", "<SelectOnFieldName:count>"},
		{"type name", "class Alpha {}", "Alpha", "<SelectOnTypeName:Alpha>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := []byte(tt.src)
			word := strings.TrimRight(tt.text, ");")
			start := strings.Index(tt.src, tt.text)
			end := start + len(word) - 1

			r, err := assist.Select(src, start, end)
			require.NoError(t, err)
			require.True(t, r.Found(), "nothing selected in\n%s", r.Unit)

			assert.Equal(t, tt.sentinel, r.Sentinel)
			assert.Equal(t, word, r.ReplacedSource)
			assert.Equal(t, string(src[start:end+1]), r.ReplacedSource)
			assert.Equal(t, start, r.ReplacedStart)
			assert.Equal(t, end+1, r.ReplacedEnd)
		})
	}
}

func TestSelect_Errors(t *testing.T) {
	src := []byte("class A {}")

	_, err := assist.Select(src, -1, 2)
	assert.ErrorIs(t, err, assist.ErrOffsetOutOfRange)

	_, err = assist.Select(src, 0, len(src))
	assert.ErrorIs(t, err, assist.ErrOffsetOutOfRange)

	_, err = assist.Select(src, 5, 3)
	assert.ErrorIs(t, err, assist.ErrEmptySelection)
}

func TestSelect_Miss(t *testing.T) {
	src := []byte("class A { void f() { } }")
	r, err := assist.Select(src, 0, 4)
	require.NoError(t, err)
	assert.False(t, r.Found())
	assert.Empty(t, r.Sentinel)
	assert.NotEmpty(t, r.Unit)
}

func TestWordAt(t *testing.T) {
	src := []byte("int count = $x + 1;")
	tests := []struct {
		name   string
		offset int
		word   string
	}{
		{"start of word", 4, "count"},
		{"inside word", 6, "count"},
		{"end of word", 9, "count"},
		{"dollar", 12, "$x"},
		{"number", 17, "1"},
		{"operator", 15, ""},
		{"past the end", 40, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := assist.WordAt(src, tt.offset)
			if tt.word == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.word, string(src[start:end+1]))
		})
	}
}

func TestSelectWord(t *testing.T) {
	src := "class A { int count; void f() { count++; } }"
	r, err := assist.SelectWord([]byte(src), strings.LastIndex(src, "count")+2)
	require.NoError(t, err)
	require.True(t, r.Found())
	assert.Equal(t, "count", r.Identifier)
	assert.Equal(t, parser.KindSelectOnName, r.Node.Kind)

	r, err = assist.SelectWord([]byte(src), strings.Index(src, "{ int"))
	require.NoError(t, err)
	assert.False(t, r.Found())

	_, err = assist.SelectWord([]byte(src), -3)
	assert.ErrorIs(t, err, assist.ErrOffsetOutOfRange)
}

func TestVisibleNames(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			"locals parameters and members",
			"class A { int count; void f(int n) { int total = 0; @@ } }",
			[]string{"total", "n", "count", "f", "A"},
		},
		{
			"later locals are not visible",
			"class A { void f() { int a = 1; @@ int b = 2; } }",
			[]string{"a", "f", "A"},
		},
		{
			"earlier declarators",
			"class A { void f() { int a = 1, b = @@a; } }",
			[]string{"b", "a", "f", "A"},
		},
		{
			"pattern variable in then branch",
			"class A { void f(Object o) { if (o instanceof String s) { @@ } else { } } }",
			[]string{"s", "o", "f", "A"},
		},
		{
			"pattern variable not in else branch",
			"class A { void f(Object o) { if (o instanceof String s) { } else { @@ } } }",
			[]string{"o", "f", "A"},
		},
		{
			"pattern variable in else branch of negation",
			"class A { void f(Object o) { if (!(o instanceof String s)) { } else { @@ } } }",
			[]string{"s", "o", "f", "A"},
		},
		{
			"pattern variable after early return",
			"class A { void f(Object o) { if (!(o instanceof String s)) { return; } @@ } }",
			[]string{"s", "o", "f", "A"},
		},
		{
			"no pattern variable after normal completion",
			"class A { void f(Object o) { if (!(o instanceof String s)) { } @@ } }",
			[]string{"o", "f", "A"},
		},
		{
			"conditional and",
			"class A { boolean f(Object o) { return o instanceof String s && @@s.isEmpty(); } }",
			[]string{"s", "o", "f", "A"},
		},
		{
			"conditional or",
			"class A { boolean f(Object o) { return !(o instanceof String s) || @@s.isEmpty(); } }",
			[]string{"s", "o", "f", "A"},
		},
		{
			"conditional expression",
			"class A { int f(Object o) { return o instanceof String s ? @@s.length() : 0; } }",
			[]string{"s", "o", "f", "A"},
		},
		{
			"lambda parameters",
			"class A { void f() { Fn g = (a, b) -> @@a; } }",
			[]string{"a", "b", "g", "f", "A"},
		},
		{
			"basic for",
			"class A { void f(int[] xs) { for (int i = 0; i < xs.length; i++) { @@ } for (int x : xs) { } } }",
			[]string{"i", "xs", "f", "A"},
		},
		{
			"enhanced for",
			"class A { void f(int[] xs) { for (int i = 0; i < xs.length; i++) { } for (int x : xs) { @@ } } }",
			[]string{"x", "xs", "f", "A"},
		},
		{
			"try resource",
			"class A { void f() { try (var in = open()) { @@ } catch (Exception e) { } } }",
			[]string{"in", "f", "A"},
		},
		{
			"catch parameter",
			"class A { void f() { try (var in = open()) { } catch (Exception e) { @@ } } }",
			[]string{"e", "f", "A"},
		},
		{
			"switch case pattern",
			`class A { String f(Object o) { return switch (o) { case Integer i when i > 0 -> "pos"; case String s -> @@s; default -> ""; }; } }`,
			[]string{"s", "o", "f", "A"},
		},
		{
			"switch guard",
			`class A { String f(Object o) { return switch (o) { case Integer i when @@i > 0 -> "pos"; default -> ""; }; } }`,
			[]string{"i", "o", "f", "A"},
		},
		{
			"record components and type parameters",
			"record P<T>(T value, int n) { P { @@ } }",
			[]string{"value", "n", "T", "P"},
		},
		{
			"local class",
			"class A { void f() { class Local {} @@ } }",
			[]string{"Local", "f", "A"},
		},
		{
			"enum constants",
			"enum Color { RED, GREEN; void f() { @@ } }",
			[]string{"RED", "GREEN", "f", "Color"},
		},
		{
			"top level types",
			"class A { } class B { void f() { @@ } }",
			[]string{"f", "B", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, namesAt(t, tt.src))
		})
	}
}

func TestVisibleNames_Shadowing(t *testing.T) {
	src, at := marked(t, `class A { int x; void f() { String x = ""; @@ } }`)
	root := parse(t, src)

	n, ok := assist.Lookup(root, at, "x")
	require.True(t, ok)
	assert.Equal(t, assist.NameLocal, n.Kind)
	assert.Equal(t, "String", n.Type)
	assert.Equal(t, strings.Index(string(src), "x ="), n.Span.Start.Offset)

	_, ok = assist.Lookup(root, at, "y")
	assert.False(t, ok)
}

func TestVisibleNames_Kinds(t *testing.T) {
	src, at := marked(t, "class A<T> { int[] data; void run(long n) { @@ } }")
	kinds := map[string]assist.NameKind{}
	types := map[string]string{}
	for _, n := range assist.VisibleNames(parse(t, src), at) {
		kinds[n.Name] = n.Kind
		types[n.Name] = n.Type
	}

	assert.Equal(t, assist.NameParameter, kinds["n"])
	assert.Equal(t, "long", types["n"])
	assert.Equal(t, assist.NameField, kinds["data"])
	assert.Equal(t, "int[]", types["data"])
	assert.Equal(t, assist.NameMethod, kinds["run"])
	assert.Equal(t, assist.NameTypeParameter, kinds["T"])
	assert.Equal(t, assist.NameType, kinds["A"])
	assert.Equal(t, "type parameter", assist.NameTypeParameter.String())
}

func TestVisibleNames_NilRoot(t *testing.T) {
	assert.Nil(t, assist.VisibleNames(nil, 0))
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			"name prefix",
			"class A { int count; void f(int cost) { int total = 0; co@@",
			[]string{"cost", "count"},
		},
		{
			"case-insensitive prefix",
			"class A { void f(String Name) { na@@",
			[]string{"Name", "new", "null"},
		},
		{
			"argument slot",
			"class A { void run(int a) {} void f(String s) { run(@@",
			[]string{"s", "run", "f", "A", "this", "super", "new", "null", "true", "false"},
		},
		{
			"field type",
			"class Alpha { private Al@@",
			[]string{"Alpha"},
		},
		{
			"primitive type",
			"class Alpha { private in@@",
			[]string{"int"},
		},
		{
			"local name",
			"class A { void f() { StringBuilder @@",
			[]string{"stringBuilder", "builder"},
		},
		{
			"local name avoids visible names",
			"class A { void f(StringBuilder builder) { StringBuilder @@",
			[]string{"stringBuilder"},
		},
		{
			"argument name",
			"class A { void f(String s@@",
			[]string{"string"},
		},
		{
			"keyword",
			"class A ext@@",
			[]string{"extends"},
		},
		{
			"qualified name",
			"class A { void f() { a.b.c@@",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, at := marked(t, tt.src)
			r, err := assist.Complete(src, at)
			require.NoError(t, err)
			require.True(t, r.Found(), "no sentinel in\n%s", r.Unit)
			assert.Equal(t, tt.want, labels(assist.Candidates(r)))
		})
	}
}

func TestCandidates_Kinds(t *testing.T) {
	src, at := marked(t, "class A { int count; void f(String cost) { co@@")
	r, err := assist.Complete(src, at)
	require.NoError(t, err)

	cs := assist.Candidates(r)
	require.Len(t, cs, 2)
	assert.Equal(t, assist.Candidate{Label: "cost", Kind: assist.CandidateVariable, Detail: "String"}, cs[0])
	assert.Equal(t, assist.Candidate{Label: "count", Kind: assist.CandidateField, Detail: "int"}, cs[1])
}

func TestCandidates_NoSentinel(t *testing.T) {
	assert.Nil(t, assist.Candidates(nil))
	assert.Nil(t, assist.Candidates(&assist.Result{}))
}

func TestSuggestNames(t *testing.T) {
	tests := []struct {
		typ  string
		want []string
	}{
		{"StringBuilder", []string{"stringBuilder", "builder"}},
		{"java.net.URLConnection", []string{"urlConnection", "connection"}},
		{"URL", []string{"url"}},
		{"List<String>", []string{"list"}},
		{"Map.Entry<K, V>", []string{"entry"}},
		{"String[]", []string{"strings"}},
		{"Object...", []string{"objects"}},
		{"int", []string{"i"}},
		{"Class<?>", []string{"class1"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, assist.SuggestNames(tt.typ))
		})
	}
}

func TestDeclaration(t *testing.T) {
	tests := []struct {
		name string
		src  string
		// at locates the selection, which covers the first len(want) bytes.
		at   string
		want string
		kind assist.NameKind
		typ  string
		// decl locates the declared name.
		decl string
	}{
		{"pattern variable use", "class A { void f(Object o) { if (o instanceof String s) { s.length(); } } }", "s.length", "s", assist.NamePatternVariable, "String", "s)"},
		{"parameter use", "class A { void f(int n) { g(n); } }", "n);", "n", assist.NameParameter, "int", "n)"},
		{"method call", "class A { int g() { return 1; } void f() { g(); } }", "g();", "g", assist.NameMethod, "int", "g()"},
		{"selected local", "class A { void f() { int total = 0; } }", "total", "total", assist.NameLocal, "int", "total"},
		{"selected field", "class A { long count; }", "count", "count", assist.NameField, "long", "count"},
		{"selected parameter", "class A { void f(double size) {} }", "size", "size", assist.NameParameter, "double", "size"},
		{"selected type", "class Alpha {}", "Alpha", "Alpha", assist.NameType, "", "Alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := strings.Index(tt.src, tt.at)
			require.GreaterOrEqual(t, start, 0)
			r, err := assist.Select([]byte(tt.src), start, start+len(tt.want)-1)
			require.NoError(t, err)
			require.True(t, r.Found(), "nothing selected in\n%s", r.Unit)

			d := assist.Declaration(r)
			require.NotNil(t, d)
			assert.Equal(t, tt.want, d.Name)
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.typ, d.Type)
			assert.Equal(t, strings.Index(tt.src, tt.decl), d.Span.Start.Offset)
		})
	}
}

func TestDeclaration_Unresolved(t *testing.T) {
	src := "class A { void f() { list.clear(); } }"
	start := strings.Index(src, "clear")
	r, err := assist.Select([]byte(src), start, start+len("clear")-1)
	require.NoError(t, err)
	require.True(t, r.Found())
	assert.Nil(t, assist.Declaration(r))

	assert.Nil(t, assist.Declaration(&assist.Result{}))
}
