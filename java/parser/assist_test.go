package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeAtEnd runs a completion parse with the caret at the end of src.
func completeAtEnd(t *testing.T, src string, opts ...Option) (*Node, *Parser) {
	t.Helper()
	p := ParseCompletion([]byte(src), len(src), opts...)
	require.NotNil(t, p.Finish())
	return p.AssistNode(), p
}

// selectText runs a selection parse over the n-th occurrence (from 0) of
// text in src.
func selectText(t *testing.T, src, text string, n int) (*Node, int, int) {
	t.Helper()
	start := -1
	for from := 0; n >= 0; n-- {
		i := strings.Index(src[from:], text)
		require.GreaterOrEqual(t, i, 0, "%q not found in %q", text, src)
		start = from + i
		from = start + 1
	}
	end := start + len(text) - 1
	p := ParseSelection([]byte(src), start, end)
	require.NotNil(t, p.Finish())
	return p.AssistNode(), start, end
}

func TestCompleteOnAllocationArguments(t *testing.T) {
	src := "class A { void f() { new X("
	node, p := completeAtEnd(t, src)

	require.NotNil(t, node)
	assert.Equal(t, KindCompleteOnAllocationExpression, node.Kind)
	require.Len(t, node.Children, 2)
	assert.Equal(t, KindType, node.Children[0].Kind)
	assert.Equal(t, KindParameters, node.Children[1].Kind)
	assert.Equal(t, "", node.Assist.Identifier)
	assert.Equal(t, len(src), node.Assist.Replaced.Start.Offset)
	assert.Equal(t, len(src), node.Assist.Replaced.End.Offset)
	assert.Equal(t, "", node.Assist.Source)
	assert.Empty(t, p.Problems())
}

func TestCompletionSentinels(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		kind       NodeKind
		identifier string
		// source is the text the completion replaces.
		source string
	}{
		{"simple name", "class A { void f() { coun", KindCompleteOnName, "coun", "coun"},
		{"empty statement slot", "class A { void f() { x = ", KindCompleteOnName, "", ""},
		{"qualified name", "class A { void f() { a.b.c", KindCompleteOnQualifiedName, "c", "a.b.c"},
		{"qualified name after dot", "class A { void f() { a.b.", KindCompleteOnQualifiedName, "", "a.b."},
		{"member of call result", "class A { void f() { make().va", KindCompleteOnMemberAccess, "va", "va"},
		{"member of this", "class A { void f() { this.fi", KindCompleteOnMemberAccess, "fi", "fi"},
		{"call arguments", "class A { void f() { run(1, ", KindCompleteOnMessageSend, "", ""},
		{"first call argument", "class A { void f() { a.run(", KindCompleteOnMessageSend, "", ""},
		{"local name", "class A { void f() { String na", KindCompleteOnLocalName, "na", "na"},
		{"fresh local name", "class A { void f() { String ", KindCompleteOnLocalName, "", ""},
		{"argument name", "class A { void f(String na", KindCompleteOnArgumentName, "na", "na"},
		{"pattern variable", "class A { void f() { if (o instanceof String st", KindCompleteOnLocalName, "st", "st"},
		{"supertype", "class A extends Ba", KindCompleteOnType, "Ba", "Ba"},
		{"qualified supertype", "class A implements java.io.Ser", KindCompleteOnQualifiedType, "Ser", "java.io.Ser"},
		{"field type", "class A { private Str", KindCompleteOnType, "Str", "Str"},
		{"allocated type", "class A { Object o = new Array", KindCompleteOnType, "Array", "Array"},
		{"import", "import java.ut", KindCompleteOnImport, "ut", "java.ut"},
		{"package", "package org.ex", KindCompleteOnPackage, "ex", "org.ex"},
		{"header keyword", "class A ext", KindCompleteOnKeyword, "ext", "ext"},
		{"explicit constructor call", "class A { A() { super(", KindCompleteOnMessageSend, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, p := completeAtEnd(t, tt.src)
			require.NotNil(t, node, "no sentinel for %q", tt.src)
			assert.Equal(t, tt.kind, node.Kind)
			assert.Equal(t, tt.identifier, node.Assist.Identifier)
			assert.Equal(t, tt.source, node.Assist.Source)
			assert.Equal(t, len(tt.src), node.Assist.Replaced.End.Offset)
			assert.Equal(t, tt.src[node.Assist.Replaced.Start.Offset:], node.Assist.Source)
			assert.Empty(t, p.Problems(), "%v", messages(p.Problems()))
		})
	}
}

func TestCompletionKeywords(t *testing.T) {
	node, _ := completeAtEnd(t, "class A ext")
	require.NotNil(t, node)
	assert.Contains(t, node.Assist.Keywords, "extends")
	assert.Contains(t, node.Assist.Keywords, "implements")
}

func TestCompletionSentinelIsInTree(t *testing.T) {
	p := ParseCompletion([]byte("class A { void f() { foo"), 24)
	root := p.Finish()
	sentinel := p.AssistNode()
	require.NotNil(t, sentinel)

	path := root.Path(sentinel)
	require.NotEmpty(t, path, "sentinel not reachable from the root:\n%s", root)
	assert.Equal(t, KindCompilationUnit, path[0].Kind)
	assert.NotNil(t, findNode(root, KindMethodDecl))
}

func TestCompletionIgnoresTextAfterCaret(t *testing.T) {
	src := "class A { void f() { foo } void g() {} }"
	caret := strings.Index(src, "foo") + 3
	p := ParseCompletion([]byte(src), caret)
	p.Finish()

	node := p.AssistNode()
	require.NotNil(t, node)
	assert.Equal(t, KindCompleteOnName, node.Kind)
	assert.Equal(t, "foo", node.Assist.Identifier)
	assert.Equal(t, src[:caret], string(p.Source()))
}

func TestCompletionInsideLiteralOrComment(t *testing.T) {
	for _, src := range []string{
		`class A { String s = "ab`,
		"class A { // note",
		"class A { /* note",
		`class A { char c = 'x`,
	} {
		t.Run(src, func(t *testing.T) {
			node, _ := completeAtEnd(t, src)
			assert.Nil(t, node)
		})
	}
}

func TestCompletionCaretOutOfRange(t *testing.T) {
	p := ParseCompletion([]byte("class A {}"), 99)
	root := p.Finish()
	require.NotNil(t, root)
	assert.Nil(t, p.AssistNode())
}

func TestSelectionOnPatternVariable(t *testing.T) {
	src := "class A { void f(Object o) { if (o instanceof String s) { s.length(); } } }"
	selectAt := func(at int) *Node {
		p := ParseSelection([]byte(src), at, at)
		p.Finish()
		return p.AssistNode()
	}

	declAt := strings.Index(src, "s)")
	decl := selectAt(declAt)
	require.NotNil(t, decl)
	assert.Equal(t, KindSelectionOnLocalName, decl.Kind)
	assert.Equal(t, "s", decl.Assist.Identifier)
	assert.Equal(t, src[declAt:declAt+1], decl.Assist.Source)
	assert.NotNil(t, decl.FirstChildOfKind(KindType), "the sentinel keeps the declared type")

	useAt := strings.Index(src, "s.length")
	use := selectAt(useAt)
	require.NotNil(t, use)
	assert.Equal(t, KindSelectOnName, use.Kind)
	assert.Equal(t, src[useAt:useAt+1], use.Assist.Source)
}

func TestSelectionSentinels(t *testing.T) {
	tests := []struct {
		name string
		src  string
		text string
		nth  int
		kind NodeKind
	}{
		{"type name", "class Account {}", "Account", 0, KindSelectOnTypeName},
		{"method name", "class A { void run() {} }", "run", 0, KindSelectOnMethodName},
		{"field name", "class A { int count; }", "count", 0, KindSelectOnFieldName},
		{"field type", "class A { String s; }", "String", 0, KindSelectOnType},
		{"qualified field type", "class A { java.util.List l; }", "java.util.List", 0, KindSelectOnQualifiedType},
		{"last part of qualified type", "class A { java.util.List l; }", "List", 0, KindSelectOnQualifiedType},
		{"local variable", "class A { void f() { int total = 0; } }", "total", 0, KindSelectionOnLocalName},
		{"parameter", "class A { void f(int size) {} }", "size", 0, KindSelectOnArgumentName},
		{"catch parameter", "class A { void f() { try {} catch (Exception ex) {} } }", "ex", 0, KindSelectOnArgumentName},
		{"name use", "class A { void f(int n) { g(n); } }", "n", 2, KindSelectOnName},
		{"message send", "class A { void f() { compute(); } }", "compute", 0, KindSelectOnMessageSend},
		{"qualified message send", "class A { void f() { list.clear(); } }", "clear", 0, KindSelectOnMessageSend},
		{"allocation", "class A { Object o = new Thing(); }", "Thing", 0, KindSelectOnAllocationExpression},
		{"qualified name", "class A { int f() { return a.b; } }", "b", 0, KindSelectOnQualifiedName},
		{"field reference", "class A { int f() { return get().len; } }", "len", 0, KindSelectOnFieldReference},
		{"import", "import java.util.Map;\nclass A {}", "java.util.Map", 0, KindSelectOnImport},
		{"package", "package org.example;\nclass A {}", "org.example", 0, KindSelectOnPackage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, start, end := selectText(t, tt.src, tt.text, tt.nth)
			require.NotNil(t, node, "nothing selected by %q", tt.text)
			assert.Equal(t, tt.kind, node.Kind)
			assert.Equal(t, tt.src[start:end+1], node.Assist.Source)
		})
	}
}

func TestSelectionMiss(t *testing.T) {
	for _, text := range []string{"void f", "{ }", "class"} {
		t.Run(text, func(t *testing.T) {
			node, _, _ := selectText(t, "class A { void f() { } }", text, 0)
			assert.Nil(t, node)
		})
	}
}

func TestSelectionKeepsParsing(t *testing.T) {
	src := "class A { void f() { g(); } void h() {} }"
	p := ParseSelection([]byte(src), strings.Index(src, "g"), strings.Index(src, "g"))
	root := p.Finish()

	require.NotNil(t, p.AssistNode())
	assert.Empty(t, p.Problems())
	assert.Len(t, root.Find(func(n *Node) bool { return n.Kind == KindClassBody }).ChildrenOfKind(KindMethodDecl), 2)
}

func TestModuleCompletion(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind NodeKind
	}{
		{"module name", "module com.ex", KindCompleteOnModuleName},
		{"requires target", "module m { requires java.ba", KindCompleteOnModuleReference},
		{"exports package", "module m { exports com.ex", KindCompleteOnPackageReference},
		{"exports to", "module m { exports com.ex to other.mo", KindCompleteOnModuleReference},
		{"uses", "module m { uses com.Svc", KindCompleteOnUsesType},
		{"provides", "module m { provides com.Sv", KindCompleteOnProvidesInterface},
		{"provides with", "module m { provides com.Svc with com.Imp", KindCompleteOnProvidesImplementation},
		{"directive keyword", "module m { req", KindCompleteOnKeyword},
		{"to keyword", "module m { exports com.ex t", KindCompleteOnKeyword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, p := completeAtEnd(t, tt.src, WithFile("module-info.java"))
			require.NotNil(t, node, "no sentinel for %q", tt.src)
			assert.Equal(t, tt.kind, node.Kind)
			assert.Empty(t, p.Problems(), "%v", messages(p.Problems()))
		})
	}
}

func TestModuleSelection(t *testing.T) {
	src := "module app.core { requires java.sql; exports app.core.api to app.web; }"
	tests := []struct {
		text string
		kind NodeKind
	}{
		{"app.core", KindSelectOnModuleName},
		{"java.sql", KindSelectOnModuleReference},
		{"app.core.api", KindSelectOnPackageReference},
		{"app.web", KindSelectOnModuleReference},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			node, _, _ := selectText(t, src, tt.text, 0)
			require.NotNil(t, node)
			assert.Equal(t, tt.kind, node.Kind)
			assert.Equal(t, tt.text, node.Assist.Source)
		})
	}
}

func TestSelectionOnNameSegment(t *testing.T) {
	tests := []struct {
		name string
		src  string
		text string
		kind NodeKind
		// prefix is the name the sentinel keeps.
		prefix string
	}{
		{"import head", "import org.acme.geometry.Point;\nclass A {}", "org", KindSelectOnImport, "org"},
		{"import middle", "import org.acme.geometry.Point;\nclass A {}", "acme", KindSelectOnImport, "org.acme"},
		{"package middle", "package org.acme.tools;\nclass A {}", "acme", KindSelectOnPackage, "org.acme"},
		{"exports middle", "module m { exports org.acme.geometry; }", "acme", KindSelectOnPackageReference, "org.acme"},
		{"requires head", "module m { requires java.sql; }", "java", KindSelectOnModuleReference, "java"},
		{"type package", "class A { java.util.List l; }", "util", KindSelectOnQualifiedType, "java.util"},
		{"type head", "class A { java.util.List l; }", "java", KindSelectOnType, "java"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, start, end := selectText(t, tt.src, tt.text, 0)
			require.NotNil(t, node, "nothing selected by %q", tt.text)
			assert.Equal(t, tt.kind, node.Kind)
			assert.Equal(t, tt.src[start:end+1], node.Assist.Source)
			assert.Equal(t, tt.prefix, nameText(node))
		})
	}
}

func TestSelectionOnAnnotationElement(t *testing.T) {
	src := "@Deprecated(since = \"9\", forRemoval = true)\nclass A {}"
	node, start, end := selectText(t, src, "forRemoval", 0)
	require.NotNil(t, node)
	assert.Equal(t, KindSelectOnName, node.Kind)
	assert.Equal(t, "forRemoval", src[start:end+1])
	assert.Equal(t, "forRemoval", node.Assist.Identifier)
}
