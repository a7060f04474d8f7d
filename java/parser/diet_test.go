package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javaparse/java/problem"
)

const dietSource = `class A {
  int f() { return 1 +; }
  A() { this(1); }
  A(int n) { }
  static { init(); }
  Runnable r = new Runnable() { public void run() { go(); } };
}
`

func unparsedBlocks(root *Node) []*Node {
	var out []*Node
	root.Walk(func(n *Node) bool {
		if n.Kind == KindBlock && n.Unparsed {
			out = append(out, n)
		}
		return true
	})
	return out
}

func TestDietSkipsBodies(t *testing.T) {
	p := ParseCompilationUnit(strings.NewReader(dietSource), WithDiet())
	root := p.Finish()

	assert.Empty(t, p.Problems(), "errors inside skipped bodies are not reported: %v", messages(p.Problems()))
	blocks := unparsedBlocks(root)
	assert.Len(t, blocks, 5)
	for _, b := range blocks {
		assert.Empty(t, b.Children)
		src := dietSource[b.Span.Start.Offset:b.Span.End.Offset]
		assert.True(t, strings.HasPrefix(src, "{") && strings.HasSuffix(src, "}"), "body span %q", src)
	}
	assert.Contains(t, root.String(), "(unparsed)")
}

func TestParseBodies(t *testing.T) {
	p := ParseCompilationUnit(strings.NewReader(dietSource), WithDiet())
	root := p.Finish()
	p.ParseBodies(root)

	assert.Empty(t, unparsedBlocks(root))
	require.Len(t, p.Problems(), 1, "%v", messages(p.Problems()))
	assert.Equal(t, problem.ParsingErrorInsertTokenAfter, p.Problems()[0].ID)

	assert.NotNil(t, findNode(root, KindReturnStmt))
	assert.NotNil(t, findNode(root, KindExplicitConstructorInvocation))
	calls := 0
	root.Walk(func(n *Node) bool {
		if n.Kind == KindCallExpr {
			calls++
		}
		return true
	})
	assert.Equal(t, 2, calls, "init() and go()")
}

func TestParseBodiesMatchesFullParse(t *testing.T) {
	src := "class B { int sum(int[] xs) { int s = 0; for (int x : xs) s += x; return s; } }"

	full := parseClean(t, src)

	p := ParseCompilationUnit(strings.NewReader(src), WithDiet())
	diet := p.Finish()
	p.ParseBodies(diet)

	assert.Empty(t, p.Problems())
	assert.Equal(t, full.String(), diet.String())
}

func TestParseMethodBody(t *testing.T) {
	p := ParseCompilationUnit(strings.NewReader(dietSource), WithDiet())
	root := p.Finish()

	ctors := root.Find(func(n *Node) bool { return n.Kind == KindClassBody }).ChildrenOfKind(KindConstructorDecl)
	require.Len(t, ctors, 2)

	body := p.ParseMethodBody(ctors[0])
	require.NotNil(t, body)
	assert.False(t, body.Unparsed)
	assert.Same(t, body, ctors[0].FirstChildOfKind(KindBlock))
	assert.NotNil(t, body.FirstChildOfKind(KindExplicitConstructorInvocation))

	again := p.ParseMethodBody(ctors[0])
	assert.Same(t, body, again, "a parsed body is returned as is")

	assert.True(t, ctors[1].FirstChildOfKind(KindBlock).Unparsed, "other bodies stay skipped")
	assert.Empty(t, p.Problems())
}

func TestParseMethodBodyWithoutBody(t *testing.T) {
	p := ParseCompilationUnit(strings.NewReader("abstract class A { abstract void f(); }"), WithDiet())
	root := p.Finish()
	assert.Nil(t, p.ParseMethodBody(findNode(root, KindMethodDecl)))
	assert.Nil(t, p.ParseMethodBody(nil))
}

func TestDietUnterminatedBody(t *testing.T) {
	src := "class A { void f() { if (x) {"
	_, problems := parseSource(t, src, WithDiet())

	require.Len(t, problems, 2, "%v", messages(problems))
	assert.Equal(t, `Syntax error, insert "}" to complete ClassBody`, problems[0].Message())
	assert.Equal(t, `Syntax error, insert "}" to complete MethodBody`, problems[1].Message())
	assert.Equal(t, strings.Index(src, "{ if"), problems[1].Start)
}
