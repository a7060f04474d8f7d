package parser

import (
	"strings"
	"testing"

	"github.com/dhamidi/javaparse/java/problem"
)

// parseSource runs a full parse of src and returns the tree and problems.
func parseSource(t *testing.T, src string, opts ...Option) (*Node, []*problem.Problem) {
	t.Helper()
	p := ParseCompilationUnit(strings.NewReader(src), opts...)
	node := p.Finish()
	if node == nil {
		t.Fatalf("nil tree for %q", src)
	}
	return node, p.Problems()
}

// parseClean parses src and fails the test on any problem.
func parseClean(t *testing.T, src string, opts ...Option) *Node {
	t.Helper()
	node, problems := parseSource(t, src, opts...)
	for _, pr := range problems {
		t.Errorf("%s: unexpected problem: %s", src, pr)
	}
	return node
}

func findNode(node *Node, kind NodeKind) *Node {
	return node.Find(func(n *Node) bool { return n.Kind == kind })
}

func messages(problems []*problem.Problem) []string {
	out := make([]string, len(problems))
	for i, pr := range problems {
		out[i] = pr.Message()
	}
	return out
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input string
		kind  NodeKind
	}{
		{"7", KindLiteral},
		{"name", KindIdentifier},
		{"a - b", KindBinaryExpr},
		{"a / b % c", KindBinaryExpr},
		{"~mask", KindUnaryExpr},
		{"--i", KindUnaryExpr},
		{"i--", KindPostfixExpr},
		{"ok ? 1 : 2", KindTernaryExpr},
		{"total += 3", KindAssignExpr},
		{"(a + b)", KindParenExpr},
		{"point.x", KindFieldAccess},
		{"list.size()", KindCallExpr},
		{"grid[1][2]", KindArrayAccess},
		{"new StringBuilder()", KindNewExpr},
		{"new String[] {}", KindNewArrayExpr},
		{"new long[4][]", KindNewArrayExpr},
		{"s -> s.trim()", KindLambdaExpr},
		{"() -> {}", KindLambdaExpr},
		{"(int a, int b) -> a * b", KindLambdaExpr},
		{"String::valueOf", KindMethodRef},
		{"int[]::new", KindMethodRef},
		{"List<String>::of", KindMethodRef},
		{"o instanceof Number", KindInstanceofExpr},
		{"o instanceof Number n", KindInstanceofExpr},
		{"(long) count", KindCastExpr},
		{"(Runnable & Serializable) r", KindCastExpr},
		{"Map.Entry.class", KindClassLiteral},
		{"byte[][].class", KindClassLiteral},
		{"void.class", KindClassLiteral},
		{"switch (d) { case 1 -> \"one\"; default -> \"many\"; }", KindSwitchExpr},
		{"this", KindThis},
		{"a < b", KindBinaryExpr},
		{"x >>> 2", KindBinaryExpr},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := ParseExpression(strings.NewReader(tt.input))
			node := p.Finish()
			if node.Kind != tt.kind {
				t.Errorf("got %v, want %v\n%s", node.Kind, tt.kind, node)
			}
			for _, pr := range p.Problems() {
				t.Errorf("unexpected problem: %s", pr)
			}
		})
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		// op is the operator at the root of the tree.
		op string
	}{
		{"a + b * c", "+"},
		{"a * b + c", "+"},
		{"a || b && c", "||"},
		{"a & b == c", "&"},
		{"a << 1 < b", "<"},
		{"a - b - c", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := ParseExpression(strings.NewReader(tt.input)).Finish()
			if node.Kind != KindBinaryExpr {
				t.Fatalf("got %v, want BinaryExpr", node.Kind)
			}
			if got := node.Children[1].TokenLiteral(); got != tt.op {
				t.Errorf("root operator: got %q, want %q\n%s", got, tt.op, node)
			}
		})
	}
}

func TestLeftAssociativeSubtraction(t *testing.T) {
	node := ParseExpression(strings.NewReader("a - b - c")).Finish()
	left := node.Children[0]
	if left.Kind != KindBinaryExpr {
		t.Fatalf("left operand: got %v, want BinaryExpr", left.Kind)
	}
	if got := node.Children[2].TokenLiteral(); got != "c" {
		t.Errorf("right operand: got %q, want c", got)
	}
}

func TestParseCompilationUnit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty class", "class Empty {}"},
		{"package and imports", "package org.acme.tools;\nimport java.io.*;\nimport static java.lang.Math.max;\nclass T {}"},
		{"module import", "import module java.sql;\nclass Db {}"},
		{"fields", "class P { private final int x = 1, y; static String[] names; }"},
		{"methods", "class P { int twice(int n) { return n * 2; } abstract void run() throws IOException, Error; }"},
		{"constructor", "public class P { public P(String s) { super(); } }"},
		{"generic bounds", "class Box<T extends Comparable<? super T>> implements Supplier<T> {}"},
		{"interface with default", "interface Shape { double area(); default String name() { return \"shape\"; } }"},
		{"enum with bodies", "enum Op { PLUS { int apply(int a, int b) { return a + b; } }; abstract int apply(int a, int b); }"},
		{"enum with fields", "enum Planet { EARTH(5.97e24), MARS(6.42e23); final double mass; Planet(double m) { mass = m; } }"},
		{"record", "record Range(int lo, int hi) implements Comparable<Range> {}"},
		{"annotation type", "@interface Retry { int times() default 3; String[] on() default {}; }"},
		{"sealed hierarchy", "sealed interface Expr permits Num, Add {} final class Num implements Expr {} non-sealed class Add implements Expr {}"},
		{"annotated declaration", "@SuppressWarnings({\"a\", \"b\"}) @Deprecated(since = \"9\") public final class Old {}"},
		{"nested types", "class Outer { static class A {} interface B {} enum C { X } record D() {} }"},
		{"initializers", "class I { static { init(); } { count++; } }"},
		{"varargs", "class V { void log(String fmt, Object... args) {} }"},
		{"generic method", "class G { static <K, V extends Number> Map<K, V> empty() { return null; } }"},
		{"stray semicolons", "class S {};;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := parseClean(t, tt.input, WithFile("Test.java"))
			if node.Kind != KindCompilationUnit {
				t.Errorf("got %v, want CompilationUnit", node.Kind)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"if else chain", "if (a) x(); else if (b) y(); else { z(); }"},
		{"classic for", "for (int i = 0, j = 10; i < j; i++, j--) {}"},
		{"empty for", "for (;;) break;"},
		{"for each", "for (final String s : args) {}"},
		{"while", "while (it.hasNext()) it.next();"},
		{"do while", "do { n--; } while (n > 0);"},
		{"old switch", "switch (c) { case 'a': case 'b': n++; break; default: }"},
		{"arrow switch", "switch (c) { case 1, 2 -> a(); default -> { b(); } }"},
		{"type pattern switch", "switch (o) { case Integer i when i > 0 -> a(); case String s -> b(); default -> c(); }"},
		{"record pattern switch", "switch (o) { case Pair(var l, Pair(int a, int b)) -> a(); default -> {} }"},
		{"switch null case", "switch (o) { case null, default -> {} }"},
		{"yield", "int r = switch (k) { case 1: yield 10; default: { yield 0; } };"},
		{"try catch finally", "try { a(); } catch (IOException | RuntimeException e) { b(); } finally { c(); }"},
		{"try resources", "try (var in = open(); Reader r = in.reader()) {}"},
		{"try resource reference", "try (this.stream) {}"},
		{"throw", "throw new IllegalStateException(\"bad\");"},
		{"assert with message", "assert n > 0 : \"positive\";"},
		{"synchronized", "synchronized (lock) { n++; }"},
		{"labels", "outer: for (;;) { inner: while (true) { continue outer; } }"},
		{"local record", "record Pt(int x) {} Pt p = new Pt(1);"},
		{"local class", "final class Helper { }"},
		{"generic local", "Map<String, List<Integer>> m = new HashMap<>();"},
		{"array local", "int[] a = {1, 2, 3}, b[] = {{}};"},
		{"empty statement", ";"},
		{"nested block", "{ { } }"},
		{"lambda statement", "Runnable r = () -> System.out.println(\"hi\");"},
		{"anonymous class", "Object o = new Object() { public String toString() { return \"\"; } };"},
		{"qualified this", "Outer.this.run();"},
		{"generic call", "Collections.<String>emptyList();"},
		{"class literal call", "if (String.class.isInstance(x)) {}"},
		{"cast then call", "((Runnable) r).run();"},
		{"instanceof pattern", "if (o instanceof String s && !s.isEmpty()) {}"},
		{"text block", "String q = \"\"\"\n    select 1\n    \"\"\";"},
		{"ternary lambda", "Supplier<String> s = ok ? () -> \"a\" : () -> \"b\";"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseClean(t, "class T { void m() { "+tt.body+" } }")
		})
	}
}

func TestParseContextualKeywords(t *testing.T) {
	words := []string{"requires", "exports", "opens", "uses", "provides", "to", "with", "transitive", "module", "open", "permits", "sealed", "when", "record", "yield"}
	for _, w := range words {
		t.Run(w, func(t *testing.T) {
			parseClean(t, "class T { int "+w+"; void m() { String "+w+" = get(); use("+w+"); } }")
		})
	}
}

func TestParseTemplates(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"string template", `STR."Hello \{name}!"`},
		{"text block template", "STR.\"\"\"\n  \\{a} and \\{b}\n  \"\"\""},
		{"template expression", `FMT."%d\{x + y}"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Source = Java21
			opts.EnablePreview = true
			p := ParseExpression(strings.NewReader(tt.input), WithOptions(opts))
			node := p.Finish()
			if node.Kind != KindTemplateExpr {
				t.Errorf("got %v, want TemplateExpr\n%s", node.Kind, node)
			}
			for _, pr := range p.Problems() {
				if pr.IsError() {
					t.Errorf("unexpected error: %s", pr)
				}
			}
		})
	}
}

func TestTemplateWithoutEmbeddedExpression(t *testing.T) {
	p := ParseExpression(strings.NewReader(`STR."plain"`))
	node := p.Finish()
	if node.Kind != KindTemplateExpr {
		t.Errorf("got %v, want TemplateExpr", node.Kind)
	}
	lit := findNode(node, KindLiteral)
	if lit == nil || lit.Constant == nil || lit.Constant.Value() != "plain" {
		t.Errorf("template literal constant not decoded:\n%s", node)
	}
}

func TestCompactCompilationUnit(t *testing.T) {
	tests := []string{
		"void main() { System.out.println(\"hi\"); }",
		"import java.util.*;\nvoid main() {}",
		"final int limit = 3;\nvoid main() {}",
		"void main() {}\nrecord Pair(int a, int b) {}",
		"String greet(String n) { return n; }\nvoid main(String[] args) { greet(\"x\"); }",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			node := parseClean(t, input)
			if findNode(node, KindMethodDecl) == nil {
				t.Errorf("no method declaration in\n%s", node)
			}
		})
	}
}

func TestUnnamedVariables(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"local", "var _ = compute();"},
		{"for each", "for (var _ : items) {}"},
		{"catch", "try {} catch (Exception _) {}"},
		{"lambda", "BiFunction<A, B, C> f = (_, _) -> null;"},
		{"resource", "try (var _ = open()) {}"},
		{"pattern", "if (o instanceof Point(int x, _)) {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := parseClean(t, "class T { void m() { "+tt.body+" } }")
			if findNode(node, KindUnnamedVariable) == nil && findNode(node, KindMatchAllPattern) == nil {
				t.Errorf("no unnamed variable in\n%s", node)
			}
		})
	}
}

func TestReceiverParameter(t *testing.T) {
	for _, input := range []string{
		"class T { void m(T this) {} }",
		"class T { void m(@A T this, int n) {} }",
		"class O { class I { I(O O.this) {} } }",
	} {
		t.Run(input, func(t *testing.T) {
			node := parseClean(t, input)
			if findNode(node, KindReceiverParameter) == nil {
				t.Errorf("no receiver parameter in\n%s", node)
			}
		})
	}
}

func TestExplicitConstructorInvocation(t *testing.T) {
	for _, input := range []string{
		"class T { T() { this(0); } T(int n) {} }",
		"class T extends B { T() { super(1, 2); } }",
		"class T { T() { <String>this(\"\"); } T(String s) {} }",
		"class T extends O.N { T(O o) { o.super(); } }",
		"class T extends O.N { T(O o) { o.<X>super(); } }",
	} {
		t.Run(input, func(t *testing.T) {
			node := parseClean(t, input)
			if findNode(node, KindExplicitConstructorInvocation) == nil {
				t.Errorf("no explicit constructor invocation in\n%s", node)
			}
		})
	}
}

func TestTypeAnnotationsOnDimensions(t *testing.T) {
	for _, input := range []string{
		"class T { int @A [] a; }",
		"class T { String @A [] @B [] m() { return null; } }",
		"class T { void m(@A int @B [] ... xs) {} }",
		"class T { void m() { Object o = new int @A [3]; } }",
	} {
		t.Run(input, func(t *testing.T) {
			parseClean(t, input)
		})
	}
}

func TestDiamondOperator(t *testing.T) {
	tests := []struct {
		input     string
		wantEmpty bool
	}{
		{"class T { List<String> xs = new ArrayList<>(); }", true},
		{"class T { List<String> xs = new ArrayList<String>(); }", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := parseClean(t, tt.input)
			newExpr := findNode(node, KindNewExpr)
			if newExpr == nil {
				t.Fatal("no NewExpr")
			}
			args := findNode(newExpr, KindTypeArguments)
			if args == nil {
				t.Fatal("no TypeArguments")
			}
			if got := len(args.Children) == 0; got != tt.wantEmpty {
				t.Errorf("empty type arguments = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestTypeDeclarationClauses(t *testing.T) {
	tests := []struct {
		input      string
		extends    bool
		implements bool
		permits    bool
	}{
		{"class A extends B {}", true, false, false},
		{"class A implements R, S {}", false, true, false},
		{"sealed class A extends B implements R permits C {} final class C extends A {}", true, true, true},
		{"interface I extends J, K {}", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := parseClean(t, tt.input)
			decl := node.Children[0]
			if got := decl.FirstChildOfKind(KindExtendsClause) != nil; got != tt.extends {
				t.Errorf("extends = %v, want %v", got, tt.extends)
			}
			if got := decl.FirstChildOfKind(KindImplementsClause) != nil; got != tt.implements {
				t.Errorf("implements = %v, want %v", got, tt.implements)
			}
			if got := decl.FirstChildOfKind(KindPermitsClause) != nil; got != tt.permits {
				t.Errorf("permits = %v, want %v", got, tt.permits)
			}
		})
	}
}

func TestRecordConstructors(t *testing.T) {
	tests := []struct {
		input string
		kind  NodeKind
	}{
		{"record R(int a) { R { if (a < 0) throw new IllegalArgumentException(); } }", KindCompactConstructorDecl},
		{"record R(int a) { R(int a) { this.a = a; } }", KindConstructorDecl},
		{"record R(int a) { public R { } static R of() { return new R(0); } }", KindCompactConstructorDecl},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := parseClean(t, tt.input)
			if findNode(node, tt.kind) == nil {
				t.Errorf("no %v in\n%s", tt.kind, node)
			}
		})
	}
}

func TestPositionTracking(t *testing.T) {
	input := "class A {\n  int f;\n}"
	node := parseClean(t, input, WithFile("A.java"))

	if node.Span.Start.Line != 1 || node.Span.Start.Column != 1 {
		t.Errorf("unit starts at %s, want 1:1", node.Span.Start)
	}
	field := findNode(node, KindFieldDecl)
	if field == nil {
		t.Fatal("no field")
	}
	if field.Span.Start.Line != 2 || field.Span.Start.Column != 3 {
		t.Errorf("field starts at %s, want 2:3", field.Span.Start)
	}
	if got := input[field.Span.Start.Offset:field.Span.End.Offset]; got != "int f;" {
		t.Errorf("field source: got %q", got)
	}
}

func TestJavadocAttachment(t *testing.T) {
	input := "/** Docs. */\nclass A {\n  /** Field. */ int f;\n  /* plain */ void m() {}\n}"
	node := parseClean(t, input)

	class := findNode(node, KindClassDecl)
	if class.Javadoc == nil {
		t.Fatal("class has no javadoc")
	}
	if got := input[class.Javadoc.Start.Offset:class.Javadoc.End.Offset]; got != "/** Docs. */" {
		t.Errorf("class javadoc: got %q", got)
	}
	if findNode(node, KindFieldDecl).Javadoc == nil {
		t.Error("field has no javadoc")
	}
	if findNode(node, KindMethodDecl).Javadoc != nil {
		t.Error("block comment attached as javadoc")
	}
}

func TestComments(t *testing.T) {
	input := "// one\nclass A { /* two */ }"
	p := ParseCompilationUnit(strings.NewReader(input), WithComments())
	p.Finish()
	if got := len(p.Comments()); got != 2 {
		t.Errorf("got %d comments, want 2", got)
	}

	p = ParseCompilationUnit(strings.NewReader(input))
	p.Finish()
	if got := len(p.Comments()); got != 0 {
		t.Errorf("comments without WithComments: got %d, want 0", got)
	}
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1 + 2", true},
		{"1 +", false},
		{"foo(a, ", false},
		{"", false},
		{"x -> x", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseExpression(strings.NewReader(tt.input)).IsComplete(); got != tt.want {
				t.Errorf("IsComplete = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReset(t *testing.T) {
	p := ParseCompilationUnit(strings.NewReader("class A {"))
	p.Finish()
	if len(p.Problems()) == 0 {
		t.Fatal("expected problems for unterminated class")
	}

	p.Reset(strings.NewReader("class B {}"))
	node := p.Finish()
	if len(p.Problems()) != 0 {
		t.Errorf("problems after reset: %v", messages(p.Problems()))
	}
	if name := findNode(node, KindIdentifier); name == nil || name.TokenLiteral() != "B" {
		t.Errorf("reset parse did not see the new input:\n%s", node)
	}
}

func TestReporterReceivesProblems(t *testing.T) {
	var seen []*problem.Problem
	r := problem.ReporterFunc(func(pr *problem.Problem) { seen = append(seen, pr) })

	p := ParseCompilationUnit(strings.NewReader("class A { int x }"), WithReporter(r))
	p.Finish()

	if len(seen) == 0 || len(seen) != len(p.Problems()) {
		t.Errorf("reporter saw %d problems, parser collected %d", len(seen), len(p.Problems()))
	}
}

func TestProblemsCarryUnitName(t *testing.T) {
	_, problems := parseSource(t, "class A { int x }", WithFile("src/pkg/A.java"))
	if len(problems) == 0 {
		t.Fatal("no problems")
	}
	if got := problems[0].Unit; got != "A.java" {
		t.Errorf("unit: got %q, want A.java", got)
	}
}
