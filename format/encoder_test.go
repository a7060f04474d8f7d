package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javaparse/java/parser"
)

func newTestUnit(t *testing.T, name, src string) *Unit {
	t.Helper()
	p := parser.ParseCompilationUnit(strings.NewReader(src), parser.WithFile(name))
	root := p.Finish()
	require.NotNil(t, root)
	return NewUnit(name, p, root)
}

func TestEncodersImplementEncoder(t *testing.T) {
	var buf bytes.Buffer
	for _, enc := range []Encoder{
		NewJSONEncoder(&buf),
		NewJavaEncoder(&buf),
		NewTreeEncoder(&buf, false),
		NewLineEncoder(&buf),
	} {
		assert.NotNil(t, enc)
	}
}

func TestJSONEncoder(t *testing.T) {
	t.Run("clean unit", func(t *testing.T) {
		var buf bytes.Buffer
		unit := newTestUnit(t, "A.java", `class A { String s = "x" + "y"; }`)
		require.NoError(t, NewJSONEncoder(&buf).Encode(unit))
		assert.True(t, strings.HasSuffix(buf.String(), "}\n"))

		var decoded struct {
			Name     string `json:"name"`
			Complete bool   `json:"complete"`
			Errors   int    `json:"errors"`
			Tree     struct {
				Kind     string            `json:"kind"`
				Children []json.RawMessage `json:"children"`
			} `json:"tree"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "A.java", decoded.Name)
		assert.True(t, decoded.Complete)
		assert.Zero(t, decoded.Errors)
		assert.Equal(t, "CompilationUnit", decoded.Tree.Kind)
		assert.Len(t, decoded.Tree.Children, 1)
		assert.Contains(t, buf.String(), `"value": "xy"`)
	})

	t.Run("unit with errors", func(t *testing.T) {
		unit := newTestUnit(t, "B.java", "class B { int x = ; }")
		var buf bytes.Buffer
		require.NoError(t, NewJSONEncoder(&buf).Encode(unit))
		text := buf.Bytes()

		var decoded struct {
			Complete bool `json:"complete"`
			Errors   int  `json:"errors"`
			Problems []struct {
				Severity string `json:"severity"`
				Line     int    `json:"line"`
				Message  string `json:"message"`
			} `json:"problems"`
		}
		require.NoError(t, json.Unmarshal(text, &decoded))
		assert.False(t, decoded.Complete)
		assert.Positive(t, decoded.Errors)
		require.NotEmpty(t, decoded.Problems)
		assert.Equal(t, "ERROR", decoded.Problems[0].Severity)
		assert.Equal(t, 1, decoded.Problems[0].Line)
		assert.NotEmpty(t, decoded.Problems[0].Message)
	})
}

func TestJavaEncoder(t *testing.T) {
	t.Run("clean unit", func(t *testing.T) {
		var buf bytes.Buffer
		unit := newTestUnit(t, "A.java", "class A { void f() { } }")
		require.NoError(t, NewJavaEncoder(&buf).Encode(unit))
		assert.Equal(t, "class A {\n  void f() {}\n}\n", buf.String())
	})

	t.Run("problems follow the rendering", func(t *testing.T) {
		var buf bytes.Buffer
		unit := newTestUnit(t, "B.java", "class B { int x = ; }")
		require.NoError(t, NewJavaEncoder(&buf).Encode(unit))

		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "class B {\n  int x = $missing$;\n}\n"), out)
		assert.Contains(t, out, "----------\n1. ERROR in B.java (at line 1)\n")
		assert.Contains(t, out, "class B { int x = ; }\n")
		assert.True(t, strings.HasSuffix(out, "----------\n"))
	})
}

func TestTreeEncoder(t *testing.T) {
	unit := newTestUnit(t, "A.java", "class A {}")

	var plain bytes.Buffer
	require.NoError(t, NewTreeEncoder(&plain, false).Encode(unit))
	assert.Equal(t, unit.Root.String(), plain.String())
	assert.Contains(t, plain.String(), "ClassDecl")

	var positioned bytes.Buffer
	require.NoError(t, NewTreeEncoder(&positioned, true).Encode(unit))
	assert.Equal(t, unit.Root.StringWithPositions(), positioned.String())
}

func TestLineEncoder(t *testing.T) {
	tests := []struct {
		name string
		file string
		src  string
		want string
	}{
		{
			name: "class members",
			file: "Shop.java",
			src: `package com.shop;
public class Shop {
	private final int count, limit[];
	public static <T> T pick(java.util.List<T> items, int... idx) { return null; }
	Shop(String name) {}
	static class Item {}
}`,
			want: "package\tcom.shop\n" +
				"class\tShop\tpublic\n" +
				"field\tShop.count\tint\tprivate,final\n" +
				"field\tShop.limit\tint\tprivate,final\n" +
				"method\tShop.pick\tT\tjava.util.List<T>,int...\tpublic,static\n" +
				"constructor\tShop.Shop\tString\t-\n" +
				"class\tShop.Item\tstatic\n",
		},
		{
			name: "enum constants",
			file: "Color.java",
			src:  "enum Color { RED, GREEN; int rgb() { return 0; } }",
			want: "enum\tColor\t-\n" +
				"constant\tColor.RED\tColor\n" +
				"constant\tColor.GREEN\tColor\n" +
				"method\tColor.rgb\tint\t-\t-\n",
		},
		{
			name: "record",
			file: "Point.java",
			src:  "record Point(int x, int y) { Point {} }",
			want: "record\tPoint\t-\n" +
				"constructor\tPoint.Point\t-\t-\n",
		},
		{
			name: "module",
			file: "module-info.java",
			src:  "module app { requires static transitive base; exports app.api to web; provides S with I; }",
			want: "module\tapp\n" +
				"requires\ttransitive static base\n" +
				"exports\tapp.api to web\n" +
				"provides\tS with I\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewLineEncoder(&buf).Encode(newTestUnit(t, tt.file, tt.src)))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestDiff(t *testing.T) {
	assert.Empty(t, Diff("a\nb\n", "a\nb\n"))

	got := Diff("class A {\n  int x;\n}\n", "class A {\n  long x;\n}\n")
	assert.Equal(t, " class A {\n-  int x;\n+  long x;\n }\n", got)
}
