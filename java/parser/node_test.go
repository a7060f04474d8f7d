package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "CompilationUnit", KindCompilationUnit.String())
	assert.Equal(t, "CompleteOnName", KindCompleteOnName.String())
	assert.Equal(t, "SelectOnPackageReference", KindSelectOnPackageReference.String())
	assert.Equal(t, "Unknown", NodeKind(9999).String())
}

func TestSentinelKinds(t *testing.T) {
	assert.True(t, KindCompleteOnName.IsCompletion())
	assert.True(t, KindCompleteOnProvidesImplementation.IsCompletion())
	assert.False(t, KindSelectOnName.IsCompletion())

	assert.True(t, KindSelectOnName.IsSelection())
	assert.True(t, KindSelectionOnLocalName.IsSelection())
	assert.False(t, KindCompleteOnKeyword.IsSelection())

	for _, k := range []NodeKind{KindCompleteOnType, KindSelectOnImport} {
		assert.True(t, k.IsSentinel(), k.String())
	}
	for _, k := range []NodeKind{KindError, KindIdentifier, KindCallExpr} {
		assert.False(t, k.IsSentinel(), k.String())
	}
}

func TestNodeChildren(t *testing.T) {
	field := &Node{Kind: KindFieldDecl}
	m1 := &Node{Kind: KindMethodDecl, Token: &Token{Literal: "m1"}}
	m2 := &Node{Kind: KindMethodDecl, Token: &Token{Literal: "m2"}}

	body := &Node{Kind: KindClassBody}
	body.AddChild(field)
	body.AddChild(nil)
	body.AddChild(m1)
	body.AddChild(m2)

	require.Len(t, body.Children, 3, "nil children are dropped")
	assert.Same(t, m1, body.FirstChildOfKind(KindMethodDecl))
	assert.Equal(t, []*Node{m1, m2}, body.ChildrenOfKind(KindMethodDecl))
	assert.Nil(t, body.FirstChildOfKind(KindConstructorDecl))
	assert.Empty(t, body.ChildrenOfKind(KindInitializer))

	init := &Node{Kind: KindInitializer}
	assert.True(t, body.ReplaceChild(field, init))
	assert.Same(t, init, body.Children[0])
	assert.False(t, body.ReplaceChild(field, init), "field is no longer a child")

	assert.Equal(t, "m2", m2.TokenLiteral())
	assert.Equal(t, "", body.TokenLiteral())
}

func TestNodeWalkAndFind(t *testing.T) {
	root := parseClean(t, "class A { void f() { g(1); } void h() { k(); } }")

	var order []NodeKind
	root.Walk(func(n *Node) bool {
		order = append(order, n.Kind)
		return n.Kind != KindMethodDecl
	})
	assert.NotContains(t, order, KindCallExpr, "returning false prunes the subtree")
	assert.Equal(t, KindCompilationUnit, order[0])

	call := root.Find(func(n *Node) bool { return n.Kind == KindCallExpr })
	require.NotNil(t, call)
	assert.Contains(t, call.String(), "g")

	path := root.Path(call)
	require.NotEmpty(t, path)
	assert.Same(t, root, path[0])
	assert.Same(t, call, path[len(path)-1])
	assert.Nil(t, root.Path(&Node{}))

	var nilNode *Node
	nilNode.Walk(func(*Node) bool {
		t.Fatal("walked a nil node")
		return true
	})
}

func TestNodeString(t *testing.T) {
	root := parseClean(t, "class A {}")
	assert.Equal(t, "CompilationUnit\n  ClassDecl\n    Modifiers\n    Identifier A\n    ClassBody\n", root.String())

	withPos := root.StringWithPositions()
	assert.Contains(t, withPos, "ClassDecl [1:1-1:11]\n")
	assert.Contains(t, withPos, "Identifier [1:7-1:8] A")
}

func TestNodeStringShowsErrorsAndAssist(t *testing.T) {
	n := &Node{Kind: KindError, Error: &Error{Message: "unexpected )"}}
	assert.Equal(t, "Error ERROR: unexpected )\n", n.String())
	assert.True(t, n.IsError())

	s := &Node{Kind: KindCompleteOnName, Assist: &Assist{Identifier: "fo"}}
	assert.Equal(t, "CompleteOnName <fo>\n", s.String())
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "3:14", Position{Line: 3, Column: 14}.String())
}
