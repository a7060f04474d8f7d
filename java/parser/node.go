package parser

import (
	"strconv"
	"strings"
)

type NodeKind int

const (
	KindError NodeKind = iota

	// Compilation unit level
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl
	KindModuleImportDecl

	// Type declarations
	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindRecordDecl
	KindAnnotationDecl
	KindModuleDecl
	KindRequiresDirective
	KindExportsDirective
	KindOpensDirective
	KindUsesDirective
	KindProvidesDirective

	// Members
	KindClassBody
	KindFieldDecl
	KindMethodDecl
	KindConstructorDecl
	KindCompactConstructorDecl
	KindInitializer
	KindEnumConstant
	KindReceiverParameter
	KindExplicitConstructorInvocation

	// Type and modifiers
	KindModifiers
	KindTypeParameters
	KindTypeParameter
	KindTypeArguments
	KindTypeArgument
	KindType
	KindArrayType
	KindDimension
	KindParameterizedType
	KindWildcard
	KindAnnotation
	KindAnnotationElement

	// Type clauses (for class/interface declarations)
	KindExtendsClause
	KindImplementsClause
	KindPermitsClause

	// Method components
	KindParameters
	KindParameter
	KindThrowsList

	// Statements
	KindBlock
	KindEmptyStmt
	KindExprStmt
	KindIfStmt
	KindForStmt
	KindForInit
	KindForUpdate
	KindEnhancedForStmt
	KindWhileStmt
	KindDoStmt
	KindSwitchStmt
	KindSwitchCase
	KindSwitchLabel
	KindPatternVariable
	KindRecordPattern
	KindMatchAllPattern
	KindUnnamedVariable
	KindGuard
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindThrowStmt
	KindTryStmt
	KindCatchClause
	KindFinallyClause
	KindSynchronizedStmt
	KindAssertStmt
	KindLabeledStmt
	KindLocalVarDecl
	KindLocalClassDecl
	KindYieldStmt

	// Expressions
	KindAssignExpr
	KindTernaryExpr
	KindBinaryExpr
	KindUnaryExpr
	KindPostfixExpr
	KindCastExpr
	KindInstanceofExpr
	KindCallExpr
	KindMethodRef
	KindFieldAccess
	KindArrayAccess
	KindNewExpr
	KindNewArrayExpr
	KindArrayInit
	KindLambdaExpr
	KindParenExpr
	KindLiteral
	KindIdentifier
	KindQualifiedName
	KindThis
	KindSuper
	KindClassLiteral
	KindSwitchExpr
	KindTemplateExpr

	// Comments
	KindComment
	KindLineComment

	// Completion sentinels
	KindCompleteOnName
	KindCompleteOnQualifiedName
	KindCompleteOnMemberAccess
	KindCompleteOnMessageSend
	KindCompleteOnAllocationExpression
	KindCompleteOnType
	KindCompleteOnQualifiedType
	KindCompleteOnLocalName
	KindCompleteOnArgumentName
	KindCompleteOnImport
	KindCompleteOnPackage
	KindCompleteOnKeyword
	KindCompleteOnModuleName
	KindCompleteOnModuleReference
	KindCompleteOnPackageReference
	KindCompleteOnUsesType
	KindCompleteOnProvidesInterface
	KindCompleteOnProvidesImplementation

	// Selection sentinels
	KindSelectOnName
	KindSelectOnQualifiedName
	KindSelectOnFieldReference
	KindSelectOnMessageSend
	KindSelectOnAllocationExpression
	KindSelectOnType
	KindSelectOnQualifiedType
	KindSelectionOnLocalName
	KindSelectOnArgumentName
	KindSelectOnFieldName
	KindSelectOnMethodName
	KindSelectOnTypeName
	KindSelectOnImport
	KindSelectOnPackage
	KindSelectOnModuleName
	KindSelectOnModuleReference
	KindSelectOnPackageReference
)

var nodeKindNames = map[NodeKind]string{
	KindError:                            "Error",
	KindCompilationUnit:                  "CompilationUnit",
	KindPackageDecl:                      "PackageDecl",
	KindImportDecl:                       "ImportDecl",
	KindModuleImportDecl:                 "ModuleImportDecl",
	KindClassDecl:                        "ClassDecl",
	KindInterfaceDecl:                    "InterfaceDecl",
	KindEnumDecl:                         "EnumDecl",
	KindRecordDecl:                       "RecordDecl",
	KindAnnotationDecl:                   "AnnotationDecl",
	KindModuleDecl:                       "ModuleDecl",
	KindRequiresDirective:                "RequiresDirective",
	KindExportsDirective:                 "ExportsDirective",
	KindOpensDirective:                   "OpensDirective",
	KindUsesDirective:                    "UsesDirective",
	KindProvidesDirective:                "ProvidesDirective",
	KindClassBody:                        "ClassBody",
	KindFieldDecl:                        "FieldDecl",
	KindMethodDecl:                       "MethodDecl",
	KindConstructorDecl:                  "ConstructorDecl",
	KindCompactConstructorDecl:           "CompactConstructorDecl",
	KindInitializer:                      "Initializer",
	KindEnumConstant:                     "EnumConstant",
	KindReceiverParameter:                "ReceiverParameter",
	KindExplicitConstructorInvocation:    "ExplicitConstructorInvocation",
	KindModifiers:                        "Modifiers",
	KindTypeParameters:                   "TypeParameters",
	KindTypeParameter:                    "TypeParameter",
	KindTypeArguments:                    "TypeArguments",
	KindTypeArgument:                     "TypeArgument",
	KindType:                             "Type",
	KindArrayType:                        "ArrayType",
	KindDimension:                        "Dimension",
	KindParameterizedType:                "ParameterizedType",
	KindWildcard:                         "Wildcard",
	KindAnnotation:                       "Annotation",
	KindAnnotationElement:                "AnnotationElement",
	KindExtendsClause:                    "ExtendsClause",
	KindImplementsClause:                 "ImplementsClause",
	KindPermitsClause:                    "PermitsClause",
	KindParameters:                       "Parameters",
	KindParameter:                        "Parameter",
	KindThrowsList:                       "ThrowsList",
	KindBlock:                            "Block",
	KindEmptyStmt:                        "EmptyStmt",
	KindExprStmt:                         "ExprStmt",
	KindIfStmt:                           "IfStmt",
	KindForStmt:                          "ForStmt",
	KindForInit:                          "ForInit",
	KindForUpdate:                        "ForUpdate",
	KindEnhancedForStmt:                  "EnhancedForStmt",
	KindWhileStmt:                        "WhileStmt",
	KindDoStmt:                           "DoStmt",
	KindSwitchStmt:                       "SwitchStmt",
	KindSwitchCase:                       "SwitchCase",
	KindSwitchLabel:                      "SwitchLabel",
	KindPatternVariable:                  "PatternVariable",
	KindRecordPattern:                    "RecordPattern",
	KindMatchAllPattern:                  "MatchAllPattern",
	KindUnnamedVariable:                  "UnnamedVariable",
	KindGuard:                            "Guard",
	KindReturnStmt:                       "ReturnStmt",
	KindBreakStmt:                        "BreakStmt",
	KindContinueStmt:                     "ContinueStmt",
	KindThrowStmt:                        "ThrowStmt",
	KindTryStmt:                          "TryStmt",
	KindCatchClause:                      "CatchClause",
	KindFinallyClause:                    "FinallyClause",
	KindSynchronizedStmt:                 "SynchronizedStmt",
	KindAssertStmt:                       "AssertStmt",
	KindLabeledStmt:                      "LabeledStmt",
	KindLocalVarDecl:                     "LocalVarDecl",
	KindLocalClassDecl:                   "LocalClassDecl",
	KindYieldStmt:                        "YieldStmt",
	KindAssignExpr:                       "AssignExpr",
	KindTernaryExpr:                      "TernaryExpr",
	KindBinaryExpr:                       "BinaryExpr",
	KindUnaryExpr:                        "UnaryExpr",
	KindPostfixExpr:                      "PostfixExpr",
	KindCastExpr:                         "CastExpr",
	KindInstanceofExpr:                   "InstanceofExpr",
	KindCallExpr:                         "CallExpr",
	KindMethodRef:                        "MethodRef",
	KindFieldAccess:                      "FieldAccess",
	KindArrayAccess:                      "ArrayAccess",
	KindNewExpr:                          "NewExpr",
	KindNewArrayExpr:                     "NewArrayExpr",
	KindArrayInit:                        "ArrayInit",
	KindLambdaExpr:                       "LambdaExpr",
	KindParenExpr:                        "ParenExpr",
	KindLiteral:                          "Literal",
	KindIdentifier:                       "Identifier",
	KindQualifiedName:                    "QualifiedName",
	KindThis:                             "This",
	KindSuper:                            "Super",
	KindClassLiteral:                     "ClassLiteral",
	KindSwitchExpr:                       "SwitchExpr",
	KindTemplateExpr:                     "TemplateExpr",
	KindComment:                          "Comment",
	KindLineComment:                      "LineComment",
	KindCompleteOnName:                   "CompleteOnName",
	KindCompleteOnQualifiedName:          "CompleteOnQualifiedName",
	KindCompleteOnMemberAccess:           "CompleteOnMemberAccess",
	KindCompleteOnMessageSend:            "CompleteOnMessageSend",
	KindCompleteOnAllocationExpression:   "CompleteOnAllocationExpression",
	KindCompleteOnType:                   "CompleteOnType",
	KindCompleteOnQualifiedType:          "CompleteOnQualifiedType",
	KindCompleteOnLocalName:              "CompleteOnLocalName",
	KindCompleteOnArgumentName:           "CompleteOnArgumentName",
	KindCompleteOnImport:                 "CompleteOnImport",
	KindCompleteOnPackage:                "CompleteOnPackage",
	KindCompleteOnKeyword:                "CompleteOnKeyword",
	KindCompleteOnModuleName:             "CompleteOnModuleName",
	KindCompleteOnModuleReference:        "CompleteOnModuleReference",
	KindCompleteOnPackageReference:       "CompleteOnPackageReference",
	KindCompleteOnUsesType:               "CompleteOnUsesType",
	KindCompleteOnProvidesInterface:      "CompleteOnProvidesInterface",
	KindCompleteOnProvidesImplementation: "CompleteOnProvidesImplementation",
	KindSelectOnName:                     "SelectOnName",
	KindSelectOnQualifiedName:            "SelectOnQualifiedName",
	KindSelectOnFieldReference:           "SelectOnFieldReference",
	KindSelectOnMessageSend:              "SelectOnMessageSend",
	KindSelectOnAllocationExpression:     "SelectOnAllocationExpression",
	KindSelectOnType:                     "SelectOnType",
	KindSelectOnQualifiedType:            "SelectOnQualifiedType",
	KindSelectionOnLocalName:             "SelectionOnLocalName",
	KindSelectOnArgumentName:             "SelectOnArgumentName",
	KindSelectOnFieldName:                "SelectOnFieldName",
	KindSelectOnMethodName:               "SelectOnMethodName",
	KindSelectOnTypeName:                 "SelectOnTypeName",
	KindSelectOnImport:                   "SelectOnImport",
	KindSelectOnPackage:                  "SelectOnPackage",
	KindSelectOnModuleName:               "SelectOnModuleName",
	KindSelectOnModuleReference:          "SelectOnModuleReference",
	KindSelectOnPackageReference:         "SelectOnPackageReference",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsCompletion reports whether k is a completion sentinel.
func (k NodeKind) IsCompletion() bool {
	return k >= KindCompleteOnName && k <= KindCompleteOnProvidesImplementation
}

// IsSelection reports whether k is a selection sentinel.
func (k NodeKind) IsSelection() bool {
	return k >= KindSelectOnName && k <= KindSelectOnPackageReference
}

func (k NodeKind) IsSentinel() bool {
	return k.IsCompletion() || k.IsSelection()
}

// IsTypeDecl reports whether k declares a class-like type.
func (k NodeKind) IsTypeDecl() bool {
	switch k {
	case KindClassDecl, KindInterfaceDecl, KindEnumDecl, KindRecordDecl, KindAnnotationDecl, KindLocalClassDecl:
		return true
	}
	return false
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

// Assist is carried by sentinel nodes. Identifier is the completion prefix
// or the selected identifier; Replaced is the source range a completion
// would overwrite and Source its exact text.
type Assist struct {
	Identifier string
	Replaced   Span
	Source     string
	Keywords   []string
	// Selected is the kind a selection sentinel had before it was marked.
	Selected NodeKind
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
	// Constant holds a *Literal or *Concatenation for KindLiteral nodes.
	Constant Mergeable
	Assist   *Assist
	// Javadoc is the span of the /** comment preceding a declaration.
	Javadoc *Span
	// Unparsed marks a diet-mode body whose statements were skipped.
	Unparsed    bool
	isArrowCase bool
	declarator  bool
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

// ReplaceChild swaps old for replacement among n's direct children.
func (n *Node) ReplaceChild(old, replacement *Node) bool {
	for i, child := range n.Children {
		if child == old {
			n.Children[i] = replacement
			return true
		}
	}
	return false
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

// IsDeclarator reports whether n is the name introduced by a variable,
// field or parameter declaration.
func (n *Node) IsDeclarator() bool {
	return n.declarator
}

// IsArrowCase reports whether a switch case uses the -> form.
func (n *Node) IsArrowCase() bool {
	return n.isArrowCase
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the node just visited.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns the first node in depth-first order satisfying pred.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if pred(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// Path returns the chain of nodes from n down to target, or nil.
func (n *Node) Path(target *Node) []*Node {
	if n == target {
		return []*Node{n}
	}
	for _, child := range n.Children {
		if p := child.Path(target); p != nil {
			return append([]*Node{n}, p...)
		}
	}
	return nil
}

func (n *Node) String() string {
	var b strings.Builder
	n.writeTree(&b, 0, false)
	return b.String()
}

func (n *Node) StringWithPositions() string {
	var b strings.Builder
	n.writeTree(&b, 0, true)
	return b.String()
}

func (n *Node) writeTree(b *strings.Builder, indent int, showPositions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Kind.String())
	if showPositions {
		b.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		b.WriteString(" " + n.Token.Literal)
	}
	if n.Constant != nil && n.Token == nil {
		b.WriteString(" " + strconv.Quote(n.Constant.Value()))
	}
	if n.Assist != nil {
		b.WriteString(" <" + n.Assist.Identifier + ">")
	}
	if n.Unparsed {
		b.WriteString(" (unparsed)")
	}
	if n.Error != nil {
		b.WriteString(" ERROR: " + n.Error.Message)
	}
	b.WriteByte('\n')
	for _, child := range n.Children {
		child.writeTree(b, indent+1, showPositions)
	}
}
