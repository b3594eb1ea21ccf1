package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl
	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindRecordDecl
	KindAnnotationDecl
	KindModifiers
	KindModifier
	KindAnnotation
	KindAnnotationElement
	KindClassBody
	KindFieldDecl
	KindVariable
	KindEnumConstant
	KindMethodDecl
	KindConstructorDecl
	KindParameters
	KindParameter
	KindRecordComponent
	KindBody
	KindStatement
	KindAssignStmt
	KindType
	KindTypeArguments
	KindWildcard
	KindArrayDims
	KindQualifiedName
	KindIdentifier

	// Expressions
	KindLiteral
	KindName
	KindFieldAccess
	KindCallExpr
	KindArguments
	KindNewExpr
	KindNewArrayExpr
	KindArrayInit
	KindCastExpr
	KindParenExpr
	KindUnaryExpr
	KindBinaryExpr
	KindTernaryExpr
	KindInstanceofExpr
	KindAssignExpr
	KindArrayAccess
	KindClassLiteral
	KindThis
	KindMethodRef
	KindLambdaExpr
	KindSwitchExpr
)

var nodeKindNames = map[NodeKind]string{
	KindError:             "Error",
	KindCompilationUnit:   "CompilationUnit",
	KindPackageDecl:       "PackageDecl",
	KindImportDecl:        "ImportDecl",
	KindClassDecl:         "ClassDecl",
	KindInterfaceDecl:     "InterfaceDecl",
	KindEnumDecl:          "EnumDecl",
	KindRecordDecl:        "RecordDecl",
	KindAnnotationDecl:    "AnnotationDecl",
	KindModifiers:         "Modifiers",
	KindModifier:          "Modifier",
	KindAnnotation:        "Annotation",
	KindAnnotationElement: "AnnotationElement",
	KindClassBody:         "ClassBody",
	KindFieldDecl:         "FieldDecl",
	KindVariable:          "Variable",
	KindEnumConstant:      "EnumConstant",
	KindMethodDecl:        "MethodDecl",
	KindConstructorDecl:   "ConstructorDecl",
	KindParameters:        "Parameters",
	KindParameter:         "Parameter",
	KindRecordComponent:   "RecordComponent",
	KindBody:              "Body",
	KindStatement:         "Statement",
	KindAssignStmt:        "AssignStmt",
	KindType:              "Type",
	KindTypeArguments:     "TypeArguments",
	KindWildcard:          "Wildcard",
	KindArrayDims:         "ArrayDims",
	KindQualifiedName:     "QualifiedName",
	KindIdentifier:        "Identifier",
	KindLiteral:           "Literal",
	KindName:              "Name",
	KindFieldAccess:       "FieldAccess",
	KindCallExpr:          "CallExpr",
	KindArguments:         "Arguments",
	KindNewExpr:           "NewExpr",
	KindNewArrayExpr:      "NewArrayExpr",
	KindArrayInit:         "ArrayInit",
	KindCastExpr:          "CastExpr",
	KindParenExpr:         "ParenExpr",
	KindUnaryExpr:         "UnaryExpr",
	KindBinaryExpr:        "BinaryExpr",
	KindTernaryExpr:       "TernaryExpr",
	KindInstanceofExpr:    "InstanceofExpr",
	KindAssignExpr:        "AssignExpr",
	KindArrayAccess:       "ArrayAccess",
	KindClassLiteral:      "ClassLiteral",
	KindThis:              "This",
	KindMethodRef:         "MethodRef",
	KindLambdaExpr:        "LambdaExpr",
	KindSwitchExpr:        "SwitchExpr",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Error struct {
	Message string
	Got     *Token
}

// Node is a syntax tree node. Declarations carry the documentation
// comment that immediately precedes them in Doc.
type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Doc      *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

// HasError reports whether n or any of its descendants is an error node.
func (n *Node) HasError() bool {
	if n.IsError() {
		return true
	}
	for _, child := range n.Children {
		if child.HasError() {
			return true
		}
	}
	return false
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

// Name returns the literal of the first identifier child, the usual
// place a declaration keeps its simple name.
func (n *Node) Name() string {
	if id := n.FirstChildOfKind(KindIdentifier); id != nil {
		return id.TokenLiteral()
	}
	return ""
}

// Walk calls fn for n and every descendant in depth-first order until
// fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if n.Token != nil {
		sb.WriteString(" ")
		sb.WriteString(n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: ")
		sb.WriteString(n.Error.Message)
	}
	sb.WriteString("\n")
	for _, child := range n.Children {
		child.writeIndent(sb, indent+1)
	}
}
