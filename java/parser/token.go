package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenComment
	TokenIdent
	TokenKeyword
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock
	TokenOperator
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenComment:       "Comment",
	TokenIdent:         "Ident",
	TokenKeyword:       "Keyword",
	TokenIntLiteral:    "IntLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenTextBlock:     "TextBlock",
	TokenOperator:      "Operator",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// Token is a lexeme of Java source. Keywords and operators share a kind
// and are told apart by their literal.
type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// Is reports whether the token is the keyword or operator lit.
func (t Token) Is(lit string) bool {
	return (t.Kind == TokenKeyword || t.Kind == TokenOperator) && t.Literal == lit
}

// IsDoc reports whether the token is a documentation comment.
func (t Token) IsDoc() bool {
	return t.Kind == TokenComment && len(t.Literal) > 4 &&
		t.Literal[:3] == "/**" && t.Literal != "/**/"
}

var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true,
	"class": true, "const": true, "continue": true, "default": true,
	"do": true, "double": true, "else": true, "enum": true,
	"extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true,
	"import": true, "instanceof": true, "int": true, "interface": true,
	"long": true, "native": true, "new": true, "package": true,
	"private": true, "protected": true, "public": true, "return": true,
	"short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true,
	"throws": true, "transient": true, "try": true, "void": true,
	"volatile": true, "while": true, "true": true, "false": true,
	"null": true,
}

// IsKeyword reports whether ident is a reserved Java keyword.
func IsKeyword(ident string) bool {
	return keywords[ident]
}

var primitiveTypes = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

// IsPrimitive reports whether name is a Java primitive type keyword.
func IsPrimitive(name string) bool {
	return primitiveTypes[name]
}

var modifierKeywords = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true,
	"final": true, "abstract": true, "native": true, "synchronized": true,
	"transient": true, "volatile": true, "strictfp": true, "default": true,
}
