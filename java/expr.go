package java

import (
	"strconv"
	"strings"
)

// Expr is a constant-evaluable expression: an initializer, an annotation
// element value or a constructor argument. Expressions outside the
// evaluable subset are kept as Raw.
type Expr interface {
	// Source returns the expression's source text with whitespace
	// collapsed.
	Source() string
	At() Pos
}

type exprBase struct {
	Raw string
	Pos Pos
}

func (e *exprBase) Source() string { return e.Raw }
func (e *exprBase) At() Pos        { return e.Pos }

type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralChar
	LiteralInt
	LiteralFloat
	LiteralBoolean
	LiteralNull
)

// Literal is a literal value. String, text block and char literals hold
// their unescaped contents; numbers hold their source spelling.
type Literal struct {
	exprBase
	Kind  LiteralKind
	Value string
}

// Identifier is a simple name.
type Identifier struct {
	exprBase
	Name string
}

// MemberAccess is a field access or qualified name, target.Name.
type MemberAccess struct {
	exprBase
	Target Expr
	Name   string
}

// Call is a method invocation. Target is nil for unqualified calls.
type Call struct {
	exprBase
	Target Expr
	Name   string
	Args   []Expr
}

// NewArray is an array creation expression or an array initializer.
type NewArray struct {
	exprBase
	Type  *Type // nil for a bare initializer
	Elems []Expr
}

// NewObject is an instance creation expression.
type NewObject struct {
	exprBase
	Type *Type
	Args []Expr
}

// Cast is a cast expression.
type Cast struct {
	exprBase
	Type *Type
	X    Expr
}

// AnnotationExpr is an annotation used as an element value.
type AnnotationExpr struct {
	exprBase
	Annotation *Annotation
}

// Raw is any other expression.
type Raw struct {
	exprBase
}

// Elements returns the elements of an array value, or the value itself
// as a single element.
func Elements(e Expr) []Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *NewArray:
		return e.Elems
	}
	return []Expr{e}
}

// QualifiedName returns the dotted name of an Identifier or a chain of
// MemberAccess over an Identifier, such as java.time.Duration.
func QualifiedName(e Expr) (string, bool) {
	switch e := e.(type) {
	case *Identifier:
		return e.Name, true
	case *MemberAccess:
		prefix, ok := QualifiedName(e.Target)
		if !ok {
			return "", false
		}
		return prefix + "." + e.Name, true
	}
	return "", false
}

// unquote decodes the body of a string or char literal.
func unquote(lit string) string {
	if len(lit) >= 2 {
		lit = lit[1 : len(lit)-1]
	}
	return unescape(lit)
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'b':
			sb.WriteByte('\b')
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'f':
			sb.WriteByte('\f')
		case 'r':
			sb.WriteByte('\r')
		case 's':
			sb.WriteByte(' ')
		case '\n':
			// line continuation in text blocks
		case 'u':
			j := i
			for j < len(s) && s[j] == 'u' {
				j++
			}
			if j+4 <= len(s) {
				if r, err := strconv.ParseUint(s[j:j+4], 16, 32); err == nil {
					sb.WriteRune(rune(r))
					i = j + 3
					continue
				}
			}
			sb.WriteByte('u')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			limit := 3
			if s[i] > '3' {
				limit = 2
			}
			for j < len(s) && j-i < limit && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 32)
			sb.WriteRune(rune(v))
			i = j - 1
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// textBlock decodes a """ text block: the opening line is dropped,
// incidental indentation and trailing spaces are stripped, then escapes
// are processed.
func textBlock(lit string) string {
	body := strings.TrimPrefix(lit, `"""`)
	body = strings.TrimSuffix(body, `"""`)
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	lines := strings.Split(body, "\n")

	indent := -1
	for i, line := range lines {
		last := i == len(lines)-1
		if strings.TrimSpace(line) == "" && !last {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			line = line[indent:]
		} else {
			line = strings.TrimLeft(line, " \t")
		}
		lines[i] = strings.TrimRight(line, " \t")
	}
	return unescape(strings.Join(lines, "\n"))
}
