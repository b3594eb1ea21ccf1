package java

import (
	"fmt"
	"strings"

	"github.com/dhamidi/confdoc/java/javadoc"
)

// Pos is a source location. Line and Column are 1-based.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

func (p Pos) IsValid() bool {
	return p.Line > 0
}

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
)

// Import is a single import declaration.
type Import struct {
	Name     string // qualified name without the trailing .*
	Static   bool
	OnDemand bool
}

// Simple returns the last segment of the imported name.
func (i Import) Simple() string {
	return simpleName(i.Name)
}

// Unit is the compilation unit a class was declared in.
type Unit struct {
	File    string
	Package string
	Imports []Import
}

// Type is a type reference as written in source.
type Type struct {
	Name string // as written: "int", "String", "java.util.List", "Outer.Inner"
	Args []*Type
	Dims int
	// Wildcard is "?" for an unbounded wildcard argument, or "extends" or
	// "super" for a bounded one whose bound is described by the other
	// fields.
	Wildcard string
}

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

func (t *Type) IsPrimitive() bool {
	return t != nil && t.Dims == 0 && primitives[t.Name]
}

func (t *Type) IsArray() bool {
	return t != nil && t.Dims > 0
}

func (t *Type) IsVoid() bool {
	return t != nil && t.Dims == 0 && t.Name == "void"
}

// Simple returns the last segment of the type name.
func (t *Type) Simple() string {
	if t == nil {
		return ""
	}
	return simpleName(t.Name)
}

// Elem returns the element type of an array type.
func (t *Type) Elem() *Type {
	if t == nil || t.Dims == 0 {
		return t
	}
	return &Type{Name: t.Name, Args: t.Args, Dims: t.Dims - 1}
}

// Same reports whether two type references are spelled the same way,
// ignoring qualification of the outermost name.
func (t *Type) Same(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Dims != o.Dims || len(t.Args) != len(o.Args) {
		return false
	}
	if t.Name != o.Name && t.Simple() != o.Simple() {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Same(o.Args[i]) {
			return false
		}
	}
	return true
}

func (t *Type) String() string {
	if t == nil {
		return ""
	}
	if t.Wildcard == "?" {
		return "?"
	}
	var sb strings.Builder
	if t.Wildcard != "" {
		sb.WriteString("? " + t.Wildcard + " ")
	}
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteString("<")
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteString(">")
	}
	for i := 0; i < t.Dims; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

// Class is a type declaration parsed from source.
type Class struct {
	Name        string
	Kind        ClassKind
	Unit        *Unit
	Outer       *Class
	Nested      []*Class
	Annotations Annotations
	Doc         *javadoc.DocComment
	Static      bool
	Abstract    bool

	// Fields holds fields, record components and enum constants in
	// declaration order.
	Fields       []*Field
	Methods      []*Method
	Constructors []*Method
	Pos          Pos
}

// Package returns the package of the compilation unit.
func (c *Class) Package() string {
	if c.Unit == nil {
		return ""
	}
	return c.Unit.Package
}

// QualifiedName returns the canonical name, e.g. com.example.Outer.Inner.
func (c *Class) QualifiedName() string {
	name := c.Name
	for o := c.Outer; o != nil; o = o.Outer {
		name = o.Name + "." + name
	}
	if pkg := c.Package(); pkg != "" {
		return pkg + "." + name
	}
	return name
}

// BinaryName returns the class file name, e.g. com/example/Outer$Inner.
func (c *Class) BinaryName() string {
	name := c.Name
	for o := c.Outer; o != nil; o = o.Outer {
		name = o.Name + "$" + name
	}
	if pkg := c.Package(); pkg != "" {
		return strings.ReplaceAll(pkg, ".", "/") + "/" + name
	}
	return name
}

func (c *Class) IsRecord() bool    { return c.Kind == ClassKindRecord }
func (c *Class) IsEnum() bool      { return c.Kind == ClassKindEnum }
func (c *Class) IsInterface() bool { return c.Kind == ClassKindInterface || c.Kind == ClassKindAnnotation }

// Field returns the field, record component or enum constant with the
// given name.
func (c *Class) Field(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Components returns the record components in declaration order.
func (c *Class) Components() []*Field {
	var out []*Field
	for _, f := range c.Fields {
		if f.Component {
			out = append(out, f)
		}
	}
	return out
}

// MethodsNamed returns the methods with the given name.
func (c *Class) MethodsNamed(name string) []*Method {
	var out []*Method
	for _, m := range c.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// HasMethod reports whether a method with the given name and number of
// parameters exists.
func (c *Class) HasMethod(name string, params int) bool {
	for _, m := range c.Methods {
		if m.Name == name && len(m.Params) == params {
			return true
		}
	}
	return false
}

// NestedClass returns the directly nested type with the given name.
func (c *Class) NestedClass(name string) *Class {
	for _, n := range c.Nested {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Enclosing returns the chain of enclosing classes starting with c.
func (c *Class) Enclosing() []*Class {
	var out []*Class
	for k := c; k != nil; k = k.Outer {
		out = append(out, k)
	}
	return out
}

func (c *Class) String() string {
	return c.QualifiedName()
}

// Field is a field, a record component or an enum constant.
type Field struct {
	Name         string
	Type         *Type
	Class        *Class
	Annotations  Annotations
	Doc          *javadoc.DocComment
	Static       bool
	Final        bool
	Public       bool
	Init         Expr
	Pos          Pos
	Component    bool
	EnumConstant bool
}

func (f *Field) String() string {
	return f.Class.QualifiedName() + "." + f.Name
}

// Method is a method or constructor.
type Method struct {
	Name        string
	Class       *Class
	Result      *Type // nil for constructors
	Params      []*Parameter
	Annotations Annotations
	Doc         *javadoc.DocComment
	Static      bool
	Public      bool
	Private     bool
	Constructor bool
	// Compact marks a compact canonical record constructor.
	Compact bool
	// Synthetic marks members generated for records and Lombok
	// annotations. Synthetic constructors assign every parameter to the
	// field of the same name.
	Synthetic   bool
	Assignments []Assignment
	Pos         Pos
}

// Assignment is a top-level constructor statement assigning to a simple
// name or to this.name. Value is the assigned identifier of a plain
// `target = name;` and empty for any other right-hand side.
type Assignment struct {
	Target string
	This   bool
	Value  string
}

// Param returns the parameter with the given name.
func (m *Method) Param(name string) *Parameter {
	for _, p := range m.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// AssignsDirectly reports whether the constructor stores the parameter
// into the field unchanged: the parameter is never reassigned and the
// field's only assignment is from the parameter.
func (m *Method) AssignsDirectly(field, param string) bool {
	if m.Synthetic || m.Compact {
		return field == param
	}
	direct := false
	for _, a := range m.Assignments {
		if !a.This && m.Param(a.Target) != nil {
			// p = p; changes nothing
			if a.Target == param && a.Value != param {
				return false
			}
			continue
		}
		if a.Target != field {
			continue
		}
		if direct || a.Value != param {
			return false
		}
		direct = true
	}
	return direct
}

func (m *Method) String() string {
	var sb strings.Builder
	sb.WriteString(m.Class.QualifiedName())
	if !m.Constructor {
		sb.WriteString(".")
		sb.WriteString(m.Name)
	}
	sb.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Parameter is a method or constructor parameter.
type Parameter struct {
	Name        string
	Type        *Type
	Annotations Annotations
	Method      *Method
	Varargs     bool
	Pos         Pos
}

// ParamDoc returns the @param documentation of the parameter in the
// enclosing method's comment.
func (p *Parameter) ParamDoc() *javadoc.Param {
	if p.Method == nil {
		return nil
	}
	return p.Method.Doc.ParamDoc(p.Name)
}

func simpleName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
