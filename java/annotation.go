package java

import "strings"

// Annotation is an annotation instance on a declaration.
type Annotation struct {
	Name string // as written
	// Qualified is the name resolved through a single-type import or the
	// name itself when written qualified. It is empty when the annotation
	// type could only be reached through a wildcard import.
	Qualified string
	Keys      []string
	Values    map[string]Expr
	Pos       Pos
}

func (a *Annotation) Simple() string {
	return simpleName(a.Name)
}

// Is reports whether the annotation has one of the given types. Names
// may be simple or qualified; a qualified name only matches an
// annotation whose qualified name is known and equal, or whose
// qualified name is unknown and whose simple name matches.
func (a *Annotation) Is(names ...string) bool {
	for _, name := range names {
		if !strings.Contains(name, ".") {
			if a.Simple() == name {
				return true
			}
			continue
		}
		if a.Qualified != "" {
			if a.Qualified == name {
				return true
			}
			continue
		}
		if a.Simple() == simpleName(name) {
			return true
		}
	}
	return false
}

// Value returns the expression of an element, or nil.
func (a *Annotation) Value(key string) Expr {
	if a == nil {
		return nil
	}
	return a.Values[key]
}

// String returns the value of a string-literal element.
func (a *Annotation) String(key string) (string, bool) {
	if lit, ok := a.Value(key).(*Literal); ok && lit.Kind == LiteralString {
		return lit.Value, true
	}
	return "", false
}

// Strings returns the string literals of an element given either as a
// single value or as an array initializer.
func (a *Annotation) Strings(key string) []string {
	var out []string
	for _, e := range Elements(a.Value(key)) {
		if lit, ok := e.(*Literal); ok {
			out = append(out, lit.Value)
		}
	}
	return out
}

// Annotations is the list of annotations on a declaration.
type Annotations []*Annotation

// Find returns the first annotation matching one of the names.
func (as Annotations) Find(names ...string) *Annotation {
	for _, a := range as {
		if a.Is(names...) {
			return a
		}
	}
	return nil
}

func (as Annotations) Has(names ...string) bool {
	return as.Find(names...) != nil
}

// FindAll returns every annotation matching one of the names.
func (as Annotations) FindAll(names ...string) Annotations {
	var out Annotations
	for _, a := range as {
		if a.Is(names...) {
			out = append(out, a)
		}
	}
	return out
}
