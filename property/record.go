// Package property discovers the externally bindable configuration
// properties of Spring Boot style configuration classes and resolves
// their default values from source.
package property

import (
	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/java"
	"github.com/dhamidi/confdoc/java/javadoc"
)

// Decl is the declaration a property binds through: a field, a record
// component or a constructor or method parameter. Exactly one of Field
// and Param is set.
type Decl struct {
	Field *java.Field
	Param *java.Parameter
}

func FieldDecl(f *java.Field) Decl     { return Decl{Field: f} }
func ParamDecl(p *java.Parameter) Decl { return Decl{Param: p} }

func (d Decl) IsZero() bool { return d.Field == nil && d.Param == nil }

func (d Decl) Name() string {
	if d.Field != nil {
		return d.Field.Name
	}
	if d.Param != nil {
		return d.Param.Name
	}
	return ""
}

func (d Decl) Type() *java.Type {
	if d.Field != nil {
		return d.Field.Type
	}
	if d.Param != nil {
		return d.Param.Type
	}
	return nil
}

// Class returns the class declaring the field or the parameter's method.
func (d Decl) Class() *java.Class {
	if d.Field != nil {
		return d.Field.Class
	}
	if d.Param != nil && d.Param.Method != nil {
		return d.Param.Method.Class
	}
	return nil
}

func (d Decl) Annotations() java.Annotations {
	if d.Field != nil {
		return d.Field.Annotations
	}
	if d.Param != nil {
		return d.Param.Annotations
	}
	return nil
}

func (d Decl) Pos() java.Pos {
	if d.Field != nil {
		return d.Field.Pos
	}
	if d.Param != nil {
		return d.Param.Pos
	}
	return java.Pos{}
}

// Doc returns the declaration's own documentation: the field comment,
// the @param tag of a parameter's method, or the @param tag of the
// record declaring a component.
func (d Decl) Doc() *javadoc.DocComment {
	switch {
	case d.Field != nil && d.Field.Doc != nil:
		return d.Field.Doc
	case d.Field != nil && d.Field.Component:
		return paramDoc(d.Field.Class.Doc, d.Field.Name)
	case d.Param != nil && d.Param.Method != nil:
		return paramDoc(d.Param.Method.Doc, d.Param.Name)
	}
	return nil
}

func (d Decl) subject() diagnostic.Subject {
	return diagnostic.At(d.Pos(), d.Name())
}

func (d Decl) String() string {
	switch {
	case d.Field != nil:
		return d.Field.String()
	case d.Param != nil && d.Param.Method != nil:
		return d.Param.Method.String() + " " + d.Param.Name
	}
	return d.Name()
}

// paramDoc wraps the @param tag for name as a comment of its own.
func paramDoc(owner *javadoc.DocComment, name string) *javadoc.DocComment {
	p := owner.ParamDoc(name)
	if p == nil {
		return nil
	}
	return &javadoc.DocComment{BlockTags: []javadoc.Node{*p}}
}

// Record is one discovered property. The scanners create records, the
// resolver fills in defaults and Merge folds duplicates; afterwards a
// record is only read.
type Record struct {
	// Name is the canonical environment variable name.
	Name string
	Decl Decl
	// Doc is the primary documentation, possibly nil.
	Doc *javadoc.DocComment
	// Additional holds further comments in insertion order without
	// duplicates: enclosing field docs, constructor parameter docs and
	// comments merged from duplicates.
	Additional []*javadoc.DocComment

	Default    string
	HasDefault bool
	Required   bool
	Deprecated bool
	// Opaque marks a property of recursive type documented without
	// descending into it.
	Opaque bool

	// Binding is the constructor parameter the property is bound
	// through, if any.
	Binding *java.Parameter
	// value is the @Value annotation supplying the property, when it
	// is not on the declaration itself.
	value *java.Annotation
}

func newRecord(d Decl, name string, additional []*javadoc.DocComment) *Record {
	r := &Record{
		Name: Combine(name),
		Decl: d,
		Doc:  d.Doc(),
	}
	for _, doc := range additional {
		r.AddDoc(doc)
	}
	return r
}

// AddDoc appends an additional comment unless it is nil or already
// present.
func (r *Record) AddDoc(doc *javadoc.DocComment) {
	if doc == nil || doc == r.Doc {
		return
	}
	for _, d := range r.Additional {
		if d == doc {
			return
		}
	}
	r.Additional = append(r.Additional, doc)
}

// Docs returns the primary comment, if any, followed by the additional
// ones.
func (r *Record) Docs() []*javadoc.DocComment {
	var out []*javadoc.DocComment
	if r.Doc != nil {
		out = append(out, r.Doc)
	}
	return append(out, r.Additional...)
}

// Hidden reports whether any comment carries @hidden.
func (r *Record) Hidden() bool {
	for _, d := range r.Docs() {
		if d.HasBlockTag("hidden") {
			return true
		}
	}
	return false
}
