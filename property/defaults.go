package property

import (
	"strings"

	"github.com/dhamidi/confdoc/java"
	"github.com/dhamidi/confdoc/java/javadoc"
)

// DefaultTag is the documentation tag, block or inline, that states a
// property's default explicitly.
const DefaultTag = "configurationdoc.default"

var (
	valueAnnotation        = "org.springframework.beans.factory.annotation.Value"
	defaultValueAnnotation = "org.springframework.boot.context.properties.bind.DefaultValue"
)

// Resolver fills in the default value of records. The first source that
// yields a value wins: the documentation tag, then @Value and
// @DefaultValue on the declaration, then the same on the binding
// constructor parameter, then the field initializer.
type Resolver struct {
	eval *Evaluator
}

func NewResolver(cb *java.Codebase) *Resolver {
	return &Resolver{eval: NewEvaluator(cb)}
}

// Resolve sets r.Default and r.HasDefault.
func (res *Resolver) Resolve(r *Record) {
	r.Default, r.HasDefault = res.Default(r)
}

// Default computes the default value of r without modifying it.
func (res *Resolver) Default(r *Record) (string, bool) {
	if v, ok := DocDefault(r.Docs()); ok {
		return v, true
	}
	if r.value != nil {
		if v, ok := ValueDefault(r.value); ok {
			return v, true
		}
	}
	if v, ok := res.annotated(r.Decl.Annotations(), r.Decl.Class()); ok {
		return v, true
	}

	f := r.Decl.Field
	if f == nil {
		return "", false
	}
	if p := r.Binding; p != nil {
		if v, ok := DocDefault([]*javadoc.DocComment{paramDoc(p.Method.Doc, p.Name)}); ok {
			return v, true
		}
		if v, ok := res.annotated(p.Annotations, f.Class); ok {
			return v, true
		}
		if !p.Method.AssignsDirectly(f.Name, p.Name) {
			return "", false
		}
	}
	return res.eval.Evaluate(f.Class, f.Type, f.Init)
}

func (res *Resolver) annotated(as java.Annotations, scope *java.Class) (string, bool) {
	if v, ok := ValueDefault(as.Find(valueAnnotation)); ok {
		return v, true
	}
	if a := as.Find(defaultValueAnnotation); a != nil {
		return res.defaultValue(a, scope)
	}
	return "", false
}

// defaultValue prints @DefaultValue: a single value as is, several as
// [a, b]. Non-literal elements are evaluated as constants.
func (res *Resolver) defaultValue(a *java.Annotation, scope *java.Class) (string, bool) {
	var values []string
	for _, e := range java.Elements(a.Value("value")) {
		v, ok := res.eval.Evaluate(scope, nil, e)
		if ok {
			values = append(values, v)
		}
	}
	if len(values) == 1 {
		return values[0], true
	}
	return "[" + strings.Join(values, ", ") + "]", true
}

// DocDefault collects the contents of every configurationdoc.default tag.
// Tags of one comment are joined with "; ", as are the distinct results
// of several comments.
func DocDefault(docs []*javadoc.DocComment) (string, bool) {
	var out []string
	seen := map[string]bool{}
	for _, doc := range docs {
		var parts []string
		for _, content := range doc.Collect(DefaultTag) {
			parts = append(parts, javadoc.NodesText(content))
		}
		if len(parts) == 0 {
			continue
		}
		v := strings.Join(parts, "; ")
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return "", false
	}
	return strings.Join(out, "; "), true
}

// ValueDefault returns the default part of @Value("${key:default}").
func ValueDefault(a *java.Annotation) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.String("value")
	if !ok || !strings.HasPrefix(v, "${") || !strings.HasSuffix(v, "}") {
		return "", false
	}
	i := strings.IndexByte(v, ':')
	if i < 2 {
		return "", false
	}
	return v[i+1 : len(v)-1], true
}
