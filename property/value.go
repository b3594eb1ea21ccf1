package property

import (
	"strings"
	"unicode"

	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/java"
	"github.com/dhamidi/confdoc/java/javadoc"
)

// ValueScanner collects the properties injected with
// @Value("${name:default}") into fields, parameters and methods.
type ValueScanner struct {
	sink    *diagnostic.Sink
	records []*Record
}

func NewValueScanner(sink *diagnostic.Sink) *ValueScanner {
	return &ValueScanner{sink: sink}
}

func (s *ValueScanner) Records() []*Record {
	return s.records
}

// Scan visits the members of c, not including nested classes.
func (s *ValueScanner) Scan(c *java.Class) {
	for _, f := range c.Fields {
		if a := f.Annotations.Find(valueAnnotation); a != nil {
			s.field(f, a)
		}
	}
	for _, group := range [][]*java.Method{c.Constructors, c.Methods} {
		for _, m := range group {
			if a := m.Annotations.Find(valueAnnotation); a != nil {
				s.method(m, a)
			}
			for _, p := range m.Params {
				if a := p.Annotations.Find(valueAnnotation); a != nil {
					s.param(p, a)
				}
			}
		}
	}
}

func (s *ValueScanner) field(f *java.Field, a *java.Annotation) {
	d := FieldDecl(f)
	name, ok := s.propertyName(d.subject(), a)
	if !ok {
		return
	}
	s.records = append(s.records, newRecord(d, name, nil))
}

// param records a parameter; its documentation is the @param tag of the
// method.
func (s *ValueScanner) param(p *java.Parameter, a *java.Annotation) {
	d := ParamDecl(p)
	name, ok := s.propertyName(d.subject(), a)
	if !ok {
		return
	}
	s.records = append(s.records, newRecord(d, name, nil))
}

// method records the first parameter without @Value of a method
// annotated with @Value, documented by its @param tag followed by the
// method comment.
func (s *ValueScanner) method(m *java.Method, a *java.Annotation) {
	at := methodSubject(m)
	if len(m.Params) == 0 {
		s.sink.Warn(at, "No parameters found in method annotated with @Value! (skipping)")
		return
	}
	var free *java.Parameter
	for _, p := range m.Params {
		if !p.Annotations.Has(valueAnnotation) {
			free = p
			break
		}
	}
	if free == nil {
		s.sink.Warn(at, "No parameters without @Value annotation found in method! (skipping)")
		return
	}
	name, ok := s.propertyName(at, a)
	if !ok {
		return
	}

	r := newRecord(ParamDecl(free), name, nil)
	if m.Doc != nil && len(m.Doc.Body) > 0 {
		r.AddDoc(&javadoc.DocComment{Body: m.Doc.Body})
	}
	r.value = a
	s.records = append(s.records, r)
}

func (s *ValueScanner) propertyName(at diagnostic.Subject, a *java.Annotation) (string, bool) {
	name, ok := ValueName(a)
	if !ok {
		s.sink.Warn(at, "Skipping @Value annotation (only supports format ${path.to.value:defaultValue})")
	}
	return name, ok
}

// ValueName returns the property name of @Value("${name:default}"): the
// longest run of letters, digits, '-', '.' and '_' after "${".
func ValueName(a *java.Annotation) (string, bool) {
	v, ok := a.String("value")
	if !ok || !strings.HasPrefix(v, "${") || !strings.HasSuffix(v, "}") {
		return "", false
	}
	v = v[2:]
	end := strings.IndexFunc(v, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '.' && r != '_'
	})
	if end >= 0 {
		v = v[:end]
	}
	return v, true
}
