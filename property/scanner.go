package property

import (
	"strings"

	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/java"
	"github.com/dhamidi/confdoc/java/javadoc"
)

var (
	configurationPropertiesAnnotation = "org.springframework.boot.context.properties.ConfigurationProperties"
	nestedPropertyAnnotation          = "org.springframework.boot.context.properties.NestedConfigurationProperty"
	configurationAnnotation           = "org.springframework.context.annotation.Configuration"
	beanAnnotation                    = "org.springframework.context.annotation.Bean"
	validatedAnnotation               = "org.springframework.validation.annotation.Validated"
	validAnnotations                  = []string{"jakarta.validation.Valid", "javax.validation.Valid"}
)

// Scanner walks @ConfigurationProperties types and collects a record for
// every bindable property, descending into nested structures.
type Scanner struct {
	cb        *java.Codebase
	sink      *diagnostic.Sink
	chain     *Chain
	envPrefix string

	records []*Record
	renamed map[*java.Parameter]bool
}

func NewScanner(cb *java.Codebase, sink *diagnostic.Sink, chain *Chain, envPrefix string) *Scanner {
	return &Scanner{
		cb:        cb,
		sink:      sink,
		chain:     chain,
		envPrefix: envPrefix,
		renamed:   map[*java.Parameter]bool{},
	}
}

// Records returns the records collected so far in discovery order.
func (s *Scanner) Records() []*Record {
	return s.records
}

// visit is the state handed down while descending: the name prefix,
// the comments every record below inherits and whether bean validation
// cascades to this level.
type visit struct {
	chain        *Chain
	prefix       string
	nameOverride string
	docs         []*javadoc.DocComment
	validation   bool

	// root is the annotated element, reported when validation is
	// missing altogether.
	root          diagnostic.Subject
	rootValidated bool
	// stack holds the types being descended into.
	stack []*java.Class
}

// segment returns the prefix extended by name, or by the override set
// through @Name.
func (v visit) segment(name string) string {
	return Combine(v.prefix, FirstNonEmpty(v.nameOverride, name))
}

func (v visit) dive(name string, validation bool) visit {
	v.prefix = v.segment(name)
	v.nameOverride = ""
	v.validation = validation
	return v
}

func (v visit) withDocs(extra ...*javadoc.DocComment) visit {
	docs := make([]*javadoc.DocComment, 0, len(v.docs)+len(extra))
	docs = append(docs, v.docs...)
	for _, d := range extra {
		if d != nil {
			docs = append(docs, d)
		}
	}
	v.docs = docs
	return v
}

func rootPrefix(envPrefix string, a *java.Annotation) string {
	prefix, _ := a.String("prefix")
	value, _ := a.String("value")
	return Combine(envPrefix, FirstNonEmpty(prefix, value))
}

// ScanClass collects the properties of a class or record annotated with
// @ConfigurationProperties.
func (s *Scanner) ScanClass(c *java.Class) error {
	a := c.Annotations.Find(configurationPropertiesAnnotation)
	if a == nil {
		return nil
	}
	s.checkValidOnRoot(c)
	v := visit{
		chain:         s.chain,
		prefix:        rootPrefix(s.envPrefix, a),
		validation:    c.Annotations.Has(validatedAnnotation),
		root:          classSubject(c),
		rootValidated: c.Annotations.Has(validatedAnnotation),
	}
	return s.descend(c, v)
}

// ScanBean collects the properties of the type returned by a @Bean
// method annotated with @ConfigurationProperties. The bean already
// exists when it is bound, so only setters bind.
func (s *Scanner) ScanBean(m *java.Method) error {
	a := m.Annotations.Find(configurationPropertiesAnnotation)
	if a == nil {
		return nil
	}
	if !m.Annotations.Has(beanAnnotation) {
		s.sink.Warn(methodSubject(m), "Method annotated with @ConfigurationProperties is missing @Bean annotation: "+m.Name)
	}
	if m.Result == nil || m.Result.IsPrimitive() || m.Result.IsArray() || m.Result.IsVoid() {
		s.sink.Warn(methodSubject(m), "Skipping method with @ConfigurationProperties annotation: "+m.Name+" (Type "+m.Result.String()+" not found)")
		return nil
	}
	ref, _ := s.cb.ResolveType(m.Class, m.Result.Name)
	if ref.Class == nil {
		s.sink.Warn(methodSubject(m), "Skipping method with @ConfigurationProperties annotation: "+m.Name+" (Type "+m.Result.String()+" not found)")
		return nil
	}
	c := ref.Class
	s.checkValidOnRoot(c)
	v := visit{
		chain:         s.chain.From(PossibleProperty),
		prefix:        rootPrefix(s.envPrefix, a),
		validation:    c.Annotations.Has(validatedAnnotation),
		root:          methodSubject(m),
		rootValidated: m.Annotations.Has(validatedAnnotation),
	}.withDocs(m.Doc)
	return s.descend(c, v)
}

func (s *Scanner) checkValidOnRoot(c *java.Class) {
	if c.Annotations.Has(validAnnotations...) {
		s.sink.Warn(classSubject(c), "ConfigurationProperties structure is annotated with @Valid, this is probably wrong usage, Spring's @Validated should be used instead (org.springframework.validation.annotation.Validated)")
	}
}

func (s *Scanner) descend(c *java.Class, v visit) error {
	v.stack = append(v.stack[:len(v.stack):len(v.stack)], c)
	for _, f := range c.Fields {
		if f.EnumConstant {
			continue
		}
		d := FieldDecl(f)
		if s.isRecursive(d, v) {
			if err := s.recursive(d, v); err != nil {
				return err
			}
			continue
		}
		if err := s.visitVariable(d, v); err != nil {
			return err
		}
	}
	for _, ctor := range c.Constructors {
		if !ctor.Annotations.Has(constructorBindingAnnotations...) {
			continue
		}
		for _, p := range ctor.Params {
			d := ParamDecl(p)
			if s.isRecursive(d, v) {
				if err := s.recursive(d, v); err != nil {
					return err
				}
				continue
			}
			if err := s.visitVariable(d, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// isRecursive reports whether a field or binding parameter has the type
// of one of its enclosing classes or of a type the scan is already
// inside of.
func (s *Scanner) isRecursive(d Decl, v visit) bool {
	t := d.Type()
	if d.IsZero() || (d.Field != nil && d.Field.Static) || t == nil || t.IsPrimitive() || t.IsArray() {
		return false
	}
	ref, _ := s.cb.ResolveType(d.Class(), t.Name)
	if ref.Class == nil {
		return false
	}
	for _, k := range d.Class().Enclosing() {
		if k == ref.Class {
			return true
		}
	}
	for _, k := range v.stack {
		if k == ref.Class {
			return true
		}
	}
	return false
}

// recursive documents a self-referencing property as a single opaque
// record.
func (s *Scanner) recursive(d Decl, v visit) error {
	s.recommendValid(d, v)
	var binding *java.Parameter
	if v.chain == s.chain {
		dec, err := s.chain.Decide(d)
		if err != nil {
			return err
		}
		switch {
		case d.Param != nil && (dec.Answer == No || dec.Answer == Delegate):
			return nil
		case d.Param != nil && dec.Answer == Renamed:
			v.nameOverride = dec.Name
		case dec.Param != nil && d.Field != nil:
			binding = dec.Param
			v = v.withDocs(paramDoc(dec.Param.Method.Doc, dec.Param.Name))
		}
	}
	r := s.add(d, v.segment(d.Name()), v.docs, binding)
	r.Opaque = true
	s.sink.Info(d.subject(), "Documenting recursive type, ensure proper documentation is provided for this property")
	return nil
}

func (s *Scanner) visitVariable(d Decl, v visit) error {
	dec, err := v.chain.Decide(d)
	if err != nil {
		return err
	}
	var binding *java.Parameter
	switch dec.Answer {
	case No, Delegate:
		return nil
	case Renamed:
		if s.renamed[dec.Param] {
			return nil
		}
		s.renamed[dec.Param] = true
		if d.Field != nil {
			v = v.withDocs(d.Field.Doc)
		}
		v.nameOverride = dec.Name
		return s.visitTyped(ParamDecl(dec.Param), v, nil)
	case Yes:
		if dec.Param != nil && d.Field != nil {
			binding = dec.Param
			v = v.withDocs(paramDoc(dec.Param.Method.Doc, dec.Param.Name))
		}
	}

	if len(Constraints(d)) > 0 && !v.validation {
		if !v.rootValidated {
			s.sink.Warn(v.root, "Element is missing @Validated annotation (org.springframework.validation.annotation.Validated).\nThis warning is shown because configuration class contains attribute with JSR-303 annotation ("+d.Type().String()+" "+d.Name()+"), but validation is not triggered.")
		} else {
			s.sink.Warn(d.subject(), "Found JSR-303 annotation on attribute in configuration class, but validation is not triggered.\nAre you missing @Valid annotation on attribute with type of enclosing class ("+d.Class().Name+")?\nJSR-303 annotation found on attribute:")
		}
	}
	return s.visitTyped(d, v, binding)
}

// visitTyped classifies the declared type: values Spring converts from a
// single string become records, nested structures are descended into.
func (s *Scanner) visitTyped(d Decl, v visit, binding *java.Parameter) error {
	t := d.Type()
	switch {
	case t.IsPrimitive():
		s.add(d, v.segment(d.Name()), v.docs, binding)
		return nil
	case t.IsArray():
		s.sink.Info(d.subject(), "Documenting array type, ensure proper documentation is provided for this property")
		s.add(d, v.segment(d.Name()), v.docs, binding)
		return nil
	}

	ref, _ := s.cb.ResolveType(d.Class(), t.Name)
	s.checkNestedConfiguration(d, ref)
	if d.Field != nil {
		v = v.withDocs(d.Field.Doc)
	}
	name := v.segment(d.Name())
	below := v.dive(d.Name(), v.validation && d.Annotations().Has(validAnnotations...))

	switch {
	case ref.IsEnum():
		s.add(d, name, v.docs, binding)
		return nil
	case ref.IsRecord():
		s.recommendValid(d, v)
		return s.descendInto(d, ref, below, binding)
	}

	collection := s.isCollectionProperty(d)
	if s.convertible(ref) && !collection {
		s.add(d, name, v.docs, binding)
		return nil
	}
	s.recommendValid(d, v)
	if s.isNested(d, ref) {
		return s.descendInto(d, ref, below, binding)
	}
	if !(d.Field != nil && collection) {
		s.sink.Warn(d.subject(), "Type "+ref.Name+" is not convertible from String without additional ConversionService, use JavaDoc tag @hidden to hide this property")
	}
	s.sink.Info(d.subject(), "Documenting collection type, ensure proper documentation is provided for this property")
	s.add(d, name, v.docs, binding)
	return nil
}

// descendInto scans a nested type. Types only known from the classpath
// have no members to walk and are documented as a whole.
func (s *Scanner) descendInto(d Decl, ref java.TypeRef, below visit, binding *java.Parameter) error {
	if ref.Class == nil {
		s.sink.Debugf("no source for nested type %s of %s", ref.Name, d)
		s.add(d, below.prefix, below.docs, binding)
		return nil
	}
	return s.descend(ref.Class, below)
}

func (s *Scanner) add(d Decl, name string, docs []*javadoc.DocComment, binding *java.Parameter) *Record {
	r := newRecord(d, name, docs)
	r.Binding = binding
	s.records = append(s.records, r)
	return r
}

func (s *Scanner) recommendValid(d Decl, v visit) {
	if v.validation && !d.Annotations().Has(validAnnotations...) {
		s.sink.Info(d.subject(), "Consider using @Valid annotation on this property")
	}
}

func (s *Scanner) isCollectionProperty(d Decl) bool {
	return s.chain.IsCollectionOrMap(d) && s.chain.HasGetter(d)
}

// isNested reports whether a declared type is a nested structure of the
// declaring class: explicitly marked, declared inside it, or declared in
// a class that itself holds a member of that type.
func (s *Scanner) isNested(d Decl, ref java.TypeRef) bool {
	if d.Annotations().Has(nestedPropertyAnnotation) {
		return true
	}
	if ref.Class == nil {
		return false
	}
	outer := d.Class()
	for parent := ref.Class.Outer; parent != nil; parent = parent.Outer {
		if parent == outer {
			return true
		}
		for _, f := range parent.Fields {
			if f.Type.IsArray() || f.Type.IsPrimitive() {
				continue
			}
			if other, _ := s.cb.ResolveType(parent, f.Type.Name); other.Class == ref.Class {
				return true
			}
		}
	}
	return false
}

// convertible reports whether Spring's conversion service binds the type
// from a single string. Types declared in the scanned sources never are.
// Collections bind from a comma separated list, maps do not.
func (s *Scanner) convertible(ref java.TypeRef) bool {
	if ref.Class != nil {
		return false
	}
	if kind, ok := java.LookupJDKType(ref.Name); ok {
		return kind == java.JDKConvertible || kind == java.JDKEnum || kind == java.JDKCollection
	}
	cf := ref.Compiled
	if cf == nil {
		return false
	}
	if cf.IsEnum() {
		return true
	}
	for _, m := range cf.Methods {
		takesString := strings.HasPrefix(m.Descriptor, "(Ljava/lang/String;)") ||
			strings.HasPrefix(m.Descriptor, "(Ljava/lang/CharSequence;)")
		if !takesString || !m.AccessFlags.IsPublic() {
			continue
		}
		switch m.Name {
		case "<init>":
			return true
		case "valueOf", "of", "from", "parse":
			if m.AccessFlags.IsStatic() {
				return true
			}
		}
	}
	return false
}

// checkNestedConfiguration warns about @ConfigurationProperties and
// @Configuration types declared inside a @ConfigurationProperties class.
func (s *Scanner) checkNestedConfiguration(d Decl, ref java.TypeRef) {
	c := ref.Class
	if c == nil {
		return
	}
	var name string
	switch {
	case c.Annotations.Has(configurationPropertiesAnnotation):
		name = "ConfigurationProperties"
	case c.Annotations.Has(configurationAnnotation):
		name = "Configuration"
	default:
		return
	}
	for parent := c.Outer; parent != nil; parent = parent.Outer {
		if parent.Annotations.Has(configurationPropertiesAnnotation) {
			s.sink.Warn(classSubject(c), "Found "+name+" annotation on nested class ("+c.Name+") in class with @ConfigurationProperties annotation ("+parent.Name+"), this is probably wrong usage, consult Spring Boot documentation")
			return
		}
	}
}
