package property

import (
	"strings"

	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/java"
)

// Answer is a strategy's verdict on whether a declaration is a bindable
// property.
type Answer int

const (
	// Delegate passes the question on to the next strategy.
	Delegate Answer = iota
	Yes
	No
	// Renamed means the declaration binds through a constructor
	// parameter whose @Name differs from the declaration's name.
	Renamed
)

func (a Answer) String() string {
	switch a {
	case Delegate:
		return "delegate"
	case Yes:
		return "yes"
	case No:
		return "no"
	case Renamed:
		return "renamed"
	}
	return "unknown"
}

// Decision is the outcome of evaluating the chain.
type Decision struct {
	Answer Answer
	// Param is the binding constructor parameter for constructor-bound
	// Yes and Renamed answers.
	Param *java.Parameter
	// Name is the replacement segment of a Renamed answer.
	Name string
}

// Strategy is one link of the chain. Property may be nil for links that
// only contribute accessor lookups.
type Strategy struct {
	Name     string
	Property func(d Decl) (Decision, error)
	Getter   func(d Decl) bool
	Setter   func(d Decl) bool
}

// Strategy names, in chain order.
const (
	AnnotatedConstructor = "AnnotatedConstructor"
	SingleConstructor    = "SingleConstructor"
	PossibleProperty     = "PossibleProperty"
	CollectionOrMap      = "CollectionOrMap"
	JavaBean             = "JavaBean"
	BooleanGetter        = "BooleanGetter"
)

var (
	constructorBindingAnnotations = []string{
		"org.springframework.boot.context.properties.bind.ConstructorBinding",
		"org.springframework.boot.context.properties.ConstructorBinding",
	}
	autowiredAnnotation = "org.springframework.beans.factory.annotation.Autowired"
	nameAnnotation      = "org.springframework.boot.context.properties.bind.Name"
)

// Chain decides property membership by asking its strategies in order
// until one gives a definitive answer. No answer means not a property.
type Chain struct {
	strategies []Strategy
	cb         *java.Codebase
	sink       *diagnostic.Sink
	warned     map[warnKey]bool
}

type warnKey struct {
	at  any
	msg string
}

// NewChain returns the full chain. With requireGetter a setter alone
// does not make a property.
func NewChain(cb *java.Codebase, sink *diagnostic.Sink, requireGetter bool) *Chain {
	ch := &Chain{cb: cb, sink: sink, warned: map[warnKey]bool{}}
	ch.strategies = []Strategy{
		{Name: AnnotatedConstructor, Property: ch.annotatedConstructor},
		{Name: SingleConstructor, Property: ch.singleConstructor},
		{Name: PossibleProperty, Property: possibleProperty},
		{Name: CollectionOrMap, Property: ch.collectionOrMap},
		{
			Name:     JavaBean,
			Property: ch.javaBean(requireGetter),
			Getter:   accessor("get"),
			Setter:   setter,
		},
		{Name: BooleanGetter, Getter: accessor("is")},
	}
	return ch
}

// From returns the chain starting at the named strategy, sharing
// diagnostics state with ch.
func (ch *Chain) From(name string) *Chain {
	for i, s := range ch.strategies {
		if s.Name == name {
			sub := *ch
			sub.strategies = ch.strategies[i:]
			return &sub
		}
	}
	return ch
}

// Strategies returns the names of the strategies in evaluation order.
func (ch *Chain) Strategies() []string {
	names := make([]string, len(ch.strategies))
	for i, s := range ch.strategies {
		names[i] = s.Name
	}
	return names
}

// Decide runs the chain. A Delegate from every strategy becomes No.
func (ch *Chain) Decide(d Decl) (Decision, error) {
	for _, s := range ch.strategies {
		if s.Property == nil {
			continue
		}
		dec, err := s.Property(d)
		if err != nil {
			return Decision{}, err
		}
		if dec.Answer != Delegate {
			return dec, nil
		}
	}
	return Decision{Answer: No}, nil
}

// IsProperty reports whether d is a property under its own name.
func (ch *Chain) IsProperty(d Decl) (bool, error) {
	dec, err := ch.Decide(d)
	return dec.Answer == Yes, err
}

func (ch *Chain) HasGetter(d Decl) bool {
	for _, s := range ch.strategies {
		if s.Getter != nil && s.Getter(d) {
			return true
		}
	}
	return false
}

func (ch *Chain) HasSetter(d Decl) bool {
	for _, s := range ch.strategies {
		if s.Setter != nil && s.Setter(d) {
			return true
		}
	}
	return false
}

func (ch *Chain) warnOnce(key any, at diagnostic.Subject, msg string) {
	k := warnKey{key, msg}
	if ch.warned[k] {
		return
	}
	ch.warned[k] = true
	ch.sink.Warn(at, msg)
}

func classSubject(c *java.Class) diagnostic.Subject {
	return diagnostic.At(c.Pos, c.Name)
}

func methodSubject(m *java.Method) diagnostic.Subject {
	return diagnostic.At(m.Pos, m.Name)
}

func (ch *Chain) annotatedConstructorOf(c *java.Class) (*java.Method, error) {
	var annotated []*java.Method
	for _, m := range c.Constructors {
		if m.Annotations.Has(constructorBindingAnnotations...) {
			annotated = append(annotated, m)
		}
	}
	switch {
	case len(annotated) == 0:
		return nil, nil
	case len(annotated) > 1:
		return nil, ch.sink.Fatal(classSubject(c), "Multiple constructors with ConstructorBinding annotation, consult Spring Boot documentation for correct usage")
	}
	ctor := annotated[0]
	for _, m := range c.Constructors {
		if m.Annotations.Has(autowiredAnnotation) {
			return nil, ch.sink.Fatal(methodSubject(ctor), "Class "+c.Name+" declares @Autowired and @ConstructorBinding constructor")
		}
	}
	if len(ctor.Params) == 0 {
		ch.warnOnce(ctor, methodSubject(ctor), "Constructor with ConstructorBinding annotation has no parameters")
	}
	return ctor, nil
}

func (ch *Chain) singleConstructorOf(c *java.Class) (*java.Method, error) {
	switch len(c.Constructors) {
	case 0:
		return nil, nil
	case 1:
		return c.Constructors[0], nil
	}
	for _, m := range c.Constructors {
		if len(m.Params) == 0 {
			return nil, nil
		}
	}
	return nil, ch.sink.Fatal(classSubject(c), "Multiple constructors found without ConstructorBinding annotation. Introduce default constructor or use ConstructorBinding annotation.")
}

func (ch *Chain) annotatedConstructor(d Decl) (Decision, error) {
	c := d.Class()
	if c == nil {
		return Decision{}, nil
	}
	ctor, err := ch.annotatedConstructorOf(c)
	if err != nil || ctor == nil {
		return Decision{}, err
	}
	return ch.bindParam(d, ctor), nil
}

func (ch *Chain) singleConstructor(d Decl) (Decision, error) {
	c := d.Class()
	if c == nil {
		return Decision{}, nil
	}
	ctor, err := ch.singleConstructorOf(c)
	if err != nil || ctor == nil {
		return Decision{}, err
	}
	if len(ctor.Params) == 0 || ctor.Annotations.Has(autowiredAnnotation) {
		return Decision{}, nil
	}
	return ch.bindParam(d, ctor), nil
}

// MatchingParam returns the constructor parameter with the name and type
// of d.
func MatchingParam(ctor *java.Method, d Decl) *java.Parameter {
	for _, p := range ctor.Params {
		if p.Name == d.Name() && p.Type.Same(d.Type()) {
			return p
		}
	}
	return nil
}

func (ch *Chain) bindParam(d Decl, ctor *java.Method) Decision {
	p := MatchingParam(ctor, d)
	if p == nil {
		return Decision{Answer: No}
	}
	name := p.Annotations.Find(nameAnnotation)
	if name == nil {
		return Decision{Answer: Yes, Param: p}
	}
	value, _ := name.String("value")
	if strings.TrimSpace(value) == "" || value == d.Name() {
		ch.warnOnce(p, diagnostic.At(p.Pos, p.Name), "Parameter has @Name annotation with same value as parameter name, this is redundant and can be removed.")
		return Decision{Answer: Yes, Param: p}
	}
	return Decision{Answer: Renamed, Param: p, Name: value}
}

func possibleProperty(d Decl) (Decision, error) {
	f := d.Field
	if f != nil && f.Component {
		return Decision{Answer: Yes}, nil
	}
	if f == nil || f.Static || f.Class.Kind != java.ClassKindClass {
		return Decision{Answer: No}, nil
	}
	return Decision{}, nil
}

func (ch *Chain) collectionOrMap(d Decl) (Decision, error) {
	if d.Field == nil || d.Field.Init == nil || !ch.IsCollectionOrMap(d) {
		return Decision{}, nil
	}
	if ch.HasGetter(d) {
		return Decision{Answer: Yes}, nil
	}
	return Decision{Answer: No}, nil
}

func (ch *Chain) javaBean(requireGetter bool) func(Decl) (Decision, error) {
	return func(d Decl) (Decision, error) {
		if !ch.HasSetter(d) {
			return Decision{}, nil
		}
		if ch.HasGetter(d) || !requireGetter {
			return Decision{Answer: Yes}, nil
		}
		return Decision{Answer: No}, nil
	}
}

func accessor(prefix string) func(Decl) bool {
	return func(d Decl) bool {
		c := d.Class()
		return c != nil && len(c.MethodsNamed(prefix+java.Capitalize(d.Name()))) > 0
	}
}

func setter(d Decl) bool {
	if d.Field != nil && d.Field.Final {
		return false
	}
	return accessor("set")(d)
}

// IsCollectionOrMap reports whether the declared type is a
// java.util.Collection or java.util.Map.
func (ch *Chain) IsCollectionOrMap(d Decl) bool {
	t := d.Type()
	if t == nil || t.IsPrimitive() || t.IsArray() {
		return false
	}
	ref, _ := ch.cb.ResolveType(d.Class(), t.Name)
	return isCollectionType(ch.cb, ref.Name, 0)
}

// isCollectionType checks the platform table, then walks the supertypes
// of compiled classes.
func isCollectionType(cb *java.Codebase, name string, depth int) bool {
	if kind, ok := java.LookupJDKType(name); ok {
		return kind == java.JDKCollection || kind == java.JDKMap
	}
	if depth > 8 {
		return false
	}
	cf, ok := cb.Classpath().Load(strings.ReplaceAll(name, ".", "/"))
	if !ok {
		return false
	}
	supers := append([]string{cf.SuperClassName()}, cf.InterfaceNames()...)
	for _, s := range supers {
		if s != "" && isCollectionType(cb, strings.ReplaceAll(s, "/", "."), depth+1) {
			return true
		}
	}
	return false
}
