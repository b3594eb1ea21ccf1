package java

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first letter of name, the way JavaBean
// accessor names are formed.
func Capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// GetterName returns the accessor name Lombok generates for a field.
func GetterName(f *Field) string {
	if f.Type != nil && f.Type.Dims == 0 && f.Type.Name == "boolean" {
		if hasIsPrefix(f.Name) {
			return f.Name
		}
		return "is" + Capitalize(f.Name)
	}
	return "get" + Capitalize(f.Name)
}

// SetterName returns the mutator name Lombok generates for a field.
func SetterName(f *Field) string {
	if f.Type != nil && f.Type.Dims == 0 && f.Type.Name == "boolean" && hasIsPrefix(f.Name) {
		return "set" + f.Name[2:]
	}
	return "set" + Capitalize(f.Name)
}

func hasIsPrefix(name string) bool {
	if !strings.HasPrefix(name, "is") || len(name) < 3 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name[2:])
	return unicode.IsUpper(r)
}

// synthesizeCanonicalConstructor adds the implicit canonical constructor
// of a record that declares none.
func synthesizeCanonicalConstructor(c *Class) {
	if !c.IsRecord() {
		return
	}
	components := c.Components()
	for _, ctor := range c.Constructors {
		if ctor.Compact || sameParams(ctor.Params, components) {
			return
		}
	}
	c.Constructors = append(c.Constructors, newSyntheticConstructor(c, components))
}

func sameParams(params []*Parameter, fields []*Field) bool {
	if len(params) != len(fields) {
		return false
	}
	for i := range params {
		if !params[i].Type.Same(fields[i].Type) {
			return false
		}
	}
	return true
}

func newSyntheticConstructor(c *Class, fields []*Field) *Method {
	m := &Method{
		Name:        c.Name,
		Class:       c,
		Public:      true,
		Constructor: true,
		Synthetic:   true,
		Pos:         c.Pos,
	}
	if c.IsRecord() {
		m.Doc = c.Doc
	}
	for _, f := range fields {
		m.Params = append(m.Params, &Parameter{
			Name:        f.Name,
			Type:        f.Type,
			Annotations: f.Annotations,
			Method:      m,
			Pos:         f.Pos,
		})
	}
	return m
}

const lombok = "lombok."

// applyLombok adds the accessors and constructors generated by Lombok's
// class and field annotations.
func applyLombok(c *Class) {
	if c.Kind != ClassKindClass {
		return
	}
	ann := c.Annotations
	data := ann.Has(lombok + "Data")
	value := ann.Has(lombok+"Value", "Value")

	var fields []*Field
	for _, f := range c.Fields {
		if f.Static {
			continue
		}
		if value {
			f.Final = true
		}
		fields = append(fields, f)
	}

	classGetter := data || value || enabled(ann.Find(lombok+"Getter"))
	classSetter := data || enabled(ann.Find(lombok+"Setter"))
	for _, f := range fields {
		getter := f.Annotations.Find(lombok + "Getter")
		if (classGetter && getter == nil) || enabled(getter) {
			addAccessor(c, f, GetterName(f), nil)
		}
		setter := f.Annotations.Find(lombok + "Setter")
		if !f.Final && ((classSetter && setter == nil) || enabled(setter)) {
			addAccessor(c, f, SetterName(f), f)
		}
	}

	explicit := len(c.Constructors) > 0
	var generated bool
	if ann.Has(lombok + "NoArgsConstructor") {
		addConstructor(c, nil)
		generated = true
	}
	if ann.Has(lombok + "AllArgsConstructor") {
		addConstructor(c, allArgs(fields))
		generated = true
	}
	if ann.Has(lombok + "RequiredArgsConstructor") {
		addConstructor(c, requiredArgs(fields))
		generated = true
	}
	if generated || explicit {
		return
	}
	switch {
	case value:
		addConstructor(c, allArgs(fields))
	case data:
		addConstructor(c, requiredArgs(fields))
	}
}

// enabled reports whether an accessor annotation is present and not
// switched off with AccessLevel.NONE.
func enabled(a *Annotation) bool {
	if a == nil {
		return false
	}
	v := a.Value("value")
	return v == nil || !strings.HasSuffix(v.Source(), "NONE")
}

func addAccessor(c *Class, f *Field, name string, param *Field) {
	arity := 0
	if param != nil {
		arity = 1
	}
	if c.HasMethod(name, arity) {
		return
	}
	m := &Method{
		Name:      name,
		Class:     c,
		Public:    true,
		Synthetic: true,
		Pos:       f.Pos,
	}
	if param == nil {
		m.Result = f.Type
	} else {
		m.Result = &Type{Name: "void"}
		m.Params = []*Parameter{{Name: f.Name, Type: f.Type, Method: m, Pos: f.Pos}}
	}
	c.Methods = append(c.Methods, m)
}

func addConstructor(c *Class, fields []*Field) {
	for _, ctor := range c.Constructors {
		if sameParams(ctor.Params, fields) {
			return
		}
	}
	c.Constructors = append(c.Constructors, newSyntheticConstructor(c, fields))
}

func allArgs(fields []*Field) []*Field {
	var out []*Field
	for _, f := range fields {
		if f.Final && f.Init != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}

func requiredArgs(fields []*Field) []*Field {
	var out []*Field
	for _, f := range fields {
		if f.Init != nil {
			continue
		}
		if f.Final || f.Annotations.Has(lombok+"NonNull", "NonNull") {
			out = append(out, f)
		}
	}
	return out
}
