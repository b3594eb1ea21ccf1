package java

import (
	"strings"

	"github.com/dhamidi/confdoc/classfile"
)

// TypeRef is a type name resolved from the point of view of a class.
// At most one of Class and Compiled is set; a well-known platform type
// that is on neither has only its Name.
type TypeRef struct {
	Name     string // canonical name, e.g. java.util.Map or com.example.Outer.Inner
	Class    *Class
	Compiled *classfile.ClassFile
}

// BinaryName returns the class file name of the type.
func (r TypeRef) BinaryName() string {
	if r.Class != nil {
		return r.Class.BinaryName()
	}
	if r.Compiled != nil {
		return r.Compiled.ClassName()
	}
	return classfile.SourceToInternalName(r.Name)
}

func (r TypeRef) IsEnum() bool {
	switch {
	case r.Class != nil:
		return r.Class.IsEnum()
	case r.Compiled != nil:
		return r.Compiled.IsEnum()
	}
	kind, _ := LookupJDKType(r.Name)
	return kind == JDKEnum
}

func (r TypeRef) IsRecord() bool {
	switch {
	case r.Class != nil:
		return r.Class.IsRecord()
	case r.Compiled != nil:
		return r.Compiled.IsRecord()
	}
	return false
}

// ResolveType resolves a type name as written inside from: the class
// itself and its enclosing classes and their member types, single-type
// imports, the same package, on-demand imports, java.lang and finally
// the name taken as fully qualified.
func (cb *Codebase) ResolveType(from *Class, name string) (TypeRef, bool) {
	if i := strings.IndexAny(name, "<["); i >= 0 {
		name = name[:i]
	}
	head, rest, qualified := strings.Cut(name, ".")
	if qualified {
		if ref, ok := cb.ResolveType(from, head); ok {
			if member, ok := cb.memberType(ref, rest); ok {
				return member, true
			}
		}
		return cb.lookupQualified(name)
	}

	for k := from; k != nil; k = k.Outer {
		if k.Name == name {
			return TypeRef{Name: k.QualifiedName(), Class: k}, true
		}
		if n := k.NestedClass(name); n != nil {
			return TypeRef{Name: n.QualifiedName(), Class: n}, true
		}
	}

	var unit *Unit
	if from != nil {
		unit = from.Unit
	}
	if unit == nil {
		unit = &Unit{}
	}

	for _, imp := range unit.Imports {
		if imp.OnDemand || imp.Simple() != name {
			continue
		}
		if ref, ok := cb.lookupQualified(imp.Name); ok {
			return ref, true
		}
		if !imp.Static {
			return TypeRef{Name: imp.Name}, true
		}
	}

	if unit.Package != "" {
		if ref, ok := cb.lookupQualified(unit.Package + "." + name); ok {
			return ref, true
		}
	} else if c := cb.Class(name); c != nil {
		return TypeRef{Name: name, Class: c}, true
	}

	for _, imp := range unit.Imports {
		if !imp.OnDemand {
			continue
		}
		if ref, ok := cb.lookupQualified(imp.Name + "." + name); ok {
			return ref, true
		}
	}

	if ref, ok := cb.lookupQualified("java.lang." + name); ok {
		return ref, true
	}
	if javaLang[name] {
		return TypeRef{Name: "java.lang." + name}, true
	}
	return TypeRef{Name: name}, false
}

// ResolveStaticImport finds the class a statically imported member name
// belongs to.
func (cb *Codebase) ResolveStaticImport(from *Class, member string) (TypeRef, bool) {
	if from == nil || from.Unit == nil {
		return TypeRef{}, false
	}
	for _, imp := range from.Unit.Imports {
		if !imp.Static {
			continue
		}
		owner := imp.Name
		if !imp.OnDemand {
			if imp.Simple() != member {
				continue
			}
			owner = owner[:max(strings.LastIndexByte(owner, '.'), 0)]
		}
		ref, ok := cb.lookupQualified(owner)
		if !ok {
			ref, ok = TypeRef{Name: owner}, !imp.OnDemand
		}
		if !ok {
			continue
		}
		if imp.OnDemand && !cb.declaresField(ref, member) {
			continue
		}
		return ref, true
	}
	return TypeRef{}, false
}

func (cb *Codebase) declaresField(ref TypeRef, name string) bool {
	switch {
	case ref.Class != nil:
		return ref.Class.Field(name) != nil
	case ref.Compiled != nil:
		return ref.Compiled.Field(name) != nil
	}
	_, ok := jdkConstants[ref.BinaryName()+"."+name]
	return ok
}

func (cb *Codebase) memberType(ref TypeRef, path string) (TypeRef, bool) {
	for _, seg := range strings.Split(path, ".") {
		switch {
		case ref.Class != nil:
			n := ref.Class.NestedClass(seg)
			if n == nil {
				return TypeRef{}, false
			}
			ref = TypeRef{Name: n.QualifiedName(), Class: n}
		case ref.Compiled != nil:
			cf, ok := cb.classpath.Load(ref.Compiled.ClassName() + "$" + seg)
			if !ok {
				return TypeRef{}, false
			}
			ref = TypeRef{Name: ref.Name + "." + seg, Compiled: cf}
		default:
			return TypeRef{}, false
		}
	}
	return ref, true
}

// lookupQualified finds a canonical name among the source classes, the
// classpath and the well-known platform types. Nested classes are tried
// with '$' separators from the innermost segment outward.
func (cb *Codebase) lookupQualified(name string) (TypeRef, bool) {
	if c := cb.Class(name); c != nil {
		return TypeRef{Name: name, Class: c}, true
	}
	binary := classfile.SourceToInternalName(name)
	for {
		if cf, ok := cb.classpath.Load(binary); ok {
			return TypeRef{Name: name, Compiled: cf}, true
		}
		i := strings.LastIndexByte(binary, '/')
		if i < 0 {
			break
		}
		binary = binary[:i] + "$" + binary[i+1:]
	}
	if _, ok := LookupJDKType(name); ok {
		return TypeRef{Name: name}, true
	}
	return TypeRef{Name: name}, false
}

// LookupField finds a field visible from a class: declared in the class,
// then in its enclosing classes outward, then in its nested classes
// depth-first.
func LookupField(from *Class, name string) *Field {
	for k := from; k != nil; k = k.Outer {
		if f := k.Field(name); f != nil {
			return f
		}
	}
	if from == nil {
		return nil
	}
	var nested func(c *Class) *Field
	nested = func(c *Class) *Field {
		for _, n := range c.Nested {
			if f := n.Field(name); f != nil {
				return f
			}
			if f := nested(n); f != nil {
				return f
			}
		}
		return nil
	}
	return nested(from)
}
