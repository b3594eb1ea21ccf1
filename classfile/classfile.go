// Package classfile reads the parts of JVM class files needed to look up
// compile-time constants, enum constants and record shapes of compiled
// dependencies.
package classfile

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []Member
	Methods      []Member
	Attributes   []Attribute
}

// Member is a field or method.
type Member struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Attributes  []Attribute
}

func (m *Member) Attribute(name string) *Attribute {
	return findAttribute(m.Attributes, name)
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.ClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.ClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.ClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsEnum() bool {
	return cf.AccessFlags.IsEnum()
}

func (cf *ClassFile) IsRecord() bool {
	return cf.SuperClassName() == "java/lang/Record" || cf.Attribute("Record") != nil
}

func (cf *ClassFile) Attribute(name string) *Attribute {
	return findAttribute(cf.Attributes, name)
}

func (cf *ClassFile) Field(name string) *Member {
	for i := range cf.Fields {
		if cf.Fields[i].Name == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// HasMethod reports whether a method with the given name and descriptor
// exists. An empty descriptor matches any overload.
func (cf *ClassFile) HasMethod(name, descriptor string) bool {
	for _, m := range cf.Methods {
		if m.Name == name && (descriptor == "" || m.Descriptor == descriptor) {
			return true
		}
	}
	return false
}

// EnumConstants returns the names of the enum constants declared by the
// class, in declaration order.
func (cf *ClassFile) EnumConstants() []string {
	if !cf.IsEnum() {
		return nil
	}
	var names []string
	for _, f := range cf.Fields {
		if f.AccessFlags.IsEnum() {
			names = append(names, f.Name)
		}
	}
	return names
}

// ConstantValue returns the compile-time constant of a field. Booleans
// and chars, which the pool stores as integers, are converted to bool and
// a one-character string using the field descriptor.
func (cf *ClassFile) ConstantValue(f *Member) (any, bool) {
	attr := f.Attribute("ConstantValue")
	if attr == nil {
		return nil, false
	}
	index, err := attr.ConstantValueIndex()
	if err != nil {
		return nil, false
	}
	v, ok := cf.ConstantPool.Value(index)
	if !ok {
		return nil, false
	}
	if i, isInt := v.(int32); isInt {
		switch f.Descriptor {
		case "Z":
			return i != 0, true
		case "C":
			return string(rune(i)), true
		}
	}
	return v, true
}
