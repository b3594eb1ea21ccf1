package classfile

// Constant is one constant pool entry. Only the fields relevant to the
// entry's Tag are set: Text for Utf8, Int for Integer and Long, Float for
// Float and Double, and Ref1/Ref2 for the index-carrying kinds.
type Constant struct {
	Tag   ConstantTag
	Text  string
	Int   int64
	Float float64
	Ref1  uint16
	Ref2  uint16
}

// ConstantPool is indexed from 1, as in the class file. The slot after a
// Long or Double entry is nil.
type ConstantPool []*Constant

func (cp ConstantPool) entry(index uint16, tag ConstantTag) *Constant {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	c := cp[index-1]
	if c == nil || c.Tag != tag {
		return nil
	}
	return c
}

func (cp ConstantPool) Utf8(index uint16) string {
	if c := cp.entry(index, ConstantUtf8); c != nil {
		return c.Text
	}
	return ""
}

// ClassName returns the internal name (slash separated) of a Class entry.
func (cp ConstantPool) ClassName(index uint16) string {
	if c := cp.entry(index, ConstantClass); c != nil {
		return cp.Utf8(c.Ref1)
	}
	return ""
}

func (cp ConstantPool) String(index uint16) (string, bool) {
	if c := cp.entry(index, ConstantString); c != nil {
		return cp.Utf8(c.Ref1), true
	}
	return "", false
}

func (cp ConstantPool) NameAndType(index uint16) (name, descriptor string) {
	if c := cp.entry(index, ConstantNameAndType); c != nil {
		return cp.Utf8(c.Ref1), cp.Utf8(c.Ref2)
	}
	return "", ""
}

// Value returns the loadable value of a numeric or string constant as
// int32, int64, float32, float64 or string.
func (cp ConstantPool) Value(index uint16) (any, bool) {
	if index == 0 || int(index) > len(cp) || cp[index-1] == nil {
		return nil, false
	}
	c := cp[index-1]
	switch c.Tag {
	case ConstantInteger:
		return int32(c.Int), true
	case ConstantLong:
		return c.Int, true
	case ConstantFloat:
		return float32(c.Float), true
	case ConstantDouble:
		return c.Float, true
	case ConstantString:
		return cp.String(index)
	}
	return nil, false
}
