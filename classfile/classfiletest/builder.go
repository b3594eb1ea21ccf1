// Package classfiletest builds small class files in memory for tests.
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/dhamidi/confdoc/classfile"
)

type member struct {
	access classfile.AccessFlags
	name   string
	desc   string
	attrs  []attribute
}

type attribute struct {
	name string
	data []byte
}

// Builder assembles a class file. Methods return the builder so calls can
// be chained.
type Builder struct {
	pool    bytes.Buffer
	count   uint16
	utf8s   map[string]uint16
	access  classfile.AccessFlags
	this    string
	super   string
	fields  []member
	methods []member
	attrs   []attribute
}

// New starts a public class with the given internal name extending
// java/lang/Object.
func New(name string) *Builder {
	return &Builder{
		count:  1,
		utf8s:  map[string]uint16{},
		access: classfile.AccPublic,
		this:   name,
		super:  "java/lang/Object",
	}
}

// Name returns the internal name of the class being built.
func (b *Builder) Name() string {
	return b.this
}

func (b *Builder) Access(flags classfile.AccessFlags) *Builder {
	b.access = flags
	return b
}

func (b *Builder) Super(name string) *Builder {
	b.super = name
	return b
}

// Enum marks the class as an enum and declares the given constants.
func (b *Builder) Enum(constants ...string) *Builder {
	b.access |= classfile.AccEnum | classfile.AccFinal
	b.super = "java/lang/Enum"
	for _, c := range constants {
		b.Field(classfile.AccPublic|classfile.AccStatic|classfile.AccFinal|classfile.AccEnum, c, "L"+b.this+";")
	}
	return b
}

func (b *Builder) Field(access classfile.AccessFlags, name, desc string) *Builder {
	b.fields = append(b.fields, member{access: access, name: name, desc: desc})
	return b
}

// Constant declares a public static final field with a ConstantValue
// attribute. value must be a string, int32, int64, float32, float64, bool
// or rune matching desc.
func (b *Builder) Constant(name, desc string, value any) *Builder {
	var index uint16
	switch v := value.(type) {
	case string:
		index = b.add(classfile.ConstantString, u2(b.utf8(v)))
	case int32:
		index = b.add(classfile.ConstantInteger, u4(uint32(v)))
	case bool:
		n := uint32(0)
		if v {
			n = 1
		}
		index = b.add(classfile.ConstantInteger, u4(n))
	case int64:
		index = b.add(classfile.ConstantLong, u4(uint32(uint64(v)>>32)), u4(uint32(v)))
		b.count++
	case float32:
		index = b.add(classfile.ConstantFloat, u4(math.Float32bits(v)))
	case float64:
		bits := math.Float64bits(v)
		index = b.add(classfile.ConstantDouble, u4(uint32(bits>>32)), u4(uint32(bits)))
		b.count++
	default:
		panic("classfiletest: unsupported constant type")
	}
	b.fields = append(b.fields, member{
		access: classfile.AccPublic | classfile.AccStatic | classfile.AccFinal,
		name:   name,
		desc:   desc,
		attrs:  []attribute{{name: "ConstantValue", data: u2(index)}},
	})
	return b
}

func (b *Builder) Method(access classfile.AccessFlags, name, desc string) *Builder {
	b.methods = append(b.methods, member{access: access, name: name, desc: desc})
	return b
}

// Record marks the class as a record with components given as name and
// descriptor pairs.
func (b *Builder) Record(components ...[2]string) *Builder {
	b.super = "java/lang/Record"
	data := u2(uint16(len(components)))
	for _, c := range components {
		data = append(data, u2(b.utf8(c[0]))...)
		data = append(data, u2(b.utf8(c[1]))...)
		data = append(data, u2(0)...)
		b.Field(classfile.AccPrivate|classfile.AccFinal, c[0], c[1])
	}
	b.attrs = append(b.attrs, attribute{name: "Record", data: data})
	return b
}

// InnerClass adds an InnerClasses entry.
func (b *Builder) InnerClass(inner, outer, simple string, access classfile.AccessFlags) *Builder {
	data := u2(1)
	data = append(data, u2(b.class(inner))...)
	data = append(data, u2(b.class(outer))...)
	data = append(data, u2(b.utf8(simple))...)
	data = append(data, u2(uint16(access))...)
	b.attrs = append(b.attrs, attribute{name: "InnerClasses", data: data})
	return b
}

// Bytes encodes the class file.
func (b *Builder) Bytes() []byte {
	thisIndex := b.class(b.this)
	superIndex := b.class(b.super)
	for _, list := range [][]member{b.fields, b.methods} {
		for _, m := range list {
			b.utf8(m.name)
			b.utf8(m.desc)
			for _, a := range m.attrs {
				b.utf8(a.name)
			}
		}
	}
	for _, a := range b.attrs {
		b.utf8(a.name)
	}

	var out bytes.Buffer
	out.Write(u4(classfile.Magic))
	out.Write(u2(0))
	out.Write(u2(61))
	out.Write(u2(b.count))
	out.Write(b.pool.Bytes())
	out.Write(u2(uint16(b.access)))
	out.Write(u2(thisIndex))
	out.Write(u2(superIndex))
	out.Write(u2(0))
	for _, list := range [][]member{b.fields, b.methods} {
		out.Write(u2(uint16(len(list))))
		for _, m := range list {
			out.Write(u2(uint16(m.access)))
			out.Write(u2(b.utf8(m.name)))
			out.Write(u2(b.utf8(m.desc)))
			b.writeAttributes(&out, m.attrs)
		}
	}
	b.writeAttributes(&out, b.attrs)
	return out.Bytes()
}

func (b *Builder) writeAttributes(out *bytes.Buffer, attrs []attribute) {
	out.Write(u2(uint16(len(attrs))))
	for _, a := range attrs {
		out.Write(u2(b.utf8(a.name)))
		out.Write(u4(uint32(len(a.data))))
		out.Write(a.data)
	}
}

func (b *Builder) add(tag classfile.ConstantTag, parts ...[]byte) uint16 {
	b.pool.WriteByte(byte(tag))
	for _, p := range parts {
		b.pool.Write(p)
	}
	index := b.count
	b.count++
	return index
}

func (b *Builder) utf8(s string) uint16 {
	if index, ok := b.utf8s[s]; ok {
		return index
	}
	index := b.add(classfile.ConstantUtf8, u2(uint16(len(s))), []byte(s))
	b.utf8s[s] = index
	return index
}

func (b *Builder) class(name string) uint16 {
	return b.add(classfile.ConstantClass, u2(b.utf8(name)))
}

func u2(v uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, v)
}

func u4(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}
