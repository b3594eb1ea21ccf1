package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}

	pool, err := readConstantPool(r)
	if err != nil {
		return nil, err
	}
	cf.ConstantPool = pool

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()

	interfacesCount := r.readU2()
	cf.Interfaces = make([]uint16, 0, interfacesCount)
	for i := uint16(0); i < interfacesCount && r.err == nil; i++ {
		cf.Interfaces = append(cf.Interfaces, r.readU2())
	}
	if r.err != nil {
		return nil, fmt.Errorf("read class info: %w", r.err)
	}

	if cf.Fields, err = readMembers(r, pool); err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}
	if cf.Methods, err = readMembers(r, pool); err != nil {
		return nil, fmt.Errorf("read methods: %w", err)
	}
	if cf.Attributes, err = readAttributes(r, pool); err != nil {
		return nil, fmt.Errorf("read class attributes: %w", err)
	}

	return cf, nil
}

func readConstantPool(r *reader) (ConstantPool, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("read constant pool count: %w", r.err)
	}
	if count == 0 {
		return nil, fmt.Errorf("invalid constant pool count 0")
	}

	pool := make(ConstantPool, count-1)
	for i := uint16(1); i < count; i++ {
		c, err := readConstant(r)
		if err != nil {
			return nil, fmt.Errorf("read constant pool entry %d: %w", i, err)
		}
		pool[i-1] = c
		if c.Tag.wide() {
			i++
		}
	}
	return pool, nil
}

func readConstant(r *reader) (*Constant, error) {
	c := &Constant{Tag: ConstantTag(r.readU1())}

	switch c.Tag {
	case ConstantUtf8:
		length := r.readU2()
		c.Text = decodeModifiedUtf8(r.readBytes(int(length)))
	case ConstantInteger:
		c.Int = int64(int32(r.readU4()))
	case ConstantFloat:
		c.Float = float64(math.Float32frombits(r.readU4()))
	case ConstantLong:
		high, low := r.readU4(), r.readU4()
		c.Int = int64(uint64(high)<<32 | uint64(low))
	case ConstantDouble:
		high, low := r.readU4(), r.readU4()
		c.Float = math.Float64frombits(uint64(high)<<32 | uint64(low))
	case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
		c.Ref1 = r.readU2()
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
		ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
		c.Ref1 = r.readU2()
		c.Ref2 = r.readU2()
	case ConstantMethodHandle:
		c.Ref1 = uint16(r.readU1())
		c.Ref2 = r.readU2()
	default:
		if r.err == nil {
			return nil, fmt.Errorf("unknown constant pool tag: %d", c.Tag)
		}
	}

	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

func readMembers(r *reader, cp ConstantPool) ([]Member, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	members := make([]Member, 0, count)
	for i := uint16(0); i < count; i++ {
		m := Member{
			AccessFlags: AccessFlags(r.readU2()),
			Name:        cp.Utf8(r.readU2()),
			Descriptor:  cp.Utf8(r.readU2()),
		}
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		m.Attributes = attrs
		members = append(members, m)
	}
	return members, nil
}

func readAttributes(r *reader, cp ConstantPool) ([]Attribute, error) {
	count := r.readU2()
	attrs := make([]Attribute, 0, count)
	for i := uint16(0); i < count && r.err == nil; i++ {
		name := cp.Utf8(r.readU2())
		length := r.readU4()
		attrs = append(attrs, Attribute{Name: name, Data: r.readBytes(int(length))})
	}
	if r.err != nil {
		return nil, r.err
	}
	return attrs, nil
}

func decodeModifiedUtf8(bytes []byte) string {
	runes := make([]rune, 0, len(bytes))
	i := 0
	for i < len(bytes) {
		b := bytes[i]
		switch {
		case b&0x80 == 0:
			runes = append(runes, rune(b))
			i++
		case b&0xE0 == 0xC0 && i+1 < len(bytes):
			runes = append(runes, rune(b&0x1F)<<6|rune(bytes[i+1]&0x3F))
			i += 2
		case b&0xF0 == 0xE0 && i+2 < len(bytes):
			r := rune(b&0x0F)<<12 | rune(bytes[i+1]&0x3F)<<6 | rune(bytes[i+2]&0x3F)
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(bytes) && bytes[i+3] == 0xED {
				low := rune(bytes[i+3]&0x0F)<<12 | rune(bytes[i+4]&0x3F)<<6 | rune(bytes[i+5]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+((r-0xD800)<<10)+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(b))
			i++
		}
	}
	return string(runes)
}
