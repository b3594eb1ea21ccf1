package classfile

import (
	"bytes"
	"fmt"
)

// Attribute is a named attribute with its raw payload. Payloads of the
// attributes this package understands are decoded on demand.
type Attribute struct {
	Name string
	Data []byte
}

type InnerClass struct {
	Inner  string
	Outer  string
	Name   string
	Access AccessFlags
}

type RecordComponent struct {
	Name       string
	Descriptor string
	Signature  string
}

func findAttribute(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

func (a *Attribute) reader() *reader {
	return &reader{r: bytes.NewReader(a.Data)}
}

// ConstantValueIndex decodes a ConstantValue attribute.
func (a *Attribute) ConstantValueIndex() (uint16, error) {
	if a.Name != "ConstantValue" {
		return 0, fmt.Errorf("attribute %s is not ConstantValue", a.Name)
	}
	r := a.reader()
	index := r.readU2()
	return index, r.err
}

// SignatureValue decodes a Signature attribute.
func (a *Attribute) SignatureValue(cp ConstantPool) (string, error) {
	if a.Name != "Signature" {
		return "", fmt.Errorf("attribute %s is not Signature", a.Name)
	}
	r := a.reader()
	index := r.readU2()
	return cp.Utf8(index), r.err
}

// InnerClasses decodes an InnerClasses attribute.
func (a *Attribute) InnerClasses(cp ConstantPool) ([]InnerClass, error) {
	if a.Name != "InnerClasses" {
		return nil, fmt.Errorf("attribute %s is not InnerClasses", a.Name)
	}
	r := a.reader()
	n := r.readU2()
	classes := make([]InnerClass, 0, n)
	for i := uint16(0); i < n && r.err == nil; i++ {
		ic := InnerClass{
			Inner: cp.ClassName(r.readU2()),
			Outer: cp.ClassName(r.readU2()),
			Name:  cp.Utf8(r.readU2()),
		}
		ic.Access = AccessFlags(r.readU2())
		classes = append(classes, ic)
	}
	if r.err != nil {
		return nil, fmt.Errorf("read InnerClasses: %w", r.err)
	}
	return classes, nil
}

// RecordComponents decodes a Record attribute.
func (a *Attribute) RecordComponents(cp ConstantPool) ([]RecordComponent, error) {
	if a.Name != "Record" {
		return nil, fmt.Errorf("attribute %s is not Record", a.Name)
	}
	r := a.reader()
	n := r.readU2()
	components := make([]RecordComponent, 0, n)
	for i := uint16(0); i < n && r.err == nil; i++ {
		rc := RecordComponent{
			Name:       cp.Utf8(r.readU2()),
			Descriptor: cp.Utf8(r.readU2()),
		}
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, fmt.Errorf("read record component %s: %w", rc.Name, err)
		}
		if sig := findAttribute(attrs, "Signature"); sig != nil {
			rc.Signature, _ = sig.SignatureValue(cp)
		}
		components = append(components, rc)
	}
	if r.err != nil {
		return nil, fmt.Errorf("read Record: %w", r.err)
	}
	return components, nil
}
