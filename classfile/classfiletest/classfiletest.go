// Package classfiletest assembles small class files for tests, so that
// readers of compiled classes can be exercised without a JDK.
package classfiletest

import (
	"bytes"
	"encoding/binary"

	"github.com/dhamidi/entitygen/classfile"
)

// Class describes the class file to assemble. Names are internal names
// ("com/acme/Order"); annotations are descriptors ("Lcom/acme/Entity;").
type Class struct {
	Name         string
	Super        string
	Interfaces   []string
	Access       classfile.AccessFlags
	Signature    string
	Annotations  []string
	InnerClasses []classfile.InnerClass
	Record       bool
	Fields       []Member
	Methods      []Member
}

type Member struct {
	Access         classfile.AccessFlags
	Name           string
	Descriptor     string
	Signature      string
	ParameterNames []string
	Exceptions     []string
	Annotations    []string
}

// Bytes assembles the class file. Every non-abstract method gets a small
// Code attribute and the pool starts with a Long constant, so readers meet
// the attributes and pool slots they must skip.
func (c *Class) Bytes() []byte {
	p := newPool()
	p.long(1)

	var body buf
	body.u2(uint16(c.Access))
	body.u2(p.class(c.Name))
	if c.Super == "" {
		body.u2(0)
	} else {
		body.u2(p.class(c.Super))
	}
	body.u2(uint16(len(c.Interfaces)))
	for _, iface := range c.Interfaces {
		body.u2(p.class(iface))
	}
	body.u2(uint16(len(c.Fields)))
	for _, f := range c.Fields {
		f.write(&body, p, false)
	}
	body.u2(uint16(len(c.Methods)))
	for _, m := range c.Methods {
		m.write(&body, p, true)
	}

	var attrs []attribute
	if c.Signature != "" {
		attrs = append(attrs, p.signature(c.Signature))
	}
	if len(c.Annotations) > 0 {
		attrs = append(attrs, p.annotations(c.Annotations))
	}
	if len(c.InnerClasses) > 0 {
		var info buf
		info.u2(uint16(len(c.InnerClasses)))
		for _, ic := range c.InnerClasses {
			info.u2(p.class(ic.Inner))
			if ic.Outer == "" {
				info.u2(0)
			} else {
				info.u2(p.class(ic.Outer))
			}
			if ic.Name == "" {
				info.u2(0)
			} else {
				info.u2(p.utf8(ic.Name))
			}
			info.u2(uint16(ic.AccessFlags))
		}
		attrs = append(attrs, attribute{p.utf8("InnerClasses"), info.Bytes()})
	}
	if c.Record {
		attrs = append(attrs, attribute{p.utf8("Record"), []byte{0, 0}})
	}
	writeAttributes(&body, attrs)

	var out buf
	out.u4(classfile.Magic)
	out.u2(0)
	out.u2(61)
	out.u2(p.next)
	out.Write(p.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

func (m Member) write(b *buf, p *pool, method bool) {
	b.u2(uint16(m.Access))
	b.u2(p.utf8(m.Name))
	b.u2(p.utf8(m.Descriptor))

	var attrs []attribute
	if method && !m.Access.IsAbstract() {
		// max_stack, max_locals, code_length, return, no handlers or attributes
		attrs = append(attrs, attribute{p.utf8("Code"), []byte{0, 1, 0, 1, 0, 0, 0, 1, 0xB1, 0, 0, 0, 0}})
	}
	if m.Signature != "" {
		attrs = append(attrs, p.signature(m.Signature))
	}
	if len(m.ParameterNames) > 0 {
		var info buf
		info.WriteByte(byte(len(m.ParameterNames)))
		for _, name := range m.ParameterNames {
			info.u2(p.utf8(name))
			info.u2(0)
		}
		attrs = append(attrs, attribute{p.utf8("MethodParameters"), info.Bytes()})
	}
	if len(m.Exceptions) > 0 {
		var info buf
		info.u2(uint16(len(m.Exceptions)))
		for _, ex := range m.Exceptions {
			info.u2(p.class(ex))
		}
		attrs = append(attrs, attribute{p.utf8("Exceptions"), info.Bytes()})
	}
	if len(m.Annotations) > 0 {
		attrs = append(attrs, p.annotations(m.Annotations))
	}
	writeAttributes(b, attrs)
}

type attribute struct {
	name uint16
	info []byte
}

func writeAttributes(b *buf, attrs []attribute) {
	b.u2(uint16(len(attrs)))
	for _, a := range attrs {
		b.u2(a.name)
		b.u4(uint32(len(a.info)))
		b.Write(a.info)
	}
}

type buf struct {
	bytes.Buffer
}

func (b *buf) u2(v uint16) {
	b.Write(binary.BigEndian.AppendUint16(nil, v))
}

func (b *buf) u4(v uint32) {
	b.Write(binary.BigEndian.AppendUint32(nil, v))
}

type pool struct {
	buf
	next    uint16
	utf8s   map[string]uint16
	classes map[string]uint16
}

func newPool() *pool {
	return &pool{next: 1, utf8s: map[string]uint16{}, classes: map[string]uint16{}}
}

func (p *pool) utf8(s string) uint16 {
	if idx, ok := p.utf8s[s]; ok {
		return idx
	}
	p.WriteByte(byte(classfile.ConstantUtf8))
	p.u2(uint16(len(s)))
	p.WriteString(s)
	p.utf8s[s] = p.next
	p.next++
	return p.utf8s[s]
}

func (p *pool) class(name string) uint16 {
	if idx, ok := p.classes[name]; ok {
		return idx
	}
	nameIdx := p.utf8(name)
	p.WriteByte(byte(classfile.ConstantClass))
	p.u2(nameIdx)
	p.classes[name] = p.next
	p.next++
	return p.classes[name]
}

func (p *pool) long(v int64) {
	p.WriteByte(byte(classfile.ConstantLong))
	p.u4(uint32(uint64(v) >> 32))
	p.u4(uint32(v))
	p.next += 2
}

func (p *pool) signature(sig string) attribute {
	var info buf
	info.u2(p.utf8(sig))
	return attribute{p.utf8("Signature"), info.Bytes()}
}

// annotations writes each annotation with one array-valued element so that
// readers have element values to skip.
func (p *pool) annotations(descs []string) attribute {
	var info buf
	info.u2(uint16(len(descs)))
	for _, desc := range descs {
		info.u2(p.utf8(desc))
		info.u2(1)
		info.u2(p.utf8("value"))
		info.WriteByte('[')
		info.u2(1)
		info.WriteByte('s')
		info.u2(p.utf8(desc))
	}
	return attribute{p.utf8("RuntimeInvisibleAnnotations"), info.Bytes()}
}
