package classfile

import "encoding/binary"

// Attribute is a named attribute. Info is nil for attributes that are
// skipped while reading.
type Attribute struct {
	Name string
	Info []byte
}

// InnerClass is one InnerClasses entry. Outer and Name are empty for local
// and anonymous classes.
type InnerClass struct {
	Inner       string
	Outer       string
	Name        string
	AccessFlags AccessFlags
}

func findAttribute(attrs []Attribute, name string) []byte {
	for _, a := range attrs {
		if a.Name == name && a.Info != nil {
			return a.Info
		}
	}
	return nil
}

// cursor walks attribute bytes. Reading past the end sets bad and yields
// zeros.
type cursor struct {
	b   []byte
	off int
	bad bool
}

func (c *cursor) u1() uint8 {
	if c.off+1 > len(c.b) {
		c.bad = true
		return 0
	}
	v := c.b[c.off]
	c.off++
	return v
}

func (c *cursor) u2() uint16 {
	if c.off+2 > len(c.b) {
		c.bad = true
		return 0
	}
	v := binary.BigEndian.Uint16(c.b[c.off:])
	c.off += 2
	return v
}

func signatureOf(attrs []Attribute, cp ConstantPool) string {
	info := findAttribute(attrs, "Signature")
	if len(info) < 2 {
		return ""
	}
	return cp.GetUtf8(binary.BigEndian.Uint16(info))
}

func parseInnerClasses(info []byte, cp ConstantPool) []InnerClass {
	if info == nil {
		return nil
	}
	c := &cursor{b: info}
	count := int(c.u2())
	out := make([]InnerClass, 0, count)
	for i := 0; i < count && !c.bad; i++ {
		ic := InnerClass{
			Inner: cp.GetClassName(c.u2()),
			Outer: cp.GetClassName(c.u2()),
			Name:  cp.GetUtf8(c.u2()),
		}
		ic.AccessFlags = AccessFlags(c.u2())
		if !c.bad {
			out = append(out, ic)
		}
	}
	return out
}

func parseMethodParameters(info []byte, cp ConstantPool) []string {
	if info == nil {
		return nil
	}
	c := &cursor{b: info}
	count := int(c.u1())
	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		name := cp.GetUtf8(c.u2())
		c.u2()
		if c.bad {
			return nil
		}
		names = append(names, name)
	}
	return names
}

func parseExceptions(info []byte, cp ConstantPool) []string {
	if info == nil {
		return nil
	}
	c := &cursor{b: info}
	count := int(c.u2())
	var names []string
	for i := 0; i < count && !c.bad; i++ {
		if name := cp.GetClassName(c.u2()); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// annotationsOf collects the annotation types of both retention kinds that
// reach the class file. Element values are skipped.
func annotationsOf(attrs []Attribute, cp ConstantPool) []string {
	var names []string
	for _, kind := range []string{"RuntimeVisibleAnnotations", "RuntimeInvisibleAnnotations"} {
		info := findAttribute(attrs, kind)
		if info == nil {
			continue
		}
		c := &cursor{b: info}
		count := int(c.u2())
		for i := 0; i < count && !c.bad; i++ {
			desc := cp.GetUtf8(c.u2())
			skipElementPairs(c)
			if c.bad {
				break
			}
			if ft := ParseFieldDescriptor(desc); ft != nil && ft.ClassName != "" {
				names = append(names, ft.ClassName)
			}
		}
	}
	return names
}

func skipElementPairs(c *cursor) {
	pairs := int(c.u2())
	for i := 0; i < pairs && !c.bad; i++ {
		c.u2()
		skipElementValue(c)
	}
}

func skipElementValue(c *cursor) {
	switch c.u1() {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's', 'c':
		c.u2()
	case 'e':
		c.u2()
		c.u2()
	case '@':
		c.u2()
		skipElementPairs(c)
	case '[':
		n := int(c.u2())
		for i := 0; i < n && !c.bad; i++ {
			skipElementValue(c)
		}
	default:
		c.bad = true
	}
}
