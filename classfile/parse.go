package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf16"
)

var ErrMalformed = errors.New("malformed class file")

// maxAttributeLength bounds a single attribute so a corrupt length cannot
// allocate gigabytes.
const maxAttributeLength = 64 << 20

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

func (r *reader) skip(n int) {
	if r.err != nil {
		return
	}
	_, r.err = io.CopyN(io.Discard, r.r, int64(n))
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a class file. Method bodies and the other attributes that do
// not describe a declaration are kept as raw bytes.
func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: magic 0x%X", ErrMalformed, magic)
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
	cf.Interfaces = make([]uint16, r.readU2())
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("read class header: %w", r.err)
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
	if cf.ClassName() == "" {
		return nil, fmt.Errorf("%w: this_class does not name a class", ErrMalformed)
	}
	return cf, nil
}

func readConstantPool(r *reader) (ConstantPool, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("read constant pool count: %w", r.err)
	}
	pool := make(ConstantPool, count)
	for i := 1; i < int(count); i++ {
		c := Constant{Tag: ConstantTag(r.readU1())}
		switch c.Tag {
		case ConstantUtf8:
			c.Utf8 = decodeModifiedUtf8(r.readBytes(int(r.readU2())))
		case ConstantClass, ConstantModule, ConstantPackage:
			c.NameIndex = r.readU2()
		case ConstantString, ConstantMethodType:
			r.skip(2)
		case ConstantMethodHandle:
			r.skip(3)
		case ConstantInteger, ConstantFloat, ConstantFieldref, ConstantMethodref,
			ConstantInterfaceMethodref, ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
			r.skip(4)
		case ConstantLong, ConstantDouble:
			r.skip(8)
			pool[i] = c
			i++
			continue
		default:
			if r.err == nil {
				return nil, fmt.Errorf("%w: constant %d has tag %d", ErrMalformed, i, c.Tag)
			}
		}
		if r.err != nil {
			return nil, fmt.Errorf("read constant %d: %w", i, r.err)
		}
		pool[i] = c
	}
	return pool, nil
}

func readMembers(r *reader, cp ConstantPool) ([]Member, error) {
	members := make([]Member, r.readU2())
	for i := range members {
		m := &members[i]
		m.AccessFlags = AccessFlags(r.readU2())
		m.Name = cp.GetUtf8(r.readU2())
		m.Descriptor = cp.GetUtf8(r.readU2())
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		m.Attributes = attrs
	}
	return members, r.err
}

func readAttributes(r *reader, cp ConstantPool) ([]Attribute, error) {
	attrs := make([]Attribute, r.readU2())
	for i := range attrs {
		name := cp.GetUtf8(r.readU2())
		length := r.readU4()
		if length > maxAttributeLength {
			return nil, fmt.Errorf("%w: attribute %s is %d bytes", ErrMalformed, name, length)
		}
		if keptAttributes[name] {
			attrs[i] = Attribute{Name: name, Info: r.readBytes(int(length))}
		} else {
			attrs[i] = Attribute{Name: name}
			r.skip(int(length))
		}
		if r.err != nil {
			return nil, r.err
		}
	}
	return attrs, r.err
}

// keptAttributes are the attributes whose content is read. Others, such as
// Code and StackMapTable, are skipped over.
var keptAttributes = map[string]bool{
	"Signature":                   true,
	"InnerClasses":                true,
	"Exceptions":                  true,
	"MethodParameters":            true,
	"Record":                      true,
	"RuntimeVisibleAnnotations":   true,
	"RuntimeInvisibleAnnotations": true,
}

// decodeModifiedUtf8 decodes the JVM's modified UTF-8: NUL is two bytes and
// supplementary characters are surrogate pairs of three bytes each.
func decodeModifiedUtf8(b []byte) string {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, uint16(c))
			i++
		}
	}
	return string(utf16.Decode(units))
}
