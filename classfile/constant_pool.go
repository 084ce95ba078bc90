package classfile

// Constant is one constant pool slot. Only what names a type or a member is
// kept: the text of Utf8 entries and the name index of Class entries.
type Constant struct {
	Tag       ConstantTag
	Utf8      string
	NameIndex uint16
}

// ConstantPool is indexed the way the class file indexes it, from 1. Slot 0
// and the slot after every Long or Double are empty.
type ConstantPool []Constant

func (cp ConstantPool) entry(index uint16) (Constant, bool) {
	if index == 0 || int(index) >= len(cp) {
		return Constant{}, false
	}
	return cp[index], true
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if c, ok := cp.entry(index); ok && c.Tag == ConstantUtf8 {
		return c.Utf8
	}
	return ""
}

// GetClassName returns the internal name ("java/util/List") of a Class entry.
func (cp ConstantPool) GetClassName(index uint16) string {
	if c, ok := cp.entry(index); ok && c.Tag == ConstantClass {
		return cp.GetUtf8(c.NameIndex)
	}
	return ""
}
