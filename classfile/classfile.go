// Package classfile reads the declaration side of JVM class files: the class
// name, supertypes, fields and methods with their generic signatures.
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

// Member is a field or a method. Name and Descriptor are resolved from the
// constant pool while reading.
type Member struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Attributes  []Attribute
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.GetClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.GetClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.GetClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool {
	return cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsEnum() bool {
	return cf.AccessFlags.IsEnum()
}

func (cf *ClassFile) IsModule() bool {
	return cf.AccessFlags.IsModule()
}

// IsRecord reports a class compiled from a record declaration.
func (cf *ClassFile) IsRecord() bool {
	return findAttribute(cf.Attributes, "Record") != nil
}

// Signature is the generic class signature, or "" for a non-generic class.
func (cf *ClassFile) Signature() string {
	return signatureOf(cf.Attributes, cf.ConstantPool)
}

func (cf *ClassFile) InnerClasses() []InnerClass {
	return parseInnerClasses(findAttribute(cf.Attributes, "InnerClasses"), cf.ConstantPool)
}

// Annotations lists the internal names of the annotation types on the class.
func (cf *ClassFile) Annotations() []string {
	return annotationsOf(cf.Attributes, cf.ConstantPool)
}

func (cf *ClassFile) Field(name string) *Member {
	for i := range cf.Fields {
		if cf.Fields[i].Name == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// Method finds a method by name and, unless descriptor is empty, descriptor.
func (cf *ClassFile) Method(name, descriptor string) *Member {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Name == name && (descriptor == "" || m.Descriptor == descriptor) {
			return m
		}
	}
	return nil
}

func (m *Member) Signature(cp ConstantPool) string {
	return signatureOf(m.Attributes, cp)
}

func (m *Member) Annotations(cp ConstantPool) []string {
	return annotationsOf(m.Attributes, cp)
}

// ParameterNames returns the names recorded by javac -parameters, or nil.
func (m *Member) ParameterNames(cp ConstantPool) []string {
	return parseMethodParameters(findAttribute(m.Attributes, "MethodParameters"), cp)
}

// Exceptions lists the internal names of the declared thrown types.
func (m *Member) Exceptions(cp ConstantPool) []string {
	return parseExceptions(findAttribute(m.Attributes, "Exceptions"), cp)
}

func (m *Member) IsConstructor() bool {
	return m.Name == "<init>"
}

func (m *Member) IsStaticInitializer() bool {
	return m.Name == "<clinit>"
}
