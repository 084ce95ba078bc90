package java

import (
	"io"
	"strconv"

	"github.com/dhamidi/entitygen/classfile"
)

func ClassModelFromReader(r io.Reader) (*ClassModel, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return nil, err
	}
	return ClassModelFromClassFile(cf), nil
}

// ClassModelFromClassFile converts a compiled class. Generic signatures are
// preferred over erased descriptors. Local, anonymous and synthetic classes
// and module descriptors have no name a caller could write; they yield nil.
func ClassModelFromClassFile(cf *classfile.ClassFile) *ClassModel {
	if cf.IsModule() || cf.AccessFlags.IsSynthetic() {
		return nil
	}
	names := newBinaryNames(cf.InnerClasses())
	internal := cf.ClassName()
	self, nested := names[internal]
	if nested && (self.Outer == "" || self.Name == "") {
		return nil
	}

	name := names.source(internal)
	model := &ClassModel{
		Name:        name,
		SimpleName:  SimpleName(name),
		Package:     PackageOf(classfile.InternalToSourceName(internal)),
		Visibility:  visibilityOf(cf.AccessFlags),
		Kind:        kindOf(cf),
		IsFinal:     cf.AccessFlags.IsFinal(),
		IsAbstract:  cf.AccessFlags.IsAbstract() && !cf.AccessFlags.IsInterface(),
		Annotations: annotationModels(cf.Annotations(), names),
	}
	if nested {
		model.EnclosingClass = names.source(self.Outer)
		model.Visibility = visibilityOf(self.AccessFlags)
		model.IsStatic = self.AccessFlags.IsStatic()
		model.IsFinal = self.AccessFlags.IsFinal()
	}

	if super := cf.SuperClassName(); super != "" && model.Kind != ClassKindInterface && model.Kind != ClassKindAnnotation {
		model.SuperClass = names.source(super)
	}
	for _, iface := range cf.InterfaceNames() {
		model.Interfaces = append(model.Interfaces, names.source(iface))
	}

	cp := cf.ConstantPool
	for i := range cf.Fields {
		f := &cf.Fields[i]
		if f.AccessFlags.IsSynthetic() {
			continue
		}
		ft := classfile.ParseFieldDescriptor(f.Signature(cp))
		if ft == nil {
			ft = classfile.ParseFieldDescriptor(f.Descriptor)
		}
		model.Fields = append(model.Fields, FieldModel{
			Name:        f.Name,
			Type:        names.typeModel(ft),
			Visibility:  visibilityOf(f.AccessFlags),
			IsStatic:    f.AccessFlags.IsStatic(),
			IsFinal:     f.AccessFlags.IsFinal(),
			IsTransient: f.AccessFlags.IsTransient(),
			Annotations: annotationModels(f.Annotations(cp), names),
		})
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.AccessFlags.IsSynthetic() || m.AccessFlags.IsBridge() || m.IsStaticInitializer() {
			continue
		}
		if mm, ok := methodModel(m, cp, names); ok {
			model.Methods = append(model.Methods, mm)
		}
	}
	return model
}

func methodModel(m *classfile.Member, cp classfile.ConstantPool, names binaryNames) (MethodModel, bool) {
	erased := classfile.ParseMethodDescriptor(m.Descriptor)
	if erased == nil {
		return MethodModel{}, false
	}
	md := erased
	// Signatures of inner-class and enum constructors leave out the
	// implicit parameters the descriptor carries.
	if generic := classfile.ParseMethodDescriptor(m.Signature(cp)); generic != nil && len(generic.Parameters) == len(erased.Parameters) {
		md = generic
	}

	mm := MethodModel{
		Name:          m.Name,
		ReturnType:    TypeModel{Name: "void"},
		Visibility:    visibilityOf(m.AccessFlags),
		IsStatic:      m.AccessFlags.IsStatic(),
		IsFinal:       m.AccessFlags.IsFinal(),
		IsAbstract:    m.AccessFlags.IsAbstract(),
		IsConstructor: m.IsConstructor(),
		Annotations:   annotationModels(m.Annotations(cp), names),
	}
	if md.ReturnType != nil {
		mm.ReturnType = names.typeModel(md.ReturnType)
	}
	for _, ex := range m.Exceptions(cp) {
		mm.Exceptions = append(mm.Exceptions, names.source(ex))
	}

	paramNames := m.ParameterNames(cp)
	if len(paramNames) != len(md.Parameters) {
		paramNames = nil
	}
	for i := range md.Parameters {
		p := ParameterModel{Type: names.typeModel(&md.Parameters[i])}
		if paramNames != nil && paramNames[i] != "" {
			p.Name = paramNames[i]
		} else {
			p.Name = "arg" + strconv.Itoa(i)
		}
		if i == len(md.Parameters)-1 && m.AccessFlags.IsVarargs() {
			p.IsVarargs = true
		}
		mm.Parameters = append(mm.Parameters, p)
	}
	return mm, true
}

// binaryNames maps binary names of nested classes ("a/B$C") to the source
// names callers write ("a.B.C"), using the InnerClasses table. A class file
// lists every nested class it refers to.
type binaryNames map[string]classfile.InnerClass

func newBinaryNames(entries []classfile.InnerClass) binaryNames {
	names := make(binaryNames, len(entries))
	for _, e := range entries {
		names[e.Inner] = e
	}
	return names
}

func (n binaryNames) source(internal string) string {
	name := internal
	var suffix string
	for depth := 0; depth < 32; depth++ {
		e, ok := n[name]
		if !ok || e.Outer == "" || e.Name == "" {
			break
		}
		suffix = "." + e.Name + suffix
		name = e.Outer
	}
	return classfile.InternalToSourceName(name) + suffix
}

func (n binaryNames) typeModel(ft *classfile.FieldType) TypeModel {
	if ft == nil {
		return TypeModel{Name: ObjectClass}
	}
	t := TypeModel{ArrayDepth: ft.ArrayDepth}
	switch {
	case ft.BaseType != "":
		t.Name = ft.BaseType
	case ft.TypeVariable != "":
		t.Name = ft.TypeVariable
	default:
		t.Name = n.source(ft.ClassName)
	}
	for i := range ft.TypeArguments {
		t.TypeArguments = append(t.TypeArguments, n.typeModel(&ft.TypeArguments[i]))
	}
	return t
}

func annotationModels(internal []string, names binaryNames) []AnnotationModel {
	var out []AnnotationModel
	for _, name := range internal {
		out = append(out, AnnotationModel{Type: names.source(name)})
	}
	return out
}

func visibilityOf(flags classfile.AccessFlags) Visibility {
	switch {
	case flags.IsPublic():
		return VisibilityPublic
	case flags.IsProtected():
		return VisibilityProtected
	case flags.IsPrivate():
		return VisibilityPrivate
	}
	return VisibilityPackage
}

func kindOf(cf *classfile.ClassFile) ClassKind {
	switch {
	case cf.IsAnnotation():
		return ClassKindAnnotation
	case cf.IsEnum():
		return ClassKindEnum
	case cf.IsInterface():
		return ClassKindInterface
	case cf.IsRecord():
		return ClassKindRecord
	}
	return ClassKindClass
}
