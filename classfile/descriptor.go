package classfile

import "strings"

// FieldType is a type read from a descriptor or a generic signature. Exactly
// one of BaseType, ClassName and TypeVariable is set.
type FieldType struct {
	BaseType      string
	ClassName     string
	TypeVariable  string
	ArrayDepth    int
	TypeArguments []FieldType
}

func (ft *FieldType) String() string {
	var sb strings.Builder
	switch {
	case ft.BaseType != "":
		sb.WriteString(ft.BaseType)
	case ft.TypeVariable != "":
		sb.WriteString(ft.TypeVariable)
	default:
		sb.WriteString(InternalToSourceName(ft.ClassName))
	}
	if len(ft.TypeArguments) > 0 {
		sb.WriteString("<")
		for i := range ft.TypeArguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(ft.TypeArguments[i].String())
		}
		sb.WriteString(">")
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

type MethodDescriptor struct {
	TypeParameters []string
	Parameters     []FieldType

	// ReturnType is nil for void.
	ReturnType *FieldType
}

// ParseFieldDescriptor reads a field descriptor or generic field signature.
// Wildcards collapse to their bound, or to java/lang/Object when unbounded.
func ParseFieldDescriptor(desc string) *FieldType {
	p := &sigParser{s: desc}
	ft := p.javaType()
	if p.bad || p.pos != len(desc) {
		return nil
	}
	return ft
}

var baseTypes = map[byte]string{
	'B': "byte", 'C': "char", 'D': "double", 'F': "float",
	'I': "int", 'J': "long", 'S': "short", 'Z': "boolean",
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
