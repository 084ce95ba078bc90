package java

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
)

// ObjectClass is the universal base type every class hierarchy ends in.
const ObjectClass = "java.lang.Object"

type ClassModel struct {
	Name           string
	SimpleName     string
	Package        string
	SuperClass     string
	Interfaces     []string
	Visibility     Visibility
	Kind           ClassKind
	IsFinal        bool
	IsAbstract     bool
	IsStatic       bool
	EnclosingClass string
	SourceFile     string
	Imports        []string
	Annotations    []AnnotationModel
	Fields         []FieldModel
	Methods        []MethodModel

	// Body covers the class body from its opening to its closing brace.
	Body Range
}

type FieldModel struct {
	Name        string
	Type        TypeModel
	Visibility  Visibility
	IsStatic    bool
	IsFinal     bool
	IsTransient bool
	Annotations []AnnotationModel
}

type MethodModel struct {
	Name          string
	ReturnType    TypeModel
	Parameters    []ParameterModel
	Visibility    Visibility
	IsStatic      bool
	IsFinal       bool
	IsAbstract    bool
	IsConstructor bool
	Annotations   []AnnotationModel
	Exceptions    []string
}

type ParameterModel struct {
	Name        string
	Type        TypeModel
	IsFinal     bool
	IsVarargs   bool
	Annotations []AnnotationModel
}

type AnnotationModel struct {
	Type string
}

// Position locates a byte in a source file. Lines and columns are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

type Range struct {
	Start Position
	End   Position
}

func (r Range) IsZero() bool {
	return r.Start == Position{} && r.End == Position{}
}

func (c *ClassModel) HasAnnotation(name string) bool {
	for _, a := range c.Annotations {
		if a.Type == name {
			return true
		}
	}
	return false
}

func (c *ClassModel) MethodsByName(name string) []MethodModel {
	var methods []MethodModel
	for _, m := range c.Methods {
		if m.Name == name {
			methods = append(methods, m)
		}
	}
	return methods
}

func (c *ClassModel) Field(name string) *FieldModel {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}
