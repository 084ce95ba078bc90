package clone

import (
	"github.com/dhamidi/entitygen/java"
)

func class(name, super string, members ...any) *java.ClassModel {
	cls := &java.ClassModel{
		Name:       name,
		SimpleName: java.SimpleName(name),
		Package:    java.PackageOf(name),
		SuperClass: super,
		Kind:       java.ClassKindClass,
		Visibility: java.VisibilityPublic,
	}
	for _, m := range members {
		switch m := m.(type) {
		case java.FieldModel:
			cls.Fields = append(cls.Fields, m)
		case java.MethodModel:
			cls.Methods = append(cls.Methods, m)
		case java.AnnotationModel:
			cls.Annotations = append(cls.Annotations, m)
		}
	}
	return cls
}

func setter(name, typ string) java.MethodModel {
	return java.MethodModel{
		Name:       name,
		ReturnType: java.TypeModel{Name: "void"},
		Parameters: []java.ParameterModel{{Name: "value", Type: java.ParseType(typ)}},
		Visibility: java.VisibilityPublic,
	}
}

func getter(name, typ string) java.MethodModel {
	return java.MethodModel{
		Name:       name,
		ReturnType: java.ParseType(typ),
		Visibility: java.VisibilityPublic,
	}
}

func field(name, typ string) java.FieldModel {
	return java.FieldModel{Name: name, Type: java.ParseType(typ), Visibility: java.VisibilityPrivate}
}

func constant(name, typ string) java.FieldModel {
	f := field(name, typ)
	f.IsStatic = true
	f.IsFinal = true
	return f
}

var data = java.AnnotationModel{Type: "lombok.Data"}

func model(classes ...*java.ClassModel) *StaticModel {
	return NewStaticModel(java.NewIndex(classes))
}

func keys(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Key)
	}
	return out
}

func methods(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Method)
	}
	return out
}

// staleModel reports itself stale after the given number of checks.
type staleModel struct {
	*StaticModel
	after int
	calls int
}

func (m *staleModel) Stale() bool {
	m.calls++
	return m.calls > m.after
}

type recordingInserter struct {
	receiver *java.ClassModel
	source   string
	err      error
}

func (r *recordingInserter) InsertMethod(receiver *java.ClassModel, source string) error {
	if r.err != nil {
		return r.err
	}
	r.receiver = receiver
	r.source = source
	return nil
}
