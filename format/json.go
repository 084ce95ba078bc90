package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/entitygen/clone"
	"github.com/dhamidi/entitygen/java"
)

type JSONModelEncoder struct {
	w     io.Writer
	model *java.ClassModel
	code  clone.CodeModel
}

func NewJSONModelEncoder(w io.Writer) *JSONModelEncoder {
	return &JSONModelEncoder{w: w}
}

// WithAccessors adds the getters and setters code sees on each class.
func (e *JSONModelEncoder) WithAccessors(code clone.CodeModel) *JSONModelEncoder {
	e.code = code
	return e
}

func (e *JSONModelEncoder) Encode(model *java.ClassModel) error {
	e.model = model
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONModelEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildClassData(), "", "  ")
}

type jsonClass struct {
	Name        string         `json:"name"`
	SimpleName  string         `json:"simpleName"`
	Package     string         `json:"package,omitempty"`
	SuperClass  string         `json:"superClass,omitempty"`
	Interfaces  []string       `json:"interfaces,omitempty"`
	Visibility  string         `json:"visibility"`
	Kind        string         `json:"kind"`
	Modifiers   []string       `json:"modifiers,omitempty"`
	Annotations []string       `json:"annotations,omitempty"`
	SourceFile  string         `json:"sourceFile,omitempty"`
	Fields      []jsonField    `json:"fields,omitempty"`
	Methods     []jsonMethod   `json:"methods,omitempty"`
	Getters     []jsonAccessor `json:"getters,omitempty"`
	Setters     []jsonAccessor `json:"setters,omitempty"`
}

type jsonField struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Visibility string   `json:"visibility"`
	Modifiers  []string `json:"modifiers,omitempty"`
}

type jsonMethod struct {
	Name       string          `json:"name"`
	ReturnType string          `json:"returnType"`
	Parameters []jsonParameter `json:"parameters,omitempty"`
	Visibility string          `json:"visibility"`
	Modifiers  []string        `json:"modifiers,omitempty"`
}

type jsonParameter struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

type jsonAccessor struct {
	Key         string `json:"key"`
	Method      string `json:"method"`
	Type        string `json:"type"`
	Synthesized bool   `json:"synthesized,omitempty"`
}

func (e *JSONModelEncoder) buildClassData() jsonClass {
	m := e.model
	data := jsonClass{
		Name:       m.Name,
		SimpleName: m.SimpleName,
		Package:    m.Package,
		SuperClass: m.SuperClass,
		Interfaces: m.Interfaces,
		Visibility: string(m.Visibility),
		Kind:       string(m.Kind),
		SourceFile: m.SourceFile,
	}
	if m.IsStatic {
		data.Modifiers = append(data.Modifiers, "static")
	}
	if m.IsFinal {
		data.Modifiers = append(data.Modifiers, "final")
	}
	if m.IsAbstract {
		data.Modifiers = append(data.Modifiers, "abstract")
	}
	for _, a := range m.Annotations {
		data.Annotations = append(data.Annotations, a.Type)
	}
	for _, f := range m.Fields {
		data.Fields = append(data.Fields, jsonField{
			Name:       f.Name,
			Type:       f.Type.String(),
			Visibility: string(f.Visibility),
			Modifiers:  fieldModifiers(f),
		})
	}
	for _, method := range m.Methods {
		jm := jsonMethod{
			Name:       method.Name,
			ReturnType: method.ReturnType.String(),
			Visibility: string(method.Visibility),
			Modifiers:  methodModifiers(method),
		}
		for _, p := range method.Parameters {
			jm.Parameters = append(jm.Parameters, jsonParameter{Name: p.Name, Type: p.Type.String()})
		}
		data.Methods = append(data.Methods, jm)
	}
	if e.code != nil {
		data.Getters = accessors(clone.Discover(e.code, m, clone.Getter))
		data.Setters = accessors(clone.Discover(e.code, m, clone.Setter))
	}
	return data
}

func accessors(entries []clone.Entry) []jsonAccessor {
	var out []jsonAccessor
	for _, e := range entries {
		out = append(out, jsonAccessor{Key: e.Key, Method: e.Method, Type: e.Type.String(), Synthesized: e.Synthesized})
	}
	return out
}
