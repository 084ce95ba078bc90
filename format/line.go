package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/entitygen/clone"
	"github.com/dhamidi/entitygen/java"
)

// LineModelEncoder writes one tab-separated line per class, field, method and
// discovered accessor.
type LineModelEncoder struct {
	w     io.Writer
	model *java.ClassModel
	code  clone.CodeModel
}

func NewLineModelEncoder(w io.Writer) *LineModelEncoder {
	return &LineModelEncoder{w: w}
}

// WithAccessors adds the getters and setters code sees on each class.
func (e *LineModelEncoder) WithAccessors(code clone.CodeModel) *LineModelEncoder {
	e.code = code
	return e
}

func (e *LineModelEncoder) Encode(model *java.ClassModel) error {
	e.model = model
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineModelEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	m := e.model

	fmt.Fprintf(&sb, "%s\t%s\t%s\n", m.Kind, m.Name, classModifiers(m))
	if m.SuperClass != "" {
		fmt.Fprintf(&sb, "extends\t%s\n", m.SuperClass)
	}
	for _, a := range m.Annotations {
		fmt.Fprintf(&sb, "annotation\t%s\n", a.Type)
	}

	for _, f := range m.Fields {
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\n",
			f.Name,
			f.Type.String(),
			f.Visibility,
			orDash(fieldModifiers(f)),
		)
	}

	for _, method := range m.Methods {
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\n",
			method.Name,
			method.ReturnType.String(),
			parametersStr(method.Parameters),
			method.Visibility,
			orDash(methodModifiers(method)),
		)
	}

	if e.code != nil {
		for _, kind := range []clone.Kind{clone.Getter, clone.Setter} {
			for _, entry := range clone.Discover(e.code, m, kind) {
				fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n", kind, entry.Key, entry.Method, entry.Type.String())
			}
		}
	}

	return []byte(sb.String()), nil
}

func classModifiers(m *java.ClassModel) string {
	mods := []string{string(m.Visibility)}
	if m.IsStatic {
		mods = append(mods, "static")
	}
	if m.IsFinal {
		mods = append(mods, "final")
	}
	if m.IsAbstract {
		mods = append(mods, "abstract")
	}
	return strings.Join(mods, ",")
}

func fieldModifiers(f java.FieldModel) []string {
	var mods []string
	if f.IsStatic {
		mods = append(mods, "static")
	}
	if f.IsFinal {
		mods = append(mods, "final")
	}
	if f.IsTransient {
		mods = append(mods, "transient")
	}
	return mods
}

func methodModifiers(m java.MethodModel) []string {
	var mods []string
	if m.IsConstructor {
		mods = append(mods, "constructor")
	}
	if m.IsStatic {
		mods = append(mods, "static")
	}
	if m.IsFinal {
		mods = append(mods, "final")
	}
	if m.IsAbstract {
		mods = append(mods, "abstract")
	}
	return mods
}

func orDash(mods []string) string {
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, ",")
}

func parametersStr(params []java.ParameterModel) string {
	if len(params) == 0 {
		return "-"
	}
	var parts []string
	for _, p := range params {
		parts = append(parts, p.Type.String())
	}
	return strings.Join(parts, ",")
}
