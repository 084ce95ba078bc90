package clone

import (
	"strings"

	"github.com/dhamidi/entitygen/java"
)

type Parameter struct {
	Name string
	Type java.TypeModel
}

// Style controls the parts of the generated text that are a matter of taste.
type Style struct {
	Modifiers     []string
	LocalVariable string
	Indent        string
}

var DefaultStyle = Style{
	Modifiers:     []string{"public", "static"},
	LocalVariable: "newEntity",
	Indent:        "  ",
}

func (s Style) withDefaults() Style {
	if s.Modifiers == nil {
		s.Modifiers = DefaultStyle.Modifiers
	}
	if s.LocalVariable == "" {
		s.LocalVariable = DefaultStyle.LocalVariable
	}
	if s.Indent == "" {
		s.Indent = DefaultStyle.Indent
	}
	return s
}

// Method is a generated static factory method. Body holds the statements
// without indentation.
type Method struct {
	Modifiers  []string
	Name       string
	Parameters []Parameter
	ReturnType java.TypeModel
	Body       []string

	indent string
}

// Synthesize builds the factory method that constructs returnType and calls
// one setter per match, in order.
func Synthesize(name string, params []Parameter, returnType java.TypeModel, matches []PropertyMatch, style Style) Method {
	style = style.withDefaults()
	local := style.LocalVariable

	body := make([]string, 0, len(matches)+2)
	body = append(body, returnType.String()+" "+local+" = new "+constructorType(returnType)+"();")
	for _, pm := range matches {
		body = append(body, local+"."+pm.Setter+"("+pm.Expr+");")
	}
	body = append(body, "return "+local+";")

	return Method{
		Modifiers:  style.Modifiers,
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
		Body:       body,
		indent:     style.Indent,
	}
}

func constructorType(t java.TypeModel) string {
	if len(t.TypeArguments) > 0 {
		return t.Name + "<>"
	}
	return t.Name
}

func (m Method) Signature() string {
	var sb strings.Builder
	for _, mod := range m.Modifiers {
		sb.WriteString(mod)
		sb.WriteString(" ")
	}
	sb.WriteString(m.ReturnType.String())
	sb.WriteString(" ")
	sb.WriteString(m.Name)
	sb.WriteString("(")
	for i, p := range m.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type.String())
		sb.WriteString(" ")
		sb.WriteString(p.Name)
	}
	sb.WriteString(")")
	return sb.String()
}

func (m Method) String() string {
	indent := m.indent
	if indent == "" {
		indent = DefaultStyle.Indent
	}
	var sb strings.Builder
	sb.WriteString(m.Signature())
	sb.WriteString(" {\n")
	for _, stmt := range m.Body {
		sb.WriteString(indent)
		sb.WriteString(stmt)
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}
