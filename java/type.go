package java

import "strings"

type TypeModel struct {
	Name          string
	ArrayDepth    int
	TypeArguments []TypeModel
}

// ParseType reads a source-level type spelling such as "java.util.List<String>[]".
// Wildcards collapse to their bound, or to Object when unbounded.
func ParseType(s string) TypeModel {
	s = strings.TrimSpace(s)
	t := TypeModel{}
	for strings.HasSuffix(s, "[]") {
		t.ArrayDepth++
		s = strings.TrimSpace(strings.TrimSuffix(s, "[]"))
	}
	if strings.HasSuffix(s, "...") {
		t.ArrayDepth++
		s = strings.TrimSpace(strings.TrimSuffix(s, "..."))
	}
	open := strings.IndexByte(s, '<')
	if open < 0 || !strings.HasSuffix(s, ">") {
		t.Name = s
		return t
	}
	t.Name = strings.TrimSpace(s[:open])
	for _, arg := range splitTypeArguments(s[open+1 : len(s)-1]) {
		arg = strings.TrimSpace(arg)
		switch {
		case arg == "?":
			arg = ObjectClass
		case strings.HasPrefix(arg, "? extends "):
			arg = strings.TrimPrefix(arg, "? extends ")
		case strings.HasPrefix(arg, "? super "):
			arg = strings.TrimPrefix(arg, "? super ")
		}
		t.TypeArguments = append(t.TypeArguments, ParseType(arg))
	}
	return t
}

func splitTypeArguments(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if strings.TrimSpace(s[start:]) != "" {
		parts = append(parts, s[start:])
	}
	return parts
}

func (t TypeModel) String() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	if len(t.TypeArguments) > 0 {
		sb.WriteString("<")
		for i, arg := range t.TypeArguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteString(">")
	}
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (t TypeModel) IsZero() bool {
	return t.Name == ""
}

func (t TypeModel) IsPrimitive() bool {
	if t.ArrayDepth > 0 {
		return false
	}
	return IsPrimitiveName(t.Name)
}

func (t TypeModel) IsArray() bool {
	return t.ArrayDepth > 0
}

func (t TypeModel) IsVoid() bool {
	return t.Name == "void" && t.ArrayDepth == 0
}

func (t TypeModel) SimpleName() string {
	return SimpleName(t.Name)
}

func IsPrimitiveName(name string) bool {
	switch name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

// SimpleName returns the last dotted component of a qualified name.
func SimpleName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// PackageOf returns everything before the last dot of a qualified name.
func PackageOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}
