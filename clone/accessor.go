package clone

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dhamidi/entitygen/java"
)

type Kind int

const (
	Getter Kind = iota
	Setter
)

var (
	getterPattern = regexp.MustCompile(`^get(\p{Lu}[\p{L}\p{N}_$]*)?$`)
	setterPattern = regexp.MustCompile(`^set(\p{Lu}[\p{L}\p{N}_$]*)?$`)
)

const serialVersionField = "serialVersionUID"

func (k Kind) Prefix() string {
	if k == Setter {
		return "set"
	}
	return "get"
}

func (k Kind) String() string {
	if k == Setter {
		return "setter"
	}
	return "getter"
}

// Matches reports whether a method name follows the accessor naming
// convention for k.
func (k Kind) Matches(methodName string) bool {
	if k == Setter {
		return setterPattern.MatchString(methodName)
	}
	return getterPattern.MatchString(methodName)
}

// PropertyKey strips the accessor prefix from methodName and lower-cases the rest.
func (k Kind) PropertyKey(methodName string) string {
	return NormalizeKey(methodName[len(k.Prefix()):])
}

// NormalizeKey is the case-insensitive join key between setters, getters and
// direct-value argument names.
func NormalizeKey(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Entry is one accessor visible on a type.
type Entry struct {
	Key         string
	Method      string
	Type        java.TypeModel
	Synthesized bool
}

// Discover lists the accessors of kind declared by cls alone. Classes carrying
// an auto-accessor marker get one synthesized accessor per instance field;
// explicitly declared methods win over synthesized ones of the same name.
func Discover(model CodeModel, cls *java.ClassModel, kind Kind) []Entry {
	if cls == nil {
		return nil
	}
	var entries []Entry
	byMethod := map[string]int{}

	if model.HasAutoAccessorMarker(cls) {
		for _, f := range model.DeclaredFields(cls) {
			if f.Name == serialVersionField || (f.IsStatic && f.IsFinal) {
				continue
			}
			name := kind.Prefix() + capitalize(f.Name)
			if _, ok := byMethod[name]; ok {
				continue
			}
			byMethod[name] = len(entries)
			entries = append(entries, Entry{
				Key:         kind.PropertyKey(name),
				Method:      name,
				Type:        f.Type,
				Synthesized: true,
			})
		}
	}

	for _, m := range model.DeclaredMethods(cls) {
		if m.IsConstructor || !kind.Matches(m.Name) {
			continue
		}
		t := accessorType(m, kind)
		if i, ok := byMethod[m.Name]; ok {
			if entries[i].Synthesized {
				entries[i].Type = t
				entries[i].Synthesized = false
			}
			continue
		}
		byMethod[m.Name] = len(entries)
		entries = append(entries, Entry{
			Key:    kind.PropertyKey(m.Name),
			Method: m.Name,
			Type:   t,
		})
	}
	return entries
}

// DiscoverChain merges the accessors of a linearized hierarchy. Keys keep the
// order they were first seen in; a more-derived class replaces the entry of
// an ancestor for the same key.
func DiscoverChain(model CodeModel, chain []*java.ClassModel, kind Kind) []Entry {
	var merged entryMap
	for _, cls := range chain {
		for _, e := range Discover(model, cls, kind) {
			merged.set(e)
		}
	}
	return merged.list()
}

func accessorType(m java.MethodModel, kind Kind) java.TypeModel {
	if kind == Getter {
		return m.ReturnType
	}
	if len(m.Parameters) > 0 {
		return m.Parameters[0].Type
	}
	return java.TypeModel{Name: "void"}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// entryMap is an insertion-ordered map from property key to accessor.
type entryMap struct {
	keys    []string
	entries map[string]Entry
}

func (m *entryMap) set(e Entry) {
	if m.entries == nil {
		m.entries = make(map[string]Entry)
	}
	if _, ok := m.entries[e.Key]; !ok {
		m.keys = append(m.keys, e.Key)
	}
	m.entries[e.Key] = e
}

func (m *entryMap) list() []Entry {
	out := make([]Entry, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.entries[k])
	}
	return out
}
