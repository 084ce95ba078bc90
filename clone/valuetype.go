package clone

import (
	"strings"

	"github.com/dhamidi/entitygen/java"
)

// baseValueTypes are compared by lower-cased simple name, so both a
// primitive and its box (int, Integer) and any package's Date are covered.
var baseValueTypes = []string{
	"byte", "char", "character", "boolean", "int", "integer", "double",
	"float", "long", "short", "bigdecimal", "biginteger", "string",
	"date", "datetime", "localdate", "localdatetime", "localtime",
	"instant", "offsetdatetime", "zoneddatetime", "timestamp",
}

// ValueTypes decides which argument types are passed through as the value
// itself instead of being read through getters.
type ValueTypes struct {
	simple    map[string]bool
	qualified map[string]bool
}

// NewValueTypes returns the built-in value types plus extra. Extra names may
// be simple (matched case-insensitively) or qualified (matched exactly).
func NewValueTypes(extra ...string) *ValueTypes {
	v := &ValueTypes{
		simple:    make(map[string]bool, len(baseValueTypes)+len(extra)),
		qualified: make(map[string]bool),
	}
	for _, name := range baseValueTypes {
		v.simple[name] = true
	}
	for _, name := range extra {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.Contains(name, ".") {
			v.qualified[name] = true
			continue
		}
		v.simple[strings.ToLower(name)] = true
	}
	return v
}

func (v *ValueTypes) Contains(t java.TypeModel) bool {
	if t.IsZero() || t.IsArray() {
		return false
	}
	if v.qualified[t.Name] {
		return true
	}
	return v.simple[strings.ToLower(t.SimpleName())]
}
