package source

import (
	"strings"

	"github.com/dhamidi/entitygen/java"
)

type Import struct {
	Name     string
	Static   bool
	Wildcard bool
	Range    java.Range
}

type typeResolver struct {
	pkg          string
	imports      []Import
	innerClasses map[string]string // simple or Outer.Inner name -> fully qualified name
	known        map[string]bool   // qualified names usable through star imports
}

func newTypeResolver(pkg string, imports []Import, known []*java.ClassModel, markers []string) *typeResolver {
	r := &typeResolver{
		pkg:          pkg,
		imports:      imports,
		innerClasses: make(map[string]string),
		known:        make(map[string]bool, len(known)+len(markers)),
	}
	for _, cls := range known {
		r.known[cls.Name] = true
	}
	for _, m := range markers {
		r.known[m] = true
	}
	return r
}

// registerClass makes a class declared in the file resolvable by its simple
// name and by its name relative to the package.
func (r *typeResolver) registerClass(cls *java.ClassModel) {
	if _, ok := r.innerClasses[cls.SimpleName]; !ok {
		r.innerClasses[cls.SimpleName] = cls.Name
	}
	if r.pkg != "" {
		r.innerClasses[strings.TrimPrefix(cls.Name, r.pkg+".")] = cls.Name
	}
}

var javaLangTypes = map[string]bool{
	"Object": true, "String": true, "Class": true, "System": true,
	"Throwable": true, "Exception": true, "RuntimeException": true, "Error": true,
	"Integer": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Character": true, "Boolean": true,
	"Number": true, "Comparable": true, "CharSequence": true, "Void": true,
	"Iterable": true, "Cloneable": true, "Runnable": true, "AutoCloseable": true,
	"Thread": true, "StringBuilder": true, "StringBuffer": true,
	"Math": true, "Enum": true, "Record": true,
	"IllegalArgumentException": true, "IllegalStateException": true,
	"NullPointerException": true, "UnsupportedOperationException": true,
	"Override": true, "Deprecated": true, "SuppressWarnings": true, "FunctionalInterface": true,
}

func (r *typeResolver) resolve(name string) string {
	if resolved, ok := r.lookup(name); ok {
		return resolved
	}
	if strings.Contains(name, ".") || r.pkg == "" {
		return name
	}
	return r.pkg + "." + name
}

// resolveAnnotation leaves names it cannot place as written, so that an
// unimported marker still matches by its simple name.
func (r *typeResolver) resolveAnnotation(name string) string {
	if resolved, ok := r.lookup(name); ok {
		return resolved
	}
	return name
}

func (r *typeResolver) lookup(name string) (string, bool) {
	if name == "" {
		return "", true
	}
	if java.IsPrimitiveName(name) || name == "void" {
		return name, true
	}
	if fullName, ok := r.innerClasses[name]; ok {
		return fullName, true
	}

	if first, rest, ok := strings.Cut(name, "."); ok {
		if outer, found := r.lookup(first); found && outer != first {
			return outer + "." + rest, true
		}
		return name, false
	}

	for _, imp := range r.imports {
		if imp.Wildcard || imp.Static {
			continue
		}
		if java.SimpleName(imp.Name) == name {
			return imp.Name, true
		}
	}

	for _, imp := range r.imports {
		if !imp.Wildcard || imp.Static {
			continue
		}
		candidate := imp.Name + "." + name
		if r.known[candidate] {
			return candidate, true
		}
	}

	if javaLangTypes[name] {
		return "java.lang." + name, true
	}
	return name, false
}

// resolveType resolves the names inside t. Type variables in scope are kept.
func (r *typeResolver) resolveType(t java.TypeModel, typeVars map[string]bool) java.TypeModel {
	if t.IsZero() {
		return t
	}
	if !typeVars[t.Name] {
		t.Name = r.resolve(t.Name)
	}
	if len(t.TypeArguments) > 0 {
		args := make([]java.TypeModel, len(t.TypeArguments))
		for i, arg := range t.TypeArguments {
			args[i] = r.resolveType(arg, typeVars)
		}
		t.TypeArguments = args
	}
	return t
}
