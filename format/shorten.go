package format

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dhamidi/entitygen/java"
)

// ImportScope describes the names already visible in a compilation unit.
type ImportScope struct {
	Package string

	// Imports are the single-type imports of the file.
	Imports []string

	// Declared are qualified names of the classes declared in the file.
	Declared []string

	// PackageClasses are the other top-level classes of Package.
	PackageClasses []string

	// OnDemand are the classes made visible by wildcard imports. A simple
	// name reached through two of them is ambiguous and never shortened.
	OnDemand []string
}

var qualifiedRef = regexp.MustCompile(`\b(?:[a-z_][A-Za-z0-9_$]*\.)+[A-Z][A-Za-z0-9_$]*`)

var javaLang = map[string]bool{
	"Object": true, "String": true, "Class": true, "Integer": true, "Long": true,
	"Short": true, "Byte": true, "Float": true, "Double": true, "Character": true,
	"Boolean": true, "Number": true, "Void": true, "Enum": true, "Record": true,
	"Exception": true, "RuntimeException": true, "Error": true, "Throwable": true,
	"Iterable": true, "Comparable": true, "CharSequence": true, "Math": true,
	"System": true, "Thread": true, "StringBuilder": true,
}

// ShortenReferences replaces qualified class references in text by their
// simple names where that keeps them unambiguous, and returns the imports
// the shortened text needs, sorted.
func ShortenReferences(text string, scope ImportScope) (string, []string) {
	visible := map[string]string{}
	for _, name := range scope.Declared {
		visible[java.SimpleName(name)] = name
	}
	for _, name := range append(append([]string(nil), scope.Imports...), scope.PackageClasses...) {
		if _, ok := visible[java.SimpleName(name)]; !ok {
			visible[java.SimpleName(name)] = name
		}
	}
	onDemand := map[string]string{}
	for _, name := range scope.OnDemand {
		simple := java.SimpleName(name)
		if _, ok := visible[simple]; ok {
			continue
		}
		if prev, ok := onDemand[simple]; ok && prev != name {
			onDemand[simple] = ""
			continue
		}
		onDemand[simple] = name
	}
	for simple, name := range onDemand {
		visible[simple] = name
	}

	var sb strings.Builder
	var added []string
	last := 0
	for _, loc := range qualifiedRef.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && text[start-1] == '.' {
			continue
		}
		ref := text[start:end]
		sb.WriteString(text[last:start])
		sb.WriteString(shorten(ref, scope.Package, visible, &added))
		last = end
	}
	sb.WriteString(text[last:])

	sort.Strings(added)
	return sb.String(), added
}

func shorten(ref, pkg string, visible map[string]string, added *[]string) string {
	simple := java.SimpleName(ref)
	refPkg := java.PackageOf(ref)
	if owner, ok := visible[simple]; ok {
		if owner == ref {
			return simple
		}
		return ref
	}
	if refPkg != "java.lang" && javaLang[simple] {
		return ref
	}
	visible[simple] = ref
	if refPkg != "java.lang" && refPkg != pkg {
		*added = append(*added, ref)
	}
	return simple
}
