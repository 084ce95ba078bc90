package source

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/entitygen/format"
	"github.com/dhamidi/entitygen/java"
)

var ErrClassNotFound = errors.New("class not declared in file")

// Edit replaces the text between Start and End with NewText.
type Edit struct {
	Start   java.Position
	End     java.Position
	NewText string
}

// InsertMethod computes the edits that add method as the last member of the
// class named cls.Name in src. Qualified references in method are shortened
// and the imports they need are added. Known classes from WithKnownClasses
// stand for the rest of the package and the wildcard imports: a reference
// whose simple name they already occupy stays qualified.
func InsertMethod(src []byte, cls *java.ClassModel, method, indent string, opts ...Option) ([]Edit, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	f, err := Parse(src, opts...)
	if err != nil {
		return nil, err
	}
	target := f.Class(cls.Name)
	if target == nil {
		return nil, fmt.Errorf("%s: %w", cls.Name, ErrClassNotFound)
	}

	short, imports := format.ShortenReferences(method, f.importScope(o.known))

	depth := 1
	for c := target; c != nil && c.EnclosingClass != ""; c = f.Class(c.EnclosingClass) {
		depth++
	}
	body := format.Reindent(short, indent, depth)

	var edits []Edit
	if importEdit, ok := f.importEdit(imports); ok {
		edits = append(edits, importEdit)
	}
	edits = append(edits, f.memberEdit(target, body, strings.Repeat(indent, depth-1)))
	return edits, nil
}

func (f *File) importScope(known []*java.ClassModel) format.ImportScope {
	scope := format.ImportScope{Package: f.Package}
	wildcards := map[string]bool{}
	for _, imp := range f.Imports {
		switch {
		case imp.Static:
		case imp.Wildcard:
			wildcards[imp.Name] = true
		default:
			scope.Imports = append(scope.Imports, imp.Name)
		}
	}
	declared := map[string]bool{}
	for _, c := range f.Classes {
		scope.Declared = append(scope.Declared, c.Name)
		declared[c.Name] = true
	}
	for _, c := range known {
		if c == nil || declared[c.Name] {
			continue
		}
		owner := c.Package
		if c.EnclosingClass != "" {
			owner = c.EnclosingClass
		} else if c.Package == f.Package {
			scope.PackageClasses = append(scope.PackageClasses, c.Name)
			continue
		}
		if wildcards[owner] {
			scope.OnDemand = append(scope.OnDemand, c.Name)
		}
	}
	return scope
}

func (f *File) memberEdit(cls *java.ClassModel, body, closingIndent string) Edit {
	closing := cls.Body.End.Offset
	lineStart := closing
	for lineStart > 0 && (f.Source[lineStart-1] == ' ' || f.Source[lineStart-1] == '\t') {
		lineStart--
	}
	if lineStart == 0 || f.Source[lineStart-1] == '\n' {
		pos := PositionOf(f.Source, lineStart)
		return Edit{Start: pos, End: pos, NewText: "\n" + body}
	}
	pos := PositionOf(f.Source, closing)
	return Edit{Start: pos, End: pos, NewText: "\n" + body + closingIndent}
}

func (f *File) importEdit(imports []string) (Edit, bool) {
	if len(imports) == 0 {
		return Edit{}, false
	}
	var sb strings.Builder
	for _, imp := range imports {
		fmt.Fprintf(&sb, "import %s;\n", imp)
	}

	if n := len(f.Imports); n > 0 {
		pos := lineEnd(f.Source, f.Imports[n-1].Range.End.Offset)
		return Edit{Start: pos, End: pos, NewText: sb.String()}, true
	}
	if f.Package != "" {
		pos := lineEnd(f.Source, f.PackageEnd.Offset)
		return Edit{Start: pos, End: pos, NewText: "\n" + sb.String()}, true
	}
	pos := PositionOf(f.Source, 0)
	return Edit{Start: pos, End: pos, NewText: sb.String() + "\n"}, true
}

// lineEnd is the position just after the newline ending the line at offset.
func lineEnd(src []byte, offset int) java.Position {
	for offset < len(src) && src[offset] != '\n' {
		offset++
	}
	if offset < len(src) {
		offset++
	}
	return PositionOf(src, offset)
}

// ApplyEdits applies non-overlapping edits to src.
func ApplyEdits(src []byte, edits []Edit) []byte {
	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Offset > sorted[j].Start.Offset
	})
	out := append([]byte(nil), src...)
	for _, e := range sorted {
		var buf []byte
		buf = append(buf, out[:e.Start.Offset]...)
		buf = append(buf, e.NewText...)
		buf = append(buf, out[e.End.Offset:]...)
		out = buf
	}
	return out
}
