package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortenReferences(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		scope   ImportScope
		want    string
		imports []string
	}{
		{
			name:    "adds import for foreign package",
			text:    "com.acme.dto.Foo f = new com.acme.dto.Foo();",
			scope:   ImportScope{Package: "com.acme"},
			want:    "Foo f = new Foo();",
			imports: []string{"com.acme.dto.Foo"},
		},
		{
			name:  "same package needs no import",
			text:  "com.acme.Bar b;",
			scope: ImportScope{Package: "com.acme"},
			want:  "Bar b;",
		},
		{
			name:  "java.lang is implicit",
			text:  "java.lang.String s = java.lang.Integer.toString(1);",
			scope: ImportScope{Package: "p"},
			want:  "String s = Integer.toString(1);",
		},
		{
			name:  "already imported",
			text:  "java.util.List<java.math.BigDecimal> xs;",
			scope: ImportScope{Imports: []string{"java.util.List", "java.math.BigDecimal"}},
			want:  "List<BigDecimal> xs;",
		},
		{
			name:  "clash with import keeps qualified name",
			text:  "a.Date x; b.Date y;",
			scope: ImportScope{Imports: []string{"java.util.Date"}},
			want:  "a.Date x; b.Date y;",
		},
		{
			name:    "clash between references keeps the second qualified",
			text:    "a.Date x; b.Date y; a.Date z;",
			scope:   ImportScope{Package: "p"},
			want:    "Date x; b.Date y; Date z;",
			imports: []string{"a.Date"},
		},
		{
			name:  "clash with declared class",
			text:  "other.Order o;",
			scope: ImportScope{Package: "p", Declared: []string{"p.Order"}},
			want:  "other.Order o;",
		},
		{
			name:  "clash with another class of the package",
			text:  "com.other.Order o; com.acme.Order mine;",
			scope: ImportScope{Package: "com.acme", PackageClasses: []string{"com.acme.Order"}},
			want:  "com.other.Order o; Order mine;",
		},
		{
			name:  "single-type import wins over the package",
			text:  "com.other.Order o;",
			scope: ImportScope{Package: "com.acme", Imports: []string{"com.other.Order"}, PackageClasses: []string{"com.acme.Order"}},
			want:  "Order o;",
		},
		{
			name:  "clash with wildcard import",
			text:  "com.other.Order o; com.shop.Order s;",
			scope: ImportScope{Package: "p", OnDemand: []string{"com.shop.Order"}},
			want:  "com.other.Order o; Order s;",
		},
		{
			name:  "name reached through two wildcards stays qualified",
			text:  "com.shop.Order s;",
			scope: ImportScope{Package: "p", OnDemand: []string{"com.shop.Order", "com.legacy.Order"}},
			want:  "com.shop.Order s;",
		},
		{
			name:  "package class shadows wildcard import",
			text:  "com.shop.Order s;",
			scope: ImportScope{Package: "p", PackageClasses: []string{"p.Order"}, OnDemand: []string{"com.shop.Order"}},
			want:  "com.shop.Order s;",
		},
		{
			name:  "would shadow java.lang",
			text:  "my.pkg.String s;",
			scope: ImportScope{Package: "p"},
			want:  "my.pkg.String s;",
		},
		{
			name:  "member access is not a type",
			text:  "order.getCode(); call().field.Value;",
			scope: ImportScope{Package: "p"},
			want:  "order.getCode(); call().field.Value;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, imports := ShortenReferences(tt.text, tt.scope)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.imports, imports)
		})
	}
}
