package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexFixture() *Index {
	base := &ClassModel{
		Name:       "com.acme.Base",
		SimpleName: "Base",
		Package:    "com.acme",
		Methods: []MethodModel{
			{Name: "getId", ReturnType: TypeModel{Name: "long"}},
		},
	}
	order := &ClassModel{
		Name:       "com.acme.Order",
		SimpleName: "Order",
		Package:    "com.acme",
		SuperClass: "Base",
		Methods: []MethodModel{
			{Name: "Order", IsConstructor: true},
			{Name: "getTotal", ReturnType: TypeModel{Name: "java.math.BigDecimal"}},
		},
	}
	otherOrder := &ClassModel{Name: "com.other.Order", SimpleName: "Order", Package: "com.other"}
	line := &ClassModel{Name: "com.acme.Order.Line", SimpleName: "Line", Package: "com.acme", EnclosingClass: "com.acme.Order"}
	return NewIndex([]*ClassModel{base, order, otherOrder, line, order})
}

func TestIndexLookupIsExact(t *testing.T) {
	idx := indexFixture()
	assert.Equal(t, 4, idx.Len())
	require.NotNil(t, idx.Lookup("com.acme.Order"))
	assert.Nil(t, idx.Lookup("Order"))
	assert.Nil(t, idx.Lookup("Base"))
}

func TestIndexFind(t *testing.T) {
	idx := indexFixture()
	tests := []struct {
		name string
		want string
	}{
		{"com.acme.Order", "com.acme.Order"},
		{"com.acme.Order<String>[]", "com.acme.Order"},
		{"Base", "com.acme.Base"},
		{"Order", ""},
		{"Order.Line", "com.acme.Order.Line"},
		{"Missing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Find(tt.name)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestIndexMethodReturnTypeWalksSuperclasses(t *testing.T) {
	idx := indexFixture()
	order := idx.Lookup("com.acme.Order")

	rt, ok := idx.MethodReturnType(order, "getId")
	require.True(t, ok)
	assert.Equal(t, "long", rt.Name)

	rt, ok = idx.MethodReturnType(order, "getTotal")
	require.True(t, ok)
	assert.Equal(t, "java.math.BigDecimal", rt.Name)

	_, ok = idx.MethodReturnType(order, "Order")
	assert.False(t, ok)
}

func TestMethodsByName(t *testing.T) {
	cls := &ClassModel{Methods: []MethodModel{
		{Name: "of", Parameters: []ParameterModel{{Name: "a"}}},
		{Name: "get"},
		{Name: "of"},
	}}
	assert.Len(t, cls.MethodsByName("of"), 2)
	assert.Empty(t, cls.MethodsByName("missing"))
}
