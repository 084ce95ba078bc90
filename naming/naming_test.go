package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestName(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"user", "user"},
		{"this.user", "user"},
		{"order.customer", "customer"},
		{"order.getCustomer()", "customer"},
		{"order.getCustomer().getAddress()", "address"},
		{"person.isActive()", "active"},
		{"repository.findOne(id)", "findOne"},
		{"new Person()", "person"},
		{"new com.example.Person(a, b)", "person"},
		{"new ArrayList<String>()", "arrayList"},
		{"new URLParser()", "URLParser"},
		{"new Class()", "aClass"},
		{"(Person) obj", "obj"},
		{"((person))", "person"},
		{"items[0]", "items"},
		{"MAX_VALUE", "maxValue"},
		{"Constants.DEFAULT_NAME", "defaultName"},
		{"HTTP2_PORT", "http2Port"},
		{"Kind.CLASS", "aClass"},
		{"42", ""},
		{"-1", ""},
		{`"text"`, ""},
		{"'c'", ""},
		{"null", ""},
		{"true", ""},
		{"this", ""},
		{"a + b", ""},
		{"", ""},
	}
	s := NewExpression()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, s.SuggestName(tt.expr))
		})
	}
}

func TestSuggesterFunc(t *testing.T) {
	var s Suggester = SuggesterFunc(func(expr string) string { return "x" + expr })
	assert.Equal(t, "xy", s.SuggestName("y"))
}
