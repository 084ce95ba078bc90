package clone

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dhamidi/entitygen/java"
)

func TestSynthesize(t *testing.T) {
	params := []Parameter{
		{Name: "src", Type: java.ParseType("com.example.Source")},
		{Name: "age", Type: java.ParseType("int")},
	}
	matches := []PropertyMatch{
		{Setter: "setFoo", Expr: "src.getFoo()", Matched: true},
		{Setter: "setBar"},
		{Setter: "setAge", Expr: "age", Matched: true, Direct: true},
	}

	m := Synthesize("of", params, java.ParseType("com.example.Target"), matches, Style{})

	assert.Equal(t, "public static com.example.Target of(com.example.Source src, int age)", m.Signature())
	assert.Equal(t, `public static com.example.Target of(com.example.Source src, int age) {
  com.example.Target newEntity = new com.example.Target();
  newEntity.setFoo(src.getFoo());
  newEntity.setBar();
  newEntity.setAge(age);
  return newEntity;
}
`, m.String())
}

func TestSynthesizeStyle(t *testing.T) {
	style := Style{Modifiers: []string{"static"}, LocalVariable: "result", Indent: "\t"}
	m := Synthesize("empty", nil, java.ParseType("Target"), nil, style)
	assert.Equal(t, "static Target empty() {\n\tTarget result = new Target();\n\treturn result;\n}\n", m.String())
}

func TestSynthesizeGenericReturnUsesDiamond(t *testing.T) {
	m := Synthesize("box", nil, java.ParseType("com.example.Box<String>"), nil, DefaultStyle)
	assert.Equal(t, "com.example.Box<String> newEntity = new com.example.Box<>();", m.Body[0])
}

func TestIntentions(t *testing.T) {
	all := Intentions()
	assert.Len(t, all, 2)
	assert.False(t, all[0].Strict)
	assert.Equal(t, "Create clone full field method", all[0].Title)
	assert.True(t, all[1].Strict)
	assert.Equal(t, "Create clone matched field method", all[1].Title)

	in, ok := IntentionByID(IntentionMatched.ID)
	assert.True(t, ok)
	assert.Equal(t, IntentionMatched, in)

	_, ok = IntentionByID("nope")
	assert.False(t, ok)
}
