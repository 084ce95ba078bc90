package clone

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/entitygen/java"
)

func fooBarModel() *StaticModel {
	return model(
		class("Target", "", setter("setFoo", "int"), setter("setBar", "String")),
		class("Source", "", getter("getFoo", "int")),
		class("Factory", ""),
	)
}

func TestGenerateFullAndMatched(t *testing.T) {
	engine := NewEngine(fooBarModel(), nil, Options{})
	req := Request{
		Receiver:     "Factory",
		Method:       "toTarget",
		ExpectedType: "Target",
		Arguments:    []Argument{{Expr: "src", Type: "Source"}},
	}

	full, err := engine.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `public static Target toTarget(Source src) {
  Target newEntity = new Target();
  newEntity.setFoo(src.getFoo());
  newEntity.setBar();
  return newEntity;
}
`, full.Method.String())
	assert.Equal(t, "Factory", full.Receiver.Name)
	assert.NotEmpty(t, full.ID)

	req.Strict = true
	matched, err := engine.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `public static Target toTarget(Source src) {
  Target newEntity = new Target();
  newEntity.setFoo(src.getFoo());
  return newEntity;
}
`, matched.Method.String())
}

func TestGenerateDirectValue(t *testing.T) {
	engine := NewEngine(model(class("Target", "", setter("setAge", "int"))), nil, Options{})
	res, err := engine.Generate(context.Background(), Request{
		Method:       "withAge",
		ExpectedType: "Target",
		Arguments:    []Argument{{Expr: "age", Type: "int"}},
	})
	require.NoError(t, err)
	assert.Contains(t, res.Method.String(), "  newEntity.setAge(age);\n")
	assert.NotContains(t, res.Method.String(), "getAge")
}

func TestGenerateUntypedArgumentIsNotAValue(t *testing.T) {
	engine := NewEngine(model(class("Target", "", setter("setName", "String"))), nil, Options{})
	req := Request{
		Method:       "named",
		ExpectedType: "Target",
		Arguments:    []Argument{{Expr: "name"}},
		Strict:       true,
	}

	res, err := engine.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `public static Target named(java.lang.Object name) {
  Target newEntity = new Target();
  return newEntity;
}
`, res.Method.String())
	require.Len(t, res.Matches, 1)
	assert.False(t, res.Matches[0].Matched)

	req.Strict = false
	res, err = engine.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, res.Method.String(), "  newEntity.setName();\n")

	req.Arguments = []Argument{{Expr: "name", Type: "Object"}}
	res, err = engine.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.NotContains(t, res.Method.String(), "setName(name)")
}

func TestGenerateAutoAccessorTarget(t *testing.T) {
	m := model(
		class("Target", "", data, field("name", "String")),
		class("Source", "", getter("getName", "String")),
	)
	res, err := NewEngine(m, nil, Options{}).Generate(context.Background(), Request{
		Method:       "copy",
		ExpectedType: "Target",
		Arguments:    []Argument{{Expr: "source", Type: "Source"}},
		Strict:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Target newEntity = new Target();",
		"newEntity.setName(source.getName());",
		"return newEntity;",
	}, res.Method.Body)
}

func assignments(m Method) []string {
	var out []string
	for _, stmt := range m.Body {
		if strings.HasPrefix(stmt, "newEntity.set") {
			out = append(out, stmt)
		}
	}
	return out
}

func TestGenerateProperties(t *testing.T) {
	m := model(
		class("Base", "", setter("setId", "long"), setter("setCode", "String"), setter("setVersion", "int")),
		class("Target", "Base", data, field("name", "String"), field("email", "String"), setter("setCODE", "String")),
		class("Person", "", getter("getName", "String"), getter("getCode", "String")),
		class("Contact", "", getter("getName", "String"), getter("getEmail", "String")),
	)
	engine := NewEngine(m, nil, Options{})
	req := Request{
		Method:       "merge",
		ExpectedType: "Target",
		Arguments: []Argument{
			{Expr: "person", Type: "Person"},
			{Expr: "contact", Type: "Contact"},
			{Expr: "id", Type: "long"},
		},
	}

	full, err := engine.Generate(context.Background(), req)
	require.NoError(t, err)
	req.Strict = true
	strict, err := engine.Generate(context.Background(), req)
	require.NoError(t, err)

	t.Run("non-strict emits every setter key", func(t *testing.T) {
		assert.Len(t, assignments(full.Method), 5, spew.Sdump(full.Matches))
		assert.Contains(t, full.Method.Body, "newEntity.setVersion();")
	})

	t.Run("strict is a subset", func(t *testing.T) {
		all := map[string]bool{}
		for _, stmt := range assignments(full.Method) {
			all[strings.SplitN(stmt, "(", 2)[0]] = true
		}
		for _, stmt := range assignments(strict.Method) {
			assert.True(t, all[strings.SplitN(stmt, "(", 2)[0]], stmt)
		}
	})

	t.Run("first source wins", func(t *testing.T) {
		assert.Contains(t, full.Method.Body, "newEntity.setName(person.getName());")
		assert.Contains(t, full.Method.Body, "newEntity.setEmail(contact.getEmail());")
	})

	t.Run("more derived wins", func(t *testing.T) {
		assert.Contains(t, full.Method.Body, "newEntity.setCODE(person.getCode());")
		assert.NotContains(t, full.Method.Body, "newEntity.setCode(person.getCode());")
	})

	t.Run("direct value", func(t *testing.T) {
		assert.Contains(t, full.Method.Body, "newEntity.setId(id);")
	})
}

func TestGenerateDeterministic(t *testing.T) {
	engine := NewEngine(fooBarModel(), nil, Options{})
	req := Request{Method: "m", ExpectedType: "Target", Arguments: []Argument{{Expr: "src", Type: "Source"}, {Expr: "42"}}}

	first, err := engine.Generate(context.Background(), req)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := engine.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first.Method.String(), again.Method.String())
	}
}

func TestGenerateParameters(t *testing.T) {
	engine := NewEngine(fooBarModel(), nil, Options{})
	res, err := engine.Generate(context.Background(), Request{
		Method:       "m",
		ExpectedType: "Target",
		Arguments: []Argument{
			{Expr: "user", Type: "Source"},
			{Expr: "other.user", Type: "Source"},
			{Expr: "42"},
			{Expr: `"x"`, Type: "java.lang.String"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "public static Target m(Source user, Source user2, java.lang.Object arg2, java.lang.String arg3)", res.Method.Signature())
}

func TestGenerateQualifiesParameterTypes(t *testing.T) {
	m := model(
		class("com.example.Target", "", setter("setFoo", "int")),
		class("com.example.Source", "", getter("getFoo", "int")),
	)
	res, err := NewEngine(m, nil, Options{}).Generate(context.Background(), Request{
		Method:       "of",
		ExpectedType: "Target",
		Arguments:    []Argument{{Expr: "s", Type: "Source"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "public static com.example.Target of(com.example.Source s)", res.Method.Signature())
}

func TestGenerateErrors(t *testing.T) {
	engine := NewEngine(fooBarModel(), nil, Options{})
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"no expected type", Request{Method: "m"}, ErrNoExpectedType},
		{"unknown receiver", Request{Receiver: "Nope", Method: "m", ExpectedType: "Target"}, ErrUnresolvableTarget},
		{"unknown target", Request{Method: "m", ExpectedType: "Nope"}, ErrUnresolvableTarget},
		{"primitive target", Request{Method: "m", ExpectedType: "int"}, ErrUnresolvableTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Generate(context.Background(), tt.req)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerateStale(t *testing.T) {
	m := &staleModel{StaticModel: fooBarModel(), after: 0}
	_, err := NewEngine(m, nil, Options{}).Generate(context.Background(), Request{Method: "m", ExpectedType: "Target"})
	assert.ErrorIs(t, err, ErrStaleModel)
}

func TestApply(t *testing.T) {
	engine := NewEngine(fooBarModel(), nil, Options{})
	req := Request{Receiver: "Factory", Method: "of", ExpectedType: "Target", Arguments: []Argument{{Expr: "src", Type: "Source"}}}

	ins := &recordingInserter{}
	res, err := engine.Apply(context.Background(), req, ins)
	require.NoError(t, err)
	assert.Equal(t, "Factory", ins.receiver.Name)
	assert.Equal(t, res.Method.String(), ins.source)

	t.Run("requires receiver", func(t *testing.T) {
		ins := &recordingInserter{}
		_, err := engine.Apply(context.Background(), Request{Method: "of", ExpectedType: "Target"}, ins)
		assert.ErrorIs(t, err, ErrUnresolvableTarget)
		assert.Nil(t, ins.receiver)
	})

	t.Run("inserter failure", func(t *testing.T) {
		boom := errors.New("read-only file")
		_, err := engine.Apply(context.Background(), req, &recordingInserter{err: boom})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nothing inserted on error", func(t *testing.T) {
		ins := &recordingInserter{}
		_, err := engine.Apply(context.Background(), Request{Receiver: "Factory", Method: "of"}, ins)
		assert.ErrorIs(t, err, ErrNoExpectedType)
		assert.Equal(t, (*java.ClassModel)(nil), ins.receiver)
	})
}
