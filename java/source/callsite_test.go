package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/entitygen/java"
)

const serviceSource = `package com.example;

import java.util.List;

public class Service {
    private OrderMapper mapper;

    public OrderDto convert(Order order, String label) {
        OrderDto dto = OrderMapper.toDto(order, label + "!");
        dto = mapper.refresh(dto, order.getCode());
        return build(label, 1, 2.5f, new int[3]);
    }

    void plain() {
        var x = this.mapper.copy(null, (Order) source);
        plain();
    }
}
`

func serviceIndex() *java.Index {
	return java.NewIndex([]*java.ClassModel{
		{Name: "com.example.Order", SimpleName: "Order", Methods: []java.MethodModel{
			{Name: "getCode", ReturnType: java.TypeModel{Name: "java.lang.String"}},
		}},
		{Name: "com.example.OrderDto", SimpleName: "OrderDto"},
		{Name: "com.example.OrderMapper", SimpleName: "OrderMapper"},
	})
}

func TestCallAt(t *testing.T) {
	tests := []struct {
		name         string
		line, column int
		receiver     string
		receiverExpr string
		method       string
		args         []Argument
		expected     string
	}{
		{
			name: "static call assigned to declaration",
			line: 9, column: 38,
			receiver:     "com.example.OrderMapper",
			receiverExpr: "OrderMapper",
			method:       "toDto",
			args: []Argument{
				{Expr: "order", Type: "com.example.Order"},
				{Expr: `label + "!"`, Type: "java.lang.String"},
			},
			expected: "com.example.OrderDto",
		},
		{
			name: "caret on opening parenthesis",
			line: 9, column: 41,
			receiver:     "com.example.OrderMapper",
			receiverExpr: "OrderMapper",
			method:       "toDto",
			args: []Argument{
				{Expr: "order", Type: "com.example.Order"},
				{Expr: `label + "!"`, Type: "java.lang.String"},
			},
			expected: "com.example.OrderDto",
		},
		{
			name: "field receiver assigned to existing variable",
			line: 10, column: 22,
			receiver:     "com.example.OrderMapper",
			receiverExpr: "mapper",
			method:       "refresh",
			args: []Argument{
				{Expr: "dto", Type: "com.example.OrderDto"},
				{Expr: "order.getCode()", Type: "java.lang.String"},
			},
			expected: "com.example.OrderDto",
		},
		{
			name: "unqualified call in return",
			line: 11, column: 16,
			receiver: "com.example.Service",
			method:   "build",
			args: []Argument{
				{Expr: "label", Type: "java.lang.String"},
				{Expr: "1", Type: "int"},
				{Expr: "2.5f", Type: "float"},
				{Expr: "new int[3]", Type: "int[]"},
			},
			expected: "com.example.OrderDto",
		},
		{
			name: "this-qualified receiver with var",
			line: 15, column: 30,
			receiver:     "com.example.OrderMapper",
			receiverExpr: "this.mapper",
			method:       "copy",
			args: []Argument{
				{Expr: "null"},
				{Expr: "(Order) source", Type: "com.example.Order"},
			},
		},
		{
			name: "statement call",
			line: 16, column: 9,
			receiver: "com.example.Service",
			method:   "plain",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := CallAt([]byte(serviceSource), tt.line, tt.column, serviceIndex())
			require.NoError(t, err)
			assert.Equal(t, tt.receiver, call.Receiver)
			assert.Equal(t, tt.receiverExpr, call.ReceiverExpr)
			assert.Equal(t, tt.method, call.Method)
			assert.Equal(t, tt.args, call.Arguments)
			assert.Equal(t, tt.expected, call.ExpectedType)
			require.NotNil(t, call.Enclosing)
			assert.Equal(t, "com.example.Service", call.Enclosing.Name)
		})
	}
}

func TestCallAtNoCall(t *testing.T) {
	tests := []struct {
		name         string
		line, column int
	}{
		{"field declaration", 6, 26},
		{"method declaration", 8, 22},
		{"keyword", 11, 10},
		{"blank line", 7, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CallAt([]byte(serviceSource), tt.line, tt.column, serviceIndex())
			assert.ErrorIs(t, err, ErrNoCall)
		})
	}
}

func TestCallAtChainedReceiverIsNotTyped(t *testing.T) {
	src := "class A {\n  void f() {\n    a().b(1);\n  }\n}\n"
	_, err := CallAt([]byte(src), 3, 9, nil)
	assert.ErrorIs(t, err, ErrNoCall)
}

func TestFileCallAtUsesFileClasses(t *testing.T) {
	src := []byte(`class Target {}
class Host {
    Target t;
    Target make(Target other) {
        return t.copy(other);
    }
}
`)
	f, err := Parse(src)
	require.NoError(t, err)
	call, err := f.CallAt(OffsetOf(src, 5, 18), nil)
	require.NoError(t, err)
	assert.Equal(t, "Target", call.Receiver)
	assert.Equal(t, "copy", call.Method)
	assert.Equal(t, []Argument{{Expr: "other", Type: "Target"}}, call.Arguments)
	assert.Equal(t, "Target", call.ExpectedType)
	assert.Equal(t, 5, call.MethodRange.Start.Line)
}
