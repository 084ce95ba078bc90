package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainTool(t *testing.T) {
	dir := projectFixture(t)

	input := explainInput{
		Root: dir,
		Call: callInput{
			Returns: "p.Target",
			Args: []argInput{
				{Expr: "src", Type: "p.Source"},
				{Expr: "age", Type: "int"},
			},
		},
	}
	res, output, err := handleExplain(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, res)

	assert.Equal(t, "p.Target", output.Target)
	assert.Equal(t, 2, output.Matched)
	require.Len(t, output.Properties, 2)

	name := output.Properties[0]
	assert.Equal(t, "name", name.Key)
	assert.Equal(t, "setName", name.Setter)
	assert.Equal(t, "java.lang.String", name.Type)
	assert.True(t, name.Matched)
	assert.False(t, name.Direct)
	assert.Equal(t, "getName", name.Getter)
	assert.Equal(t, "src.getName()", name.Expr)
	assert.Equal(t, 0, name.Argument)

	age := output.Properties[1]
	assert.Equal(t, "age", age.Key)
	assert.Equal(t, "int", age.Type)
	assert.True(t, age.Direct)
	assert.Equal(t, "age", age.Expr)
	assert.Equal(t, 1, age.Argument)
}

func TestExplainTool_Unmatched(t *testing.T) {
	dir := projectFixture(t)

	input := explainInput{Root: dir, Call: callInput{At: "p/Service.java:5:27"}}
	res, output, err := handleExplain(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, res)
	require.Len(t, output.Properties, 2)
	assert.False(t, output.Properties[1].Matched)
	assert.Equal(t, -1, output.Properties[1].Argument)
	assert.Empty(t, output.Properties[1].Expr)
}

func TestExplainTool_UnknownTarget(t *testing.T) {
	dir := projectFixture(t)

	input := explainInput{Root: dir, Call: callInput{Returns: "p.Nope"}}
	res, _, err := handleExplain(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}
