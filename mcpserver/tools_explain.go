package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type explainInput struct {
	Root string    `json:"root,omitempty" jsonschema:"Project directory; defaults to the server's root"`
	Call callInput `json:"call"           jsonschema:"The call to explain; receiver may be omitted"`
}

type propertyOutput struct {
	Key     string `json:"key"`
	Setter  string `json:"setter"`
	Type    string `json:"type"`
	Matched bool   `json:"matched"`
	Direct  bool   `json:"direct,omitempty"`
	Expr    string `json:"expr,omitempty"`
	Getter  string `json:"getter,omitempty"`

	// Argument is the index of the supplying argument, or -1.
	Argument int `json:"argument"`
}

type explainOutput struct {
	Target     string           `json:"target"`
	Matched    int              `json:"matched"`
	Properties []propertyOutput `json:"properties,omitempty"`
}

func handleExplain(ctx context.Context, _ *mcp.CallToolRequest, input explainInput) (*mcp.CallToolResult, explainOutput, error) {
	ws, err := workspaces.open(input.Root)
	if err != nil {
		return errResult(err, ""), explainOutput{}, nil
	}
	snap := ws.codebase.Snapshot()
	call := input.Call
	if call.At == "" && call.Method == "" {
		call.Method = "explain"
	}
	req, err := call.request(snap, false)
	if err != nil {
		return errResult(err, ws.root), explainOutput{}, nil
	}
	res, err := ws.engine(snap).Generate(ctx, req)
	if err != nil {
		return errResult(err, ws.root), explainOutput{}, nil
	}

	output := explainOutput{
		Target:     res.Target.Name,
		Properties: makeSlice[propertyOutput](len(res.Matches)),
	}
	for _, pm := range res.Matches {
		if pm.Matched {
			output.Matched++
		}
		output.Properties = append(output.Properties, propertyOutput{
			Key:      pm.Key,
			Setter:   pm.Setter,
			Type:     pm.SetterType.String(),
			Matched:  pm.Matched,
			Direct:   pm.Direct,
			Expr:     pm.Expr,
			Getter:   pm.Getter,
			Argument: pm.Source,
		})
	}
	return nil, output, nil
}
