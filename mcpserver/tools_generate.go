package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dhamidi/entitygen/clone"
)

type generateInput struct {
	Root    string    `json:"root,omitempty"    jsonschema:"Project directory; defaults to the server's root"`
	Call    callInput `json:"call"              jsonschema:"The call the method is generated for"`
	Matched *bool     `json:"matched,omitempty" jsonschema:"Emit only setters that found a source; defaults to the project's strict setting"`
	Write   bool      `json:"write,omitempty"   jsonschema:"Insert the method into the receiver's source file"`
}

type generateOutput struct {
	ID         string `json:"id"`
	Receiver   string `json:"receiver,omitempty"`
	Target     string `json:"target"`
	Signature  string `json:"signature"`
	Method     string `json:"method"`
	Matched    int    `json:"matched"`
	Properties int    `json:"properties"`
	Written    bool   `json:"written"`
	File       string `json:"file,omitempty"`
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	ws, err := workspaces.open(input.Root)
	if err != nil {
		return errResult(err, ""), generateOutput{}, nil
	}
	strict := ws.config.Strict
	if input.Matched != nil {
		strict = *input.Matched
	}

	snap := ws.codebase.Snapshot()
	req, err := input.Call.request(snap, strict)
	if err != nil {
		return errResult(err, ws.root), generateOutput{}, nil
	}

	engine := ws.engine(snap)
	var res *clone.Result
	if input.Write {
		res, err = engine.Apply(ctx, req, ws.codebase)
	} else {
		res, err = engine.Generate(ctx, req)
	}
	if err != nil {
		return errResult(err, ws.root), generateOutput{}, nil
	}

	output := generateOutput{
		ID:         res.ID,
		Target:     res.Target.Name,
		Signature:  res.Method.Signature(),
		Method:     res.Method.String(),
		Properties: len(res.Matches),
		Written:    input.Write,
	}
	for _, pm := range res.Matches {
		if pm.Matched {
			output.Matched++
		}
	}
	if res.Receiver != nil {
		output.Receiver = res.Receiver.Name
		if input.Write {
			output.File = ws.relative(res.Receiver.SourceFile)
		}
	}
	return nil, output, nil
}
