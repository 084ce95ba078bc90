// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes clone method synthesis as tools over stdio.
package mcpserver

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("entitygen.mcp")

const serverInstructions = `entitygen MCP server: synthesizes static factory methods that build a class by copying name-matched properties from the call's arguments.

Every tool takes an optional root, the directory of the Java project. It defaults to the directory the server was started in. Projects are scanned once per session and rescanned as files change; settings come from the project's .entitygen.yaml.

A call is described either by at (FILE:LINE:COL of a call to a method that does not exist yet) or by receiver, method, returns and args. Use explain_matches to see which target properties find a source before generating.`

// Options configure Run.
type Options struct {
	Version string

	// Root is the project used when a tool call names none.
	Root string
}

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	workspaces.setDefaultRoot(opts.Root)
	defer workspaces.closeAll()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "entitygen", Version: opts.Version},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	log.Infof("serving MCP over stdio")
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_clone_method",
		Description: "Generate a static factory method on the receiver class that constructs the expected type and copies every property whose name matches a getter of the arguments. matched=true emits only the setters that found a source; otherwise unmatched setters are emitted as empty calls. write=true inserts the method into the receiver's source file, shortening qualified names and adding imports.",
	}, handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "explain_matches",
		Description: "List every settable property of the expected type and where its value would come from: the getter of an argument, an argument passed as is, or nothing. Nothing is generated or written.",
	}, handleExplain)
}

// sanitizeError strips the project root from error messages.
func sanitizeError(err error, root string) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if root != "" {
		msg = strings.ReplaceAll(msg, root+string(filepath.Separator), "")
	}
	return msg
}

// errResult creates an MCP error result from an error.
func errResult(err error, root string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err, root)}},
	}
}

// makeSlice returns nil when n is 0, otherwise make([]T, 0, n).
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}
