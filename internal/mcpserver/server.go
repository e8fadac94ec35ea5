// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasrecord rendering as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/oasrecord"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `oasrecord MCP server: renders OpenAPI documents from record definitions and reports the schema names field subsets resolve to.

Configuration: All defaults are configurable via OASRECORD_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASRECORD_DEFAULT_FORMAT (default: json) - document format returned by render (json or yaml)
- OASRECORD_DEFAULT_NAMING (default: default) - schema naming strategy (default, pascal or snake)
- OASRECORD_MAX_DEFINITION_BYTES (default: 4194304) - size limit of a definition document
- OASRECORD_ALLOW_OUTPUT_FILES (default: true) - allow render to write its document to a file

Definitions are YAML documents with openapi, info, records, schemas, parameters, responses and paths sections. A {$record: Name, exclude: [...], only: [...], many: true} mapping anywhere in a schema position stands for a record.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasrecord", Version: oasrecord.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "render",
		Description: "Render an OpenAPI document (2.0, 3.0 or 3.1) from a record definition. Record subsets become named schema components (Pet_exclude_password) referenced by $ref, with cycles between records handled automatically. Returns the schema names, counts and the document. Use output to write to a file instead of returning inline. Defaults are configurable via OASRECORD_DEFAULT_FORMAT and OASRECORD_DEFAULT_NAMING env vars.",
	}, handleRender)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_records",
		Description: "List the records declared by a definition with their fields (name, kind, required, nested record). Use this to explore a definition before rendering it.",
	}, handleListRecords)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "schema_name",
		Description: "Compute the schema component name a record subset resolves to, given exclude and/or only field lists. Subsets with the same effective exclusions share one name; only implies excluding every other field.",
	}, handleSchemaName)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}
