package mcpserver

import (
	"context"
	"encoding/json"
	"slices"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestSession creates an in-process MCP server/client pair and returns
// the connected client session. The server is shut down when the test ends.
func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasrecord-test", Version: "test"},
		nil,
	)
	registerAllTools(server)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	// Start server in background; it blocks until the connection closes.
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(
		&mcp.Implementation{Name: "test-client", Version: "test"},
		nil,
	)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})

	return session
}

func TestIntegration_ListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Len(t, result.Tools, 3, "expected 3 registered tools")

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	for _, name := range []string{"render", "list_records", "schema_name"} {
		assert.True(t, slices.Contains(names, name), "missing tool: %s", name)
	}

	// Every tool should have a non-empty description.
	for _, tool := range result.Tools {
		assert.NotEmpty(t, tool.Description, "tool %q has empty description", tool.Name)
	}
}

func TestIntegration_CallTool_Render(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "render",
		Arguments: map[string]any{
			"definition": map[string]any{
				"content": testDefinitionYAML,
			},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError, "render should succeed on a valid definition")

	structured := unmarshalStructured(t, result)
	assert.Equal(t, "3.0.3", structured["openapi"])
	assert.Equal(t, "Pet Store", structured["title"])
	assert.Equal(t, float64(1), structured["path_count"])
	assert.Equal(t, float64(2), structured["schema_count"])
	assert.Equal(t, []any{"Person_exclude_phone", "Pet"}, structured["schemas"])
}

func TestIntegration_CallTool_SchemaName(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "schema_name",
		Arguments: map[string]any{
			"definition": map[string]any{
				"content": testDefinitionYAML,
			},
			"record": "Pet",
			"only":   []any{"name", "id"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	assert.Equal(t, "Pet_exclude_owner_password", structured["name"])
}

func TestIntegration_CallTool_Error_InvalidDefinition(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "render",
		Arguments: map[string]any{
			"definition": map[string]any{
				"content": "records: [this is not a mapping",
			},
		},
	})
	require.NoError(t, err, "MCP protocol call should succeed even on tool error")
	require.NotNil(t, result)
	assert.True(t, result.IsError, "render should return IsError for unparseable input")

	// The error content should contain descriptive text.
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "error content should be TextContent")
	assert.NotEmpty(t, text.Text)
}

func TestIntegration_CallTool_Error_MissingDefinition(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "list_records",
		Arguments: map[string]any{
			"definition": map[string]any{},
		},
	})
	require.NoError(t, err, "MCP protocol call should succeed even on tool error")
	require.NotNil(t, result)
	assert.True(t, result.IsError, "list_records should return IsError when no definition source is provided")
}

// unmarshalStructured extracts the structured output from a CallToolResult.
// It first checks StructuredContent, then falls back to parsing the first TextContent.
func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	// Prefer structured content if available.
	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	// Fall back to parsing text content.
	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m), "failed to parse text content as JSON")
	return m
}
