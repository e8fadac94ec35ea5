package mcpserver

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/erraggy/oasrecord/record"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type renderInput struct {
	Definition     definitionInput `json:"definition"                jsonschema:"The record definition to render"`
	Format         string          `json:"format,omitempty"          jsonschema:"Output format: json or yaml (default from OASRECORD_DEFAULT_FORMAT)"`
	Naming         string          `json:"naming,omitempty"          jsonschema:"Schema naming strategy: default, pascal or snake"`
	SkipDuplicates bool            `json:"skip_duplicates,omitempty" jsonschema:"Inline record subsets whose schema name is taken instead of failing"`
	Output         string          `json:"output,omitempty"          jsonschema:"File path to write the document. If omitted the document is returned inline."`
}

type renderOutput struct {
	OpenAPI     string   `json:"openapi"`
	Title       string   `json:"title"`
	Format      string   `json:"format"`
	PathCount   int      `json:"path_count"`
	SchemaCount int      `json:"schema_count"`
	Schemas     []string `json:"schemas,omitempty"`
	WrittenTo   string   `json:"written_to,omitempty"`
	Document    string   `json:"document,omitempty"`
}

func handleRender(_ context.Context, _ *mcp.CallToolRequest, input renderInput) (*mcp.CallToolResult, renderOutput, error) {
	format := strings.ToLower(input.Format)
	if format == "" {
		format = cfg.DefaultFormat
	}
	if format != "json" && format != "yaml" {
		return errResult(fmt.Errorf("invalid format %q; valid values: json, yaml", input.Format)), renderOutput{}, nil
	}

	naming := input.Naming
	if naming == "" {
		naming = cfg.DefaultNaming
	}
	strategy, err := record.ParseNamingStrategy(naming)
	if err != nil {
		return errResult(err), renderOutput{}, nil
	}
	opts := []record.Option{record.WithNamingStrategy(strategy)}
	if input.SkipDuplicates {
		opts = append(opts, record.WithDuplicatePolicy(record.DuplicatePolicySkip))
	}

	if input.Output != "" && !cfg.AllowOutputFiles {
		return errResult(fmt.Errorf("writing output files is disabled; unset OASRECORD_ALLOW_OUTPUT_FILES or omit output")), renderOutput{}, nil
	}

	def, err := input.Definition.resolve()
	if err != nil {
		return errResult(err), renderOutput{}, nil
	}
	doc, err := def.Build(opts...)
	if err != nil {
		return errResult(err), renderOutput{}, nil
	}

	output := renderOutput{
		OpenAPI:     doc.Version().String(),
		Title:       doc.Title(),
		Format:      format,
		PathCount:   doc.PathCount(),
		SchemaCount: doc.Components().SchemaCount(),
		Schemas:     doc.Components().SchemaNames(),
	}

	var data []byte
	if format == "yaml" {
		data, err = doc.MarshalYAML()
	} else {
		data, err = doc.MarshalJSON()
	}
	if err != nil {
		return errResult(err), renderOutput{}, nil
	}

	if input.Output != "" {
		if err := os.WriteFile(input.Output, data, 0o600); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), renderOutput{}, nil
		}
		output.WrittenTo = input.Output
		return nil, output, nil
	}
	output.Document = string(data)
	return nil, output, nil
}
