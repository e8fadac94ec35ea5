package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/oasrecord/record"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type listRecordsInput struct {
	Definition definitionInput `json:"definition"     jsonschema:"The record definition to inspect"`
	Name       string          `json:"name,omitempty" jsonschema:"Only list the record with this name"`
}

type fieldSummary struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Format   string `json:"format,omitempty"`
	Required bool   `json:"required"`
	Nullable bool   `json:"nullable,omitempty"`
	Many     bool   `json:"many,omitempty"`
	Record   string `json:"record,omitempty"`
}

type recordSummary struct {
	Name    string         `json:"name"`
	Fields  []fieldSummary `json:"fields,omitempty"`
	Exclude []string       `json:"exclude,omitempty"`
	Only    []string       `json:"only,omitempty"`
}

type listRecordsOutput struct {
	Source  string          `json:"source"`
	OpenAPI string          `json:"openapi"`
	Total   int             `json:"total"`
	Records []recordSummary `json:"records,omitempty"`
}

func handleListRecords(_ context.Context, _ *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, listRecordsOutput, error) {
	def, err := input.Definition.resolve()
	if err != nil {
		return errResult(err), listRecordsOutput{}, nil
	}

	names := def.RecordNames()
	if input.Name != "" {
		if _, ok := def.Class(input.Name); !ok {
			return errResult(fmt.Errorf("record %q not found", input.Name)), listRecordsOutput{}, nil
		}
		names = []string{input.Name}
	}

	output := listRecordsOutput{
		Source:  def.Source(),
		OpenAPI: def.OpenAPI,
		Total:   len(def.RecordNames()),
		Records: makeSlice[recordSummary](len(names)),
	}
	for _, name := range names {
		c, _ := def.Class(name)
		summary := recordSummary{
			Name:    name,
			Fields:  makeSlice[fieldSummary](len(c.Fields())),
			Exclude: c.Options().Exclude,
			Only:    c.Options().Only,
		}
		for _, f := range c.Fields() {
			summary.Fields = append(summary.Fields, summarizeField(f))
		}
		output.Records = append(output.Records, summary)
	}
	return nil, output, nil
}

func summarizeField(f *record.Field) fieldSummary {
	s := fieldSummary{
		Name:     f.Name,
		Kind:     string(f.Kind),
		Format:   f.Format,
		Required: f.IsRequired(),
		Nullable: f.Optional,
		Many:     f.IsMultiple(),
	}
	if f.Kind == record.KindRecord {
		s.Record = recordName(f.Record)
	}
	return s
}

// recordName names the class behind a nested record description.
func recordName(v any) string {
	switch r := v.(type) {
	case *record.Class:
		return r.Name()
	case record.Instance:
		return recordName(r.Target())
	}
	return fmt.Sprintf("%v", v)
}

type schemaNameInput struct {
	Definition definitionInput `json:"definition"        jsonschema:"The record definition declaring the record"`
	Record     string          `json:"record"            jsonschema:"Name of the record"`
	Exclude    []string        `json:"exclude,omitempty" jsonschema:"Fields to leave out"`
	Only       []string        `json:"only,omitempty"    jsonschema:"Fields to keep; every other field is excluded"`
	Naming     string          `json:"naming,omitempty"  jsonschema:"Schema naming strategy: default, pascal or snake"`
}

type schemaNameOutput struct {
	Name     string   `json:"name"`
	Identity string   `json:"identity"`
	Excluded []string `json:"excluded,omitempty"`
	Fields   []string `json:"fields"`
}

func handleSchemaName(_ context.Context, _ *mcp.CallToolRequest, input schemaNameInput) (*mcp.CallToolResult, schemaNameOutput, error) {
	if input.Record == "" {
		return errResult(fmt.Errorf("record is required")), schemaNameOutput{}, nil
	}
	naming := input.Naming
	if naming == "" {
		naming = cfg.DefaultNaming
	}
	strategy, err := record.ParseNamingStrategy(naming)
	if err != nil {
		return errResult(err), schemaNameOutput{}, nil
	}

	def, err := input.Definition.resolve()
	if err != nil {
		return errResult(err), schemaNameOutput{}, nil
	}
	c, ok := def.Class(input.Record)
	if !ok {
		return errResult(fmt.Errorf("record %q not found", input.Record)), schemaNameOutput{}, nil
	}

	var opts []record.UseOption
	if input.Exclude != nil {
		opts = append(opts, record.Exclude(input.Exclude...))
	}
	if input.Only != nil {
		opts = append(opts, record.Only(input.Only...))
	}

	registry := record.NewRegistry()
	resolved, err := registry.Resolve(record.Use(c, opts...))
	if err != nil {
		return errResult(err), schemaNameOutput{}, nil
	}

	identity, err := registry.Identity(resolved)
	if err != nil {
		return errResult(err), schemaNameOutput{}, nil
	}
	output := schemaNameOutput{
		Name:     record.SchemaName(resolved, record.WithNamingStrategy(strategy)),
		Identity: identity,
		Excluded: resolved.Excluded(),
		Fields:   make([]string, 0, len(resolved.VisibleFields())),
	}
	for _, f := range resolved.VisibleFields() {
		output.Fields = append(output.Fields, f.Name)
	}
	return nil, output, nil
}
