package record

import (
	"fmt"

	"github.com/erraggy/oasrecord/oaserrors"
	"github.com/erraggy/oasrecord/spec"
)

// Plugin connects record descriptions to a spec.Spec.
//
// It resolves descriptions found in schema, parameter and response
// components and in path operations, registering nested records as schema
// components on first use. Each Plugin owns its registry and ref table and
// must be attached to a single document.
type Plugin struct {
	cfg       *config
	registry  *Registry
	converter *Converter
	doc       *spec.Spec
}

var _ spec.Plugin = (*Plugin)(nil)

// NewPlugin creates a plugin with an empty registry.
func NewPlugin(opts ...Option) *Plugin {
	cfg := newConfig(opts)
	return &Plugin{
		cfg:      cfg,
		registry: NewRegistry(opts...),
	}
}

// Init attaches the plugin to a document.
func (p *Plugin) Init(s *spec.Spec) error {
	if p.doc != nil && p.doc != s {
		return &oaserrors.ConfigError{
			Option:  "plugins",
			Message: "record plugin is already attached to another document",
		}
	}
	p.doc = s
	p.converter = newConverter(s.Version(), p.registry, p.cfg)
	p.converter.Attach(
		func(name string, c *Class) error {
			return s.Components().Schema(name, spec.WithRecord(c))
		},
		s.Components().HasSchema,
		s.Components().RemoveSchema,
	)
	return nil
}

// Registry returns the plugin's registry.
func (p *Plugin) Registry() *Registry { return p.registry }

// Converter returns the plugin's converter, or nil before Init.
func (p *Plugin) Converter() *Converter { return p.converter }

// SchemaHelper resolves a record given to Components().Schema and binds its
// class to name in the ref table.
func (p *Plugin) SchemaHelper(name string, def *spec.SchemaDefinition) (spec.Fragment, error) {
	if def == nil || def.Record == nil {
		return nil, nil
	}
	if err := p.ready(); err != nil {
		return nil, err
	}
	return p.converter.RegisterSchema(name, def.Record)
}

// ParameterHelper resolves a record found in a parameter component.
func (p *Plugin) ParameterHelper(param spec.Fragment) (spec.Fragment, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.resolveSchemaIn(param); err != nil {
		return nil, err
	}
	return param, nil
}

// ResponseHelper resolves a record found in a response component.
func (p *Plugin) ResponseHelper(resp spec.Fragment) (spec.Fragment, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.resolveSchemaIn(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// OperationHelper rewrites the parameters, request bodies and responses of
// every operation in place. Records placed in non-body parameters are
// expanded into one parameter per field; under OAS 3.x records placed in
// body or form parameters move to the request body.
func (p *Plugin) OperationHelper(path string, operations map[string]spec.Fragment) error {
	if err := p.ready(); err != nil {
		return err
	}
	for method, op := range operations {
		if op == nil {
			continue
		}
		if err := p.resolveOperation(op); err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	}
	return nil
}

func (p *Plugin) ready() error {
	if p.converter == nil {
		return &oaserrors.ConfigError{Option: "plugins", Message: "record plugin is not attached to a document"}
	}
	return nil
}

func (p *Plugin) resolveOperation(op spec.Fragment) error {
	if raw, ok := op["parameters"]; ok {
		params, err := p.resolveParameters(op, toList(raw))
		if err != nil {
			return err
		}
		op["parameters"] = params
	}

	if !p.converter.version.IsOAS2() {
		if body, ok := asFragment(op["requestBody"]); ok {
			if err := p.resolveContent(body); err != nil {
				return err
			}
		}
	}

	if responses, ok := asFragment(op["responses"]); ok {
		for _, r := range responses {
			resp, ok := asFragment(r)
			if !ok {
				continue
			}
			if err := p.resolveSchemaIn(resp); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveParameters expands records placed directly in located parameters
// and resolves the schema of every other parameter.
func (p *Plugin) resolveParameters(op spec.Fragment, params []any) ([]any, error) {
	resolved := make([]any, 0, len(params))
	for _, raw := range params {
		param, ok := asFragment(raw)
		if !ok {
			resolved = append(resolved, raw)
			continue
		}

		schema := param["schema"]
		in, hasIn := param["in"].(string)
		if kind := classify(schema); hasIn && (kind == typeDescription || kind == instanceDescription) {
			opts := ParameterOptions{In: in}
			opts.Name, _ = param["name"].(string)
			opts.Required, _ = param["required"].(bool)
			opts.Description, _ = param["description"].(string)

			loc := openAPILocation(in)
			if !p.converter.version.IsOAS2() && (loc == "body" || loc == "formData") {
				if err := p.foldRequestBody(op, schema, in, opts); err != nil {
					return nil, err
				}
				continue
			}

			expanded, err := p.converter.SchemaToParameters(schema, opts)
			if err != nil {
				return nil, err
			}
			for _, e := range expanded {
				resolved = append(resolved, e)
			}
			continue
		}

		if err := p.resolveSchemaIn(param); err != nil {
			return nil, err
		}
		resolved = append(resolved, param)
	}
	return resolved, nil
}

// foldRequestBody moves a record given as a body or form parameter into the
// request body of a 3.x operation.
func (p *Plugin) foldRequestBody(op spec.Fragment, schema any, in string, opts ParameterOptions) error {
	mediaType := "application/json"
	switch in {
	case "files":
		mediaType = "multipart/form-data"
	case "form", "formData":
		mediaType = "application/x-www-form-urlencoded"
	}

	resolved, err := p.converter.ResolveSchema(schema)
	if err != nil {
		return err
	}

	body, ok := asFragment(op["requestBody"])
	if !ok {
		body = spec.Fragment{}
		op["requestBody"] = body
	}
	content, ok := asFragment(body["content"])
	if !ok {
		content = spec.Fragment{}
		body["content"] = content
	}
	content[mediaType] = spec.Fragment{"schema": resolved}
	if opts.Required {
		body["required"] = true
	}
	if _, ok := body["description"]; !ok && opts.Description != "" {
		body["description"] = opts.Description
	}
	return nil
}

// resolveSchemaIn resolves the "schema" entry of a parameter or response
// and, for 3.x documents, the schema of every media type in "content".
func (p *Plugin) resolveSchemaIn(data spec.Fragment) error {
	if schema, ok := data["schema"]; ok {
		resolved, err := p.converter.ResolveSchema(schema)
		if err != nil {
			return err
		}
		data["schema"] = resolved
	}
	if p.converter.version.IsOAS2() {
		return nil
	}
	return p.resolveContent(data)
}

func (p *Plugin) resolveContent(data spec.Fragment) error {
	content, ok := asFragment(data["content"])
	if !ok {
		return nil
	}
	for _, media := range content {
		m, ok := asFragment(media)
		if !ok {
			continue
		}
		schema, ok := m["schema"]
		if !ok {
			continue
		}
		resolved, err := p.converter.ResolveSchema(schema)
		if err != nil {
			return err
		}
		m["schema"] = resolved
	}
	return nil
}

// toList normalizes the parameter list shapes accepted in operations.
func toList(v any) []any {
	switch l := v.(type) {
	case []any:
		return l
	case []spec.Fragment:
		out := make([]any, len(l))
		for i, f := range l {
			out[i] = f
		}
		return out
	case []map[string]any:
		out := make([]any, len(l))
		for i, f := range l {
			out[i] = f
		}
		return out
	}
	return nil
}
