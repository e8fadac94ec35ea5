package definition

import (
	"fmt"
	"sort"

	"github.com/erraggy/oasrecord/record"
	"github.com/erraggy/oasrecord/spec"
)

// recordMarker is the mapping key standing for a record description.
const recordMarker = "$record"

// Build creates the OpenAPI document described by d. Schema, parameter and
// response components are registered first, in name order, followed by
// paths in path order.
func (d *Definition) Build(opts ...record.Option) (*spec.Spec, error) {
	plugin := record.NewPlugin(opts...)

	info := spec.Fragment{}
	for k, v := range d.Info {
		if k != "title" && k != "version" {
			info[k] = v
		}
	}
	title, _ := d.Info["title"].(string)
	apiVersion := fmt.Sprint(d.Info["version"])
	if d.Info["version"] == nil {
		apiVersion = "1.0.0"
	}

	doc, err := spec.New(title, apiVersion, d.OpenAPI, spec.WithPlugins(plugin), spec.WithInfo(info))
	if err != nil {
		return nil, d.wrap("openapi", err)
	}

	// record schemas first, so literal schemas can reference them
	var literals []string
	for _, name := range sortedKeys(d.Schemas) {
		if isLiteralSchema(d.Schemas[name]) {
			literals = append(literals, name)
			continue
		}
		if err := d.addSchema(doc, plugin, name, d.Schemas[name]); err != nil {
			return nil, err
		}
	}
	for _, name := range literals {
		if err := d.addSchema(doc, plugin, name, d.Schemas[name]); err != nil {
			return nil, err
		}
	}

	for _, name := range sortedKeys(d.Parameters) {
		loc := "parameters." + name
		param, err := d.fragment(loc, d.Parameters[name])
		if err != nil {
			return nil, err
		}
		in, _ := param["in"].(string)
		if in == "" {
			return nil, d.errorf(loc, "parameter location (in) is required")
		}
		if err := doc.Components().Parameter(name, in, param); err != nil {
			return nil, d.wrap(loc, err)
		}
	}

	for _, name := range sortedKeys(d.Responses) {
		loc := "responses." + name
		resp, err := d.fragment(loc, d.Responses[name])
		if err != nil {
			return nil, err
		}
		if err := doc.Components().Response(name, resp); err != nil {
			return nil, d.wrap(loc, err)
		}
	}

	for _, path := range sortedKeys(d.Paths) {
		loc := "paths." + path
		item, err := d.fragment(loc, d.Paths[path])
		if err != nil {
			return nil, err
		}
		ops := make(map[string]spec.Fragment, len(item))
		for method, raw := range item {
			op, ok := raw.(spec.Fragment)
			if !ok {
				return nil, d.errorf(loc+"."+method, "operation must be a mapping")
			}
			ops[method] = op
		}
		if err := doc.Path(path, ops); err != nil {
			return nil, d.wrap(loc, err)
		}
	}
	return doc, nil
}

// addSchema registers one schema component. A record name or a $record
// mapping registers a record; any other mapping is a literal schema whose
// nested $record markers are resolved first.
func (d *Definition) addSchema(doc *spec.Spec, plugin *record.Plugin, name string, raw any) error {
	loc := "schemas." + name

	if ref, ok := raw.(string); ok {
		c, ok := d.classes[ref]
		if !ok {
			return d.errorf(loc, fmt.Sprintf("unknown record %q", ref))
		}
		if err := doc.Components().Schema(name, spec.WithRecord(c)); err != nil {
			return d.wrap(loc, err)
		}
		return nil
	}

	converted, err := d.convert(loc, raw)
	if err != nil {
		return err
	}
	frag, ok := converted.(spec.Fragment)
	if !ok {
		if _, isRecord := converted.(record.Instance); isRecord {
			if err := doc.Components().Schema(name, spec.WithRecord(converted)); err != nil {
				return d.wrap(loc, err)
			}
			return nil
		}
		if c, isClass := converted.(*record.Class); isClass {
			if err := doc.Components().Schema(name, spec.WithRecord(c)); err != nil {
				return d.wrap(loc, err)
			}
			return nil
		}
		return d.errorf(loc, "schema must be a record name or a mapping")
	}

	resolved, err := plugin.Converter().ResolveSchema(frag)
	if err != nil {
		return d.wrap(loc, err)
	}
	def, _ := resolved.(spec.Fragment)
	if err := doc.Components().Schema(name, spec.WithDefinition(def)); err != nil {
		return d.wrap(loc, err)
	}
	return nil
}

// isLiteralSchema reports whether a schemas entry is a mapping without a
// $record marker.
func isLiteralSchema(raw any) bool {
	switch m := raw.(type) {
	case map[string]any:
		_, marked := m[recordMarker]
		return !marked
	case map[any]any:
		_, marked := m[recordMarker]
		return !marked
	}
	return false
}

// fragment converts raw into a mapping, resolving $record markers.
func (d *Definition) fragment(loc string, raw any) (spec.Fragment, error) {
	converted, err := d.convert(loc, raw)
	if err != nil {
		return nil, err
	}
	frag, ok := converted.(spec.Fragment)
	if !ok {
		return nil, d.errorf(loc, "expected a mapping")
	}
	return frag, nil
}

// convert copies a decoded YAML value, turning mappings into spec.Fragment
// and $record markers into record descriptions.
func (d *Definition) convert(loc string, v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		return d.convertMap(loc, x)
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = val
		}
		return d.convertMap(loc, m)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			converted, err := d.convert(fmt.Sprintf("%s[%d]", loc, i), item)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	}
	return v, nil
}

func (d *Definition) convertMap(loc string, m map[string]any) (any, error) {
	if _, ok := m[recordMarker]; ok {
		return d.marker(loc, m)
	}
	out := make(spec.Fragment, len(m))
	for k, val := range m {
		converted, err := d.convert(loc+"."+k, val)
		if err != nil {
			return nil, err
		}
		out[k] = converted
	}
	return out, nil
}

// marker builds the record description of a $record mapping.
func (d *Definition) marker(loc string, m map[string]any) (any, error) {
	name, _ := m[recordMarker].(string)
	c, ok := d.classes[name]
	if !ok {
		return nil, d.errorf(loc, fmt.Sprintf("unknown record %q", name))
	}

	var exclude, only []string
	many := false
	for key, val := range m {
		switch key {
		case recordMarker:
		case "exclude":
			names, err := d.names(loc+".exclude", val)
			if err != nil {
				return nil, err
			}
			exclude = names
		case "only":
			names, err := d.names(loc+".only", val)
			if err != nil {
				return nil, err
			}
			only = names
		case "many":
			b, ok := val.(bool)
			if !ok {
				return nil, d.errorf(loc+".many", "many must be a boolean")
			}
			many = b
		default:
			return nil, d.errorf(loc, fmt.Sprintf("unknown key %q next to %s", key, recordMarker))
		}
	}
	return useOf(c, exclude, only, many), nil
}

func (d *Definition) names(loc string, v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, d.errorf(loc, "expected a list of field names")
	}
	names := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, d.errorf(loc, fmt.Sprintf("field name %v is not a string", item))
		}
		names = append(names, s)
	}
	return names, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Render parses a definition document and builds its OpenAPI document in
// one step.
func Render(data []byte, parseOpts []Option, recordOpts ...record.Option) (*spec.Spec, error) {
	d, err := Parse(data, parseOpts...)
	if err != nil {
		return nil, err
	}
	return d.Build(recordOpts...)
}
