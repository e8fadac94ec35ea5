package spec

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/erraggy/oasrecord/oaserrors"
)

// SchemaDefinition carries the inputs of a schema registration to plugins.
type SchemaDefinition struct {
	// Record is a record description (type, value or instance) to be
	// converted by a plugin. Nil when the schema is given literally.
	Record any

	// Properties is a literal properties map.
	Properties Fragment

	// Definition is a literal schema merged into the component.
	Definition Fragment
}

// SchemaOption configures a schema registration.
type SchemaOption func(*SchemaDefinition)

// WithRecord registers the schema from a record description.
func WithRecord(v any) SchemaOption {
	return func(d *SchemaDefinition) {
		d.Record = v
	}
}

// WithProperties registers the schema with a literal properties map.
func WithProperties(props Fragment) SchemaOption {
	return func(d *SchemaDefinition) {
		d.Properties = props
	}
}

// WithDefinition merges a literal schema into the component.
func WithDefinition(def Fragment) SchemaOption {
	return func(d *SchemaDefinition) {
		d.Definition = def
	}
}

// Components holds the reusable component sections of a document.
type Components struct {
	spec       *Spec
	schemas    map[string]Fragment
	parameters map[string]Fragment
	responses  map[string]Fragment
}

func newComponents(s *Spec) *Components {
	return &Components{
		spec:       s,
		schemas:    make(map[string]Fragment),
		parameters: make(map[string]Fragment),
		responses:  make(map[string]Fragment),
	}
}

// Schema registers a schema component under name.
//
// Registering a name a second time is a no-op when the resulting schema is
// identical to the stored one or when neither the options nor the plugins
// contribute anything; a different schema under the same name returns a
// *oaserrors.DuplicateSchemaError.
func (c *Components) Schema(name string, opts ...SchemaOption) error {
	def := &SchemaDefinition{}
	for _, opt := range opts {
		opt(def)
	}

	ret := Fragment{}
	if def.Definition != nil {
		maps.Copy(ret, def.Definition)
	}
	if def.Properties != nil {
		ret["properties"] = def.Properties
	}
	for _, p := range c.spec.plugins {
		frag, err := p.SchemaHelper(name, def)
		if err != nil {
			return fmt.Errorf("spec: schema %s: %w", name, err)
		}
		maps.Copy(ret, frag)
	}

	if existing, ok := c.schemas[name]; ok {
		if len(ret) == 0 || reflect.DeepEqual(existing, ret) {
			return nil
		}
		return &oaserrors.DuplicateSchemaError{
			Name:      name,
			Existing:  "registered schema",
			Requested: "a different schema",
		}
	}
	c.schemas[name] = ret
	return nil
}

// RemoveSchema drops the schema component named name, if any.
func (c *Components) RemoveSchema(name string) {
	delete(c.schemas, name)
}

// HasSchema reports whether a schema component named name exists.
func (c *Components) HasSchema(name string) bool {
	_, ok := c.schemas[name]
	return ok
}

// GetSchema returns the schema component named name, or nil.
func (c *Components) GetSchema(name string) Fragment {
	return c.schemas[name]
}

// SchemaCount returns the number of registered schema components.
func (c *Components) SchemaCount() int {
	return len(c.schemas)
}

// SchemaNames returns the registered schema component names in sorted order.
func (c *Components) SchemaNames() []string {
	return slices.Sorted(maps.Keys(c.schemas))
}

// Parameter registers a reusable parameter component located in "in".
func (c *Components) Parameter(name, in string, param Fragment) error {
	if _, ok := c.parameters[name]; ok {
		return &oaserrors.DuplicateSchemaError{Name: name}
	}
	ret := Fragment{}
	maps.Copy(ret, param)
	if _, ok := ret["name"]; !ok {
		ret["name"] = name
	}
	ret["in"] = in
	for _, p := range c.spec.plugins {
		frag, err := p.ParameterHelper(ret)
		if err != nil {
			return fmt.Errorf("spec: parameter %s: %w", name, err)
		}
		maps.Copy(ret, frag)
	}
	c.parameters[name] = ret
	return nil
}

// Response registers a reusable response component.
func (c *Components) Response(name string, resp Fragment) error {
	if _, ok := c.responses[name]; ok {
		return &oaserrors.DuplicateSchemaError{Name: name}
	}
	ret := Fragment{}
	maps.Copy(ret, resp)
	for _, p := range c.spec.plugins {
		frag, err := p.ResponseHelper(ret)
		if err != nil {
			return fmt.Errorf("spec: response %s: %w", name, err)
		}
		maps.Copy(ret, frag)
	}
	c.responses[name] = ret
	return nil
}

// toMap returns the component sections keyed by their version-specific names.
// Empty sections are omitted.
func (c *Components) toMap(v Version) Fragment {
	out := Fragment{}
	sections := []struct {
		v2, v3 string
		values map[string]Fragment
	}{
		{"definitions", "schemas", c.schemas},
		{"parameters", "parameters", c.parameters},
		{"responses", "responses", c.responses},
	}
	for _, s := range sections {
		if len(s.values) == 0 {
			continue
		}
		key := s.v3
		if v.IsOAS2() {
			key = s.v2
		}
		section := make(map[string]any, len(s.values))
		for name, frag := range s.values {
			section[name] = frag
		}
		out[key] = section
	}
	return out
}
