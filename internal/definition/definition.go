// Package definition loads YAML record definition documents.
//
// A definition document declares record classes and the OpenAPI document
// that uses them:
//
//	openapi: 3.0.3
//	info:
//	  title: Pet Store
//	  version: 1.0.0
//	records:
//	  Pet:
//	    fields:
//	      - {name: id, type: integer, format: int64}
//	      - {name: name, type: string}
//	      - {name: password, type: string, writeOnly: true}
//	schemas:
//	  Pet: Pet
//	paths:
//	  /pets:
//	    get:
//	      responses:
//	        "200":
//	          description: All pets
//	          content:
//	            application/json:
//	              schema: {$record: Pet, many: true, exclude: [password]}
//
// Anywhere below schemas, parameters, responses and paths a mapping with a
// "$record" key stands for a record description built with record.Use.
package definition

import (
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/erraggy/oasrecord/oaserrors"
	"github.com/erraggy/oasrecord/record"
	"go.yaml.in/yaml/v4"
)

const (
	// DefaultMaxBytes is the default size limit of a definition document.
	DefaultMaxBytes int64 = 4 << 20

	// DefaultMaxDepth is the default nesting limit of a definition document.
	DefaultMaxDepth = 64

	// DefaultOpenAPIVersion is used when a document does not name one.
	DefaultOpenAPIVersion = "3.0.3"
)

// Definition is a parsed definition document.
type Definition struct {
	OpenAPI    string               `yaml:"openapi"`
	Info       map[string]any       `yaml:"info"`
	Records    map[string]RecordDef `yaml:"records"`
	Schemas    map[string]any       `yaml:"schemas"`
	Parameters map[string]any       `yaml:"parameters"`
	Responses  map[string]any       `yaml:"responses"`
	Paths      map[string]any       `yaml:"paths"`

	source  string
	classes map[string]*record.Class
}

// RecordDef declares a record class.
type RecordDef struct {
	Fields   []FieldDef `yaml:"fields"`
	Exclude  []string   `yaml:"exclude"`
	Only     []string   `yaml:"only"`
	TypeArgs []string   `yaml:"typeArgs"`
}

// FieldDef declares a record field.
type FieldDef struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Format string `yaml:"format"`

	// Record names a declared record; the field holds that record.
	Record  string   `yaml:"record"`
	Many    bool     `yaml:"many"`
	Exclude []string `yaml:"exclude"`
	Only    []string `yaml:"only"`

	Items  *FieldDef `yaml:"items"`
	Values *FieldDef `yaml:"values"`

	Required    *bool          `yaml:"required"`
	Nullable    bool           `yaml:"nullable"`
	Default     any            `yaml:"default"`
	Description string         `yaml:"description"`
	Enum        []any          `yaml:"enum"`
	ReadOnly    bool           `yaml:"readOnly"`
	WriteOnly   bool           `yaml:"writeOnly"`
	Deprecated  bool           `yaml:"deprecated"`
	In          string         `yaml:"in"`
	Constraints map[string]any `yaml:"constraints"`
}

// Option configures Parse and ParseFile.
type Option func(*config)

type config struct {
	source   string
	maxBytes int64
	maxDepth int
}

// WithSource names the document in error messages.
func WithSource(name string) Option {
	return func(c *config) {
		c.source = name
	}
}

// WithMaxBytes limits the size of the document. Non-positive values keep
// the default.
func WithMaxBytes(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithMaxDepth limits the nesting depth of the document. Non-positive values
// keep the default.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// ParseFile reads and parses the definition document at path.
func ParseFile(path string, opts ...Option) (*Definition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading user-provided definition files is the purpose
	if err != nil {
		return nil, &oaserrors.DefinitionError{Path: path, Message: "failed to read file", Cause: err}
	}
	return Parse(data, append([]Option{WithSource(path)}, opts...)...)
}

// Parse parses a definition document and declares its record classes.
func Parse(data []byte, opts ...Option) (*Definition, error) {
	cfg := &config{maxBytes: DefaultMaxBytes, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(cfg)
	}

	if int64(len(data)) > cfg.maxBytes {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "definition_bytes",
			Limit:        cfg.maxBytes,
			Actual:       int64(len(data)),
		}
	}

	d := &Definition{source: cfg.source}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, &oaserrors.DefinitionError{Path: cfg.source, Message: "invalid YAML", Cause: err}
	}
	if d.OpenAPI == "" {
		d.OpenAPI = DefaultOpenAPIVersion
	}
	if title, _ := d.Info["title"].(string); title == "" {
		return nil, d.errorf("info.title", "title is required")
	}

	for _, section := range []struct {
		name  string
		value map[string]any
	}{
		{"schemas", d.Schemas},
		{"parameters", d.Parameters},
		{"responses", d.Responses},
		{"paths", d.Paths},
	} {
		if depth := nestingDepth(section.value); depth > cfg.maxDepth {
			return nil, &oaserrors.ResourceLimitError{
				ResourceType: "definition_depth",
				Limit:        int64(cfg.maxDepth),
				Actual:       int64(depth),
			}
		}
	}

	if err := d.declareRecords(); err != nil {
		return nil, err
	}
	return d, nil
}

// Source returns the name the document was parsed from.
func (d *Definition) Source() string { return d.source }

// Class returns the declared record class named name.
func (d *Definition) Class(name string) (*record.Class, bool) {
	c, ok := d.classes[name]
	return c, ok
}

// RecordNames returns the declared record names in sorted order.
func (d *Definition) RecordNames() []string {
	names := make([]string, 0, len(d.classes))
	for name := range d.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// declareRecords creates every class first and fills in fields afterwards,
// so that records may reference each other in any order.
func (d *Definition) declareRecords() error {
	d.classes = make(map[string]*record.Class, len(d.Records))
	for name, def := range d.Records {
		c := record.Define(name)
		if def.Only != nil || def.Exclude != nil {
			c.SetOptions(record.Options{Only: def.Only, Exclude: def.Exclude})
		}
		if len(def.TypeArgs) > 0 {
			c.SetTypeArgs(def.TypeArgs...)
		}
		d.classes[name] = c
	}

	for _, name := range d.RecordNames() {
		def := d.Records[name]
		seen := make(map[string]bool, len(def.Fields))
		fields := make([]*record.Field, 0, len(def.Fields))
		for i, fd := range def.Fields {
			loc := fmt.Sprintf("records.%s.fields[%d]", name, i)
			if fd.Name == "" {
				return d.errorf(loc, "field name is required")
			}
			if seen[fd.Name] {
				return d.errorf(loc, fmt.Sprintf("duplicate field %q", fd.Name))
			}
			seen[fd.Name] = true

			f, err := d.buildField(fd, loc)
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}
		if err := d.classes[name].AddFields(fields...); err != nil {
			return d.wrap(fmt.Sprintf("records.%s", name), err)
		}
	}
	return nil
}

// fieldKinds are the accepted values of a field's type key.
var fieldKinds = []string{"string", "integer", "number", "boolean", "array", "object", "any", "date-time"}

// knownConstraints are the accepted keys of a field's constraints mapping.
var knownConstraints = []string{
	"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf",
	"minLength", "maxLength", "pattern",
	"minItems", "maxItems", "uniqueItems",
	"minProperties", "maxProperties",
	"title", "example",
}

func (d *Definition) buildField(fd FieldDef, loc string) (*record.Field, error) {
	opts := fieldOptions(fd)
	for key := range fd.Constraints {
		if !slices.Contains(knownConstraints, key) {
			return nil, d.errorf(loc+".constraints", fmt.Sprintf("unknown constraint %q", key))
		}
	}

	if fd.Record != "" {
		target, ok := d.classes[fd.Record]
		if !ok {
			return nil, d.errorf(loc, fmt.Sprintf("unknown record %q", fd.Record))
		}
		return record.Nested(fd.Name, useOf(target, fd.Exclude, fd.Only, fd.Many), opts...), nil
	}

	switch fd.Type {
	case "string":
		return record.String(fd.Name, opts...), nil
	case "integer":
		return record.Integer(fd.Name, opts...), nil
	case "number":
		return record.Number(fd.Name, opts...), nil
	case "boolean":
		return record.Boolean(fd.Name, opts...), nil
	case "date-time":
		return record.DateTime(fd.Name, opts...), nil
	case "any", "":
		return record.Raw(fd.Name, opts...), nil
	case "array":
		if fd.Items == nil {
			return nil, d.errorf(loc, "array fields need items")
		}
		item, err := d.buildField(*fd.Items, loc+".items")
		if err != nil {
			return nil, err
		}
		return record.List(fd.Name, item, opts...), nil
	case "object":
		var values *record.Field
		if fd.Values != nil {
			v, err := d.buildField(*fd.Values, loc+".values")
			if err != nil {
				return nil, err
			}
			values = v
		}
		return record.Dict(fd.Name, values, opts...), nil
	default:
		return nil, d.errorf(loc, fmt.Sprintf("unknown type %q (expected one of %v)", fd.Type, fieldKinds))
	}
}

func fieldOptions(fd FieldDef) []record.FieldOption {
	var opts []record.FieldOption
	if fd.Format != "" {
		opts = append(opts, record.Format(fd.Format))
	}
	if fd.Required != nil {
		if *fd.Required {
			opts = append(opts, record.Required())
		} else {
			opts = append(opts, record.NotRequired())
		}
	}
	if fd.Nullable {
		opts = append(opts, record.Nullable())
	}
	if fd.Default != nil {
		opts = append(opts, record.Default(fd.Default))
	}
	if fd.Description != "" {
		opts = append(opts, record.Describe(fd.Description))
	}
	if len(fd.Enum) > 0 {
		opts = append(opts, record.Enum(fd.Enum...))
	}
	if fd.ReadOnly {
		opts = append(opts, record.ReadOnly())
	}
	if fd.WriteOnly {
		opts = append(opts, record.WriteOnly())
	}
	if fd.Deprecated {
		opts = append(opts, record.Deprecated())
	}
	if fd.In != "" {
		opts = append(opts, record.Location(fd.In))
	}
	if len(fd.Constraints) > 0 {
		opts = append(opts, record.Constraints(fd.Constraints))
	}
	return opts
}

// useOf builds the description of target with per-use overrides. Without
// overrides the class itself is returned.
func useOf(target *record.Class, exclude, only []string, many bool) any {
	var uses []record.UseOption
	if len(exclude) > 0 {
		uses = append(uses, record.Exclude(exclude...))
	}
	if only != nil {
		uses = append(uses, record.Only(only...))
	}
	if many {
		uses = append(uses, record.Many())
	}
	if len(uses) == 0 {
		return target
	}
	return record.Use(target, uses...)
}

func (d *Definition) errorf(location, message string) error {
	return &oaserrors.DefinitionError{Path: d.source, Location: location, Message: message}
}

func (d *Definition) wrap(location string, err error) error {
	return &oaserrors.DefinitionError{Path: d.source, Location: location, Cause: err}
}

// nestingDepth returns the depth of the deepest mapping or sequence in v.
func nestingDepth(v any) int {
	switch x := v.(type) {
	case map[string]any:
		deepest := 0
		for _, child := range x {
			deepest = max(deepest, nestingDepth(child))
		}
		return deepest + 1
	case map[any]any:
		deepest := 0
		for _, child := range x {
			deepest = max(deepest, nestingDepth(child))
		}
		return deepest + 1
	case []any:
		deepest := 0
		for _, child := range x {
			deepest = max(deepest, nestingDepth(child))
		}
		return deepest + 1
	}
	return 0
}
