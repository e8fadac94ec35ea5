package record

import (
	"maps"
	"reflect"

	"github.com/erraggy/oasrecord/oaserrors"
	"github.com/erraggy/oasrecord/spec"
)

// RegisterFunc adds an auto-referenced class to the document under name.
type RegisterFunc func(name string, c *Class) error

// Converter turns record descriptions and raw schema fragments into
// document schema fragments, emitting $ref pointers for classes present in
// its ref table.
//
// Nested records met during expansion are registered on the fly: the ref
// table entry is written before the nested class is expanded, so self and
// mutual references terminate with a $ref. Converter instances are not safe
// for concurrent use.
type Converter struct {
	version  spec.Version
	registry *Registry
	resolver NameResolver
	logger   Logger
	policy   DuplicatePolicy

	refs       map[*Class]string
	names      map[string]*Class
	inProgress map[*Class]bool

	register    RegisterFunc
	hasSchema   func(name string) bool
	remove      func(name string)
	definitions map[string]spec.Fragment

	// bound logs ref table entries in binding order, so that a failed
	// registration can be undone.
	bound []binding
}

// binding is one ref table entry written by the converter.
type binding struct {
	name      string
	cls       *Class
	ownsRef   bool
	published bool
}

// NewConverter creates a converter for documents of the given version.
// A nil registry is replaced by a fresh one.
func NewConverter(version spec.Version, registry *Registry, opts ...Option) *Converter {
	cfg := newConfig(opts)
	if registry == nil {
		registry = NewRegistry(opts...)
	}
	return newConverter(version, registry, cfg)
}

func newConverter(version spec.Version, registry *Registry, cfg *config) *Converter {
	return &Converter{
		version:     version,
		registry:    registry,
		resolver:    cfg.nameResolver(),
		logger:      cfg.logger,
		policy:      cfg.policy,
		refs:        make(map[*Class]string),
		names:       make(map[string]*Class),
		inProgress:  make(map[*Class]bool),
		definitions: make(map[string]spec.Fragment),
	}
}

// Attach connects the converter to a host document. register is called for
// every auto-referenced class; hasSchema reports component names already
// taken in the document; remove drops a component registered through
// register when the registration that triggered it fails. remove may be nil.
// Without a host, auto-referenced classes are kept in Definitions.
func (c *Converter) Attach(register RegisterFunc, hasSchema func(name string) bool, remove func(name string)) {
	c.register = register
	c.hasSchema = hasSchema
	c.remove = remove
}

// Registry returns the registry used to resolve descriptions.
func (c *Converter) Registry() *Registry { return c.registry }

// Version returns the target document version.
func (c *Converter) Version() spec.Version { return c.version }

// Definitions returns the classes auto-referenced while no host was attached,
// keyed by schema name.
func (c *Converter) Definitions() map[string]spec.Fragment {
	return maps.Clone(c.definitions)
}

// RefName returns the component name a description resolves to, if any.
func (c *Converter) RefName(v any) (string, bool) {
	cls, err := c.registry.Resolve(v)
	if err != nil {
		return "", false
	}
	name, ok := c.refs[cls]
	return name, ok
}

// ResolveClass returns the representative class of a description.
func (c *Converter) ResolveClass(v any) (*Class, error) {
	return c.registry.Resolve(v)
}

// RegisterSchema binds name to the class of v in the ref table and returns
// the full expansion of that class.
//
// Registering the same class again is a no-op beyond returning the
// expansion. A name already bound to a different class, or taken by a
// component the converter does not know, is rejected or skipped according
// to the duplicate policy. A skipped name taken by an unknown component
// yields a nil fragment and leaves the ref table untouched.
func (c *Converter) RegisterSchema(name string, v any) (spec.Fragment, error) {
	cls, _, err := c.resolve(v)
	if err != nil {
		return nil, err
	}

	owner, owned := c.names[name]
	if !owned && c.hasSchema != nil && c.hasSchema(name) {
		if c.policy != DuplicatePolicySkip {
			return nil, &oaserrors.DuplicateSchemaError{
				Name:      name,
				Existing:  "existing component",
				Requested: cls.String(),
			}
		}
		c.logger.Debug("skipping schema registration over existing component",
			"schema", name, "requested", cls.String())
		return nil, nil
	}
	if owned && owner != cls {
		if c.policy != DuplicatePolicySkip {
			return nil, &oaserrors.DuplicateSchemaError{
				Name:      name,
				Existing:  owner.String(),
				Requested: cls.String(),
			}
		}
		c.logger.Debug("skipping duplicate schema registration",
			"schema", name, "existing", owner.String(), "requested", cls.String())
		cls = owner
	}

	mark := len(c.bound)
	c.bind(name, cls)
	frag, err := c.expandClass(cls)
	if err != nil {
		c.rollback(mark)
		return nil, err
	}
	return frag, nil
}

// ResolveSchema converts v into a document fragment.
//
// Raw fragments (spec.Fragment or map[string]any) are walked structurally:
// array items and object properties are resolved in place, everything else
// passes through. Record descriptions become a $ref when their class is in
// the ref table and an inline expansion otherwise; a Many instance is
// wrapped in an array schema. Other values are returned unchanged.
func (c *Converter) ResolveSchema(v any) (any, error) {
	switch classify(v) {
	case rawFragment:
		frag, ok := asFragment(v)
		if !ok {
			return v, nil
		}
		return c.resolveFragment(frag)

	case typeDescription, instanceDescription:
		cls, many, err := c.resolve(v)
		if err != nil {
			return nil, err
		}
		if name, ok := c.refs[cls]; ok {
			return wrapMany(c.ref(name), many), nil
		}
		frag, err := c.expandGuarded(cls)
		if err != nil {
			return nil, err
		}
		return wrapMany(frag, many), nil

	default:
		return v, nil
	}
}

// SchemaFor returns the full object schema of a description, even when its
// class is in the ref table.
func (c *Converter) SchemaFor(v any) (spec.Fragment, error) {
	cls, _, err := c.resolve(v)
	if err != nil {
		return nil, err
	}
	return c.expandGuarded(cls)
}

func (c *Converter) resolve(v any) (*Class, bool, error) {
	cls, err := c.registry.Resolve(v)
	if err != nil {
		return nil, false, err
	}
	many := false
	if inst, ok := v.(Instance); ok {
		many = inst.many
	}
	return cls, many, nil
}

func (c *Converter) resolveFragment(frag spec.Fragment) (spec.Fragment, error) {
	switch frag["type"] {
	case "array":
		if items, ok := frag["items"]; ok {
			resolved, err := c.ResolveSchema(items)
			if err != nil {
				return nil, err
			}
			frag["items"] = resolved
		}
	case "object":
		if props, ok := asFragment(frag["properties"]); ok {
			for name, prop := range props {
				resolved, err := c.ResolveSchema(prop)
				if err != nil {
					return nil, err
				}
				props[name] = resolved
			}
		}
		if extra, ok := frag["additionalProperties"]; ok && classify(extra) != notDescription {
			resolved, err := c.ResolveSchema(extra)
			if err != nil {
				return nil, err
			}
			frag["additionalProperties"] = resolved
		}
	}
	return frag, nil
}

// resolveNested resolves a record held by a field. Unregistered named
// classes are auto-referenced; nameless ones are inlined.
func (c *Converter) resolveNested(target any, many bool) (spec.Fragment, error) {
	cls, instMany, err := c.resolve(target)
	if err != nil {
		return nil, err
	}
	many = many || instMany

	if name, ok := c.refs[cls]; ok {
		return wrapMany(c.ref(name), many), nil
	}

	name, err := c.bindName(c.resolver(cls), cls)
	if err != nil {
		return nil, err
	}
	if name == "" {
		frag, err := c.expandGuarded(cls)
		if err != nil {
			return nil, err
		}
		return wrapMany(frag, many), nil
	}

	mark := len(c.bound)
	c.bind(name, cls)
	c.logger.Debug("auto-referencing record", "schema", name, "record", cls.String())
	if err := c.publish(name, cls); err != nil {
		c.rollback(mark)
		return nil, err
	}
	if len(c.bound) > mark {
		c.bound[mark].published = true
	}
	return wrapMany(c.ref(name), many), nil
}

// bind writes name and cls to the ref table. Entries already present are
// left alone and not logged.
func (c *Converter) bind(name string, cls *Class) {
	if _, ok := c.names[name]; ok {
		return
	}
	b := binding{name: name, cls: cls}
	if _, ok := c.refs[cls]; !ok {
		c.refs[cls] = name
		b.ownsRef = true
	}
	c.names[name] = cls
	c.bound = append(c.bound, b)
}

// rollback undoes every binding made since mark, including nested records
// auto-referenced on the way, and drops the components published for them.
func (c *Converter) rollback(mark int) {
	for i := len(c.bound) - 1; i >= mark; i-- {
		b := c.bound[i]
		if b.ownsRef {
			delete(c.refs, b.cls)
		}
		delete(c.names, b.name)
		delete(c.definitions, b.name)
		if b.published && c.remove != nil {
			c.remove(b.name)
		}
		c.logger.Debug("rolled back schema binding", "schema", b.name, "record", b.cls.String())
	}
	c.bound = c.bound[:mark]
}

// bindName returns a free component name for cls. A name taken by another
// class or by a literal component is qualified with the package path of a
// reflected class. When no free name exists the duplicate policy decides
// between an error and inlining.
func (c *Converter) bindName(name string, cls *Class) (string, error) {
	if name == "" || c.nameFree(name, cls) {
		return name, nil
	}
	if t := cls.Type(); t != nil && t.PkgPath() != "" {
		qualified := sanitizePath(t.PkgPath()) + "_" + name
		if c.nameFree(qualified, cls) {
			c.logger.Debug("qualified conflicting schema name", "schema", name, "qualified", qualified)
			return qualified, nil
		}
	}
	if c.policy == DuplicatePolicySkip {
		c.logger.Debug("inlining record with conflicting schema name", "schema", name, "record", cls.String())
		return "", nil
	}
	existing := "existing component"
	if owner, ok := c.names[name]; ok {
		existing = owner.String()
	}
	return "", &oaserrors.DuplicateSchemaError{Name: name, Existing: existing, Requested: cls.String()}
}

func (c *Converter) nameFree(name string, cls *Class) bool {
	if owner, ok := c.names[name]; ok {
		return owner == cls
	}
	return c.hasSchema == nil || !c.hasSchema(name)
}

func (c *Converter) publish(name string, cls *Class) error {
	if c.register != nil {
		return c.register(name, cls)
	}
	frag, err := c.expandClass(cls)
	if err != nil {
		return err
	}
	c.definitions[name] = frag
	return nil
}

// expandGuarded expands cls, failing when cls is already being expanded.
// Only classes without a schema name can reach this twice on one path.
func (c *Converter) expandGuarded(cls *Class) (spec.Fragment, error) {
	if c.inProgress[cls] {
		return nil, &oaserrors.CircularNameError{Schema: cls.String()}
	}
	c.inProgress[cls] = true
	defer delete(c.inProgress, cls)
	return c.expandClass(cls)
}

// expandClass builds the object schema of the visible fields of cls.
func (c *Converter) expandClass(cls *Class) (spec.Fragment, error) {
	props := spec.Fragment{}
	var required []string
	for _, f := range cls.VisibleFields() {
		prop, err := c.fieldSchema(f)
		if err != nil {
			return nil, err
		}
		props[f.Name] = normalizeNullable(prop)
		if f.IsRequired() {
			required = append(required, f.Name)
		}
	}

	frag := spec.Fragment{"type": "object", "properties": props}
	if len(required) > 0 {
		frag["required"] = required
	}
	return frag, nil
}

// fieldSchema maps a field to its schema. Optional fields are encoded as
// anyOf the real schema and the null type.
func (c *Converter) fieldSchema(f *Field) (spec.Fragment, error) {
	var frag spec.Fragment
	switch f.Kind {
	case KindString, KindInteger, KindNumber, KindBoolean:
		frag = spec.Fragment{"type": string(f.Kind)}
		if f.Format != "" {
			frag["format"] = f.Format
		}

	case KindArray:
		frag = spec.Fragment{"type": "array"}
		if f.Items != nil {
			items, err := c.fieldSchema(f.Items)
			if err != nil {
				return nil, err
			}
			frag["items"] = normalizeNullable(items)
		}

	case KindObject:
		frag = spec.Fragment{"type": "object"}
		if f.Items != nil {
			values, err := c.fieldSchema(f.Items)
			if err != nil {
				return nil, err
			}
			frag["additionalProperties"] = normalizeNullable(values)
		}

	case KindRecord:
		nested, err := c.resolveNested(f.Record, f.Many)
		if err != nil {
			return nil, err
		}
		frag = nested

	case KindAny:
		frag = spec.Fragment{}

	default:
		return nil, &oaserrors.UnsupportedTypeError{Type: string(f.Kind), Field: f.Name}
	}

	if f.Optional {
		frag = spec.Fragment{"anyOf": []any{frag, spec.Fragment{"type": "null"}}}
	}
	applyFieldAttributes(frag, f)
	return frag, nil
}

func applyFieldAttributes(frag spec.Fragment, f *Field) {
	if f.Description != "" {
		frag["description"] = f.Description
	}
	if len(f.Enum) > 0 {
		frag["enum"] = append([]any(nil), f.Enum...)
	}
	if f.HasDefault {
		frag["default"] = f.Default
	}
	if f.ReadOnly {
		frag["readOnly"] = true
	}
	if f.WriteOnly {
		frag["writeOnly"] = true
	}
	if f.Deprecated {
		frag["deprecated"] = true
	}
	maps.Copy(frag, f.Constraints)
}

// normalizeNullable replaces an anyOf of one schema and the null type with
// that schema, keeping sibling keywords such as description and default.
func normalizeNullable(frag spec.Fragment) spec.Fragment {
	variants, ok := frag["anyOf"].([]any)
	if !ok || len(variants) != 2 {
		return frag
	}

	var real spec.Fragment
	hasNull := false
	for _, v := range variants {
		m, ok := asFragment(v)
		if !ok {
			return frag
		}
		if len(m) == 1 && m["type"] == "null" {
			hasNull = true
			continue
		}
		real = m
	}
	if !hasNull || real == nil {
		return frag
	}

	out := maps.Clone(real)
	for k, v := range frag {
		if k != "anyOf" {
			out[k] = v
		}
	}
	return out
}

func (c *Converter) ref(name string) spec.Fragment {
	return spec.Fragment{"$ref": c.version.SchemaRefPrefix() + name}
}

func wrapMany(frag spec.Fragment, many bool) spec.Fragment {
	if !many {
		return frag
	}
	return spec.Fragment{"type": "array", "items": frag}
}

// asFragment returns v as a Fragment when it is a string-keyed map.
// The returned map shares storage with v.
func asFragment(v any) (spec.Fragment, bool) {
	switch m := v.(type) {
	case spec.Fragment:
		return m, m != nil
	case map[string]any:
		return spec.Fragment(m), m != nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && !rv.IsNil() && rv.Type().Key().Kind() == reflect.String &&
		rv.Type().Elem().Kind() == reflect.Interface && rv.Type().ConvertibleTo(fragmentType) {
		return rv.Convert(fragmentType).Interface().(spec.Fragment), true
	}
	return nil, false
}

var fragmentType = reflect.TypeOf(spec.Fragment{})
