package record

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/erraggy/oasrecord/oaserrors"
)

// Options are the class-level field restrictions of a record.
type Options struct {
	// Only, when non-nil, limits the record to the listed fields.
	Only []string
	// Exclude removes the listed fields from the record.
	Exclude []string
}

// Restricted is implemented by Go record types that declare class-level
// field restrictions.
//
//	type Account struct {
//		ID       int64  `json:"id"`
//		Password string `json:"password"`
//	}
//
//	func (Account) RecordOptions() record.Options {
//		return record.Options{Exclude: []string{"password"}}
//	}
type Restricted interface {
	RecordOptions() Options
}

// Class is a record class: a named, ordered set of fields.
//
// A Class is either a root class, created by Define or by reflecting a Go
// struct type, or a variant synthesized by a Registry for a field subset of
// a root class. Variants share the root's fields and type and differ only in
// the fields they exclude.
type Class struct {
	name     string
	typ      reflect.Type
	typeArgs []string
	fields   []*Field
	opts     Options

	// variant state
	base    *Class
	exclude []string
	tag     string
}

// Define creates a declared record class.
// A later field with the same name as an earlier one replaces it.
func Define(name string, fields ...*Field) *Class {
	c := &Class{name: name}
	c.addFields(fields)
	return c
}

// AddFields appends fields to a declared root class. It allows classes that
// reference each other to be defined first and completed afterwards.
func (c *Class) AddFields(fields ...*Field) error {
	if c.base != nil || c.typ != nil {
		return &oaserrors.ConfigError{
			Option:  "fields",
			Value:   c.String(),
			Message: "fields can only be added to declared root classes",
		}
	}
	c.addFields(fields)
	return nil
}

func (c *Class) addFields(fields []*Field) {
	for _, f := range fields {
		if f == nil {
			continue
		}
		if i := c.fieldIndex(f.Name); i >= 0 {
			c.fields[i] = f
			continue
		}
		c.fields = append(c.fields, f)
	}
}

// SetOptions sets the class-level restrictions of a declared root class.
func (c *Class) SetOptions(opts Options) *Class {
	c.opts = Options{Only: cloneNames(opts.Only), Exclude: cloneNames(opts.Exclude)}
	return c
}

// SetTypeArgs records generic type argument names for a declared class,
// so that a container class can be named after what it contains.
func (c *Class) SetTypeArgs(args ...string) *Class {
	c.typeArgs = slices.Clone(args)
	return c
}

// Name returns the base name of the class. Variants report the name of
// their root class.
func (c *Class) Name() string {
	return c.Base().name
}

// Type returns the Go type of a reflected class, or nil for declared classes.
func (c *Class) Type() reflect.Type {
	return c.Base().typ
}

// TypeArgs returns the generic type argument names of the class.
func (c *Class) TypeArgs() []string {
	return slices.Clone(c.Base().typeArgs)
}

// Options returns the declared class-level restrictions.
func (c *Class) Options() Options {
	o := c.Base().opts
	return Options{Only: cloneNames(o.Only), Exclude: cloneNames(o.Exclude)}
}

// Base returns the root class of a variant, or c itself.
func (c *Class) Base() *Class {
	if c.base != nil {
		return c.base
	}
	return c
}

// IsVariant reports whether c was synthesized for a field subset.
func (c *Class) IsVariant() bool {
	return c.base != nil
}

// Tag returns the synthetic identifier of a variant, or "" for root classes.
func (c *Class) Tag() string {
	return c.tag
}

// Fields returns every field of the root class in declaration order.
func (c *Class) Fields() []*Field {
	return slices.Clone(c.Base().fields)
}

// Field returns the named field of the root class.
func (c *Class) Field(name string) (*Field, bool) {
	root := c.Base()
	if i := root.fieldIndex(name); i >= 0 {
		return root.fields[i], true
	}
	return nil, false
}

// FieldNames returns the names of every field of the root class.
func (c *Class) FieldNames() []string {
	root := c.Base()
	names := make([]string, len(root.fields))
	for i, f := range root.fields {
		names[i] = f.Name
	}
	return names
}

// Excluded returns the sorted set of fields the class leaves out.
// For root classes this is derived from the declared options.
func (c *Class) Excluded() []string {
	if c.base != nil {
		return slices.Clone(c.exclude)
	}
	return effectiveExclude(c, c.opts.Only, c.opts.Only != nil, c.opts.Exclude)
}

// VisibleFields returns the fields that remain after exclusion, in
// declaration order.
func (c *Class) VisibleFields() []*Field {
	excluded := c.Excluded()
	var out []*Field
	for _, f := range c.Base().fields {
		if _, found := slices.BinarySearch(excluded, f.Name); found {
			continue
		}
		out = append(out, f)
	}
	return out
}

// String returns a printable identity such as "Pet" or "Pet(exclude=password)".
func (c *Class) String() string {
	name := c.Name()
	if name == "" {
		name = anonymousClassName
	}
	if c.base == nil {
		return name
	}
	return fmt.Sprintf("%s(exclude=%s)", name, strings.Join(c.exclude, ","))
}

func (c *Class) fieldIndex(name string) int {
	for i, f := range c.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// anonymousClassName is printed for classes reflected from anonymous structs.
const anonymousClassName = "<anonymous>"

// effectiveExclude computes the sorted set of fields of c excluded by an only
// list (when onlySet) and an exclude list. Names unknown to c are dropped.
// The caller's slices are never modified.
func effectiveExclude(c *Class, only []string, onlySet bool, exclude []string) []string {
	root := c.Base()
	set := make(map[string]struct{}, len(exclude))
	for _, f := range root.fields {
		if onlySet && !slices.Contains(only, f.Name) {
			set[f.Name] = struct{}{}
			continue
		}
		if slices.Contains(exclude, f.Name) {
			set[f.Name] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func cloneNames(names []string) []string {
	if names == nil {
		return nil
	}
	return slices.Clone(names)
}
