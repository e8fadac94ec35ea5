package record

import (
	"reflect"
	"slices"
	"time"
)

// Instance is a record description carrying per-use overrides: fields to
// exclude, fields to keep and whether a collection is meant.
//
// Instances are values; building one never changes the described class.
type Instance struct {
	target  any
	exclude []string
	only    []string
	onlySet bool
	many    bool
}

// UseOption configures an Instance.
type UseOption func(*Instance)

// Use describes target with per-use overrides. target is a *Class, a Go
// struct type (reflect.Type), a struct value or pointer, or another Instance
// whose overrides are carried over.
//
//	record.Use(Pet{}, record.Exclude("password"))
//	record.Use(person, record.Only("first_name", "last_name"), record.Many())
func Use(target any, opts ...UseOption) Instance {
	inst := Instance{target: target}
	if inner, ok := target.(Instance); ok {
		inst = Instance{
			target:  inner.target,
			exclude: slices.Clone(inner.exclude),
			only:    slices.Clone(inner.only),
			onlySet: inner.onlySet,
			many:    inner.many,
		}
	}
	for _, opt := range opts {
		opt(&inst)
	}
	return inst
}

// Exclude leaves the named fields out of the instance.
func Exclude(names ...string) UseOption {
	return func(i *Instance) {
		i.exclude = append(slices.Clone(i.exclude), names...)
	}
}

// Only keeps just the named fields in the instance.
func Only(names ...string) UseOption {
	return func(i *Instance) {
		i.only = slices.Clone(names)
		i.onlySet = true
	}
}

// Many marks the instance as a collection of records.
func Many() UseOption {
	return func(i *Instance) {
		i.many = true
	}
}

// Target returns the described record.
func (i Instance) Target() any { return i.target }

// ExcludeNames returns a copy of the instance-level exclude list.
func (i Instance) ExcludeNames() []string { return slices.Clone(i.exclude) }

// OnlyNames returns a copy of the instance-level only list and whether it is set.
func (i Instance) OnlyNames() ([]string, bool) { return slices.Clone(i.only), i.onlySet }

// IsMany reports whether the instance describes a collection.
func (i Instance) IsMany() bool { return i.many }

// descriptionKind tags the closed set of inputs the converter understands.
type descriptionKind int

const (
	// notDescription is any value the converter passes through untouched.
	notDescription descriptionKind = iota
	// rawFragment is a literal schema map walked structurally.
	rawFragment
	// typeDescription is a class, a reflect.Type or a struct value.
	typeDescription
	// instanceDescription is an Instance with per-use overrides.
	instanceDescription
)

var timeType = reflect.TypeOf(time.Time{})

// classify reports which kind of description v is.
func classify(v any) descriptionKind {
	switch x := v.(type) {
	case nil:
		return notDescription
	case map[string]any:
		return rawFragment
	case Instance:
		return instanceDescription
	case *Class:
		if x == nil {
			return notDescription
		}
		return typeDescription
	case reflect.Type:
		if isRecordType(x) {
			return typeDescription
		}
		return notDescription
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().ConvertibleTo(fragmentType) {
		return rawFragment
	}
	if isRecordType(rv.Type()) {
		return typeDescription
	}
	return notDescription
}

// isRecordType reports whether t (after pointer indirection) is a struct
// type that maps to a record rather than to a scalar schema.
func isRecordType(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && t != timeType
}
