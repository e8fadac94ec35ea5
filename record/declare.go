package record

import "maps"

// FieldOption configures a declared field.
type FieldOption func(*Field)

// String declares a string field.
func String(name string, opts ...FieldOption) *Field {
	return newField(name, KindString, opts)
}

// Integer declares an integer field.
func Integer(name string, opts ...FieldOption) *Field {
	return newField(name, KindInteger, opts)
}

// Number declares a floating point field.
func Number(name string, opts ...FieldOption) *Field {
	return newField(name, KindNumber, opts)
}

// Boolean declares a boolean field.
func Boolean(name string, opts ...FieldOption) *Field {
	return newField(name, KindBoolean, opts)
}

// DateTime declares a string field in date-time format.
func DateTime(name string, opts ...FieldOption) *Field {
	return newField(name, KindString, append([]FieldOption{Format("date-time")}, opts...))
}

// Raw declares a field accepting any value.
func Raw(name string, opts ...FieldOption) *Field {
	return newField(name, KindAny, opts)
}

// Nested declares a field holding another record. target is a *Class, a Go
// struct type or value, or an Instance built with Use:
//
//	record.Nested("deputies", record.Use(person, record.Many(), record.Exclude("phone_number")))
func Nested(name string, target any, opts ...FieldOption) *Field {
	f := newField(name, KindRecord, opts)
	f.Record = target
	if inst, ok := target.(Instance); ok && inst.many {
		f.Many = true
	}
	return f
}

// List declares an array field. A nested item turns the field into a
// collection of that record.
func List(name string, item *Field, opts ...FieldOption) *Field {
	if item != nil && item.Kind == KindRecord {
		f := newField(name, KindRecord, opts)
		f.Record = item.Record
		f.Many = true
		return f
	}
	f := newField(name, KindArray, opts)
	f.Items = item
	return f
}

// Dict declares a string-keyed map field whose values are described by value.
func Dict(name string, value *Field, opts ...FieldOption) *Field {
	f := newField(name, KindObject, opts)
	f.Items = value
	return f
}

func newField(name string, kind Kind, opts []FieldOption) *Field {
	f := &Field{Name: name, Kind: kind}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Required forces the field into the required list.
func Required() FieldOption {
	return func(f *Field) {
		v := true
		f.Required = &v
	}
}

// NotRequired keeps the field out of the required list.
func NotRequired() FieldOption {
	return func(f *Field) {
		v := false
		f.Required = &v
	}
}

// Nullable marks the field as accepting null.
func Nullable() FieldOption {
	return func(f *Field) {
		f.Optional = true
	}
}

// Default sets the default value of the field.
func Default(v any) FieldOption {
	return func(f *Field) {
		f.Default = v
		f.HasDefault = true
	}
}

// Describe sets the field description.
func Describe(text string) FieldOption {
	return func(f *Field) {
		f.Description = text
	}
}

// Format sets the OpenAPI format of the field.
func Format(format string) FieldOption {
	return func(f *Field) {
		f.Format = format
	}
}

// Enum restricts the field to the given values.
func Enum(values ...any) FieldOption {
	return func(f *Field) {
		f.Enum = append([]any(nil), values...)
	}
}

// ReadOnly marks the field read-only.
func ReadOnly() FieldOption {
	return func(f *Field) {
		f.ReadOnly = true
	}
}

// WriteOnly marks the field write-only.
func WriteOnly() FieldOption {
	return func(f *Field) {
		f.WriteOnly = true
	}
}

// Deprecated marks the field deprecated.
func Deprecated() FieldOption {
	return func(f *Field) {
		f.Deprecated = true
	}
}

// Location sets the parameter location used when the record is expanded into
// operation parameters.
func Location(in string) FieldOption {
	return func(f *Field) {
		f.Location = in
	}
}

// Constraint adds a validation keyword such as "minimum" or "maxLength".
func Constraint(key string, value any) FieldOption {
	return func(f *Field) {
		if f.Constraints == nil {
			f.Constraints = make(map[string]any)
		}
		f.Constraints[key] = value
	}
}

// Constraints adds several validation keywords at once.
func Constraints(kv map[string]any) FieldOption {
	return func(f *Field) {
		if f.Constraints == nil {
			f.Constraints = make(map[string]any, len(kv))
		}
		maps.Copy(f.Constraints, kv)
	}
}
