package record

// Kind is the schema kind of a record field.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	// KindArray is a list of scalar or nested values described by Field.Items.
	KindArray Kind = "array"
	// KindObject is a string-keyed map whose values are described by Field.Items.
	KindObject Kind = "object"
	// KindRecord is a nested record description held in Field.Record.
	KindRecord Kind = "record"
	// KindAny accepts any value and maps to the empty schema.
	KindAny Kind = "any"
)

// Field is a named member of a record class.
type Field struct {
	// Name is the property name in the generated schema.
	Name string
	Kind Kind
	// Format is the OpenAPI format (int64, date-time, ...).
	Format string

	// Record is the nested description for KindRecord fields: a *Class, an
	// Instance, a reflect.Type or a struct value.
	Record any
	// Many marks a KindRecord field as a collection of Record.
	Many bool
	// Items describes array elements and map values.
	Items *Field

	// Optional marks the field as nullable.
	Optional   bool
	Default    any
	HasDefault bool
	// OmitEmpty marks the field as not required unless Required says otherwise.
	OmitEmpty bool
	// Required overrides the computed requiredness when non-nil.
	Required *bool
	// Location overrides the parameter location when the record is expanded
	// into operation parameters.
	Location string

	Description string
	Enum        []any
	ReadOnly    bool
	WriteOnly   bool
	Deprecated  bool
	// Constraints holds validation keywords copied verbatim into the schema
	// (minimum, maxLength, pattern, minItems, example, ...).
	Constraints map[string]any
}

// IsRequired reports whether the field belongs in its record's required list.
// A field is required when it has no default and is not marked omitempty,
// unless Required overrides it.
func (f *Field) IsRequired() bool {
	if f.Required != nil {
		return *f.Required
	}
	return !f.HasDefault && !f.OmitEmpty
}

// IsMultiple reports whether the field holds several values.
func (f *Field) IsMultiple() bool {
	return f.Many || f.Kind == KindArray
}

// clone returns a shallow copy of f.
func (f *Field) clone() *Field {
	cp := *f
	return &cp
}
