package record

import (
	"reflect"
	"strings"

	"github.com/erraggy/oasrecord/oaserrors"
)

var restrictedType = reflect.TypeOf((*Restricted)(nil)).Elem()

// ClassOf returns the class of a Go struct type, reflecting it on first use.
// Pointer types are dereferenced. Recursive types are supported: the class
// is cached before its fields are reflected.
func (r *Registry) ClassOf(t reflect.Type) (*Class, error) {
	if t == nil {
		return nil, &oaserrors.UnsupportedTypeError{Type: "nil", Message: "missing record type"}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if !isRecordType(t) {
		return nil, &oaserrors.UnsupportedTypeError{Type: t.String(), Message: "records must be struct types"}
	}

	if c, ok := r.byType[t]; ok {
		return c, nil
	}

	c := &Class{typ: t}
	if name := t.Name(); name != "" {
		c.name = extractBaseTypeName(name)
		for _, p := range extractGenericParams(name) {
			c.typeArgs = append(c.typeArgs, shortTypeName(p))
		}
	}
	c.opts = restrictedOptions(t)

	r.byType[t] = c
	fields, err := r.structFields(t)
	if err != nil {
		delete(r.byType, t)
		return nil, err
	}
	c.fields = fields
	return c, nil
}

// restrictedOptions returns the options declared by a Restricted type.
func restrictedOptions(t reflect.Type) Options {
	switch {
	case t.Implements(restrictedType):
		return reflect.Zero(t).Interface().(Restricted).RecordOptions()
	case reflect.PointerTo(t).Implements(restrictedType):
		return reflect.New(t).Interface().(Restricted).RecordOptions()
	}
	return Options{}
}

// structFields reflects the exported fields of t. Embedded structs have
// their fields promoted; fields declared on t win over promoted ones.
func (r *Registry) structFields(t reflect.Type) ([]*Field, error) {
	var fields []*Field
	var promoted []*Field
	seen := make(map[string]bool)

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		if sf.Anonymous && sf.Tag.Get("json") == "" && isRecordType(sf.Type) {
			embedded, err := r.ClassOf(sf.Type)
			if err != nil {
				return nil, err
			}
			for _, f := range embedded.fields {
				promoted = append(promoted, f.clone())
			}
			continue
		}

		name, jsonOpts := fieldName(sf)
		if name == "" {
			continue
		}

		f, err := r.fieldFromType(name, sf.Type)
		if err != nil {
			return nil, err
		}
		f.OmitEmpty = hasOmitempty(jsonOpts)

		tagOpts := parseOASTag(sf.Tag.Get("oas"))
		applyOASTag(f, tagOpts)
		if f.Kind == KindRecord {
			if uses := nestedOverrides(tagOpts); len(uses) > 0 {
				inst := Use(f.Record, uses...)
				f.Record = inst
				f.Many = f.Many || inst.many
			}
		}

		fields = append(fields, f)
		seen[name] = true
	}

	for _, f := range promoted {
		if !seen[f.Name] {
			fields = append(fields, f)
			seen[f.Name] = true
		}
	}
	return fields, nil
}

// fieldFromType maps a Go type to a field.
func (r *Registry) fieldFromType(name string, t reflect.Type) (*Field, error) {
	f := &Field{Name: name}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		f.Optional = true
	}

	if t == timeType {
		f.Kind, f.Format = KindString, "date-time"
		return f, nil
	}

	switch t.Kind() {
	case reflect.String:
		f.Kind = KindString

	case reflect.Bool:
		f.Kind = KindBoolean

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		f.Kind, f.Format = KindInteger, "int32"

	case reflect.Int64, reflect.Uint64:
		f.Kind, f.Format = KindInteger, "int64"

	case reflect.Float32:
		f.Kind, f.Format = KindNumber, "float"

	case reflect.Float64:
		f.Kind, f.Format = KindNumber, "double"

	case reflect.Interface:
		f.Kind = KindAny

	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			f.Kind, f.Format = KindString, "byte"
			return f, nil
		}
		if isRecordType(t.Elem()) {
			f.Kind, f.Many = KindRecord, true
			f.Record = derefType(t.Elem())
			return f, nil
		}
		items, err := r.fieldFromType("", t.Elem())
		if err != nil {
			return nil, withField(err, name)
		}
		f.Kind, f.Items = KindArray, items

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, &oaserrors.UnsupportedTypeError{
				Type:    t.String(),
				Field:   name,
				Message: "map keys must be strings",
			}
		}
		values, err := r.fieldFromType("", t.Elem())
		if err != nil {
			return nil, withField(err, name)
		}
		f.Kind, f.Items = KindObject, values

	case reflect.Struct:
		f.Kind = KindRecord
		f.Record = t

	default:
		return nil, &oaserrors.UnsupportedTypeError{Type: t.String(), Field: name}
	}
	return f, nil
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// withField fills in the field name of an element-level type error.
func withField(err error, name string) error {
	if ute, ok := err.(*oaserrors.UnsupportedTypeError); ok && ute.Field == "" {
		cp := *ute
		cp.Field = name
		return &cp
	}
	return err
}

// extractBaseTypeName extracts the base type name from a generic type.
// Example: "Response[User]" -> "Response"
func extractBaseTypeName(name string) string {
	if idx := strings.Index(name, "["); idx != -1 {
		return name[:idx]
	}
	return name
}

// extractGenericParams extracts type parameters from a generic type name.
// It handles nested generics by counting bracket depth.
// Example: "Map[string,int]" -> ["string", "int"]
// Example: "Response[List[User]]" -> ["List[User]"]
func extractGenericParams(name string) []string {
	start := strings.Index(name, "[")
	end := strings.LastIndex(name, "]")
	if start == -1 || end == -1 || end <= start {
		return nil
	}

	var params []string
	var current strings.Builder
	depth := 0
	for _, r := range name[start+1 : end] {
		switch r {
		case '[':
			depth++
			current.WriteRune(r)
		case ']':
			depth--
			current.WriteRune(r)
		case ',':
			if depth == 0 {
				params = append(params, strings.TrimSpace(current.String()))
				current.Reset()
			} else {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		params = append(params, strings.TrimSpace(current.String()))
	}
	return params
}

// shortTypeName strips package paths from a type argument and flattens
// nested generics with underscores.
// Example: "github.com/org/models.Page[github.com/org/models.Pet]" -> "Page_Pet"
func shortTypeName(s string) string {
	s = strings.TrimLeft(s, "*")
	if rest, ok := strings.CutPrefix(s, "[]"); ok {
		return "List_" + shortTypeName(rest)
	}

	base := extractBaseTypeName(s)
	if idx := strings.LastIndex(base, "."); idx != -1 {
		base = base[idx+1:]
	}

	params := extractGenericParams(s)
	if len(params) == 0 {
		return base
	}
	short := make([]string, len(params))
	for i, p := range params {
		short[i] = shortTypeName(p)
	}
	return base + "_" + strings.Join(short, "_")
}
