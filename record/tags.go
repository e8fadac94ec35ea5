package record

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// parseJSONTag parses a struct field's json tag.
// Returns the field name and options (like "omitempty").
func parseJSONTag(tag string) (name string, opts []string) {
	if tag == "" {
		return "", nil
	}

	parts := strings.Split(tag, ",")
	name = parts[0]
	if len(parts) > 1 {
		opts = parts[1:]
	}
	return name, opts
}

// hasOmitempty checks if json tag options include omitempty.
func hasOmitempty(opts []string) bool {
	for _, opt := range opts {
		if opt == "omitempty" || opt == "omitzero" {
			return true
		}
	}
	return false
}

// parseOASTag parses the oas struct tag into a map of key-value pairs.
// Supports formats like: oas:"description=User ID,minLength=1,exclude=phone|fax"
func parseOASTag(tag string) map[string]string {
	result := make(map[string]string)
	if tag == "" {
		return result
	}

	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, "="); idx > 0 {
			result[strings.TrimSpace(part[:idx])] = strings.TrimSpace(part[idx+1:])
		} else {
			// boolean flags such as "deprecated" or "many"
			result[part] = "true"
		}
	}
	return result
}

// splitList splits a pipe-separated tag value.
func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// numericConstraints are oas tag keys copied into the schema as numbers.
var numericConstraints = []string{
	"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf",
}

// countConstraints are oas tag keys copied into the schema as integers.
var countConstraints = []string{
	"minLength", "maxLength", "minItems", "maxItems", "minProperties", "maxProperties",
}

// applyOASTag applies oas tag options to a reflected field.
func applyOASTag(f *Field, opts map[string]string) {
	for key, value := range opts {
		switch key {
		case "description":
			f.Description = value
		case "format":
			f.Format = value
		case "enum":
			values := splitList(value)
			f.Enum = make([]any, len(values))
			for i, v := range values {
				f.Enum[i] = parseDefaultValue(v, f.Kind)
			}
		case "default":
			f.Default = parseDefaultValue(value, f.Kind)
			f.HasDefault = true
		case "required":
			v := value == "true"
			f.Required = &v
		case "nullable":
			f.Optional = value == "true"
		case "readOnly":
			f.ReadOnly = value == "true"
		case "writeOnly":
			f.WriteOnly = value == "true"
		case "deprecated":
			f.Deprecated = value == "true"
		case "in":
			f.Location = value
		case "pattern", "title", "example":
			setConstraint(f, key, value)
		default:
			switch {
			case slices.Contains(numericConstraints, key):
				if n, err := strconv.ParseFloat(value, 64); err == nil {
					setConstraint(f, key, n)
				}
			case slices.Contains(countConstraints, key):
				if n, err := strconv.Atoi(value); err == nil {
					setConstraint(f, key, n)
				}
			}
		}
	}
}

func setConstraint(f *Field, key string, value any) {
	if f.Constraints == nil {
		f.Constraints = make(map[string]any)
	}
	f.Constraints[key] = value
}

// parseDefaultValue attempts to parse a tag value according to the field kind.
func parseDefaultValue(value string, kind Kind) any {
	switch kind {
	case KindInteger:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	case KindNumber:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case KindBoolean:
		return value == "true"
	}
	return value
}

// nestedOverrides builds the Instance options carried by exclude, only and
// many tag keys on a nested record field.
func nestedOverrides(opts map[string]string) []UseOption {
	var uses []UseOption
	if v, ok := opts["exclude"]; ok {
		uses = append(uses, Exclude(splitList(v)...))
	}
	if v, ok := opts["only"]; ok {
		uses = append(uses, Only(splitList(v)...))
	}
	if opts["many"] == "true" {
		uses = append(uses, Many())
	}
	return uses
}

// fieldName returns the schema property name of a struct field, or "" when
// the field is skipped by its json tag.
func fieldName(sf reflect.StructField) (string, []string) {
	jsonTag := sf.Tag.Get("json")
	if jsonTag == "-" {
		return "", nil
	}
	name, opts := parseJSONTag(jsonTag)
	if name == "" {
		name = sf.Name
	}
	return name, opts
}
