package record

import (
	"fmt"
	"maps"

	"github.com/erraggy/oasrecord/oaserrors"
	"github.com/erraggy/oasrecord/spec"
)

// locationMap maps request-part names to OpenAPI parameter locations.
var locationMap = map[string]string{
	"query":       "query",
	"querystring": "query",
	"json":        "body",
	"headers":     "header",
	"cookies":     "cookie",
	"form":        "formData",
	"files":       "formData",
}

// openAPILocation maps a request-part name to an OpenAPI "in" value.
// Unknown names such as "path" or "header" are returned unchanged.
func openAPILocation(in string) string {
	if loc, ok := locationMap[in]; ok {
		return loc
	}
	return in
}

// ParameterOptions configures SchemaToParameters.
type ParameterOptions struct {
	// In is the request part the record describes: query, querystring,
	// json, body, headers, header, cookies, form, files or path.
	// Defaults to "body".
	In string
	// Name of the single body parameter. Defaults to "body".
	Name string
	// Required marks the single body parameter required.
	Required bool
	// Description of the single body parameter.
	Description string
}

// SchemaToParameters expands a record description into operation parameters.
//
// For OAS 2.0 body locations the whole record becomes one body parameter.
// Otherwise each visible field becomes its own parameter; multi-valued
// fields are marked collectionFormat "multi" (2.0) or explode/style form
// (3.x). Under 2.0, fields sent in the body are merged into one parameter.
//
// OAS 3.x has no body or formData parameters: such locations, for the whole
// record or for a single field, return a *oaserrors.ConfigError. Records
// sent in the body belong in the operation's requestBody, which
// Plugin.OperationHelper builds from body and form parameters.
func (c *Converter) SchemaToParameters(v any, opts ParameterOptions) ([]spec.Fragment, error) {
	in := opts.In
	if in == "" {
		in = "body"
	}
	loc := openAPILocation(in)
	if err := c.checkLocation(in, loc); err != nil {
		return nil, err
	}

	if c.version.IsOAS2() && loc == "body" {
		prop, err := c.ResolveSchema(v)
		if err != nil {
			return nil, err
		}
		name := opts.Name
		if name == "" {
			name = "body"
		}
		param := spec.Fragment{
			"in":       loc,
			"required": opts.Required,
			"name":     name,
			"schema":   prop,
		}
		if opts.Description != "" {
			param["description"] = opts.Description
		}
		return []spec.Fragment{param}, nil
	}

	cls, _, err := c.resolve(v)
	if err != nil {
		return nil, err
	}

	var params []spec.Fragment
	var bodyParam spec.Fragment
	for _, f := range cls.VisibleFields() {
		param, err := c.fieldToParameter(f, loc)
		if err != nil {
			return nil, err
		}
		if c.version.IsOAS2() && param["in"] == "body" {
			if bodyParam != nil {
				mergeBodyParameter(bodyParam, param)
				continue
			}
			bodyParam = param
		}
		params = append(params, param)
	}
	return params, nil
}

// fieldToParameter builds the parameter object of a single field.
func (c *Converter) fieldToParameter(f *Field, defaultLoc string) (spec.Fragment, error) {
	prop, err := c.fieldSchema(f)
	if err != nil {
		return nil, err
	}
	prop = normalizeNullable(prop)

	loc := defaultLoc
	if f.Location != "" {
		loc = openAPILocation(f.Location)
		if err := c.checkLocation(f.Location, loc); err != nil {
			return nil, err
		}
	}
	ret := spec.Fragment{"in": loc, "name": f.Name}

	if loc == "body" {
		schema := spec.Fragment{
			"type":       "object",
			"properties": spec.Fragment{f.Name: prop},
		}
		if f.IsRequired() {
			schema["required"] = []string{f.Name}
		}
		ret["name"] = "body"
		ret["required"] = false
		ret["schema"] = schema
		return ret, nil
	}

	// path parameters are always required
	ret["required"] = f.IsRequired() || loc == "path"
	if c.version.IsOAS2() {
		if f.IsMultiple() {
			ret["collectionFormat"] = "multi"
		}
		maps.Copy(ret, prop)
		return ret, nil
	}

	if f.IsMultiple() {
		ret["explode"] = true
		ret["style"] = "form"
	}
	if desc, ok := prop["description"].(string); ok && desc != "" {
		ret["description"] = desc
		delete(prop, "description")
	}
	ret["schema"] = prop
	return ret, nil
}

// checkLocation rejects parameter locations the target version cannot express.
func (c *Converter) checkLocation(in, loc string) error {
	if c.version.IsOAS2() || (loc != "body" && loc != "formData") {
		return nil
	}
	return &oaserrors.ConfigError{
		Option:  "in",
		Value:   in,
		Message: fmt.Sprintf("OpenAPI %s has no %s parameters; send the record as the request body", c.version, loc),
	}
}

// mergeBodyParameter folds the properties and required list of param into body.
func mergeBodyParameter(body, param spec.Fragment) {
	bodySchema := body["schema"].(spec.Fragment)
	paramSchema := param["schema"].(spec.Fragment)

	maps.Copy(bodySchema["properties"].(spec.Fragment), paramSchema["properties"].(spec.Fragment))
	if req, ok := paramSchema["required"].([]string); ok && len(req) > 0 {
		existing, _ := bodySchema["required"].([]string)
		bodySchema["required"] = append(existing, req...)
	}
}
