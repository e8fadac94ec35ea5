// Package oasrecord generates OpenAPI Specification schema documents from Go
// record types and declared record classes.
//
// The module is split into a small host document builder and a plugin that
// turns record descriptions into schema fragments:
//
//   - spec: the document builder (paths, components, OAS 2.0 / 3.x output)
//   - record: record classes, partial-record identity, schema naming and the
//     reference-graph walker that emits $ref pointers for shared shapes
//   - oaserrors: structured error types usable with errors.Is and errors.As
//
// Supported OpenAPI Specification versions:
//   - OAS 2.0 (Swagger): https://spec.openapis.org/oas/v2.0.html
//   - OAS 3.x: https://spec.openapis.org/oas/v3.0.0.html
//
// # Quick Start
//
//	type Pet struct {
//		ID       int64  `json:"id"`
//		Name     string `json:"name"`
//		Password string `json:"password"`
//	}
//
//	plugin := record.NewPlugin()
//	doc, err := spec.New("Pet Store", "1.0.0", "3.0.0", spec.WithPlugins(plugin))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := doc.Components().Schema("Pet", spec.WithRecord(Pet{})); err != nil {
//		log.Fatal(err)
//	}
//	err = doc.Path("/pets/{id}", map[string]spec.Fragment{
//		"get": {
//			"responses": spec.Fragment{
//				"200": spec.Fragment{
//					"description": "a pet",
//					"content": spec.Fragment{
//						"application/json": spec.Fragment{"schema": Pet{}},
//					},
//				},
//			},
//		},
//	})
//
// The response schema above becomes {"$ref": "#/components/schemas/Pet"} and
// the document carries exactly one Pet component.
//
// Partial records are described with record.Use:
//
//	record.Use(Pet{}, record.Exclude("password"))
//
// which resolves to a restricted variant named "Pet_exclude_password".
package oasrecord
