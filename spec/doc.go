// Package spec provides a small OpenAPI document builder that record
// descriptions plug into.
//
// The builder owns the document model: the target OpenAPI version, the info
// object, paths and the component sections (schemas, parameters, responses).
// It does not know how to turn Go types into schemas. That work is delegated
// to plugins implementing [Plugin], which are consulted whenever a schema,
// parameter, response or path is added.
//
// # Versions
//
// Both OAS 2.0 and OAS 3.x documents are supported. The major version decides
// where schema components live in the output:
//
//   - OAS 2.0: top-level "definitions", referenced as "#/definitions/<name>"
//   - OAS 3.x: "components.schemas", referenced as "#/components/schemas/<name>"
//
// # Basic Usage
//
//	doc, err := spec.New("Pet Store", "1.0.0", "3.0.0",
//		spec.WithPlugins(plugin),
//		spec.WithInfo(spec.Fragment{"description": "An example API"}),
//	)
//	if err != nil {
//		return err
//	}
//	if err := doc.Components().Schema("Pet", spec.WithRecord(Pet{})); err != nil {
//		return err
//	}
//	data, err := doc.MarshalYAML()
//
// Concurrency: Spec instances are not safe for concurrent use. Build each
// document from a single goroutine; separate documents are independent.
package spec
