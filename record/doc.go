// Package record turns record descriptions into OpenAPI schema fragments.
//
// A record is described by a *Class. Classes come from Go struct types,
// reflected on first use, or are declared directly:
//
//	type Pet struct {
//		ID       int64  `json:"id"`
//		Name     string `json:"name"`
//		Password string `json:"password" oas:"writeOnly"`
//	}
//
//	person := record.Define("Person",
//		record.String("first_name"),
//		record.String("last_name"),
//		record.String("phone_number", record.NotRequired()),
//	)
//
// Partial records are described with Use:
//
//	record.Use(Pet{}, record.Exclude("password"))
//	record.Use(person, record.Only("first_name"), record.Many())
//
// # Identity
//
// A Registry reduces every description to a representative class. Two
// descriptions of the same class leaving out the same fields resolve to the
// same *Class, whatever the order of the names or whether the subset was
// given with Exclude or Only. A description that leaves out nothing beyond
// what the class itself declares resolves to the class itself.
//
// # Naming
//
// Representative classes are named by a NameResolver. The default,
// NameFor, yields the base name ("Pet"), the base name followed by generic
// arguments ("Page_Pet") and, for field subsets, the sorted excluded names
// ("Pet_exclude_password").
//
// # References
//
// A Converter expands classes into object schemas. Classes already bound to
// a component name become {"$ref": "#/components/schemas/<name>"} (or
// "#/definitions/<name>" for OAS 2.0). Nested records are registered as
// components the first time they are met, before their own fields are
// expanded, so self and mutual references end in a $ref.
//
// # Plugin
//
// Plugin implements spec.Plugin and is the usual entry point:
//
//	plugin := record.NewPlugin(record.WithLogger(record.NewSlogAdapter(slog.Default())))
//	doc, err := spec.New("Pet Store", "1.0.0", "3.0.0", spec.WithPlugins(plugin))
//
// Concurrency: a Plugin, its Registry and its Converter belong to one
// document and are not safe for concurrent use.
package record
