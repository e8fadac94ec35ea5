package spec

// Plugin extends a Spec with knowledge of how to turn descriptions into
// schema fragments. A Spec calls its plugins in registration order.
//
// Helpers return the fragment to merge into the component being built; a nil
// fragment with a nil error means the plugin has nothing to contribute.
type Plugin interface {
	// Init is called once when the plugin is attached to a Spec.
	Init(s *Spec) error

	// SchemaHelper is called when a schema component is registered.
	SchemaHelper(name string, def *SchemaDefinition) (Fragment, error)

	// ParameterHelper is called when a parameter component is registered.
	ParameterHelper(param Fragment) (Fragment, error)

	// ResponseHelper is called when a response component is registered.
	ResponseHelper(resp Fragment) (Fragment, error)

	// OperationHelper may rewrite the operations of a path in place.
	OperationHelper(path string, operations map[string]Fragment) error
}

// BasePlugin implements Plugin with no-op helpers. Embed it to implement
// only the hooks a plugin cares about.
type BasePlugin struct{}

// Init does nothing.
func (BasePlugin) Init(*Spec) error { return nil }

// SchemaHelper contributes nothing.
func (BasePlugin) SchemaHelper(string, *SchemaDefinition) (Fragment, error) { return nil, nil }

// ParameterHelper contributes nothing.
func (BasePlugin) ParameterHelper(Fragment) (Fragment, error) { return nil, nil }

// ResponseHelper contributes nothing.
func (BasePlugin) ResponseHelper(Fragment) (Fragment, error) { return nil, nil }

// OperationHelper leaves operations untouched.
func (BasePlugin) OperationHelper(string, map[string]Fragment) error { return nil }
