package mcpserver

import (
	"fmt"
	"os"

	"github.com/erraggy/oasrecord/internal/definition"
	"github.com/erraggy/oasrecord/oaserrors"
)

// definitionInput represents the two ways a definition document can be
// provided to a tool. Exactly one of File or Content must be set.
type definitionInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a definition file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline definition document content (YAML or JSON)"`
}

// resolve parses the definition from whichever input was provided.
func (in definitionInput) resolve() (*definition.Definition, error) {
	count := 0
	if in.File != "" {
		count++
	}
	if in.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file or content must be provided (got %d)", count)
	}

	opts := []definition.Option{definition.WithMaxBytes(cfg.MaxDefinitionBytes)}
	if in.File != "" {
		info, err := os.Stat(in.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read definition: %w", err)
		}
		// Check before reading so oversized files are never loaded.
		if info.Size() > cfg.MaxDefinitionBytes {
			return nil, &oaserrors.ResourceLimitError{
				ResourceType: "definition_bytes",
				Limit:        cfg.MaxDefinitionBytes,
				Actual:       info.Size(),
			}
		}
		return definition.ParseFile(in.File, opts...)
	}
	return definition.Parse([]byte(in.Content), append(opts, definition.WithSource("inline"))...)
}
