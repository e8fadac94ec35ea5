package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDefinition = `openapi: 3.0.3
info:
  title: Pet Store
  version: 1.0.0
records:
  Pet:
    fields:
      - {name: id, type: integer, format: int64}
      - {name: name, type: string}
      - {name: password, type: string}
      - {name: owner, record: Person, exclude: [phone], required: false}
  Person:
    fields:
      - {name: first_name, type: string}
      - {name: phone, type: string}
schemas:
  Pet: Pet
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: {$record: Pet, many: true, exclude: [password]}
`

// writeDefinition writes the test definition to a temp file and returns its path.
func writeDefinition(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "petstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDefinition), 0o600))
	return path
}

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() {
		_ = w.Close()
		os.Stdout = old
	}()

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"valid text", FormatText, false},
		{"valid json", FormatJSON, false},
		{"valid yaml", FormatYAML, false},
		{"invalid format", "xml", true},
		{"empty format", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocumentFormat(t *testing.T) {
	assert.NoError(t, ValidateDocumentFormat(FormatJSON))
	assert.NoError(t, ValidateDocumentFormat(FormatYAML))
	assert.Error(t, ValidateDocumentFormat(FormatText))
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("out.JSON", FormatYAML))
	assert.Equal(t, FormatYAML, FormatFromPath("out.yml", FormatJSON))
	assert.Equal(t, FormatJSON, FormatFromPath("", FormatJSON))
	assert.Equal(t, FormatYAML, FormatFromPath("openapi", FormatYAML))
}

func TestOutputStructured(t *testing.T) {
	data := map[string]int{"count": 2}

	out := captureStdout(t, func() {
		require.NoError(t, OutputStructured(data, FormatJSON))
	})
	assert.Contains(t, out, `"count": 2`)

	out = captureStdout(t, func() {
		require.NoError(t, OutputStructured(data, FormatYAML))
	})
	assert.Contains(t, out, "count: 2")

	assert.Error(t, OutputStructured(data, FormatText))
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "petstore.yaml")

	assert.NoError(t, ValidateOutputPath(filepath.Join(dir, "openapi.yaml"), []string{input, StdinFilePath}))
	assert.Error(t, ValidateOutputPath(input, []string{input}))

	target := filepath.Join(dir, "target.yaml")
	require.NoError(t, os.WriteFile(target, nil, 0o600))
	link := filepath.Join(dir, "link.yaml")
	require.NoError(t, os.Symlink(target, link))
	err := ValidateOutputPath(link, []string{input})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlink")
}

func TestFormatDefinitionPath(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatDefinitionPath(StdinFilePath))
	assert.Equal(t, "petstore.yaml", FormatDefinitionPath("petstore.yaml"))
}

func TestRecordOptions(t *testing.T) {
	opts, err := RecordOptions("snake", true, NewLogger(false))
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	_, err = RecordOptions("kebab", false, NewLogger(true))
	assert.Error(t, err)
}
