package mcpserver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/oasrecord/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionInput_Resolve(t *testing.T) {
	t.Run("content", func(t *testing.T) {
		def, err := definitionInput{Content: testDefinitionYAML}.resolve()
		require.NoError(t, err)
		assert.Equal(t, "inline", def.Source())
		assert.Equal(t, []string{"Person", "Pet"}, def.RecordNames())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pets.yaml")
		require.NoError(t, os.WriteFile(path, []byte(testDefinitionYAML), 0o600))

		def, err := definitionInput{File: path}.resolve()
		require.NoError(t, err)
		assert.Equal(t, path, def.Source())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := definitionInput{File: filepath.Join(t.TempDir(), "missing.yaml")}.resolve()
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("none", func(t *testing.T) {
		_, err := definitionInput{}.resolve()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "got 0")
	})

	t.Run("both", func(t *testing.T) {
		_, err := definitionInput{File: "pets.yaml", Content: testDefinitionYAML}.resolve()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "got 2")
	})
}

func TestDefinitionInput_SizeLimit(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.MaxDefinitionBytes = 32 })

	_, err := definitionInput{Content: testDefinitionYAML}.resolve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrResourceLimit))

	path := filepath.Join(t.TempDir(), "pets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDefinitionYAML), 0o600))
	_, err = definitionInput{File: path}.resolve()
	require.Error(t, err)

	var rle *oaserrors.ResourceLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, int64(32), rle.Limit)
	assert.Equal(t, int64(len(testDefinitionYAML)), rle.Actual)
}
