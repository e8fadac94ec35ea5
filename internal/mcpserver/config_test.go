package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// clearOASRECORDEnv clears all OASRECORD_* env vars to isolate tests from the ambient environment.
func clearOASRECORDEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OASRECORD_DEFAULT_FORMAT", "OASRECORD_DEFAULT_NAMING",
		"OASRECORD_MAX_DEFINITION_BYTES", "OASRECORD_ALLOW_OUTPUT_FILES",
	} {
		t.Setenv(key, "")
	}
}

// withConfig swaps the active configuration for the duration of a test.
func withConfig(t *testing.T, mutate func(c *serverConfig)) {
	t.Helper()
	orig := cfg
	c := *orig
	mutate(&c)
	cfg = &c
	t.Cleanup(func() { cfg = orig })
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearOASRECORDEnv(t)

	c := loadConfig()

	assert.Equal(t, "json", c.DefaultFormat)
	assert.Empty(t, c.DefaultNaming)
	assert.Equal(t, int64(4*1024*1024), c.MaxDefinitionBytes)
	assert.True(t, c.AllowOutputFiles)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearOASRECORDEnv(t)
	t.Setenv("OASRECORD_DEFAULT_FORMAT", "YAML")
	t.Setenv("OASRECORD_DEFAULT_NAMING", "PascalCase")
	t.Setenv("OASRECORD_MAX_DEFINITION_BYTES", "1024")
	t.Setenv("OASRECORD_ALLOW_OUTPUT_FILES", "false")

	c := loadConfig()

	assert.Equal(t, "yaml", c.DefaultFormat)
	assert.Equal(t, "pascal", c.DefaultNaming)
	assert.Equal(t, int64(1024), c.MaxDefinitionBytes)
	assert.False(t, c.AllowOutputFiles)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearOASRECORDEnv(t)
	t.Setenv("OASRECORD_DEFAULT_FORMAT", "xml")
	t.Setenv("OASRECORD_DEFAULT_NAMING", "kebab")
	t.Setenv("OASRECORD_MAX_DEFINITION_BYTES", "-5")
	t.Setenv("OASRECORD_ALLOW_OUTPUT_FILES", "maybe")

	c := loadConfig()

	// Invalid values should fall back to defaults.
	assert.Equal(t, "json", c.DefaultFormat)
	assert.Empty(t, c.DefaultNaming, "invalid naming should fall back to empty")
	assert.Equal(t, int64(4*1024*1024), c.MaxDefinitionBytes)
	assert.True(t, c.AllowOutputFiles)
}
