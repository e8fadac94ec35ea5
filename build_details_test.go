package oasrecord

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVersion verifies that Version() returns the version variable.
// In development, it defaults to "dev".
func TestVersion(t *testing.T) {
	result := Version()

	assert.NotEmpty(t, result, "Version() should not return empty string")
	assert.True(t,
		result == "dev" || strings.HasPrefix(result, "v"),
		"Version() should be 'dev' or start with 'v', got: %s", result)
}

func TestCommit(t *testing.T) {
	assert.NotEmpty(t, Commit())
}

// TestGoVersion verifies that GoVersion() returns the runtime Go version.
func TestGoVersion(t *testing.T) {
	assert.Equal(t, runtime.Version(), GoVersion())
}

// TestUserAgent verifies that UserAgent() returns a properly formatted User-Agent string.
func TestUserAgent(t *testing.T) {
	result := UserAgent()

	assert.Equal(t, "oasrecord/"+Version(), result)
	assert.NotContains(t, result, " ", "UserAgent() should not contain spaces")
}

func TestBuildInfo(t *testing.T) {
	result := BuildInfo()

	assert.Contains(t, result, "Version: "+Version())
	assert.Contains(t, result, "Commit: "+Commit())
	assert.Contains(t, result, "Go Version: "+GoVersion())
}
