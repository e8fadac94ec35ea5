package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/erraggy/oasrecord/internal/definition"
	"github.com/erraggy/oasrecord/record"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// DefaultFormat is the document format used when a render call names none.
	DefaultFormat string

	// DefaultNaming is the naming strategy used when a render call names none.
	DefaultNaming string

	// MaxDefinitionBytes caps the size of a definition document.
	MaxDefinitionBytes int64

	// AllowOutputFiles enables the output parameter of the render tool.
	AllowOutputFiles bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASRECORD_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		DefaultFormat:      envFormat("OASRECORD_DEFAULT_FORMAT", "json"),
		DefaultNaming:      envNaming("OASRECORD_DEFAULT_NAMING"),
		MaxDefinitionBytes: int64(envInt("OASRECORD_MAX_DEFINITION_BYTES", int(definition.DefaultMaxBytes))),
		AllowOutputFiles:   envBool("OASRECORD_ALLOW_OUTPUT_FILES", true),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envFormat(key, fallback string) string {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if v != "json" && v != "yaml" {
		slog.Warn("invalid format env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return v
}

func envNaming(key string) string {
	v := os.Getenv(key)
	if v == "" {
		return ""
	}
	strategy, err := record.ParseNamingStrategy(v)
	if err != nil {
		slog.Warn("invalid naming env var, ignoring", "key", key, "value", v) //nolint:gosec // G706: values are structured log fields, not format strings
		return ""
	}
	return strategy.String()
}
