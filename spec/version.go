package spec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/erraggy/oasrecord/oaserrors"
)

// Version is a parsed OpenAPI Specification version.
type Version struct {
	Major int
	Minor int
	Patch int

	raw string
}

// ParseVersion parses an OpenAPI version string such as "2.0", "3.0.3" or
// "3.1.0". Only major versions 2 and 3 are accepted.
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	core := raw
	if idx := strings.IndexByte(core, '-'); idx >= 0 {
		core = core[:idx]
	}

	parts := strings.Split(core, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, versionError(s, fmt.Sprintf("invalid version format: %q", s))
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > math.MaxInt32 {
			return Version{}, versionError(s, fmt.Sprintf("invalid version component: %q", part))
		}
		nums[i] = n
	}

	if nums[0] != 2 && nums[0] != 3 {
		return Version{}, versionError(s, "unsupported major version, expected 2 or 3")
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2], raw: raw}, nil
}

func versionError(value, msg string) error {
	return &oaserrors.ConfigError{
		Option:  "openapiVersion",
		Value:   value,
		Message: msg,
	}
}

// String returns the version as it was given to ParseVersion.
func (v Version) String() string {
	if v.raw != "" {
		return v.raw
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsOAS2 reports whether the version is a Swagger 2.0 version.
func (v Version) IsOAS2() bool {
	return v.Major == 2
}

// SchemaRefPrefix returns the prefix used for schema component references.
func (v Version) SchemaRefPrefix() string {
	if v.IsOAS2() {
		return "#/definitions/"
	}
	return "#/components/schemas/"
}
