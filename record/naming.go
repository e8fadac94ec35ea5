package record

import (
	"slices"
	"strings"
	"unicode"

	"github.com/erraggy/oasrecord/oaserrors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NameResolver maps a representative class to its schema component name.
// Returning "" asks for the class to be inlined instead of referenced; that
// is an error for classes taking part in a reference cycle.
type NameResolver func(c *Class) string

// NamingStrategy post-processes the default schema names.
type NamingStrategy int

const (
	// NamingDefault keeps names as built: "Pet", "Pet_exclude_password", "Page_Pet".
	NamingDefault NamingStrategy = iota

	// NamingPascalCase joins name segments in PascalCase.
	// Example: Pet_exclude_password -> PetExcludePassword
	NamingPascalCase

	// NamingSnakeCase lowers names to snake_case.
	// Example: PetOwner_exclude_phone -> pet_owner_exclude_phone
	NamingSnakeCase
)

// String returns the flag spelling of the strategy.
func (s NamingStrategy) String() string {
	switch s {
	case NamingPascalCase:
		return "pascal"
	case NamingSnakeCase:
		return "snake"
	default:
		return "default"
	}
}

// ParseNamingStrategy parses "default", "pascal" or "snake" (case-insensitive).
// The empty string selects NamingDefault.
func ParseNamingStrategy(s string) (NamingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return NamingDefault, nil
	case "pascal", "pascalcase":
		return NamingPascalCase, nil
	case "snake", "snakecase", "snake_case":
		return NamingSnakeCase, nil
	}
	return NamingDefault, &oaserrors.ConfigError{
		Option:  "naming",
		Value:   s,
		Message: "expected default, pascal or snake",
	}
}

// NameOption adjusts a NameFor computation.
type NameOption func(*nameConfig)

type nameConfig struct {
	only     []string
	onlySet  bool
	exclude  []string
	typeArgs []string
}

// WithOnly names the class as if restricted to the listed fields.
func WithOnly(names ...string) NameOption {
	return func(c *nameConfig) {
		c.only = slices.Clone(names)
		c.onlySet = true
	}
}

// WithExclude names the class as if the listed fields were excluded.
func WithExclude(names ...string) NameOption {
	return func(c *nameConfig) {
		c.exclude = append(c.exclude, names...)
	}
}

// WithTypeArgs appends explicit generic type argument names.
func WithTypeArgs(args ...string) NameOption {
	return func(c *nameConfig) {
		c.typeArgs = append(c.typeArgs, args...)
	}
}

// excludeInfix separates the base name from the excluded field list.
const excludeInfix = "_exclude_"

// NameFor returns the default schema name of a class.
//
// Generic classes are named after their base name and type arguments joined
// by underscores ("Page_Pet"). When the effective exclude set (the class's
// own exclusions plus the ones requested by opts) is empty, the base name is
// returned; otherwise the sorted excluded field names are appended after
// "_exclude_", so equal field subsets always produce equal names.
func NameFor(c *Class, opts ...NameOption) string {
	cfg := &nameConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	name := c.Name()
	if name == "" {
		return ""
	}
	if args := append(c.TypeArgs(), cfg.typeArgs...); len(args) > 0 {
		name += "_" + strings.Join(args, "_")
	}

	excluded := effectiveExclude(c, cfg.only, cfg.onlySet, append(c.Excluded(), cfg.exclude...))
	if len(excluded) == 0 {
		return name
	}
	return name + excludeInfix + strings.Join(excluded, "_")
}

// DefaultNameResolver names classes with NameFor.
func DefaultNameResolver(c *Class) string {
	return NameFor(c)
}

// SchemaName returns the component name the resolver configured by opts
// gives the representative class c.
func SchemaName(c *Class, opts ...Option) string {
	return newConfig(opts).nameResolver()(c)
}

// strategyResolver wraps a resolver so that its names follow strategy.
func strategyResolver(resolver NameResolver, strategy NamingStrategy) NameResolver {
	switch strategy {
	case NamingPascalCase:
		return func(c *Class) string { return toPascalCase(resolver(c)) }
	case NamingSnakeCase:
		return func(c *Class) string { return toSnakeCase(resolver(c)) }
	default:
		return resolver
	}
}

// toPascalCase title-cases each underscore or hyphen separated segment and
// joins them. Existing inner capitals are kept.
// Example: "Pet_exclude_password" -> "PetExcludePassword"
func toPascalCase(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	caser := cases.Title(language.English, cases.NoLower)
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(caser.String(p))
	}
	return b.String()
}

// toSnakeCase converts a string to snake_case.
// Uppercase letters are prefixed with underscore and lowercased.
// Example: "PetOwner_exclude_phone" -> "pet_owner_exclude_phone"
func toSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	prevUnderscore := true
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			if !prevUnderscore {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
			prevUnderscore = false
		case r == '-' || r == '.' || r == '_':
			if !prevUnderscore {
				result.WriteRune('_')
			}
			prevUnderscore = true
		default:
			result.WriteRune(r)
			prevUnderscore = false
		}
	}
	return strings.TrimSuffix(result.String(), "_")
}

// sanitizePath replaces path separators with underscores.
// Example: "github.com/org/models" -> "github.com_org_models"
func sanitizePath(s string) string {
	return strings.ReplaceAll(s, "/", "_")
}
