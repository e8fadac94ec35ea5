package record

// Option configures a Plugin, Converter or Registry.
type Option func(*config)

// DuplicatePolicy decides what happens when a schema name that is already
// bound to one class is registered for a different class.
type DuplicatePolicy int

const (
	// DuplicatePolicyReject returns a *oaserrors.DuplicateSchemaError.
	DuplicatePolicyReject DuplicatePolicy = iota

	// DuplicatePolicySkip keeps the first registration and ignores the new one.
	DuplicatePolicySkip
)

// String returns the policy name.
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicatePolicySkip:
		return "skip"
	default:
		return "reject"
	}
}

// config holds settings applied via options.
type config struct {
	resolver NameResolver
	strategy NamingStrategy
	logger   Logger
	policy   DuplicatePolicy
}

func newConfig(opts []Option) *config {
	cfg := &config{
		resolver: DefaultNameResolver,
		strategy: NamingDefault,
		logger:   NopLogger{},
		policy:   DuplicatePolicyReject,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// nameResolver returns the configured resolver with the naming strategy applied.
func (c *config) nameResolver() NameResolver {
	return strategyResolver(c.resolver, c.strategy)
}

// WithNameResolver replaces the default schema name resolver.
// A nil resolver keeps the default.
func WithNameResolver(resolver NameResolver) Option {
	return func(cfg *config) {
		if resolver != nil {
			cfg.resolver = resolver
		}
	}
}

// WithNamingStrategy sets the casing applied to resolved schema names.
func WithNamingStrategy(strategy NamingStrategy) Option {
	return func(cfg *config) {
		cfg.strategy = strategy
	}
}

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithDuplicatePolicy sets how conflicting schema registrations are handled.
func WithDuplicatePolicy(policy DuplicatePolicy) Option {
	return func(cfg *config) {
		cfg.policy = policy
	}
}
