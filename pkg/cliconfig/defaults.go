package cliconfig

// DefaultBackendURL is the portal address used in development.
const DefaultBackendURL = "http://localhost:8000"

// DefaultEnvironment is the environment assumed when none is configured.
const DefaultEnvironment = EnvironmentDevelopment

// DefaultStaleResponses keeps every response, the last one to settle wins.
const DefaultStaleResponses = "keep"

// DefaultLogLevel only reports warnings and errors.
const DefaultLogLevel = "warn"

// DefaultLogFormat is human-readable text.
const DefaultLogFormat = "text"

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		BackendURL:     DefaultBackendURL,
		Environment:    DefaultEnvironment,
		StaleResponses: DefaultStaleResponses,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		Sources:        make(map[string]string),
	}

	// Mark all as default source
	for _, key := range []string{"backendUrl", "environment", "staleResponses", "logLevel", "logFormat"} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}

// IsProduction reports whether the production environment is selected.
func (c *CLIConfig) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}
