// Package cliconfig provides configuration types and loading for the alinfo CLI.
package cliconfig

// CLIConfig represents the complete configuration for the alinfo CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables (ALINFO_*)
// 3. .env file in the current directory (never overrides real environment variables)
// 4. Local config file (.alinforc.yaml in current directory)
// 5. Global config file (~/.config/alinfo/config.yaml)
// 6. Default values (lowest priority)
type CLIConfig struct {
	// Portal settings
	BackendURL  string `yaml:"backendUrl" json:"backendUrl" validate:"required,http_url"`
	Environment string `yaml:"environment" json:"environment" validate:"oneof=development production"`
	// Token overrides the signed-in user's token. It is never printed.
	Token string `yaml:"token,omitempty" json:"-"`

	// Storage settings
	DataDir string `yaml:"dataDir,omitempty" json:"dataDir,omitempty"`

	// StaleResponses selects what happens to responses superseded by a newer
	// request of the same kind: keep (last settled wins) or discard.
	StaleResponses string `yaml:"staleResponses" json:"staleResponses" validate:"oneof=keep discard"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"logFormat" json:"logFormat" validate:"oneof=text json"`

	// Output settings
	Verbose bool `yaml:"verbose" json:"verbose"`
	JSON    bool `yaml:"json" json:"json"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records the keys explicitly present in a config file, so an
	// explicit false can be told apart from an absent boolean.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceDotEnv  = "dotenv"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Environments.
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)
