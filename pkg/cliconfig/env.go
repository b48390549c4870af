package cliconfig

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvBackendURL     = "ALINFO_BACKEND_URL"
	EnvEnvironment    = "ALINFO_ENV"
	EnvToken          = "ALINFO_TOKEN"
	EnvDataDir        = "ALINFO_DATA_DIR"
	EnvStaleResponses = "ALINFO_STALE_RESPONSES"
	EnvLogLevel       = "ALINFO_LOG_LEVEL"
	EnvLogFormat      = "ALINFO_LOG_FORMAT"
	EnvVerbose        = "ALINFO_VERBOSE"
	EnvJSON           = "ALINFO_JSON"
)

// DotEnvFileName is the dotenv file read from the working directory.
const DotEnvFileName = ".env"

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ReadDotEnv reads a dotenv file. A missing file yields an empty map.
func ReadDotEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}
	return vars, nil
}

// envLayer resolves variables from the real environment first and the
// dotenv values second, reporting which one answered.
type envLayer struct {
	lookup LookupFunc
	dotenv map[string]string
}

func (l envLayer) get(key string) (string, string, bool) {
	if l.lookup != nil {
		if v, ok := l.lookup(key); ok && v != "" {
			return v, SourceEnv, true
		}
	}
	if v, ok := l.dotenv[key]; ok && v != "" {
		return v, SourceDotEnv, true
	}
	return "", "", false
}

// LoadEnvConfig loads configuration from environment variables. Values in
// dotenv are used for variables the real environment does not set.
//
// ALINFO_BACKEND_URL is only honoured in production; in development the
// portal is expected on DefaultBackendURL unless a file or flag says otherwise.
func LoadEnvConfig(cfg *CLIConfig, lookup LookupFunc, dotenv map[string]string) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}
	env := envLayer{lookup: lookup, dotenv: dotenv}

	str := func(key, field string, dst *string) {
		if v, src, ok := env.get(key); ok {
			*dst = v
			cfg.Sources[field] = src
		}
	}
	boolean := func(key, field string, dst *bool) {
		if v, src, ok := env.get(key); ok {
			*dst = v == "true" || v == "1" || v == "yes"
			cfg.Sources[field] = src
		}
	}

	str(EnvEnvironment, "environment", &cfg.Environment)
	if cfg.IsProduction() {
		str(EnvBackendURL, "backendUrl", &cfg.BackendURL)
	}
	str(EnvToken, "token", &cfg.Token)
	str(EnvDataDir, "dataDir", &cfg.DataDir)
	str(EnvStaleResponses, "staleResponses", &cfg.StaleResponses)
	str(EnvLogLevel, "logLevel", &cfg.LogLevel)
	str(EnvLogFormat, "logFormat", &cfg.LogFormat)
	boolean(EnvVerbose, "verbose", &cfg.Verbose)
	boolean(EnvJSON, "json", &cfg.JSON)
}
