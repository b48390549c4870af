package cliconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/seanmeissimilly/alinfo/pkg/localstore"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".alinforc.yaml", ".alinforc.yml"}

// GlobalConfigFileNames are the names to search for global config (in order).
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// GlobalConfigPath is where the global config file is written.
func GlobalConfigPath() string {
	return filepath.Join(localstore.DefaultConfigDir(), GlobalConfigFileNames[0])
}

// LoadOptions controls where LoadAll looks.
type LoadOptions struct {
	// WorkDir is searched for the local config and the dotenv file.
	// Defaults to the current directory.
	WorkDir string
	// GlobalDir holds the global config. Defaults to localstore.DefaultConfigDir.
	GlobalDir string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv LookupFunc
	// SkipDotEnv disables reading the dotenv file.
	SkipDotEnv bool
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.WorkDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			o.WorkDir = cwd
		}
	}
	if o.GlobalDir == "" {
		o.GlobalDir = localstore.DefaultConfigDir()
	}
	if o.LookupEnv == nil {
		o.LookupEnv = os.LookupEnv
	}
	return o
}

func findFirst(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindLocalConfig searches for .alinforc.yaml or .alinforc.yml in dir.
func FindLocalConfig(dir string) string {
	return findFirst(dir, LocalConfigFileNames)
}

// FindGlobalConfig returns the path to the global config file in dir.
// Returns empty string if not found.
func FindGlobalConfig(dir string) string {
	return findFirst(dir, GlobalConfigFileNames)
}

// LoadConfigFile loads a CLIConfig from a YAML file.
func LoadConfigFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}

	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}
	cfg.SetFields = make(map[string]bool, len(keys))
	for k := range keys {
		cfg.SetFields[k] = true
	}
	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

// SaveConfigFile writes cfg to path as YAML. Sources and the token are not written.
func SaveConfigFile(path string, cfg *CLIConfig) error {
	out := *cfg
	out.Token = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Result is a loaded configuration and the files it was read from.
type Result struct {
	Config     *CLIConfig
	GlobalPath string
	LocalPath  string
	DotEnvPath string
}

// LoadAll loads configuration from all sources except flags and merges them.
// Precedence: env > dotenv > local config > global config > defaults
func LoadAll(opts LoadOptions) (*Result, error) {
	opts = opts.withDefaults()
	res := &Result{Config: NewDefault()}

	if path := FindGlobalConfig(opts.GlobalDir); path != "" {
		globalCfg, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		MergeConfig(res.Config, globalCfg, SourceGlobal)
		res.GlobalPath = path
	}

	if path := FindLocalConfig(opts.WorkDir); path != "" {
		localCfg, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		MergeConfig(res.Config, localCfg, SourceLocal)
		res.LocalPath = path
	}

	dotenv := map[string]string{}
	if !opts.SkipDotEnv && opts.WorkDir != "" {
		path := filepath.Join(opts.WorkDir, DotEnvFileName)
		vars, err := ReadDotEnv(path)
		if err != nil {
			return nil, err
		}
		if _, statErr := os.Stat(path); !errors.Is(statErr, fs.ErrNotExist) {
			res.DotEnvPath = path
		}
		dotenv = vars
	}

	LoadEnvConfig(res.Config, opts.LookupEnv, dotenv)
	return res, nil
}
