package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	str := func(key, value string, dst *string) {
		if value != "" {
			*dst = value
			target.Sources[key] = sourceType
		}
	}
	str("backendUrl", source.BackendURL, &target.BackendURL)
	str("environment", source.Environment, &target.Environment)
	str("token", source.Token, &target.Token)
	str("dataDir", source.DataDir, &target.DataDir)
	str("staleResponses", source.StaleResponses, &target.StaleResponses)
	str("logLevel", source.LogLevel, &target.LogLevel)
	str("logFormat", source.LogFormat, &target.LogFormat)

	// For booleans, checking `if source.X` cannot detect an explicit false.
	// SetFields (populated during file loading and from changed flags) tells
	// whether a boolean was explicitly present in the source.
	if boolIsSet(source, "verbose") {
		target.Verbose = source.Verbose
		target.Sources["verbose"] = sourceType
	}
	if boolIsSet(source, "json") {
		target.JSON = source.JSON
		target.Sources["json"] = sourceType
	}
}

// boolIsSet reports whether a boolean field identified by its YAML key was
// explicitly set in the source config. Without SetFields only true counts
// as set.
func boolIsSet(cfg *CLIConfig, yamlKey string) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[yamlKey]
	}
	switch yamlKey {
	case "verbose":
		return cfg.Verbose
	case "json":
		return cfg.JSON
	}
	return false
}
