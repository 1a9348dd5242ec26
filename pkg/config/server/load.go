package server

import "fmt"

// LoadOptions selects where configuration comes from. Both paths are optional.
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
}

// Load builds the startup configuration: dotenv file, then the config file
// (or the built-in defaults), then environment overrides, then defaults for
// anything still unset. The result is validated.
func Load(opts LoadOptions) (*VideoMCPServerConfig, error) {
	if err := LoadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	cfg := &VideoMCPServerConfig{Kind: KindVideoMCPServerConfig, SchemaVersion: SchemaVersion}
	if opts.ConfigFile != "" {
		parsed, err := ParseConfigFile(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}

	if cfg.Runtime == nil {
		cfg.Runtime = &ServerRuntime{}
	}
	if err := NewEnvRuntimeOverrider().ApplyOverrides(cfg.Runtime); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if cfg.Backend == nil {
		cfg.Backend = &BackendConfig{}
	}
	cfg.Backend.ApplyBackendEnv()

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
