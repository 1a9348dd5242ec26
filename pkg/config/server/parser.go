package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

// ParseConfigFile reads a server config file. Defaults are not applied.
func ParseConfigFile(path string) (*VideoMCPServerConfig, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path to server config file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read server config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes YAML or JSON config data.
func ParseConfig(data []byte) (*VideoMCPServerConfig, error) {
	cfg := &VideoMCPServerConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal server config file: %w", err)
	}

	return cfg, nil
}

// UnmarshalJSON rejects files of another kind or schema version before
// decoding the rest.
func (c *VideoMCPServerConfig) UnmarshalJSON(data []byte) error {
	type Doppleganger VideoMCPServerConfig

	tmp := (*Doppleganger)(c)
	if err := json.Unmarshal(data, tmp); err != nil {
		return err
	}

	if c.Kind == "" {
		return fmt.Errorf("kind field is required, expected %s", KindVideoMCPServerConfig)
	}
	if c.Kind != KindVideoMCPServerConfig {
		return fmt.Errorf("invalid kind %s, expected %s", c.Kind, KindVideoMCPServerConfig)
	}

	if c.SchemaVersion != SchemaVersion {
		return fmt.Errorf("invalid schema version %s, expected %s - please migrate your file", c.SchemaVersion, SchemaVersion)
	}

	return nil
}
