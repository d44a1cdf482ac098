package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tristate/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the config file looked up in the working directory.
const DefaultConfigName = "tristate.yaml"

// Config is the optional tristate.yaml file. Command-line flags override it.
type Config struct {
	Style    domain.Style `yaml:"style" json:"style"`
	LogLevel string       `yaml:"log_level" json:"log_level"`
	// LogFormat is "text" (default) or "json".
	LogFormat string `yaml:"log_format" json:"log_format"`
	Addr     string       `yaml:"addr" json:"addr"`
	// Outlines is the default outline source (file or directory).
	Outlines string `yaml:"outlines" json:"outlines"`
}

// LoadConfig reads a configuration file (YAML or JSON).
// A missing file is not an error: the zero Config is returned.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return &cfg, nil
}
