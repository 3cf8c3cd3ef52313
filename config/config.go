// Package config holds the caller-supplied configuration surface: input tab
// names, the optional per-agent allocation cap and the output path. Values
// come from an optional YAML file; CLI flags override file values and
// built-in defaults apply last.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration surface of one allocation run.
type Config struct {
	ContactsTab   string `yaml:"contacts_tab"`
	AgentsTab     string `yaml:"agents_tab"`
	PrioritiesTab string `yaml:"priorities_tab"`
	// MaxPerAgent caps contacts per agent this run; 0 means unlimited.
	MaxPerAgent int    `yaml:"max_allocations_per_agent"`
	Output      string `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ContactsTab:   "All Contacts",
		AgentsTab:     "Agents",
		PrioritiesTab: "Source Priorities",
		Output:        "allocation_output.xlsx",
	}
}

// Load reads a YAML config file over the defaults. Fields absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
