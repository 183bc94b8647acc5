package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FilterConfig represents the catalog family filter file. Operators use it
// to bench model families without a redeploy, e.g. when an upstream starts
// listing a broken preview family.
//
// Example file:
//
//	catalog:
//	  excluded_families:
//	    - embedding
//	    - whisper
//	    - deprecated
type FilterConfig struct {
	Catalog struct {
		ExcludedFamilies []string `yaml:"excluded_families"`
	} `yaml:"catalog"`
}

// LoadFilterConfig loads the catalog filter from a YAML file.
// The path parameter is expected to come from a trusted source (command-line
// argument or environment), not user input.
func LoadFilterConfig(path string) (*FilterConfig, error) {
	// #nosec G304 -- path is provided by trusted source (env/CLI), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read filter file: %w", err)
	}

	var config FilterConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse filter file: %w", err)
	}

	if err := validateFilterConfig(&config); err != nil {
		return nil, fmt.Errorf("filter validation failed: %w", err)
	}

	return &config, nil
}

// validateFilterConfig validates the loaded filter.
func validateFilterConfig(config *FilterConfig) error {
	if len(config.Catalog.ExcludedFamilies) == 0 {
		return fmt.Errorf("excluded_families cannot be empty")
	}
	for _, family := range config.Catalog.ExcludedFamilies {
		if family == "" {
			return fmt.Errorf("excluded_families entries cannot be blank")
		}
	}
	return nil
}
