package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleEntry holds the CSS selectors for one catalog source.
type RuleEntry struct {
	Product   string `yaml:"product"`
	Container string `yaml:"container"`
	Price     string `yaml:"price"`
	Link      string `yaml:"link"`
	Stock     string `yaml:"stock"`
}

// SourceEntry is one retail listing declared in the sources file.
type SourceEntry struct {
	Name string    `yaml:"name"`
	URL  string    `yaml:"url"`
	Rule RuleEntry `yaml:"rule"`
}

// SourcesFile represents the structure of the YAML source catalog.
type SourcesFile struct {
	Sources []SourceEntry `yaml:"sources"`
}

// LoadSourcesFile loads the source catalog at path. An empty path returns nil
// with no error; a path that cannot be read or parsed is an error.
func LoadSourcesFile(path string) ([]SourceEntry, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file SourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	seen := make(map[string]bool)
	for i, entry := range file.Sources {
		switch {
		case strings.TrimSpace(entry.Name) == "":
			return nil, fmt.Errorf("sources[%d]: name is required", i)
		case seen[entry.Name]:
			return nil, fmt.Errorf("sources[%d]: duplicate name %q", i, entry.Name)
		case entry.Rule.Product == "" || entry.Rule.Price == "":
			return nil, fmt.Errorf("sources[%d] %s: product and price selectors are required", i, entry.Name)
		}
		if err := validateURL(entry.URL); err != nil {
			return nil, fmt.Errorf("sources[%d] %s: %w", i, entry.Name, err)
		}
		seen[entry.Name] = true
	}

	return file.Sources, nil
}
