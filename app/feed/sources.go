package feed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourcesConfig is the YAML source list:
//
//	sources:
//	  - https://example.com/rss
type SourcesConfig struct {
	Sources []string `yaml:"sources"`
}

// LoadSources reads the RSS/Atom source URL list from a YAML file.
func LoadSources(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sources file: %w", err)
	}
	defer f.Close()

	var cfg SourcesConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s lists no feeds", path)
	}
	return cfg.Sources, nil
}
