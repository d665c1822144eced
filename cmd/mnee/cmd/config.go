package cmd

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the mnee.yaml layout.
type FileConfig struct {
	API struct {
		URL string `yaml:"url"`
		Key string `yaml:"key"`
	} `yaml:"api"`
	Wallet struct {
		SeedFile string `yaml:"seed_file"`
		StoreDB  string `yaml:"store_db"`
	} `yaml:"wallet"`
}

// LoadFileConfig reads and parses the yaml config at path.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	if fc.API.URL == "" {
		return nil, errors.New("config: api.url is required")
	}
	return &fc, nil
}

// readSecret reads a secret from a file, trimming a trailing newline.
func readSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read secret %s: %w", path, err)
	}
	for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		data = data[:len(data)-1]
	}
	return string(data), nil
}
