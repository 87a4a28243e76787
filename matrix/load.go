package matrix

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML document shape for a user-supplied matrix.
type File struct {
	Configs []Config `yaml:"configs"`
}

// LoadFromFile reads and validates a YAML matrix file. It is used to run
// ad-hoc subsets; the compiled-in Default matrix needs no file.
func LoadFromFile(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read matrix file: %w", err)
	}

	return Parse(data)
}

// Parse unmarshals a YAML matrix and validates it.
func Parse(data []byte) ([]Config, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse matrix YAML: %w", err)
	}

	if err := Validate(f.Configs); err != nil {
		return nil, err
	}

	return f.Configs, nil
}
