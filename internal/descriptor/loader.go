package descriptor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and decodes a mapping document from the given path.
func LoadFile(path string) (*HibernateMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping document %s: %w", path, err)
	}

	return Parse(data, path)
}

// Parse decodes YAML data into a mapping document. name identifies the
// document in error messages.
func Parse(data []byte, name string) (*HibernateMapping, error) {
	var hm HibernateMapping

	err := yaml.Unmarshal(data, &hm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping document %s: %w", name, err)
	}

	return &hm, nil
}

