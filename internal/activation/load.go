package activation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseVector decodes a YAML mapping of node name to activation.
// The result is not validated; callers run Validate before rendering.
func ParseVector(data []byte) (Vector, error) {
	var raw map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse activation vector: %w", err)
	}
	return Vector(raw), nil
}

// LoadVector reads an activation vector from a YAML file.
func LoadVector(path string) (Vector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read activation vector: %w", err)
	}
	return ParseVector(data)
}
