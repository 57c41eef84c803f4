package interaction

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// graphFile is the on-disk YAML shape of an interaction graph.
type graphFile struct {
	Nodes   []string    `yaml:"nodes"`
	Weights [][]float64 `yaml:"weights"`
}

// Parse decodes a graph from YAML: an ordered node list plus a square
// weight matrix whose axes follow that order.
func Parse(data []byte) (*Graph, error) {
	var f graphFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse interaction graph: %w", err)
	}
	return New(f.Nodes, f.Weights)
}

// Load reads an interaction graph from a YAML file.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read interaction graph: %w", err)
	}
	return Parse(data)
}
