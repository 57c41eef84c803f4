// Package activation defines the 27-node activation model: the fixed node
// registry, the activation vector supplied by the narrative collaborator,
// and validation of incoming vectors before any rendering work starts.
package activation

import "strings"

// Dimension is one of the nine semantic dimensions. Each dimension owns
// exactly three nodes, identified by the dimension name as prefix.
type Dimension string

const (
	Appearance  Dimension = "appearance"
	Intentional Dimension = "intentional"
	Temporal    Dimension = "temporal"
	Synesthetic Dimension = "synesthetic"
	Ontological Dimension = "ontological"
	Semantic    Dimension = "semantic"
	Conceptual  Dimension = "conceptual"
	Being       Dimension = "being"
	Certainty   Dimension = "certainty"
)

// Dimensions lists the nine dimensions in fixed priority order,
// highest first. Composition ordering depends on this ranking.
var Dimensions = []Dimension{
	Appearance,
	Intentional,
	Temporal,
	Synesthetic,
	Ontological,
	Semantic,
	Conceptual,
	Being,
	Certainty,
}

// Nodes lists the 27 node names in canonical order: dimensions in priority
// order, three nodes each. This order defines matrix row/column identity
// for the interaction graph and the stable tiebreak for effect ordering.
var Nodes = []string{
	"appearance_density",
	"appearance_luminosity",
	"appearance_chromaticity",
	"intentional_focus",
	"intentional_horizon",
	"intentional_depth",
	"temporal_motion",
	"temporal_decay",
	"temporal_duration",
	"synesthetic_temperature",
	"synesthetic_weight",
	"synesthetic_texture",
	"ontological_presence",
	"ontological_boundary",
	"ontological_plurality",
	"semantic_entities",
	"semantic_relations",
	"semantic_actions",
	"conceptual_cultural",
	"conceptual_symbolic",
	"conceptual_functional",
	"being_animacy",
	"being_agency",
	"being_artificiality",
	"certainty_clarity",
	"certainty_ambiguity",
	"certainty_multiplicity",
}

// nodeIndex maps node name to its position in Nodes.
var nodeIndex = func() map[string]int {
	m := make(map[string]int, len(Nodes))
	for i, n := range Nodes {
		m[n] = i
	}
	return m
}()

// basePriority ranks dimensions for effect ordering. Appearance outranks
// everything; certainty ranks last.
var basePriority = func() map[Dimension]float64 {
	m := make(map[Dimension]float64, len(Dimensions))
	for i, d := range Dimensions {
		m[d] = float64(len(Dimensions) - i)
	}
	return m
}()

// IsNode reports whether name is one of the 27 registered node names.
func IsNode(name string) bool {
	_, ok := nodeIndex[name]
	return ok
}

// Index returns the canonical position of a node name, or -1 if unknown.
func Index(name string) int {
	i, ok := nodeIndex[name]
	if !ok {
		return -1
	}
	return i
}

// DimensionOf returns the dimension a node belongs to, derived from its
// name prefix. The second return is false for unknown names.
func DimensionOf(name string) (Dimension, bool) {
	if !IsNode(name) {
		return "", false
	}
	prefix, _, _ := strings.Cut(name, "_")
	return Dimension(prefix), true
}

// BasePriority returns the fixed priority weight for a dimension.
// Unknown dimensions rank below everything.
func BasePriority(d Dimension) float64 {
	return basePriority[d]
}

// Vector is an activation vector: node name to activation in [0,1].
// Vectors are treated as immutable once handed to the pipeline; every
// transformation returns a derived copy.
type Vector map[string]float64

// Clone returns an independent copy of the vector.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Uniform returns a complete vector with every node set to value.
func Uniform(value float64) Vector {
	v := make(Vector, len(Nodes))
	for _, n := range Nodes {
		v[n] = value
	}
	return v
}
