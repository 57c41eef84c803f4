// Package resolve turns a validated activation vector into an ordered list
// of effect invocations. Each node carries a static mapping to an effect
// primitive, an intensity-shaping curve, and a rule for auxiliary
// parameters; surviving invocations are ordered by dimension priority.
package resolve

import "github.com/yaaman18/intrinsic-existence-media-art/internal/activation"

// Curve selects how a node's activation is shaped into an intensity.
type Curve string

const (
	// Linear passes the activation through unchanged.
	Linear Curve = "linear"
	// Exponential squares the activation, deepening low values and
	// emphasizing high ones.
	Exponential Curve = "exponential"
	// Sigmoid applies a steep logistic transition centered at 0.5.
	Sigmoid Curve = "sigmoid"
	// Threshold gates below the mapping threshold, then rescales the
	// remainder to the full range.
	Threshold Curve = "threshold"
)

// Mapping is the static configuration binding one node to one effect.
type Mapping struct {
	Node         string
	Effect       string // effect id within the registry module
	Module       string // primitive registry module key
	Curve        Curve
	Threshold    float64 // used by the threshold curve
	MaxIntensity float64 // resolved intensity never exceeds this
	Invert       bool    // use 1-value as the effective activation
}

// mappings holds the fixed per-node configuration, one entry per node,
// keyed in the vector's canonical node order.
var mappings = map[string]Mapping{
	"appearance_density":      {Effect: "density", Module: "appearance", Curve: Sigmoid, MaxIntensity: 0.8},
	"appearance_luminosity":   {Effect: "luminosity", Module: "appearance", Curve: Linear, MaxIntensity: 1.0},
	"appearance_chromaticity": {Effect: "chromaticity", Module: "appearance", Curve: Exponential, MaxIntensity: 0.9},

	"intentional_focus":   {Effect: "focus", Module: "intentional", Curve: Threshold, Threshold: 0.3, MaxIntensity: 1.0},
	"intentional_horizon": {Effect: "horizon", Module: "intentional", Curve: Linear, MaxIntensity: 0.7},
	"intentional_depth":   {Effect: "depth", Module: "intentional", Curve: Sigmoid, MaxIntensity: 1.0},

	"temporal_motion":   {Effect: "motion", Module: "temporal", Curve: Exponential, MaxIntensity: 0.8},
	"temporal_decay":    {Effect: "decay", Module: "temporal", Curve: Linear, MaxIntensity: 0.9},
	"temporal_duration": {Effect: "duration", Module: "temporal", Curve: Sigmoid, MaxIntensity: 0.6},

	"synesthetic_temperature": {Effect: "temperature", Module: "synesthetic", Curve: Linear, MaxIntensity: 0.8},
	"synesthetic_weight":      {Effect: "weight", Module: "synesthetic", Curve: Sigmoid, MaxIntensity: 0.7},
	"synesthetic_texture":     {Effect: "texture", Module: "synesthetic", Curve: Threshold, Threshold: 0.4, MaxIntensity: 1.0},

	"ontological_presence":  {Effect: "presence", Module: "ontological", Curve: Exponential, MaxIntensity: 1.0},
	"ontological_boundary":  {Effect: "boundary", Module: "ontological", Curve: Threshold, Threshold: 0.5, MaxIntensity: 1.0},
	"ontological_plurality": {Effect: "plurality", Module: "ontological", Curve: Sigmoid, MaxIntensity: 0.6},

	"semantic_entities":  {Effect: "entities", Module: "semantic", Curve: Threshold, Threshold: 0.6, MaxIntensity: 1.0},
	"semantic_relations": {Effect: "relations", Module: "semantic", Curve: Linear, MaxIntensity: 0.8},
	"semantic_actions":   {Effect: "actions", Module: "semantic", Curve: Exponential, MaxIntensity: 0.7},

	"conceptual_cultural":   {Effect: "cultural", Module: "conceptual", Curve: Sigmoid, MaxIntensity: 0.9},
	"conceptual_symbolic":   {Effect: "symbolic", Module: "conceptual", Curve: Threshold, Threshold: 0.4, MaxIntensity: 1.0},
	"conceptual_functional": {Effect: "functional", Module: "conceptual", Curve: Linear, MaxIntensity: 0.6},

	"being_animacy":       {Effect: "animacy", Module: "being", Curve: Exponential, MaxIntensity: 0.8},
	"being_agency":        {Effect: "agency", Module: "being", Curve: Sigmoid, MaxIntensity: 0.7},
	"being_artificiality": {Effect: "artificiality", Module: "being", Curve: Threshold, Threshold: 0.5, MaxIntensity: 1.0},

	"certainty_clarity": {Effect: "clarity", Module: "certainty", Curve: Linear, MaxIntensity: 1.0},
	// certainty_ambiguity is deliberately non-inverted even though its
	// siblings are documented as certainty-suppressing: high ambiguity
	// strengthens the effect. The asymmetry is intentional upstream;
	// keep it explicit here and in tests.
	"certainty_ambiguity":    {Effect: "ambiguity", Module: "certainty", Curve: Sigmoid, MaxIntensity: 0.8, Invert: false},
	"certainty_multiplicity": {Effect: "multiplicity", Module: "certainty", Curve: Exponential, MaxIntensity: 0.6},
}

func init() {
	// Backfill Node and the default curve threshold so table literals
	// stay compact.
	for name, m := range mappings {
		m.Node = name
		if m.Threshold == 0 {
			m.Threshold = 0.5
		}
		mappings[name] = m
	}
}

// MappingFor returns the static mapping for a node name.
func MappingFor(node string) (Mapping, bool) {
	m, ok := mappings[node]
	return m, ok
}

// Mappings returns all 27 mappings in canonical node order.
func Mappings() []Mapping {
	out := make([]Mapping, 0, len(activation.Nodes))
	for _, n := range activation.Nodes {
		out = append(out, mappings[n])
	}
	return out
}
