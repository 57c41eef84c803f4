package resolve

import (
	"math"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/activation"
)

// auxRule computes a node's auxiliary parameters from its effective
// activation and the full vector. Rules must be pure: same inputs,
// same outputs.
type auxRule func(effective float64, v activation.Vector) map[string]any

// auxNone is the empty rule for nodes without node-specific parameters.
func auxNone(float64, activation.Vector) map[string]any { return nil }

// auxRules is the per-node rule table. Every node has an entry; hidden
// fallthrough by name matching is not allowed.
var auxRules = map[string]auxRule{
	"appearance_density": func(e float64, _ activation.Vector) map[string]any {
		return map[string]any{
			"cluster_preference": e > 0.5,
			"cluster_count":      int(3 + e*5),
		}
	},
	"appearance_luminosity": func(e float64, _ activation.Vector) map[string]any {
		mode := "conceal"
		if e > 0.5 {
			mode = "enhance"
		}
		return map[string]any{
			"disclosure_mode":       mode,
			"selective_enhancement": e > 0.7,
		}
	},
	"appearance_chromaticity": func(e float64, _ activation.Vector) map[string]any {
		mode := "separation"
		if e > 0.5 {
			mode = "chiasme"
		}
		return map[string]any{
			"interaction_mode": mode,
			"color_depth":      e,
		}
	},

	"intentional_focus": auxNone,
	"intentional_horizon": func(e float64, _ activation.Vector) map[string]any {
		return map[string]any{
			"mask_type":      "gradient",
			"mask_direction": "vertical",
		}
	},
	"intentional_depth": func(e float64, _ activation.Vector) map[string]any {
		return map[string]any{
			"mask_type":   "center",
			"mask_radius": 0.5 + e*0.5,
		}
	},

	"temporal_motion": func(e float64, _ activation.Vector) map[string]any {
		motion := "trail"
		if e < 0.4 {
			motion = "blur"
		}
		return map[string]any{
			"motion_type":        motion,
			"direction_variance": e * 180, // degrees
		}
	},
	"temporal_decay": func(e float64, _ activation.Vector) map[string]any {
		pattern := "selective"
		if e < 0.5 {
			pattern = "uniform"
		}
		return map[string]any{
			"decay_pattern": pattern,
			"aging_factor":  e,
		}
	},
	"temporal_duration": auxNone,

	"synesthetic_temperature": func(e float64, _ activation.Vector) map[string]any {
		bias := "cool"
		if e > 0.5 {
			bias = "warm"
		}
		return map[string]any{
			"temperature_bias":  bias,
			"thermal_intensity": math.Abs(e-0.5) * 2,
		}
	},
	"synesthetic_weight": func(e float64, _ activation.Vector) map[string]any {
		dir := "up"
		if e > 0.5 {
			dir = "down"
		}
		return map[string]any{
			"gravity_direction": dir,
			"mass_factor":       e,
		}
	},
	"synesthetic_texture": auxNone,

	"ontological_presence":  auxNone,
	"ontological_boundary":  auxNone,
	"ontological_plurality": auxNone,

	"semantic_entities":  auxNone,
	"semantic_relations": auxNone,
	"semantic_actions":   auxNone,

	"conceptual_cultural":   auxNone,
	"conceptual_symbolic":   auxNone,
	"conceptual_functional": auxNone,

	"being_animacy":       auxNone,
	"being_agency":        auxNone,
	"being_artificiality": auxNone,

	"certainty_clarity":      auxNone,
	"certainty_ambiguity":    auxNone,
	"certainty_multiplicity": auxNone,
}

// auxParams runs a node's rule and folds in cross-dimension influence
// figures: the mean activation of every other dimension, an overall
// modulation figure for appearance nodes, and a semantic boost for
// intentional nodes.
func auxParams(node string, effective float64, v activation.Vector) map[string]any {
	params := map[string]any{}
	if rule, ok := auxRules[node]; ok {
		for k, val := range rule(effective, v) {
			params[k] = val
		}
	}

	dim, _ := activation.DimensionOf(node)

	sums := make(map[activation.Dimension]float64)
	counts := make(map[activation.Dimension]int)
	var overall float64
	for _, n := range activation.Nodes {
		value, ok := v[n]
		if !ok {
			continue
		}
		overall += value
		d, _ := activation.DimensionOf(n)
		if d == dim {
			continue
		}
		sums[d] += value
		counts[d]++
	}
	for d, count := range counts {
		params[string(d)+"_influence"] = sums[d] / float64(count)
	}

	switch dim {
	case activation.Appearance:
		params["overall_modulation"] = overall / float64(len(activation.Nodes))
	case activation.Intentional:
		if count := counts[activation.Semantic]; count > 0 {
			params["semantic_focus_boost"] = sums[activation.Semantic] / float64(count)
		}
	}

	return params
}
