package resolve

import (
	"sort"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/activation"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/interaction"
)

// DefaultActiveThreshold is the minimum resolved intensity for an
// invocation to survive thresholding.
const DefaultActiveThreshold = 0.1

// intensityPriorityWeight converts resolved intensity into priority-score
// points, stacked on the dimension's base priority.
const intensityPriorityWeight = 5.0

// Invocation is one resolved effect application, ready for the compositor.
type Invocation struct {
	Node      string         // originating node name
	Effect    string         // effect id within the module
	Module    string         // primitive registry module key
	Intensity float64        // resolved intensity in [0, mapping max]
	NodeState float64        // effective activation, post-invert
	Aux       map[string]any // node-specific auxiliary parameters

	// Priority is the composition ordering score:
	// dimension base priority + 5 * intensity.
	Priority float64
}

// Options are the caller-supplied render parameters for resolution.
type Options struct {
	// ActiveThreshold drops invocations whose resolved intensity falls
	// below it.
	ActiveThreshold float64

	// GlobalIntensity is a session-wide scale knob, clamped to [0,2].
	GlobalIntensity float64

	// Graph, when non-nil, re-adjusts each node's intensity from its
	// significant neighbors in the interaction graph.
	Graph *interaction.Graph
}

// DefaultOptions returns resolution defaults: threshold 0.1, unit global
// intensity, no graph.
func DefaultOptions() Options {
	return Options{
		ActiveThreshold: DefaultActiveThreshold,
		GlobalIntensity: 1.0,
	}
}

// Resolve maps a full activation vector to an ordered invocation list.
// It refuses to run on an invalid vector, returning an
// *activation.InvalidVectorError carrying every violation. The returned
// invocations are sorted by priority, descending; ties keep canonical
// node order.
func Resolve(v activation.Vector, opts Options) ([]Invocation, error) {
	if violations := activation.Validate(v); len(violations) > 0 {
		return nil, &activation.InvalidVectorError{Violations: violations}
	}

	global := clamp(opts.GlobalIntensity, 0, 2)

	invocations := make([]Invocation, 0, len(activation.Nodes))
	for _, node := range activation.Nodes {
		m := mappings[node]

		effective := v[node]
		if m.Invert {
			effective = 1.0 - effective
		}

		intensity := shape(m, effective) * m.MaxIntensity
		intensity = clamp(intensity, 0, m.MaxIntensity)

		intensity *= opts.Graph.AdjustmentFactor(node, v)
		intensity *= global
		intensity = clamp(intensity, 0, m.MaxIntensity)

		// Strictly greater: an intensity sitting exactly on the
		// threshold does not survive.
		if intensity <= opts.ActiveThreshold {
			continue
		}

		dim, _ := activation.DimensionOf(node)
		invocations = append(invocations, Invocation{
			Node:      node,
			Effect:    m.Effect,
			Module:    m.Module,
			Intensity: intensity,
			NodeState: effective,
			Aux:       auxParams(node, effective, v),
			Priority:  activation.BasePriority(dim) + intensityPriorityWeight*intensity,
		})
	}

	sort.SliceStable(invocations, func(i, j int) bool {
		return invocations[i].Priority > invocations[j].Priority
	})

	return invocations, nil
}
