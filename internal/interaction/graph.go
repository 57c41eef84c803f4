// Package interaction models cross-dimensional coupling between activation
// nodes as a weighted directed graph. Influence propagates in a single
// deterministic pass: each node's activation is nudged by the weighted
// average of its significant incoming signals, bounded so no node moves
// more than 30% from its original value.
package interaction

import (
	"fmt"
	"math"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/activation"
)

// SignificanceThreshold is the minimum weight magnitude for an edge to
// participate in propagation. Weaker couplings are ignored.
const SignificanceThreshold = 0.1

// maxAdjustment bounds how far propagation can move a value, as a
// fraction of the original.
const maxAdjustment = 0.3

// Graph is a weighted directed graph over the 27 activation nodes.
// weights[i][j] is the influence of node j on node i. The diagonal is
// ignored: a node never influences itself.
type Graph struct {
	nodes   []string
	index   map[string]int
	weights [][]float64
}

// New builds a graph from an ordered node list and a square weight matrix
// whose rows and columns follow that order.
func New(nodes []string, weights [][]float64) (*Graph, error) {
	if len(weights) != len(nodes) {
		return nil, fmt.Errorf("weight matrix has %d rows for %d nodes", len(weights), len(nodes))
	}
	index := make(map[string]int, len(nodes))
	for i, name := range nodes {
		if !activation.IsNode(name) {
			return nil, fmt.Errorf("unknown node name %q at position %d", name, i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate node name %q", name)
		}
		index[name] = i
	}
	for i, row := range weights {
		if len(row) != len(nodes) {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), len(nodes))
		}
		for j, w := range row {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("weight [%d][%d] is not finite", i, j)
			}
		}
	}
	return &Graph{nodes: nodes, index: index, weights: weights}, nil
}

// Nodes returns the ordered node list defining matrix axes.
func (g *Graph) Nodes() []string { return g.nodes }

// AdjustmentFactor computes the propagation multiplier for one node given
// the full current vector: a weighted average of significant incoming
// signals recentered around 0.5, scaled to at most ±30%. It returns 1.0
// when the node is absent from the graph or has no significant incoming
// edges. Safe on a nil graph.
func (g *Graph) AdjustmentFactor(node string, v activation.Vector) float64 {
	if g == nil {
		return 1.0
	}
	i, ok := g.index[node]
	if !ok {
		return 1.0
	}

	var influence, total float64
	for j, other := range g.nodes {
		if j == i {
			continue
		}
		w := g.weights[i][j]
		if math.Abs(w) <= SignificanceThreshold {
			continue
		}
		signal, ok := v[other]
		if !ok {
			continue
		}
		influence += w * signal
		total += math.Abs(w)
	}
	if total == 0 {
		return 1.0
	}

	avg := influence / total
	factor := 1.0 + maxAdjustment*(avg-0.5)
	return clamp(factor, 1-maxAdjustment, 1+maxAdjustment)
}

// Propagate redistributes influence across the vector in a single pass,
// returning a derived copy. Every node's new value is computed from the
// original vector, so iteration order cannot affect the result. A nil
// graph is the identity: the input is cloned unchanged.
func (g *Graph) Propagate(v activation.Vector) activation.Vector {
	out := v.Clone()
	if g == nil {
		return out
	}
	for _, node := range g.nodes {
		value, ok := v[node]
		if !ok {
			continue
		}
		out[node] = clamp(value*g.AdjustmentFactor(node, v), 0, 1)
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
