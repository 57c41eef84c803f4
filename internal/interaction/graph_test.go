package interaction

import (
	"math"
	"testing"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/activation"
)

// zeroMatrix returns an n×n matrix of zeros.
func zeroMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// fullGraph builds a graph over all 27 nodes and fails the test on error.
func fullGraph(t *testing.T, weights [][]float64) *Graph {
	t.Helper()
	g, err := New(activation.Nodes, weights)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestNew_RejectsBadShapes(t *testing.T) {
	if _, err := New(activation.Nodes, zeroMatrix(26)); err == nil {
		t.Error("expected error for wrong row count")
	}

	m := zeroMatrix(27)
	m[3] = m[3][:26]
	if _, err := New(activation.Nodes, m); err == nil {
		t.Error("expected error for ragged row")
	}

	bad := append([]string{"not_a_node"}, activation.Nodes[1:]...)
	if _, err := New(bad, zeroMatrix(27)); err == nil {
		t.Error("expected error for unknown node name")
	}

	m = zeroMatrix(27)
	m[0][1] = math.NaN()
	if _, err := New(activation.Nodes, m); err == nil {
		t.Error("expected error for NaN weight")
	}
}

func TestPropagate_NilGraphIsIdentity(t *testing.T) {
	var g *Graph
	v := activation.Uniform(0.4)
	out := g.Propagate(v)
	for _, n := range activation.Nodes {
		if out[n] != v[n] {
			t.Fatalf("nil graph changed %s: %v -> %v", n, v[n], out[n])
		}
	}
}

func TestPropagate_ZeroMatrixIsIdentity(t *testing.T) {
	g := fullGraph(t, zeroMatrix(27))
	v := activation.Uniform(0.73)
	out := g.Propagate(v)
	for _, n := range activation.Nodes {
		if out[n] != v[n] {
			t.Fatalf("zero matrix changed %s: %v -> %v", n, v[n], out[n])
		}
	}
}

func TestPropagate_InsignificantWeightsIgnored(t *testing.T) {
	m := zeroMatrix(27)
	// All incoming weights at exactly the threshold: none participate.
	for j := 1; j < 27; j++ {
		m[0][j] = SignificanceThreshold
	}
	g := fullGraph(t, m)
	v := activation.Uniform(0.9)
	out := g.Propagate(v)
	if out[activation.Nodes[0]] != 0.9 {
		t.Errorf("threshold-magnitude weights should not propagate, got %v", out[activation.Nodes[0]])
	}
}

func TestPropagate_HighNeighborsAmplify(t *testing.T) {
	m := zeroMatrix(27)
	m[0][1] = 0.8 // appearance_luminosity influences appearance_density
	g := fullGraph(t, m)

	v := activation.Uniform(0.5)
	v["appearance_luminosity"] = 1.0
	out := g.Propagate(v)

	// avg influence = 1.0, factor = 1 + 0.3*(1.0-0.5) = 1.15.
	want := 0.5 * 1.15
	if math.Abs(out["appearance_density"]-want) > 1e-9 {
		t.Errorf("appearance_density = %v, want %v", out["appearance_density"], want)
	}
	// Nodes without significant incoming edges pass through.
	if out["temporal_motion"] != 0.5 {
		t.Errorf("unconnected node changed: %v", out["temporal_motion"])
	}
}

func TestPropagate_LowNeighborsSuppress(t *testing.T) {
	m := zeroMatrix(27)
	// temporal_decay suppressing ontological_presence when decay is low.
	decay := activation.Index("temporal_decay")
	presence := activation.Index("ontological_presence")
	m[presence][decay] = 1.0

	g := fullGraph(t, m)
	v := activation.Uniform(0.6)
	v["temporal_decay"] = 0.0
	out := g.Propagate(v)

	// avg influence = 0, factor = 1 + 0.3*(0-0.5) = 0.85.
	want := 0.6 * 0.85
	if math.Abs(out["ontological_presence"]-want) > 1e-9 {
		t.Errorf("ontological_presence = %v, want %v", out["ontological_presence"], want)
	}
}

func TestPropagate_BoundedAdjustment(t *testing.T) {
	m := zeroMatrix(27)
	// Strong negative coupling drives the raw average below zero; the
	// factor must still be bounded to ±30%.
	for j := 1; j < 27; j++ {
		m[0][j] = -1.0
	}
	g := fullGraph(t, m)
	v := activation.Uniform(1.0)
	out := g.Propagate(v)

	want := 1.0 * (1 - maxAdjustment)
	if math.Abs(out[activation.Nodes[0]]-want) > 1e-9 {
		t.Errorf("adjustment not bounded: got %v, want %v", out[activation.Nodes[0]], want)
	}
}

func TestPropagate_ClampsToUnitRange(t *testing.T) {
	m := zeroMatrix(27)
	m[0][1] = 1.0
	g := fullGraph(t, m)

	v := activation.Uniform(1.0)
	v[activation.Nodes[0]] = 0.95
	out := g.Propagate(v)
	if out[activation.Nodes[0]] > 1.0 {
		t.Errorf("propagation exceeded 1.0: %v", out[activation.Nodes[0]])
	}
}

func TestPropagate_SinglePassUsesOriginalVector(t *testing.T) {
	m := zeroMatrix(27)
	// Chain: node1 -> node0, node2 -> node1. A second-order effect on
	// node0 would only appear in an iterative solve.
	m[0][1] = 1.0
	m[1][2] = 1.0
	g := fullGraph(t, m)

	v := activation.Uniform(0.5)
	v[activation.Nodes[2]] = 1.0
	out := g.Propagate(v)

	// node0 sees only node1's ORIGINAL value (0.5): factor 1.0.
	if out[activation.Nodes[0]] != 0.5 {
		t.Errorf("propagation must be single-pass, got %v", out[activation.Nodes[0]])
	}
	// node1 sees node2 = 1.0: factor 1.15.
	if math.Abs(out[activation.Nodes[1]]-0.5*1.15) > 1e-9 {
		t.Errorf("node1 = %v, want %v", out[activation.Nodes[1]], 0.5*1.15)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	data := []byte(`
nodes: [appearance_density, appearance_luminosity, appearance_chromaticity]
weights:
  - [0.0, 0.5, 0.0]
  - [0.2, 0.0, 0.0]
  - [0.0, 0.0, 0.0]
`)
	g, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(g.Nodes()) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(g.Nodes()))
	}

	v := activation.Vector{
		"appearance_density":      0.5,
		"appearance_luminosity":   1.0,
		"appearance_chromaticity": 0.5,
	}
	out := g.Propagate(v)
	if math.Abs(out["appearance_density"]-0.5*1.15) > 1e-9 {
		t.Errorf("appearance_density = %v, want %v", out["appearance_density"], 0.5*1.15)
	}
}
