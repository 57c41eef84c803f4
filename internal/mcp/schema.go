// Package mcp provides an MCP (Model Context Protocol) server for phenoscope.
package mcp

import (
	"github.com/yaaman18/intrinsic-existence-media-art/internal/compose"
)

// RenderInput defines the input for the phenoscope_render tool.
type RenderInput struct {
	Input           string             `json:"input" jsonschema:"Path to the source image (PNG or JPEG)"`
	Output          string             `json:"output" jsonschema:"Path to write the rendered image to"`
	Vector          map[string]float64 `json:"vector" jsonschema:"Full 27-node activation vector with values in [0.0-1.0]"`
	Graph           string             `json:"graph,omitempty" jsonschema:"Path to an interaction graph YAML file"`
	Mode            string             `json:"mode,omitempty" jsonschema:"Composition mode: 'layered', 'sequential' or 'parallel' (default from config)"`
	GlobalIntensity *float64           `json:"global_intensity,omitempty" jsonschema:"Session-wide intensity scale, clamped to [0.0-2.0]"`
	ActiveThreshold *float64           `json:"active_threshold,omitempty" jsonschema:"Minimum resolved intensity for an effect to apply (0.0-1.0)"`
}

// RenderOutput defines the output for the phenoscope_render tool.
type RenderOutput struct {
	RenderID    string              `json:"render_id" jsonschema:"Unique id of this render"`
	Output      string              `json:"output" jsonschema:"Path the rendered image was written to"`
	Mode        string              `json:"mode" jsonschema:"Composition mode used"`
	Applied     []string            `json:"applied" jsonschema:"Node names of applied effects in application order"`
	Skipped     []compose.Skip      `json:"skipped,omitempty" jsonschema:"Effects that failed or were unknown, with reasons"`
	Invocations []InvocationSummary `json:"invocations" jsonschema:"Resolved effect invocations in priority order"`
	ElapsedMS   int64               `json:"elapsed_ms" jsonschema:"Wall-clock render time in milliseconds"`
}

// ResolveInput defines the input for the phenoscope_resolve_effects tool.
type ResolveInput struct {
	Vector          map[string]float64 `json:"vector" jsonschema:"Full 27-node activation vector with values in [0.0-1.0]"`
	Graph           string             `json:"graph,omitempty" jsonschema:"Path to an interaction graph YAML file"`
	GlobalIntensity *float64           `json:"global_intensity,omitempty" jsonschema:"Session-wide intensity scale, clamped to [0.0-2.0]"`
	ActiveThreshold *float64           `json:"active_threshold,omitempty" jsonschema:"Minimum resolved intensity for an effect to survive (0.0-1.0)"`
}

// ResolveOutput defines the output for the phenoscope_resolve_effects tool.
type ResolveOutput struct {
	Invocations []InvocationSummary `json:"invocations" jsonschema:"Resolved effect invocations in priority order"`
	Count       int                 `json:"count" jsonschema:"Number of surviving invocations"`
}

// InvocationSummary is the wire view of one resolved effect.
type InvocationSummary struct {
	Node      string         `json:"node"`
	Module    string         `json:"module"`
	Effect    string         `json:"effect"`
	Intensity float64        `json:"intensity"`
	NodeState float64        `json:"node_state"`
	Priority  float64        `json:"priority"`
	Aux       map[string]any `json:"aux,omitempty"`
}

// ListNodesInput defines the input for the phenoscope_list_nodes tool.
type ListNodesInput struct {
	Dimension string `json:"dimension,omitempty" jsonschema:"Restrict the listing to one dimension (e.g. 'appearance')"`
}

// ListNodesOutput defines the output for the phenoscope_list_nodes tool.
type ListNodesOutput struct {
	Nodes []NodeInfo `json:"nodes" jsonschema:"Registered nodes in canonical order"`
	Count int        `json:"count" jsonschema:"Number of nodes listed"`
}

// NodeInfo describes one registered node and its effect mapping.
type NodeInfo struct {
	Name         string  `json:"name"`
	Dimension    string  `json:"dimension"`
	BasePriority float64 `json:"base_priority"`
	Module       string  `json:"module"`
	Effect       string  `json:"effect"`
	Curve        string  `json:"curve"`
	MaxIntensity float64 `json:"max_intensity"`
	Inverted     bool    `json:"inverted"`
}
