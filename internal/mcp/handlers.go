package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/activation"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/compose"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/history"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/imgio"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/interaction"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/render"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/resolve"
)

// registerTools registers all phenoscope MCP tools with the server.
func (s *Server) registerTools() error {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "phenoscope_render",
		Description: "Render an image through the activation pipeline: resolve the 27-node vector into effects and compose them onto the input image",
	}, s.handleRender)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "phenoscope_resolve_effects",
		Description: "Resolve an activation vector into effect invocations without touching any image",
	}, s.handleResolveEffects)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "phenoscope_list_nodes",
		Description: "List the 27 registered activation nodes with their dimensions, priorities and effect mappings",
	}, s.handleListNodes)

	return nil
}

// handleRender implements the phenoscope_render tool.
func (s *Server) handleRender(ctx context.Context, req *sdk.CallToolRequest, args RenderInput) (*sdk.CallToolResult, RenderOutput, error) {
	base, err := imgio.Load(args.Input)
	if err != nil {
		return nil, RenderOutput{}, err
	}

	renderReq, err := s.buildRequest(args.Vector, args.Graph, args.Mode, args.GlobalIntensity, args.ActiveThreshold)
	if err != nil {
		return nil, RenderOutput{}, err
	}

	result, err := s.renderer.Render(ctx, base, renderReq)
	if err != nil {
		return nil, RenderOutput{}, err
	}

	if err := imgio.Save(result.Image, args.Output); err != nil {
		return nil, RenderOutput{}, err
	}

	if s.store != nil {
		rec := history.Record{
			ID:          result.ID,
			CreatedAt:   time.Now().UTC(),
			Mode:        string(renderReq.Mode),
			Vector:      activation.Vector(args.Vector),
			Invocations: result.Invocations,
			Applied:     result.Diagnostics.Applied,
			Skipped:     result.Diagnostics.Skipped,
			Elapsed:     result.Elapsed,
		}
		if err := s.store.Append(ctx, rec); err != nil {
			s.logger.Warn("failed to record render history", "render_id", result.ID, "error", err)
		}
	}

	return nil, RenderOutput{
		RenderID:    result.ID,
		Output:      args.Output,
		Mode:        string(renderReq.Mode),
		Applied:     result.Diagnostics.Applied,
		Skipped:     result.Diagnostics.Skipped,
		Invocations: summarize(result.Invocations),
		ElapsedMS:   result.Elapsed.Milliseconds(),
	}, nil
}

// handleResolveEffects implements the phenoscope_resolve_effects tool.
func (s *Server) handleResolveEffects(ctx context.Context, req *sdk.CallToolRequest, args ResolveInput) (*sdk.CallToolResult, ResolveOutput, error) {
	vec := activation.Vector(args.Vector)
	if violations := activation.Validate(vec); len(violations) > 0 {
		return nil, ResolveOutput{}, &activation.InvalidVectorError{Violations: violations}
	}

	opts := resolve.DefaultOptions()
	opts.ActiveThreshold = s.cfg.Render.ActiveThreshold
	opts.GlobalIntensity = s.cfg.Render.GlobalIntensity
	if args.ActiveThreshold != nil {
		opts.ActiveThreshold = *args.ActiveThreshold
	}
	if args.GlobalIntensity != nil {
		opts.GlobalIntensity = *args.GlobalIntensity
	}

	if args.Graph != "" {
		graph, err := interaction.Load(args.Graph)
		if err != nil {
			return nil, ResolveOutput{}, err
		}
		vec = graph.Propagate(vec)
		opts.Graph = graph
	}

	invocations, err := resolve.Resolve(vec, opts)
	if err != nil {
		return nil, ResolveOutput{}, err
	}

	summaries := summarize(invocations)
	return nil, ResolveOutput{
		Invocations: summaries,
		Count:       len(summaries),
	}, nil
}

// handleListNodes implements the phenoscope_list_nodes tool.
func (s *Server) handleListNodes(ctx context.Context, req *sdk.CallToolRequest, args ListNodesInput) (*sdk.CallToolResult, ListNodesOutput, error) {
	if args.Dimension != "" {
		known := false
		for _, d := range activation.Dimensions {
			if string(d) == args.Dimension {
				known = true
				break
			}
		}
		if !known {
			return nil, ListNodesOutput{}, fmt.Errorf("unknown dimension: %s", args.Dimension)
		}
	}

	var nodes []NodeInfo
	for _, m := range resolve.Mappings() {
		dim, _ := activation.DimensionOf(m.Node)
		if args.Dimension != "" && string(dim) != args.Dimension {
			continue
		}
		nodes = append(nodes, NodeInfo{
			Name:         m.Node,
			Dimension:    string(dim),
			BasePriority: activation.BasePriority(dim),
			Module:       m.Module,
			Effect:       m.Effect,
			Curve:        string(m.Curve),
			MaxIntensity: m.MaxIntensity,
			Inverted:     m.Invert,
		})
	}

	return nil, ListNodesOutput{Nodes: nodes, Count: len(nodes)}, nil
}

// buildRequest merges tool arguments over configured render defaults.
func (s *Server) buildRequest(vector map[string]float64, graphPath, mode string, global, threshold *float64) (render.Request, error) {
	req := render.Request{
		Vector:          activation.Vector(vector),
		Mode:            compose.Mode(s.cfg.Render.Mode),
		Propagate:       s.cfg.Render.Propagate,
		ActiveThreshold: s.cfg.Render.ActiveThreshold,
		GlobalIntensity: s.cfg.Render.GlobalIntensity,
	}
	if mode != "" {
		parsed, err := compose.ParseMode(mode)
		if err != nil {
			return render.Request{}, err
		}
		req.Mode = parsed
	}
	if threshold != nil {
		req.ActiveThreshold = *threshold
	}
	if global != nil {
		req.GlobalIntensity = *global
	}
	if graphPath != "" {
		graph, err := interaction.Load(graphPath)
		if err != nil {
			return render.Request{}, err
		}
		req.Graph = graph
	}
	return req, nil
}

func summarize(invocations []resolve.Invocation) []InvocationSummary {
	out := make([]InvocationSummary, 0, len(invocations))
	for _, inv := range invocations {
		out = append(out, InvocationSummary{
			Node:      inv.Node,
			Module:    inv.Module,
			Effect:    inv.Effect,
			Intensity: inv.Intensity,
			NodeState: inv.NodeState,
			Priority:  inv.Priority,
			Aux:       inv.Aux,
		})
	}
	return out
}
