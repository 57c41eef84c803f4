// Package render wires the full pipeline: validate the activation vector,
// propagate influence through the interaction graph, resolve effect
// invocations, and compose the final image. A render call either returns
// a fully composed image or a structured error; it never returns a
// silently wrong image.
package render

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/activation"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/compose"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/effects"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/interaction"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/resolve"
)

// Request carries everything one render call needs. It is immutable for
// the duration of the pipeline; session state lives with the caller.
type Request struct {
	// Vector is the full 27-node activation vector.
	Vector activation.Vector

	// Graph is the optional interaction graph. Nil skips propagation.
	Graph *interaction.Graph

	// Propagate enables the graph-propagation stage. Ignored when
	// Graph is nil.
	Propagate bool

	// Mode selects the composition strategy.
	Mode compose.Mode

	// ActiveThreshold drops invocations below it after resolution.
	ActiveThreshold float64

	// GlobalIntensity is the session-wide intensity knob, clamped to
	// [0,2]. It must not change mid-pipeline; Request copies it once.
	GlobalIntensity float64
}

// Result is the outcome of one render call.
type Result struct {
	// ID uniquely identifies this render for history and diagnostics.
	ID string

	// Image is the fully composed output, same dimensions as the input.
	Image *image.NRGBA

	// Propagated is the post-propagation vector actually used for
	// resolution (a derived copy; the request vector is untouched).
	Propagated activation.Vector

	// Invocations lists the resolved effects in priority order.
	Invocations []resolve.Invocation

	// Diagnostics records applied and skipped effects.
	Diagnostics *compose.Diagnostics

	// Elapsed is the wall-clock duration of the pipeline.
	Elapsed time.Duration
}

// Renderer runs render requests against a primitive registry. It holds
// no per-render state and is safe for concurrent use.
type Renderer struct {
	compositor *compose.Compositor
	logger     *slog.Logger
}

// New creates a renderer over the given registry. A nil logger disables
// logging.
func New(registry *effects.Registry, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renderer{
		compositor: compose.New(registry, logger),
		logger:     logger,
	}
}

// Render runs the full pipeline on base. Validation and mode errors fail
// fast before any pixel work; per-primitive failures are contained and
// reported through the result's diagnostics. Cancellation is honored
// between stages.
func (r *Renderer) Render(ctx context.Context, base image.Image, req Request) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()

	if violations := activation.Validate(req.Vector); len(violations) > 0 {
		return nil, &activation.InvalidVectorError{Violations: violations}
	}
	if _, err := compose.ParseMode(string(req.Mode)); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vector := req.Vector.Clone()
	if req.Propagate && req.Graph != nil {
		vector = req.Graph.Propagate(vector)
	}

	opts := resolve.Options{
		ActiveThreshold: req.ActiveThreshold,
		GlobalIntensity: req.GlobalIntensity,
	}
	if req.Propagate {
		opts.Graph = req.Graph
	}
	invocations, err := resolve.Resolve(vector, opts)
	if err != nil {
		return nil, fmt.Errorf("resolution failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("resolved invocations",
		"render_id", id, "count", len(invocations), "mode", req.Mode)

	img, diag, err := r.compositor.Compose(ctx, base, req.Mode, invocations)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ID:          id,
		Image:       img,
		Propagated:  vector,
		Invocations: invocations,
		Diagnostics: diag,
		Elapsed:     time.Since(start),
	}
	r.logger.Info("render complete",
		"render_id", id,
		"mode", req.Mode,
		"applied", len(diag.Applied),
		"skipped", len(diag.Skipped),
		"elapsed", res.Elapsed)
	return res, nil
}
