package compose

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/effects"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/resolve"
)

// Mode is the strategy for merging multiple effect outputs.
type Mode string

const (
	// Layered applies every invocation to the base image independently
	// and stacks the results, highest priority on top.
	Layered Mode = "layered"
	// Sequential feeds each effect's output into the next, in priority
	// order.
	Sequential Mode = "sequential"
	// Parallel applies every invocation to the base independently and
	// averages the outputs, weighted by intensity, with the base held
	// at a reserved weight of 1.
	Parallel Mode = "parallel"
)

// UnknownModeError reports a composition mode outside the fixed set. It
// is raised before any primitive is invoked.
type UnknownModeError struct {
	Mode string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown composition mode %q", e.Mode)
}

// ParseMode validates a mode string from a caller.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Layered, Sequential, Parallel:
		return Mode(s), nil
	default:
		return "", &UnknownModeError{Mode: s}
	}
}

// Skip records one invocation the compositor dropped after its primitive
// failed. The render continues without it.
type Skip struct {
	Node   string `json:"node"`
	Effect string `json:"effect"`
	Reason string `json:"reason"`
}

// Diagnostics is the side channel for a single composition: which
// invocations were applied, which were skipped and why.
type Diagnostics struct {
	Mode    Mode     `json:"mode"`
	Applied []string `json:"applied"` // node names, in application order
	Skipped []Skip   `json:"skipped,omitempty"`
}

// layer is one entry of the layered stack.
type layer struct {
	image     *image.NRGBA
	inv       resolve.Invocation
	blendMode BlendMode
	mask      *effects.Mask
	z         int // higher draws later
}

// Compositor applies invocations through a primitive registry and merges
// the outputs. It holds no per-render state and is safe for concurrent
// renders.
type Compositor struct {
	registry *effects.Registry
	logger   *slog.Logger
}

// New creates a compositor over the given registry. A nil logger
// disables logging.
func New(registry *effects.Registry, logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Compositor{registry: registry, logger: logger}
}

// Compose merges the invocations onto base under the given mode. The
// invocation order must be the resolver's priority order, highest first.
// An empty invocation list returns a copy of the base image. Per-primitive
// failures are skipped and recorded in the diagnostics; validation of the
// mode happens before any pixel work. Cancellation is honored between
// invocations, but once merging has begun the merge runs to completion.
func (c *Compositor) Compose(ctx context.Context, base image.Image, mode Mode, invs []resolve.Invocation) (*image.NRGBA, *Diagnostics, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, nil, err
	}

	diag := &Diagnostics{Mode: mode, Applied: []string{}}
	src := imaging.Clone(base)
	if len(invs) == 0 {
		return src, diag, nil
	}

	switch mode {
	case Sequential:
		return c.composeSequential(ctx, src, invs, diag)
	case Parallel:
		outputs, err := c.fanOut(ctx, src, invs, diag)
		if err != nil {
			return nil, nil, err
		}
		return c.mergeParallel(src, invs, outputs, diag), diag, nil
	default:
		outputs, err := c.fanOut(ctx, src, invs, diag)
		if err != nil {
			return nil, nil, err
		}
		return c.mergeLayered(src, invs, outputs, diag), diag, nil
	}
}

// composeSequential runs the pipeline strategy: each surviving effect's
// output becomes the next effect's input.
func (c *Compositor) composeSequential(ctx context.Context, src *image.NRGBA, invs []resolve.Invocation, diag *Diagnostics) (*image.NRGBA, *Diagnostics, error) {
	current := src
	for _, inv := range invs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		out, err := c.applyOne(current, inv)
		if err != nil {
			c.skip(diag, inv, err)
			continue
		}
		current = out
		diag.Applied = append(diag.Applied, inv.Node)
	}
	return current, diag, nil
}

// fanOut applies every invocation to the immutable base concurrently.
// outputs[i] is nil where invocation i failed (recorded in diag). The
// join is complete before fanOut returns, keeping the merge deterministic.
func (c *Compositor) fanOut(ctx context.Context, base *image.NRGBA, invs []resolve.Invocation, diag *Diagnostics) ([]*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outputs := make([]*image.NRGBA, len(invs))
	errs := make([]error, len(invs))

	var wg sync.WaitGroup
	for i := range invs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outputs[i], errs[i] = c.applyOne(base, invs[i])
		}(i)
	}
	wg.Wait()

	// Cancellation is still honored after the join, before merging
	// starts: no partial merge is ever observable.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, err := range errs {
		if err != nil {
			c.skip(diag, invs[i], err)
		}
	}
	return outputs, nil
}

// mergeLayered stacks the outputs bottom-up: the highest-priority layer
// carries the highest z and is drawn last. Each layer blends under its
// derived mode and may be gated by a spatial mask.
func (c *Compositor) mergeLayered(base *image.NRGBA, invs []resolve.Invocation, outputs []*image.NRGBA, diag *Diagnostics) *image.NRGBA {
	layers := make([]layer, 0, len(invs))
	for i, out := range outputs {
		if out == nil {
			continue
		}
		inv := invs[i]
		layers = append(layers, layer{
			image:     out,
			inv:       inv,
			blendMode: blendModeFor(inv.Effect, inv.NodeState),
			mask:      effects.MaskFromAux(base.Rect.Dx(), base.Rect.Dy(), inv.Aux),
			z:         len(invs) - i,
		})
	}

	// Ascending z: low-priority layers first, highest priority on top.
	sort.Slice(layers, func(i, j int) bool { return layers[i].z < layers[j].z })
	for _, l := range layers {
		blended := blendImages(base, l.image, l.blendMode, l.inv.Intensity)
		if l.mask != nil {
			blended = applyMask(base, blended, l.mask)
		}
		base = blended
		diag.Applied = append(diag.Applied, l.inv.Node)
	}
	return base
}

// mergeParallel averages the outputs weighted by intensity, with the
// base image at the reserved weight of 1.
func (c *Compositor) mergeParallel(base *image.NRGBA, invs []resolve.Invocation, outputs []*image.NRGBA, diag *Diagnostics) *image.NRGBA {
	total := 1.0
	for i, out := range outputs {
		if out != nil {
			total += invs[i].Intensity
		}
	}

	acc := make([]float64, len(base.Pix))
	addWeighted := func(img *image.NRGBA, weight float64) {
		for p := 0; p < len(img.Pix); p += 4 {
			for ch := 0; ch < 3; ch++ {
				acc[p+ch] += float64(img.Pix[p+ch]) * weight
			}
		}
	}

	addWeighted(base, 1.0/total)
	for i, out := range outputs {
		if out == nil {
			continue
		}
		addWeighted(out, invs[i].Intensity/total)
		diag.Applied = append(diag.Applied, invs[i].Node)
	}

	result := imaging.Clone(base)
	for p := 0; p < len(result.Pix); p += 4 {
		for ch := 0; ch < 3; ch++ {
			result.Pix[p+ch] = clampPix(acc[p+ch])
		}
	}
	return result
}

// applyOne dispatches a single invocation to its primitive and normalizes
// the output. Outputs with mismatched dimensions are rejected.
func (c *Compositor) applyOne(img *image.NRGBA, inv resolve.Invocation) (*image.NRGBA, error) {
	prim, err := c.registry.Lookup(inv.Module, inv.Effect)
	if err != nil {
		return nil, err
	}
	out, err := prim.Apply(img, inv.Intensity, inv.NodeState, inv.Aux)
	if err != nil {
		return nil, fmt.Errorf("primitive %s/%s: %w", inv.Module, inv.Effect, err)
	}
	if out == nil {
		return nil, fmt.Errorf("primitive %s/%s returned no image", inv.Module, inv.Effect)
	}
	if out.Bounds().Dx() != img.Bounds().Dx() || out.Bounds().Dy() != img.Bounds().Dy() {
		return nil, fmt.Errorf("primitive %s/%s changed dimensions %v -> %v",
			inv.Module, inv.Effect, img.Bounds(), out.Bounds())
	}
	return imaging.Clone(out), nil
}

// skip records a contained per-primitive failure.
func (c *Compositor) skip(diag *Diagnostics, inv resolve.Invocation, err error) {
	c.logger.Warn("skipping failed effect",
		"node", inv.Node, "effect", inv.Effect, "error", err)
	diag.Skipped = append(diag.Skipped, Skip{
		Node:   inv.Node,
		Effect: inv.Effect,
		Reason: err.Error(),
	})
}

// applyMask gates blended over base: weight 1 pixels take the blended
// value, weight 0 pixels keep the base.
func applyMask(base, blended *image.NRGBA, mask *effects.Mask) *image.NRGBA {
	out := imaging.Clone(base)
	w := out.Rect.Dx()
	h := out.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := mask.At(x, y)
			i := y*out.Stride + x*4
			for ch := 0; ch < 3; ch++ {
				b := float64(base.Pix[i+ch])
				v := float64(blended.Pix[i+ch])
				out.Pix[i+ch] = clampPix(b*(1-m) + v*m)
			}
		}
	}
	return out
}
