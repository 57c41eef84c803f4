package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/effects"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/resolve"
)

// uniformImage builds a w×h image with every channel set to v.
func uniformImage(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// addPrimitive returns a primitive that adds delta to every channel,
// scaled by nothing — a predictable, dimension-preserving transform.
func addPrimitive(delta int) effects.Func {
	return func(img image.Image, _, _ float64, _ map[string]any) (image.Image, error) {
		out := image.NewNRGBA(img.Bounds())
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := img.At(x, y).RGBA()
				out.Set(x, y, color.NRGBA{
					R: addClamp(uint8(r>>8), delta),
					G: addClamp(uint8(g>>8), delta),
					B: addClamp(uint8(bl>>8), delta),
					A: 255,
				})
			}
		}
		return out, nil
	}
}

func addClamp(v uint8, delta int) uint8 {
	n := int(v) + delta
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

// failPrimitive always fails.
func failPrimitive() effects.Func {
	return func(image.Image, float64, float64, map[string]any) (image.Image, error) {
		return nil, fmt.Errorf("deliberate failure")
	}
}

// stubRegistry registers add-primitives for nodes a/b and a failing one
// for node x, all under module "test".
func stubRegistry() *effects.Registry {
	r := effects.NewRegistry()
	r.Register("test", "a", addPrimitive(40))
	r.Register("test", "b", addPrimitive(-30))
	r.Register("test", "x", failPrimitive())
	return r
}

func inv(effect string, intensity float64) resolve.Invocation {
	return resolve.Invocation{
		Node:      "test_" + effect,
		Effect:    effect,
		Module:    "test",
		Intensity: intensity,
		NodeState: intensity,
	}
}

func pixelsEqual(a, b *image.NRGBA) bool {
	return a.Rect == b.Rect && bytes.Equal(a.Pix, b.Pix)
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"layered", "sequential", "parallel"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q): %v", s, err)
		}
	}
	_, err := ParseMode("recursive")
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
	var unknown *UnknownModeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownModeError, got %T", err)
	}
}

func TestCompose_UnknownModeBeforePixelWork(t *testing.T) {
	called := false
	r := effects.NewRegistry()
	r.Register("test", "a", effects.Func(func(img image.Image, _, _ float64, _ map[string]any) (image.Image, error) {
		called = true
		return img, nil
	}))
	c := New(r, nil)

	_, _, err := c.Compose(context.Background(), uniformImage(4, 4, 100), Mode("bogus"), []resolve.Invocation{inv("a", 0.5)})
	if err == nil {
		t.Fatal("expected mode error")
	}
	if called {
		t.Error("primitive invoked despite invalid mode")
	}
}

func TestCompose_EmptyInvocationsReturnsBase(t *testing.T) {
	c := New(stubRegistry(), nil)
	base := uniformImage(6, 6, 120)

	for _, mode := range []Mode{Layered, Sequential, Parallel} {
		out, diag, err := c.Compose(context.Background(), base, mode, nil)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if !pixelsEqual(base, out) {
			t.Errorf("%s: empty invocations must return the base image", mode)
		}
		if len(diag.Applied) != 0 || len(diag.Skipped) != 0 {
			t.Errorf("%s: diagnostics not empty: %+v", mode, diag)
		}
	}
}

func TestCompose_SequentialPipeline(t *testing.T) {
	c := New(stubRegistry(), nil)
	base := uniformImage(4, 4, 100)

	out, diag, err := c.Compose(context.Background(), base, Sequential,
		[]resolve.Invocation{inv("a", 0.9), inv("b", 0.5)})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	// a adds 40, then b subtracts 30 from a's output: 100+40-30.
	if got := out.Pix[0]; got != 110 {
		t.Errorf("pixel = %d, want 110", got)
	}
	if len(diag.Applied) != 2 {
		t.Errorf("applied = %v, want both nodes", diag.Applied)
	}
}

func TestCompose_LayeredBlendsOntoBase(t *testing.T) {
	c := New(stubRegistry(), nil)
	base := uniformImage(4, 4, 100)

	out, _, err := c.Compose(context.Background(), base, Layered,
		[]resolve.Invocation{inv("a", 0.5)})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	// Normal blend at opacity 0.5: 100*(1-0.5) + 140*0.5 = 120.
	if got := out.Pix[0]; got != 120 {
		t.Errorf("pixel = %d, want 120", got)
	}
}

func TestCompose_LayeredHighestPriorityOnTop(t *testing.T) {
	c := New(stubRegistry(), nil)
	base := uniformImage(4, 4, 100)

	// Invocations arrive in priority order, a first. a must be drawn
	// last: with full opacity, its blend dominates the final image.
	out, _, err := c.Compose(context.Background(), base, Layered,
		[]resolve.Invocation{inv("a", 1.0), inv("b", 1.0)})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	// b first: 100 -> 70. Then a over the running image: its layer was
	// rendered from the base (140), drawn at opacity 1: final 140.
	if got := out.Pix[0]; got != 140 {
		t.Errorf("pixel = %d, want 140 (highest priority drawn last)", got)
	}
}

func TestCompose_ParallelWeightedAverage(t *testing.T) {
	c := New(stubRegistry(), nil)
	base := uniformImage(4, 4, 100)

	out, _, err := c.Compose(context.Background(), base, Parallel,
		[]resolve.Invocation{inv("a", 1.0)})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	// Weights: base 1, effect 1 -> (100 + 140) / 2 = 120.
	if got := out.Pix[0]; got != 120 {
		t.Errorf("pixel = %d, want 120", got)
	}
}

func TestCompose_ParallelIncludesBaseWeight(t *testing.T) {
	c := New(stubRegistry(), nil)
	base := uniformImage(4, 4, 90)

	out, _, err := c.Compose(context.Background(), base, Parallel,
		[]resolve.Invocation{inv("a", 0.5), inv("b", 0.5)})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	// total = 1 + 0.5 + 0.5 = 2; (90*1 + 130*0.5 + 60*0.5)/2 = 92.5.
	want := 93.0 // rounded
	if got := float64(out.Pix[0]); math.Abs(got-want) > 1 {
		t.Errorf("pixel = %v, want ~%v", got, want)
	}
}

func TestCompose_PartialFailureContainment(t *testing.T) {
	c := New(stubRegistry(), nil)
	base := uniformImage(4, 4, 100)
	invs := []resolve.Invocation{inv("a", 1.0), inv("x", 1.0), inv("b", 1.0)}

	for _, mode := range []Mode{Layered, Sequential, Parallel} {
		out, diag, err := c.Compose(context.Background(), base, mode, invs)
		if err != nil {
			t.Fatalf("%s: composition aborted: %v", mode, err)
		}
		if out == nil {
			t.Fatalf("%s: no output", mode)
		}
		if len(diag.Skipped) != 1 {
			t.Fatalf("%s: skipped = %v, want exactly the failing effect", mode, diag.Skipped)
		}
		if diag.Skipped[0].Effect != "x" {
			t.Errorf("%s: skipped %s, want x", mode, diag.Skipped[0].Effect)
		}
		if len(diag.Applied) != 2 {
			t.Errorf("%s: applied = %v, want the two healthy effects", mode, diag.Applied)
		}
	}
}

func TestCompose_UnknownEffectSkippedNotFatal(t *testing.T) {
	c := New(stubRegistry(), nil)
	base := uniformImage(4, 4, 100)

	_, diag, err := c.Compose(context.Background(), base, Sequential,
		[]resolve.Invocation{{Node: "n", Module: "test", Effect: "missing", Intensity: 1}})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(diag.Skipped) != 1 {
		t.Fatalf("unknown effect should be skipped, got %+v", diag)
	}
}

func TestCompose_ZeroIntensityEquivalence(t *testing.T) {
	// With identity-at-zero primitives and zero intensities, every mode
	// returns the base image within rounding tolerance.
	r := effects.NewRegistry()
	identity := effects.Func(func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		if intensity > 0 {
			return addPrimitive(50)(img, intensity, 0, nil)
		}
		return img, nil
	})
	r.Register("test", "a", identity)
	r.Register("test", "b", identity)
	c := New(r, nil)

	base := uniformImage(8, 8, 77)
	invs := []resolve.Invocation{inv("a", 0), inv("b", 0)}

	for _, mode := range []Mode{Layered, Sequential, Parallel} {
		out, _, err := c.Compose(context.Background(), base, mode, invs)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		for i := 0; i < len(out.Pix); i += 4 {
			for ch := 0; ch < 3; ch++ {
				diff := math.Abs(float64(out.Pix[i+ch]) - 77)
				if diff > 1 {
					t.Fatalf("%s: pixel deviates by %v at offset %d", mode, diff, i+ch)
				}
			}
		}
	}
}

func TestCompose_MaskGatesLayer(t *testing.T) {
	c := New(stubRegistry(), nil)
	base := uniformImage(4, 8, 100)

	masked := inv("a", 1.0)
	masked.Aux = map[string]any{"mask_type": "gradient", "mask_direction": "vertical"}

	out, _, err := c.Compose(context.Background(), base, Layered,
		[]resolve.Invocation{masked})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	// Top row: mask weight 0, base preserved. Bottom row: weight 1,
	// fully blended (140).
	if got := out.Pix[0]; got != 100 {
		t.Errorf("top row pixel = %d, want 100 (mask off)", got)
	}
	bottom := (8-1)*out.Stride + 0
	if got := out.Pix[bottom]; got != 140 {
		t.Errorf("bottom row pixel = %d, want 140 (mask on)", got)
	}
}

func TestCompose_Determinism(t *testing.T) {
	c := New(stubRegistry(), nil)
	base := uniformImage(16, 16, 60)
	invs := []resolve.Invocation{inv("a", 0.8), inv("b", 0.4)}

	for _, mode := range []Mode{Layered, Sequential, Parallel} {
		first, _, err := c.Compose(context.Background(), base, mode, invs)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		second, _, err := c.Compose(context.Background(), base, mode, invs)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if !pixelsEqual(first, second) {
			t.Errorf("%s: repeated composition differs", mode)
		}
	}
}

func TestCompose_CancellationBetweenStages(t *testing.T) {
	c := New(stubRegistry(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.Compose(ctx, uniformImage(4, 4, 100), Sequential,
		[]resolve.Invocation{inv("a", 1.0)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBlendChannel_Formulas(t *testing.T) {
	cases := []struct {
		mode    BlendMode
		a, b, o float64
		want    float64
	}{
		{BlendNormal, 100, 200, 1.0, 200},
		{BlendNormal, 100, 200, 0.5, 150},
		{BlendMultiply, 100, 200, 1.0, 100 * 200 / 255.0},
		{BlendScreen, 100, 200, 1.0, 255 - (255-100)*(255-200)/255.0},
		{BlendOverlay, 100, 200, 1.0, 2 * 100 * 200 / 255.0},         // a < 128
		{BlendOverlay, 200, 100, 1.0, 255 - 2*(255-200)*(255-100)/255.0}, // a >= 128
		{BlendMultiply, 100, 200, 0.25, 100*0.75 + (100*200/255.0)*0.25},
	}
	for _, tc := range cases {
		got := blendChannel(tc.mode, tc.a, tc.b, tc.o)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s(%v,%v,%v) = %v, want %v", tc.mode, tc.a, tc.b, tc.o, got, tc.want)
		}
	}
}

func TestBlendModeFor(t *testing.T) {
	cases := []struct {
		effect    string
		nodeState float64
		want      BlendMode
	}{
		{"luminosity", 0.8, BlendScreen},
		{"luminosity", 0.3, BlendMultiply},
		{"chromaticity", 0.5, BlendOverlay},
		{"density", 0.9, BlendNormal},
		{"motion", 0.2, BlendNormal},
	}
	for _, tc := range cases {
		if got := blendModeFor(tc.effect, tc.nodeState); got != tc.want {
			t.Errorf("blendModeFor(%s, %v) = %s, want %s", tc.effect, tc.nodeState, got, tc.want)
		}
	}
}
