package effects

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Builtin returns the default registry with one primitive per node effect.
// Every primitive is an exact identity at zero intensity and fully
// deterministic at any intensity.
func Builtin() *Registry {
	r := NewRegistry()

	register := func(module, effect string, f Func) {
		r.Register(module, effect, guardZero(f))
	}

	// Mode of appearance.
	register("appearance", "density", func(img image.Image, intensity, _ float64, aux map[string]any) (image.Image, error) {
		base := imaging.Clone(img)
		levels := auxInt(aux, "cluster_count", 5)
		return lerp(base, quantize(base, levels), intensity), nil
	})
	register("appearance", "luminosity", func(img image.Image, intensity, nodeState float64, _ map[string]any) (image.Image, error) {
		// High activation discloses (brightens), low conceals.
		pct := (nodeState - 0.5) * 2 * 50 * intensity
		return imaging.AdjustBrightness(img, pct), nil
	})
	register("appearance", "chromaticity", func(img image.Image, intensity, nodeState float64, _ map[string]any) (image.Image, error) {
		pct := (nodeState - 0.5) * 2 * 100 * intensity
		return imaging.AdjustSaturation(img, pct), nil
	})

	// Intentional structure.
	register("intentional", "focus", func(img image.Image, intensity, nodeState float64, _ map[string]any) (image.Image, error) {
		if nodeState >= 0.5 {
			return imaging.Sharpen(img, 1+2*intensity), nil
		}
		return imaging.Blur(img, 3*intensity), nil
	})
	register("intentional", "horizon", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		base := imaging.Clone(img)
		mask := GradientMask(base.Rect.Dx(), base.Rect.Dy(), "vertical", 0, 1)
		return shade(base, mask, 0.4*intensity), nil
	})
	register("intentional", "depth", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		base := imaging.Clone(img)
		mask := GradientMask(base.Rect.Dx(), base.Rect.Dy(), "radial", 0, 1)
		return shade(base, mask, 0.6*intensity), nil
	})

	// Temporal implications.
	register("temporal", "motion", func(img image.Image, intensity, _ float64, aux map[string]any) (image.Image, error) {
		if auxString(aux, "motion_type", "blur") == "blur" {
			return imaging.Blur(img, 2*intensity), nil
		}
		angle := auxFloat(aux, "direction_variance", 0) * math.Pi / 180
		return ghost(imaging.Clone(img), 3, angle, 6*intensity, 0.5*intensity), nil
	})
	register("temporal", "decay", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		out := imaging.AdjustSaturation(img, -60*intensity)
		return imaging.AdjustBrightness(out, -15*intensity), nil
	})
	register("temporal", "duration", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		out := imaging.Blur(img, 1.5*intensity)
		return imaging.AdjustContrast(out, -10*intensity), nil
	})

	// Synesthetic qualities.
	register("synesthetic", "temperature", func(img image.Image, intensity, _ float64, aux map[string]any) (image.Image, error) {
		sign := 1.0
		if auxString(aux, "temperature_bias", "warm") == "cool" {
			sign = -1.0
		}
		return channelBias(imaging.Clone(img), sign*0.15*intensity), nil
	})
	register("synesthetic", "weight", func(img image.Image, intensity, _ float64, aux map[string]any) (image.Image, error) {
		base := imaging.Clone(img)
		start, end := 0.0, 1.0
		if auxString(aux, "gravity_direction", "down") == "up" {
			start, end = 1.0, 0.0
		}
		mask := GradientMask(base.Rect.Dx(), base.Rect.Dy(), "vertical", start, end)
		return shade(base, mask, 0.35*intensity), nil
	})
	register("synesthetic", "texture", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		out := imaging.Sharpen(img, intensity)
		return grain(out, 0.08*intensity), nil
	})

	// Ontological density.
	register("ontological", "presence", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		return imaging.AdjustContrast(img, 40*intensity), nil
	})
	register("ontological", "boundary", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		base := imaging.Clone(img)
		edges := imaging.Convolve3x3(base, [9]float64{
			0, -1, 0,
			-1, 5, -1,
			0, -1, 0,
		}, nil)
		return lerp(base, edges, intensity), nil
	})
	register("ontological", "plurality", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		return ghost(imaging.Clone(img), 2, math.Pi/4, 5*intensity, 0.4*intensity), nil
	})

	// Semantic recognition.
	register("semantic", "entities", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		return imaging.Sharpen(img, 1.5*intensity), nil
	})
	register("semantic", "relations", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		out := imaging.AdjustSaturation(img, 25*intensity)
		return imaging.AdjustContrast(out, 15*intensity), nil
	})
	register("semantic", "actions", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		return ghost(imaging.Clone(img), 2, 0, 3*intensity, 0.3*intensity), nil
	})

	// Conceptual horizon.
	register("conceptual", "cultural", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		base := imaging.Clone(img)
		return lerp(base, sepia(base), intensity), nil
	})
	register("conceptual", "symbolic", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		base := imaging.Clone(img)
		return lerp(base, quantize(base, 4), intensity), nil
	})
	register("conceptual", "functional", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		return imaging.AdjustSaturation(img, -40*intensity), nil
	})

	// Modes of being.
	register("being", "animacy", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		out := imaging.AdjustSaturation(img, 30*intensity)
		return channelBias(out, 0.05*intensity), nil
	})
	register("being", "agency", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		out := imaging.AdjustContrast(img, 25*intensity)
		return imaging.Sharpen(out, intensity), nil
	})
	register("being", "artificiality", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		base := imaging.Clone(img)
		hard := channelBias(quantize(base, 6), -0.08)
		return lerp(base, hard, intensity), nil
	})

	// Recognition certainty.
	register("certainty", "clarity", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		out := imaging.Sharpen(img, 1.2*intensity)
		return imaging.AdjustContrast(out, 10*intensity), nil
	})
	register("certainty", "ambiguity", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		out := imaging.Blur(img, 4*intensity)
		return imaging.AdjustSaturation(out, -30*intensity), nil
	})
	register("certainty", "multiplicity", func(img image.Image, intensity, _ float64, _ map[string]any) (image.Image, error) {
		return ghost(imaging.Clone(img), 3, -math.Pi/6, 4*intensity, 0.35*intensity), nil
	})

	return r
}

// guardZero short-circuits zero-intensity applications to an exact copy,
// so every primitive is an identity at intensity 0.
func guardZero(f Func) Func {
	return func(img image.Image, intensity, nodeState float64, aux map[string]any) (image.Image, error) {
		if intensity <= 0 {
			return imaging.Clone(img), nil
		}
		return f(img, intensity, nodeState, aux)
	}
}
