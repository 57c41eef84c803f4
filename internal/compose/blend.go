// Package compose merges effect outputs into a final image. It applies
// each invocation through the primitive registry and combines the results
// under one of three strategies: layered blending, a sequential pipeline,
// or a parallel weighted average.
package compose

import (
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// BlendMode selects the per-pixel combination function for a layer.
type BlendMode string

const (
	BlendNormal   BlendMode = "normal"
	BlendMultiply BlendMode = "multiply"
	BlendScreen   BlendMode = "screen"
	BlendOverlay  BlendMode = "overlay"
)

// blendModeFor derives a layer's blend mode from its effect id and source
// node state. Luminosity-type effects screen when the node is bright and
// multiply when dark; color-type effects overlay; everything else blends
// normally.
func blendModeFor(effect string, nodeState float64) BlendMode {
	switch {
	case strings.Contains(effect, "luminosity") || strings.Contains(effect, "brightness"):
		if nodeState > 0.5 {
			return BlendScreen
		}
		return BlendMultiply
	case strings.Contains(effect, "chromaticity") || strings.Contains(effect, "color"):
		return BlendOverlay
	default:
		return BlendNormal
	}
}

// blendChannel combines one channel pair under a blend mode with the
// given opacity. Channel values are in [0,255] float space.
func blendChannel(mode BlendMode, a, b, opacity float64) float64 {
	var combined float64
	switch mode {
	case BlendMultiply:
		combined = a * b / 255
	case BlendScreen:
		combined = 255 - (255-a)*(255-b)/255
	case BlendOverlay:
		if a < 128 {
			combined = 2 * a * b / 255
		} else {
			combined = 255 - 2*(255-a)*(255-b)/255
		}
	default:
		combined = b
	}
	return a*(1-opacity) + combined*opacity
}

// blendImages combines layer over base pixel by pixel. Alpha is taken
// from the base. Both images must share dimensions.
func blendImages(base, layer *image.NRGBA, mode BlendMode, opacity float64) *image.NRGBA {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	out := imaging.Clone(base)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			a := float64(base.Pix[i+c])
			b := float64(layer.Pix[i+c])
			out.Pix[i+c] = clampPix(blendChannel(mode, a, b, opacity))
		}
	}
	return out
}

func clampPix(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
