package effects

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerp blends processed over base with the given opacity, pixel by pixel.
// Alpha comes from the base image.
func lerp(base, processed *image.NRGBA, opacity float64) *image.NRGBA {
	opacity = clamp01(opacity)
	out := imaging.Clone(base)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			b := float64(base.Pix[i+c])
			p := float64(processed.Pix[i+c])
			out.Pix[i+c] = clamp8(b*(1-opacity) + p*opacity)
		}
	}
	return out
}

// quantize reduces each channel to the given number of levels.
func quantize(img *image.NRGBA, levels int) *image.NRGBA {
	if levels < 2 {
		levels = 2
	}
	step := 255.0 / float64(levels-1)
	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := float64(out.Pix[i+c])
			out.Pix[i+c] = clamp8(math.Round(v/step) * step)
		}
	}
	return out
}

// channelBias shifts the red and blue channels in opposite directions:
// positive amounts warm the image, negative amounts cool it.
func channelBias(img *image.NRGBA, amount float64) *image.NRGBA {
	out := imaging.Clone(img)
	shift := amount * 255
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = clamp8(float64(out.Pix[i]) + shift)
		out.Pix[i+2] = clamp8(float64(out.Pix[i+2]) - shift)
	}
	return out
}

// shade darkens the image following a mask: weight 1 pixels are darkened
// by the full amount, weight 0 pixels are untouched.
func shade(img *image.NRGBA, mask *Mask, amount float64) *image.NRGBA {
	out := imaging.Clone(img)
	w := out.Rect.Dx()
	h := out.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			factor := 1 - amount*mask.At(x, y)
			i := y*out.Stride + x*4
			for c := 0; c < 3; c++ {
				out.Pix[i+c] = clamp8(float64(out.Pix[i+c]) * factor)
			}
		}
	}
	return out
}

// ghost overlays count copies of the image offset along angle (radians),
// each at decreasing opacity. Used for motion trails and multiplicity.
func ghost(img *image.NRGBA, count int, angle, distance, opacity float64) *image.NRGBA {
	if count < 1 {
		return imaging.Clone(img)
	}
	out := imaging.Clone(img)
	dx := math.Cos(angle)
	dy := math.Sin(angle)
	for n := 1; n <= count; n++ {
		offset := image.Pt(
			int(dx*distance*float64(n)),
			int(dy*distance*float64(n)),
		)
		step := opacity * (1 - float64(n)/float64(count+1))
		out = imaging.Overlay(out, img, offset, step)
	}
	return out
}

// sepia maps the image toward a warm monochrome palette.
func sepia(img *image.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		r := float64(out.Pix[i])
		g := float64(out.Pix[i+1])
		b := float64(out.Pix[i+2])
		out.Pix[i] = clamp8(0.393*r + 0.769*g + 0.189*b)
		out.Pix[i+1] = clamp8(0.349*r + 0.686*g + 0.168*b)
		out.Pix[i+2] = clamp8(0.272*r + 0.534*g + 0.131*b)
	}
	return out
}

// grain adds deterministic monochrome noise derived from pixel
// coordinates, so identical inputs always produce identical output.
func grain(img *image.NRGBA, amount float64) *image.NRGBA {
	out := imaging.Clone(img)
	w := out.Rect.Dx()
	h := out.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Cheap coordinate hash mapped to [-1, 1).
			n := uint32(x)*374761393 + uint32(y)*668265263
			n = (n ^ (n >> 13)) * 1274126177
			noise := (float64(n&0xFFFF)/32768.0 - 1.0) * amount * 255
			i := y*out.Stride + x*4
			for c := 0; c < 3; c++ {
				out.Pix[i+c] = clamp8(float64(out.Pix[i+c]) + noise)
			}
		}
	}
	return out
}

func auxFloat(aux map[string]any, key string, fallback float64) float64 {
	if v, ok := aux[key].(float64); ok {
		return v
	}
	return fallback
}

func auxInt(aux map[string]any, key string, fallback int) int {
	if v, ok := aux[key].(int); ok {
		return v
	}
	return fallback
}

func auxString(aux map[string]any, key, fallback string) string {
	if v, ok := aux[key].(string); ok {
		return v
	}
	return fallback
}
