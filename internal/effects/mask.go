package effects

import "math"

// Mask is a spatial gate: per-pixel weights in [0,1] used to confine an
// effect to part of the frame.
type Mask struct {
	W, H int
	Data []float64 // row-major, len W*H
}

// At returns the mask weight at (x, y).
func (m *Mask) At(x, y int) float64 {
	return m.Data[y*m.W+x]
}

// CircularMask builds a feathered circular mask. center coordinates and
// radius are fractions of the image size; feather is the fraction of the
// radius over which the edge fades.
func CircularMask(w, h int, cx, cy, radius, feather float64) *Mask {
	m := &Mask{W: w, H: h, Data: make([]float64, w*h)}
	centerX := cx * float64(w)
	centerY := cy * float64(h)
	r := radius * float64(min(w, h)) / 2
	inner := r * (1 - feather)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dist := math.Hypot(float64(x)-centerX, float64(y)-centerY)
			var v float64
			switch {
			case feather <= 0:
				if dist <= r {
					v = 1
				}
			case dist <= inner:
				v = 1
			case dist < r:
				v = (r - dist) / (r - inner)
			}
			m.Data[y*w+x] = v
		}
	}
	return m
}

// GradientMask builds a linear or radial gradient mask running from start
// to end weight. direction is "vertical", "horizontal", or "radial".
func GradientMask(w, h int, direction string, start, end float64) *Mask {
	m := &Mask{W: w, H: h, Data: make([]float64, w*h)}
	switch direction {
	case "horizontal":
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				t := float64(x) / float64(max(w-1, 1))
				m.Data[y*w+x] = start + (end-start)*t
			}
		}
	case "radial":
		cx, cy := float64(w)/2, float64(h)/2
		maxDist := math.Hypot(cx, cy)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				t := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
				m.Data[y*w+x] = start + (end-start)*t
			}
		}
	default: // vertical
		for y := 0; y < h; y++ {
			t := float64(y) / float64(max(h-1, 1))
			for x := 0; x < w; x++ {
				m.Data[y*w+x] = start + (end-start)*t
			}
		}
	}
	return m
}

// MaskFromAux builds the spatial mask an invocation asked for via its
// auxiliary parameters, or nil when none was requested.
// Recognized keys: mask_type ("center" with optional mask_radius,
// "gradient" with optional mask_direction).
func MaskFromAux(w, h int, aux map[string]any) *Mask {
	maskType, _ := aux["mask_type"].(string)
	switch maskType {
	case "center":
		radius := 0.5
		if r, ok := aux["mask_radius"].(float64); ok {
			radius = r
		}
		return CircularMask(w, h, 0.5, 0.5, radius, 0.1)
	case "gradient":
		direction, _ := aux["mask_direction"].(string)
		if direction == "" {
			direction = "radial"
		}
		return GradientMask(w, h, direction, 0, 1)
	default:
		return nil
	}
}
