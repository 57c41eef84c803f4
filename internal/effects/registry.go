// Package effects defines the effect primitive boundary: a typed registry
// mapping (module, effect) keys to implementations, plus the built-in
// library covering all 27 nodes. Primitives are pure over their inputs;
// anything that needs randomness derives it deterministically.
package effects

import (
	"fmt"
	"image"
)

// Primitive is one pixel-level transform. Apply must not mutate img and
// must return an image of the same dimensions. intensity is the resolved
// effect strength in [0,1]; nodeState is the effective activation the
// intensity was derived from; aux carries node-specific parameters.
type Primitive interface {
	Apply(img image.Image, intensity, nodeState float64, aux map[string]any) (image.Image, error)
}

// Func adapts a plain function to the Primitive interface.
type Func func(img image.Image, intensity, nodeState float64, aux map[string]any) (image.Image, error)

// Apply implements Primitive.
func (f Func) Apply(img image.Image, intensity, nodeState float64, aux map[string]any) (image.Image, error) {
	return f(img, intensity, nodeState, aux)
}

// UnknownEffectError reports a lookup for an unregistered (module, effect)
// pair. Lookups fail fast; there is no fallback primitive.
type UnknownEffectError struct {
	Module string
	Effect string
}

func (e *UnknownEffectError) Error() string {
	return fmt.Sprintf("unknown effect %s/%s", e.Module, e.Effect)
}

type key struct {
	module string
	effect string
}

// Registry maps (module, effect) keys to primitives. Registration happens
// at startup; lookups afterwards are read-only and safe to share.
type Registry struct {
	primitives map[key]Primitive
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{primitives: make(map[key]Primitive)}
}

// Register binds a primitive to a (module, effect) key, replacing any
// previous binding.
func (r *Registry) Register(module, effect string, p Primitive) {
	r.primitives[key{module, effect}] = p
}

// Lookup returns the primitive for a key, or an *UnknownEffectError.
func (r *Registry) Lookup(module, effect string) (Primitive, error) {
	p, ok := r.primitives[key{module, effect}]
	if !ok {
		return nil, &UnknownEffectError{Module: module, Effect: effect}
	}
	return p, nil
}

// Len returns the number of registered primitives.
func (r *Registry) Len() int { return len(r.primitives) }
