package effects

import (
	"math"

	"github.com/ivlev/promo2video/internal/easing"
	"github.com/ivlev/promo2video/internal/scene"
)

// Transform describes how an element is drawn at a given local progress
type Transform struct {
	Alpha   float64
	Scale   float64
	OffsetX float64
	OffsetY float64
	Reveal  float64 // fraction of text revealed; 1 except for typewriter
	Cursor  bool    // typewriter caret while revealing
}

// Identity is the terminal, fully revealed state
var Identity = Transform{Alpha: 1, Scale: 1, Reveal: 1}

// Params carries surface-dependent inputs of an effect
type Params struct {
	SurfaceWidth float64
}

// Effect maps clamped element progress to a draw transform
type Effect interface {
	Apply(progress float64, p Params) Transform
}

// EffectFunc adapts a function to Effect
type EffectFunc func(progress float64, p Params) Transform

func (f EffectFunc) Apply(progress float64, p Params) Transform {
	return f(progress, p)
}

// slideDistance is the share of surface width a sliding element travels
const slideDistance = 0.25

var registry = map[scene.AnimationKind]Effect{
	scene.FadeIn: EffectFunc(func(t float64, _ Params) Transform {
		tr := Identity
		tr.Alpha = easing.CubicOut(t)
		return tr
	}),
	scene.SlideInLeft: EffectFunc(func(t float64, p Params) Transform {
		tr := Identity
		tr.Alpha = t
		tr.OffsetX = -(1 - easing.CubicOut(t)) * p.SurfaceWidth * slideDistance
		return tr
	}),
	scene.SlideInRight: EffectFunc(func(t float64, p Params) Transform {
		tr := Identity
		tr.Alpha = t
		tr.OffsetX = (1 - easing.CubicOut(t)) * p.SurfaceWidth * slideDistance
		return tr
	}),
	scene.ScaleIn: EffectFunc(func(t float64, _ Params) Transform {
		tr := Identity
		tr.Scale = easing.BackOut(t)
		tr.Alpha = math.Min(1, t*2)
		return tr
	}),
	scene.ZoomIn: EffectFunc(func(t float64, _ Params) Transform {
		e := easing.CubicOut(t)
		tr := Identity
		tr.Scale = easing.Lerp(0.5, 1, e)
		tr.Alpha = e
		return tr
	}),
	scene.BounceIn: EffectFunc(func(t float64, _ Params) Transform {
		tr := Identity
		tr.Scale = easing.BounceOut(t)
		return tr
	}),
	scene.Typewriter: EffectFunc(func(t float64, _ Params) Transform {
		tr := Identity
		tr.Reveal = easing.Linear(t)
		tr.Cursor = t < 1
		return tr
	}),
}

// Lookup returns the effect for kind. Unknown kinds fall back to fadeIn.
func Lookup(kind scene.AnimationKind) Effect {
	if e, ok := registry[kind]; ok {
		return e
	}
	return registry[scene.FadeIn]
}

// Known reports whether kind has a registered effect
func Known(kind scene.AnimationKind) bool {
	_, ok := registry[kind]
	return ok
}

// Apply clamps progress and resolves the transform for kind
func Apply(kind scene.AnimationKind, progress float64, p Params) Transform {
	return Lookup(kind).Apply(easing.Clamp01(progress), p)
}

// RevealText returns the typewriter prefix of text for a reveal fraction.
// The count is floor(reveal * runes), never above the text length.
func RevealText(text string, reveal float64, cursor bool) string {
	runes := []rune(text)
	n := int(math.Floor(easing.Clamp01(reveal) * float64(len(runes))))
	if n > len(runes) {
		n = len(runes)
	}
	out := string(runes[:n])
	if cursor {
		out += "|"
	}
	return out
}
