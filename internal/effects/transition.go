package effects

import "github.com/ivlev/promo2video/internal/easing"

const (
	// TransitionStart is the scene progress at which the next background
	// starts bleeding in
	TransitionStart = 0.75
	// TransitionMaxAlpha caps the blend so the cut stays partial
	TransitionMaxAlpha = 0.5
)

// TransitionAlpha returns the opacity of the next scene's background painted
// over the current frame at sceneProgress. Zero before TransitionStart.
func TransitionAlpha(sceneProgress float64) float64 {
	if sceneProgress < TransitionStart {
		return 0
	}
	t := easing.Clamp01((sceneProgress - TransitionStart) / (1 - TransitionStart))
	return easing.EaseInOutCubic(t) * TransitionMaxAlpha
}
