// Package scene holds the declarative model of a generated video: timed
// scenes, their backgrounds and the animated elements drawn on top.
//
// Scenes are built once per run and read-only afterwards.
package scene

import (
	"image/color"
)

// Scene is a timed segment of the output video
type Scene struct {
	Name       string     `yaml:"name"`
	Duration   float64    `yaml:"duration"` // seconds
	Background Background `yaml:"background"`
	Elements   []Element  `yaml:"elements"` // z-order: later elements draw on top
}

// DurationMs returns the scene duration in milliseconds
func (s Scene) DurationMs() float64 {
	return s.Duration * 1000
}

// BackgroundKind selects how a background is painted
type BackgroundKind string

const (
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundPattern  BackgroundKind = "pattern"
)

// PatternKind names a procedurally generated background
type PatternKind string

const (
	PatternMedical   PatternKind = "medical"   // faint scattered crosses over a gradient
	PatternCorporate PatternKind = "corporate" // radial gradient
	PatternDots      PatternKind = "dots"
)

// Background is a tagged variant: Colors holds the gradient stops (top to
// bottom), the single solid color, or the base colors of a pattern.
type Background struct {
	Kind    BackgroundKind `yaml:"kind"`
	Colors  []RGBA         `yaml:"colors"`
	Pattern PatternKind    `yaml:"pattern,omitempty"`
}

// Gradient returns a top-to-bottom linear gradient background
func Gradient(stops ...color.RGBA) Background {
	return Background{Kind: BackgroundGradient, Colors: toRGBA(stops)}
}

// Solid returns a flat color background
func Solid(c color.RGBA) Background {
	return Background{Kind: BackgroundSolid, Colors: []RGBA{RGBA(c)}}
}

// Patterned returns a procedural background over the given base colors
func Patterned(kind PatternKind, base ...color.RGBA) Background {
	return Background{Kind: BackgroundPattern, Pattern: kind, Colors: toRGBA(base)}
}

// Stops returns the background colors as color.RGBA values
func (b Background) Stops() []color.RGBA {
	out := make([]color.RGBA, len(b.Colors))
	for i, c := range b.Colors {
		out[i] = color.RGBA(c)
	}
	return out
}

func toRGBA(cs []color.RGBA) []RGBA {
	out := make([]RGBA, len(cs))
	for i, c := range cs {
		out[i] = RGBA(c)
	}
	return out
}

// TotalDuration sums the durations of all scenes in seconds
func TotalDuration(scenes []Scene) float64 {
	total := 0.0
	for _, s := range scenes {
		total += s.Duration
	}
	return total
}
