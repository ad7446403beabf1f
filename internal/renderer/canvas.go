// Package renderer draws frames for the animation engine onto an in-memory
// RGBA surface and hands finished frames to registered taps.
package renderer

import (
	"image"
	"image/color"

	"github.com/ivlev/promo2video/internal/scene"
)

// Rect is a float rectangle in surface pixels
type Rect struct {
	X, Y, W, H float64
}

// Center returns the middle point of r
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Scale resizes r around its center
func (r Rect) Scale(k float64) Rect {
	c := r.Center()
	w, h := r.W*k, r.H*k
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Translate shifts r by dx, dy
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

type Point struct {
	X, Y float64
}

// Stroke is an optional outline drawn over a filled shape
type Stroke struct {
	Color color.RGBA
	Width float64
}

// TextStyle controls a single-line text draw. Colors are non-premultiplied;
// the alpha of Color fades shadow and stroke along with the glyphs.
type TextStyle struct {
	Size        float64
	Color       color.RGBA
	Bold        bool
	Align       scene.Align
	Stroke      bool
	StrokeColor color.RGBA // zero value means translucent black
	NoShadow    bool
}

// Canvas is the drawing surface the engine renders one frame on.
// y of DrawText is the vertical middle of the line; x is the left edge or,
// for AlignCenter, the horizontal center.
type Canvas interface {
	Width() int
	Height() int
	Clear()
	FillBackground(bg scene.Background, alpha float64)
	DrawText(text string, x, y float64, style TextStyle)
	MeasureText(text string, style TextStyle) float64
	DrawRect(r Rect, fill color.RGBA, stroke *Stroke)
	DrawRoundedRect(r Rect, radius float64, fill color.RGBA, stroke *Stroke)
	DrawCircle(cx, cy, radius float64, fill color.RGBA, stroke *Stroke)
	DrawPolygon(points []Point, fill color.RGBA)
	DrawImage(img image.Image, r Rect, alpha float64)
	// Present publishes the finished frame
	Present()
}

// Tap receives a snapshot of every presented frame. The frame comes from
// the shared image pool; the receiver owns it and should return it with
// system.PutImage when done.
type Tap func(frame *image.RGBA)
