package engine

import (
	"math"

	"github.com/ivlev/promo2video/internal/renderer"
	"github.com/ivlev/promo2video/internal/scene"
)

// Glyph outlines in unit coordinates, y pointing down
var (
	checkGlyph = []renderer.Point{
		{X: -0.75, Y: 0}, {X: -0.45, Y: -0.3}, {X: -0.15, Y: 0.05},
		{X: 0.45, Y: -0.6}, {X: 0.75, Y: -0.3}, {X: -0.15, Y: 0.65},
	}
	plusGlyph = []renderer.Point{
		{X: -0.25, Y: -0.8}, {X: 0.25, Y: -0.8}, {X: 0.25, Y: -0.25},
		{X: 0.8, Y: -0.25}, {X: 0.8, Y: 0.25}, {X: 0.25, Y: 0.25},
		{X: 0.25, Y: 0.8}, {X: -0.25, Y: 0.8}, {X: -0.25, Y: 0.25},
		{X: -0.8, Y: 0.25}, {X: -0.8, Y: -0.25}, {X: -0.25, Y: -0.25},
	}
	arrowGlyph = []renderer.Point{
		{X: -0.7, Y: -0.2}, {X: 0.1, Y: -0.2}, {X: 0.1, Y: -0.55},
		{X: 0.75, Y: 0}, {X: 0.1, Y: 0.55}, {X: 0.1, Y: 0.2}, {X: -0.7, Y: 0.2},
	}
	alertBar = []renderer.Point{
		{X: -0.14, Y: -0.75}, {X: 0.14, Y: -0.75}, {X: 0.09, Y: 0.25}, {X: -0.09, Y: 0.25},
	}
)

func starGlyph() []renderer.Point {
	pts := make([]renderer.Point, 10)
	for i := range pts {
		radius := 1.0
		if i%2 == 1 {
			radius = 0.42
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		pts[i] = renderer.Point{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return pts
}

func discGlyph(cx, cy, radius float64) []renderer.Point {
	pts := make([]renderer.Point, 12)
	for i := range pts {
		a := float64(i) * 2 * math.Pi / 12
		pts[i] = renderer.Point{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)}
	}
	return pts
}

// glyphPolygons returns the outlines of g scaled by size around center.
// Unknown glyphs draw as a star.
func glyphPolygons(g scene.IconGlyph, center renderer.Point, size float64) [][]renderer.Point {
	var unit [][]renderer.Point
	switch g {
	case scene.IconCheck:
		unit = [][]renderer.Point{checkGlyph}
	case scene.IconCross:
		unit = [][]renderer.Point{plusGlyph}
	case scene.IconArrow:
		unit = [][]renderer.Point{arrowGlyph}
	case scene.IconAlert:
		unit = [][]renderer.Point{alertBar, discGlyph(0, 0.55, 0.14)}
	default:
		unit = [][]renderer.Point{starGlyph()}
	}

	out := make([][]renderer.Point, len(unit))
	for i, poly := range unit {
		pts := make([]renderer.Point, len(poly))
		for j, p := range poly {
			pts[j] = renderer.Point{X: center.X + p.X*size, Y: center.Y + p.Y*size}
		}
		out[i] = pts
	}
	return out
}
