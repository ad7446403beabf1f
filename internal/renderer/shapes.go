package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// fillPaths rasterizes closed polygons into dst with antialiasing.
// Polygons wound opposite to the first one cut holes, which is how rings
// and strokes are built.
func fillPaths(dst *image.RGBA, c color.RGBA, paths ...[]Point) {
	if c.A == 0 || len(paths) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range paths {
		for _, pt := range p {
			minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
			minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
		}
	}
	bbox := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
	clip := bbox.Intersect(dst.Rect)
	if clip.Empty() {
		return
	}

	w, h := bbox.Dx(), bbox.Dy()
	z := vector.NewRasterizer(w, h)
	ox, oy := float64(bbox.Min.X), float64(bbox.Min.Y)
	for _, p := range paths {
		if len(p) < 3 {
			continue
		}
		z.MoveTo(float32(p[0].X-ox), float32(p[0].Y-oy))
		for _, pt := range p[1:] {
			z.LineTo(float32(pt.X-ox), float32(pt.Y-oy))
		}
		z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(dst, clip, nrgba(c), image.Point{}, mask, clip.Min.Sub(bbox.Min), draw.Over)
}

func reversed(p []Point) []Point {
	out := make([]Point, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

func rectPath(r Rect) []Point {
	return []Point{{r.X, r.Y}, {r.X + r.W, r.Y}, {r.X + r.W, r.Y + r.H}, {r.X, r.Y + r.H}}
}

// arc appends points from angle a0 to a1 (radians, clockwise on screen)
func arc(out []Point, cx, cy, radius, a0, a1 float64) []Point {
	segs := int(math.Max(4, math.Ceil(radius*math.Abs(a1-a0)/4)))
	for i := 0; i <= segs; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(segs)
		out = append(out, Point{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}
	return out
}

func roundedRectPath(r Rect, radius float64) []Point {
	radius = math.Min(radius, math.Min(r.W, r.H)/2)
	if radius <= 0 {
		return rectPath(r)
	}
	var p []Point
	p = arc(p, r.X+r.W-radius, r.Y+radius, radius, -math.Pi/2, 0)
	p = arc(p, r.X+r.W-radius, r.Y+r.H-radius, radius, 0, math.Pi/2)
	p = arc(p, r.X+radius, r.Y+r.H-radius, radius, math.Pi/2, math.Pi)
	p = arc(p, r.X+radius, r.Y+radius, radius, math.Pi, 3*math.Pi/2)
	return p
}

func circlePath(cx, cy, radius float64) []Point {
	return arc(nil, cx, cy, radius, 0, 2*math.Pi)
}

// inset shrinks r by d on every side
func inset(r Rect, d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: math.Max(0, r.W-2*d), H: math.Max(0, r.H-2*d)}
}

func (s *Surface) DrawRect(r Rect, fill color.RGBA, stroke *Stroke) {
	s.must()
	fillPaths(s.img, fill, rectPath(r))
	if stroke != nil && stroke.Width > 0 {
		fillPaths(s.img, stroke.Color, rectPath(r), reversed(rectPath(inset(r, stroke.Width))))
	}
}

func (s *Surface) DrawRoundedRect(r Rect, radius float64, fill color.RGBA, stroke *Stroke) {
	s.must()
	fillPaths(s.img, fill, roundedRectPath(r, radius))
	if stroke != nil && stroke.Width > 0 {
		inner := roundedRectPath(inset(r, stroke.Width), math.Max(0, radius-stroke.Width))
		fillPaths(s.img, stroke.Color, roundedRectPath(r, radius), reversed(inner))
	}
}

func (s *Surface) DrawCircle(cx, cy, radius float64, fill color.RGBA, stroke *Stroke) {
	s.must()
	if radius <= 0 {
		return
	}
	fillPaths(s.img, fill, circlePath(cx, cy, radius))
	if stroke != nil && stroke.Width > 0 {
		inner := math.Max(0, radius-stroke.Width)
		fillPaths(s.img, stroke.Color, circlePath(cx, cy, radius), reversed(circlePath(cx, cy, inner)))
	}
}

func (s *Surface) DrawPolygon(points []Point, fill color.RGBA) {
	s.must()
	fillPaths(s.img, fill, points)
}
