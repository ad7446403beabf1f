package analyzer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// ContrastDetector finds content by its edges: Sobel gradient, dilation to
// merge nearby strokes, then connected components.
type ContrastDetector struct {
	MinBlockArea  int     // pixels²
	EdgeThreshold float64 // gradient magnitude
	Radius        int     // dilation radius
}

// NewContrastDetector creates a new contrast-based detector with default settings
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  64,
		EdgeThreshold: 30.0,
		Radius:        2,
	}
}

// Detect returns one block per connected edge region
func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	g := flatten(img)
	edges := g.sobel(d.EdgeThreshold)
	edges = edges.dilate(d.Radius)

	var blocks []Block
	for _, r := range edges.components() {
		if r.Dx()*r.Dy() < d.MinBlockArea {
			continue
		}
		blocks = append(blocks, Block{Rect: r.Add(g.origin), Confidence: 0.7})
	}
	return blocks, nil
}

// plane is a single channel bitmap with its origin moved to 0,0
type plane struct {
	w, h   int
	pix    []uint8
	origin image.Point
}

func newPlane(w, h int, origin image.Point) *plane {
	return &plane{w: w, h: h, pix: make([]uint8, w*h), origin: origin}
}

func (p *plane) at(x, y int) uint8 { return p.pix[y*p.w+x] }

// flatten composes img over white and converts it to luma, so transparent
// areas read as paper
func flatten(img image.Image) *plane {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Over)

	p := newPlane(b.Dx(), b.Dy(), b.Min)
	for i := range p.pix {
		o := i * 4
		r, g, bl := uint32(rgba.Pix[o]), uint32(rgba.Pix[o+1]), uint32(rgba.Pix[o+2])
		p.pix[i] = uint8((299*r + 587*g + 114*bl) / 1000)
	}
	return p
}

var (
	sobelX = [3][3]int{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]int{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

func (p *plane) sobel(threshold float64) *plane {
	out := newPlane(p.w, p.h, p.origin)
	for y := 1; y < p.h-1; y++ {
		for x := 1; x < p.w-1; x++ {
			var sx, sy int
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := int(p.at(x+kx, y+ky))
					sx += v * sobelX[ky+1][kx+1]
					sy += v * sobelY[ky+1][kx+1]
				}
			}
			if math.Hypot(float64(sx), float64(sy)) > threshold {
				out.pix[y*p.w+x] = 255
			}
		}
	}
	return out
}

// dilate grows set pixels by r in both axes, as two 1D passes
func (p *plane) dilate(r int) *plane {
	if r <= 0 {
		return p
	}
	h := newPlane(p.w, p.h, p.origin)
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			if p.at(x, y) == 0 {
				continue
			}
			for k := max(0, x-r); k <= min(p.w-1, x+r); k++ {
				h.pix[y*p.w+k] = 255
			}
		}
	}
	v := newPlane(p.w, p.h, p.origin)
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			if h.at(x, y) == 0 {
				continue
			}
			for k := max(0, y-r); k <= min(p.h-1, y+r); k++ {
				v.pix[k*p.w+x] = 255
			}
		}
	}
	return v
}

// components returns the bounding rectangle of every 4-connected set region
func (p *plane) components() []image.Rectangle {
	visited := make([]bool, len(p.pix))
	var rects []image.Rectangle
	var stack []int

	for start := range p.pix {
		if p.pix[start] == 0 || visited[start] {
			continue
		}
		minX, minY := start%p.w, start/p.w
		maxX, maxY := minX, minY

		visited[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%p.w, i/p.w
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			for _, n := range [4]int{i - 1, i + 1, i - p.w, i + p.w} {
				if n < 0 || n >= len(p.pix) || visited[n] || p.pix[n] == 0 {
					continue
				}
				// no wrap across rows
				if (n == i-1 || n == i+1) && n/p.w != y {
					continue
				}
				visited[n] = true
				stack = append(stack, n)
			}
		}
		rects = append(rects, image.Rect(minX, minY, maxX+1, maxY+1))
	}
	return rects
}
