package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"
	"strings"

	"github.com/ivlev/promo2video/internal/scene"
)

// FillBackground paints bg over the whole surface at the given opacity.
// Each distinct background is rasterized once and blitted afterwards.
func (s *Surface) FillBackground(bg scene.Background, alpha float64) {
	s.must()
	if alpha <= 0 {
		return
	}
	raster := s.background(bg)
	if alpha >= 1 {
		draw.Draw(s.img, s.img.Rect, raster, image.Point{}, draw.Src)
		return
	}
	s.composite(s.img.Rect, raster, image.Point{}, alpha)
}

func backgroundKey(bg scene.Background) string {
	var b strings.Builder
	b.WriteString(string(bg.Kind))
	b.WriteByte('/')
	b.WriteString(string(bg.Pattern))
	for _, c := range bg.Colors {
		b.WriteByte('/')
		b.WriteString(c.Hex())
	}
	return b.String()
}

func (s *Surface) background(bg scene.Background) *image.RGBA {
	key := backgroundKey(bg)
	if r, ok := s.backgrounds[key]; ok {
		return r
	}
	r := RasterizeBackground(bg, s.img.Rect.Dx(), s.img.Rect.Dy())
	s.backgrounds[key] = r
	return r
}

// RasterizeBackground renders bg into a new w×h image
func RasterizeBackground(bg scene.Background, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stops := bg.Stops()
	if len(stops) == 0 {
		stops = []color.RGBA{{A: 255}}
	}

	switch bg.Kind {
	case scene.BackgroundSolid:
		draw.Draw(img, img.Rect, nrgba(stops[0]), image.Point{}, draw.Src)
	case scene.BackgroundPattern:
		switch bg.Pattern {
		case scene.PatternCorporate:
			paintRadial(img, stops)
		case scene.PatternDots:
			paintVertical(img, stops)
			paintDots(img)
		default:
			paintVertical(img, stops)
			paintCrosses(img)
		}
	default:
		paintVertical(img, stops)
	}
	return img
}

// sample interpolates between evenly spaced stops at t in [0,1]
func sample(stops []color.RGBA, t float64) color.RGBA {
	if len(stops) == 1 {
		return stops[0]
	}
	t = clamp01(t)
	pos := t * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	f := pos - float64(i)
	a, b := stops[i], stops[i+1]
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*f + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func setPixel(img *image.RGBA, i int, c color.RGBA) {
	p := color.RGBAModel.Convert(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}).(color.RGBA)
	img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = p.R, p.G, p.B, p.A
}

func paintVertical(img *image.RGBA, stops []color.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		c := sample(stops, t)
		row := img.PixOffset(0, y)
		setPixel(img, row, c)
		for x := 1; x < w; x++ {
			copy(img.Pix[row+4*x:row+4*x+4], img.Pix[row:row+4])
		}
	}
}

func paintRadial(img *image.RGBA, stops []color.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	cx, cy := float64(w)/2, float64(h)*0.4
	maxD := math.Hypot(math.Max(cx, float64(w)-cx), math.Max(cy, float64(h)-cy))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy) / maxD
			setPixel(img, img.PixOffset(x, y), sample(stops, d))
		}
	}
}

// paintCrosses scatters faint medical crosses. The seed is fixed so every
// frame of every run shows the same layout.
func paintCrosses(img *image.RGBA) {
	w, h := float64(img.Rect.Dx()), float64(img.Rect.Dy())
	rng := rand.New(rand.NewSource(7))
	n := int(w * h / 40000)
	arm := h / 60
	for i := 0; i < n; i++ {
		x, y := rng.Float64()*w, rng.Float64()*h
		size := arm * (0.6 + rng.Float64())
		c := color.RGBA{R: 255, G: 255, B: 255, A: uint8(14 + rng.Intn(14))}
		fillPaths(img, c, crossPath(x, y, size))
	}
}

func paintDots(img *image.RGBA) {
	w, h := float64(img.Rect.Dx()), float64(img.Rect.Dy())
	step := h / 18
	r := step / 10
	c := color.RGBA{R: 255, G: 255, B: 255, A: 22}
	for y := step / 2; y < h; y += step {
		for x := step / 2; x < w; x += step {
			fillPaths(img, c, circlePath(x, y, r))
		}
	}
}

// crossPath is a plus sign centered on x, y with arms of length size
func crossPath(x, y, size float64) []Point {
	t := size / 3
	return []Point{
		{x - t, y - size}, {x + t, y - size}, {x + t, y - t}, {x + size, y - t},
		{x + size, y + t}, {x + t, y + t}, {x + t, y + size}, {x - t, y + size},
		{x - t, y + t}, {x - size, y + t}, {x - size, y - t}, {x - t, y - t},
	}
}
