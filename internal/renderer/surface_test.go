package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/promo2video/internal/scene"
)

func at(s *Surface, x, y int) color.RGBA {
	return s.Image().RGBAAt(x, y)
}

func TestFillBackgroundSolid(t *testing.T) {
	s := NewSurface(32, 16)
	s.FillBackground(scene.Solid(color.RGBA{R: 200, A: 255}), 1)

	assert.Equal(t, color.RGBA{R: 200, A: 255}, at(s, 0, 0))
	assert.Equal(t, color.RGBA{R: 200, A: 255}, at(s, 31, 15))
}

func TestFillBackgroundGradientStops(t *testing.T) {
	s := NewSurface(8, 101)
	top, bottom := color.RGBA{B: 255, A: 255}, color.RGBA{G: 255, A: 255}
	s.FillBackground(scene.Gradient(top, bottom), 1)

	assert.Equal(t, top, at(s, 4, 0))
	assert.Equal(t, bottom, at(s, 4, 100))
	mid := at(s, 4, 50)
	assert.InDelta(t, 128, int(mid.G), 2)
	assert.InDelta(t, 128, int(mid.B), 2)
}

func TestFillBackgroundPartialAlpha(t *testing.T) {
	s := NewSurface(4, 4)
	s.FillBackground(scene.Solid(color.RGBA{A: 255}), 1)
	s.FillBackground(scene.Solid(color.RGBA{R: 255, G: 255, B: 255, A: 255}), 0.5)

	c := at(s, 1, 1)
	assert.InDelta(t, 128, int(c.R), 2)
	assert.Equal(t, uint8(255), c.A)
}

func TestBackgroundRasterCached(t *testing.T) {
	s := NewSurface(64, 64)
	bg := scene.Patterned(scene.PatternMedical, scene.MustHex("#0d47a1"), scene.MustHex("#1976d2"))

	first := s.background(bg)
	second := s.background(bg)
	assert.Same(t, first, second)

	other := s.background(scene.Patterned(scene.PatternCorporate, scene.MustHex("#263238"), scene.MustHex("#000000")))
	assert.NotSame(t, first, other)
}

func TestDrawRectAndStroke(t *testing.T) {
	s := NewSurface(40, 40)
	s.DrawRect(Rect{X: 10, Y: 10, W: 20, H: 20}, color.RGBA{R: 255, A: 255}, &Stroke{Color: color.RGBA{B: 255, A: 255}, Width: 3})

	assert.Equal(t, color.RGBA{R: 255, A: 255}, at(s, 20, 20), "inside keeps the fill")
	assert.Equal(t, color.RGBA{B: 255, A: 255}, at(s, 11, 20), "edge gets the stroke")
	assert.Equal(t, color.RGBA{}, at(s, 5, 5), "outside untouched")
}

func TestDrawCircle(t *testing.T) {
	s := NewSurface(50, 50)
	s.DrawCircle(25, 25, 10, color.RGBA{G: 255, A: 255}, nil)

	assert.Equal(t, color.RGBA{G: 255, A: 255}, at(s, 25, 25))
	assert.Equal(t, color.RGBA{}, at(s, 16, 16), "corner of the bounding box stays clear")
	assert.Equal(t, color.RGBA{}, at(s, 45, 25))
}

func TestShapesClipToSurface(t *testing.T) {
	s := NewSurface(20, 20)
	assert.NotPanics(t, func() {
		s.DrawRoundedRect(Rect{X: -30, Y: -30, W: 45, H: 45}, 8, color.RGBA{R: 255, A: 255}, nil)
		s.DrawCircle(100, 100, 5, color.RGBA{R: 255, A: 255}, nil)
		s.DrawPolygon([]Point{{10, 25}, {25, 10}, {30, 30}}, color.RGBA{B: 255, A: 255})
	})
	assert.Equal(t, color.RGBA{R: 255, A: 255}, at(s, 2, 2))
}

func TestDrawTextMarksPixels(t *testing.T) {
	s := NewSurface(400, 100)
	style := TextStyle{Size: 40, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}, NoShadow: true}
	s.DrawText("Hello", 10, 50, style)

	lit := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 400; x++ {
			if at(s, x, y).A > 0 {
				lit++
				assert.Greater(t, y, 20, "line is centered vertically on y")
				assert.Less(t, y, 80)
			}
		}
	}
	assert.Greater(t, lit, 100)
}

func TestDrawTextCenterAlign(t *testing.T) {
	s := NewSurface(400, 100)
	style := TextStyle{Size: 30, Color: color.RGBA{A: 255}, Align: scene.AlignCenter, NoShadow: true}
	w := s.MeasureText("centered", style)
	s.DrawText("centered", 200, 50, style)

	minX, maxX := 400, 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 400; x++ {
			if at(s, x, y).A > 0 {
				minX = min(minX, x)
				maxX = max(maxX, x)
			}
		}
	}
	assert.InDelta(t, 200, float64(minX+maxX)/2, 4)
	assert.InDelta(t, w, float64(maxX-minX), 6)
}

func TestMeasureText(t *testing.T) {
	s := NewSurface(10, 10)
	style := TextStyle{Size: 32}

	assert.Equal(t, 0.0, s.MeasureText("", style))
	short := s.MeasureText("ab", style)
	long := s.MeasureText("abcdef", style)
	assert.Greater(t, long, short)

	boldStyle := style
	boldStyle.Bold = true
	assert.Greater(t, s.MeasureText("abcdef", boldStyle), long)
}

func TestDrawTextShadowAndStroke(t *testing.T) {
	plain := NewSurface(200, 80)
	plain.DrawText("Go", 20, 40, TextStyle{Size: 40, Color: color.RGBA{R: 255, A: 255}, NoShadow: true})

	decorated := NewSurface(200, 80)
	decorated.DrawText("Go", 20, 40, TextStyle{Size: 40, Color: color.RGBA{R: 255, A: 255}, Stroke: true})

	count := func(s *Surface) int {
		n := 0
		pix := s.Image().Pix
		for i := 3; i < len(pix); i += 4 {
			if pix[i] > 0 {
				n++
			}
		}
		return n
	}
	assert.Greater(t, count(decorated), count(plain))
}

func TestDrawImageScalesWithAlpha(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+3] = 255, 255
	}

	s := NewSurface(30, 30)
	s.DrawImage(src, Rect{X: 5, Y: 5, W: 10, H: 10}, 1)
	c := at(s, 10, 10)
	assert.InDelta(t, 255, int(c.R), 1)
	assert.InDelta(t, 255, int(c.A), 1)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, color.RGBA{}, at(s, 20, 20))

	half := NewSurface(30, 30)
	half.DrawImage(src, Rect{X: 5, Y: 5, W: 10, H: 10}, 0.5)
	assert.InDelta(t, 128, int(at(half, 10, 10).A), 2)

	assert.Len(t, s.scaled.imgs, 1)
	s.DrawImage(src, Rect{X: 5, Y: 5, W: 10, H: 10}, 1)
	assert.Len(t, s.scaled.imgs, 1, "same size reuses the scaled copy")
}

func TestFitRect(t *testing.T) {
	r := FitRect(image.Pt(200, 100), Rect{W: 100, H: 100})
	assert.Equal(t, Rect{X: 0, Y: 25, W: 100, H: 50}, r)
}

func TestPresentDeliversSnapshot(t *testing.T) {
	s := NewSurface(4, 4)
	s.FillBackground(scene.Solid(color.RGBA{G: 255, A: 255}), 1)

	var got []*image.RGBA
	remove := s.AddTap(func(frame *image.RGBA) { got = append(got, frame) })
	s.Present()

	s.Clear()
	require.Len(t, got, 1)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, got[0].RGBAAt(1, 1), "later draws do not touch delivered frames")

	remove()
	s.Present()
	assert.Len(t, got, 1)
}

func TestUninitializedSurfacePanics(t *testing.T) {
	var s *Surface
	assert.Panics(t, func() { s.Clear() })
	assert.Panics(t, func() { (&Surface{}).DrawRect(Rect{W: 1, H: 1}, color.RGBA{A: 255}, nil) })
}
