package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/promo2video/internal/scene"
)

var (
	fontsOnce sync.Once
	regular   *opentype.Font
	bold      *opentype.Font
	fontsErr  error
)

func loadFonts() (*opentype.Font, *opentype.Font, error) {
	fontsOnce.Do(func() {
		regular, fontsErr = opentype.Parse(goregular.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("parse regular font: %w", fontsErr)
			return
		}
		bold, fontsErr = opentype.Parse(gobold.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("parse bold font: %w", fontsErr)
		}
	})
	return regular, bold, fontsErr
}

type faceKey struct {
	bold bool
	px   int
}

type maskKey struct {
	text string
	face faceKey
}

// textMask is a rasterized line of text. The glyph coverage sits in mask;
// mid is the distance from the mask's top edge to the line's vertical middle.
type textMask struct {
	mask  *image.Alpha
	width float64
	pad   int
	mid   int
}

type maskCache struct {
	limit int
	faces map[faceKey]font.Face
	lines map[maskKey]*textMask
}

func newMaskCache(limit int) *maskCache {
	return &maskCache{
		limit: limit,
		faces: make(map[faceKey]font.Face),
		lines: make(map[maskKey]*textMask),
	}
}

func (c *maskCache) face(k faceKey) font.Face {
	if f, ok := c.faces[k]; ok {
		return f
	}
	reg, b, err := loadFonts()
	if err != nil {
		// embedded fonts are part of the binary
		panic(err)
	}
	src := reg
	if k.bold {
		src = b
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    float64(k.px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic(fmt.Errorf("create face %dpx: %w", k.px, err))
	}
	c.faces[k] = f
	return f
}

func keyFor(style TextStyle) faceKey {
	px := int(math.Round(style.Size))
	if px < 1 {
		px = 1
	}
	return faceKey{bold: style.Bold, px: px}
}

func (c *maskCache) line(text string, fk faceKey) *textMask {
	k := maskKey{text: text, face: fk}
	if m, ok := c.lines[k]; ok {
		return m
	}
	if len(c.lines) >= c.limit {
		c.lines = make(map[maskKey]*textMask)
	}

	face := c.face(fk)
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	adv := font.MeasureString(face, text)

	pad := fk.px/8 + 2
	w := adv.Ceil() + 2*pad
	h := ascent + descent + 2*pad
	mask := image.NewAlpha(image.Rect(0, 0, w, h))

	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(pad, pad+ascent),
	}
	d.DrawString(text)

	m := &textMask{
		mask:  mask,
		width: float64(adv) / 64,
		pad:   pad,
		mid:   pad + (ascent+descent)/2,
	}
	c.lines[k] = m
	return m
}

// MeasureText returns the advance width of text in pixels
func (s *Surface) MeasureText(text string, style TextStyle) float64 {
	s.must()
	if text == "" {
		return 0
	}
	return s.masks.line(text, keyFor(style)).width
}

var shadowLayers = []struct {
	dx, dy int
	alpha  float64
}{
	{3, 3, 0.22},
	{2, 3, 0.08},
	{4, 3, 0.08},
	{3, 2, 0.08},
	{3, 4, 0.08},
}

var strokeDirs = [8][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// DrawText draws one line with a soft drop shadow and, for Stroke, an
// outline under the fill
func (s *Surface) DrawText(text string, x, y float64, style TextStyle) {
	s.must()
	if text == "" || style.Color.A == 0 {
		return
	}
	m := s.masks.line(text, keyFor(style))
	if style.Align == scene.AlignCenter {
		x -= m.width / 2
	}
	ox := int(math.Round(x)) - m.pad
	oy := int(math.Round(y)) - m.mid
	fade := float64(style.Color.A) / 255

	if !style.NoShadow {
		for _, l := range shadowLayers {
			s.blitMask(m.mask, ox+l.dx, oy+l.dy, color.RGBA{A: uint8(255 * l.alpha * fade)})
		}
	}

	if style.Stroke {
		sc := style.StrokeColor
		if sc == (color.RGBA{}) {
			sc = color.RGBA{A: 200}
		}
		sc.A = uint8(float64(sc.A) * fade)
		w := int(math.Max(2, style.Size/24))
		for step := 1; step <= w; step++ {
			for _, d := range strokeDirs {
				s.blitMask(m.mask, ox+d[0]*step, oy+d[1]*step, sc)
			}
		}
	}

	s.blitMask(m.mask, ox, oy, style.Color)
}

func (s *Surface) blitMask(mask *image.Alpha, x, y int, c color.RGBA) {
	if c.A == 0 {
		return
	}
	dr := image.Rect(x, y, x+mask.Rect.Dx(), y+mask.Rect.Dy())
	draw.DrawMask(s.img, dr, nrgba(c), image.Point{}, mask, mask.Rect.Min, draw.Over)
}
