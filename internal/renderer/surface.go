package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/ivlev/promo2video/internal/system"
)

// Surface is the x/image backed Canvas. It is not safe for concurrent use;
// only the engine goroutine draws on it.
type Surface struct {
	img *image.RGBA

	mu   sync.Mutex
	taps []Tap

	backgrounds map[string]*image.RGBA
	scaled      *scaleCache
	masks       *maskCache
}

// NewSurface allocates a transparent surface of w×h pixels
func NewSurface(w, h int) *Surface {
	return &Surface{
		img:         image.NewRGBA(image.Rect(0, 0, w, h)),
		backgrounds: make(map[string]*image.RGBA),
		scaled:      newScaleCache(32),
		masks:       newMaskCache(256),
	}
}

func (s *Surface) must() {
	if s == nil || s.img == nil {
		panic("renderer: surface not initialized")
	}
}

func (s *Surface) Width() int {
	s.must()
	return s.img.Rect.Dx()
}

func (s *Surface) Height() int {
	s.must()
	return s.img.Rect.Dy()
}

// Image exposes the backing buffer. Callers must not keep it across frames.
func (s *Surface) Image() *image.RGBA {
	s.must()
	return s.img
}

// Clear resets every pixel to transparent black
func (s *Surface) Clear() {
	s.must()
	clear(s.img.Pix)
}

// AddTap registers a frame consumer and returns a function removing it
func (s *Surface) AddTap(t Tap) (remove func()) {
	s.must()
	s.mu.Lock()
	s.taps = append(s.taps, t)
	idx := len(s.taps) - 1
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.taps) {
			s.taps[idx] = nil
		}
	}
}

// Present copies the current frame into a pooled buffer for each tap
func (s *Surface) Present() {
	s.must()
	s.mu.Lock()
	taps := make([]Tap, 0, len(s.taps))
	for _, t := range s.taps {
		if t != nil {
			taps = append(taps, t)
		}
	}
	s.mu.Unlock()

	for _, t := range taps {
		frame := system.GetImage(s.img.Rect)
		copy(frame.Pix, s.img.Pix)
		t(frame)
	}
}

// nrgba converts a straight-alpha color into a uniform source image
func nrgba(c color.RGBA) *image.Uniform {
	return image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
}

// alphaMask returns nil for fully opaque draws so callers take the fast path
func alphaMask(alpha float64) image.Image {
	if alpha >= 1 {
		return nil
	}
	return image.NewUniform(color.Alpha{A: uint8(clamp01(alpha)*255 + 0.5)})
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// composite blends src over the surface through an optional constant alpha
func (s *Surface) composite(dr image.Rectangle, src image.Image, sp image.Point, alpha float64) {
	if alpha <= 0 {
		return
	}
	draw.DrawMask(s.img, dr, src, sp, alphaMask(alpha), image.Point{}, draw.Over)
}
