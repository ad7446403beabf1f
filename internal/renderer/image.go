package renderer

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

type scaleKey struct {
	src  image.Image
	w, h int
}

// scaleCache keeps recently scaled copies of source bitmaps. Entries are
// evicted in insertion order once the limit is reached.
type scaleCache struct {
	limit int
	order []scaleKey
	imgs  map[scaleKey]*image.RGBA
}

func newScaleCache(limit int) *scaleCache {
	return &scaleCache{limit: limit, imgs: make(map[scaleKey]*image.RGBA)}
}

func (c *scaleCache) get(src image.Image, w, h int) *image.RGBA {
	k := scaleKey{src: src, w: w, h: h}
	if img, ok := c.imgs[k]; ok {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Rect, src, src.Bounds(), xdraw.Src, nil)

	if len(c.order) >= c.limit {
		delete(c.imgs, c.order[0])
		c.order = c.order[1:]
	}
	c.order = append(c.order, k)
	c.imgs[k] = dst
	return dst
}

// DrawImage scales img into r and blends it at the given opacity
func (s *Surface) DrawImage(img image.Image, r Rect, alpha float64) {
	s.must()
	if img == nil || alpha <= 0 {
		return
	}
	dr := image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
	if dr.Dx() <= 0 || dr.Dy() <= 0 || dr.Intersect(s.img.Rect).Empty() {
		return
	}
	scaled := s.scaled.get(img, dr.Dx(), dr.Dy())
	s.composite(dr, scaled, image.Point{}, alpha)
}

// FitRect returns the largest rect with the aspect ratio of size that fits
// inside box, centered in it
func FitRect(size image.Point, box Rect) Rect {
	if size.X <= 0 || size.Y <= 0 {
		return box
	}
	k := math.Min(box.W/float64(size.X), box.H/float64(size.Y))
	w, h := float64(size.X)*k, float64(size.Y)*k
	return Rect{X: box.X + (box.W-w)/2, Y: box.Y + (box.H-h)/2, W: w, H: h}
}
