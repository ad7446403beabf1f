package analyzer

import (
	"image"
	"image/color"
)

// BackgroundDetector treats the color of the top-left pixel as backdrop and
// returns the box around everything that differs from it. Product shots on a
// plain or transparent backdrop are its target.
type BackgroundDetector struct {
	Tolerance uint8 // per channel, 8-bit
	MinAlpha  uint8 // pixels more transparent than this are backdrop
}

// NewBackgroundDetector creates a detector with default tolerances
func NewBackgroundDetector() *BackgroundDetector {
	return &BackgroundDetector{Tolerance: 12, MinAlpha: 16}
}

// Detect returns at most one block
func (d *BackgroundDetector) Detect(img image.Image) ([]Block, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, nil
	}
	bg := color.NRGBAModel.Convert(img.At(b.Min.X, b.Min.Y)).(color.NRGBA)

	found := image.Rectangle{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if d.backdrop(c, bg) {
				continue
			}
			found = found.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	if found.Empty() {
		return nil, nil
	}
	return []Block{{Rect: found, Confidence: 0.9}}, nil
}

func (d *BackgroundDetector) backdrop(c, bg color.NRGBA) bool {
	if c.A < d.MinAlpha {
		return true
	}
	if bg.A < d.MinAlpha {
		return false
	}
	return near(c.R, bg.R, d.Tolerance) && near(c.G, bg.G, d.Tolerance) && near(c.B, bg.B, d.Tolerance)
}

func near(a, b, tol uint8) bool {
	if a > b {
		return a-b <= tol
	}
	return b-a <= tol
}

// ContentBounds is the union of every block d finds in img, grown by pad
// and clipped to the image. ok is false when nothing was found or the
// content already fills the image.
func ContentBounds(img image.Image, d Detector, pad int) (r image.Rectangle, ok bool, err error) {
	blocks, err := d.Detect(img)
	if err != nil {
		return image.Rectangle{}, false, err
	}
	for _, b := range blocks {
		r = r.Union(b.Rect)
	}
	if r.Empty() {
		return image.Rectangle{}, false, nil
	}
	r = r.Inset(-pad).Intersect(img.Bounds())
	return r, r != img.Bounds(), nil
}
