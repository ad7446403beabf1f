package system

import (
	"image"
	"sync"
)

// ImagePool keeps one free list of *image.RGBA per frame size. The canvas
// copies every presented frame, so the capture loop would otherwise
// allocate a full frame per tick.
type ImagePool struct {
	bySize sync.Map // image.Rectangle -> *sync.Pool
}

// NewImagePool creates an empty pool
func NewImagePool() *ImagePool {
	return &ImagePool{}
}

var frames = NewImagePool()

// GetImage returns a frame buffer with bounds rect. Its contents are
// undefined; callers overwrite every pixel.
func GetImage(rect image.Rectangle) *image.RGBA {
	return frames.Get(rect)
}

// PutImage returns a frame buffer once the encoder is done with it
func PutImage(img *image.RGBA) {
	frames.Put(img)
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	return p.sized(rect).Get().(*image.RGBA)
}

// Put keeps img only when it owns a whole buffer of a size Get has served.
// Sub-images share Pix with their parent and are dropped.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil || len(img.Pix) != 4*img.Rect.Dx()*img.Rect.Dy() {
		return
	}
	if v, ok := p.bySize.Load(img.Rect); ok {
		v.(*sync.Pool).Put(img)
	}
}

func (p *ImagePool) sized(rect image.Rectangle) *sync.Pool {
	if v, ok := p.bySize.Load(rect); ok {
		return v.(*sync.Pool)
	}
	v, _ := p.bySize.LoadOrStore(rect, &sync.Pool{
		New: func() any { return image.NewRGBA(rect) },
	})
	return v.(*sync.Pool)
}
