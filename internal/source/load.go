package source

import (
	"context"
	"image"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/promo2video/internal/analyzer"
	"github.com/ivlev/promo2video/internal/failure"
	"github.com/ivlev/promo2video/internal/scene"
)

const defaultDPI = 150

// Options control how product images are decoded
type Options struct {
	DPI      int               // PDF rasterization, 150 when zero
	Trim     bool              // crop to detected content
	Detector analyzer.Detector // background detector when nil
	Padding  int               // kept around trimmed content
	Logger   zerolog.Logger
}

// LoadImage decodes the first page of path into a handle keyed by the file
// name. Failures are carried in the handle, never returned.
func LoadImage(path string, opts Options) scene.ImageHandle {
	id := filepath.Base(path)
	log := opts.Logger.With().Str("image", id).Logger()

	img, err := render(path, opts.DPI)
	if err != nil {
		log.Warn().Err(err).Msg("image not loaded")
		return scene.FailedHandle(id, failure.Asset("load image", err))
	}

	if opts.Trim {
		img = trim(img, opts, log)
	}
	b := img.Bounds()
	log.Debug().Int("width", b.Dx()).Int("height", b.Dy()).Msg("image loaded")
	return scene.NewHandle(id, img)
}

// LoadImages decodes paths in parallel; the result keeps the input order
func LoadImages(ctx context.Context, paths []string, opts Options) []scene.ImageHandle {
	handles := make([]scene.ImageHandle, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				handles[i] = scene.FailedHandle(filepath.Base(p), failure.Asset("load image", err))
				return nil
			}
			handles[i] = LoadImage(p, opts)
			return nil
		})
	}
	_ = g.Wait()
	return handles
}

func render(path string, dpi int) (image.Image, error) {
	if dpi <= 0 {
		dpi = defaultDPI
	}
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.RenderPage(0, dpi)
}

func trim(img image.Image, opts Options, log zerolog.Logger) image.Image {
	d := opts.Detector
	if d == nil {
		d = analyzer.NewBackgroundDetector()
	}
	r, ok, err := analyzer.ContentBounds(img, d, opts.Padding)
	if err != nil {
		log.Warn().Err(err).Msg("content detection failed, image kept whole")
		return img
	}
	if !ok {
		return img
	}

	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	log.Debug().Stringer("bounds", r).Msg("image trimmed")
	return out
}
