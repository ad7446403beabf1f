package source

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is a paged bitmap document. Plain images have a single page.
type Source interface {
	PageCount() int
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

const extPDF = ".pdf"

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Supported reports whether path has an extension Open understands
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == extPDF || imageExts[ext]
}

// Open picks a source implementation by file extension
func Open(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == extPDF:
		return NewFitzPDFSource(path)
	case imageExts[ext]:
		return NewImageSource(path)
	default:
		return nil, fmt.Errorf("unsupported image format %q", ext)
	}
}

// Expand replaces every directory in paths with the supported files it
// contains, sorted by name. Plain files are kept as given.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			out = append(out, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, entry := range entries {
			if !entry.IsDir() && Supported(entry.Name()) {
				found = append(found, filepath.Join(p, entry.Name()))
			}
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
