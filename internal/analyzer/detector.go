package analyzer

import "image"

// Block is a region of visible content inside a bitmap
type Block struct {
	Rect       image.Rectangle
	Confidence float64 // 0.0-1.0
}

// Detector finds content regions in a bitmap
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}
