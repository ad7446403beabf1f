package analyzer

import "fmt"

// Detector variants accepted by NewDetector
const (
	VariantContrast   = "contrast"
	VariantBackground = "background"
)

// NewDetector creates a detector based on the specified variant
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case VariantBackground, "":
		return NewBackgroundDetector(), nil
	case VariantContrast:
		return NewContrastDetector(), nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}
