package director

import (
	"image/color"

	"github.com/ivlev/promo2video/internal/scene"
)

// Palette holds the backgrounds and text colors of one style
type Palette struct {
	Opening, Main, Closing             scene.Background
	OpeningText, MainText, ClosingText color.RGBA
	Accent, AccentText                 color.RGBA
}

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	hex   = scene.MustHex
)

var palettes = map[Style]Palette{
	StyleMedical: {
		Opening:     scene.Patterned(scene.PatternMedical, hex("#0d47a1"), hex("#1976d2")),
		Main:        scene.Gradient(hex("#e3f2fd"), hex("#bbdefb")),
		Closing:     scene.Patterned(scene.PatternMedical, hex("#1565c0"), hex("#0d47a1")),
		OpeningText: white,
		MainText:    hex("#0d47a1"),
		ClosingText: white,
		Accent:      hex("#00c853"),
		AccentText:  white,
	},
	StyleCorporate: {
		Opening:     scene.Patterned(scene.PatternCorporate, hex("#455a64"), hex("#102027")),
		Main:        scene.Gradient(hex("#eceff1"), hex("#cfd8dc")),
		Closing:     scene.Patterned(scene.PatternCorporate, hex("#37474f"), hex("#000a12")),
		OpeningText: white,
		MainText:    hex("#263238"),
		ClosingText: white,
		Accent:      hex("#ff6f00"),
		AccentText:  white,
	},
	StyleVibrant: {
		Opening:     scene.Gradient(hex("#ff6f00"), hex("#d81b60")),
		Main:        scene.Patterned(scene.PatternDots, hex("#7b1fa2"), hex("#4a148c")),
		Closing:     scene.Gradient(hex("#d81b60"), hex("#6a1b9a")),
		OpeningText: white,
		MainText:    white,
		ClosingText: white,
		Accent:      hex("#ffeb3b"),
		AccentText:  hex("#4a148c"),
	},
	StyleMinimal: {
		Opening:     scene.Solid(hex("#ffffff")),
		Main:        scene.Solid(hex("#f5f5f5")),
		Closing:     scene.Solid(hex("#212121")),
		OpeningText: hex("#212121"),
		MainText:    hex("#212121"),
		ClosingText: white,
		Accent:      hex("#212121"),
		AccentText:  white,
	},
}

// PaletteFor returns the palette of style, medical for unknown styles
func PaletteFor(style Style) Palette {
	if p, ok := palettes[style]; ok {
		return p
	}
	return palettes[StyleMedical]
}

func (p Palette) background(kind SectionKind) scene.Background {
	switch kind {
	case SectionOpening:
		return p.Opening
	case SectionClosing:
		return p.Closing
	default:
		return p.Main
	}
}

func (p Palette) text(kind SectionKind) color.RGBA {
	switch kind {
	case SectionOpening:
		return p.OpeningText
	case SectionClosing:
		return p.ClosingText
	default:
		return p.MainText
	}
}

// saturated reports whether text on this section needs an outline
func (p Palette) saturated(kind SectionKind) bool {
	return p.background(kind).Kind != scene.BackgroundSolid && p.text(kind) == white
}

func rgba(c color.RGBA) *scene.RGBA {
	v := scene.RGBA(c)
	return &v
}
