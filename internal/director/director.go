package director

import (
	"errors"
	"image/color"

	"github.com/rs/zerolog"

	"github.com/ivlev/promo2video/internal/failure"
	"github.com/ivlev/promo2video/internal/scene"
)

// Director turns a content config into an ordered scene list laid out for a
// fixed surface size
type Director struct {
	Width      int
	Height     int
	LineWidth  int     // characters per wrapped script line
	MaxLines   int     // script lines shown per scene
	LineStride float64 // ms between consecutive line reveals

	log zerolog.Logger
}

// NewDirector creates a Director with default script layout settings
func NewDirector(width, height int) *Director {
	return &Director{
		Width:      width,
		Height:     height,
		LineWidth:  60,
		MaxLines:   6,
		LineStride: 300,
		log:        zerolog.Nop(),
	}
}

// WithLogger replaces the logger used for build diagnostics
func (d *Director) WithLogger(l zerolog.Logger) *Director {
	d.log = l
	return d
}

// BuildScenes builds the scene list of cfg. A non-empty script selects
// script segmentation; otherwise the fixed template catalog is used.
// The result depends only on cfg.
func (d *Director) BuildScenes(cfg *ContentConfig) ([]scene.Scene, error) {
	if cfg == nil {
		return nil, failure.Configuration("build scenes", errors.New("no content config"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	style, _ := ParseStyle(string(cfg.Style))
	pal := PaletteFor(style)

	var scenes []scene.Scene
	if cfg.ScriptMode() {
		sections, err := SegmentScript(cfg.Script, cfg.TargetDuration)
		if err != nil {
			return nil, err
		}
		for _, sec := range sections {
			scenes = append(scenes, d.sectionScene(sec, cfg, pal))
		}
	} else {
		for _, a := range archetypes {
			s := a.build(d, cfg, pal)
			s.Name = a.name
			s.Duration = a.duration
			scenes = append(scenes, s)
		}
	}

	d.log.Debug().
		Int("scenes", len(scenes)).
		Float64("duration", scene.TotalDuration(scenes)).
		Bool("script", cfg.ScriptMode()).
		Str("style", string(style)).
		Msg("scenes built")
	return scenes, nil
}

// px scales a length given for a 1080 px tall surface
func (d *Director) px(v float64) float64 {
	return v * float64(d.Height) / 1080
}

func (d *Director) width() float64 {
	return float64(d.Width)
}

func anim(kind scene.AnimationKind, delayMs, durationMs float64) scene.Animation {
	return scene.Animation{Kind: kind, DelayMs: delayMs, DurationMs: durationMs}
}

func textElement(t scene.TextContent, pos scene.Position, size float64, c color.RGBA, a scene.Animation) scene.Element {
	if t.Align == "" {
		t.Align = scene.AlignLeft
		if pos.CenterX {
			t.Align = scene.AlignCenter
		}
	}
	return scene.Element{
		Kind:      scene.KindText,
		Content:   t,
		Position:  pos,
		FontSize:  size,
		Color:     rgba(c),
		Animation: a,
	}
}

func shapeElement(s scene.ShapeContent, pos scene.Position, size scene.Size, c color.RGBA, a scene.Animation) scene.Element {
	return scene.Element{
		Kind:      scene.KindShape,
		Content:   s,
		Position:  pos,
		Size:      &size,
		Color:     rgba(c),
		Animation: a,
	}
}

func iconElement(glyph scene.IconGlyph, pos scene.Position, side float64, c color.RGBA, a scene.Animation) scene.Element {
	return scene.Element{
		Kind:      scene.KindIcon,
		Content:   scene.IconContent{Glyph: glyph},
		Position:  pos,
		Size:      &scene.Size{Width: side, Height: side},
		Color:     rgba(c),
		Animation: a,
	}
}

func imageElement(kind scene.Kind, h scene.ImageHandle, pos scene.Position, size scene.Size, a scene.Animation) scene.Element {
	return scene.Element{
		Kind:      kind,
		Content:   scene.ImageContent{Handle: h},
		Position:  pos,
		Size:      &size,
		Animation: a,
	}
}

// ctaElements returns the button and, with a website, the address line and
// QR card shared by template and script closing scenes
func (d *Director) ctaElements(cfg *ContentConfig, pal Palette, top, delay float64) []scene.Element {
	label := "Order now"
	if cfg.Website != "" {
		label = "Visit us"
	}
	els := []scene.Element{
		shapeElement(
			scene.ShapeContent{Shape: scene.ShapeRoundedRect, Radius: d.px(60), Label: label},
			scene.Centered(top),
			scene.Size{Width: d.px(520), Height: d.px(120)},
			pal.Accent,
			anim(scene.BounceIn, delay, 900),
		),
	}
	if cfg.Website == "" {
		return els
	}

	els = append(els, textElement(
		scene.TextContent{Text: cfg.Website},
		scene.Centered(top+d.px(190)),
		d.px(40),
		pal.ClosingText,
		anim(scene.FadeIn, delay+700, 800),
	))

	side := d.px(240)
	margin := d.px(70)
	els = append(els, imageElement(
		scene.KindQRCode,
		QRHandle(cfg.Website, int(side)),
		scene.At(d.width()-side-margin, float64(d.Height)-side-margin),
		scene.Size{Width: side, Height: side},
		anim(scene.ZoomIn, delay+900, 800),
	))
	return els
}
