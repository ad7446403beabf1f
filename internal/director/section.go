package director

import (
	"github.com/ivlev/promo2video/internal/scene"
)

// sectionScene lays out one script section: an optional heading, the
// wrapped body revealed line by line, and the call-to-action block for
// closing sections
func (d *Director) sectionScene(sec Section, cfg *ContentConfig, pal Palette) scene.Scene {
	tc := pal.text(sec.Kind)
	stroke := pal.saturated(sec.Kind)

	var els []scene.Element
	lineAnim := scene.FadeIn
	headingAnim := scene.FadeIn
	blockCenter := d.px(560)

	switch sec.Kind {
	case SectionMain:
		lineAnim = scene.SlideInLeft
		headingAnim = scene.SlideInLeft
	case SectionClosing:
		headingAnim = scene.ScaleIn
		blockCenter = d.px(470)
	}

	if sec.Marked && sec.Label != "" {
		els = append(els,
			textElement(
				scene.TextContent{Text: sec.Label, Bold: true, Stroke: stroke},
				scene.Centered(d.px(180)),
				d.px(64), tc,
				anim(headingAnim, 0, 800),
			),
			shapeElement(
				scene.ShapeContent{Shape: scene.ShapeRect},
				scene.Centered(d.px(240)),
				scene.Size{Width: d.px(220), Height: d.px(8)},
				pal.Accent,
				anim(scene.ScaleIn, 300, 600),
			),
		)
	}
	if sec.Kind == SectionOpening {
		els = append(els, iconElement(scene.IconStar, scene.At(d.px(80), d.px(80)), d.px(90), pal.Accent, anim(scene.BounceIn, 200, 900)))
	}

	lines := CapLines(Wrap(sec.Body, d.LineWidth), d.MaxLines, d.LineWidth)
	lineHeight := d.px(66)
	top := blockCenter - float64(len(lines)-1)*lineHeight/2
	for i, line := range lines {
		els = append(els, textElement(
			scene.TextContent{Text: line, Stroke: stroke},
			scene.Centered(top+float64(i)*lineHeight),
			d.px(46), tc,
			anim(lineAnim, 600+float64(i)*d.LineStride, 600),
		))
	}

	if sec.Kind == SectionClosing {
		delay := 600 + float64(len(lines))*d.LineStride
		els = append(els, d.ctaElements(cfg, pal, d.px(760), delay)...)
	}

	return scene.Scene{
		Name:       sec.Label,
		Duration:   sec.Duration,
		Background: pal.background(sec.Kind),
		Elements:   els,
	}
}
