package director

import (
	"math"

	"github.com/ivlev/promo2video/internal/scene"
)

// Template archetype names
const (
	ProblemHook      = "problem-hook"
	ProductReveal    = "product-reveal"
	BenefitsShowcase = "benefits-showcase"
	HowItWorks       = "how-it-works"
	CallToAction     = "call-to-action"
)

type archetype struct {
	name     string
	duration float64 // seconds
	build    func(d *Director, cfg *ContentConfig, pal Palette) scene.Scene
}

// Durations are fixed; content changes text only, never timing.
var archetypes = []archetype{
	{ProblemHook, 5, (*Director).problemHook},
	{ProductReveal, 6, (*Director).productReveal},
	{BenefitsShowcase, 8, (*Director).benefitsShowcase},
	{HowItWorks, 6, (*Director).howItWorks},
	{CallToAction, 5, (*Director).callToAction},
}

// TemplateDuration is the total length of a template-mode video in seconds
func TemplateDuration() float64 {
	total := 0.0
	for _, a := range archetypes {
		total += a.duration
	}
	return total
}

func (d *Director) problemHook(cfg *ContentConfig, pal Palette) scene.Scene {
	tc := pal.OpeningText
	stroke := pal.saturated(SectionOpening)

	els := []scene.Element{
		iconElement(scene.IconAlert, scene.Centered(d.px(190)), d.px(150), pal.Accent, anim(scene.BounceIn, 0, 900)),
	}

	lines := CapLines(Wrap(cfg.problem(), 32), 2, 32)
	for i, line := range lines {
		els = append(els, textElement(
			scene.TextContent{Text: line, Bold: true, Stroke: stroke},
			scene.Centered(d.px(470)+float64(i)*d.px(95)),
			d.px(76), tc,
			anim(scene.Typewriter, 600+float64(i)*900, 900),
		))
	}

	sub := "There is a simpler way."
	if cfg.HealthConcern != "" {
		sub = "You're not alone."
	}
	els = append(els, textElement(
		scene.TextContent{Text: sub},
		scene.Centered(d.px(760)),
		d.px(44), tc,
		anim(scene.FadeIn, 2600, 800),
	))

	return scene.Scene{Background: pal.Opening, Elements: els}
}

func (d *Director) productReveal(cfg *ContentConfig, pal Palette) scene.Scene {
	tc := pal.MainText
	els := []scene.Element{
		shapeElement(
			scene.ShapeContent{Shape: scene.ShapeCircle},
			scene.Centered(d.px(110)),
			scene.Size{Width: d.px(560), Height: d.px(560)},
			scene.WithAlpha(pal.Accent, 0.18),
			anim(scene.ScaleIn, 0, 900),
		),
	}

	if len(cfg.ProductImages) > 0 {
		els = append(els, imageElement(
			scene.KindProductImage,
			cfg.ProductImages[0],
			scene.Centered(d.px(140)),
			scene.Size{Width: d.px(500), Height: d.px(500)},
			anim(scene.ZoomIn, 300, 1200),
		))
	} else {
		els = append(els,
			shapeElement(
				scene.ShapeContent{Shape: scene.ShapeRoundedRect, Radius: d.px(36)},
				scene.Centered(d.px(180)),
				scene.Size{Width: d.px(320), Height: d.px(420)},
				pal.Accent,
				anim(scene.ScaleIn, 300, 900),
			),
			iconElement(scene.IconStar, scene.Centered(d.px(320)), d.px(140), pal.AccentText, anim(scene.BounceIn, 900, 800)),
		)
	}

	els = append(els, textElement(
		scene.TextContent{Text: cfg.ProductName, Bold: true},
		scene.Centered(d.px(770)),
		d.px(88), tc,
		anim(scene.ScaleIn, 1200, 900),
	))

	for i, line := range CapLines(Wrap(cfg.intro(), 56), 2, 56) {
		els = append(els, textElement(
			scene.TextContent{Text: line},
			scene.Centered(d.px(880)+float64(i)*d.px(60)),
			d.px(44), tc,
			anim(scene.FadeIn, 1900+float64(i)*300, 900),
		))
	}

	return scene.Scene{Background: pal.Main, Elements: els}
}

func (d *Director) benefitsShowcase(cfg *ContentConfig, pal Palette) scene.Scene {
	tc := pal.MainText
	benefits := cfg.benefits()
	if len(benefits) > 5 {
		benefits = benefits[:5]
	}

	items := make([]scene.ChartItem, len(benefits))
	for i, b := range benefits {
		items[i] = scene.ChartItem{Label: b}
	}

	chartWidth := d.width() * 0.76
	hasImage := len(cfg.ProductImages) > 0
	if hasImage {
		chartWidth = d.width() * 0.5
	}
	rowHeight := d.px(120)

	els := []scene.Element{
		textElement(
			scene.TextContent{Text: "Why " + cfg.ProductName + "?", Bold: true},
			scene.Centered(d.px(150)),
			d.px(68), tc,
			anim(scene.SlideInLeft, 0, 800),
		),
		{
			Kind:      scene.KindChart,
			Content:   scene.ChartContent{Items: items},
			Position:  scene.At(d.width()*0.12, d.px(280)),
			Size:      &scene.Size{Width: chartWidth, Height: rowHeight * float64(len(items))},
			Color:     rgba(pal.Accent),
			FontSize:  d.px(44),
			Animation: anim(scene.FadeIn, 700, 700*float64(len(items))),
		},
	}

	if hasImage {
		side := math.Min(d.px(440), d.width()*0.26)
		els = append(els, imageElement(
			scene.KindProductImage,
			cfg.ProductImages[0],
			scene.At(d.width()*0.66, d.px(320)),
			scene.Size{Width: side, Height: side},
			anim(scene.SlideInRight, 1000, 1000),
		))
	}

	return scene.Scene{Background: pal.Main, Elements: els}
}

func (d *Director) howItWorks(cfg *ContentConfig, pal Palette) scene.Scene {
	tc := pal.MainText
	steps := cfg.steps()
	if len(steps) > 4 {
		steps = steps[:4]
	}
	reveal := 900 * float64(len(steps))

	return scene.Scene{
		Background: pal.Main,
		Elements: []scene.Element{
			textElement(
				scene.TextContent{Text: "How it works", Bold: true},
				scene.Centered(d.px(180)),
				d.px(68), tc,
				anim(scene.FadeIn, 0, 800),
			),
			{
				Kind:      scene.KindProcessFlow,
				Content:   scene.ProcessFlowContent{Steps: steps},
				Position:  scene.At(d.width()*0.08, d.px(380)),
				Size:      &scene.Size{Width: d.width() * 0.84, Height: d.px(320)},
				Color:     rgba(pal.Accent),
				FontSize:  d.px(36),
				Animation: anim(scene.SlideInRight, 600, reveal),
			},
			textElement(
				scene.TextContent{Text: "It only takes a few minutes a day"},
				scene.Centered(d.px(840)),
				d.px(40), tc,
				anim(scene.FadeIn, 600+reveal, 800),
			),
		},
	}
}

func (d *Director) callToAction(cfg *ContentConfig, pal Palette) scene.Scene {
	tc := pal.ClosingText
	stroke := pal.saturated(SectionClosing)

	var els []scene.Element
	for i, line := range CapLines(Wrap(cfg.callToAction(), 30), 2, 30) {
		els = append(els, textElement(
			scene.TextContent{Text: line, Bold: true, Stroke: stroke},
			scene.Centered(d.px(300)+float64(i)*d.px(95)),
			d.px(80), tc,
			anim(scene.ScaleIn, float64(i)*200, 900),
		))
	}
	els = append(els, d.ctaElements(cfg, pal, d.px(520), 900)...)

	return scene.Scene{Background: pal.Closing, Elements: els}
}
