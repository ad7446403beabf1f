package engine

import (
	"image/color"
	"math"
	"strconv"

	"github.com/ivlev/promo2video/internal/easing"
	"github.com/ivlev/promo2video/internal/effects"
	"github.com/ivlev/promo2video/internal/renderer"
	"github.com/ivlev/promo2video/internal/scene"
)

var (
	white         = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	ink           = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	defaultAccent = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
)

// drawElement resolves the animation of one element and draws it. Elements
// before their delay are not drawn at all.
func (e *Engine) drawElement(sceneIdx, idx int, el *scene.Element, sinceMs float64) {
	progress, visible := el.Animation.Progress(sinceMs)
	if !visible {
		return
	}
	tr := effects.Apply(el.Animation.Kind, progress, effects.Params{SurfaceWidth: float64(e.canvas.Width())})
	if tr.Scale <= 0 {
		return
	}

	switch c := el.Content.(type) {
	case scene.TextContent:
		e.drawText(el, c, tr)
	case scene.ShapeContent:
		e.drawShape(el, c, tr)
	case scene.ImageContent:
		if !c.Handle.Ready() {
			e.skipAsset(sceneIdx, idx, c.Handle)
			return
		}
		e.drawImage(el, c, tr)
	case scene.ChartContent:
		e.drawChart(el, c, progress, tr)
	case scene.ProcessFlowContent:
		e.drawProcessFlow(el, c, progress, tr)
	case scene.IconContent:
		e.drawIcon(el, c, tr)
	default:
		e.log.Debug().Str("kind", string(el.Kind)).Msg("element without drawable content")
	}
}

// px scales a length given for a 1080 px tall surface
func (e *Engine) px(v float64) float64 {
	return v * float64(e.canvas.Height()) / 1080
}

// box is the untransformed element rectangle; a centered position centers
// the box horizontally
func (e *Engine) box(el *scene.Element, def scene.Size) renderer.Rect {
	sz := el.SizeOr(def)
	x := el.Position.X
	if el.Position.CenterX {
		x = (float64(e.canvas.Width()) - sz.Width) / 2
	}
	return renderer.Rect{X: x, Y: el.Position.Y, W: sz.Width, H: sz.Height}
}

func transformed(r renderer.Rect, tr effects.Transform) renderer.Rect {
	return r.Scale(tr.Scale).Translate(tr.OffsetX, tr.OffsetY)
}

func colorOr(c *scene.RGBA, def color.RGBA) color.RGBA {
	if c == nil {
		return def
	}
	return c.Color()
}

// contrastText picks dark ink on light fills and white otherwise
func contrastText(fill color.RGBA) color.RGBA {
	lum := (0.2126*float64(fill.R) + 0.7152*float64(fill.G) + 0.0722*float64(fill.B)) / 255
	if lum > 0.6 {
		return ink
	}
	return white
}

func (e *Engine) drawText(el *scene.Element, c scene.TextContent, tr effects.Transform) {
	text := effects.RevealText(c.Text, tr.Reveal, tr.Cursor)
	if text == "" {
		return
	}
	size := el.FontSize
	if size <= 0 {
		size = e.px(48)
	}
	x := el.Position.X
	align := c.Align
	if el.Position.CenterX {
		x = float64(e.canvas.Width()) / 2
		if align == "" {
			align = scene.AlignCenter
		}
	}
	e.canvas.DrawText(text, x+tr.OffsetX, el.Position.Y+tr.OffsetY, renderer.TextStyle{
		Size:   size * tr.Scale,
		Color:  scene.WithAlpha(colorOr(el.Color, white), tr.Alpha),
		Bold:   c.Bold,
		Align:  align,
		Stroke: c.Stroke,
	})
}

func (e *Engine) drawShape(el *scene.Element, c scene.ShapeContent, tr effects.Transform) {
	r := transformed(e.box(el, scene.Size{Width: e.px(200), Height: e.px(200)}), tr)
	base := colorOr(el.Color, white)
	fill := scene.WithAlpha(base, tr.Alpha)

	var stroke *renderer.Stroke
	if c.StrokeColor != nil {
		w := c.StrokeWidth
		if w <= 0 {
			w = 2
		}
		stroke = &renderer.Stroke{Color: scene.WithAlpha(c.StrokeColor.Color(), tr.Alpha), Width: w * tr.Scale}
	}

	center := r.Center()
	switch c.Shape {
	case scene.ShapeCircle:
		e.canvas.DrawCircle(center.X, center.Y, math.Min(r.W, r.H)/2, fill, stroke)
	case scene.ShapeRoundedRect:
		e.canvas.DrawRoundedRect(r, c.Radius*tr.Scale, fill, stroke)
	default:
		e.canvas.DrawRect(r, fill, stroke)
	}

	if c.Label != "" {
		e.canvas.DrawText(c.Label, center.X, center.Y, renderer.TextStyle{
			Size:  r.H * 0.38,
			Color: scene.WithAlpha(contrastText(base), tr.Alpha),
			Bold:  true,
			Align: scene.AlignCenter,
		})
	}
}

func (e *Engine) drawImage(el *scene.Element, c scene.ImageContent, tr effects.Transform) {
	r := transformed(e.box(el, scene.Size{Width: e.px(400), Height: e.px(400)}), tr)
	img := c.Handle.Image
	fit := renderer.FitRect(img.Bounds().Size(), r)

	// QR codes need a light quiet zone to stay scannable on any background
	if el.Kind == scene.KindQRCode {
		pad := fit.W * 0.08
		card := renderer.Rect{X: fit.X - pad, Y: fit.Y - pad, W: fit.W + 2*pad, H: fit.H + 2*pad}
		e.canvas.DrawRoundedRect(card, pad, scene.WithAlpha(white, tr.Alpha), nil)
	}
	e.canvas.DrawImage(img, fit, tr.Alpha)
}

// stepProgress splits an element's progress into n sequential windows and
// returns the local progress of window i
func stepProgress(progress float64, n, i int) float64 {
	return easing.Clamp01(progress*float64(n) - float64(i))
}

// drawChart draws one card per item; items appear one after another over
// the element's animation window, each with a check disc
func (e *Engine) drawChart(el *scene.Element, c scene.ChartContent, progress float64, tr effects.Transform) {
	n := len(c.Items)
	if n == 0 {
		return
	}
	r := e.box(el, scene.Size{Width: float64(e.canvas.Width()) * 0.7, Height: e.px(120) * float64(n)}).
		Translate(tr.OffsetX, tr.OffsetY)
	rowH := r.H / float64(n)
	accent := colorOr(el.Color, defaultAccent)
	fontSize := el.FontSize
	if fontSize <= 0 {
		fontSize = rowH * 0.36
	}

	if c.Title != "" {
		e.canvas.DrawText(c.Title, r.X, r.Y-rowH*0.45, renderer.TextStyle{
			Size:   fontSize * 1.15,
			Color:  scene.WithAlpha(white, tr.Alpha),
			Bold:   true,
			Stroke: true,
		})
	}

	maxValue := 0.0
	for _, it := range c.Items {
		maxValue = math.Max(maxValue, it.Value)
	}

	for i, it := range c.Items {
		ip := stepProgress(progress, n, i)
		if ip <= 0 {
			break
		}
		eased := easing.CubicOut(ip)
		alpha := tr.Alpha * eased

		cardH := rowH * 0.78
		card := renderer.Rect{
			X: r.X - (1-eased)*rowH,
			Y: r.Y + float64(i)*rowH + (rowH-cardH)/2,
			W: r.W,
			H: cardH,
		}
		e.canvas.DrawRoundedRect(card, cardH/2, scene.WithAlpha(white, alpha*0.9), nil)

		if it.Value > 0 && maxValue > 0 {
			bar := renderer.Rect{X: card.X + cardH/2, Y: card.Y + cardH - cardH*0.12, H: cardH * 0.08}
			bar.W = (card.W - cardH) * (it.Value / maxValue) * eased
			e.canvas.DrawRect(bar, scene.WithAlpha(accent, alpha), nil)
		}

		disc := renderer.Point{X: card.X + cardH/2, Y: card.Y + cardH/2}
		radius := cardH * 0.34
		e.canvas.DrawCircle(disc.X, disc.Y, radius, scene.WithAlpha(accent, alpha), nil)
		for _, poly := range glyphPolygons(scene.IconCheck, disc, radius*0.6) {
			e.canvas.DrawPolygon(poly, scene.WithAlpha(contrastText(accent), alpha))
		}

		style := renderer.TextStyle{Size: fontSize, Color: scene.WithAlpha(ink, alpha), NoShadow: true}
		room := card.W - cardH*1.4
		if w := e.canvas.MeasureText(it.Label, style); w > room && w > 0 {
			style.Size *= room / w
		}
		e.canvas.DrawText(it.Label, card.X+cardH, disc.Y, style)
	}
}

// drawProcessFlow lays steps out left to right as numbered discs joined by
// connectors, revealed one after another
func (e *Engine) drawProcessFlow(el *scene.Element, c scene.ProcessFlowContent, progress float64, tr effects.Transform) {
	n := len(c.Steps)
	if n == 0 {
		return
	}
	r := e.box(el, scene.Size{Width: float64(e.canvas.Width()) * 0.84, Height: e.px(320)}).
		Translate(tr.OffsetX, tr.OffsetY)
	stepW := r.W / float64(n)
	radius := math.Min(stepW*0.2, r.H*0.22)
	accent := colorOr(el.Color, defaultAccent)
	fontSize := el.FontSize
	if fontSize <= 0 {
		fontSize = e.px(34)
	}
	gap := radius * 0.25
	thickness := math.Max(2, radius*0.1)

	for i, step := range c.Steps {
		ip := stepProgress(progress, n, i)
		if ip <= 0 {
			break
		}
		eased := easing.CubicOut(ip)
		alpha := tr.Alpha * eased
		cx := r.X + stepW*(float64(i)+0.5)
		cy := r.Y + radius

		if i > 0 {
			start := cx - stepW + radius + gap
			length := (stepW - 2*radius - 2*gap) * eased
			if length > 0 {
				e.canvas.DrawRect(renderer.Rect{X: start, Y: cy - thickness/2, W: length, H: thickness}, scene.WithAlpha(white, alpha*0.85), nil)
				tip := start + length
				e.canvas.DrawPolygon([]renderer.Point{
					{X: tip, Y: cy - thickness*2},
					{X: tip + thickness*3, Y: cy},
					{X: tip, Y: cy + thickness*2},
				}, scene.WithAlpha(white, alpha*0.85))
			}
		}

		k := easing.BackOut(ip)
		if k > 0 {
			e.canvas.DrawCircle(cx, cy, radius*k, scene.WithAlpha(accent, alpha), &renderer.Stroke{
				Color: scene.WithAlpha(white, alpha),
				Width: thickness,
			})
			e.canvas.DrawText(strconv.Itoa(i+1), cx, cy, renderer.TextStyle{
				Size:     radius * k,
				Color:    scene.WithAlpha(contrastText(accent), alpha),
				Bold:     true,
				Align:    scene.AlignCenter,
				NoShadow: true,
			})
		}

		style := renderer.TextStyle{Size: fontSize, Color: scene.WithAlpha(ink, alpha), Align: scene.AlignCenter, NoShadow: true}
		w := e.canvas.MeasureText(step, style)
		if room := stepW * 0.86; w > room && w > 0 {
			style.Size *= room / w
			w = room
		}
		cardH := style.Size * 1.8
		card := renderer.Rect{X: cx - w/2 - cardH/2, Y: cy + radius + e.px(28), W: w + cardH, H: cardH}
		e.canvas.DrawRoundedRect(card, cardH/2, scene.WithAlpha(white, alpha*0.9), nil)
		e.canvas.DrawText(step, cx, card.Y+cardH/2, style)
	}
}

func (e *Engine) drawIcon(el *scene.Element, c scene.IconContent, tr effects.Transform) {
	side := e.px(120)
	r := transformed(e.box(el, scene.Size{Width: side, Height: side}), tr)
	center := r.Center()
	radius := math.Min(r.W, r.H) / 2
	base := colorOr(el.Color, defaultAccent)

	e.canvas.DrawCircle(center.X, center.Y, radius, scene.WithAlpha(base, tr.Alpha), nil)
	for _, poly := range glyphPolygons(c.Glyph, center, radius*0.6) {
		e.canvas.DrawPolygon(poly, scene.WithAlpha(contrastText(base), tr.Alpha))
	}
}
