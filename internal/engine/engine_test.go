package engine

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/promo2video/internal/failure"
	"github.com/ivlev/promo2video/internal/renderer"
	"github.com/ivlev/promo2video/internal/scene"
)

type call struct {
	op    string
	text  string
	color color.RGBA
	bg    scene.Background
	alpha float64
}

// recordingCanvas records draw calls instead of rasterizing
type recordingCanvas struct {
	w, h      int
	calls     []call
	presented int
}

func newRecordingCanvas() *recordingCanvas {
	return &recordingCanvas{w: 1920, h: 1080}
}

func (c *recordingCanvas) Width() int  { return c.w }
func (c *recordingCanvas) Height() int { return c.h }
func (c *recordingCanvas) Clear()      { c.calls = append(c.calls, call{op: "clear"}) }

func (c *recordingCanvas) FillBackground(bg scene.Background, alpha float64) {
	c.calls = append(c.calls, call{op: "background", bg: bg, alpha: alpha})
}

func (c *recordingCanvas) DrawText(text string, x, y float64, style renderer.TextStyle) {
	c.calls = append(c.calls, call{op: "text", text: text, color: style.Color})
}

func (c *recordingCanvas) MeasureText(text string, style renderer.TextStyle) float64 {
	return float64(utf8.RuneCountInString(text)) * style.Size * 0.5
}

func (c *recordingCanvas) DrawRect(r renderer.Rect, fill color.RGBA, stroke *renderer.Stroke) {
	c.calls = append(c.calls, call{op: "rect", color: fill})
}

func (c *recordingCanvas) DrawRoundedRect(r renderer.Rect, radius float64, fill color.RGBA, stroke *renderer.Stroke) {
	c.calls = append(c.calls, call{op: "roundedRect", color: fill})
}

func (c *recordingCanvas) DrawCircle(cx, cy, radius float64, fill color.RGBA, stroke *renderer.Stroke) {
	c.calls = append(c.calls, call{op: "circle", color: fill})
}

func (c *recordingCanvas) DrawPolygon(points []renderer.Point, fill color.RGBA) {
	c.calls = append(c.calls, call{op: "polygon", color: fill})
}

func (c *recordingCanvas) DrawImage(img image.Image, r renderer.Rect, alpha float64) {
	c.calls = append(c.calls, call{op: "image", alpha: alpha})
}

func (c *recordingCanvas) Present() { c.presented++ }

func (c *recordingCanvas) reset() { c.calls = nil }

func (c *recordingCanvas) ops(op string) []call {
	var out []call
	for _, cl := range c.calls {
		if cl.op == op {
			out = append(out, cl)
		}
	}
	return out
}

func (c *recordingCanvas) texts() []string {
	var out []string
	for _, cl := range c.ops("text") {
		out = append(out, cl.text)
	}
	return out
}

func textEl(text string, kind scene.AnimationKind, delay, duration float64) scene.Element {
	return scene.Element{
		Kind:      scene.KindText,
		Content:   scene.TextContent{Text: text},
		Position:  scene.Centered(300),
		FontSize:  48,
		Animation: scene.Animation{Kind: kind, DelayMs: delay, DurationMs: duration},
	}
}

func solidScene(d float64, c color.RGBA, els ...scene.Element) scene.Scene {
	return scene.Scene{Name: "s", Duration: d, Background: scene.Solid(c), Elements: els}
}

var (
	red  = color.RGBA{R: 200, A: 255}
	blue = color.RGBA{B: 200, A: 255}
)

func TestElementVisibilityGating(t *testing.T) {
	canvas := newRecordingCanvas()
	eng := NewEngine([]scene.Scene{solidScene(3, red, textEl("Hello", scene.FadeIn, 1000, 500))}, canvas, 30)
	require.NoError(t, eng.Start())

	canvas.reset()
	eng.RenderAt(900)
	assert.Empty(t, canvas.ops("text"), "nothing drawn before the delay")

	cases := []struct {
		at    float64
		alpha uint8
	}{
		{1000, 0},
		{1250, 223}, // cubicOut(0.5) = 0.875
		{1500, 255},
		{2500, 255},
	}
	for _, tc := range cases {
		canvas.reset()
		eng.RenderAt(tc.at)
		texts := canvas.ops("text")
		require.Len(t, texts, 1, "at %v", tc.at)
		assert.Equal(t, tc.alpha, texts[0].color.A, "at %v", tc.at)
	}
}

func TestTypewriterMonotonic(t *testing.T) {
	const text = "Limited offer"
	canvas := newRecordingCanvas()
	eng := NewEngine([]scene.Scene{solidScene(2, red, textEl(text, scene.Typewriter, 0, 1000))}, canvas, 30)
	eng.Transitions = false
	require.NoError(t, eng.Start())

	prev := -1
	for {
		canvas.reset()
		elapsed := eng.Clock().ElapsedMs()
		state, err := eng.Tick()
		require.NoError(t, err)
		if state != Running {
			break
		}
		texts := canvas.texts()
		require.Len(t, texts, 1)
		shown := texts[0]
		cursor := strings.HasSuffix(shown, "|")
		n := utf8.RuneCountInString(strings.TrimSuffix(shown, "|"))

		assert.GreaterOrEqual(t, n, prev)
		assert.LessOrEqual(t, n, utf8.RuneCountInString(text))
		if elapsed >= 1000 {
			assert.Equal(t, text, shown)
		} else {
			assert.True(t, cursor, "cursor while revealing at %v", elapsed)
		}
		prev = n
	}
	assert.Equal(t, utf8.RuneCountInString(text), prev)
}

func TestTickStateMachine(t *testing.T) {
	canvas := newRecordingCanvas()
	eng := NewEngine([]scene.Scene{solidScene(1, red)}, canvas, 10)

	_, err := eng.Tick()
	require.Error(t, err, "tick before start")
	require.Error(t, eng.Finish())

	require.NoError(t, eng.Start())
	require.Error(t, eng.Start())

	ticks := 0
	for {
		state, err := eng.Tick()
		require.NoError(t, err)
		if state == Finalizing {
			break
		}
		ticks++
		require.Less(t, ticks, 100)
	}
	// 0..1100 ms render, 1200 ms is past the 1150 ms trailing edge
	assert.Equal(t, 12, ticks)
	assert.Equal(t, 12, canvas.presented)

	state, err := eng.Tick()
	require.NoError(t, err)
	assert.Equal(t, Finalizing, state)
	assert.Equal(t, 12, canvas.presented, "no frames while finalizing")

	require.NoError(t, eng.Finish())
	assert.Equal(t, Done, eng.State())
	eng.Cancel()
	assert.Equal(t, Done, eng.State(), "cancel after done is a no-op")
}

func TestStartRejectsBadInput(t *testing.T) {
	canvas := newRecordingCanvas()

	err := NewEngine(nil, canvas, 30).Start()
	assert.Equal(t, failure.KindConfiguration, failure.KindOf(err))

	err = NewEngine([]scene.Scene{solidScene(1, red)}, canvas, 0).Start()
	assert.Equal(t, failure.KindConfiguration, failure.KindOf(err))

	err = NewEngine([]scene.Scene{solidScene(0, red)}, canvas, 30).Start()
	assert.Equal(t, failure.KindConfiguration, failure.KindOf(err))
}

func TestCancelStopsDrawing(t *testing.T) {
	canvas := newRecordingCanvas()
	eng := NewEngine([]scene.Scene{solidScene(5, red, textEl("Hi", scene.FadeIn, 0, 100))}, canvas, 30)
	require.NoError(t, eng.Start())
	_, err := eng.Tick()
	require.NoError(t, err)

	eng.Cancel()
	canvas.reset()
	state, err := eng.Tick()
	assert.Equal(t, Cancelled, state)
	assert.True(t, errors.Is(err, failure.ErrCancelled))
	assert.Empty(t, canvas.calls)
}

func TestSceneLookupAndTransition(t *testing.T) {
	canvas := newRecordingCanvas()
	eng := NewEngine([]scene.Scene{solidScene(1, red), solidScene(1, blue)}, canvas, 30)
	require.NoError(t, eng.Start())

	bgAt := func(ms float64) []call {
		canvas.reset()
		eng.RenderAt(ms)
		return canvas.ops("background")
	}

	bgs := bgAt(500)
	require.Len(t, bgs, 1)
	assert.Equal(t, scene.Solid(red), bgs[0].bg)

	bgs = bgAt(900)
	require.Len(t, bgs, 2)
	assert.Equal(t, scene.Solid(blue), bgs[1].bg)
	assert.Greater(t, bgs[1].alpha, 0.0)
	assert.LessOrEqual(t, bgs[1].alpha, 0.5)

	bgs = bgAt(1000)
	require.Len(t, bgs, 1, "boundary belongs to the next scene")
	assert.Equal(t, scene.Solid(blue), bgs[0].bg)

	assert.Len(t, bgAt(1950), 1, "no transition after the last scene")

	eng.Transitions = false
	assert.Len(t, bgAt(900), 1)
}

func TestMissingAssetSkippedAndLoggedOnce(t *testing.T) {
	var logs bytes.Buffer
	canvas := newRecordingCanvas()
	broken := scene.Element{
		Kind:      scene.KindProductImage,
		Content:   scene.ImageContent{Handle: scene.FailedHandle("bottle.png", errors.New("decode failed"))},
		Position:  scene.Centered(100),
		Animation: scene.Animation{Kind: scene.ZoomIn, DurationMs: 300},
	}
	sc := solidScene(1, red, textEl("First", scene.FadeIn, 0, 200), broken, textEl("Second", scene.SlideInLeft, 0, 200))
	eng := NewEngine([]scene.Scene{sc}, canvas, 10).WithLogger(zerolog.New(&logs))

	require.NoError(t, eng.Run(context.Background(), ImmediateScheduler{}))
	assert.Equal(t, Finalizing, eng.State())
	assert.Empty(t, canvas.ops("image"))
	assert.Len(t, canvas.ops("text"), 2*canvas.presented)
	assert.Equal(t, 1, eng.Stats().SkippedAssets)
	assert.Equal(t, 1, strings.Count(logs.String(), "skipping element with missing image"))
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	canvas := newRecordingCanvas()
	eng := NewEngine([]scene.Scene{solidScene(10, red)}, canvas, 30)

	sched := &cancelAfter{n: 3, cancel: cancel}
	err := eng.Run(ctx, sched)
	assert.ErrorIs(t, err, failure.ErrCancelled)
	assert.Equal(t, Cancelled, eng.State())
	assert.Equal(t, 3, canvas.presented)
}

// cancelAfter cancels the run on its n-th wait
type cancelAfter struct {
	n, waits int
	cancel   context.CancelFunc
}

func (s *cancelAfter) Wait(ctx context.Context) error {
	s.waits++
	if s.waits >= s.n {
		s.cancel()
	}
	return ctx.Err()
}

func TestChartRevealsItemsSequentially(t *testing.T) {
	canvas := newRecordingCanvas()
	chart := scene.Element{
		Kind:      scene.KindChart,
		Content:   scene.ChartContent{Items: []scene.ChartItem{{Label: "Energy"}, {Label: "Focus"}, {Label: "Sleep"}}},
		Position:  scene.At(100, 200),
		Animation: scene.Animation{Kind: scene.FadeIn, DurationMs: 900},
	}
	eng := NewEngine([]scene.Scene{solidScene(3, red, chart)}, canvas, 30)
	require.NoError(t, eng.Start())

	labelsAt := func(ms float64) []string {
		canvas.reset()
		eng.RenderAt(ms)
		return canvas.texts()
	}
	assert.Equal(t, []string{"Energy"}, labelsAt(100))
	assert.Equal(t, []string{"Energy", "Focus"}, labelsAt(450))
	assert.Equal(t, []string{"Energy", "Focus", "Sleep"}, labelsAt(2000))
	assert.Len(t, canvas.ops("circle"), 3, "one check disc per item")
}

func TestProcessFlowRevealsSteps(t *testing.T) {
	canvas := newRecordingCanvas()
	flow := scene.Element{
		Kind:      scene.KindProcessFlow,
		Content:   scene.ProcessFlowContent{Steps: []string{"Order", "Take daily", "Feel better"}},
		Position:  scene.At(100, 300),
		Animation: scene.Animation{Kind: scene.SlideInRight, DurationMs: 1500},
	}
	eng := NewEngine([]scene.Scene{solidScene(3, red, flow)}, canvas, 30)
	require.NoError(t, eng.Start())

	canvas.reset()
	eng.RenderAt(250)
	assert.Equal(t, []string{"1", "Order"}, canvas.texts())

	canvas.reset()
	eng.RenderAt(2000)
	assert.Equal(t, []string{"1", "Order", "2", "Take daily", "3", "Feel better"}, canvas.texts())
	assert.Len(t, canvas.ops("rect"), 2, "connectors between steps")
}

func TestIconAndQRCode(t *testing.T) {
	canvas := newRecordingCanvas()
	icon := scene.Element{
		Kind:      scene.KindIcon,
		Content:   scene.IconContent{Glyph: scene.IconAlert},
		Position:  scene.At(10, 10),
		Animation: scene.Animation{Kind: scene.FadeIn, DurationMs: 100},
	}
	qr := scene.Element{
		Kind:      scene.KindQRCode,
		Content:   scene.ImageContent{Handle: scene.NewHandle("qr:x", image.NewRGBA(image.Rect(0, 0, 10, 10)))},
		Position:  scene.At(500, 500),
		Size:      &scene.Size{Width: 200, Height: 200},
		Animation: scene.Animation{Kind: scene.ZoomIn, DurationMs: 100},
	}
	eng := NewEngine([]scene.Scene{solidScene(1, red, icon, qr)}, canvas, 30)
	require.NoError(t, eng.Start())
	eng.RenderAt(500)

	assert.Len(t, canvas.ops("circle"), 1)
	assert.Len(t, canvas.ops("polygon"), 2, "alert bar and dot")

	var order []string
	for _, c := range canvas.calls {
		if c.op == "roundedRect" || c.op == "image" {
			order = append(order, c.op)
		}
	}
	assert.Equal(t, []string{"roundedRect", "image"}, order, "white card under the code")
}

func TestShapeLabelContrast(t *testing.T) {
	canvas := newRecordingCanvas()
	light := scene.RGBA{R: 250, G: 250, B: 240, A: 255}
	button := scene.Element{
		Kind:      scene.KindShape,
		Content:   scene.ShapeContent{Shape: scene.ShapeRoundedRect, Radius: 20, Label: "Order now"},
		Position:  scene.Centered(700),
		Size:      &scene.Size{Width: 400, Height: 100},
		Color:     &light,
		Animation: scene.Animation{Kind: scene.BounceIn, DurationMs: 100},
	}
	eng := NewEngine([]scene.Scene{solidScene(1, red, button)}, canvas, 30)
	require.NoError(t, eng.Start())
	eng.RenderAt(500)

	texts := canvas.ops("text")
	require.Len(t, texts, 1)
	assert.Equal(t, ink, texts[0].color)
	assert.Len(t, canvas.ops("roundedRect"), 1)
}

func TestClockDerivesElapsed(t *testing.T) {
	c := Clock{FPS: 30, Frame: 3000}
	assert.Equal(t, 100000.0, c.ElapsedMs())
	assert.InDelta(t, 33.333, c.FrameMs(), 0.001)
}
