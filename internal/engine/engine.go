// Package engine drives the frame clock of a generation run: it locates the
// active scene for every frame, resolves element animations and issues the
// draw calls on a renderer.Canvas.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ivlev/promo2video/internal/effects"
	"github.com/ivlev/promo2video/internal/failure"
	"github.com/ivlev/promo2video/internal/renderer"
	"github.com/ivlev/promo2video/internal/scene"
)

// TrailingMs keeps frames flowing after the last scene so the encoder
// flushes the final frames before the stream is closed
const TrailingMs = 150

// Stats counts what a run has drawn so far
type Stats struct {
	Frames        int64
	SkippedAssets int // elements never drawn because their image is missing
}

type elementKey struct {
	scene, element int
}

// Engine is the per-run animation state machine. It is not safe for
// concurrent use; one goroutine owns it together with its canvas.
type Engine struct {
	scenes  []scene.Scene
	canvas  renderer.Canvas
	clock   Clock
	state   State
	totalMs float64

	// Transitions blends the next background in over the last quarter of
	// every scene but the last
	Transitions bool

	skipped map[elementKey]bool
	log     zerolog.Logger
}

// NewEngine creates an idle engine over a built scene list
func NewEngine(scenes []scene.Scene, canvas renderer.Canvas, fps int) *Engine {
	return &Engine{
		scenes:      scenes,
		canvas:      canvas,
		clock:       Clock{FPS: fps},
		totalMs:     scene.TotalDuration(scenes) * 1000,
		Transitions: true,
		skipped:     make(map[elementKey]bool),
		log:         zerolog.Nop(),
	}
}

// WithLogger sets the logger used for asset diagnostics
func (e *Engine) WithLogger(l zerolog.Logger) *Engine {
	e.log = l
	return e
}

func (e *Engine) State() State {
	return e.state
}

// Clock returns the current frame clock
func (e *Engine) Clock() Clock {
	return e.clock
}

// TotalMs is the summed scene duration, without the trailing buffer
func (e *Engine) TotalMs() float64 {
	return e.totalMs
}

func (e *Engine) Stats() Stats {
	return Stats{Frames: e.clock.Frame, SkippedAssets: len(e.skipped)}
}

// Start moves an idle engine to Running
func (e *Engine) Start() error {
	if e.state != Idle {
		return fmt.Errorf("engine start: already %s", e.state)
	}
	if e.canvas == nil {
		return failure.Configuration("engine start", errors.New("no canvas"))
	}
	if e.clock.FPS <= 0 {
		return failure.Configuration("engine start", fmt.Errorf("invalid fps %d", e.clock.FPS))
	}
	if len(e.scenes) == 0 {
		return failure.Configuration("engine start", errors.New("no scenes"))
	}
	for i, s := range e.scenes {
		if s.Duration <= 0 {
			return failure.Configuration("engine start", fmt.Errorf("scene %d %q has duration %v", i, s.Name, s.Duration))
		}
	}
	e.state = Running
	return nil
}

// Tick renders and presents one frame, then advances the clock. Once the
// clock passes the last scene plus TrailingMs the engine moves to
// Finalizing instead of drawing. Ticks outside Running draw nothing.
func (e *Engine) Tick() (State, error) {
	switch e.state {
	case Idle:
		return e.state, errors.New("engine tick: not started")
	case Cancelled:
		return e.state, failure.ErrCancelled
	case Running:
	default:
		return e.state, nil
	}

	elapsed := e.clock.ElapsedMs()
	if elapsed >= e.totalMs+TrailingMs {
		e.state = Finalizing
		return e.state, nil
	}

	e.RenderAt(elapsed)
	e.canvas.Present()
	e.clock.Frame++
	return e.state, nil
}

// RenderAt draws the frame at global time elapsedMs without presenting it
// or touching the clock
func (e *Engine) RenderAt(elapsedMs float64) {
	cur, ok := scene.Locate(e.scenes, elapsedMs)
	e.canvas.Clear()
	if !ok {
		return
	}

	s := &e.scenes[cur.Index]
	e.canvas.FillBackground(s.Background, 1)
	for i := range s.Elements {
		e.drawElement(cur.Index, i, &s.Elements[i], cur.SinceStartMs)
	}

	if e.Transitions && cur.Index < len(e.scenes)-1 {
		if a := effects.TransitionAlpha(cur.Progress); a > 0 {
			e.canvas.FillBackground(e.scenes[cur.Index+1].Background, a)
		}
	}
}

// Finish confirms the encoder has stopped
func (e *Engine) Finish() error {
	if e.state != Finalizing {
		return fmt.Errorf("engine finish: %s", e.state)
	}
	e.state = Done
	return nil
}

// Cancel stops the run. Further ticks draw nothing.
func (e *Engine) Cancel() {
	if !e.state.Terminal() {
		e.state = Cancelled
	}
}

// Run starts the engine if needed and ticks once per scheduler release
// until Finalizing. A cancelled ctx cancels the engine and returns
// failure.ErrCancelled.
func (e *Engine) Run(ctx context.Context, sched Scheduler) error {
	if e.state == Idle {
		if err := e.Start(); err != nil {
			return err
		}
	}
	for {
		if ctx.Err() != nil {
			e.Cancel()
			return failure.ErrCancelled
		}
		state, err := e.Tick()
		if err != nil {
			return err
		}
		if state != Running {
			return nil
		}
		if err := sched.Wait(ctx); err != nil {
			e.Cancel()
			return failure.ErrCancelled
		}
	}
}

// skipAsset records an element whose image cannot be drawn, logging it the
// first time only
func (e *Engine) skipAsset(sceneIdx, elementIdx int, h scene.ImageHandle) {
	k := elementKey{sceneIdx, elementIdx}
	if e.skipped[k] {
		return
	}
	e.skipped[k] = true
	e.log.Warn().
		Err(h.Failure()).
		Int("scene", sceneIdx).
		Int("element", elementIdx).
		Str("asset", h.ID).
		Msg("skipping element with missing image")
}
