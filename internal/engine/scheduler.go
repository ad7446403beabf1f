package engine

import (
	"context"
	"runtime"
	"time"
)

// Scheduler paces the engine loop. Wait returns once the next frame is due
// or with ctx's error when the run is cancelled.
type Scheduler interface {
	Wait(ctx context.Context) error
}

// TickerScheduler releases one frame per wall-clock frame interval, the
// pace at which the encoder samples the surface
type TickerScheduler struct {
	t *time.Ticker
}

// NewTickerScheduler starts a ticker at fps. Call Stop when the run ends.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 30
	}
	return &TickerScheduler{t: time.NewTicker(time.Second / time.Duration(fps))}
}

func (s *TickerScheduler) Wait(ctx context.Context) error {
	select {
	case <-s.t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *TickerScheduler) Stop() {
	s.t.Stop()
}

// ImmediateScheduler only yields the processor between frames. Used for
// tests and for fast renders where the capture applies backpressure.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Wait(ctx context.Context) error {
	runtime.Gosched()
	return ctx.Err()
}
