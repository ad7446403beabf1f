package engine

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ivlev/promo2video/internal/config"
	"github.com/ivlev/promo2video/internal/director"
	"github.com/ivlev/promo2video/internal/failure"
	"github.com/ivlev/promo2video/internal/preview"
	"github.com/ivlev/promo2video/internal/renderer"
	"github.com/ivlev/promo2video/internal/scene"
	"github.com/ivlev/promo2video/internal/video"
)

// Progress receives coarse run milestones, never per-frame updates
type Progress func(percent int, stage string)

// Milestone stages
const (
	StageStarting = "starting"
	StageEncoded  = "encoding complete"
	StageReady    = "artifact ready"
)

// RunStats summarizes the last finished run
type RunStats struct {
	Engine   Stats
	Capture  video.Stats
	Duration time.Duration
}

// VideoProject runs one generation end to end: scenes, surface, engine and
// capture
type VideoProject struct {
	Config  *config.Config
	Encoder video.Encoder

	// Preview, when set, receives every finished artifact
	Preview  *preview.Registry
	Progress Progress
	// Scheduler overrides the pacing picked from Config.Fast
	Scheduler Scheduler

	now   func() time.Time
	log   zerolog.Logger
	stats RunStats
}

func NewVideoProject(cfg *config.Config, enc video.Encoder) *VideoProject {
	return &VideoProject{
		Config:  cfg,
		Encoder: enc,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
}

// WithLogger sets the logger handed to every component of a run
func (p *VideoProject) WithLogger(l zerolog.Logger) *VideoProject {
	p.log = l
	return p
}

// Stats returns the statistics of the last successful run
func (p *VideoProject) Stats() RunStats {
	return p.stats
}

// Generate builds the scenes of content and renders them. The artifact is
// named after the product.
func (p *VideoProject) Generate(ctx context.Context, content *director.ContentConfig) (*video.Artifact, error) {
	d := director.NewDirector(p.Config.Width, p.Config.Height).WithLogger(p.log)
	scenes, err := d.BuildScenes(content)
	if err != nil {
		return nil, err
	}
	return p.Render(ctx, scenes, director.SuggestedFilename(content.ProductName, p.now()))
}

// Render plays scenes through the engine while the capture encodes every
// presented frame. A cancelled ctx yields failure.ErrCancelled and no
// artifact.
func (p *VideoProject) Render(ctx context.Context, scenes []scene.Scene, filename string) (*video.Artifact, error) {
	if len(scenes) == 0 {
		return nil, failure.Configuration("render", errors.New("no scenes"))
	}
	if ctx.Err() != nil {
		return nil, failure.ErrCancelled
	}
	started := p.now()
	log := p.log.With().Str("run", uuid.NewString()).Logger()
	p.report(10, StageStarting)

	cfg := p.Config
	surface := renderer.NewSurface(cfg.Width, cfg.Height)
	capture := video.NewCapture(p.Encoder, video.Options{
		Width:        cfg.Width,
		Height:       cfg.Height,
		FPS:          cfg.FPS,
		Bitrate:      cfg.Bitrate,
		Codec:        cfg.Codec,
		Filename:     filename,
		Backpressure: cfg.Fast,
		Logger:       log,
	})
	if err := capture.Start(ctx); err != nil {
		return nil, err
	}
	remove := surface.AddTap(func(frame *image.RGBA) {
		capture.Submit(frame)
	})
	defer remove()

	eng := NewEngine(scenes, surface, cfg.FPS).WithLogger(log)
	eng.Transitions = cfg.Transitions

	sched := p.Scheduler
	if sched == nil {
		if cfg.Fast {
			sched = ImmediateScheduler{}
		} else {
			ticker := NewTickerScheduler(cfg.FPS)
			defer ticker.Stop()
			sched = ticker
		}
	}

	log.Info().
		Int("scenes", len(scenes)).
		Float64("duration", scene.TotalDuration(scenes)).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("fps", cfg.FPS).
		Msg("render started")

	if err := eng.Run(ctx, sched); err != nil {
		capture.Cancel()
		if errors.Is(err, failure.ErrCancelled) {
			log.Info().Int64("frames", eng.Stats().Frames).Msg("render cancelled")
			return nil, failure.ErrCancelled
		}
		return nil, err
	}

	artifact, err := capture.Stop(ctx)
	if err != nil {
		eng.Cancel()
		return nil, err
	}
	if err := eng.Finish(); err != nil {
		return nil, err
	}
	p.report(90, StageEncoded)

	p.stats = RunStats{Engine: eng.Stats(), Capture: capture.Stats(), Duration: p.now().Sub(started)}
	if p.Preview != nil {
		artifact.URL = p.Preview.Register(artifact)
	}
	p.report(100, StageReady)

	log.Info().
		Int64("frames", p.stats.Engine.Frames).
		Int64("dropped", p.stats.Capture.FramesDropped).
		Int("skipped_assets", p.stats.Engine.SkippedAssets).
		Int("bytes", artifact.Size).
		Dur("elapsed", p.stats.Duration).
		Msg("render finished")
	return artifact, nil
}

func (p *VideoProject) report(percent int, stage string) {
	if p.Progress != nil {
		p.Progress(percent, stage)
	}
}
