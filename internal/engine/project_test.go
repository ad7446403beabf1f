package engine

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/promo2video/internal/config"
	"github.com/ivlev/promo2video/internal/director"
	"github.com/ivlev/promo2video/internal/failure"
	"github.com/ivlev/promo2video/internal/preview"
	"github.com/ivlev/promo2video/internal/scene"
	"github.com/ivlev/promo2video/internal/video"
)

// fakeEncoder emits four bytes per frame through an in-memory pipe
type fakeEncoder struct {
	mu      sync.Mutex
	frames  int
	waitErr error
}

func (f *fakeEncoder) Open(ctx context.Context, p video.StreamParams) (video.Session, error) {
	pr, pw := io.Pipe()
	return &fakeSession{enc: f, pr: pr, pw: pw, params: p}, nil
}

func (f *fakeEncoder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

type fakeSession struct {
	enc    *fakeEncoder
	pr     *io.PipeReader
	pw     *io.PipeWriter
	params video.StreamParams
}

func (s *fakeSession) WriteFrame(frame *image.RGBA) error {
	if frame.Rect.Dx() != s.params.Width || frame.Rect.Dy() != s.params.Height {
		return errors.New("frame size mismatch")
	}
	s.enc.mu.Lock()
	s.enc.frames++
	s.enc.mu.Unlock()
	_, err := s.pw.Write([]byte{0x1a, 0x45, 0xdf, 0xa3})
	return err
}

func (s *fakeSession) Output() io.Reader { return s.pr }
func (s *fakeSession) CloseInput() error { return s.pw.Close() }
func (s *fakeSession) Wait() error       { return s.enc.waitErr }

func (s *fakeSession) Abort() error {
	s.pw.CloseWithError(errors.New("aborted"))
	return nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Width, cfg.Height = 64, 36
	cfg.FPS = 10
	cfg.Bitrate = 100_000
	cfg.Fast = true
	return cfg
}

func shortScenes() []scene.Scene {
	return []scene.Scene{
		solidScene(0.3, red, textEl("One", scene.FadeIn, 0, 100)),
		solidScene(0.2, blue, textEl("Two", scene.Typewriter, 0, 100)),
	}
}

func TestRenderProducesArtifact(t *testing.T) {
	enc := &fakeEncoder{}
	reg := preview.NewRegistry("")
	p := NewVideoProject(testConfig(), enc)
	p.Preview = reg

	var milestones []int
	var stages []string
	p.Progress = func(percent int, stage string) {
		milestones = append(milestones, percent)
		stages = append(stages, stage)
	}

	art, err := p.Render(context.Background(), shortScenes(), "clip.webm")
	require.NoError(t, err)
	require.NotNil(t, art)

	// 500 ms of scenes plus the trailing buffer at 10 fps
	assert.Equal(t, 7, enc.count())
	assert.Equal(t, video.MimeWebM, art.MimeType)
	assert.Equal(t, "clip.webm", art.Filename)
	assert.Equal(t, 7*4, art.Size)
	assert.Equal(t, []int{10, 90, 100}, milestones)
	assert.Equal(t, []string{StageStarting, StageEncoded, StageReady}, stages)
	assert.NotEmpty(t, art.URL)
	assert.Equal(t, 1, reg.Len())

	stats := p.Stats()
	assert.Equal(t, int64(7), stats.Engine.Frames)
	assert.Equal(t, int64(7), stats.Capture.FramesWritten)
	assert.Zero(t, stats.Capture.FramesDropped)
}

func TestRenderCancelledBeforeFirstScene(t *testing.T) {
	enc := &fakeEncoder{}
	p := NewVideoProject(testConfig(), enc)

	var milestones []int
	p.Progress = func(percent int, _ string) { milestones = append(milestones, percent) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Scheduler = &cancelAfter{n: 2, cancel: cancel}

	art, err := p.Render(ctx, shortScenes(), "clip.webm")
	assert.Nil(t, art)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrCancelled)
	assert.Equal(t, failure.KindCancelled, failure.KindOf(err))
	assert.Equal(t, []int{10}, milestones, "no completion milestones")
}

func TestRenderEncoderFailure(t *testing.T) {
	enc := &fakeEncoder{waitErr: errors.New("exit status 1, output: Unknown encoder 'libvpx'")}
	p := NewVideoProject(testConfig(), enc)

	art, err := p.Render(context.Background(), shortScenes(), "clip.webm")
	assert.Nil(t, art)
	require.Error(t, err)
	assert.Equal(t, failure.KindEncoder, failure.KindOf(err))
	assert.Contains(t, err.Error(), "Unknown encoder")
}

func TestRenderSurvivesMissingAsset(t *testing.T) {
	enc := &fakeEncoder{}
	p := NewVideoProject(testConfig(), enc)

	broken := scene.Element{
		Kind:      scene.KindProductImage,
		Content:   scene.ImageContent{Handle: scene.FailedHandle("missing.png", failure.Asset("load image", errors.New("no such file")))},
		Position:  scene.At(4, 4),
		Size:      &scene.Size{Width: 20, Height: 20},
		Animation: scene.Animation{Kind: scene.ZoomIn, DurationMs: 100},
	}
	scenes := []scene.Scene{
		solidScene(0.4, color.RGBA{G: 120, A: 255}, textEl("Energy", scene.FadeIn, 0, 100), broken, textEl("Focus", scene.SlideInLeft, 0, 100)),
	}

	art, err := p.Render(context.Background(), scenes, "clip.webm")
	require.NoError(t, err)
	assert.Positive(t, art.Size)
	assert.Equal(t, 1, p.Stats().Engine.SkippedAssets)
}

func TestGenerateNamesArtifactAfterProduct(t *testing.T) {
	enc := &fakeEncoder{}
	cfg := testConfig()
	p := NewVideoProject(cfg, enc)
	p.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	// script mode keeps the run short
	content := &director.ContentConfig{
		ProductName:    "Vita Boost!",
		Script:         "Meet Vita Boost.",
		TargetDuration: 1,
	}
	p.Scheduler = ImmediateScheduler{}

	d := director.NewDirector(cfg.Width, cfg.Height)
	scenes, err := d.BuildScenes(content)
	require.NoError(t, err)

	art, err := p.Generate(context.Background(), content)
	require.NoError(t, err)
	assert.Equal(t, "vitaboost_2026-03-01_09-30-00.webm", art.Filename)
	assert.Equal(t, int64(scene.TotalDuration(scenes)*10)+2, p.Stats().Engine.Frames)
}

func TestGenerateRejectsBadContent(t *testing.T) {
	p := NewVideoProject(testConfig(), &fakeEncoder{})
	_, err := p.Generate(context.Background(), &director.ContentConfig{})
	assert.Equal(t, failure.KindConfiguration, failure.KindOf(err))
}
