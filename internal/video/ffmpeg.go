package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpegEncoder pipes raw RGBA frames into ffmpeg and reads WebM from its
// stdout
type FFmpegEncoder struct {
	Path string // ffmpeg binary; "ffmpeg" when empty
}

// BuildArgs returns the ffmpeg command line for p, without the binary
func (e *FFmpegEncoder) BuildArgs(p StreamParams) []string {
	codec := p.Codec
	if codec == "" {
		codec = "libvpx"
	}

	out := ffmpeg.KwArgs{
		"c:v":     codec,
		"b:v":     p.Bitrate,
		"pix_fmt": "yuv420p",
		"r":       p.FPS,
		"f":       "webm",
		// realtime keeps libvpx ahead of the frame clock
		"deadline": "realtime",
		"cpu-used": 8,
	}
	if codec == "libvpx-vp9" {
		out["row-mt"] = 1
	}

	return ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"f":          "rawvideo",
		"pix_fmt":    "rgba",
		"video_size": fmt.Sprintf("%dx%d", p.Width, p.Height),
		"framerate":  p.FPS,
	}).
		Output("pipe:", out).
		GlobalArgs("-hide_banner", "-loglevel", "error", "-nostats").
		OverWriteOutput().
		GetArgs()
}

func (e *FFmpegEncoder) Open(ctx context.Context, p StreamParams) (Session, error) {
	if p.Width <= 0 || p.Height <= 0 || p.FPS <= 0 {
		return nil, fmt.Errorf("invalid stream %dx%d@%d", p.Width, p.Height, p.FPS)
	}
	bin := e.Path
	if bin == "" {
		bin = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, bin, e.BuildArgs(p)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	stderr := &tailBuffer{limit: 4096}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	return &ffmpegSession{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		params: p,
	}, nil
}

type ffmpegSession struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr *tailBuffer
	params StreamParams

	closeOnce sync.Once
	closeErr  error
}

func (s *ffmpegSession) WriteFrame(frame *image.RGBA) error {
	b := frame.Bounds()
	if b.Dx() != s.params.Width || b.Dy() != s.params.Height {
		return fmt.Errorf("frame %dx%d does not match stream %dx%d", b.Dx(), b.Dy(), s.params.Width, s.params.Height)
	}
	if err := writeRawRGBA(s.stdin, frame); err != nil {
		return fmt.Errorf("write raw error: %w%s", err, s.stderr.suffix())
	}
	return nil
}

// writeRawRGBA writes tightly packed pixels, repacking sub-images
func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	b := img.Bounds()
	if img.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		packed := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(packed, packed.Rect, img, b.Min, draw.Src)
		img = packed
	}
	_, err := w.Write(img.Pix[:b.Dx()*b.Dy()*4])
	return err
}

func (s *ffmpegSession) Output() io.Reader {
	return s.stdout
}

func (s *ffmpegSession) CloseInput() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.stdin.Close()
	})
	return s.closeErr
}

func (s *ffmpegSession) Wait() error {
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w%s", err, s.stderr.suffix())
	}
	return nil
}

func (s *ffmpegSession) Abort() error {
	s.CloseInput()
	if s.cmd.Process == nil {
		return nil
	}
	if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// tailBuffer keeps the last bytes ffmpeg wrote to stderr for error reports
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) suffix() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg := strings.TrimSpace(string(t.buf))
	if msg == "" {
		return ""
	}
	return ", output: " + msg
}
