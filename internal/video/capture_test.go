package video

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/promo2video/internal/failure"
)

// pipeEncoder echoes a marker byte per frame through an in-memory pipe
type pipeEncoder struct {
	openErr  error
	writeErr error
	waitErr  error
	gate     chan struct{} // when set, WriteFrame blocks until closed

	mu       sync.Mutex
	sessions []*pipeSession
}

func (e *pipeEncoder) Open(ctx context.Context, p StreamParams) (Session, error) {
	if e.openErr != nil {
		return nil, e.openErr
	}
	pr, pw := io.Pipe()
	s := &pipeSession{enc: e, pr: pr, pw: pw}
	e.mu.Lock()
	e.sessions = append(e.sessions, s)
	e.mu.Unlock()
	return s, nil
}

type pipeSession struct {
	enc    *pipeEncoder
	pr     *io.PipeReader
	pw     *io.PipeWriter
	frames int
	abort  atomic.Bool
}

func (s *pipeSession) WriteFrame(frame *image.RGBA) error {
	if s.enc.gate != nil {
		<-s.enc.gate
	}
	if s.enc.writeErr != nil {
		return s.enc.writeErr
	}
	s.frames++
	_, err := s.pw.Write([]byte{frame.Pix[0]})
	return err
}

func (s *pipeSession) Output() io.Reader { return s.pr }
func (s *pipeSession) CloseInput() error { return s.pw.Close() }
func (s *pipeSession) Wait() error       { return s.enc.waitErr }

func (s *pipeSession) Abort() error {
	s.abort.Store(true)
	s.pw.CloseWithError(errors.New("killed"))
	return nil
}

func frame(v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Pix[0] = v
	return img
}

func testOptions() Options {
	return Options{Width: 4, Height: 4, FPS: 10, Bitrate: 1000, Filename: "out.webm", FlushInterval: 5 * time.Millisecond, Backpressure: true}
}

func TestCaptureCollectsFramesInOrder(t *testing.T) {
	enc := &pipeEncoder{}
	c := NewCapture(enc, testOptions())
	require.NoError(t, c.Start(context.Background()))

	for i := 1; i <= 5; i++ {
		require.True(t, c.Submit(frame(uint8(i))))
		time.Sleep(2 * time.Millisecond)
	}

	art, err := c.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, art.Data)
	assert.Equal(t, MimeWebM, art.MimeType)
	assert.Equal(t, "out.webm", art.Filename)
	assert.Equal(t, 5, art.Size)
	assert.Equal(t, int64(5), c.Stats().FramesWritten)

	_, err = c.Stop(context.Background())
	assert.Error(t, err, "stop twice")
	assert.False(t, c.Submit(frame(9)), "submit after stop")
}

func TestCaptureDropsWhenQueueFull(t *testing.T) {
	gate := make(chan struct{})
	enc := &pipeEncoder{gate: gate}
	opts := testOptions()
	opts.Backpressure = false
	opts.QueueSize = 1
	c := NewCapture(enc, opts)
	require.NoError(t, c.Start(context.Background()))

	accepted := 0
	for i := 0; i < 10; i++ {
		if c.Submit(frame(uint8(i))) {
			accepted++
		}
	}
	close(gate)

	art, err := c.Stop(context.Background())
	require.NoError(t, err)
	stats := c.Stats()
	assert.Less(t, accepted, 10)
	assert.Equal(t, int64(10-accepted), stats.FramesDropped)
	assert.Equal(t, int64(accepted), stats.FramesWritten)
	assert.Len(t, art.Data, accepted)
}

func TestCaptureEncoderErrorDiscardsChunks(t *testing.T) {
	enc := &pipeEncoder{waitErr: errors.New("exit status 1")}
	c := NewCapture(enc, testOptions())
	require.NoError(t, c.Start(context.Background()))
	c.Submit(frame(1))
	c.Submit(frame(2))

	art, err := c.Stop(context.Background())
	assert.Nil(t, art)
	require.Error(t, err)
	assert.Equal(t, failure.KindEncoder, failure.KindOf(err))
	assert.Zero(t, c.Stats().Bytes)
}

func TestCaptureWriteErrorRejects(t *testing.T) {
	enc := &pipeEncoder{writeErr: errors.New("broken pipe")}
	c := NewCapture(enc, testOptions())
	require.NoError(t, c.Start(context.Background()))
	c.Submit(frame(1))

	_, err := c.Stop(context.Background())
	require.Error(t, err)
	assert.Equal(t, failure.KindEncoder, failure.KindOf(err))
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestCaptureOpenError(t *testing.T) {
	c := NewCapture(&pipeEncoder{openErr: errors.New("exec: \"ffmpeg\": executable file not found")}, testOptions())
	err := c.Start(context.Background())
	assert.Equal(t, failure.KindEncoder, failure.KindOf(err))
}

func TestCaptureEmptyOutputIsEncoderFailure(t *testing.T) {
	c := NewCapture(&pipeEncoder{}, testOptions())
	require.NoError(t, c.Start(context.Background()))

	_, err := c.Stop(context.Background())
	assert.Equal(t, failure.KindEncoder, failure.KindOf(err))
}

func TestCaptureCancel(t *testing.T) {
	enc := &pipeEncoder{}
	c := NewCapture(enc, testOptions())
	require.NoError(t, c.Start(context.Background()))
	c.Submit(frame(1))
	c.Submit(frame(2))

	err := c.Cancel()
	assert.ErrorIs(t, err, failure.ErrCancelled)
	assert.Zero(t, c.Stats().Bytes)
	require.Len(t, enc.sessions, 1)
	assert.True(t, enc.sessions[0].abort.Load())

	_, err = c.Stop(context.Background())
	assert.Error(t, err, "no artifact after cancel")
}

func TestCaptureParentContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCapture(&pipeEncoder{}, testOptions())
	require.NoError(t, c.Start(ctx))
	c.Submit(frame(1))
	cancel()

	art, err := c.Stop(context.Background())
	assert.Nil(t, art)
	assert.ErrorIs(t, err, failure.ErrCancelled)
}

func TestCaptureWithFFmpeg(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	if testing.Short() {
		t.Skip("encoder run skipped in short mode")
	}

	opts := testOptions()
	opts.Width, opts.Height = 64, 64
	opts.Bitrate = 200_000
	c := NewCapture(&FFmpegEncoder{}, opts)
	require.NoError(t, c.Start(context.Background()))

	for i := 0; i < 10; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 64, 64))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+3] = uint8(i*25), 0xff
		}
		c.Submit(img)
	}

	art, err := c.Stop(context.Background())
	if err != nil && bytes.Contains([]byte(err.Error()), []byte("Unknown encoder")) {
		t.Skip("ffmpeg built without libvpx")
	}
	require.NoError(t, err)
	require.Greater(t, len(art.Data), 4)
	assert.Equal(t, []byte{0x1a, 0x45, 0xdf, 0xa3}, art.Data[:4], "EBML header")
}
