package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/promo2video/internal/failure"
	"github.com/ivlev/promo2video/internal/system"
)

// Options configure one capture
type Options struct {
	Width, Height int
	FPS           int
	Bitrate       int // bits per second
	Codec         string
	Filename      string

	// FlushInterval bounds how long encoded bytes wait before they become a
	// chunk. Defaults to 100ms.
	FlushInterval time.Duration
	// QueueSize is the number of frames waiting for the encoder. Defaults
	// to one second of frames.
	QueueSize int
	// Backpressure makes Submit wait for queue space instead of dropping.
	// Used when frames are produced faster than real time.
	Backpressure bool

	Logger zerolog.Logger
}

// Stats summarizes a capture
type Stats struct {
	FramesWritten int64
	FramesDropped int64
	Chunks        int
	Bytes         int
}

type captureState int

const (
	captureIdle captureState = iota
	captureRunning
	captureStopped
)

// Capture feeds presented frames to an encoder session and collects the
// encoded output in periodically flushed chunks
type Capture struct {
	enc  Encoder
	opts Options
	log  zerolog.Logger
	buf  ChunkBuffer

	mu         sync.RWMutex
	state      captureState
	frames     chan *image.RGBA
	session    Session
	g          *errgroup.Group
	gctx       context.Context
	runCtx     context.Context
	cancel     context.CancelFunc
	readerDone chan struct{}
	// werr is the first frame write failure; the read error it provokes is
	// secondary
	werr error

	pmu     sync.Mutex
	pending []byte

	written atomic.Int64
	dropped atomic.Int64
}

// NewCapture prepares a capture; nothing runs before Start
func NewCapture(enc Encoder, opts Options) *Capture {
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 100 * time.Millisecond
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = opts.FPS
		if opts.QueueSize <= 0 {
			opts.QueueSize = 30
		}
	}
	return &Capture{enc: enc, opts: opts, log: opts.Logger}
}

// Start opens the encoder and launches the writer, reader and flusher
func (c *Capture) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != captureIdle {
		return errors.New("capture already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	session, err := c.enc.Open(runCtx, StreamParams{
		Width:   c.opts.Width,
		Height:  c.opts.Height,
		FPS:     c.opts.FPS,
		Bitrate: c.opts.Bitrate,
		Codec:   c.opts.Codec,
	})
	if err != nil {
		cancel()
		return failure.Encoder("start capture", err)
	}

	g, gctx := errgroup.WithContext(runCtx)
	c.session = session
	c.g, c.gctx = g, gctx
	c.runCtx, c.cancel = runCtx, cancel
	c.frames = make(chan *image.RGBA, c.opts.QueueSize)
	c.readerDone = make(chan struct{})
	c.state = captureRunning

	g.Go(func() error { return c.writeFrames(gctx) })
	g.Go(c.readOutput)
	g.Go(func() error { return c.flushLoop(gctx) })

	c.log.Debug().
		Int("width", c.opts.Width).
		Int("height", c.opts.Height).
		Int("fps", c.opts.FPS).
		Int("bitrate", c.opts.Bitrate).
		Str("codec", c.opts.Codec).
		Msg("capture started")
	return nil
}

// Submit queues a frame for encoding and takes ownership of it. Without
// backpressure a full queue drops the frame. It reports whether the frame
// was queued.
func (c *Capture) Submit(frame *image.RGBA) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != captureRunning {
		system.PutImage(frame)
		return false
	}
	if c.opts.Backpressure {
		select {
		case c.frames <- frame:
			return true
		case <-c.gctx.Done():
			system.PutImage(frame)
			return false
		}
	}
	select {
	case c.frames <- frame:
		return true
	default:
		c.dropped.Add(1)
		system.PutImage(frame)
		return false
	}
}

func (c *Capture) writeFrames(ctx context.Context) error {
	for {
		select {
		case f, ok := <-c.frames:
			if !ok {
				if err := c.session.CloseInput(); err != nil {
					return fmt.Errorf("close encoder input: %w", err)
				}
				return nil
			}
			err := c.session.WriteFrame(f)
			system.PutImage(f)
			if err != nil {
				c.werr = err
				c.session.Abort()
				return err
			}
			c.written.Add(1)
		case <-ctx.Done():
			// unblocks the output reader
			c.session.Abort()
			return ctx.Err()
		}
	}
}

func (c *Capture) readOutput() error {
	defer close(c.readerDone)

	r := c.session.Output()
	buf := make([]byte, 64<<10)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			c.pmu.Lock()
			c.pending = append(c.pending, buf[:n]...)
			c.pmu.Unlock()
		}
		if errors.Is(err, io.EOF) {
			return c.session.Wait()
		}
		if err != nil {
			c.session.Wait()
			return fmt.Errorf("read encoder output: %w", err)
		}
	}
}

func (c *Capture) flushLoop(ctx context.Context) error {
	t := time.NewTicker(c.opts.FlushInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.flush()
		case <-c.readerDone:
			c.flush()
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// flush turns the bytes read since the last flush into one chunk
func (c *Capture) flush() {
	c.pmu.Lock()
	chunk := c.pending
	c.pending = nil
	c.pmu.Unlock()
	c.buf.Append(chunk)
}

// Stop ends the stream, waits for the encoder to finalize the container
// and assembles the artifact. Cancelling ctx aborts the encoder.
func (c *Capture) Stop(ctx context.Context) (*Artifact, error) {
	c.mu.Lock()
	if c.state != captureRunning {
		c.mu.Unlock()
		return nil, errors.New("capture not running")
	}
	c.state = captureStopped
	close(c.frames)
	c.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.g.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		c.session.Abort()
		c.cancel()
		<-done
		c.release()
		return nil, failure.ErrCancelled
	}

	if c.werr != nil {
		err = c.werr
	}
	cancelled := c.runCtx.Err() != nil
	c.cancel()
	if cancelled {
		c.release()
		return nil, failure.ErrCancelled
	}
	if err != nil {
		c.release()
		return nil, failure.Encoder("stop capture", err)
	}

	c.flush()
	chunks := c.buf.Len()
	data, err := c.buf.Drain()
	if err != nil {
		return nil, failure.Encoder("stop capture", err)
	}
	if len(data) == 0 {
		return nil, failure.Encoder("stop capture", errors.New("encoder produced no output"))
	}

	c.log.Debug().
		Int64("frames", c.written.Load()).
		Int64("dropped", c.dropped.Load()).
		Int("chunks", chunks).
		Int("bytes", len(data)).
		Msg("capture finished")

	return &Artifact{
		Data:     data,
		MimeType: MimeWebM,
		Filename: c.opts.Filename,
		Size:     len(data),
	}, nil
}

// Cancel aborts the encoder and discards everything buffered. It always
// returns failure.ErrCancelled so callers can pass it through.
func (c *Capture) Cancel() error {
	c.mu.Lock()
	if c.state != captureRunning {
		c.state = captureStopped
		c.mu.Unlock()
		c.buf.Discard()
		return failure.ErrCancelled
	}
	c.state = captureStopped
	close(c.frames)
	c.mu.Unlock()

	c.cancel()
	if err := c.session.Abort(); err != nil {
		c.log.Warn().Err(err).Msg("abort encoder")
	}
	c.g.Wait()
	c.release()

	c.log.Debug().Int64("frames", c.written.Load()).Msg("capture cancelled")
	return failure.ErrCancelled
}

// release discards buffered chunks and returns queued frames to the pool
func (c *Capture) release() {
	c.buf.Discard()
	c.pmu.Lock()
	c.pending = nil
	c.pmu.Unlock()
	for f := range c.frames {
		system.PutImage(f)
	}
}

// Stats reports frame and chunk counters
func (c *Capture) Stats() Stats {
	return Stats{
		FramesWritten: c.written.Load(),
		FramesDropped: c.dropped.Load(),
		Chunks:        c.buf.Len(),
		Bytes:         c.buf.Size(),
	}
}
