// Package video turns presented frames into an encoded WebM artifact.
package video

import (
	"context"
	"image"
	"io"
)

// StreamParams describe the raw frame stream fed to an encoder
type StreamParams struct {
	Width   int
	Height  int
	FPS     int
	Bitrate int    // bits per second
	Codec   string // libvpx or libvpx-vp9
}

// Session is one running encode. Frames go in through WriteFrame; encoded
// container bytes come out of Output until it reports io.EOF.
type Session interface {
	WriteFrame(frame *image.RGBA) error
	Output() io.Reader
	// CloseInput signals end of stream so the encoder finalizes the container
	CloseInput() error
	// Wait blocks until the encoder exits. Call it after Output hit EOF.
	Wait() error
	// Abort stops the encoder without finalizing
	Abort() error
}

// Encoder starts encode sessions
type Encoder interface {
	Open(ctx context.Context, p StreamParams) (Session, error)
}
