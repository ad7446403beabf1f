package video

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MimeWebM is the container type of every artifact
const MimeWebM = "video/webm"

// Artifact is the finished video of one run
type Artifact struct {
	Data     []byte
	MimeType string
	Filename string // suggested download name
	Size     int
	URL      string // preview reference, set once registered
}

// Reader returns a reader over the artifact bytes
func (a *Artifact) Reader() io.Reader {
	return bytes.NewReader(a.Data)
}

// Save writes the artifact into dir under its suggested filename
func (a *Artifact) Save(dir string) (string, error) {
	if a.Filename == "" {
		return "", fmt.Errorf("artifact has no filename")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Data, 0644); err != nil {
		return "", fmt.Errorf("save artifact: %w", err)
	}
	return path, nil
}
