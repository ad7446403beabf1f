// Package preview hands out local URLs for finished artifacts. A URL stays
// valid until the caller revokes it.
package preview

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ivlev/promo2video/internal/video"
)

// ErrUnknown is returned when revoking a URL that is not registered
var ErrUnknown = errors.New("preview not registered")

// PathPrefix is the route under which previews are served
const PathPrefix = "/preview/"

// Registry maps preview ids to artifacts
type Registry struct {
	base string

	mu    sync.RWMutex
	items map[string]*video.Artifact
}

// NewRegistry creates a registry whose URLs start with base, for example
// "http://127.0.0.1:8080". An empty base yields root-relative URLs.
func NewRegistry(base string) *Registry {
	return &Registry{
		base:  strings.TrimSuffix(base, "/"),
		items: make(map[string]*video.Artifact),
	}
}

// Register stores a and returns its preview URL
func (r *Registry) Register(a *video.Artifact) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.items[id] = a
	r.mu.Unlock()

	name := a.Filename
	if name == "" {
		name = "video.webm"
	}
	return r.base + PathPrefix + id + "/" + url.PathEscape(name)
}

// Revoke forgets the artifact behind previewURL
func (r *Registry) Revoke(previewURL string) error {
	id, err := idOf(previewURL)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("revoke %s: %w", previewURL, ErrUnknown)
	}
	delete(r.items, id)
	return nil
}

// Lookup returns the artifact registered under id
func (r *Registry) Lookup(id string) (*video.Artifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	return a, ok
}

// Len returns the number of live previews
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func idOf(previewURL string) (string, error) {
	u, err := url.Parse(previewURL)
	if err != nil {
		return "", fmt.Errorf("revoke %s: %w", previewURL, err)
	}
	rest, ok := strings.CutPrefix(u.Path, PathPrefix)
	if !ok {
		return "", fmt.Errorf("revoke %s: %w", previewURL, ErrUnknown)
	}
	id, _, _ := strings.Cut(rest, "/")
	return id, nil
}
