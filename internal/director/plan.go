package director

import (
	"github.com/ivlev/promo2video/internal/scene"
)

// PlanVersion is written into every dumped plan
const PlanVersion = "1.0"

// Plan is a built scene list together with the surface it was laid out for
type Plan struct {
	Version string        `yaml:"version"`
	Width   int           `yaml:"width"`
	Height  int           `yaml:"height"`
	Scenes  []scene.Scene `yaml:"scenes"`
}

// NewPlan wraps scenes laid out by d
func (d *Director) NewPlan(scenes []scene.Scene) *Plan {
	return &Plan{Version: PlanVersion, Width: d.Width, Height: d.Height, Scenes: scenes}
}

// Duration returns the total length of the plan in seconds
func (p *Plan) Duration() float64 {
	return scene.TotalDuration(p.Scenes)
}

// Resolve rebinds image elements to decoded handles by ID. QR codes are
// regenerated from their encoded URL. Handles with no match stay unloaded
// and are skipped at draw time. It returns the number of bound elements.
func (p *Plan) Resolve(images []scene.ImageHandle) int {
	byID := make(map[string]scene.ImageHandle, len(images))
	for _, h := range images {
		byID[h.ID] = h
	}

	bound := 0
	for si := range p.Scenes {
		els := p.Scenes[si].Elements
		for ei := range els {
			content, ok := els[ei].Content.(scene.ImageContent)
			if !ok || content.Handle.Ready() {
				continue
			}
			id := content.Handle.ID
			if h, ok := byID[id]; ok {
				els[ei].Content = scene.ImageContent{Handle: h}
				bound++
				continue
			}
			if url, ok := qrTarget(id); ok {
				side := els[ei].SizeOr(scene.Size{Width: 240}).Width
				els[ei].Content = scene.ImageContent{Handle: QRHandle(url, int(side))}
				bound++
			}
		}
	}
	return bound
}
