package director

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/promo2video/internal/failure"
)

// WritePlan writes a plan to a YAML file, creating its directory
func WritePlan(plan *Plan, path string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadPlan reads a plan from a YAML file. Bitmaps are not part of the file;
// call Plan.Resolve to attach them.
func ReadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, failure.Configuration("read plan", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, failure.Configuration("read plan", fmt.Errorf("%s: %w", path, err))
	}
	for _, s := range plan.Scenes {
		if s.Duration <= 0 {
			return nil, failure.Configuration("read plan", fmt.Errorf("scene %q has non-positive duration %.2f", s.Name, s.Duration))
		}
	}

	return &plan, nil
}
