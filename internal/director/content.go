package director

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/promo2video/internal/failure"
	"github.com/ivlev/promo2video/internal/scene"
)

// Style selects the color palette of a video
type Style string

const (
	StyleMedical   Style = "medical"
	StyleCorporate Style = "corporate"
	StyleVibrant   Style = "vibrant"
	StyleMinimal   Style = "minimal"
)

// Styles lists the accepted style names, default first
var Styles = []Style{StyleMedical, StyleCorporate, StyleVibrant, StyleMinimal}

// StyleNames joins Styles for help and error texts
func StyleNames() string {
	names := make([]string, len(Styles))
	for i, st := range Styles {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

// ParseStyle accepts a style name; empty means medical
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return StyleMedical, nil
	}
	if slices.Contains(Styles, st) {
		return st, nil
	}
	return "", fmt.Errorf("unknown style %q (%s)", s, StyleNames())
}

// MarketingCopy is externally generated phrasing. Empty fields fall back to
// the built-in templates.
type MarketingCopy struct {
	Problem      string   `yaml:"problem"`
	Intro        string   `yaml:"intro"`
	Benefits     []string `yaml:"benefits"`
	CallToAction string   `yaml:"call_to_action"`
}

// ContentConfig is the input of a generation run
type ContentConfig struct {
	ProductName    string         `yaml:"product_name"`
	Tagline        string         `yaml:"tagline"`
	HealthConcern  string         `yaml:"health_concern"`
	Benefits       []string       `yaml:"benefits"`
	Steps          []string       `yaml:"steps"`
	CallToAction   string         `yaml:"call_to_action"`
	Website        string         `yaml:"website"`
	Script         string         `yaml:"script"`
	TargetDuration float64        `yaml:"target_duration"` // seconds; script mode only
	Style          Style          `yaml:"style"`
	Copy           *MarketingCopy `yaml:"copy,omitempty"`

	// ProductImages are decoded before the run; a failed one stays in the
	// list and is skipped at draw time
	ProductImages []scene.ImageHandle `yaml:"-"`
}

// ScriptMode reports whether the config carries a free-text script
func (c *ContentConfig) ScriptMode() bool {
	return strings.TrimSpace(c.Script) != ""
}

// Validate checks the fields both modes rely on
func (c *ContentConfig) Validate() error {
	if !c.ScriptMode() && strings.TrimSpace(c.ProductName) == "" {
		return failure.Configuration("validate content", errors.New("product name or script is required"))
	}
	if c.TargetDuration < 0 {
		return failure.Configuration("validate content", fmt.Errorf("negative target duration %.1f", c.TargetDuration))
	}
	if _, err := ParseStyle(string(c.Style)); err != nil {
		return failure.Configuration("validate content", err)
	}
	return nil
}

// LoadContent reads a ContentConfig from a YAML file
func LoadContent(path string) (*ContentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, failure.Configuration("load content", err)
	}

	var cfg ContentConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, failure.Configuration("load content", fmt.Errorf("%s: %w", path, err))
	}
	return &cfg, nil
}

func (c *ContentConfig) problem() string {
	if c.Copy != nil && c.Copy.Problem != "" {
		return c.Copy.Problem
	}
	if c.HealthConcern != "" {
		return fmt.Sprintf("Struggling with %s?", c.HealthConcern)
	}
	return "Ready to feel your best again?"
}

func (c *ContentConfig) intro() string {
	if c.Copy != nil && c.Copy.Intro != "" {
		return c.Copy.Intro
	}
	if c.Tagline != "" {
		return c.Tagline
	}
	return fmt.Sprintf("Introducing %s", c.ProductName)
}

func (c *ContentConfig) benefits() []string {
	if c.Copy != nil && len(c.Copy.Benefits) > 0 {
		return c.Copy.Benefits
	}
	if len(c.Benefits) > 0 {
		return c.Benefits
	}
	concern := c.HealthConcern
	if concern == "" {
		concern = "everyday wellness"
	}
	return []string{
		fmt.Sprintf("Supports %s naturally", concern),
		"Made with quality ingredients",
		"Easy to add to your routine",
	}
}

func (c *ContentConfig) steps() []string {
	if len(c.Steps) > 0 {
		return c.Steps
	}
	return []string{"Order online", "Take it daily", "Feel the difference"}
}

func (c *ContentConfig) callToAction() string {
	if c.Copy != nil && c.Copy.CallToAction != "" {
		return c.Copy.CallToAction
	}
	if c.CallToAction != "" {
		return c.CallToAction
	}
	return fmt.Sprintf("Try %s today!", c.ProductName)
}
