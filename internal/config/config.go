package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/promo2video/internal/failure"
)

// Resolution tiers
const (
	TierAuto     = "auto"
	TierHD       = "hd"
	TierStandard = "standard"
)

// Environment variables read by LoadEnv
const (
	EnvFFmpeg    = "PROMO2VIDEO_FFMPEG"
	EnvLogLevel  = "PROMO2VIDEO_LOG_LEVEL"
	EnvOutputDir = "PROMO2VIDEO_OUTPUT_DIR"
)

// Config holds the render and encode settings of a run. Values are layered:
// defaults, then the YAML file, then the environment, then CLI flags.
type Config struct {
	Tier    string `yaml:"tier"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	FPS     int    `yaml:"fps"`
	Bitrate int    `yaml:"bitrate"` // bits per second, 0 picks the tier default
	Codec   string `yaml:"codec"`   // libvpx or libvpx-vp9, empty picks the best available

	FFmpegPath string `yaml:"ffmpeg"`
	OutputDir  string `yaml:"output_dir"`
	LogLevel   string `yaml:"log_level"`

	DPI         int    `yaml:"dpi"`  // PDF product sheets
	Trim        bool   `yaml:"trim"` // crop product images to their content
	Fast        bool   `yaml:"fast"` // render frames as fast as the encoder accepts them
	Transitions bool   `yaml:"transitions"`
	ServeAddr   string `yaml:"serve"`

	BuildVersion string `yaml:"-"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Tier:        TierAuto,
		FPS:         30,
		OutputDir:   "output",
		LogLevel:    "info",
		DPI:         150,
		Transitions: true,
	}
}

// Load reads path over the defaults and applies the environment. An empty
// path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, failure.Configuration("load config", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, failure.Configuration("load config", fmt.Errorf("%s: %w", path, err))
		}
	}
	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv reads .env files (default ".env") into the process environment
// without overriding variables already set, then applies the PROMO2VIDEO_*
// variables. Missing files are ignored.
func (c *Config) LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return failure.Configuration("load env", fmt.Errorf("%s: %w", f, err))
		}
	}
	if v := os.Getenv(EnvFFmpeg); v != "" {
		c.FFmpegPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	return nil
}

// Resolution returns the surface size of a concrete tier
func Resolution(tier string) (width, height int) {
	if tier == TierStandard {
		return 1280, 720
	}
	return 1920, 1080
}

// DefaultBitrate returns the encoder bitrate used when none is configured
func DefaultBitrate(tier string) int {
	if tier == TierStandard {
		return 2_500_000
	}
	return 5_000_000
}

// ApplyTier fills the size and bitrate left unset from a concrete tier.
// An explicit size wins over the tier.
func (c *Config) ApplyTier(tier string) {
	c.Tier = tier
	if c.Width == 0 || c.Height == 0 {
		c.Width, c.Height = Resolution(tier)
	}
	if c.Bitrate == 0 {
		c.Bitrate = DefaultBitrate(tier)
	}
}

// Validate checks the values an encoder run depends on
func (c *Config) Validate() error {
	var problems []string
	switch c.Tier {
	case TierAuto, TierHD, TierStandard:
	default:
		problems = append(problems, fmt.Sprintf("unknown tier %q", c.Tier))
	}
	if c.Width <= 0 || c.Height <= 0 || c.Width%2 != 0 || c.Height%2 != 0 {
		problems = append(problems, fmt.Sprintf("size %dx%d must be positive and even", c.Width, c.Height))
	}
	if c.FPS < 1 || c.FPS > 60 {
		problems = append(problems, fmt.Sprintf("fps %d out of range 1..60", c.FPS))
	}
	if c.Bitrate <= 0 {
		problems = append(problems, fmt.Sprintf("bitrate %d must be positive", c.Bitrate))
	}
	switch c.Codec {
	case "", "libvpx", "libvpx-vp9":
	default:
		problems = append(problems, fmt.Sprintf("codec %q is not a WebM codec", c.Codec))
	}
	if len(problems) > 0 {
		return failure.Configuration("validate config", errors.New(strings.Join(problems, "; ")))
	}
	return nil
}
