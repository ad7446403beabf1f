package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Host resources below which the standard (720p) tier is chosen
const (
	MinHDCores  = 4
	MinHDMemory = 8 << 30
)

// Resources is a snapshot of the host capacity relevant to rendering
type Resources struct {
	Cores  int
	Memory uint64 // bytes
}

// ProbeResources reads logical core count and total memory
func ProbeResources(ctx context.Context) (Resources, error) {
	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return Resources{}, fmt.Errorf("cpu count error: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Resources{}, fmt.Errorf("memory probe error: %w", err)
	}
	return Resources{Cores: cores, Memory: vm.Total}, nil
}

// Tier picks "hd" when the host can render 1080p in real time, "standard"
// otherwise
func (r Resources) Tier() string {
	if r.Cores >= MinHDCores && r.Memory >= MinHDMemory {
		return "hd"
	}
	return "standard"
}

// ResolveTier turns "auto" into a concrete tier by probing the host. A failed
// probe falls back to standard.
func ResolveTier(ctx context.Context, tier string) string {
	if tier != "auto" && tier != "" {
		return tier
	}
	res, err := ProbeResources(ctx)
	if err != nil {
		return "standard"
	}
	return res.Tier()
}

// GetBestWebMEncoder returns the best WebM video codec the ffmpeg binary
// supports: libvpx-vp9, then libvpx
func GetBestWebMEncoder(ffmpegPath string) (string, error) {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	out, err := exec.Command(ffmpegPath, "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg -encoders error: %w", err)
	}
	return pickWebMEncoder(string(out))
}

func pickWebMEncoder(listing string) (string, error) {
	names := map[string]bool{}
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && strings.HasPrefix(fields[0], "V") {
			names[fields[1]] = true
		}
	}
	for _, codec := range []string{"libvpx-vp9", "libvpx"} {
		if names[codec] {
			return codec, nil
		}
	}
	return "", fmt.Errorf("ffmpeg has no WebM encoder (libvpx-vp9 or libvpx)")
}

// FindLatest returns the most recently modified file in dir whose extension
// is one of exts
func FindLatest(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time
	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов %s", dir, strings.Join(exts, ", "))
	}
	return latestFile, nil
}

// FindLatestScript returns the newest .txt or .md script in dir
func FindLatestScript(dir string) (string, error) {
	return FindLatest(dir, ".txt", ".md")
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
