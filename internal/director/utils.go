package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
)

const timestampLayout = "2006-01-02_15-04-05"

// SuggestedFilename derives the output name from the product name: only
// letters and digits are kept, lowercased, followed by a timestamp.
func SuggestedFilename(productName string, now time.Time) string {
	var b strings.Builder
	for _, r := range productName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	base := b.String()
	if base == "" {
		base = "video"
	}
	return fmt.Sprintf("%s_%s.webm", base, now.Format(timestampLayout))
}

// PlanPath creates a timestamped plan filename inside dir
func PlanPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("plan_%s.yaml", now.Format(timestampLayout)))
}

// FindLatestPlan finds the most recent plan file in dir
func FindLatestPlan(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read plans directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var plans []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		plans = append(plans, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(plans) == 0 {
		return "", fmt.Errorf("no plan files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].mod.After(plans[j].mod)
	})

	return plans[0].path, nil
}
