package director

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestedFilename(t *testing.T) {
	now := time.Date(2026, 2, 13, 9, 5, 7, 0, time.UTC)

	assert.Equal(t, "calmsleepplus_2026-02-13_09-05-07.webm", SuggestedFilename("CalmSleep Plus!", now))
	assert.Equal(t, "vitad3_2026-02-13_09-05-07.webm", SuggestedFilename("Vita-D3", now))
	assert.Equal(t, "video_2026-02-13_09-05-07.webm", SuggestedFilename(" ~~ ", now))
}

func TestPlanPath(t *testing.T) {
	now := time.Date(2026, 2, 13, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, filepath.Join("output", "plans", "plan_2026-02-13_01-00-00.yaml"), PlanPath(filepath.Join("output", "plans"), now))
}

func TestFindLatestPlan(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		filepath.Join(dir, "plan_2026-02-12_10-00-00.yaml"),
		filepath.Join(dir, "plan_2026-02-13_01-00-00.yaml"),
		filepath.Join(dir, "plan_2026-02-11_15-30-00.yaml"),
	}
	base := time.Now()
	for i, f := range files {
		require.NoError(t, os.WriteFile(f, []byte("version: \"1.0\"\n"), 0644))
		mod := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, os.Chtimes(f, mod, mod))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))

	latest, err := FindLatestPlan(dir)
	require.NoError(t, err)
	assert.Equal(t, files[2], latest)

	_, err = FindLatestPlan(t.TempDir())
	assert.Error(t, err)
}
