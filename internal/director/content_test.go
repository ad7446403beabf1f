package director

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/promo2video/internal/failure"
)

func TestLoadContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	doc := `product_name: CalmSleep
health_concern: poor sleep
benefits:
  - Falls asleep faster
  - No grogginess
style: corporate
website: https://calmsleep.example
copy:
  intro: Rest deeper tonight
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadContent(path)
	require.NoError(t, err)
	assert.Equal(t, "CalmSleep", cfg.ProductName)
	assert.Equal(t, StyleCorporate, cfg.Style)
	assert.Len(t, cfg.Benefits, 2)
	require.NotNil(t, cfg.Copy)
	assert.Equal(t, "Rest deeper tonight", cfg.intro())
	assert.Equal(t, "Struggling with poor sleep?", cfg.problem())
	assert.NoError(t, cfg.Validate())
}

func TestLoadContentErrors(t *testing.T) {
	_, err := LoadContent(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, failure.KindConfiguration, failure.KindOf(err))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("benefits: [unclosed"), 0644))
	_, err = LoadContent(path)
	assert.Equal(t, failure.KindConfiguration, failure.KindOf(err))
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleMedical, s)

	s, err = ParseStyle(" Vibrant ")
	require.NoError(t, err)
	assert.Equal(t, StyleVibrant, s)

	_, err = ParseStyle("neon")
	assert.ErrorContains(t, err, StyleNames())

	for _, st := range Styles {
		got, err := ParseStyle(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
}
