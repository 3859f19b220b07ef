package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubesim"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, float32(3), c.TurnStep)
	assert.Equal(t, float32(2), c.ArcballGain)
	assert.Equal(t, 4.0, c.DragThreshold)
	assert.InDelta(t, 1.1, c.Spacing, 1e-6)
	assert.Equal(t, 25, c.ShuffleMin)
	assert.Equal(t, 35, c.ShuffleMax)
	assert.Equal(t, DefaultFPS, c.FPS)
	assert.Empty(t, c.DB)
	assert.False(t, c.Verbose)
}

func TestFileAndEnvironment(t *testing.T) {
	path := writeConfig(t, "turn_step: 9\nshuffle_min: 3\nshuffle_max: 4\nverbose: true\n")
	t.Setenv("CUBESIM_FPS", "30")

	c, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, float32(9), c.TurnStep)
	assert.Equal(t, 3, c.ShuffleMin)
	assert.Equal(t, 4, c.ShuffleMax)
	assert.Equal(t, 30, c.FPS)
	assert.True(t, c.Verbose)

	e := cubesim.New(c.Options()...)
	require.NoError(t, e.RequestTurn(cubesim.AxisX, cubesim.LayerOuter, true))
	ticks := 0
	for e.Animating() {
		e.Update()
		ticks++
	}
	assert.Equal(t, 10, ticks)

	n, err := e.RequestRandomShuffle()
	require.NoError(t, err)
	assert.True(t, n == 3 || n == 4, "shuffle length %d", n)
}

func TestInvalidValues(t *testing.T) {
	for _, body := range []string{
		"turn_step: 0\n",
		"turn_step: 120\n",
		"arcball_gain: -1\n",
		"spacing: 0\n",
		"shuffle_min: 10\nshuffle_max: 5\n",
		"fps: 0\n",
	} {
		_, err := Load(New(), writeConfig(t, body))
		assert.ErrorIs(t, err, ErrInvalid, body)
	}
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
