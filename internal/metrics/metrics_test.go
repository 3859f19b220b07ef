package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubesim"
)

func TestCollectorCountsEngineActivity(t *testing.T) {
	c := New()
	e := cubesim.New()
	e.OnTurn(c.RecordTurn)
	e.OnSequenceComplete(c.RecordSequence)

	require.NoError(t, e.RequestSequence([]cubesim.Move{cubesim.R, cubesim.U}))
	frames := 0
	for e.Shuffling() || e.Animating() {
		e.Update()
		c.RecordFrame(e)
		frames++
	}
	require.NoError(t, e.RequestTurn(cubesim.AxisY, cubesim.LayerMiddle, true))
	for e.Animating() {
		e.Update()
		c.RecordFrame(e)
		frames++
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(c.turns.WithLabelValues("sequence")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.turns.WithLabelValues("user")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sequences.WithLabelValues("sequence")))
	assert.Equal(t, float64(frames), testutil.ToFloat64(c.frames))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.solved))
	assert.Equal(t, 1, testutil.CollectAndCount(c.sequenceTicks))
}

func TestSolvedGauge(t *testing.T) {
	c := New()
	e := cubesim.New()
	c.RecordFrame(e)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.solved))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.RecordTurn(cubesim.TurnEvent{Source: cubesim.SourceShuffle})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cubesim_turns_total{source="shuffle"} 1`)
	assert.Contains(t, string(body), "cubesim_frames_total 0")
}
