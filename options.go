package cubesim

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/SeamusWaldron/cubesim/internal/arcball"
	"github.com/SeamusWaldron/cubesim/internal/cube"
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	turnStep   float32
	gain       float32
	threshold  float64
	spacing    float32
	width      int
	height     int
	view       mgl32.Mat4
	rng        *rand.Rand
	shuffleMin int
	shuffleMax int
}

// Default viewport and camera.
const (
	DefaultWidth      = 500
	DefaultHeight     = 500
	DefaultShuffleMin = 25
	DefaultShuffleMax = 35
)

// DefaultView looks at the origin from (3, 4, 5) with +Y up.
func DefaultView() mgl32.Mat4 {
	return mgl32.LookAtV(mgl32.Vec3{3, 4, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

func defaultConfig() *config {
	return &config{
		turnStep:   cube.DefaultStep,
		gain:       arcball.DefaultGain,
		threshold:  arcball.DefaultThreshold,
		spacing:    cube.DefaultSpacing,
		width:      DefaultWidth,
		height:     DefaultHeight,
		view:       DefaultView(),
		shuffleMin: DefaultShuffleMin,
		shuffleMax: DefaultShuffleMax,
	}
}

// WithTurnStep sets how many degrees a turn advances per Update.
// The default of 3 takes 30 updates per quarter turn.
func WithTurnStep(deg float32) Option {
	return func(c *config) {
		if deg > 0 {
			c.turnStep = deg
		}
	}
}

// WithArcballGain sets the multiplier applied to arcball drag angles.
func WithArcballGain(g float32) Option {
	return func(c *config) {
		c.gain = g
	}
}

// WithDragThreshold sets the squared pixel distance a pointer must move
// before a drag updates the rotation.
func WithDragThreshold(d2 float64) Option {
	return func(c *config) {
		c.threshold = d2
	}
}

// WithSpacing sets the distance between neighbouring sub-cube centers.
func WithSpacing(s float32) Option {
	return func(c *config) {
		if s > 0 {
			c.spacing = s
		}
	}
}

// WithViewport sets the initial viewport size in pixels.
func WithViewport(width, height int) Option {
	return func(c *config) {
		c.width = width
		c.height = height
	}
}

// WithView sets the camera view matrix used to map drag axes to world space.
func WithView(view mgl32.Mat4) Option {
	return func(c *config) {
		c.view = view
	}
}

// WithRand sets the random source for shuffles. Use a seeded source for
// reproducible scrambles.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		c.rng = rng
	}
}

// WithShuffleRange sets the bounds used by RequestRandomShuffle.
func WithShuffleRange(minMoves, maxMoves int) Option {
	return func(c *config) {
		if minMoves < 0 || maxMoves < minMoves {
			return
		}
		c.shuffleMin = minMoves
		c.shuffleMax = maxMoves
	}
}
