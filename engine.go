package cubesim

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"fortio.org/log"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/SeamusWaldron/cubesim/internal/arcball"
	"github.com/SeamusWaldron/cubesim/internal/cube"
)

// Layer selects which slice along an axis a key-level command turns.
type Layer int

const (
	LayerOpposite Layer = iota // index 0, the slice on the negative side
	LayerMiddle                // index 1
	LayerOuter                 // index 2, the slice on the positive side
)

// Index returns the slice index the layer selects.
func (l Layer) Index() int {
	return int(l)
}

func (l Layer) String() string {
	switch l {
	case LayerOpposite:
		return "opposite"
	case LayerMiddle:
		return "middle"
	case LayerOuter:
		return "outer"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// Button selects what a pointer drag does.
type Button int

const (
	ButtonLeft   Button = iota // rotate the assembly
	ButtonMiddle               // scale the assembly
	ButtonRight                // translate; accepted, has no effect
)

func (b Button) mode() arcball.Mode {
	switch b {
	case ButtonLeft:
		return arcball.ModeRotate
	case ButtonMiddle:
		return arcball.ModeScale
	case ButtonRight:
		return arcball.ModeTranslate
	default:
		return arcball.ModeNone
	}
}

// Source identifies who asked for a turn.
type Source int

const (
	SourceUser Source = iota
	SourceShuffle
	SourceSequence
)

func (s Source) String() string {
	switch s {
	case SourceShuffle:
		return "shuffle"
	case SourceSequence:
		return "sequence"
	default:
		return "user"
	}
}

// TurnEvent describes a committed quarter turn.
type TurnEvent struct {
	Turn   SliceTurn
	Move   Move // Quarter-turn notation for Turn
	Source Source
	Tick   uint64 // Tick on which the turn committed
}

// SequenceSummary describes a finished shuffle or scripted sequence.
type SequenceSummary struct {
	Source    Source
	Turns     []SliceTurn
	StartTick uint64
	EndTick   uint64
}

// Engine owns the puzzle state, the turn animator, the sequencer and the
// arcball. It is driven by a single frame loop and is not safe for
// concurrent use.
//
// Each frame, apply input first (Request*, Pointer*), then call Update once,
// then read Frame.
type Engine struct {
	config *config

	set  *cube.Set
	anim *cube.Animator
	seq  *cube.Sequencer
	ball *arcball.Controller

	tick        uint64
	axisVisible bool

	source    Source // source of the turn in progress
	seqSource Source
	seqTurns  []SliceTurn
	seqStart  uint64

	onTurn             func(TurnEvent)
	onSequenceComplete func(SequenceSummary)
}

// New creates an engine with every sub-cube at home and an identity
// global rotation.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	set := cube.NewSet(cfg.spacing)
	return &Engine{
		config:      cfg,
		set:         set,
		anim:        cube.NewAnimator(set),
		seq:         cube.NewSequencer(cfg.rng),
		axisVisible: true,
		ball: arcball.New(cfg.width, cfg.height, cfg.view,
			arcball.WithGain(cfg.gain),
			arcball.WithThreshold(cfg.threshold)),
	}
}

// OnTurn sets a callback that fires each time a quarter turn commits.
func (e *Engine) OnTurn(cb func(TurnEvent)) {
	e.onTurn = cb
}

// OnSequenceComplete sets a callback that fires when a shuffle or a
// scripted sequence finishes.
func (e *Engine) OnSequenceComplete(cb func(SequenceSummary)) {
	e.onSequenceComplete = cb
}

// RequestTurn starts a quarter turn of one slice. It is rejected while a
// sequence runs or another turn is animating.
func (e *Engine) RequestTurn(axis Axis, layer Layer, clockwise bool) error {
	t := cube.Turn{Axis: axis, Index: layer.Index(), Clockwise: clockwise}
	if !t.Valid() {
		log.Debugf("turn rejected: axis %d layer %d out of range", int(axis), int(layer))
		return ErrOutOfRange
	}
	return e.begin(t, SourceUser)
}

func (e *Engine) begin(t cube.Turn, src Source) error {
	if err := e.ready(); err != nil {
		log.S(log.Debug, "turn rejected", log.Str("turn", t.String()), log.Str("reason", err.Error()))
		return err
	}
	e.anim.Begin(t)
	e.source = src
	return nil
}

func (e *Engine) ready() error {
	if e.seq.Running() {
		return ErrShuffling
	}
	if e.anim.Animating() {
		return ErrBusy
	}
	return nil
}

// RequestMove starts the turn named by m. A half turn runs as a two-turn
// sequence.
func (e *Engine) RequestMove(m Move) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidNotation, m.Notation())
	}
	turns := m.Turns()
	if len(turns) == 1 {
		return e.begin(turns[0], SourceUser)
	}
	return e.play(turns, SourceSequence)
}

// RequestSequence queues the moves and plays them one quarter turn at a time.
func (e *Engine) RequestSequence(moves []Move) error {
	turns, err := TurnsFor(moves)
	if err != nil {
		return err
	}
	return e.play(turns, SourceSequence)
}

// RequestShuffle starts a shuffle of n random quarter turns.
func (e *Engine) RequestShuffle(n int) error {
	if n < 0 {
		return ErrOutOfRange
	}
	if err := e.ready(); err != nil {
		log.S(log.Debug, "shuffle rejected", log.Attr("moves", n), log.Str("reason", err.Error()))
		return err
	}
	if err := e.seq.Start(n, e.anim); err != nil {
		return e.mapSequencerErr(err)
	}
	e.startSequence(SourceShuffle)
	log.S(log.Info, "shuffle started", log.Attr("moves", n))
	return nil
}

// RequestRandomShuffle starts a shuffle whose length is drawn from the
// configured range and returns that length.
func (e *Engine) RequestRandomShuffle() (int, error) {
	lo, hi := e.config.shuffleMin, e.config.shuffleMax
	n := lo
	if hi > lo {
		n += e.config.rng.IntN(hi - lo + 1)
	}
	return n, e.RequestShuffle(n)
}

func (e *Engine) play(turns []cube.Turn, src Source) error {
	if err := e.ready(); err != nil {
		log.S(log.Debug, "sequence rejected", log.Attr("turns", len(turns)), log.Str("reason", err.Error()))
		return err
	}
	if err := e.seq.Play(turns, e.anim); err != nil {
		return e.mapSequencerErr(err)
	}
	e.startSequence(src)
	log.S(log.Info, "sequence started", log.Attr("turns", len(turns)))
	return nil
}

func (e *Engine) startSequence(src Source) {
	e.seqSource = src
	e.seqTurns = e.seq.Queue()
	e.seqStart = e.tick
}

func (e *Engine) mapSequencerErr(err error) error {
	switch {
	case errors.Is(err, cube.ErrSequenceRunning):
		return ErrShuffling
	case errors.Is(err, cube.ErrAnimating):
		return ErrBusy
	case errors.Is(err, cube.ErrInvalidTurn):
		return ErrOutOfRange
	}
	return err
}

// PointerDown starts a drag with the given button.
func (e *Engine) PointerDown(x, y float64, b Button) {
	e.ball.BeginDrag(x, y, b.mode())
}

// PointerDrag moves the pointer of the drag in progress.
func (e *Engine) PointerDrag(x, y float64) {
	e.ball.Drag(x, y)
}

// PointerUp ends the drag in progress.
func (e *Engine) PointerUp() {
	e.ball.EndDrag()
}

// ToggleAxisGizmo flips the axis gizmo visibility.
func (e *Engine) ToggleAxisGizmo() {
	e.axisVisible = !e.axisVisible
}

// Resize updates the viewport used to project pointer positions.
func (e *Engine) Resize(width, height int) {
	e.ball.Resize(width, height)
}

// Update advances the simulation by one tick. A running sequence first gets
// the chance to begin its next turn; then the turn in progress, whoever
// started it, advances by one step. A sequence whose last turn commits in
// this step completes in the same Update.
func (e *Engine) Update() {
	e.tick++

	if begun, done := e.seq.Tick(e.anim); begun != nil {
		e.source = e.seqSource
	} else if done {
		e.finishSequence()
	}

	if !e.anim.Animating() {
		return
	}
	turn, _ := e.anim.Current()
	if !e.anim.Step(e.config.turnStep) {
		return
	}
	if e.onTurn != nil {
		e.onTurn(TurnEvent{
			Turn:   turn,
			Move:   MoveForTurn(turn),
			Source: e.source,
			Tick:   e.tick,
		})
	}
	// The final commit of a sequence completes it on the same tick.
	if e.seq.Pending() == 0 {
		if _, done := e.seq.Tick(e.anim); done {
			e.finishSequence()
		}
	}
}

func (e *Engine) finishSequence() {
	summary := SequenceSummary{
		Source:    e.seqSource,
		Turns:     e.seqTurns,
		StartTick: e.seqStart,
		EndTick:   e.tick,
	}
	e.seqTurns = nil
	log.S(log.Info, e.seqSource.String()+" completed",
		log.Attr("turns", len(summary.Turns)),
		log.Attr("ticks", summary.EndTick-summary.StartTick))
	if e.onSequenceComplete != nil {
		e.onSequenceComplete(summary)
	}
}

// Frame returns the renderable state for the current tick.
func (e *Engine) Frame() Frame {
	f := Frame{
		Rotation:    e.ball.Rotation(),
		Scale:       e.ball.Scale(),
		Shuffling:   e.seq.Running(),
		Animating:   e.anim.Animating(),
		AxisVisible: e.axisVisible,
		Tick:        e.tick,
	}
	for i := range f.Cubes {
		c := e.set.At(i)
		f.Cubes[i] = Pose{
			Home:      c.Home,
			Pos:       c.Pos,
			Transform: c.Transform,
			Colors:    c.Colors,
		}
	}
	return f
}

// Reset puts every sub-cube back home and drops any turn, sequence and
// arcball rotation. Callbacks stay registered.
func (e *Engine) Reset() {
	e.seq.Cancel()
	e.seqTurns = nil
	e.anim.Reset()
	e.set.Reset()
	e.ball.Reset()
	e.axisVisible = true
	log.Infof("engine reset")
}

// Animating reports whether a turn is in progress.
func (e *Engine) Animating() bool {
	return e.anim.Animating()
}

// Shuffling reports whether a shuffle or scripted sequence is running.
func (e *Engine) Shuffling() bool {
	return e.seq.Running()
}

// Pending returns how many turns of the running sequence have not begun.
func (e *Engine) Pending() int {
	return e.seq.Pending()
}

// SequenceLength returns the number of turns in the running or last sequence.
func (e *Engine) SequenceLength() int {
	return e.seq.Total()
}

// Tick returns the number of Update calls so far.
func (e *Engine) Tick() uint64 {
	return e.tick
}

// Current returns the turn in progress and how far it has rotated, in degrees.
func (e *Engine) Current() (SliceTurn, float32, bool) {
	t, ok := e.anim.Current()
	return t, e.anim.Angle(), ok
}

// Solved reports whether every sub-cube is in its construction slot.
func (e *Engine) Solved() bool {
	return e.set.IsHome()
}

// View returns the camera view matrix.
func (e *Engine) View() mgl32.Mat4 {
	return e.ball.View()
}

// Spacing returns the distance between neighbouring sub-cube centers.
func (e *Engine) Spacing() float32 {
	return e.set.Spacing()
}
