package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fortio.org/log"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubesim"
	"github.com/SeamusWaldron/cubesim/internal/config"
	"github.com/SeamusWaldron/cubesim/internal/export"
	"github.com/SeamusWaldron/cubesim/internal/metrics"
	"github.com/SeamusWaldron/cubesim/internal/storage"
)

var (
	metricsAddr string
	exportPath  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive simulator",
	Long: `Start an interactive TUI that shows the puzzle as a sticker net, the
axis gizmo and the global rotation.

Keyboard shortcuts:
  r / e      - Turn the right X slice / the middle X slice
  g / f      - Turn the top Y slice / the middle Y slice
  b / v      - Turn the front Z slice / the middle Z slice
  Shift      - Reverse the direction (R, E, G, F, B, V)
  Alt        - Turn the opposite outer slice (alt+r, alt+g, alt+b)
  ctrl+s     - Shuffle 25-35 random turns
  a          - Toggle the axis gizmo
  0          - Reset
  q/Esc      - Quit

Mouse: drag with the left button to rotate, the middle button to scale.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	playCmd.Flags().StringVar(&exportPath, "export", "", "Write the final frame to a .gltf or .glb file on exit")
	rootCmd.AddCommand(playCmd)
}

// Messages
type tickMsg time.Time
type deviceMoveMsg struct{ move cubesim.Move }

// keyBinding maps a key to a slice.
type keyBinding struct {
	axis  cubesim.Axis
	outer bool
}

var keyBindings = map[rune]keyBinding{
	'r': {cubesim.AxisX, true},
	'e': {cubesim.AxisX, false},
	'g': {cubesim.AxisY, true},
	'f': {cubesim.AxisY, false},
	'b': {cubesim.AxisZ, true},
	'v': {cubesim.AxisZ, false},
}

// turnForKey resolves a key press to a slice turn. Upper case reverses the
// direction; alt on an outer-slice key selects the opposite outer slice.
func turnForKey(key string) (axis cubesim.Axis, layer cubesim.Layer, clockwise, ok bool) {
	alt := strings.HasPrefix(key, "alt+")
	key = strings.TrimPrefix(key, "alt+")
	if len(key) != 1 {
		return 0, 0, false, false
	}
	ch := rune(key[0])
	clockwise = true
	if ch >= 'A' && ch <= 'Z' {
		ch += 'a' - 'A'
		clockwise = false
	}
	kb, found := keyBindings[ch]
	if !found {
		return 0, 0, false, false
	}
	switch {
	case !kb.outer && alt:
		return 0, 0, false, false
	case !kb.outer:
		layer = cubesim.LayerMiddle
	case alt:
		layer = cubesim.LayerOpposite
	default:
		layer = cubesim.LayerOuter
	}
	return kb.axis, layer, clockwise, true
}

// Model
type playModel struct {
	engine  *cubesim.Engine
	journal *storage.Journal
	metrics *metrics.Collector
	fps     int

	// Progress bar
	spring      harmonica.Spring
	progress    float64
	progressVel float64

	// Pointer
	dragging bool

	// Mirrored device
	device   *cubesim.SmartCube
	moves    chan cubesim.Move
	done     chan struct{}
	stopOnce sync.Once
	queue    []cubesim.Move
	battery  int

	// State
	history []string
	notice  string

	// UI
	width    int
	height   int
	err      error
	quitting bool
}

func newPlayModel(c config.Config, journal *storage.Journal, col *metrics.Collector) *playModel {
	m := &playModel{
		engine:  cubesim.New(c.Options()...),
		journal: journal,
		metrics: col,
		fps:     c.FPS,
		spring:  harmonica.NewSpring(harmonica.FPS(c.FPS), 6.0, 1.0),
		battery: -1,
	}
	m.engine.OnTurn(func(ev cubesim.TurnEvent) {
		m.history = append(m.history, ev.Move.Notation())
		if len(m.history) > 12 {
			m.history = m.history[len(m.history)-12:]
		}
		if m.journal != nil {
			m.journal.RecordTurn(ev)
		}
		if m.metrics != nil {
			m.metrics.RecordTurn(ev)
		}
	})
	m.engine.OnSequenceComplete(func(s cubesim.SequenceSummary) {
		m.notice = fmt.Sprintf("%s of %d turns completed", s.Source, len(s.Turns))
		if m.journal != nil {
			m.journal.RecordSequence(s)
		}
		if m.metrics != nil {
			m.metrics.RecordSequence(s)
		}
	})
	return m
}

// mirror makes the model follow the turns of a connected cube.
func (m *playModel) mirror(sc *cubesim.SmartCube) {
	m.device = sc
	m.moves = make(chan cubesim.Move, 100)
	m.done = make(chan struct{})
	sc.OnMove(func(mv cubesim.Move) {
		select {
		case m.moves <- mv:
		default:
			log.Warnf("mirror: dropped %s", mv.Notation())
		}
	})
}

func (m *playModel) Init() tea.Cmd {
	if m.moves != nil {
		return tea.Batch(m.tickCmd(), m.listenForMoves())
	}
	return m.tickCmd()
}

// listenForMoves waits for the next mirrored move. It returns nil once
// stopListening has been called.
func (m *playModel) listenForMoves() tea.Cmd {
	moves, done := m.moves, m.done
	return func() tea.Msg {
		select {
		case mv := <-moves:
			return deviceMoveMsg{move: mv}
		case <-done:
			return nil
		}
	}
}

// stopListening detaches the device and releases a pending listenForMoves.
func (m *playModel) stopListening() {
	m.stopOnce.Do(func() {
		if m.device != nil {
			m.device.OnMove(nil)
		}
		if m.done != nil {
			close(m.done)
		}
	})
}

func (m *playModel) tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg.String())
		if m.quitting {
			return m, tea.Quit
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.engine.Resize(msg.Width, 2*msg.Height)

	case deviceMoveMsg:
		m.queue = append(m.queue, msg.move)
		return m, m.listenForMoves()

	case tickMsg:
		m.playQueued()
		if m.device != nil {
			m.battery = m.device.Battery()
		}
		m.engine.Update()
		if m.metrics != nil {
			m.metrics.RecordFrame(m.engine)
		}
		m.progress, m.progressVel = m.spring.Update(m.progress, m.progressVel, m.sequenceProgress())
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *playModel) handleKey(key string) {
	m.err = nil
	switch key {
	case "q", "esc", "ctrl+c":
		m.quitting = true
	case "ctrl+s":
		n, err := m.engine.RequestRandomShuffle()
		if err != nil {
			m.err = err
			return
		}
		m.notice = fmt.Sprintf("shuffling %d turns", n)
	case "a":
		m.engine.ToggleAxisGizmo()
	case "0":
		m.engine.Reset()
		m.history = nil
		m.notice = "reset"
	default:
		axis, layer, cw, ok := turnForKey(key)
		if !ok {
			return
		}
		if err := m.engine.RequestTurn(axis, layer, cw); err != nil {
			m.err = err
		}
	}
}

// playQueued starts the next mirrored move once the engine is idle.
func (m *playModel) playQueued() {
	if len(m.queue) == 0 || m.engine.Animating() || m.engine.Shuffling() {
		return
	}
	mv := m.queue[0]
	m.queue = m.queue[1:]
	if err := m.engine.RequestMove(mv); err != nil {
		m.err = err
	}
}

func (m *playModel) handleMouse(msg tea.MouseMsg) {
	x, y := float64(msg.X), float64(2*msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		var b cubesim.Button
		switch msg.Button {
		case tea.MouseButtonLeft:
			b = cubesim.ButtonLeft
		case tea.MouseButtonMiddle:
			b = cubesim.ButtonMiddle
		case tea.MouseButtonRight:
			b = cubesim.ButtonRight
		default:
			return
		}
		m.engine.PointerDown(x, y, b)
		m.dragging = true
	case tea.MouseActionMotion:
		if m.dragging {
			m.engine.PointerDrag(x, y)
		}
	case tea.MouseActionRelease:
		m.engine.PointerUp()
		m.dragging = false
	}
}

// sequenceProgress returns the fraction of the running sequence that has
// begun, or 1 when none runs.
func (m *playModel) sequenceProgress() float64 {
	total := m.engine.SequenceLength()
	if !m.engine.Shuffling() || total == 0 {
		return 1
	}
	return float64(total-m.engine.Pending()) / float64(total)
}

func (m *playModel) View() string {
	if m.quitting {
		return ""
	}
	f := m.engine.Frame()

	var b strings.Builder
	b.WriteString(titleStyle.Render("cubesim"))
	b.WriteString("\n\n")

	panels := []string{boxStyle.Render(renderNet(f))}
	if f.ShowAxes() {
		panels = append(panels, boxStyle.Render(renderGizmo(m.engine.View(), f.Rotation)))
	}
	panels = append(panels, boxStyle.Render(renderRotation(f.Rotation)+
		fmt.Sprintf("\nscale %.2f", f.Scale)))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	b.WriteString("\n\n")

	switch turn, angle, ok := m.engine.Current(); {
	case ok:
		b.WriteString(statusStyle.Render(fmt.Sprintf("turning %s  %+.0f°", cubesim.MoveForTurn(turn).Notation(), angle)))
	case f.Solved():
		b.WriteString(moveStyle.Render("solved"))
	default:
		b.WriteString(statusStyle.Render("idle"))
	}
	b.WriteString("\n")

	if f.Shuffling {
		b.WriteString(renderProgress(m.progress, 30))
		b.WriteString(statusStyle.Render(fmt.Sprintf(" %d left", m.engine.Pending())))
		b.WriteString("\n")
	}

	if len(m.history) > 0 {
		b.WriteString("Moves: ")
		b.WriteString(moveStyle.Render(strings.Join(m.history, " ")))
		b.WriteString("\n")
	}
	if m.device != nil {
		status := fmt.Sprintf("mirroring %s", m.device.Name())
		if m.battery >= 0 {
			status += fmt.Sprintf("  battery %d%%", m.battery)
		}
		if len(m.queue) > 0 {
			status += fmt.Sprintf("  %d queued", len(m.queue))
		}
		b.WriteString(statusStyle.Render(status))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(statusStyle.Render(m.notice))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r/e g/f b/v: turn  shift: reverse  alt: opposite  ctrl+s: shuffle  a: axes  0: reset  q: quit"))
	return b.String()
}

func runPlay(cmd *cobra.Command, args []string) error {
	closeLog, err := redirectLog()
	if err != nil {
		return err
	}
	defer closeLog()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	journal, err := storage.StartJournal(db, "play", "")
	if err != nil {
		return err
	}
	defer func() {
		if err := journal.Close(); err != nil {
			log.Warnf("journal close: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	m := newPlayModel(cfg, journal, startMetrics(ctx))
	return runTUI(m)
}

func runTUI(m *playModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	m.stopListening()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if m.journal != nil {
		fmt.Printf("Session %s: %d turns\n", m.journal.SessionID()[:8], m.journal.Turns())
	}
	return exportFrame(m.engine.Frame())
}

// redirectLog sends log output to ~/.cubesim/cubesim.log while the TUI owns
// the terminal.
func redirectLog() (func(), error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "cubesim.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// startMetrics serves metrics when --metrics-addr is set. It always
// returns a collector so callers need not check.
func startMetrics(ctx context.Context) *metrics.Collector {
	col := metrics.New()
	if metricsAddr == "" {
		return col
	}
	go func() {
		if err := col.Serve(ctx, metricsAddr); err != nil {
			log.Errf("metrics: %v", err)
		}
	}()
	return col
}

// exportFrame writes f when --export is set.
func exportFrame(f cubesim.Frame) error {
	if exportPath == "" {
		return nil
	}
	if err := export.Write(exportPath, f); err != nil {
		return err
	}
	fmt.Printf("Frame written to %s\n", exportPath)
	return nil
}
