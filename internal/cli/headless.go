package cli

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubesim"
	"github.com/SeamusWaldron/cubesim/internal/storage"
)

var (
	shuffleMoves int
	shuffleSeed  uint64
)

var shuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Shuffle the puzzle headlessly",
	Long: `Run a shuffle of random quarter turns to completion without a UI, then
print the applied turns and the resulting sticker net.

With --seed the same turns are produced on every run.`,
	Args: cobra.NoArgs,
	RunE: runShuffle,
}

var turnCmd = &cobra.Command{
	Use:   "turn <moves>",
	Short: "Play a move sequence headlessly",
	Long: `Play a sequence in standard notation (R L U D F B M E S, with ' and 2
suffixes) to completion, then print the sticker net and whether every
sub-cube is back home.

Example:
  cubesim turn "R U R' U'"`,
	Args: cobra.ExactArgs(1),
	RunE: runTurn,
}

func init() {
	shuffleCmd.Flags().IntVarP(&shuffleMoves, "moves", "n", 0, "Number of turns (default: random within shuffle_min..shuffle_max)")
	shuffleCmd.Flags().Uint64Var(&shuffleSeed, "seed", 0, "Seed for a reproducible shuffle (0 picks a random seed)")
	shuffleCmd.Flags().StringVar(&exportPath, "export", "", "Write the final frame to a .gltf or .glb file")
	turnCmd.Flags().StringVar(&exportPath, "export", "", "Write the final frame to a .gltf or .glb file")
	rootCmd.AddCommand(shuffleCmd, turnCmd)
}

// recorder collects what a headless run committed.
type recorder struct {
	turns     []cubesim.Move
	sequences []cubesim.SequenceSummary
}

// attach registers the recorder and an optional journal on e.
func (r *recorder) attach(e *cubesim.Engine, j *storage.Journal) {
	e.OnTurn(func(ev cubesim.TurnEvent) {
		r.turns = append(r.turns, ev.Move)
		if j != nil {
			j.RecordTurn(ev)
		}
	})
	e.OnSequenceComplete(func(s cubesim.SequenceSummary) {
		r.sequences = append(r.sequences, s)
		if j != nil {
			j.RecordSequence(s)
		}
	})
}

// settle updates e until no turn or sequence is left, and returns the
// number of ticks taken.
func settle(e *cubesim.Engine) int {
	ticks := 0
	for e.Shuffling() || e.Animating() {
		e.Update()
		ticks++
	}
	return ticks
}

// withJournal runs fn with a journal session of the given mode. A database
// that cannot be opened only disables journaling.
func withJournal(mode string, fn func(*storage.Journal) error) error {
	db, err := openDB()
	if err != nil {
		log.Warnf("journal disabled: %v", err)
		return fn(nil)
	}
	defer db.Close()

	j, err := storage.StartJournal(db, mode, "")
	if err != nil {
		log.Warnf("journal disabled: %v", err)
		return fn(nil)
	}
	defer func() {
		if err := j.Close(); err != nil {
			log.Warnf("journal close: %v", err)
		}
	}()
	return fn(j)
}

func runShuffle(cmd *cobra.Command, args []string) error {
	opts := cfg.Options()
	if shuffleSeed != 0 {
		opts = append(opts, cubesim.WithRand(rand.New(rand.NewPCG(shuffleSeed, shuffleSeed))))
	}

	return withJournal("shuffle", func(j *storage.Journal) error {
		e := cubesim.New(opts...)
		var rec recorder
		rec.attach(e, j)

		n := shuffleMoves
		var err error
		if n > 0 {
			err = e.RequestShuffle(n)
		} else {
			n, err = e.RequestRandomShuffle()
		}
		if err != nil {
			return err
		}
		ticks := settle(e)

		fmt.Printf("Shuffle (%d turns, %d ticks):\n", n, ticks)
		fmt.Println(moveStyle.Render(cubesim.FormatMoves(rec.turns)))
		fmt.Println()
		fmt.Println(renderNet(e.Frame()))
		return exportFrame(e.Frame())
	})
}

func runTurn(cmd *cobra.Command, args []string) error {
	moves, err := cubesim.ParseMoves(strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}

	return withJournal("turn", func(j *storage.Journal) error {
		e := cubesim.New(cfg.Options()...)
		var rec recorder
		rec.attach(e, j)

		if err := e.RequestSequence(moves); err != nil {
			return err
		}
		ticks := settle(e)

		fmt.Printf("Played %s (%d quarter turns, %d ticks)\n",
			cubesim.FormatMoves(moves), len(rec.turns), ticks)
		fmt.Println()
		fmt.Println(renderNet(e.Frame()))
		fmt.Println()
		if e.Solved() {
			fmt.Println(moveStyle.Render("Every sub-cube is home."))
		} else {
			fmt.Println(statusStyle.Render("Puzzle is scrambled."))
		}
		return exportFrame(e.Frame())
	})
}
