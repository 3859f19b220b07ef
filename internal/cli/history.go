package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubesim/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [session]",
	Short: "Show journaled sessions",
	Long: `Without arguments, list the most recent sessions. With a session ID (or a
unique prefix of one), show that session's turns and completed sequences.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Number of sessions to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if len(args) == 1 {
		return showSession(db, args[0])
	}

	sessions, err := storage.NewSessionRepository(db).List(historyLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded")
		return nil
	}

	fmt.Printf("%-10s %-20s %-8s %6s %5s  %s\n", "SESSION", "STARTED", "MODE", "TURNS", "SEQS", "DURATION")
	for _, s := range sessions {
		duration := "open"
		if s.EndedAt != nil {
			duration = s.Duration().Round(time.Second).String()
		}
		fmt.Printf("%-10s %-20s %-8s %6d %5d  %s\n",
			s.SessionID[:8], s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.Mode, s.TurnCount, s.SequenceCount, duration)
	}
	return nil
}

func showSession(db *storage.DB, id string) error {
	s, err := storage.NewSessionRepository(db).Get(id)
	if err != nil {
		return err
	}
	repo := storage.NewTurnRepository(db)
	turns, err := repo.GetBySession(s.SessionID)
	if err != nil {
		return err
	}
	seqs, err := repo.GetSequences(s.SessionID)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Session " + s.SessionID))
	fmt.Printf("Mode:    %s\n", s.Mode)
	if s.DeviceName != nil {
		fmt.Printf("Device:  %s\n", *s.DeviceName)
	}
	fmt.Printf("Started: %s\n", s.StartedAt.Local().Format(time.RFC3339))
	if s.EndedAt != nil {
		fmt.Printf("Ended:   %s (%s)\n", s.EndedAt.Local().Format(time.RFC3339), s.Duration().Round(time.Millisecond))
	}
	fmt.Println()

	if len(turns) > 0 {
		notation := make([]string, len(turns))
		for i, t := range turns {
			notation[i] = t.Notation
		}
		fmt.Printf("Turns (%d):\n", len(turns))
		fmt.Println(moveStyle.Render(strings.Join(notation, " ")))
		fmt.Println()
	}

	for _, q := range seqs {
		fmt.Printf("%-8s ticks %d-%d  %s\n", q.Source, q.StartTick, q.EndTick, q.Notation)
	}
	return nil
}
