package cli

import (
	"context"
	"fmt"
	"time"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubesim"
	"github.com/SeamusWaldron/cubesim/internal/storage"
)

var (
	scanTimeout time.Duration
	scanRetries int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List nearby GoCube devices",
	Args:  cobra.NoArgs,
	RunE:  runScan,
}

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Mirror a GoCube smart cube in the simulator",
	Long: `Connect to the first GoCube found over Bluetooth and animate its turns in
the interactive simulator. Keyboard and mouse work as in 'cubesim play';
turns of the physical cube are queued and played as soon as the simulator
is idle.`,
	Args: cobra.NoArgs,
	RunE: runMirror,
}

func init() {
	for _, c := range []*cobra.Command{scanCmd, mirrorCmd} {
		c.Flags().DurationVar(&scanTimeout, "timeout", 5*time.Second, "Scan duration per attempt")
		c.Flags().IntVar(&scanRetries, "retries", 3, "Scan attempts before giving up")
	}
	mirrorCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	mirrorCmd.Flags().StringVar(&exportPath, "export", "", "Write the final frame to a .gltf or .glb file on exit")
	rootCmd.AddCommand(scanCmd, mirrorCmd)
}

// scanWithRetry scans up to maxAttempts times and returns the first
// non-empty result.
func scanWithRetry(ctx context.Context, maxAttempts int) ([]cubesim.Device, error) {
	fmt.Println("Scanning for GoCube devices...")

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		devices, err := cubesim.Scan(ctx, scanTimeout)
		if err != nil {
			lastErr = err
			fmt.Printf("Scan %d failed: %v\n", attempt, err)
			continue
		}
		if len(devices) > 0 {
			return devices, nil
		}
		if attempt < maxAttempts {
			fmt.Printf("Scan %d: No devices found, retrying...\n", attempt)
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, cubesim.ErrDeviceNotFound
}

func runScan(cmd *cobra.Command, args []string) error {
	devices, err := scanWithRetry(cmd.Context(), scanRetries)
	if err != nil {
		fmt.Println("No GoCube devices found")
		fmt.Println()
		fmt.Println("Tips:")
		fmt.Println("  - Ensure your GoCube is powered on")
		fmt.Println("  - Move the cube to wake it up")
		fmt.Println("  - Disconnect it from the phone app")
		return err
	}

	fmt.Printf("Found %d device(s):\n", len(devices))
	for _, d := range devices {
		fmt.Printf("  - %s (%s, RSSI: %d)\n", d.Name, d.Address, d.RSSI)
	}
	return nil
}

func runMirror(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	devices, err := scanWithRetry(ctx, scanRetries)
	if err != nil {
		return err
	}
	fmt.Printf("Connecting to %s...\n", devices[0].Name)
	sc, err := cubesim.Connect(ctx, devices[0])
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer sc.Close()
	if err := sc.FlashBacklight(); err != nil {
		log.Warnf("flash: %v", err)
	}

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

	journal, err := storage.StartJournal(db, "mirror", sc.Name())
	if err != nil {
		return err
	}
	defer func() {
		if err := journal.Close(); err != nil {
			log.Warnf("journal close: %v", err)
		}
	}()

	m := newPlayModel(cfg, journal, startMetrics(ctx))
	m.mirror(sc)
	return runTUI(m)
}
