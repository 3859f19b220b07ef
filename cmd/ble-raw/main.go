// BLE Raw Data Debug - prints every notification frame from a GoCube with
// its decoded meaning.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SeamusWaldron/cubesim"
	"github.com/SeamusWaldron/cubesim/internal/ble"
	"github.com/SeamusWaldron/cubesim/internal/protocol"
)

func main() {
	fmt.Println("BLE Raw Data Debug")
	fmt.Println("==================")
	fmt.Println()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := ble.NewClient()
	if err != nil {
		fmt.Printf("Failed to enable adapter: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Scanning for GoCube...")
	found, err := client.Scan(ctx, 10*time.Second)
	if err != nil || len(found) == 0 {
		fmt.Println("GoCube not found")
		os.Exit(1)
	}
	target := found[0]
	fmt.Printf("Found: %s (%s, RSSI %d)\n", target.Name, target.Address, target.RSSI)
	fmt.Println()

	fmt.Println("Connecting...")
	start := time.Now()
	err = client.Connect(ctx, target, func(msg *protocol.Message) {
		fmt.Printf("[%8.3fs] %-12s %s\n", time.Since(start).Seconds(),
			protocol.TypeName(msg.Type), hex.EncodeToString(msg.Payload))
		describe(msg)
	})
	if err != nil {
		fmt.Printf("Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()
	fmt.Println("Connected! Turn the cube; press Ctrl+C to exit.")
	fmt.Println()

	for _, code := range []byte{protocol.CmdRequestBattery, protocol.CmdRequestState} {
		if err := client.Send(code); err != nil {
			fmt.Printf("Send 0x%02x failed: %v\n", code, err)
		}
	}

	<-ctx.Done()
	fmt.Println("\nDisconnecting...")
}

func describe(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgTypeRotation:
		rotations, err := protocol.DecodeRotations(msg.Payload)
		if err != nil {
			fmt.Printf("             decode: %v\n", err)
			return
		}
		notation := make([]string, 0, len(rotations))
		for _, r := range rotations {
			turn := cubesim.CCW
			if r.Clockwise {
				turn = cubesim.CW
			}
			notation = append(notation, cubesim.Move{Face: cubesim.Face(string(r.Face)), Turn: turn}.Notation())
		}
		fmt.Printf("             moves: %s\n", strings.Join(notation, " "))
	case protocol.MsgTypeBattery:
		if level, err := protocol.DecodeBattery(msg.Payload); err == nil {
			fmt.Printf("             battery: %d%%\n", level)
		}
	}
}
