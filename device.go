package cubesim

import (
	"context"
	"sync"
	"time"

	"fortio.org/log"

	"github.com/SeamusWaldron/cubesim/internal/ble"
	"github.com/SeamusWaldron/cubesim/internal/protocol"
)

// Device is a discovered GoCube. Devices are returned by Scan and can be
// passed to Connect.
type Device struct {
	Name    string // e.g. "GoCube_XXXX"
	Address string
	RSSI    int16 // dBm, higher is stronger

	peripheral ble.Peripheral
}

// SmartCube is a connected GoCube whose turns can drive an Engine.
//
//	sc, err := cubesim.ConnectFirst(ctx, 10*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sc.Close()
//
//	sc.OnMove(func(m cubesim.Move) {
//	    moves <- m // hand over to the frame loop
//	})
//
// Callbacks run on the Bluetooth goroutine and must not touch an Engine
// directly.
type SmartCube struct {
	client *ble.Client
	device Device

	mu        sync.RWMutex
	battery   int
	onMove    func(Move)
	onBattery func(int)
}

// Scan discovers nearby GoCubes.
//
// On macOS scanning sometimes needs more than one attempt, and a cube that
// is connected to a phone does not advertise.
func Scan(ctx context.Context, timeout time.Duration) ([]Device, error) {
	client, err := ble.NewClient()
	if err != nil {
		return nil, err
	}

	found, err := client.Scan(ctx, timeout)
	if err != nil {
		return nil, err
	}

	devices := make([]Device, len(found))
	for i, p := range found {
		devices[i] = Device{Name: p.Name, Address: p.Address, RSSI: p.RSSI, peripheral: p}
	}
	return devices, nil
}

// Connect connects to a device returned by Scan.
func Connect(ctx context.Context, d Device) (*SmartCube, error) {
	client, err := ble.NewClient()
	if err != nil {
		return nil, err
	}

	sc := &SmartCube{client: client, device: d, battery: -1}
	if err := client.Connect(ctx, d.peripheral, sc.handleMessage); err != nil {
		return nil, err
	}
	if err := client.Send(protocol.CmdRequestBattery); err != nil {
		log.Warnf("battery request: %v", err)
	}
	return sc, nil
}

// ConnectFirst scans for timeout and connects to the first cube found.
func ConnectFirst(ctx context.Context, timeout time.Duration) (*SmartCube, error) {
	devices, err := Scan(ctx, timeout)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, ErrDeviceNotFound
	}
	return Connect(ctx, devices[0])
}

// Close disconnects from the cube.
func (g *SmartCube) Close() error {
	return g.client.Close()
}

// Name returns the device name.
func (g *SmartCube) Name() string {
	return g.device.Name
}

// Battery returns the last reported battery level, or -1 if unknown.
func (g *SmartCube) Battery() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.battery
}

// OnMove sets a callback that fires for each turn of the physical cube.
func (g *SmartCube) OnMove(cb func(Move)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onMove = cb
}

// OnBattery sets a callback for battery level updates.
func (g *SmartCube) OnBattery(cb func(int)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onBattery = cb
}

// FlashBacklight flashes the cube's LEDs.
func (g *SmartCube) FlashBacklight() error {
	if !g.client.Connected() {
		return ErrNotConnected
	}
	return g.client.Send(protocol.CmdFlashBacklight)
}

func (g *SmartCube) handleMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgTypeRotation:
		rots, err := protocol.DecodeRotations(msg.Payload)
		if err != nil {
			log.Debugf("rotation: %v", err)
			return
		}
		now := time.Now()
		g.mu.RLock()
		cb := g.onMove
		g.mu.RUnlock()
		for _, r := range rots {
			m := moveForRotation(r, now)
			log.Debugf("cube turned %s", m.Notation())
			if cb != nil {
				cb(m)
			}
		}

	case protocol.MsgTypeBattery:
		level, err := protocol.DecodeBattery(msg.Payload)
		if err != nil {
			return
		}
		g.mu.Lock()
		g.battery = level
		cb := g.onBattery
		g.mu.Unlock()
		if cb != nil {
			cb(level)
		}

	default:
		log.Debugf("ignoring %s notification", protocol.TypeName(msg.Type))
	}
}

func moveForRotation(r protocol.Rotation, t time.Time) Move {
	turn := CCW
	if r.Clockwise {
		turn = CW
	}
	return Move{Face: Face(string(r.Face)), Turn: turn, Time: t}
}
