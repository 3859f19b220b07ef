// Package ble talks to GoCube devices over Bluetooth LE.
package ble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fortio.org/log"
	"tinygo.org/x/bluetooth"

	"github.com/SeamusWaldron/cubesim/internal/protocol"
)

var (
	ErrNotConnected     = errors.New("ble: not connected")
	ErrAlreadyConnected = errors.New("ble: already connected")
	ErrNoService        = errors.New("ble: GoCube service not found")
)

var (
	serviceUUID = mustUUID(protocol.ServiceUUID)
	txUUID      = mustUUID(protocol.TxCharUUID)
	rxUUID      = mustUUID(protocol.RxCharUUID)
)

func mustUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// Peripheral is an advertising GoCube.
type Peripheral struct {
	Name    string
	Address string
	RSSI    int16
	addr    bluetooth.Address
}

// Client holds the adapter and at most one connection.
type Client struct {
	adapter *bluetooth.Adapter

	mu        sync.Mutex
	device    bluetooth.Device
	rx        bluetooth.DeviceCharacteristic
	connected bool
	name      string
}

// NewClient enables the default adapter.
func NewClient() (*Client, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enable BLE adapter: %w", err)
	}
	return &Client{adapter: adapter}, nil
}

// Scan listens for advertisements until the timeout or ctx ends and
// returns the GoCubes seen, each once.
func (c *Client) Scan(ctx context.Context, timeout time.Duration) ([]Peripheral, error) {
	var (
		mu    sync.Mutex
		found []Peripheral
		seen  = make(map[string]bool)
	)

	done := make(chan error, 1)
	go func() {
		done <- c.adapter.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
			name := r.LocalName()
			if !strings.HasPrefix(strings.ToLower(name), "gocube") {
				return
			}
			addr := r.Address.String()
			mu.Lock()
			defer mu.Unlock()
			if seen[addr] {
				return
			}
			seen[addr] = true
			log.S(log.Debug, "found cube", log.Str("name", name), log.Str("addr", addr), log.Attr("rssi", r.RSSI))
			found = append(found, Peripheral{Name: name, Address: addr, RSSI: r.RSSI, addr: r.Address})
		})
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	if err := c.adapter.StopScan(); err != nil {
		log.Debugf("stop scan: %v", err)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	return found, ctx.Err()
}

// Connect opens a connection to p and delivers every well-formed
// notification to onMessage, on the adapter's goroutine.
func (c *Client) Connect(ctx context.Context, p Peripheral, onMessage func(*protocol.Message)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return ErrAlreadyConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	device, err := c.adapter.Connect(p.addr, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("connect %s: %w", p.Address, err)
	}

	tx, rx, err := discover(device)
	if err != nil {
		device.Disconnect()
		return err
	}

	err = tx.EnableNotifications(func(data []byte) {
		msg, err := protocol.Parse(data)
		if err != nil {
			log.Debugf("dropping notification: %v", err)
			return
		}
		onMessage(msg)
	})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("enable notifications: %w", err)
	}

	c.device = device
	c.rx = rx
	c.connected = true
	c.name = p.Name
	log.S(log.Info, "connected", log.Str("name", p.Name), log.Str("addr", p.Address))
	return nil
}

func discover(device bluetooth.Device) (tx, rx bluetooth.DeviceCharacteristic, err error) {
	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		return tx, rx, fmt.Errorf("discover services: %w", err)
	}
	if len(services) == 0 {
		return tx, rx, ErrNoService
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txUUID, rxUUID})
	if err != nil {
		return tx, rx, fmt.Errorf("discover characteristics: %w", err)
	}
	for _, ch := range chars {
		switch ch.UUID() {
		case txUUID:
			tx = ch
		case rxUUID:
			rx = ch
		}
	}
	return tx, rx, nil
}

// Send writes a command to the cube.
func (c *Client) Send(code byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return ErrNotConnected
	}
	data := protocol.Command(code)
	if _, err := c.rx.WriteWithoutResponse(data); err != nil {
		if _, err := c.rx.Write(data); err != nil {
			return fmt.Errorf("write command 0x%02X: %w", code, err)
		}
	}
	return nil
}

// Name returns the connected device name.
func (c *Client) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// Connected reports whether a device is connected.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close disconnects the current device, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	c.connected = false
	c.name = ""
	return c.device.Disconnect()
}
