// Package protocol implements the GoCube BLE wire format: framed
// notifications from the cube and single-byte commands to it.
package protocol

import (
	"errors"
	"fmt"
)

// GoCube BLE service and characteristic UUIDs (Nordic UART).
const (
	ServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	TxCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // Notify
	RxCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // Write
)

// Notification types.
const (
	MsgTypeRotation    byte = 0x01
	MsgTypeState       byte = 0x02
	MsgTypeOrientation byte = 0x03
	MsgTypeBattery     byte = 0x05
	MsgTypeCubeType    byte = 0x08
)

// Commands written to the RX characteristic.
const (
	CmdRequestBattery     byte = 0x32
	CmdRequestState       byte = 0x33
	CmdResetSolved        byte = 0x35
	CmdDisableOrientation byte = 0x37
	CmdEnableOrientation  byte = 0x38
	CmdFlashBacklight     byte = 0x41
)

const (
	framePrefix byte = 0x2A // '*'
	frameCR     byte = 0x0D
	frameLF     byte = 0x0A

	// prefix, length, type, checksum, CR, LF
	frameOverhead = 6
)

var (
	ErrShortFrame   = errors.New("protocol: frame too short")
	ErrBadPrefix    = errors.New("protocol: bad frame prefix")
	ErrBadSuffix    = errors.New("protocol: bad frame suffix")
	ErrBadChecksum  = errors.New("protocol: bad checksum")
	ErrBadLength    = errors.New("protocol: length byte does not match frame")
	ErrShortPayload = errors.New("protocol: payload too short")
)

// Message is one decoded notification.
type Message struct {
	Type    byte
	Payload []byte
}

// Parse decodes one notification frame:
//
//	0x2A | length | type | payload... | checksum | 0x0D 0x0A
//
// The length byte counts everything after itself. The checksum is the byte
// sum of everything before it.
func Parse(data []byte) (*Message, error) {
	if len(data) < frameOverhead {
		return nil, ErrShortFrame
	}
	if data[0] != framePrefix {
		return nil, ErrBadPrefix
	}
	n := 2 + int(data[1])
	if n < frameOverhead || n > len(data) {
		return nil, fmt.Errorf("%w: says %d, have %d", ErrBadLength, n, len(data))
	}
	data = data[:n]
	if data[n-2] != frameCR || data[n-1] != frameLF {
		return nil, ErrBadSuffix
	}

	sum := checksum(data[:n-3])
	if sum != data[n-3] {
		return nil, fmt.Errorf("%w: want 0x%02X, got 0x%02X", ErrBadChecksum, data[n-3], sum)
	}

	return &Message{
		Type:    data[2],
		Payload: append([]byte(nil), data[3:n-3]...),
	}, nil
}

// Encode builds a frame around a payload. It is the inverse of Parse and is
// used to replay captured traffic.
func Encode(msgType byte, payload []byte) []byte {
	out := make([]byte, 0, len(payload)+frameOverhead)
	out = append(out, framePrefix, byte(len(payload)+4), msgType)
	out = append(out, payload...)
	out = append(out, checksum(out), frameCR, frameLF)
	return out
}

// Command builds the bytes written to the cube for a command code.
func Command(code byte) []byte {
	return []byte{code}
}

func checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return sum
}

// TypeName returns a human-readable name for a notification type.
func TypeName(msgType byte) string {
	switch msgType {
	case MsgTypeRotation:
		return "rotation"
	case MsgTypeState:
		return "state"
	case MsgTypeOrientation:
		return "orientation"
	case MsgTypeBattery:
		return "battery"
	case MsgTypeCubeType:
		return "cube_type"
	default:
		return fmt.Sprintf("unknown_0x%02X", msgType)
	}
}
