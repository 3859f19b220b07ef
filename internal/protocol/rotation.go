package protocol

import "fmt"

// Rotation is one face turn reported by the cube.
type Rotation struct {
	Face      byte // Notation letter: U, D, F, B, R or L
	Clockwise bool
	Center    byte // Orientation of the turned center, 0-3 steps
}

// The cube reports turns by center color. Its color scheme puts white up
// and green in front.
var faceByColor = [6]byte{
	0: 'B', // blue
	1: 'F', // green
	2: 'U', // white
	3: 'D', // yellow
	4: 'R', // red
	5: 'L', // orange
}

// DecodeRotations decodes a rotation payload. Each turn takes two bytes:
// a face code (color*2, plus 1 for counter-clockwise) and the center
// orientation.
func DecodeRotations(payload []byte) ([]Rotation, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("%w: rotation payload has odd length %d", ErrShortPayload, len(payload))
	}

	out := make([]Rotation, 0, len(payload)/2)
	for i := 0; i < len(payload); i += 2 {
		code := payload[i]
		color := int(code / 2)
		if color >= len(faceByColor) {
			return nil, fmt.Errorf("protocol: unknown face code 0x%02X", code)
		}
		out = append(out, Rotation{
			Face:      faceByColor[color],
			Clockwise: code%2 == 0,
			Center:    payload[i+1],
		})
	}
	return out, nil
}

// DecodeBattery returns the battery level in percent.
func DecodeBattery(payload []byte) (int, error) {
	if len(payload) < 1 {
		return 0, ErrShortPayload
	}
	return int(payload[0]), nil
}
