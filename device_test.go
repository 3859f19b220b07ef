package cubesim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubesim/internal/protocol"
)

func TestSmartCubeDecodesTurns(t *testing.T) {
	sc := &SmartCube{battery: -1}
	var got []Move
	sc.OnMove(func(m Move) { got = append(got, m) })

	// Red clockwise, white counter-clockwise.
	msg, err := protocol.Parse(protocol.Encode(protocol.MsgTypeRotation, []byte{0x08, 0x00, 0x05, 0x00}))
	require.NoError(t, err)
	sc.handleMessage(msg)

	require.Len(t, got, 2)
	assert.Equal(t, "R", got[0].Notation())
	assert.Equal(t, "U'", got[1].Notation())
	assert.False(t, got[0].Time.IsZero())
}

func TestSmartCubeBattery(t *testing.T) {
	sc := &SmartCube{battery: -1}
	assert.Equal(t, -1, sc.Battery())

	level := 0
	sc.OnBattery(func(l int) { level = l })
	sc.handleMessage(&protocol.Message{Type: protocol.MsgTypeBattery, Payload: []byte{64}})
	assert.Equal(t, 64, sc.Battery())
	assert.Equal(t, 64, level)
}

func TestSmartCubeMovesDriveEngine(t *testing.T) {
	e := newTestEngine()
	sc := &SmartCube{battery: -1}
	moves := make(chan Move, 8)
	sc.OnMove(func(m Move) { moves <- m })

	for _, code := range []byte{0x08, 0x04, 0x09, 0x05} { // R U R' U'
		sc.handleMessage(&protocol.Message{Type: protocol.MsgTypeRotation, Payload: []byte{code, 0}})
	}
	close(moves)

	var played []Move
	for m := range moves {
		require.NoError(t, e.RequestMove(m))
		settle(t, e)
		played = append(played, m)
	}
	assert.Equal(t, "R U R' U'", FormatMoves(played))
	assert.False(t, e.Solved())
}
