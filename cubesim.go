// Package cubesim is the core of an interactive 3x3x3 puzzle simulator.
//
// It keeps the logical state of 27 sub-cubes consistent under 90 degree
// slice turns, animates each turn over successive frames, and orbits the
// whole assembly with an arcball. It draws nothing: every frame it hands a
// renderer 27 local transforms with their face colors and one global
// rotation matrix.
//
// # Quick Start
//
//	engine := cubesim.New()
//	engine.OnTurn(func(ev cubesim.TurnEvent) {
//	    fmt.Println("turned", ev.Move)
//	})
//
//	engine.RequestTurn(cubesim.AxisY, cubesim.LayerOuter, true)
//	for engine.Animating() {
//	    engine.Update()
//	    frame := engine.Frame()
//	    draw(frame) // frame.Model(i) for each sub-cube
//	}
//
// # Requests
//
// Only one turn animates at a time. A request made while a turn is in
// flight fails with ErrBusy, and any request made while a shuffle or
// scripted sequence runs fails with ErrShuffling. Callers that want to queue
// work use RequestSequence:
//
//	moves, _ := cubesim.ParseMoves("R U R' U'")
//	engine.RequestSequence(moves)
//
// # Pointer Input
//
// Left drags rotate the assembly about the scene origin, middle drags scale
// it and right drags are accepted without effect. None of them change which
// slot a sub-cube occupies.
//
// # Smart Cubes
//
// Scan and Connect reach a GoCube over Bluetooth LE; its turns arrive as
// Moves that can be fed to RequestMove.
package cubesim
