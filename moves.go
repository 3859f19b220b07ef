package cubesim

// Predefined moves for convenience.
//
// Example:
//
//	engine.RequestSequence([]cubesim.Move{cubesim.R, cubesim.U, cubesim.RPrime, cubesim.UPrime})
var (
	R      = Move{Face: FaceR, Turn: CW}
	RPrime = Move{Face: FaceR, Turn: CCW}
	R2     = Move{Face: FaceR, Turn: Double}

	L      = Move{Face: FaceL, Turn: CW}
	LPrime = Move{Face: FaceL, Turn: CCW}
	L2     = Move{Face: FaceL, Turn: Double}

	U      = Move{Face: FaceU, Turn: CW}
	UPrime = Move{Face: FaceU, Turn: CCW}
	U2     = Move{Face: FaceU, Turn: Double}

	D      = Move{Face: FaceD, Turn: CW}
	DPrime = Move{Face: FaceD, Turn: CCW}
	D2     = Move{Face: FaceD, Turn: Double}

	F      = Move{Face: FaceF, Turn: CW}
	FPrime = Move{Face: FaceF, Turn: CCW}
	F2     = Move{Face: FaceF, Turn: Double}

	B      = Move{Face: FaceB, Turn: CW}
	BPrime = Move{Face: FaceB, Turn: CCW}
	B2     = Move{Face: FaceB, Turn: Double}

	// Slice moves
	M      = Move{Face: FaceM, Turn: CW}
	MPrime = Move{Face: FaceM, Turn: CCW}
	E      = Move{Face: FaceE, Turn: CW}
	EPrime = Move{Face: FaceE, Turn: CCW}
	S      = Move{Face: FaceS, Turn: CW}
	SPrime = Move{Face: FaceS, Turn: CCW}
	M2     = Move{Face: FaceM, Turn: Double}
	E2     = Move{Face: FaceE, Turn: Double}
	S2     = Move{Face: FaceS, Turn: Double}
)

// Sexy move: R U R' U'. Six repetitions return the cube to its start.
var SexyMove = []Move{R, U, RPrime, UPrime}

// T-perm algorithm. Applying it twice is the identity.
var TPerm = []Move{R, U, RPrime, UPrime, RPrime, F, R2, UPrime, RPrime, UPrime, R, U, RPrime, FPrime}

// Checkerboard pattern. It is its own inverse.
var Checkerboard = []Move{M2, E2, S2}
