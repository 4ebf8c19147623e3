package body

import "errors"

// Construction errors. Degenerate geometry during simulation is never
// reported through these; it is handled inside the collision engine.
var (
	// ErrInvalidRadius indicates a radius that is not strictly positive.
	ErrInvalidRadius = errors.New("body: radius must be positive")

	// ErrInvalidMass indicates a mass that is not strictly positive.
	ErrInvalidMass = errors.New("body: mass must be positive")

	// ErrNonFinite indicates a NaN or Inf position or velocity.
	ErrNonFinite = errors.New("body: non-finite kinematic state")
)
