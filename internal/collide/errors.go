package collide

import "errors"

var (
	// ErrCoincidentCenters indicates two bodies sharing a centre, for which
	// no contact normal exists.
	ErrCoincidentCenters = errors.New("collide: coincident centers")

	// ErrNonFinite indicates an impulse that would leave a NaN or Inf velocity.
	ErrNonFinite = errors.New("collide: non-finite impulse")

	// ErrRestitution indicates a restitution or bounce factor outside [0,1].
	ErrRestitution = errors.New("collide: coefficient outside [0,1]")

	// ErrIterations indicates a non-positive number of stabilization passes.
	ErrIterations = errors.New("collide: iterations must be positive")

	ErrUnknownPolicy = errors.New("collide: unknown contact policy")
	ErrUnknownMode   = errors.New("collide: unknown resolution mode")
)
