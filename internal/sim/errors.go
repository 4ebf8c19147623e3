package sim

import "errors"

var (
	// ErrInvalidState indicates a body with a NaN or Inf position or velocity.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a world or run parameter outside its valid range.
	ErrParameterBounds = errors.New("sim: parameter out of valid bounds")
)
