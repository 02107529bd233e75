package engine

import "errors"

// Domain errors for engine operations.
var (
	// ErrNonPositiveMass indicates an attempt to add a body whose mass is
	// zero, negative, or NaN. A non-positive mass would propagate NaN
	// through sqrt(mass) and the force accumulation.
	ErrNonPositiveMass = errors.New("engine: body mass must be positive")

	// ErrInvalidBody indicates a body with NaN or Inf position or velocity.
	ErrInvalidBody = errors.New("engine: body position and velocity must be finite")
)
