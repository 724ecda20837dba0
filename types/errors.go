package types

import "errors"

// Sentinel errors shared by every package in the module. Callers match them
// with errors.Is; packages wrap them with fmt.Errorf("ctx: %w", Err...) when
// context helps.
var (
	// ErrInvalidInput marks an empty or malformed spectrum or data matrix.
	ErrInvalidInput = errors.New("condreg: invalid input")

	// ErrInvalidArgument marks a bad parameter: a target condition number
	// below 1, an unknown direction, an impossible fold count.
	ErrInvalidArgument = errors.New("condreg: invalid argument")

	// ErrEigenFailed is returned when the symmetric eigendecomposition does
	// not converge.
	ErrEigenFailed = errors.New("condreg: eigen decomposition failed")

	// ErrSingular is returned when a linear solve meets a singular matrix.
	ErrSingular = errors.New("condreg: singular matrix")

	// ErrNoConvergence guards the path sweeps; finite input never triggers it.
	ErrNoConvergence = errors.New("condreg: path sweep did not terminate")
)
