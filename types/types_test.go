package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection(t *testing.T) {
	{ // Names, case and white space insensitive
		for label, want := range map[string]Direction{
			"forward":    Forward,
			"Forward":    Forward,
			" FWD ":      Forward,
			"":           Forward,
			"backward":   Backward,
			"BACKWARD\n": Backward,
			"bwd":        Backward,
		} {
			dir, err := NewDirection(label)
			assert.NoError(t, err, label)
			assert.Equal(t, want, dir, label)
		}
	}
	{
		_, err := NewDirection("sideways")
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	}
	{
		assert.Equal(t, "forward", Forward.String())
		assert.Equal(t, "backward", fmt.Sprint(Backward))
		assert.False(t, Direction(2).Valid())
		assert.Equal(t, "Direction(2)", Direction(2).String())
	}
}

func TestErrors(t *testing.T) {
	wrapped := fmt.Errorf("fold 3: %w", ErrNoConvergence)
	assert.True(t, errors.Is(wrapped, ErrNoConvergence))
	assert.False(t, errors.Is(wrapped, ErrSingular))
	for _, err := range []error{ErrInvalidInput, ErrInvalidArgument, ErrEigenFailed, ErrSingular, ErrNoConvergence} {
		assert.Contains(t, err.Error(), "condreg: ")
	}
}
