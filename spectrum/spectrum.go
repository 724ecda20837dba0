// Package spectrum prepares a descending eigenvalue sequence for the
// shrinkage solvers: near-zero entries are floored to machine epsilon and the
// effective rank is recorded.
package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/condreg/types"
	"github.com/notargets/condreg/utils"
)

// Epsilon is the float64 machine epsilon, 2^-52.
const Epsilon = 0x1p-52

// Spectrum is an epsilon-floored eigenvalue sequence, sorted descending by
// the caller. Entries at index >= Rank were below Epsilon on input and are
// treated as rank-deficient directions.
type Spectrum struct {
	Values []float64
	Rank   int
}

func Prepare(L []float64) (s Spectrum, err error) {
	var (
		p = len(L)
	)
	if p < 1 {
		err = fmt.Errorf("empty spectrum: %w", types.ErrInvalidInput)
		return
	}
	if !utils.IsFinite(L) {
		err = fmt.Errorf("spectrum contains NaN or Inf: %w", types.ErrInvalidInput)
		return
	}
	s.Values = make([]float64, p)
	for i, val := range L {
		if val < Epsilon {
			s.Values[i] = Epsilon
			continue
		}
		s.Values[i] = val
		s.Rank++
	}
	return
}

// MustPrepare is Prepare for literals known to be valid.
func MustPrepare(L []float64) Spectrum {
	s, err := Prepare(L)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Spectrum) Len() int { return len(s.Values) }

func (s Spectrum) Mean() float64 {
	return floats.Sum(s.Values) / float64(len(s.Values))
}

// Condition is the sample condition number L[0]/L[r-1] over the non-zero
// part of the spectrum.
func (s Spectrum) Condition() float64 {
	if s.Rank == 0 {
		return 1
	}
	return s.Values[0] / s.Values[s.Rank-1]
}

func (s Spectrum) Copy() (L []float64) {
	L = make([]float64, len(s.Values))
	copy(L, s.Values)
	return
}
