package shrinkage

import (
	"fmt"
	"math"

	"github.com/notargets/condreg/spectrum"
	"github.com/notargets/condreg/types"
)

// ClampResult is the maximum likelihood shrinkage of one spectrum at one
// target condition number.
type ClampResult struct {
	Target     float64
	Clamped    []float64
	U          float64
	Degenerate bool // Target is at or above the spectrum condition number
}

// Solve computes the shrunk spectrum of L for each target condition number,
// tracing the path in direction dir at most once.
func Solve(L, targets []float64, dir types.Direction) (results []ClampResult, err error) {
	var (
		s spectrum.Spectrum
	)
	if !dir.Valid() {
		err = fmt.Errorf("solve direction %s: %w", dir, types.ErrInvalidArgument)
		return
	}
	if err = checkTargets(targets); err != nil {
		return
	}
	if s, err = spectrum.Prepare(L); err != nil {
		return
	}
	var (
		path  Path
		built bool
	)
	results = make([]ClampResult, len(targets))
	for i, k := range targets {
		if k >= s.Condition() {
			results[i] = degenerate(s, k)
			continue
		}
		if !built {
			if path, err = buildPath(s, dir); err != nil {
				return nil, err
			}
			built = true
		}
		results[i] = clampAt(path, s, k)
	}
	return
}

// SolvePath answers targets against a path already traced for s.
func SolvePath(path Path, s spectrum.Spectrum, targets []float64) (results []ClampResult, err error) {
	if err = checkTargets(targets); err != nil {
		return
	}
	if s.Len() == 0 || path.Len() == 0 {
		err = fmt.Errorf("solve on empty path: %w", types.ErrInvalidInput)
		return
	}
	results = make([]ClampResult, len(targets))
	for i, k := range targets {
		if k >= s.Condition() {
			results[i] = degenerate(s, k)
			continue
		}
		results[i] = clampAt(path, s, k)
	}
	return
}

// Clamp maps the spectrum values onto 1/min(k*u, max(u, 1/l)).
func Clamp(values []float64, k, u float64) (clamped []float64) {
	var (
		v = k * u
	)
	clamped = make([]float64, len(values))
	for j, l := range values {
		clamped[j] = 1. / math.Min(v, math.Max(u, 1./l))
	}
	return
}

func checkTargets(targets []float64) error {
	for i, k := range targets {
		if math.IsNaN(k) || k < 1 {
			return fmt.Errorf("target %d = %v: %w", i, k, types.ErrInvalidArgument)
		}
	}
	return nil
}

func degenerate(s spectrum.Spectrum, k float64) ClampResult {
	var (
		L    = s.Values
		last = max(s.Rank-1, 0)
	)
	return ClampResult{
		Target:     k,
		Clamped:    s.Copy(),
		U:          math.Max(1./L[0], 1./(k*L[last])),
		Degenerate: true,
	}
}

func clampAt(path Path, s spectrum.Spectrum, k float64) ClampResult {
	u := path.UAt(k)
	return ClampResult{
		Target:  k,
		Clamped: Clamp(s.Values, k, u),
		U:       u,
	}
}
