package shrinkage

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/notargets/condreg/spectrum"
	"github.com/notargets/condreg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratio(L []float64) float64 {
	return slices.Max(L) / slices.Min(L)
}

func TestSolveHarmonic(t *testing.T) {
	var (
		L = harmonicSpectrum(10)
	)
	for _, dir := range []types.Direction{types.Forward, types.Backward} {
		res, err := Solve(L, []float64{2, 10}, dir)
		require.NoError(t, err)
		require.Len(t, res, 2)
		{
			r := res[0]
			assert.False(t, r.Degenerate)
			assert.Equal(t, 2., r.Target)
			assert.InDelta(t, 2., ratio(r.Clamped), 1.e-9)
			assert.InDelta(t, 0.02507819164060279, r.U, 1.e-12)
			assert.InDelta(t, 1./r.U, r.Clamped[0], 1.e-9)
		}
		{ // k equals the spectrum condition number
			r := res[1]
			assert.True(t, r.Degenerate)
			assert.Equal(t, L, r.Clamped)
			assert.Equal(t, 1./L[0], r.U)
			assert.InDelta(t, 10., ratio(r.Clamped), 1.e-12)
		}
	}
	{ // k = 1 collapses the spectrum onto its mean
		res, err := Solve(L, []float64{1}, types.Forward)
		require.NoError(t, err)
		mean := spectrum.MustPrepare(L).Mean()
		for _, l := range res[0].Clamped {
			assert.InDelta(t, mean, l, 1.e-12*mean)
		}
	}
}

func TestSolveAgreement(t *testing.T) {
	var (
		rng     = rand.New(rand.NewPCG(3, 1))
		targets = []float64{1, 1.5, 3, 10, 100, 1.e4}
	)
	for trial := 0; trial < 300; trial++ {
		L := randomSpectrum(rng, 1+rng.IntN(40), trial%2 == 0)
		fwd, err := Solve(L, targets, types.Forward)
		require.NoError(t, err)
		bwd, err := Solve(L, targets, types.Backward)
		require.NoError(t, err)
		for i, k := range targets {
			f, b := fwd[i], bwd[i]
			assert.InDelta(t, f.U, b.U, 1.e-6*f.U)
			assert.Equal(t, f.Degenerate, b.Degenerate)
			if !f.Degenerate {
				assert.InDelta(t, k, ratio(f.Clamped), 1.e-9*k)
			}
			// Shrinking an already shrunk spectrum changes nothing
			again, err := Solve(f.Clamped, []float64{k}, types.Forward)
			require.NoError(t, err)
			assert.InDeltaSlice(t, f.Clamped, again[0].Clamped, 1.e-9*slices.Max(f.Clamped))
		}
	}
}

func TestSolveDegenerateBoundary(t *testing.T) {
	var (
		L    = []float64{9, 7, 4, 2, 1.5}
		s    = spectrum.MustPrepare(L)
		cond = s.Condition()
	)
	for _, dir := range []types.Direction{types.Forward, types.Backward} {
		path, err := NewPath(L, dir)
		require.NoError(t, err)
		res, err := SolvePath(path, s, []float64{cond})
		require.NoError(t, err)
		require.True(t, res[0].Degenerate)
		u := path.UAt(cond)
		assert.InDelta(t, res[0].U, u, 1.e-12)
		assert.InDeltaSlice(t, res[0].Clamped, Clamp(s.Values, cond, u), 1.e-12)
	}
	{ // Rank deficient spectra measure the condition against the last usable entry
		res, err := Solve([]float64{10, 5, 2, 1e-20}, []float64{5, 50}, types.Backward)
		require.NoError(t, err)
		assert.True(t, res[0].Degenerate)
		assert.Equal(t, 0.1, res[0].U)
		assert.Equal(t, spectrum.Epsilon, res[0].Clamped[3])
		assert.True(t, res[1].Degenerate)
		assert.Equal(t, 0.1, res[1].U)
	}
}

func TestSolveArguments(t *testing.T) {
	var (
		L = []float64{4, 2, 1}
	)
	{
		res, err := Solve(L, nil, types.Forward)
		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	}
	{ // No targets does not excuse a bad spectrum
		_, err := Solve(nil, nil, types.Forward)
		assert.True(t, errors.Is(err, types.ErrInvalidInput))
		_, err = Solve([]float64{}, []float64{}, types.Backward)
		assert.True(t, errors.Is(err, types.ErrInvalidInput))
		_, err = Solve([]float64{1, math.NaN()}, nil, types.Forward)
		assert.True(t, errors.Is(err, types.ErrInvalidInput))
	}
	for _, k := range []float64{0.5, 0, -2, math.NaN(), math.Inf(-1)} {
		_, err := Solve(L, []float64{2, k}, types.Forward)
		assert.True(t, errors.Is(err, types.ErrInvalidArgument), "target %v", k)
	}
	{
		res, err := Solve(L, []float64{math.Inf(1)}, types.Backward)
		require.NoError(t, err)
		assert.True(t, res[0].Degenerate)
		assert.Equal(t, 0.25, res[0].U)
	}
	{
		_, err := Solve(L, []float64{2}, types.Direction(9))
		assert.True(t, errors.Is(err, types.ErrInvalidArgument))
		_, err = Solve([]float64{}, []float64{2}, types.Forward)
		assert.True(t, errors.Is(err, types.ErrInvalidInput))
		_, err = SolvePath(Path{}, spectrum.Spectrum{}, []float64{2})
		assert.True(t, errors.Is(err, types.ErrInvalidInput))
	}
}

func TestClamp(t *testing.T) {
	var (
		L = []float64{10, 4, 2, 1}
	)
	// Ceiling 1/u = 5, floor 1/(k*u) = 2.5
	got := Clamp(L, 2, 0.2)
	assert.InDeltaSlice(t, []float64{5, 4, 2.5, 2.5}, got, 1.e-15)
	assert.Equal(t, []float64{10, 4, 2, 1}, L)
}
