package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notargets/condreg/crossval"
	"github.com/notargets/condreg/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	c := &cobra.Command{Use: "test"}
	addInputFlags(c)
	addSelectFlags(c)
	c.Flags().StringP("targets", "t", "", "")
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestProcessInput(t *testing.T) {
	{ // Flags only
		ip, err := processInput(newTestCmd(t, "-e", "10, 5 2", "-t", "2,4", "--folds", "3"))
		require.NoError(t, err)
		assert.Equal(t, []float64{10, 5, 2}, ip.Eigenvalues)
		assert.Equal(t, []float64{2, 4}, ip.Targets)
		assert.Equal(t, 3, ip.Folds)
		assert.Equal(t, "forward", ip.Direction)
		assert.Equal(t, types.Forward, direction(ip))
	}
	{ // Run file, overridden by flags
		dir := t.TempDir()
		fname := filepath.Join(dir, "run.yaml")
		require.NoError(t, os.WriteFile(fname, []byte(`
Title: Test Case
Eigenvalues: [4, 2, 1]
Targets: [2, 3]
Direction: BWD # either name works
Folds: 4
Shuffle: true
Seed: 99
GridMax: 20
GridPoints: 10
`), 0o644))
		ip, err := processInput(newTestCmd(t, "-I", fname, "--folds", "5"))
		require.NoError(t, err)
		assert.Equal(t, "Test Case", ip.Title)
		assert.Equal(t, []float64{4, 2, 1}, ip.Eigenvalues)
		assert.Equal(t, []float64{2, 3}, ip.Targets)
		assert.Equal(t, "backward", ip.Direction)
		assert.Equal(t, 5, ip.Folds)
		assert.True(t, ip.Shuffle)
		assert.Equal(t, uint64(99), ip.Seed)
		ip.Print()
		ks, err := candidates(ip)
		require.NoError(t, err)
		assert.Len(t, ks, 10)
		assert.InDelta(t, 20., ks[0], 1.e-12)
	}
	{
		_, err := processInput(newTestCmd(t))
		assert.True(t, errors.Is(err, types.ErrInvalidArgument))
		_, err = processInput(newTestCmd(t, "-e", "1,2"))
		assert.True(t, errors.Is(err, types.ErrInvalidArgument))
		_, err = processInput(newTestCmd(t, "-e", "2,1", "-t", "0.5"))
		assert.True(t, errors.Is(err, types.ErrInvalidArgument))
		_, err = processInput(newTestCmd(t, "-e", "2,1", "--folds", "1"))
		assert.True(t, errors.Is(err, types.ErrInvalidArgument))
		_, err = processInput(newTestCmd(t, "-I", filepath.Join(t.TempDir(), "none.yaml")))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	}
}

func TestRunPath(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunPath(&buf, []float64{2, 1}, types.Backward))
	out := buf.String()
	assert.Contains(t, out, "backward path, 3 vertices")
	assert.Contains(t, out, "+Inf")
	assert.Equal(t, 5, strings.Count(out, "\n"))
	assert.Error(t, RunPath(&buf, nil, types.Forward))
}

func TestRunSolve(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunSolve(&buf, []float64{4, 2, 1}, []float64{2, 4}, types.Forward))
	out := buf.String()
	assert.Contains(t, out, "k = 2")
	assert.Contains(t, out, "(unconstrained)")
	err := RunSolve(&buf, []float64{4, 2, 1}, nil, types.Forward)
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))
}

func TestRunRegularize(t *testing.T) {
	var (
		buf bytes.Buffer
		X   = mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 0})
	)
	require.NoError(t, RunRegularize(&buf, X, 2, types.Forward))
	assert.Contains(t, buf.String(), "eigenvalues = [5 2.5]")
}

func TestRunSelectAndPortfolio(t *testing.T) {
	var (
		X = mat.NewDense(8, 2, []float64{
			1, 0.5,
			-1, 0.2,
			0.5, -0.7,
			2, 1,
			-0.3, -0.1,
			0.8, 0.4,
			-1.5, -0.6,
			0.1, 0.9,
		})
		ks   = []float64{1, 2, 4, 8}
		opts = crossval.Options{Folds: 4, Parallel: 2}
		buf  bytes.Buffer
	)
	require.NoError(t, RunSelect(context.Background(), &buf, X, ks, opts))
	assert.Contains(t, buf.String(), "kmax = ")
	assert.Equal(t, 1, strings.Count(buf.String(), " *"))
	buf.Reset()
	require.NoError(t, RunPortfolio(context.Background(), &buf, X, ks, opts, 0.01, 100))
	assert.Contains(t, buf.String(), "rebalancing cost = ")
	assert.NotContains(t, buf.String(), "unavailable")
	{ // Singular sample moment: regularized weights are still reported
		var (
			Xs = mat.NewDense(8, 3, nil)
			wb bytes.Buffer
		)
		Xs.Copy(X)
		require.NoError(t, RunPortfolio(context.Background(), &wb, Xs, ks, opts, 0.01, 100))
		out := wb.String()
		assert.Contains(t, out, "sample weights unavailable")
		assert.Contains(t, out, "rebalancing cost = -")
		assert.Equal(t, 3, strings.Count(out, "              -"))
	}
}

type countingStopper struct{ stops int }

func (cs *countingStopper) Stop() { cs.stops++ }

func TestExecuteStopsProfile(t *testing.T) {
	defer rootCmd.SetArgs(nil)
	{ // Failed run still flushes the profile
		cs := &countingStopper{}
		stopper = cs
		rootCmd.SetArgs([]string{"path", "--spectrumFile", filepath.Join(t.TempDir(), "missing.txt")})
		err := execute()
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Equal(t, 1, cs.stops)
		assert.Nil(t, stopper)
	}
	{ // Stop is called once
		cs := &countingStopper{}
		stopper = cs
		stopProfile()
		stopProfile()
		assert.Equal(t, 1, cs.stops)
	}
}
