// Package portfolio holds the minimum variance portfolio helpers used with
// regularized covariance estimates.
package portfolio

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/condreg/types"
	"github.com/notargets/condreg/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// sumTolerance is the weight sum below which normalisation gives up and
// falls back to equal weights.
const sumTolerance = 1.e-10

// KGrid returns numpts condition number candidates running from gridmax
// down to 1, spaced like 1/x so they crowd near 1.
func KGrid(gridmax float64, numpts int) (ks []float64, err error) {
	if numpts < 2 || !(gridmax > 1) || math.IsInf(gridmax, 1) {
		err = fmt.Errorf("kgrid(%v, %d): %w", gridmax, numpts, types.ErrInvalidArgument)
		return
	}
	ks = utils.Linspace(1, gridmax, numpts)
	for i, x := range ks {
		ks[i] = 1. / x
	}
	var (
		lo = ks[numpts-1]
		hi = ks[0] - lo
	)
	for i, y := range ks {
		ks[i] = (y-lo)/hi*(gridmax-1) + 1
	}
	return
}

// Weights returns the global minimum variance weights sigma⁻¹1 / 1ᵀsigma⁻¹1.
func Weights(sigma mat.Symmetric) (w []float64, err error) {
	var (
		p    = sigma.SymmetricDim()
		ones = utils.NewVecConst(p, 1)
		x    = mat.NewVecDense(p, nil)
		chol mat.Cholesky
	)
	if !utils.IsFinite(sigma) {
		err = fmt.Errorf("portfolio weights: non finite covariance: %w", types.ErrInvalidInput)
		return
	}
	if chol.Factorize(sigma) {
		err = chol.SolveVecTo(x, ones)
	} else {
		var lu mat.LU
		lu.Factorize(sigma)
		err = lu.SolveVecTo(x, false, ones)
	}
	if err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) || errors.Is(err, mat.ErrSingular) {
			return nil, fmt.Errorf("portfolio weights: %v: %w", err, types.ErrSingular)
		}
		return
	}
	w = x.RawVector().Data
	sum := floats.Sum(w)
	if math.Abs(sum) < sumTolerance || !utils.IsFinite(w) {
		return utils.ConstArray(p, 1./float64(p)), nil
	}
	floats.Scale(1./sum, w)
	return
}

// TransactionCost is the cost of rebalancing from the drifted old weights,
// lastEarnings*wold renormalised, to wnew.
func TransactionCost(wnew, wold []float64, lastEarnings, relTC, wealth float64) (cost float64, err error) {
	if len(wnew) != len(wold) {
		err = fmt.Errorf("transaction cost: %d new weights, %d old: %w",
			len(wnew), len(wold), types.ErrInvalidArgument)
		return
	}
	var (
		drift = make([]float64, len(wold))
	)
	floats.ScaleTo(drift, lastEarnings, wold)
	if sum := floats.Sum(drift); sum != 0 {
		floats.Scale(1./sum, drift)
	}
	// L1 distance between the portfolios
	cost = wealth * relTC * floats.Distance(wnew, drift, 1)
	return
}
