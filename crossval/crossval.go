// Package crossval selects the condition number bound of the regularized
// covariance estimate by K-fold cross-validation of the Gaussian
// log-likelihood.
package crossval

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/notargets/condreg/covariance"
	"github.com/notargets/condreg/types"
	"github.com/notargets/condreg/utils"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const DefaultMaxFolds = 10

type Options struct {
	Folds     int    // 0 selects min(n, DefaultMaxFolds)
	Shuffle   bool   // permute rows before splitting
	Seed      uint64 // permutation seed when Shuffle is set
	Parallel  int    // concurrent folds, 0 selects runtime.NumCPU()
	Direction types.Direction
	Logger    *slog.Logger
}

type Selection struct {
	Kmax     float64
	Index    int        // position in ks of the likelihood minimum
	NegLogL  []float64  // negative log-likelihood per k, summed over folds
	FoldNegL *mat.Dense // folds x len(ks)
	Condmax  float64    // largest training condition number seen
	Folds    int
	FoldSize []int // held-out rows per fold
}

type foldResult struct {
	negL []float64
	cond float64
}

// SelectKmax cross-validates every candidate bound in ks on the rows of X
// and returns the one with the smallest held-out negative log-likelihood,
// capped at the largest condition number any training fold exhibited.
func SelectKmax(ctx context.Context, X mat.Matrix, ks []float64, opts Options) (sel Selection, err error) {
	var (
		n, p  = X.Dims()
		g     = len(ks)
		log   = opts.Logger
		folds = opts.Folds
	)
	if log == nil {
		log = slog.Default()
	}
	if g == 0 {
		err = fmt.Errorf("select kmax without candidates: %w", types.ErrInvalidArgument)
		return
	}
	if n < 1 || p < 1 {
		err = fmt.Errorf("select kmax on %dx%d data: %w", n, p, types.ErrInvalidInput)
		return
	}
	if !utils.IsFinite(X) {
		err = fmt.Errorf("select kmax on non finite data: %w", types.ErrInvalidInput)
		return
	}
	if folds == 0 {
		folds = min(n, DefaultMaxFolds)
	}
	if folds < 2 || folds > n {
		err = fmt.Errorf("%d folds for %d rows: %w", folds, n, types.ErrInvalidArgument)
		return
	}
	var (
		pm      = utils.NewPartitionMap(folds, n)
		order   []int
		results = make([]foldResult, folds)
	)
	if opts.Shuffle {
		order = rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)).Perm(n)
	}
	grp, gctx := errgroup.WithContext(ctx)
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	grp.SetLimit(parallel)
	for f := 0; f < folds; f++ {
		if gctx.Err() != nil {
			break
		}
		grp.Go(func() (err error) {
			if err = gctx.Err(); err != nil {
				return
			}
			results[f], err = runFold(X, pm, f, order, ks, opts.Direction, log)
			return
		})
	}
	if err = grp.Wait(); err != nil {
		return
	}
	if err = ctx.Err(); err != nil {
		return
	}
	sel = Selection{
		NegLogL:  make([]float64, g),
		FoldNegL: mat.NewDense(folds, g, nil),
		Condmax:  1,
		Folds:    folds,
		FoldSize: make([]int, folds),
	}
	for f, res := range results {
		sel.FoldSize[f] = pm.GetBucketDimension(f)
		sel.FoldNegL.SetRow(f, res.negL)
		floats.Add(sel.NegLogL, res.negL)
		sel.Condmax = math.Max(sel.Condmax, res.cond)
	}
	sel.Index = medianArgMin(sel.NegLogL)
	sel.Kmax = math.Min(ks[sel.Index], sel.Condmax)
	log.Debug("kmax selected", "kmax", sel.Kmax, "index", sel.Index, "condmax", sel.Condmax)
	return
}

func runFold(X mat.Matrix, pm *utils.PartitionMap, f int, order []int, ks []float64,
	dir types.Direction, log *slog.Logger) (res foldResult, err error) {
	var (
		train  = pm.Complement(f, order)
		test   = pm.Members(f, order)
		nTest  = pm.GetBucketDimension(f)
		nTrain = pm.MaxIndex - nTest
		S      *mat.SymDense
		br     covariance.BulkResult
	)
	if S, err = covariance.SecondMoment(utils.MatSubRow(X, train)); err != nil {
		return
	}
	if br, err = covariance.Bulk(S, ks, dir); err != nil {
		return res, fmt.Errorf("fold %d: %w", f, err)
	}
	var (
		p     = len(br.L)
		Y     mat.Dense
		colSq = make([]float64, p)
	)
	Y.Mul(utils.MatSubRow(X, test), br.Q)
	for i := 0; i < nTest; i++ {
		for j := 0; j < p; j++ {
			y := Y.At(i, j)
			colSq[j] += y * y
		}
	}
	res.negL = make([]float64, len(ks))
	for i := range ks {
		var (
			lbar = br.Lbar.RawRowView(i)
			quad float64
			logd float64
		)
		for j, l := range lbar {
			quad += colSq[j] / l
			logd += math.Log(l)
		}
		res.negL[i] = logd + quad/float64(nTest)
	}
	if utils.IsNan(res.negL) {
		return res, fmt.Errorf("fold %d: likelihood is NaN: %w", f, types.ErrInvalidInput)
	}
	res.cond = br.L[0] / br.L[min(nTrain, p)-1]
	log.Debug("fold done", "fold", f, "n_train", nTrain, "n_test", nTest, "cond", res.cond)
	return
}

// medianArgMin returns the median position among the minima of v, rounding
// down between the two middle positions.
func medianArgMin(v []float64) int {
	var (
		lo  = floats.Min(v)
		idx []int
	)
	for i, x := range v {
		if x == lo {
			idx = append(idx, i)
		}
	}
	m := len(idx)
	if m == 0 {
		return 0
	}
	if m%2 == 1 {
		return idx[m/2]
	}
	return (idx[m/2-1] + idx[m/2]) / 2
}

// SelectCondreg picks kmax by cross-validation and regularizes the sample
// covariance of X with it.
func SelectCondreg(ctx context.Context, X mat.Matrix, ks []float64, opts Options) (res covariance.Result, sel Selection, err error) {
	if sel, err = SelectKmax(ctx, X, ks, opts); err != nil {
		return
	}
	res, err = covariance.RegularizeData(X, sel.Kmax, opts.Direction)
	return
}
