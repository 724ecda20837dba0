// Package covariance builds condition-number regularized covariance
// estimates from sample data or from an existing covariance matrix.
package covariance

import (
	"fmt"

	"github.com/notargets/condreg/shrinkage"
	"github.com/notargets/condreg/spectrum"
	"github.com/notargets/condreg/types"
	"github.com/notargets/condreg/utils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Decomposition holds the eigenpairs of a symmetric matrix, eigenvalues
// descending, eigenvectors in the matching columns of Q.
type Decomposition struct {
	Q *mat.Dense
	L []float64
}

type Result struct {
	S, InvS *mat.SymDense
	Lbar    []float64 // shrunk eigenvalues, in the order of Decomposition.L
	U       float64
	Kmax    float64
}

// SampleCovariance returns the column-centred sample covariance of X, one
// observation per row, normalised by n-1.
func SampleCovariance(X mat.Matrix) (S *mat.SymDense, err error) {
	var (
		n, p = X.Dims()
	)
	if n < 2 || p < 1 {
		err = fmt.Errorf("sample covariance of %dx%d data: %w", n, p, types.ErrInvalidInput)
		return
	}
	if !utils.IsFinite(X) {
		err = fmt.Errorf("sample covariance: non finite data: %w", types.ErrInvalidInput)
		return
	}
	S = mat.NewSymDense(p, nil)
	stat.CovarianceMatrix(S, X, nil)
	return
}

func Decompose(S mat.Symmetric) (d Decomposition, err error) {
	var (
		p   = S.SymmetricDim()
		eig mat.EigenSym
		V   mat.Dense
	)
	if p == 0 {
		err = fmt.Errorf("decompose empty matrix: %w", types.ErrInvalidInput)
		return
	}
	if ok := eig.Factorize(S, true); !ok {
		err = fmt.Errorf("decompose %dx%d: %w", p, p, types.ErrEigenFailed)
		return
	}
	// EigenSym orders ascending
	vals := eig.Values(nil)
	eig.VectorsTo(&V)
	d = Decomposition{
		Q: mat.NewDense(p, p, nil),
		L: make([]float64, p),
	}
	for j := 0; j < p; j++ {
		src := p - 1 - j
		d.L[j] = vals[src]
		for i := 0; i < p; i++ {
			d.Q.Set(i, j, V.At(i, src))
		}
	}
	return
}

func (d Decomposition) Dim() int { return len(d.L) }

// Reconstruct returns Q * diag(values) * Qᵀ.
func (d Decomposition) Reconstruct(values []float64) *mat.SymDense {
	return utils.DiagSandwich(d.Q, values)
}

// Regularize shrinks the spectrum of d to condition number at most kmax and
// rebuilds the estimate and its inverse.
func Regularize(d Decomposition, kmax float64, dir types.Direction) (res Result, err error) {
	var (
		sol []shrinkage.ClampResult
	)
	if sol, err = shrinkage.Solve(d.L, []float64{kmax}, dir); err != nil {
		return
	}
	res = newResult(d, sol[0])
	return
}

func newResult(d Decomposition, sol shrinkage.ClampResult) Result {
	return Result{
		S:    d.Reconstruct(sol.Clamped),
		InvS: d.Reconstruct(utils.Reciprocal(sol.Clamped)),
		Lbar: sol.Clamped,
		U:    sol.U,
		Kmax: sol.Target,
	}
}

// RegularizeData runs the sample covariance, eigendecomposition and
// shrinkage on data X in one call.
func RegularizeData(X mat.Matrix, kmax float64, dir types.Direction) (res Result, err error) {
	var (
		S *mat.SymDense
		d Decomposition
	)
	if S, err = SampleCovariance(X); err != nil {
		return
	}
	if d, err = Decompose(S); err != nil {
		return
	}
	return Regularize(d, kmax, dir)
}

// BulkResult holds the shrunk spectra of one matrix at many condition
// numbers. Row i of Lbar is the spectrum for Ks[i].
type BulkResult struct {
	Q    *mat.Dense
	L    []float64
	Ks   []float64
	Lbar *mat.Dense
	U    []float64
}

// Bulk decomposes S once and traces its path once, then shrinks the
// spectrum at every k in ks.
func Bulk(S mat.Symmetric, ks []float64, dir types.Direction) (br BulkResult, err error) {
	var (
		d Decomposition
	)
	if d, err = Decompose(S); err != nil {
		return
	}
	return BulkDecomposition(d, ks, dir)
}

func BulkDecomposition(d Decomposition, ks []float64, dir types.Direction) (br BulkResult, err error) {
	var (
		s    spectrum.Spectrum
		path shrinkage.Path
		sol  []shrinkage.ClampResult
	)
	if len(ks) == 0 {
		err = fmt.Errorf("bulk shrinkage without targets: %w", types.ErrInvalidArgument)
		return
	}
	if s, err = spectrum.Prepare(d.L); err != nil {
		return
	}
	if path, err = shrinkage.NewPath(d.L, dir); err != nil {
		return
	}
	if sol, err = shrinkage.SolvePath(path, s, ks); err != nil {
		return
	}
	br = BulkResult{
		Q:    d.Q,
		L:    s.Values,
		Ks:   append([]float64(nil), ks...),
		Lbar: mat.NewDense(len(ks), d.Dim(), nil),
		U:    make([]float64, len(ks)),
	}
	for i, r := range sol {
		br.Lbar.SetRow(i, r.Clamped)
		br.U[i] = r.U
	}
	return
}

// SecondMoment returns XᵀX/n without centring, the maximum likelihood
// covariance of zero-mean rows.
func SecondMoment(X mat.Matrix) (S *mat.SymDense, err error) {
	var (
		n, p = X.Dims()
	)
	if n < 1 || p < 1 {
		err = fmt.Errorf("second moment of %dx%d data: %w", n, p, types.ErrInvalidInput)
		return
	}
	S = mat.NewSymDense(p, nil)
	S.SymOuterK(1./float64(n), X.T())
	return
}
