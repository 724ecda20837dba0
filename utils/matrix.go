package utils

import (
	"gonum.org/v1/gonum/mat"
)

func NewVecConst(N int, val float64) (V *mat.VecDense) {
	V = mat.NewVecDense(N, ConstArray(N, val))
	return
}

// DiagSandwich returns Q * diag(d) * Qᵀ as a symmetric matrix.
func DiagSandwich(Q mat.Matrix, d []float64) (S *mat.SymDense) {
	var (
		nr, nc = Q.Dims()
		QD     = mat.NewDense(nr, nc, nil)
	)
	if len(d) != nc {
		panic("DiagSandwich: diagonal length does not match column count")
	}
	// Scale column j of Q by d[j], then multiply by Qᵀ
	QD.Apply(func(i, j int, v float64) float64 { return v * d[j] }, Q)
	R := mat.NewDense(nr, nr, nil)
	R.Mul(QD, Q.T())
	S = mat.NewSymDense(nr, nil)
	for i := 0; i < nr; i++ {
		for j := i; j < nr; j++ {
			S.SetSym(i, j, 0.5*(R.At(i, j)+R.At(j, i)))
		}
	}
	return
}

// MatSubRow gathers the listed rows of M into a new matrix.
func MatSubRow(M mat.Matrix, rows []int) (R *mat.Dense) {
	var (
		nr, nc = M.Dims()
	)
	R = mat.NewDense(len(rows), nc, nil)
	for i, ri := range rows {
		if ri > nr-1 || ri < 0 {
			panic("unable to subset row from matrix, index out of bounds")
		}
		for j := 0; j < nc; j++ {
			R.Set(i, j, M.At(ri, j))
		}
	}
	return
}
