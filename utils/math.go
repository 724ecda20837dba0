package utils

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// Linspace returns N evenly spaced points from a to b inclusive.
func Linspace(a, b float64, N int) (v []float64) {
	v = make([]float64, N)
	if N == 1 {
		v[0] = a
		return
	}
	step := (b - a) / float64(N-1)
	for i := range v {
		v[i] = a + float64(i)*step
	}
	v[N-1] = b
	return
}

func Reciprocal(d []float64) (r []float64) {
	r = make([]float64, len(d))
	for i, val := range d {
		r[i] = 1. / val
	}
	return
}
