package utils

import (
	"fmt"
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case mat.Matrix:
		nr, nc := v.Dims()
		for i := 0; i < nr; i++ {
			for j := 0; j < nc; j++ {
				if math.IsNaN(v.At(i, j)) {
					return true
				}
			}
		}
	}
	return false
}

// IsFinite reports whether every value in A is neither NaN nor ±Inf.
func IsFinite(A any) bool {
	finite := func(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
	switch v := A.(type) {
	case float64:
		return finite(v)
	case []float64:
		for _, f := range v {
			if !finite(f) {
				return false
			}
		}
	case mat.Matrix:
		nr, nc := v.Dims()
		for i := 0; i < nr; i++ {
			for j := 0; j < nc; j++ {
				if !finite(v.At(i, j)) {
					return false
				}
			}
		}
	}
	return true
}
