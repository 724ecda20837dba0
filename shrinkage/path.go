// Package shrinkage computes the condition-number constrained maximum
// likelihood shrinkage of a covariance spectrum.
//
// For a descending spectrum L the optimal inverse eigenvalues under the
// constraint cond <= k are min(v, max(u, 1/L[j])) with v = k*u. As k sweeps
// from 1 to infinity the optimal bound pair (u, v) traces a piecewise linear
// path; on each segment the active partition of the spectrum is fixed and
// (u, v) moves along the line
//
//	slopeNum*u + slopeDenom*v = const
//
// where slopeNum sums the head entries pinned to u and slopeDenom sums the
// tail entries pinned to v. PathForward traces the path from the diagonal
// (k = 1) outward, PathBackward from the k = infinity asymptote inward, and
// Solve interpolates either path at requested condition numbers.
package shrinkage

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/condreg/spectrum"
	"github.com/notargets/condreg/types"
)

// Tolerance is the absolute distance within which a sweep vertex counts as
// touching a rectangle wall.
const Tolerance = spectrum.Epsilon

// Vertex is one corner of the shrinkage path. U is the lower bound on the
// inverse eigenvalues (1/U caps the eigenvalues), V the upper bound (1/V
// floors them), K = V/U.
type Vertex struct {
	U, V, K float64
}

// Path is the ascending-in-K sequence of vertices, from the diagonal vertex
// K == 1 to the half-infinite segment K == +Inf. A Path is never modified
// after construction and may be shared between goroutines.
type Path struct {
	vertices []Vertex
}

func NewPath(L []float64, dir types.Direction) (path Path, err error) {
	var (
		s spectrum.Spectrum
	)
	if !dir.Valid() {
		err = fmt.Errorf("path direction %s: %w", dir, types.ErrInvalidArgument)
		return
	}
	if s, err = spectrum.Prepare(L); err != nil {
		return
	}
	return buildPath(s, dir)
}

func buildPath(s spectrum.Spectrum, dir types.Direction) (Path, error) {
	if dir == types.Backward {
		return backwardPath(s)
	}
	return forwardPath(s)
}

func (p Path) Len() int { return len(p.vertices) }

func (p Path) At(i int) Vertex { return p.vertices[i] }

func (p Path) Vertices() (verts []Vertex) {
	verts = make([]Vertex, len(p.vertices))
	copy(verts, p.vertices)
	return
}

func (p Path) Ks() []float64 { return p.column(func(vt Vertex) float64 { return vt.K }) }
func (p Path) Us() []float64 { return p.column(func(vt Vertex) float64 { return vt.U }) }
func (p Path) Vs() []float64 { return p.column(func(vt Vertex) float64 { return vt.V }) }

func (p Path) column(f func(Vertex) float64) (c []float64) {
	c = make([]float64, len(p.vertices))
	for i, vt := range p.vertices {
		c[i] = f(vt)
	}
	return
}

// Search returns the smallest index whose K is >= k, or Len() if none is.
func (p Path) Search(k float64) int {
	return sort.Search(len(p.vertices), func(i int) bool {
		return p.vertices[i].K >= k
	})
}

// UAt resolves the lower inverse bound at condition number k. Along a
// segment 1/U is linear in K, so interpolating the reciprocal is exact.
func (p Path) UAt(k float64) float64 {
	var (
		idx = p.Search(k)
	)
	switch {
	case idx == 0:
		return p.vertices[0].U
	case idx >= len(p.vertices) || math.IsInf(p.vertices[idx].K, 1):
		return p.vertices[idx-1].U
	}
	var (
		v0, v1 = p.vertices[idx-1], p.vertices[idx]
		t      = (k - v0.K) / (v1.K - v0.K)
	)
	return 1. / ((1-t)/v0.U + t/v1.U)
}

// sweep is the state of a two-pointer rectangle sweep. The head [0, alpha]
// of the spectrum is pinned to u, the tail [beta, r) to v, and the entries in
// between are left at their own inverse.
type sweep struct {
	L                    []float64
	p, r                 int
	alpha, beta          int
	slopeNum, slopeDenom float64
	u, v                 float64
}

func (sw *sweep) vertex() Vertex {
	return Vertex{U: sw.u, V: sw.v, K: sw.v / sw.u}
}

// maxSteps bounds a sweep: each step moves alpha or beta, and neither can
// move more than p times.
func (sw *sweep) maxSteps() int { return 2*sw.p + 1 }

func touches(a, b float64) bool { return math.Abs(a-b) < Tolerance }
