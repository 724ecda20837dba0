package shrinkage

import (
	"fmt"
	"math"
	"slices"

	"github.com/notargets/condreg/spectrum"
	"github.com/notargets/condreg/types"
)

// PathBackward traces the same path as PathForward starting from the
// k = infinity asymptote, where only the eigenvalue ceiling is active, and
// sweeping inward until the line meets the diagonal u = v.
func PathBackward(L []float64) (path Path, err error) {
	var (
		s spectrum.Spectrum
	)
	if s, err = spectrum.Prepare(L); err != nil {
		return
	}
	return backwardPath(s)
}

// newBackwardSweep places the sweep at the terminal corner of the
// half-infinite segment. The head grows until u = (alpha+1+p-r)/slopeNum
// falls between 1/L[alpha] and 1/L[alpha+1].
func newBackwardSweep(s spectrum.Spectrum) (sw *sweep) {
	var (
		L = s.Values
		p = len(L)
		r = s.Rank
	)
	sw = &sweep{
		L:        L,
		p:        p,
		r:        r,
		slopeNum: L[0],
	}
	headU := func() float64 { return float64(sw.alpha+1+p-r) / sw.slopeNum }
	sw.u = headU()
	for sw.alpha < p-1 && (sw.u < 1./L[sw.alpha] || sw.u > 1./L[sw.alpha+1]) {
		sw.alpha++
		sw.slopeNum += L[sw.alpha]
		sw.u = headU()
	}
	sw.beta = r - 1
	sw.slopeDenom = L[sw.beta]
	sw.v = 1. / L[sw.beta]
	return
}

// backwardStep either lands on the diagonal (done) or moves (u, v) down to
// the floor v = 1/L[beta-1] or right to the wall u = 1/L[alpha+1], pulling
// the entry behind every wall it touches into the active sets.
func (sw *sweep) backwardStep() (vt Vertex, done bool) {
	var (
		L       = sw.L
		hBottom = 0.          // no floor once the tail reaches index 0
		vRight  = math.Inf(1) // no wall once the head covers the spectrum
		uNew    float64
		vNew    float64
	)
	if sw.beta > 0 {
		hBottom = 1. / L[sw.beta-1]
	}
	if sw.alpha < sw.p-1 {
		vRight = 1. / L[sw.alpha+1]
	}
	diag := (sw.slopeNum*sw.u + sw.slopeDenom*sw.v) / (sw.slopeNum + sw.slopeDenom)
	if diag <= vRight && diag >= hBottom {
		sw.u, sw.v = diag, diag
		return Vertex{U: diag, V: diag, K: 1}, true
	}
	if sw.beta > 0 {
		vNew = hBottom
		uNew = sw.u - sw.slopeDenom*(vNew-sw.v)/sw.slopeNum
	}
	if sw.beta == 0 || uNew > vRight {
		uNew = vRight
		vNew = sw.v - sw.slopeNum*(uNew-sw.u)/sw.slopeDenom
	}
	// Cursor first, then the sum: the entry joins the set it moves into
	if sw.alpha < sw.p-1 && touches(uNew, vRight) {
		sw.alpha++
		sw.slopeNum += L[sw.alpha]
	}
	if sw.beta > 0 && touches(vNew, hBottom) {
		sw.beta--
		sw.slopeDenom += L[sw.beta]
	}
	sw.u, sw.v = uNew, vNew
	return sw.vertex(), false
}

func backwardPath(s spectrum.Spectrum) (path Path, err error) {
	var (
		inf = math.Inf(1)
	)
	if s.Rank == 0 {
		u := 1. / s.Mean()
		path = Path{vertices: []Vertex{{U: u, V: u, K: 1}, {U: u, V: inf, K: inf}}}
		return
	}
	var (
		sw = newBackwardSweep(s)
		// Built from k = infinity inward, reversed at the end
		rev = make([]Vertex, 0, s.Len()+3)
	)
	rev = append(rev, Vertex{U: sw.u, V: inf, K: inf})
	if sw.v < sw.u {
		// Rank-deficient spectrum whose whole path is the vertical segment
		rev = append(rev, Vertex{U: sw.u, V: sw.u, K: 1})
		path = Path{vertices: reversed(rev)}
		return
	}
	rev = append(rev, sw.vertex())
	for steps := 0; ; steps++ {
		if steps > sw.maxSteps() {
			err = fmt.Errorf("backward sweep after %d steps: %w", steps, types.ErrNoConvergence)
			return
		}
		vt, done := sw.backwardStep()
		rev = append(rev, vt)
		if done {
			break
		}
	}
	path = Path{vertices: reversed(rev)}
	return
}

func reversed(verts []Vertex) []Vertex {
	slices.Reverse(verts)
	return verts
}
