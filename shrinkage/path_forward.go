package shrinkage

import (
	"fmt"
	"math"

	"github.com/notargets/condreg/spectrum"
	"github.com/notargets/condreg/types"
)

// PathForward traces the shrinkage path from the unconstrained diagonal
// point u = v = 1/mean(L) out to k = infinity. L must be sorted descending.
func PathForward(L []float64) (path Path, err error) {
	var (
		s spectrum.Spectrum
	)
	if s, err = spectrum.Prepare(L); err != nil {
		return
	}
	return forwardPath(s)
}

func newForwardSweep(s spectrum.Spectrum) (sw *sweep) {
	var (
		L = s.Values
	)
	sw = &sweep{
		L:     L,
		p:     len(L),
		r:     s.Rank,
		alpha: -1,
	}
	sw.u = 1. / s.Mean()
	sw.v = sw.u
	// Entries whose inverse is already below the diagonal point start pinned to u
	for sw.alpha+1 < sw.r && 1./L[sw.alpha+1] < sw.u {
		sw.alpha++
	}
	sw.beta = sw.alpha + 1
	for i := 0; i <= sw.alpha; i++ {
		sw.slopeNum += L[i]
	}
	for i := sw.beta; i < sw.r; i++ {
		sw.slopeDenom += L[i]
	}
	return
}

func (sw *sweep) forwardActive() bool {
	return sw.alpha >= 0 && sw.beta <= sw.r-1
}

// forwardStep moves (u, v) along the current line until it meets either
// the top wall v = 1/L[beta] or the left wall u = 1/L[alpha], releasing the
// entry behind every wall it touches.
func (sw *sweep) forwardStep() Vertex {
	var (
		L     = sw.L
		hTop  = 1. / L[sw.beta]
		vLeft = 1. / L[sw.alpha]
		vNew  = hTop
		uNew  = sw.u - sw.slopeDenom*(vNew-sw.v)/sw.slopeNum
	)
	if uNew < vLeft {
		uNew = vLeft
		vNew = sw.v - sw.slopeNum*(uNew-sw.u)/sw.slopeDenom
	}
	// Sums first, then the cursor: the sum must drop the entry the cursor
	// is leaving behind
	if touches(uNew, vLeft) {
		sw.slopeNum -= L[sw.alpha]
		sw.alpha--
	}
	if touches(vNew, hTop) {
		sw.slopeDenom -= L[sw.beta]
		sw.beta++
	}
	sw.u, sw.v = uNew, vNew
	return sw.vertex()
}

func forwardPath(s spectrum.Spectrum) (path Path, err error) {
	var (
		sw    = newForwardSweep(s)
		verts = make([]Vertex, 0, s.Len()+2)
		steps int
	)
	verts = append(verts, Vertex{U: sw.u, V: sw.v, K: 1})
	for sw.forwardActive() {
		if steps++; steps > sw.maxSteps() {
			err = fmt.Errorf("forward sweep after %d steps: %w", steps, types.ErrNoConvergence)
			return
		}
		verts = append(verts, sw.forwardStep())
	}
	last := verts[len(verts)-1]
	verts = append(verts, Vertex{U: last.U, V: math.Inf(1), K: math.Inf(1)})
	path = Path{vertices: verts}
	return
}
