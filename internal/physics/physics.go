// Package physics advances site positions and velocities under an
// Ornstein-Uhlenbeck-steered random walk with optional Lloyd-style
// centroid pull and reflective walls (§4.4). It operates on the
// parallel xs/ys/vxs/vys slices directly rather than a richer site
// type, matching the struct-of-arrays layout the spec calls for (§9).
package physics

import (
	"math"

	"github.com/nilsmagnus/voroscope/internal/prng"
	"gonum.org/v1/gonum/stat/distuv"
)

// Params bundles one step's tunables. Theta is the O-U drift
// coefficient, Sigma the wander coefficient, Pull the centroid-pull
// strength; all are expected non-negative (the Engine rejects
// negative values as InvalidConfig before calling Step).
type Params struct {
	Speed float64 // pixels/second
	Dt    float64 // seconds
	Pull  float64
	Theta float64
	Sigma float64
}

// Step advances every site in place by one Δt. centroidX/centroidY are
// the *previous* frame's per-cell centroids (§5: "Centroid-pull uses
// the previous frame's centroids... this one-frame lag is
// intentional"); pass nil slices (or a nil-length match) to disable
// pull for a frame, e.g. the very first one before any compute has
// run.
func Step(xs, ys, vxs, vys []float64, w, h int, p Params, centroidX, centroidY []float64, src *prng.Source) {
	n := len(xs)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	havePull := p.Pull > 0 && len(centroidX) == n && len(centroidY) == n

	for i := 0; i < n; i++ {
		vx, vy := vxs[i], vys[i]

		targetX, targetY := vx, vy
		if havePull {
			dx := centroidX[i] - xs[i]
			dy := centroidY[i] - ys[i]
			if d := math.Hypot(dx, dy); d > 1e-12 {
				targetX = (1-p.Pull)*vx + p.Pull*(dx/d)
				targetY = (1-p.Pull)*vy + p.Pull*(dy/d)
			}
		}

		// perpendicular unit vector, for the Gaussian wander term
		nx, ny := -vy, vx
		if l := math.Hypot(nx, ny); l > 1e-12 {
			nx, ny = nx/l, ny/l
		} else {
			nx, ny = 1, 0
		}

		wander := normal.Rand() * p.Sigma * math.Sqrt(p.Dt)
		vx += p.Theta*(targetX-vx)*p.Dt + wander*nx
		vy += p.Theta*(targetY-vy)*p.Dt + wander*ny

		if l := math.Hypot(vx, vy); l > 1e-12 {
			vx, vy = vx/l, vy/l
		} else {
			vx, vy = 1, 0
		}
		vxs[i], vys[i] = vx, vy

		x := xs[i] + vx*p.Speed*p.Dt
		y := ys[i] + vy*p.Speed*p.Dt

		x, vx = reflect(x, vx, float64(w))
		y, vy = reflect(y, vy, float64(h))

		xs[i], ys[i] = x, y
		vxs[i], vys[i] = vx, vy
	}
}

// reflect mirrors v back into [0, limit) and flips the velocity
// component whenever the raw value would have left that range (§4.4,
// invariant 11): a site at 0 moving at -1 overshoots to -d and
// reflects to +d, not to 0.
func reflect(v, vel, limit float64) (float64, float64) {
	if v < 0 {
		v, vel = -v, -vel
	} else if v >= limit {
		v, vel = 2*limit-v, -vel
	}
	// A single reflection can still land outside the range for a
	// large enough overshoot; clamp as a last resort rather than
	// bounce repeatedly.
	if v < 0 {
		v = 0
	} else if v >= limit {
		v = math.Nextafter(limit, 0)
	}
	return v, vel
}
