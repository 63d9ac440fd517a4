// Package countctl implements the gradual split/merge count controller
// (§4.5): during playback, sites are added or removed at an
// exponential rate until the population reaches a target count.
package countctl

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/nilsmagnus/voroscope/internal/prng"
)

// Strategy selects which site a split grows from.
type Strategy int

const (
	// StrategyMax splits the largest cell that hasn't split this
	// frame yet (default).
	StrategyMax Strategy = iota
	// StrategyFar splits the current owner of the farthest point. The
	// child starts at that owner's position, not at the farthest
	// point itself.
	StrategyFar
	// StrategyRandom splits a uniformly chosen site.
	StrategyRandom
)

// Sites is the minimal surface countctl needs from a site collection.
// voronoi.SiteCollection satisfies this structurally; countctl never
// imports voronoi, keeping it a leaf package.
type Sites interface {
	Len() int
	Position(i int) (x, y float64)
	Append(x, y, vx, vy float64) int
	SetVelocity(i int, vx, vy float64)
	Remove(i int)
}

// Accumulator holds the fractional split/merge carry-over between
// calls to Adjust, as described in §4.5 ("the controller maintains a
// fractional accumulator").
type Accumulator struct {
	frac float64
}

// Reset clears the accumulator. The Engine calls it when it resets
// history and when a count request needs no transition; a new target
// set during an in-progress transition keeps the current carry-over.
func (a *Accumulator) Reset() {
	a.frac = 0
}

// Result reports what Adjust did, so the caller (Engine) knows to
// invalidate any cached per-site data after a merge shifts indices.
type Result struct {
	Splits, Merges int
	// SplitParents/SplitChildren record (parent, child) index pairs
	// for splits that happened this call, in order.
	SplitParents, SplitChildren []int
	// MergedIndices lists indices removed this call, in the order
	// they were removed (each removal shifts later indices down by
	// one, already accounted for by the time the next is chosen).
	MergedIndices []int
}

// Adjust grows or shrinks sites toward target at the rate implied by
// doublingTime (ρ = ln2/τ per site per second). A doublingTime of 0
// performs the whole N→target transition in a single batched call,
// bypassing the fractional accumulator (§4.5).
//
// cellArea must have one entry per current site (nil is treated as
// "no area information", which only affects StrategyMax — it falls
// back to StrategyRandom when areas are unavailable). farthestOwner is
// the site index that owns the farthest point, used by StrategyFar.
func Adjust(sites Sites, cellArea []int64, farthestOwner int, target int, doublingTime, dt float64, strategy Strategy, acc *Accumulator, src *prng.Source) Result {
	var res Result

	if doublingTime <= 0 {
		for sites.Len() < target {
			p, c := split(sites, cellArea, farthestOwner, strategy, map[int]bool{}, src)
			res.Splits++
			res.SplitParents = append(res.SplitParents, p)
			res.SplitChildren = append(res.SplitChildren, c)
		}
		for sites.Len() > target && sites.Len() > 0 {
			i := chooseMerge(sites, src)
			sites.Remove(i)
			res.Merges++
			res.MergedIndices = append(res.MergedIndices, i)
		}
		return res
	}

	n := sites.Len()
	if n == target {
		return res
	}

	rho := math.Ln2 / doublingTime
	acc.frac += float64(n) * rho * dt

	splitThisFrame := map[int]bool{}
	for acc.frac >= 1 && sites.Len() != target {
		acc.frac -= 1
		if sites.Len() < target {
			p, c := split(sites, cellArea, farthestOwner, strategy, splitThisFrame, src)
			splitThisFrame[p] = true
			res.Splits++
			res.SplitParents = append(res.SplitParents, p)
			res.SplitChildren = append(res.SplitChildren, c)
		} else {
			i := chooseMerge(sites, src)
			sites.Remove(i)
			res.Merges++
			res.MergedIndices = append(res.MergedIndices, i)
		}
	}
	return res
}

// split picks a source site per strategy and appends a child at the
// same position with an opposing random unit velocity.
func split(sites Sites, cellArea []int64, farthestOwner int, strategy Strategy, alreadySplit map[int]bool, src *prng.Source) (parent, child int) {
	n := sites.Len()
	switch strategy {
	case StrategyFar:
		if farthestOwner >= 0 && farthestOwner < n {
			parent = farthestOwner
		} else {
			parent = int(src.Float64() * float64(n))
		}
	case StrategyRandom:
		parent = int(src.Float64() * float64(n))
	default: // StrategyMax
		parent = maxAreaUnsplit(cellArea, alreadySplit, n, src)
	}
	if parent >= n {
		parent = n - 1
	}

	px, py := sites.Position(parent)
	angle := src.Float64() * 2 * math.Pi
	ux, uy := math.Cos(angle), math.Sin(angle)

	child = sites.Append(px, py, ux, uy)
	sites.SetVelocity(parent, -ux, -uy)
	return parent, child
}

// maxAreaUnsplit returns the index of the largest cell that hasn't
// been split this frame, falling back to a uniform random site if
// every site has split already or no area data is available.
func maxAreaUnsplit(cellArea []int64, alreadySplit map[int]bool, n int, src *prng.Source) int {
	if len(cellArea) != n {
		return int(src.Float64() * float64(n))
	}

	best := -1
	var bestArea int64 = -1
	for i := 0; i < n; i++ {
		if alreadySplit[i] {
			continue
		}
		if cellArea[i] > bestArea {
			bestArea = cellArea[i]
			best = i
		}
	}
	if best < 0 {
		return int(src.Float64() * float64(n))
	}
	return best
}

// mergeSampleCap bounds the candidate scan when N is large (§4.5).
const mergeSampleCap = 100

// chooseMerge returns the index of the site whose nearest neighbor is
// closest (densest-packed), sampling candidates when N exceeds
// mergeSampleCap. Each candidate's nearest-neighbor scan is independent
// of the others, so they run concurrently (§5: "merge candidate
// scanning... must join before returning").
func chooseMerge(sites Sites, src *prng.Source) int {
	n := sites.Len()
	candidates := make([]int, n)
	for i := range candidates {
		candidates[i] = i
	}
	if n > mergeSampleCap {
		shuffled := make([]int, n)
		copy(shuffled, candidates)
		for i := n - 1; i > 0; i-- {
			j := int(src.Float64() * float64(i+1))
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		}
		candidates = shuffled[:mergeSampleCap]
	}

	nearestDist2 := make([]float64, len(candidates))
	var g errgroup.Group
	for idx, c := range candidates {
		idx, c := idx, c
		g.Go(func() error {
			cx, cy := sites.Position(c)
			nearest := math.Inf(1)
			for j := 0; j < n; j++ {
				if j == c {
					continue
				}
				jx, jy := sites.Position(j)
				d := (jx-cx)*(jx-cx) + (jy-cy)*(jy-cy)
				if d < nearest {
					nearest = d
				}
			}
			nearestDist2[idx] = nearest
			return nil
		})
	}
	g.Wait() // candidate scans never return an error; Wait only joins them

	best := candidates[0]
	bestDist2 := nearestDist2[0]
	for i, c := range candidates {
		if nearestDist2[i] < bestDist2 {
			bestDist2 = nearestDist2[i]
			best = c
		}
	}
	return best
}
