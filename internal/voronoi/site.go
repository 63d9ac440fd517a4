package voronoi

// SiteCollection is an ordered, struct-of-arrays set of sites. Storing
// parallel slices instead of a []Site keeps the physics and compute
// hot paths cache-friendly (§9, "Deep arrays of object records").
//
// Insertion and deletion happen only through Append and Remove. Append
// leaves every existing index in place; Remove shifts every later
// index down by one.
type SiteCollection struct {
	Xs, Ys   []float64 // position, clamped to [0,W) x [0,H)
	Vxs, Vys []float64 // unit-length velocity direction
}

// NewSiteCollection returns an empty collection with capacity n
// pre-reserved, so the common case of filling it via Append does not
// reallocate.
func NewSiteCollection(capacity int) *SiteCollection {
	return &SiteCollection{
		Xs:  make([]float64, 0, capacity),
		Ys:  make([]float64, 0, capacity),
		Vxs: make([]float64, 0, capacity),
		Vys: make([]float64, 0, capacity),
	}
}

// Len returns the current site count N.
func (sc *SiteCollection) Len() int {
	return len(sc.Xs)
}

// Position returns the coordinates of site i.
func (sc *SiteCollection) Position(i int) (x, y float64) {
	return sc.Xs[i], sc.Ys[i]
}

// SetVelocity overwrites the velocity of site i, used by countctl when
// a split gives the parent and child opposing unit directions.
func (sc *SiteCollection) SetVelocity(i int, vx, vy float64) {
	sc.Vxs[i] = vx
	sc.Vys[i] = vy
}

// Append adds a new site at the end, returning its index.
func (sc *SiteCollection) Append(x, y, vx, vy float64) int {
	sc.Xs = append(sc.Xs, x)
	sc.Ys = append(sc.Ys, y)
	sc.Vxs = append(sc.Vxs, vx)
	sc.Vys = append(sc.Vys, vy)
	return len(sc.Xs) - 1
}

// Remove deletes the site at index i; every subsequent index shifts
// down by one (§4.5). Callers holding onto cached per-site data keyed
// by index must invalidate it after calling Remove.
func (sc *SiteCollection) Remove(i int) {
	sc.Xs = append(sc.Xs[:i], sc.Xs[i+1:]...)
	sc.Ys = append(sc.Ys[:i], sc.Ys[i+1:]...)
	sc.Vxs = append(sc.Vxs[:i], sc.Vxs[i+1:]...)
	sc.Vys = append(sc.Vys[:i], sc.Vys[i+1:]...)
}

// Clamp pins every site position into [0, W) x [0, H), used after
// set_image so out-of-bounds sites from a smaller previous image don't
// crash the next compute (they're clamped silently, per §7).
func (sc *SiteCollection) Clamp(w, h int) {
	maxX, maxY := float64(w)-1e-9, float64(h)-1e-9
	for i := range sc.Xs {
		sc.Xs[i] = clampf(sc.Xs[i], 0, maxX)
		sc.Ys[i] = clampf(sc.Ys[i], 0, maxY)
	}
}

// Snapshot returns a deep copy of the positions only, the unit stored
// by history.Ring (§4.6 — "site-position snapshots only").
func (sc *SiteCollection) Snapshot() (xs, ys []float64) {
	xs = append([]float64(nil), sc.Xs...)
	ys = append([]float64(nil), sc.Ys...)
	return xs, ys
}

// Restore overwrites positions from a snapshot taken earlier. N must
// match; callers are expected to have kept count changes out of the
// history ring's mutation window (§4.6: count changes clear the ring).
func (sc *SiteCollection) Restore(xs, ys []float64) {
	copy(sc.Xs, xs)
	copy(sc.Ys, ys)
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
