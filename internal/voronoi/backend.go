package voronoi

// Backend computes one Voronoi frame from raw pixel data and site
// positions (§4.3). It is intentionally narrow — pix/w/h/xs/ys are
// plain slices rather than *Image/*SiteCollection — so the compute
// package's CPU and GPU implementations depend on voronoi only for
// Result; they satisfy this interface structurally, and voronoi never
// imports compute. Adding a third backend (§9 "Dynamic dispatch") never
// requires a change here.
type Backend interface {
	// Compute fills out in place, resizing it to the current w, h, and
	// site count as needed; out's backing arrays are reused across
	// calls rather than reallocated (§5 "memory discipline").
	Compute(pix []uint8, w, h int, xs, ys []float64, out *Result) error
}
