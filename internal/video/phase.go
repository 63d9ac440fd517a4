// Package video implements the offline video-renderer host contract
// (§6): a sequence of grow/hold/fade phases drives the Engine through
// site-count transitions and physics-only evolution, emitting frames a
// host-side encoder consumes. Blending and encoding are the caller's
// concern; this package only produces Voronoi frames and tracks phase
// progress.
package video

import "fmt"

// Phase is the canonical phase spec from §6: `phase = {n, dt, t,
// fade}`. At most one of (N, Dt) / T / Fade is populated, selecting
// which kind of phase this is.
type Phase struct {
	// Grow phase: reach N sites over Dt total seconds.
	N  int
	Dt float64

	// Hold phase: T seconds of physics-only evolution at current N.
	T float64

	// Fade phase: over Fade seconds, the host blends Voronoi output
	// toward the source image (or vice versa); the core only supplies
	// frames, so Fade here is purely a duration for frame-count
	// bookkeeping.
	Fade float64
}

// Kind identifies which field of Phase is populated.
type Kind int

const (
	KindGrow Kind = iota
	KindHold
	KindFade
)

// Kind reports which phase variant p represents.
func (p Phase) Kind() Kind {
	switch {
	case p.N > 0:
		return KindGrow
	case p.Fade > 0:
		return KindFade
	default:
		return KindHold
	}
}

// Validate rejects phases that don't make sense — more than one
// populated duration field, or a grow phase with no time budget.
func (p Phase) Validate() error {
	set := 0
	if p.N > 0 || p.Dt > 0 {
		set++
	}
	if p.T > 0 {
		set++
	}
	if p.Fade > 0 {
		set++
	}
	if set > 1 {
		return fmt.Errorf("video: phase has more than one of n/dt, t, fade populated: %+v", p)
	}
	if p.N > 0 && p.Dt <= 0 {
		return fmt.Errorf("video: grow phase requires dt > 0: %+v", p)
	}
	return nil
}
