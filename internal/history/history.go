// Package history implements the bounded, bidirectional frame history
// used for scrubbing (§4.6). It stores site-position snapshots only —
// never full compute results — and exposes a cursor that can trail the
// head so step-back/step-forward can replay or advance physics.
package history

// Frame is one stored snapshot: the positions of every site at that
// point in time.
type Frame struct {
	Xs, Ys []float64
}

// Ring is a bounded FIFO of Frames with a cursor into the stored
// range. Appending past capacity trims from the front (§3:
// max_frames = max(50, floor(2MiB / (20*N)))).
type Ring struct {
	frames   []Frame
	capacity int
	cursor   int // index into frames of the "current" frame
}

// MaxFrames computes the default capacity for n sites, sized so the
// ring holds roughly 2 MiB of position data.
func MaxFrames(n int) int {
	if n <= 0 {
		return 50
	}
	f := (2 * 1024 * 1024) / (20 * n)
	if f < 50 {
		return 50
	}
	return f
}

// New returns an empty ring with the given capacity (see MaxFrames).
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{capacity: capacity}
}

// Reset clears the ring and reseeds it with a single frame at the
// given positions — called whenever site count, image, or seed change
// (§4.6: "Mutating operations... clear the ring and reseed at the
// current positions").
func (r *Ring) Reset(xs, ys []float64) {
	r.frames = []Frame{snapshot(xs, ys)}
	r.cursor = 0
}

// AtHead reports whether the cursor is on the most recently appended
// frame.
func (r *Ring) AtHead() bool {
	return r.cursor == len(r.frames)-1
}

// Len returns the number of stored frames.
func (r *Ring) Len() int {
	return len(r.frames)
}

// Cursor returns the current cursor position.
func (r *Ring) Cursor() int {
	return r.cursor
}

// Current returns the frame the cursor currently points at.
func (r *Ring) Current() Frame {
	return r.frames[r.cursor]
}

// Append adds a new frame past the head and advances the cursor to it,
// trimming from the front if capacity is exceeded. Only valid when
// AtHead() is true — the Engine calls this after running physics,
// which only happens at the head (§4.6: "Step-forward at head:
// advance physics").
func (r *Ring) Append(xs, ys []float64) {
	r.frames = append(r.frames, snapshot(xs, ys))
	if len(r.frames) > r.capacity {
		r.frames = r.frames[1:]
	}
	r.cursor = len(r.frames) - 1
}

// StepBack decrements the cursor, if possible, and returns the frame
// now under it. ok is false if already at the oldest stored frame.
func (r *Ring) StepBack() (f Frame, ok bool) {
	if r.cursor == 0 {
		return Frame{}, false
	}
	r.cursor--
	return r.frames[r.cursor], true
}

// StepForwardBehindHead increments the cursor without running physics
// and returns the frame now under it, for when the cursor trails the
// head (§4.6: "Step-forward behind head: increment cursor without
// running physics"). ok is false if already at the head — the caller
// should run physics and Append instead.
func (r *Ring) StepForwardBehindHead() (f Frame, ok bool) {
	if r.AtHead() {
		return Frame{}, false
	}
	r.cursor++
	return r.frames[r.cursor], true
}

func snapshot(xs, ys []float64) Frame {
	return Frame{
		Xs: append([]float64(nil), xs...),
		Ys: append([]float64(nil), ys...),
	}
}
