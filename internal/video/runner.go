package video

import (
	"fmt"
	"math"

	"github.com/nilsmagnus/voroscope/internal/countctl"
	"github.com/nilsmagnus/voroscope/internal/voronoi"
)

// PhysicsParams bundles the per-frame physics tunables that stay fixed
// across a Runner's phases (§6: "Per-frame parameter tuple").
type PhysicsParams struct {
	Speed, Theta, Sigma, Pull float64
}

// FrameFunc is called once per rendered frame. Returning an error
// aborts the run.
type FrameFunc func(frameIndex, phaseIndex int, kind Kind, res *voronoi.Result) error

// Runner drives an Engine through a phase sequence at a fixed frame
// rate (§6 "Video-renderer host contract"). The Engine must already
// have an image and sites set before Run is called.
type Runner struct {
	engine   *voronoi.Engine
	fps      float64
	physics  PhysicsParams
	strategy countctl.Strategy
}

// NewRunner returns a Runner driving engine at fps frames/second.
func NewRunner(engine *voronoi.Engine, fps float64, physics PhysicsParams, strategy countctl.Strategy) *Runner {
	return &Runner{engine: engine, fps: fps, physics: physics, strategy: strategy}
}

// Run executes every phase in order, calling onFrame after each
// rendered frame's compute. It returns the total frame count.
func (r *Runner) Run(phases []Phase, onFrame FrameFunc) (int, error) {
	if r.fps <= 0 {
		return 0, fmt.Errorf("video: fps must be positive, got %v", r.fps)
	}
	dt := 1 / r.fps
	frame := 0

	for pi, ph := range phases {
		if err := ph.Validate(); err != nil {
			return frame, err
		}

		switch ph.Kind() {
		case KindGrow:
			n, err := r.startGrow(ph)
			if err != nil {
				return frame, err
			}
			_ = n
		case KindHold, KindFade:
			// no new count target; a transition an earlier grow phase
			// left unfinished keeps advancing inside Engine.Step
		}

		duration := ph.T
		if ph.Kind() == KindGrow {
			duration = ph.Dt
		} else if ph.Kind() == KindFade {
			duration = ph.Fade
		}
		steps := int(math.Round(duration / dt))

		for s := 0; s < steps; s++ {
			if err := r.engine.Step(r.physics.Speed, dt, r.physics.Pull, r.physics.Theta, r.physics.Sigma); err != nil {
				return frame, err
			}
			res, err := r.engine.Compute()
			if err != nil {
				return frame, err
			}
			if onFrame != nil {
				if err := onFrame(frame, pi, ph.Kind(), res); err != nil {
					return frame, err
				}
			}
			frame++
		}
	}

	return frame, nil
}

// startGrow computes τ = Δt_total / log2(N_target / N_current) (§6)
// and requests the count transition; a grow phase where N already
// equals the target is a pure hold for its duration.
func (r *Runner) startGrow(ph Phase) (float64, error) {
	current := r.engine.N()
	if current == 0 {
		return 0, fmt.Errorf("video: grow phase requires an engine with sites already set")
	}
	if current == ph.N {
		return 0, nil
	}

	ratio := float64(ph.N) / float64(current)
	tau := math.Abs(ph.Dt / math.Log2(ratio))
	if err := r.engine.AdjustCount(ph.N, tau, r.strategy); err != nil {
		return 0, err
	}
	return tau, nil
}
