package voronoi

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/nilsmagnus/voroscope/internal/countctl"
	"github.com/nilsmagnus/voroscope/internal/history"
	"github.com/nilsmagnus/voroscope/internal/physics"
	"github.com/nilsmagnus/voroscope/internal/prng"
	"github.com/nilsmagnus/voroscope/internal/sampler"
)

// NMax is the default upper bound on site count (§3).
const NMax = 20000

// Engine owns every other component and coordinates one frame in the
// fixed order physics -> count-adjust -> compute -> history append
// (§4.7, §5 "Ordering"). It is single-threaded with respect to
// external callers: one call at a time, run to completion.
type Engine struct {
	img   *Image
	sites *SiteCollection
	rng   *prng.Source
	seed  uint32

	backend        Backend
	gpuUnavailable bool

	result    *Result
	haveFrame bool

	hist *history.Ring
	acc  countctl.Accumulator

	pendingTarget       int
	pendingDoublingTime float64
	pendingStrategy     countctl.Strategy
	pendingActive       bool

	log *zap.Logger
}

// NewEngine returns an Engine with no image and no sites yet; callers
// must call SetImage before SetSitesFromSampler/SetSites/Compute.
func NewEngine(backend Backend, log *zap.Logger) *Engine {
	return &Engine{
		backend: backend,
		log:     log,
	}
}

// SetBackend swaps the active compute backend, e.g. after a GPU
// initialization failure has been reported upstream (§4.3.2, §7
// BackendUnavailable — fallback happens once, by the host calling this
// with a CPU backend for the rest of the session).
func (e *Engine) SetBackend(b Backend) {
	e.backend = b
}

// maxPixels bounds W*H so per-pixel buffers (bestDist2, CellOf, the
// GPU readback) stay within a sane allocation; beyond it SetImage
// reports ResourceExhausted rather than attempting the allocation
// (§7: "allocation failure for buffers sized W·H·4 ... ResourceExhausted").
const maxPixels = 64 << 20 // 64 Mpixel, 256MiB at 4 bytes/pixel

// SetImage installs a new source image. Site positions are preserved
// but clamped silently into the new bounds right away, and the history
// ring is reseeded at the clamped positions (§4.6, §4.7, §7).
func (e *Engine) SetImage(rgba []uint8, w, h int) error {
	if err := combineConfigErrors(validateDims(w, h), validateBufLen(rgba, w, h)); err != nil {
		return err
	}
	if w*h > maxPixels {
		return resourceExhausted("set_image: %dx%d (%d pixels) exceeds the %d pixel limit", w, h, w*h, maxPixels)
	}
	e.img = &Image{W: w, H: h, Pix: rgba}
	if e.sites != nil {
		e.sites.Clamp(w, h)
		e.hist.Reset(e.sites.Snapshot())
	}
	e.haveFrame = false
	if e.log != nil {
		e.log.Debug("set_image", zap.Int("w", w), zap.Int("h", h))
	}
	return nil
}

// SetSitesFromSampler re-runs brightness-weighted sampling (§4.2) and
// resets velocities to random unit directions, clearing history.
func (e *Engine) SetSitesFromSampler(n int, inverseBias bool, seed uint32) error {
	if e.img == nil {
		return invalidConfig("set_sites_from_sampler: no image set")
	}
	if n <= 0 || n > NMax {
		return invalidConfig("set_sites_from_sampler: n=%d out of range [1,%d]", n, NMax)
	}
	if n > e.img.W*e.img.H {
		return invalidConfig("set_sites_from_sampler: n=%d exceeds %d pixels", n, e.img.W*e.img.H)
	}

	xs, ys, err := sampler.Sample(e.img.Pix, e.img.W, e.img.H, n, inverseBias, seed)
	if err != nil {
		return invalidConfig("set_sites_from_sampler: %v", err)
	}

	e.seed = seed
	e.rng = prng.New(prng.SubSeed(seed, 1))
	e.sites = NewSiteCollection(n)
	velSrc := prng.New(prng.SubSeed(seed, 2))
	for i := range xs {
		vx, vy := randomUnitVector(velSrc)
		e.sites.Append(xs[i], ys[i], vx, vy)
	}

	e.resetHistory()
	e.haveFrame = false
	return nil
}

// SetSites adopts given positions, assigning random unit velocities
// seeded by seed, and clears history.
func (e *Engine) SetSites(positions [][2]float64, seed uint32) error {
	if len(positions) == 0 || len(positions) > NMax {
		return invalidConfig("set_sites: n=%d out of range [1,%d]", len(positions), NMax)
	}

	e.seed = seed
	e.rng = prng.New(prng.SubSeed(seed, 1))
	e.sites = NewSiteCollection(len(positions))
	velSrc := prng.New(prng.SubSeed(seed, 2))
	for _, p := range positions {
		vx, vy := randomUnitVector(velSrc)
		e.sites.Append(p[0], p[1], vx, vy)
	}
	if e.img != nil {
		e.sites.Clamp(e.img.W, e.img.H)
	}

	e.resetHistory()
	e.haveFrame = false
	return nil
}

func (e *Engine) resetHistory() {
	e.hist = history.New(history.MaxFrames(e.sites.Len()))
	e.hist.Reset(e.sites.Snapshot())
	e.acc.Reset()
	e.pendingActive = false
}

// Step advances physics by one Δt and, if a count change is pending
// (set via AdjustCount), applies one slice of it, then appends the new
// positions to history — or, when a split or merge changed the site
// count, clears the history and reseeds it at them (§4.4, §4.5, §4.6,
// §5 ordering).
func (e *Engine) Step(speed, dt, pull, theta, sigma float64) error {
	if e.sites == nil || e.img == nil {
		return invalidConfig("step: engine has no sites or image")
	}
	if dt < 0 || speed < 0 || pull < 0 || theta < 0 || sigma < 0 {
		return invalidConfig("step: negative parameter (dt=%v speed=%v pull=%v theta=%v sigma=%v)", dt, speed, pull, theta, sigma)
	}

	var centroidX, centroidY []float64
	if e.haveFrame && e.result != nil {
		centroidX, centroidY = e.result.CellCentroidX, e.result.CellCentroidY
	}

	params := physics.Params{Speed: speed, Dt: dt, Pull: pull, Theta: theta, Sigma: sigma}
	physics.Step(e.sites.Xs, e.sites.Ys, e.sites.Vxs, e.sites.Vys, e.img.W, e.img.H, params, centroidX, centroidY, e.rng)
	e.sites.Clamp(e.img.W, e.img.H)

	countChanged := false
	if e.pendingActive {
		var cellArea []int64
		farthest := -1
		if e.haveFrame && e.result != nil {
			cellArea = e.result.CellArea
			if len(e.result.CellOf) > 0 {
				farthest = int(e.result.CellOf[e.result.FarthestY*e.img.W+e.result.FarthestX])
			}
		}
		res := countctl.Adjust(e.sites, cellArea, farthest, e.pendingTarget, e.pendingDoublingTime, dt, e.pendingStrategy, &e.acc, e.rng)
		if res.Splits > 0 || res.Merges > 0 {
			e.haveFrame = false
			countChanged = true
		}
		if e.sites.Len() == e.pendingTarget {
			e.pendingActive = false
		}
	}

	if countChanged {
		e.hist.Reset(e.sites.Snapshot())
	} else {
		e.hist.Append(e.sites.Snapshot())
	}
	return nil
}

// Compute runs the active backend against the current sites and image
// (§4.3), returning a borrowed view valid until the next mutating call.
func (e *Engine) Compute() (*Result, error) {
	if e.img == nil {
		return nil, invalidConfig("compute: no image set")
	}
	if e.sites == nil || e.sites.Len() == 0 {
		return nil, invalidConfig("compute: no sites set")
	}

	if e.result == nil {
		e.result = NewResult(e.img.W, e.img.H, e.sites.Len())
	}
	if err := e.backend.Compute(e.img.Pix, e.img.W, e.img.H, e.sites.Xs, e.sites.Ys, e.result); err != nil {
		return nil, err
	}
	e.haveFrame = true
	return e.result, nil
}

// AdjustCount requests a transition to target at the given doubling
// time (§4.5); the actual split/merge work happens inside Step so it
// participates in the fixed per-frame ordering. strategy selects how
// split sources are chosen.
func (e *Engine) AdjustCount(target int, doublingTime float64, strategy countctl.Strategy) error {
	if e.sites == nil {
		return invalidConfig("adjust_count: no sites set")
	}
	if target <= 0 || target > NMax {
		return invalidConfig("adjust_count: target=%d out of range [1,%d]", target, NMax)
	}
	e.pendingTarget = target
	e.pendingDoublingTime = doublingTime
	e.pendingStrategy = strategy
	e.pendingActive = target != e.sites.Len()
	if !e.pendingActive {
		e.acc.Reset()
	}
	return nil
}

// StepBack moves the history cursor back one frame, if possible, and
// adopts its positions (§4.6).
func (e *Engine) StepBack() bool {
	f, ok := e.hist.StepBack()
	if !ok {
		return false
	}
	e.sites.Restore(f.Xs, f.Ys)
	e.haveFrame = false
	return true
}

// StepForward moves the cursor toward the head: if already at the
// head, advance physics by Δt (treating this like Step with the given
// parameters); otherwise just replay the next stored frame (§4.6).
func (e *Engine) StepForward(speed, dt, pull, theta, sigma float64) error {
	if e.hist.AtHead() {
		return e.Step(speed, dt, pull, theta, sigma)
	}
	f, ok := e.hist.StepForwardBehindHead()
	if !ok {
		return nil
	}
	e.sites.Restore(f.Xs, f.Ys)
	e.haveFrame = false
	return nil
}

// Sites exposes the current site positions for hosts that need to draw
// markers or debug overlays; the returned slices are borrowed views.
func (e *Engine) Sites() (xs, ys []float64) {
	if e.sites == nil {
		return nil, nil
	}
	return e.sites.Xs, e.sites.Ys
}

// N returns the current site count.
func (e *Engine) N() int {
	if e.sites == nil {
		return 0
	}
	return e.sites.Len()
}

// Dimensions returns the current image size, or (0, 0) if none is set.
func (e *Engine) Dimensions() (w, h int) {
	if e.img == nil {
		return 0, 0
	}
	return e.img.W, e.img.H
}

// validateDims and validateBufLen return plain (unwrapped) errors;
// combineConfigErrors does the single ErrInvalidConfig wrap once both
// have been collected, so a caller failing both checks at once still
// sees one sentinel-wrapped error listing each reason.
func validateDims(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", w, h)
	}
	return nil
}

func validateBufLen(rgba []uint8, w, h int) error {
	if len(rgba) < w*h*4 {
		return fmt.Errorf("%dx%d image needs %d bytes, got %d", w, h, w*h*4, len(rgba))
	}
	return nil
}

func randomUnitVector(src *prng.Source) (x, y float64) {
	angle := src.Float64() * 2 * math.Pi
	return math.Cos(angle), math.Sin(angle)
}
