package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/nilsmagnus/voroscope/internal/countctl"
	"github.com/nilsmagnus/voroscope/internal/voronoi"
)

// host wraps an Engine as an ebiten.Game, driving it from keyboard
// input: space toggles play/pause, arrows scrub history, +/- adjust
// the target site count (§4.6, §4.7).
type host struct {
	engine *voronoi.Engine
	log    *zap.Logger

	playing  bool
	target   int
	strategy countctl.Strategy

	screen *ebiten.Image
	latest *voronoi.Result
	w, h   int
}

func newHost(e *voronoi.Engine, w, h int, log *zap.Logger) *host {
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetWindowTitle("voroscope")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	strat, err := parseStrategy(*strategy)
	if err != nil {
		strat = countctl.StrategyMax
	}

	return &host{
		engine:   e,
		log:      log,
		playing:  true,
		target:   e.N(),
		strategy: strat,
		w:        w,
		h:        h,
		screen:   ebiten.NewImage(w, h),
	}
}

// Layout keeps the logical resolution fixed to the source image and
// lets ebiten scale to the window (teacher's console.Bus.Layout).
func (h *host) Layout(outsideW, outsideH int) (int, int) {
	return h.w, h.h
}

// Update drives one frame of playback per tick when playing, and
// applies any pending keyboard commands (§4.6 scrub, §4.5 count control).
func (h *host) Update() error {
	scrubbed := h.handleInput()

	if h.playing {
		if err := h.engine.Step(40, 1.0/60, 0.4, 2.0, 8.0); err != nil {
			return err
		}
	} else if !scrubbed && h.latest != nil {
		return nil
	}

	res, err := h.engine.Compute()
	if err != nil {
		return err
	}
	h.latest = res
	return nil
}

// handleInput applies keyboard commands and reports whether the sites
// or history cursor changed, so Update knows to recompute even while
// paused.
func (h *host) handleInput() (changed bool) {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		h.playing = !h.playing
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		changed = h.engine.StepBack() || changed
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		if err := h.engine.StepForward(40, 1.0/60, 0.4, 2.0, 8.0); err != nil {
			h.log.Warn("step_forward", zap.Error(err))
		}
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		h.target += 10
		if err := h.engine.AdjustCount(h.target, 2.0, h.strategy); err != nil {
			h.log.Warn("adjust_count", zap.Error(err))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && h.target > 1 {
		h.target -= 10
		if err := h.engine.AdjustCount(h.target, 2.0, h.strategy); err != nil {
			h.log.Warn("adjust_count", zap.Error(err))
		}
	}
	return changed
}

// Draw paints the current cell color buffer pixel-by-pixel onto the
// ebiten screen (teacher's console.Bus.Draw walks the PPU framebuffer
// the same way).
func (h *host) Draw(screen *ebiten.Image) {
	res := h.latest
	if res == nil {
		return
	}
	for y := 0; y < h.h; y++ {
		for x := 0; x < h.w; x++ {
			site := res.CellOf[y*h.w+x]
			if site < 0 {
				continue
			}
			c := res.CellColor[site]
			h.screen.Set(x, y, color.RGBA{c[0], c[1], c[2], 255})
		}
	}
	screen.DrawImage(h.screen, nil)
}

func runInteractive(e *voronoi.Engine, log *zap.Logger) error {
	w, h := e.Dimensions()
	g := newHost(e, w, h, log)

	if *watch {
		watcher, err := watchInputs(e, *imagePath, log)
		if err != nil {
			log.Warn("watch disabled", zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	return ebiten.RunGame(g)
}
