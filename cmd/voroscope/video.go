package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nilsmagnus/voroscope/internal/countctl"
	"github.com/nilsmagnus/voroscope/internal/imageio"
	"github.com/nilsmagnus/voroscope/internal/video"
	"github.com/nilsmagnus/voroscope/internal/voronoi"
)

// runVideo drives the engine through the phase script, writing one PNG
// per frame into -out and printing a progress readout to stderr (§6).
func runVideo(e *voronoi.Engine, log *zap.Logger) error {
	phases, err := video.LoadScript(*phaseScript)
	if err != nil {
		return err
	}

	strat, err := parseStrategy(*strategy)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("video: creating output dir %s: %w", *outDir, err)
	}

	total := estimateFrames(phases, *fps)
	prog := video.NewProgress(os.Stderr, int(os.Stderr.Fd()), total)

	w, h := e.Dimensions()
	r := video.NewRunner(e, *fps, video.PhysicsParams{Speed: 40, Theta: 2, Sigma: 8, Pull: 0.4}, strat)

	_, err = r.Run(phases, func(frameIndex, phaseIndex int, kind video.Kind, res *voronoi.Result) error {
		pix := colorize(res, w, h)
		path := filepath.Join(*outDir, fmt.Sprintf("frame_%06d.png", frameIndex))
		if err := imageio.SavePNG(path, pix, w, h); err != nil {
			return err
		}
		prog.Update(frameIndex+1, kind.String())
		return nil
	})
	prog.Done()
	if err != nil {
		return err
	}

	log.Info("video render complete", zap.Int("frames", total), zap.String("out", *outDir))
	return nil
}

// colorize expands a Result's per-cell colors into a row-major RGBA
// buffer suitable for imageio.SavePNG.
func colorize(res *voronoi.Result, w, h int) []uint8 {
	pix := make([]uint8, w*h*4)
	for i, site := range res.CellOf {
		if site < 0 {
			continue
		}
		c := res.CellColor[site]
		pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = c[0], c[1], c[2], 255
	}
	return pix
}

// estimateFrames mirrors Runner.Run's per-phase step count so the
// progress bar knows its denominator up front.
func estimateFrames(phases []video.Phase, fps float64) int {
	dt := 1 / fps
	total := 0
	for _, ph := range phases {
		var duration float64
		switch ph.Kind() {
		case video.KindGrow:
			duration = ph.Dt
		case video.KindFade:
			duration = ph.Fade
		default:
			duration = ph.T
		}
		total += int(duration/dt + 0.5)
	}
	return total
}

func parseStrategy(s string) (countctl.Strategy, error) {
	switch s {
	case "max", "":
		return countctl.StrategyMax, nil
	case "far":
		return countctl.StrategyFar, nil
	case "random":
		return countctl.StrategyRandom, nil
	default:
		return 0, fmt.Errorf("voroscope: unknown -strategy %q", s)
	}
}
