// Command voroscope renders Voronoi-tessellated animations of a
// source image, either to an interactive ebiten window or as a
// sequence of frames driven by a Lua phase script.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nilsmagnus/voroscope/internal/compute"
	"github.com/nilsmagnus/voroscope/internal/enginelog"
	"github.com/nilsmagnus/voroscope/internal/imageio"
	"github.com/nilsmagnus/voroscope/internal/voronoi"
)

var (
	imagePath   = flag.String("image", "", "path to the source image")
	numSites    = flag.Int("n", 200, "initial site count")
	seed        = flag.Int("seed", 1, "PRNG seed")
	inverseBias = flag.Bool("inverse_bias", false, "sample dark regions instead of bright ones")
	backendFlag = flag.String("backend", "cpu", "compute backend: cpu or gpu")
	mode        = flag.String("mode", "interactive", "interactive or video")
	phaseScript = flag.String("phases", "", "path to a Lua phase script (video mode)")
	fps         = flag.Float64("fps", 30, "frames per second (video mode)")
	outDir      = flag.String("out", "frames", "output directory for rendered frames (video mode)")
	strategy    = flag.String("strategy", "max", "split strategy: max, far, or random")
	logPath     = flag.String("log", "", "log file path (empty logs to stderr)")
	watch       = flag.Bool("watch", false, "reload the source image on change (interactive mode)")
)

func main() {
	flag.Parse()

	if *imagePath == "" {
		fmt.Fprintln(os.Stderr, "voroscope: -image is required")
		os.Exit(2)
	}

	log := enginelog.NewFile(enginelog.FileOptions{Path: *logPath, Level: zapcore.InfoLevel})
	defer log.Sync()

	pix, w, h, err := imageio.Load(*imagePath)
	if err != nil {
		log.Fatal("loading image", zap.Error(err))
	}

	backend, gpuFellBack := newBackend(*backendFlag, log)
	if gpuFellBack {
		log.Warn("gpu backend unavailable, falling back to cpu")
	}

	engine := voronoi.NewEngine(backend, log)
	if err := engine.SetImage(pix, w, h); err != nil {
		log.Fatal("set_image", zap.Error(err))
	}
	if err := engine.SetSitesFromSampler(*numSites, *inverseBias, uint32(*seed)); err != nil {
		log.Fatal("set_sites_from_sampler", zap.Error(err))
	}

	switch *mode {
	case "interactive":
		if err := runInteractive(engine, log); err != nil {
			log.Fatal("interactive run", zap.Error(err))
		}
	case "video":
		if *phaseScript == "" {
			fmt.Fprintln(os.Stderr, "voroscope: -phases is required in video mode")
			os.Exit(2)
		}
		if err := runVideo(engine, log); err != nil {
			log.Fatal("video render", zap.Error(err))
		}
	default:
		fmt.Fprintf(os.Stderr, "voroscope: unknown mode %q\n", *mode)
		os.Exit(2)
	}
}

// newBackend builds the requested backend, falling back to CPU if GPU
// initialization fails (§4.3.2, §7 BackendUnavailable — reported once).
func newBackend(name string, log *zap.Logger) (voronoi.Backend, bool) {
	if name != "gpu" {
		return compute.NewCPU(), false
	}
	gpu, err := compute.NewGPU()
	if err != nil {
		log.Warn("gpu shader compile failed", zap.Error(err))
		return compute.NewCPU(), true
	}
	return gpu, false
}
