package compute

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"

	"github.com/nilsmagnus/voroscope/internal/voronoi"
)

// batchSize bounds how many sites one shader pass compares per pixel;
// Kage uniform arrays are practically limited, so larger site counts
// are rendered in several passes and merged on the CPU side, the way
// §4.3.2 describes cone geometry being issued per site and resolved by
// depth test — here the "depth test" across passes is a CPU compare
// on the readback rather than a hardware blend, since Ebiten doesn't
// expose per-channel depth blending precise enough for exact ties.
const batchSize = 64

// GPU is a cone-rendering backend (§4.3.2): each pass renders a batch
// of sites as full-screen "cones" via a fragment shader that computes
// the nearest site within the batch, then CPU code merges passes and
// runs the shared color/centroid accumulation.
type GPU struct {
	shader *ebiten.Shader
	target *ebiten.Image
	pos    [][2]float32

	bestDepth []float32
	xSum      []int64
	ySum      []int64

	unavailable error
}

// NewGPU compiles the nearest-site shader, reporting a compile failure
// as ErrBackendUnavailable (§4.3.2, §7 BackendUnavailable). The Engine
// does not switch backends by itself; cmd/voroscope's newBackend picks
// the CPU backend for the session when this fails.
func NewGPU() (*GPU, error) {
	sh, err := ebiten.NewShader([]byte(nearestSiteKage))
	if err != nil {
		return nil, errors.Wrap(voronoi.ErrBackendUnavailable, err.Error())
	}
	return &GPU{shader: sh}, nil
}

// Compute implements voronoi.Backend.
func (g *GPU) Compute(pix []uint8, w, h int, xs, ys []float64, out *voronoi.Result) error {
	if g.unavailable != nil {
		return g.unavailable
	}

	n := len(xs)
	wh := w * h
	out.Resize(w, h, n)

	if g.target == nil || g.target.Bounds().Dx() != w || g.target.Bounds().Dy() != h {
		g.target = ebiten.NewImage(w, h)
	}

	if cap(g.bestDepth) < wh {
		g.bestDepth = make([]float32, wh)
	}
	g.bestDepth = g.bestDepth[:wh]
	for i := range g.bestDepth {
		g.bestDepth[i] = float32(math.Inf(1))
		out.CellOf[i] = -1
	}

	maxDist2 := float32(w*w + h*h)
	readback := make([]byte, wh*4)

	for base := 0; base < n; base += batchSize {
		end := base + batchSize
		if end > n {
			end = n
		}
		count := end - base

		if cap(g.pos) < batchSize {
			g.pos = make([][2]float32, batchSize)
		}
		g.pos = g.pos[:batchSize]
		for i := 0; i < count; i++ {
			g.pos[i] = [2]float32{float32(xs[base+i]), float32(ys[base+i])}
		}
		for i := count; i < batchSize; i++ {
			g.pos[i] = [2]float32{-1e9, -1e9} // parked far away, never nearest
		}

		g.target.Clear()
		op := &ebiten.DrawRectShaderOptions{}
		op.Uniforms = map[string]interface{}{
			"Sites":    g.pos,
			"Count":    float32(count),
			"MaxDist2": maxDist2,
		}
		g.target.DrawRectShader(w, h, g.shader, op)
		g.target.ReadPixels(readback)

		for i := 0; i < wh; i++ {
			localIdx := int(readback[i*4+2])
			depth16 := uint16(readback[i*4])<<8 | uint16(readback[i*4+1])
			depth := float32(depth16) / 65535 * maxDist2

			if localIdx >= count {
				continue
			}
			if depth < g.bestDepth[i] {
				g.bestDepth[i] = depth
				out.CellOf[i] = int32(base + localIdx)
			}
		}
	}

	accumulate(pix, w, h, xs, ys, out, &g.xSum, &g.ySum)

	out.FarthestDist2 = -1
	for i := 0; i < wh; i++ {
		if float64(g.bestDepth[i]) > out.FarthestDist2 {
			out.FarthestDist2 = float64(g.bestDepth[i])
			out.FarthestX, out.FarthestY = i%w, i/w
		}
	}

	return nil
}

// nearestSiteKage is a Kage fragment shader that, for each pixel,
// finds the nearest of up to batchSize sites and writes its local
// index (blue channel) and normalized squared distance (red/green,
// 16 bits split across two bytes) — the GPU-side half of the cone
// construction described in §4.3.2, collapsed into one brute-force
// comparison per batch rather than literal triangle-fan geometry.
const nearestSiteKage = `
//kage:unit pixels

package main

var Sites [64]vec2
var Count float
var MaxDist2 float

func Fragment(position vec4, texCoord vec2, color vec4) vec4 {
	p := position.xy
	bestDist2 := MaxDist2
	bestIdx := 0.0
	for i := 0; i < 64; i++ {
		if float(i) >= Count {
			break
		}
		d := p - Sites[i]
		dist2 := dot(d, d)
		if dist2 < bestDist2 {
			bestDist2 = dist2
			bestIdx = float(i)
		}
	}

	norm := clamp(bestDist2/MaxDist2, 0.0, 1.0)
	depth16 := norm * 65535.0
	hi := floor(depth16 / 256.0)
	lo := depth16 - hi*256.0

	return vec4(hi/255.0, lo/255.0, bestIdx/255.0, 1.0)
}
`
