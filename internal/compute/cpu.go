// Package compute implements the ComputeBackend realizations (§4.3):
// an exact CPU bucket-queue jump flood and a GPU cone-rendering
// approximation. Both satisfy voronoi.Backend structurally.
package compute

import (
	"math"

	"github.com/nilsmagnus/voroscope/internal/voronoi"
)

// bucketEntry is one candidate assignment waiting in the priority
// structure: pixel pix should be claimed by site if no closer claim
// beats it first.
type bucketEntry struct {
	pix, site int32
}

// CPU is an exact raster Voronoi backend using a bucket-queue
// Dijkstra-style expansion (§4.3.1). It is safe for reuse across
// calls; scratch buffers grow but never shrink.
type CPU struct {
	bestDist2 []float64
	buckets   [][]bucketEntry
	xSum      []int64
	ySum      []int64
}

// NewCPU returns a ready-to-use CPU backend.
func NewCPU() *CPU {
	return &CPU{}
}

// Compute implements voronoi.Backend.
func (c *CPU) Compute(pix []uint8, w, h int, xs, ys []float64, out *voronoi.Result) error {
	n := len(xs)
	wh := w * h
	out.Resize(w, h, n)

	if cap(c.bestDist2) < wh {
		c.bestDist2 = make([]float64, wh)
	}
	c.bestDist2 = c.bestDist2[:wh]
	for i := range c.bestDist2 {
		c.bestDist2[i] = math.Inf(1)
		out.CellOf[i] = -1
	}

	maxBucket := w*w + h*h
	if cap(c.buckets) < maxBucket+1 {
		c.buckets = make([][]bucketEntry, maxBucket+1)
	}
	c.buckets = c.buckets[:maxBucket+1]
	for i := range c.buckets {
		c.buckets[i] = c.buckets[i][:0]
	}

	push := func(pixIdx int, site int, d2 float64) {
		if d2 >= c.bestDist2[pixIdx] {
			return
		}
		c.bestDist2[pixIdx] = d2
		b := int(d2)
		if b > maxBucket {
			b = maxBucket
		}
		c.buckets[b] = append(c.buckets[b], bucketEntry{pix: int32(pixIdx), site: int32(site)})
	}

	for s := 0; s < n; s++ {
		hx, hy := int(xs[s]), int(ys[s])
		if hx < 0 {
			hx = 0
		}
		if hx >= w {
			hx = w - 1
		}
		if hy < 0 {
			hy = 0
		}
		if hy >= h {
			hy = h - 1
		}
		homeIdx := hy*w + hx
		dx, dy := float64(hx)+0.5-xs[s], float64(hy)+0.5-ys[s]
		push(homeIdx, s, dx*dx+dy*dy)
	}

	for b := 0; b <= maxBucket; b++ {
		for i := 0; i < len(c.buckets[b]); i++ {
			e := c.buckets[b][i]
			pixIdx := int(e.pix)
			if out.CellOf[pixIdx] >= 0 {
				continue
			}
			out.CellOf[pixIdx] = e.site

			px, py := pixIdx%w, pixIdx/w
			site := int(e.site)
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := px+d[0], py+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				nIdx := ny*w + nx
				ddx, ddy := float64(nx)+0.5-xs[site], float64(ny)+0.5-ys[site]
				push(nIdx, site, ddx*ddx+ddy*ddy)
			}
		}
	}

	accumulate(pix, w, h, xs, ys, out, &c.xSum, &c.ySum)

	out.FarthestDist2 = -1
	for i := 0; i < wh; i++ {
		if c.bestDist2[i] > out.FarthestDist2 {
			out.FarthestDist2 = c.bestDist2[i]
			out.FarthestX, out.FarthestY = i%w, i/w
		}
	}

	return nil
}
