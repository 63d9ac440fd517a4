package compute

import (
	"golang.org/x/sync/errgroup"

	"github.com/nilsmagnus/voroscope/internal/voronoi"
)

// accumulate runs the color/area/centroid pass shared by both backends
// once cell_of is known, strip-parallelized across horizontal bands
// and merged with a final sequential reduce (§4.3.1, §5 "strip-parallel
// color/centroid accumulation"). xSum/ySum are caller-owned scratch
// slices, grown in place and reused across calls.
func accumulate(pix []uint8, w, h int, xs, ys []float64, out *voronoi.Result, xSum, ySum *[]int64) {
	n := len(xs)
	if cap(*xSum) < n {
		*xSum = make([]int64, n)
		*ySum = make([]int64, n)
	}
	*xSum = (*xSum)[:n]
	*ySum = (*ySum)[:n]

	numStrips := 4
	if h < numStrips {
		numStrips = 1
	}
	stripH := (h + numStrips - 1) / numStrips

	type partial struct {
		area             []int64
		rSum, gSum, bSum []int64
		xSum, ySum       []int64
	}
	partials := make([]partial, numStrips)

	var g errgroup.Group
	for s := 0; s < numStrips; s++ {
		y0 := s * stripH
		y1 := y0 + stripH
		if y1 > h {
			y1 = h
		}
		if y0 >= y1 {
			continue
		}
		partials[s] = partial{
			area: make([]int64, n), rSum: make([]int64, n), gSum: make([]int64, n), bSum: make([]int64, n),
			xSum: make([]int64, n), ySum: make([]int64, n),
		}
		s, y0, y1 := s, y0, y1
		g.Go(func() error {
			p := &partials[s]
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					idx := y*w + x
					site := out.CellOf[idx]
					if site < 0 {
						continue
					}
					p.area[site]++
					p.rSum[site] += int64(pix[idx*4])
					p.gSum[site] += int64(pix[idx*4+1])
					p.bSum[site] += int64(pix[idx*4+2])
					p.xSum[site] += int64(x)
					p.ySum[site] += int64(y)
				}
			}
			return nil
		})
	}
	g.Wait() // strip passes never return an error; Wait only joins them

	for i := 0; i < n; i++ {
		(*xSum)[i], (*ySum)[i] = 0, 0
		out.CellArea[i] = 0
	}
	rSumPer := make([]int64, n)
	gSumPer := make([]int64, n)
	bSumPer := make([]int64, n)
	for _, p := range partials {
		if p.area == nil {
			continue
		}
		for i := 0; i < n; i++ {
			out.CellArea[i] += p.area[i]
			(*xSum)[i] += p.xSum[i]
			(*ySum)[i] += p.ySum[i]
			rSumPer[i] += p.rSum[i]
			gSumPer[i] += p.gSum[i]
			bSumPer[i] += p.bSum[i]
		}
	}

	for i := 0; i < n; i++ {
		if out.CellArea[i] > 0 {
			a := out.CellArea[i]
			out.CellColor[i][0] = uint8(rSumPer[i] / a)
			out.CellColor[i][1] = uint8(gSumPer[i] / a)
			out.CellColor[i][2] = uint8(bSumPer[i] / a)
			out.CellCentroidX[i] = float64((*xSum)[i])/float64(a) + 0.5
			out.CellCentroidY[i] = float64((*ySum)[i])/float64(a) + 0.5
		} else {
			out.CellColor[i] = fallbackColor(pix, w, h, xs[i], ys[i])
			out.CellCentroidX[i], out.CellCentroidY[i] = xs[i], ys[i]
		}
	}
}

// fallbackColor returns the RGB at a site's home pixel, or mid-gray if
// the site lies out of bounds (§4.3: empty-cell color fallback).
func fallbackColor(pix []uint8, w, h int, x, y float64) [3]uint8 {
	px, py := int(x), int(y)
	if px < 0 || px >= w || py < 0 || py >= h {
		return [3]uint8{128, 128, 128}
	}
	idx := (py*w + px) * 4
	return [3]uint8{pix[idx], pix[idx+1], pix[idx+2]}
}
