// Package sampler implements brightness-weighted rejection sampling
// with post-selection spatial suppression (§4.2). It operates on raw
// RGBA pixel bytes rather than a richer image type, keeping it a leaf
// package with no dependency on voronoi.
package sampler

import (
	"fmt"
	"math"

	"github.com/nilsmagnus/voroscope/internal/prng"
)

// Sample draws n distinct sites from a w*h RGBA image (4 bytes/pixel,
// row-major). When inverseBias is false, bright pixels are favored;
// when true, dark pixels are. Returns ErrTooManySites if w*h < n,
// since the selection loop cannot terminate in that case (§4.2
// "Failure modes").
func Sample(pix []uint8, w, h, n int, inverseBias bool, seed uint32) (xs, ys []float64, err error) {
	if n <= 0 {
		return nil, nil, nil
	}
	if w*h < n {
		return nil, nil, fmt.Errorf("%w: %d pixels, %d sites requested", ErrTooManySites, w*h, n)
	}

	weights := make([]int, w*h)
	for i := 0; i < w*h; i++ {
		r := int(pix[i*4])
		if inverseBias {
			weights[i] = 257 - (r + 1)
		} else {
			weights[i] = r + 1
		}
	}

	src := prng.New(seed)
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	accepted := make([]bool, w*h)

	for len(xs) < n {
		idx := int(src.Float64() * float64(w*h))
		if idx >= w*h {
			idx = w*h - 1
		}
		u := src.Float64() * 256

		if u > float64(weights[idx]) {
			continue
		}
		if accepted[idx] {
			continue
		}

		accepted[idx] = true
		x, y := idx%w, idx/w
		xs = append(xs, float64(x)+0.5)
		ys = append(ys, float64(y)+0.5)

		before := weights[idx]
		weights[idx] = 0

		r := int(math.Log2(float64(before))) + 1
		if r < 1 {
			r = 1
		}
		suppress(weights, w, h, x, y, r)
	}

	return xs, ys, nil
}

// suppress halves the weight of every pixel in the (2r+1)x(2r+1)
// axis-aligned square around (cx, cy) that lies in bounds (§4.2).
func suppress(weights []int, w, h, cx, cy, r int) {
	x0, x1 := cx-r, cx+r
	y0, y1 := cy-r, cy+r
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= w {
		x1 = w - 1
	}
	if y1 >= h {
		y1 = h - 1
	}

	for y := y0; y <= y1; y++ {
		row := y * w
		for x := x0; x <= x1; x++ {
			weights[row+x] /= 2
		}
	}
}
