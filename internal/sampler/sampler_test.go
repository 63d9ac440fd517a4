package sampler

import (
	"errors"
	"testing"
)

func makeImage(w, h int, fill func(x, y int) uint8) []uint8 {
	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			v := fill(x, y)
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	return pix
}

func TestSampleReturnsDistinctSites(t *testing.T) {
	pix := makeImage(32, 32, func(x, y int) uint8 { return uint8((x + y) % 256) })
	xs, ys, err := Sample(pix, 32, 32, 20, false, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(xs) != 20 || len(ys) != 20 {
		t.Fatalf("got %d sites, want 20", len(xs))
	}

	seen := map[[2]float64]bool{}
	for i := range xs {
		key := [2]float64{xs[i], ys[i]}
		if seen[key] {
			t.Fatalf("duplicate site at %v", key)
		}
		seen[key] = true
	}
}

func TestSampleTooManySites(t *testing.T) {
	pix := makeImage(4, 4, func(x, y int) uint8 { return 128 })
	_, _, err := Sample(pix, 4, 4, 100, false, 1)
	if !errors.Is(err, ErrTooManySites) {
		t.Fatalf("expected ErrTooManySites, got %v", err)
	}
}

func TestSampleDeterministic(t *testing.T) {
	pix := makeImage(16, 16, func(x, y int) uint8 { return uint8(x * 16) })
	xs1, ys1, _ := Sample(pix, 16, 16, 10, false, 99)
	xs2, ys2, _ := Sample(pix, 16, 16, 10, false, 99)

	for i := range xs1 {
		if xs1[i] != xs2[i] || ys1[i] != ys2[i] {
			t.Fatalf("non-deterministic output at index %d", i)
		}
	}
}

func TestSampleFavorsBrightRegion(t *testing.T) {
	// Left half black, right half white: sites should cluster right.
	pix := makeImage(64, 64, func(x, y int) uint8 {
		if x < 32 {
			return 0
		}
		return 255
	})
	xs, _, err := Sample(pix, 64, 64, 30, false, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rightCount := 0
	for _, x := range xs {
		if x >= 32 {
			rightCount++
		}
	}
	if rightCount < 20 {
		t.Fatalf("expected most sites on the bright side, got %d/30", rightCount)
	}
}

func TestSampleInverseBiasFavorsDarkRegion(t *testing.T) {
	pix := makeImage(64, 64, func(x, y int) uint8 {
		if x < 32 {
			return 0
		}
		return 255
	})
	xs, _, err := Sample(pix, 64, 64, 30, true, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	leftCount := 0
	for _, x := range xs {
		if x < 32 {
			leftCount++
		}
	}
	if leftCount < 20 {
		t.Fatalf("expected most sites on the dark side with inverseBias, got %d/30", leftCount)
	}
}

func TestSampleZeroSites(t *testing.T) {
	pix := makeImage(4, 4, func(x, y int) uint8 { return 128 })
	xs, ys, err := Sample(pix, 4, 4, 0, false, 1)
	if err != nil || xs != nil || ys != nil {
		t.Fatalf("expected nil, nil, nil for n=0, got %v %v %v", xs, ys, err)
	}
}
