package compute

import (
	"testing"

	"github.com/nilsmagnus/voroscope/internal/voronoi"
)

func flatPix(w, h int, r, g, b uint8) []uint8 {
	pix := make([]uint8, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = r, g, b, 255
	}
	return pix
}

// S1: 4x4 uniform gray image, N=1.
func TestComputeUniformSingleSite(t *testing.T) {
	pix := flatPix(4, 4, 128, 128, 128)
	out := voronoi.NewResult(4, 4, 1)
	c := NewCPU()

	if err := c.Compute(pix, 4, 4, []float64{2, 2}, []float64{2, 2}, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.CellArea[0] != 16 {
		t.Fatalf("area=%d, want 16", out.CellArea[0])
	}
	if out.CellColor[0] != [3]uint8{128, 128, 128} {
		t.Fatalf("color=%v, want (128,128,128)", out.CellColor[0])
	}
	for _, v := range out.CellOf {
		if v != 0 {
			t.Fatalf("expected all pixels assigned to cell 0, got %v", out.CellOf)
		}
	}
}

// S2: 2x1 image with two pixels, two sites at pixel centers.
func TestComputeTwoPixelsTwoSites(t *testing.T) {
	pix := make([]uint8, 2*4)
	pix[0], pix[1], pix[2], pix[3] = 0, 0, 0, 255
	pix[4], pix[5], pix[6], pix[7] = 255, 255, 255, 255

	out := voronoi.NewResult(2, 1, 2)
	c := NewCPU()
	if err := c.Compute(pix, 2, 1, []float64{0.5, 1.5}, []float64{0.5, 0.5}, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.CellOf[0] != 0 || out.CellOf[1] != 1 {
		t.Fatalf("cell_of=%v, want [0 1]", out.CellOf)
	}
	if out.CellColor[0] != [3]uint8{0, 0, 0} {
		t.Fatalf("color[0]=%v, want black", out.CellColor[0])
	}
	if out.CellColor[1] != [3]uint8{255, 255, 255} {
		t.Fatalf("color[1]=%v, want white", out.CellColor[1])
	}
	if out.CellArea[0] != 1 || out.CellArea[1] != 1 {
		t.Fatalf("areas=%v,%v want 1,1", out.CellArea[0], out.CellArea[1])
	}
}

// S10: N = W*H with uniquely-placed sites at every pixel.
func TestComputeOneSitePerPixel(t *testing.T) {
	w, h := 5, 5
	pix := flatPix(w, h, 10, 20, 30)
	xs := make([]float64, 0, w*h)
	ys := make([]float64, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			xs = append(xs, float64(x)+0.5)
			ys = append(ys, float64(y)+0.5)
		}
	}

	out := voronoi.NewResult(w, h, w*h)
	c := NewCPU()
	if err := c.Compute(pix, w, h, xs, ys, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, a := range out.CellArea {
		if a != 1 {
			t.Fatalf("cell %d area=%d, want 1", i, a)
		}
	}
}

func TestComputeAreaSumsToImageSize(t *testing.T) {
	w, h := 20, 15
	pix := flatPix(w, h, 50, 60, 70)
	xs := []float64{3, 10, 17}
	ys := []float64{3, 7, 12}

	out := voronoi.NewResult(w, h, 3)
	c := NewCPU()
	if err := c.Compute(pix, w, h, xs, ys, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sum int64
	for _, a := range out.CellArea {
		sum += a
	}
	if sum != int64(w*h) {
		t.Fatalf("area sum=%d, want %d", sum, w*h)
	}
}

func TestComputeNearestSiteInvariant(t *testing.T) {
	w, h := 12, 12
	pix := flatPix(w, h, 1, 2, 3)
	xs := []float64{2, 9, 5}
	ys := []float64{2, 9, 10}

	out := voronoi.NewResult(w, h, 3)
	c := NewCPU()
	if err := c.Compute(pix, w, h, xs, ys, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			px, py := float64(x)+0.5, float64(y)+0.5
			assigned := int(out.CellOf[idx])
			assignedD2 := (px-xs[assigned])*(px-xs[assigned]) + (py-ys[assigned])*(py-ys[assigned])
			for s := range xs {
				d2 := (px-xs[s])*(px-xs[s]) + (py-ys[s])*(py-ys[s])
				if d2 < assignedD2-1e-9 {
					t.Fatalf("pixel (%d,%d) assigned to %d (d2=%v) but site %d is closer (d2=%v)", x, y, assigned, assignedD2, s, d2)
				}
			}
		}
	}
}
