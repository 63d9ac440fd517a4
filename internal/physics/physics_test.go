package physics

import (
	"math"
	"testing"

	"github.com/nilsmagnus/voroscope/internal/prng"
)

func TestReflectiveBoundary(t *testing.T) {
	xs := []float64{0}
	ys := []float64{0}
	vxs := []float64{-1}
	vys := []float64{0}

	speed := 10.0
	dt := 0.5
	Step(xs, ys, vxs, vys, 100, 100, Params{Speed: speed, Dt: dt}, nil, nil, prng.New(1))

	want := speed * dt
	if math.Abs(xs[0]-want) > 1e-9 {
		t.Errorf("x = %v, want %v", xs[0], want)
	}
	if vxs[0] != 1 {
		t.Errorf("vx = %v, want 1", vxs[0])
	}
	if ys[0] != 0 || vys[0] != 0 {
		t.Errorf("y/vy should be untouched: y=%v vy=%v", ys[0], vys[0])
	}
}

func TestVelocityStaysUnit(t *testing.T) {
	n := 50
	xs := make([]float64, n)
	ys := make([]float64, n)
	vxs := make([]float64, n)
	vys := make([]float64, n)
	src := prng.New(42)
	for i := range xs {
		xs[i] = 50
		ys[i] = 50
		angle := src.Float64() * 2 * math.Pi
		vxs[i] = math.Cos(angle)
		vys[i] = math.Sin(angle)
	}

	p := Params{Speed: 15, Dt: 1.0 / 60, Theta: 3, Sigma: 3}
	for step := 0; step < 300; step++ {
		Step(xs, ys, vxs, vys, 100, 100, p, nil, nil, src)
		for i := 0; i < n; i++ {
			l := math.Hypot(vxs[i], vys[i])
			if math.Abs(l-1) > 1e-6 {
				t.Fatalf("step %d site %d: |v|=%v, want ~1", step, i, l)
			}
		}
	}
}

func TestSitesStayInBounds(t *testing.T) {
	n := 20
	xs := make([]float64, n)
	ys := make([]float64, n)
	vxs := make([]float64, n)
	vys := make([]float64, n)
	src := prng.New(7)
	for i := range xs {
		xs[i] = src.Float64() * 100
		ys[i] = src.Float64() * 100
		angle := src.Float64() * 2 * math.Pi
		vxs[i] = math.Cos(angle)
		vys[i] = math.Sin(angle)
	}

	p := Params{Speed: 80, Dt: 0.1, Theta: 1, Sigma: 1}
	for step := 0; step < 100; step++ {
		Step(xs, ys, vxs, vys, 100, 100, p, nil, nil, src)
		for i := 0; i < n; i++ {
			if xs[i] < 0 || xs[i] >= 100 || ys[i] < 0 || ys[i] >= 100 {
				t.Fatalf("step %d site %d out of bounds: (%v, %v)", step, i, xs[i], ys[i])
			}
		}
	}
}

func TestCentroidPullBiasesTowardCentroid(t *testing.T) {
	xs := []float64{10}
	ys := []float64{10}
	vxs := []float64{0}
	vys := []float64{-1}
	centroidX := []float64{90}
	centroidY := []float64{10}

	p := Params{Speed: 5, Dt: 0.1, Pull: 1, Theta: 5, Sigma: 0}
	src := prng.New(3)
	for i := 0; i < 20; i++ {
		Step(xs, ys, vxs, vys, 100, 100, p, centroidX, centroidY, src)
	}

	if xs[0] <= 10 {
		t.Errorf("expected centroid pull to move site toward x=90, got x=%v", xs[0])
	}
}

func TestDeterministicGivenSameSeed(t *testing.T) {
	run := func(seed uint32) ([]float64, []float64) {
		xs := []float64{20, 80}
		ys := []float64{20, 80}
		vxs := []float64{1, -1}
		vys := []float64{0, 0}
		src := prng.New(seed)
		p := Params{Speed: 10, Dt: 0.05, Theta: 2, Sigma: 2}
		for i := 0; i < 30; i++ {
			Step(xs, ys, vxs, vys, 100, 100, p, nil, nil, src)
		}
		return xs, ys
	}

	xs1, ys1 := run(99)
	xs2, ys2 := run(99)
	for i := range xs1 {
		if xs1[i] != xs2[i] || ys1[i] != ys2[i] {
			t.Fatalf("site %d diverged: (%v,%v) vs (%v,%v)", i, xs1[i], ys1[i], xs2[i], ys2[i])
		}
	}
}
