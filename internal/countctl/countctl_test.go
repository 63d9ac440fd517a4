package countctl

import (
	"testing"

	"github.com/nilsmagnus/voroscope/internal/prng"
)

// fakeSites is a minimal Sites implementation for testing, independent
// of voronoi.SiteCollection (which already satisfies Sites
// structurally in the real engine).
type fakeSites struct {
	xs, ys, vxs, vys []float64
}

func (f *fakeSites) Len() int                      { return len(f.xs) }
func (f *fakeSites) Position(i int) (float64, float64) { return f.xs[i], f.ys[i] }
func (f *fakeSites) SetVelocity(i int, vx, vy float64) { f.vxs[i], f.vys[i] = vx, vy }
func (f *fakeSites) Append(x, y, vx, vy float64) int {
	f.xs = append(f.xs, x)
	f.ys = append(f.ys, y)
	f.vxs = append(f.vxs, vx)
	f.vys = append(f.vys, vy)
	return len(f.xs) - 1
}
func (f *fakeSites) Remove(i int) {
	f.xs = append(f.xs[:i], f.xs[i+1:]...)
	f.ys = append(f.ys[:i], f.ys[i+1:]...)
	f.vxs = append(f.vxs[:i], f.vxs[i+1:]...)
	f.vys = append(f.vys[:i], f.vys[i+1:]...)
}

func newFakeSites(n int) *fakeSites {
	f := &fakeSites{}
	for i := 0; i < n; i++ {
		f.Append(float64(i), float64(i), 1, 0)
	}
	return f
}

func TestBatchGrow(t *testing.T) {
	s := newFakeSites(5)
	acc := &Accumulator{}
	res := Adjust(s, nil, -1, 10, 0, 0, StrategyRandom, acc, prng.New(1))

	if s.Len() != 10 {
		t.Fatalf("N=%d, want 10", s.Len())
	}
	if res.Splits != 5 {
		t.Fatalf("splits=%d, want 5", res.Splits)
	}
}

func TestBatchShrink(t *testing.T) {
	s := newFakeSites(10)
	acc := &Accumulator{}
	res := Adjust(s, nil, -1, 3, 0, 0, StrategyRandom, acc, prng.New(1))

	if s.Len() != 3 {
		t.Fatalf("N=%d, want 3", s.Len())
	}
	if res.Merges != 7 {
		t.Fatalf("merges=%d, want 7", res.Merges)
	}
}

func TestGradualGrowReachesTarget(t *testing.T) {
	s := newFakeSites(50)
	acc := &Accumulator{}
	src := prng.New(42)
	cellArea := make([]int64, 50)
	for i := range cellArea {
		cellArea[i] = int64(i + 1)
	}

	for step := 0; step < 100 && s.Len() != 100; step++ {
		Adjust(s, cellArea, -1, 100, 1.0, 0.01, StrategyMax, acc, src)
		cellArea = make([]int64, s.Len())
		for i := range cellArea {
			cellArea[i] = int64(i + 1)
		}
	}

	if s.Len() != 100 {
		t.Fatalf("N=%d after 100 steps, want 100", s.Len())
	}
}

func TestNoOpWhenAtTarget(t *testing.T) {
	s := newFakeSites(5)
	acc := &Accumulator{}
	res := Adjust(s, nil, -1, 5, 1.0, 0.01, StrategyMax, acc, prng.New(1))
	if res.Splits != 0 || res.Merges != 0 || s.Len() != 5 {
		t.Fatalf("expected no-op, got splits=%d merges=%d N=%d", res.Splits, res.Merges, s.Len())
	}
}

func TestSplitChildStartsAtParentPosition(t *testing.T) {
	s := newFakeSites(1)
	acc := &Accumulator{}
	Adjust(s, nil, -1, 2, 0, 0, StrategyRandom, acc, prng.New(5))

	if s.Len() != 2 {
		t.Fatalf("N=%d, want 2", s.Len())
	}
	if s.xs[0] != s.xs[1] || s.ys[0] != s.ys[1] {
		t.Fatalf("child should start at parent position: parent=(%v,%v) child=(%v,%v)", s.xs[0], s.ys[0], s.xs[1], s.ys[1])
	}
	// opposing unit velocities
	if s.vxs[0] != -s.vxs[1] || s.vys[0] != -s.vys[1] {
		t.Fatalf("parent/child velocities should oppose: parent=(%v,%v) child=(%v,%v)", s.vxs[0], s.vys[0], s.vxs[1], s.vys[1])
	}
}

func TestMergeDensestNeighbor(t *testing.T) {
	s := &fakeSites{}
	// two sites very close together, one far away: the densest pair
	// should be merged first.
	s.Append(0, 0, 1, 0)
	s.Append(0.01, 0, 1, 0)
	s.Append(50, 50, 1, 0)

	acc := &Accumulator{}
	Adjust(s, nil, -1, 2, 0, 0, StrategyRandom, acc, prng.New(1))

	if s.Len() != 2 {
		t.Fatalf("N=%d, want 2", s.Len())
	}
	// the far-away site must still be present
	found := false
	for i := range s.xs {
		if s.xs[i] == 50 && s.ys[i] == 50 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the isolated site to survive the merge")
	}
}
