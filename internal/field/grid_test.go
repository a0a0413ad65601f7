package field

import (
	"math"
	"math/rand"
	"testing"
)

func TestWrapIndexing(t *testing.T) {
	g := New(4)
	g.Set(0, 0, 1.5)

	if g.At(4, 0) != 1.5 {
		t.Errorf("expected wrap at (4,0), got %f", g.At(4, 0))
	}
	if g.At(-4, 0) != 1.5 {
		t.Errorf("expected wrap at (-4,0), got %f", g.At(-4, 0))
	}
	if g.At(0, 4) != 1.5 {
		t.Errorf("expected wrap at (0,4), got %f", g.At(0, 4))
	}
	if g.At(-4, -4) != 1.5 {
		t.Errorf("expected wrap at (-4,-4), got %f", g.At(-4, -4))
	}
}

func TestLaplacianConstantField(t *testing.T) {
	fills := []float64{0, 1, -3.7, 42.0, 1e6}

	for _, fill := range fills {
		g := New(8)
		g.Fill(fill)

		lap := g.Laplacian()
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				if lap.At(x, y) != 0 {
					t.Errorf("fill %f: laplacian at (%d,%d) = %f, want 0", fill, x, y, lap.At(x, y))
				}
			}
		}
	}
}

func TestLaplacianSinglePeak(t *testing.T) {
	g := New(5)
	g.Set(2, 2, 1.0)

	lap := g.Laplacian()

	if lap.At(2, 2) != -4 {
		t.Errorf("peak laplacian = %f, want -4", lap.At(2, 2))
	}
	for _, pt := range [][2]int{{1, 2}, {3, 2}, {2, 1}, {2, 3}} {
		if lap.At(pt[0], pt[1]) != 1 {
			t.Errorf("neighbor (%d,%d) laplacian = %f, want 1", pt[0], pt[1], lap.At(pt[0], pt[1]))
		}
	}
	if lap.At(0, 0) != 0 {
		t.Errorf("far cell laplacian = %f, want 0", lap.At(0, 0))
	}
}

func TestLaplacianWrapsAtEdges(t *testing.T) {
	// A peak in the corner couples to the opposite edges on a torus.
	g := New(5)
	g.Set(0, 0, 1.0)

	lap := g.Laplacian()
	for _, pt := range [][2]int{{4, 0}, {1, 0}, {0, 4}, {0, 1}} {
		if lap.At(pt[0], pt[1]) != 1 {
			t.Errorf("wrapped neighbor (%d,%d) laplacian = %f, want 1", pt[0], pt[1], lap.At(pt[0], pt[1]))
		}
	}
}

func TestStats(t *testing.T) {
	g := New(2)
	g.Set(0, 0, 1)
	g.Set(1, 0, 2)
	g.Set(0, 1, 3)
	g.Set(1, 1, 4)

	if g.Mean() != 2.5 {
		t.Errorf("mean = %f, want 2.5", g.Mean())
	}
	if g.Min() != 1 || g.Max() != 4 {
		t.Errorf("min/max = %f/%f, want 1/4", g.Min(), g.Max())
	}
	if math.Abs(g.Variance()-1.25) > 1e-12 {
		t.Errorf("variance = %f, want 1.25", g.Variance())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := New(3)
	g.Fill(1)
	c := g.Clone()
	c.Set(0, 0, 99)

	if g.At(0, 0) != 1 {
		t.Error("mutating a clone changed the original")
	}
}

func TestFinite(t *testing.T) {
	g := New(3)
	if !g.Finite() {
		t.Error("zero grid should be finite")
	}
	g.Set(1, 1, math.NaN())
	if g.Finite() {
		t.Error("grid with NaN should not be finite")
	}
	g.Set(1, 1, math.Inf(1))
	if g.Finite() {
		t.Error("grid with Inf should not be finite")
	}
}

func TestAutocorrLag1WhiteVsSmooth(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	white := NewNoise(rng, 1.0).White(64)

	smooth := white.Clone()
	// One diffusion-like smoothing pass raises the lag-1 correlation.
	lap := smooth.Laplacian()
	d, ld := smooth.Data(), lap.Data()
	for i := range d {
		d[i] += 0.2 * ld[i]
	}

	if smooth.AutocorrLag1() <= white.AutocorrLag1() {
		t.Errorf("smoothed autocorr %f should exceed white %f",
			smooth.AutocorrLag1(), white.AutocorrLag1())
	}
}
