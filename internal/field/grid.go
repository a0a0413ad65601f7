package field

import "math"

// Grid is a square 2D scalar field on a torus: indices wrap on both axes,
// so every cell has exactly four neighbors.
type Grid struct {
	size int
	data []float64
}

func New(size int) *Grid {
	if size < 1 {
		size = 1
	}
	return &Grid{size: size, data: make([]float64, size*size)}
}

func (g *Grid) Size() int { return g.size }

// Data exposes the row-major backing slice for renderers. Callers must not
// resize it.
func (g *Grid) Data() []float64 { return g.data }

func (g *Grid) wrap(i int) int {
	i %= g.size
	if i < 0 {
		i += g.size
	}
	return i
}

func (g *Grid) At(x, y int) float64 {
	return g.data[g.wrap(y)*g.size+g.wrap(x)]
}

func (g *Grid) Set(x, y int, v float64) {
	g.data[g.wrap(y)*g.size+g.wrap(x)] = v
}

func (g *Grid) Clone() *Grid {
	c := New(g.size)
	copy(c.data, g.data)
	return c
}

func (g *Grid) Fill(v float64) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Laplacian computes the 5-point discrete Laplacian with periodic boundaries.
func (g *Grid) Laplacian() *Grid {
	n := g.size
	out := New(n)
	for y := 0; y < n; y++ {
		up := g.wrap(y-1) * n
		down := g.wrap(y+1) * n
		row := y * n
		for x := 0; x < n; x++ {
			left := g.wrap(x - 1)
			right := g.wrap(x + 1)
			out.data[row+x] = g.data[up+x] + g.data[down+x] +
				g.data[row+left] + g.data[row+right] - 4*g.data[row+x]
		}
	}
	return out
}

func (g *Grid) Mean() float64 {
	sum := 0.0
	for _, v := range g.data {
		sum += v
	}
	return sum / float64(len(g.data))
}

func (g *Grid) Variance() float64 {
	mean := g.Mean()
	sum := 0.0
	for _, v := range g.data {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(g.data))
}

func (g *Grid) Min() float64 {
	m := g.data[0]
	for _, v := range g.data {
		if v < m {
			m = v
		}
	}
	return m
}

func (g *Grid) Max() float64 {
	m := g.data[0]
	for _, v := range g.data {
		if v > m {
			m = v
		}
	}
	return m
}

// AutocorrLag1 estimates the spatial autocorrelation at lag 1, averaged over
// the horizontal and vertical directions with wraparound.
func (g *Grid) AutocorrLag1() float64 {
	mean := g.Mean()
	variance := g.Variance()
	if variance == 0 {
		return 0
	}
	n := g.size
	sum := 0.0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := g.At(x, y) - mean
			sum += v * (g.At(x+1, y) - mean)
			sum += v * (g.At(x, y+1) - mean)
		}
	}
	return sum / (2 * float64(n*n) * variance)
}

// Finite reports whether every cell holds a finite value.
func (g *Grid) Finite() bool {
	for _, v := range g.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
