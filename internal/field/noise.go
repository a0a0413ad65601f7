package field

import (
	"math"
	"math/rand"
)

// Noise produces spatially correlated Gaussian noise fields. The correlation
// scale follows the requested length xi: white noise is smoothed with an
// isotropic Gaussian kernel of sigma = xi/3, applied with wraparound so the
// statistics match the torus topology of Grid.
type Noise struct {
	rng       *rand.Rand
	amplitude float64
}

func NewNoise(rng *rand.Rand, amplitude float64) *Noise {
	return &Noise{rng: rng, amplitude: amplitude}
}

// White fills a fresh grid with iid standard normal draws scaled by amplitude.
func (n *Noise) White(size int) *Grid {
	g := New(size)
	for i := range g.data {
		g.data[i] = n.rng.NormFloat64() * n.amplitude
	}
	return g
}

// Correlated returns a size x size noise grid smoothed over length xi.
func (n *Noise) Correlated(size int, xi float64) *Grid {
	g := New(size)
	for i := range g.data {
		g.data[i] = n.rng.NormFloat64()
	}
	sigma := xi / 3.0
	radius := int(3*sigma + 0.5)
	if radius >= 1 {
		kernel := gaussianKernel(sigma, radius)
		g = convolveWrap(g, kernel)
	}
	for i := range g.data {
		g.data[i] *= n.amplitude
	}
	return g
}

func gaussianKernel(sigma float64, radius int) []float64 {
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// convolveWrap applies a separable 1D kernel along rows then columns with
// periodic boundaries. Two passes of a normalized Gaussian kernel are
// equivalent to one 2D isotropic Gaussian blur.
func convolveWrap(g *Grid, kernel []float64) *Grid {
	n := g.size
	radius := len(kernel) / 2

	rows := New(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * g.At(x+k, y)
			}
			rows.data[y*n+x] = sum
		}
	}

	out := New(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * rows.At(x, y+k)
			}
			out.data[y*n+x] = sum
		}
	}
	return out
}
