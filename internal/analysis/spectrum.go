// Package analysis provides frequency-domain tools for run traces: the
// power spectrum of a scalar history (field variance, correlation length)
// and the mean spatial spectrum of a field grid.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/quench/internal/field"
)

// FFT computes the discrete Fourier transform of a power-of-two length
// series via radix-2 Cooley-Tukey.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum zero-pads the series to a power of two and returns the
// magnitude of the positive-frequency half.
func PowerSpectrum(data []float64) []float64 {
	padded := pad(data)
	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// SpatialSpectrum averages the 1D power spectrum over every row of the
// field. Correlated noise concentrates power at low wavenumbers; the
// concentration grows with the correlation length.
func SpatialSpectrum(g *field.Grid) []float64 {
	n := g.Size()
	row := make([]float64, n)
	var avg []float64
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			row[x] = g.At(x, y)
		}
		ps := PowerSpectrum(row)
		if avg == nil {
			avg = make([]float64, len(ps))
		}
		for i, v := range ps {
			avg[i] += v
		}
	}
	for i := range avg {
		avg[i] /= float64(n)
	}
	return avg
}

func pad(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	if n == len(data) {
		return data
	}
	padded := make([]float64, n)
	copy(padded, data)
	return padded
}
