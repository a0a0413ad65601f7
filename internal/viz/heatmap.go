package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/quench/internal/field"
)

// Field values are visualized clipped to [-2, 2], matching the original
// colormap range. Values outside still render at the palette extremes.
const (
	clipLow  = -2.0
	clipHigh = 2.0
)

// Heatmap downsamples a field grid to cols x rows terminal cells and colors
// each with the theme palette. Terminal cells are roughly twice as tall as
// wide, so callers pass cols ~ 2*rows for a square look.
func Heatmap(g *field.Grid, cols, rows int, theme Theme) string {
	n := g.Size()
	styles := make([]lipgloss.Style, len(theme.Palette))
	for i, c := range theme.Palette {
		styles[i] = lipgloss.NewStyle().Foreground(c)
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		y0 := r * n / rows
		y1 := (r + 1) * n / rows
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for c := 0; c < cols; c++ {
			x0 := c * n / cols
			x1 := (c + 1) * n / cols
			if x1 <= x0 {
				x1 = x0 + 1
			}
			sum := 0.0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					sum += g.At(x, y)
				}
			}
			v := sum / float64((y1-y0)*(x1-x0))
			b.WriteString(styles[paletteIndex(v, len(styles))].Render("█"))
		}
		if r < rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func paletteIndex(v float64, n int) int {
	t := (v - clipLow) / (clipHigh - clipLow)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	i := int(t * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
