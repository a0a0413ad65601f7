package render

import "image/color"

// Diverging colormap over the visualization range [-2, 2], approximating the
// twilight palette the original frames used.
var paletteStops = []color.RGBA{
	{0x30, 0x12, 0x3b, 0xff},
	{0x45, 0x30, 0x6e, 0xff},
	{0x5f, 0x5a, 0x9c, 0xff},
	{0x8b, 0x8b, 0xc0, 0xff},
	{0xc2, 0xc2, 0xd6, 0xff},
	{0xe8, 0xe0, 0xd0, 0xff},
	{0xd6, 0xa4, 0x89, 0xff},
	{0xbc, 0x6a, 0x52, 0xff},
	{0x93, 0x36, 0x2c, 0xff},
	{0x5c, 0x0e, 0x14, 0xff},
}

const (
	clipLow  = -2.0
	clipHigh = 2.0
)

// HeatColor maps a field value to the colormap, clipping to [-2, 2] and
// interpolating linearly between palette stops.
func HeatColor(v float64) color.RGBA {
	t := (v - clipLow) / (clipHigh - clipLow)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(len(paletteStops)-1)
	i := int(pos)
	if i >= len(paletteStops)-1 {
		return paletteStops[len(paletteStops)-1]
	}
	f := pos - float64(i)
	a, b := paletteStops[i], paletteStops[i+1]
	return color.RGBA{
		R: lerp(a.R, b.R, f),
		G: lerp(a.G, b.G, f),
		B: lerp(a.B, b.B, f),
		A: 0xff,
	}
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f)
}
