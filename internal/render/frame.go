// Package render projects universe snapshots onto still images: a
// color-mapped heat map of the field next to a status panel with numeric
// readouts, progress bars, and a trend chart of the cooling history. It only
// ever reads snapshots; it has no way to mutate simulation state.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/quench/internal/universe"
)

const (
	cellSize    = 4
	panelWidth  = 480
	chartHeight = 220
	margin      = 16
	barHeight   = 14
	barLength   = panelWidth - 2*margin - 24
)

var (
	panelBg   = color.RGBA{0x0a, 0x0a, 0x0a, 0xff}
	textColor = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	mutedGray = color.RGBA{0x50, 0x50, 0x50, 0xff}
	preBlue   = color.RGBA{0x36, 0x8c, 0xff, 0xff}
	warnAmber = color.RGBA{0xff, 0xaa, 0x00, 0xff}
	postGreen = color.RGBA{0x2e, 0xd5, 0x73, 0xff}
	coolRed   = color.RGBA{0xff, 0x45, 0x00, 0xff}
)

// Renderer draws frames for one parameter set. The params are needed only to
// scale the progress bars and classify the phase.
type Renderer struct {
	params universe.Params
}

func New(params universe.Params) *Renderer {
	return &Renderer{params: params}
}

// Frame renders a snapshot plus the scalar histories into a single image.
func (r *Renderer) Frame(s universe.Snapshot, tempHist, xiHist []float64) *image.RGBA {
	fieldPx := s.Field.Size() * cellSize
	w := fieldPx + panelWidth
	h := fieldPx
	if h < 512 {
		h = 512
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{panelBg}, image.Point{}, draw.Src)

	r.drawField(img, s)
	r.drawPanel(img, fieldPx, s, tempHist, xiHist)
	return img
}

func (r *Renderer) drawField(img *image.RGBA, s universe.Snapshot) {
	n := s.Field.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := HeatColor(s.Field.At(x, y))
			for dy := 0; dy < cellSize; dy++ {
				for dx := 0; dx < cellSize; dx++ {
					img.SetRGBA(x*cellSize+dx, y*cellSize+dy, c)
				}
			}
		}
	}
}

func (r *Renderer) drawPanel(img *image.RGBA, left int, s universe.Snapshot, tempHist, xiHist []float64) {
	x := left + margin
	y := margin + 12

	phase := r.params.Phase(s)
	var phaseColor color.RGBA
	var caption string
	switch phase {
	case universe.PhasePost:
		phaseColor, caption = postGreen, "Reality stabilized. Structures persist."
	case universe.PhaseApproaching:
		phaseColor, caption = warnAmber, "Correlation length growing. Bootstrap imminent."
	default:
		phaseColor, caption = preBlue, "Pure potential. Random fluctuations."
	}

	addLabel(img, x, y, fmt.Sprintf("Time: %d steps", s.Time), textColor)
	y += 18
	addLabel(img, x, y, fmt.Sprintf("Temperature: %.2f", s.Temperature), textColor)
	y += 18
	addLabel(img, x, y, fmt.Sprintf("Correlation xi: %.2f", s.Xi), textColor)
	y += 26
	addLabel(img, x, y, phase.String(), phaseColor)
	y += 18
	addLabel(img, x, y, caption, mutedGray)
	y += 28

	addLabel(img, x, y+11, "T:", textColor)
	drawBar(img, x+24, y, r.params.CooledFraction(s.Temperature), coolRed)
	y += barHeight + 10

	xiColor := preBlue
	if s.Xi >= r.params.XiCritical {
		xiColor = postGreen
	} else if s.Xi > r.params.XiCritical*0.7 {
		xiColor = warnAmber
	}
	addLabel(img, x, y+11, "xi:", textColor)
	drawBar(img, x+24, y, r.params.XiFraction(s.Xi), xiColor)
	y += barHeight + 24

	if chartImg := historyChart(tempHist, xiHist); chartImg != nil {
		draw.Draw(img,
			image.Rect(x, y, x+panelWidth-2*margin, y+chartHeight),
			chartImg, chartImg.Bounds().Min, draw.Src)
	}
}

func drawBar(img *image.RGBA, x, y int, frac float64, fill color.RGBA) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	bg := image.Rect(x, y, x+barLength, y+barHeight)
	draw.Draw(img, bg, &image.Uniform{mutedGray}, image.Point{}, draw.Src)
	fg := image.Rect(x, y, x+int(frac*float64(barLength)), y+barHeight)
	draw.Draw(img, fg, &image.Uniform{fill}, image.Point{}, draw.Src)
}

// historyChart renders the temperature and correlation-length traces with
// go-chart and hands them back as an image to composite into the panel.
func historyChart(tempHist, xiHist []float64) image.Image {
	if len(tempHist) < 2 || len(xiHist) < 2 {
		return nil
	}
	xs := make([]float64, len(tempHist))
	for i := range xs {
		xs[i] = float64(i)
	}
	graph := chart.Chart{
		Width:  panelWidth - 2*margin,
		Height: chartHeight,
		Background: chart.Style{
			FillColor: drawing.Color{R: 0x0a, G: 0x0a, B: 0x0a, A: 0xff},
		},
		Canvas: chart.Style{
			FillColor: drawing.Color{R: 0x0a, G: 0x0a, B: 0x0a, A: 0xff},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "temperature",
				XValues: xs,
				YValues: tempHist,
				Style:   chart.Style{StrokeColor: drawing.Color{R: 0xff, G: 0x45, B: 0x00, A: 0xff}},
			},
			chart.ContinuousSeries{
				Name:    "xi",
				XValues: xs[:len(xiHist)],
				YValues: xiHist,
				Style:   chart.Style{StrokeColor: drawing.Color{R: 0x36, G: 0x8c, B: 0xff, A: 0xff}},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil
	}
	return img
}

// addLabel draws a text label onto the image at the given baseline position.
func addLabel(img *image.RGBA, x, y int, label string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}

// SavePNG writes a frame to disk.
func SavePNG(img *image.RGBA, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
