// Package gui is the windowed front end: the same cooling field the TUI
// shows, drawn per-cell with raylib at full resolution.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/quench/internal/render"
	"github.com/san-kum/quench/internal/universe"
)

var (
	colBg      = rl.NewColor(10, 10, 10, 255)
	colText    = rl.NewColor(200, 200, 200, 255)
	colMuted   = rl.NewColor(100, 100, 100, 255)
	colBarBg   = rl.NewColor(50, 50, 50, 255)
	colCooling = rl.NewColor(255, 69, 0, 255)
	colPre     = rl.NewColor(54, 140, 255, 255)
	colWarn    = rl.NewColor(255, 170, 0, 255)
	colPost    = rl.NewColor(46, 213, 115, 255)
)

const (
	cellPx     = 5
	panelWidth = 360
	barLength  = panelWidth - 80
)

// Run opens the window and drives the universe until it is closed.
// Keys: space pauses, R resets.
func Run(uni *universe.Universe, stepsPerTick int) {
	p := uni.Params()
	fieldPx := int32(p.Size * cellPx)
	width := fieldPx + panelWidth
	height := fieldPx

	rl.InitWindow(width, height, "quench - universe bootstrap")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	running := true
	var simErr error

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			running = !running
		}
		if rl.IsKeyPressed(rl.KeyR) {
			uni.Reset()
			simErr = nil
			running = true
		}

		if running && simErr == nil {
			for i := 0; i < stepsPerTick; i++ {
				if _, err := uni.Step(); err != nil {
					simErr = err
					running = false
					break
				}
			}
		}

		s := uni.Snapshot()

		rl.BeginDrawing()
		rl.ClearBackground(colBg)
		drawField(s)
		drawPanel(fieldPx, p, s, running, simErr)
		rl.EndDrawing()
	}
}

func drawField(s universe.Snapshot) {
	n := s.Field.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := render.HeatColor(s.Field.At(x, y))
			rl.DrawRectangle(int32(x*cellPx), int32(y*cellPx), cellPx, cellPx,
				rl.NewColor(c.R, c.G, c.B, 255))
		}
	}
}

func drawPanel(left int32, p universe.Params, s universe.Snapshot, running bool, simErr error) {
	x := left + 20
	y := int32(20)

	rl.DrawText("UNIVERSE BOOTSTRAP", x, y, 20, colText)
	y += 40

	phase := p.Phase(s)
	phaseColor := colPre
	switch phase {
	case universe.PhasePost:
		phaseColor = colPost
	case universe.PhaseApproaching:
		phaseColor = colWarn
	}
	rl.DrawText(phase.String(), x, y, 18, phaseColor)
	y += 40

	rl.DrawText(fmt.Sprintf("time  %d", s.Time), x, y, 16, colText)
	y += 24
	rl.DrawText(fmt.Sprintf("T     %.2f", s.Temperature), x, y, 16, colText)
	y += 24
	rl.DrawText(fmt.Sprintf("xi    %.2f / %.1f", s.Xi, p.XiCritical), x, y, 16, colText)
	y += 36

	rl.DrawText("T", x, y, 14, colMuted)
	drawBar(x+24, y, p.CooledFraction(s.Temperature), colCooling)
	y += 28

	xiColor := colPre
	if s.Xi >= p.XiCritical {
		xiColor = colPost
	} else if s.Xi > p.XiCritical*0.7 {
		xiColor = colWarn
	}
	rl.DrawText("xi", x, y, 14, colMuted)
	drawBar(x+24, y, p.XiFraction(s.Xi), xiColor)
	y += 40

	if simErr != nil {
		rl.DrawText(simErr.Error(), x, y, 14, colCooling)
		y += 24
	} else if !running {
		rl.DrawText("PAUSED", x, y, 16, colMuted)
		y += 24
	}

	rl.DrawText("SPACE pause  R reset", x, y, 12, colMuted)
}

func drawBar(x, y int32, frac float64, fill rl.Color) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	rl.DrawRectangle(x, y, barLength, 12, colBarBg)
	rl.DrawRectangle(x, y, int32(frac*float64(barLength)), 12, fill)
}
