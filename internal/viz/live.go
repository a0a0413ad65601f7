package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/quench/internal/universe"
)

const (
	heatmapCols  = 56
	heatmapRows  = 28
	graphSamples = 120
	barWidth     = 24
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model is the bubbletea program driving the live animation: a fixed number
// of simulation steps per display tick, then a render of the snapshot.
type Model struct {
	uni          *universe.Universe
	params       universe.Params
	stepsPerTick int
	fps          int
	running      bool
	showHelp     bool
	err          error
	flashUntil   int
}

func NewModel(uni *universe.Universe, stepsPerTick, fps int) Model {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	if fps < 1 {
		fps = 30
	}
	return Model{
		uni:          uni,
		params:       uni.Params(),
		stepsPerTick: stepsPerTick,
		fps:          fps,
		running:      true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.uni.Reset()
			m.err = nil
			m.flashUntil = 0
			m.running = true
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.stepsPerTick; i++ {
				fired, err := m.uni.Step()
				if fired {
					// Hold the announcement on screen for a moment.
					m.flashUntil = m.uni.Snapshot().Time + m.stepsPerTick*m.fps
				}
				if err != nil {
					m.err = err
					m.running = false
					break
				}
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	theme := CurrentTheme
	s := m.uni.Snapshot()
	phase := m.params.Phase(s)

	canvasView := canvasStyle.Render(Heatmap(s.Field, heatmapCols, heatmapRows, theme))

	var b strings.Builder
	b.WriteString(headerStyle.Render("UNIVERSE BOOTSTRAP") + "\n")

	statusStyle := lipgloss.NewStyle().Bold(true)
	switch phase {
	case universe.PhasePost:
		b.WriteString(statusStyle.Foreground(theme.Post).Render("⚡ "+phase.String()) + "\n")
		if s.Time < m.flashUntil {
			b.WriteString(statusStyle.Foreground(theme.Post).Render("   BOOTSTRAP!") + "\n")
		}
	case universe.PhaseApproaching:
		b.WriteString(statusStyle.Foreground(theme.Warn).Render("⚠ "+phase.String()) + "\n")
	default:
		b.WriteString(statusStyle.Foreground(theme.Pre).Render("❄ "+phase.String()) + "\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Muted).Italic(true).Render(phaseCaption(phase)) + "\n\n")

	b.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%d steps", s.Time)) + "\n")
	b.WriteString(labelStyle.Render("Temperature") + valueStyle.Render(fmt.Sprintf("%.2f", s.Temperature)) + "\n")
	b.WriteString(labelStyle.Render("Correlation ξ") + valueStyle.Render(fmt.Sprintf("%.2f / %.1f", s.Xi, m.params.XiCritical)) + "\n")

	xiHist := m.uni.XiHistory()
	if len(xiHist) > graphSamples {
		xiHist = xiHist[len(xiHist)-graphSamples:]
	}
	if len(xiHist) > 1 {
		chart := asciigraph.Plot(xiHist, asciigraph.Height(4), asciigraph.Width(32), asciigraph.Caption("correlation length"))
		b.WriteString(graphStyle.Render(chart) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("T cooled") + bar(m.params.CooledFraction(s.Temperature), theme.Accent) + "\n")

	xiColor := theme.Accent
	if s.Xi >= m.params.XiCritical {
		xiColor = theme.Post
	} else if s.Xi > m.params.XiCritical*0.7 {
		xiColor = theme.Warn
	}
	b.WriteString(labelStyle.Render("ξ / critical") + bar(m.params.XiFraction(s.Xi), xiColor) + "\n")

	if m.err != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.err.Error()) + "\n")
	} else if !m.running {
		b.WriteString("\n" + valueStyle.Render("PAUSED") + "\n")
	}

	b.WriteString(helpStyle.Render("SP:Pause R:Reset T:Theme ?:Help Q:Quit"))

	statsView := statsStyle.Render(b.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func phaseCaption(p universe.Phase) string {
	switch p {
	case universe.PhasePost:
		return "Reality stabilized.\nStructures persist."
	case universe.PhaseApproaching:
		return "Correlation length growing...\nBootstrap imminent."
	default:
		return "Pure potential.\nRandom fluctuations."
	}
}

func bar(frac float64, c lipgloss.Color) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(barWidth))
	fill := lipgloss.NewStyle().Foreground(c).Render(strings.Repeat("█", filled))
	return "[" + fill + strings.Repeat("─", barWidth-filled) + "]"
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset to hot noise       ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
