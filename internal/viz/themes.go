package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the TUI. Palette is the diverging field
// colormap, low to high.
type Theme struct {
	Name    string
	Palette []lipgloss.Color
	Pre     lipgloss.Color
	Warn    lipgloss.Color
	Post    lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
}

var (
	// ThemeTwilight mimics the original twilight colormap: dark violet
	// through pale center back to dark red.
	ThemeTwilight = Theme{
		Name: "twilight",
		Palette: []lipgloss.Color{
			"#30123b", "#45306e", "#5f5a9c", "#8b8bc0", "#c2c2d6",
			"#e8e0d0", "#d6a489", "#bc6a52", "#93362c", "#5c0e14",
		},
		Pre:    lipgloss.Color("#5fa8ff"),
		Warn:   lipgloss.Color("#ffaa00"),
		Post:   lipgloss.Color("#00ff88"),
		Text:   lipgloss.Color("#e0e0e0"),
		Muted:  lipgloss.Color("#666666"),
		Accent: lipgloss.Color("#00a8cc"),
	}

	ThemeRetro = Theme{
		Name: "retro",
		Palette: []lipgloss.Color{
			"#001100", "#003300", "#005500", "#007700", "#009900",
			"#00bb00", "#00dd00", "#00ff00", "#88ff88", "#ccffcc",
		},
		Pre:    lipgloss.Color("#00cc00"),
		Warn:   lipgloss.Color("#ffff00"),
		Post:   lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Accent: lipgloss.Color("#00cc00"),
	}

	ThemeMinimal = Theme{
		Name: "minimal",
		Palette: []lipgloss.Color{
			"#111111", "#2a2a2a", "#444444", "#5e5e5e", "#787878",
			"#929292", "#acacac", "#c6c6c6", "#e0e0e0", "#fafafa",
		},
		Pre:    lipgloss.Color("#0088ff"),
		Warn:   lipgloss.Color("#ffaa00"),
		Post:   lipgloss.Color("#00ff00"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Accent: lipgloss.Color("#cccccc"),
	}

	CurrentTheme = ThemeTwilight

	Themes = []Theme{ThemeTwilight, ThemeRetro, ThemeMinimal}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeTwilight
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
