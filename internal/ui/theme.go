package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dex/internal/prefs"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Per-type badge colors keyed by catalog type name.
	TypeColors map[string]string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Surface: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)).
			Padding(1, 2),

		typeColors: t.TypeColors,
		background: t.Background,
		muted:      t.Muted,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Surface lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
	Modal    lipgloss.Style

	typeColors map[string]string
	background string
	muted      string
}

// TypeStyle returns a badge style for a catalog type name.
func (s Styles) TypeStyle(typ string) lipgloss.Style {
	color := s.typeColors[typ]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// ThemeFor returns the palette for a stored theme preference.
func ThemeFor(t prefs.Theme) Theme {
	if t.IsDark() {
		return nightfoxTheme()
	}
	return dayfoxTheme()
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Dark",

		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		SurfaceAlt: "#212e3f", // bg2

		SelectionBg:   "#2b3b51", // sel0
		SelectionText: "#cdcecf", // fg1

		Border:      "#39506d", // bg4
		BorderFocus: "#719cd6", // blue

		Text:    "#cdcecf",
		Muted:   "#738091",
		Faint:   "#71839b",
		Accent:  "#719cd6",
		Success: "#81b29a",
		Warning: "#dbc074",
		Danger:  "#c94f6d",
		Info:    "#63cdcf",

		TypeColors: map[string]string{
			"normal":   "#738091",
			"fire":     "#f4a261",
			"water":    "#719cd6",
			"grass":    "#81b29a",
			"electric": "#dbc074",
			"ice":      "#63cdcf",
			"fighting": "#c94f6d",
			"poison":   "#9d79d6",
			"ground":   "#d67ad2",
			"psychic":  "#d67ad2",
			"bug":      "#81b29a",
			"ghost":    "#9d79d6",
			"dragon":   "#719cd6",
			"dark":     "#71839b",
			"steel":    "#71839b",
			"fairy":    "#d67ad2",
		},
	}
}

func dayfoxTheme() Theme {
	// Dayfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Light",

		Background: "#e4dcd4", // bg0
		Surface:    "#f6f2ee", // bg1
		SurfaceAlt: "#dbd1dd", // bg2

		SelectionBg:   "#e7d2be", // sel0
		SelectionText: "#3d2b5a", // fg1

		Border:      "#aab0ad", // bg4
		BorderFocus: "#2848a9", // blue

		Text:    "#3d2b5a",
		Muted:   "#837a72",
		Faint:   "#824d5b",
		Accent:  "#2848a9",
		Success: "#396847",
		Warning: "#ac5402",
		Danger:  "#a5222f",
		Info:    "#287980",

		TypeColors: map[string]string{
			"normal":   "#837a72",
			"fire":     "#955f61",
			"water":    "#2848a9",
			"grass":    "#396847",
			"electric": "#ac5402",
			"ice":      "#287980",
			"fighting": "#a5222f",
			"poison":   "#6e33ce",
			"ground":   "#a440b5",
			"psychic":  "#a440b5",
			"bug":      "#396847",
			"ghost":    "#6e33ce",
			"dragon":   "#2848a9",
			"dark":     "#824d5b",
			"steel":    "#824d5b",
			"fairy":    "#a440b5",
		},
	}
}
