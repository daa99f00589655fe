package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/detail"
)

const detailModalWidth = 60

func (m *Model) resizeDetailViewport() {
	width := min(detailModalWidth, max(m.width-6, 20))
	height := max(m.height-8, 3)
	if m.detailViewport.Width == 0 {
		m.detailViewport = viewport.New(width, height)
	} else {
		m.detailViewport.Width = width
		m.detailViewport.Height = height
	}
	m.updateDetailViewport()
}

func (m *Model) updateDetailViewport() {
	if m.detailViewport.Width == 0 || m.detail.Record == nil {
		return
	}
	m.detailViewport.SetContent(m.detailContent())
}

// detailContent renders the record body shown inside the overlay.
func (m Model) detailContent() string {
	styles := m.theme.Styles()
	rec := m.detail.Record
	if rec == nil {
		return ""
	}

	var b strings.Builder
	title := fmt.Sprintf("%s  #%03d", rec.DisplayName(), rec.ID)
	b.WriteString(styles.Text.Bold(true).Render(title))
	if m.snapshot.IsFavorite(rec.ID) {
		b.WriteString(" ")
		b.WriteString(styles.WarningText.Render("★"))
	}
	b.WriteString("\n\n")

	badges := make([]string, 0, len(rec.Types))
	for _, typ := range rec.Types {
		badges = append(badges, styles.TypeStyle(typ).Render(typ))
	}
	b.WriteString(strings.Join(badges, " "))
	b.WriteString("\n\n")

	field := func(label, value string) {
		b.WriteString(styles.MutedText.Width(11).Render(label))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}
	field("Height", formatTenths(rec.Height, "m"))
	field("Weight", formatTenths(rec.Weight, "kg"))
	if len(rec.Abilities) > 0 {
		field("Abilities", strings.Join(titleAll(rec.Abilities), ", "))
	}
	if rec.ImageURL != "" {
		field("Artwork", rec.ImageURL)
	}
	b.WriteString("\n")

	switch m.detail.Phase {
	case detail.Loading:
		b.WriteString(m.spinner.View())
		b.WriteString(styles.MutedText.Render(" Loading description"))
	case detail.Failed:
		b.WriteString(styles.FaintText.Render(m.detail.Description))
	default:
		b.WriteString(lipgloss.NewStyle().Width(m.detailViewport.Width).Render(m.detail.Description))
	}
	return b.String()
}

// renderDetail renders the detail overlay centered on screen.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	footer := styles.FaintText.Render("esc close  f favorite  j/k scroll")
	content := lipgloss.JoinVertical(lipgloss.Left, m.detailViewport.View(), "", footer)
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		styles.Modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// formatTenths renders a value stored in tenths of unit, e.g. 69 -> "6.9 kg".
func formatTenths(v int, unit string) string {
	return fmt.Sprintf("%d.%d %s", v/10, v%10, unit)
}

func titleAll(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = catalog.Record{Name: name}.DisplayName()
	}
	return out
}
