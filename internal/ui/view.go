package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/state"
)

// Header, search bar, status line and footer.
const chromeRows = 4

const nameWidth = 18

func (m Model) listHeight() int {
	return max(m.height-chromeRows, 1)
}

// renderMain renders the list screen.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSearchBar())
	b.WriteString("\n")
	b.WriteString(m.renderRows())
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	tab := func(label string, count int, active bool) string {
		text := fmt.Sprintf("%s (%d)", label, count)
		if active {
			return styles.AccentText.Bold(true).Render("[" + text + "]")
		}
		return styles.MutedText.Render(" " + text + " ")
	}

	left := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Logo.Render("DEX"),
		"  ",
		tab("All", len(m.snapshot.Records), m.view == ViewAll),
		" ",
		tab("Favorites", len(m.snapshot.Favorites), m.view == ViewFavorites),
	)
	right := styles.FaintText.Render(m.theme.Name)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderSearchBar() string {
	styles := m.theme.Styles()
	if m.view == ViewFavorites {
		return styles.MutedText.Render("Favorites")
	}
	if m.search.Focused() || m.search.Value() != "" {
		return m.search.View()
	}
	return styles.FaintText.Render("/ to search")
}

func (m Model) renderRows() string {
	styles := m.theme.Styles()
	rows := m.rows()
	height := m.listHeight()

	var b strings.Builder
	written := 0
	if len(rows) == 0 {
		b.WriteString(styles.MutedText.Render(m.emptyMessage()))
		b.WriteString("\n")
		written++
	}
	end := min(m.offset+height, len(rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(rows[i], i == m.selected))
		b.WriteString("\n")
		written++
	}
	for ; written < height; written++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(rec catalog.Record, selected bool) string {
	styles := m.theme.Styles()

	star := "  "
	if m.snapshot.IsFavorite(rec.ID) {
		star = styles.WarningText.Render("★ ")
	}
	name := fmt.Sprintf("#%03d %-*s", rec.ID, nameWidth, truncate(rec.DisplayName(), nameWidth))
	if selected {
		name = styles.Selected.Render(name)
	} else {
		name = styles.Text.Render(name)
	}

	badges := make([]string, 0, len(rec.Types))
	for _, typ := range rec.Types {
		badges = append(badges, styles.TypeStyle(typ).Render(typ))
	}
	return star + name + " " + strings.Join(badges, " ")
}

func (m Model) emptyMessage() string {
	if m.view == ViewFavorites {
		switch {
		case m.snapshot.FavoritesLoading:
			return "Loading favorites..."
		case len(m.snapshot.Favorites) == 0:
			return "No favorites yet. Press f on a record to add one."
		}
		return "Favorites could not be loaded."
	}
	if m.snapshot.Search == state.SearchEmpty {
		return fmt.Sprintf("No results for %q.", m.snapshot.ResultsFor)
	}
	return ""
}

func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	if m.view == ViewFavorites {
		if snap.FavoritesLoading {
			return m.spinner.View() + styles.MutedText.Render(" Loading favorites")
		}
		return styles.FaintText.Render(fmt.Sprintf("%d favorites", len(snap.FavoriteRecords)))
	}

	switch snap.Search {
	case state.SearchDebouncing, state.SearchSearching:
		return m.spinner.View() + styles.MutedText.Render(" Searching")
	case state.SearchEmpty:
		if len(snap.Suggestions) > 0 {
			return styles.WarningText.Render("Did you mean: " + strings.Join(snap.Suggestions, ", "))
		}
		return styles.WarningText.Render("No matches")
	case state.SearchFailed:
		return styles.DangerText.Render("Search failed")
	case state.SearchResults:
		label := "matches"
		if snap.Mode == state.MatchRemote {
			label = "remote matches"
		}
		return styles.FaintText.Render(fmt.Sprintf("%d %s for %q", len(snap.Results), label, snap.ResultsFor))
	}

	switch snap.Page {
	case state.PageLoading:
		return m.spinner.View() + styles.MutedText.Render(" Loading")
	case state.PageFailed:
		msg := "Failed to load"
		if snap.PageErr != nil {
			msg += ": " + snap.PageErr.Error()
		}
		return styles.DangerText.Render(truncate(msg, max(m.width-20, 10))) + styles.MutedText.Render(" (r to retry)")
	}
	if !snap.Cursor.HasMore {
		return styles.FaintText.Render(fmt.Sprintf("%d records, end of list", len(snap.Records)))
	}
	return styles.FaintText.Render(fmt.Sprintf("%d records", len(snap.Records)))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, styles.AccentText.Render(h.Key)+" "+h.Desc)
	}
	return styles.Footer.Width(m.width).Render(strings.Join(parts, "  "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
