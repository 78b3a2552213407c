package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wpstores/internal/site"
)

const (
	idWidth   = 10
	nameWidth = 28
	urlWidth  = 40
)

// View implements tea.Model.
func (m Model) View() string {
	styles := m.theme.Styles()
	parts := []string{
		m.renderHeader(styles),
		m.renderTable(styles),
	}
	if m.status != "" {
		parts = append(parts, styles.DangerText.Render(m.status))
	}
	parts = append(parts, styles.Footer.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader(styles Styles) string {
	items := []string{styles.Logo.Render("wpstores")}
	items = append(items, fmt.Sprintf("%d sites", len(m.snapshot.Sites)))

	switch {
	case m.fetching:
		items = append(items, m.spinner.View()+" fetching")
	case m.snapshot.IsOffline():
		items = append(items, "offline")
	case !m.snapshot.LastUpdated.IsZero():
		items = append(items, "updated "+m.snapshot.LastUpdated.Format("15:04:05"))
	}

	header := styles.Header
	if m.width > 0 {
		header = header.Width(m.width)
	}
	return header.Render(strings.Join(items, "  "))
}

func (m Model) renderTable(styles Styles) string {
	if len(m.snapshot.Sites) == 0 {
		msg := "No sites yet."
		if m.fetching {
			msg = "Loading sites..."
		}
		return styles.Table.Render(styles.MutedText.Render(msg))
	}

	rows := []string{styles.AccentText.Render(formatRow("ID", "NAME", "URL"))}
	for i, s := range m.snapshot.Sites {
		line := formatRow(strconv.FormatInt(s.SiteID, 10), s.Name, s.URL)
		if i == m.selected {
			line = styles.Selected.Render(line)
		} else {
			line = styles.Text.Render(line)
		}
		rows = append(rows, line+" "+renderBadges(styles, s))
	}
	return styles.Table.Render(strings.Join(rows, "\n"))
}

func formatRow(id, name, url string) string {
	return fmt.Sprintf("%-*s %-*s %-*s",
		idWidth, truncate(id, idWidth),
		nameWidth, truncate(name, nameWidth),
		urlWidth, truncate(url, urlWidth))
}

// siteBadges lists the flags shown next to a site.
func siteBadges(s site.SiteModel) []string {
	var flags []string
	if s.IsVisible {
		flags = append(flags, "public")
	} else {
		flags = append(flags, "hidden")
	}
	if s.IsJetpack {
		flags = append(flags, "jetpack")
	} else if s.IsWPCom {
		flags = append(flags, "wpcom")
	}
	return flags
}

func renderBadges(styles Styles, s site.SiteModel) string {
	flags := siteBadges(s)
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = styles.Badge(f)
	}
	return strings.Join(out, " ")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
