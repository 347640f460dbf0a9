package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column width bounds, chosen so every column stays readable on narrow
// terminals while wide terminals get full IPv6 addresses and long domains.
const (
	minColAuditID   = 12
	minColTimestamp = 16
	minColDomain    = 15
	minColClientIP  = 15
	minColStatus    = 6
	minColRuleIDs   = 10

	prefColAuditID   = 24
	prefColTimestamp = 19
	prefColDomain    = 40
	prefColClientIP  = 39
	prefColStatus    = 6
)

const tableTimeLayout = "2006-01-02 15:04:05"

func (b *BrowserPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	b.width, b.height = width, height

	if b.mode == modeDetail {
		return b.viewDetail(width, height)
	}
	base := b.viewTable(width, height)
	if b.statsOpen {
		return b.viewStats(width, height)
	}
	return base
}

func (b *BrowserPage) viewTable(width, height int) string {
	s := CurrentSkin()

	title := boxedLine(width, lipgloss.NewStyle().Foreground(s.Title).Bold(true),
		s.Border, "waftrail — WAF Audit Log Examiner")

	table := b.renderTable(width)
	info := boxedLine(width, lipgloss.NewStyle().Foreground(s.Label), s.Border, b.infoLine())
	help := boxedLine(width, lipgloss.NewStyle().Foreground(s.HelpText), s.Border, b.helpLine())

	parts := []string{title, table, info, help}
	if b.searchActive {
		searchStyle := lipgloss.NewStyle().Foreground(s.SearchHighlight)
		parts = append(parts, boxedLine(width, searchStyle, s.Title, b.searchInput.View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// tableHeight returns how many data rows fit in the table box.
func (b *BrowserPage) tableHeight() int {
	chrome := 3 + 3 + 3 // title, info, help boxes
	if b.searchActive {
		chrome += 3
	}
	h := b.height - chrome - 3 // table borders and header row
	if h < 1 {
		h = 1
	}
	return h
}

func (b *BrowserPage) detailHeight() int {
	h := b.height - 3 - 3 - 3 // title, info, help
	if h < 1 {
		h = 1
	}
	return h
}

func (b *BrowserPage) renderTable(width int) string {
	s := CurrentSkin()
	widths := columnWidths(width - 2)

	headerStyle := lipgloss.NewStyle().Foreground(s.Header).Bold(true)
	header := renderRow(widths, headerStyle, headerStyle, headerStyle, headerStyle, headerStyle, headerStyle,
		"Audit ID", "Timestamp", "Domain", "Client IP", "Status", "Rule IDs")

	visible := b.tableHeight()
	rows := make([]string, 0, visible+1)
	rows = append(rows, header)

	for i := b.scroll; i < len(b.view) && i < b.scroll+visible; i++ {
		g := b.index.Group(b.view[i])
		if g == nil {
			continue
		}

		ts := ""
		if !g.Timestamp.IsZero() {
			ts = g.Timestamp.Format(tableTimeLayout)
		}
		status := "N/A"
		if g.HasStatus() {
			status = fmt.Sprintf("%d", g.Status)
		}
		id := g.TransactionID
		if g.Incomplete {
			id = "~" + id
		}

		var row string
		if i == b.selected {
			sel := lipgloss.NewStyle().Background(s.SelectedBg).Foreground(s.SelectedFg).Bold(true)
			row = renderRow(widths, sel, sel, sel, sel, sel, sel,
				id, ts, g.Host, g.ClientAddr, status, summarizeRules(g.RuleIDs))
		} else {
			row = renderRow(widths,
				lipgloss.NewStyle().Foreground(s.AuditID),
				lipgloss.NewStyle().Foreground(s.Timestamp),
				lipgloss.NewStyle().Foreground(s.Domain),
				lipgloss.NewStyle().Foreground(s.ClientIP),
				lipgloss.NewStyle().Foreground(s.StatusColor(g.Status)),
				lipgloss.NewStyle().Foreground(s.RuleID),
				id, ts, g.Host, g.ClientAddr, status, summarizeRules(g.RuleIDs))
		}
		rows = append(rows, row)
	}

	body := strings.Join(rows, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.Border).
		Width(width - 2).
		Height(b.tableHeight() + 1).
		Render(body)
}

// columnWidths distributes the available width over the six columns,
// growing each toward its preferred width when space allows.
func columnWidths(available int) [6]int {
	available -= 5 // column separators

	widths := [6]int{minColAuditID, minColTimestamp, minColDomain, minColClientIP, minColStatus, minColRuleIDs}
	totalMin := 0
	for _, w := range widths {
		totalMin += w
	}
	if available <= totalMin {
		return widths
	}

	extra := available - totalMin
	grow := func(i, pref int) {
		g := pref - widths[i]
		if g > extra/6 {
			g = extra / 6
		}
		widths[i] += g
	}
	grow(0, prefColAuditID)
	grow(1, prefColTimestamp)
	grow(2, prefColDomain)
	grow(3, prefColClientIP)
	grow(4, prefColStatus)
	// Rule ids take whatever is left.
	used := 0
	for _, w := range widths[:5] {
		used += w
	}
	if rest := available - used; rest > widths[5] {
		widths[5] = rest
	}
	return widths
}

func renderRow(widths [6]int, s0, s1, s2, s3, s4, s5 lipgloss.Style, cells ...string) string {
	styles := []lipgloss.Style{s0, s1, s2, s3, s4, s5}
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = styles[i].Render(padOrTruncate(cell, widths[i]))
	}
	return strings.Join(parts, " ")
}

func padOrTruncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}

// summarizeRules shows the first three rule ids plus a count of the rest.
func summarizeRules(ids []string) string {
	if len(ids) > 3 {
		return fmt.Sprintf("%s (+%d)", strings.Join(ids[:3], ", "), len(ids)-3)
	}
	return strings.Join(ids, ", ")
}

func (b *BrowserPage) infoLine() string {
	g := b.selectedGroup()
	if g == nil {
		return fmt.Sprintf("Entries: %d • No entry selected", len(b.view))
	}
	rule := "N/A"
	if len(g.RuleIDs) > 0 {
		rule = g.RuleIDs[0]
	}
	file := "N/A"
	if g.FilePath != "" {
		file = g.FilePath
	}
	extra := ""
	if g.Incomplete {
		extra = " • incomplete"
	}
	if b.refreshing {
		extra += " • refreshing…"
	}
	return fmt.Sprintf("Entries: %d • File: %s • Rule ID: %s%s", len(b.view), file, rule, extra)
}

func (b *BrowserPage) helpLine() string {
	if b.searchActive {
		return "ESC: Cancel search • Enter: Apply"
	}
	if b.statsOpen {
		return "ESC/i: Close stats"
	}
	if b.mode == modeDetail {
		return "↑/↓: Scroll • ←/→: Prev/Next entry • PgUp/PgDn: Page • ESC/q: Back"
	}
	return "↑/↓: Navigate • Enter: Details • /: Search • i: Stats • r/F5: Refresh • q: Quit"
}

// boxedLine renders one centered line inside a full-width border box.
func boxedLine(width int, style lipgloss.Style, border lipgloss.Color, text string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Width(width - 2).
		Render(lipgloss.PlaceHorizontal(width-2, lipgloss.Center, style.Render(text)))
}
