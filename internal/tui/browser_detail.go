package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (b *BrowserPage) viewDetail(width, height int) string {
	s := CurrentSkin()
	g := b.selectedGroup()
	if g == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(s.HelpText).Render("No entry selected"))
	}

	title := boxedLine(width, lipgloss.NewStyle().Foreground(s.Title).Bold(true), s.Border,
		fmt.Sprintf("Audit Chain: %s | %s | %s", g.TransactionID, g.Host, g.ClientAddr))

	b.detailVP.Width = width - 2
	b.detailVP.Height = b.detailHeight() - 2
	body := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.Border).
		Width(width - 2).
		Render(b.detailVP.View())

	info := boxedLine(width, lipgloss.NewStyle().Foreground(s.Label), s.Border, b.infoLine())
	help := boxedLine(width, lipgloss.NewStyle().Foreground(s.HelpText), s.Border, b.helpLine())

	return lipgloss.JoinVertical(lipgloss.Left, title, body, info, help)
}

// setDetailContent rebuilds the detail viewport: the verbatim section
// content, colorized line by line, followed by the geolocation block when
// a lookup is enabled.
func (b *BrowserPage) setDetailContent() {
	g := b.selectedGroup()
	if g == nil {
		b.detailVP.SetContent("")
		return
	}
	s := CurrentSkin()

	var lines []string
	for _, sec := range b.index.RawContent(b.view[b.selected]) {
		lines = append(lines, colorizeContent(sec.Content, s)...)
		lines = append(lines, "")
	}

	switch {
	case b.geoPending:
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(s.HelpText).Italic(true).Render("Looking up client address…"))
	case b.geoErr != nil:
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(s.Status5xx).Render("Geolocation lookup failed: "+b.geoErr.Error()))
	case b.geoJSON != "":
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(s.Label).Bold(true).Render("IP Geolocation & Network Information"),
			"")
		lines = append(lines, colorizeJSON(b.geoJSON, s)...)
	}

	b.detailVP.SetContent(strings.Join(lines, "\n"))
}

// colorizeContent styles the raw section lines by what they are: request
// lines, notable headers, engine messages, rule-id hits, boundary markers,
// and status lines.
func colorizeContent(content string, s *Skin) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		switch {
		case hasMethodPrefix(line):
			out = append(out, lipgloss.NewStyle().Foreground(s.HTTPMethod).Bold(true).Render(line))
		case strings.HasPrefix(lower, "host:"):
			out = append(out, colorizeHeader(line, s.HostHeader, s))
		case strings.HasPrefix(lower, "user-agent:"):
			out = append(out, colorizeHeader(line, s.UserAgent, s))
		case strings.Contains(line, "ModSecurity") || strings.Contains(line, "OWASP"):
			out = append(out, lipgloss.NewStyle().Foreground(s.EngineMessage).Bold(true).Render(line))
		case strings.Contains(line, `[id "`):
			out = append(out, lipgloss.NewStyle().Foreground(s.RuleIDDetail).Bold(true).Render(line))
		case strings.HasPrefix(line, "HTTP/"):
			out = append(out, lipgloss.NewStyle().Foreground(s.HTTPStatus).Bold(true).Render(line))
		case strings.HasPrefix(line, "--") && len(line) > 20:
			out = append(out, lipgloss.NewStyle().Foreground(s.Boundary).Render(line))
		default:
			out = append(out, line)
		}
	}
	return out
}

func hasMethodPrefix(line string) bool {
	for _, m := range []string{"GET ", "POST ", "PUT ", "DELETE ", "PATCH ", "HEAD ", "OPTIONS "} {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}

func colorizeHeader(line string, valueColor lipgloss.Color, s *Skin) string {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return line
	}
	return lipgloss.NewStyle().Foreground(s.Label).Bold(true).Render(name+":") +
		lipgloss.NewStyle().Foreground(valueColor).Render(value)
}

// colorizeJSON gives the pretty-printed geolocation payload light syntax
// coloring: keys, string/number/bool values, braces.
func colorizeJSON(pretty string, s *Skin) []string {
	var out []string
	for _, line := range strings.Split(pretty, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "}"):
			out = append(out, lipgloss.NewStyle().Foreground(s.Boundary).Render(line))
		case strings.HasPrefix(trimmed, `"`) && strings.Contains(line, ":"):
			keyPart, valuePart, _ := strings.Cut(line, ":")
			value := strings.TrimSuffix(strings.TrimSpace(valuePart), ",")
			var valueColor lipgloss.Color
			switch {
			case strings.HasPrefix(value, `"`):
				valueColor = s.HostHeader
			case value == "true" || value == "false":
				valueColor = s.HTTPMethod
			case value == "null":
				valueColor = s.Boundary
			default:
				valueColor = s.Timestamp
			}
			out = append(out,
				lipgloss.NewStyle().Foreground(s.Label).Bold(true).Render(keyPart+":")+
					lipgloss.NewStyle().Foreground(valueColor).Render(valuePart))
		default:
			out = append(out, line)
		}
	}
	return out
}
