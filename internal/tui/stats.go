package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// statusBucket aggregates one status class for the stats modal.
type statusBucket struct {
	label string
	count int
	color lipgloss.Color
}

// ruleCount is one rule id with its match count across the filtered view.
type ruleCount struct {
	id    string
	count int
}

const topRuleLimit = 8

// viewStats renders the stats modal over the current filtered view: the
// status-class distribution and the most-triggered rules.
func (b *BrowserPage) viewStats(width, height int) string {
	s := CurrentSkin()

	modalWidth := width - 8
	modalHeight := height - 6
	if modalWidth < 30 || modalHeight < 12 {
		return b.viewTable(width, height)
	}
	contentWidth := modalWidth - 4

	header := lipgloss.NewStyle().Foreground(s.Header).Bold(true).
		Render(fmt.Sprintf("Statistics — %d entries in view", len(b.view)))

	statuses := b.statusBuckets()
	rules := b.topRules(topRuleLimit)

	chartHeight := (modalHeight - 10) / 2
	if chartHeight < 4 {
		chartHeight = 4
	}

	statusTitle := lipgloss.NewStyle().Foreground(s.Label).Bold(true).Render("HTTP Status Classes")
	statusChart := renderStatusChart(statuses, contentWidth, chartHeight)

	rulesTitle := lipgloss.NewStyle().Foreground(s.Label).Bold(true).Render("Top Triggered Rules")
	rulesChart := renderRulesChart(rules, contentWidth, chartHeight, s)

	footer := lipgloss.NewStyle().Foreground(s.HelpText).Render("ESC/i: Close")

	body := lipgloss.JoinVertical(lipgloss.Left,
		header, "", statusTitle, statusChart, "", rulesTitle, rulesChart, "", footer)

	modal := lipgloss.NewStyle().
		Width(modalWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Title).
		Padding(0, 1).
		Render(body)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

// statusBuckets counts the filtered view's groups by status class.
func (b *BrowserPage) statusBuckets() []statusBucket {
	s := CurrentSkin()
	buckets := []statusBucket{
		{label: "2xx", color: s.Status2xx},
		{label: "3xx", color: s.Status3xx},
		{label: "4xx", color: s.Status4xx},
		{label: "5xx", color: s.Status5xx},
		{label: "N/A", color: s.StatusUnknown},
	}
	for _, pos := range b.view {
		g := b.index.Group(pos)
		if g == nil {
			continue
		}
		switch {
		case g.Status >= 200 && g.Status < 300:
			buckets[0].count++
		case g.Status >= 300 && g.Status < 400:
			buckets[1].count++
		case g.Status >= 400 && g.Status < 500:
			buckets[2].count++
		case g.Status >= 500 && g.Status < 600:
			buckets[3].count++
		default:
			buckets[4].count++
		}
	}
	return buckets
}

// topRules returns the most frequently triggered rule ids in the filtered
// view, ties broken by id for stable output.
func (b *BrowserPage) topRules(limit int) []ruleCount {
	counts := make(map[string]int)
	for _, pos := range b.view {
		g := b.index.Group(pos)
		if g == nil {
			continue
		}
		for _, id := range g.RuleIDs {
			counts[id]++
		}
	}

	rules := make([]ruleCount, 0, len(counts))
	for id, n := range counts {
		rules = append(rules, ruleCount{id: id, count: n})
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].count != rules[j].count {
			return rules[i].count > rules[j].count
		}
		return rules[i].id < rules[j].id
	})
	if len(rules) > limit {
		rules = rules[:limit]
	}
	return rules
}

func renderStatusChart(buckets []statusBucket, width, height int) string {
	bc := barchart.New(width, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(4),
	)
	for _, bucket := range buckets {
		style := lipgloss.NewStyle().Foreground(bucket.color).Background(bucket.color)
		bc.Push(barchart.BarData{
			Label: bucket.label,
			Values: []barchart.BarValue{
				{Name: bucket.label, Value: float64(bucket.count), Style: style},
			},
		})
	}
	bc.Draw()

	legend := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		legend = append(legend, fmt.Sprintf("%s: %d", bucket.label, bucket.count))
	}
	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), strings.Join(legend, "  "))
}

func renderRulesChart(rules []ruleCount, width, height int, s *Skin) string {
	if len(rules) == 0 {
		return lipgloss.NewStyle().Foreground(s.HelpText).Render("No rules triggered in view")
	}

	bc := barchart.New(width, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(3),
		barchart.WithNoAxis(),
	)
	style := lipgloss.NewStyle().Foreground(s.RuleID).Background(s.RuleID)
	for _, r := range rules {
		bc.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: r.id, Value: float64(r.count), Style: style},
			},
		})
	}
	bc.Draw()

	legend := make([]string, 0, len(rules))
	for _, r := range rules {
		legend = append(legend, fmt.Sprintf("%s: %d", r.id, r.count))
	}
	return lipgloss.JoinVertical(lipgloss.Left, bc.View(),
		lipgloss.NewStyle().Foreground(s.HelpText).Render(strings.Join(legend, "  ")))
}
