package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/waftrail/waftrail/internal/auditlog"
	"github.com/waftrail/waftrail/internal/model"
)

// ingestEvent carries one progress report or the final outcome of an ingest
// pass from the worker goroutine to the UI.
type ingestEvent struct {
	progress *auditlog.Progress
	index    *model.GroupIndex
	err      error
}

// IngestProgressMsg reports ingest progress to the loading page.
type IngestProgressMsg struct {
	Progress auditlog.Progress
}

// IngestDoneMsg delivers the finished index.
type IngestDoneMsg struct {
	Index *model.GroupIndex
}

// IngestErrMsg reports a fatal ingest failure.
type IngestErrMsg struct {
	Err error
}

// LoadingPage runs the initial ingest pass and renders its progress. When the
// pass completes it hands the index to the browser page and navigates there.
type LoadingPage struct {
	path    string
	browser *BrowserPage
	bar     progress.Model
	events  chan ingestEvent

	current auditlog.Progress
	err     error
}

// NewLoadingPage creates the loading page for path. The finished index is
// pushed into browser before navigation.
func NewLoadingPage(path string, browser *BrowserPage) *LoadingPage {
	return &LoadingPage{
		path:    path,
		browser: browser,
		bar:     progress.New(progress.WithDefaultGradient()),
	}
}

func (p *LoadingPage) ID() string { return "loading" }

// Err returns the fatal error from the initial ingest pass, if it failed.
// The alt-screen error view vanishes when the program exits, so the caller
// must report this after Run returns.
func (p *LoadingPage) Err() error { return p.err }

func (p *LoadingPage) Init() tea.Cmd {
	if p.events != nil {
		return nil
	}
	p.events = make(chan ingestEvent, 16)
	return tea.Batch(startIngest(p.path, p.events), waitIngest(p.events))
}

// startIngest runs the parse pass off the UI goroutine. Progress reports are
// dropped rather than blocking the parser when the UI falls behind; the
// terminal event is always delivered.
func startIngest(path string, events chan ingestEvent) tea.Cmd {
	return func() tea.Msg {
		go func() {
			ix, err := auditlog.Ingest(path, func(pr auditlog.Progress) {
				select {
				case events <- ingestEvent{progress: &pr}:
				default:
				}
			})
			if err != nil {
				events <- ingestEvent{err: err}
				return
			}
			events <- ingestEvent{index: ix}
		}()
		return nil
	}
}

// waitIngest delivers the next ingest event as a message.
func waitIngest(events chan ingestEvent) tea.Cmd {
	return func() tea.Msg {
		ev := <-events
		switch {
		case ev.err != nil:
			return IngestErrMsg{Err: ev.err}
		case ev.index != nil:
			return IngestDoneMsg{Index: ev.index}
		default:
			return IngestProgressMsg{Progress: *ev.progress}
		}
	}
}

func (p *LoadingPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case IngestProgressMsg:
		p.current = msg.Progress
		return waitIngest(p.events), nil
	case IngestDoneMsg:
		p.events = nil
		p.browser.SetIndex(msg.Index)
		return nil, &PageNav{PageID: p.browser.ID()}
	case IngestErrMsg:
		p.err = msg.Err
		return tea.Quit, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return tea.Quit, nil
		}
	}
	return nil, nil
}

func (p *LoadingPage) View(width, height int) string {
	s := CurrentSkin()

	if p.err != nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(s.Status5xx).Render("Error: "+p.err.Error()))
	}

	title := lipgloss.NewStyle().Foreground(s.Title).Bold(true).
		Render("waftrail")

	phase := p.current.Phase.String()
	if phase == "" {
		phase = "Starting"
	}
	detail := p.current.Detail
	if p.current.Groups > 0 {
		detail = fmt.Sprintf("%s • %d transactions", detail, p.current.Groups)
	}

	barWidth := min(60, max(20, width-20))
	p.bar.Width = barWidth

	body := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		lipgloss.NewStyle().Foreground(s.Label).Render(phase),
		p.bar.ViewAs(p.current.Fraction),
		lipgloss.NewStyle().Foreground(s.HelpText).Render(detail),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
