package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/waftrail/waftrail/internal/geoip"
	"github.com/waftrail/waftrail/internal/model"
	"github.com/waftrail/waftrail/internal/search"
)

type browserMode int

const (
	modeTable browserMode = iota
	modeDetail
)

// geoResultMsg delivers one geolocation lookup outcome.
type geoResultMsg struct {
	addr string
	json string
	err  error
}

// BrowserPage is the main screen: the transaction table, the search bar, the
// per-transaction detail view, and the stats modal. It owns the current group
// index and the filtered view derived from it; a refresh builds a whole new
// index before the old one is dropped.
type BrowserPage struct {
	path string
	keys KeyMap

	index *model.GroupIndex
	view  []int

	selected int
	scroll   int

	searchInput  textinput.Model
	searchActive bool
	searchTerm   string

	mode     browserMode
	detailVP viewport.Model

	lastClickTime time.Time
	lastClickRow  int

	statsOpen bool

	geoCache   *geoip.Cache // nil = lookups disabled
	geoJSON    string
	geoErr     error
	geoPending bool

	refreshing    bool
	refreshEvents chan ingestEvent

	width  int
	height int
}

// NewBrowserPage creates the browser for the log at path. A nil geoCache
// disables geolocation lookups.
func NewBrowserPage(path string, geoCache *geoip.Cache) *BrowserPage {
	input := textinput.New()
	input.Placeholder = "domain:, ip:, rule:, auditid:, status:, or free text"
	input.Prompt = "Search: "
	input.CharLimit = 200

	return &BrowserPage{
		path:        path,
		keys:        DefaultKeyMap(),
		searchInput: input,
		detailVP:    viewport.New(0, 0),
		geoCache:    geoCache,
	}
}

func (b *BrowserPage) ID() string { return "browser" }

func (b *BrowserPage) Init() tea.Cmd { return nil }

// SetIndex installs a freshly built index, recomputing the filtered view and
// clamping the selection.
func (b *BrowserPage) SetIndex(ix *model.GroupIndex) {
	b.index = ix
	b.applySearch()
	b.clampSelection()
}

// selectedGroup returns the group under the cursor, or nil.
func (b *BrowserPage) selectedGroup() *model.AuditGroup {
	if b.selected < 0 || b.selected >= len(b.view) {
		return nil
	}
	return b.index.Group(b.view[b.selected])
}

func (b *BrowserPage) applySearch() {
	b.view = search.Apply(b.index, b.searchTerm)
	b.selected = 0
	b.scroll = 0
}

func (b *BrowserPage) clampSelection() {
	maxIdx := len(b.view) - 1
	if maxIdx < 0 {
		maxIdx = 0
	}
	if b.selected > maxIdx {
		b.selected = maxIdx
	}
	if b.scroll > maxIdx {
		b.scroll = maxIdx
	}
}

func (b *BrowserPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.detailVP.Width = msg.Width - 2
		b.detailVP.Height = b.detailHeight()
		return nil, nil

	case geoResultMsg:
		g := b.selectedGroup()
		if g == nil || msg.addr != g.ClientAddr {
			// Stale result for a group the user already moved past; the
			// in-flight lookup for the current group still owns the state.
			return nil, nil
		}
		b.geoPending = false
		b.geoJSON, b.geoErr = msg.json, msg.err
		if b.mode == modeDetail {
			b.setDetailContent()
		}
		return nil, nil

	case IngestProgressMsg:
		return waitIngest(b.refreshEvents), nil
	case IngestDoneMsg:
		b.refreshing = false
		b.refreshEvents = nil
		saveSel, saveScroll := b.selected, b.scroll
		b.SetIndex(msg.Index)
		b.selected, b.scroll = saveSel, saveScroll
		b.clampSelection()
		return nil, nil
	case IngestErrMsg:
		// Keep the previous index; a failed refresh is not fatal here.
		b.refreshing = false
		b.refreshEvents = nil
		return nil, nil

	case tea.KeyMsg:
		return b.handleKey(msg)

	case tea.MouseMsg:
		return b.handleMouse(msg), nil
	}

	return nil, nil
}

// doubleClickWindow is the longest gap between two clicks on the same row
// that still opens the detail view.
const doubleClickWindow = 500 * time.Millisecond

func (b *BrowserPage) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}

	if b.mode == modeDetail {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			b.detailVP.ScrollUp(1)
		case tea.MouseButtonWheelDown:
			b.detailVP.ScrollDown(1)
		}
		return nil
	}
	if b.statsOpen || b.searchActive {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		b.moveSelection(-1)
	case tea.MouseButtonWheelDown:
		b.moveSelection(1)
	case tea.MouseButtonLeft:
		row, ok := b.rowAt(msg.Y)
		if !ok {
			return nil
		}
		now := time.Now()
		doubleClick := row == b.lastClickRow && now.Sub(b.lastClickTime) < doubleClickWindow
		b.lastClickTime, b.lastClickRow = now, row

		b.selected = row
		b.followSelection()
		if doubleClick {
			return b.enterDetail()
		}
	}
	return nil
}

// rowAt maps a terminal row to a table position. The table's data rows start
// below the three title lines, the table's top border, and the header row.
func (b *BrowserPage) rowAt(y int) (int, bool) {
	const contentStart = 5
	if y < contentStart || y-contentStart >= b.tableHeight() {
		return 0, false
	}
	row := b.scroll + (y - contentStart)
	if row >= len(b.view) {
		return 0, false
	}
	return row, true
}

func (b *BrowserPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	if key.Matches(msg, b.keys.ForceQuit) {
		return tea.Quit, nil
	}

	if b.searchActive {
		return b.handleSearchKey(msg), nil
	}
	if b.statsOpen {
		switch {
		case key.Matches(msg, b.keys.Escape), key.Matches(msg, b.keys.Stats), key.Matches(msg, b.keys.Quit):
			b.statsOpen = false
		}
		return nil, nil
	}
	if b.mode == modeDetail {
		return b.handleDetailKey(msg), nil
	}
	return b.handleTableKey(msg), nil
}

func (b *BrowserPage) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		b.searchActive = false
		b.searchInput.Blur()
		b.searchInput.SetValue("")
		b.searchTerm = ""
		b.applySearch()
		return nil
	case "enter":
		b.searchActive = false
		b.searchInput.Blur()
		return nil
	default:
		var cmd tea.Cmd
		b.searchInput, cmd = b.searchInput.Update(msg)
		b.searchTerm = b.searchInput.Value()
		b.applySearch()
		return cmd
	}
}

func (b *BrowserPage) handleTableKey(msg tea.KeyMsg) tea.Cmd {
	page := b.tableHeight()
	switch {
	case key.Matches(msg, b.keys.Quit):
		return tea.Quit
	case key.Matches(msg, b.keys.Up):
		b.moveSelection(-1)
	case key.Matches(msg, b.keys.Down):
		b.moveSelection(1)
	case key.Matches(msg, b.keys.PageUp):
		b.moveSelection(-page)
	case key.Matches(msg, b.keys.PageDown):
		b.moveSelection(page)
	case key.Matches(msg, b.keys.Home):
		b.selected, b.scroll = 0, 0
	case key.Matches(msg, b.keys.End):
		b.selected = len(b.view) - 1
		b.clampSelection()
		b.followSelection()
	case key.Matches(msg, b.keys.Enter):
		return b.enterDetail()
	case key.Matches(msg, b.keys.Search):
		b.searchActive = true
		b.searchInput.Focus()
		return textinput.Blink
	case key.Matches(msg, b.keys.Refresh):
		return b.startRefresh()
	case key.Matches(msg, b.keys.Stats):
		b.statsOpen = true
	case key.Matches(msg, b.keys.Escape):
		b.searchInput.SetValue("")
		b.searchTerm = ""
		b.applySearch()
	}
	return nil
}

func (b *BrowserPage) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, b.keys.Quit), key.Matches(msg, b.keys.Escape):
		b.mode = modeTable
		return nil
	case key.Matches(msg, b.keys.Prev):
		b.moveSelection(-1)
		return b.enterDetail()
	case key.Matches(msg, b.keys.Next):
		b.moveSelection(1)
		return b.enterDetail()
	}

	var cmd tea.Cmd
	b.detailVP, cmd = b.detailVP.Update(msg)
	return cmd
}

// moveSelection shifts the cursor by delta rows and keeps it visible.
func (b *BrowserPage) moveSelection(delta int) {
	b.selected += delta
	if b.selected < 0 {
		b.selected = 0
	}
	b.clampSelection()
	b.followSelection()
}

// followSelection scrolls the table window so the cursor stays on screen.
func (b *BrowserPage) followSelection() {
	visible := b.tableHeight()
	if visible < 1 {
		visible = 1
	}
	if b.selected < b.scroll {
		b.scroll = b.selected
	} else if b.selected >= b.scroll+visible {
		b.scroll = b.selected - visible + 1
	}
}

// enterDetail opens the detail view for the selected group and, when
// enabled, kicks off the geolocation lookup for its client address.
func (b *BrowserPage) enterDetail() tea.Cmd {
	g := b.selectedGroup()
	if g == nil {
		return nil
	}
	b.mode = modeDetail
	b.geoJSON, b.geoErr = "", nil
	b.detailVP.GotoTop()

	var cmd tea.Cmd
	if b.geoCache != nil && g.ClientAddr != "" {
		b.geoPending = true
		cmd = lookupGeo(b.geoCache, g.ClientAddr)
	}
	b.setDetailContent()
	return cmd
}

// lookupGeo resolves addr through the cache off the UI goroutine. Cache hits
// return without network I/O; misses pay for one remote call per subnet.
func lookupGeo(cache *geoip.Cache, addr string) tea.Cmd {
	return func() tea.Msg {
		rec, err := cache.Lookup(context.Background(), addr)
		if err != nil {
			return geoResultMsg{addr: addr, err: err}
		}
		return geoResultMsg{addr: addr, json: rec.PrettyJSON()}
	}
}

// startRefresh re-ingests the whole file in the background. The live index
// keeps serving the table until the new one is ready.
func (b *BrowserPage) startRefresh() tea.Cmd {
	if b.refreshing {
		return nil
	}
	b.refreshing = true
	b.refreshEvents = make(chan ingestEvent, 16)
	return tea.Batch(startIngest(b.path, b.refreshEvents), waitIngest(b.refreshEvents))
}
