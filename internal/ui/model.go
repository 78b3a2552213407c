package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/wpstores/internal/dispatch"
	"github.com/five82/wpstores/internal/site"
)

// Dispatcher publishes actions.
type Dispatcher interface {
	Dispatch(dispatch.Action)
}

// SiteSource is the part of site.Store the view reads.
type SiteSource interface {
	Subscribe() (<-chan site.Event, func())
	Snapshot() site.Snapshot
}

// Options configures the UI.
type Options struct {
	Dispatcher Dispatcher
	Sites      SiteSource
	ThemeName  string
	// SaveTheme persists a theme change. Optional.
	SaveTheme func(name string) error
}

// siteEventMsg wraps one store event. ok is false once the channel closes.
type siteEventMsg struct {
	event site.Event
	ok    bool
}

// Model is the root Bubble Tea model of the sites view.
type Model struct {
	dispatcher Dispatcher
	source     SiteSource
	events     <-chan site.Event
	saveTheme  func(string) error

	theme   Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
	height  int

	snapshot site.Snapshot
	fetching bool
	selected int
	status   string
}

// New builds a Model subscribed to events. The caller owns the
// subscription and cancels it after the program exits.
func New(opts Options, events <-chan site.Event) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		dispatcher: opts.Dispatcher,
		source:     opts.Sites,
		events:     events,
		saveTheme:  opts.SaveTheme,
		theme:      GetTheme(opts.ThemeName),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		fetching:   true,
	}
	if opts.Sites != nil {
		m.snapshot = opts.Sites.Snapshot()
	}
	return m
}

// Init implements tea.Model. It requests an initial fetch so the view does
// not wait a full poll interval for data.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events), dispatchCmd(m.dispatcher, site.FetchSitesAction{}))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case siteEventMsg:
		if !msg.ok {
			m.events = nil
			return m, nil
		}
		m.handleEvent(msg.event)
		return m, waitForEvent(m.events)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(len(m.snapshot.Sites)-1, 0)
	}
	return m, nil
}

func (m *Model) handleEvent(e site.Event) {
	changed, ok := e.(site.OnSiteChanged)
	if !ok {
		return
	}
	if m.source != nil {
		m.snapshot = m.source.Snapshot()
	}
	if changed.Cause == dispatch.UpdateSites {
		m.fetching = false
	}
	if changed.Err != nil {
		m.status = changed.Err.Error()
	} else {
		m.status = ""
	}
	if m.selected >= len(m.snapshot.Sites) {
		m.selected = max(len(m.snapshot.Sites)-1, 0)
	}
}

func (m *Model) refresh() {
	if m.dispatcher == nil {
		return
	}
	m.fetching = true
	m.dispatcher.Dispatch(site.FetchSitesAction{})
}

func (m *Model) cycleTheme() {
	next := NextTheme(m.theme.Name)
	m.theme = GetTheme(next)
	if m.saveTheme == nil {
		return
	}
	if err := m.saveTheme(next); err != nil {
		m.status = fmt.Sprintf("save theme: %v", err)
	}
}

func (m *Model) moveSelection(delta int) {
	n := len(m.snapshot.Sites)
	if n == 0 {
		m.selected = 0
		return
	}
	m.selected = min(max(m.selected+delta, 0), n-1)
}

func dispatchCmd(d Dispatcher, a dispatch.Action) tea.Cmd {
	if d == nil {
		return nil
	}
	return func() tea.Msg {
		d.Dispatch(a)
		return nil
	}
}

func waitForEvent(ch <-chan site.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		return siteEventMsg{event: e, ok: ok}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Sites == nil {
		return fmt.Errorf("ui: site source is required")
	}
	events, cancel := opts.Sites.Subscribe()
	defer cancel()

	p := tea.NewProgram(New(opts, events), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
