package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/wpstores/internal/dispatch"
	"github.com/five82/wpstores/internal/site"
)

type recordingDispatcher struct {
	actions []dispatch.Action
}

func (r *recordingDispatcher) Dispatch(a dispatch.Action) {
	r.actions = append(r.actions, a)
}

type fakeSource struct {
	snapshot site.Snapshot
}

func (f *fakeSource) Subscribe() (<-chan site.Event, func()) {
	ch := make(chan site.Event)
	return ch, func() {}
}

func (f *fakeSource) Snapshot() site.Snapshot {
	return f.snapshot
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel() (Model, *recordingDispatcher, *fakeSource) {
	d := &recordingDispatcher{}
	src := &fakeSource{}
	m := New(Options{Dispatcher: d, Sites: src, ThemeName: "Slate"}, nil)
	return m, d, src
}

func TestRefreshKeyDispatchesFetchSites(t *testing.T) {
	m, d, _ := newTestModel()
	m.fetching = false

	updated, _ := m.Update(runeKey("r"))
	m = updated.(Model)

	if len(d.actions) != 1 || d.actions[0].ActionType() != dispatch.FetchSites {
		t.Fatalf("actions = %#v, want one FetchSites", d.actions)
	}
	if !m.fetching {
		t.Fatalf("fetching = false after refresh")
	}
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel()
	_, cmd := m.Update(runeKey("q"))
	if cmd == nil {
		t.Fatalf("quit returned nil cmd")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("quit cmd did not produce tea.QuitMsg")
	}
}

func TestSiteEventRefreshesSnapshot(t *testing.T) {
	m, _, src := newTestModel()
	src.snapshot = site.Snapshot{
		Sites: site.Sites{
			{SiteID: 1, Name: "First blog", URL: "https://first.example", IsVisible: true, IsWPCom: true},
			{SiteID: 2, Name: "Second", URL: "https://second.example", IsJetpack: true},
		},
		LastUpdated: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	updated, _ := m.Update(siteEventMsg{event: site.OnSiteChanged{Cause: dispatch.UpdateSites, RowsAffected: 2}, ok: true})
	m = updated.(Model)

	if m.fetching {
		t.Fatalf("fetching still true after UpdateSites")
	}
	view := m.View()
	for _, want := range []string{"First blog", "second.example", "2 sites", "updated 03:04:05", "jetpack", "public"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSiteEventErrorShownAndDataKept(t *testing.T) {
	m, _, src := newTestModel()
	src.snapshot = site.Snapshot{Sites: site.Sites{{SiteID: 5, Name: "Kept"}}, ConsecutiveFailures: 2}

	siteErr := &site.SiteError{Type: site.SiteErrorNetwork, Message: "dial tcp: refused"}
	updated, _ := m.Update(siteEventMsg{event: site.OnSiteChanged{Cause: dispatch.UpdateSites, Err: siteErr}, ok: true})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "Kept") || !strings.Contains(view, "dial tcp: refused") || !strings.Contains(view, "offline") {
		t.Fatalf("view = %s, want kept data, error and offline marker", view)
	}
}

func TestClosedEventStreamStopsListening(t *testing.T) {
	m, _, _ := newTestModel()
	updated, cmd := m.Update(siteEventMsg{ok: false})
	if cmd != nil {
		t.Fatalf("closed stream returned a cmd")
	}
	if updated.(Model).events != nil {
		t.Fatalf("events channel not cleared")
	}
}

func TestSelectionClamped(t *testing.T) {
	m, _, src := newTestModel()
	src.snapshot = site.Snapshot{Sites: site.Sites{{SiteID: 1}, {SiteID: 2}, {SiteID: 3}}}
	updated, _ := m.Update(siteEventMsg{event: site.OnSiteChanged{Cause: dispatch.UpdateSites}, ok: true})
	m = updated.(Model)

	for i := 0; i < 5; i++ {
		updated, _ = m.Update(runeKey("j"))
		m = updated.(Model)
	}
	if m.selected != 2 {
		t.Fatalf("selected = %d, want 2", m.selected)
	}
	updated, _ = m.Update(runeKey("g"))
	if updated.(Model).selected != 0 {
		t.Fatalf("selected after top = %d, want 0", updated.(Model).selected)
	}

	src.snapshot = site.Snapshot{Sites: site.Sites{{SiteID: 9}}}
	m.selected = 2
	updated, _ = m.Update(siteEventMsg{event: site.OnSiteChanged{Cause: dispatch.UpdateSites}, ok: true})
	if updated.(Model).selected != 0 {
		t.Fatalf("selected after shrink = %d, want 0", updated.(Model).selected)
	}
}

func TestCycleThemePersists(t *testing.T) {
	var saved []string
	m := New(Options{ThemeName: "Nightfox", SaveTheme: func(name string) error {
		saved = append(saved, name)
		return nil
	}}, nil)

	updated, _ := m.Update(runeKey("T"))
	m = updated.(Model)
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if len(saved) != 1 || saved[0] != "Kanagawa" {
		t.Fatalf("saved = %v, want [Kanagawa]", saved)
	}

	m.saveTheme = func(string) error { return errors.New("read-only") }
	updated, _ = m.Update(runeKey("T"))
	if !strings.Contains(updated.(Model).status, "read-only") {
		t.Fatalf("status = %q, want save error", updated.(Model).status)
	}
}

func TestNextThemeCycles(t *testing.T) {
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("missing"); got != "Nightfox" {
		t.Fatalf("NextTheme(missing) = %q, want Nightfox", got)
	}
	if got := GetTheme("missing").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(missing) = %q, want Nightfox", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q, want %q", got, "abc…")
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("truncate = %q, want %q", got, "abc")
	}
}
