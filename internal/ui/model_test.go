package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"glint/internal/config"
	"glint/internal/daemon"
	"glint/internal/eventbus"
	"glint/internal/history"
)

// fakeHistory is an in-memory stand-in for the history store.
type fakeHistory struct {
	plugins map[string][]history.PluginRecord
	webs    map[string][]history.WebRecord
	desktop []history.DesktopRecord

	persistedPlugins [][2]string
	persistedWebs    [][2]string
	persistedEntries [][2]string
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{
		plugins: make(map[string][]history.PluginRecord),
		webs:    make(map[string][]history.WebRecord),
	}
}

func (f *fakeHistory) PluginHistory(name string) []history.PluginRecord { return f.plugins[name] }
func (f *fakeHistory) PluginHistoryLen(name string) int                 { return len(f.plugins[name]) }
func (f *fakeHistory) WebHistory(kind string) []history.WebRecord       { return f.webs[kind] }
func (f *fakeHistory) WebHistoryLen(kind string) int                    { return len(f.webs[kind]) }
func (f *fakeHistory) DesktopEntries() []history.DesktopRecord          { return f.desktop }
func (f *fakeHistory) DesktopEntriesLen() int                           { return len(f.desktop) }

func (f *fakeHistory) PersistPlugin(name, query string) error {
	f.persistedPlugins = append(f.persistedPlugins, [2]string{name, query})
	return nil
}

func (f *fakeHistory) PersistWeb(kind, query string) error {
	f.persistedWebs = append(f.persistedWebs, [2]string{kind, query})
	return nil
}

func (f *fakeHistory) PersistDesktopEntry(path, name string) error {
	f.persistedEntries = append(f.persistedEntries, [2]string{path, name})
	return nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Modes = config.ModesConfig{
		HistoryPrefix: "!h ",
		Plugins: []config.PluginConfig{
			{Name: "find", Modifier: "find ", History: true},
		},
		Web: []config.WebConfig{
			{Kind: "w"},
		},
	}
	return cfg
}

// newTestModel builds a model with the daemon channel already ready.
func newTestModel(t *testing.T, fake *fakeHistory) (*Model, chan daemon.Request) {
	t.Helper()
	bus := eventbus.New()
	t.Cleanup(bus.Stop)

	m := NewModel(bus, testConfig(), fake)
	requests := make(chan daemon.Request, 8)
	m.Update(EventMsg{Event: eventbus.DaemonReadyEvent{Requests: requests}})
	return m, requests
}

func typeString(m *Model, s string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func press(m *Model, key tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: key})
	return cmd
}

func deliver(m *Model, resp daemon.Response) tea.Cmd {
	_, cmd := m.Update(EventMsg{Event: eventbus.DaemonResponseEvent{Response: resp}})
	return cmd
}

func drainRequests(ch chan daemon.Request) []daemon.Request {
	var out []daemon.Request
	for {
		select {
		case req := <-ch:
			out = append(out, req)
		default:
			return out
		}
	}
}

func requireQuit(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd, "expected a quit command")
	require.IsType(t, tea.QuitMsg{}, cmd(), "expected a quit command")
}

func TestDefaultSearchConfirm(t *testing.T) {
	m, requests := newTestModel(t, newFakeHistory())

	typeString(m, "firefox")
	require.Equal(t, ModeSearch, m.mode.Kind)

	idx, ok := m.tracker.Selected()
	require.True(t, ok, "default search pre-selects the first live result")
	require.Equal(t, 0, idx)
	require.Equal(t, DomainLive, m.tracker.Domain())
	require.Equal(t, []daemon.Request{daemon.Search("firefox")}, drainRequests(requests))

	deliver(m, daemon.Update{{ID: 0, Name: "Firefox"}})
	require.Len(t, m.liveResults, 1)

	press(m, tea.KeyEnter)
	require.Equal(t, []daemon.Request{daemon.Activate(0)}, drainRequests(requests))
}

func TestWebModeConfirmFlow(t *testing.T) {
	fake := newFakeHistory()
	fake.webs["w"] = []history.WebRecord{{Kind: "w", Query: "maps"}}
	m, requests := newTestModel(t, fake)

	typeString(m, "w cats")
	require.Equal(t, ModeWeb, m.mode.Kind)
	require.Equal(t, "w ", m.inputValue.Modifier)
	require.Equal(t, "cats", m.input.Value())

	_, ok := m.tracker.Selected()
	require.False(t, ok, "web mode starts unselected")
	require.Equal(t, []daemon.Request{daemon.Search("w cats")}, drainRequests(requests))

	// Enter with no selection activates index 0 of the live results.
	press(m, tea.KeyEnter)
	require.Equal(t, [][2]string{{"w", "cats"}}, fake.persistedWebs)
	require.Equal(t, []daemon.Request{daemon.Activate(0)}, drainRequests(requests))

	// Down moves into the history domain at index 0.
	press(m, tea.KeyDown)
	idx, ok := m.tracker.Selected()
	require.True(t, ok)
	require.Equal(t, 0, idx)
	require.Equal(t, DomainHistory, m.tracker.Domain())

	// Enter with a selection re-issues the stored command as a search.
	press(m, tea.KeyEnter)
	require.True(t, m.execOnNextSearch)
	require.Equal(t, "maps", m.input.Value())
	require.Equal(t, "w ", m.inputValue.Modifier)
	require.Equal(t, []daemon.Request{daemon.Search("w maps")}, drainRequests(requests))
}

func TestExecOnNextSearchSequencing(t *testing.T) {
	fake := newFakeHistory()
	fake.webs["w"] = []history.WebRecord{{Kind: "w", Query: "maps"}}
	m, requests := newTestModel(t, fake)

	typeString(m, "w cats")
	press(m, tea.KeyDown)
	press(m, tea.KeyEnter)
	drainRequests(requests)

	m.liveResults = []daemon.ResultEntry{{ID: 0, Name: "stale"}}

	// The very next results response converts to Activate(0) and must not
	// replace the live results.
	deliver(m, daemon.Update{{ID: 0, Name: "fresh"}})
	require.Equal(t, []daemon.Request{daemon.Activate(0)}, drainRequests(requests))
	require.Equal(t, "stale", m.liveResults[0].Name)
	require.False(t, m.execOnNextSearch, "flag is one-shot")

	// A later response displays normally again.
	deliver(m, daemon.Update{{ID: 0, Name: "fresh"}})
	require.Empty(t, drainRequests(requests))
	require.Equal(t, "fresh", m.liveResults[0].Name)
}

func TestAutocompleteRoundTrip(t *testing.T) {
	m, requests := newTestModel(t, newFakeHistory())

	typeString(m, "w goo")
	drainRequests(requests)

	deliver(m, daemon.Fill("w google maps"))
	require.Equal(t, "google maps", m.input.Value())
	require.Equal(t, "w ", m.inputValue.Modifier)
	require.Equal(t, []daemon.Request{daemon.Search("w google maps")}, drainRequests(requests))
}

func TestAutocompleteMissingPrefixIsIgnored(t *testing.T) {
	m, requests := newTestModel(t, newFakeHistory())

	typeString(m, "w goo")
	drainRequests(requests)

	deliver(m, daemon.Fill("google"))
	require.Equal(t, "goo", m.input.Value(), "input must stay untouched")
	require.NotEmpty(t, m.status)
	require.Empty(t, drainRequests(requests))
}

func TestTabCompletion(t *testing.T) {
	m, requests := newTestModel(t, newFakeHistory())

	typeString(m, "firefox")
	deliver(m, daemon.Update{{ID: 0}, {ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}})
	drainRequests(requests)

	press(m, tea.KeyDown)
	press(m, tea.KeyDown)
	idx, _ := m.tracker.Selected()
	require.Equal(t, 2, idx)

	press(m, tea.KeyTab)
	require.Equal(t, []daemon.Request{daemon.Complete(2)}, drainRequests(requests))
}

func TestTabWithoutSelectionSendsNothing(t *testing.T) {
	m, requests := newTestModel(t, newFakeHistory())

	typeString(m, "w cats")
	drainRequests(requests)

	press(m, tea.KeyTab)
	require.Empty(t, drainRequests(requests))
}

func TestInputChangeResetsSelection(t *testing.T) {
	fake := newFakeHistory()
	fake.webs["w"] = []history.WebRecord{{Kind: "w", Query: "maps"}}
	m, _ := newTestModel(t, fake)

	typeString(m, "w cats")
	press(m, tea.KeyDown)
	_, ok := m.tracker.Selected()
	require.True(t, ok)

	typeString(m, "x")
	_, ok = m.tracker.Selected()
	require.False(t, ok, "typing must reset the selection")
}

func TestRequestsQueueUntilDaemonReady(t *testing.T) {
	bus := eventbus.New()
	t.Cleanup(bus.Stop)
	m := NewModel(bus, testConfig(), newFakeHistory())

	typeString(m, "firefox")
	typeString(m, "x")

	requests := make(chan daemon.Request, 8)
	m.Update(EventMsg{Event: eventbus.DaemonReadyEvent{Requests: requests}})

	require.Equal(t, []daemon.Request{
		daemon.Search("firefox"),
		daemon.Search("firefoxx"),
	}, drainRequests(requests), "queued requests flush in order on ready")
}

func TestCloseResponseQuits(t *testing.T) {
	m, _ := newTestModel(t, newFakeHistory())
	requireQuit(t, deliver(m, daemon.Close{}))
}

func TestContextResponseIsIgnored(t *testing.T) {
	m, requests := newTestModel(t, newFakeHistory())
	cmd := deliver(m, daemon.Context{ID: 1})
	require.Nil(t, cmd)
	require.Empty(t, drainRequests(requests))
}

func TestDaemonClosedQuits(t *testing.T) {
	m, _ := newTestModel(t, newFakeHistory())
	_, cmd := m.Update(EventMsg{Event: eventbus.DaemonClosedEvent{}})
	requireQuit(t, cmd)
}

func TestWindowBlurQuits(t *testing.T) {
	m, _ := newTestModel(t, newFakeHistory())
	_, cmd := m.Update(tea.BlurMsg{})
	requireQuit(t, cmd)
}

func TestEscapeQuits(t *testing.T) {
	m, _ := newTestModel(t, newFakeHistory())
	requireQuit(t, press(m, tea.KeyEsc))
}

func TestBackspaceOnEmptyQueryClearsModifier(t *testing.T) {
	m, requests := newTestModel(t, newFakeHistory())

	typeString(m, "w ")
	require.Equal(t, "w ", m.inputValue.Modifier)
	require.Empty(t, m.input.Value())
	drainRequests(requests)

	press(m, tea.KeyBackspace)
	require.Empty(t, m.inputValue.Modifier)
	require.Equal(t, ModeHistory, m.mode.Kind)
}

func TestHistoryModeFuzzyFilter(t *testing.T) {
	fake := newFakeHistory()
	fake.desktop = []history.DesktopRecord{
		{Path: "/apps/firefox.desktop", Name: "Firefox"},
		{Path: "/apps/files.desktop", Name: "Files"},
		{Path: "/apps/terminal.desktop", Name: "Terminal"},
	}
	m, requests := newTestModel(t, newFakeHistory())
	m.cache = fake
	m.refreshHistoryFilter()
	require.Len(t, m.filteredHistory, 3, "empty query shows full history")

	typeString(m, "!h fire")
	require.Equal(t, ModeHistory, m.mode.Kind)
	require.Len(t, m.filteredHistory, 1)
	require.Equal(t, "Firefox", m.filteredHistory[0].Name)
	require.Empty(t, drainRequests(requests), "history browsing never queries the daemon")
}

func TestHistoryModeLaunchesEntryDirectly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.desktop")
	entry := "[Desktop Entry]\nName=Test App\nExec=true %U\n"
	require.NoError(t, os.WriteFile(path, []byte(entry), 0644))

	fake := newFakeHistory()
	fake.desktop = []history.DesktopRecord{{Path: path, Name: "Test App"}}

	bus := eventbus.New()
	t.Cleanup(bus.Stop)
	m := NewModel(bus, testConfig(), fake)
	requests := make(chan daemon.Request, 8)
	m.Update(EventMsg{Event: eventbus.DaemonReadyEvent{Requests: requests}})

	// Launch starts with empty input, already in history mode.
	require.Equal(t, ModeHistory, m.mode.Kind)

	cmd := press(m, tea.KeyEnter)
	requireQuit(t, cmd)
	require.Equal(t, [][2]string{{path, "Test App"}}, fake.persistedEntries)
	require.Empty(t, drainRequests(requests), "no daemon round-trip for history launches")
}

func TestExecuteEntryResponsePersistsAndQuits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.desktop")
	entry := "[Desktop Entry]\nName=App\nExec=true\n"
	require.NoError(t, os.WriteFile(path, []byte(entry), 0644))

	fake := newFakeHistory()
	m, _ := newTestModel(t, fake)

	cmd := deliver(m, daemon.ExecuteEntry{Path: path})
	requireQuit(t, cmd)
	require.Equal(t, [][2]string{{path, "App"}}, fake.persistedEntries)
}

func TestExecuteEntrySpawnFailureIsSurfaced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.desktop")
	entry := "[Desktop Entry]\nName=Broken\nExec=/nonexistent/binary-xyz\n"
	require.NoError(t, os.WriteFile(path, []byte(entry), 0644))

	m, _ := newTestModel(t, newFakeHistory())

	cmd := deliver(m, daemon.ExecuteEntry{Path: path})
	require.Nil(t, cmd, "a failed launch must not end the session")
	require.NotEmpty(t, m.status)
}
