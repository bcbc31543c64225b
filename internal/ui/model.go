package ui

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"glint/internal/config"
	"glint/internal/daemon"
	"glint/internal/desktop"
	"glint/internal/eventbus"
	"glint/internal/history"
	"glint/internal/spawn"
	"glint/internal/ui/views"
)

// entryCacheSize bounds the desktop-entry parse cache.
const entryCacheSize = 64

// Model is the launcher controller. One bubbletea loop owns it exclusively:
// keyboard events, window events and daemon responses arrive as a single
// ordered message stream, so no locking is needed anywhere below.
type Model struct {
	bus      eventbus.EventBus
	cfg      *config.Config
	resolver *Resolver
	tracker  *Tracker
	cache    HistoryFacade
	loader   *desktop.Loader
	renderer *views.Renderer

	input      textinput.Model
	inputValue InputValue
	mode       ActiveMode

	liveResults      []daemon.ResultEntry
	filteredHistory  []history.DesktopRecord
	execOnNextSearch bool

	// requests is nil until the daemon signals readiness; requests issued
	// before that are queued and flushed on ready.
	requests chan<- daemon.Request
	pending  []daemon.Request

	status string
	width  int
	height int
}

// NewModel creates the controller model.
func NewModel(bus eventbus.EventBus, cfg *config.Config, cache HistoryFacade) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search"
	ti.Prompt = "> "
	ti.Width = cfg.UI.InputWidth
	ti.Focus()

	loader, err := desktop.NewLoader(entryCacheSize)
	if err != nil {
		// Only fails on a non-positive size.
		log.Printf("Desktop entry cache disabled: %v", err)
	}

	m := &Model{
		bus:      bus,
		cfg:      cfg,
		resolver: NewResolver(cfg.Modes),
		tracker:  NewTracker(),
		cache:    cache,
		loader:   loader,
		renderer: views.NewRenderer(cfg.UI.VisibleRows),
		input:    ti,
	}
	m.mode, _, _ = m.resolver.Resolve("")
	m.refreshHistoryFilter()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.BlurMsg:
		// Losing window focus dismisses the launcher.
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case EventMsg:
		return m.handleEvent(msg.Event)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey maps raw keyboard events onto controller transitions. Everything
// that is not a control key flows into the text input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyUp:
		m.tracker.Up(m.totalItems())
		return m, nil

	case tea.KeyDown:
		m.tracker.Down(m.totalItems())
		return m, nil

	case tea.KeyEnter:
		return m, m.onExecute()

	case tea.KeyTab:
		if idx, ok := m.tracker.Selected(); ok {
			return m, m.dispatch(daemon.Complete(uint32(idx)))
		}
		return m, nil

	case tea.KeyBackspace:
		if m.input.Value() == "" && m.inputValue.Modifier != "" {
			// Deleting past the start of the query removes the mode hint.
			m.inputValue.Modifier = ""
			return m, m.onQueryChanged("")
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		return m, tea.Batch(cmd, m.onQueryChanged(m.input.Value()))
	}
	return m, cmd
}

// onQueryChanged re-enters the input-changed flow: the mode is re-resolved
// from the canonical raw input, the selection resets, and every mode except
// history browsing issues a search.
func (m *Model) onQueryChanged(query string) tea.Cmd {
	raw := m.inputValue.Modifier + query
	mode, modifier, display := m.resolver.Resolve(raw)
	m.mode = mode
	m.inputValue = InputValue{Modifier: modifier, Query: display}
	if m.input.Value() != display {
		m.input.SetValue(display)
		m.input.CursorEnd()
	}

	// The default search mode pre-selects the first live result; all other
	// modes start unselected.
	if mode.Kind == ModeSearch {
		m.tracker.ResetLive()
	} else {
		m.tracker.Reset()
	}

	if mode.Kind == ModeHistory {
		m.refreshHistoryFilter()
		return nil
	}
	return m.dispatch(daemon.Search(raw))
}

// handleEvent consumes one domain event from the merged stream.
func (m *Model) handleEvent(event eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch ev := event.(type) {
	case eventbus.DaemonReadyEvent:
		m.requests = ev.Requests
		pending := m.pending
		m.pending = nil
		for _, req := range pending {
			if cmd := m.dispatch(req); cmd != nil {
				return m, cmd
			}
		}
		return m, nil

	case eventbus.DaemonResponseEvent:
		return m, m.onResponse(ev.Response)

	case eventbus.DaemonClosedEvent:
		// Without a daemon there is nothing left to control.
		if ev.Err != nil {
			log.Printf("Daemon stream closed: %v", ev.Err)
		}
		return m, tea.Quit

	case eventbus.ErrorEvent:
		log.Printf("%s: %v", ev.Message, ev.Err)
		m.status = ev.Message
		return m, nil
	}
	return m, nil
}

// onResponse drives the response state machine.
func (m *Model) onResponse(resp daemon.Response) tea.Cmd {
	switch resp := resp.(type) {
	case daemon.Close:
		return tea.Quit

	case daemon.Context:
		// Context menus are a daemon feature this frontend does not implement.
		log.Printf("Ignoring context response for entry %d", resp.ID)
		return nil

	case daemon.ExecuteEntry:
		return m.runEntry(resp.Path)

	case daemon.Update:
		if m.execOnNextSearch {
			// A stored query was re-resolved through the daemon; run its
			// first result instead of displaying the list.
			m.execOnNextSearch = false
			return m.dispatch(daemon.Activate(0))
		}
		m.liveResults = resp
		return nil

	case daemon.Fill:
		query, ok := strings.CutPrefix(string(resp), m.inputValue.Modifier)
		if !ok {
			// The daemon is expected to echo the modifier back.
			log.Printf("Protocol violation: fill %q lacks modifier %q", resp, m.inputValue.Modifier)
			m.status = "autocompletion failed"
			return nil
		}
		return m.onQueryChanged(query)
	}
	return nil
}

// onExecute resolves Enter into an activation or a persist-then-requery
// sequence, depending on the active mode.
func (m *Model) onExecute() tea.Cmd {
	switch {
	case m.mode.Kind == ModePlugin && m.mode.PluginHistory, m.mode.Kind == ModeWeb:
		return m.confirmWithHistory()

	case m.mode.Kind == ModeHistory:
		return m.launchFromHistory()

	default:
		idx, ok := m.tracker.Selected()
		if !ok {
			idx = 0
		}
		return m.dispatch(daemon.Activate(uint32(idx)))
	}
}

// confirmWithHistory persists the typed query, then either activates the
// first live result (nothing selected) or re-issues the stored command as a
// fresh search with execOnNextSearch set, so the daemon applies the same
// expansion it would to freshly typed input before executing it.
func (m *Model) confirmWithHistory() tea.Cmd {
	m.persistQuery()

	idx, ok := m.tracker.Selected()
	if !ok {
		return m.dispatch(daemon.Activate(0))
	}

	command, ok := m.storedCommand(idx)
	if !ok {
		log.Printf("No history record at index %d", idx)
		return nil
	}
	m.setRawInput(command)
	m.execOnNextSearch = true
	return m.dispatch(daemon.Search(command))
}

func (m *Model) persistQuery() {
	var err error
	switch m.mode.Kind {
	case ModePlugin:
		err = m.cache.PersistPlugin(m.mode.PluginName, m.inputValue.Query)
	case ModeWeb:
		err = m.cache.PersistWeb(m.mode.WebKind, m.inputValue.Query)
	}
	if err != nil {
		log.Printf("Failed to persist query: %v", err)
		return
	}
	m.bus.Publish(eventbus.HistoryPersistedEvent{Scope: m.mode.Key(), Record: m.inputValue.Query})
}

// storedCommand resolves a history index back into a full raw command.
func (m *Model) storedCommand(idx int) (string, bool) {
	switch m.mode.Kind {
	case ModePlugin:
		recs := m.cache.PluginHistory(m.mode.PluginName)
		if idx >= len(recs) {
			return "", false
		}
		return m.mode.Modifier + recs[idx].Query, true
	case ModeWeb:
		recs := m.cache.WebHistory(m.mode.WebKind)
		if idx >= len(recs) {
			return "", false
		}
		return m.mode.Modifier + recs[idx].Query, true
	}
	return "", false
}

// setRawInput replaces the input with a resolved command without resetting
// the selection or issuing a search.
func (m *Model) setRawInput(raw string) {
	mode, modifier, display := m.resolver.Resolve(raw)
	m.mode = mode
	m.inputValue = InputValue{Modifier: modifier, Query: display}
	m.input.SetValue(display)
	m.input.CursorEnd()
}

// launchFromHistory launches a previously recorded desktop entry directly;
// no daemon round-trip is needed.
func (m *Model) launchFromHistory() tea.Cmd {
	records := m.filteredHistory
	if len(records) == 0 {
		return nil
	}
	idx, ok := m.tracker.Selected()
	if !ok {
		idx = 0
	}
	if idx >= len(records) {
		return nil
	}
	return m.runEntry(records[idx].Path)
}

// runEntry persists and spawns a desktop entry, then ends the session. A
// spawn failure is surfaced in the status line rather than aborting.
func (m *Model) runEntry(path string) tea.Cmd {
	entry, err := m.loader.Load(path)
	if err != nil {
		log.Printf("Failed to load desktop entry %s: %v", path, err)
		m.status = "could not read desktop entry"
		return nil
	}

	if err := m.cache.PersistDesktopEntry(path, entry.Name); err != nil {
		log.Printf("Failed to persist desktop entry: %v", err)
	} else {
		m.bus.Publish(eventbus.HistoryPersistedEvent{Scope: "desktop", Record: path})
	}

	if err := spawn.Run(entry.Exec); err != nil {
		log.Printf("Failed to launch %s: %v", entry.Name, err)
		m.status = "failed to launch " + entry.Name
		return nil
	}
	return tea.Quit
}

// dispatch sends a request to the daemon. Before the ready signal requests
// queue; a saturated channel after ready means the daemon stopped draining
// its input, which ends the session.
func (m *Model) dispatch(req daemon.Request) tea.Cmd {
	if m.requests == nil {
		log.Printf("Daemon not ready, queueing %T request", req)
		m.pending = append(m.pending, req)
		return nil
	}
	select {
	case m.requests <- req:
		return nil
	default:
		log.Printf("Daemon request channel saturated, shutting down")
		m.status = "search daemon unavailable"
		return tea.Quit
	}
}

// refreshHistoryFilter recomputes the fuzzy-filtered desktop-entry history
// for the current query. An empty query shows the full history.
func (m *Model) refreshHistoryFilter() {
	records := m.cache.DesktopEntries()
	query := m.inputValue.Query
	if query == "" {
		m.filteredHistory = records
		return
	}
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.Name
	}
	matches := fuzzy.Find(query, names)
	filtered := make([]history.DesktopRecord, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, records[match.Index])
	}
	m.filteredHistory = filtered
}

// totalItems is the item count of the list the current mode browses.
func (m *Model) totalItems() int {
	switch m.mode.Kind {
	case ModePlugin:
		if m.mode.PluginHistory {
			return m.cache.PluginHistoryLen(m.mode.PluginName)
		}
		return len(m.liveResults)
	case ModeWeb:
		return m.cache.WebHistoryLen(m.mode.WebKind)
	case ModeHistory:
		return len(m.filteredHistory)
	default:
		return len(m.liveResults)
	}
}

// rows builds the presentation rows for the current mode.
func (m *Model) rows() []views.Row {
	selected, hasSelection := m.tracker.Selected()
	mark := func(i int) bool { return hasSelection && i == selected }

	switch m.mode.Kind {
	case ModePlugin:
		if m.mode.PluginHistory {
			recs := m.cache.PluginHistory(m.mode.PluginName)
			rows := make([]views.Row, len(recs))
			for i, rec := range recs {
				rows[i] = views.Row{Title: rec.Query, Selected: mark(i)}
			}
			return rows
		}
	case ModeWeb:
		recs := m.cache.WebHistory(m.mode.WebKind)
		rows := make([]views.Row, len(recs))
		for i, rec := range recs {
			rows[i] = views.Row{Title: rec.Query, Selected: mark(i)}
		}
		return rows
	case ModeHistory:
		rows := make([]views.Row, len(m.filteredHistory))
		for i, rec := range m.filteredHistory {
			rows[i] = views.Row{Title: rec.Name, Description: rec.Path, Selected: mark(i)}
		}
		return rows
	}

	rows := make([]views.Row, len(m.liveResults))
	for i, entry := range m.liveResults {
		rows[i] = views.Row{Title: entry.Name, Description: entry.Description, Selected: mark(i)}
	}
	return rows
}

// View implements tea.Model. Rendering is pure presentation over the current
// rows, selection and scroll offset.
func (m *Model) View() string {
	return m.renderer.Render(views.Frame{
		Hint:   m.inputValue.Modifier,
		Input:  m.input.View(),
		Rows:   m.rows(),
		Status: m.status,
		Offset: m.tracker.Offset(),
	})
}
