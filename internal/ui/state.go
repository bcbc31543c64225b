package ui

import "glint/internal/history"

// HistoryFacade is the controller's read/write view over persisted history,
// scoped by mode. The concrete store lives in internal/history; tests use an
// in-memory fake.
type HistoryFacade interface {
	PluginHistory(name string) []history.PluginRecord
	PluginHistoryLen(name string) int
	WebHistory(kind string) []history.WebRecord
	WebHistoryLen(kind string) int
	DesktopEntries() []history.DesktopRecord
	DesktopEntriesLen() int
	PersistPlugin(name, query string) error
	PersistWeb(kind, query string) error
	PersistDesktopEntry(path, name string) error
}

// InputValue is the display split of the raw input: the matched modifier
// shown as a mode hint, and the query text shown in the input field. The
// canonical query sent to the daemon is always Modifier + Query.
type InputValue struct {
	Modifier string
	Query    string
}

// Raw reassembles the canonical daemon query.
func (v InputValue) Raw() string {
	return v.Modifier + v.Query
}
