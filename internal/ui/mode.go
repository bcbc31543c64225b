package ui

import (
	"strings"

	"glint/internal/config"
)

// ModeKind identifies the interpretation context of the current input.
type ModeKind int

const (
	// ModeSearch shows live daemon results with no special prefix.
	ModeSearch ModeKind = iota
	// ModePlugin routes the query to a daemon plugin shortcut.
	ModePlugin
	// ModeWeb routes the query to a web-search shortcut.
	ModeWeb
	// ModeHistory browses previously launched desktop entries.
	ModeHistory
)

// ActiveMode is the mode resolved from raw input. It is recomputed on every
// keystroke and never persisted.
type ActiveMode struct {
	Kind ModeKind

	// Plugin fields
	PluginName    string
	PluginHistory bool

	// Web fields
	WebKind string

	// Modifier is the matched prefix, empty for ModeSearch and for the
	// empty-input history mode.
	Modifier string
}

// Key returns the persistence scope for this mode.
func (m ActiveMode) Key() string {
	switch m.Kind {
	case ModePlugin:
		return m.PluginName
	case ModeWeb:
		return m.WebKind
	default:
		return ""
	}
}

// Resolver matches configured prefixes against raw input. Resolution is pure:
// the same input always yields the same mode.
type Resolver struct {
	historyPrefix string
	plugins       []config.PluginConfig
	web           []config.WebConfig
}

// NewResolver builds a resolver from the configured mode prefixes.
func NewResolver(modes config.ModesConfig) *Resolver {
	return &Resolver{
		historyPrefix: modes.HistoryPrefix,
		plugins:       modes.Plugins,
		web:           modes.Web,
	}
}

// Resolve parses raw input into a mode plus a display split. The modifier is
// split off for display only; the full raw input remains the canonical query.
// Empty input and the reserved history prefix both browse launch history.
func (r *Resolver) Resolve(raw string) (ActiveMode, string, string) {
	if raw == "" {
		return ActiveMode{Kind: ModeHistory}, "", ""
	}
	if rest, ok := strings.CutPrefix(raw, r.historyPrefix); ok {
		return ActiveMode{Kind: ModeHistory, Modifier: r.historyPrefix}, r.historyPrefix, rest
	}
	for _, plugin := range r.plugins {
		if rest, ok := strings.CutPrefix(raw, plugin.Modifier); ok {
			mode := ActiveMode{
				Kind:          ModePlugin,
				PluginName:    plugin.Name,
				PluginHistory: plugin.History,
				Modifier:      plugin.Modifier,
			}
			return mode, plugin.Modifier, rest
		}
	}
	for _, web := range r.web {
		modifier := web.Kind + " "
		if rest, ok := strings.CutPrefix(raw, modifier); ok {
			mode := ActiveMode{Kind: ModeWeb, WebKind: web.Kind, Modifier: modifier}
			return mode, modifier, rest
		}
	}
	return ActiveMode{Kind: ModeSearch}, "", raw
}
