package domain

import "glint/internal/daemon"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventDaemonReady      EventType = "DaemonReady"
	EventDaemonResponse   EventType = "DaemonResponse"
	EventDaemonClosed     EventType = "DaemonClosed"
	EventHistoryPersisted EventType = "HistoryPersisted"
	EventError            EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// DaemonReadyEvent is emitted once when the daemon subprocess is up and
// carries the channel requests must be sent on. No request may be issued
// before this event arrives.
type DaemonReadyEvent struct {
	Requests chan<- daemon.Request
}

func (e DaemonReadyEvent) Type() EventType { return EventDaemonReady }

// DaemonResponseEvent wraps one decoded response from the daemon.
type DaemonResponseEvent struct {
	Response daemon.Response
}

func (e DaemonResponseEvent) Type() EventType { return EventDaemonResponse }

// DaemonClosedEvent is emitted when the daemon's output stream ends.
type DaemonClosedEvent struct {
	Err error
}

func (e DaemonClosedEvent) Type() EventType { return EventDaemonClosed }

// HistoryPersistedEvent is emitted after a record is written to the history store.
type HistoryPersistedEvent struct {
	Scope  string // "plugin", "web" or "desktop"
	Record string
}

func (e HistoryPersistedEvent) Type() EventType { return EventHistoryPersisted }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
