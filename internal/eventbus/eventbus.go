package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"glint/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventDaemonReady      = domain.EventDaemonReady
	EventDaemonResponse   = domain.EventDaemonResponse
	EventDaemonClosed     = domain.EventDaemonClosed
	EventHistoryPersisted = domain.EventHistoryPersisted
	EventError            = domain.EventError
)

// Re-export domain event types
type DaemonReadyEvent = domain.DaemonReadyEvent
type DaemonResponseEvent = domain.DaemonResponseEvent
type DaemonClosedEvent = domain.DaemonClosedEvent
type HistoryPersistedEvent = domain.HistoryPersistedEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Stop()
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]EventHandler
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	quitOnce  sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]EventHandler),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	select {
	case b.eventChan <- event:
	default:
		// Channel full, log and drop
		log.Printf("Event bus channel full, dropping event: %v", event.Type())
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	idx := len(b.handlers[eventType]) - 1

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		handlers := b.handlers[eventType]
		if idx < len(handlers) {
			b.handlers[eventType] = append(handlers[:idx], handlers[idx+1:]...)
		}
	}
}

// Stop shuts down the dispatch loop. Pending events are discarded.
func (b *bus) Stop() {
	b.quitOnce.Do(func() { close(b.quit) })
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers. Handlers run
// synchronously on this goroutine: daemon responses must reach the
// controller in the order they arrived, so there is exactly one in
// flight at a time.
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			handlers := b.handlers[event.Type()]
			handlersCopy := make([]EventHandler, len(handlers))
			copy(handlersCopy, handlers)
			b.mu.RUnlock()

			for _, handler := range handlersCopy {
				b.call(handler, event)
			}

		case <-b.quit:
			return
		}
	}
}

func (b *bus) call(handler EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Event handler panic for %s: %v\nStack: %s", event.Type(), r, debug.Stack())
		}
	}()
	handler(event)
}
