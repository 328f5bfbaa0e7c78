package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"cantina/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange         EventType = "balance_change"
	EventTypeProfileRegistered     EventType = "profile_registered"
	EventTypeEliminationTurnSkip   EventType = "elimination_turn_skip"
	EventTypeEliminationGameClosed EventType = "elimination_game_closed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// Publisher is the write side of the bus, the only part components depend on.
type Publisher interface {
	Publish(event Event)
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          string
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// ProfileRegisteredEvent represents a new profile registration
type ProfileRegisteredEvent struct {
	UserID string
}

func (e ProfileRegisteredEvent) Type() EventType {
	return EventTypeProfileRegistered
}

// EliminationTurnSkipEvent fires when a turn timer expires and the engine
// silently passes the turn on. It is the one engine transition with no
// command behind it, so the bot can only learn about it from the bus.
type EliminationTurnSkipEvent struct {
	ChannelID string
	Skipped   string
	Next      string
	Deadline  time.Time
}

func (e EliminationTurnSkipEvent) Type() EventType {
	return EventTypeEliminationTurnSkip
}

// EliminationGameClosedEvent fires when a game leaves the registry, whether
// won, emptied or cancelled.
type EliminationGameClosedEvent struct {
	ChannelID string
	Winner    string // empty when the game ended without one
	Cancelled bool
}

func (e EliminationGameClosedEvent) Type() EventType {
	return EventTypeEliminationGameClosed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Handlers run asynchronously so a publisher holding a game lock is never
	// blocked on rendering.
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Publish implements Publisher with a background context.
func (b *Bus) Publish(event Event) {
	b.Emit(context.Background(), event)
}
