package events

import (
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

type funcHandler struct {
	id      string
	handler EventHandler
}

// EventBus is a synchronous event bus. Subscribers and handlers are called
// in the order they were registered.
type EventBus struct {
	subscribers  []Subscriber
	funcHandlers map[string][]funcHandler
	nextHandler  int
	mu           sync.RWMutex
	logger       zerolog.Logger
}

// NewEventBus creates a new event bus instance
func NewEventBus(logger zerolog.Logger) *EventBus {
	return &EventBus{
		funcHandlers: make(map[string][]funcHandler),
		logger:       logger.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds a subscriber, replacing any existing one with the same ID
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.removeLocked(subscriber.ID())
	eb.subscribers = append(eb.subscribers, subscriber)
	eb.logger.Debug().
		Str("subscriber_id", subscriber.ID()).
		Msg("Subscriber added to event bus")
}

// Unsubscribe removes a subscriber or function handler from the event bus
func (eb *EventBus) Unsubscribe(subscriberID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.removeLocked(subscriberID)
	for eventType, handlers := range eb.funcHandlers {
		kept := handlers[:0:0]
		for _, h := range handlers {
			if h.id != subscriberID {
				kept = append(kept, h)
			}
		}
		eb.funcHandlers[eventType] = kept
	}
	eb.logger.Debug().
		Str("subscriber_id", subscriberID).
		Msg("Subscriber removed from event bus")
}

func (eb *EventBus) removeLocked(id string) {
	kept := eb.subscribers[:0:0]
	for _, s := range eb.subscribers {
		if s.ID() != id {
			kept = append(kept, s)
		}
	}
	eb.subscribers = kept
}

// SubscribeFunc adds a function handler for one event type and returns an
// ID usable with Unsubscribe
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextHandler++
	id := eventType + "_func_" + strconv.Itoa(eb.nextHandler)
	eb.funcHandlers[eventType] = append(eb.funcHandlers[eventType], funcHandler{id: id, handler: handler})
	eb.logger.Debug().
		Str("event_type", eventType).
		Str("handler_id", id).
		Msg("Function handler added to event bus")
	return id
}

// Publish sends an event to all interested subscribers synchronously
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	eventType := event.Type()
	eb.logger.Debug().
		Str("event_type", eventType).
		Str("match_id", event.MatchID()).
		Int("ply", event.Ply()).
		Msg("Publishing event")

	for _, subscriber := range eb.subscribers {
		if subscriber.InterestedIn(eventType) {
			eb.safeCall(subscriber.ID(), eventType, func() { subscriber.HandleEvent(event) })
		}
	}
	for _, h := range eb.funcHandlers[eventType] {
		eb.safeCall(h.id, eventType, func() { h.handler(event) })
	}
}

// safeCall keeps one panicking subscriber from breaking the others
func (eb *EventBus) safeCall(id, eventType string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("subscriber_id", id).
				Str("event_type", eventType).
				Interface("panic", r).
				Msg("Subscriber panicked while handling event")
		}
	}()
	fn()
}

// GetSubscriberCount returns the number of subscribers for debugging
func (eb *EventBus) GetSubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// GetFuncHandlerCount returns the number of function handlers for a specific event type
func (eb *EventBus) GetFuncHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.funcHandlers[eventType])
}
