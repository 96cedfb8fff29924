package events

// Event is the base interface for all match events. Events carry no wall
// clock time: the same moves always produce the same event log.
type Event interface {
	// Type returns the event type as a string for filtering and logging
	Type() string
	// MatchID returns the ID of the match this event belongs to
	MatchID() string
	// Ply returns the number of accepted moves when the event was produced
	Ply() int
}

// BaseEvent provides common fields for all events
type BaseEvent struct {
	EventType string `json:"type"`
	Match     string `json:"matchId"`
	AtPly     int    `json:"ply"`
}

func (e BaseEvent) Type() string    { return e.EventType }
func (e BaseEvent) MatchID() string { return e.Match }
func (e BaseEvent) Ply() int        { return e.AtPly }

// EventHandler is a function that processes events
type EventHandler func(Event)

// Subscriber represents an entity that can receive events
type Subscriber interface {
	// ID returns a unique identifier for this subscriber
	ID() string
	// HandleEvent processes an event
	HandleEvent(Event)
	// InterestedIn returns true if the subscriber wants to receive this event type
	InterestedIn(eventType string) bool
}

// Publisher is the interface for publishing events
type Publisher interface {
	Publish(Event)
}

// Bus is the main event bus interface
type Bus interface {
	Publisher
	Subscribe(Subscriber)
	Unsubscribe(subscriberID string)
	SubscribeFunc(eventType string, handler EventHandler) string
}
