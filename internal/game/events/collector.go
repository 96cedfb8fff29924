package events

import "sync"

// Collector is a Subscriber that keeps every event it receives, in order.
type Collector struct {
	id     string
	mu     sync.Mutex
	events []Event
}

func NewCollector(id string) *Collector {
	return &Collector{id: id}
}

func (c *Collector) ID() string                 { return c.id }
func (c *Collector) InterestedIn(_ string) bool { return true }

func (c *Collector) HandleEvent(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

// Events returns a copy of the collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// OfType returns the collected events with the given type.
func (c *Collector) OfType(eventType string) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, e := range c.events {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}
