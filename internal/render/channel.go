package render

import "sync"

// Channel is an unbounded FIFO between one producer and one consumer. Push
// never blocks on the consumer and Poll never blocks on the producer.
type Channel struct {
	mu      sync.Mutex
	nextSeq int64
	events  []Event
}

func NewChannel() *Channel {
	return &Channel{}
}

// Push appends event, assigns its sequence number and returns the stored copy.
func (c *Channel) Push(event Event) Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSeq++
	event.Seq = c.nextSeq
	c.events = append(c.events, event)
	return event
}

// Poll removes and returns the oldest pending event.
func (c *Channel) Poll() (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.events) == 0 {
		return Event{}, false
	}
	event := c.events[0]
	c.events[0] = Event{}
	c.events = c.events[1:]
	if len(c.events) == 0 {
		c.events = nil
	}
	return event, true
}

// Drain removes and returns every pending event in order.
func (c *Channel) Drain() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.events
	c.events = nil
	return out
}

func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}
