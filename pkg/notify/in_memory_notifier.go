package notify

import "sync"

// InMemoryNotifier records published events for tests. Set ErrToReturn to
// simulate an unreachable broker.
type InMemoryNotifier struct {
	ErrToReturn error

	mu     sync.Mutex
	events []Event
}

func NewInMemoryNotifier() *InMemoryNotifier {
	return &InMemoryNotifier{}
}

func (n *InMemoryNotifier) Publish(event Event) error {
	if n.ErrToReturn != nil {
		return n.ErrToReturn
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)

	return nil
}

func (n *InMemoryNotifier) Events() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()

	events := make([]Event, len(n.events))
	copy(events, n.events)
	return events
}
