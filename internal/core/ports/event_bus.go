package ports

import "context"

// Event carries a domain event (see domain.Topic*) to its subscribers.
type Event struct {
	Topic string
	Data  any
}

// EventHandler reacts to one event. Returned errors are logged, not retried.
type EventHandler func(ctx context.Context, event Event) error

// EventBus is the in-process pub/sub used to tell the presentation layer
// about transfers and deletions done by other chats.
type EventBus interface {
	// Publish hands the event to every subscriber of topic without waiting.
	Publish(ctx context.Context, topic string, data any) error

	// Subscribe registers a handler for topic.
	Subscribe(topic string, handler EventHandler)

	// Wait blocks until every handler started so far has returned.
	Wait()
}
