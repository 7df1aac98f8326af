package events

import (
	"sync"
)

// EventHandler defines a function type where its input type is the generic type.
type EventHandler[T any] func(T)

// EventEmitter describes a provider which can subscribe EventHandler methods for callback when the event type (generic)
// is published. It additionally provides methods for publishing events. The zero value is ready to use and safe for
// concurrent use.
type EventEmitter[T any] struct {
	// subscriptions defines the EventHandler methods which should be invoked when a new event is published to this
	// emitter.
	subscriptions []EventHandler[T]

	// lock guards subscriptions.
	lock sync.RWMutex
}

// Publish emits the provided event by calling every EventHandler subscribed, in subscription order. Handlers are called
// without the emitter's lock held, so they may subscribe further handlers.
func (e *EventEmitter[T]) Publish(event T) {
	e.lock.RLock()
	subscriptions := append([]EventHandler[T]{}, e.subscriptions...)
	e.lock.RUnlock()

	for _, subscription := range subscriptions {
		subscription(event)
	}
}

// Subscribe adds an EventHandler to the list of subscribed EventHandler objects for this emitter. When an event is
// published, the callback will be triggered with the event data.
func (e *EventEmitter[T]) Subscribe(callback EventHandler[T]) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.subscriptions = append(e.subscriptions, callback)
}
