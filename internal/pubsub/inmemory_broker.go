package pubsub

import (
	"context"
	"sync"
)

// InMemoryBroker is a process local Broker used in tests and single
// instance deployments without a postgres listener connection.
type InMemoryBroker struct {
	mux         sync.RWMutex
	subscribers map[Channel][]chan map[string]any
	published   []Message
}

func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		subscribers: make(map[Channel][]chan map[string]any),
	}
}

func (b *InMemoryBroker) Publish(ctx context.Context, message Message) error {
	b.mux.Lock()
	defer b.mux.Unlock()

	b.published = append(b.published, message)
	// sends happen under the lock so Unsubscribe cannot close a channel
	// mid fan-out; they never block
	for _, subscriber := range b.subscribers[message.GetChannel()] {
		select {
		case subscriber <- message.GetPayload():
		default:
			// same at-most-once semantics as the postgres broker
		}
	}
	return nil
}

func (b *InMemoryBroker) Subscribe(topic Channel) (<-chan map[string]any, error) {
	b.mux.Lock()
	defer b.mux.Unlock()

	ch := make(chan map[string]any, 100)
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch, nil
}

func (b *InMemoryBroker) Unsubscribe(topic Channel, ch <-chan map[string]any) {
	b.mux.Lock()
	defer b.mux.Unlock()

	subscribers := b.subscribers[topic]
	for i, subscriber := range subscribers {
		if (<-chan map[string]any)(subscriber) != ch {
			continue
		}
		b.subscribers[topic] = append(subscribers[:i], subscribers[i+1:]...)
		close(subscriber)
		break
	}
	if len(b.subscribers[topic]) == 0 {
		delete(b.subscribers, topic)
	}
}

// SubscriberCount reports the live subscribers of a topic. Test helper.
func (b *InMemoryBroker) SubscriberCount(topic Channel) int {
	b.mux.RLock()
	defer b.mux.RUnlock()
	return len(b.subscribers[topic])
}

// Published returns everything published so far. Test helper.
func (b *InMemoryBroker) Published() []Message {
	b.mux.RLock()
	defer b.mux.RUnlock()
	out := make([]Message, len(b.published))
	copy(out, b.published)
	return out
}
