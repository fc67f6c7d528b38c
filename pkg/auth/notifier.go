package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"petmatch/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const DefaultTopic = "auth.state_changed"

// NewEventBus returns the in-process bus auth events travel on. Publish waits
// for the dispatcher's ack, so events for a session arrive in publish order.
// Listeners must not publish.
func NewEventBus(log watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{BlockPublishUntilSubscriberAck: true},
		log,
	)
}

// Notifier carries auth-state changes over a watermill topic and fans them
// out to the listeners registered for the affected session id.
type Notifier struct {
	pubSub *gochannel.GoChannel
	topic  string
	logger logger.ILogger

	mu        sync.RWMutex
	listeners map[string]map[uint64]Listener
	nextID    uint64
}

func NewNotifier(pubSub *gochannel.GoChannel, topic string, log logger.ILogger) *Notifier {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Notifier{
		pubSub:    pubSub,
		topic:     topic,
		logger:    log,
		listeners: make(map[string]map[uint64]Listener),
	}
}

// Run subscribes to the topic and dispatches until ctx is done.
func (n *Notifier) Run(ctx context.Context) error {
	messages, err := n.pubSub.Subscribe(ctx, n.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", n.topic, err)
	}

	go func() {
		for msg := range messages {
			n.dispatch(msg)
		}
	}()

	return nil
}

func (n *Notifier) Publish(event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal auth event: %w", err)
	}
	return n.pubSub.Publish(n.topic, message.NewMessage(watermill.NewUUID(), payload))
}

// Subscribe registers listener for sessionID. The returned Subscription must be released.
func (n *Notifier) Subscribe(sessionID string, listener Listener) *Subscription {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	if n.listeners[sessionID] == nil {
		n.listeners[sessionID] = make(map[uint64]Listener)
	}
	n.listeners[sessionID][id] = listener
	n.mu.Unlock()

	return newSubscription(func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners[sessionID], id)
		if len(n.listeners[sessionID]) == 0 {
			delete(n.listeners, sessionID)
		}
	})
}

func (n *Notifier) ListenerCount(sessionID string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners[sessionID])
}

func (n *Notifier) dispatch(msg *message.Message) {
	defer msg.Ack()

	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		n.logger.Error("AuthNotifier", "Dropping malformed auth event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	n.mu.RLock()
	targets := make([]Listener, 0, len(n.listeners[event.SessionID]))
	for _, l := range n.listeners[event.SessionID] {
		targets = append(targets, l)
	}
	n.mu.RUnlock()

	for _, l := range targets {
		l(event)
	}
}

// Subscription releases a listener exactly once.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}
