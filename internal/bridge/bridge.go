package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"hrsync/internal/bus"
	"hrsync/internal/remote"
	"hrsync/internal/session"
)

// State is the bridge lifecycle: Unsubscribed -> Subscribing -> Subscribed,
// back to Unsubscribed on Close.
type State int

const (
	StateUnsubscribed State = iota
	StateSubscribing
	StateSubscribed
)

func (s State) String() string {
	switch s {
	case StateSubscribing:
		return "subscribing"
	case StateSubscribed:
		return "subscribed"
	default:
		return "unsubscribed"
	}
}

// Source is the remote change stream. Satisfied by *remote.Gateway.
type Source interface {
	Subscribe(ctx context.Context) (<-chan remote.Notification, func(), error)
}

// Summary is what the bridge republishes on the event bus: a toast-worthy
// description of a change that originated elsewhere.
type Summary struct {
	Op      string `json:"op"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Bridge translates server-pushed employee changes into event-bus traffic
// for the current user. Notifications for other owners are dropped, and so
// are echoes of this session's own writes: the local mutation already
// published its bus event, and double-firing would storm the UI with
// duplicate refreshes.
type Bridge struct {
	source  Source
	bus     *bus.Bus
	sess    *session.Session
	refresh func()

	mu     sync.Mutex
	state  State
	cancel func()
	done   chan struct{}
}

func New(source Source, eventBus *bus.Bus, sess *session.Session, refresh func()) *Bridge {
	return &Bridge{source: source, bus: eventBus, sess: sess, refresh: refresh}
}

func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Start subscribes to the change stream and consumes it until Close or
// until the stream ends.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.state != StateUnsubscribed {
		b.mu.Unlock()
		return errors.New("bridge already started")
	}
	b.state = StateSubscribing
	b.mu.Unlock()

	events, cancel, err := b.source.Subscribe(ctx)
	if err != nil {
		b.mu.Lock()
		b.state = StateUnsubscribed
		b.mu.Unlock()
		return err
	}

	done := make(chan struct{})
	b.mu.Lock()
	b.state = StateSubscribed
	b.cancel = cancel
	b.done = done
	b.mu.Unlock()

	go func() {
		defer close(done)
		for n := range events {
			b.handle(n)
		}
	}()
	return nil
}

// Close tears the subscription down. Skipping Close leaks the server-side
// listener for the life of the connection pool.
func (b *Bridge) Close() {
	b.mu.Lock()
	cancel := b.cancel
	done := b.done
	b.cancel = nil
	b.done = nil
	b.state = StateUnsubscribed
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (b *Bridge) handle(n remote.Notification) {
	userID, ok := b.sess.UserID()
	if !ok || n.OwnerID != userID {
		return
	}
	if n.Origin == b.sess.Token() {
		return
	}

	if b.refresh != nil {
		b.refresh()
	}
	b.bus.Publish(bus.TopicEmployeeChanged, Summary{
		Op:      n.Op,
		ID:      n.ID,
		Message: fmt.Sprintf("%s %s", verb(n.Op), n.DisplayName),
	})
}

func verb(op string) string {
	switch op {
	case remote.OpInsert:
		return "inserted"
	case remote.OpUpdate:
		return "updated"
	case remote.OpDelete:
		return "deleted"
	default:
		return "changed"
	}
}
