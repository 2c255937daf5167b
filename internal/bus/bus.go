package bus

import "sync"

// Topic names a change-notification channel. The set is fixed; consumers
// subscribe by constant, never by ad hoc string.
type Topic string

const (
	TopicEmployeeChanged Topic = "employee_changed"
	TopicLeaveChanged    Topic = "leave_changed"
	TopicPayrollChanged  Topic = "payroll_changed"
	TopicAuthChanged     Topic = "auth_changed"
	TopicPageLoadFailed  Topic = "page_load_failed"
	TopicPageLoaded      Topic = "page_loaded"
)

type Handler func(payload any)

// Bus is an in-process publish/subscribe fan-out. Delivery is synchronous:
// Publish returns after every handler registered at call time has run.
// Subscribers attached after a publish do not see it. Cross-process
// propagation is the realtime bridge's job, not the bus's.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic]map[int]Handler
}

func New() *Bus {
	return &Bus{subs: make(map[Topic]map[int]Handler)}
}

// Subscribe registers handler for topic and returns an unsubscribe func.
// Callers must invoke it on teardown; the bus holds the handler forever
// otherwise.
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	b.nextID++
	id := b.nextID
	b.subs[topic][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish invokes every current subscriber of topic with payload. Handlers
// run outside the registry lock, so a handler may subscribe or unsubscribe
// without deadlocking.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, h := range b.subs[topic] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}
