package bridge

import (
	"context"
	"testing"
	"time"

	"hrsync/internal/bus"
	"hrsync/internal/remote"
	"hrsync/internal/session"
)

type fakeSource struct {
	events chan remote.Notification
	closed bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan remote.Notification, 8)}
}

func (f *fakeSource) Subscribe(context.Context) (<-chan remote.Notification, func(), error) {
	return f.events, func() {
		if !f.closed {
			f.closed = true
			close(f.events)
		}
	}, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

type capture struct {
	refreshed chan struct{}
	summaries chan Summary
}

func startBridge(t *testing.T, sess *session.Session) (*fakeSource, *Bridge, *capture) {
	t.Helper()
	source := newFakeSource()
	eventBus := bus.New()
	c := &capture{
		refreshed: make(chan struct{}, 8),
		summaries: make(chan Summary, 8),
	}
	eventBus.Subscribe(bus.TopicEmployeeChanged, func(payload any) {
		if summary, ok := payload.(Summary); ok {
			c.summaries <- summary
		}
	})

	b := New(source, eventBus, sess, func() { c.refreshed <- struct{}{} })
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(b.Close)
	return source, b, c
}

func TestBridgeRepublishesForeignChanges(t *testing.T) {
	sess := session.New()
	sess.Bind("user-1")
	source, _, c := startBridge(t, sess)

	source.events <- remote.Notification{
		Op:          remote.OpInsert,
		ID:          "emp-1",
		OwnerID:     "user-1",
		DisplayName: "Jane Doe",
		Origin:      "another-session",
	}

	select {
	case summary := <-c.summaries:
		if summary.Message != "inserted Jane Doe" {
			t.Fatalf("unexpected summary: %+v", summary)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a republished summary")
	}
	select {
	case <-c.refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected refresh callback")
	}
}

func TestBridgeDropsOwnEchoes(t *testing.T) {
	sess := session.New()
	sess.Bind("user-1")
	source, _, c := startBridge(t, sess)

	source.events <- remote.Notification{
		Op:      remote.OpUpdate,
		ID:      "emp-1",
		OwnerID: "user-1",
		Origin:  sess.Token(),
	}
	source.events <- remote.Notification{
		Op:          remote.OpDelete,
		ID:          "emp-2",
		OwnerID:     "user-1",
		DisplayName: "Sam Lee",
		Origin:      "elsewhere",
	}

	summary := <-c.summaries
	if summary.ID != "emp-2" {
		t.Fatalf("expected the echo to be dropped, got %+v", summary)
	}
}

func TestBridgeDropsOtherOwners(t *testing.T) {
	sess := session.New()
	sess.Bind("user-1")
	source, _, c := startBridge(t, sess)

	source.events <- remote.Notification{Op: remote.OpInsert, ID: "x", OwnerID: "user-2", Origin: "elsewhere"}
	source.events <- remote.Notification{Op: remote.OpInsert, ID: "mine", OwnerID: "user-1", DisplayName: "Jane", Origin: "elsewhere"}

	summary := <-c.summaries
	if summary.ID != "mine" {
		t.Fatalf("expected only current-user changes, got %+v", summary)
	}
}

func TestBridgeLifecycle(t *testing.T) {
	sess := session.New()
	sess.Bind("user-1")
	source, b, _ := startBridge(t, sess)

	if b.State() != StateSubscribed {
		t.Fatalf("expected subscribed state, got %v", b.State())
	}

	b.Close()
	if b.State() != StateUnsubscribed {
		t.Fatalf("expected unsubscribed after close, got %v", b.State())
	}
	if !source.closed {
		t.Fatal("expected the remote subscription to be released")
	}
}

func TestBridgeCannotStartTwice(t *testing.T) {
	sess := session.New()
	sess.Bind("user-1")
	_, b, _ := startBridge(t, sess)

	if err := b.Start(context.Background()); err == nil {
		t.Fatal("expected second start to fail")
	}
}
