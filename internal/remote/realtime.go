package remote

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Subscribe opens the server-push change stream: a dedicated connection
// held on LISTEN until the returned cancel func runs. Callers must invoke
// cancel on teardown; an abandoned subscription pins its connection (and
// the server-side listener) for the life of the pool.
func (g *Gateway) Subscribe(ctx context.Context) (<-chan Notification, func(), error) {
	conn, err := g.DB.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		conn.Release()
		return nil, nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	events := make(chan Notification, 16)

	go func() {
		defer close(events)
		defer conn.Release()
		for {
			raw, err := conn.Conn().WaitForNotification(streamCtx)
			if err != nil {
				if streamCtx.Err() == nil {
					slog.Warn("change stream closed", "err", err)
				}
				return
			}
			var n Notification
			if err := json.Unmarshal([]byte(raw.Payload), &n); err != nil {
				slog.Warn("change notification decode failed", "err", err)
				continue
			}
			select {
			case events <- n:
			case <-streamCtx.Done():
				return
			}
		}
	}()

	return events, cancel, nil
}
