package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"hrsync/internal/bus"
	"hrsync/internal/transport/http/api"
	"hrsync/internal/transport/http/middleware"
)

var streamedTopics = []bus.Topic{
	bus.TopicEmployeeChanged,
	bus.TopicLeaveChanged,
	bus.TopicPayrollChanged,
	bus.TopicAuthChanged,
	bus.TopicPageLoadFailed,
	bus.TopicPageLoaded,
}

type busEvent struct {
	Topic   bus.Topic
	Payload any
}

// handleEvents streams bus notifications to the UI as server-sent events,
// one SSE event per publish, until the client disconnects.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		reqID := middleware.GetRequestID(r.Context())
		api.Fail(w, http.StatusInternalServerError, "streaming_unsupported", "response writer cannot stream", reqID)
		return
	}

	// Buffered so a slow write never blocks Publish; overflow events for a
	// stalled client are dropped.
	events := make(chan busEvent, 64)
	unsubs := make([]func(), 0, len(streamedTopics))
	for _, topic := range streamedTopics {
		unsubs = append(unsubs, h.Bus.Subscribe(topic, func(payload any) {
			select {
			case events <- busEvent{Topic: topic, Payload: payload}:
			default:
			}
		}))
	}
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Topic, data)
			flusher.Flush()
		}
	}
}
