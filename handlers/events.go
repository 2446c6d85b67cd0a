// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/voteledger/event"
	"github.com/danielhkuo/voteledger/middleware"
)

const keepAliveInterval = 15 * time.Second

// EventsHandler streams ledger events to HTTP clients
type EventsHandler struct {
	bus *event.EventBus
}

func NewEventsHandler(bus *event.EventBus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// Stream handles GET /events as a server-sent event stream. Each event is
// written with its type as the SSE event name and its payload as JSON data.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	id, events := h.bus.Subscribe(event.LedgerEventTypes...)
	defer h.bus.Unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case evt, ok := <-events:
			if !ok {
				// Bus stopped
				return
			}
			data, err := json.Marshal(evt.Data)
			if err != nil {
				slog.Error("failed to encode event", "type", evt.Type, "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
