package service

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// handleSSE handles GET /mcp for Server-Sent Events streaming. SSE is
// intentionally kept as a notification-only path: request/reply traffic
// stays on POST, and the stream only carries resource update pushes for its
// session.
func (t *HTTPTransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token := strings.TrimSpace(r.Header.Get("Mcp-Session-Id"))
	if token == "" {
		writeSessionError(w, "Missing session ID")
		return
	}
	session, ok := t.lookupSession(token)
	if !ok {
		writeSessionError(w, "Invalid or expired session ID")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	t.touchSession(session.id)

	// Periodic heartbeat keeps active streams from being reclaimed as idle.
	ticker := time.NewTicker(sseHeartbeatInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.serverCtx.Done():
			return
		case <-session.closed:
			return
		case <-ticker.C:
			t.touchSession(session.id)
		case note := <-session.notify:
			t.touchSession(session.id)
			data, err := json.Marshal(note)
			if err != nil {
				log.Printf("Failed to marshal SSE message: %v", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
