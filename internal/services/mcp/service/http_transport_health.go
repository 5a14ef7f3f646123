package service

import (
	"encoding/json"
	"log"
	"net/http"
)

// healthPayload is the JSON body served at /mcp/health.
type healthPayload struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// handleHealth handles GET /mcp/health for health checks. The session count
// makes leaked or stuck sessions visible without a debugger.
func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	payload := healthPayload{Status: "ok", Sessions: t.sessionCount()}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to write health response: %v", err)
	}
}
