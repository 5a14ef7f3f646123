package service

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/uuidforge/internal/platform/errors"
	"github.com/louisbranch/uuidforge/internal/services/mcp/protocol"
)

// handleMessages handles POST /mcp for JSON-RPC requests. It is the write
// path for all request/notification traffic and performs per-session
// validation before routing into the session's dispatcher.
func (t *HTTPTransport) handleMessages(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Failed to read request body: %v", err)
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req, err := protocol.DecodeRequest(body)
	if err != nil {
		log.Printf("Invalid JSON-RPC message: %v", err)
		writeJSONRPCError(w, http.StatusBadRequest, err)
		return
	}

	// The handshake always mints a fresh session; a presented token is
	// deliberately ignored so stale clients cannot resurrect server state.
	// Every other method requires a live token.
	var session *httpSession
	if req.Method == protocol.MethodInitialize {
		session, err = t.createSession()
		if err != nil {
			log.Printf("Failed to create session: %v", err)
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Mcp-Session-Id", session.id)
	} else {
		token := strings.TrimSpace(r.Header.Get("Mcp-Session-Id"))
		if token == "" {
			writeSessionError(w, "Missing session ID")
			return
		}
		var ok bool
		session, ok = t.lookupSession(token)
		if !ok {
			writeSessionError(w, "Invalid or expired session ID")
			return
		}
	}

	t.touchSession(session.id)

	session.dispatchMu.Lock()
	resp := session.server.Handle(r.Context(), req)
	session.dispatchMu.Unlock()

	if resp == nil {
		// Notification - no response body
		w.WriteHeader(http.StatusNoContent)
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		log.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// handleTerminate handles DELETE /mcp. Termination is idempotent: deleting
// an unknown or already-closed token still succeeds.
func (t *HTTPTransport) handleTerminate(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token := strings.TrimSpace(r.Header.Get("Mcp-Session-Id"))
	if token == "" {
		writeSessionError(w, "Missing session ID")
		return
	}
	if t.closeSession(token) {
		log.Printf("session %s terminated", token)
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeJSONRPCError responds with a JSON-RPC error body under the given
// HTTP status.
func writeJSONRPCError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, merr := json.Marshal(protocol.NewErrorResponse(nil, err))
	if merr != nil {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32603,"message":"Internal error"},"id":null}`))
		return
	}
	_, _ = w.Write(data)
}

func writeSessionError(w http.ResponseWriter, message string) {
	writeJSONRPCError(w, http.StatusBadRequest, apperrors.New(apperrors.CodeInvalidSession, message))
}
