package service

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/louisbranch/uuidforge/internal/id"
	"github.com/louisbranch/uuidforge/internal/platform/config"
)

var listenTCP = net.Listen

// httpEnv holds env-parsed configuration for the MCP HTTP transport.
type httpEnv struct {
	AllowedHosts []string `env:"UUIDFORGE_ALLOWED_HOSTS" envSeparator:","`
}

const (
	// notifyBufferSize is the buffer size for per-session notification
	// channels. A slow or absent event stream drops updates instead of
	// blocking tool calls.
	notifyBufferSize = 10

	// defaultShutdownTimeout is the maximum time to wait for graceful HTTP
	// server shutdown once the run context ends.
	defaultShutdownTimeout = 10 * time.Second

	// sessionCleanupInterval is how often the cleanup goroutine runs to
	// remove expired sessions.
	sessionCleanupInterval = 5 * time.Minute

	// defaultSessionTTL is how long a session can be inactive before being
	// cleaned up when no explicit TTL is configured.
	defaultSessionTTL = 1 * time.Hour

	// sseHeartbeatInterval is how often to update lastUsed for active SSE
	// connections.
	sseHeartbeatInterval = 30 * time.Second
)

// HTTPTransport serves MCP over HTTP: JSON-RPC messages on POST, an SSE
// stream on GET, and session termination on DELETE, all on one path. The
// implementation is intentionally explicit about session lifecycle and
// cleanup so long-lived local MCP clients cannot leak resources.
type HTTPTransport struct {
	addr         string
	allowedHosts map[string]struct{}
	generator    *id.Generator
	sessionTTL   time.Duration
	sessions     map[string]*httpSession
	sessionsMu   sync.RWMutex
	httpServer   *http.Server
	serverCtx    context.Context
	serverCancel context.CancelFunc
}

// NewHTTPTransport creates an HTTP transport bound to addr. It defaults to
// localhost-only binding so the default footprint stays constrained to local
// development unless explicit host configuration broadens access. A zero
// sessionTTL keeps the default idle expiry; a negative one disables it.
func NewHTTPTransport(addr string, generator *id.Generator, sessionTTL time.Duration) *HTTPTransport {
	// Default to localhost-only binding for security
	if addr == "" {
		addr = "localhost:8081"
	}
	if sessionTTL == 0 {
		sessionTTL = defaultSessionTTL
	}
	var raw httpEnv
	_ = config.ParseEnv(&raw)
	ctx, cancel := context.WithCancel(context.Background())
	return &HTTPTransport{
		addr:         addr,
		allowedHosts: parseAllowedHosts(raw.AllowedHosts),
		generator:    generator,
		sessionTTL:   sessionTTL,
		sessions:     make(map[string]*httpSession),
		serverCtx:    ctx,
		serverCancel: cancel,
	}
}

// Start runs the HTTP server until the context ends or serving fails. The
// same server instance multiplexes POST requests, SSE streams, and session
// teardown while sharing host validation and session lifecycle enforcement.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.serverCtx, t.serverCancel = context.WithCancel(ctx)
	defer t.serverCancel()

	go t.cleanupSessions(t.serverCtx)

	mux := http.NewServeMux()

	// /mcp handles GET (SSE), POST (messages), and DELETE (terminate) based
	// on HTTP method.
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			t.handleSSE(w, r)
		case http.MethodPost:
			t.handleMessages(w, r)
		case http.MethodDelete:
			t.handleTerminate(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// GET /mcp/health - Health check endpoint
	mux.HandleFunc("/mcp/health", t.handleHealth)

	t.httpServer = &http.Server{
		Addr:    t.addr,
		Handler: mux,
	}

	log.Printf("Starting MCP HTTP server on %s", t.addr)

	errChan := make(chan error, 1)
	go func() {
		listener, err := listenTCP("tcp", t.addr)
		if err != nil {
			errChan <- err
			return
		}
		if err := t.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down MCP HTTP server")
		// Cancel the server context first so SSE streams unblock and
		// Shutdown is not held open by them.
		t.serverCancel()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := t.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		t.closeAllSessions()
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}
