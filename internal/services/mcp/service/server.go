package service

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/uuidforge/internal/history"
	"github.com/louisbranch/uuidforge/internal/id"
	"github.com/louisbranch/uuidforge/internal/platform/branding"
	"github.com/louisbranch/uuidforge/internal/services/mcp/domain"
	"github.com/louisbranch/uuidforge/internal/services/mcp/protocol"
	"github.com/louisbranch/uuidforge/internal/services/mcp/registry"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// serverName identifies this MCP server to clients.
var serverName = branding.AppName

type registrationKind int

const (
	registrationKindTools registrationKind = iota
	registrationKindResources
)

type registrationModule struct {
	name     string
	kind     registrationKind
	register func(*registry.Registry) error
}

const (
	identifierToolsModuleName = "identifier-tools"
	historyResourceModuleName = "history-resources"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over HTTP/SSE for browser or remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the HTTP server address. Defaults to localhost:8081 for
	// HTTP transport.
	HTTPAddr string
	// SessionTTL reclaims HTTP sessions idle for longer than this. Zero
	// disables idle expiry.
	SessionTTL time.Duration
}

// Server binds one capability catalog, dispatcher, and history log: the full
// state of one logical MCP peer. Stdio has exactly one; HTTP builds one per
// session.
type Server struct {
	actions    *registry.Registry
	dispatcher *Dispatcher
	history    *history.Log
}

// NewServer creates tool/resource handler bindings once and keeps the
// per-peer history log they share. notify may be nil when the transport has
// no push channel.
func NewServer(generator *id.Generator, notify domain.ResourceUpdateNotifier) (*Server, error) {
	historyLog := history.NewLog(history.DefaultCapacity)
	actions := registry.NewRegistry()

	for _, module := range newRegistrationModules(generator, historyLog, notify) {
		if err := module.register(actions); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}

	return &Server{
		actions:    actions,
		dispatcher: NewDispatcher(actions, serverInfo()),
		history:    historyLog,
	}, nil
}

// Handle routes one decoded request through the dispatcher. It returns nil
// for notifications.
func (s *Server) Handle(ctx context.Context, req *protocol.Request) *protocol.Response {
	return s.dispatcher.Handle(ctx, req)
}

// serverInfo is the implementation identity reported during the handshake.
func serverInfo() protocol.Implementation {
	return protocol.Implementation{Name: serverName, Version: serverVersion}
}

func newRegistrationModules(generator *id.Generator, historyLog *history.Log, notify domain.ResourceUpdateNotifier) []registrationModule {
	return []registrationModule{
		{
			name: identifierToolsModuleName,
			kind: registrationKindTools,
			register: func(actions *registry.Registry) error {
				return registerIdentifierTools(actions, generator, historyLog, notify)
			},
		},
		{
			name: historyResourceModuleName,
			kind: registrationKindResources,
			register: func(actions *registry.Registry) error {
				return registerHistoryResources(actions, historyLog)
			},
		},
	}
}
