// Package uuidforge wires command configuration to the MCP service runtime.
package uuidforge

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/uuidforge/internal/services/mcp/service"
)

// Run starts the MCP server with the provided transport type, HTTP address,
// and HTTP session idle expiry.
func Run(ctx context.Context, transport, httpAddr string, sessionTTL time.Duration) error {
	var transportKind service.TransportKind
	switch transport {
	case "http":
		transportKind = service.TransportHTTP
	case "stdio", "":
		transportKind = service.TransportStdio
	default:
		return fmt.Errorf("invalid transport %q: must be 'stdio' or 'http'", transport)
	}

	return service.Run(ctx, service.Config{
		Transport:  transportKind,
		HTTPAddr:   httpAddr,
		SessionTTL: sessionTTL,
	})
}
