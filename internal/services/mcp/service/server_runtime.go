package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/louisbranch/uuidforge/internal/id"
)

// Run is the service entrypoint for MCP and blocks until context
// cancellation. It is intentionally transport-agnostic so startup can choose
// stdio for local tools and HTTP for browser/remote integrations.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithStdioTransport(ctx)
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithStdioTransport serves the single implicit session over the process
// pipe. Diagnostics stay on stderr so stdout carries only protocol frames.
func runWithStdioTransport(ctx context.Context) error {
	transport := NewStdioTransport(os.Stdin, os.Stdout)
	server, err := NewServer(id.NewGenerator(), transport.notifyResourceUpdated)
	if err != nil {
		return err
	}
	err = transport.Serve(ctx, server)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// runWithHTTPTransport keeps HTTP session/stateful transport concerns
// isolated from the same MCP domain handlers used by stdio.
func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	// Default to localhost-only binding for security
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = "localhost:8081"
	}

	transport := NewHTTPTransport(httpAddr, id.NewGenerator(), cfg.SessionTTL)
	err := transport.Start(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
