package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/louisbranch/uuidforge/internal/services/mcp/protocol"
)

// maxFrameBytes caps a single newline-delimited stdio frame.
const maxFrameBytes = 4 * 1024 * 1024

// StdioTransport serves MCP over newline-delimited JSON on a byte pipe. It
// carries exactly one implicit session for the life of the process, and
// protocol frames are the only bytes it ever writes to out: diagnostics go
// to the standard logger.
type StdioTransport struct {
	in  io.Reader
	out io.Writer

	writeMu sync.Mutex
	pending []*protocol.Notification
}

// NewStdioTransport wraps the given pipe ends.
func NewStdioTransport(in io.Reader, out io.Writer) *StdioTransport {
	return &StdioTransport{in: in, out: out}
}

// notifyResourceUpdated queues a resource update. Queued updates are written
// after the response to the request that triggered them, keeping frames
// whole and ordered.
func (t *StdioTransport) notifyResourceUpdated(_ context.Context, uri string) {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	t.pending = append(t.pending, protocol.NewNotification(protocol.MethodResourceUpdated, protocol.ResourceUpdatedParams{URI: uri}))
}

// Serve reads frames until EOF or context cancellation. Each line is
// decoded, dispatched, and answered in arrival order; malformed lines get an
// error response with a null ID.
func (t *StdioTransport) Serve(ctx context.Context, server *Server) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(t.in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxFrameBytes)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read stdio frame: %w", err)
					}
				default:
				}
				return nil
			}
			t.handleFrame(ctx, server, line)
		}
	}
}

func (t *StdioTransport) handleFrame(ctx context.Context, server *Server, line []byte) {
	frame := bytes.TrimSpace(line)
	if len(frame) == 0 {
		return
	}
	req, err := protocol.DecodeRequest(frame)
	if err != nil {
		t.writeMessage(protocol.NewErrorResponse(nil, err))
		return
	}
	if resp := server.Handle(ctx, req); resp != nil {
		t.writeMessage(resp)
	}
	t.flushNotifications()
}

// writeMessage frames one JSON value per line.
func (t *StdioTransport) writeMessage(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("encode stdio frame: %v", err)
		return
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := fmt.Fprintf(t.out, "%s\n", data); err != nil {
		log.Printf("write stdio frame: %v", err)
	}
}

// flushNotifications drains updates queued by the request that just
// completed.
func (t *StdioTransport) flushNotifications() {
	t.writeMu.Lock()
	queued := t.pending
	t.pending = nil
	t.writeMu.Unlock()
	for _, note := range queued {
		t.writeMessage(note)
	}
}
