// Package protocol defines the JSON-RPC 2.0 message framing and the MCP
// payload shapes the server speaks on both transports.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "github.com/louisbranch/uuidforge/internal/platform/errors"
)

// Version is the JSON-RPC protocol marker carried by every message.
const Version = "2.0"

// LatestVersion is the MCP revision offered when a client requests an
// unsupported one.
const LatestVersion = "2025-03-26"

// SupportedVersions lists the MCP revisions the server negotiates, newest
// first.
var SupportedVersions = []string{"2025-03-26", "2024-11-05"}

// Method names routed by the dispatcher.
const (
	MethodInitialize      = "initialize"
	MethodInitialized     = "notifications/initialized"
	MethodPing            = "ping"
	MethodListTools       = "tools/list"
	MethodCallTool        = "tools/call"
	MethodListResources   = "resources/list"
	MethodReadResource    = "resources/read"
	MethodResourceUpdated = "notifications/resources/updated"
)

// Request is an incoming JSON-RPC request or notification. ID and Params are
// kept raw: the ID is echoed back byte for byte, and params are decoded by
// the method that owns them.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no correlation ID and
// therefore expects no response.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response is an outgoing JSON-RPC response. Exactly one of Result and Error
// is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Notification is a server-initiated message with no correlation ID.
type Notification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// NewResponse builds a success response echoing the request ID.
func NewResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: Version, ID: normalizeID(id), Result: result}
}

// NewErrorResponse builds an error response from a domain error, mapping its
// code onto the JSON-RPC error space. A nil ID marshals as null, which is
// what undecodable requests get.
func NewErrorResponse(id json.RawMessage, err error) *Response {
	message := "internal error"
	if err != nil {
		message = err.Error()
	}
	return &Response{
		JSONRPC: Version,
		ID:      normalizeID(id),
		Error:   &Error{Code: apperrors.CodeOf(err).JSONRPCCode(), Message: message},
	}
}

// NewNotification builds a server-initiated notification.
func NewNotification(method string, params any) *Notification {
	return &Notification{JSONRPC: Version, Method: method, Params: params}
}

// DecodeRequest parses a single JSON-RPC message. Malformed JSON yields a
// PARSE error; structurally valid JSON that is not a request (wrong version
// marker, missing method, response-shaped) yields INVALID_REQUEST.
func DecodeRequest(data []byte) (*Request, error) {
	var msg struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params"`
		Result  json.RawMessage `json:"result"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeParse, "parse JSON-RPC message", err)
	}
	if msg.JSONRPC != Version {
		return nil, apperrors.New(apperrors.CodeInvalidRequest, fmt.Sprintf("jsonrpc version must be %q", Version))
	}
	if msg.Method == "" {
		if len(msg.Result) > 0 || len(msg.Error) > 0 {
			return nil, apperrors.New(apperrors.CodeInvalidRequest, "response messages are not accepted")
		}
		return nil, apperrors.New(apperrors.CodeInvalidRequest, "method is required")
	}
	return &Request{
		JSONRPC: msg.JSONRPC,
		ID:      normalizeID(msg.ID),
		Method:  msg.Method,
		Params:  msg.Params,
	}, nil
}

// normalizeID folds an explicit JSON null into the absent form so that
// null-ID requests are treated as notifications.
func normalizeID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 || bytes.Equal(id, []byte("null")) {
		return nil
	}
	return id
}

// Implementation names one side of the MCP handshake.
type Implementation struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`
}

// InitializeParams is the client half of the handshake.
type InitializeParams struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Capabilities    map[string]any  `json:"capabilities,omitempty"`
	ClientInfo      *Implementation `json:"clientInfo,omitempty"`
}

// InitializeResult is the server half of the handshake.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
}

// ServerCapabilities advertises which optional MCP surfaces the server
// implements. Empty objects mean "supported, no sub-features".
type ServerCapabilities struct {
	Tools     *ToolCapabilities     `json:"tools,omitempty"`
	Resources *ResourceCapabilities `json:"resources,omitempty"`
}

// ToolCapabilities qualifies the tools surface.
type ToolCapabilities struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ResourceCapabilities qualifies the resources surface.
type ResourceCapabilities struct {
	Subscribe   bool `json:"subscribe,omitempty"`
	ListChanged bool `json:"listChanged,omitempty"`
}

// Tool is the wire descriptor returned by tools/list.
type Tool struct {
	Name        string         `json:"name"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Resource is the wire descriptor returned by resources/list.
type Resource struct {
	Name        string `json:"name"`
	URI         string `json:"uri"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Content is one element of a tool result. Only text content is produced
// today.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// TextContent wraps plain text in the content envelope.
func TextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// CallToolParams are the arguments of tools/call.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// CallToolResult is the payload returned by tools/call.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// ListToolsResult is the payload returned by tools/list.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// ListResourcesResult is the payload returned by resources/list.
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

// ReadResourceParams are the arguments of resources/read.
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// ResourceContents is one document inside a resources/read payload.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// ReadResourceResult is the payload returned by resources/read.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// ResourceUpdatedParams identifies the resource behind a
// notifications/resources/updated push.
type ResourceUpdatedParams struct {
	URI string `json:"uri"`
}
