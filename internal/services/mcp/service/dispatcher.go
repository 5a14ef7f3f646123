package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/uuidforge/internal/platform/errors"
	"github.com/louisbranch/uuidforge/internal/services/mcp/protocol"
	"github.com/louisbranch/uuidforge/internal/services/mcp/registry"
)

// Dispatcher maps decoded requests onto registered tool and resource
// handlers. One dispatcher serves one logical peer and is driven by that
// peer's transport loop.
type Dispatcher struct {
	actions *registry.Registry
	info    protocol.Implementation
	tracer  trace.Tracer
}

// NewDispatcher builds a dispatcher over a populated catalog.
func NewDispatcher(actions *registry.Registry, info protocol.Implementation) *Dispatcher {
	return &Dispatcher{
		actions: actions,
		info:    info,
		tracer:  otel.Tracer("uuidforge/mcp"),
	}
}

// Handle processes a single request and returns its response. Notifications
// return nil: they are accepted without a reply.
func (d *Dispatcher) Handle(ctx context.Context, req *protocol.Request) *protocol.Response {
	ctx, span := d.tracer.Start(ctx, "mcp."+req.Method,
		trace.WithAttributes(attribute.String("mcp.method", req.Method)))
	defer span.End()

	if req.IsNotification() {
		d.handleNotification(req)
		return nil
	}

	result, err := d.dispatch(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, string(apperrors.CodeOf(err)))
		return protocol.NewErrorResponse(req.ID, err)
	}
	return protocol.NewResponse(req.ID, result)
}

// handleNotification accepts fire-and-forget messages. Unknown notifications
// are logged and dropped rather than answered: writing an error for a
// message that expects no reply would desynchronize the stream.
func (d *Dispatcher) handleNotification(req *protocol.Request) {
	switch req.Method {
	case protocol.MethodInitialized:
		log.Printf("client initialization confirmed")
	default:
		log.Printf("ignoring notification %q", req.Method)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, req *protocol.Request) (any, error) {
	switch req.Method {
	case protocol.MethodInitialize:
		return d.initialize(req)
	case protocol.MethodPing:
		return struct{}{}, nil
	case protocol.MethodListTools:
		return d.listTools(), nil
	case protocol.MethodCallTool:
		return d.callTool(ctx, req)
	case protocol.MethodListResources:
		return d.listResources(), nil
	case protocol.MethodReadResource:
		return d.readResource(ctx, req)
	default:
		return nil, apperrors.WithMetadata(apperrors.CodeMethodNotFound,
			fmt.Sprintf("method %q is not supported", req.Method),
			map[string]string{"method": req.Method})
	}
}

// initialize negotiates the protocol revision and reports capabilities.
// Params are optional: a client that sends none gets the latest revision.
func (d *Dispatcher) initialize(req *protocol.Request) (any, error) {
	var params protocol.InitializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInvalidParams, "decode initialize params", err)
		}
	}

	version := protocol.LatestVersion
	for _, supported := range protocol.SupportedVersions {
		if params.ProtocolVersion == supported {
			version = supported
			break
		}
	}
	if params.ClientInfo != nil {
		log.Printf("client connected: %s %s", params.ClientInfo.Name, params.ClientInfo.Version)
	}

	return protocol.InitializeResult{
		ProtocolVersion: version,
		Capabilities: protocol.ServerCapabilities{
			Tools:     &protocol.ToolCapabilities{},
			Resources: &protocol.ResourceCapabilities{},
		},
		ServerInfo: d.info,
	}, nil
}

// listTools translates the catalog descriptors into their wire form.
func (d *Dispatcher) listTools() protocol.ListToolsResult {
	tools := d.actions.Tools()
	out := make([]protocol.Tool, 0, len(tools))
	for _, tool := range tools {
		out = append(out, protocol.Tool{
			Name:        tool.Name,
			Title:       tool.Title,
			Description: tool.Description,
			InputSchema: tool.Schema.JSONSchema(),
		})
	}
	return protocol.ListToolsResult{Tools: out}
}

// listResources translates the catalog descriptors into their wire form.
func (d *Dispatcher) listResources() protocol.ListResourcesResult {
	resources := d.actions.Resources()
	out := make([]protocol.Resource, 0, len(resources))
	for _, resource := range resources {
		out = append(out, protocol.Resource{
			Name:        resource.Name,
			URI:         resource.URI,
			Title:       resource.Title,
			Description: resource.Description,
			MimeType:    resource.MimeType,
		})
	}
	return protocol.ListResourcesResult{Resources: out}
}

func (d *Dispatcher) callTool(ctx context.Context, req *protocol.Request) (any, error) {
	var params protocol.CallToolParams
	if err := unmarshalParams(req.Params, &params); err != nil {
		return nil, err
	}

	tool, handler, ok := d.actions.Tool(params.Name)
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeMethodNotFound,
			fmt.Sprintf("tool %q is not registered", params.Name),
			map[string]string{"tool": params.Name})
	}

	args, err := tool.Schema.Apply(params.Arguments)
	if err != nil {
		return nil, err
	}

	result, err := runToolHandler(ctx, tool.Name, handler, args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &protocol.CallToolResult{}
	}
	return result, nil
}

// runToolHandler isolates handler faults: a panic or an uncoded error
// surfaces as INTERNAL so the caller can tell it apart from argument
// validation failures.
func runToolHandler(ctx context.Context, name string, handler registry.ToolHandler, args registry.Args) (result *protocol.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tool %q panicked: %v", name, r)
			result = nil
			err = apperrors.New(apperrors.CodeInternal, fmt.Sprintf("tool %q failed", name))
		}
	}()
	result, err = handler(ctx, args)
	if err != nil && apperrors.CodeOf(err) == apperrors.CodeUnknown {
		err = apperrors.Wrap(apperrors.CodeInternal, fmt.Sprintf("tool %q failed", name), err)
	}
	return result, err
}

func (d *Dispatcher) readResource(ctx context.Context, req *protocol.Request) (any, error) {
	var params protocol.ReadResourceParams
	if err := unmarshalParams(req.Params, &params); err != nil {
		return nil, err
	}
	if params.URI == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParams, "resource uri is required")
	}

	resource, handler, ok := d.actions.Resource(params.URI)
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeResourceNotFound,
			fmt.Sprintf("resource %q is not registered", params.URI),
			map[string]string{"uri": params.URI})
	}

	result, err := runResourceHandler(ctx, resource.URI, handler)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &protocol.ReadResourceResult{}
	}
	return result, nil
}

func runResourceHandler(ctx context.Context, uri string, handler registry.ResourceHandler) (result *protocol.ReadResourceResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("resource %q panicked: %v", uri, r)
			result = nil
			err = apperrors.New(apperrors.CodeInternal, fmt.Sprintf("resource %q failed", uri))
		}
	}()
	result, err = handler(ctx, uri)
	if err != nil && apperrors.CodeOf(err) == apperrors.CodeUnknown {
		err = apperrors.Wrap(apperrors.CodeInternal, fmt.Sprintf("resource %q failed", uri), err)
	}
	return result, err
}

// unmarshalParams decodes method params that are required to be present.
func unmarshalParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return apperrors.New(apperrors.CodeInvalidParams, "params are required")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidParams, "decode params", err)
	}
	return nil
}
