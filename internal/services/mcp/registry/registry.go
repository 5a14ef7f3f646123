// Package registry holds the capability catalog a dispatcher serves: tool
// and resource descriptors paired with their handlers, plus the declarative
// input schemas used to validate tool arguments before a handler runs.
package registry

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/uuidforge/internal/platform/errors"
	"github.com/louisbranch/uuidforge/internal/services/mcp/protocol"
)

// Args is a validated argument map produced by Schema.Apply. Values are
// already coerced to the declared kinds.
type Args map[string]any

// String returns the named string argument, or "" when absent.
func (a Args) String(name string) string {
	value, _ := a[name].(string)
	return value
}

// Int returns the named integer argument, or 0 when absent.
func (a Args) Int(name string) int {
	value, _ := a[name].(int)
	return value
}

// ToolHandler executes one tool call with validated arguments.
type ToolHandler func(ctx context.Context, args Args) (*protocol.CallToolResult, error)

// ResourceHandler produces the contents of one resource read.
type ResourceHandler func(ctx context.Context, uri string) (*protocol.ReadResourceResult, error)

// Tool describes a callable action. The handler is registered alongside it.
type Tool struct {
	Name        string
	Title       string
	Description string
	Schema      Schema
}

// Resource describes a readable document addressed by a fixed URI.
type Resource struct {
	Name        string
	URI         string
	Title       string
	Description string
	MimeType    string
}

type registeredTool struct {
	tool    *Tool
	handler ToolHandler
}

type registeredResource struct {
	resource *Resource
	handler  ResourceHandler
}

// Registry is the capability catalog for one dispatcher. It is populated
// during server construction and read-only afterwards, so lookups need no
// locking.
type Registry struct {
	tools         map[string]registeredTool
	toolOrder     []string
	resources     map[string]registeredResource
	resourceOrder []string
}

// NewRegistry returns an empty catalog.
func NewRegistry() *Registry {
	return &Registry{
		tools:     make(map[string]registeredTool),
		resources: make(map[string]registeredResource),
	}
}

// AddTool registers a tool under its name. Registering a name twice is a
// wiring bug and fails with DUPLICATE_NAME.
func (r *Registry) AddTool(tool *Tool, handler ToolHandler) error {
	if tool == nil || tool.Name == "" {
		return apperrors.New(apperrors.CodeInternal, "tool registration requires a name")
	}
	if handler == nil {
		return apperrors.New(apperrors.CodeInternal, fmt.Sprintf("tool %q registered without a handler", tool.Name))
	}
	if _, exists := r.tools[tool.Name]; exists {
		return apperrors.WithMetadata(apperrors.CodeDuplicateName,
			fmt.Sprintf("tool %q is already registered", tool.Name),
			map[string]string{"tool": tool.Name})
	}
	r.tools[tool.Name] = registeredTool{tool: tool, handler: handler}
	r.toolOrder = append(r.toolOrder, tool.Name)
	return nil
}

// AddResource registers a resource under its URI. Registering a URI twice is
// a wiring bug and fails with DUPLICATE_NAME.
func (r *Registry) AddResource(resource *Resource, handler ResourceHandler) error {
	if resource == nil || resource.URI == "" {
		return apperrors.New(apperrors.CodeInternal, "resource registration requires a URI")
	}
	if handler == nil {
		return apperrors.New(apperrors.CodeInternal, fmt.Sprintf("resource %q registered without a handler", resource.URI))
	}
	if _, exists := r.resources[resource.URI]; exists {
		return apperrors.WithMetadata(apperrors.CodeDuplicateName,
			fmt.Sprintf("resource %q is already registered", resource.URI),
			map[string]string{"resource": resource.URI})
	}
	r.resources[resource.URI] = registeredResource{resource: resource, handler: handler}
	r.resourceOrder = append(r.resourceOrder, resource.URI)
	return nil
}

// Tool looks up a registered tool by exact name.
func (r *Registry) Tool(name string) (*Tool, ToolHandler, bool) {
	entry, ok := r.tools[name]
	if !ok {
		return nil, nil, false
	}
	return entry.tool, entry.handler, true
}

// Resource looks up a registered resource by exact URI.
func (r *Registry) Resource(uri string) (*Resource, ResourceHandler, bool) {
	entry, ok := r.resources[uri]
	if !ok {
		return nil, nil, false
	}
	return entry.resource, entry.handler, true
}

// Tools returns descriptors in registration order.
func (r *Registry) Tools() []*Tool {
	out := make([]*Tool, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		out = append(out, r.tools[name].tool)
	}
	return out
}

// Resources returns descriptors in registration order.
func (r *Registry) Resources() []*Resource {
	out := make([]*Resource, 0, len(r.resourceOrder))
	for _, uri := range r.resourceOrder {
		out = append(out, r.resources[uri].resource)
	}
	return out
}
