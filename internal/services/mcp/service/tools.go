package service

import (
	"fmt"

	"github.com/louisbranch/uuidforge/internal/history"
	"github.com/louisbranch/uuidforge/internal/id"
	"github.com/louisbranch/uuidforge/internal/services/mcp/domain"
	"github.com/louisbranch/uuidforge/internal/services/mcp/registry"
)

func registerIdentifierTools(actions *registry.Registry, generator *id.Generator, historyLog *history.Log, notify domain.ResourceUpdateNotifier) error {
	registrations := []struct {
		tool    *registry.Tool
		handler registry.ToolHandler
	}{
		{tool: domain.GenerateUUIDTool(), handler: domain.GenerateUUIDHandler(generator, historyLog, notify)},
		{tool: domain.ValidateUUIDTool(), handler: domain.ValidateUUIDHandler()},
	}
	for _, registration := range registrations {
		if err := registerTool(actions, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerTool(actions *registry.Registry, tool *registry.Tool, handler registry.ToolHandler) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return actions.AddTool(tool, handler)
}

// registerHistoryResources registers the readable generation history.
func registerHistoryResources(actions *registry.Registry, historyLog *history.Log) error {
	return actions.AddResource(domain.HistoryResource(), domain.HistoryResourceHandler(historyLog))
}
