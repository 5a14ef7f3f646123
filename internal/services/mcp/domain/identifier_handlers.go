package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/uuidforge/internal/history"
	"github.com/louisbranch/uuidforge/internal/id"
	"github.com/louisbranch/uuidforge/internal/services/mcp/protocol"
	"github.com/louisbranch/uuidforge/internal/services/mcp/registry"
)

// GenerateUUIDHandler executes a generate_uuid request. Every generated
// value is appended to the history log, and one resource update fires per
// call regardless of count.
func GenerateUUIDHandler(generator *id.Generator, log *history.Log, notify ResourceUpdateNotifier) registry.ToolHandler {
	return func(ctx context.Context, args registry.Args) (*protocol.CallToolResult, error) {
		variant := id.Variant(args.String("version"))
		count := args.Int("count")

		values := make([]string, 0, count)
		for i := 0; i < count; i++ {
			value, err := generator.Generate(variant)
			if err != nil {
				return nil, fmt.Errorf("generate identifier: %w", err)
			}
			values = append(values, value)
			log.Append(history.Record{
				Identifier: value,
				Variant:    variant,
				CreatedAt:  time.Now().UTC(),
			})
		}

		NotifyResourceUpdates(ctx, notify, HistoryResourceURI)

		return &protocol.CallToolResult{
			Content: []protocol.Content{protocol.TextContent(generateSummary(variant, values))},
		}, nil
	}
}

// ValidateUUIDHandler executes a validate_uuid request. Validation is a
// total check: malformed input yields a failure report, never an error.
func ValidateUUIDHandler() registry.ToolHandler {
	return func(_ context.Context, args registry.Args) (*protocol.CallToolResult, error) {
		candidate := args.String("identifier")
		result := id.Validate(candidate)
		return &protocol.CallToolResult{
			Content: []protocol.Content{protocol.TextContent(validationSummary(candidate, result))},
		}, nil
	}
}
