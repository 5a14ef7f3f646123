package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/uuidforge/internal/history"
	"github.com/louisbranch/uuidforge/internal/services/mcp/protocol"
	"github.com/louisbranch/uuidforge/internal/services/mcp/registry"
)

// HistoryResourceURI addresses the rolling generation history.
const HistoryResourceURI = "history://recent"

// historyWindow caps how many records a single read returns.
const historyWindow = 20

// HistoryPayload is the JSON document served at history://recent.
type HistoryPayload struct {
	TotalCount int              `json:"totalCount"`
	History    []history.Record `json:"history"`
}

// HistoryResource describes the recent-history resource.
func HistoryResource() *registry.Resource {
	return &registry.Resource{
		Name:        "uuid-history",
		URI:         HistoryResourceURI,
		Title:       "Recent UUID History",
		Description: "The most recently generated UUIDs, oldest first",
		MimeType:    "application/json",
	}
}

// HistoryResourceHandler serves reads of the history resource.
func HistoryResourceHandler(log *history.Log) registry.ResourceHandler {
	return func(_ context.Context, uri string) (*protocol.ReadResourceResult, error) {
		records := log.Snapshot(historyWindow)
		if records == nil {
			records = []history.Record{}
		}
		payload, err := json.Marshal(HistoryPayload{
			TotalCount: log.Len(),
			History:    records,
		})
		if err != nil {
			return nil, fmt.Errorf("encode history payload: %w", err)
		}
		return &protocol.ReadResourceResult{
			Contents: []protocol.ResourceContents{{
				URI:      uri,
				MimeType: "application/json",
				Text:     string(payload),
			}},
		}, nil
	}
}
