package domain

import (
	"context"
	"strings"
)

// ResourceUpdateNotifier notifies MCP clients about resource updates.
// Transports without a push channel pass nil.
type ResourceUpdateNotifier func(ctx context.Context, uri string)

// NotifyResourceUpdates sends resource update notifications for each URI
// provided.
func NotifyResourceUpdates(ctx context.Context, notify ResourceUpdateNotifier, uris ...string) {
	if notify == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for _, uri := range uris {
		if strings.TrimSpace(uri) == "" {
			continue
		}
		notify(ctx, uri)
	}
}
