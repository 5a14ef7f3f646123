// Package domain translates MCP operations into identifier commands.
//
// The package is intentionally explicit about that mapping:
// - declare each tool and resource with its input schema,
// - route calls to the identifier codec and the history log,
// - and surface text outputs that MCP clients can render.
//
// This keeps behavior auditable from protocol message -> identifier
// operation -> history update.
package domain
