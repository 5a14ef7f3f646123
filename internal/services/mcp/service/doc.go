// Package service wires protocol transport to identifier operations.
//
// It is the transport adapter layer: the package knows how to run MCP over
// stdio or HTTP and delegates business meaning to handlers in the domain
// package. Both transports drive the same dispatcher; only session scoping
// differs between them.
package service
