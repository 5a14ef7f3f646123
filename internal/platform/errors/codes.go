// Package errors provides structured error handling for the MCP server.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Protocol errors
	CodeParse          Code = "PARSE"
	CodeInvalidRequest Code = "INVALID_REQUEST"
	CodeMethodNotFound Code = "METHOD_NOT_FOUND"
	CodeInvalidParams  Code = "INVALID_PARAMS"
	CodeInternal       Code = "INTERNAL"

	// Session errors
	CodeInvalidSession Code = "INVALID_SESSION"

	// Registry errors
	CodeDuplicateName Code = "DUPLICATE_NAME"

	// Resource errors
	CodeResourceNotFound Code = "RESOURCE_NOT_FOUND"

	// Identifier errors
	CodeGenerationUnavailable Code = "GENERATION_UNAVAILABLE"
	CodeUnknownVariant        Code = "UNKNOWN_VARIANT"
)

// JSON-RPC 2.0 error codes. The -32000 to -32099 band is reserved for
// application-defined errors.
const (
	JSONRPCParseError       = -32700
	JSONRPCInvalidRequest   = -32600
	JSONRPCMethodNotFound   = -32601
	JSONRPCInvalidParams    = -32602
	JSONRPCInternalError    = -32603
	JSONRPCInvalidSession   = -32000
	JSONRPCResourceNotFound = -32002
)

// JSONRPCCode maps domain codes to JSON-RPC 2.0 error codes.
func (c Code) JSONRPCCode() int {
	switch c {
	case CodeParse:
		return JSONRPCParseError

	case CodeInvalidRequest:
		return JSONRPCInvalidRequest

	case CodeMethodNotFound:
		return JSONRPCMethodNotFound

	// InvalidParams - validation failures, bad input
	case CodeInvalidParams,
		CodeUnknownVariant:
		return JSONRPCInvalidParams

	case CodeInvalidSession:
		return JSONRPCInvalidSession

	case CodeResourceNotFound:
		return JSONRPCResourceNotFound

	// Internal - handler failures, exhausted generation sources,
	// registration bugs that escaped to the wire
	case CodeInternal,
		CodeGenerationUnavailable,
		CodeDuplicateName:
		return JSONRPCInternalError

	default:
		return JSONRPCInternalError
	}
}
