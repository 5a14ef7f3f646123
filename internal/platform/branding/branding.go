// Package branding centralizes user-facing product naming.
package branding

// AppName is the product name reported to clients and used in diagnostics.
const AppName = "uuidforge"
