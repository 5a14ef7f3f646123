package domain

import (
	"fmt"
	"strings"

	"github.com/louisbranch/uuidforge/internal/id"
	"github.com/louisbranch/uuidforge/internal/services/mcp/registry"
)

// generateCountLimit caps how many identifiers one call may produce.
const generateCountLimit = 10

// GenerateUUIDTool describes the generate_uuid tool.
func GenerateUUIDTool() *registry.Tool {
	return &registry.Tool{
		Name:        "generate_uuid",
		Title:       "Generate UUID",
		Description: "Generates one or more UUIDs, either random (version 4) or time-ordered (version 7).",
		Schema: registry.Schema{Fields: []registry.Field{
			{
				Name:        "version",
				Kind:        registry.FieldString,
				Description: "UUID layout to produce: random (v4) or time-ordered (v7)",
				Default:     string(id.VariantRandom),
				Enum:        []string{string(id.VariantRandom), string(id.VariantTimeOrdered)},
			},
			{
				Name:        "count",
				Kind:        registry.FieldInteger,
				Description: "Number of UUIDs to generate",
				Default:     1,
				Min:         intPtr(1),
				Max:         intPtr(generateCountLimit),
			},
		}},
	}
}

// ValidateUUIDTool describes the validate_uuid tool.
func ValidateUUIDTool() *registry.Tool {
	return &registry.Tool{
		Name:        "validate_uuid",
		Title:       "Validate UUID",
		Description: "Checks whether a string is a well-formed UUID and reports its version.",
		Schema: registry.Schema{Fields: []registry.Field{
			{
				Name:        "identifier",
				Kind:        registry.FieldString,
				Description: "Candidate string to check",
				Required:    true,
			},
		}},
	}
}

func intPtr(v int) *int { return &v }

// generateSummary renders the result text. A single value is reported
// inline; multiple values get an index-prefixed line each.
func generateSummary(variant id.Variant, values []string) string {
	if len(values) == 1 {
		return fmt.Sprintf("Generated %s UUID: %s", variant, values[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Generated %d %s UUIDs:", len(values), variant)
	for i, value := range values {
		fmt.Fprintf(&b, "\n%d. %s", i+1, value)
	}
	return b.String()
}

// validationSummary renders the pass/fail text for a candidate.
func validationSummary(candidate string, result id.Validation) string {
	if !result.Valid {
		return fmt.Sprintf("%q is not a valid UUID", candidate)
	}
	return fmt.Sprintf("%q is a valid version %d UUID", candidate, result.Version)
}
