// Package sanitize defines the canonical text-sanitization tools and the
// executor that runs them against a text-generation backend.
package sanitize

import "github.com/scrublab/scrub/pkg/catalog"

// Canonical tool names. The descriptions below are load-bearing: they are
// the only signal the selection model has about a tool's purpose, so they
// must stay precise and non-overlapping.
const (
	ToolAnonymizePII    = "anonymize_pii"
	ToolRedactFinancial = "redact_financial"
	ToolRedactMedical   = "redact_medical"
	ToolGeneralSanitize = "general_sanitize"
)

func textInputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The text to sanitize.",
			},
		},
		"required": []string{"text"},
	}
}

func sanitizedOutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sanitizedText": map[string]any{
				"type":        "string",
				"description": "The sanitized text.",
			},
		},
	}
}

// ToolSpecs returns the four canonical tools in their fixed registration
// order.
func ToolSpecs() []catalog.ToolSpec {
	return []catalog.ToolSpec{
		{
			Name:         ToolAnonymizePII,
			Description:  "Anonymizes personally identifiable information: replaces person names, email addresses, phone numbers, and postal addresses with neutral placeholders.",
			InputSchema:  textInputSchema(),
			OutputSchema: sanitizedOutputSchema(),
		},
		{
			Name:         ToolRedactFinancial,
			Description:  "Redacts financial data: masks IBANs, credit card numbers, account numbers, routing codes, and monetary amounts tied to identifiable parties.",
			InputSchema:  textInputSchema(),
			OutputSchema: sanitizedOutputSchema(),
		},
		{
			Name:         ToolRedactMedical,
			Description:  "Redacts medical information: removes diagnoses, medications, treatment details, and health-insurance identifiers.",
			InputSchema:  textInputSchema(),
			OutputSchema: sanitizedOutputSchema(),
		},
		{
			Name:         ToolGeneralSanitize,
			Description:  "General-purpose sanitization: removes any kind of sensitive or confidential content when no more specific tool applies.",
			InputSchema:  textInputSchema(),
			OutputSchema: sanitizedOutputSchema(),
		},
	}
}

// NewCatalog builds the startup tool registry. The catalog is constructed
// once and handed by reference to every component that needs it.
func NewCatalog() (*catalog.Catalog, error) {
	return catalog.New(ToolSpecs()...)
}
