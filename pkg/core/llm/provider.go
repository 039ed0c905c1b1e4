// Package llm abstracts the external text-completion services used for
// valuation estimation and enrichment summaries. Providers are treated as
// untrusted and unreliable: callers must always be prepared for an error or
// garbage output.
package llm

import "context"

// Provider is the interface every model backend implements.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms a raw system prompt into the phrasing a
	// specific model family responds best to.
	AdaptInstructions(rawInstructions string) string
}

func stringOption(options map[string]interface{}, key, fallback string) string {
	if v, ok := options[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
