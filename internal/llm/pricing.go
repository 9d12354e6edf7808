package llm

import "strings"

// ModelCost holds pricing for a model in USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for model as served by provider, or nil
// if it is unknown. Local and mock models cost nothing. OpenRouter models
// are priced by their upstream ID, so "openai/gpt-4o-mini" is looked up
// as "gpt-4o-mini".
func LookupCost(provider, model string) *ModelCost {
	switch provider {
	case ProviderOllama, ProviderMock:
		return &ModelCost{}
	case ProviderOpenRouter:
		if _, id, ok := strings.Cut(model, "/"); ok {
			model = id
		}
		model = strings.TrimSuffix(model, ":free")
	}
	if c, ok := modelCosts[model]; ok {
		return &c
	}
	return nil
}

// modelCosts lists the models the assistant is expected to run on.
// Source: models.dev, 2026-02-15.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-3-5-haiku-20241022":  {0.8, 4},
	"claude-haiku-4-5":           {1, 5},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-20250514":   {3, 15},
	"claude-sonnet-4-5":          {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},

	// OpenAI
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},

	// Google
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-exp":  {0, 0},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}
