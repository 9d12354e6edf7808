package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		provider, model string
		want            *ModelCost
	}{
		{ProviderAnthropic, "claude-haiku-4-5-20251001", &ModelCost{1, 5}},
		{ProviderOpenAI, "gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{ProviderOpenRouter, "openai/gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{ProviderOpenRouter, "google/gemini-2.0-flash-exp:free", &ModelCost{0, 0}},
		{ProviderOllama, "llama3", &ModelCost{}},
		{ProviderMock, "mock", &ModelCost{}},
		{ProviderOpenAI, "gpt-unknown", nil},
	}
	for _, tt := range tests {
		got := LookupCost(tt.provider, tt.model)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("LookupCost(%q, %q) = %v, want %v", tt.provider, tt.model, got, tt.want)
		}
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}
	if got := c.Cost(1_000_000, 200_000); math.Abs(got-2) > 1e-9 {
		t.Fatalf("cost = %f, want 2", got)
	}
}
