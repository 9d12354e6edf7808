package assistant

import "github.com/abhisek/adapted/internal/llm"

// TraitNames are the personality traits scored by AnalyzeTraits.
var TraitNames = []string{"curiosity", "persistence", "confidence", "creativity", "analytical_thinking"}

// TraitSchema defines the JSON schema for personality trait scoring.
var TraitSchema = &llm.Schema{
	Name:        "personality-traits",
	Description: "Personality trait scores between 0 and 1 inferred from a student's chat",
	Definition:  traitDefinition(),
}

func traitDefinition() map[string]any {
	props := make(map[string]any, len(TraitNames))
	required := make([]any, len(TraitNames))
	for i, name := range TraitNames {
		props[name] = map[string]any{
			"type":    "number",
			"minimum": 0,
			"maximum": 1,
		}
		required[i] = name
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}
