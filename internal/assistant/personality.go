package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/llm"
	"github.com/abhisek/adapted/internal/personality"
)

var errNoProvider = errors.New("assistant: no language model configured")

// Personality returns the learner's personality profile.
func (s *Service) Personality(ctx context.Context, userID string) (*personality.Profile, error) {
	p, err := s.personalities.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load personality: %w", err)
	}
	return p, nil
}

// UpdatePersonality folds the user turns of messages into the learner's
// communication style and saves the result.
func (s *Service) UpdatePersonality(ctx context.Context, userID string, messages []ChatMessage) (*personality.Profile, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	p, err := s.Personality(ctx, userID)
	if err != nil {
		return nil, err
	}

	turns := make([]personality.ChatMessage, len(messages))
	for i, m := range messages {
		turns[i] = personality.ChatMessage{Role: m.Role, Content: m.Content}
	}
	p.ObserveChat(turns, s.now())

	if err := s.personalities.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save personality: %w", err)
	}
	return p, nil
}

// AnalyzeTraits asks the language model to score the learner's traits from
// recent chat and merges the scores into the profile. It returns the new
// scores, or an empty map when there is too little history or the model
// gives no usable answer.
func (s *Service) AnalyzeTraits(ctx context.Context, userID string) (map[string]float64, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	p, err := s.Personality(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(p.ChatHistory) < minTraitHistory {
		return map[string]float64{}, nil
	}

	resp, err := s.generate(llm.WithPurpose(llm.WithUser(ctx, userID), llm.PurposeTraits), llm.Request{
		System:    traitSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: buildTraitMessage(p)}},
		Schema:    TraitSchema,
		MaxTokens: traitMaxTokens,
	})
	if err != nil {
		s.logger.Warn("trait analysis failed", zap.String("user_id", userID), zap.Error(err))
		return map[string]float64{}, nil
	}

	scores, err := parseTraits(resp)
	if err != nil {
		s.logger.Warn("parse trait scores", zap.String("user_id", userID), zap.Error(err))
		return map[string]float64{}, nil
	}

	p.MergeTraits(scores)
	if err := s.personalities.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save personality: %w", err)
	}
	return scores, nil
}

// parseTraits reads the scores from resp. Providers without native
// structured output may wrap the object in prose.
func parseTraits(resp *llm.Response) (map[string]float64, error) {
	var scores map[string]float64
	if err := json.Unmarshal(resp.Content, &scores); err == nil {
		return scores, nil
	}

	raw, err := llm.ExtractJSON(resp.Text())
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, fmt.Errorf("decode trait scores: %w", err)
	}
	return scores, nil
}

func sortedKeys(m map[string]float64) []string {
	return slices.Sorted(maps.Keys(m))
}
