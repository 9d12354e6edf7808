// Package assistant is the conversational layer on top of the learner
// profile: chat, hints, motivation and personality tracking, backed by an
// llm.Provider. Generation failures never surface to callers; they get
// FallbackMessage instead.
package assistant

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/llm"
	"github.com/abhisek/adapted/internal/personality"
	"github.com/abhisek/adapted/internal/profile"
	"github.com/abhisek/adapted/internal/store"
)

// FallbackMessage is returned whenever the language model is unavailable,
// times out or fails.
const FallbackMessage = "Sorry, the assistant is temporarily unavailable. Please try again in a moment."

const (
	chatWindow          = 10
	chatMaxTokens       = 1024
	hintMaxTokens       = 120
	motivationMaxTokens = 80
	traitMaxTokens      = 200
	traitWindow         = 10
	minTraitHistory     = 3
	weaknessErrorTags   = 3
	weakMastery         = 0.5
	chatTemperature     = 0.7
	defaultTimeout      = 30 * time.Second
)

// ModeHint switches Chat to hint generation for Context.Task.
const ModeHint = "hint"

// Options configures a Service. Documents and Personalities are required.
type Options struct {
	// Provider generates text. Nil means every generation falls back.
	Provider      llm.Provider
	Documents     store.DocumentRepo
	Personalities personality.Store
	// Profiles supplies weaknesses for chat prompts. Optional.
	Profiles profile.Store
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Service implements the assistant operations. It is safe for concurrent use.
type Service struct {
	provider      llm.Provider
	documents     store.DocumentRepo
	personalities personality.Store
	profiles      profile.Store
	timeout       time.Duration
	logger        *zap.Logger
	locks         profile.KeyedMutex
	now           func() time.Time
}

// New creates a Service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Service{
		provider:      opts.Provider,
		documents:     opts.Documents,
		personalities: opts.Personalities,
		profiles:      opts.Profiles,
		timeout:       opts.Timeout,
		logger:        logger.Named("assistant"),
		now:           time.Now,
	}
}

// ChatMessage is one turn sent by the client.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

// ChatContext carries the task for hint mode.
type ChatContext struct {
	Task  string `json:"task"`
	Level string `json:"level"`
}

// ChatRequest is the input of Chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	Mode     string        `json:"mode" validate:"omitempty,oneof=general hint"`
	Context  *ChatContext  `json:"context,omitempty"`
	UserID   string        `json:"user_id,omitempty"`
	UserName string        `json:"user_name,omitempty"`
}

// PersonalityInsights summarizes the personality profile for a response.
type PersonalityInsights struct {
	CommunicationStyle  personality.CommunicationStyle `json:"communication_style"`
	Traits              map[string]float64             `json:"traits"`
	MentionedWeaknesses []string                       `json:"mentioned_weaknesses"`
}

// ChatResponse is the output of Chat.
type ChatResponse struct {
	Message             string               `json:"message"`
	PersonalityInsights *PersonalityInsights `json:"personality_insights,omitempty"`
}

// Chat answers a conversation. With a user id the learner's personality is
// updated from the messages first and its insights are returned.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var (
		pers       *personality.Profile
		weaknesses []string
	)
	if req.UserID != "" {
		ctx = llm.WithUser(ctx, req.UserID)
		weaknesses = s.weaknesses(ctx, req.UserID)

		var err error
		pers, err = s.UpdatePersonality(ctx, req.UserID, req.Messages)
		if err != nil {
			return nil, err
		}
	}

	var text string
	if req.Mode == ModeHint && req.Context != nil {
		text = s.Hint(ctx, req.Context.Task, req.Context.Level)
	} else {
		text = s.complete(llm.WithPurpose(ctx, llm.PurposeChat), llm.Request{
			System:      buildChatSystem(req.UserName, pers, weaknesses),
			Messages:    toLLMMessages(req.Messages),
			MaxTokens:   chatMaxTokens,
			Temperature: chatTemperature,
		})
	}

	resp := &ChatResponse{Message: text}
	if pers != nil {
		resp.PersonalityInsights = insightsFor(pers)
	}
	return resp, nil
}

// Hint asks for a short hint on task without revealing the answer. Up to
// three matching documents are quoted as context.
func (s *Service) Hint(ctx context.Context, task, level string) string {
	docs, err := s.RetrieveContext(ctx, task, defaultTopK)
	if err != nil {
		s.logger.Warn("retrieve hint context", zap.Error(err))
	}
	return s.complete(llm.WithPurpose(ctx, llm.PurposeHint), llm.Request{
		System:      hintSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildHintMessage(task, level, docs)}},
		MaxTokens:   hintMaxTokens,
		Temperature: chatTemperature,
	})
}

// Motivation writes a one or two sentence greeting for a task on topic.
func (s *Service) Motivation(ctx context.Context, topic, studentName, deadline string) string {
	return s.complete(llm.WithPurpose(ctx, llm.PurposeMotivation), llm.Request{
		System:      motivationSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildMotivationMessage(topic, studentName, deadline)}},
		MaxTokens:   motivationMaxTokens,
		Temperature: chatTemperature,
	})
}

// complete runs one generation under the service timeout and returns
// FallbackMessage on any failure.
func (s *Service) complete(ctx context.Context, req llm.Request) string {
	resp, err := s.generate(ctx, req)
	if err != nil {
		s.logger.Warn("generation failed, using fallback",
			zap.String("purpose", string(llm.PurposeFrom(ctx))), zap.Error(err))
		return FallbackMessage
	}
	text := resp.Text()
	if text == "" {
		return FallbackMessage
	}
	return text
}

func (s *Service) generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if s.provider == nil {
		return nil, errNoProvider
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.provider.Generate(ctx, req)
}

// weaknesses lists the learner's three most frequent error tags followed by
// topics with low mastery. Lookup failures yield none.
func (s *Service) weaknesses(ctx context.Context, userID string) []string {
	if s.profiles == nil {
		return nil
	}
	p, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Warn("load profile for weaknesses", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	var out []string
	for _, tag := range p.ErrorFrequency.Top(weaknessErrorTags).Tags() {
		out = append(out, string(tag))
	}
	for _, topic := range sortedKeys(p.TopicMastery) {
		if p.TopicMastery[topic] < weakMastery {
			out = append(out, topic)
		}
	}
	return out
}

func toLLMMessages(in []ChatMessage) []llm.Message {
	if len(in) > chatWindow {
		in = in[len(in)-chatWindow:]
	}
	out := make([]llm.Message, 0, len(in))
	for _, m := range in {
		switch m.Role {
		case string(llm.RoleUser), string(llm.RoleAssistant):
			out = append(out, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
		}
	}
	return out
}

func insightsFor(p *personality.Profile) *PersonalityInsights {
	return &PersonalityInsights{
		CommunicationStyle:  p.CommunicationStyle,
		Traits:              p.TraitScores(),
		MentionedWeaknesses: p.MentionedWeaknesses,
	}
}
