package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adapted/internal/llm"
	"github.com/abhisek/adapted/internal/personality"
	"github.com/abhisek/adapted/internal/profile"
	"github.com/abhisek/adapted/internal/store"
)

type fixture struct {
	svc      *Service
	mock     *llm.MockProvider
	docs     *store.MemoryDocumentRepo
	personas *personality.MemoryStore
	profiles *profile.MemoryStore
}

func newFixture(t *testing.T, responses ...llm.MockResponse) fixture {
	t.Helper()
	f := fixture{
		mock:     llm.NewMockProvider(responses...),
		docs:     store.NewMemoryDocumentRepo(),
		personas: personality.NewMemoryStore(),
		profiles: profile.NewMemoryStore(),
	}
	f.svc = New(Options{
		Provider:      f.mock,
		Documents:     f.docs,
		Personalities: f.personas,
		Profiles:      f.profiles,
		Timeout:       time.Second,
	})
	return f
}

func TestChat_GeneralWithoutUser(t *testing.T) {
	f := newFixture(t, llm.MockText("Fractions are parts of a whole."))

	resp, err := f.svc.Chat(t.Context(), ChatRequest{
		Messages: []ChatMessage{{Role: "user", Content: "What is a fraction?"}},
		UserName: "Mia",
	})
	require.NoError(t, err)
	assert.Equal(t, "Fractions are parts of a whole.", resp.Message)
	assert.Nil(t, resp.PersonalityInsights)

	require.Equal(t, 1, f.mock.CallCount())
	call := f.mock.Calls[0]
	assert.Contains(t, call.System, "Student name: Mia.")
	assert.NotContains(t, call.System, "Student context")
	assert.Equal(t, llm.PurposeChat, f.mock.Purposes[0])
	assert.Empty(t, f.mock.Users[0])
}

func TestChat_WithUserAddsStyleAndWeaknesses(t *testing.T) {
	f := newFixture(t, llm.MockText("Let's work on it together."))
	ctx := t.Context()

	p, err := f.profiles.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	p.ErrorFrequency.Inc(profile.ErrorCalculation)
	p.ErrorFrequency.Inc(profile.ErrorCalculation)
	p.ErrorFrequency.Inc(profile.ErrorCarelessness)
	p.TopicMastery["fractions"] = 0.3
	p.TopicMastery["addition"] = 0.9
	require.NoError(t, f.profiles.Save(ctx, p))

	resp, err := f.svc.Chat(ctx, ChatRequest{
		UserID: "u1",
		Messages: []ChatMessage{
			{Role: "user", Content: "Please help, math is hard for me?"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.PersonalityInsights)
	assert.InDelta(t, 0.7, resp.PersonalityInsights.CommunicationStyle.Formality, 1e-9)
	assert.Equal(t, []string{"math"}, resp.PersonalityInsights.MentionedWeaknesses)

	system := f.mock.Calls[0].System
	assert.Contains(t, system, "communication style: formal, brief")
	assert.Contains(t, system, "calculation_error, carelessness, fractions")
	assert.NotContains(t, system, "addition")

	saved, err := f.personas.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, saved.TotalMessages)
}

func TestChat_SendsOnlyLastTenTurns(t *testing.T) {
	f := newFixture(t, llm.MockText("ok"))

	var msgs []ChatMessage
	for i := range 14 {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		msgs = append(msgs, ChatMessage{Role: role, Content: strings.Repeat("x", i+1)})
	}
	msgs = append(msgs, ChatMessage{Role: "system", Content: "ignored"})

	_, err := f.svc.Chat(t.Context(), ChatRequest{Messages: msgs})
	require.NoError(t, err)

	sent := f.mock.Calls[0].Messages
	require.Len(t, sent, 9, "system turn inside the window is dropped")
	assert.Equal(t, strings.Repeat("x", 6), sent[0].Content)
}

func TestChat_HintMode(t *testing.T) {
	f := newFixture(t, llm.MockText("Try splitting the pizza."))

	resp, err := f.svc.Chat(t.Context(), ChatRequest{
		Mode:     ModeHint,
		Context:  &ChatContext{Task: "1/2 + 1/4", Level: "beginner"},
		Messages: []ChatMessage{{Role: "user", Content: "hint please"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Try splitting the pizza.", resp.Message)
	assert.Equal(t, hintSystemPrompt, f.mock.Calls[0].System)
	assert.Equal(t, hintMaxTokens, f.mock.Calls[0].MaxTokens)
}

func TestFallbacks(t *testing.T) {
	tests := []struct {
		name string
		svc  func(t *testing.T) *Service
	}{
		{"no provider", func(t *testing.T) *Service {
			return New(Options{Documents: store.NewMemoryDocumentRepo(), Personalities: personality.NewMemoryStore()})
		}},
		{"provider error", func(t *testing.T) *Service {
			return newFixture(t, llm.MockResponse{Err: errors.New("boom")}).svc
		}},
		{"empty queue", func(t *testing.T) *Service {
			return newFixture(t).svc
		}},
		{"blank text", func(t *testing.T) *Service {
			return newFixture(t, llm.MockText("   ")).svc
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.svc(t).Motivation(t.Context(), "fractions", "", "")
			assert.Equal(t, FallbackMessage, got)
		})
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestTimeoutFallsBack(t *testing.T) {
	svc := New(Options{
		Provider:      slowProvider{},
		Documents:     store.NewMemoryDocumentRepo(),
		Personalities: personality.NewMemoryStore(),
		Timeout:       20 * time.Millisecond,
	})
	assert.Equal(t, FallbackMessage, svc.Hint(t.Context(), "2+2", ""))
}

func TestHint_QuotesRetrievedDocuments(t *testing.T) {
	f := newFixture(t, llm.MockText("Think about equal parts."))
	ctx := t.Context()

	long := "fractions " + strings.Repeat("a", 1000)
	_, err := f.svc.AddDocument(ctx, "Long", long, "text")
	require.NoError(t, err)
	_, err = f.svc.AddDocument(ctx, "Unrelated", "geometry", "text")
	require.NoError(t, err)

	got := f.svc.Hint(ctx, "fractions", "intermediate")
	assert.Equal(t, "Think about equal parts.", got)

	msg := f.mock.Calls[0].Messages[0].Content
	assert.Contains(t, msg, "Student level: intermediate.")
	assert.Contains(t, msg, "[Source: Long]")
	assert.NotContains(t, msg, "Unrelated")
	assert.NotContains(t, msg, strings.Repeat("a", docExcerptLen))
	assert.True(t, strings.HasSuffix(msg, "Task: fractions\nHint:"))
}

func TestMotivationPrompt(t *testing.T) {
	f := newFixture(t, llm.MockText("You can do it, Sam!"))

	got := f.svc.Motivation(t.Context(), "decimals", "Sam", "2026-11-01")
	assert.Equal(t, "You can do it, Sam!", got)

	call := f.mock.Calls[0]
	assert.Equal(t, motivationMaxTokens, call.MaxTokens)
	assert.Contains(t, call.Messages[0].Content, "topic: decimals, Sam.")
	assert.Contains(t, call.Messages[0].Content, "Deadline: 2026-11-01.")
}

func TestRetrieveContext(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	for _, d := range []struct{ title, content string }{
		{"once", "Fraction basics"},
		{"thrice", "fraction fraction FRACTION"},
		{"none", "decimals"},
		{"twice", "fraction and fraction"},
		{"also once", "a fraction"},
	} {
		_, err := f.svc.AddDocument(ctx, d.title, d.content, "text")
		require.NoError(t, err)
	}

	got, err := f.svc.RetrieveContext(ctx, "Fraction", 3)
	require.NoError(t, err)

	titles := make([]string, len(got))
	for i, d := range got {
		titles[i] = d.Title
	}
	// Ties keep the repository order, newest first.
	assert.Equal(t, []string{"thrice", "twice", "also once"}, titles)

	none, err := f.svc.RetrieveContext(ctx, "  ", 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAnalyzeTraits(t *testing.T) {
	ctx := context.Background()

	t.Run("needs history", func(t *testing.T) {
		f := newFixture(t)
		scores, err := f.svc.AnalyzeTraits(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, scores)
		assert.Equal(t, 0, f.mock.CallCount())
	})

	t.Run("merges scores", func(t *testing.T) {
		f := newFixture(t,
			llm.MockResponse{Content: json.RawMessage(`{"curiosity":0.8,"persistence":0.6,"confidence":0.4,"creativity":0.5,"analytical_thinking":0.9}`)},
			llm.MockText(`Here you go: {"curiosity":0.4,"persistence":0.6,"confidence":0.4,"creativity":0.5,"analytical_thinking":0.9}`),
		)
		_, err := f.svc.UpdatePersonality(ctx, "u1", []ChatMessage{
			{Role: "user", Content: "why?"},
			{Role: "user", Content: "how?"},
			{Role: "user", Content: "what if?"},
		})
		require.NoError(t, err)

		scores, err := f.svc.AnalyzeTraits(ctx, "u1")
		require.NoError(t, err)
		assert.InDelta(t, 0.8, scores["curiosity"], 1e-9)
		assert.Same(t, TraitSchema, f.mock.Calls[0].Schema)

		_, err = f.svc.AnalyzeTraits(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []llm.Purpose{llm.PurposeTraits, llm.PurposeTraits}, f.mock.Purposes)
		assert.Equal(t, []string{"u1", "u1"}, f.mock.Users)

		p, err := f.svc.Personality(ctx, "u1")
		require.NoError(t, err)
		assert.InDelta(t, 0.6, p.Traits["curiosity"].Score, 1e-9)
		assert.InDelta(t, 0.9, p.Traits["analytical_thinking"].Score, 1e-9)
	})

	t.Run("unparseable answer", func(t *testing.T) {
		f := newFixture(t, llm.MockText("I cannot tell."))
		_, err := f.svc.UpdatePersonality(ctx, "u1", []ChatMessage{
			{Role: "user", Content: "a"}, {Role: "user", Content: "b"}, {Role: "user", Content: "c"},
		})
		require.NoError(t, err)

		scores, err := f.svc.AnalyzeTraits(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, scores)
	})
}

func TestTraitSchemaRequiresAllTraits(t *testing.T) {
	required, ok := TraitSchema.Definition["required"].([]any)
	require.True(t, ok)
	assert.Len(t, required, len(TraitNames))
}
