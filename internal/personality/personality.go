// Package personality tracks how a learner communicates with the assistant.
package personality

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Trait is a scored personality trait with supporting evidence.
type Trait struct {
	Name     string   `json:"trait_name"`
	Score    float64  `json:"score"`
	Evidence []string `json:"evidence"`
}

// CommunicationStyle describes how the learner writes. Scores are in [0, 1].
type CommunicationStyle struct {
	Formality         float64 `json:"formality"`
	Verbosity         float64 `json:"verbosity"`
	QuestionFrequency float64 `json:"question_frequency"`
	EmotionalTone     string  `json:"emotional_tone"`
}

// ChatMessage is one chat turn.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Profile is the personality profile of one learner.
type Profile struct {
	UserID              string             `json:"user_id"`
	Traits              map[string]Trait   `json:"traits"`
	CommunicationStyle  CommunicationStyle `json:"communication_style"`
	ChatHistory         []ChatMessage      `json:"chat_history"`
	Interests           []string           `json:"interests"`
	MentionedWeaknesses []string           `json:"mentioned_weaknesses"`
	LastUpdated         time.Time          `json:"last_updated"`
	TotalMessages       int                `json:"total_messages"`
}

// New returns a neutral profile for userID.
func New(userID string) *Profile {
	return &Profile{
		UserID: userID,
		Traits: map[string]Trait{},
		CommunicationStyle: CommunicationStyle{
			Formality:         0.5,
			Verbosity:         0.5,
			QuestionFrequency: 0.5,
			EmotionalTone:     "neutral",
		},
		ChatHistory:         []ChatMessage{},
		Interests:           []string{},
		MentionedWeaknesses: []string{},
		LastUpdated:         time.Now(),
	}
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Traits = make(map[string]Trait, len(p.Traits))
	for name, t := range p.Traits {
		t.Evidence = slices.Clone(t.Evidence)
		c.Traits[name] = t
	}
	c.ChatHistory = slices.Clone(p.ChatHistory)
	c.Interests = slices.Clone(p.Interests)
	c.MentionedWeaknesses = slices.Clone(p.MentionedWeaknesses)
	if c.Traits == nil {
		c.Traits = map[string]Trait{}
	}
	if c.ChatHistory == nil {
		c.ChatHistory = []ChatMessage{}
	}
	if c.Interests == nil {
		c.Interests = []string{}
	}
	if c.MentionedWeaknesses == nil {
		c.MentionedWeaknesses = []string{}
	}
	return &c
}

// TraitScores returns the current score of every trait.
func (p *Profile) TraitScores() map[string]float64 {
	out := make(map[string]float64, len(p.Traits))
	for name, t := range p.Traits {
		out[name] = t.Score
	}
	return out
}

// MergeTraits folds new scores in. A known trait moves to the mean of its old
// and new score; an unknown one is taken as is. Scores are clamped to [0, 1].
func (p *Profile) MergeTraits(scores map[string]float64) {
	if p.Traits == nil {
		p.Traits = map[string]Trait{}
	}
	for _, name := range slices.Sorted(maps.Keys(scores)) {
		score := clamp01(scores[name])
		t, ok := p.Traits[name]
		if !ok {
			p.Traits[name] = Trait{Name: name, Score: score, Evidence: []string{}}
			continue
		}
		t.Score = (t.Score + score) / 2
		p.Traits[name] = t
	}
}

// RecentTranscript renders the last n chat turns as "role: content" lines.
func (p *Profile) RecentTranscript(n int) string {
	history := p.ChatHistory
	if len(history) > n {
		history = history[len(history)-n:]
	}
	lines := make([]string, len(history))
	for i, m := range history {
		lines[i] = m.Role + ": " + m.Content
	}
	return strings.Join(lines, "\n")
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
