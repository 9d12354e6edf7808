// Package mentor produces feedback messages for a learner after an event.
package mentor

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/profile"
)

// Outcome is the event the mentor responds to.
type Outcome string

const (
	OutcomeCorrect  Outcome = "correct"
	OutcomeWrong    Outcome = "wrong"
	OutcomeProgress Outcome = "progress"
)

// Tone is the register of a mentor message.
type Tone string

const (
	ToneCelebratory Tone = "celebratory"
	ToneSupportive  Tone = "supportive"
	ToneEncouraging Tone = "encouraging"
	ToneNeutral     Tone = "neutral"
)

// Suggestion is a follow-up action offered to the learner.
type Suggestion struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Advice is the mentor output for one event.
type Advice struct {
	Message            string       `json:"message"`
	Tone               Tone         `json:"tone"`
	Suggestions        []Suggestion `json:"suggestions"`
	EncouragementLevel int          `json:"encouragement_level"`
}

const (
	minEncouragement = 1
	maxEncouragement = 5

	// nudgePoints is the points total below which a gamification
	// suggestion is added.
	nudgePoints = 100
)

var (
	correctMessages = []string{
		"Excellent! You did it! 🎉",
		"Correct! Your knowledge is growing! 💪",
		"Brilliant! Keep it up! 🌟",
		"Well done! You're making progress! ⭐",
	}
	wrongMessages = []string{
		"Don't be upset! Mistakes are part of learning. 😊",
		"No problem! Let's work through it together. 💙",
		"This is a tough one. You already know a lot! 💪",
		"Every mistake is a lesson. Keep trying! 🌱",
	}
	frustratedMessages = []string{
		"Looks like this one was hard. How about a short break? ☕",
		"Sometimes a pause helps. You've already achieved a lot! 🌟",
		"It happens. What matters is not giving up! 💪",
	}
	progressMessages = []string{
		"You're on the right track! 🚀",
		"Keep learning! Every step counts! 💫",
		"Your progress is impressive! 🌟",
	}
)

// Mentor selects messages, tone and suggestions. A Mentor is not safe for
// concurrent use because it owns its random source.
type Mentor struct {
	rng    *rand.Rand
	logger *zap.Logger
}

// New creates a mentor. A nil rng uses a randomly seeded source.
func New(rng *rand.Rand, logger *zap.Logger) *Mentor {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mentor{rng: rng, logger: logger.Named("mentor")}
}

// Advise builds the mentor response to outcome. p may be nil.
func (m *Mentor) Advise(p *profile.Profile, outcome Outcome) Advice {
	state := profile.EmotionNeutral
	if p != nil {
		state = p.EmotionalState
	}

	candidates := Candidates(p, outcome)
	a := Advice{
		Message:            candidates[m.rng.IntN(len(candidates))],
		Tone:               ToneFor(outcome, state),
		Suggestions:        Suggestions(p, outcome),
		EncouragementLevel: Encouragement(p, outcome),
	}

	m.logger.Debug("advice generated",
		zap.String("outcome", string(outcome)),
		zap.String("tone", string(a.Tone)),
		zap.Int("encouragement", a.EncouragementLevel),
	)
	return a
}

// Candidates returns the message pool for outcome. Profile details extend
// the pool rather than replace it.
func Candidates(p *profile.Profile, outcome Outcome) []string {
	var pool []string
	switch outcome {
	case OutcomeCorrect:
		pool = append(pool, correctMessages...)
		if p != nil && p.Level > 5 {
			pool = append([]string{fmt.Sprintf("Level %d! You're a true master! 🏆", p.Level)}, pool...)
		}
	case OutcomeWrong:
		if p != nil && p.EmotionalState == profile.EmotionFrustrated {
			pool = append(pool, frustratedMessages...)
		} else {
			pool = append(pool, wrongMessages...)
		}
	default:
		pool = append(pool, progressMessages...)
	}

	if p != nil {
		if p.AccuracyRate >= 70 {
			pool = append(pool, fmt.Sprintf("Your accuracy of %.1f%% is a great result! 🎯", p.AccuracyRate))
		}
		if len(p.Achievements) > 0 {
			pool = append(pool, fmt.Sprintf("You have %d achievements! %s 🏅",
				len(p.Achievements), strings.Join(p.Achievements, ", ")))
		}
	}
	return pool
}

// ToneFor maps an outcome and emotional state to a tone.
func ToneFor(outcome Outcome, state profile.EmotionalState) Tone {
	switch {
	case outcome == OutcomeCorrect:
		return ToneCelebratory
	case outcome == OutcomeWrong && state == profile.EmotionFrustrated:
		return ToneSupportive
	case outcome == OutcomeWrong:
		return ToneEncouraging
	default:
		return ToneNeutral
	}
}

// Suggestions returns the follow-up actions for outcome.
func Suggestions(p *profile.Profile, outcome Outcome) []Suggestion {
	var out []Suggestion
	if outcome == OutcomeWrong {
		out = append(out,
			Suggestion{"hint", "Get a hint", "Work through the problem step by step"},
			Suggestion{"video", "Watch an explanation", "A video lesson on this topic"},
			Suggestion{"break", "Take a break", "Come back in a few minutes"},
		)
	} else {
		out = append(out,
			Suggestion{"continue", "Next task", "Keep learning"},
			Suggestion{"review", "Review the topic", "Reinforce the material"},
		)
	}
	if p != nil && p.Points < nudgePoints {
		out = append(out, Suggestion{
			Type:        "achievement",
			Title:       "Achievements",
			Description: fmt.Sprintf("You're at level %d! Earn more points!", p.Level),
		})
	}
	return out
}

// Encouragement returns a support level in [1, 5].
func Encouragement(p *profile.Profile, outcome Outcome) int {
	level := 3
	switch outcome {
	case OutcomeCorrect:
		level = 5
	case OutcomeWrong:
		level = 2
	}
	if p != nil {
		if p.AccuracyRate < 50 {
			level++
		} else if p.AccuracyRate > 80 {
			level++
		}
	}
	return max(minEncouragement, min(level, maxEncouragement))
}
