// Package taskgen selects practice tasks matched to a learner's profile.
package taskgen

import "github.com/abhisek/adapted/internal/profile"

// Difficulty is a task tier.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Tiers returns the difficulty tiers in fallback search order.
func Tiers() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced}
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// DefaultTopic is used when the caller does not name a topic.
const DefaultTopic = "general"

// MixedCategory is the bank category used for unknown topics.
const MixedCategory = "mixed"

// Task is one generated practice task.
type Task struct {
	// ID is sequential within one generation call starting at IDOffset.
	// IDs repeat across calls.
	ID int `json:"id"`

	Question      string `json:"question"`
	CorrectAnswer int    `json:"correct_answer"`

	// Category is the bank category the task was drawn from. It differs
	// from the requested topic when the topic fell back to "mixed".
	Category string `json:"category"`

	// Difficulty is the tier chosen for the learner, even when the task
	// itself came from a fallback tier.
	Difficulty Difficulty `json:"difficulty"`

	TargetedErrors []profile.ErrorTag `json:"targeted_errors"`
	Hint           string             `json:"hint"`
}

// Result is the output of one generation call.
type Result struct {
	Tasks      []Task     `json:"tasks"`
	Difficulty Difficulty `json:"difficulty"`
	Reasoning  string     `json:"reasoning"`
}
