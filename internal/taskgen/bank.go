package taskgen

import (
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// BankEntry is one task template in the bank.
type BankEntry struct {
	Question string     `yaml:"question"`
	Answer   int        `yaml:"answer"`
	Level    Difficulty `yaml:"level"`
}

// Bank maps a category to its task templates.
type Bank map[string][]BankEntry

// DefaultBank returns the built-in arithmetic task bank.
func DefaultBank() Bank {
	return Bank{
		"addition": {
			{"15 + 8", 23, Beginner},
			{"47 + 56", 103, Intermediate},
			{"234 + 567", 801, Advanced},
		},
		"subtraction": {
			{"20 - 7", 13, Beginner},
			{"85 - 29", 56, Intermediate},
			{"1000 - 345", 655, Advanced},
		},
		"multiplication": {
			{"6 × 7", 42, Beginner},
			{"13 × 5", 65, Intermediate},
			{"23 × 15", 345, Advanced},
		},
		"division": {
			{"24 ÷ 4", 6, Beginner},
			{"81 ÷ 9", 9, Intermediate},
			{"156 ÷ 12", 13, Advanced},
		},
		MixedCategory: {
			{"15 + 8 - 5", 18, Intermediate},
			{"6 × 3 + 10", 28, Intermediate},
			{"(10 + 5) × 2", 30, Advanced},
			{"50 - (20 + 10)", 20, Advanced},
		},
	}
}

// LoadBank decodes a YAML task bank of the form
//
//	addition:
//	  - {question: "15 + 8", answer: 23, level: beginner}
func LoadBank(r io.Reader) (Bank, error) {
	var b Bank
	if err := yaml.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode task bank: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks that every entry has a question and a known level.
func (b Bank) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("task bank is empty")
	}
	for cat, entries := range b {
		for i, e := range entries {
			if e.Question == "" {
				return fmt.Errorf("task bank %s[%d]: empty question", cat, i)
			}
			if !e.Level.Valid() {
				return fmt.Errorf("task bank %s[%d]: unknown level %q", cat, i, e.Level)
			}
		}
	}
	return nil
}

// Topics returns the bank categories in sorted order.
func (b Bank) Topics() []string {
	topics := make([]string, 0, len(b))
	for t := range b {
		topics = append(topics, t)
	}
	slices.Sort(topics)
	return topics
}

// category resolves topic to a bank category, falling back to mixed.
func (b Bank) category(topic string) string {
	if _, ok := b[topic]; ok {
		return topic
	}
	return MixedCategory
}

// pool returns the entries of category at level. When that tier is empty
// the tiers are searched in fallback order and the first non-empty one is
// used.
func (b Bank) pool(category string, level Difficulty) []BankEntry {
	if p := b.filter(category, level); len(p) > 0 {
		return p
	}
	for _, tier := range Tiers() {
		if p := b.filter(category, tier); len(p) > 0 {
			return p
		}
	}
	return nil
}

func (b Bank) filter(category string, level Difficulty) []BankEntry {
	var out []BankEntry
	for _, e := range b[category] {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
