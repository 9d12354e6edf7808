package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/adapted/internal/mentor"
	"github.com/abhisek/adapted/internal/profile"
	"github.com/abhisek/adapted/internal/ui/components"
	"github.com/abhisek/adapted/internal/ui/theme"
)

const reportWidth = 60

func field(label string, value any) string {
	return theme.Label.Render(label) + theme.Body.Render(fmt.Sprint(value))
}

func renderAdvice(a mentor.Advice) string {
	var b strings.Builder
	b.WriteString(theme.ForTone(string(a.Tone)).Render(a.Message))
	for _, s := range a.Suggestions {
		b.WriteString("\n  • ")
		b.WriteString(theme.Body.Render(s.Title))
		if s.Description != "" {
			b.WriteString(theme.Hint.Render(" - " + s.Description))
		}
	}
	return b.String()
}

func renderErrors(freq profile.ErrorFrequency) string {
	if len(freq) == 0 {
		return theme.Hint.Render("none")
	}
	parts := make([]string, 0, len(freq))
	for _, e := range freq {
		parts = append(parts, fmt.Sprintf("%s ×%d", e.Tag, e.Count))
	}
	return theme.Body.Render(strings.Join(parts, ", "))
}

// accuracyBar renders a percentage in [0, 100].
func accuracyBar(label string, percent float64) string {
	return components.NewProgressBar(label, percent/100, true, reportWidth).View()
}
