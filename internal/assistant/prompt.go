package assistant

import (
	"fmt"
	"strings"

	"github.com/abhisek/adapted/internal/personality"
	"github.com/abhisek/adapted/internal/store"
)

const chatSystemPrompt = "You are a friendly educational assistant. Help the student learn, explain clearly and be supportive."

const hintSystemPrompt = `You are an educational assistant. Give a short hint and do NOT reveal the full answer.
Guide the student step by step: ask a leading question or suggest the next step.`

const motivationSystemPrompt = "You write very short, friendly greetings that motivate a student to start a task."

const traitSystemPrompt = `You analyze a student's chat messages and rate personality traits from 0 to 1:
- curiosity
- persistence
- confidence
- creativity
- analytical_thinking

Return only a JSON object with the five scores.`

// docExcerptLen caps how much of each retrieved document goes into a hint.
const docExcerptLen = 800

func buildChatSystem(userName string, p *personality.Profile, weaknesses []string) string {
	var b strings.Builder
	b.WriteString(chatSystemPrompt)
	if userName != "" {
		fmt.Fprintf(&b, "\nStudent name: %s.", userName)
	}
	if p == nil {
		return b.String()
	}

	formality := "informal"
	if p.CommunicationStyle.Formality > 0.5 {
		formality = "formal"
	}
	verbosity := "brief"
	if p.CommunicationStyle.Verbosity > 0.5 {
		verbosity = "detailed"
	}
	fmt.Fprintf(&b, "\n[Student context: communication style: %s, %s.", formality, verbosity)
	if len(weaknesses) > 0 {
		fmt.Fprintf(&b, "\nStudent weak spots: %s. Take this into account in your answers.", strings.Join(weaknesses, ", "))
	}
	b.WriteString("]")
	return b.String()
}

func buildHintMessage(task, level string, docs []store.Document) string {
	var b strings.Builder
	if level != "" {
		fmt.Fprintf(&b, "Student level: %s.\n", level)
	}
	if len(docs) > 0 {
		b.WriteString("Context (may be used, must not reveal the answer):\n")
		parts := make([]string, len(docs))
		for i, d := range docs {
			parts[i] = fmt.Sprintf("[Source: %s]\n%s", d.Title, excerpt(d.Content, docExcerptLen))
		}
		b.WriteString(strings.Join(parts, "\n\n"))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Task: %s\nHint:", task)
	return b.String()
}

func buildMotivationMessage(topic, studentName, deadline string) string {
	var b strings.Builder
	b.WriteString("Write a very short friendly greeting and motivation (1-2 sentences) for a task on the topic: ")
	b.WriteString(topic)
	if studentName != "" {
		b.WriteString(", " + studentName)
	}
	b.WriteString(".")
	if deadline != "" {
		fmt.Fprintf(&b, " Deadline: %s.", deadline)
	}
	b.WriteString(" Keep the tone kind and supportive, and do not reveal any answers.")
	return b.String()
}

func buildTraitMessage(p *personality.Profile) string {
	return "Dialogue:\n" + p.RecentTranscript(traitWindow)
}

// excerpt returns the first n runes of s.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
