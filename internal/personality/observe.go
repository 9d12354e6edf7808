package personality

import (
	"slices"
	"strings"
	"time"
)

const (
	observeWindow    = 10
	textWindow       = 20
	weaknessWindow   = 5
	formalScore      = 0.7
	informalScore    = 0.3
	verbosityDivisor = 100.0
)

var politeWords = []string{"please", "thank", "sorry", "excuse me", "appreciate"}

var weaknessPhrases = []string{
	"don't understand", "do not understand", "hard", "difficult",
	"can't get", "don't know", "forgot", "don't remember",
}

// subjectKeywords maps a weakness subject to the words that signal it.
var subjectKeywords = []struct {
	subject  string
	keywords []string
}{
	{"math", []string{"math", "algebra", "fraction", "equation", "multiplication", "division"}},
	{"language", []string{"language", "grammar", "spelling", "reading", "writing"}},
}

// ObserveChat records the learner's side of a conversation and re-derives
// the communication style and mentioned weaknesses from the recent history.
// Only the last ten messages of the batch are considered.
func (p *Profile) ObserveChat(messages []ChatMessage, now time.Time) {
	if len(messages) > observeWindow {
		messages = messages[len(messages)-observeWindow:]
	}
	for _, m := range messages {
		if m.Role != "user" {
			continue
		}
		p.ChatHistory = append(p.ChatHistory, ChatMessage{Role: "user", Content: m.Content, Timestamp: now})
		p.TotalMessages++
	}

	text := strings.ToLower(joinContent(tail(p.ChatHistory, textWindow)))

	p.CommunicationStyle.QuestionFrequency = min(
		float64(strings.Count(text, "?"))/float64(max(len(p.ChatHistory), 1)), 1.0)

	p.CommunicationStyle.Formality = informalScore
	for _, w := range politeWords {
		if strings.Contains(text, w) {
			p.CommunicationStyle.Formality = formalScore
			break
		}
	}

	recent := tail(p.ChatHistory, observeWindow)
	total := 0
	for _, m := range recent {
		total += len(m.Content)
	}
	p.CommunicationStyle.Verbosity = min(float64(total)/float64(max(len(recent), 1))/verbosityDivisor, 1.0)

	for _, phrase := range weaknessPhrases {
		if !strings.Contains(text, phrase) {
			continue
		}
		for _, m := range tail(p.ChatHistory, weaknessWindow) {
			content := strings.ToLower(m.Content)
			if !strings.Contains(content, phrase) {
				continue
			}
			if subject := detectSubject(content); subject != "" && !slices.Contains(p.MentionedWeaknesses, subject) {
				p.MentionedWeaknesses = append(p.MentionedWeaknesses, subject)
			}
		}
	}

	p.LastUpdated = now
}

func detectSubject(content string) string {
	for _, s := range subjectKeywords {
		for _, kw := range s.keywords {
			if strings.Contains(content, kw) {
				return s.subject
			}
		}
	}
	return ""
}

func tail(history []ChatMessage, n int) []ChatMessage {
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}

func joinContent(history []ChatMessage) string {
	parts := make([]string, len(history))
	for i, m := range history {
		parts[i] = m.Content
	}
	return strings.Join(parts, " ")
}
