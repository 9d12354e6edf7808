package llm

import "context"

// Purpose labels what an LLM call was made for. It is recorded with every
// request event and shown by `adapted llm stats`.
type Purpose string

const (
	PurposeChat       Purpose = "chat"
	PurposeHint       Purpose = "hint"
	PurposeMotivation Purpose = "motivation"
	PurposeTraits     Purpose = "traits"

	PurposeUnknown Purpose = "unknown"
)

type contextKey int

const (
	purposeKey contextKey = iota
	userKey
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose Purpose) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) Purpose {
	if v, ok := ctx.Value(purposeKey).(Purpose); ok && v != "" {
		return v
	}
	return PurposeUnknown
}

// WithUser attaches the learner a call is made for.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// UserFrom returns the learner attached with WithUser, or "".
func UserFrom(ctx context.Context) string {
	v, _ := ctx.Value(userKey).(string)
	return v
}
