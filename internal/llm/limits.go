package llm

import (
	"context"
	"time"
)

// LimitProvider applies the configured token budget and request timeout.
type LimitProvider struct {
	inner     Provider
	maxTokens int
	timeout   time.Duration
}

// WithLimits wraps p so that requests without MaxTokens get maxTokens and
// every call, retries included, ends after timeout. Zero values disable the
// corresponding limit.
func WithLimits(p Provider, maxTokens int, timeout time.Duration) Provider {
	return &LimitProvider{inner: p, maxTokens: maxTokens, timeout: timeout}
}

func (l *LimitProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.MaxTokens <= 0 {
		req.MaxTokens = l.maxTokens
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return l.inner.Generate(ctx, req)
}

func (l *LimitProvider) ModelID() string {
	return l.inner.ModelID()
}
