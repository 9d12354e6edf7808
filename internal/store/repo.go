package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	UserID  string // only events for this learner
	Purpose string // LLM events only
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	UserID       string // learner the call was made for, if any
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM calls for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM token usage for one provider and model.
type LLMModelUsage struct {
	Provider     string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// AchievementEventData records one achievement unlock.
type AchievementEventData struct {
	UserID      string
	Achievement string
	Points      int
	Level       int
}

// AchievementEventRecord is a stored achievement unlock.
type AchievementEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	AchievementEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates LLM usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates LLM usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// AppendAchievementEvent records an achievement unlock.
	AppendAchievementEvent(ctx context.Context, data AchievementEventData) error

	// QueryAchievementEvents returns unlocks for userID (all users when
	// empty), newest first.
	QueryAchievementEvents(ctx context.Context, userID string, opts QueryOpts) ([]AchievementEventRecord, error)

	// AchievementCounts returns unlock counts per achievement and the total.
	AchievementCounts(ctx context.Context) (map[string]int, int, error)
}
