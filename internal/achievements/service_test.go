package achievements

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adapted/internal/profile"
	"github.com/abhisek/adapted/internal/store"
)

// mockEventRepo implements store.EventRepo for achievements tests.
type mockEventRepo struct {
	events    []store.AchievementEventData
	appendErr error
}

func (m *mockEventRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return nil
}
func (m *mockEventRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMRequestEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) GetLLMEvent(context.Context, int) (*store.LLMRequestEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsageByPurpose(context.Context) ([]store.LLMUsageStats, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsageByModel(context.Context) ([]store.LLMModelUsage, error) {
	return nil, nil
}
func (m *mockEventRepo) AppendAchievementEvent(_ context.Context, data store.AchievementEventData) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.events = append(m.events, data)
	return nil
}
func (m *mockEventRepo) QueryAchievementEvents(context.Context, string, store.QueryOpts) ([]store.AchievementEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) AchievementCounts(context.Context) (map[string]int, int, error) {
	counts := map[string]int{}
	for _, e := range m.events {
		counts[e.Achievement]++
	}
	return counts, len(m.events), nil
}

func TestService_RecordPersistsEvents(t *testing.T) {
	repo := &mockEventRepo{}
	svc := NewService(repo, nil)

	p := profile.New("u1")
	p.Points = 200
	p.Level = 3
	svc.Record(context.Background(), p, []Achievement{FirstSteps, SteadyProgress})

	require.Len(t, repo.events, 2)
	assert.Equal(t, store.AchievementEventData{UserID: "u1", Achievement: "first_steps", Points: 200, Level: 3}, repo.events[0])

	counts, total, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, counts["steady_progress"])
}

func TestService_NilRepo(t *testing.T) {
	svc := NewService(nil, nil)
	svc.Record(context.Background(), profile.New("u1"), []Achievement{FirstSteps})

	counts, total, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, counts)
}

func TestService_AppendErrorIsSwallowed(t *testing.T) {
	repo := &mockEventRepo{appendErr: errors.New("disk full")}
	svc := NewService(repo, nil)
	assert.NotPanics(t, func() {
		svc.Record(context.Background(), profile.New("u1"), []Achievement{HighAchiever})
	})
}
