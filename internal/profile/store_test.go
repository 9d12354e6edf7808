package profile

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetOrCreateDefaults(t *testing.T) {
	s := NewMemoryStore()
	p, err := s.GetOrCreate(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, EmotionNeutral, p.EmotionalState)
	assert.Equal(t, StyleUnset, p.LearningStyle)
	assert.Empty(t, p.TaskHistory)
	assert.NotNil(t, p.AssignedTasks)
	assert.Zero(t, p.Version)
}

func TestMemoryStore_EmptyUserID(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetOrCreate(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyUserID)
	assert.ErrorIs(t, s.Save(context.Background(), &Profile{}), ErrEmptyUserID)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p, err := s.GetOrCreate(ctx, "u1")
	require.NoError(t, err)

	p.Points = 500
	p.Achievements = append(p.Achievements, "first_steps")

	again, err := s.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, again.Points)
	assert.Empty(t, again.Achievements)
}

func TestMemoryStore_SaveBumpsVersion(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p, err := s.GetOrCreate(ctx, "u1")
	require.NoError(t, err)

	p.Points = 10
	require.NoError(t, s.Save(ctx, p))
	assert.Equal(t, int64(1), p.Version)

	got, err := s.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Points)
	assert.Equal(t, int64(1), got.Version)
}

func TestMemoryStore_GetDoesNotCreate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p)
	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := s.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	created.Points = 7
	require.NoError(t, s.Save(ctx, created))

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 7, got.Points)

	_, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestMemoryStore_SaveDetectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a, _ := s.GetOrCreate(ctx, "u1")
	b, _ := s.GetOrCreate(ctx, "u1")

	require.NoError(t, s.Save(ctx, a))
	err := s.Save(ctx, b)
	assert.True(t, errors.Is(err, ErrVersionConflict), "got %v", err)
}

func TestMemoryStore_ListSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, id := range []string{"c", "a", "b"} {
		_, err := s.GetOrCreate(ctx, id)
		require.NoError(t, err)
	}
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].UserID)
	assert.Equal(t, "c", list[2].UserID)
}

func TestProfile_CloneIsDeep(t *testing.T) {
	answer := 5
	p := New("u1")
	p.TaskHistory = append(p.TaskHistory, TaskAttempt{TaskID: 1, UserAnswer: &answer})
	p.AssignedTasks["addition"] = []int{1, 2}
	p.ErrorFrequency.Inc(ErrorLogicGap)

	c := p.Clone()
	*c.TaskHistory[0].UserAnswer = 99
	c.AssignedTasks["addition"][0] = 42
	c.ErrorFrequency.Inc(ErrorLogicGap)

	assert.Equal(t, 5, *p.TaskHistory[0].UserAnswer)
	assert.Equal(t, 1, p.AssignedTasks["addition"][0])
	assert.Equal(t, 1, p.ErrorFrequency.Get(ErrorLogicGap))
}

func TestProfile_JSONUsesStringTags(t *testing.T) {
	p := New("u1")
	p.LearningStyle = StyleVisual
	p.EmotionalState = EmotionConfident
	p.ErrorFrequency.Inc(ErrorCarelessness)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "visual", raw["learning_style"])
	assert.Equal(t, "confident", raw["current_emotional_state"])
	assert.Equal(t, map[string]any{"carelessness": float64(1)}, raw["error_frequency"])
}

func TestRecentAttemptsAndCorrectRate(t *testing.T) {
	p := New("u1")
	for i := range 12 {
		p.TaskHistory = append(p.TaskHistory, TaskAttempt{TaskID: i, IsCorrect: i%2 == 0})
	}
	recent := p.RecentAttempts(10)
	require.Len(t, recent, 10)
	assert.Equal(t, 2, recent[0].TaskID)
	assert.InDelta(t, 0.5, CorrectRate(recent), 1e-9)
	assert.Zero(t, CorrectRate(nil))
}

func TestLevelForPoints(t *testing.T) {
	cases := map[int]int{0: 1, 99: 1, 100: 2, 250: 3, 900: 10, 5000: 10}
	for points, want := range cases {
		if got := LevelForPoints(points); got != want {
			t.Errorf("LevelForPoints(%d) = %d, want %d", points, got, want)
		}
	}
}

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	var km KeyedMutex
	var wg sync.WaitGroup
	counter := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("u1")
			counter++
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Zero(t, km.held())
}
