package orchestrator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/abhisek/adapted/internal/analytics"
	"github.com/abhisek/adapted/internal/mentor"
	"github.com/abhisek/adapted/internal/profile"
	"github.com/abhisek/adapted/internal/taskgen"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func intPtr(v int) *int { return &v }

func newTestOrchestrator(t *testing.T) (*Orchestrator, *profile.MemoryStore) {
	t.Helper()
	store := profile.NewMemoryStore()
	o := New(Options{
		Profiles:  store,
		Collector: NewStoreCollector(store, map[string][]string{"5a": {"alice", "bob"}}),
		Seed:      1,
	})
	return o, store
}

func submit(t *testing.T, o *Orchestrator, user string, answer int) *SubmitResult {
	t.Helper()
	res, err := o.SubmitTask(context.Background(), SubmitRequest{
		UserID:        user,
		TaskID:        1000,
		Question:      "15 + 8",
		UserAnswer:    intPtr(answer),
		CorrectAnswer: intPtr(23),
	})
	require.NoError(t, err)
	return res
}

func TestSubmitTask_CorrectAnswer(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	res := submit(t, o, "alice", 23)

	assert.True(t, res.IsCorrect)
	assert.Nil(t, res.ErrorAnalysis)
	assert.Equal(t, 23, res.CorrectAnswer)
	assert.Equal(t, mentor.ToneCelebratory, res.MentorMessage.Tone)

	p := res.UpdatedProfile.Profile
	assert.Equal(t, 10, p.Points)
	assert.Equal(t, 1, p.TotalTasksCompleted)
	assert.Equal(t, int64(1), p.Version)
	assert.Equal(t, []string{"high_achiever"}, res.UpdatedProfile.NewAchievements)
}

func TestSubmitTask_WrongAnswerAfterCorrect(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	submit(t, o, "alice", 23)

	res := submit(t, o, "alice", 24)

	assert.False(t, res.IsCorrect)
	require.NotNil(t, res.ErrorAnalysis)
	assert.Equal(t, profile.ErrorCarelessness, res.ErrorAnalysis.Tag)
	assert.Equal(t, 0, res.ErrorAnalysis.SimilarErrorsCount)
	assert.NotEmpty(t, res.ErrorAnalysis.Remediation)

	p := res.UpdatedProfile.Profile
	assert.Equal(t, 1, p.ErrorFrequency.Get(profile.ErrorCarelessness))
	assert.Equal(t, 10, p.Points)
	assert.Equal(t, mentor.ToneEncouraging, res.MentorMessage.Tone)
	require.Len(t, p.TaskHistory, 2)
	require.NotNil(t, p.TaskHistory[1].ErrorAnalysis)
	assert.Equal(t, profile.ErrorCarelessness, p.TaskHistory[1].ErrorAnalysis.Tag)
	assert.Equal(t, []string{"Frequent error type: carelessness"}, res.UpdatedProfile.Insights.Weaknesses)
}

func TestSubmitTask_SkippedAnswer(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	res, err := o.SubmitTask(context.Background(), SubmitRequest{
		UserID: "alice", TaskID: 1, Question: "6 × 7", CorrectAnswer: intPtr(42),
	})
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	require.NotNil(t, res.ErrorAnalysis)
	assert.Equal(t, profile.ErrorNotAttempted, res.ErrorAnalysis.Tag)
}

func TestSubmitTask_Validation(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	_, err := o.SubmitTask(context.Background(), SubmitRequest{Question: "1 + 1", CorrectAnswer: intPtr(2)})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "user_id", ve.Field)
	assert.Equal(t, "invalid user_id: is required", ve.Error())

	_, err = o.SubmitTask(context.Background(), SubmitRequest{
		UserID: "a", Question: "1 + 1", CorrectAnswer: intPtr(2), TimeSpentSeconds: intPtr(-1),
	})
	assert.True(t, IsValidation(err))

	_, err = o.SubmitTask(context.Background(), SubmitRequest{
		UserID: "bob", TaskID: 1, Question: "15 + 8", UserAnswer: intPtr(0),
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "correct_answer", ve.Field)

	// Rejected submissions never create a profile.
	p, err := o.LookupProfile(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, p)
}

func TestLookupProfile(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	_, err := o.LookupProfile(ctx, "carol")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = o.LookupProfile(ctx, "")
	assert.True(t, IsValidation(err))

	created, err := o.Profile(ctx, "carol")
	require.NoError(t, err)

	got, err := o.LookupProfile(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, created.Profile.UserID, got.Profile.UserID)
	assert.Equal(t, created.Insights, got.Insights)
}

func TestSubmitTask_ZeroIsAValidCorrectAnswer(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	res, err := o.SubmitTask(context.Background(), SubmitRequest{
		UserID: "bob", Question: "5 - 5", UserAnswer: intPtr(0), CorrectAnswer: intPtr(0),
	})
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 0, res.CorrectAnswer)
}

func TestSubmitTask_ConcurrentSubmissionsAreSerialized(t *testing.T) {
	o, store := newTestOrchestrator(t)

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := o.SubmitTask(context.Background(), SubmitRequest{
				UserID: "alice", Question: "15 + 8", UserAnswer: intPtr(23), CorrectAnswer: intPtr(23),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := store.GetOrCreate(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, n, p.TotalTasksCompleted)
	assert.Equal(t, n*10, p.Points)
	assert.Equal(t, int64(n), p.Version)
}

func TestGenerateTasks(t *testing.T) {
	o, store := newTestOrchestrator(t)

	res, err := o.GenerateTasks(context.Background(), GenerateRequest{UserID: "alice", Topic: "addition", Count: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, taskgen.Beginner, res.Difficulty)
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "15 + 8", res.Tasks[0].Question)

	p, err := store.GetOrCreate(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, p.TaskHistory, "generation never records attempts")

	_, err = o.GenerateTasks(context.Background(), GenerateRequest{UserID: "alice", Count: intPtr(500)})
	assert.True(t, IsValidation(err))
}

func TestGenerateTasks_CountDefaults(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	res, err := o.GenerateTasks(ctx, GenerateRequest{UserID: "alice", Topic: "addition", Count: intPtr(0)})
	require.NoError(t, err)
	assert.Empty(t, res.Tasks)

	res, err = o.GenerateTasks(ctx, GenerateRequest{UserID: "alice", Topic: "addition"})
	require.NoError(t, err)
	assert.Len(t, res.Tasks, 1, "omitted count falls back to the default")

	_, err = o.GenerateTasks(ctx, GenerateRequest{UserID: "alice", Count: intPtr(-1)})
	assert.True(t, IsValidation(err))
}

func TestDashboard(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	for range 12 {
		submit(t, o, "alice", 24)
	}

	d, err := o.Dashboard(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", d.Profile.UserID)
	assert.Equal(t, 12, d.Profile.TotalTasksCompleted)
	assert.Len(t, d.RecentTasks, 10)
	assert.Equal(t, profile.ErrorFrequency{{Tag: profile.ErrorCarelessness, Count: 12}}, d.ErrorPatterns)
	assert.Equal(t, mentor.ToneNeutral, d.MentorMessage.Tone)

	_, err = o.Dashboard(context.Background(), "")
	assert.True(t, IsValidation(err))
}

func TestDashboard_NewUserIsCreated(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	d, err := o.Dashboard(context.Background(), "newcomer")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Profile.Level)
	assert.Empty(t, d.RecentTasks)
}

func TestAssignTasks(t *testing.T) {
	o, store := newTestOrchestrator(t)
	ctx := context.Background()

	res, err := o.AssignTasks(ctx, AssignRequest{UserID: "alice", Topic: "addition", TaskIDs: []int{1000, 1001}})
	require.NoError(t, err)
	assert.Equal(t, "tasks_assigned", res.Status)

	res, err = o.AssignTasks(ctx, AssignRequest{UserID: "alice", Topic: "addition", TaskIDs: []int{1002}})
	require.NoError(t, err)
	res, err = o.AssignTasks(ctx, AssignRequest{UserID: "alice", Topic: "division", TaskIDs: []int{7}})
	require.NoError(t, err)
	assert.Equal(t, map[string][]int{"addition": {1000, 1001, 1002}, "division": {7}}, res.AssignedTasks)

	p, err := store.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, res.AssignedTasks, p.AssignedTasks)

	_, err = o.AssignTasks(ctx, AssignRequest{UserID: "alice", Topic: "addition"})
	assert.True(t, IsValidation(err))
}

func TestTeacherReport(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	r, err := o.TeacherReport(ctx, ReportRequest{ClassID: "5a"})
	require.NoError(t, err)
	assert.True(t, r.NoData, "no profiles stored yet")

	submit(t, o, "alice", 23)
	submit(t, o, "bob", 10)
	submit(t, o, "carol", 23)

	r, err = o.TeacherReport(ctx, ReportRequest{ClassID: "5a", ReportType: "summary"})
	require.NoError(t, err)
	require.NotNil(t, r.Summary)
	assert.Equal(t, 2, r.ClassStatistics.TotalStudents)

	r, err = o.TeacherReport(ctx, ReportRequest{ReportType: "struggling"})
	require.NoError(t, err)
	require.NotNil(t, r.Struggling)
	require.Equal(t, 1, r.StrugglingCount)
	assert.Equal(t, "bob", r.Students[0].UserID)

	r, err = o.TeacherReport(ctx, ReportRequest{ClassID: "unknown", ReportType: "detailed"})
	require.NoError(t, err)
	assert.True(t, r.NoData)
	assert.Equal(t, analytics.NoDataMessage, r.Error)

	_, err = o.TeacherReport(ctx, ReportRequest{ReportType: "weekly"})
	assert.True(t, IsValidation(err))
}

func TestTeacherReport_NopCollector(t *testing.T) {
	o := New(Options{Profiles: profile.NewMemoryStore()})
	submit(t, o, "alice", 23)

	r, err := o.TeacherReport(context.Background(), ReportRequest{ReportType: "summary"})
	require.NoError(t, err)
	assert.True(t, r.NoData)
}

func TestProfile(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	for range 10 {
		submit(t, o, "alice", 23)
	}
	got, err := o.Profile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 100, got.Profile.Points)
	assert.Equal(t, []string{"High accuracy (100.0%)", "Level 2"}, got.Insights.Strengths)
}
