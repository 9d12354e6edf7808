// Package orchestrator coordinates the analysis, profiling, task and mentor
// services behind the operations exposed to the API and CLI.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/achievements"
	"github.com/abhisek/adapted/internal/analytics"
	"github.com/abhisek/adapted/internal/diagnosis"
	"github.com/abhisek/adapted/internal/mentor"
	"github.com/abhisek/adapted/internal/profile"
	"github.com/abhisek/adapted/internal/profiler"
	"github.com/abhisek/adapted/internal/taskgen"
)

// maxSaveAttempts bounds retries when another process saved the same
// profile between our read and write.
const maxSaveAttempts = 3

const (
	dashboardRecentTasks = 10
	dashboardErrorTags   = 5
)

// Options configures an Orchestrator. Profiles is required.
type Options struct {
	Profiles     profile.Store
	Collector    Collector
	Achievements *achievements.Service
	TaskBank     taskgen.Bank
	Profiler     profiler.Config
	TaskGen      taskgen.Config

	// Seed fixes the random source for mentor messages and task sampling.
	// Zero seeds from the runtime.
	Seed   uint64
	Logger *zap.Logger
}

// Orchestrator runs the learner and teacher operations. It is safe for
// concurrent use. Mutations of one user's profile are serialized.
type Orchestrator struct {
	diagnosis    *diagnosis.Service
	profiler     *profiler.Service
	achievements *achievements.Service
	collector    Collector
	logger       *zap.Logger

	locks profile.KeyedMutex

	// randMu guards the generator and mentor, which share one source.
	randMu sync.Mutex
	tasks  *taskgen.Generator
	mentor *mentor.Mentor
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Collector == nil {
		opts.Collector = NopCollector{}
	}
	if opts.Profiler == (profiler.Config{}) {
		opts.Profiler = profiler.DefaultConfig()
	}
	if opts.TaskGen == (taskgen.Config{}) {
		opts.TaskGen = taskgen.DefaultConfig()
	}
	if opts.Achievements == nil {
		opts.Achievements = achievements.NewService(nil, logger)
	}

	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Orchestrator{
		diagnosis:    diagnosis.NewService(logger),
		profiler:     profiler.NewService(opts.Profiles, opts.Profiler, logger),
		achievements: opts.Achievements,
		collector:    opts.Collector,
		logger:       logger.Named("orchestrator"),
		tasks:        taskgen.New(opts.TaskBank, opts.TaskGen, rng, logger),
		mentor:       mentor.New(rng, logger),
	}
}

// SubmitRequest is one answer to a task.
type SubmitRequest struct {
	UserID string `json:"user_id" validate:"required"`
	// TaskID is 0 for questions that did not come from the task bank.
	TaskID   int    `json:"task_id"`
	Question string `json:"question" validate:"required"`
	Topic    string `json:"topic,omitempty"`

	// UserAnswer is nil when the learner skipped the task.
	UserAnswer       *int `json:"user_answer"`
	CorrectAnswer    *int `json:"correct_answer" validate:"required"`
	TimeSpentSeconds *int `json:"time_spent_seconds,omitempty" validate:"omitempty,min=0"`
}

// ProfileUpdate is a profile together with its derived insights.
type ProfileUpdate struct {
	Profile         *profile.Profile  `json:"profile"`
	Insights        profiler.Insights `json:"insights"`
	NewAchievements []string          `json:"new_achievements,omitempty"`
}

// SubmitResult is the outcome of SubmitTask.
type SubmitResult struct {
	IsCorrect      bool                   `json:"is_correct"`
	ErrorAnalysis  *profile.ErrorAnalysis `json:"error_analysis"`
	MentorMessage  mentor.Advice          `json:"mentor_message"`
	UpdatedProfile ProfileUpdate          `json:"updated_profile"`
	CorrectAnswer  int                    `json:"correct_answer"`
}

// SubmitTask grades an answer, classifies it when wrong, updates the
// learner profile and asks the mentor for feedback.
func (o *Orchestrator) SubmitTask(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	correct := *req.CorrectAnswer
	isCorrect := req.UserAnswer != nil && *req.UserAnswer == correct

	var diag *diagnosis.Result
	if !isCorrect {
		diag = o.diagnosis.Analyze(&diagnosis.ClassifyInput{
			UserAnswer:    req.UserAnswer,
			CorrectAnswer: correct,
			Question:      req.Question,
		})
	}

	unlock := o.locks.Lock(req.UserID)
	defer unlock()

	var (
		res      profiler.Result
		analysis *profile.ErrorAnalysis
	)
	err := o.mutate(ctx, req.UserID, func(p *profile.Profile) {
		attempt := &profile.TaskAttempt{
			TaskID:           req.TaskID,
			Question:         req.Question,
			Topic:            req.Topic,
			UserAnswer:       req.UserAnswer,
			CorrectAnswer:    correct,
			IsCorrect:        isCorrect,
			TimeSpentSeconds: req.TimeSpentSeconds,
			AttemptsCount:    1,
		}
		analysis = nil
		if diag != nil {
			ea := diag.ErrorAnalysis()
			ea.SimilarErrorsCount = p.ErrorFrequency.Get(ea.Tag)
			analysis = &ea
			stored := ea
			attempt.ErrorAnalysis = &stored
		}
		res = o.profiler.Update(p, attempt, analysis)
	})
	if err != nil {
		return nil, err
	}

	o.achievements.Record(ctx, res.Profile, res.Unlocked)

	outcome := mentor.OutcomeWrong
	if isCorrect {
		outcome = mentor.OutcomeCorrect
	}
	advice := o.advise(res.Profile, outcome)

	o.logger.Info("task submitted",
		zap.String("user_id", req.UserID),
		zap.Int("task_id", req.TaskID),
		zap.Bool("correct", isCorrect),
		zap.Int("points", res.Profile.Points),
	)

	return &SubmitResult{
		IsCorrect:     isCorrect,
		ErrorAnalysis: analysis,
		MentorMessage: advice,
		UpdatedProfile: ProfileUpdate{
			Profile:         res.Profile,
			Insights:        res.Insights,
			NewAchievements: achievementNames(res.Unlocked),
		},
		CorrectAnswer: correct,
	}, nil
}

// mutate loads the profile, applies fn and saves it, retrying from a fresh
// read when the store reports a version conflict.
func (o *Orchestrator) mutate(ctx context.Context, userID string, fn func(*profile.Profile)) error {
	for attempt := 1; ; attempt++ {
		p, err := o.profiler.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		fn(p)
		err = o.profiler.Save(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, profile.ErrVersionConflict) || attempt == maxSaveAttempts {
			return err
		}
		o.logger.Warn("profile changed concurrently, retrying",
			zap.String("user_id", userID),
			zap.Int("attempt", attempt),
		)
	}
}

// GenerateRequest asks for practice tasks.
type GenerateRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Topic  string `json:"topic"`
	// Count defaults to taskgen.DefaultCount when omitted. An explicit zero
	// asks for no tasks.
	Count *int `json:"count,omitempty" validate:"omitempty,min=0,max=50"`
}

// GenerateTasks picks tasks matched to the learner. The profile is read,
// never modified.
func (o *Orchestrator) GenerateTasks(ctx context.Context, req GenerateRequest) (*taskgen.Result, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	p, err := o.profiler.GetOrCreate(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	count := taskgen.DefaultCount
	if req.Count != nil {
		count = *req.Count
	}

	o.randMu.Lock()
	res := o.tasks.Generate(p, req.Topic, count)
	o.randMu.Unlock()
	return &res, nil
}

// ProfileSummary is the headline view of a profile.
type ProfileSummary struct {
	UserID              string                 `json:"user_id"`
	AccuracyRate        float64                `json:"accuracy_rate"`
	TotalTasksCompleted int                    `json:"total_tasks_completed"`
	CorrectTasksCount   int                    `json:"correct_tasks_count"`
	Level               int                    `json:"level"`
	Points              int                    `json:"points"`
	Achievements        []string               `json:"achievements"`
	EmotionalState      profile.EmotionalState `json:"current_emotional_state"`
}

// Dashboard is the learner's home view.
type Dashboard struct {
	Profile       ProfileSummary         `json:"profile"`
	RecentTasks   []profile.TaskAttempt  `json:"recent_tasks"`
	ErrorPatterns profile.ErrorFrequency `json:"error_patterns"`
	MentorMessage mentor.Advice          `json:"mentor_message"`
}

// Dashboard returns the profile summary, recent attempts, top error tags
// and a progress message for userID.
func (o *Orchestrator) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "is required"}
	}
	p, err := o.profiler.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Profile: ProfileSummary{
			UserID:              p.UserID,
			AccuracyRate:        p.AccuracyRate,
			TotalTasksCompleted: p.TotalTasksCompleted,
			CorrectTasksCount:   p.CorrectTasksCount,
			Level:               p.Level,
			Points:              p.Points,
			Achievements:        p.Achievements,
			EmotionalState:      p.EmotionalState,
		},
		RecentTasks:   p.RecentAttempts(dashboardRecentTasks),
		ErrorPatterns: p.ErrorFrequency.Top(dashboardErrorTags),
		MentorMessage: o.advise(p, mentor.OutcomeProgress),
	}, nil
}

// Profile returns the full profile of userID with its insights, creating a
// default profile for unseen users.
func (o *Orchestrator) Profile(ctx context.Context, userID string) (*ProfileUpdate, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "is required"}
	}
	p, err := o.profiler.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileUpdate{Profile: p, Insights: profiler.GenerateInsights(p)}, nil
}

// LookupProfile is Profile without the implicit creation. It returns
// ErrNotFound for users that have never been seen.
func (o *Orchestrator) LookupProfile(ctx context.Context, userID string) (*ProfileUpdate, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "is required"}
	}
	p, err := o.profiler.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("profile %q: %w", userID, ErrNotFound)
	}
	return &ProfileUpdate{Profile: p, Insights: profiler.GenerateInsights(p)}, nil
}

// ReportRequest selects a class report.
type ReportRequest struct {
	ClassID    string `json:"class_id"`
	ReportType string `json:"report_type"`
}

// TeacherReport builds a class report. Classes without profiles produce a
// no-data report rather than an error.
func (o *Orchestrator) TeacherReport(ctx context.Context, req ReportRequest) (*analytics.Report, error) {
	kind, err := analytics.ParseKind(req.ReportType)
	if err != nil {
		return nil, &ValidationError{Field: "report_type", Reason: err.Error()}
	}
	profiles, err := o.collector.Collect(ctx, req.ClassID)
	if err != nil {
		return nil, fmt.Errorf("collect class %q: %w", req.ClassID, err)
	}
	report := analytics.Build(profiles, kind)

	o.logger.Info("teacher report built",
		zap.String("class_id", req.ClassID),
		zap.String("kind", string(kind)),
		zap.Int("students", len(profiles)),
		zap.Bool("no_data", report.NoData),
	)
	return &report, nil
}

// AssignRequest assigns task ids to a learner under a topic.
type AssignRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Topic   string `json:"topic" validate:"required"`
	TaskIDs []int  `json:"task_ids" validate:"required,min=1"`
}

// AssignResult reports the learner's full assignment map.
type AssignResult struct {
	Status        string           `json:"status"`
	AssignedTasks map[string][]int `json:"assigned_tasks"`
}

// AssignTasks appends task ids to the learner's assignments for a topic.
func (o *Orchestrator) AssignTasks(ctx context.Context, req AssignRequest) (*AssignResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	unlock := o.locks.Lock(req.UserID)
	defer unlock()

	var assigned map[string][]int
	err := o.mutate(ctx, req.UserID, func(p *profile.Profile) {
		p.AssignedTasks[req.Topic] = append(p.AssignedTasks[req.Topic], req.TaskIDs...)
		assigned = p.AssignedTasks
	})
	if err != nil {
		return nil, err
	}
	return &AssignResult{Status: "tasks_assigned", AssignedTasks: assigned}, nil
}

func (o *Orchestrator) advise(p *profile.Profile, outcome mentor.Outcome) mentor.Advice {
	o.randMu.Lock()
	defer o.randMu.Unlock()
	return o.mentor.Advise(p, outcome)
}

func achievementNames(as []achievements.Achievement) []string {
	if len(as) == 0 {
		return nil
	}
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = string(a)
	}
	return out
}
