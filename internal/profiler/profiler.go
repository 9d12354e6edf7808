// Package profiler applies task attempts to cognitive profiles.
package profiler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/achievements"
	"github.com/abhisek/adapted/internal/profile"
)

// Config holds the profiler thresholds.
type Config struct {
	StyleMinHistory  int     // attempts needed before a learning style is set
	StyleWindow      int     // recent attempts used for style detection
	VisualThreshold  float64 // recent correct rate above which the style is visual
	EmotionWindow    int     // recent attempts used for emotional state
	PointsPerCorrect int
	MasteryWeight    float64 // weight of the newest attempt in topic mastery
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		StyleMinHistory:  5,
		StyleWindow:      10,
		VisualThreshold:  0.7,
		EmotionWindow:    5,
		PointsPerCorrect: 10,
		MasteryWeight:    0.2,
	}
}

// Insights summarizes a profile after an update.
type Insights struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Result is the outcome of one update.
type Result struct {
	Profile  *profile.Profile
	Insights Insights
	Unlocked []achievements.Achievement
}

// Service owns the profile store and the update rules.
type Service struct {
	store  profile.Store
	cfg    Config
	rules  []achievements.Rule
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a profiler over store.
func NewService(store profile.Store, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		cfg:    cfg,
		rules:  achievements.DefaultRules(),
		logger: logger.Named("profiler"),
		now:    time.Now,
	}
}

// GetOrCreate returns the profile for userID, creating it on first access.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (*profile.Profile, error) {
	p, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile %q: %w", userID, err)
	}
	return p, nil
}

// Get returns the stored profile for userID or nil when it has none.
func (s *Service) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile %q: %w", userID, err)
	}
	return p, nil
}

// Save persists p.
func (s *Service) Save(ctx context.Context, p *profile.Profile) error {
	if err := s.store.Save(ctx, p); err != nil {
		return fmt.Errorf("save profile %q: %w", p.UserID, err)
	}
	return nil
}

// List returns every stored profile.
func (s *Service) List(ctx context.Context) ([]*profile.Profile, error) {
	return s.store.List(ctx)
}

// Update applies attempt and analysis to p in place. Either may be nil.
// Steps run in a fixed order: history, statistics, error patterns, learning
// style, emotional state, motivation, insights.
func (s *Service) Update(p *profile.Profile, attempt *profile.TaskAttempt, analysis *profile.ErrorAnalysis) Result {
	if attempt != nil {
		s.appendAttempt(p, *attempt)
	}

	recomputeStatistics(p)

	if analysis != nil {
		recordError(p, *analysis)
	}

	s.detectLearningStyle(p)
	s.updateEmotionalState(p)
	unlocked := s.updateMotivation(p, attempt != nil)

	if attempt != nil || analysis != nil {
		p.LastUpdated = s.now()
	}

	s.logger.Debug("profile updated",
		zap.String("user_id", p.UserID),
		zap.Int("total_tasks", p.TotalTasksCompleted),
		zap.Float64("accuracy", p.AccuracyRate),
		zap.String("emotional_state", string(p.EmotionalState)),
		zap.Int("points", p.Points),
	)

	return Result{
		Profile:  p,
		Insights: GenerateInsights(p),
		Unlocked: unlocked,
	}
}

func (s *Service) appendAttempt(p *profile.Profile, a profile.TaskAttempt) {
	if a.AttemptsCount == 0 {
		a.AttemptsCount = 1
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now()
	}
	p.TaskHistory = append(p.TaskHistory, a)

	if a.Topic != "" {
		score := 0.0
		if a.IsCorrect {
			score = 1.0
		}
		prev := p.TopicMastery[a.Topic]
		p.TopicMastery[a.Topic] = max(0, min(1, prev*(1-s.cfg.MasteryWeight)+score*s.cfg.MasteryWeight))
	}
}

// recomputeStatistics derives the counters from the full history.
func recomputeStatistics(p *profile.Profile) {
	p.TotalTasksCompleted = len(p.TaskHistory)
	correct := 0
	for _, a := range p.TaskHistory {
		if a.IsCorrect {
			correct++
		}
	}
	p.CorrectTasksCount = correct
	if p.TotalTasksCompleted > 0 {
		p.AccuracyRate = float64(correct) / float64(p.TotalTasksCompleted) * 100
	} else {
		p.AccuracyRate = 0
	}
}

func recordError(p *profile.Profile, ea profile.ErrorAnalysis) {
	if ea.Tag == "" {
		return
	}
	ea.SimilarErrorsCount = p.ErrorFrequency.Get(ea.Tag)
	p.ErrorFrequency.Inc(ea.Tag)
	p.ErrorHistory = append(p.ErrorHistory, ea)
}

func (s *Service) detectLearningStyle(p *profile.Profile) {
	if len(p.TaskHistory) < s.cfg.StyleMinHistory {
		return
	}
	if profile.CorrectRate(p.RecentAttempts(s.cfg.StyleWindow)) > s.cfg.VisualThreshold {
		p.LearningStyle = profile.StyleVisual
	} else {
		p.LearningStyle = profile.StyleReading
	}
}

func (s *Service) updateEmotionalState(p *profile.Profile) {
	recent := p.RecentAttempts(s.cfg.EmotionWindow)
	if len(recent) == 0 {
		return
	}
	p.EmotionalState = EmotionForRate(profile.CorrectRate(recent))
}

// EmotionForRate maps a recent correct rate to an emotional state.
func EmotionForRate(rate float64) profile.EmotionalState {
	switch {
	case rate >= 0.8:
		return profile.EmotionConfident
	case rate >= 0.6:
		return profile.EmotionMotivated
	case rate < 0.3:
		return profile.EmotionFrustrated
	default:
		return profile.EmotionNeutral
	}
}

// updateMotivation scores only the attempt appended by this update, then
// derives the level and unlocks achievements.
func (s *Service) updateMotivation(p *profile.Profile, appended bool) []achievements.Achievement {
	if appended {
		if last, ok := p.LastAttempt(); ok && last.IsCorrect {
			p.Points += s.cfg.PointsPerCorrect
		}
	}
	p.Level = profile.LevelForPoints(p.Points)
	return achievements.Unlock(p, s.rules)
}

// GenerateInsights derives strengths, weaknesses and recommendations from p.
func GenerateInsights(p *profile.Profile) Insights {
	in := Insights{
		Strengths:       []string{},
		Weaknesses:      []string{},
		Recommendations: []string{},
	}
	if tag, _, ok := p.ErrorFrequency.MostFrequent(); ok {
		in.Weaknesses = append(in.Weaknesses, fmt.Sprintf("Frequent error type: %s", tag))
		in.Recommendations = append(in.Recommendations, fmt.Sprintf("Focus on: %s", tag))
	}
	if p.AccuracyRate > 70 {
		in.Strengths = append(in.Strengths, fmt.Sprintf("High accuracy (%.1f%%)", p.AccuracyRate))
	}
	if p.Level > 1 {
		in.Strengths = append(in.Strengths, fmt.Sprintf("Level %d", p.Level))
	}
	return in
}
