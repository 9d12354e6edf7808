package profile

import (
	"maps"
	"slices"
	"time"
)

// MaxLevel caps the level derived from points.
const MaxLevel = 10

// ErrorAnalysis is the classification of one incorrect attempt.
type ErrorAnalysis struct {
	Tag                ErrorTag `json:"error_type"`
	Justification      string   `json:"justification"`
	SimilarErrorsCount int      `json:"similar_errors_count"`
	Remediation        string   `json:"suggested_remediation,omitempty"`
}

// TaskAttempt is one submitted answer. Attempts are never modified after
// they are appended to a profile.
type TaskAttempt struct {
	TaskID           int            `json:"task_id"`
	Question         string         `json:"question"`
	Topic            string         `json:"topic,omitempty"`
	UserAnswer       *int           `json:"user_answer"`
	CorrectAnswer    int            `json:"correct_answer"`
	IsCorrect        bool           `json:"is_correct"`
	TimeSpentSeconds *int           `json:"time_spent_seconds,omitempty"`
	AttemptsCount    int            `json:"attempts_count"`
	ErrorAnalysis    *ErrorAnalysis `json:"error_analysis,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
}

// Profile is the cognitive profile of one learner.
type Profile struct {
	UserID             string              `json:"user_id"`
	TopicMastery       map[string]float64  `json:"topic_mastery"`
	ErrorHistory       []ErrorAnalysis     `json:"error_history"`
	ErrorFrequency     ErrorFrequency      `json:"error_frequency"`
	LearningStyle      LearningStyle       `json:"learning_style"`
	ContentPreferences []ContentPreference `json:"content_preferences"`
	EmotionalState     EmotionalState      `json:"current_emotional_state"`
	TaskHistory        []TaskAttempt       `json:"task_history"`

	TotalTasksCompleted int     `json:"total_tasks_completed"`
	CorrectTasksCount   int     `json:"correct_tasks_count"`
	AccuracyRate        float64 `json:"accuracy_rate"`

	AssignedTasks map[string][]int `json:"assigned_tasks"`

	Points       int      `json:"points"`
	Level        int      `json:"level"`
	Achievements []string `json:"achievements"`

	LastUpdated time.Time `json:"last_updated"`

	// Version increments on every successful save.
	Version int64 `json:"version"`
}

// New returns a profile with default values for userID.
func New(userID string) *Profile {
	return &Profile{
		UserID:             userID,
		TopicMastery:       map[string]float64{},
		ErrorHistory:       []ErrorAnalysis{},
		ErrorFrequency:     ErrorFrequency{},
		ContentPreferences: []ContentPreference{},
		EmotionalState:     EmotionNeutral,
		TaskHistory:        []TaskAttempt{},
		AssignedTasks:      map[string][]int{},
		Level:              1,
		Achievements:       []string{},
		LastUpdated:        time.Now(),
	}
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.TopicMastery = maps.Clone(p.TopicMastery)
	c.ErrorHistory = slices.Clone(p.ErrorHistory)
	c.ErrorFrequency = slices.Clone(p.ErrorFrequency)
	c.ContentPreferences = slices.Clone(p.ContentPreferences)
	c.TaskHistory = make([]TaskAttempt, len(p.TaskHistory))
	for i, a := range p.TaskHistory {
		c.TaskHistory[i] = a.clone()
	}
	c.AssignedTasks = make(map[string][]int, len(p.AssignedTasks))
	for topic, ids := range p.AssignedTasks {
		c.AssignedTasks[topic] = slices.Clone(ids)
	}
	c.Achievements = slices.Clone(p.Achievements)
	c.normalize()
	return &c
}

// normalize replaces nil collections with empty ones so that serialized
// profiles always carry every field.
func (p *Profile) normalize() {
	if p.TopicMastery == nil {
		p.TopicMastery = map[string]float64{}
	}
	if p.ErrorHistory == nil {
		p.ErrorHistory = []ErrorAnalysis{}
	}
	if p.ErrorFrequency == nil {
		p.ErrorFrequency = ErrorFrequency{}
	}
	if p.ContentPreferences == nil {
		p.ContentPreferences = []ContentPreference{}
	}
	if p.TaskHistory == nil {
		p.TaskHistory = []TaskAttempt{}
	}
	if p.AssignedTasks == nil {
		p.AssignedTasks = map[string][]int{}
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	if p.EmotionalState == "" {
		p.EmotionalState = EmotionNeutral
	}
	if p.Level == 0 {
		p.Level = 1
	}
}

func (a TaskAttempt) clone() TaskAttempt {
	if a.UserAnswer != nil {
		v := *a.UserAnswer
		a.UserAnswer = &v
	}
	if a.TimeSpentSeconds != nil {
		v := *a.TimeSpentSeconds
		a.TimeSpentSeconds = &v
	}
	if a.ErrorAnalysis != nil {
		ea := *a.ErrorAnalysis
		a.ErrorAnalysis = &ea
	}
	return a
}

// HasAchievement reports whether name has been unlocked.
func (p *Profile) HasAchievement(name string) bool {
	return slices.Contains(p.Achievements, name)
}

// RecentAttempts returns the last n attempts, or the full history when it is
// shorter than n.
func (p *Profile) RecentAttempts(n int) []TaskAttempt {
	if len(p.TaskHistory) <= n {
		return p.TaskHistory
	}
	return p.TaskHistory[len(p.TaskHistory)-n:]
}

// LastAttempt returns the most recent attempt, if any.
func (p *Profile) LastAttempt() (TaskAttempt, bool) {
	if len(p.TaskHistory) == 0 {
		return TaskAttempt{}, false
	}
	return p.TaskHistory[len(p.TaskHistory)-1], true
}

// CorrectRate returns the fraction of correct attempts in [0, 1]. It returns
// 0 for an empty slice.
func CorrectRate(attempts []TaskAttempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	correct := 0
	for _, a := range attempts {
		if a.IsCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(attempts))
}

// LevelForPoints derives the level from points.
func LevelForPoints(points int) int {
	return min(points/100+1, MaxLevel)
}
