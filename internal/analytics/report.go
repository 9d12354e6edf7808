// Package analytics aggregates learner profiles into class reports.
package analytics

import (
	"fmt"
	"math"

	"github.com/abhisek/adapted/internal/profile"
)

// Kind selects the report layout.
type Kind string

const (
	KindSummary    Kind = "summary"
	KindDetailed   Kind = "detailed"
	KindStruggling Kind = "struggling"
)

// ParseKind resolves a report kind. The empty string means summary.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case "":
		return KindSummary, nil
	case KindSummary, KindDetailed, KindStruggling:
		return k, nil
	default:
		return "", fmt.Errorf("unknown report type %q", s)
	}
}

// NoDataMessage is reported when there are no profiles to aggregate.
const NoDataMessage = "No student data available"

// Report is a class report. Exactly one of NoData, Summary or Struggling
// describes the content. Detailed reports carry a Summary plus
// IndividualProfiles and keep the "summary" report type.
type Report struct {
	Kind       Kind   `json:"-"`
	ReportType string `json:"report_type,omitempty"`
	NoData     bool   `json:"no_data,omitempty"`
	Error      string `json:"error,omitempty"`

	*Summary
	IndividualProfiles []StudentRecord `json:"individual_profiles,omitempty"`
	*Struggling
}

// Summary holds class-wide statistics.
type Summary struct {
	ClassStatistics  ClassStatistics        `json:"class_statistics"`
	CommonChallenges profile.ErrorFrequency `json:"common_challenges"`
	Recommendations  []ClassRecommendation  `json:"recommendations"`
}

// ClassStatistics are the aggregate counters of a summary.
type ClassStatistics struct {
	TotalStudents       int         `json:"total_students"`
	TotalTasksCompleted int         `json:"total_tasks_completed"`
	AverageAccuracy     float64     `json:"average_accuracy"`
	LevelDistribution   map[int]int `json:"level_distribution"`
}

// ClassRecommendation is a teacher-facing action item.
type ClassRecommendation struct {
	Priority string `json:"priority"`
	Topic    string `json:"topic"`
	Action   string `json:"action"`
}

// StudentRecord is the per-learner row of a detailed report.
type StudentRecord struct {
	UserID           string                 `json:"user_id"`
	AccuracyRate     float64                `json:"accuracy_rate"`
	TotalTasks       int                    `json:"total_tasks"`
	Level            int                    `json:"level"`
	Points           int                    `json:"points"`
	Achievements     []string               `json:"achievements"`
	MostCommonErrors profile.ErrorFrequency `json:"most_common_errors"`
	EmotionalState   profile.EmotionalState `json:"current_emotional_state"`
}

// Struggling lists learners who need support.
type Struggling struct {
	StrugglingCount         int                 `json:"struggling_count"`
	Students                []StrugglingStudent `json:"students"`
	InterventionSuggestions []Intervention      `json:"intervention_suggestions"`
}

// StrugglingStudent is one flagged learner.
type StrugglingStudent struct {
	UserID           string                 `json:"user_id"`
	AccuracyRate     float64                `json:"accuracy_rate"`
	MostCommonErrors profile.ErrorFrequency `json:"most_common_errors"`
	Recommendations  []string               `json:"recommendations"`
}

// Intervention is a suggested teacher action.
type Intervention struct {
	Type        string `json:"type"`
	Student     string `json:"student,omitempty"`
	Description string `json:"description"`
}

const (
	summaryReportType    = "summary"
	strugglingReportType = "struggling_students"
)

const (
	topClassErrors   = 5
	topStudentErrors = 3

	lowClassAccuracy     = 60.0
	strugglingAccuracy   = 50.0
	fundamentalsAccuracy = 40.0
	individualAccuracy   = 30.0
	minPracticeTasks     = 10
	frequentErrorCount   = 5
	groupSupportCount    = 5
)

// Build generates a report of kind over profiles. Zero profiles always
// yield a no-data report.
func Build(profiles []*profile.Profile, kind Kind) Report {
	if len(profiles) == 0 {
		return Report{Kind: kind, NoData: true, Error: NoDataMessage}
	}
	switch kind {
	case KindDetailed:
		return Report{
			Kind:               kind,
			ReportType:         summaryReportType,
			Summary:            summarize(profiles),
			IndividualProfiles: individuals(profiles),
		}
	case KindStruggling:
		return Report{Kind: kind, ReportType: strugglingReportType, Struggling: struggling(profiles)}
	default:
		return Report{Kind: KindSummary, ReportType: summaryReportType, Summary: summarize(profiles)}
	}
}

func summarize(profiles []*profile.Profile) *Summary {
	stats := ClassStatistics{
		TotalStudents:     len(profiles),
		LevelDistribution: map[int]int{},
	}
	for _, p := range profiles {
		stats.TotalTasksCompleted += p.TotalTasksCompleted
		stats.LevelDistribution[p.Level]++
	}
	avg := averageAccuracy(profiles)
	stats.AverageAccuracy = round2(avg)

	common := ClassErrors(profiles)
	return &Summary{
		ClassStatistics:  stats,
		CommonChallenges: common,
		Recommendations:  classRecommendations(common, avg),
	}
}

// ClassErrors sums error frequencies across profiles and returns the most
// common tags. Ties keep first-seen order.
func ClassErrors(profiles []*profile.Profile) profile.ErrorFrequency {
	var total profile.ErrorFrequency
	for _, p := range profiles {
		total.Merge(p.ErrorFrequency)
	}
	top := total.Top(topClassErrors)
	if top == nil {
		top = profile.ErrorFrequency{}
	}
	return top
}

func classRecommendations(common profile.ErrorFrequency, avg float64) []ClassRecommendation {
	recs := []ClassRecommendation{}
	if tag, count, ok := common.MostFrequent(); ok {
		recs = append(recs, ClassRecommendation{
			Priority: "high",
			Topic:    fmt.Sprintf("Topic related to error: %s", tag),
			Action:   fmt.Sprintf("Run an extra session on this topic: %d errors of this type", count),
		})
	}
	if avg < lowClassAccuracy {
		recs = append(recs, ClassRecommendation{
			Priority: "medium",
			Topic:    "General reinforcement of fundamentals",
			Action:   "An elective on basic operations is recommended",
		})
	}
	return recs
}

func individuals(profiles []*profile.Profile) []StudentRecord {
	out := make([]StudentRecord, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, StudentRecord{
			UserID:           p.UserID,
			AccuracyRate:     round2(p.AccuracyRate),
			TotalTasks:       p.TotalTasksCompleted,
			Level:            p.Level,
			Points:           p.Points,
			Achievements:     p.Achievements,
			MostCommonErrors: p.ErrorFrequency.Top(topStudentErrors),
			EmotionalState:   p.EmotionalState,
		})
	}
	return out
}

// IsStruggling reports whether p needs support. The history-versus-total
// clause cannot fire while total_tasks_completed tracks the history length;
// it is kept so that imported profiles with inconsistent counters are still
// flagged.
func IsStruggling(p *profile.Profile) bool {
	if p.AccuracyRate < strugglingAccuracy {
		return true
	}
	if len(p.TaskHistory) > minPracticeTasks && p.TotalTasksCompleted < 5 {
		return true
	}
	for _, e := range p.ErrorFrequency {
		if e.Count > frequentErrorCount {
			return true
		}
	}
	return false
}

func struggling(profiles []*profile.Profile) *Struggling {
	students := []StrugglingStudent{}
	for _, p := range profiles {
		if !IsStruggling(p) {
			continue
		}
		students = append(students, StrugglingStudent{
			UserID:           p.UserID,
			AccuracyRate:     round2(p.AccuracyRate),
			MostCommonErrors: p.ErrorFrequency.Top(topStudentErrors),
			Recommendations:  studentRecommendations(p),
		})
	}
	return &Struggling{
		StrugglingCount:         len(students),
		Students:                students,
		InterventionSuggestions: interventions(students),
	}
}

func studentRecommendations(p *profile.Profile) []string {
	recs := []string{}
	if p.AccuracyRate < fundamentalsAccuracy {
		recs = append(recs, "Math fundamentals need reinforcement")
	}
	if tag, _, ok := p.ErrorFrequency.MostFrequent(); ok {
		recs = append(recs, fmt.Sprintf("Frequent error: %s. Needs additional practice.", tag))
	}
	if n := len(p.TaskHistory); n > 0 && n < minPracticeTasks {
		recs = append(recs, "Not enough practice. More tasks are recommended.")
	}
	return recs
}

func interventions(students []StrugglingStudent) []Intervention {
	out := []Intervention{}
	if len(students) > groupSupportCount {
		out = append(out, Intervention{
			Type:        "group_support",
			Description: fmt.Sprintf("%d students in the class need extra support. A group session is recommended.", len(students)),
		})
	}
	for _, s := range students {
		if s.AccuracyRate < individualAccuracy {
			out = append(out, Intervention{
				Type:        "individual_support",
				Student:     s.UserID,
				Description: "Individual support and consultation needed",
			})
		}
	}
	return out
}

func averageAccuracy(profiles []*profile.Profile) float64 {
	sum := 0.0
	for _, p := range profiles {
		sum += p.AccuracyRate
	}
	return sum / float64(len(profiles))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
