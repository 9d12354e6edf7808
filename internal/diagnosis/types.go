package diagnosis

import "github.com/abhisek/adapted/internal/profile"

// ClassifyInput holds the answer being classified.
type ClassifyInput struct {
	UserAnswer    *int // nil when the learner gave no answer
	CorrectAnswer int
	Question      string
}

// diff returns |UserAnswer - CorrectAnswer|. UserAnswer must be set.
func (in *ClassifyInput) diff() int {
	d := *in.UserAnswer - in.CorrectAnswer
	if d < 0 {
		return -d
	}
	return d
}

// Result is the output of analyzing a wrong answer.
type Result struct {
	Tag            profile.ErrorTag
	Justification  string
	Remediation    string
	ClassifierName string
}

// ErrorAnalysis converts r into the record stored on a profile.
func (r *Result) ErrorAnalysis() profile.ErrorAnalysis {
	return profile.ErrorAnalysis{
		Tag:           r.Tag,
		Justification: r.Justification,
		Remediation:   r.Remediation,
	}
}
