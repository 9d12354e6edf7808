package diagnosis

import "github.com/abhisek/adapted/internal/profile"

// DefaultRemediation is returned for tags without a dedicated entry.
const DefaultRemediation = "Keep practicing. Mistakes are part of learning!"

// remediations maps each error tag to its canned remediation text.
var remediations = map[profile.ErrorTag]string{
	profile.ErrorCarelessness:     "Slow down and double-check your answer before submitting.",
	profile.ErrorCalculation:      "Practice the basic operations. It may help to revisit the fundamentals.",
	profile.ErrorMissingFormula:   "Review the core formulas and methods for this kind of problem.",
	profile.ErrorConceptConfusion: "Study the underlying concept and work through step-by-step examples.",
	profile.ErrorLogicGap:         "Break the solution into steps. Starting with simpler problems may help.",
}

// Remediate returns the remediation text for tag.
func Remediate(tag profile.ErrorTag) string {
	if r, ok := remediations[tag]; ok {
		return r
	}
	return DefaultRemediation
}
