package diagnosis

import (
	"strings"

	"github.com/abhisek/adapted/internal/profile"
)

// operatorSymbols are the arithmetic operators recognized in question text.
const operatorSymbols = "+-−×*÷/"

// NotAttemptedClassifier matches answers that were never given.
type NotAttemptedClassifier struct{}

func (c *NotAttemptedClassifier) Name() string { return "not-attempted" }

func (c *NotAttemptedClassifier) Classify(input *ClassifyInput) (profile.ErrorTag, string) {
	if input.UserAnswer == nil {
		return profile.ErrorNotAttempted, "No answer was submitted."
	}
	return "", ""
}

// OffByOneClassifier treats an answer one away from correct as a slip.
type OffByOneClassifier struct{}

func (c *OffByOneClassifier) Name() string { return "off-by-one" }

func (c *OffByOneClassifier) Classify(input *ClassifyInput) (profile.ErrorTag, string) {
	if input.UserAnswer != nil && input.diff() == 1 {
		return profile.ErrorCarelessness, "Off by one. Most likely a slip in the calculation."
	}
	return "", ""
}

// LargeDeviationClassifier flags answers far from correct, measured against
// the learner's own answer. Negative or zero answers always match.
type LargeDeviationClassifier struct{}

func (c *LargeDeviationClassifier) Name() string { return "large-deviation" }

func (c *LargeDeviationClassifier) Classify(input *ClassifyInput) (profile.ErrorTag, string) {
	if input.UserAnswer != nil && float64(input.diff()) > float64(*input.UserAnswer)*0.5 {
		return profile.ErrorLogicGap, "Large deviation from the correct answer points to a gap in the reasoning."
	}
	return "", ""
}

// PlaceValueClassifier matches answers off by a multiple of ten.
type PlaceValueClassifier struct{}

func (c *PlaceValueClassifier) Name() string { return "place-value" }

func (c *PlaceValueClassifier) Classify(input *ClassifyInput) (profile.ErrorTag, string) {
	if input.UserAnswer != nil && input.diff()%10 == 0 {
		return profile.ErrorCarelessness, "Off by a multiple of ten. Likely a place-value slip."
	}
	return "", ""
}

// OperatorClassifier matches arithmetic questions.
type OperatorClassifier struct{}

func (c *OperatorClassifier) Name() string { return "operator" }

func (c *OperatorClassifier) Classify(input *ClassifyInput) (profile.ErrorTag, string) {
	if strings.ContainsAny(input.Question, operatorSymbols) {
		return profile.ErrorCalculation, "Mistake in the arithmetic itself."
	}
	return "", ""
}

// FallbackClassifier matches everything.
type FallbackClassifier struct{}

func (c *FallbackClassifier) Name() string { return "fallback" }

func (c *FallbackClassifier) Classify(*ClassifyInput) (profile.ErrorTag, string) {
	return profile.ErrorConceptConfusion, "The idea behind the task was misunderstood."
}
