package profile

// ErrorTag classifies a wrong answer.
type ErrorTag string

const (
	ErrorMissingFormula   ErrorTag = "missing_formula"
	ErrorConceptConfusion ErrorTag = "concept_confusion"
	ErrorCarelessness     ErrorTag = "carelessness"
	ErrorLogicGap         ErrorTag = "logic_gap"
	ErrorCalculation      ErrorTag = "calculation_error"
	ErrorNotAttempted     ErrorTag = "not_attempted"
)

// AllErrorTags returns every error tag in declaration order.
func AllErrorTags() []ErrorTag {
	return []ErrorTag{
		ErrorMissingFormula,
		ErrorConceptConfusion,
		ErrorCarelessness,
		ErrorLogicGap,
		ErrorCalculation,
		ErrorNotAttempted,
	}
}

// Valid reports whether t is a known tag.
func (t ErrorTag) Valid() bool {
	for _, known := range AllErrorTags() {
		if t == known {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable label for the tag.
func (t ErrorTag) DisplayName() string {
	switch t {
	case ErrorMissingFormula:
		return "Missing formula"
	case ErrorConceptConfusion:
		return "Concept confusion"
	case ErrorCarelessness:
		return "Carelessness"
	case ErrorLogicGap:
		return "Logic gap"
	case ErrorCalculation:
		return "Calculation error"
	case ErrorNotAttempted:
		return "Not attempted"
	default:
		return string(t)
	}
}

// LearningStyle is the detected preferred way of learning. The zero value
// means the style has not been detected yet.
type LearningStyle string

const (
	StyleUnset       LearningStyle = ""
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleKinesthetic LearningStyle = "kinesthetic"
	StyleReading     LearningStyle = "reading"
)

// ContentPreference is a preferred content format.
type ContentPreference string

const (
	ContentVideo       ContentPreference = "video"
	ContentText        ContentPreference = "text"
	ContentInteractive ContentPreference = "interactive"
	ContentMiniTest    ContentPreference = "mini_test"
)

// EmotionalState is a coarse mood derived from recent accuracy.
type EmotionalState string

const (
	EmotionConfident  EmotionalState = "confident"
	EmotionNeutral    EmotionalState = "neutral"
	EmotionFrustrated EmotionalState = "frustrated"
	EmotionEncouraged EmotionalState = "encouraged"
	EmotionMotivated  EmotionalState = "motivated"
)
