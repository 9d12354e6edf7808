package diagnosis

import "github.com/abhisek/adapted/internal/profile"

// Classifier is a rule-based error classifier.
// Returns a tag and justification, or ("", "") if the rule doesn't apply.
type Classifier interface {
	Name() string
	Classify(input *ClassifyInput) (profile.ErrorTag, string)
}

// DefaultClassifiers returns classifiers in priority order. The last one
// always matches.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&NotAttemptedClassifier{},
		&OffByOneClassifier{},
		&LargeDeviationClassifier{},
		&PlaceValueClassifier{},
		&OperatorClassifier{},
		&FallbackClassifier{},
	}
}

// RunClassifiers executes rule-based classifiers in order.
// Returns the first match, or ("", "", "") if no rules apply.
func RunClassifiers(classifiers []Classifier, input *ClassifyInput) (profile.ErrorTag, string, string) {
	for _, c := range classifiers {
		tag, why := c.Classify(input)
		if tag != "" {
			return tag, why, c.Name()
		}
	}
	return "", "", ""
}
