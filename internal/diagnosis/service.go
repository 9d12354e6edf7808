package diagnosis

import (
	"go.uber.org/zap"
)

// Service classifies wrong answers with rule-based classifiers.
type Service struct {
	classifiers []Classifier
	logger      *zap.Logger
}

// NewService creates a diagnosis service using DefaultClassifiers.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		classifiers: DefaultClassifiers(),
		logger:      logger.Named("diagnosis"),
	}
}

// Analyze classifies an answer. It returns nil when the answer is correct.
func (s *Service) Analyze(input *ClassifyInput) *Result {
	if input.UserAnswer != nil && *input.UserAnswer == input.CorrectAnswer {
		return nil
	}

	tag, why, name := RunClassifiers(s.classifiers, input)
	result := &Result{
		Tag:            tag,
		Justification:  why,
		Remediation:    Remediate(tag),
		ClassifierName: name,
	}
	s.logger.Debug("answer classified",
		zap.String("question", input.Question),
		zap.String("tag", string(tag)),
		zap.String("classifier", name),
	)
	return result
}
