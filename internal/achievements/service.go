package achievements

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/profile"
	"github.com/abhisek/adapted/internal/store"
)

// Service records achievement unlocks.
type Service struct {
	eventRepo store.EventRepo
	logger    *zap.Logger
}

// NewService creates an achievements service. eventRepo may be nil, in which
// case unlocks are only logged.
func NewService(eventRepo store.EventRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{eventRepo: eventRepo, logger: logger.Named("achievements")}
}

// Record persists one event per unlocked achievement for p.
func (s *Service) Record(ctx context.Context, p *profile.Profile, unlocked []Achievement) {
	for _, a := range unlocked {
		s.logger.Info("achievement unlocked",
			zap.String("user_id", p.UserID),
			zap.String("achievement", string(a)),
			zap.Int("points", p.Points),
		)
		s.persist(ctx, p, a)
	}
}

// Counts returns how many times each achievement has been unlocked across
// all users.
func (s *Service) Counts(ctx context.Context) (map[string]int, int, error) {
	if s.eventRepo == nil {
		return map[string]int{}, 0, nil
	}
	return s.eventRepo.AchievementCounts(ctx)
}

func (s *Service) persist(ctx context.Context, p *profile.Profile, a Achievement) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.AppendAchievementEvent(ctx, store.AchievementEventData{
		UserID:      p.UserID,
		Achievement: string(a),
		Points:      p.Points,
		Level:       p.Level,
	})
	if err != nil {
		s.logger.Warn("failed to record achievement event", zap.Error(err))
	}
}
