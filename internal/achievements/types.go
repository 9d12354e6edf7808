package achievements

// Achievement names a one-time milestone. Values are stored on profiles as
// plain strings.
type Achievement string

const (
	FirstSteps     Achievement = "first_steps"
	SteadyProgress Achievement = "steady_progress"
	HighAchiever   Achievement = "high_achiever"
)

// All returns every achievement in unlock-check order.
func All() []Achievement {
	return []Achievement{FirstSteps, SteadyProgress, HighAchiever}
}

// DisplayName returns a human-readable label for the achievement.
func (a Achievement) DisplayName() string {
	switch a {
	case FirstSteps:
		return "First Steps"
	case SteadyProgress:
		return "Steady Progress"
	case HighAchiever:
		return "High Achiever"
	default:
		return string(a)
	}
}

// Icon returns the display icon for the achievement.
func (a Achievement) Icon() string {
	switch a {
	case FirstSteps:
		return "👣"
	case SteadyProgress:
		return "📈"
	case HighAchiever:
		return "🏅"
	default:
		return "✦"
	}
}

// Description explains how the achievement is earned.
func (a Achievement) Description() string {
	switch a {
	case FirstSteps:
		return "Earn 50 points"
	case SteadyProgress:
		return "Earn 200 points"
	case HighAchiever:
		return "Reach 80% overall accuracy"
	default:
		return ""
	}
}
